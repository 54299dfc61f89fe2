package dto

import "time"

// Partner is the shared partner reference of a site row.
type Partner struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// AdminEntity is the shared administrative area reference of a site row.
type AdminEntity struct {
	ID       int    `json:"id"`
	LevelID  int    `json:"level_id"`
	Name     string `json:"name"`
	ParentID *int   `json:"parent_id,omitempty"`
}

// Site is one bound row of a GetSites result.
type Site struct {
	ID           int        `json:"id"`
	ActivityID   int        `json:"activity_id"`
	DatabaseID   int        `json:"database_id"`
	Date1        *time.Time `json:"date1,omitempty"`
	Date2        *time.Time `json:"date2,omitempty"`
	LocationName string     `json:"location_name"`
	LocationAxe  string     `json:"location_axe,omitempty"`
	Status       int        `json:"status"`
	X            *float64   `json:"x,omitempty"`
	Y            *float64   `json:"y,omitempty"`
	Comments     string     `json:"comments,omitempty"`

	Partner       *Partner             `json:"partner"`
	AdminEntities map[int]*AdminEntity `json:"admin_entities,omitempty"`
	Attributes    map[int]bool         `json:"attributes,omitempty"`
	Indicators    map[int]float64      `json:"indicators,omitempty"`
}

// SetAdminEntity records the entity of the given level.
func (s *Site) SetAdminEntity(levelID int, e *AdminEntity) {
	if s.AdminEntities == nil {
		s.AdminEntities = make(map[int]*AdminEntity)
	}
	s.AdminEntities[levelID] = e
}

// AdminEntity returns the site's entity for a level, or nil.
func (s *Site) AdminEntity(levelID int) *AdminEntity {
	return s.AdminEntities[levelID]
}

// SetAttributeValue records a yes/no attribute.
func (s *Site) SetAttributeValue(attributeID int, value bool) {
	if s.Attributes == nil {
		s.Attributes = make(map[int]bool)
	}
	s.Attributes[attributeID] = value
}

// SetIndicatorValue records the aggregated value of an indicator.
func (s *Site) SetIndicatorValue(indicatorID int, value float64) {
	if s.Indicators == nil {
		s.Indicators = make(map[int]float64)
	}
	s.Indicators[indicatorID] = value
}

// IndicatorValue returns the value of an indicator and whether it was set.
func (s *Site) IndicatorValue(indicatorID int) (float64, bool) {
	v, ok := s.Indicators[indicatorID]
	return v, ok
}
