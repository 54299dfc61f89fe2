package dto

import "github.com/VladmirB/sigmah/internal/domain"

// Mapper converts persistent entities into transfer objects.
type Mapper interface {
	AdminEntity(e domain.AdminEntity) *AdminEntity
	Indicator(i domain.Indicator) *Indicator
}

// DefaultMapper copies fields one to one.
type DefaultMapper struct{}

func (DefaultMapper) AdminEntity(e domain.AdminEntity) *AdminEntity {
	out := &AdminEntity{
		ID:      e.ID,
		LevelID: e.LevelID,
		Name:    e.Name,
	}
	if e.ParentID != nil {
		p := *e.ParentID
		out.ParentID = &p
	}
	return out
}

func (DefaultMapper) Indicator(i domain.Indicator) *Indicator {
	return &Indicator{
		ID:          i.ID,
		Name:        i.Name,
		Units:       i.Units,
		ListHeader:  i.Header(),
		Aggregation: i.Aggregation.String(),
	}
}

// Indicator describes an indicator column.
type Indicator struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Units       string `json:"units"`
	ListHeader  string `json:"list_header"`
	Aggregation string `json:"aggregation"`
}

// PropertyName is the grid column name of the indicator.
func (i *Indicator) PropertyName() string {
	return IndicatorPropertyName(i.ID)
}
