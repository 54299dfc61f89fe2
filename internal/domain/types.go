package domain

import "time"

// User identifies the caller of a command. All site reads are scoped to
// what the user may see.
type User struct {
	ID    int    `json:"id" yaml:"id"`
	Email string `json:"email" yaml:"email"`
	Name  string `json:"name" yaml:"name"`
}

// UserDatabase is a container of activities owned by one user.
type UserDatabase struct {
	ID      int    `json:"id" yaml:"id"`
	Name    string `json:"name" yaml:"name"`
	OwnerID int    `json:"owner_id" yaml:"owner_id"`
}

// Activity groups sites that collect the same indicators.
type Activity struct {
	ID         int    `json:"id" yaml:"id"`
	DatabaseID int    `json:"database_id" yaml:"database_id"`
	Name       string `json:"name" yaml:"name"`
	Assessment bool   `json:"assessment" yaml:"assessment"`
	SortOrder  int    `json:"sort_order" yaml:"sort_order"`
}

// Partner is the organisation reporting a site.
type Partner struct {
	ID       int    `json:"id" yaml:"id"`
	Name     string `json:"name" yaml:"name"`
	FullName string `json:"full_name,omitempty" yaml:"full_name,omitempty"`
}

// Location is the place a site is attached to.
type Location struct {
	ID   int      `json:"id" yaml:"id"`
	Name string   `json:"name" yaml:"name"`
	Axe  string   `json:"axe,omitempty" yaml:"axe,omitempty"`
	X    *float64 `json:"x,omitempty" yaml:"x,omitempty"`
	Y    *float64 `json:"y,omitempty" yaml:"y,omitempty"`

	// AdminEntityIDs lists the entities the location falls in, at most
	// one per level.
	AdminEntityIDs []int `json:"admin_entity_ids,omitempty" yaml:"admin_entity_ids,omitempty"`
}

// Site is one reporting unit: a partner's activity at a location over a
// date range.
type Site struct {
	ID         int        `json:"id" yaml:"id"`
	ActivityID int        `json:"activity_id" yaml:"activity_id"`
	PartnerID  int        `json:"partner_id" yaml:"partner_id"`
	LocationID int        `json:"location_id" yaml:"location_id"`
	Date1      *time.Time `json:"date1,omitempty" yaml:"date1,omitempty"`
	Date2      *time.Time `json:"date2,omitempty" yaml:"date2,omitempty"`
	Status     int        `json:"status" yaml:"status"`
	Comments   string     `json:"comments,omitempty" yaml:"comments,omitempty"`
}

// AdminLevel is one tier of the administrative hierarchy (province,
// territory, ...).
type AdminLevel struct {
	ID       int    `json:"id" yaml:"id"`
	Name     string `json:"name" yaml:"name"`
	ParentID *int   `json:"parent_id,omitempty" yaml:"parent_id,omitempty"`
}

// AdminEntity is a named area belonging to an AdminLevel.
type AdminEntity struct {
	ID       int    `json:"id" yaml:"id"`
	LevelID  int    `json:"level_id" yaml:"level_id"`
	Name     string `json:"name" yaml:"name"`
	Code     string `json:"code,omitempty" yaml:"code,omitempty"`
	ParentID *int   `json:"parent_id,omitempty" yaml:"parent_id,omitempty"`
}

// Attribute is a yes/no property a site can carry.
type Attribute struct {
	ID      int    `json:"id" yaml:"id"`
	GroupID int    `json:"group_id" yaml:"group_id"`
	Name    string `json:"name" yaml:"name"`
}

// Permission grants a user visibility on a database, either for one
// partner's sites or for all of them.
type Permission struct {
	UserID       int  `json:"user_id" yaml:"user_id"`
	DatabaseID   int  `json:"database_id" yaml:"database_id"`
	PartnerID    int  `json:"partner_id" yaml:"partner_id"`
	AllowView    bool `json:"allow_view" yaml:"allow_view"`
	AllowViewAll bool `json:"allow_view_all" yaml:"allow_view_all"`
}

// AttributeValue records whether a site carries an attribute.
type AttributeValue struct {
	SiteID      int  `json:"site_id" yaml:"site_id"`
	AttributeID int  `json:"attribute_id" yaml:"attribute_id"`
	Value       bool `json:"value" yaml:"value"`
}

// ReportingPeriod is one submission of indicator values for a site.
type ReportingPeriod struct {
	ID     int        `json:"id" yaml:"id"`
	SiteID int        `json:"site_id" yaml:"site_id"`
	Date1  *time.Time `json:"date1,omitempty" yaml:"date1,omitempty"`
	Date2  *time.Time `json:"date2,omitempty" yaml:"date2,omitempty"`

	// Values maps indicator id to the reported quantity.
	Values map[int]float64 `json:"values,omitempty" yaml:"values,omitempty"`
}
