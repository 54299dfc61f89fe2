package filter

import (
	"encoding/json"
	"fmt"
	"slices"
	"sort"
	"time"

	"github.com/VladmirB/sigmah/internal/criteria"
)

// Dimension is an axis a pivot filter can restrict.
type Dimension string

const (
	DimensionDatabase    Dimension = "database"
	DimensionActivity    Dimension = "activity"
	DimensionIndicator   Dimension = "indicator"
	DimensionPartner     Dimension = "partner"
	DimensionAdminEntity Dimension = "admin_entity"
	DimensionSite        Dimension = "site"
	DimensionLocation    Dimension = "location"
	DimensionAttribute   Dimension = "attribute"
)

// dimensionFields maps each dimension to the site table field it restricts.
var dimensionFields = map[Dimension]string{
	DimensionDatabase:    "database_id",
	DimensionActivity:    "activity_id",
	DimensionIndicator:   "indicator",
	DimensionPartner:     "partner_id",
	DimensionAdminEntity: "admin_entity",
	DimensionSite:        "id",
	DimensionLocation:    "location_id",
	DimensionAttribute:   "attribute",
}

// Pivot is a structured filter: for each restricted dimension, the set of
// allowed ids, plus an optional date range.
type Pivot struct {
	Restrictions map[Dimension][]int `json:"restrictions,omitempty" yaml:"restrictions,omitempty"`
	MinDate      *time.Time          `json:"min_date,omitempty" yaml:"min_date,omitempty"`
	MaxDate      *time.Time          `json:"max_date,omitempty" yaml:"max_date,omitempty"`
}

// NewPivot creates an empty pivot filter.
func NewPivot() *Pivot {
	return &Pivot{Restrictions: make(map[Dimension][]int)}
}

// AddRestriction allows id on dimension d.
func (p *Pivot) AddRestriction(d Dimension, ids ...int) *Pivot {
	if p.Restrictions == nil {
		p.Restrictions = make(map[Dimension][]int)
	}
	for _, id := range ids {
		if !slices.Contains(p.Restrictions[d], id) {
			p.Restrictions[d] = append(p.Restrictions[d], id)
		}
	}
	return p
}

// IsRestricted reports whether d has at least one allowed id.
func (p *Pivot) IsRestricted(d Dimension) bool {
	return len(p.Restrictions[d]) > 0
}

// Dimensions returns the restricted dimensions in a stable order.
func (p *Pivot) Dimensions() []Dimension {
	dims := make([]Dimension, 0, len(p.Restrictions))
	for d, ids := range p.Restrictions {
		if len(ids) > 0 {
			dims = append(dims, d)
		}
	}
	sort.Slice(dims, func(i, j int) bool { return dims[i] < dims[j] })
	return dims
}

// IsEmpty reports whether the filter restricts nothing.
func (p *Pivot) IsEmpty() bool {
	return p == nil || (len(p.Dimensions()) == 0 && p.MinDate == nil && p.MaxDate == nil)
}

// UnmarshalJSON rejects unknown dimensions instead of ignoring them.
// Dates may be RFC 3339 timestamps or bare YYYY-MM-DD days.
func (p *Pivot) UnmarshalJSON(data []byte) error {
	var raw struct {
		Restrictions map[Dimension][]int `json:"restrictions"`
		MinDate      *string             `json:"min_date"`
		MaxDate      *string             `json:"max_date"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	for d := range raw.Restrictions {
		if _, ok := dimensionFields[d]; !ok {
			return fmt.Errorf("unknown pivot dimension %q", d)
		}
	}
	minDate, err := parsePivotDate(raw.MinDate)
	if err != nil {
		return fmt.Errorf("min_date: %w", err)
	}
	maxDate, err := parsePivotDate(raw.MaxDate)
	if err != nil {
		return fmt.Errorf("max_date: %w", err)
	}
	*p = Pivot{Restrictions: raw.Restrictions, MinDate: minDate, MaxDate: maxDate}
	return nil
}

func parsePivotDate(s *string) (*time.Time, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	for _, layout := range []string{time.RFC3339, criteria.DateLayout} {
		if t, err := time.Parse(layout, *s); err == nil {
			return &t, nil
		}
	}
	return nil, fmt.Errorf("invalid date %q", *s)
}
