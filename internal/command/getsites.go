package command

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/VladmirB/sigmah/internal/dto"
	"github.com/VladmirB/sigmah/internal/filter"
)

// GetSites requests one page of sites.
//
// At most one of SiteID, ActivityID and DatabaseID narrows the query; when
// several are set, the first in that order wins.
type GetSites struct {
	SiteID          *int          `json:"site_id,omitempty"`
	ActivityID      *int          `json:"activity_id,omitempty"`
	DatabaseID      *int          `json:"database_id,omitempty"`
	AssessmentsOnly bool          `json:"assessments_only,omitempty"`
	Filter          string        `json:"filter,omitempty"`
	PivotFilter     *filter.Pivot `json:"pivot_filter,omitempty"`
	SortInfo        SortInfo      `json:"sort_info"`
	Offset          int           `json:"offset,omitempty"`
	Limit           int           `json:"limit,omitempty"`
	SeekToSiteID    *int          `json:"seek_to_site_id,omitempty"`
}

// ForActivity returns a request for every site of an activity.
func ForActivity(activityID int) *GetSites {
	return &GetSites{ActivityID: &activityID}
}

// ForDatabase returns a request for every site of a database.
func ForDatabase(databaseID int) *GetSites {
	return &GetSites{DatabaseID: &databaseID}
}

// ForSite returns a request for a single site.
func ForSite(siteID int) *GetSites {
	return &GetSites{SiteID: &siteID}
}

// Validate rejects requests that cannot be executed.
func (c *GetSites) Validate() error {
	if c.Offset < 0 {
		return NewInvalidRequestError("offset", fmt.Sprintf("offset must not be negative, got %d", c.Offset))
	}
	if c.Limit < 0 {
		return NewInvalidRequestError("limit", fmt.Sprintf("limit must not be negative, got %d", c.Limit))
	}
	return nil
}

// SiteResult is one page of sites.
type SiteResult struct {
	Sites       []*dto.Site `json:"sites"`
	Offset      int         `json:"offset"`
	TotalLength int         `json:"total_length"`
}

// SortDir is the direction of a sort.
type SortDir int

const (
	SortNone SortDir = iota
	SortAsc
	SortDesc
)

func (d SortDir) String() string {
	switch d {
	case SortAsc:
		return "ASC"
	case SortDesc:
		return "DESC"
	default:
		return "NONE"
	}
}

// ParseSortDir accepts "asc", "desc", "none" and "" in any case.
func ParseSortDir(s string) (SortDir, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "", "NONE":
		return SortNone, nil
	case "ASC":
		return SortAsc, nil
	case "DESC":
		return SortDesc, nil
	default:
		return SortNone, fmt.Errorf("invalid sort direction %q: must be asc, desc or none", s)
	}
}

func (d SortDir) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *SortDir) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseSortDir(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// SortInfo names the grid column to sort by.
type SortInfo struct {
	Field string  `json:"field,omitempty"`
	Dir   SortDir `json:"dir"`
}

// DecodeMap builds a request from a generic map in the request's JSON shape,
// as decoded from YAML or CUE documents. An empty map is a request with no
// narrowing.
func DecodeMap(raw map[string]any) (*GetSites, error) {
	cmd := &GetSites{}
	if len(raw) == 0 {
		return cmd, nil
	}
	data, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}
	if err := json.Unmarshal(data, cmd); err != nil {
		return nil, fmt.Errorf("decode request: %w", err)
	}
	return cmd, nil
}
