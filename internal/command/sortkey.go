package command

import "github.com/VladmirB/sigmah/internal/dto"

// SortKey is the resolved meaning of a sort field name.
//
// Variants: ColumnKey, IndicatorKey, AdminLevelKey.
type SortKey interface {
	sortKey()
}

// ColumnKey sorts by a fixed column of the site table.
type ColumnKey struct {
	Field string // logical site table field, e.g. "date1"
}

func (ColumnKey) sortKey() {}

// IndicatorKey sorts by a site's indicator value.
type IndicatorKey struct {
	IndicatorID int
}

func (IndicatorKey) sortKey() {}

// AdminLevelKey sorts by the name of a site's admin entity at a level.
type AdminLevelKey struct {
	LevelID int
}

func (AdminLevelKey) sortKey() {}

// sortColumns maps grid column names to site table fields.
var sortColumns = map[string]string{
	"date1":        "date1",
	"date2":        "date2",
	"locationName": "location_name",
	"partner":      "partner_name",
	"locationAxe":  "location_axe",
}

// ParseSortKey resolves a grid column name. Fixed columns are matched
// exactly, "I<id>" names an indicator and "a<id>" an admin level.
//
// Unrecognized names return ok == false; callers apply no ordering for them
// rather than failing the request.
func ParseSortKey(field string) (SortKey, bool) {
	if col, ok := sortColumns[field]; ok {
		return ColumnKey{Field: col}, true
	}
	if id, ok := dto.IndicatorIDForPropertyName(field); ok {
		return IndicatorKey{IndicatorID: id}, true
	}
	if id, ok := dto.LevelIDForPropertyName(field); ok {
		return AdminLevelKey{LevelID: id}, true
	}
	return nil, false
}
