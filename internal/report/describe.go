package report

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/VladmirB/sigmah/internal/filter"
)

var dimensionLabels = map[filter.Dimension]string{
	filter.DimensionDatabase:    "Databases",
	filter.DimensionActivity:    "Activities",
	filter.DimensionIndicator:   "Indicators",
	filter.DimensionPartner:     "Partners",
	filter.DimensionAdminEntity: "Admin areas",
	filter.DimensionSite:        "Sites",
	filter.DimensionLocation:    "Locations",
	filter.DimensionAttribute:   "Attributes",
}

// NameResolver maps restricted ids to display names. Missing names fall back
// to the id.
type NameResolver interface {
	Name(d filter.Dimension, id int) (string, bool)
}

// DescribeFilter returns one human-readable line per restriction of p, in
// dimension order, then the date range. A nil resolver prints ids.
func DescribeFilter(p *filter.Pivot, names NameResolver) []string {
	if p.IsEmpty() {
		return []string{}
	}

	lines := []string{}
	for _, d := range p.Dimensions() {
		values := make([]string, 0, len(p.Restrictions[d]))
		for _, id := range p.Restrictions[d] {
			name := strconv.Itoa(id)
			if names != nil {
				if n, ok := names.Name(d, id); ok {
					name = n
				}
			}
			values = append(values, name)
		}
		label, ok := dimensionLabels[d]
		if !ok {
			label = string(d)
		}
		lines = append(lines, fmt.Sprintf("%s: %s", label, strings.Join(values, ", ")))
	}

	const day = "2006-01-02"
	switch {
	case p.MinDate != nil && p.MaxDate != nil:
		lines = append(lines, fmt.Sprintf("Dates: %s to %s", p.MinDate.Format(day), p.MaxDate.Format(day)))
	case p.MinDate != nil:
		lines = append(lines, fmt.Sprintf("Dates: from %s", p.MinDate.Format(day)))
	case p.MaxDate != nil:
		lines = append(lines, fmt.Sprintf("Dates: until %s", p.MaxDate.Format(day)))
	}
	return lines
}
