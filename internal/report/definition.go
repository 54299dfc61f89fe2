package report

import (
	"fmt"

	"github.com/VladmirB/sigmah/internal/command"
	"github.com/VladmirB/sigmah/internal/filter"
)

// Definition is the serialized form of a report, shared by the YAML and
// CUE loaders.
type Definition struct {
	Title       string              `json:"title" yaml:"title"`
	Description string              `json:"description,omitempty" yaml:"description,omitempty"`
	Filter      *filter.Pivot       `json:"filter,omitempty" yaml:"filter,omitempty"`
	Elements    []ElementDefinition `json:"elements" yaml:"elements"`
}

// ElementDefinition carries the fields of every element kind; Kind selects
// which apply.
type ElementDefinition struct {
	Kind  string `json:"kind" yaml:"kind"`
	Title string `json:"title,omitempty" yaml:"title,omitempty"`

	// pivot_table; table uses Columns for property names
	RowHeader string       `json:"row_header,omitempty" yaml:"row_header,omitempty"`
	Rows      []string     `json:"rows,omitempty" yaml:"rows,omitempty"`
	Columns   []string     `json:"columns,omitempty" yaml:"columns,omitempty"`
	Values    [][]*float64 `json:"values,omitempty" yaml:"values,omitempty"`

	// chart
	Categories []string `json:"categories,omitempty" yaml:"categories,omitempty"`
	Series     []Series `json:"series,omitempty" yaml:"series,omitempty"`

	// map
	Markers []Marker `json:"markers,omitempty" yaml:"markers,omitempty"`

	// table: a GetSites request in its JSON shape
	Query map[string]any `json:"query,omitempty" yaml:"query,omitempty"`
}

// DefinitionError reports an invalid element of a definition.
type DefinitionError struct {
	Index   int
	Kind    string
	Message string
}

func (e *DefinitionError) Error() string {
	return fmt.Sprintf("element %d (%s): %s", e.Index, e.Kind, e.Message)
}

// Build converts the definition into a report tree. Unknown element kinds
// become *Unsupported elements.
func (d *Definition) Build(names NameResolver) (*Report, error) {
	if d.Title == "" {
		return nil, fmt.Errorf("report title is required")
	}
	if _, err := filter.ResolveCriterion(d.Filter); err != nil {
		return nil, fmt.Errorf("report filter: %w", err)
	}

	r := &Report{
		Title:              d.Title,
		Description:        d.Description,
		FilterDescriptions: DescribeFilter(d.Filter, names),
		Elements:           make([]Element, 0, len(d.Elements)),
	}
	for i, def := range d.Elements {
		el, err := def.build(d.Filter)
		if err != nil {
			return nil, &DefinitionError{Index: i, Kind: def.Kind, Message: err.Error()}
		}
		r.Elements = append(r.Elements, el)
	}
	return r, nil
}

func (def ElementDefinition) build(reportFilter *filter.Pivot) (Element, error) {
	switch def.Kind {
	case KindPivotTable:
		if len(def.Values) != len(def.Rows) {
			return nil, fmt.Errorf("%d value rows for %d rows", len(def.Values), len(def.Rows))
		}
		for i, row := range def.Values {
			if len(row) != len(def.Columns) {
				return nil, fmt.Errorf("row %d has %d values for %d columns", i, len(row), len(def.Columns))
			}
		}
		return &PivotTable{
			Title:     def.Title,
			RowHeader: def.RowHeader,
			Rows:      def.Rows,
			Columns:   def.Columns,
			Values:    def.Values,
		}, nil

	case KindChart:
		for _, s := range def.Series {
			if len(s.Values) != len(def.Categories) {
				return nil, fmt.Errorf("series %q has %d values for %d categories", s.Name, len(s.Values), len(def.Categories))
			}
		}
		return &PivotChart{Title: def.Title, Categories: def.Categories, Series: def.Series}, nil

	case KindMap:
		return &Map{Title: def.Title, Markers: def.Markers}, nil

	case KindTable:
		if len(def.Columns) == 0 {
			return nil, fmt.Errorf("table needs at least one column")
		}
		query, err := command.DecodeMap(def.Query)
		if err != nil {
			return nil, fmt.Errorf("query: %w", err)
		}
		if query.PivotFilter == nil && reportFilter != nil {
			query.PivotFilter = reportFilter
		}
		return &Table{Title: def.Title, Columns: def.Columns, Query: query}, nil

	case "":
		return nil, fmt.Errorf("kind is required")

	default:
		return &Unsupported{Name: def.Kind}, nil
	}
}
