// Package report defines the report element tree, loads report definitions
// from YAML or CUE, and fills table elements from site queries.
package report

import "github.com/VladmirB/sigmah/internal/command"

// Node is anything a renderer accepts as its root: a *Report or a single
// Element.
type Node interface {
	reportNode()
}

// Element is one child of a report.
//
// Variants: *PivotTable, *PivotChart, *Map, *Table, *Unsupported.
type Element interface {
	Node
	Kind() string
}

// Element kinds as written in report definitions.
const (
	KindPivotTable = "pivot_table"
	KindChart      = "chart"
	KindMap        = "map"
	KindTable      = "table"
)

// Report is the root of a composite report.
type Report struct {
	Title              string
	Description        string
	FilterDescriptions []string
	Elements           []Element
}

func (*Report) reportNode() {}

// PivotTable is a two-dimensional cross tabulation. Values[i][j] is the cell
// of Rows[i] and Columns[j]; nil cells are empty.
type PivotTable struct {
	Title     string
	RowHeader string
	Rows      []string
	Columns   []string
	Values    [][]*float64
}

func (*PivotTable) reportNode()  {}
func (*PivotTable) Kind() string { return KindPivotTable }

// Series is one named row of chart values, aligned with the categories.
type Series struct {
	Name   string    `json:"name" yaml:"name"`
	Values []float64 `json:"values" yaml:"values"`
}

// PivotChart is a bar chart of one or more series over categories.
type PivotChart struct {
	Title      string
	Categories []string
	Series     []Series
}

func (*PivotChart) reportNode()  {}
func (*PivotChart) Kind() string { return KindChart }

// Marker is a labelled point, in longitude (X) and latitude (Y).
type Marker struct {
	Label string   `json:"label" yaml:"label"`
	X     float64  `json:"x" yaml:"x"`
	Y     float64  `json:"y" yaml:"y"`
	Value *float64 `json:"value,omitempty" yaml:"value,omitempty"`
}

// Map plots markers.
type Map struct {
	Title   string
	Markers []Marker
}

func (*Map) reportNode()  {}
func (*Map) Kind() string { return KindMap }

// Table lists sites. Columns are grid property names ("locationName",
// "I12", "a3", ...). Headers and Rows are filled by a Generator from Query.
type Table struct {
	Title   string
	Columns []string
	Query   *command.GetSites

	Headers []string
	Rows    [][]string
}

func (*Table) reportNode()  {}
func (*Table) Kind() string { return KindTable }

// Unsupported stands for an element whose kind this version cannot render.
// Renderers skip it.
type Unsupported struct {
	Name string
}

func (*Unsupported) reportNode()    {}
func (u *Unsupported) Kind() string { return u.Name }
