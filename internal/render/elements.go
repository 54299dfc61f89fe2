package render

import (
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/VladmirB/sigmah/internal/report"
)

func heading(dw DocWriter, title string) error {
	if title == "" {
		return nil
	}
	return dw.Heading(2, title)
}

// renderPivotTable writes the cross tabulation with a total column and a
// total row. Totals are summed in decimal so they match the printed cells.
func renderPivotTable(dw DocWriter, p *report.PivotTable) error {
	if err := heading(dw, p.Title); err != nil {
		return err
	}

	headers := make([]string, 0, len(p.Columns)+2)
	headers = append(headers, p.RowHeader)
	headers = append(headers, p.Columns...)
	headers = append(headers, "Total")

	colTotals := make([]total, len(p.Columns))
	var grand total
	rows := make([][]string, 0, len(p.Rows))
	for i, label := range p.Rows {
		row := make([]string, 0, len(headers))
		row = append(row, label)
		var rowTotal total
		for j := range p.Columns {
			var cell *float64
			if i < len(p.Values) && j < len(p.Values[i]) {
				cell = p.Values[i][j]
			}
			if cell == nil {
				row = append(row, "")
				continue
			}
			d := decimal.NewFromFloat(*cell)
			row = append(row, formatDecimal(d))
			rowTotal.add(d)
			colTotals[j].add(d)
			grand.add(d)
		}
		rows = append(rows, append(row, rowTotal.String()))
	}

	footer := make([]string, 0, len(headers))
	footer = append(footer, "Total")
	for _, t := range colTotals {
		footer = append(footer, t.String())
	}
	footer = append(footer, grand.String())

	return dw.Table(TableData{Headers: headers, Rows: rows, Footer: footer})
}

// total is a decimal sum that prints blank when nothing was added.
type total struct {
	sum decimal.Decimal
	any bool
}

func (t *total) add(d decimal.Decimal) {
	t.sum = t.sum.Add(d)
	t.any = true
}

func (t total) String() string {
	if !t.any {
		return ""
	}
	return formatDecimal(t.sum)
}

func formatDecimal(d decimal.Decimal) string {
	return d.Round(2).String()
}

func formatFloat(v float64) string {
	return formatDecimal(decimal.NewFromFloat(v))
}

func renderChart(dw DocWriter, c *report.PivotChart) error {
	if err := heading(dw, c.Title); err != nil {
		return err
	}
	if gw, ok := dw.(GraphicsWriter); ok {
		return gw.BarChart(ChartData{Categories: c.Categories, Series: c.Series})
	}

	headers := append([]string{"Series"}, c.Categories...)
	rows := make([][]string, 0, len(c.Series))
	for _, s := range c.Series {
		row := make([]string, 0, len(headers))
		row = append(row, s.Name)
		for _, v := range s.Values {
			row = append(row, formatFloat(v))
		}
		rows = append(rows, row)
	}
	return dw.Table(TableData{Headers: headers, Rows: rows})
}

func renderMap(dw DocWriter, m *report.Map) error {
	if err := heading(dw, m.Title); err != nil {
		return err
	}
	if gw, ok := dw.(GraphicsWriter); ok {
		return gw.Plot(m.Markers)
	}

	rows := make([][]string, 0, len(m.Markers))
	for _, mk := range m.Markers {
		value := ""
		if mk.Value != nil {
			value = formatFloat(*mk.Value)
		}
		rows = append(rows, []string{
			mk.Label,
			strconv.FormatFloat(mk.X, 'f', -1, 64),
			strconv.FormatFloat(mk.Y, 'f', -1, 64),
			value,
		})
	}
	return dw.Table(TableData{Headers: []string{"Label", "Longitude", "Latitude", "Value"}, Rows: rows})
}

// renderTable writes a site list. Tables that were never generated fall
// back to their property names as headers.
func renderTable(dw DocWriter, t *report.Table) error {
	if err := heading(dw, t.Title); err != nil {
		return err
	}
	headers := t.Headers
	if len(headers) == 0 {
		headers = t.Columns
	}
	rows := t.Rows
	if rows == nil {
		rows = [][]string{}
	}
	return dw.Table(TableData{Headers: headers, Rows: rows})
}
