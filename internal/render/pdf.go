package render

import (
	"fmt"
	"io"
	"math"

	"github.com/go-pdf/fpdf"

	"github.com/VladmirB/sigmah/internal/report"
)

// PDF writes A4 portrait PDF documents with the core Helvetica font.
type PDF struct{}

func (PDF) Name() string      { return "pdf" }
func (PDF) Extension() string { return "pdf" }

func (PDF) NewWriter(w io.Writer) (DocWriter, error) {
	return &pdfWriter{out: w}, nil
}

const (
	pdfFont       = "Helvetica"
	pdfLineHeight = 5.0
	pdfChartH     = 60.0
	pdfPlotH      = 80.0
)

// palette cycles through series and marker colors.
var palette = [][3]int{
	{31, 119, 180},
	{255, 127, 14},
	{44, 160, 44},
	{214, 39, 40},
	{148, 103, 189},
}

// pdfWriter lays out the document in memory; fpdf latches the first error,
// so each step reports doc.Error().
type pdfWriter struct {
	out io.Writer
	doc *fpdf.Fpdf
	tr  func(string) string
}

func (p *pdfWriter) Open(meta Meta) error {
	doc := fpdf.New("P", "mm", "A4", "")
	doc.SetTitle(meta.Title, true)
	doc.SetCreator("activityinfo", true)
	doc.SetCreationDate(meta.Generated)
	doc.SetModificationDate(meta.Generated)
	doc.AddPage()
	p.doc = doc
	p.tr = doc.UnicodeTranslatorFromDescriptor("")
	return doc.Error()
}

func (p *pdfWriter) Heading(level int, text string) error {
	size := 13.0
	if level <= 1 {
		size = 18
	}
	p.doc.SetFont(pdfFont, "B", size)
	p.doc.MultiCell(0, size*0.5, p.tr(text), "", "L", false)
	p.doc.Ln(2)
	return p.doc.Error()
}

func (p *pdfWriter) Paragraph(text string) error {
	p.doc.SetFont(pdfFont, "", 10)
	p.doc.MultiCell(0, pdfLineHeight, p.tr(text), "", "L", false)
	p.doc.Ln(1)
	return p.doc.Error()
}

func (p *pdfWriter) contentWidth() float64 {
	pageW, _ := p.doc.GetPageSize()
	left, _, right, _ := p.doc.GetMargins()
	return pageW - left - right
}

// ensureSpace starts a new page when fewer than h millimetres remain.
func (p *pdfWriter) ensureSpace(h float64) {
	_, pageH := p.doc.GetPageSize()
	_, _, _, bottom := p.doc.GetMargins()
	if p.doc.GetY()+h > pageH-bottom {
		p.doc.AddPage()
	}
}

func (p *pdfWriter) Table(t TableData) error {
	cols := len(t.Headers)
	if cols == 0 {
		return fmt.Errorf("table without columns")
	}
	width := p.contentWidth() / float64(cols)

	p.doc.SetFont(pdfFont, "B", 9)
	p.doc.SetFillColor(230, 230, 230)
	p.tableRow(t.Headers, width, true)

	p.doc.SetFont(pdfFont, "", 9)
	for i, row := range t.Rows {
		if len(row) != cols {
			return fmt.Errorf("row %d has %d cells for %d columns", i, len(row), cols)
		}
		p.tableRow(row, width, false)
	}

	if t.Footer != nil {
		p.doc.SetFont(pdfFont, "B", 9)
		p.tableRow(t.Footer, width, true)
	}
	p.doc.Ln(4)
	return p.doc.Error()
}

func (p *pdfWriter) tableRow(cells []string, width float64, fill bool) {
	for i, c := range cells {
		ln := 0
		if i == len(cells)-1 {
			ln = 1
		}
		p.doc.CellFormat(width, 6, p.fit(c, width-2), "1", ln, "L", fill, 0, "")
	}
}

// fit truncates text to the given width in the current font.
func (p *pdfWriter) fit(text string, width float64) string {
	s := p.tr(text)
	if p.doc.GetStringWidth(s) <= width {
		return s
	}
	r := []rune(s)
	for len(r) > 0 && p.doc.GetStringWidth(string(r)+"...") > width {
		r = r[:len(r)-1]
	}
	return string(r) + "..."
}

func (p *pdfWriter) BarChart(c ChartData) error {
	p.ensureSpace(pdfChartH + 20)

	maxValue := 0.0
	for _, s := range c.Series {
		for _, v := range s.Values {
			maxValue = math.Max(maxValue, v)
		}
	}

	left, _, _, _ := p.doc.GetMargins()
	width := p.contentWidth()
	top := p.doc.GetY()
	base := top + pdfChartH

	p.doc.SetDrawColor(0, 0, 0)
	p.doc.Line(left, base, left+width, base)

	if len(c.Categories) > 0 && len(c.Series) > 0 {
		groupW := width / float64(len(c.Categories))
		barW := groupW * 0.8 / float64(len(c.Series))
		p.doc.SetFont(pdfFont, "", 8)
		for i, category := range c.Categories {
			x := left + float64(i)*groupW + groupW*0.1
			for j, s := range c.Series {
				v := 0.0
				if i < len(s.Values) {
					v = s.Values[i]
				}
				if v > 0 && maxValue > 0 {
					h := v / maxValue * (pdfChartH - 5)
					color := palette[j%len(palette)]
					p.doc.SetFillColor(color[0], color[1], color[2])
					p.doc.Rect(x+float64(j)*barW, base-h, barW, h, "F")
				}
			}
			p.doc.Text(x, base+4, p.fit(category, groupW*0.9))
		}
	}

	p.doc.SetY(base + 7)
	p.legend(c.Series)
	return p.doc.Error()
}

func (p *pdfWriter) legend(series []report.Series) {
	p.doc.SetFont(pdfFont, "", 8)
	left, _, _, _ := p.doc.GetMargins()
	for j, s := range series {
		y := p.doc.GetY()
		color := palette[j%len(palette)]
		p.doc.SetFillColor(color[0], color[1], color[2])
		p.doc.Rect(left, y+1, 3, 3, "F")
		p.doc.SetX(left + 5)
		p.doc.CellFormat(0, pdfLineHeight, p.tr(s.Name), "", 1, "L", false, 0, "")
	}
	p.doc.Ln(3)
}

// Plot draws markers in a frame scaled to their bounding box.
func (p *pdfWriter) Plot(markers []report.Marker) error {
	p.ensureSpace(pdfPlotH + 10)

	left, _, _, _ := p.doc.GetMargins()
	width := p.contentWidth()
	top := p.doc.GetY()

	p.doc.SetDrawColor(0, 0, 0)
	p.doc.Rect(left, top, width, pdfPlotH, "D")

	if len(markers) > 0 {
		minX, maxX := markers[0].X, markers[0].X
		minY, maxY := markers[0].Y, markers[0].Y
		for _, m := range markers[1:] {
			minX, maxX = math.Min(minX, m.X), math.Max(maxX, m.X)
			minY, maxY = math.Min(minY, m.Y), math.Max(maxY, m.Y)
		}
		spanX, spanY := math.Max(maxX-minX, 1e-9), math.Max(maxY-minY, 1e-9)

		const pad = 8.0
		p.doc.SetFont(pdfFont, "", 7)
		color := palette[0]
		p.doc.SetFillColor(color[0], color[1], color[2])
		for _, m := range markers {
			x := left + pad + (m.X-minX)/spanX*(width-2*pad)
			// latitude grows northwards, page y grows downwards
			y := top + pad + (maxY-m.Y)/spanY*(pdfPlotH-2*pad)
			p.doc.Circle(x, y, 1.5, "F")
			label := m.Label
			if m.Value != nil {
				label += " (" + formatFloat(*m.Value) + ")"
			}
			p.doc.Text(x+2.5, y+1, p.tr(label))
		}
	}

	p.doc.SetY(top + pdfPlotH + 5)
	return p.doc.Error()
}

func (p *pdfWriter) Close() error {
	if err := p.doc.Error(); err != nil {
		return err
	}
	return p.doc.Output(p.out)
}

func (p *pdfWriter) Abort() {
	p.doc = nil
}
