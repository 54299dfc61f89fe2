package render

import (
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/VladmirB/sigmah/internal/report"
)

// Trace is a plain-text outline format listing every writer call. It is
// stable across library versions, which makes it the format of golden
// tests.
type Trace struct{}

func (Trace) Name() string      { return "trace" }
func (Trace) Extension() string { return "txt" }

func (Trace) NewWriter(w io.Writer) (DocWriter, error) {
	return &traceWriter{out: w}, nil
}

type traceWriter struct {
	out io.Writer
	buf bytes.Buffer
}

func (t *traceWriter) line(format string, args ...any) {
	fmt.Fprintf(&t.buf, format+"\n", args...)
}

func (t *traceWriter) Open(meta Meta) error {
	t.line("open title=%q date=%s", meta.Title, meta.Generated.Format("2006-01-02"))
	return nil
}

func (t *traceWriter) Heading(level int, text string) error {
	t.line("heading level=%d text=%q", level, text)
	return nil
}

func (t *traceWriter) Paragraph(text string) error {
	t.line("paragraph text=%q", text)
	return nil
}

func (t *traceWriter) Table(d TableData) error {
	t.line("table cols=%d rows=%d", len(d.Headers), len(d.Rows))
	t.line("  header %s", quoteAll(d.Headers))
	for _, row := range d.Rows {
		t.line("  row %s", quoteAll(row))
	}
	if d.Footer != nil {
		t.line("  footer %s", quoteAll(d.Footer))
	}
	return nil
}

func (t *traceWriter) BarChart(c ChartData) error {
	t.line("chart categories=%d series=%d", len(c.Categories), len(c.Series))
	t.line("  categories %s", quoteAll(c.Categories))
	for _, s := range c.Series {
		values := make([]string, len(s.Values))
		for i, v := range s.Values {
			values[i] = strconv.FormatFloat(v, 'g', -1, 64)
		}
		t.line("  series %q %s", s.Name, strings.Join(values, " "))
	}
	return nil
}

func (t *traceWriter) Plot(markers []report.Marker) error {
	t.line("plot markers=%d", len(markers))
	for _, m := range markers {
		value := "-"
		if m.Value != nil {
			value = strconv.FormatFloat(*m.Value, 'g', -1, 64)
		}
		t.line("  marker %q x=%s y=%s value=%s", m.Label,
			strconv.FormatFloat(m.X, 'g', -1, 64), strconv.FormatFloat(m.Y, 'g', -1, 64), value)
	}
	return nil
}

func (t *traceWriter) Close() error {
	t.line("close")
	_, err := t.out.Write(t.buf.Bytes())
	return err
}

func (t *traceWriter) Abort() {
	t.buf.Reset()
}

func quoteAll(cells []string) string {
	quoted := make([]string, len(cells))
	for i, c := range cells {
		quoted[i] = strconv.Quote(c)
	}
	return strings.Join(quoted, " ")
}
