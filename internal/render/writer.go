package render

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/VladmirB/sigmah/internal/report"
)

// Meta describes the document being written.
type Meta struct {
	Title     string
	Generated time.Time
}

// TableData is a grid of preformatted cells. Footer, when set, is a
// highlighted closing row such as totals.
type TableData struct {
	Headers []string
	Rows    [][]string
	Footer  []string
}

// ChartData is a bar chart of series over categories.
type ChartData struct {
	Categories []string
	Series     []report.Series
}

// DocWriter receives the content of one document.
//
// Open is called first, then any number of content calls, then exactly one
// of Close (emit the document) or Abort (discard it). Content calls after an
// error need not be honoured.
type DocWriter interface {
	Open(meta Meta) error
	Heading(level int, text string) error
	Paragraph(text string) error
	Table(t TableData) error
	Close() error
	Abort()
}

// GraphicsWriter is a DocWriter that can draw charts and marker plots.
type GraphicsWriter interface {
	DocWriter
	BarChart(c ChartData) error
	Plot(markers []report.Marker) error
}

// Format creates writers for one output format.
type Format interface {
	// Name is the format's identifier, also used as the metrics label.
	Name() string
	// Extension is the file extension without the dot.
	Extension() string
	NewWriter(w io.Writer) (DocWriter, error)
}

// Formats by name.
var formats = map[string]Format{
	"pdf":   PDF{},
	"rtf":   RTF{},
	"trace": Trace{},
}

// ParseFormat returns the format named s ("pdf", "rtf" or "trace", any case).
func ParseFormat(s string) (Format, error) {
	f, ok := formats[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return nil, fmt.Errorf("unknown report format %q: must be pdf, rtf or trace", s)
	}
	return f, nil
}
