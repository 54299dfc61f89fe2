package render

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"unicode/utf16"
)

// RTF writes Rich Text Format documents. RTF cannot draw, so charts and maps
// degrade to tables.
type RTF struct{}

func (RTF) Name() string      { return "rtf" }
func (RTF) Extension() string { return "rtf" }

func (RTF) NewWriter(w io.Writer) (DocWriter, error) {
	return &rtfWriter{out: w}, nil
}

// rtfTextWidth is the printable width of a Letter page with 1in margins,
// in twips.
const rtfTextWidth = 9360

// rtfWriter buffers the whole document and writes it on Close.
type rtfWriter struct {
	out io.Writer
	buf bytes.Buffer
}

func (r *rtfWriter) Open(meta Meta) error {
	g := meta.Generated
	r.buf.WriteString(`{\rtf1\ansi\ansicpg1252\deff0`)
	r.buf.WriteString(`{\fonttbl{\f0\fswiss Helvetica;}}`)
	fmt.Fprintf(&r.buf, `{\info{\title %s}{\creatim\yr%d\mo%d\dy%d\hr%d\min%d}}`,
		rtfEscape(meta.Title), g.Year(), int(g.Month()), g.Day(), g.Hour(), g.Minute())
	r.buf.WriteString("\n")
	return nil
}

func (r *rtfWriter) Heading(level int, text string) error {
	size := 26
	if level <= 1 {
		size = 32
	}
	fmt.Fprintf(&r.buf, "{\\pard\\sb240\\sa120\\b\\fs%d %s\\par}\n", size, rtfEscape(text))
	return nil
}

func (r *rtfWriter) Paragraph(text string) error {
	fmt.Fprintf(&r.buf, "{\\pard\\sa120\\fs20 %s\\par}\n", rtfEscape(text))
	return nil
}

func (r *rtfWriter) Table(t TableData) error {
	cols := len(t.Headers)
	if cols == 0 {
		return fmt.Errorf("table without columns")
	}
	width := rtfTextWidth / cols

	r.row(t.Headers, width, true)
	for i, row := range t.Rows {
		if len(row) != cols {
			return fmt.Errorf("row %d has %d cells for %d columns", i, len(row), cols)
		}
		r.row(row, width, false)
	}
	if t.Footer != nil {
		r.row(t.Footer, width, true)
	}
	r.buf.WriteString("\\pard\\par\n")
	return nil
}

func (r *rtfWriter) row(cells []string, width int, bold bool) {
	r.buf.WriteString(`\trowd\trgaph108`)
	for i := range cells {
		fmt.Fprintf(&r.buf, `\clbrdrt\brdrs\clbrdrl\brdrs\clbrdrb\brdrs\clbrdrr\brdrs\cellx%d`, width*(i+1))
	}
	r.buf.WriteString("\n\\pard\\intbl\\fs18 ")
	for _, c := range cells {
		if bold {
			fmt.Fprintf(&r.buf, `{\b %s}\cell `, rtfEscape(c))
		} else {
			fmt.Fprintf(&r.buf, `%s\cell `, rtfEscape(c))
		}
	}
	r.buf.WriteString("\\row\n")
}

func (r *rtfWriter) Close() error {
	r.buf.WriteString("}\n")
	_, err := r.out.Write(r.buf.Bytes())
	return err
}

func (r *rtfWriter) Abort() {
	r.buf.Reset()
}

// rtfEscape quotes control characters and writes non-ASCII runes as \u
// escapes with a '?' fallback.
func rtfEscape(s string) string {
	var b strings.Builder
	for _, c := range s {
		switch {
		case c == '\\' || c == '{' || c == '}':
			b.WriteByte('\\')
			b.WriteRune(c)
		case c == '\n':
			b.WriteString(`\line `)
		case c == '\t':
			b.WriteString(`\tab `)
		case c < 0x20:
		case c < 0x80:
			b.WriteRune(c)
		default:
			for _, u := range utf16.Encode([]rune{c}) {
				fmt.Fprintf(&b, `\u%d?`, int16(u))
			}
		}
	}
	return b.String()
}
