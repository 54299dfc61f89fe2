package render

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/VladmirB/sigmah/internal/report"
)

func TestRTF_Document(t *testing.T) {
	out := renderString(t, RTF{}, sampleReport())

	assert.True(t, strings.HasPrefix(out, `{\rtf1\ansi`), out)
	assert.True(t, strings.HasSuffix(out, "}\n"))
	assert.Contains(t, out, `{\title NFI distributions}`)
	assert.Contains(t, out, `{\creatim\yr2009\mo4\dy1\hr10\min30}`)
	assert.Contains(t, out, `{\b Province}\cell `)
	assert.Contains(t, out, `Sud Kivu\cell 300\cell \cell 300\cell \row`)
	// charts and maps come out as tables
	assert.Contains(t, out, `Baches\cell 450\cell 100\cell \row`)
	assert.Contains(t, out, `Boga\cell 29.1\cell -2.3\cell \cell \row`)
	assert.Equal(t, strings.Count(out, "{"), strings.Count(out, "}"))
}

func TestRTF_Escape(t *testing.T) {
	tests := map[string]string{
		`plain`:   `plain`,
		`a{b}\c`:  `a\{b\}\\c`,
		"été":     `\u233?t\u233?`,
		"line\nx": `line\line x`,
		"😀":       `\u-10179?\u-8704?`,
	}
	for in, want := range tests {
		assert.Equal(t, want, rtfEscape(in), in)
	}
}

func TestRTF_RowWidthMismatch(t *testing.T) {
	w := &rtfWriter{out: &bytes.Buffer{}}
	require.NoError(t, w.Open(Meta{Title: "t"}))

	err := w.Table(TableData{Headers: []string{"a", "b"}, Rows: [][]string{{"1"}}})
	assert.ErrorContains(t, err, "row 0 has 1 cells for 2 columns")
}

func TestPDF_Document(t *testing.T) {
	out := renderString(t, PDF{}, sampleReport())

	assert.True(t, strings.HasPrefix(out, "%PDF-"))
	assert.Contains(t, out, "%%EOF")
}

func TestPDF_LongTableBreaksPages(t *testing.T) {
	rows := make([][]string, 200)
	for i := range rows {
		rows[i] = []string{"Kitchanga", "Solidarités internationales et une très longue raison sociale", "2009-03-01"}
	}
	table := &report.Table{Title: "Long", Headers: []string{"Location", "Partner", "Start"}, Rows: rows}

	var buf bytes.Buffer
	err := newTestRenderer(PDF{}).Render(context.Background(), table, &buf)

	require.NoError(t, err)
	assert.Greater(t, bytes.Count(buf.Bytes(), []byte("/Type /Page\n")), 1)
}
