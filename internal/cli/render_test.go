package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/VladmirB/sigmah/internal/render"
)

const (
	reportYAML = "../report/testdata/report.yaml"
	reportCUE  = "../report/testdata/report.cue"
)

func TestRender_TraceToStdout(t *testing.T) {
	db := seededDB(t)

	for _, def := range []string{reportYAML, reportCUE} {
		t.Run(filepath.Ext(def), func(t *testing.T) {
			stdout, _, err := execute(t, "render", def, "--db", db, "--user", "1", "--as", "trace", "--out", "-")
			require.NoError(t, err)

			lines := strings.Split(strings.TrimSpace(stdout), "\n")
			assert.Equal(t, `open title="NFI distributions" date=`, lines[0][:len(`open title="NFI distributions" date=`)])
			assert.Equal(t, "close", lines[len(lines)-1])
			assert.Contains(t, stdout, `paragraph text="Partners: NRC, Solidarites"`)
			assert.Contains(t, stdout, `heading level=2 text="Site list"`)
			assert.Contains(t, stdout, `  row "Penekusu" "NRC" "2009-01-01" "Nord Kivu" "150"`)
			assert.Contains(t, stdout, `  row "Kitchanga" "Solidarites" "2009-03-01" "Nord Kivu" "75"`)
			assert.NotContains(t, stdout, "Field visit")
		})
	}
}

func TestRender_DefaultOutputPath(t *testing.T) {
	db := seededDB(t)
	outDir := t.TempDir()
	cfg := writeConfig(t, "[report]\nformat = \"rtf\"\noutput_dir = \""+filepath.ToSlash(outDir)+"\"\n")

	stdout, _, err := execute(t, "render", reportYAML, "--db", db, "--user", "1", "--config", cfg)
	require.NoError(t, err)

	path := filepath.Join(outDir, "nfi-distributions.rtf")
	assert.Contains(t, stdout, "rendered \"NFI distributions\" to "+path)
	assert.Contains(t, stdout, "(rtf, 5 elements")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), `{\rtf1`))
	assert.Contains(t, string(data), "Penekusu")
}

func TestRender_PDF(t *testing.T) {
	db := seededDB(t)
	out := filepath.Join(t.TempDir(), "report.pdf")

	stdout, _, err := execute(t, "render", reportYAML, "--db", db, "--user", "2", "--as", "pdf", "--out", out, "--format", "json")
	require.NoError(t, err)
	assert.Contains(t, stdout, `"format":"pdf"`)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "%PDF-"))
}

func TestRender_Errors(t *testing.T) {
	db := seededDB(t)

	tests := []struct {
		name string
		args []string
		code int
		want string
	}{
		{"unknown format", []string{reportYAML, "--user", "1", "--as", "docx"}, ExitCommandError, "unknown report format"},
		{"missing definition", []string{"absent.yaml", "--user", "1"}, ExitCommandError, "failed to load report definition"},
		{"unknown user", []string{reportYAML, "--user", "99"}, ExitCommandError, "unknown user"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := execute(t, append([]string{"render", "--db", db}, tt.args...)...)
			require.Error(t, err)
			assert.Equal(t, tt.code, GetExitCode(err))
			assert.Contains(t, err.Error(), tt.want)
		})
	}

	t.Run("table query error", func(t *testing.T) {
		def := filepath.Join(t.TempDir(), "bad.yaml")
		require.NoError(t, os.WriteFile(def, []byte(`title: Bad
elements:
  - kind: table
    columns: [locationName]
    query: {sort_info: {field: I99, dir: ASC}}
`), 0o644))

		_, _, err := execute(t, "render", def, "--db", db, "--user", "1", "--as", "trace", "--out", "-")
		require.Error(t, err)
		assert.Equal(t, ExitFailure, GetExitCode(err))
		assert.Contains(t, err.Error(), "failed to generate report")
	})
}

func TestReportFileName(t *testing.T) {
	rtf, err := render.ParseFormat("rtf")
	require.NoError(t, err)
	pdf, err := render.ParseFormat("pdf")
	require.NoError(t, err)

	assert.Equal(t, "nfi-distributions.rtf", reportFileName("NFI distributions", rtf))
	assert.Equal(t, "evaluation-a-kalehe.pdf", reportFileName("Évaluation à Kalehe", pdf))
	assert.Equal(t, "report.pdf", reportFileName("???", pdf))
}
