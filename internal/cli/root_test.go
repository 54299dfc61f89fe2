package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fixturePath = "../testutil/testdata/sites.yaml"

// execute runs the root command with args and returns its output. An empty
// config file is passed first so the user's own config is never read; a
// later --config in args wins.
func execute(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	cmd := NewRootCommand()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(append([]string{"--config", emptyConfig(t)}, args...))
	err = cmd.ExecuteContext(context.Background())
	return out.String(), errOut.String(), err
}

// seededDB returns the path of a database holding the reference data set.
func seededDB(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sites.db")
	_, _, err := execute(t, "db", "seed", fixturePath, "--db", path)
	require.NoError(t, err)
	return path
}

func emptyConfig(t *testing.T) string {
	t.Helper()
	return writeConfig(t, "")
}

// writeConfig writes a config file and returns its path.
func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	require.NotNil(t, cmd)
	assert.Equal(t, "activityinfo", cmd.Use)
	assert.Contains(t, cmd.Long, "render report definitions")
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand()
	commands := []string{"db", "sites", "render", "scenario", "version"}

	for _, cmdName := range commands {
		t.Run(cmdName, func(t *testing.T) {
			subCmd, _, err := cmd.Find([]string{cmdName})
			require.NoError(t, err, "Command %s should exist", cmdName)
			require.NotNil(t, subCmd)
			assert.Equal(t, cmdName, subCmd.Name())
		})
	}

	for _, path := range [][]string{{"db", "init"}, {"db", "seed"}} {
		subCmd, _, err := cmd.Find(path)
		require.NoError(t, err)
		assert.Equal(t, path[1], subCmd.Name())
	}
}

func TestGlobalFlags(t *testing.T) {
	cmd := NewRootCommand()

	verboseFlag := cmd.PersistentFlags().Lookup("verbose")
	require.NotNil(t, verboseFlag)
	assert.Equal(t, "v", verboseFlag.Shorthand)
	assert.Equal(t, "false", verboseFlag.DefValue)

	formatFlag := cmd.PersistentFlags().Lookup("format")
	require.NotNil(t, formatFlag)
	assert.Equal(t, "text", formatFlag.DefValue)

	for _, name := range []string{"config", "db", "metrics-file"} {
		f := cmd.PersistentFlags().Lookup(name)
		require.NotNil(t, f, name)
		assert.Equal(t, "", f.DefValue)
	}
}

func TestRequiredUserFlags(t *testing.T) {
	cmd := NewRootCommand()
	for _, name := range []string{"sites", "render"} {
		subCmd, _, err := cmd.Find([]string{name})
		require.NoError(t, err)
		userFlag := subCmd.Flags().Lookup("user")
		require.NotNil(t, userFlag)
		assert.Equal(t, "u", userFlag.Shorthand)
		assert.Equal(t, []string{"true"}, userFlag.Annotations["cobra_annotation_bash_completion_one_required_flag"])
	}
}

func TestInvalidFormat(t *testing.T) {
	_, _, err := execute(t, "version", "--format", "xml")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), `invalid format "xml"`)
}

func TestConfigFlag(t *testing.T) {
	t.Run("unknown key", func(t *testing.T) {
		path := writeConfig(t, "[store]\nbogus = 1\n")
		_, _, err := execute(t, "version", "--config", path)
		require.Error(t, err)
		assert.Equal(t, ExitCommandError, GetExitCode(err))
		assert.Contains(t, err.Error(), "unknown keys")
	})

	t.Run("missing file", func(t *testing.T) {
		_, _, err := execute(t, "version", "--config", filepath.Join(t.TempDir(), "absent.toml"))
		require.Error(t, err)
		assert.Equal(t, ExitCommandError, GetExitCode(err))
	})

	t.Run("json logs", func(t *testing.T) {
		path := writeConfig(t, "[log]\nformat = \"json\"\nlevel = \"debug\"\n")
		db := seededDB(t)
		_, stderr, err := execute(t, "sites", "--user", "1", "--db", db, "--config", path)
		require.NoError(t, err)
		assert.Contains(t, stderr, `"msg":"get sites done"`)
	})
}

func TestVerboseLogsDebug(t *testing.T) {
	db := seededDB(t)
	_, stderr, err := execute(t, "sites", "--user", "1", "--db", db, "-v")
	require.NoError(t, err)
	assert.Contains(t, stderr, "get sites done")
	assert.Contains(t, stderr, "user 1: 7 of 7 sites from offset 0")
}

func TestMetricsFile(t *testing.T) {
	db := seededDB(t)
	metricsPath := filepath.Join(t.TempDir(), "activityinfo.prom")

	_, _, err := execute(t, "sites", "--user", "1", "--db", db, "--metrics-file", metricsPath)
	require.NoError(t, err)

	data, err := os.ReadFile(metricsPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "activityinfo_site_queries_total")
}

func TestVersionCommand(t *testing.T) {
	stdout, _, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, stdout, "activityinfo dev")

	stdout, _, err = execute(t, "version", "--format", "json")
	require.NoError(t, err)
	assert.Contains(t, stdout, `"version":"dev"`)
}

func TestOpenStoreUsesConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "configured.db")
	cfgPath := writeConfig(t, "[store]\npath = \""+filepath.ToSlash(path)+"\"\ndriver = \"sqlite\"\n")

	stdout, _, err := execute(t, "db", "init", "--config", cfgPath)
	require.NoError(t, err)
	assert.Contains(t, stdout, "initialized "+filepath.ToSlash(path))
	assert.FileExists(t, path)
}
