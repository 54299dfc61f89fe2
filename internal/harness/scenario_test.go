package harness

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeScenario(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	fixture, err := filepath.Abs(fixturePath)
	require.NoError(t, err)
	require.NoError(t, os.Symlink(fixture, filepath.Join(dir, "sites.yaml")))
	path := filepath.Join(dir, "scenario.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadScenario(t *testing.T) {
	s := loadScenario(t, "activity_paging.yaml")

	assert.Equal(t, "activity_paging", s.Name)
	assert.Equal(t, filepath.Join("testdata", "scenarios", "../../../testutil/testdata/sites.yaml"), s.Fixture)
	require.Len(t, s.Steps, 4)
	assert.Equal(t, "page1", s.Steps[0].Name)
	require.NotNil(t, s.Steps[0].Expect)
	assert.Equal(t, []int{4, 5}, s.Steps[0].Expect.SiteIDs)
	assert.Equal(t, 6, *s.Steps[0].Expect.Total)
	assert.Nil(t, s.Steps[1].Expect.Offset)
}

func TestLoadScenario_RelativeFixture(t *testing.T) {
	path := writeScenario(t, `
name: relative
description: fixture next to the scenario
fixture: sites.yaml
steps:
  - {name: a, user: 1, request: {}}
`)

	s, err := LoadScenario(path)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(filepath.Dir(path), "sites.yaml"), s.Fixture)
}

func TestLoadScenario_Invalid(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"unknown field", "name: a\ndescription: b\nfixture: sites.yaml\nstep: []\n", "field step not found"},
		{"missing name", "description: b\nfixture: sites.yaml\nsteps: [{name: a, user: 1}]\n", "name is required"},
		{"missing description", "name: a\nfixture: sites.yaml\nsteps: [{name: a, user: 1}]\n", "description is required"},
		{"missing fixture", "name: a\ndescription: b\nsteps: [{name: a, user: 1}]\n", "fixture is required"},
		{"fixture not found", "name: a\ndescription: b\nfixture: nope.yaml\nsteps: [{name: a, user: 1}]\n", "fixture not found"},
		{"no steps", "name: a\ndescription: b\nfixture: sites.yaml\nsteps: []\n", "steps list is required"},
		{"duplicate step", "name: a\ndescription: b\nfixture: sites.yaml\nsteps: [{name: a, user: 1}, {name: a, user: 1}]\n", "duplicate step name"},
		{"missing user", "name: a\ndescription: b\nfixture: sites.yaml\nsteps: [{name: a}]\n", "user is required"},
		{"unknown assertion", "name: a\ndescription: b\nfixture: sites.yaml\nsteps: [{name: a, user: 1}]\nassertions: [{type: magic}]\n", "unknown assertion type"},
		{"assertion step", "name: a\ndescription: b\nfixture: sites.yaml\nsteps: [{name: a, user: 1}]\nassertions: [{type: contains, step: b, site: 1}]\n", `unknown step "b"`},
		{"assertion site", "name: a\ndescription: b\nfixture: sites.yaml\nsteps: [{name: a, user: 1}]\nassertions: [{type: excludes, step: a}]\n", "site is required"},
		{"same_total arity", "name: a\ndescription: b\nfixture: sites.yaml\nsteps: [{name: a, user: 1}]\nassertions: [{type: same_total, steps: [a]}]\n", "at least two steps"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadScenario(writeScenario(t, tt.body))
			assert.ErrorContains(t, err, tt.want)
		})
	}
}

func TestLoadScenario_MissingFile(t *testing.T) {
	_, err := LoadScenario("testdata/scenarios/nope.yaml")
	assert.ErrorContains(t, err, "failed to read scenario file")
}
