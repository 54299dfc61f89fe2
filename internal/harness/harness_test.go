package harness

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fixturePath = "../testutil/testdata/sites.yaml"

func loadScenario(t *testing.T, name string) *Scenario {
	t.Helper()
	s, err := LoadScenario(filepath.Join("testdata", "scenarios", name))
	require.NoError(t, err)
	return s
}

func TestRun_Scenarios(t *testing.T) {
	for _, name := range []string{"activity_paging.yaml", "scope.yaml", "errors.yaml"} {
		t.Run(name, func(t *testing.T) {
			result, err := Run(context.Background(), loadScenario(t, name))
			require.NoError(t, err)
			assert.True(t, result.Pass, "errors: %v", result.Errors)
		})
	}
}

func TestRunWithGolden(t *testing.T) {
	for _, name := range []string{"activity_paging.yaml", "errors.yaml"} {
		t.Run(name, func(t *testing.T) {
			result, err := RunWithGolden(t, loadScenario(t, name))
			require.NoError(t, err)
			assert.True(t, result.Pass, "errors: %v", result.Errors)
		})
	}
}

func TestRun_FailedExpectations(t *testing.T) {
	total := 99
	s := &Scenario{
		Name:    "failing",
		Fixture: fixturePath,
		Steps: []Step{
			{Name: "wrong_sites", User: 1, Request: map[string]any{"activity_id": 1, "limit": 1}, Expect: &Expect{SiteIDs: []int{2}, Total: &total}},
			{Name: "missing_error", User: 1, Request: map[string]any{"activity_id": 1}, Expect: &Expect{Error: "FILTER_SYNTAX"}},
			{Name: "unexpected_error", User: 1, Request: map[string]any{"limit": -1}},
		},
	}

	result, err := Run(context.Background(), s)
	require.NoError(t, err)

	assert.False(t, result.Pass)
	assert.Equal(t, []string{
		"step wrong_sites: expected sites [2], got [1]",
		"step wrong_sites: expected total 99, got 6",
		`step missing_error: expected error FILTER_SYNTAX, got ""`,
	}, result.Errors[:3])
	require.Len(t, result.Errors, 4)
	assert.Contains(t, result.Errors[3], "step unexpected_error: unexpected error: INVALID_REQUEST")
	require.Len(t, result.Trace, 3)
	assert.Equal(t, "INVALID_REQUEST", result.Trace[2].Error)
}

func TestRun_UnknownUser(t *testing.T) {
	s := &Scenario{
		Name:    "ghost",
		Fixture: fixturePath,
		Steps:   []Step{{Name: "ghost", User: 42, Request: map[string]any{}}},
	}

	_, err := Run(context.Background(), s)
	assert.ErrorContains(t, err, "steps[0] (ghost)")
}

func TestRun_BadFixture(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fixture.yaml")
	require.NoError(t, os.WriteFile(path, []byte("sitez: []\n"), 0o644))

	_, err := Run(context.Background(), &Scenario{Name: "bad", Fixture: path, Steps: []Step{{Name: "a", User: 1}}})
	assert.ErrorContains(t, err, "failed to load fixture")
}
