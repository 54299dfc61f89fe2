package harness

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/VladmirB/sigmah/internal/dto"
)

func sampleResult() *Result {
	nrc := &dto.Partner{ID: 1, Name: "NRC"}
	r := NewResult()
	r.Trace = []TraceEvent{
		{Step: "a", User: 1, SiteIDs: []int{1, 2}, Total: 6, sites: []*dto.Site{
			{ID: 1, Partner: nrc},
			{ID: 2, Partner: nrc},
		}},
		{Step: "b", User: 1, SiteIDs: []int{3}, Total: 6, sites: []*dto.Site{
			{ID: 3, Partner: &dto.Partner{ID: 1, Name: "NRC"}},
		}},
		{Step: "c", User: 2, SiteIDs: []int{}, Total: 2},
		{Step: "d", User: 1, Error: "FILTER_SYNTAX", SiteIDs: []int{}},
	}
	return r
}

func TestEvaluateAssertions_Pass(t *testing.T) {
	errs := EvaluateAssertions(sampleResult(), []Assertion{
		{Type: AssertContains, Step: "a", Site: 2},
		{Type: AssertExcludes, Step: "a", Site: 3},
		{Type: AssertSameTotal, Steps: []string{"a", "b"}},
		{Type: AssertSharedPartners, Step: "a"},
	})
	assert.Empty(t, errs)
}

func TestEvaluateAssertions_Fail(t *testing.T) {
	tests := []struct {
		name      string
		assertion Assertion
		want      []string
	}{
		{
			name:      "contains",
			assertion: Assertion{Type: AssertContains, Step: "c", Site: 1},
			want:      []string{"Assertion failed: contains", "Expected: site 1 on page of c", "Actual: page is []"},
		},
		{
			name:      "excludes",
			assertion: Assertion{Type: AssertExcludes, Step: "a", Site: 1},
			want:      []string{"Expected: site 1 absent from page of a", "Actual: page is [1 2]"},
		},
		{
			name:      "same_total",
			assertion: Assertion{Type: AssertSameTotal, Steps: []string{"a", "c"}},
			want:      []string{"Actual: a=6, c=2"},
		},
		{
			name:      "shared_partners",
			assertion: Assertion{Type: AssertSharedPartners, Step: "b"},
			want:      nil,
		},
		{
			name:      "unknown step",
			assertion: Assertion{Type: AssertContains, Step: "z", Site: 1},
			want:      []string{`unknown step "z"`},
		},
		{
			name:      "unknown type",
			assertion: Assertion{Type: "magic"},
			want:      []string{`unknown assertion type "magic"`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := EvaluateAssertions(sampleResult(), []Assertion{tt.assertion})
			if tt.want == nil {
				assert.Empty(t, errs)
				return
			}
			require.Len(t, errs, 1)
			for _, w := range tt.want {
				assert.Contains(t, errs[0], w)
			}
		})
	}
}

func TestSharedPartners_DetectsCopies(t *testing.T) {
	r := NewResult()
	r.Trace = []TraceEvent{{Step: "a", SiteIDs: []int{1, 2}, sites: []*dto.Site{
		{ID: 1, Partner: &dto.Partner{ID: 1, Name: "NRC"}},
		{ID: 2, Partner: &dto.Partner{ID: 1, Name: "NRC"}},
	}}}

	errs := EvaluateAssertions(r, []Assertion{{Type: AssertSharedPartners, Step: "a"}})

	require.Len(t, errs, 1)
	assert.Contains(t, errs[0], "site 2 has its own copy")
}

func TestAssertionError_TraceContext(t *testing.T) {
	err := &AssertionError{Type: "contains", Expected: "x", Actual: "y", Trace: sampleResult().Trace}

	msg := err.Error()
	assert.Contains(t, msg, "[1] a user=1 sites=[1 2] total=6")
	assert.Contains(t, msg, "[4] d user=1 error=FILTER_SYNTAX")
}

func TestTraceSnapshot_Canonical(t *testing.T) {
	s := TraceSnapshot{Scenario: "s", Trace: []TraceEvent{{Step: "a", User: 1, SiteIDs: []int{2}, Total: 1}}}

	data, err := s.Canonical()
	require.NoError(t, err)
	assert.Equal(t, `{"scenario":"s","trace":[{"offset":0,"site_ids":[2],"step":"a","total":1,"user":1}]}`, string(data))
}
