package harness

import (
	"fmt"
	"slices"
	"strings"

	"github.com/VladmirB/sigmah/internal/dto"
)

// AssertionError is a failed assertion with the trace for context.
type AssertionError struct {
	Type     string
	Expected string
	Actual   string
	Trace    []TraceEvent
}

func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	fmt.Fprintf(&buf, "\nFull trace:\n")
	for i, event := range e.Trace {
		if event.Error != "" {
			fmt.Fprintf(&buf, "  [%d] %s user=%d error=%s\n", i+1, event.Step, event.User, event.Error)
			continue
		}
		fmt.Fprintf(&buf, "  [%d] %s user=%d sites=%v total=%d\n", i+1, event.Step, event.User, event.SiteIDs, event.Total)
	}

	return buf.String()
}

func assertMembership(result *Result, a Assertion) error {
	event, ok := result.event(a.Step)
	if !ok {
		return fmt.Errorf("%s: unknown step %q", a.Type, a.Step)
	}

	found := slices.Contains(event.SiteIDs, a.Site)
	if found == (a.Type == AssertContains) {
		return nil
	}

	expected, actual := "site %d on page of %s", "page is %v"
	if a.Type == AssertExcludes {
		expected = "site %d absent from page of %s"
	}
	return &AssertionError{
		Type:     a.Type,
		Expected: fmt.Sprintf(expected, a.Site, a.Step),
		Actual:   fmt.Sprintf(actual, event.SiteIDs),
		Trace:    result.Trace,
	}
}

func assertSameTotal(result *Result, a Assertion) error {
	totals := make([]string, 0, len(a.Steps))
	first := -1
	same := true
	for _, name := range a.Steps {
		event, ok := result.event(name)
		if !ok {
			return fmt.Errorf("%s: unknown step %q", a.Type, name)
		}
		if first < 0 {
			first = event.Total
		} else if event.Total != first {
			same = false
		}
		totals = append(totals, fmt.Sprintf("%s=%d", name, event.Total))
	}
	if same {
		return nil
	}
	return &AssertionError{
		Type:     a.Type,
		Expected: fmt.Sprintf("one total across %v", a.Steps),
		Actual:   strings.Join(totals, ", "),
		Trace:    result.Trace,
	}
}

// assertSharedPartners checks that every site of one partner points at the
// same *dto.Partner.
func assertSharedPartners(result *Result, a Assertion) error {
	event, ok := result.event(a.Step)
	if !ok {
		return fmt.Errorf("%s: unknown step %q", a.Type, a.Step)
	}

	seen := make(map[int]*dto.Partner)
	for _, s := range event.sites {
		if s.Partner == nil {
			continue
		}
		prev, ok := seen[s.Partner.ID]
		if !ok {
			seen[s.Partner.ID] = s.Partner
			continue
		}
		if prev != s.Partner {
			return &AssertionError{
				Type:     a.Type,
				Expected: fmt.Sprintf("one partner value for partner %d", s.Partner.ID),
				Actual:   fmt.Sprintf("site %d has its own copy", s.ID),
				Trace:    result.Trace,
			}
		}
	}
	return nil
}

// EvaluateAssertions evaluates all assertions against the result and
// returns the failure messages.
func EvaluateAssertions(result *Result, assertions []Assertion) []string {
	var errors []string

	for i, assertion := range assertions {
		var err error

		switch assertion.Type {
		case AssertContains, AssertExcludes:
			err = assertMembership(result, assertion)
		case AssertSameTotal:
			err = assertSameTotal(result, assertion)
		case AssertSharedPartners:
			err = assertSharedPartners(result, assertion)
		default:
			err = fmt.Errorf("assertion[%d]: unknown assertion type %q", i, assertion.Type)
		}

		if err != nil {
			errors = append(errors, err.Error())
		}
	}

	return errors
}
