package harness

import "github.com/VladmirB/sigmah/internal/dto"

// TraceEvent is the outcome of one scenario step.
type TraceEvent struct {
	Step    string `json:"step"`
	User    int    `json:"user"`
	SiteIDs []int  `json:"site_ids"`
	Offset  int    `json:"offset"`
	Total   int    `json:"total"`
	Error   string `json:"error,omitempty"` // command error code

	sites []*dto.Site
}

// Result is the outcome of a scenario run.
type Result struct {
	// Pass is true when every expectation and assertion held.
	Pass bool `json:"pass"`

	// Trace holds one event per step, in order.
	Trace []TraceEvent `json:"trace"`

	// Errors lists failed expectations and assertions.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Trace:  []TraceEvent{},
		Errors: []string{},
	}
}

// AddError records a failure and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// event returns the trace event of the named step.
func (r *Result) event(step string) (TraceEvent, bool) {
	for _, e := range r.Trace {
		if e.Step == step {
			return e, true
		}
	}
	return TraceEvent{}, false
}
