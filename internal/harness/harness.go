package harness

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"github.com/VladmirB/sigmah/internal/command"
	"github.com/VladmirB/sigmah/internal/dto"
	"github.com/VladmirB/sigmah/internal/handler"
	"github.com/VladmirB/sigmah/internal/indicator"
	"github.com/VladmirB/sigmah/internal/store"
	"github.com/VladmirB/sigmah/internal/testutil"
)

const defaultRequestID = "scenario-request"

// Harness executes the steps of one scenario.
type Harness struct {
	store   *store.Store
	handler *handler.GetSitesHandler
}

// Run executes a scenario and returns its result.
//
// Each run seeds a fresh in-memory database from the scenario's fixture.
// An error means the scenario could not run; failed expectations are
// reported in the result instead.
func Run(ctx context.Context, scenario *Scenario) (*Result, error) {
	st, err := store.Open(":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory store: %w", err)
	}
	defer st.Close()

	fixture, err := store.LoadFixtureFile(scenario.Fixture)
	if err != nil {
		return nil, fmt.Errorf("failed to load fixture: %w", err)
	}
	if err := st.Seed(ctx, fixture); err != nil {
		return nil, fmt.Errorf("failed to seed fixture: %w", err)
	}

	indicators, err := indicator.NewService(st, indicator.DefaultCacheSize)
	if err != nil {
		return nil, err
	}

	requestID := scenario.RequestID
	if requestID == "" {
		requestID = defaultRequestID
	}
	h := &Harness{
		store: st,
		handler: handler.NewGetSitesHandler(st.Sites(), indicators,
			handler.WithIDGenerator(testutil.NewFixedIDGenerator(requestID))),
	}

	result := NewResult()
	for i, step := range scenario.Steps {
		if err := h.executeStep(ctx, step, result); err != nil {
			return nil, fmt.Errorf("steps[%d] (%s): %w", i, step.Name, err)
		}
	}

	for _, msg := range EvaluateAssertions(result, scenario.Assertions) {
		result.AddError(msg)
	}

	slog.Debug("scenario complete", "name", scenario.Name, "pass", result.Pass, "errors", len(result.Errors))
	return result, nil
}

// executeStep runs one request and checks its expectations. Request errors
// are outcomes, not failures of the run.
func (h *Harness) executeStep(ctx context.Context, step Step, result *Result) error {
	user, err := h.store.FindUser(ctx, step.User)
	if err != nil {
		return err
	}
	cmd, err := command.DecodeMap(step.Request)
	if err != nil {
		return err
	}

	event := TraceEvent{Step: step.Name, User: step.User, SiteIDs: []int{}}
	res, err := h.handler.Execute(ctx, user, cmd)
	if err != nil {
		event.Error = string(command.CodeOf(err))
	} else {
		event.SiteIDs = siteIDs(res.Sites)
		event.Offset = res.Offset
		event.Total = res.TotalLength
		event.sites = res.Sites
	}
	result.Trace = append(result.Trace, event)

	for _, msg := range checkExpect(event, step.Expect, err) {
		result.AddError(fmt.Sprintf("step %s: %s", step.Name, msg))
	}
	return nil
}

func checkExpect(event TraceEvent, expect *Expect, err error) []string {
	var errs []string
	if expect == nil {
		if err != nil {
			errs = append(errs, fmt.Sprintf("unexpected error: %v", err))
		}
		return errs
	}

	if expect.Error != "" {
		if event.Error != expect.Error {
			errs = append(errs, fmt.Sprintf("expected error %s, got %q", expect.Error, event.Error))
		}
		return errs
	}
	if err != nil {
		return append(errs, fmt.Sprintf("unexpected error: %v", err))
	}

	if expect.SiteIDs != nil && !slices.Equal(expect.SiteIDs, event.SiteIDs) {
		errs = append(errs, fmt.Sprintf("expected sites %v, got %v", expect.SiteIDs, event.SiteIDs))
	}
	if expect.Total != nil && *expect.Total != event.Total {
		errs = append(errs, fmt.Sprintf("expected total %d, got %d", *expect.Total, event.Total))
	}
	if expect.Offset != nil && *expect.Offset != event.Offset {
		errs = append(errs, fmt.Sprintf("expected offset %d, got %d", *expect.Offset, event.Offset))
	}
	return errs
}

func siteIDs(sites []*dto.Site) []int {
	ids := make([]int, len(sites))
	for i, s := range sites {
		ids[i] = s.ID
	}
	return ids
}
