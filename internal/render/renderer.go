package render

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/VladmirB/sigmah/internal/metrics"
	"github.com/VladmirB/sigmah/internal/report"
)

// Clock supplies the generation date printed in reports.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// Option configures a Renderer.
type Option func(*Renderer)

// WithClock sets the clock used for generation dates.
func WithClock(c Clock) Option {
	return func(r *Renderer) { r.clock = c }
}

// Renderer writes report trees in one format.
//
// Thread-safety: a Renderer holds no per-call state and may be shared.
type Renderer struct {
	format Format
	clock  Clock
}

// NewRenderer creates a renderer for format.
func NewRenderer(format Format, opts ...Option) *Renderer {
	r := &Renderer{format: format, clock: systemClock{}}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Format returns the renderer's output format.
func (r *Renderer) Format() Format {
	return r.format
}

// Render writes node to w. A *report.Report renders as its title, generation
// date, description and filter lines followed by every child in order; an
// Element renders alone. Unsupported and nil elements produce no content.
//
// On error nothing is written to w and the error is a *RenderError. A nil
// root fails with ErrNilNode.
func (r *Renderer) Render(ctx context.Context, node report.Node, w io.Writer) (err error) {
	start := time.Now()
	format := r.format.Name()
	log := slog.With("render_id", uuid.Must(uuid.NewV7()).String(), "format", format)

	defer func() {
		result := "ok"
		if err != nil {
			result = "error"
		}
		metrics.Renders.WithLabelValues(format, result).Inc()
		metrics.RenderDuration.WithLabelValues(format).Observe(time.Since(start).Seconds())
	}()

	if isNil(node) {
		return &RenderError{Element: "document", Index: -1, Err: ErrNilNode}
	}

	dw, err := r.format.NewWriter(w)
	if err != nil {
		return &RenderError{Element: "document", Index: -1, Err: fmt.Errorf("create writer: %w", err)}
	}

	closed := false
	defer func() {
		if !closed {
			dw.Abort()
			log.Debug("render aborted", "error", err)
		}
	}()

	now := r.clock.Now()
	if err := dw.Open(Meta{Title: title(node), Generated: now}); err != nil {
		return &RenderError{Element: "document", Index: -1, Err: fmt.Errorf("open: %w", err)}
	}

	switch n := node.(type) {
	case *report.Report:
		if err := renderReport(ctx, log, dw, n, now); err != nil {
			return err
		}
	case report.Element:
		if err := renderElement(dw, n); err != nil {
			return &RenderError{Element: n.Kind(), Index: -1, Err: err}
		}
		countElement(n)
	default:
		log.Debug("skipping unknown node", "type", fmt.Sprintf("%T", node))
	}

	closed = true
	if err := dw.Close(); err != nil {
		return &RenderError{Element: "document", Index: -1, Err: fmt.Errorf("close: %w", err)}
	}
	log.Debug("render complete", "duration_ms", time.Since(start).Milliseconds())
	return nil
}

func renderReport(ctx context.Context, log *slog.Logger, dw DocWriter, rep *report.Report, generated time.Time) error {
	header := func() error {
		if err := dw.Heading(1, rep.Title); err != nil {
			return err
		}
		if err := dw.Paragraph("Generated " + generated.Format("2006-01-02")); err != nil {
			return err
		}
		if rep.Description != "" {
			if err := dw.Paragraph(rep.Description); err != nil {
				return err
			}
		}
		for _, line := range rep.FilterDescriptions {
			if err := dw.Paragraph(line); err != nil {
				return err
			}
		}
		return nil
	}
	if err := header(); err != nil {
		return &RenderError{Element: "header", Index: -1, Err: err}
	}

	for i, el := range rep.Elements {
		if isNil(el) {
			log.Debug("skipping nil element", "index", i)
			continue
		}
		if err := ctx.Err(); err != nil {
			return &RenderError{Element: el.Kind(), Index: i, Err: err}
		}
		if err := renderElement(dw, el); err != nil {
			return &RenderError{Element: el.Kind(), Index: i, Err: err}
		}
		countElement(el)
		log.Debug("element rendered", "index", i, "kind", el.Kind())
	}
	return nil
}

func countElement(el report.Element) {
	metrics.ElementsRendered.WithLabelValues(el.Kind()).Inc()
}

// isNil reports whether node is nil or a nil pointer of a known variant.
func isNil(node report.Node) bool {
	switch n := node.(type) {
	case nil:
		return true
	case *report.Report:
		return n == nil
	case *report.PivotTable:
		return n == nil
	case *report.PivotChart:
		return n == nil
	case *report.Map:
		return n == nil
	case *report.Table:
		return n == nil
	case *report.Unsupported:
		return n == nil
	default:
		return false
	}
}

func title(node report.Node) string {
	switch n := node.(type) {
	case *report.Report:
		return n.Title
	case *report.PivotTable:
		return n.Title
	case *report.PivotChart:
		return n.Title
	case *report.Map:
		return n.Title
	case *report.Table:
		return n.Title
	default:
		return ""
	}
}

// renderElement picks the element renderer by variant.
func renderElement(dw DocWriter, el report.Element) error {
	switch e := el.(type) {
	case *report.PivotTable:
		return renderPivotTable(dw, e)
	case *report.PivotChart:
		return renderChart(dw, e)
	case *report.Map:
		return renderMap(dw, e)
	case *report.Table:
		return renderTable(dw, e)
	case *report.Unsupported:
		slog.Debug("skipping unsupported element", "kind", e.Name)
		return nil
	default:
		slog.Debug("skipping unknown element", "type", fmt.Sprintf("%T", el))
		return nil
	}
}
