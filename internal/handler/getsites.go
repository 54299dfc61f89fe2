package handler

import (
	"context"
	"log/slog"
	"time"

	"github.com/VladmirB/sigmah/internal/command"
	"github.com/VladmirB/sigmah/internal/criteria"
	"github.com/VladmirB/sigmah/internal/domain"
	"github.com/VladmirB/sigmah/internal/dto"
	"github.com/VladmirB/sigmah/internal/filter"
	"github.com/VladmirB/sigmah/internal/metrics"
	"github.com/VladmirB/sigmah/internal/store"
)

// SiteDAO runs authorization-scoped site queries.
type SiteDAO interface {
	Query(ctx context.Context, user domain.User, where criteria.Predicate, orders []criteria.Order,
		binder store.ProjectionBinder, retrieve store.Retrieve, offset, limit int) error
	QueryCount(ctx context.Context, user domain.User, where criteria.Predicate) (int, error)
	QueryPageNumber(ctx context.Context, user domain.User, where criteria.Predicate, orders []criteria.Order,
		limit, siteID int) (int, error)
}

// Option configures a GetSitesHandler.
type Option func(*GetSitesHandler)

// WithParser replaces the free-text filter parser.
func WithParser(p FilterParser) Option {
	return func(h *GetSitesHandler) { h.parser = p }
}

// WithMapper replaces the entity to DTO mapper.
func WithMapper(m dto.Mapper) Option {
	return func(h *GetSitesHandler) { h.mapper = m }
}

// WithIDGenerator replaces the correlation id generator.
func WithIDGenerator(g IDGenerator) Option {
	return func(h *GetSitesHandler) { h.ids = g }
}

// WithMaxLimit caps the page size of every request. Zero means no cap.
func WithMaxLimit(n int) Option {
	return func(h *GetSitesHandler) { h.maxLimit = n }
}

// GetSitesHandler executes command.GetSites.
type GetSitesHandler struct {
	sites      SiteDAO
	indicators IndicatorLookup
	parser     FilterParser
	mapper     dto.Mapper
	ids        IDGenerator
	maxLimit   int
}

// NewGetSitesHandler creates a handler over the given collaborators.
func NewGetSitesHandler(sites SiteDAO, indicators IndicatorLookup, opts ...Option) *GetSitesHandler {
	h := &GetSitesHandler{
		sites:      sites,
		indicators: indicators,
		parser:     filter.NewParser(),
		mapper:     dto.DefaultMapper{},
		ids:        UUIDv7Generator{},
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Execute returns the requested page of sites and the total number of
// sites matching the request, whatever the page window.
//
// Errors are *command.Error values.
func (h *GetSitesHandler) Execute(ctx context.Context, user domain.User, cmd *command.GetSites) (*command.SiteResult, error) {
	start := time.Now()
	reqID := h.ids.Generate()
	log := slog.With("request_id", reqID, "user_id", user.ID)

	result, err := h.execute(ctx, log, user, cmd)

	metrics.SiteQueryDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		code := string(command.CodeOf(err))
		if code == "" {
			code = string(command.ErrCodeQueryFailed)
			err = command.NewQueryError("get sites", err)
		}
		metrics.SiteQueries.WithLabelValues(code).Inc()
		log.Debug("get sites failed", "error", err)
		return nil, err
	}

	metrics.SiteQueries.WithLabelValues("ok").Inc()
	metrics.SiteRows.Observe(float64(len(result.Sites)))
	log.Debug("get sites done",
		"rows", len(result.Sites),
		"total", result.TotalLength,
		"offset", result.Offset,
		"elapsed", time.Since(start),
	)
	return result, nil
}

func (h *GetSitesHandler) execute(ctx context.Context, log *slog.Logger, user domain.User, cmd *command.GetSites) (*command.SiteResult, error) {
	if cmd == nil {
		return nil, command.NewInvalidRequestError("", "request is required")
	}
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	if fp, err := Fingerprint(cmd); err == nil {
		log.Debug("get sites", "fingerprint", fp)
	}

	where, err := buildCriteria(cmd, h.parser)
	if err != nil {
		return nil, err
	}
	orders, err := resolveSort(ctx, cmd.SortInfo, h.indicators)
	if err != nil {
		return nil, err
	}

	limit := cmd.Limit
	if h.maxLimit > 0 && (limit <= 0 || limit > h.maxLimit) {
		limit = h.maxLimit
	}

	offset := cmd.Offset
	if cmd.SeekToSiteID != nil && limit > 0 {
		page, err := h.sites.QueryPageNumber(ctx, user, where, orders, limit, *cmd.SeekToSiteID)
		if err != nil {
			return nil, command.NewQueryError("seek to site", err)
		}
		offset = page * limit
		log.Debug("seek resolved", "site_id", *cmd.SeekToSiteID, "page", page, "offset", offset)
	}

	binder := NewModelBinder(NewDedupTable(), h.mapper)
	if err := h.sites.Query(ctx, user, where, orders, binder, store.RetrieveAll, offset, limit); err != nil {
		return nil, command.NewQueryError("query sites", err)
	}

	total, err := h.sites.QueryCount(ctx, user, where)
	if err != nil {
		return nil, command.NewQueryError("count sites", err)
	}

	return &command.SiteResult{
		Sites:       binder.Sites(),
		Offset:      offset,
		TotalLength: total,
	}, nil
}

