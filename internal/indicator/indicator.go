// Package indicator resolves indicator ids to their definitions through a
// bounded in-memory cache.
package indicator

import (
	"context"
	"fmt"
	"log/slog"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/VladmirB/sigmah/internal/domain"
	"github.com/VladmirB/sigmah/internal/metrics"
)

// DefaultCacheSize is used when a non-positive size is configured.
const DefaultCacheSize = 256

// Source loads indicators from durable storage.
type Source interface {
	FindIndicator(ctx context.Context, id int) (domain.Indicator, error)
}

// Service looks indicators up by id. Found indicators are cached; lookup
// failures are not, so an indicator created later becomes visible.
//
// Thread-safety: Service is safe for concurrent use.
type Service struct {
	source Source
	cache  *lru.Cache[int, domain.Indicator]
}

// NewService creates a lookup service holding at most size indicators.
func NewService(source Source, size int) (*Service, error) {
	if size <= 0 {
		size = DefaultCacheSize
	}
	cache, err := lru.New[int, domain.Indicator](size)
	if err != nil {
		return nil, fmt.Errorf("create indicator cache: %w", err)
	}
	return &Service{source: source, cache: cache}, nil
}

// Lookup returns the indicator with the given id.
func (s *Service) Lookup(ctx context.Context, id int) (domain.Indicator, error) {
	if ind, ok := s.cache.Get(id); ok {
		metrics.IndicatorLookups.WithLabelValues("hit").Inc()
		return ind, nil
	}
	metrics.IndicatorLookups.WithLabelValues("miss").Inc()

	ind, err := s.source.FindIndicator(ctx, id)
	if err != nil {
		return domain.Indicator{}, err
	}

	if evicted := s.cache.Add(id, ind); evicted {
		slog.Debug("indicator cache evicted entry", "size", s.cache.Len())
	}
	return ind, nil
}

// Invalidate drops a cached indicator after it changed.
func (s *Service) Invalidate(id int) {
	s.cache.Remove(id)
}

// Len returns the number of cached indicators.
func (s *Service) Len() int {
	return s.cache.Len()
}
