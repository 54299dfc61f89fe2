package handler

import (
	"context"
	"errors"
	"log/slog"

	"github.com/VladmirB/sigmah/internal/command"
	"github.com/VladmirB/sigmah/internal/criteria"
	"github.com/VladmirB/sigmah/internal/domain"
	"github.com/VladmirB/sigmah/internal/store"
)

// IndicatorLookup resolves indicator ids.
type IndicatorLookup interface {
	Lookup(ctx context.Context, id int) (domain.Indicator, error)
}

// resolveSort returns zero or one orderings for the request's sort.
//
// Unknown field names yield no ordering rather than an error so clients
// with stale column names still get a page.
func resolveSort(ctx context.Context, info command.SortInfo, indicators IndicatorLookup) ([]criteria.Order, error) {
	if info.Dir == command.SortNone || info.Field == "" {
		return nil, nil
	}
	desc := info.Dir == command.SortDesc

	key, ok := command.ParseSortKey(info.Field)
	if !ok {
		slog.Debug("ignoring unknown sort field", "field", info.Field)
		return nil, nil
	}

	switch k := key.(type) {
	case command.ColumnKey:
		return []criteria.Order{criteria.ColumnOrder{Field: k.Field, Desc: desc}}, nil
	case command.IndicatorKey:
		ind, err := indicators.Lookup(ctx, k.IndicatorID)
		if errors.Is(err, store.ErrNotFound) {
			return nil, command.NewUnknownIndicatorError(k.IndicatorID, err)
		}
		if err != nil {
			return nil, command.NewQueryError("look up sort indicator", err)
		}
		return []criteria.Order{criteria.IndicatorOrder{
			IndicatorID: ind.ID,
			Average:     ind.Aggregation == domain.AggregateAverage,
			Desc:        desc,
		}}, nil
	case command.AdminLevelKey:
		return []criteria.Order{criteria.AdminLevelOrder{LevelID: k.LevelID, Desc: desc}}, nil
	default:
		return nil, nil
	}
}
