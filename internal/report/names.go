package report

import (
	"context"
	"fmt"

	"github.com/VladmirB/sigmah/internal/filter"
)

// NameReader reads display names of one entity kind.
type NameReader interface {
	ReadNames(ctx context.Context, kind string) (map[int]string, error)
}

// Names is a NameResolver over preloaded names.
type Names map[filter.Dimension]map[int]string

// Name implements NameResolver.
func (n Names) Name(d filter.Dimension, id int) (string, bool) {
	name, ok := n[d][id]
	return name, ok
}

// LoadNames reads the names of every dimension p restricts.
func LoadNames(ctx context.Context, r NameReader, p *filter.Pivot) (Names, error) {
	names := Names{}
	if p.IsEmpty() {
		return names, nil
	}
	for _, d := range p.Dimensions() {
		m, err := r.ReadNames(ctx, string(d))
		if err != nil {
			return nil, fmt.Errorf("load %s names: %w", d, err)
		}
		names[d] = m
	}
	return names, nil
}
