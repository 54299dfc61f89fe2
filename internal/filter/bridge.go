package filter

import (
	"fmt"

	"github.com/VladmirB/sigmah/internal/criteria"
)

// ResolveCriterion converts a pivot filter into a predicate: restricted
// dimensions are ANDed together, ids within a dimension are ORed (IN), and
// the date range keeps sites whose period overlaps it.
//
// A nil or empty filter resolves to a nil predicate.
func ResolveCriterion(p *Pivot) (criteria.Predicate, error) {
	if p.IsEmpty() {
		return nil, nil
	}

	conj := criteria.Conjunction()
	for _, d := range p.Dimensions() {
		field, ok := dimensionFields[d]
		if !ok {
			return nil, fmt.Errorf("unknown pivot dimension %q", d)
		}
		conj.Add(criteria.In{Field: field, Values: criteria.Ints(p.Restrictions[d]...)})
	}

	if p.MinDate != nil {
		conj.Add(criteria.Compare{Field: "date2", Op: criteria.OpGe, Value: criteria.NewDate(*p.MinDate)})
	}
	if p.MaxDate != nil {
		conj.Add(criteria.Compare{Field: "date1", Op: criteria.OpLe, Value: criteria.NewDate(*p.MaxDate)})
	}

	return conj, nil
}
