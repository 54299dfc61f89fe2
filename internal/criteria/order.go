package criteria

// Order is one ORDER BY clause over site rows.
//
// Variants: ColumnOrder, IndicatorOrder, AdminLevelOrder.
type Order interface {
	orderNode()
	Descending() bool
}

// ColumnOrder sorts by a named field.
type ColumnOrder struct {
	Field string
	Desc  bool
}

func (ColumnOrder) orderNode()         {}
func (o ColumnOrder) Descending() bool { return o.Desc }

// IndicatorOrder sorts by the site's value of an indicator, summed over its
// reporting periods, or averaged when Average is set.
type IndicatorOrder struct {
	IndicatorID int
	Average     bool
	Desc        bool
}

func (IndicatorOrder) orderNode()         {}
func (o IndicatorOrder) Descending() bool { return o.Desc }

// AdminLevelOrder sorts by the name of the site's entity at an admin level.
type AdminLevelOrder struct {
	LevelID int
	Desc    bool
}

func (AdminLevelOrder) orderNode()         {}
func (o AdminLevelOrder) Descending() bool { return o.Desc }
