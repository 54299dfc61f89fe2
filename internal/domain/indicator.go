package domain

import "fmt"

// Aggregation is how an indicator's values combine across reporting
// periods of one site.
type Aggregation int

const (
	AggregateSum Aggregation = iota
	AggregateAverage
	AggregateSiteCount
)

func (a Aggregation) String() string {
	switch a {
	case AggregateSum:
		return "sum"
	case AggregateAverage:
		return "average"
	case AggregateSiteCount:
		return "site_count"
	default:
		return fmt.Sprintf("aggregation(%d)", int(a))
	}
}

// Indicator is a quantity collected for every site of an activity.
type Indicator struct {
	ID          int         `json:"id" yaml:"id"`
	ActivityID  int         `json:"activity_id" yaml:"activity_id"`
	Name        string      `json:"name" yaml:"name"`
	Units       string      `json:"units" yaml:"units"`
	Description string      `json:"description,omitempty" yaml:"description,omitempty"`
	Category    string      `json:"category,omitempty" yaml:"category,omitempty"`
	ListHeader  string      `json:"list_header,omitempty" yaml:"list_header,omitempty"`
	Aggregation Aggregation `json:"aggregation" yaml:"aggregation"`
	SortOrder   int         `json:"sort_order" yaml:"sort_order"`
}

// Header is the short label used for the indicator's column in site grids.
func (i *Indicator) Header() string {
	if i.ListHeader != "" {
		return i.ListHeader
	}
	return i.Name
}

// ParseAggregation accepts the names returned by String.
func ParseAggregation(s string) (Aggregation, error) {
	switch s {
	case "sum", "":
		return AggregateSum, nil
	case "average":
		return AggregateAverage, nil
	case "site_count":
		return AggregateSiteCount, nil
	default:
		return 0, fmt.Errorf("unknown aggregation %q", s)
	}
}

func (a Aggregation) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

func (a *Aggregation) UnmarshalText(text []byte) error {
	parsed, err := ParseAggregation(string(text))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}
