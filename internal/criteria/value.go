package criteria

import (
	"fmt"
	"strconv"
	"time"
)

// DateLayout is the format of Date literals.
const DateLayout = "2006-01-02"

// Value is a sealed interface for predicate literals.
type Value interface {
	value()
	String() string
}

// String is a text literal.
type String string

func (String) value()           {}
func (s String) String() string { return strconv.Quote(string(s)) }

// Int is an integer literal.
type Int int64

func (Int) value()           {}
func (i Int) String() string { return strconv.FormatInt(int64(i), 10) }

// Float is a numeric literal.
type Float float64

func (Float) value()           {}
func (f Float) String() string { return strconv.FormatFloat(float64(f), 'g', -1, 64) }

// Bool is a boolean literal.
type Bool bool

func (Bool) value()           {}
func (b Bool) String() string { return strconv.FormatBool(bool(b)) }

// Date is a calendar day literal. The time of day is ignored.
type Date time.Time

func (Date) value()           {}
func (d Date) String() string { return time.Time(d).Format(DateLayout) }

// NewDate truncates t to its calendar day in UTC.
func NewDate(t time.Time) Date {
	y, m, d := t.Date()
	return Date(time.Date(y, m, d, 0, 0, 0, 0, time.UTC))
}

// ParseDate parses a YYYY-MM-DD literal.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: expected %s", s, DateLayout)
	}
	return Date(t), nil
}

// Ints converts a list of ids into Values for In predicates.
func Ints(ids ...int) []Value {
	out := make([]Value, len(ids))
	for i, id := range ids {
		out[i] = Int(id)
	}
	return out
}
