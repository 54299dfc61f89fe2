package store

import (
	"database/sql"
	"fmt"
	"time"
)

// dateLayout is the TEXT encoding of site and reporting period dates.
const dateLayout = "2006-01-02"

// marshalDate converts an optional date to its column value.
// Nil dates are stored as NULL.
func marshalDate(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.Format(dateLayout)
}

// unmarshalDate parses a nullable date column.
func unmarshalDate(ns sql.NullString) (*time.Time, error) {
	if !ns.Valid || ns.String == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, ns.String)
	if err != nil {
		return nil, fmt.Errorf("unmarshal date %q: %w", ns.String, err)
	}
	return &t, nil
}

// marshalFloat converts an optional coordinate to its column value.
func marshalFloat(f *float64) any {
	if f == nil {
		return nil
	}
	return *f
}

func unmarshalFloat(nf sql.NullFloat64) *float64 {
	if !nf.Valid {
		return nil
	}
	v := nf.Float64
	return &v
}

func marshalBool(b bool) int {
	if b {
		return 1
	}
	return 0
}

func marshalOptionalID(id *int) any {
	if id == nil {
		return nil
	}
	return *id
}

func unmarshalOptionalID(ni sql.NullInt64) *int {
	if !ni.Valid {
		return nil
	}
	v := int(ni.Int64)
	return &v
}
