package querysql

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/VladmirB/sigmah/internal/criteria"
)

type testSchema struct{}

var testColumns = map[string]Column{
	"id":            {Expr: "s.SiteId"},
	"activity_id":   {Expr: "s.ActivityId"},
	"date1":         {Expr: "s.Date1"},
	"location_name": {Expr: "l.Name", Folded: "l.NameFolded"},
	"admin_entity": {Link: &Link{
		Outer: "s.LocationId",
		Table: "locationadminlink",
		Inner: "LocationId",
		Key:   "AdminEntityId",
	}},
	"attribute": {Link: &Link{
		Outer: "s.SiteId",
		Table: "attributevalue",
		Inner: "SiteId",
		Key:   "AttributeId",
		Where: "Value = 1",
	}},
}

func (testSchema) Column(field string) (Column, bool) {
	c, ok := testColumns[field]
	return c, ok
}

func (testSchema) IndicatorValue(id int, average bool) (string, []any) {
	fn := "SUM"
	if average {
		fn = "AVG"
	}
	return fmt.Sprintf("(SELECT %s(v.Value) FROM indicatorvalue v WHERE v.SiteId = s.SiteId AND v.IndicatorId = ?)", fn), []any{id}
}

func (testSchema) AdminEntityName(levelID int) (string, []any) {
	return "(SELECT e.Name FROM adminentity e WHERE e.AdminLevelId = ?)", []any{levelID}
}

func (testSchema) TieBreaker() string {
	return "s.SiteId ASC"
}

func TestWhere(t *testing.T) {
	compiler := NewSQLCompiler(testSchema{})

	testCases := []struct {
		name       string
		pred       criteria.Predicate
		wantSQL    string
		wantParams []any
	}{
		{
			name:    "nil predicate",
			pred:    nil,
			wantSQL: "1 = 1",
		},
		{
			name:       "equality",
			pred:       criteria.Eq{Field: "activity_id", Value: criteria.Int(7)},
			wantSQL:    "s.ActivityId = ?",
			wantParams: []any{int64(7)},
		},
		{
			name:    "null equality",
			pred:    criteria.Eq{Field: "date1"},
			wantSQL: "s.Date1 IS NULL",
		},
		{
			name:       "date range",
			pred:       criteria.Compare{Field: "date1", Op: criteria.OpGe, Value: criteria.NewDate(time.Date(2010, 1, 2, 0, 0, 0, 0, time.UTC))},
			wantSQL:    "s.Date1 >= ?",
			wantParams: []any{"2010-01-02"},
		},
		{
			name:       "bool binds as integer",
			pred:       criteria.Eq{Field: "activity_id", Value: criteria.Bool(true)},
			wantSQL:    "s.ActivityId = ?",
			wantParams: []any{int64(1)},
		},
		{
			name:       "in list",
			pred:       criteria.In{Field: "id", Values: criteria.Ints(1, 2, 3)},
			wantSQL:    "s.SiteId IN (?, ?, ?)",
			wantParams: []any{int64(1), int64(2), int64(3)},
		},
		{
			name:    "empty in list",
			pred:    criteria.In{Field: "id"},
			wantSQL: "1 = 0",
		},
		{
			name:       "membership",
			pred:       &criteria.In{Field: "admin_entity", Values: criteria.Ints(4, 5)},
			wantSQL:    "s.LocationId IN (SELECT LocationId FROM locationadminlink WHERE AdminEntityId IN (?, ?))",
			wantParams: []any{int64(4), int64(5)},
		},
		{
			name:       "membership equality with extra condition",
			pred:       criteria.Eq{Field: "attribute", Value: criteria.Int(9)},
			wantSQL:    "s.SiteId IN (SELECT SiteId FROM attributevalue WHERE AttributeId IN (?) AND Value = 1)",
			wantParams: []any{int64(9)},
		},
		{
			name:       "like escapes wildcards",
			pred:       criteria.Like{Field: "location_name", Substring: "50%_Off"},
			wantSQL:    `l.NameFolded LIKE ? ESCAPE '\'`,
			wantParams: []any{`%50\%\_off%`},
		},
		{
			name:       "like folds accented capitals",
			pred:       criteria.Like{Field: "location_name", Substring: "ÉQUATEUR"},
			wantSQL:    `l.NameFolded LIKE ? ESCAPE '\'`,
			wantParams: []any{"%équateur%"},
		},
		{
			name: "conjunction",
			pred: criteria.Conjunction().
				Add(criteria.Eq{Field: "activity_id", Value: criteria.Int(7)}).
				Add(criteria.Or{Predicates: []criteria.Predicate{
					criteria.Like{Field: "location_name", Substring: "goma"},
					criteria.Not{Predicate: criteria.Eq{Field: "id", Value: criteria.Int(3)}},
				}}),
			wantSQL:    `(s.ActivityId = ? AND (l.NameFolded LIKE ? ESCAPE '\' OR NOT (s.SiteId = ?)))`,
			wantParams: []any{int64(7), "%goma%", int64(3)},
		},
		{
			name:       "single child conjunction is unwrapped",
			pred:       criteria.Conjunction().Add(criteria.Eq{Field: "id", Value: criteria.Int(1)}),
			wantSQL:    "s.SiteId = ?",
			wantParams: []any{int64(1)},
		},
		{
			name:    "empty or",
			pred:    criteria.Or{},
			wantSQL: "1 = 0",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			sql, params, err := compiler.Where(tc.pred)
			require.NoError(t, err)
			assert.Equal(t, tc.wantSQL, sql)
			assert.Equal(t, tc.wantParams, params)
		})
	}
}

func TestWhere_Errors(t *testing.T) {
	compiler := NewSQLCompiler(testSchema{})

	testCases := []struct {
		name    string
		pred    criteria.Predicate
		wantErr string
	}{
		{"unknown field", criteria.Eq{Field: "password", Value: criteria.String("x")}, `unknown field "password"`},
		{"injection attempt", criteria.Eq{Field: "1=1; DROP TABLE site", Value: criteria.Int(1)}, "unknown field"},
		{"like on number", criteria.Like{Field: "activity_id", Substring: "1"}, "not a text field"},
		{"compare membership", criteria.Compare{Field: "admin_entity", Op: criteria.OpLt, Value: criteria.Int(1)}, "only equality"},
		{"compare null", criteria.Compare{Field: "date1", Op: criteria.OpLt}, "cannot compare to NULL"},
		{"empty not", criteria.Not{}, "NOT requires a predicate"},
		{"nested error", criteria.And{Predicates: []criteria.Predicate{criteria.Eq{Field: "nope", Value: criteria.Int(1)}}}, "unknown field"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := compiler.Where(tc.pred)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}

func TestOrderBy(t *testing.T) {
	compiler := NewSQLCompiler(testSchema{})

	t.Run("no orders still has tiebreaker", func(t *testing.T) {
		sql, params, err := compiler.OrderBy(nil)
		require.NoError(t, err)
		assert.Equal(t, "s.SiteId ASC", sql)
		assert.Empty(t, params)
	})

	t.Run("column order", func(t *testing.T) {
		sql, params, err := compiler.OrderBy([]criteria.Order{criteria.ColumnOrder{Field: "date1", Desc: true}})
		require.NoError(t, err)
		assert.Equal(t, "(s.Date1) IS NULL, s.Date1 DESC, s.SiteId ASC", sql)
		assert.Empty(t, params)
	})

	t.Run("text column sorts on its folded form", func(t *testing.T) {
		sql, _, err := compiler.OrderBy([]criteria.Order{criteria.ColumnOrder{Field: "location_name"}})
		require.NoError(t, err)
		assert.Equal(t, "(l.NameFolded) IS NULL, l.NameFolded ASC, s.SiteId ASC", sql)
	})

	t.Run("indicator order binds its id twice", func(t *testing.T) {
		sql, params, err := compiler.OrderBy([]criteria.Order{criteria.IndicatorOrder{IndicatorID: 12, Average: true}})
		require.NoError(t, err)
		assert.Contains(t, sql, "AVG(v.Value)")
		assert.Equal(t, []any{12, 12}, params)
	})

	t.Run("admin level order", func(t *testing.T) {
		sql, params, err := compiler.OrderBy([]criteria.Order{criteria.AdminLevelOrder{LevelID: 2, Desc: true}})
		require.NoError(t, err)
		assert.Contains(t, sql, "e.AdminLevelId = ?) DESC")
		assert.Equal(t, []any{2, 2}, params)
	})

	t.Run("unknown column", func(t *testing.T) {
		_, _, err := compiler.OrderBy([]criteria.Order{criteria.ColumnOrder{Field: "nope"}})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "order 0")
	})

	t.Run("membership column cannot order", func(t *testing.T) {
		_, _, err := compiler.OrderBy([]criteria.Order{criteria.ColumnOrder{Field: "admin_entity"}})
		assert.Error(t, err)
	})
}

func TestFold(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Goma", "goma"},
		{"ÉQUATEUR", "équateur"},
		{"Solidarités", "solidarités"},
		{"E\u0301valuation", "évaluation"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Fold(tt.in), tt.in)
	}
}
