package querysql

import (
	"fmt"
	"strings"

	"github.com/VladmirB/sigmah/internal/criteria"
)

// Column describes how a logical field maps onto SQL.
type Column struct {
	// Expr is the SQL expression of the field, e.g. "s.SiteId".
	Expr string

	// Folded is the expression of a shadow column holding Fold(Expr).
	// Only columns with one accept Like, and they sort on it.
	Folded string

	// Link, when set, makes the field a set-membership field: the row
	// matches when the link table pairs Link.Outer with one of the values.
	Link *Link
}

// Link describes membership through a link table:
//
//	<Outer> IN (SELECT <Inner> FROM <Table> WHERE <Key> IN (...) [AND <Where>])
type Link struct {
	Outer string
	Table string
	Inner string
	Key   string
	Where string
}

// Schema resolves logical fields and computed orderings to SQL.
type Schema interface {
	// Column returns the mapping of a logical field.
	Column(field string) (Column, bool)

	// IndicatorValue returns a scalar subquery yielding the row's aggregated
	// value of an indicator.
	IndicatorValue(indicatorID int, average bool) (string, []any)

	// AdminEntityName returns a scalar subquery yielding the name of the
	// row's entity at an admin level.
	AdminEntityName(levelID int) (string, []any)

	// TieBreaker is appended to every ORDER BY so row order is total.
	TieBreaker() string
}

// SQLCompiler compiles criteria trees to parameterized SQLite fragments.
//
// Values are always bound as ? parameters, never interpolated. Field names
// are looked up in the Schema; unknown names are compile errors, so callers
// cannot inject SQL through a field name.
type SQLCompiler struct {
	schema Schema
}

// NewSQLCompiler creates a compiler for the given schema.
func NewSQLCompiler(schema Schema) *SQLCompiler {
	return &SQLCompiler{schema: schema}
}

// Where compiles a predicate to a WHERE fragment (without the keyword).
// A nil predicate compiles to "1 = 1".
func (c *SQLCompiler) Where(p criteria.Predicate) (string, []any, error) {
	return c.compilePredicate(p)
}

// OrderBy compiles orders to an ORDER BY fragment (without the keywords).
// The schema's tiebreaker is always appended, so an empty order list still
// yields a deterministic ordering.
func (c *SQLCompiler) OrderBy(orders []criteria.Order) (string, []any, error) {
	var parts []string
	var params []any

	for i, o := range orders {
		expr, exprParams, err := c.compileOrder(o)
		if err != nil {
			return "", nil, fmt.Errorf("order %d: %w", i, err)
		}
		dir := "ASC"
		if o.Descending() {
			dir = "DESC"
		}
		// NULLs sort last whatever the direction so empty cells never lead.
		parts = append(parts, fmt.Sprintf("(%s) IS NULL, %s %s", expr, expr, dir))
		params = append(params, exprParams...)
		params = append(params, exprParams...)
	}

	parts = append(parts, c.schema.TieBreaker())
	return strings.Join(parts, ", "), params, nil
}

func (c *SQLCompiler) compileOrder(o criteria.Order) (string, []any, error) {
	switch order := o.(type) {
	case criteria.ColumnOrder:
		col, ok := c.schema.Column(order.Field)
		if !ok || col.Link != nil {
			return "", nil, fmt.Errorf("cannot order by field %q", order.Field)
		}
		if col.Folded != "" {
			return col.Folded, nil, nil
		}
		return col.Expr, nil, nil
	case criteria.IndicatorOrder:
		expr, params := c.schema.IndicatorValue(order.IndicatorID, order.Average)
		return expr, params, nil
	case criteria.AdminLevelOrder:
		expr, params := c.schema.AdminEntityName(order.LevelID)
		return expr, params, nil
	case nil:
		return "", nil, fmt.Errorf("nil order")
	default:
		return "", nil, fmt.Errorf("unsupported order type: %T", o)
	}
}

func (c *SQLCompiler) compilePredicate(p criteria.Predicate) (string, []any, error) {
	switch pred := p.(type) {
	case nil:
		return "1 = 1", nil, nil
	case criteria.Eq:
		return c.compileEq(pred)
	case *criteria.Eq:
		return c.compileEq(*pred)
	case criteria.Compare:
		return c.compileCompare(pred)
	case *criteria.Compare:
		return c.compileCompare(*pred)
	case criteria.In:
		return c.compileIn(pred)
	case *criteria.In:
		return c.compileIn(*pred)
	case criteria.Like:
		return c.compileLike(pred)
	case *criteria.Like:
		return c.compileLike(*pred)
	case criteria.And:
		return c.compileList(pred.Predicates, " AND ", "1 = 1")
	case *criteria.And:
		return c.compileList(pred.Predicates, " AND ", "1 = 1")
	case criteria.Or:
		return c.compileList(pred.Predicates, " OR ", "1 = 0")
	case *criteria.Or:
		return c.compileList(pred.Predicates, " OR ", "1 = 0")
	case criteria.Not:
		return c.compileNot(pred)
	case *criteria.Not:
		return c.compileNot(*pred)
	default:
		return "", nil, fmt.Errorf("unsupported predicate type: %T", p)
	}
}

func (c *SQLCompiler) column(field string) (Column, error) {
	col, ok := c.schema.Column(field)
	if !ok {
		return Column{}, fmt.Errorf("unknown field %q", field)
	}
	return col, nil
}

func (c *SQLCompiler) compileEq(eq criteria.Eq) (string, []any, error) {
	col, err := c.column(eq.Field)
	if err != nil {
		return "", nil, err
	}
	if eq.Value == nil {
		if col.Link != nil {
			return "", nil, fmt.Errorf("field %q: cannot compare membership to NULL", eq.Field)
		}
		return col.Expr + " IS NULL", nil, nil
	}
	if col.Link != nil {
		return c.compileIn(criteria.In{Field: eq.Field, Values: []criteria.Value{eq.Value}})
	}
	param, err := valueToParam(eq.Value)
	if err != nil {
		return "", nil, fmt.Errorf("field %q: %w", eq.Field, err)
	}
	return col.Expr + " = ?", []any{param}, nil
}

func (c *SQLCompiler) compileCompare(cmp criteria.Compare) (string, []any, error) {
	col, err := c.column(cmp.Field)
	if err != nil {
		return "", nil, err
	}
	if col.Link != nil {
		return "", nil, fmt.Errorf("field %q: only equality is supported on membership fields", cmp.Field)
	}
	if cmp.Value == nil {
		return "", nil, fmt.Errorf("field %q: cannot compare to NULL with %s", cmp.Field, cmp.Op)
	}
	param, err := valueToParam(cmp.Value)
	if err != nil {
		return "", nil, fmt.Errorf("field %q: %w", cmp.Field, err)
	}
	return fmt.Sprintf("%s %s ?", col.Expr, cmp.Op), []any{param}, nil
}

func (c *SQLCompiler) compileIn(in criteria.In) (string, []any, error) {
	col, err := c.column(in.Field)
	if err != nil {
		return "", nil, err
	}
	if len(in.Values) == 0 {
		return "1 = 0", nil, nil
	}

	params := make([]any, 0, len(in.Values))
	for _, v := range in.Values {
		param, err := valueToParam(v)
		if err != nil {
			return "", nil, fmt.Errorf("field %q: %w", in.Field, err)
		}
		params = append(params, param)
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(params)), ", ")

	if col.Link == nil {
		return fmt.Sprintf("%s IN (%s)", col.Expr, placeholders), params, nil
	}

	l := col.Link
	sql := fmt.Sprintf("%s IN (SELECT %s FROM %s WHERE %s IN (%s)", l.Outer, l.Inner, l.Table, l.Key, placeholders)
	if l.Where != "" {
		sql += " AND " + l.Where
	}
	return sql + ")", params, nil
}

func (c *SQLCompiler) compileLike(like criteria.Like) (string, []any, error) {
	col, err := c.column(like.Field)
	if err != nil {
		return "", nil, err
	}
	if col.Folded == "" || col.Link != nil {
		return "", nil, fmt.Errorf("field %q is not a text field", like.Field)
	}
	pattern := "%" + escapeLike(Fold(like.Substring)) + "%"
	return fmt.Sprintf(`%s LIKE ? ESCAPE '\'`, col.Folded), []any{pattern}, nil
}

func (c *SQLCompiler) compileNot(not criteria.Not) (string, []any, error) {
	if not.Predicate == nil {
		return "", nil, fmt.Errorf("NOT requires a predicate")
	}
	sql, params, err := c.compilePredicate(not.Predicate)
	if err != nil {
		return "", nil, err
	}
	return "NOT (" + sql + ")", params, nil
}

func (c *SQLCompiler) compileList(preds []criteria.Predicate, sep, empty string) (string, []any, error) {
	if len(preds) == 0 {
		return empty, nil, nil
	}

	var parts []string
	var params []any
	for _, pred := range preds {
		sql, predParams, err := c.compilePredicate(pred)
		if err != nil {
			return "", nil, err
		}
		parts = append(parts, sql)
		params = append(params, predParams...)
	}

	if len(parts) == 1 {
		return parts[0], params, nil
	}
	return "(" + strings.Join(parts, sep) + ")", params, nil
}

// escapeLike escapes LIKE wildcards so the substring matches literally.
func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

// valueToParam converts a criteria literal to a driver parameter.
// Dates bind as YYYY-MM-DD text, matching how the store writes them.
func valueToParam(v criteria.Value) (any, error) {
	switch val := v.(type) {
	case criteria.String:
		return string(val), nil
	case criteria.Int:
		return int64(val), nil
	case criteria.Float:
		return float64(val), nil
	case criteria.Bool:
		if val {
			return int64(1), nil
		}
		return int64(0), nil
	case criteria.Date:
		return val.String(), nil
	default:
		return nil, fmt.Errorf("unsupported value type for SQL parameter: %T", v)
	}
}
