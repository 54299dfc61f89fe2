package filter

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2"

	"github.com/VladmirB/sigmah/internal/criteria"
)

// SyntaxError reports a malformed free-text filter.
type SyntaxError struct {
	Input   string
	Offset  int
	Message string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("filter %q: %s (at offset %d)", e.Input, e.Message, e.Offset)
}

// IsSyntaxError reports whether err is or wraps a *SyntaxError.
func IsSyntaxError(err error) bool {
	var se *SyntaxError
	return errors.As(err, &se)
}

// keyKind is how a key's value is interpreted.
type keyKind int

const (
	kindText keyKind = iota
	kindInt
	kindDate
	kindActiveOn
)

type keySpec struct {
	field string
	kind  keyKind
}

// keys maps folded key names to fields. French names first, English aliases
// after.
var keys = map[string]keySpec{
	"partenaire":  {field: "partner_name", kind: kindText},
	"lieu":        {field: "location_name", kind: kindText},
	"axe":         {field: "location_axe", kind: kindText},
	"statut":      {field: "status", kind: kindInt},
	"activite":    {field: "activity_id", kind: kindInt},
	"base":        {field: "database_id", kind: kindInt},
	"debut":       {field: "date1", kind: kindDate},
	"fin":         {field: "date2", kind: kindDate},
	"date":        {kind: kindActiveOn},
	"commentaire": {field: "comments", kind: kindText},

	"partner":  {field: "partner_name", kind: kindText},
	"location": {field: "location_name", kind: kindText},
	"axis":     {field: "location_axe", kind: kindText},
	"status":   {field: "status", kind: kindInt},
	"activity": {field: "activity_id", kind: kindInt},
	"database": {field: "database_id", kind: kindInt},
	"date1":    {field: "date1", kind: kindDate},
	"date2":    {field: "date2", kind: kindDate},
	"comments": {field: "comments", kind: kindText},
}

// bareFields are searched by terms without a key.
var bareFields = []string{"location_name", "partner_name", "comments"}

// Parser parses free-text site filters into predicates.
type Parser struct{}

// NewParser creates a Parser.
func NewParser() *Parser {
	return &Parser{}
}

// Parse converts the filter text into a conjunction of one predicate per
// term. Blank input yields a nil predicate (no restriction).
func (p *Parser) Parse(input string) (criteria.Predicate, error) {
	if strings.TrimSpace(input) == "" {
		return nil, nil
	}

	ast, err := filterParser.ParseString("", input)
	if err != nil {
		return nil, syntaxError(input, err)
	}

	conj := criteria.Conjunction()
	for _, term := range ast.Terms {
		pred, err := compileTerm(term)
		if err != nil {
			return nil, &SyntaxError{Input: input, Offset: term.Pos.Offset, Message: err.Error()}
		}
		conj.Add(pred)
	}

	slog.Debug("parsed site filter", "input", input, "criteria", criteria.Format(conj))
	return conj, nil
}

func syntaxError(input string, err error) *SyntaxError {
	se := &SyntaxError{Input: input, Message: err.Error()}
	var perr participle.Error
	if errors.As(err, &perr) {
		se.Offset = perr.Position().Offset
		se.Message = perr.Message()
	}
	return se
}

func compileTerm(term *termAST) (criteria.Predicate, error) {
	value := normalizeValue(term.Value)

	var pred criteria.Predicate
	var err error
	if term.Key == "" {
		pred, err = bareTerm(value)
	} else {
		name, op := splitKey(term.Key)
		pred, err = keyedTerm(name, op, value)
	}
	if err != nil {
		return nil, err
	}

	if term.Negated {
		return criteria.Not{Predicate: pred}, nil
	}
	return pred, nil
}

func bareTerm(value string) (criteria.Predicate, error) {
	if value == "" {
		return nil, fmt.Errorf("empty search term")
	}
	or := criteria.Or{}
	for _, field := range bareFields {
		or.Predicates = append(or.Predicates, criteria.Like{Field: field, Substring: value})
	}
	return or, nil
}

// splitKey separates "debut>=" into ("debut", ">=").
func splitKey(key string) (string, string) {
	for _, op := range []string{">=", "<=", ":", ">", "<"} {
		if name, ok := strings.CutSuffix(key, op); ok {
			return name, op
		}
	}
	return key, ":"
}

func keyedTerm(name, op, value string) (criteria.Predicate, error) {
	kw, ok := keys[foldKey(name)]
	if !ok {
		return nil, fmt.Errorf("unknown filter key %q", name)
	}

	switch kw.kind {
	case kindText:
		if op != ":" {
			return nil, fmt.Errorf("key %q does not support %q", name, op)
		}
		if value == "" {
			return nil, fmt.Errorf("key %q needs a value", name)
		}
		return criteria.Like{Field: kw.field, Substring: value}, nil

	case kindInt:
		n, err := strconv.Atoi(value)
		if err != nil {
			return nil, fmt.Errorf("key %q expects a whole number, got %q", name, value)
		}
		return comparison(kw.field, op, criteria.Int(n)), nil

	case kindDate:
		d, err := criteria.ParseDate(value)
		if err != nil {
			return nil, fmt.Errorf("key %q: %w", name, err)
		}
		return comparison(kw.field, op, d), nil

	case kindActiveOn:
		if op != ":" {
			return nil, fmt.Errorf("key %q only supports ':'", name)
		}
		d, err := criteria.ParseDate(value)
		if err != nil {
			return nil, fmt.Errorf("key %q: %w", name, err)
		}
		return criteria.And{Predicates: []criteria.Predicate{
			criteria.Compare{Field: "date1", Op: criteria.OpLe, Value: d},
			criteria.Compare{Field: "date2", Op: criteria.OpGe, Value: d},
		}}, nil
	}

	return nil, fmt.Errorf("key %q has no interpretation", name)
}

func comparison(field, op string, v criteria.Value) criteria.Predicate {
	switch op {
	case ">":
		return criteria.Compare{Field: field, Op: criteria.OpGt, Value: v}
	case ">=":
		return criteria.Compare{Field: field, Op: criteria.OpGe, Value: v}
	case "<":
		return criteria.Compare{Field: field, Op: criteria.OpLt, Value: v}
	case "<=":
		return criteria.Compare{Field: field, Op: criteria.OpLe, Value: v}
	default:
		return criteria.Eq{Field: field, Value: v}
	}
}
