package criteria

import (
	"fmt"
	"strings"
)

// ValidationResult lists the problems found in a predicate tree.
type ValidationResult struct {
	Valid    bool
	Problems []string
}

// Validate checks a predicate tree for structural problems a backend would
// otherwise reject or silently mis-handle:
//   - nil children inside And, Or or Not
//   - leaves with an empty field name
//   - nil literal values
//   - In with no values (matches nothing, usually a caller bug)
//
// A nil root is valid and means "no filter".
func Validate(p Predicate) ValidationResult {
	v := &validator{}
	if p != nil {
		v.validate(p, "")
	}
	return ValidationResult{
		Valid:    len(v.problems) == 0,
		Problems: v.problems,
	}
}

type validator struct {
	problems []string
}

func (v *validator) addProblem(path, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	if path != "" {
		msg = path + ": " + msg
	}
	v.problems = append(v.problems, msg)
}

func (v *validator) validate(p Predicate, path string) {
	switch pred := p.(type) {
	case nil:
		v.addProblem(path, "nil predicate")
	case Eq:
		v.leaf(path, pred.Field, pred.Value)
	case *Eq:
		v.leaf(path, pred.Field, pred.Value)
	case Compare:
		v.leaf(path, pred.Field, pred.Value)
	case *Compare:
		v.leaf(path, pred.Field, pred.Value)
	case In:
		v.in(path, pred)
	case *In:
		v.in(path, *pred)
	case Like:
		v.leaf(path, pred.Field, String(pred.Substring))
	case *Like:
		v.leaf(path, pred.Field, String(pred.Substring))
	case And:
		v.children(path, "and", pred.Predicates)
	case *And:
		v.children(path, "and", pred.Predicates)
	case Or:
		v.children(path, "or", pred.Predicates)
	case *Or:
		v.children(path, "or", pred.Predicates)
	case Not:
		v.validate(pred.Predicate, join(path, "not"))
	case *Not:
		v.validate(pred.Predicate, join(path, "not"))
	default:
		v.addProblem(path, "unknown predicate type %T", p)
	}
}

func (v *validator) leaf(path, field string, val Value) {
	if field == "" {
		v.addProblem(path, "empty field name")
	}
	if val == nil {
		v.addProblem(path, "field %q compared to nil value", field)
	}
}

func (v *validator) in(path string, in In) {
	if in.Field == "" {
		v.addProblem(path, "empty field name")
	}
	if len(in.Values) == 0 {
		v.addProblem(path, "field %q: empty IN list matches nothing", in.Field)
	}
	for i, val := range in.Values {
		if val == nil {
			v.addProblem(path, "field %q: nil value at index %d", in.Field, i)
		}
	}
}

func (v *validator) children(path, name string, preds []Predicate) {
	for i, child := range preds {
		v.validate(child, join(path, fmt.Sprintf("%s[%d]", name, i)))
	}
}

func join(path, elem string) string {
	if path == "" {
		return elem
	}
	return strings.Join([]string{path, elem}, ".")
}
