package criteria

import (
	"fmt"
	"strings"
)

// Format renders a predicate tree as a compact, SQL-like string for logs.
// A nil predicate renders as "true".
func Format(p Predicate) string {
	var sb strings.Builder
	format(&sb, p)
	return sb.String()
}

func format(sb *strings.Builder, p Predicate) {
	switch pred := p.(type) {
	case nil:
		sb.WriteString("true")
	case Eq:
		fmt.Fprintf(sb, "%s = %s", pred.Field, valueString(pred.Value))
	case *Eq:
		format(sb, *pred)
	case Compare:
		fmt.Fprintf(sb, "%s %s %s", pred.Field, pred.Op, valueString(pred.Value))
	case *Compare:
		format(sb, *pred)
	case In:
		vals := make([]string, len(pred.Values))
		for i, v := range pred.Values {
			vals[i] = valueString(v)
		}
		fmt.Fprintf(sb, "%s IN (%s)", pred.Field, strings.Join(vals, ", "))
	case *In:
		format(sb, *pred)
	case Like:
		fmt.Fprintf(sb, "%s LIKE %q", pred.Field, "%"+pred.Substring+"%")
	case *Like:
		format(sb, *pred)
	case And:
		formatList(sb, pred.Predicates, " AND ", "true")
	case *And:
		formatList(sb, pred.Predicates, " AND ", "true")
	case Or:
		formatList(sb, pred.Predicates, " OR ", "false")
	case *Or:
		formatList(sb, pred.Predicates, " OR ", "false")
	case Not:
		sb.WriteString("NOT ")
		formatList(sb, []Predicate{pred.Predicate}, "", "")
	case *Not:
		format(sb, *pred)
	default:
		fmt.Fprintf(sb, "<%T>", p)
	}
}

func formatList(sb *strings.Builder, preds []Predicate, sep, empty string) {
	if len(preds) == 0 {
		sb.WriteString(empty)
		return
	}
	sb.WriteString("(")
	for i, child := range preds {
		if i > 0 {
			sb.WriteString(sep)
		}
		format(sb, child)
	}
	sb.WriteString(")")
}

func valueString(v Value) string {
	if v == nil {
		return "NULL"
	}
	return v.String()
}
