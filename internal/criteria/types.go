package criteria

// Predicate is a filter condition over site rows.
//
// Variants: Eq, Compare, In, Like, And, Or, Not.
type Predicate interface {
	predicateNode()
}

// Eq matches rows whose field equals the value.
type Eq struct {
	Field string
	Value Value
}

func (Eq) predicateNode() {}

// Op is a comparison operator for Compare.
type Op int

const (
	OpLt Op = iota
	OpLe
	OpGt
	OpGe
	OpNe
)

func (op Op) String() string {
	switch op {
	case OpLt:
		return "<"
	case OpLe:
		return "<="
	case OpGt:
		return ">"
	case OpGe:
		return ">="
	default:
		return "<>"
	}
}

// Compare matches rows whose field compares to the value under Op.
type Compare struct {
	Field string
	Op    Op
	Value Value
}

func (Compare) predicateNode() {}

// In matches rows whose field is one of Values. An empty list matches
// nothing.
type In struct {
	Field  string
	Values []Value
}

func (In) predicateNode() {}

// Like matches rows whose text field contains Substring, ignoring case.
type Like struct {
	Field     string
	Substring string
}

func (Like) predicateNode() {}

// And is true when every child is true. An empty And is always true.
type And struct {
	Predicates []Predicate
}

func (And) predicateNode() {}

// Add appends p unless it is nil.
func (a *And) Add(p Predicate) *And {
	if p != nil {
		a.Predicates = append(a.Predicates, p)
	}
	return a
}

// Len is the number of children.
func (a *And) Len() int {
	return len(a.Predicates)
}

// Conjunction starts an empty And.
func Conjunction() *And {
	return &And{}
}

// Or is true when any child is true. An empty Or is always false.
type Or struct {
	Predicates []Predicate
}

func (Or) predicateNode() {}

// Not negates its child.
type Not struct {
	Predicate Predicate
}

func (Not) predicateNode() {}
