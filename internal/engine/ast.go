package engine

// Node is one node of a parsed formula. Parsing and evaluation are
// separate passes: the parser builds a tree once and the evaluator walks
// it against a context.
type Node interface {
	node()
}

// Literal is a number or string constant. A nil Value is the null literal,
// produced where the parser had nothing better to offer.
type Literal struct {
	Value any
}

// FieldRef references a record attribute or another calculated field by
// slug. Unresolved references degrade to null, and to 0 in arithmetic,
// never an error.
type FieldRef struct {
	Slug string
}

// BinaryOp applies an arithmetic or comparison operator to two operands.
type BinaryOp struct {
	Op    string
	Left  Node
	Right Node
}

// Call invokes a built-in function with eagerly evaluated arguments.
type Call struct {
	Name string
	Args []Node
}

func (*Literal) node()  {}
func (*FieldRef) node() {}
func (*BinaryOp) node() {}
func (*Call) node()     {}
