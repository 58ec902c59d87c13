package letcalc

import (
	"strings"
)

// node is a node in the abstract syntax tree of an expression.
type node struct {
	kind nodeKind

	name string

	left  *node
	right *node
}

type nodeKind int8

const (
	nodeNone nodeKind = iota

	nodeNum  // push num
	nodeName // push lookup(name)

	nodeNeg // evaluate left, then negate
	nodeAdd // evaluate left, add right
	nodeSub // evaluate left, sub right
	nodeMul // evaluate left, mul right
	nodeDiv // evaluate left, div by right
	nodePow // evaluate left, exp by right
	nodeNop // evaluate left
)

func (k nodeKind) String() string {
	switch k {
	case nodeNone:
		return "None"
	case nodeNum:
		return "Num"
	case nodeName:
		return "Name"
	case nodeNeg:
		return "Neg"
	case nodeAdd:
		return "Add"
	case nodeSub:
		return "Sub"
	case nodeMul:
		return "Mul"
	case nodeDiv:
		return "Div"
	case nodePow:
		return "Pow"
	case nodeNop:
		return "Nop"
	default:
		return "nodeKind(" + string(rune('0'+k)) + ")"
	}
}

func (n *node) String() string {
	var b strings.Builder
	n.fmt(&b)
	return b.String()
}

// fmt writes a fully parenthesized rendering of the subtree. Leaves appear
// bare; every binary operation gets its own brackets, so precedence and
// associativity are visible in the output.
func (n *node) fmt(b *strings.Builder) {
	switch n.kind {
	case nodeNum, nodeName:
		b.WriteString(n.name)
	case nodeNeg:
		b.WriteByte('-')
		n.left.fmt(b)
	case nodeNop:
		b.WriteByte('+')
		n.left.fmt(b)
	case nodeAdd, nodeSub, nodeMul, nodeDiv, nodePow:
		b.WriteByte('(')
		n.left.fmt(b)
		switch n.kind {
		case nodeAdd:
			b.WriteString(" + ")
		case nodeSub:
			b.WriteString(" - ")
		case nodeMul:
			b.WriteString(" * ")
		case nodeDiv:
			b.WriteString(" / ")
		case nodePow:
			b.WriteString(" ^ ")
		}
		n.right.fmt(b)
		b.WriteByte(')')
	default:
		panic("letcalc: invalid node kind " + n.kind.String() + " after writing " + b.String())
	}
}

type stmtKind int8

const (
	stmtExpr stmtKind = iota
	stmtLet
	stmtAssign
)

// stmt is one semicolon-delimited unit of input: a bare expression, a let
// declaration, or an assignment to an existing variable.
type stmt struct {
	kind stmtKind
	// name is the declared or assigned variable. Empty for stmtExpr.
	name string
	// pos is the rune column where the statement begins.
	pos  int
	expr *node
}

func (s *stmt) String() string {
	var b strings.Builder
	switch s.kind {
	case stmtLet:
		b.WriteString("let ")
		b.WriteString(s.name)
		b.WriteString(" = ")
	case stmtAssign:
		b.WriteString(s.name)
		b.WriteString(" = ")
	}
	s.expr.fmt(&b)
	return b.String()
}
