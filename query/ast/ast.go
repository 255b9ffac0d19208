// Package ast defines the parse tree produced by query/parser: a
// generic tagged node plus an ordered child list, with pre/post
// traversal and a short-circuiting visitor protocol. Nodes are
// deliberately untyped beyond their Kind tag; query/compile's
// post-order translation is what gives each node meaning.
package ast

import "github.com/adrianN/marcql/query/token"

// Kind tags a Node with its grammar production.
type Kind int

const (
	// Select is the root: its children are the projection FieldRefs (in
	// order), an Ident child naming the table, and optionally one more
	// child holding the where-clause expression.
	Select Kind = iota
	FieldRef
	Or
	And
	MatchOp // '~'
	EqOp    // '='
	// Call is an identifier applied to a parenthesized argument list:
	// not(x), is_null(x), not_null(x), or any user-extensible predicate.
	// Text holds the identifier; Children holds the argument expressions.
	Call
	// Ident is a bare identifier leaf: the table name, or (unevaluated)
	// a call's callee name is carried on the Call node itself rather
	// than as a separate Ident child.
	Ident
	// Regex is a regex-literal leaf; Text holds the literal's inner text
	// with the quotes stripped and escape sequences left as written.
	Regex
)

func (k Kind) String() string {
	switch k {
	case Select:
		return "Select"
	case FieldRef:
		return "FieldRef"
	case Or:
		return "Or"
	case And:
		return "And"
	case MatchOp:
		return "MatchOp"
	case EqOp:
		return "EqOp"
	case Call:
		return "Call"
	case Ident:
		return "Ident"
	case Regex:
		return "Regex"
	default:
		return "Unknown"
	}
}

// Node is one parse tree node. Children is nil for leaves (FieldRef,
// Ident, Regex).
type Node struct {
	Kind     Kind
	Pos      int
	Text     string
	Field    token.FieldRefParts // populated when Kind == FieldRef
	Children []*Node
}

// Visitor receives pre- and post-order callbacks during a Visit. Either
// method returning false aborts the traversal immediately.
type Visitor interface {
	Pre(n *Node) bool
	Post(n *Node) bool
}

// Visit walks the tree rooted at n, calling v.Pre before descending into
// children and v.Post after. It returns false as soon as any callback
// does, short-circuiting the remaining traversal.
func (n *Node) Visit(v Visitor) bool {
	if !v.Pre(n) {
		return false
	}
	for _, c := range n.Children {
		if !c.Visit(v) {
			return false
		}
	}
	return v.Post(n)
}

// VisitPre calls fn on every node in pre-order (parent before children).
func (n *Node) VisitPre(fn func(*Node)) {
	fn(n)
	for _, c := range n.Children {
		c.VisitPre(fn)
	}
}

// VisitPost calls fn on every node in post-order (children before parent).
func (n *Node) VisitPost(fn func(*Node)) {
	for _, c := range n.Children {
		c.VisitPost(fn)
	}
	fn(n)
}
