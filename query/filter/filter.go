// Package filter implements the polymorphic predicate tree: three-valued
// (Kleene) evaluation plus in-place batch partitioning. The node
// hierarchy is a Go interface with one concrete type per predicate
// kind; same-kind And/Or children are flattened at construction.
package filter

import (
	"bytes"
	"regexp"

	"github.com/adrianN/marcql/marc"
	"github.com/adrianN/marcql/query/field"
)

// Tri is a Kleene-logic truth value.
type Tri int

const (
	False Tri = iota
	Null
	True
)

func (t Tri) String() string {
	switch t {
	case True:
		return "True"
	case Null:
		return "Null"
	default:
		return "False"
	}
}

// Node is a filter-tree node: anything that can be evaluated against a
// record under three-valued logic.
type Node interface {
	Evaluate(v marc.View) (Tri, error)
}

// RegexNode matches any field Expr yields against Pattern. True if any
// field matches; False if at least one field exists and none match;
// Null if Expr yields no fields at all.
type RegexNode struct {
	Expr    field.Expr
	Pattern *regexp.Regexp
}

func NewRegex(expr field.Expr, pattern *regexp.Regexp) *RegexNode {
	return &RegexNode{Expr: expr, Pattern: pattern}
}

func (n *RegexNode) Evaluate(v marc.View) (Tri, error) {
	it, err := n.Expr.Fields(v)
	if err != nil {
		return Null, err
	}
	any := false
	for {
		f, ok, err := it.Next()
		if err != nil {
			return Null, err
		}
		if !ok {
			break
		}
		any = true
		if n.Pattern.Match(f.Data) {
			return True, nil
		}
	}
	if !any {
		return Null, nil
	}
	return False, nil
}

// EqNode compares either two filter subtrees (by Kleene value) or two
// field references (by cross-product byte equality). Mixed operand
// kinds are rejected at compile time (query/compile), never
// constructed here.
type EqNode struct {
	IsField     bool
	FieldLeft   field.Expr
	FieldRight  field.Expr
	FilterLeft  Node
	FilterRight Node
}

func NewEqFilter(left, right Node) *EqNode {
	return &EqNode{FilterLeft: left, FilterRight: right}
}

func NewEqField(left, right field.Expr) *EqNode {
	return &EqNode{IsField: true, FieldLeft: left, FieldRight: right}
}

func (n *EqNode) Evaluate(v marc.View) (Tri, error) {
	if !n.IsField {
		l, err := n.FilterLeft.Evaluate(v)
		if err != nil {
			return Null, err
		}
		r, err := n.FilterRight.Evaluate(v)
		if err != nil {
			return Null, err
		}
		if l == r {
			return True, nil
		}
		return False, nil
	}

	left, err := collect(n.FieldLeft, v)
	if err != nil {
		return Null, err
	}
	right, err := collect(n.FieldRight, v)
	if err != nil {
		return Null, err
	}
	// An empty side is treated as "no evidence of disagreement" -> True.
	if len(left) == 0 || len(right) == 0 {
		return True, nil
	}
	for _, lf := range left {
		for _, rf := range right {
			if bytes.Equal(lf.Data, rf.Data) {
				return True, nil
			}
		}
	}
	return False, nil
}

func collect(e field.Expr, v marc.View) ([]marc.Field, error) {
	it, err := e.Fields(v)
	if err != nil {
		return nil, err
	}
	var out []marc.Field
	for {
		f, ok, err := it.Next()
		if err != nil {
			return nil, err
		}
		if !ok {
			return out, nil
		}
		out = append(out, f)
	}
}

// AndNode is True iff at least one child is True and none are False;
// False if any child is False; Null if every non-False child is Null.
type AndNode struct {
	Children []Node
}

// NewAnd flattens any And children into this node's own child list,
// per the compiler's And/Or flattening rule.
func NewAnd(children ...Node) *AndNode {
	var out []Node
	for _, c := range children {
		if a, ok := c.(*AndNode); ok {
			out = append(out, a.Children...)
		} else {
			out = append(out, c)
		}
	}
	return &AndNode{Children: out}
}

func (n *AndNode) Evaluate(v marc.View) (Tri, error) {
	sawTrue := false
	for _, c := range n.Children {
		t, err := c.Evaluate(v)
		if err != nil {
			return Null, err
		}
		switch t {
		case False:
			return False, nil
		case True:
			sawTrue = true
		}
	}
	if sawTrue {
		return True, nil
	}
	return Null, nil
}

// OrNode is True iff any child is True; Null if any child is Null and
// none are True; False otherwise.
type OrNode struct {
	Children []Node
}

func NewOr(children ...Node) *OrNode {
	var out []Node
	for _, c := range children {
		if o, ok := c.(*OrNode); ok {
			out = append(out, o.Children...)
		} else {
			out = append(out, c)
		}
	}
	return &OrNode{Children: out}
}

func (n *OrNode) Evaluate(v marc.View) (Tri, error) {
	sawNull := false
	for _, c := range n.Children {
		t, err := c.Evaluate(v)
		if err != nil {
			return Null, err
		}
		if t == True {
			return True, nil
		}
		if t == Null {
			sawNull = true
		}
	}
	if sawNull {
		return Null, nil
	}
	return False, nil
}

// NotNode inverts True<->False and leaves Null unchanged.
type NotNode struct {
	Child Node
}

func NewNot(child Node) *NotNode { return &NotNode{Child: child} }

func (n *NotNode) Evaluate(v marc.View) (Tri, error) {
	t, err := n.Child.Evaluate(v)
	if err != nil {
		return Null, err
	}
	switch t {
	case True:
		return False, nil
	case False:
		return True, nil
	default:
		return Null, nil
	}
}

// IsNullNode is True iff its operand "is Null": a filter operand that
// evaluates to Null, or a field-reference operand that yields no
// fields. It never itself evaluates to Null.
type IsNullNode struct {
	IsField       bool
	FieldOperand  field.Expr
	FilterOperand Node
}

func NewIsNullField(expr field.Expr) *IsNullNode {
	return &IsNullNode{IsField: true, FieldOperand: expr}
}

func NewIsNullFilter(inner Node) *IsNullNode {
	return &IsNullNode{FilterOperand: inner}
}

func (n *IsNullNode) Evaluate(v marc.View) (Tri, error) {
	if n.IsField {
		it, err := n.FieldOperand.Fields(v)
		if err != nil {
			return Null, err
		}
		_, ok, err := it.Next()
		if err != nil {
			return Null, err
		}
		if !ok {
			return True, nil
		}
		return False, nil
	}
	t, err := n.FilterOperand.Evaluate(v)
	if err != nil {
		return Null, err
	}
	if t == Null {
		return True, nil
	}
	return False, nil
}

// NotNullNode is the complement of an IsNullNode; it never evaluates
// to Null either.
type NotNullNode struct {
	Inner *IsNullNode
}

func NewNotNull(inner *IsNullNode) *NotNullNode { return &NotNullNode{Inner: inner} }

func (n *NotNullNode) Evaluate(v marc.View) (Tri, error) {
	t, err := n.Inner.Evaluate(v)
	if err != nil {
		return Null, err
	}
	if t == True {
		return False, nil
	}
	return True, nil
}

// Partition rearranges views in place into three contiguous regions,
// in order [True | Null | False]: a Dutch National
// Flag three-way partition with two walkers, each record evaluated
// exactly once. It returns the True/Null boundary and the Null/False
// boundary; ordering within a region is not preserved.
func Partition(f Node, views []marc.View) (trueEnd, nullEnd int, err error) {
	low, mid, high := 0, 0, len(views)-1
	for mid <= high {
		t, evalErr := f.Evaluate(views[mid])
		if evalErr != nil {
			return 0, 0, evalErr
		}
		switch t {
		case True:
			views[low], views[mid] = views[mid], views[low]
			low++
			mid++
		case Null:
			mid++
		case False:
			views[mid], views[high] = views[high], views[mid]
			high--
		}
	}
	return low, mid, nil
}
