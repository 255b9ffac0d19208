// Package compile translates a query/ast parse tree into an executable
// operator tree (a query/filter.Node plus a query/project.Projection).
// The translation is describable as a post-order walk over two explicit
// stacks (a filter stack and a field-expression stack); this
// implementation gets the same information flow from a single
// recursive function that returns, for any subtree, either the
// field.Expr or the filter.Node it compiles to: the parse tree's shape
// already encodes what the stack discipline would reconstruct, so no
// stack is needed.
package compile

import (
	"regexp"
	"strconv"

	"github.com/adrianN/marcql/marc"
	"github.com/adrianN/marcql/query/ast"
	"github.com/adrianN/marcql/query/field"
	"github.com/adrianN/marcql/query/filter"
	"github.com/adrianN/marcql/query/project"
	"github.com/cockroachdb/errors"
)

// Query is a compiled query: the table to read, the projection to
// apply to surviving records, and an optional filter (nil means every
// record is True, so the whole batch survives).
type Query struct {
	Table      string
	Projection project.Projection
	Filter     filter.Node
}

// Compile translates a parsed Select node into a Query.
func Compile(tree *ast.Node) (*Query, error) {
	if tree.Kind != ast.Select {
		return nil, errors.Wrapf(marc.ErrInternalInvariant, "compile: expected a Select node, got %v", tree.Kind)
	}

	var projExprs []field.Expr
	table := ""
	haveTable := false
	var whereNode *ast.Node

	for _, c := range tree.Children {
		switch c.Kind {
		case ast.FieldRef:
			fe, err := buildFieldRef(c)
			if err != nil {
				return nil, err
			}
			projExprs = append(projExprs, fe)
		case ast.Ident:
			table = c.Text
			haveTable = true
		default:
			if whereNode != nil {
				return nil, errors.Wrap(marc.ErrInternalInvariant, "compile: select node has more than one where-clause child")
			}
			whereNode = c
		}
	}
	if !haveTable {
		return nil, errors.Wrap(marc.ErrInternalInvariant, "compile: select node has no table identifier")
	}

	var whereFilter filter.Node
	if whereNode != nil {
		fe, fn, err := compileExpr(whereNode)
		if err != nil {
			return nil, err
		}
		if fe != nil || fn == nil {
			return nil, errors.Wrap(marc.ErrInternalInvariant, "compile: where clause did not compile to a filter")
		}
		whereFilter = fn
	}

	return &Query{Table: table, Projection: project.New(projExprs), Filter: whereFilter}, nil
}

// buildFieldRef parses a FieldRef AST leaf's borrowed string parts into
// a field.FieldRef, resolving the tag to an integer here (the token
// layer deliberately leaves it as a substring).
func buildFieldRef(n *ast.Node) (field.FieldRef, error) {
	var fr field.FieldRef

	switch n.Field.RecordType {
	case "a":
		rt := marc.RecordTypeAuthority
		fr.RecordType = &rt
	case "", "*":
		// no record-type constraint
	default:
		return field.FieldRef{}, errors.Newf("compile: unrecognized record-type constraint %q at position %d", n.Field.RecordType, n.Pos)
	}

	if n.Field.Tag != "*" {
		tag, err := strconv.Atoi(n.Field.Tag)
		if err != nil {
			return field.FieldRef{}, errors.Wrapf(err, "compile: malformed tag %q at position %d", n.Field.Tag, n.Pos)
		}
		fr.Tag = &tag
	}

	if n.Field.Subfield != "" && n.Field.Subfield != "*" {
		b := n.Field.Subfield[0]
		fr.Subfield = &b
	}

	return fr, nil
}

// compileExpr recursively translates one EXPR/TERM/NOT subtree. Exactly
// one of the two returns is non-nil on success: a field.Expr for a bare
// FieldRef, or a filter.Node for everything else that can stand as a
// predicate.
func compileExpr(n *ast.Node) (field.Expr, filter.Node, error) {
	switch n.Kind {
	case ast.FieldRef:
		fe, err := buildFieldRef(n)
		if err != nil {
			return nil, nil, err
		}
		return fe, nil, nil

	case ast.MatchOp:
		left, _, err := compileExpr(n.Children[0])
		if err != nil {
			return nil, nil, err
		}
		if left == nil {
			return nil, nil, errors.Wrapf(marc.ErrInternalInvariant, "compile: ~ at position %d has a non-field left operand", n.Pos)
		}
		pattern, err := regexp.Compile(n.Children[1].Text)
		if err != nil {
			return nil, nil, errors.Wrapf(err, "compile: invalid regex literal at position %d", n.Children[1].Pos)
		}
		return nil, filter.NewRegex(left, pattern), nil

	case ast.EqOp:
		lField, lFilter, err := compileExpr(n.Children[0])
		if err != nil {
			return nil, nil, err
		}
		rField, rFilter, err := compileExpr(n.Children[1])
		if err != nil {
			return nil, nil, err
		}
		switch {
		case lField != nil && rField != nil:
			return nil, filter.NewEqField(lField, rField), nil
		case lFilter != nil && rFilter != nil:
			return nil, filter.NewEqFilter(lFilter, rFilter), nil
		default:
			return nil, nil, errors.Wrapf(marc.ErrInternalInvariant, "compile: = at position %d has mismatched operand kinds", n.Pos)
		}

	case ast.And, ast.Or:
		children := make([]filter.Node, 0, len(n.Children))
		for _, c := range n.Children {
			_, fn, err := compileExpr(c)
			if err != nil {
				return nil, nil, err
			}
			if fn == nil {
				return nil, nil, errors.Wrapf(marc.ErrInternalInvariant, "compile: %v at position %d has a bare field-ref operand", n.Kind, n.Pos)
			}
			children = append(children, fn)
		}
		if n.Kind == ast.And {
			return nil, filter.NewAnd(children...), nil
		}
		return nil, filter.NewOr(children...), nil

	case ast.Call:
		return compileCall(n)

	default:
		return nil, nil, errors.Wrapf(marc.ErrInternalInvariant, "compile: unexpected node kind %v at position %d", n.Kind, n.Pos)
	}
}

// compileCall handles the three identifier-call predicates the core
// recognizes: not, is_null, not_null. Any other identifier is the
// one user-extension point the grammar alludes to,
// and is rejected here since the current core implements none.
func compileCall(n *ast.Node) (field.Expr, filter.Node, error) {
	switch n.Text {
	case "not":
		if len(n.Children) != 1 {
			return nil, nil, errors.Newf("compile: not() at position %d takes exactly one argument", n.Pos)
		}
		_, fn, err := compileExpr(n.Children[0])
		if err != nil {
			return nil, nil, err
		}
		if fn == nil {
			return nil, nil, errors.Wrapf(marc.ErrInternalInvariant, "compile: not() at position %d has a bare field-ref argument", n.Pos)
		}
		return nil, filter.NewNot(fn), nil

	case "is_null", "not_null":
		if len(n.Children) != 1 {
			return nil, nil, errors.Newf("compile: %s() at position %d takes exactly one argument", n.Text, n.Pos)
		}
		fe, fn, err := compileExpr(n.Children[0])
		if err != nil {
			return nil, nil, err
		}
		var isNull *filter.IsNullNode
		switch {
		case fe != nil:
			isNull = filter.NewIsNullField(fe)
		case fn != nil:
			isNull = filter.NewIsNullFilter(fn)
		default:
			return nil, nil, errors.Wrapf(marc.ErrInternalInvariant, "compile: %s() at position %d has no operand", n.Text, n.Pos)
		}
		if n.Text == "is_null" {
			return nil, isNull, nil
		}
		return nil, filter.NewNotNull(isNull), nil

	default:
		return nil, nil, errors.Newf("compile: unrecognized predicate %q at position %d", n.Text, n.Pos)
	}
}
