// Package parser implements the recursive-descent SELECT/WHERE grammar
// over query/token's token stream, producing a query/ast tree. The
// productions are mutually recursive functions sharing one cursor on
// the parser struct; or/and are parsed right-recursively (both
// operators are associative, so evaluation doesn't depend on it).
package parser

import (
	"github.com/adrianN/marcql/query/ast"
	"github.com/adrianN/marcql/query/token"
	"github.com/cockroachdb/errors"
)

// Parse lexes and parses a full query string, per the STMT grammar.
func Parse(input string) (*ast.Node, error) {
	toks, err := token.Lex(input)
	if err != nil {
		return nil, errors.Wrap(err, "parser: lex")
	}
	p := &parser{toks: toks}
	node, err := p.parseStmt()
	if err != nil {
		return nil, err
	}
	if p.pos != len(p.toks) {
		return nil, errors.Newf("parser: unexpected trailing token %s at position %d", p.peek().Kind, p.peek().Pos)
	}
	return node, nil
}

// ParseExpr lexes and parses a standalone boolean expression (the
// language of a WHERE clause), without the surrounding STMT. Useful for
// testing the expression grammar in isolation and for any future
// caller that wants to evaluate a bare predicate string.
func ParseExpr(input string) (*ast.Node, error) {
	toks, err := token.Lex(input)
	if err != nil {
		return nil, errors.Wrap(err, "parser: lex")
	}
	p := &parser{toks: toks}
	node, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if p.pos != len(p.toks) {
		return nil, errors.Newf("parser: unexpected trailing token %s at position %d", p.peek().Kind, p.peek().Pos)
	}
	return node, nil
}

type parser struct {
	toks []token.Token
	pos  int
}

// peek returns the next unconsumed token, or a synthetic EOF token past
// the end of input.
func (p *parser) peek() token.Token {
	if p.pos >= len(p.toks) {
		end := 0
		if len(p.toks) > 0 {
			end = p.toks[len(p.toks)-1].Pos + 1
		}
		return token.Token{Kind: token.EOF, Pos: end}
	}
	return p.toks[p.pos]
}

func (p *parser) advance() token.Token {
	t := p.peek()
	p.pos++
	return t
}

func (p *parser) expect(k token.Kind) (token.Token, error) {
	t := p.peek()
	if t.Kind != k {
		return token.Token{}, errors.Newf("parser: expected %s, found %s at position %d", k, t.Kind, t.Pos)
	}
	return p.advance(), nil
}

// parseStmt: STMT -> 'select' PROJ_LIST 'from' Identifier ('where' EXPR)?
func (p *parser) parseStmt() (*ast.Node, error) {
	if _, err := p.expect(token.Select); err != nil {
		return nil, err
	}
	projList, err := p.parseProjList()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.From); err != nil {
		return nil, err
	}
	tableTok, err := p.expect(token.Ident)
	if err != nil {
		return nil, err
	}

	children := append(projList, &ast.Node{Kind: ast.Ident, Text: tableTok.Text, Pos: tableTok.Pos})
	if p.peek().Kind == token.Where {
		p.advance()
		where, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		children = append(children, where)
	}
	return &ast.Node{Kind: ast.Select, Children: children}, nil
}

// parseProjList: PROJ_LIST -> FieldRef (',' FieldRef)*
func (p *parser) parseProjList() ([]*ast.Node, error) {
	first, err := p.expect(token.FieldRef)
	if err != nil {
		return nil, err
	}
	out := []*ast.Node{fieldNode(first)}
	for p.peek().Kind == token.Comma {
		p.advance()
		next, err := p.expect(token.FieldRef)
		if err != nil {
			return nil, err
		}
		out = append(out, fieldNode(next))
	}
	return out, nil
}

// parseExpr: EXPR -> OR ('or' EXPR)?, right-associative.
func (p *parser) parseExpr() (*ast.Node, error) {
	lhs, err := p.parseAndLevel()
	if err != nil {
		return nil, err
	}
	if p.peek().Kind == token.Or {
		tok := p.advance()
		rhs, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		return &ast.Node{Kind: ast.Or, Pos: tok.Pos, Children: []*ast.Node{lhs, rhs}}, nil
	}
	return lhs, nil
}

// parseAndLevel implements the grammar's OR production (named for its
// operator precedence slot, not its operator): OR -> TERM ('and' OR)?,
// right-associative.
func (p *parser) parseAndLevel() (*ast.Node, error) {
	lhs, err := p.parseTerm()
	if err != nil {
		return nil, err
	}
	if p.peek().Kind == token.And {
		tok := p.advance()
		rhs, err := p.parseAndLevel()
		if err != nil {
			return nil, err
		}
		return &ast.Node{Kind: ast.And, Pos: tok.Pos, Children: []*ast.Node{lhs, rhs}}, nil
	}
	return lhs, nil
}

// parseTerm: TERM -> NOT ('~' RegexLiteral | '=' NOT)?
func (p *parser) parseTerm() (*ast.Node, error) {
	lhs, err := p.parseAtom()
	if err != nil {
		return nil, err
	}
	switch p.peek().Kind {
	case token.Tilde:
		tok := p.advance()
		regexTok, err := p.expect(token.Regex)
		if err != nil {
			return nil, err
		}
		regexNode := &ast.Node{Kind: ast.Regex, Pos: regexTok.Pos, Text: regexTok.Text}
		return &ast.Node{Kind: ast.MatchOp, Pos: tok.Pos, Children: []*ast.Node{lhs, regexNode}}, nil
	case token.EqOp:
		tok := p.advance()
		rhs, err := p.parseAtom()
		if err != nil {
			return nil, err
		}
		return &ast.Node{Kind: ast.EqOp, Pos: tok.Pos, Children: []*ast.Node{lhs, rhs}}, nil
	default:
		return lhs, nil
	}
}

// parseAtom: NOT -> Identifier '(' EXPR_LIST ')' | FieldRef | '(' EXPR ')'
func (p *parser) parseAtom() (*ast.Node, error) {
	switch p.peek().Kind {
	case token.Ident:
		nameTok := p.advance()
		if _, err := p.expect(token.LParen); err != nil {
			return nil, err
		}
		args, err := p.parseExprList()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.RParen); err != nil {
			return nil, err
		}
		return &ast.Node{Kind: ast.Call, Pos: nameTok.Pos, Text: nameTok.Text, Children: args}, nil
	case token.FieldRef:
		return fieldNode(p.advance()), nil
	case token.LParen:
		p.advance()
		inner, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.RParen); err != nil {
			return nil, err
		}
		return inner, nil
	default:
		t := p.peek()
		return nil, errors.Newf("parser: unexpected token %s at position %d", t.Kind, t.Pos)
	}
}

// parseExprList: EXPR_LIST -> EXPR (',' EXPR)*
func (p *parser) parseExprList() ([]*ast.Node, error) {
	first, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	out := []*ast.Node{first}
	for p.peek().Kind == token.Comma {
		p.advance()
		next, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		out = append(out, next)
	}
	return out, nil
}

func fieldNode(t token.Token) *ast.Node {
	return &ast.Node{Kind: ast.FieldRef, Pos: t.Pos, Field: t.Field}
}
