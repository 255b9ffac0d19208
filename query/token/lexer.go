package token

import (
	"github.com/cockroachdb/errors"
)

// Lexer scans query text into Tokens one at a time.
type Lexer struct {
	input string
	pos   int
}

// New wraps input for scanning.
func New(input string) *Lexer {
	return &Lexer{input: input}
}

// Lex tokenizes input in full. It does not include a trailing EOF
// token; callers probe io.EOF-style by checking length.
func Lex(input string) ([]Token, error) {
	l := New(input)
	var out []Token
	for {
		tok, err := l.Next()
		if err != nil {
			return nil, err
		}
		if tok.Kind == EOF {
			return out, nil
		}
		out = append(out, tok)
	}
}

func (l *Lexer) peekByte() byte {
	if l.pos >= len(l.input) {
		return 0
	}
	return l.input[l.pos]
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }
func isLower(b byte) bool { return b >= 'a' && b <= 'z' }
func isUpper(b byte) bool { return b >= 'A' && b <= 'Z' }
func isIdentByte(b byte) bool {
	return isDigit(b) || isLower(b) || isUpper(b) || b == '_' || b == '-'
}

// hasKeywordAt reports whether input holds word at pos, not immediately
// followed by another identifier byte (so "selectable" isn't lexed as
// the keyword "select" followed by garbage).
func (l *Lexer) hasKeywordAt(word string) bool {
	end := l.pos + len(word)
	if end > len(l.input) || l.input[l.pos:end] != word {
		return false
	}
	if end < len(l.input) && isIdentByte(l.input[end]) {
		return false
	}
	return true
}

// Next scans and returns the next token. At end of input it returns an
// EOF token positioned at the end of the input and a nil error.
func (l *Lexer) Next() (Token, error) {
	for l.peekByte() == ' ' {
		l.pos++
	}
	start := l.pos
	if l.pos >= len(l.input) {
		return Token{Kind: EOF, Pos: start}, nil
	}

	// Keywords and infix operators are tried before FieldRef/Ident:
	// otherwise "select"/"or"/"and" would lex as identifiers or field
	// refs.
	for _, kw := range []struct {
		word string
		kind Kind
	}{
		{"select", Select},
		{"from", From},
		{"where", Where},
		{"or", Or},
		{"and", And},
		// "not" is deliberately absent here: it's an identifier-call
		// exactly like is_null/not_null, not a distinct infix keyword,
		// so it falls through to the Ident rule below like any other
		// call name.
	} {
		if l.hasKeywordAt(kw.word) {
			l.pos += len(kw.word)
			return Token{Kind: kw.kind, Pos: start, Text: kw.word}, nil
		}
	}

	switch b := l.peekByte(); b {
	case '~':
		l.pos++
		return Token{Kind: Tilde, Pos: start, Text: "~"}, nil
	case '=':
		l.pos++
		return Token{Kind: EqOp, Pos: start, Text: "="}, nil
	case ',':
		l.pos++
		return Token{Kind: Comma, Pos: start, Text: ","}, nil
	case '(':
		l.pos++
		return Token{Kind: LParen, Pos: start, Text: "("}, nil
	case ')':
		l.pos++
		return Token{Kind: RParen, Pos: start, Text: ")"}, nil
	case '\'':
		return l.lexRegex(start)
	}

	if tok, ok, err := l.lexFieldRef(start); err != nil || ok {
		return tok, err
	}

	return l.lexIdent(start)
}

// lexRegex extracts the text between the opening quote at start and the
// first unescaped closing quote: scan forward tracking escape state;
// `\'` and `\\` are the only escapes recognized.
func (l *Lexer) lexRegex(start int) (Token, error) {
	l.pos++ // consume opening '
	escaped := false
	for i := l.pos; i < len(l.input); i++ {
		c := l.input[i]
		switch {
		case escaped:
			escaped = false
		case c == '\\':
			escaped = true
		case c == '\'':
			text := l.input[l.pos:i]
			l.pos = i + 1
			return Token{Kind: Regex, Pos: start, Text: text}, nil
		}
	}
	return Token{}, errors.Newf("token: unterminated regex literal starting at position %d", start)
}

// lexFieldRef attempts to match `([a*]\.)?([0-9]+|\*)(\.([a-z*]))?` at
// the lexer's current position. ok is false if no field ref starts
// here (the caller falls through to Ident).
func (l *Lexer) lexFieldRef(start int) (Token, bool, error) {
	pos := l.pos
	var parts FieldRefParts

	// Optional record-type prefix: ('a'|'*') '.'
	if pos+1 < len(l.input) && (l.input[pos] == 'a' || l.input[pos] == '*') && l.input[pos+1] == '.' {
		parts.RecordType = l.input[pos : pos+1]
		pos += 2
	}

	// Mandatory tag: digits, or '*'.
	tagStart := pos
	switch {
	case pos < len(l.input) && l.input[pos] == '*':
		parts.Tag = "*"
		pos++
	case pos < len(l.input) && isDigit(l.input[pos]):
		for pos < len(l.input) && isDigit(l.input[pos]) {
			pos++
		}
		parts.Tag = l.input[tagStart:pos]
	default:
		return Token{}, false, nil
	}

	// Optional subfield suffix: '.' ('a'-'z' | '*').
	if pos+1 < len(l.input) && l.input[pos] == '.' {
		next := l.input[pos+1]
		if isLower(next) || next == '*' {
			parts.Subfield = string(next)
			pos += 2
		}
	}

	l.pos = pos
	return Token{Kind: FieldRef, Pos: start, Field: parts}, true, nil
}

// lexIdent matches [A-Za-z0-9_-]+, the table/function-name token,
// deliberately tried last so keywords, operators, and field refs all
// get first crack at a lexeme.
func (l *Lexer) lexIdent(start int) (Token, error) {
	pos := l.pos
	for pos < len(l.input) && isIdentByte(l.input[pos]) {
		pos++
	}
	if pos == l.pos {
		return Token{}, errors.Newf("token: unrecognized character %q at position %d", l.input[pos], start)
	}
	text := l.input[l.pos:pos]
	l.pos = pos
	return Token{Kind: Ident, Pos: start, Text: text}, nil
}
