package idlparse

import (
	"errors"
	"fmt"
	"strings"
)

// ErrSyntax is wrapped by every error this package returns.
var ErrSyntax = errors.New("syntax error")

// SyntaxError reports malformed grammar text at a position.
type SyntaxError struct {
	Line int
	Col  int
	Msg  string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("phase=parse pos=%d:%d: %s: %s", e.Line, e.Col, ErrSyntax, e.Msg)
}

func (e *SyntaxError) Unwrap() error { return ErrSyntax }

type tokenType int

const (
	tokEOF tokenType = iota
	tokIdent
	tokString
	tokOther // numbers and anything else that only matters inside skipped blocks

	tokLBrace   // {
	tokRBrace   // }
	tokLParen   // (
	tokRParen   // )
	tokLBracket // [
	tokRBracket // ]
	tokLAngle   // <
	tokRAngle   // >
	tokSemi     // ;
	tokColon    // :
	tokComma    // ,
	tokQuestion // ?
	tokEquals   // =
)

var punct = map[byte]tokenType{
	'{': tokLBrace, '}': tokRBrace,
	'(': tokLParen, ')': tokRParen,
	'[': tokLBracket, ']': tokRBracket,
	'<': tokLAngle, '>': tokRAngle,
	';': tokSemi, ':': tokColon, ',': tokComma,
	'?': tokQuestion, '=': tokEquals,
}

type token struct {
	typ  tokenType
	text string
	line int
	col  int
}

func (t token) String() string {
	switch t.typ {
	case tokEOF:
		return "end of input"
	case tokString:
		return fmt.Sprintf("string %q", t.text)
	}
	return fmt.Sprintf("%q", t.text)
}

type lexer struct {
	src  string
	cur  int
	line int // 1-based
	col  int // 1-based
}

func newLexer(src string) *lexer {
	return &lexer{src: src, line: 1, col: 1}
}

func (l *lexer) atEnd() bool { return l.cur >= len(l.src) }

func (l *lexer) peekAt(n int) byte {
	if l.cur+n >= len(l.src) {
		return 0
	}
	return l.src[l.cur+n]
}

func (l *lexer) advance() byte {
	ch := l.src[l.cur]
	l.cur++
	if ch == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
	return ch
}

func (l *lexer) errorf(line, col int, format string, args ...any) error {
	return &SyntaxError{Line: line, Col: col, Msg: fmt.Sprintf(format, args...)}
}

// skipSpace skips whitespace, // line comments and /* block */ comments.
func (l *lexer) skipSpace() error {
	for !l.atEnd() {
		ch := l.src[l.cur]
		switch {
		case ch == ' ' || ch == '\t' || ch == '\r' || ch == '\n':
			l.advance()
		case ch == '/' && l.peekAt(1) == '/':
			for !l.atEnd() && l.src[l.cur] != '\n' {
				l.advance()
			}
		case ch == '/' && l.peekAt(1) == '*':
			line, col := l.line, l.col
			l.advance()
			l.advance()
			for {
				if l.atEnd() {
					return l.errorf(line, col, "unterminated comment")
				}
				if l.src[l.cur] == '*' && l.peekAt(1) == '/' {
					l.advance()
					l.advance()
					break
				}
				l.advance()
			}
		default:
			return nil
		}
	}
	return nil
}

func isIdentStart(b byte) bool {
	return b == '_' || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

func isIdentPart(b byte) bool {
	return isIdentStart(b) || b == '-' || (b >= '0' && b <= '9')
}

func (l *lexer) next() (token, error) {
	if err := l.skipSpace(); err != nil {
		return token{}, err
	}
	line, col := l.line, l.col
	if l.atEnd() {
		return token{typ: tokEOF, line: line, col: col}, nil
	}

	ch := l.src[l.cur]
	if tt, ok := punct[ch]; ok {
		l.advance()
		return token{typ: tt, text: string(ch), line: line, col: col}, nil
	}

	switch {
	case ch == '"':
		l.advance()
		var b strings.Builder
		for {
			if l.atEnd() || l.src[l.cur] == '\n' {
				return token{}, l.errorf(line, col, "unterminated string")
			}
			c := l.advance()
			if c == '"' {
				break
			}
			b.WriteByte(c)
		}
		return token{typ: tokString, text: b.String(), line: line, col: col}, nil

	case isIdentStart(ch):
		start := l.cur
		for !l.atEnd() && isIdentPart(l.src[l.cur]) {
			l.advance()
		}
		text := l.src[start:l.cur]
		// A leading underscore escapes identifiers that clash with keywords.
		text = strings.TrimPrefix(text, "_")
		return token{typ: tokIdent, text: text, line: line, col: col}, nil

	default:
		start := l.cur
		for !l.atEnd() {
			c := l.src[l.cur]
			if _, isPunct := punct[c]; isPunct || c == ' ' || c == '\t' || c == '\r' || c == '\n' || c == '"' {
				break
			}
			l.advance()
		}
		return token{typ: tokOther, text: l.src[start:l.cur], line: line, col: col}, nil
	}
}

// scan tokenizes the whole source. The result always ends with tokEOF.
func scan(src string) ([]token, error) {
	l := newLexer(src)
	var toks []token
	for {
		t, err := l.next()
		if err != nil {
			return nil, err
		}
		toks = append(toks, t)
		if t.typ == tokEOF {
			return toks, nil
		}
	}
}
