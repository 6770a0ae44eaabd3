package idlparse

import (
	"fmt"

	"idlgraph/cmd/idlgraph/typegraph"
)

// Parse reads interface-definition text and returns its top-level
// declarations in source order.
//
// The accepted grammar is the subset the type graph understands:
//
//	interface Name [: Parent] { [readonly] attribute Type name; ... };
//	Target implements Parent;
//	typedef Type Name;
//	enum Name { "a", "b" };
//
// dictionary, callback, partial, namespace and mixin blocks are parsed
// just far enough to be skipped and reported as declarations of that kind,
// so the registry can reject them by name. Extended attributes ([...]) are
// skipped wherever they may appear.
func Parse(src string) ([]typegraph.Decl, error) {
	toks, err := scan(src)
	if err != nil {
		return nil, err
	}
	p := &parser{toks: toks}
	var decls []typegraph.Decl
	for !p.at(tokEOF) {
		d, err := p.declaration()
		if err != nil {
			return nil, err
		}
		decls = append(decls, d)
	}
	return decls, nil
}

type parser struct {
	toks []token
	i    int
}

func (p *parser) peek() token { return p.toks[p.i] }

func (p *parser) peekN(n int) token {
	if p.i+n >= len(p.toks) {
		return p.toks[len(p.toks)-1]
	}
	return p.toks[p.i+n]
}

func (p *parser) at(tt tokenType) bool { return p.peek().typ == tt }

func (p *parser) atKeyword(kw string) bool {
	t := p.peek()
	return t.typ == tokIdent && t.text == kw
}

func (p *parser) advance() token {
	t := p.toks[p.i]
	if t.typ != tokEOF {
		p.i++
	}
	return t
}

func (p *parser) match(tt tokenType) bool {
	if p.at(tt) {
		p.i++
		return true
	}
	return false
}

func (p *parser) errorf(t token, format string, args ...any) error {
	return &SyntaxError{Line: t.line, Col: t.col, Msg: fmt.Sprintf(format, args...)}
}

func (p *parser) need(tt tokenType, what string) (token, error) {
	if p.at(tt) {
		return p.advance(), nil
	}
	t := p.peek()
	return token{}, p.errorf(t, "expected %s, found %s", what, t)
}

func (p *parser) ident(what string) (token, error) {
	return p.need(tokIdent, what)
}

func (p *parser) keyword(kw string) error {
	if p.atKeyword(kw) {
		p.advance()
		return nil
	}
	t := p.peek()
	return p.errorf(t, "expected %q, found %s", kw, t)
}

func pos(t token) typegraph.Pos { return typegraph.Pos{Line: t.line, Column: t.col} }

// skipExtendedAttributes skips any number of [...] blocks.
func (p *parser) skipExtendedAttributes() error {
	for p.at(tokLBracket) {
		if err := p.skipBalanced(tokLBracket, tokRBracket); err != nil {
			return err
		}
	}
	return nil
}

// skipBalanced consumes from an opening token through its matching close.
func (p *parser) skipBalanced(open, close tokenType) error {
	start := p.advance()
	depth := 1
	for depth > 0 {
		t := p.advance()
		switch t.typ {
		case tokEOF:
			return p.errorf(start, "unbalanced %q", start.text)
		case open:
			depth++
		case close:
			depth--
		}
	}
	return nil
}

func (p *parser) declaration() (typegraph.Decl, error) {
	if err := p.skipExtendedAttributes(); err != nil {
		return typegraph.Decl{}, err
	}
	t := p.peek()
	if t.typ != tokIdent {
		return typegraph.Decl{}, p.errorf(t, "expected a declaration, found %s", t)
	}

	switch t.text {
	case "interface":
		if p.peekN(1).typ == tokIdent && p.peekN(1).text == "mixin" {
			return p.skipped("interface mixin", 2)
		}
		return p.interfaceDecl()
	case "typedef":
		return p.typedefDecl()
	case "enum":
		return p.enumDecl()
	case "dictionary", "namespace":
		return p.skipped(t.text, 1)
	case "partial", "callback":
		kind := t.text
		if n := p.peekN(1); n.typ == tokIdent && (n.text == "interface" || n.text == "dictionary" || n.text == "namespace") {
			kind += " " + n.text
			return p.skipped(kind, 2)
		}
		return p.skipped(kind, 1)
	}

	if n := p.peekN(1); n.typ == tokIdent && (n.text == "implements" || n.text == "includes") {
		return p.implementsDecl()
	}
	return typegraph.Decl{}, p.errorf(t, "unexpected %s at top level", t)
}

// skipped consumes a declaration the type graph does not model, returning a
// Decl whose Kind names it. words is the number of keyword tokens before the
// declared name.
func (p *parser) skipped(kind string, words int) (typegraph.Decl, error) {
	start := p.peek()
	for i := 0; i < words; i++ {
		p.advance()
	}
	d := typegraph.Decl{Kind: typegraph.DeclKind(kind), Pos: pos(start)}
	if p.at(tokIdent) {
		d.Name = p.advance().text
	}
	for !p.at(tokSemi) {
		switch {
		case p.at(tokEOF):
			return d, p.errorf(start, "unterminated %s declaration", kind)
		case p.at(tokLBrace):
			if err := p.skipBalanced(tokLBrace, tokRBrace); err != nil {
				return d, err
			}
		case p.at(tokLParen):
			if err := p.skipBalanced(tokLParen, tokRParen); err != nil {
				return d, err
			}
		default:
			p.advance()
		}
	}
	p.advance()
	return d, nil
}

func (p *parser) interfaceDecl() (typegraph.Decl, error) {
	start := p.advance()
	name, err := p.ident("interface name")
	if err != nil {
		return typegraph.Decl{}, err
	}
	d := typegraph.Decl{Kind: typegraph.DeclInterface, Name: name.text, Pos: pos(start)}

	if p.match(tokColon) {
		parent, err := p.ident("parent interface name")
		if err != nil {
			return d, err
		}
		d.Inherits = parent.text
	}
	if _, err := p.need(tokLBrace, `"{"`); err != nil {
		return d, err
	}
	for !p.at(tokRBrace) {
		m, err := p.member()
		if err != nil {
			return d, err
		}
		d.Members = append(d.Members, m)
	}
	p.advance()
	if _, err := p.need(tokSemi, `";" after interface`); err != nil {
		return d, err
	}
	return d, nil
}

func (p *parser) member() (typegraph.Member, error) {
	if err := p.skipExtendedAttributes(); err != nil {
		return typegraph.Member{}, err
	}
	start := p.peek()
	if p.atKeyword("readonly") || p.atKeyword("inherit") {
		p.advance()
	}
	if !p.atKeyword("attribute") {
		t := p.peek()
		if t.typ == tokEOF {
			return typegraph.Member{}, p.errorf(t, "unterminated interface body")
		}
		return typegraph.Member{}, p.errorf(t, "unsupported interface member starting with %s: only attributes are allowed", t)
	}
	p.advance()

	typ, err := p.typeExpr()
	if err != nil {
		return typegraph.Member{}, err
	}
	name, err := p.ident("attribute name")
	if err != nil {
		return typegraph.Member{}, err
	}
	if _, err := p.need(tokSemi, `";" after attribute`); err != nil {
		return typegraph.Member{}, err
	}
	return typegraph.Member{Name: name.text, Type: typ, Pos: pos(start)}, nil
}

func (p *parser) typedefDecl() (typegraph.Decl, error) {
	start := p.advance()
	if err := p.skipExtendedAttributes(); err != nil {
		return typegraph.Decl{}, err
	}
	typ, err := p.typeExpr()
	if err != nil {
		return typegraph.Decl{}, err
	}
	name, err := p.ident("typedef name")
	if err != nil {
		return typegraph.Decl{}, err
	}
	if _, err := p.need(tokSemi, `";" after typedef`); err != nil {
		return typegraph.Decl{}, err
	}
	return typegraph.Decl{Kind: typegraph.DeclTypedef, Name: name.text, Type: &typ, Pos: pos(start)}, nil
}

func (p *parser) enumDecl() (typegraph.Decl, error) {
	start := p.advance()
	name, err := p.ident("enum name")
	if err != nil {
		return typegraph.Decl{}, err
	}
	if _, err := p.need(tokLBrace, `"{"`); err != nil {
		return typegraph.Decl{}, err
	}
	values := []string{}
	for !p.at(tokRBrace) {
		v, err := p.need(tokString, "enum value string")
		if err != nil {
			return typegraph.Decl{}, err
		}
		values = append(values, v.text)
		if !p.match(tokComma) {
			break
		}
	}
	if _, err := p.need(tokRBrace, `"}"`); err != nil {
		return typegraph.Decl{}, err
	}
	if _, err := p.need(tokSemi, `";" after enum`); err != nil {
		return typegraph.Decl{}, err
	}
	return typegraph.Decl{Kind: typegraph.DeclEnum, Name: name.text, Values: values, Pos: pos(start)}, nil
}

// implementsDecl parses "A implements B;". "A includes B;" is read the same
// way.
func (p *parser) implementsDecl() (typegraph.Decl, error) {
	target := p.advance()
	p.advance()
	parent, err := p.ident("implemented interface name")
	if err != nil {
		return typegraph.Decl{}, err
	}
	if _, err := p.need(tokSemi, `";" after implements`); err != nil {
		return typegraph.Decl{}, err
	}
	return typegraph.Decl{
		Kind:       typegraph.DeclImplements,
		Target:     target.text,
		Implements: parent.text,
		Pos:        pos(target),
	}, nil
}

// multiword holds the words that may start a primitive spelled with
// spaces (unsigned long long), and continuation the words that may follow.
var (
	multiword    = map[string]bool{"unsigned": true, "unrestricted": true, "long": true}
	continuation = map[string]bool{"long": true, "short": true, "double": true, "float": true}
)

// typeExpr parses a type followed by its ? and [] suffixes.
func (p *parser) typeExpr() (typegraph.RawType, error) {
	var t typegraph.RawType
	switch {
	case p.at(tokLParen):
		open := p.advance()
		for {
			m, err := p.typeExpr()
			if err != nil {
				return t, err
			}
			t.Union = append(t.Union, m)
			if !p.atKeyword("or") {
				break
			}
			p.advance()
		}
		if _, err := p.need(tokRParen, `")" closing union`); err != nil {
			return t, err
		}
		if len(t.Union) < 2 {
			return t, p.errorf(open, "union needs at least two members")
		}

	case p.at(tokIdent):
		name := p.advance().text
		if multiword[name] {
			for p.at(tokIdent) && continuation[p.peek().text] {
				name += " " + p.advance().text
			}
		}
		if p.at(tokLAngle) {
			t.Generic = name
			p.advance()
			for {
				param, err := p.typeExpr()
				if err != nil {
					return t, err
				}
				t.Params = append(t.Params, param)
				if !p.match(tokComma) {
					break
				}
			}
			if _, err := p.need(tokRAngle, `">" closing generic`); err != nil {
				return t, err
			}
		} else {
			t.Name = name
		}

	default:
		tok := p.peek()
		return t, p.errorf(tok, "expected a type, found %s", tok)
	}

	pending := false
	for {
		switch {
		case p.at(tokQuestion):
			q := p.advance()
			if pending {
				return t, p.errorf(q, "repeated ?")
			}
			pending = true
		case p.at(tokLBracket) && p.peekN(1).typ == tokRBracket:
			p.advance()
			p.advance()
			t.Array++
			t.NullableArray = append(t.NullableArray, pending)
			pending = false
		default:
			t.Nullable = pending
			return t, nil
		}
	}
}

// ParseType parses a single type expression such as "(A or B)?[]".
func ParseType(src string) (typegraph.RawType, error) {
	toks, err := scan(src)
	if err != nil {
		return typegraph.RawType{}, err
	}
	p := &parser{toks: toks}
	t, err := p.typeExpr()
	if err != nil {
		return typegraph.RawType{}, err
	}
	if !p.at(tokEOF) {
		tok := p.peek()
		return typegraph.RawType{}, p.errorf(tok, "unexpected %s after type", tok)
	}
	return t, nil
}
