package pon

import (
	"fmt"
	"strconv"
	"strings"
)

// Parser is a one-token-lookahead recursive-descent parser over a Lexer.
type Parser struct {
	lex  *Lexer
	tok  Token
	peek *Token
}

// NewParser returns a parser over src.
func NewParser(src string) (*Parser, error) {
	p := &Parser{lex: NewLexer(src)}
	if err := p.advance(); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *Parser) advance() error {
	if p.peek != nil {
		p.tok = *p.peek
		p.peek = nil
		return nil
	}
	t, err := p.lex.Next()
	if err != nil {
		return err
	}
	p.tok = t
	return nil
}

// ParseDocument parses an entire PON document: either a bare sequence
// of members (no enclosing braces, the common top-level form) or a
// single value.
func (p *Parser) ParseDocument() (Node, error) {
	if p.tok.Kind == TokenIdent {
		return p.parseObjectBody(TokenEOF)
	}
	v, err := p.parseValue()
	if err != nil {
		return Node{}, err
	}
	if p.tok.Kind != TokenEOF {
		return Node{}, fmt.Errorf("pon: unexpected trailing %s", p.tok)
	}
	return v, nil
}

func (p *Parser) parseValue() (Node, error) {
	switch p.tok.Kind {
	case TokenLBrace:
		if err := p.advance(); err != nil {
			return Node{}, err
		}
		n, err := p.parseObjectBody(TokenRBrace)
		if err != nil {
			return Node{}, err
		}
		if p.tok.Kind != TokenRBrace {
			return Node{}, fmt.Errorf("pon: expected '}' at %d:%d", p.tok.Line, p.tok.Column)
		}
		return n, p.advance()
	case TokenLBracket:
		return p.parseArray()
	case TokenString:
		n := Node{Kind: NodeString, Str: p.tok.Text}
		return n, p.advance()
	case TokenNumber:
		return p.parseNumber()
	case TokenTrue:
		n := Node{Kind: NodeBool, Bool: true}
		return n, p.advance()
	case TokenFalse:
		n := Node{Kind: NodeBool, Bool: false}
		return n, p.advance()
	case TokenNull:
		n := Node{Kind: NodeNull}
		return n, p.advance()
	default:
		return Node{}, fmt.Errorf("pon: unexpected token %s", p.tok)
	}
}

func (p *Parser) parseNumber() (Node, error) {
	text := p.tok.Text
	if !strings.ContainsAny(text, ".eE") {
		if iv, err := strconv.ParseInt(text, 10, 64); err == nil {
			return Node{Kind: NodeInt, Int: iv}, p.advance()
		}
	}
	fv, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return Node{}, fmt.Errorf("pon: invalid number %q at %d:%d", text, p.tok.Line, p.tok.Column)
	}
	return Node{Kind: NodeFloat, Float: fv}, p.advance()
}

func (p *Parser) parseArray() (Node, error) {
	if err := p.advance(); err != nil { // consume '['
		return Node{}, err
	}
	var elems []Node
	for p.tok.Kind != TokenRBracket {
		if p.tok.Kind == TokenEOF {
			return Node{}, fmt.Errorf("pon: unterminated array")
		}
		v, err := p.parseValue()
		if err != nil {
			return Node{}, err
		}
		elems = append(elems, v)
	}
	if err := p.advance(); err != nil { // consume ']'
		return Node{}, err
	}
	return Node{Kind: NodeArray, Array: elems}, nil
}

// parseObjectBody parses "name = value" / "name { ... }" / "name [ ... ]"
// members until terminator is seen (without consuming it).
func (p *Parser) parseObjectBody(terminator TokenKind) (Node, error) {
	obj := Node{Kind: NodeObject}
	for p.tok.Kind != terminator {
		if p.tok.Kind == TokenEOF && terminator != TokenEOF {
			return Node{}, fmt.Errorf("pon: unterminated object")
		}
		if p.tok.Kind != TokenIdent {
			return Node{}, fmt.Errorf("pon: expected member name at %d:%d, got %s", p.tok.Line, p.tok.Column, p.tok)
		}
		name := p.tok.Text
		if err := p.advance(); err != nil {
			return Node{}, err
		}

		var value Node
		var err error
		switch p.tok.Kind {
		case TokenEquals:
			if err = p.advance(); err != nil {
				return Node{}, err
			}
			value, err = p.parseValue()
		case TokenLBrace, TokenLBracket:
			value, err = p.parseValue()
		default:
			return Node{}, fmt.Errorf("pon: expected '=', '{' or '[' after member %q at %d:%d", name, p.tok.Line, p.tok.Column)
		}
		if err != nil {
			return Node{}, err
		}

		obj.Keys = append(obj.Keys, name)
		obj.Values = append(obj.Values, value)
	}
	return obj, nil
}

// Parse is a convenience wrapper parsing src as a complete document.
func Parse(src string) (Node, error) {
	p, err := NewParser(src)
	if err != nil {
		return Node{}, err
	}
	return p.ParseDocument()
}
