package pon

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func lexAll(t *testing.T, src string) []Token {
	t.Helper()
	l := NewLexer(src)
	var toks []Token
	for {
		tok, err := l.Next()
		require.NoError(t, err)
		toks = append(toks, tok)
		if tok.Kind == TokenEOF {
			return toks
		}
	}
}

func TestLexerPunctuation(t *testing.T) {
	toks := lexAll(t, `{ } [ ] =`)
	kinds := make([]TokenKind, 0, len(toks))
	for _, tk := range toks {
		kinds = append(kinds, tk.Kind)
	}
	require.Equal(t, []TokenKind{
		TokenLBrace, TokenRBrace, TokenLBracket, TokenRBracket, TokenEquals, TokenEOF,
	}, kinds)
}

func TestLexerKeywords(t *testing.T) {
	toks := lexAll(t, `true false null`)
	require.Equal(t, TokenTrue, toks[0].Kind)
	require.Equal(t, TokenFalse, toks[1].Kind)
	require.Equal(t, TokenNull, toks[2].Kind)
}

func TestLexerIdentVsKeyword(t *testing.T) {
	toks := lexAll(t, `truex falseish nullable`)
	for _, tk := range toks[:3] {
		require.Equal(t, TokenIdent, tk.Kind)
	}
}

func TestLexerNumberSignsAndExponent(t *testing.T) {
	toks := lexAll(t, `-42 +3.5 1e10`)
	require.Equal(t, "-42", toks[0].Text)
	require.Equal(t, "+3.5", toks[1].Text)
	require.Equal(t, "1e10", toks[2].Text)
	require.Equal(t, TokenNumber, toks[0].Kind)
}

func TestLexerStringEscapes(t *testing.T) {
	toks := lexAll(t, `"line\nbreak \"quoted\""`)
	require.Equal(t, TokenString, toks[0].Kind)
	require.Equal(t, "line\nbreak \"quoted\"", toks[0].Text)
}

func TestLexerUnterminatedStringFails(t *testing.T) {
	l := NewLexer(`"unterminated`)
	_, err := l.Next()
	require.Error(t, err)
}

func TestLexerCommentsSkipped(t *testing.T) {
	toks := lexAll(t, "# a comment\nname")
	require.Equal(t, TokenIdent, toks[0].Kind)
	require.Equal(t, "name", toks[0].Text)
}

func TestLexerLineColumnTracking(t *testing.T) {
	toks := lexAll(t, "a\nb")
	require.Equal(t, 1, toks[0].Line)
	require.Equal(t, 2, toks[1].Line)
	require.Equal(t, 1, toks[1].Column)
}

func TestLexerUnexpectedCharacterFails(t *testing.T) {
	l := NewLexer(`@`)
	_, err := l.Next()
	require.Error(t, err)
}
