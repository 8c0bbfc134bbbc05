package scan

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNextTokenStream(t *testing.T) {
	s := New("3.5 + x1 * (y - 2)")
	var got []Token
	for {
		tok := s.Next()
		got = append(got, tok)
		if tok.Type == EOF {
			break
		}
	}
	want := []Type{Number, Operator, Identifier, Operator, LeftParen, Identifier, Operator, Number, RightParen, EOF}
	require.Len(t, got, len(want))
	for i, tt := range want {
		assert.Equal(t, tt, got[i].Type, "token %d", i)
	}
}

func TestScanOperators(t *testing.T) {
	s := New("+-*/^#&?")
	for _, want := range []string{"+", "-", "*", "/", "^", "#", "&", "?"} {
		tok := s.Next()
		assert.Equal(t, Operator, tok.Type)
		assert.Equal(t, want, tok.Text)
	}
	assert.Equal(t, EOF, s.Next().Type)
}

func TestScanBrackets(t *testing.T) {
	s := New("([{}])")
	wantTypes := []Type{LeftParen, LeftBrack, LeftBrace, RightBrace, RightBrack, RightParen, EOF}
	for _, want := range wantTypes {
		assert.Equal(t, want, s.Next().Type)
	}
}

func TestParseNumber(t *testing.T) {
	tok := Token{Type: Number, Text: "3.25"}
	f, err := ParseNumber(tok)
	require.NoError(t, err)
	assert.Equal(t, 3.25, f)

	_, err = ParseNumber(Token{Type: Number, Text: "3.2.5"})
	require.Error(t, err)
}

func TestSkipsWhitespace(t *testing.T) {
	s := New("  1   +   2 ")
	assert.Equal(t, "1", s.Next().Text)
	assert.Equal(t, "+", s.Next().Text)
	assert.Equal(t, "2", s.Next().Text)
	assert.Equal(t, EOF, s.Next().Type)
}
