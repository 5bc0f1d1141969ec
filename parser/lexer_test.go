package parser

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func lexAll(t *testing.T, src string) []Token {
	t.Helper()
	lex := newLexer(src)
	var toks []Token
	for {
		tok, err := lex.next()
		require.NoError(t, err)
		if tok.Kind == TokenEOF {
			return toks
		}
		toks = append(toks, tok)
	}
}

func kinds(toks []Token) []Kind {
	out := make([]Kind, len(toks))
	for i, tok := range toks {
		out[i] = tok.Kind
	}
	return out
}

func TestLexerBasics(t *testing.T) {
	toks := lexAll(t, `a + b * 2 - 3.5`)
	require.Equal(t, []Kind{
		TokenIdent, TokenPlus, TokenIdent, TokenStar, TokenInt, TokenMinus, TokenFloat,
	}, kinds(toks))
	require.Equal(t, "3.5", toks[6].Text)
}

func TestLexerOperators(t *testing.T) {
	toks := lexAll(t, `== != <= >= < > && || ! = ? :`)
	require.Equal(t, []Kind{
		TokenEq, TokenNotEq, TokenLe, TokenGe, TokenLt, TokenGt,
		TokenAnd, TokenOr, TokenBang, TokenAssign, TokenQuestion, TokenColon,
	}, kinds(toks))
}

func TestLexerStrings(t *testing.T) {
	t.Run("double quoted", func(t *testing.T) {
		toks := lexAll(t, `"hello world"`)
		require.Len(t, toks, 1)
		require.Equal(t, TokenString, toks[0].Kind)
		require.Equal(t, "hello world", toks[0].Text)
	})

	t.Run("single quoted with escapes", func(t *testing.T) {
		toks := lexAll(t, `'a\n\t\'b'`)
		require.Len(t, toks, 1)
		require.Equal(t, "a\n\t'b", toks[0].Text)
	})

	t.Run("unterminated", func(t *testing.T) {
		lex := newLexer(`"oops`)
		_, err := lex.next()
		require.Error(t, err)
	})
}

func TestLexerComments(t *testing.T) {
	toks := lexAll(t, "a # everything after is ignored\nb")
	require.Equal(t, []Kind{TokenIdent, TokenIdent}, kinds(toks))
}

func TestLexerPragma(t *testing.T) {
	toks := lexAll(t, "#pragma cache.size 32\n1")
	require.Equal(t, TokenPragma, toks[0].Kind)
}

func TestLexerKeywords(t *testing.T) {
	toks := lexAll(t, `var if else while true false null truthy`)
	require.Equal(t, []Kind{
		TokenVar, TokenIf, TokenElse, TokenWhile, TokenTrue, TokenFalse, TokenNull, TokenIdent,
	}, kinds(toks))
}

func TestLexerIntegerDotMethod(t *testing.T) {
	// '.' only joins a number when a digit follows
	toks := lexAll(t, `1.plus`)
	require.Equal(t, []Kind{TokenInt, TokenDot, TokenIdent}, kinds(toks))
}

func TestLexerPositions(t *testing.T) {
	toks := lexAll(t, "a\n  b")
	require.Equal(t, Position{Line: 1, Col: 1}, toks[0].Pos)
	require.Equal(t, Position{Line: 2, Col: 3}, toks[1].Pos)
}

func TestLexerUnexpectedCharacter(t *testing.T) {
	lex := newLexer("@")
	_, err := lex.next()
	require.Error(t, err)
	require.Contains(t, err.Error(), "unexpected character")
}
