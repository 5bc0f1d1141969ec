package parser

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// lexer turns EXL source text into a token stream. Comments start with '#'
// and run to end of line, except for '#pragma' which is surfaced as a token.
type lexer struct {
	src  string
	pos  int
	line int
	col  int
}

func newLexer(src string) *lexer {
	return &lexer{src: src, line: 1, col: 1}
}

func (l *lexer) peek() rune {
	if l.pos >= len(l.src) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(l.src[l.pos:])
	return r
}

func (l *lexer) advance() rune {
	if l.pos >= len(l.src) {
		return 0
	}
	r, w := utf8.DecodeRuneInString(l.src[l.pos:])
	l.pos += w
	if r == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
	return r
}

func (l *lexer) here() Position {
	return Position{Line: l.line, Col: l.col}
}

func isIdentStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

func isIdentPart(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

// next scans and returns the next token.
func (l *lexer) next() (Token, error) {
	l.skipSpaceAndComments()
	pos := l.here()

	r := l.peek()
	if r == 0 {
		return Token{Kind: TokenEOF, Pos: pos}, nil
	}

	switch {
	case isIdentStart(r):
		return l.scanIdent(pos), nil
	case unicode.IsDigit(r):
		return l.scanNumber(pos)
	case r == '"' || r == '\'':
		return l.scanString(pos)
	case r == '#':
		// skipSpaceAndComments only leaves '#' in place for '#pragma'.
		for i := 0; i < len("#pragma"); i++ {
			l.advance()
		}
		return Token{Kind: TokenPragma, Text: "#pragma", Pos: pos}, nil
	}

	l.advance()
	one := func(k Kind, text string) (Token, error) {
		return Token{Kind: k, Text: text, Pos: pos}, nil
	}
	two := func(k Kind, text string) (Token, error) {
		l.advance()
		return Token{Kind: k, Text: text, Pos: pos}, nil
	}

	switch r {
	case ';':
		return one(TokenSemi, ";")
	case ',':
		return one(TokenComma, ",")
	case '.':
		return one(TokenDot, ".")
	case ':':
		return one(TokenColon, ":")
	case '?':
		return one(TokenQuestion, "?")
	case '(':
		return one(TokenLParen, "(")
	case ')':
		return one(TokenRParen, ")")
	case '[':
		return one(TokenLBracket, "[")
	case ']':
		return one(TokenRBracket, "]")
	case '{':
		return one(TokenLBrace, "{")
	case '}':
		return one(TokenRBrace, "}")
	case '+':
		return one(TokenPlus, "+")
	case '-':
		return one(TokenMinus, "-")
	case '*':
		return one(TokenStar, "*")
	case '/':
		return one(TokenSlash, "/")
	case '%':
		return one(TokenPercent, "%")
	case '=':
		if l.peek() == '=' {
			return two(TokenEq, "==")
		}
		return one(TokenAssign, "=")
	case '!':
		if l.peek() == '=' {
			return two(TokenNotEq, "!=")
		}
		return one(TokenBang, "!")
	case '<':
		if l.peek() == '=' {
			return two(TokenLe, "<=")
		}
		return one(TokenLt, "<")
	case '>':
		if l.peek() == '=' {
			return two(TokenGe, ">=")
		}
		return one(TokenGt, ">")
	case '&':
		if l.peek() == '&' {
			return two(TokenAnd, "&&")
		}
	case '|':
		if l.peek() == '|' {
			return two(TokenOr, "||")
		}
	}

	return Token{}, newParseError(pos, "unexpected character %q", r)
}

func (l *lexer) skipSpaceAndComments() {
	for {
		r := l.peek()
		switch {
		case r == ' ' || r == '\t' || r == '\r' || r == '\n':
			l.advance()
		case r == '#':
			if strings.HasPrefix(l.src[l.pos:], "#pragma") {
				return
			}
			for l.peek() != 0 && l.peek() != '\n' {
				l.advance()
			}
		default:
			return
		}
	}
}

func (l *lexer) scanIdent(pos Position) Token {
	start := l.pos
	for isIdentPart(l.peek()) {
		l.advance()
	}
	text := l.src[start:l.pos]
	if k, ok := keywords[text]; ok {
		return Token{Kind: k, Text: text, Pos: pos}
	}
	return Token{Kind: TokenIdent, Text: text, Pos: pos}
}

func (l *lexer) scanNumber(pos Position) (Token, error) {
	start := l.pos
	kind := TokenInt
	for unicode.IsDigit(l.peek()) {
		l.advance()
	}
	// A '.' is part of the number only when a digit follows, so that
	// integer method calls like 1.plus(2) stay unambiguous.
	if l.peek() == '.' && l.pos+1 < len(l.src) {
		if next, _ := utf8.DecodeRuneInString(l.src[l.pos+1:]); unicode.IsDigit(next) {
			kind = TokenFloat
			l.advance()
			for unicode.IsDigit(l.peek()) {
				l.advance()
			}
		}
	}
	return Token{Kind: kind, Text: l.src[start:l.pos], Pos: pos}, nil
}

func (l *lexer) scanString(pos Position) (Token, error) {
	quote := l.advance()
	var sb strings.Builder
	for {
		r := l.peek()
		if r == 0 || r == '\n' {
			return Token{}, newParseError(pos, "unterminated string literal")
		}
		l.advance()
		if r == quote {
			return Token{Kind: TokenString, Text: sb.String(), Pos: pos}, nil
		}
		if r == '\\' {
			esc := l.advance()
			switch esc {
			case 'n':
				sb.WriteByte('\n')
			case 't':
				sb.WriteByte('\t')
			case '\\', '\'', '"':
				sb.WriteRune(esc)
			default:
				return Token{}, newParseError(pos, "unknown escape sequence \\%c", esc)
			}
			continue
		}
		sb.WriteRune(r)
	}
}
