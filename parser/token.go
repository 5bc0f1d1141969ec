package parser

import "fmt"

// Kind identifies the lexical class of a token.
type Kind int

const (
	TokenEOF Kind = iota
	TokenIdent
	TokenInt
	TokenFloat
	TokenString

	// Keywords
	TokenVar
	TokenIf
	TokenElse
	TokenWhile
	TokenTrue
	TokenFalse
	TokenNull
	TokenPragma

	// Punctuation and operators
	TokenSemi
	TokenComma
	TokenDot
	TokenColon
	TokenQuestion
	TokenLParen
	TokenRParen
	TokenLBracket
	TokenRBracket
	TokenLBrace
	TokenRBrace
	TokenAssign
	TokenPlus
	TokenMinus
	TokenStar
	TokenSlash
	TokenPercent
	TokenBang
	TokenEq
	TokenNotEq
	TokenLt
	TokenLe
	TokenGt
	TokenGe
	TokenAnd
	TokenOr
)

var kindNames = map[Kind]string{
	TokenEOF:      "end of input",
	TokenIdent:    "identifier",
	TokenInt:      "integer",
	TokenFloat:    "float",
	TokenString:   "string",
	TokenVar:      "'var'",
	TokenIf:       "'if'",
	TokenElse:     "'else'",
	TokenWhile:    "'while'",
	TokenTrue:     "'true'",
	TokenFalse:    "'false'",
	TokenNull:     "'null'",
	TokenPragma:   "'#pragma'",
	TokenSemi:     "';'",
	TokenComma:    "','",
	TokenDot:      "'.'",
	TokenColon:    "':'",
	TokenQuestion: "'?'",
	TokenLParen:   "'('",
	TokenRParen:   "')'",
	TokenLBracket: "'['",
	TokenRBracket: "']'",
	TokenLBrace:   "'{'",
	TokenRBrace:   "'}'",
	TokenAssign:   "'='",
	TokenPlus:     "'+'",
	TokenMinus:    "'-'",
	TokenStar:     "'*'",
	TokenSlash:    "'/'",
	TokenPercent:  "'%'",
	TokenBang:     "'!'",
	TokenEq:       "'=='",
	TokenNotEq:    "'!='",
	TokenLt:       "'<'",
	TokenLe:       "'<='",
	TokenGt:       "'>'",
	TokenGe:       "'>='",
	TokenAnd:      "'&&'",
	TokenOr:       "'||'",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

var keywords = map[string]Kind{
	"var":   TokenVar,
	"if":    TokenIf,
	"else":  TokenElse,
	"while": TokenWhile,
	"true":  TokenTrue,
	"false": TokenFalse,
	"null":  TokenNull,
}

// Token is one lexical unit of EXL source text.
type Token struct {
	Kind Kind
	Text string
	Pos  Position
}

// Position locates a token or node in the original source, 1-based.
type Position struct {
	Line int
	Col  int
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Col)
}
