// Package parser turns EXL source text into an evaluable syntax tree.
//
// The grammar is deliberately small: ';'-separated statements, 'var' locals,
// 'if'/'else', 'while', braced blocks, the usual expression operators with C
// precedence, property access, indexing and method calls. Parameters are not
// part of the grammar; they are declared by the caller when a script is
// created and resolved against the scope while parsing.
package parser

import (
	"strconv"
	"strings"
)

type parser struct {
	lex     *lexer
	tok     Token
	scope   *Scope
	pragmas map[string]any
}

// Parse builds a Program from source. The params declare the script's
// parameters in order; a trailing "..." on the last name marks it variadic.
func Parse(source string, params ...string) (*Program, error) {
	if strings.TrimSpace(source) == "" {
		return nil, ErrEmptySource
	}
	scope, err := NewScope(params)
	if err != nil {
		return nil, err
	}

	p := &parser{lex: newLexer(source), scope: scope}
	if err := p.advance(); err != nil {
		return nil, err
	}

	for p.tok.Kind == TokenPragma {
		if err := p.parsePragma(); err != nil {
			return nil, err
		}
	}

	var stmts []Node
	for {
		for p.tok.Kind == TokenSemi {
			if err := p.advance(); err != nil {
				return nil, err
			}
		}
		if p.tok.Kind == TokenEOF {
			break
		}
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, stmt)
	}
	if len(stmts) == 0 {
		return nil, ErrEmptySource
	}

	return &Program{scope: scope, Stmts: stmts, pragmas: p.pragmas}, nil
}

func (p *parser) advance() error {
	tok, err := p.lex.next()
	if err != nil {
		return err
	}
	p.tok = tok
	return nil
}

func (p *parser) expect(k Kind) (Token, error) {
	if p.tok.Kind != k {
		return Token{}, newParseError(p.tok.Pos, "expected %s, found %s", k, p.tok.Kind)
	}
	tok := p.tok
	return tok, p.advance()
}

// parsePragma handles '#pragma key.path value'.
func (p *parser) parsePragma() error {
	if err := p.advance(); err != nil {
		return err
	}
	name, err := p.expect(TokenIdent)
	if err != nil {
		return err
	}
	key := name.Text
	for p.tok.Kind == TokenDot {
		if err := p.advance(); err != nil {
			return err
		}
		part, err := p.expect(TokenIdent)
		if err != nil {
			return err
		}
		key += "." + part.Text
	}
	value, err := p.pragmaValue()
	if err != nil {
		return err
	}
	if p.pragmas == nil {
		p.pragmas = make(map[string]any)
	}
	p.pragmas[key] = value
	return nil
}

func (p *parser) pragmaValue() (any, error) {
	tok := p.tok
	switch tok.Kind {
	case TokenInt:
		if err := p.advance(); err != nil {
			return nil, err
		}
		return strconv.ParseInt(tok.Text, 10, 64)
	case TokenFloat:
		if err := p.advance(); err != nil {
			return nil, err
		}
		return strconv.ParseFloat(tok.Text, 64)
	case TokenString, TokenIdent:
		return tok.Text, p.advance()
	case TokenTrue:
		return true, p.advance()
	case TokenFalse:
		return false, p.advance()
	case TokenNull:
		return nil, p.advance()
	}
	return nil, newParseError(tok.Pos, "expected pragma literal, found %s", tok.Kind)
}

func (p *parser) parseStatement() (Node, error) {
	switch p.tok.Kind {
	case TokenVar:
		return p.parseVarDecl()
	case TokenIf:
		return p.parseIf()
	case TokenWhile:
		return p.parseWhile()
	case TokenLBrace:
		return p.parseBlock()
	}
	return p.parseExpr()
}

func (p *parser) parseVarDecl() (Node, error) {
	at := p.tok.Pos
	if err := p.advance(); err != nil {
		return nil, err
	}
	name, err := p.expect(TokenIdent)
	if err != nil {
		return nil, err
	}
	sym, ok := p.scope.DeclareLocal(name.Text)
	if !ok {
		return nil, newParseError(name.Pos, "variable %q already declared", name.Text)
	}
	if _, err := p.expect(TokenAssign); err != nil {
		return nil, err
	}
	value, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	return &VarDecl{Name: name.Text, Symbol: sym, Value: value, At: at}, nil
}

func (p *parser) parseIf() (Node, error) {
	at := p.tok.Pos
	if err := p.advance(); err != nil {
		return nil, err
	}
	if _, err := p.expect(TokenLParen); err != nil {
		return nil, err
	}
	cond, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(TokenRParen); err != nil {
		return nil, err
	}
	then, err := p.parseStatement()
	if err != nil {
		return nil, err
	}
	var els Node
	if p.tok.Kind == TokenElse {
		if err := p.advance(); err != nil {
			return nil, err
		}
		if els, err = p.parseStatement(); err != nil {
			return nil, err
		}
	}
	return &If{Cond: cond, Then: then, Else: els, At: at}, nil
}

func (p *parser) parseWhile() (Node, error) {
	at := p.tok.Pos
	if err := p.advance(); err != nil {
		return nil, err
	}
	if _, err := p.expect(TokenLParen); err != nil {
		return nil, err
	}
	cond, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(TokenRParen); err != nil {
		return nil, err
	}
	body, err := p.parseStatement()
	if err != nil {
		return nil, err
	}
	return &While{Cond: cond, Body: body, At: at}, nil
}

func (p *parser) parseBlock() (Node, error) {
	at := p.tok.Pos
	if err := p.advance(); err != nil {
		return nil, err
	}
	var stmts []Node
	for {
		for p.tok.Kind == TokenSemi {
			if err := p.advance(); err != nil {
				return nil, err
			}
		}
		if p.tok.Kind == TokenRBrace {
			break
		}
		if p.tok.Kind == TokenEOF {
			return nil, newParseError(p.tok.Pos, "unclosed block")
		}
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, stmt)
	}
	if err := p.advance(); err != nil {
		return nil, err
	}
	return &Block{Stmts: stmts, At: at}, nil
}

// parseExpr parses an assignment or plain expression. Assignment is
// right-associative and only valid on identifiers, property accesses and
// index expressions.
func (p *parser) parseExpr() (Node, error) {
	left, err := p.parseTernary()
	if err != nil {
		return nil, err
	}
	if p.tok.Kind != TokenAssign {
		return left, nil
	}
	at := p.tok.Pos
	switch left.(type) {
	case *Ident, *Access, *Index:
	default:
		return nil, newParseError(at, "invalid assignment target")
	}
	if err := p.advance(); err != nil {
		return nil, err
	}
	value, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	return &Assign{Target: left, Value: value, At: at}, nil
}

func (p *parser) parseTernary() (Node, error) {
	cond, err := p.parseBinary(0)
	if err != nil {
		return nil, err
	}
	if p.tok.Kind != TokenQuestion {
		return cond, nil
	}
	at := p.tok.Pos
	if err := p.advance(); err != nil {
		return nil, err
	}
	then, err := p.parseTernary()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(TokenColon); err != nil {
		return nil, err
	}
	els, err := p.parseTernary()
	if err != nil {
		return nil, err
	}
	return &Ternary{Cond: cond, Then: then, Else: els, At: at}, nil
}

// binaryOps maps token kinds to (operator text, precedence level).
var binaryOps = map[Kind]struct {
	op   string
	prec int
}{
	TokenOr:      {"||", 1},
	TokenAnd:     {"&&", 2},
	TokenEq:      {"==", 3},
	TokenNotEq:   {"!=", 3},
	TokenLt:      {"<", 4},
	TokenLe:      {"<=", 4},
	TokenGt:      {">", 4},
	TokenGe:      {">=", 4},
	TokenPlus:    {"+", 5},
	TokenMinus:   {"-", 5},
	TokenStar:    {"*", 6},
	TokenSlash:   {"/", 6},
	TokenPercent: {"%", 6},
}

func (p *parser) parseBinary(minPrec int) (Node, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for {
		info, ok := binaryOps[p.tok.Kind]
		if !ok || info.prec < minPrec {
			return left, nil
		}
		at := p.tok.Pos
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := p.parseBinary(info.prec + 1)
		if err != nil {
			return nil, err
		}
		left = &Binary{Op: info.op, L: left, R: right, At: at}
	}
}

func (p *parser) parseUnary() (Node, error) {
	switch p.tok.Kind {
	case TokenMinus, TokenBang:
		at := p.tok.Pos
		op := p.tok.Text
		if err := p.advance(); err != nil {
			return nil, err
		}
		x, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &Unary{Op: op, X: x, At: at}, nil
	}
	return p.parsePostfix()
}

func (p *parser) parsePostfix() (Node, error) {
	x, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	for {
		switch p.tok.Kind {
		case TokenDot:
			at := p.tok.Pos
			if err := p.advance(); err != nil {
				return nil, err
			}
			name, err := p.expect(TokenIdent)
			if err != nil {
				return nil, err
			}
			if p.tok.Kind == TokenLParen {
				args, err := p.parseArgs()
				if err != nil {
					return nil, err
				}
				x = &Call{X: x, Name: name.Text, Args: args, At: at}
			} else {
				x = &Access{X: x, Name: name.Text, At: at}
			}
		case TokenLBracket:
			at := p.tok.Pos
			if err := p.advance(); err != nil {
				return nil, err
			}
			key, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(TokenRBracket); err != nil {
				return nil, err
			}
			x = &Index{X: x, Key: key, At: at}
		case TokenLParen:
			at := p.tok.Pos
			args, err := p.parseArgs()
			if err != nil {
				return nil, err
			}
			x = &FuncCall{Callee: x, Args: args, At: at}
		default:
			return x, nil
		}
	}
}

// parseArgs consumes a parenthesized, comma-separated argument list.
func (p *parser) parseArgs() ([]Node, error) {
	if _, err := p.expect(TokenLParen); err != nil {
		return nil, err
	}
	var args []Node
	if p.tok.Kind != TokenRParen {
		for {
			arg, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			args = append(args, arg)
			if p.tok.Kind != TokenComma {
				break
			}
			if err := p.advance(); err != nil {
				return nil, err
			}
		}
	}
	if _, err := p.expect(TokenRParen); err != nil {
		return nil, err
	}
	return args, nil
}

func (p *parser) parsePrimary() (Node, error) {
	tok := p.tok
	switch tok.Kind {
	case TokenInt:
		v, err := strconv.ParseInt(tok.Text, 10, 64)
		if err != nil {
			return nil, newParseError(tok.Pos, "invalid integer literal %q", tok.Text)
		}
		return &Literal{Value: v, At: tok.Pos}, p.advance()
	case TokenFloat:
		v, err := strconv.ParseFloat(tok.Text, 64)
		if err != nil {
			return nil, newParseError(tok.Pos, "invalid float literal %q", tok.Text)
		}
		return &Literal{Value: v, At: tok.Pos}, p.advance()
	case TokenString:
		return &Literal{Value: tok.Text, At: tok.Pos}, p.advance()
	case TokenTrue:
		return &Literal{Value: true, At: tok.Pos}, p.advance()
	case TokenFalse:
		return &Literal{Value: false, At: tok.Pos}, p.advance()
	case TokenNull:
		return &Literal{Value: nil, At: tok.Pos}, p.advance()
	case TokenIdent:
		sym := NoSymbol
		if i, ok := p.scope.Symbol(tok.Text); ok {
			sym = i
		}
		return &Ident{Name: tok.Text, Symbol: sym, At: tok.Pos}, p.advance()
	case TokenLParen:
		if err := p.advance(); err != nil {
			return nil, err
		}
		x, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(TokenRParen); err != nil {
			return nil, err
		}
		return x, nil
	case TokenLBracket:
		if err := p.advance(); err != nil {
			return nil, err
		}
		var elems []Node
		if p.tok.Kind != TokenRBracket {
			for {
				e, err := p.parseExpr()
				if err != nil {
					return nil, err
				}
				elems = append(elems, e)
				if p.tok.Kind != TokenComma {
					break
				}
				if err := p.advance(); err != nil {
					return nil, err
				}
			}
		}
		if _, err := p.expect(TokenRBracket); err != nil {
			return nil, err
		}
		return &ArrayLit{Elems: elems, At: tok.Pos}, nil
	}
	return nil, newParseError(tok.Pos, "unexpected %s", tok.Kind)
}
