// Package goal parses and evaluates puzzle objectives such as
//
//	valid AND drive.running AND steering.position == "left"
//
// against the facts a validation run produces.
package goal

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// -----------------------------------------------------------------------
// AST nodes
// -----------------------------------------------------------------------

// Expr is the common interface for all AST nodes.
type Expr interface {
	exprNode()
}

// BinaryExpr is AND / OR.
type BinaryExpr struct {
	Op    string
	Left  Expr
	Right Expr
}

// NotExpr is NOT <expr>.
type NotExpr struct {
	Expr Expr
}

// CompareExpr is <operand> <op> <operand>.
type CompareExpr struct {
	Left  Operand
	Op    Operator
	Right Operand
}

// FactExpr is a bare fact name, true when the fact is boolean true.
type FactExpr struct {
	Name string
}

func (*BinaryExpr) exprNode()  {}
func (*NotExpr) exprNode()     {}
func (*CompareExpr) exprNode() {}
func (*FactExpr) exprNode()    {}

// Operand is a literal or a fact reference.
type Operand interface {
	operandNode()
}

type Literal struct{ Value any }
type Fact struct{ Name string }

func (*Literal) operandNode() {}
func (*Fact) operandNode()    {}

// -----------------------------------------------------------------------
// Tokenizer
// -----------------------------------------------------------------------

type tokenKind int

const (
	tokWord tokenKind = iota
	tokOp
	tokString
	tokNumber
	tokBool
	tokLParen
	tokRParen
	tokEOF
)

type token struct {
	kind tokenKind
	val  string
	pos  int
}

func isWordRune(r byte) bool {
	return unicode.IsLetter(rune(r)) || unicode.IsDigit(rune(r)) || r == '_' || r == '.'
}

func tokenize(src string) ([]token, error) {
	var tokens []token
	for i := 0; i < len(src); {
		ch := src[i]
		switch {
		case unicode.IsSpace(rune(ch)):
			i++
		case ch == '(':
			tokens = append(tokens, token{tokLParen, "(", i})
			i++
		case ch == ')':
			tokens = append(tokens, token{tokRParen, ")", i})
			i++
		case ch == '=' || ch == '!' || ch == '<' || ch == '>':
			if i+1 < len(src) && src[i+1] == '=' {
				tokens = append(tokens, token{tokOp, src[i : i+2], i})
				i += 2
				continue
			}
			if ch == '=' || ch == '!' {
				return nil, fmt.Errorf("unexpected %q at position %d", ch, i)
			}
			tokens = append(tokens, token{tokOp, string(ch), i})
			i++
		case ch == '"' || ch == '\'':
			j := strings.IndexByte(src[i+1:], ch)
			if j < 0 {
				return nil, fmt.Errorf("unterminated string starting at position %d", i)
			}
			tokens = append(tokens, token{tokString, src[i+1 : i+1+j], i})
			i += j + 2
		case unicode.IsDigit(rune(ch)) || (ch == '-' && i+1 < len(src) && unicode.IsDigit(rune(src[i+1]))):
			j := i + 1
			for j < len(src) && (unicode.IsDigit(rune(src[j])) || src[j] == '.') {
				j++
			}
			tokens = append(tokens, token{tokNumber, src[i:j], i})
			i = j
		case unicode.IsLetter(rune(ch)) || ch == '_':
			j := i
			for j < len(src) && isWordRune(src[j]) {
				j++
			}
			word := src[i:j]
			if lw := strings.ToLower(word); lw == "true" || lw == "false" {
				tokens = append(tokens, token{tokBool, lw, i})
			} else {
				tokens = append(tokens, token{tokWord, word, i})
			}
			i = j
		default:
			return nil, fmt.Errorf("unexpected character %q at position %d", ch, i)
		}
	}
	return append(tokens, token{tokEOF, "", len(src)}), nil
}

// -----------------------------------------------------------------------
// Recursive-descent parser
// -----------------------------------------------------------------------

type parser struct {
	tokens []token
	pos    int
}

func (p *parser) peek() token { return p.tokens[p.pos] }

func (p *parser) next() token {
	t := p.tokens[p.pos]
	p.pos++
	return t
}

func (p *parser) keyword(kw string) bool {
	t := p.peek()
	return t.kind == tokWord && strings.EqualFold(t.val, kw)
}

// Parse compiles an objective into an AST.
func Parse(src string) (Expr, error) {
	if strings.TrimSpace(src) == "" {
		return nil, fmt.Errorf("empty goal")
	}
	tokens, err := tokenize(src)
	if err != nil {
		return nil, err
	}
	p := &parser{tokens: tokens}
	e, err := p.parseOr()
	if err != nil {
		return nil, err
	}
	if t := p.peek(); t.kind != tokEOF {
		return nil, fmt.Errorf("unexpected %q at position %d", t.val, t.pos)
	}
	return e, nil
}

// or = and ( "OR" and )*
func (p *parser) parseOr() (Expr, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for p.keyword("OR") {
		p.next()
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = &BinaryExpr{Op: "OR", Left: left, Right: right}
	}
	return left, nil
}

// and = unary ( "AND" unary )*
func (p *parser) parseAnd() (Expr, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for p.keyword("AND") {
		p.next()
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		left = &BinaryExpr{Op: "AND", Left: left, Right: right}
	}
	return left, nil
}

// unary = "NOT" unary | "(" or ")" | comparison
func (p *parser) parseUnary() (Expr, error) {
	if p.keyword("NOT") {
		p.next()
		inner, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &NotExpr{Expr: inner}, nil
	}
	if p.peek().kind == tokLParen {
		p.next()
		inner, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		if t := p.next(); t.kind != tokRParen {
			return nil, fmt.Errorf("expected \")\" at position %d, got %q", t.pos, t.val)
		}
		return inner, nil
	}
	return p.parseComparison()
}

// comparison = operand [ op operand ]
// A lone fact name is a truth test.
func (p *parser) parseComparison() (Expr, error) {
	left, err := p.parseOperand()
	if err != nil {
		return nil, err
	}
	if p.peek().kind != tokOp {
		f, ok := left.(*Fact)
		if !ok {
			return nil, fmt.Errorf("literal %v must be compared with something", left.(*Literal).Value)
		}
		return &FactExpr{Name: f.Name}, nil
	}
	op := Operator(p.next().val)
	right, err := p.parseOperand()
	if err != nil {
		return nil, err
	}
	return &CompareExpr{Left: left, Op: op, Right: right}, nil
}

func (p *parser) parseOperand() (Operand, error) {
	t := p.next()
	switch t.kind {
	case tokString:
		return &Literal{Value: t.val}, nil
	case tokNumber:
		f, err := strconv.ParseFloat(t.val, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid number %q at position %d", t.val, t.pos)
		}
		return &Literal{Value: f}, nil
	case tokBool:
		return &Literal{Value: t.val == "true"}, nil
	case tokWord:
		switch strings.ToUpper(t.val) {
		case "AND", "OR", "NOT":
			return nil, fmt.Errorf("unexpected keyword %s at position %d", t.val, t.pos)
		}
		return &Fact{Name: t.val}, nil
	}
	if t.kind == tokEOF {
		return nil, fmt.Errorf("unexpected end of goal")
	}
	return nil, fmt.Errorf("expected operand at position %d, got %q", t.pos, t.val)
}
