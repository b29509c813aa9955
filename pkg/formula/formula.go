// Package formula implements the small arithmetic expression language used by
// derived structure definitions. A formula is a string over +, -, *, /,
// parentheses, numeric literals, and bare structure names, e.g. "W / S" or
// "VP1 + VP2". Formulas are parsed once into an immutable Expr tree and
// evaluated against a name-resolution callback.
package formula

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// Resolver supplies the value of a structure name during evaluation.
type Resolver func(name string) (float64, error)

// Expr is a parsed formula node.
type Expr interface {
	// Eval computes the node's value, resolving names through resolve.
	Eval(resolve Resolver) (float64, error)

	// appendNames collects referenced structure names in source order.
	appendNames(dst []string) []string
}

// ============================================================================
// Expression nodes
// ============================================================================

type literal struct {
	value float64
}

func (l literal) Eval(Resolver) (float64, error) { return l.value, nil }

func (l literal) appendNames(dst []string) []string { return dst }

type name struct {
	ident string
}

func (n name) Eval(resolve Resolver) (float64, error) { return resolve(n.ident) }

func (n name) appendNames(dst []string) []string { return append(dst, n.ident) }

type unary struct {
	op      byte // '-'
	operand Expr
}

func (u unary) Eval(resolve Resolver) (float64, error) {
	v, err := u.operand.Eval(resolve)
	if err != nil {
		return 0, err
	}
	return -v, nil
}

func (u unary) appendNames(dst []string) []string { return u.operand.appendNames(dst) }

type binary struct {
	op          byte // '+', '-', '*', '/'
	left, right Expr
}

func (b binary) Eval(resolve Resolver) (float64, error) {
	l, err := b.left.Eval(resolve)
	if err != nil {
		return 0, err
	}
	r, err := b.right.Eval(resolve)
	if err != nil {
		return 0, err
	}
	switch b.op {
	case '+':
		return l + r, nil
	case '-':
		return l - r, nil
	case '*':
		return l * r, nil
	case '/':
		// Zero denominator means zero occurrences of the base category, and
		// the rate is defined as 0 in that case. Not an error, not NaN.
		if r == 0 {
			return 0, nil
		}
		return l / r, nil
	}
	return 0, fmt.Errorf("formula: unknown operator %q", string(b.op))
}

func (b binary) appendNames(dst []string) []string {
	return b.right.appendNames(b.left.appendNames(dst))
}

// Names returns all structure names referenced by the expression, in source
// order, without duplicates.
func Names(e Expr) []string {
	all := e.appendNames(nil)
	seen := make(map[string]bool, len(all))
	out := make([]string, 0, len(all))
	for _, n := range all {
		if !seen[n] {
			seen[n] = true
			out = append(out, n)
		}
	}
	return out
}

// ============================================================================
// Lexer
// ============================================================================

type tokenKind int

const (
	tokNumber tokenKind = iota
	tokIdent
	tokOp    // + - * /
	tokLeft  // (
	tokRight // )
	tokEOF
)

type token struct {
	kind tokenKind
	text string
	pos  int
}

type lexer struct {
	src string
	pos int
}

func (lx *lexer) next() (token, error) {
	for lx.pos < len(lx.src) && lx.src[lx.pos] == ' ' {
		lx.pos++
	}
	if lx.pos >= len(lx.src) {
		return token{kind: tokEOF, pos: lx.pos}, nil
	}

	start := lx.pos
	c := lx.src[lx.pos]
	switch {
	case c == '(':
		lx.pos++
		return token{kind: tokLeft, text: "(", pos: start}, nil
	case c == ')':
		lx.pos++
		return token{kind: tokRight, text: ")", pos: start}, nil
	case c == '+' || c == '-' || c == '*' || c == '/':
		lx.pos++
		return token{kind: tokOp, text: string(c), pos: start}, nil
	case c >= '0' && c <= '9' || c == '.':
		for lx.pos < len(lx.src) && (lx.src[lx.pos] >= '0' && lx.src[lx.pos] <= '9' || lx.src[lx.pos] == '.') {
			lx.pos++
		}
		return token{kind: tokNumber, text: lx.src[start:lx.pos], pos: start}, nil
	case isIdentStart(rune(c)):
		for lx.pos < len(lx.src) && isIdentPart(rune(lx.src[lx.pos])) {
			lx.pos++
		}
		return token{kind: tokIdent, text: lx.src[start:lx.pos], pos: start}, nil
	}
	return token{}, fmt.Errorf("formula: unexpected character %q at position %d", string(c), start)
}

func isIdentStart(r rune) bool {
	return unicode.IsLetter(r) || r == '_'
}

func isIdentPart(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
}

// ============================================================================
// Parser
// ============================================================================

// parser is a recursive-descent parser with one token of lookahead.
//
//	expr   := term (('+' | '-') term)*
//	term   := factor (('*' | '/') factor)*
//	factor := NUMBER | IDENT | '(' expr ')' | '-' factor
type parser struct {
	lx  lexer
	cur token
}

// Parse compiles a formula string into an expression tree.
func Parse(src string) (Expr, error) {
	if strings.TrimSpace(src) == "" {
		return nil, fmt.Errorf("formula: empty expression")
	}
	p := &parser{lx: lexer{src: src}}
	if err := p.advance(); err != nil {
		return nil, err
	}
	e, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if p.cur.kind != tokEOF {
		return nil, fmt.Errorf("formula: unexpected %q at position %d", p.cur.text, p.cur.pos)
	}
	return e, nil
}

func (p *parser) advance() error {
	t, err := p.lx.next()
	if err != nil {
		return err
	}
	p.cur = t
	return nil
}

func (p *parser) parseExpr() (Expr, error) {
	left, err := p.parseTerm()
	if err != nil {
		return nil, err
	}
	for p.cur.kind == tokOp && (p.cur.text == "+" || p.cur.text == "-") {
		op := p.cur.text[0]
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		left = binary{op: op, left: left, right: right}
	}
	return left, nil
}

func (p *parser) parseTerm() (Expr, error) {
	left, err := p.parseFactor()
	if err != nil {
		return nil, err
	}
	for p.cur.kind == tokOp && (p.cur.text == "*" || p.cur.text == "/") {
		op := p.cur.text[0]
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := p.parseFactor()
		if err != nil {
			return nil, err
		}
		left = binary{op: op, left: left, right: right}
	}
	return left, nil
}

func (p *parser) parseFactor() (Expr, error) {
	switch p.cur.kind {
	case tokNumber:
		v, err := strconv.ParseFloat(p.cur.text, 64)
		if err != nil {
			return nil, fmt.Errorf("formula: bad number %q at position %d", p.cur.text, p.cur.pos)
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
		return literal{value: v}, nil
	case tokIdent:
		n := name{ident: p.cur.text}
		if err := p.advance(); err != nil {
			return nil, err
		}
		return n, nil
	case tokLeft:
		if err := p.advance(); err != nil {
			return nil, err
		}
		inner, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if p.cur.kind != tokRight {
			return nil, fmt.Errorf("formula: missing closing parenthesis at position %d", p.cur.pos)
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
		return inner, nil
	case tokOp:
		if p.cur.text == "-" {
			if err := p.advance(); err != nil {
				return nil, err
			}
			operand, err := p.parseFactor()
			if err != nil {
				return nil, err
			}
			return unary{op: '-', operand: operand}, nil
		}
	}
	return nil, fmt.Errorf("formula: unexpected %q at position %d", p.cur.text, p.cur.pos)
}
