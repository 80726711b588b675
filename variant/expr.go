package variant

import (
	"fmt"
	"strconv"
	"strings"
)

// Symbols is the closed table of names an expression may reference.
// Names are matched case insensitively.
type Symbols map[string]int64

// Lookup returns the value of name.
func (s Symbols) Lookup(name string) (int64, bool) {
	v, ok := s[strings.ToLower(name)]
	return v, ok
}

// Eval evaluates an integer expression against syms.
//
// The grammar is deliberately small: integer literals (decimal, 0x, 0o,
// 0b), symbol names, parentheses, unary + - ~ and the binary operators
// + - * / // % << >> & | ^. Operators bind from loosest to tightest:
//
//	|
//	^
//	&
//	<< >>
//	+ -
//	* / // %
//	unary + - ~
//
// Division and modulo round towards negative infinity. Anything else is
// rejected with an ExpressionError; unknown names yield an
// UndefinedSymbolError. The whole expression is parsed before any name is
// looked up.
func Eval(expr string, syms Symbols) (int64, error) {
	src := strings.ToLower(strings.TrimSpace(expr))
	if src == "" {
		return 0, &ExpressionError{Expr: expr, Reason: "empty expression"}
	}

	tokens, err := scanExpr(expr, src)
	if err != nil {
		return 0, err
	}

	p := exprParser{expr: expr, tokens: tokens}
	root, err := p.parse()
	if err != nil {
		return 0, err
	}

	ev := evaluator{expr: expr, syms: syms}
	return ev.eval(root)
}

type tokenKind int

const (
	tokenEOF tokenKind = iota
	tokenInt
	tokenName
	tokenOp
)

type exprToken struct {
	kind tokenKind
	text string
}

// keywords that would make the expression more than arithmetic.
var keywords = map[string]bool{
	"and": true, "or": true, "not": true, "in": true, "is": true,
	"if": true, "else": true, "lambda": true, "for": true,
}

func scanExpr(expr, src string) ([]exprToken, error) {
	fail := func(format string, args ...interface{}) ([]exprToken, error) {
		return nil, &ExpressionError{Expr: expr, Reason: fmt.Sprintf(format, args...)}
	}

	var tokens []exprToken
	for i := 0; i < len(src); {
		c := src[i]
		switch {
		case c == ' ' || c == '\t':
			i++

		case isDigit(c):
			j := i
			for j < len(src) && isWordChar(src[j]) {
				j++
			}
			if j < len(src) && src[j] == '.' {
				return fail("unsupported literal %s", src[i:j+1])
			}
			tokens = append(tokens, exprToken{tokenInt, src[i:j]})
			i = j

		case isWordChar(c):
			j := i
			for j < len(src) && isWordChar(src[j]) {
				j++
			}
			if keywords[src[i:j]] {
				return fail("unsupported construct %s", src[i:j])
			}
			tokens = append(tokens, exprToken{tokenName, src[i:j]})
			i = j

		case c == '"' || c == '\'':
			return fail("unsupported literal %s", src[i:])

		case c == '#':
			return fail("comments are not allowed")

		default:
			op := src[i : i+1]
			if i+1 < len(src) {
				switch two := src[i : i+2]; two {
				case "//", "<<", ">>":
					op = two
				case "**", "==", "!=", "<=", ">=", "->", ":=":
					return fail("unsupported operator %s", two)
				}
			}
			switch op {
			case "+", "-", "*", "/", "//", "%", "<<", ">>", "&", "|", "^", "~", "(", ")", ".", "[", ",":
			case "<", ">", "!", "=", "@":
				return fail("unsupported operator %s", op)
			default:
				return fail("syntax error: unexpected %q", op)
			}
			tokens = append(tokens, exprToken{tokenOp, op})
			i += len(op)
		}
	}

	return append(tokens, exprToken{kind: tokenEOF}), nil
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isWordChar(c byte) bool {
	return c == '_' || isDigit(c) || (c >= 'a' && c <= 'z')
}

// exprNode is a parsed expression. Only the node kinds below exist, so
// nothing but integer arithmetic can be expressed.
type exprNode interface{}

type intNode struct{ value int64 }

type nameNode struct{ name string }

type unaryNode struct {
	op string
	x  exprNode
}

type binaryNode struct {
	op   string
	x, y exprNode
}

// binaryPrecedence lists the binary operators, higher binds tighter.
var binaryPrecedence = map[string]int{
	"|":  1,
	"^":  2,
	"&":  3,
	"<<": 4, ">>": 4,
	"+": 5, "-": 5,
	"*": 6, "/": 6, "//": 6, "%": 6,
}

// exprParser is a precedence climbing parser over the scanned tokens.
type exprParser struct {
	expr   string
	tokens []exprToken
	pos    int
}

func (p *exprParser) peek() exprToken {
	return p.tokens[p.pos]
}

func (p *exprParser) next() exprToken {
	t := p.tokens[p.pos]
	if t.kind != tokenEOF {
		p.pos++
	}
	return t
}

func (p *exprParser) fail(format string, args ...interface{}) error {
	return &ExpressionError{Expr: p.expr, Reason: fmt.Sprintf(format, args...)}
}

func (p *exprParser) parse() (exprNode, error) {
	n, err := p.parseBinary(1)
	if err != nil {
		return nil, err
	}
	if t := p.peek(); t.kind != tokenEOF {
		return nil, p.fail("syntax error: unexpected %q", t.text)
	}
	return n, nil
}

func (p *exprParser) parseBinary(minPrec int) (exprNode, error) {
	x, err := p.parseUnary()
	if err != nil {
		return nil, err
	}

	for {
		t := p.peek()
		prec, ok := binaryPrecedence[t.text]
		if t.kind != tokenOp || !ok || prec < minPrec {
			return x, nil
		}
		p.next()

		// All binary operators are left associative.
		y, err := p.parseBinary(prec + 1)
		if err != nil {
			return nil, err
		}
		x = binaryNode{op: t.text, x: x, y: y}
	}
}

func (p *exprParser) parseUnary() (exprNode, error) {
	t := p.peek()
	if t.kind == tokenOp && (t.text == "+" || t.text == "-" || t.text == "~") {
		p.next()
		x, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return unaryNode{op: t.text, x: x}, nil
	}
	return p.parsePrimary()
}

func (p *exprParser) parsePrimary() (exprNode, error) {
	t := p.next()
	switch t.kind {
	case tokenInt:
		v, err := parseInt(t.text)
		if err != nil {
			return nil, &ExpressionError{Expr: p.expr, Reason: err.Error()}
		}
		return intNode{v}, nil

	case tokenName:
		if next := p.peek(); next.kind == tokenOp && (next.text == "(" || next.text == "." || next.text == "[") {
			return nil, p.fail("unsupported construct %s%s", t.text, next.text)
		}
		return nameNode{t.text}, nil

	case tokenOp:
		if t.text == "(" {
			n, err := p.parseBinary(1)
			if err != nil {
				return nil, err
			}
			if closing := p.next(); closing.text != ")" {
				return nil, p.fail("syntax error: missing ')'")
			}
			return n, nil
		}
		return nil, p.fail("syntax error: unexpected %q", t.text)
	}

	return nil, p.fail("syntax error: unexpected end of expression")
}

type evaluator struct {
	expr string
	syms Symbols
}

func (ev *evaluator) fail(format string, args ...interface{}) error {
	return &ExpressionError{Expr: ev.expr, Reason: fmt.Sprintf(format, args...)}
}

func (ev *evaluator) eval(node exprNode) (int64, error) {
	switch n := node.(type) {
	case intNode:
		return n.value, nil

	case nameNode:
		v, ok := ev.syms.Lookup(n.name)
		if !ok {
			return 0, &UndefinedSymbolError{Symbol: n.name}
		}
		return v, nil

	case unaryNode:
		x, err := ev.eval(n.x)
		if err != nil {
			return 0, err
		}
		switch n.op {
		case "-":
			return -x, nil
		case "~":
			return ^x, nil
		}
		return x, nil

	case binaryNode:
		x, err := ev.eval(n.x)
		if err != nil {
			return 0, err
		}
		y, err := ev.eval(n.y)
		if err != nil {
			return 0, err
		}
		return ev.binary(n.op, x, y)
	}

	return 0, ev.fail("unsupported construct")
}

func (ev *evaluator) binary(op string, x, y int64) (int64, error) {
	switch op {
	case "+":
		return x + y, nil
	case "-":
		return x - y, nil
	case "*":
		return x * y, nil
	case "/", "//", "%":
		if y == 0 {
			return 0, ev.fail("division by zero")
		}
		q, r := x/y, x%y
		// Round towards negative infinity.
		if r != 0 && (r < 0) != (y < 0) {
			q--
			r += y
		}
		if op == "%" {
			return r, nil
		}
		return q, nil
	case "<<", ">>":
		if y < 0 || y > 63 {
			return 0, ev.fail("invalid shift count %d", y)
		}
		if op == "<<" {
			return x << uint(y), nil
		}
		return x >> uint(y), nil
	case "&":
		return x & y, nil
	case "|":
		return x | y, nil
	case "^":
		return x ^ y, nil
	}
	return 0, ev.fail("unsupported operator %s", op)
}

// parseInt parses an integer literal: decimal without leading zeros, or
// 0x, 0o and 0b prefixed. Single underscores may separate digits.
func parseInt(lit string) (int64, error) {
	digits := strings.ReplaceAll(lit, "_", "")
	if len(digits) > 1 && digits[0] == '0' && isDigit(digits[1]) && strings.Trim(digits, "0") != "" {
		return 0, fmt.Errorf("invalid integer literal %s: leading zeros", lit)
	}
	if strings.HasSuffix(lit, "_") || strings.Contains(lit, "__") {
		return 0, fmt.Errorf("invalid integer literal %s", lit)
	}

	v, err := strconv.ParseInt(lit, 0, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid integer literal %s", lit)
	}
	return v, nil
}
