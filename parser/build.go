package parser

import (
	"fmt"

	"github.com/majwic/lisp-abstract-interpreter/lang"
)

// builder converts s-expressions into expression trees.
type builder struct {
	source string
}

func (b *builder) errorf(n *node, format string, v ...interface{}) error {
	return &SyntaxError{
		Source: b.source,
		Offset: n.offset,
		Msg:    fmt.Sprintf(format, v...),
	}
}

func isDefine(n *node) bool {
	return n.typ == nodeList && len(n.children) > 0 && isSymbol(n.children[0], "define")
}

func isSymbol(n *node, name string) bool {
	return n.typ == nodeSymbol && n.text == name
}

func (b *builder) define(n *node) (*lang.Expr, error) {
	if len(n.children) != 3 {
		return nil, b.errorf(n, "define: expected a name and a value")
	}
	name, err := b.name(n.children[1])
	if err != nil {
		return nil, err
	}
	val, err := b.expr(n.children[2])
	if err != nil {
		return nil, err
	}
	return lang.Define(name, val), nil
}

// name checks that n is a symbol usable as a variable.
func (b *builder) name(n *node) (string, error) {
	if n.typ != nodeSymbol {
		return "", b.errorf(n, "expected a name but found %v", n.typ)
	}
	if isReserved(n.text) {
		return "", b.errorf(n, "reserved word cannot be bound: %s", n.text)
	}
	return n.text, nil
}

func isReserved(s string) bool {
	_, ok := lang.LookupKeyword(s)
	return ok
}

func (b *builder) exprs(nodes []*node) ([]*lang.Expr, error) {
	exprs := make([]*lang.Expr, len(nodes))
	for i, n := range nodes {
		e, err := b.expr(n)
		if err != nil {
			return nil, err
		}
		exprs[i] = e
	}
	return exprs, nil
}

func (b *builder) expr(n *node) (*lang.Expr, error) {
	switch n.typ {
	case nodeNumber:
		return lang.NumLit(n.num), nil
	case nodeString:
		return lang.StrLit(n.text), nil
	case nodeBool:
		return lang.BoolLit(n.text == "#t"), nil
	case nodeSymbol:
		if isReserved(n.text) {
			return nil, b.errorf(n, "%s is not a value", n.text)
		}
		return lang.Var(n.text), nil
	case nodeList:
		return b.list(n)
	default:
		return nil, b.errorf(n, "unexpected %v", n.typ)
	}
}

func (b *builder) list(n *node) (*lang.Expr, error) {
	if len(n.children) == 0 {
		return lang.UnitLit(), nil
	}
	head := n.children[0]
	if head.typ == nodeSymbol {
		if kind, ok := lang.LookupKeyword(head.text); ok {
			return b.form(kind, n)
		}
	}
	operator, err := b.expr(head)
	if err != nil {
		return nil, err
	}
	args, err := b.exprs(n.children[1:])
	if err != nil {
		return nil, err
	}
	return lang.Call(operator, args...), nil
}

func (b *builder) form(kind lang.ExprKind, n *node) (*lang.Expr, error) {
	rest := n.children[1:]
	switch kind {
	case lang.DefineExp:
		return nil, b.errorf(n, "define is only allowed at top level")
	case lang.LambdaExp:
		return b.lambda(n, rest)
	case lang.LetExp:
		return b.let(n, rest)
	}
	if arity := kind.Arity(); arity >= 0 && len(rest) != arity {
		return nil, b.errorf(n, "%s: expected %d operands but found %d", kind.Keyword(), arity, len(rest))
	}
	args, err := b.exprs(rest)
	if err != nil {
		return nil, err
	}
	return lang.Op(kind, args...), nil
}

// lambda handles (lambda (formal ...) body).
func (b *builder) lambda(n *node, rest []*node) (*lang.Expr, error) {
	if len(rest) != 2 || rest[0].typ != nodeList {
		return nil, b.errorf(n, "lambda: expected a formal list and a body")
	}
	formals := make([]string, len(rest[0].children))
	seen := make(map[string]bool, len(formals))
	for i, c := range rest[0].children {
		name, err := b.name(c)
		if err != nil {
			return nil, err
		}
		if seen[name] {
			return nil, b.errorf(c, "lambda: duplicate formal %s", name)
		}
		seen[name] = true
		formals[i] = name
	}
	body, err := b.expr(rest[1])
	if err != nil {
		return nil, err
	}
	return lang.Lambda(formals, body), nil
}

// let handles (let ((name value) ...) body).
func (b *builder) let(n *node, rest []*node) (*lang.Expr, error) {
	if len(rest) != 2 || rest[0].typ != nodeList {
		return nil, b.errorf(n, "let: expected a binding list and a body")
	}
	var names []string
	var vals []*lang.Expr
	for _, c := range rest[0].children {
		if c.typ != nodeList || len(c.children) != 2 {
			return nil, b.errorf(c, "let: binding must have the form (name value)")
		}
		name, err := b.name(c.children[0])
		if err != nil {
			return nil, err
		}
		val, err := b.expr(c.children[1])
		if err != nil {
			return nil, err
		}
		names = append(names, name)
		vals = append(vals, val)
	}
	body, err := b.expr(rest[1])
	if err != nil {
		return nil, err
	}
	return lang.Let(names, vals, body), nil
}
