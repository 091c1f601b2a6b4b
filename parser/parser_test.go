package parser

import (
	"errors"
	"strings"
	"testing"

	"github.com/majwic/lisp-abstract-interpreter/lang"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseExpr(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{"1", "1"},
		{"-1.5e2", "-150"},
		{`"a\nb"`, `"a\nb"`},
		{"#t", "#t"},
		{"()", "()"},
		{"null?", ""},
		{"x", "x"},
		{"list->string", "list->string"},
		{"(+ 1 2 3)", "(+ 1 2 3)"},
		{"(- x)", "(- x)"},
		{"(list)", "(list)"},
		{"(f)", "(f)"},
		{"(f 1 (g x))", "(f 1 (g x))"},
		{"((lambda (x) x) 1)", "((lambda (x) x) 1)"},
		{"(lambda () 0)", "(lambda () 0)"},
		{"(let ((a 1) (b (+ a 1))) (* a b))", "(let ((a 1) (b (+ a 1))) (* a b))"},
		{"(if (null? xs) 0 (car xs))", "(if (null? xs) 0 (car xs))"},
		{"(number? x)", "(number? x)"},
		{"(eval (read \"f.fl\"))", "(eval (read \"f.fl\"))"},
		{"(f ; call f\n 1)", "(f 1)"},
	}
	for _, test := range tests {
		e, err := ParseExpr("test", []byte(test.src))
		if test.want == "" {
			assert.Error(t, err, test.src)
			continue
		}
		if assert.NoError(t, err, test.src) {
			assert.Equal(t, test.want, lang.FormatExpr(e), test.src)
		}
	}
}

func TestParseExprKinds(t *testing.T) {
	e, err := ParseExpr("test", []byte("(cons 1 ())"))
	require.NoError(t, err)
	assert.Equal(t, lang.ConsExp, e.Kind)
	if assert.Len(t, e.Args, 2) {
		assert.Equal(t, lang.NumExp, e.Args[0].Kind)
		assert.Equal(t, lang.UnitExp, e.Args[1].Kind)
	}

	e, err = ParseExpr("test", []byte(`"say \"hi\""`))
	require.NoError(t, err)
	assert.Equal(t, lang.StrExp, e.Kind)
	assert.Equal(t, `say "hi"`, e.Str)

	e, err = ParseExpr("test", []byte("(let ((x 1)) x)"))
	require.NoError(t, err)
	assert.Equal(t, []string{"x"}, e.Names)
	assert.Equal(t, lang.VarExp, e.Body.Kind)
}

func TestParseProgram(t *testing.T) {
	p, err := ParseProgram("test", []byte(`
; a program
(define x 1)
(define f (lambda (y) (+ x y)))

(f 2)
`))
	require.NoError(t, err)
	assert.Len(t, p.Decls, 2)
	if assert.NotNil(t, p.Main) {
		assert.Equal(t, lang.CallExp, p.Main.Kind)
	}
	assert.Equal(t, "(define x 1)\n(define f (lambda (y) (+ x y)))\n(f 2)\n", lang.FormatProgram(p))

	p, err = ParseProgram("test", []byte("(define x 1)"))
	require.NoError(t, err)
	assert.Nil(t, p.Main)

	p, err = ParseProgram("test", []byte("  \n; only a comment\n"))
	require.NoError(t, err)
	assert.Empty(t, p.Decls)
	assert.Nil(t, p.Main)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		src string
		msg string
	}{
		{"(+ 1 2", "unexpected end of input"},
		{"(+ 1 2))", "unexpected input"},
		{"1 2", "unexpected form after main expression"},
		{"1 (define x 1)", "unexpected form after main expression"},
		{"(f (define x 1))", "define is only allowed at top level"},
		{"(define 1 2)", "expected a name"},
		{"(define x)", "define: expected a name and a value"},
		{"(define car 1)", "reserved word cannot be bound: car"},
		{"(lambda x x)", "lambda: expected a formal list and a body"},
		{"(lambda (x x) x)", "lambda: duplicate formal x"},
		{"(lambda (x) x x)", "lambda: expected a formal list and a body"},
		{"(let (x 1) x)", "let: binding must have the form (name value)"},
		{"(let ((x 1)))", "let: expected a binding list and a body"},
		{"(if 1 2)", "if: expected 3 operands but found 2"},
		{"(car 1 2)", "car: expected 1 operands but found 2"},
		{"(f if)", "if is not a value"},
	}
	for _, test := range tests {
		_, err := ParseProgram("test", []byte(test.src))
		if assert.Error(t, err, test.src) {
			assert.Contains(t, err.Error(), test.msg, test.src)
			var serr *SyntaxError
			assert.True(t, errors.As(err, &serr), test.src)
		}
	}
}

func TestReader(t *testing.T) {
	r := NewReader()
	p, err := r.Read("test", strings.NewReader("(define x 1) x"))
	require.NoError(t, err)
	assert.Len(t, p.Decls, 1)
	assert.Equal(t, lang.VarExp, p.Main.Kind)

	_, err = r.Read("test", strings.NewReader("(x"))
	assert.Error(t, err)
}

func TestIncomplete(t *testing.T) {
	tests := []struct {
		src  string
		want bool
	}{
		{"", false},
		{"(+ 1 2)", false},
		{"(+ 1", true},
		{"(define f (lambda (x)\n", true},
		{`"open string`, true},
		{`"a \" b"`, false},
		{`(f "(")`, false},
		{"(f ; )\n", true},
		{"())", false},
	}
	for _, test := range tests {
		assert.Equal(t, test.want, Incomplete([]byte(test.src)), test.src)
	}
}

func TestSyntaxErrorString(t *testing.T) {
	err := &SyntaxError{Source: "f.fl", Offset: 3, Msg: "oops"}
	assert.Equal(t, "f.fl:3: oops", err.Error())
	err.Offset = -1
	assert.Equal(t, "f.fl: oops", err.Error())
}
