package lang_test

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/majwic/lisp-abstract-interpreter/internal/testutil"
	"github.com/majwic/lisp-abstract-interpreter/lang"
	"github.com/majwic/lisp-abstract-interpreter/parser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRuntime(t *testing.T, configs ...lang.Config) *lang.Runtime {
	t.Helper()
	configs = append([]lang.Config{
		lang.WithReader(parser.NewReader()),
		lang.WithLogger(testutil.NewTestLogger(t)),
	}, configs...)
	rt, err := lang.NewRuntime(configs...)
	require.NoError(t, err)
	return rt
}

func evalString(t *testing.T, rt *lang.Runtime, src string) lang.Value {
	t.Helper()
	p, err := parser.ParseProgram("test", []byte(src))
	require.NoError(t, err)
	return rt.ValueOf(p)
}

func TestCommutativity(t *testing.T) {
	rt := newRuntime(t)
	samples := []string{"-3", "0", "0.5", "7", "1e3"}
	for _, op := range []string{"+", "*"} {
		for _, x := range samples {
			for _, y := range samples {
				a := evalString(t, rt, "("+op+" "+x+" "+y+")")
				b := evalString(t, rt, "("+op+" "+y+" "+x+")")
				assert.True(t, lang.Equal(a, b), "(%s %s %s)", op, x, y)
			}
		}
	}
}

func TestListRoundTrip(t *testing.T) {
	rt := newRuntime(t)
	assert.Equal(t, "1", evalString(t, rt, "(car (cons 1 (list 2)))").String())
	assert.Equal(t, "(2)", evalString(t, rt, "(cdr (cons 1 (list 2)))").String())
	assert.Equal(t, lang.TNull, evalString(t, rt, "(list)").Type)
	assert.Equal(t, "(1 2 3)", evalString(t, rt, "(list 1 2 3)").String())
	v := evalString(t, rt, `(cons 1 (cons "a" (list)))`)
	var types []lang.Type
	for it := lang.NewListIterator(v); it.Next(); {
		types = append(types, it.Value().Type)
	}
	assert.Equal(t, []lang.Type{lang.TNumber, lang.TString}, types)
}

func TestClosureCapture(t *testing.T) {
	rt := newRuntime(t)
	evalString(t, rt, "(define add1 (let ((x 1)) (lambda (y) (+ x y))))")
	evalString(t, rt, "(define x 42)")
	v := evalString(t, rt, "(add1 2)")
	assert.Equal(t, lang.TNumber, v.Type)
	assert.Equal(t, 3.0, v.Num)
}

func TestAbstractJoin(t *testing.T) {
	rt := newRuntime(t)
	require.NoError(t, rt.SetAbstractEnv([]string{"b"}, []lang.Value{lang.AbstractSet(lang.AnyBool())}))
	v := evalString(t, rt, "(if b 1 -1)")
	if assert.Equal(t, lang.TAbstract, v.Type) {
		assert.True(t, v.Tokens.Has(lang.NumPos))
		assert.True(t, v.Tokens.Has(lang.NumNeg))
	}
}

func TestDivisionByZero(t *testing.T) {
	rt := newRuntime(t, lang.WithAbstractBindings(map[string]lang.TokenSet{
		"p": lang.NewTokenSet(lang.NumPos),
		"z": lang.NewTokenSet(lang.NumZero),
	}))
	v := evalString(t, rt, "(/ p z)")
	assert.Equal(t, lang.NewTokenSet(lang.RuntimeError), v.Tokens)

	v = evalString(t, rt, "(/ 4 0)")
	if assert.True(t, v.IsError()) {
		assert.Contains(t, v.String(), "division by zero")
	}
}

func TestEvalDirect(t *testing.T) {
	rt := newRuntime(t)
	env := rt.Global.Extend("x", lang.Number(2))
	v := rt.Eval(lang.Op(lang.MulExp, lang.Var("x"), lang.NumLit(3)), env)
	assert.Equal(t, 6.0, v.Num)

	// forms built by hand are checked for arity
	v = rt.Eval(lang.Op(lang.CarExp), env)
	assert.True(t, v.IsError())
	v = rt.Eval(&lang.Expr{Kind: lang.LetExp, Names: []string{"a"}, Body: lang.Var("a")}, env)
	assert.True(t, v.IsError())
	v = rt.Eval(nil, env)
	assert.True(t, v.IsError())
	v = rt.Eval(&lang.Expr{Kind: lang.InvalidExp}, env)
	assert.True(t, v.IsError())
}

func TestEvalRecoversPanics(t *testing.T) {
	rt := newRuntime(t)
	// a closure built without an environment cannot be applied
	fn := lang.Closure(nil, []string{"x"}, lang.Var("x"))
	rt.Global.Install("broken", fn)
	v := evalString(t, rt, "(broken 1)")
	assert.True(t, v.IsError())
}

func TestMaxDepth(t *testing.T) {
	rt := newRuntime(t, lang.WithMaxDepth(50))
	evalString(t, rt, "(define loop (lambda (n) (loop (+ n 1))))")
	v := evalString(t, rt, "(loop 0)")
	if assert.True(t, v.IsError()) {
		assert.Contains(t, v.String(), "maximum evaluation depth exceeded")
	}
	v = evalString(t, rt, "(+ 1 2)")
	assert.Equal(t, 3.0, v.Num)
}

func TestLoad(t *testing.T) {
	rt := newRuntime(t)
	v := rt.LoadString("test", "(define x 2) (* x 21)")
	assert.Equal(t, "42", v.String())

	v = rt.LoadString("test", "(+ 1")
	if assert.True(t, v.IsError()) {
		assert.Contains(t, v.String(), "unexpected end of input")
	}

	v = rt.Load("test", errReader{})
	assert.True(t, v.IsError())

	bare, err := lang.NewRuntime()
	require.NoError(t, err)
	assert.True(t, bare.LoadString("test", "1").IsError())
	assert.True(t, bare.ValueOf(&lang.Program{Main: lang.Op(lang.EvalExp, lang.StrLit("1"))}).IsError())
	assert.Equal(t, lang.TUnit, bare.ValueOf(nil).Type)
}

type errReader struct{}

func (errReader) Read([]byte) (int, error) { return 0, errors.New("read failed") }

var _ io.Reader = errReader{}

func TestReadFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "prog.fl"), []byte("(+ 40 2)"), 0644))
	rt := newRuntime(t, lang.WithFileReader(lang.DirFileReader(dir)))

	v := evalString(t, rt, `(read "prog.fl")`)
	assert.Equal(t, "(+ 40 2)", v.String())
	v = evalString(t, rt, `(eval (read "prog.fl"))`)
	assert.Equal(t, "42", v.String())
	v = evalString(t, rt, `(read "missing.fl")`)
	if assert.True(t, v.IsError()) {
		assert.True(t, strings.HasPrefix(v.String(), "read: "))
	}
	v = evalString(t, rt, `(eval "(+ 1")`)
	assert.True(t, v.IsError())
}

func TestRuntimeConfig(t *testing.T) {
	_, err := lang.NewRuntime(lang.WithMaxDepth(-1))
	assert.Error(t, err)
	_, err = lang.NewRuntime(lang.WithLogger(nil))
	assert.Error(t, err)
	_, err = lang.NewRuntime(lang.WithGlobalEnv(nil))
	assert.Error(t, err)

	global := lang.NewGlobalEnv()
	global.Install("k", lang.Number(7))
	rt := newRuntime(t, lang.WithGlobalEnv(global))
	assert.Equal(t, "7", evalString(t, rt, "k").String())

	quoted := lang.FormatterFunc(func(e *lang.Expr) string { return "<expr>" })
	rt = newRuntime(t, lang.WithFormatter(quoted))
	assert.Equal(t, "Operator not a function in call <expr>", evalString(t, rt, "(1)").String())

	err = rt.SetAbstractEnv([]string{"a", "b"}, []lang.Value{lang.Abstract(lang.NumPos)})
	assert.Error(t, err)
}

func TestAbstractBindingsOrder(t *testing.T) {
	rt := newRuntime(t, lang.WithAbstractBindings(map[string]lang.TokenSet{
		"c": lang.AnyBool(),
		"a": lang.AnyNum(),
		"b": lang.NewTokenSet(lang.NumPos),
	}))
	assert.Equal(t, []string{"a", "b", "c"}, rt.Global.Names())
}

func TestAbstractOperandToStructuralOperation(t *testing.T) {
	rt := newRuntime(t, lang.WithAbstractBindings(map[string]lang.TokenSet{
		"x": lang.NewTokenSet(lang.NumPos),
	}))
	tests := []struct {
		src string
		msg string
	}{
		{"(x 1)", "Operator not a function in call (x 1)"},
		{"(car x)", "car: argument is an abstract value, not a pair in (car x)"},
		{"(cdr x)", "cdr: argument is an abstract value, not a pair in (cdr x)"},
	}
	for _, test := range tests {
		v := rt.LoadString("test", test.src)
		if assert.Equal(t, lang.TError, v.Type, test.src) {
			assert.Equal(t, test.msg, v.String(), test.src)
		}
	}
}
