package lang

import (
	"fmt"
	"strings"
)

// arithOp describes one of the variadic arithmetic operators.
type arithOp struct {
	name string
	// unit is the result of applying the operator to no operands.  Operators
	// without a unit require at least one operand and fold from the first.
	unit     *float64
	fn       func(acc, x float64) (float64, error)
	abstract TokenFunc
}

func unitOf(x float64) *float64 { return &x }

var errDivZero = fmt.Errorf("division by zero")

var arithOps = map[ExprKind]*arithOp{
	AddExp: {"+", unitOf(0), func(acc, x float64) (float64, error) { return acc + x, nil }, AbstractAdd},
	SubExp: {"-", nil, func(acc, x float64) (float64, error) { return acc - x, nil }, AbstractSub},
	MulExp: {"*", unitOf(1), func(acc, x float64) (float64, error) { return acc * x, nil }, AbstractMul},
	DivExp: {"/", nil, func(acc, x float64) (float64, error) {
		if x == 0 {
			return 0, errDivZero
		}
		return acc / x, nil
	}, AbstractDiv},
}

// typePredicate gives the concrete and abstract meaning of a type test.
type typePredicate struct {
	concrete func(v Value) bool
	abstract func(t Token) bool
}

func isType(t Type) func(Value) bool {
	return func(v Value) bool { return v.Type == t }
}

var typePredicates = map[ExprKind]typePredicate{
	IsNullExp:      {isType(TNull), NoToken},
	IsNumExp:       {isType(TNumber), IsNumToken},
	IsBoolExp:      {isType(TBool), IsBoolToken},
	IsStringExp:    {isType(TString), NoToken},
	IsProcedureExp: {isType(TClosure), NoToken},
	IsListExp:      {Value.IsList, NoToken},
	IsPairExp:      {isType(TPair), NoToken},
	IsUnitExp:      {isType(TUnit), NoToken},
}

// errorf returns an error value whose message names the expression that
// failed.
func (rt *Runtime) errorf(e *Expr, format string, v ...interface{}) Value {
	msg := fmt.Sprintf(format, v...)
	return Errorf("%s in %s", msg, rt.Formatter.Format(e))
}

func (rt *Runtime) evalProgram(p *Program, depth int) Value {
	if p == nil {
		return Unit()
	}
	for _, decl := range p.Decls {
		v := rt.eval(decl, rt.Global, depth)
		if decl.Kind != DefineExp && v.IsError() {
			return v
		}
	}
	if p.Main == nil {
		return Unit()
	}
	return rt.eval(p.Main, rt.Global, depth)
}

func (rt *Runtime) eval(e *Expr, env Env, depth int) Value {
	if e == nil {
		return Errorf("missing expression")
	}
	if rt.MaxDepth > 0 && depth >= rt.MaxDepth {
		return rt.errorf(e, "maximum evaluation depth exceeded (%d)", rt.MaxDepth)
	}
	depth++
	if n := e.Kind.Arity(); n >= 0 && len(e.Args) != n {
		return rt.errorf(e, "%s expects %d operands but got %d", e.Kind.Keyword(), n, len(e.Args))
	}
	switch e.Kind {
	case NumExp:
		return Number(e.Num)
	case StrExp:
		return String(e.Str)
	case BoolExp:
		return Bool(e.Bool)
	case UnitExp:
		return Unit()
	case VarExp:
		v, ok := env.Lookup(e.Name)
		if !ok {
			return Errorf("No binding found for name: %s", e.Name)
		}
		return v
	case AddExp, SubExp, MulExp, DivExp:
		return rt.evalArith(e, env, depth)
	case LessExp, GreaterExp, EqualExp:
		return rt.evalRelation(e, env, depth)
	case LetExp:
		return rt.evalLet(e, env, depth)
	case DefineExp:
		v := rt.eval(e.Args[0], env, depth)
		rt.Global.Install(e.Name, v)
		rt.Logger.Debug("define", "name", e.Name, "type", v.Type.String())
		return Unit()
	case LambdaExp:
		return Closure(env, e.Names, e.Body)
	case CallExp:
		return rt.evalCall(e, env, depth)
	case IfExp:
		return rt.evalIf(e, env, depth)
	case CarExp, CdrExp:
		return rt.evalAccess(e, env, depth)
	case ConsExp:
		head := rt.eval(e.Args[0], env, depth)
		tail := rt.eval(e.Args[1], env, depth)
		return Cons(head, tail)
	case ListExp:
		return List(rt.evalArgs(e.Args, env, depth)...)
	case IsNullExp, IsNumExp, IsBoolExp, IsStringExp, IsProcedureExp, IsListExp, IsPairExp, IsUnitExp:
		return rt.evalPredicate(e, env, depth)
	case EvalExp:
		return rt.evalEval(e, env, depth)
	case ReadExp:
		return rt.evalRead(e, env, depth)
	default:
		return rt.errorf(e, "unknown expression kind %v", e.Kind)
	}
}

func (rt *Runtime) evalArgs(args []*Expr, env Env, depth int) []Value {
	vals := make([]Value, len(args))
	for i := range args {
		vals[i] = rt.eval(args[i], env, depth)
	}
	return vals
}

func anyAbstract(vals []Value) bool {
	for _, v := range vals {
		if v.Type == TAbstract {
			return true
		}
	}
	return false
}

func (rt *Runtime) evalArith(e *Expr, env Env, depth int) Value {
	op := arithOps[e.Kind]
	vals := rt.evalArgs(e.Args, env, depth)
	if anyAbstract(vals) {
		rt.Logger.Debug("abstract arithmetic", "op", op.name, "operands", len(vals))
		return AbstractSet(CombineArith(vals, op.abstract))
	}
	for i, v := range vals {
		if v.Type != TNumber {
			return rt.errorf(e, "%s: operand %d is a %v, not a number", op.name, i+1, v.Type)
		}
	}
	var acc float64
	switch {
	case op.unit != nil:
		acc = *op.unit
	case len(vals) == 0:
		return rt.errorf(e, "%s: at least one operand required", op.name)
	default:
		acc = vals[0].Num
		vals = vals[1:]
	}
	for _, v := range vals {
		var err error
		acc, err = op.fn(acc, v.Num)
		if err != nil {
			return rt.errorf(e, "%v", err)
		}
	}
	return Number(acc)
}

// relationOperand lifts a concrete operand of a relational operator that is
// compared against an abstract value.
func relationOperand(v Value) (TokenSet, bool) {
	switch v.Type {
	case TAbstract:
		return v.Tokens, true
	case TNumber:
		return OfNum(v), true
	case TBool:
		return OfBool(v), true
	default:
		return 0, false
	}
}

func (rt *Runtime) evalRelation(e *Expr, env Env, depth int) Value {
	v1 := rt.eval(e.Args[0], env, depth)
	v2 := rt.eval(e.Args[1], env, depth)
	if v1.Type == TAbstract || v2.Type == TAbstract {
		rt.Logger.Debug("abstract relation", "op", e.Kind.Keyword())
		a, ok1 := relationOperand(v1)
		b, ok2 := relationOperand(v2)
		if !ok1 || !ok2 {
			return Abstract(BFalse)
		}
		switch e.Kind {
		case LessExp:
			return AbstractSet(Combine(a, b, AbstractLess))
		case GreaterExp:
			return AbstractSet(Combine(a, b, AbstractGreater))
		default:
			return AbstractSet(Combine(a, b, AbstractEqual))
		}
	}
	switch e.Kind {
	case LessExp:
		return Bool(Compare(v1, v2) < 0)
	case GreaterExp:
		return Bool(Compare(v1, v2) > 0)
	default:
		return Bool(Equal(v1, v2))
	}
}

func (rt *Runtime) evalLet(e *Expr, env Env, depth int) Value {
	if len(e.Names) != len(e.Args) {
		return rt.errorf(e, "let: %d names but %d values", len(e.Names), len(e.Args))
	}
	// All values are computed in the enclosing environment before any name
	// is bound.
	vals := rt.evalArgs(e.Args, env, depth)
	inner := env
	for i, name := range e.Names {
		inner = inner.Extend(name, vals[i])
	}
	return rt.eval(e.Body, inner, depth)
}

func (rt *Runtime) evalCall(e *Expr, env Env, depth int) Value {
	fn := rt.eval(e.Operator, env, depth)
	if fn.Type != TClosure {
		return Errorf("Operator not a function in call %s", rt.Formatter.Format(e))
	}
	args := rt.evalArgs(e.Args, env, depth)
	if len(args) != len(fn.Fun.Formals) {
		return Errorf("Argument mismatch in call %s", rt.Formatter.Format(e))
	}
	fenv := fn.Fun.Env
	for i, name := range fn.Fun.Formals {
		fenv = fenv.Extend(name, args[i])
	}
	return rt.eval(fn.Fun.Body, fenv, depth)
}

func (rt *Runtime) evalIf(e *Expr, env Env, depth int) Value {
	cond := rt.eval(e.Args[0], env, depth)
	switch cond.Type {
	case TBool:
		if cond.Bool {
			return rt.eval(e.Args[1], env, depth)
		}
		return rt.eval(e.Args[2], env, depth)
	case TAbstract:
		rt.Logger.Debug("abstract condition", "guard", cond.Tokens.String())
		result := cond.Tokens.Errors()
		for _, t := range cond.Tokens.Tokens() {
			if !t.IsBool() && !t.IsError() {
				result = result.Add(TypeError)
			}
		}
		if cond.Tokens.Has(BTrue) {
			result = result.Union(Lift(rt.eval(e.Args[1], env, depth)))
		}
		if cond.Tokens.Has(BFalse) {
			result = result.Union(Lift(rt.eval(e.Args[2], env, depth)))
		}
		return AbstractSet(result)
	default:
		return Errorf("Condition not a boolean in expression %s", rt.Formatter.Format(e))
	}
}

func (rt *Runtime) evalAccess(e *Expr, env Env, depth int) Value {
	v := rt.eval(e.Args[0], env, depth)
	get := GetFirst
	if e.Kind == CdrExp {
		get = GetSecond
	}
	if x, ok := get(v); ok {
		return x
	}
	if v.Type == TAbstract {
		return rt.errorf(e, "%s: argument is an abstract value, not a pair", e.Kind.Keyword())
	}
	return rt.errorf(e, "%s: argument is a %v, not a pair", e.Kind.Keyword(), v.Type)
}

func (rt *Runtime) evalPredicate(e *Expr, env Env, depth int) Value {
	pred := typePredicates[e.Kind]
	v := rt.eval(e.Args[0], env, depth)
	if v.Type == TAbstract {
		return AbstractSet(MapPredicate(v.Tokens, pred.abstract))
	}
	return Bool(pred.concrete(v))
}

func (rt *Runtime) evalEval(e *Expr, env Env, depth int) Value {
	src := rt.eval(e.Args[0], env, depth)
	if src.Type != TString {
		return rt.errorf(e, "eval: argument is a %v, not a string", src.Type)
	}
	if rt.Reader == nil {
		return rt.errorf(e, "eval: no reader configured")
	}
	p, err := rt.Reader.Read("eval", strings.NewReader(src.Str))
	if err != nil {
		return Errorf("eval: %v", err)
	}
	return rt.evalProgram(p, depth)
}

func (rt *Runtime) evalRead(e *Expr, env Env, depth int) Value {
	name := rt.eval(e.Args[0], env, depth)
	if name.Type != TString {
		return rt.errorf(e, "read: argument is a %v, not a string", name.Type)
	}
	if rt.Files == nil {
		return rt.errorf(e, "read: no file reader configured")
	}
	b, err := rt.Files.ReadFile(name.Str)
	if err != nil {
		return Errorf("read: %v", err)
	}
	return String(string(b))
}
