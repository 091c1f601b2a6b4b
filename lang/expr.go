package lang

// ExprKind identifies the syntactic form of an Expr.
type ExprKind uint8

// Possible ExprKind values
const (
	InvalidExp ExprKind = iota
	NumExp
	StrExp
	BoolExp
	UnitExp
	VarExp
	AddExp
	SubExp
	MulExp
	DivExp
	LessExp
	GreaterExp
	EqualExp
	LetExp
	DefineExp
	LambdaExp
	CallExp
	IfExp
	CarExp
	CdrExp
	ConsExp
	ListExp
	IsNullExp
	IsNumExp
	IsBoolExp
	IsStringExp
	IsProcedureExp
	IsListExp
	IsPairExp
	IsUnitExp
	EvalExp
	ReadExp
)

// exprKeywords are the source keywords of the forms that have one.
var exprKeywords = []string{
	InvalidExp:     "INVALID",
	AddExp:         "+",
	SubExp:         "-",
	MulExp:         "*",
	DivExp:         "/",
	LessExp:        "<",
	GreaterExp:     ">",
	EqualExp:       "=",
	LetExp:         "let",
	DefineExp:      "define",
	LambdaExp:      "lambda",
	IfExp:          "if",
	CarExp:         "car",
	CdrExp:         "cdr",
	ConsExp:        "cons",
	ListExp:        "list",
	IsNullExp:      "null?",
	IsNumExp:       "number?",
	IsBoolExp:      "boolean?",
	IsStringExp:    "string?",
	IsProcedureExp: "procedure?",
	IsListExp:      "list?",
	IsPairExp:      "pair?",
	IsUnitExp:      "unit?",
	EvalExp:        "eval",
	ReadExp:        "read",
}

// Keyword returns the source keyword of k, or the empty string for literals,
// variables and applications.
func (k ExprKind) Keyword() string {
	if int(k) >= len(exprKeywords) {
		return ""
	}
	return exprKeywords[k]
}

// LookupKeyword returns the kind of the operator form named by keyword.
// Literals, variables and applications have no keyword.
func LookupKeyword(keyword string) (ExprKind, bool) {
	for k, kw := range exprKeywords {
		if kw != "" && ExprKind(k) != InvalidExp && kw == keyword {
			return ExprKind(k), true
		}
	}
	return InvalidExp, false
}

var exprArity = map[ExprKind]int{
	LessExp:        2,
	GreaterExp:     2,
	EqualExp:       2,
	DefineExp:      1,
	IfExp:          3,
	CarExp:         1,
	CdrExp:         1,
	ConsExp:        2,
	IsNullExp:      1,
	IsNumExp:       1,
	IsBoolExp:      1,
	IsStringExp:    1,
	IsProcedureExp: 1,
	IsListExp:      1,
	IsPairExp:      1,
	IsUnitExp:      1,
	EvalExp:        1,
	ReadExp:        1,
}

// Arity returns the number of operands in Args required by forms of kind
// k, or -1 if k is variadic or does not keep its operands in Args.
func (k ExprKind) Arity() int {
	n, ok := exprArity[k]
	if !ok {
		return -1
	}
	return n
}

var kindNames = []string{
	InvalidExp:     "InvalidExp",
	NumExp:         "NumExp",
	StrExp:         "StrExp",
	BoolExp:        "BoolExp",
	UnitExp:        "UnitExp",
	VarExp:         "VarExp",
	AddExp:         "AddExp",
	SubExp:         "SubExp",
	MulExp:         "MulExp",
	DivExp:         "DivExp",
	LessExp:        "LessExp",
	GreaterExp:     "GreaterExp",
	EqualExp:       "EqualExp",
	LetExp:         "LetExp",
	DefineExp:      "DefineExp",
	LambdaExp:      "LambdaExp",
	CallExp:        "CallExp",
	IfExp:          "IfExp",
	CarExp:         "CarExp",
	CdrExp:         "CdrExp",
	ConsExp:        "ConsExp",
	ListExp:        "ListExp",
	IsNullExp:      "IsNullExp",
	IsNumExp:       "IsNumExp",
	IsBoolExp:      "IsBoolExp",
	IsStringExp:    "IsStringExp",
	IsProcedureExp: "IsProcedureExp",
	IsListExp:      "IsListExp",
	IsPairExp:      "IsPairExp",
	IsUnitExp:      "IsUnitExp",
	EvalExp:        "EvalExp",
	ReadExp:        "ReadExp",
}

func (k ExprKind) String() string {
	if int(k) >= len(kindNames) {
		return kindNames[InvalidExp]
	}
	return kindNames[k]
}

// Expr is a node of the expression tree.  Which fields are used depends on
// Kind:
//
//	NumExp, BoolExp, StrExp       Num, Bool, Str
//	VarExp                        Name
//	DefineExp                     Name, Args[0]
//	LambdaExp                     Names (formals), Body
//	LetExp                        Names, Args (value expressions), Body
//	CallExp                       Operator, Args
//	IfExp                         Args[0] (condition), Args[1], Args[2]
//	everything else               Args (operands)
type Expr struct {
	Kind     ExprKind
	Num      float64
	Bool     bool
	Str      string
	Name     string
	Names    []string
	Args     []*Expr
	Operator *Expr
	Body     *Expr
}

// Program is a sequence of top-level definitions followed by an optional
// main expression.
type Program struct {
	Decls []*Expr
	Main  *Expr
}

// NumLit returns a number literal.
func NumLit(x float64) *Expr { return &Expr{Kind: NumExp, Num: x} }

// StrLit returns a string literal.
func StrLit(s string) *Expr { return &Expr{Kind: StrExp, Str: s} }

// BoolLit returns a boolean literal.
func BoolLit(b bool) *Expr { return &Expr{Kind: BoolExp, Bool: b} }

// UnitLit returns the unit literal.
func UnitLit() *Expr { return &Expr{Kind: UnitExp} }

// Var returns a variable reference.
func Var(name string) *Expr { return &Expr{Kind: VarExp, Name: name} }

// Op returns an operator expression of the given kind applied to args.
func Op(kind ExprKind, args ...*Expr) *Expr {
	return &Expr{Kind: kind, Args: args}
}

// If returns a conditional expression.
func If(cond, then, els *Expr) *Expr {
	return &Expr{Kind: IfExp, Args: []*Expr{cond, then, els}}
}

// Let returns a let expression with simultaneous bindings.
func Let(names []string, vals []*Expr, body *Expr) *Expr {
	return &Expr{Kind: LetExp, Names: names, Args: vals, Body: body}
}

// Lambda returns a function expression.
func Lambda(formals []string, body *Expr) *Expr {
	return &Expr{Kind: LambdaExp, Names: formals, Body: body}
}

// Call returns an application of operator to args.
func Call(operator *Expr, args ...*Expr) *Expr {
	return &Expr{Kind: CallExp, Operator: operator, Args: args}
}

// Define returns a top-level definition.
func Define(name string, val *Expr) *Expr {
	return &Expr{Kind: DefineExp, Name: name, Args: []*Expr{val}}
}
