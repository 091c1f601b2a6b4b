package lang

import (
	"bytes"
	"fmt"
	"math"
	"strconv"
)

// Type is the type of a Value.
type Type uint8

// Possible Type values
const (
	TInvalid Type = iota
	TNumber
	TBool
	TString
	TUnit
	TPair
	TNull
	TClosure
	TError
	TAbstract
)

var typeStrings = []string{
	TInvalid:  "INVALID",
	TNumber:   "number",
	TBool:     "boolean",
	TString:   "string",
	TUnit:     "unit",
	TPair:     "pair",
	TNull:     "null",
	TClosure:  "procedure",
	TError:    "error",
	TAbstract: "abstract",
}

func (t Type) String() string {
	if int(t) >= len(typeStrings) {
		return typeStrings[TInvalid]
	}
	return typeStrings[t]
}

// Value is a funclang runtime value.  Value is immutable and is passed by
// value; the payload fields that are meaningful depend on Type.  The zero
// Value is TInvalid and is never produced by the evaluator.
type Value struct {
	Type Type

	// Num holds a TNumber payload.
	Num float64
	// Bool holds a TBool payload.
	Bool bool
	// Str holds a TString payload or a TError message.
	Str string
	// Pair holds a TPair payload.
	Pair *PairData
	// Fun holds a TClosure payload.
	Fun *ClosureData
	// Tokens holds a TAbstract payload.
	Tokens TokenSet
}

// ClosureData is the payload of a TClosure value.  Env is captured when the
// lambda expression is evaluated and is never modified afterwards.
type ClosureData struct {
	Env     Env
	Formals []string
	Body    *Expr
}

// Number returns a Value representing x.
func Number(x float64) Value {
	return Value{Type: TNumber, Num: x}
}

// Bool returns a Value representing b.
func Bool(b bool) Value {
	return Value{Type: TBool, Bool: b}
}

// True returns the true Value.
func True() Value { return Bool(true) }

// False returns the false Value.
func False() Value { return Bool(false) }

// String returns a Value representing s.
func String(s string) Value {
	return Value{Type: TString, Str: s}
}

// Unit returns the unit Value produced by definitions.
func Unit() Value {
	return Value{Type: TUnit}
}

// Null returns the list terminator.
func Null() Value {
	return Value{Type: TNull}
}

// Closure returns a procedure value that evaluates body in env extended with
// formals.
func Closure(env Env, formals []string, body *Expr) Value {
	return Value{
		Type: TClosure,
		Fun: &ClosureData{
			Env:     env,
			Formals: formals,
			Body:    body,
		},
	}
}

// Error returns a Value carrying the message of err.
func Error(err error) Value {
	return Value{Type: TError, Str: err.Error()}
}

// Errorf returns an error Value with a formatted message.
func Errorf(format string, v ...interface{}) Value {
	return Value{Type: TError, Str: fmt.Sprintf(format, v...)}
}

// Abstract returns an abstract Value containing the given tokens.
func Abstract(tokens ...Token) Value {
	return AbstractSet(NewTokenSet(tokens...))
}

// AbstractSet returns an abstract Value for the set s.
func AbstractSet(s TokenSet) Value {
	return Value{Type: TAbstract, Tokens: s}
}

// IsError returns true if v is a dynamic error.
func (v Value) IsError() bool {
	return v.Type == TError
}

// GoError returns a Go error for a dynamic error value, or nil if v is not
// an error.
func GoError(v Value) error {
	if v.Type != TError {
		return nil
	}
	return (*ErrorVal)(&v)
}

// ErrorVal implements the error interface so that a dynamic error value can
// leave the interpreter as an ordinary Go error.
type ErrorVal Value

// Error implements the error interface.
func (e *ErrorVal) Error() string {
	return e.Str
}

// Equal reports structural equality between two concrete values.  Numbers
// use IEEE-754 equality, pairs compare component-wise.  Any pairing that
// involves a closure, unit, error or abstract value is false.
func Equal(v1, v2 Value) bool {
	switch {
	case v1.Type == TNumber && v2.Type == TNumber:
		return v1.Num == v2.Num
	case v1.Type == TString && v2.Type == TString:
		return v1.Str == v2.Str
	case v1.Type == TPair && v2.Type == TPair:
		return Equal(v1.Pair.First, v2.Pair.First) && Equal(v1.Pair.Second, v2.Pair.Second)
	case v1.Type == TBool && v2.Type == TBool:
		return v1.Bool == v2.Bool
	default:
		return v1.Type == TNull && v2.Type == TNull
	}
}

// Compare orders two concrete values, returning -1, 0 or 1.  Compare returns
// 0 whenever Equal holds.  Lists are ordered by length and a pair is greater
// than null.  Any combination without a defined order compares as -1, which
// makes "less than" true for unrelated types.
func Compare(v1, v2 Value) int {
	if Equal(v1, v2) {
		return 0
	}
	switch {
	case v1.Type == TNumber && v2.Type == TNumber:
		return compareFloat(v1.Num, v2.Num)
	case v1.Type == TString && v2.Type == TString:
		if v1.Str < v2.Str {
			return -1
		}
		return 1
	case v1.Type == TPair && v2.Type == TPair:
		l1, ok1 := v1.Len()
		l2, ok2 := v2.Len()
		if ok1 && ok2 {
			return compareFloat(float64(l1), float64(l2))
		}
		if !ok1 && !ok2 {
			return 0
		}
	case v1.Type == TPair && v2.Type == TNull:
		return 1
	}
	return -1
}

func compareFloat(x, y float64) int {
	switch {
	case x < y:
		return -1
	case x > y:
		return 1
	default:
		return 0
	}
}

func (v Value) String() string {
	switch v.Type {
	case TNumber:
		return formatNumber(v.Num)
	case TBool:
		if v.Bool {
			return "#t"
		}
		return "#f"
	case TString:
		return v.Str
	case TUnit:
		return ""
	case TPair:
		var buf bytes.Buffer
		writePair(&buf, v)
		return buf.String()
	case TNull:
		return "()"
	case TClosure:
		var buf bytes.Buffer
		buf.WriteString("(lambda (")
		for i, name := range v.Fun.Formals {
			if i > 0 {
				buf.WriteString(" ")
			}
			buf.WriteString(name)
		}
		buf.WriteString(") ")
		buf.WriteString(FormatExpr(v.Fun.Body))
		buf.WriteString(")")
		return buf.String()
	case TError:
		return v.Str
	case TAbstract:
		return v.Tokens.String()
	default:
		return fmt.Sprintf("%#v", v)
	}
}

func formatNumber(x float64) string {
	if x == math.Trunc(x) && math.Abs(x) < 1e15 {
		return strconv.FormatInt(int64(x), 10)
	}
	return strconv.FormatFloat(x, 'g', -1, 64)
}
