package lang

import (
	"bytes"
	"fmt"
	"strings"
)

// Token is a member of the fixed abstract alphabet.  A token stands for a
// class of concrete outcomes: a number sign, a boolean, or an error class.
type Token uint8

// Possible Token values
const (
	NumNeg Token = iota
	NumZero
	NumPos
	BTrue
	BFalse
	TypeError
	RuntimeError
	UnsupportedTypeError
	UnsupportedFunctionError

	numTokens int = iota
)

var tokenStrings = []string{
	NumNeg:                   "NumNeg",
	NumZero:                  "NumZero",
	NumPos:                   "NumPos",
	BTrue:                    "BTrue",
	BFalse:                   "BFalse",
	TypeError:                "TypeError",
	RuntimeError:             "RuntimeError",
	UnsupportedTypeError:     "UnsupportedTypeError",
	UnsupportedFunctionError: "UnsupportedFunctionError",
}

func (t Token) String() string {
	if int(t) >= len(tokenStrings) {
		return fmt.Sprintf("Token(%d)", uint8(t))
	}
	return tokenStrings[t]
}

// IsSign returns true for the number sign tokens.
func (t Token) IsSign() bool {
	return t == NumNeg || t == NumZero || t == NumPos
}

// IsBool returns true for the boolean tokens.
func (t Token) IsBool() bool {
	return t == BTrue || t == BFalse
}

// IsError returns true for the four error classes.
func (t Token) IsError() bool {
	return t >= TypeError && int(t) < numTokens
}

// ParseToken returns the token named s.  Matching ignores case.
func ParseToken(s string) (Token, error) {
	for i, name := range tokenStrings {
		if strings.EqualFold(name, s) {
			return Token(i), nil
		}
	}
	return 0, fmt.Errorf("unknown abstract token: %q", s)
}

// TokenSet is a set of tokens.  The empty set is the bottom of the lattice.
// Sets are values; every operation returns a new set.
type TokenSet uint16

// errorTokens contains every error class.
const errorTokens TokenSet = 1<<TypeError | 1<<RuntimeError | 1<<UnsupportedTypeError | 1<<UnsupportedFunctionError

// NewTokenSet returns the set containing tokens.
func NewTokenSet(tokens ...Token) TokenSet {
	var s TokenSet
	for _, t := range tokens {
		s = s.Add(t)
	}
	return s
}

// ParseTokenSet parses a list of token names.
func ParseTokenSet(names []string) (TokenSet, error) {
	var s TokenSet
	for _, name := range names {
		t, err := ParseToken(strings.TrimSpace(name))
		if err != nil {
			return 0, err
		}
		s = s.Add(t)
	}
	return s, nil
}

// Add returns s with t inserted.
func (s TokenSet) Add(t Token) TokenSet {
	return s | 1<<t
}

// Has returns true if t is a member of s.
func (s TokenSet) Has(t Token) bool {
	return s&(1<<t) != 0
}

// Union returns the join of s and other.
func (s TokenSet) Union(other TokenSet) TokenSet {
	return s | other
}

// IsEmpty returns true for the bottom element.
func (s TokenSet) IsEmpty() bool {
	return s == 0
}

// Len returns the number of tokens in s.
func (s TokenSet) Len() int {
	n := 0
	for t := 0; t < numTokens; t++ {
		if s.Has(Token(t)) {
			n++
		}
	}
	return n
}

// Tokens returns the members of s in alphabet order.
func (s TokenSet) Tokens() []Token {
	var tokens []Token
	for t := 0; t < numTokens; t++ {
		if s.Has(Token(t)) {
			tokens = append(tokens, Token(t))
		}
	}
	return tokens
}

// Errors returns the error tokens contained in s.
func (s TokenSet) Errors() TokenSet {
	return s & errorTokens
}

// HasError returns true if s contains any error class.
func (s TokenSet) HasError() bool {
	return s.Errors() != 0
}

func (s TokenSet) String() string {
	var buf bytes.Buffer
	buf.WriteString("{")
	for i, t := range s.Tokens() {
		if i > 0 {
			buf.WriteString(", ")
		}
		buf.WriteString(t.String())
	}
	buf.WriteString("}")
	return buf.String()
}

// AnyNum returns the set of every number sign.
func AnyNum() TokenSet {
	return NewTokenSet(NumNeg, NumZero, NumPos)
}

// AnyBool returns the set of both booleans.
func AnyBool() TokenSet {
	return NewTokenSet(BTrue, BFalse)
}

// TokenFunc is the abstract semantics of a binary operator over single
// tokens.
type TokenFunc func(x, y Token) TokenSet

// Combine joins f applied to every pair in the cross product of a and b.
// The error tokens of both inputs are always part of the result.  When
// either input is empty the other is returned unchanged.
func Combine(a, b TokenSet, f TokenFunc) TokenSet {
	if a.IsEmpty() {
		return b
	}
	if b.IsEmpty() {
		return a
	}
	result := a.Errors() | b.Errors()
	for _, x := range a.Tokens() {
		for _, y := range b.Tokens() {
			result |= f(x, y)
		}
	}
	return result
}

// CombineArith folds vals left to right with Combine.  Concrete values are
// lifted with OfNum first.
func CombineArith(vals []Value, f TokenFunc) TokenSet {
	var result TokenSet
	for i, v := range vals {
		var s TokenSet
		if v.Type == TAbstract {
			s = v.Tokens
		} else {
			s = OfNum(v)
		}
		if i == 0 {
			result = s
			continue
		}
		result = Combine(result, s, f)
	}
	return result
}

// OfNum returns the sign of a number value, or {TypeError} if v is not a
// number.
func OfNum(v Value) TokenSet {
	if v.Type != TNumber {
		return NewTokenSet(TypeError)
	}
	switch {
	case v.Num < 0:
		return NewTokenSet(NumNeg)
	case v.Num > 0:
		return NewTokenSet(NumPos)
	case v.Num == 0:
		return NewTokenSet(NumZero)
	default:
		// NaN has no sign.
		return AnyNum()
	}
}

// OfBool returns the token of a boolean value, or {TypeError} if v is not a
// boolean.
func OfBool(v Value) TokenSet {
	if v.Type != TBool {
		return NewTokenSet(TypeError)
	}
	if v.Bool {
		return NewTokenSet(BTrue)
	}
	return NewTokenSet(BFalse)
}

// Lift promotes any value into the lattice so that results of different
// control-flow paths can be joined.
func Lift(v Value) TokenSet {
	switch v.Type {
	case TAbstract:
		return v.Tokens
	case TNumber:
		return OfNum(v)
	case TBool:
		return OfBool(v)
	case TError:
		return NewTokenSet(RuntimeError)
	case TClosure:
		return NewTokenSet(UnsupportedFunctionError)
	default:
		return NewTokenSet(UnsupportedTypeError)
	}
}

// operandErrors returns the error tokens among x and y.
func operandErrors(x, y Token) TokenSet {
	var s TokenSet
	if x.IsError() {
		s = s.Add(x)
	}
	if y.IsError() {
		s = s.Add(y)
	}
	return s
}

func isBoolOperand(x, y Token) bool {
	return x.IsBool() || y.IsBool()
}

// AbstractAdd is the sign semantics of addition.
func AbstractAdd(x, y Token) TokenSet {
	if errs := operandErrors(x, y); !errs.IsEmpty() {
		return errs
	}
	switch {
	case isBoolOperand(x, y):
		return NewTokenSet(TypeError)
	case x == NumZero:
		return NewTokenSet(y)
	case y == NumZero:
		return NewTokenSet(x)
	case x == y:
		return NewTokenSet(x)
	default:
		return AnyNum()
	}
}

// AbstractSub is the sign semantics of subtraction.
func AbstractSub(x, y Token) TokenSet {
	if errs := operandErrors(x, y); !errs.IsEmpty() {
		return errs
	}
	switch {
	case isBoolOperand(x, y):
		return NewTokenSet(TypeError)
	case y == NumZero:
		return NewTokenSet(x)
	case x == NumZero && y == NumPos:
		return NewTokenSet(NumNeg)
	case x == NumZero && y == NumNeg:
		return NewTokenSet(NumPos)
	case x != y:
		return NewTokenSet(x)
	default:
		return AnyNum()
	}
}

// AbstractMul is the sign semantics of multiplication.
func AbstractMul(x, y Token) TokenSet {
	if errs := operandErrors(x, y); !errs.IsEmpty() {
		return errs
	}
	switch {
	case isBoolOperand(x, y):
		return NewTokenSet(TypeError)
	case x == NumZero || y == NumZero:
		return NewTokenSet(NumZero)
	case x == y:
		return NewTokenSet(NumPos)
	default:
		return NewTokenSet(NumNeg)
	}
}

// AbstractDiv is the sign semantics of division.  A zero divisor is a
// RuntimeError.
func AbstractDiv(x, y Token) TokenSet {
	if errs := operandErrors(x, y); !errs.IsEmpty() {
		return errs
	}
	switch {
	case isBoolOperand(x, y):
		return NewTokenSet(TypeError)
	case y == NumZero:
		return NewTokenSet(RuntimeError)
	case x == NumZero:
		return NewTokenSet(NumZero)
	case x == y:
		return NewTokenSet(NumPos)
	default:
		return NewTokenSet(NumNeg)
	}
}

// AbstractEqual is BTrue for identical tokens and BFalse otherwise.
func AbstractEqual(x, y Token) TokenSet {
	if x == y {
		return NewTokenSet(BTrue)
	}
	return NewTokenSet(BFalse)
}

// AbstractGreater orders NumNeg < NumZero < NumPos.  Comparing two tokens of
// the same nonzero sign is ambiguous.  Any token that is not a sign yields
// BFalse.
func AbstractGreater(x, y Token) TokenSet {
	if !x.IsSign() || !y.IsSign() {
		return NewTokenSet(BFalse)
	}
	switch {
	case x == y && x != NumZero:
		return AnyBool()
	case x > y:
		return NewTokenSet(BTrue)
	default:
		return NewTokenSet(BFalse)
	}
}

// AbstractLess is AbstractGreater with its operands swapped.
func AbstractLess(x, y Token) TokenSet {
	return AbstractGreater(y, x)
}

// MapPredicate maps every non-error token of s to the boolean pred returns
// for it.  Error tokens are kept as they are.
func MapPredicate(s TokenSet, pred func(Token) bool) TokenSet {
	var result TokenSet
	for _, t := range s.Tokens() {
		switch {
		case t.IsError():
			result = result.Add(t)
		case pred(t):
			result = result.Add(BTrue)
		default:
			result = result.Add(BFalse)
		}
	}
	return result
}

// IsNumToken is the abstract number? predicate.
func IsNumToken(t Token) bool { return t.IsSign() }

// IsBoolToken is the abstract boolean? predicate.
func IsBoolToken(t Token) bool { return t.IsBool() }

// NoToken is the abstract predicate for every type that has no token.
func NoToken(Token) bool { return false }
