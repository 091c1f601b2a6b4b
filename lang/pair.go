package lang

import (
	"bytes"
	"fmt"
)

// PairData is the container that backs TPair values.  Pairs are never
// modified after construction.
type PairData struct {
	First  Value
	Second Value
}

// Cons returns a new pair from head and tail.  If tail is a list then Cons
// returns a list as well.
func Cons(head, tail Value) Value {
	return Value{
		Type: TPair,
		Pair: &PairData{First: head, Second: tail},
	}
}

// List returns a null terminated list containing v in order.
func List(v ...Value) Value {
	lis := Null()
	for i := len(v) - 1; i >= 0; i-- {
		lis = Cons(v[i], lis)
	}
	return lis
}

// GetFirst returns the head of pair v.
// GetFirst returns false if v is not a pair.
func GetFirst(v Value) (Value, bool) {
	if v.Type != TPair {
		return Null(), false
	}
	return v.Pair.First, true
}

// GetSecond returns the tail of pair v.
// GetSecond returns false if v is not a pair.
func GetSecond(v Value) (Value, bool) {
	if v.Type != TPair {
		return Null(), false
	}
	return v.Pair.Second, true
}

// IsList returns true if v is null or a pair whose second component is a
// list.
func (v Value) IsList() bool {
	for v.Type == TPair {
		v = v.Pair.Second
	}
	return v.Type == TNull
}

// Len returns the length of the list v.  Len returns false if v is not a
// list.
func (v Value) Len() (int, bool) {
	n := 0
	for v.Type == TPair {
		v = v.Pair.Second
		n++
	}
	return n, v.Type == TNull
}

// ListIterator iterates through lists.
type ListIterator struct {
	v    Value
	rest Value
	err  error
}

// NewListIterator returns a ListIterator that will iterate through list v.
func NewListIterator(v Value) *ListIterator {
	return &ListIterator{
		v:    Null(),
		rest: v,
	}
}

// Value returns the iteration's current value.  Value returns null if Next
// has not been called.
func (it *ListIterator) Value() Value {
	return it.v
}

// Rest returns any items remaining to be iterated over.
func (it *ListIterator) Rest() Value {
	return it.rest
}

// Next advances the iterator to the next list element.  Next returns false if
// iteration terminated, either because the list had no more elements or
// because a non-list value was encountered.
func (it *ListIterator) Next() bool {
	if it.rest.Type == TNull || it.err != nil {
		return false
	}
	if it.rest.Type != TPair {
		it.err = fmt.Errorf("not a list: %v", it.rest.Type)
		return false
	}
	it.v = it.rest.Pair.First
	it.rest = it.rest.Pair.Second
	return true
}

// Err returns a non-nil error if the iteration encountered a non-list value
// terminating the pair chain.
func (it *ListIterator) Err() error {
	return it.err
}

// writePair renders the chain starting at v.  A tail that is not a list is
// written after a dot.
func writePair(buf *bytes.Buffer, v Value) {
	buf.WriteString("(")
	it := NewListIterator(v)
	for i := 0; it.Next(); i++ {
		if i > 0 {
			buf.WriteString(" ")
		}
		buf.WriteString(it.Value().String())
	}
	if it.Err() != nil {
		buf.WriteString(" . ")
		buf.WriteString(it.Rest().String())
	}
	buf.WriteString(")")
}
