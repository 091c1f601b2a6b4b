package lang

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func AssertNumEqual(t *testing.T, expect float64, v Value) {
	t.Helper()
	if assert.Equal(t, TNumber, v.Type) {
		assert.Equal(t, expect, v.Num)
	}
}

func AssertNotError(t *testing.T, v Value) {
	t.Helper()
	assert.NotEqual(t, TError, v.Type, v.String())
}

func AssertError(t *testing.T, v Value) {
	t.Helper()
	assert.Equal(t, TError, v.Type, v.String())
}

func TestGlobal(t *testing.T) {
	env := NewGlobalEnv()
	assert.Equal(t, 0, env.Len())
	env.Install("a", Number(1))
	_, ok := env.Lookup("b")
	assert.False(t, ok)
	v, ok := env.Lookup("a")
	if assert.True(t, ok) {
		AssertNumEqual(t, 1, v)
	}

	env.Install("b", Number(2))
	env.Install("a", Number(3))
	assert.Equal(t, 3, env.Len())
	v, ok = env.Lookup("a")
	if assert.True(t, ok) {
		AssertNumEqual(t, 3, v)
	}
	assert.Equal(t, []string{"b", "a"}, env.Names())
}

func TestExtend(t *testing.T) {
	root := NewGlobalEnv()
	root.Install("a", Number(1))
	root.Install("b", Number(2))
	env := root.Extend("b", Number(3))
	env = env.Extend("c", Number(4))
	assert.Equal(t, 2, root.Len())

	v, ok := env.Lookup("a")
	if assert.True(t, ok) {
		AssertNumEqual(t, 1, v)
	}
	v, ok = env.Lookup("b")
	if assert.True(t, ok) {
		AssertNumEqual(t, 3, v)
	}
	v, ok = root.Lookup("b")
	if assert.True(t, ok) {
		AssertNumEqual(t, 2, v)
	}
	_, ok = root.Lookup("c")
	assert.False(t, ok)

	// later installations into the root are visible through children
	root.Install("d", Number(5))
	v, ok = env.Lookup("d")
	if assert.True(t, ok) {
		AssertNumEqual(t, 5, v)
	}
}

func TestExtendPersistent(t *testing.T) {
	base := Extend(NewGlobalEnv(), "x", Number(1))
	left := base.Extend("x", Number(2))
	right := base.Extend("y", Number(3))

	v, _ := base.Lookup("x")
	AssertNumEqual(t, 1, v)
	v, _ = left.Lookup("x")
	AssertNumEqual(t, 2, v)
	v, _ = right.Lookup("x")
	AssertNumEqual(t, 1, v)
	_, ok := left.Lookup("y")
	assert.False(t, ok)
}

func TestExtendNilParent(t *testing.T) {
	env := Extend(nil, "x", Number(1))
	v, ok := env.Lookup("x")
	if assert.True(t, ok) {
		AssertNumEqual(t, 1, v)
	}
	_, ok = env.Lookup("y")
	assert.False(t, ok)
}

func TestSnapshot(t *testing.T) {
	env := NewGlobalEnv()
	env.Install("a", Number(1))
	snap := env.Snapshot()
	env.Install("a", Number(2))
	snap.Install("b", Number(3))

	v, _ := snap.Lookup("a")
	AssertNumEqual(t, 1, v)
	v, _ = env.Lookup("a")
	AssertNumEqual(t, 2, v)
	_, ok := env.Lookup("b")
	assert.False(t, ok)
	assert.Equal(t, []string{"a", "b"}, snap.Names())
}
