package repl

import (
	"bytes"
	"testing"

	"github.com/majwic/lisp-abstract-interpreter/internal/testutil"
	"github.com/majwic/lisp-abstract-interpreter/lang"
	"github.com/majwic/lisp-abstract-interpreter/parser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSession(t *testing.T) (*Session, *bytes.Buffer) {
	t.Helper()
	rt, err := lang.NewRuntime(
		lang.WithReader(parser.NewReader()),
		lang.WithLogger(testutil.NewTestLogger(t)),
	)
	require.NoError(t, err)
	var out bytes.Buffer
	return NewSession(rt, &out), &out
}

func TestSessionDefinitionsPersist(t *testing.T) {
	s, out := newSession(t)
	assert.True(t, s.Feed([]byte("(define x 20)")))
	assert.Equal(t, "", out.String())
	assert.True(t, s.Feed([]byte("(+ x 22)")))
	assert.Equal(t, "42\n", out.String())
}

func TestSessionContinuation(t *testing.T) {
	s, out := newSession(t)
	assert.False(t, s.Feed([]byte("(define sq")))
	assert.True(t, s.Pending())
	assert.False(t, s.Feed([]byte("  (lambda (x)")))
	assert.True(t, s.Feed([]byte("    (* x x)))")))
	assert.False(t, s.Pending())
	assert.True(t, s.Feed([]byte("(sq 5)")))
	assert.Equal(t, "25\n", out.String())

	assert.False(t, s.Feed([]byte("(sq")))
	s.Reset()
	assert.False(t, s.Pending())
	assert.True(t, s.Feed([]byte("")))
	assert.Equal(t, "25\n", out.String())
}

func TestSessionErrors(t *testing.T) {
	s, out := newSession(t)
	assert.True(t, s.Feed([]byte("(car 1)")))
	assert.Equal(t, "error: car: argument is a number, not a pair in (car 1)\n", out.String())

	out.Reset()
	assert.True(t, s.Feed([]byte("(+ 1 2))")))
	assert.Contains(t, out.String(), "error: repl:")
}

func TestSessionCommands(t *testing.T) {
	s, out := newSession(t)
	assert.True(t, s.Feed([]byte(".abstract x NumPos,NumZero")))
	assert.Equal(t, "", out.String())
	assert.True(t, s.Feed([]byte("(* x 2)")))
	assert.Equal(t, "{NumZero, NumPos}\n", out.String())

	out.Reset()
	s.Feed([]byte("(define y 1)"))
	s.Feed([]byte(".env"))
	assert.Equal(t, "x = {NumZero, NumPos}\ny = 1\n", out.String())

	out.Reset()
	s.Feed([]byte(".abstract x Positive"))
	assert.Contains(t, out.String(), "error: unknown abstract token")

	out.Reset()
	s.Feed([]byte(".abstract x"))
	assert.Contains(t, out.String(), "usage:")

	out.Reset()
	s.Feed([]byte(".frobnicate"))
	assert.Contains(t, out.String(), "unknown command .frobnicate")

	out.Reset()
	s.Feed([]byte(".help"))
	assert.Contains(t, out.String(), ".abstract NAME TOKENS")
}
