package repl

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/majwic/lisp-abstract-interpreter/lang"
	"github.com/majwic/lisp-abstract-interpreter/parser"
)

// Session accumulates input lines and evaluates each complete program
// against one runtime, so definitions persist between inputs.
type Session struct {
	rt  *lang.Runtime
	out io.Writer
	buf []byte
}

// NewSession returns a Session that evaluates with rt and prints results to
// out.
func NewSession(rt *lang.Runtime, out io.Writer) *Session {
	return &Session{rt: rt, out: out}
}

// Pending returns true if the session holds an incomplete form.
func (s *Session) Pending() bool {
	return len(s.buf) != 0
}

// Reset discards buffered input.
func (s *Session) Reset() {
	s.buf = nil
}

// Feed adds a line of input.  When the buffered text forms complete input it
// is evaluated and Feed returns true.  Feed returns false when more input is
// needed.
func (s *Session) Feed(line []byte) bool {
	if len(s.buf) != 0 {
		s.buf = append(s.buf, '\n')
	} else if cmd := strings.TrimSpace(string(line)); strings.HasPrefix(cmd, ".") {
		s.command(cmd)
		return true
	}
	s.buf = append(s.buf, line...)
	if parser.Incomplete(s.buf) {
		return false
	}
	text := s.buf
	s.buf = nil
	if len(bytes.TrimSpace(text)) == 0 {
		return true
	}
	s.print(s.rt.LoadString("repl", string(text)))
	return true
}

func (s *Session) print(v lang.Value) {
	switch v.Type {
	case lang.TUnit:
		// definitions produce no output
	case lang.TError:
		fmt.Fprintf(s.out, "error: %v\n", v)
	default:
		fmt.Fprintln(s.out, v)
	}
}

const helpText = `.help                   show this message
.env                    list global bindings
.abstract NAME TOKENS   bind NAME to an abstract value, e.g. .abstract x NumPos,NumZero
.quit                   leave the repl`

// command runs a session command.  Commands start with a dot.
func (s *Session) command(cmd string) {
	fields := strings.Fields(cmd)
	switch fields[0] {
	case ".help":
		fmt.Fprintln(s.out, helpText)
	case ".env":
		for _, name := range s.rt.Global.Names() {
			v, _ := s.rt.Global.Lookup(name)
			fmt.Fprintf(s.out, "%s = %v\n", name, v)
		}
	case ".abstract":
		if len(fields) != 3 {
			fmt.Fprintln(s.out, "usage: .abstract NAME TOKENS")
			return
		}
		set, err := lang.ParseTokenSet(strings.Split(fields[2], ","))
		if err != nil {
			fmt.Fprintf(s.out, "error: %v\n", err)
			return
		}
		err = s.rt.SetAbstractEnv([]string{fields[1]}, []lang.Value{lang.AbstractSet(set)})
		if err != nil {
			fmt.Fprintf(s.out, "error: %v\n", err)
		}
	default:
		fmt.Fprintf(s.out, "unknown command %s (try .help)\n", fields[0])
	}
}
