package lang

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
)

// Reader parses program text.  A Reader returns an error for malformed input
// and never returns a partial program.
type Reader interface {
	Read(name string, r io.Reader) (*Program, error)
}

// FileReader loads the contents of a named file for the read primitive.
type FileReader interface {
	ReadFile(name string) ([]byte, error)
}

// DirFileReader reads files relative to a base directory.  Absolute names
// are read as they are.
type DirFileReader string

// ReadFile implements FileReader.
func (dir DirFileReader) ReadFile(name string) ([]byte, error) {
	if !filepath.IsAbs(name) {
		name = filepath.Join(string(dir), name)
	}
	return os.ReadFile(name)
}

// Runtime evaluates programs.  The only state a Runtime mutates while
// evaluating is its GlobalEnv.
type Runtime struct {
	// Global holds top-level definitions.
	Global *GlobalEnv
	// Reader is used by the eval primitive and the Load methods.
	Reader Reader
	// Files is used by the read primitive.
	Files FileReader
	// Formatter renders expressions embedded in error messages.
	Formatter Formatter
	// Logger receives debug events about definitions and abstract
	// evaluation.
	Logger *slog.Logger
	// MaxDepth bounds the nesting depth of evaluation.  Zero means no bound.
	MaxDepth int
}

// Config is a function that configures a Runtime.
type Config func(rt *Runtime) error

// NewRuntime returns a Runtime with an empty global environment, configured
// by configs in order.
func NewRuntime(configs ...Config) (*Runtime, error) {
	rt := &Runtime{
		Global:    NewGlobalEnv(),
		Files:     DirFileReader("."),
		Formatter: DefaultFormatter,
		Logger:    slog.New(slog.DiscardHandler),
	}
	for _, config := range configs {
		if err := config(rt); err != nil {
			return nil, err
		}
	}
	return rt, nil
}

// WithReader returns a Config that makes the runtime use r to parse source
// text.  There is no default Reader.
func WithReader(r Reader) Config {
	return func(rt *Runtime) error {
		rt.Reader = r
		return nil
	}
}

// WithFileReader returns a Config that makes the read primitive use files.
func WithFileReader(files FileReader) Config {
	return func(rt *Runtime) error {
		rt.Files = files
		return nil
	}
}

// WithFormatter returns a Config that renders expressions in error messages
// with f.
func WithFormatter(f Formatter) Config {
	return func(rt *Runtime) error {
		rt.Formatter = f
		return nil
	}
}

// WithLogger returns a Config that sends runtime events to logger.
func WithLogger(logger *slog.Logger) Config {
	return func(rt *Runtime) error {
		if logger == nil {
			return fmt.Errorf("nil logger")
		}
		rt.Logger = logger
		return nil
	}
}

// WithGlobalEnv returns a Config that makes the runtime install definitions
// into env instead of a fresh environment.
func WithGlobalEnv(env *GlobalEnv) Config {
	return func(rt *Runtime) error {
		if env == nil {
			return fmt.Errorf("nil global environment")
		}
		rt.Global = env
		return nil
	}
}

// WithMaxDepth returns a Config that prevents evaluation from nesting deeper
// than n.  Exceeding the bound produces an error value.
func WithMaxDepth(n int) Config {
	return func(rt *Runtime) error {
		if n < 0 {
			return fmt.Errorf("negative maximum depth: %d", n)
		}
		rt.MaxDepth = n
		return nil
	}
}

// WithAbstractBindings returns a Config that installs an abstract value for
// each entry of bindings, in name order.
func WithAbstractBindings(bindings map[string]TokenSet) Config {
	return func(rt *Runtime) error {
		names := make([]string, 0, len(bindings))
		for name := range bindings {
			names = append(names, name)
		}
		sort.Strings(names)
		vals := make([]Value, len(names))
		for i, name := range names {
			vals[i] = AbstractSet(bindings[name])
		}
		return rt.SetAbstractEnv(names, vals)
	}
}

// SetAbstractEnv installs vals[i] under names[i] in the global environment.
// It is the way abstract inputs are given to a program.
func (rt *Runtime) SetAbstractEnv(names []string, vals []Value) error {
	if len(names) != len(vals) {
		return fmt.Errorf("abstract environment: %d names but %d values", len(names), len(vals))
	}
	for i := range names {
		rt.Global.Install(names[i], vals[i])
		rt.Logger.Debug("installed abstract input", "name", names[i], "value", vals[i].String())
	}
	return nil
}

// ValueOf evaluates the definitions of p in order, installing each into the
// global environment, then evaluates and returns the main expression.  A
// program without a main expression evaluates to unit.
func (rt *Runtime) ValueOf(p *Program) (v Value) {
	defer rt.recoverError(&v)
	return rt.evalProgram(p, 0)
}

// Eval evaluates e in env.
func (rt *Runtime) Eval(e *Expr, env Env) (v Value) {
	defer rt.recoverError(&v)
	return rt.eval(e, env, 0)
}

// LoadString parses and evaluates the program src.  A syntax error is
// returned as an error value.
func (rt *Runtime) LoadString(name, src string) Value {
	return rt.Load(name, bytes.NewReader([]byte(src)))
}

// Load parses a program read from r and evaluates it.
func (rt *Runtime) Load(name string, r io.Reader) Value {
	if rt.Reader == nil {
		return Errorf("no reader configured")
	}
	p, err := rt.Reader.Read(name, r)
	if err != nil {
		return Error(err)
	}
	return rt.ValueOf(p)
}

// recoverError converts a panic escaping evaluation into an error value so
// that no failure aborts the host process.
func (rt *Runtime) recoverError(v *Value) {
	r := recover()
	if r == nil {
		return
	}
	rt.Logger.Error("recovered from evaluation fault", "panic", fmt.Sprint(r))
	*v = Errorf("%v", r)
}
