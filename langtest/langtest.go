// Package langtest runs table driven funclang test suites.
package langtest

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/majwic/lisp-abstract-interpreter/lang"
	"github.com/majwic/lisp-abstract-interpreter/parser"
)

// Runner is a test runner.
type Runner struct {
	// Abstract inputs installed in every new runtime.
	Abstract map[string]lang.TokenSet
	// BaseDir is the directory read resolves file names against.  When
	// BaseDir is empty the working directory is used.
	BaseDir string
	// Logger receives runtime events.  When Logger is nil events are
	// discarded.
	Logger *slog.Logger
}

// NewRuntime returns a fresh runtime configured by r.
func (r *Runner) NewRuntime() (*lang.Runtime, error) {
	dir := r.BaseDir
	if dir == "" {
		dir = "."
	}
	configs := []lang.Config{
		lang.WithReader(parser.NewReader()),
		lang.WithFileReader(lang.DirFileReader(dir)),
		lang.WithAbstractBindings(r.Abstract),
	}
	if r.Logger != nil {
		configs = append(configs, lang.WithLogger(r.Logger))
	}
	rt, err := lang.NewRuntime(configs...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize runtime: %w", err)
	}
	return rt, nil
}

// TestSequence is a sequence of programs which are evaluated sequentially
// by one lang.Runtime.
type TestSequence []struct {
	Expr   string // a program
	Result string // the rendered result
}

// TestSuite is a set of named TestSequences
type TestSuite []struct {
	Name string
	TestSequence
}

// RunTestSuite runs each TestSequence in tests on isolated runtimes.
func RunTestSuite(t *testing.T, tests TestSuite) {
	(&Runner{}).RunTestSuite(t, tests)
}

// RunTestSuite runs each TestSequence in tests on isolated runtimes.
func (r *Runner) RunTestSuite(t *testing.T, tests TestSuite) {
	for i, test := range tests {
		rt, err := r.NewRuntime()
		if err != nil {
			t.Errorf("test %d %q: %v", i, test.Name, err)
			continue
		}
		for j, expr := range test.TestSequence {
			p, err := parser.ParseProgram(test.Name, []byte(expr.Expr))
			if err != nil {
				t.Errorf("test %d %q: expr %d: parse error: %v", i, test.Name, j, err)
				continue
			}
			result := rt.ValueOf(p).String()
			if result != expr.Result {
				t.Errorf("test %d %q: expr %d: expected result %s (got %s)", i, test.Name, j, expr.Result, result)
			}
		}
	}
}

// RunTestFile evaluates the program in path on a fresh runtime and checks
// that the rendering of its value is want.
func (r *Runner) RunTestFile(t *testing.T, path string, want string) {
	t.Helper()
	source, err := os.ReadFile(path)
	if err != nil {
		t.Errorf("Unable to read test file: %v", err)
		return
	}
	rt, err := r.NewRuntime()
	if err != nil {
		t.Error(err.Error())
		return
	}
	result := rt.LoadString(filepath.Base(path), string(source)).String()
	if result != want {
		t.Errorf("%s: expected result %s (got %s)", path, want, result)
	}
}
