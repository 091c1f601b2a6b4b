package repl

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"
	"github.com/majwic/lisp-abstract-interpreter/lang"
)

// Options controls the interactive loop.
type Options struct {
	Prompt      string
	HistoryFile string
	Stdout      io.Writer
	Stderr      io.Writer
}

// RunRepl runs an interactive loop evaluating input with rt until EOF or
// .quit.
func RunRepl(rt *lang.Runtime, opts Options) error {
	prompt := opts.Prompt
	if prompt == "" {
		prompt = "funclang> "
	}
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          prompt,
		HistoryFile:     opts.HistoryFile,
		AutoComplete:    newCompleter(),
		InterruptPrompt: "^C",
		EOFPrompt:       ".quit",
		Stdout:          opts.Stdout,
		Stderr:          opts.Stderr,
	})
	if err != nil {
		return fmt.Errorf("failed to start repl: %w", err)
	}
	defer func() { _ = rl.Close() }()

	contPrompt := strings.Repeat(" ", len(prompt)) // prompt had better be ascii...
	session := NewSession(rt, rl.Stdout())
	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			session.Reset()
			rl.SetPrompt(prompt)
			continue
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		if !session.Pending() {
			switch strings.TrimSpace(line) {
			case ".quit", ".exit":
				return nil
			}
		}
		if session.Feed([]byte(line)) {
			rl.SetPrompt(prompt)
		} else {
			rl.SetPrompt(contPrompt)
		}
	}
}

func newCompleter() *readline.PrefixCompleter {
	return readline.NewPrefixCompleter(
		readline.PcItem(".help"),
		readline.PcItem(".env"),
		readline.PcItem(".abstract"),
		readline.PcItem(".quit"),
	)
}
