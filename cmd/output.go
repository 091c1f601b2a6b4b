package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/majwic/lisp-abstract-interpreter/internal/config"
	"github.com/majwic/lisp-abstract-interpreter/lang"
)

// Result is the outcome of evaluating one program.
type Result struct {
	Source string   `json:"source"`
	Type   string   `json:"type"`
	Value  string   `json:"value,omitempty"`
	Tokens []string `json:"tokens,omitempty"`
	Error  string   `json:"error,omitempty"`
}

// NewResult describes the value v produced by the program named source.
func NewResult(source string, v lang.Value) Result {
	r := Result{Source: source, Type: v.Type.String()}
	switch v.Type {
	case lang.TError:
		r.Error = v.String()
	case lang.TAbstract:
		r.Value = v.String()
		r.Tokens = []string{}
		for _, t := range v.Tokens.Tokens() {
			r.Tokens = append(r.Tokens, t.String())
		}
	default:
		r.Value = v.String()
	}
	return r
}

// RenderResults writes results to w in the given output format.
func RenderResults(w io.Writer, format string, results []Result) error {
	switch format {
	case config.OutputJSON:
		return renderJSON(w, results)
	case config.OutputTable:
		return renderTable(w, results)
	default:
		return renderText(w, results)
	}
}

func renderText(w io.Writer, results []Result) error {
	for _, r := range results {
		var err error
		if r.Error != "" {
			_, err = fmt.Fprintf(w, "error: %s\n", r.Error)
		} else {
			_, err = fmt.Fprintln(w, r.Value)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func renderJSON(w io.Writer, results []Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(results)
}

func renderTable(w io.Writer, results []Result) error {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Source", "Type", "Value"})
	for _, r := range results {
		value := r.Value
		if r.Error != "" {
			value = r.Error
		}
		t.AppendRow(table.Row{r.Source, r.Type, value})
	}
	t.Render()
	return nil
}
