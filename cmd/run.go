package cmd

import (
	"fmt"
	"os"

	"github.com/majwic/lisp-abstract-interpreter/lang"
	"github.com/spf13/cobra"
)

// newRunCmd returns the run command.
func newRunCmd() *cobra.Command {
	var (
		runExpression bool
		runPrint      bool
	)
	runCmd := &cobra.Command{
		Use:   "run [flags] FILE...",
		Short: "Run funclang programs",
		Long: `Run funclang programs supplied via the command line or files.

Every program is evaluated in the same global environment, in order, so
definitions made by one are visible to the next.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := getConfig(cmd.Context())
			sources, err := runReadSources(args, runExpression)
			if err != nil {
				return err
			}
			rt, err := newRuntime(cfg, getLogger(cmd.Context()))
			if err != nil {
				return err
			}

			results := make([]Result, len(sources))
			var (
				failed   int
				firstErr error
			)
			for i, src := range sources {
				v := rt.LoadString(src.name, string(src.text))
				results[i] = NewResult(src.name, v)
				if v.IsError() {
					if failed == 0 {
						firstErr = fmt.Errorf("%s: %w", src.name, lang.GoError(v))
					}
					failed++
				}
			}
			if runPrint {
				if err := RenderResults(cmd.OutOrStdout(), cfg.Output, results); err != nil {
					return err
				}
			} else {
				for _, r := range results {
					if r.Error != "" {
						fmt.Fprintf(cmd.ErrOrStderr(), "%s: %s\n", r.Source, r.Error)
					}
				}
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d programs failed: %w", failed, len(sources), firstErr)
			}
			return nil
		},
	}
	runCmd.Flags().BoolVarP(&runExpression, "expression", "e", false,
		"Interpret arguments as program text")
	runCmd.Flags().BoolVarP(&runPrint, "print", "p", false,
		"Print program values to stdout")
	runCmd.Flags().StringP("output", "o", "", "Output format (text|table|json)")
	_ = runCmd.RegisterFlagCompletionFunc("output", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"text", "table", "json"}, cobra.ShellCompDirectiveNoFileComp
	})
	return runCmd
}

type source struct {
	name string
	text []byte
}

func runReadSources(args []string, expression bool) ([]source, error) {
	sources := make([]source, len(args))
	if expression {
		for i := range args {
			sources[i] = source{name: fmt.Sprintf("expr%d", i+1), text: []byte(args[i])}
		}
		return sources, nil
	}
	for i, path := range args {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		sources[i] = source{name: path, text: b}
	}
	return sources, nil
}
