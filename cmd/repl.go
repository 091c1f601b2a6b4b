package cmd

import (
	"github.com/majwic/lisp-abstract-interpreter/repl"
	"github.com/spf13/cobra"
)

// newReplCmd returns the repl command.
func newReplCmd() *cobra.Command {
	var historyFile string
	replCmd := &cobra.Command{
		Use:   "repl",
		Short: "Run an interactive session",
		Long: `Run an interactive read-eval-print loop.

Definitions persist for the whole session.  Type .help for session commands.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := newRuntime(getConfig(cmd.Context()), getLogger(cmd.Context()))
			if err != nil {
				return err
			}
			return repl.RunRepl(rt, repl.Options{
				HistoryFile: historyFile,
				Stdout:      cmd.OutOrStdout(),
				Stderr:      cmd.ErrOrStderr(),
			})
		},
	}
	replCmd.Flags().StringVar(&historyFile, "history", "", "File to keep input history in")
	return replCmd
}
