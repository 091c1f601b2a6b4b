// Package cmd implements the funclang command line.
package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/majwic/lisp-abstract-interpreter/internal/config"
	"github.com/majwic/lisp-abstract-interpreter/lang"
	"github.com/majwic/lisp-abstract-interpreter/parser"
	"github.com/spf13/cobra"
)

// Version information (set at build time).
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
)

// configKey is used to store config in context.
type configKey struct{}

// loggerKey is used to store the logger in context.
type loggerKey struct{}

// NewRootCmd creates and returns the root command.
func NewRootCmd() *cobra.Command {
	var cfgFile string
	rootCmd := &cobra.Command{
		Use:   "funclang",
		Short: "Evaluate funclang programs concretely or over abstract inputs",
		Long: `funclang evaluates programs in a small functional language.

Inputs may be bound to abstract values, sets of sign, boolean and error
tokens, in which case evaluation over-approximates every outcome the program
could have.`,
		Version: Version,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Name() == "help" || cmd.Name() == "completion" || cmd.Name() == "__complete" {
				return nil
			}
			cfg, err := config.Load(cfgFile, cmd.Flags())
			if err != nil {
				return err
			}
			logger, err := config.NewLogger(cmd.ErrOrStderr(), cfg.LogLevel)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			ctx = context.WithValue(ctx, configKey{}, cfg)
			ctx = context.WithValue(ctx, loggerKey{}, logger)
			cmd.SetContext(ctx)
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./funclang.yaml)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level (debug|info|warn|error)")
	rootCmd.PersistentFlags().String("base-dir", "", "Directory that read resolves relative file names against")
	rootCmd.PersistentFlags().Int("max-depth", 0, "Maximum evaluation depth (0 for no limit)")
	rootCmd.PersistentFlags().String("abstract-file", "", "YAML file binding input names to abstract values")
	rootCmd.PersistentFlags().StringArray(config.AbstractFlag, nil, "Bind an abstract input, e.g. --abstract x=NumPos,NumZero")

	rootCmd.AddCommand(newRunCmd())
	rootCmd.AddCommand(newReplCmd())
	rootCmd.AddCommand(newVersionCmd())
	return rootCmd
}

// Execute runs the root command.
func Execute() error {
	rootCmd := NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	return nil
}

// getConfig retrieves the config from the command context.
func getConfig(ctx context.Context) *config.Config {
	if ctx != nil {
		if c, ok := ctx.Value(configKey{}).(*config.Config); ok {
			return c
		}
	}
	return config.Default()
}

// getLogger retrieves the logger from the command context.
func getLogger(ctx context.Context) *slog.Logger {
	if ctx != nil {
		if l, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok {
			return l
		}
	}
	return slog.New(slog.DiscardHandler)
}

// newRuntime builds a runtime from the command configuration.
func newRuntime(cfg *config.Config, logger *slog.Logger) (*lang.Runtime, error) {
	bindings, err := cfg.Bindings()
	if err != nil {
		return nil, err
	}
	return lang.NewRuntime(
		lang.WithReader(parser.NewReader()),
		lang.WithFileReader(lang.DirFileReader(cfg.BaseDir)),
		lang.WithLogger(logger),
		lang.WithMaxDepth(cfg.MaxDepth),
		lang.WithAbstractBindings(bindings),
	)
}
