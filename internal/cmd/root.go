// Package cmd implements the runx CLI commands using Cobra.
// It provides commands for running single commands, dispatching command
// batches across working directories, and previewing composed command text.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jmgilman/runx/internal/config"
	"github.com/jmgilman/runx/internal/slogger"
)

var rootCmd = &cobra.Command{
	Use:   "runx",
	Short: "Run commands with captured, labeled output",
	Long: `Runx runs shell commands and argv vectors with output capture,
line-labeled multiplexing, and batch dispatch across working directories.

A single command streams its output live while capturing it for reporting.
A batch fans a command set out across a directory set, either strictly in
order (stopping at the first failure) or concurrently (letting every
command finish before reporting the first failure).`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		verbosity, err := cmd.Flags().GetCount("verbose")
		if err != nil {
			return fmt.Errorf("get verbose flag: %w", err)
		}
		logger := slogger.New(slogger.Config{Verbosity: verbosity})

		loader, err := newLoader(cmd)
		if err != nil {
			return err
		}

		cfg, err := loader.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		if err := cfg.Validate(); err != nil {
			// Leave the config commands reachable so the file can be fixed.
			logger.Warn("config validation failed", "error", err)
		}

		// Store dependencies in context for subcommands
		ctx := cmd.Context()
		ctx = slogger.WithLogger(ctx, logger)
		ctx = WithConfig(ctx, cfg)
		ctx = WithLoader(ctx, loader)
		cmd.SetContext(ctx)

		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

// newLoader builds the config loader, honoring the --config override.
func newLoader(cmd *cobra.Command) (*config.Loader, error) {
	path, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, fmt.Errorf("get config flag: %w", err)
	}
	if path != "" {
		return config.NewLoaderAt(path), nil
	}
	if env := os.Getenv("RUNX_CONFIG"); env != "" {
		return config.NewLoaderAt(env), nil
	}
	return config.NewLoader()
}

func init() {
	rootCmd.PersistentFlags().CountP("verbose", "v", "increase log verbosity (-v info, -vv debug)")
	rootCmd.PersistentFlags().String("config", "", "config file path (default ~/.config/runx/config.yaml)")
	rootCmd.PersistentFlags().String("colors", "", "color policy for child commands (auto, always, never)")
	rootCmd.PersistentFlags().String("log-file", "", "tee all command output to a log file")
}
