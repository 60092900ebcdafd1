package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jmgilman/runx/internal/exec"
)

var printCmd = &cobra.Command{
	Use:   "print [flags] <command>...",
	Short: "Print the composed command text without running it",
	Long: `Print what would run, after applying the configured command prefix
and wrapper, without executing anything.

A single command prints its composed shell text. Several commands, or a
directory set, print the equivalent one-line shell rendering of the
whole batch: sequential invocations join with &&, parallel ones render
as a concurrently invocation.`,
	Example: `  # Composed single command
  runx print "npm test"

  # Batch rendering across directories
  runx print -d pkg/a -d pkg/b "npm test"

  # Parallel rendering with labels
  runx print -p -n web,api "npm start" "go run ./cmd/api"`,
	RunE: runPrintCmd,
}

func runPrintCmd(cmd *cobra.Command, args []string) error {
	flags, err := parseManyFlags(cmd)
	if err != nil {
		return err
	}

	runner, closeLog, err := buildRunner(cmd, exec.WithLog(exec.Discard))
	if err != nil {
		return err
	}
	defer closeLog() //nolint:errcheck // log file close failure is not actionable here

	// One command in at most one directory composes directly; anything
	// more renders as a batch.
	if flags.file == "" && len(args) == 1 && len(flags.dirs) <= 1 && !flags.parallel {
		command, err := parseCommand(cmd, args)
		if err != nil {
			return err
		}
		opts := exec.Options{Command: command}
		if len(flags.dirs) == 1 {
			opts.Dir = flags.dirs[0]
		}
		text, err := runner.ComposeCommand(opts)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), text)
		return nil
	}

	batch, err := buildBatch(cmd, flags, args)
	if err != nil {
		return err
	}

	text, err := runner.ComposeMany(batch)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), text)
	return nil
}

func init() {
	rootCmd.AddCommand(printCmd)

	printCmd.Flags().StringArrayP("dir", "d", nil, "working directory (repeatable, fans commands out across all)")
	printCmd.Flags().StringSliceP("names", "n", nil, "comma-separated labels, one per invocation")
	printCmd.Flags().Bool("auto-names", false, "derive labels from directory basenames")
	printCmd.Flags().BoolP("parallel", "p", false, "render as a concurrent batch")
	printCmd.Flags().Bool("no-align", false, "do not pad labels to a common width")
	printCmd.Flags().StringP("file", "f", "", "load the command set from a YAML task file")
}
