package cmd

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/jmgilman/runx/internal/exec"
	"github.com/jmgilman/runx/internal/slogger"
	"github.com/jmgilman/runx/internal/spinner"
	"github.com/jmgilman/runx/internal/taskfile"
)

var manyCmd = &cobra.Command{
	Use:   "many [flags] <command>...",
	Short: "Run a set of commands across a set of directories",
	Long: `Run every command in every directory, as the cross product of the
command set and the directory set.

Each positional argument is one shell command. Alternatively, --file
loads the command set from a YAML task file. By default invocations run
strictly in order and the batch stops at the first failure; --parallel
runs them all concurrently, lets each finish, and reports the first
failure only after all have settled.

Labels from --names (or derived from directory basenames with
--auto-names) prefix every output line, padded to a common width so the
columns align.`,
	Example: `  # Lint and test, stopping if lint fails
  runx many "npm run lint" "npm test"

  # The same commands in three packages, concurrently
  runx many -p -d pkg/a -d pkg/b -d pkg/c --auto-names "npm test"

  # Explicit labels
  runx many -p -n web,api "npm start" "go run ./cmd/api"

  # From a task file
  runx many -f tasks.yaml`,
	RunE: runManyCmd,
}

// manyFlags holds parsed flags for the many command.
type manyFlags struct {
	dirs      []string
	names     []string
	autoNames bool
	parallel  bool
	noAlign   bool
	file      string
	timeout   time.Duration
	noThrow   bool
	silent    bool
	env       map[string]string
}

func parseManyFlags(cmd *cobra.Command) (*manyFlags, error) {
	f := &manyFlags{}
	var err error
	if f.dirs, err = cmd.Flags().GetStringArray("dir"); err != nil {
		return nil, fmt.Errorf("get dir flag: %w", err)
	}
	if f.names, err = cmd.Flags().GetStringSlice("names"); err != nil {
		return nil, fmt.Errorf("get names flag: %w", err)
	}
	if f.autoNames, err = cmd.Flags().GetBool("auto-names"); err != nil {
		return nil, fmt.Errorf("get auto-names flag: %w", err)
	}
	if f.parallel, err = cmd.Flags().GetBool("parallel"); err != nil {
		return nil, fmt.Errorf("get parallel flag: %w", err)
	}
	if f.noAlign, err = cmd.Flags().GetBool("no-align"); err != nil {
		return nil, fmt.Errorf("get no-align flag: %w", err)
	}
	if f.file, err = cmd.Flags().GetString("file"); err != nil {
		return nil, fmt.Errorf("get file flag: %w", err)
	}
	// The execution flags are absent on print, which shares this parser.
	if cmd.Flags().Lookup("timeout") != nil {
		if f.timeout, err = cmd.Flags().GetDuration("timeout"); err != nil {
			return nil, fmt.Errorf("get timeout flag: %w", err)
		}
	}
	if cmd.Flags().Lookup("no-throw") != nil {
		if f.noThrow, err = cmd.Flags().GetBool("no-throw"); err != nil {
			return nil, fmt.Errorf("get no-throw flag: %w", err)
		}
	}
	if cmd.Flags().Lookup("silent") != nil {
		if f.silent, err = cmd.Flags().GetBool("silent"); err != nil {
			return nil, fmt.Errorf("get silent flag: %w", err)
		}
	}
	if cmd.Flags().Lookup("env") != nil {
		if f.env, err = parseEnvFlag(cmd); err != nil {
			return nil, err
		}
	}
	return f, nil
}

// buildBatch assembles the batch from flags and positional commands.
func buildBatch(cmd *cobra.Command, flags *manyFlags, args []string) (exec.Batch, error) {
	var batch exec.Batch

	switch {
	case flags.file != "":
		if len(args) > 0 {
			return batch, errors.New("--file and positional commands are mutually exclusive")
		}
		tf, err := taskfile.Load(flags.file)
		if err != nil {
			return batch, err
		}
		batch = tf.Batch()
	case len(args) > 0:
		commands := make([]exec.Command, 0, len(args))
		for _, a := range args {
			commands = append(commands, exec.Shell(a))
		}
		batch.Commands = commands
	default:
		return batch, errors.New("no commands given (pass commands or --file)")
	}

	batch.Dirs = flags.dirs
	batch.Names = flags.names
	batch.AutoNames = flags.autoNames
	if cmd.Flags().Changed("parallel") {
		batch.Parallel = flags.parallel
	}
	if flags.noAlign {
		batch.FixPrefixLength = exec.Bool(false)
	}

	batch.Defaults.Env = flags.env
	batch.Defaults.Timeout = flags.timeout
	if flags.silent {
		batch.Defaults.Mode = exec.Silent
	}
	if flags.noThrow {
		batch.Defaults.ThrowOnNonZero = exec.Bool(false)
	}

	return batch, nil
}

func runManyCmd(cmd *cobra.Command, args []string) error {
	flags, err := parseManyFlags(cmd)
	if err != nil {
		return err
	}

	batch, err := buildBatch(cmd, flags, args)
	if err != nil {
		return err
	}

	runner, closeLog, err := buildRunner(cmd)
	if err != nil {
		return err
	}
	defer closeLog() //nolint:errcheck // log file close failure is not actionable here

	var results []*exec.Result
	var runErr error
	if useProgress(flags) {
		results, runErr = runWithProgress(cmd, runner, batch)
	} else {
		results, runErr = runner.Many(cmd.Context(), batch)
	}

	reportResults(cmd, flags, results)

	if runErr != nil {
		return exitWithCode(runErr)
	}

	// no-throw failures still drive the exit status
	for _, res := range results {
		if res != nil && res.Code != 0 {
			cmd.SilenceErrors = true
			return &ExitCodeError{Code: res.Code, Err: fmt.Errorf("exit status %d", res.Code)}
		}
	}

	return nil
}

// useProgress decides whether silent runs get the in-place progress line.
func useProgress(flags *manyFlags) bool {
	return flags.silent && term.IsTerminal(int(os.Stderr.Fd()))
}

// runWithProgress runs the batch behind a single-line progress display
// instead of streaming, feeding it the per-command banner and outcome
// lines.
func runWithProgress(cmd *cobra.Command, runner *exec.Runner, batch exec.Batch) ([]*exec.Result, error) {
	progress := spinner.New(os.Stderr, batchSize(batch))

	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = progress.Start()
	}()

	batch.Defaults.Log = func(line string) {
		if isOutcomeLine(line) {
			progress.Step(line)
			return
		}
		fmt.Fprintln(progress.Writer(), line)
	}

	results, err := runner.Many(cmd.Context(), batch)

	progress.Stop()
	<-done

	return results, err
}

// batchSize counts the invocations a batch will expand to.
func batchSize(b exec.Batch) int {
	if len(b.Invocations) > 0 {
		return len(b.Invocations)
	}
	dirs := len(b.Dirs)
	if dirs == 0 {
		dirs = 1
	}
	return dirs * len(b.Commands)
}

// ansiSeq matches SGR escape sequences so styled lines can be inspected.
var ansiSeq = regexp.MustCompile(`\x1b\[[0-9;]*m`)

// isOutcomeLine reports whether a progress line marks a finished command
// rather than a starting one.
func isOutcomeLine(line string) bool {
	plain := ansiSeq.ReplaceAllString(line, "")
	if i := strings.Index(plain, "| "); i >= 0 {
		plain = plain[i+2:]
	}
	return strings.HasPrefix(plain, "✔") || strings.HasPrefix(plain, "✖")
}

// reportResults summarizes the batch. Silent runs print the captured
// output of failed invocations, since nothing was streamed.
func reportResults(cmd *cobra.Command, flags *manyFlags, results []*exec.Result) {
	failed := 0
	for _, res := range results {
		if res == nil {
			continue
		}
		if res.Code != 0 {
			failed++
			if flags.silent && res.Output != "" {
				fmt.Fprintf(os.Stderr, "--- output of %s (exit %d) ---\n%s", res.Command, res.Code, res.Output)
				if !strings.HasSuffix(res.Output, "\n") {
					fmt.Fprintln(os.Stderr)
				}
			}
		}
	}

	slogger.L(cmd.Context()).Info("batch finished",
		"invocations", len(results),
		"failed", failed,
	)
}

func init() {
	rootCmd.AddCommand(manyCmd)

	manyCmd.Flags().StringArrayP("dir", "d", nil, "working directory (repeatable, fans commands out across all)")
	manyCmd.Flags().StringSliceP("names", "n", nil, "comma-separated labels, one per invocation")
	manyCmd.Flags().Bool("auto-names", false, "derive labels from directory basenames")
	manyCmd.Flags().BoolP("parallel", "p", false, "run all invocations concurrently")
	manyCmd.Flags().Bool("no-align", false, "do not pad labels to a common width")
	manyCmd.Flags().StringP("file", "f", "", "load the command set from a YAML task file")
	manyCmd.Flags().Duration("timeout", 0, "kill each command after this duration")
	manyCmd.Flags().Bool("no-throw", false, "report non-zero exits through the exit status only")
	manyCmd.Flags().Bool("silent", false, "capture output without streaming it")
	manyCmd.Flags().StringArrayP("env", "e", nil, "set an environment variable (KEY=VALUE, repeatable)")
}
