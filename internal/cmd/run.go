package cmd

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/jmgilman/runx/internal/exec"
	"github.com/jmgilman/runx/internal/slogger"
)

var runCmd = &cobra.Command{
	Use:   "run [flags] <command> | run [flags] -- <argv...>",
	Short: "Run a single command",
	Long: `Run one command with output capture.

A single argument is shell text run through /bin/sh. Arguments after --
form an argv vector spawned directly, with no shell interpretation.

By default output streams live while being captured (tee). Use --silent
to capture without streaming, --inherit to hand the terminal to the
command without capture, or --real-shell to run shell text inside your
interactive login shell so aliases and functions resolve.`,
	Example: `  # Shell text through /bin/sh
  runx run "npm run build && npm test"

  # Argv vector, no shell involved
  runx run -- npm test --silent

  # Capture only, report at the end
  runx run --silent "make lint"

  # Use an alias from your interactive shell
  runx run --real-shell "ll"

  # Label every output line
  runx run --prefix web "npm start"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runRunCmd,
}

// runFlags holds parsed flags for the run command.
type runFlags struct {
	dir         string
	timeout     time.Duration
	noThrow     bool
	preferLocal bool
	prefix      string
	env         map[string]string
	mode        exec.Mode
}

// parseRunFlags extracts and validates flags from the command.
func parseRunFlags(cmd *cobra.Command) (*runFlags, error) {
	dir, err := cmd.Flags().GetString("dir")
	if err != nil {
		return nil, fmt.Errorf("get dir flag: %w", err)
	}
	timeout, err := cmd.Flags().GetDuration("timeout")
	if err != nil {
		return nil, fmt.Errorf("get timeout flag: %w", err)
	}
	noThrow, err := cmd.Flags().GetBool("no-throw")
	if err != nil {
		return nil, fmt.Errorf("get no-throw flag: %w", err)
	}
	preferLocal, err := cmd.Flags().GetBool("prefer-local")
	if err != nil {
		return nil, fmt.Errorf("get prefer-local flag: %w", err)
	}
	prefix, err := cmd.Flags().GetString("prefix")
	if err != nil {
		return nil, fmt.Errorf("get prefix flag: %w", err)
	}
	env, err := parseEnvFlag(cmd)
	if err != nil {
		return nil, err
	}
	mode, err := parseModeFlags(cmd)
	if err != nil {
		return nil, err
	}

	return &runFlags{
		dir:         dir,
		timeout:     timeout,
		noThrow:     noThrow,
		preferLocal: preferLocal,
		prefix:      prefix,
		env:         env,
		mode:        mode,
	}, nil
}

func runRunCmd(cmd *cobra.Command, args []string) error {
	flags, err := parseRunFlags(cmd)
	if err != nil {
		return err
	}

	command, err := parseCommand(cmd, args)
	if err != nil {
		return err
	}
	if flags.mode == exec.RealShell && command.IsArgv() {
		return errors.New("--real-shell takes shell text, not an argv vector")
	}

	runner, closeLog, err := buildRunner(cmd)
	if err != nil {
		return err
	}
	defer closeLog() //nolint:errcheck // log file close failure is not actionable here

	opts := exec.Options{
		Command: command,
		Dir:     flags.dir,
		Mode:    flags.mode,
		Env:     flags.env,
		Timeout: flags.timeout,
		Prefix:  flags.prefix,
	}
	if flags.noThrow {
		opts.ThrowOnNonZero = exec.Bool(false)
	}
	if cmd.Flags().Changed("prefer-local") {
		opts.PreferLocal = exec.Bool(flags.preferLocal)
	}

	res, err := runner.Run(cmd.Context(), opts)
	if err != nil {
		return exitWithCode(err)
	}

	slogger.L(cmd.Context()).Info("command finished",
		"command", res.Command,
		"code", res.Code,
		"duration", res.Duration.Round(time.Millisecond),
	)

	// Under --no-throw a non-zero exit is reported through the exit
	// status without an error message.
	if res.Code != 0 {
		cmd.SilenceErrors = true
		return &ExitCodeError{Code: res.Code, Err: fmt.Errorf("exit status %d", res.Code)}
	}

	return nil
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringP("dir", "d", "", "working directory for the command")
	runCmd.Flags().Duration("timeout", 0, "kill the command after this duration")
	runCmd.Flags().Bool("no-throw", false, "report a non-zero exit through the exit status only")
	runCmd.Flags().Bool("prefer-local", false, "resolve executables from ./node_modules/.bin and ./bin first")
	runCmd.Flags().String("prefix", "", "label every forwarded output line")
	runCmd.Flags().StringArrayP("env", "e", nil, "set an environment variable (KEY=VALUE, repeatable)")
	runCmd.Flags().Bool("silent", false, "capture output without streaming it")
	runCmd.Flags().Bool("inherit", false, "pass the terminal through, capture nothing")
	runCmd.Flags().Bool("real-shell", false, "run shell text in your interactive login shell")
}
