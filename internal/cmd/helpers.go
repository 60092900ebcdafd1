package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jmgilman/runx/internal/envmap"
	"github.com/jmgilman/runx/internal/exec"
	"github.com/jmgilman/runx/internal/logging"
)

// ExitCodeError carries a specific process exit code up to main.
type ExitCodeError struct {
	Code int
	Err  error
}

func (e *ExitCodeError) Error() string {
	return e.Err.Error()
}

func (e *ExitCodeError) Unwrap() error {
	return e.Err
}

// exitWithCode maps execution failures onto the CLI exit status: a failed
// command exits with the child's code, everything else with 1.
func exitWithCode(err error) error {
	if err == nil {
		return nil
	}
	var cmdErr *exec.CommandError
	if errors.As(err, &cmdErr) && cmdErr.Code > 0 {
		return &ExitCodeError{Code: cmdErr.Code, Err: err}
	}
	return err
}

// buildRunner constructs an executor from the loaded config plus the
// global flag overrides. The returned closer releases the log file tee,
// if any; it is always safe to call.
func buildRunner(cmd *cobra.Command, extra ...exec.Option) (*exec.Runner, func() error, error) {
	noClose := func() error { return nil }

	var opts []exec.Option
	if cfg := ConfigFromContext(cmd.Context()); cfg != nil {
		cfgOpts, err := cfg.RunnerOptions()
		if err != nil {
			return nil, noClose, err
		}
		opts = cfgOpts
	}

	if colorsFlag, err := cmd.Flags().GetString("colors"); err == nil && colorsFlag != "" {
		colors, err := exec.ParseColors(colorsFlag)
		if err != nil {
			return nil, noClose, err
		}
		opts = append(opts, exec.WithColors(colors))
	}

	closer := noClose
	if logPath, err := cmd.Flags().GetString("log-file"); err == nil && logPath != "" {
		writers, err := logging.NewOutputWriters(os.Stdout, os.Stderr, logPath)
		if err != nil {
			return nil, noClose, fmt.Errorf("open log file: %w", err)
		}
		opts = append(opts,
			exec.WithStdout(writers.Stdout),
			exec.WithStderr(writers.Stderr),
			exec.WithLog(exec.LogTo(writers.Stderr)),
		)
		closer = writers.Close
	}

	opts = append(opts, extra...)

	return exec.New(opts...), closer, nil
}

// parseModeFlags resolves the mutually exclusive mode flags registered on
// run-style commands. ModeDefault means no flag was set.
func parseModeFlags(cmd *cobra.Command) (exec.Mode, error) {
	var mode exec.Mode
	set := 0
	for _, f := range []struct {
		name string
		mode exec.Mode
	}{
		{"silent", exec.Silent},
		{"inherit", exec.Inherit},
		{"real-shell", exec.RealShell},
	} {
		on, err := cmd.Flags().GetBool(f.name)
		if err != nil {
			continue
		}
		if on {
			mode = f.mode
			set++
		}
	}
	if set > 1 {
		return exec.ModeDefault, errors.New("--silent, --inherit, and --real-shell are mutually exclusive")
	}
	return mode, nil
}

// parseCommand extracts the command from positional arguments. Arguments
// after -- form an argv vector run without a shell; a single argument
// before it is shell text.
func parseCommand(cmd *cobra.Command, args []string) (exec.Command, error) {
	dash := cmd.ArgsLenAtDash()
	if dash >= 0 {
		if dash > 0 {
			return exec.Command{}, fmt.Errorf("unexpected arguments before --: %v", args[:dash])
		}
		if len(args) == 0 {
			return exec.Command{}, errors.New("no command given after --")
		}
		return exec.Argv(args...), nil
	}

	switch len(args) {
	case 0:
		return exec.Command{}, errors.New("no command given")
	case 1:
		return exec.Shell(args[0]), nil
	default:
		return exec.Argv(args...), nil
	}
}

// parseEnvFlag converts the repeated --env KEY=VALUE flag into a map.
func parseEnvFlag(cmd *cobra.Command) (map[string]string, error) {
	entries, err := cmd.Flags().GetStringArray("env")
	if err != nil {
		return nil, fmt.Errorf("get env flag: %w", err)
	}
	if len(entries) == 0 {
		return nil, nil
	}
	return envmap.Parse(entries)
}
