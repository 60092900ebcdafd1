package exec

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	osexec "os/exec"
	"sync"
	"time"
)

// execute runs one normalized options record to completion.
func (r *Runner) execute(ctx context.Context, o Options) (*Result, error) {
	composed := r.composeCommand(o.Command)
	display := composed.String()

	o.Log(banner(o, display))

	if o.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.Timeout)
		defer cancel()
	}

	var name string
	var args []string
	if o.Mode == RealShell {
		name, args = loginShellArgs(display)
	} else {
		name, args = spawnArgs(composed)
		if composed.IsArgv() && *o.PreferLocal {
			name = resolveLocalExecutable(o.Dir, name)
		}
	}

	//nolint:gosec // G204: running caller-specified commands is the point.
	cmd := osexec.CommandContext(ctx, name, args...)
	cmd.Dir = o.Dir
	cmd.Env = composeEnv(os.Environ(), o.Env, o)
	if o.Timeout > 0 {
		// Don't let slow pipe drains extend a timed-out child's Wait.
		cmd.WaitDelay = time.Second
	}

	var stdout, stderr, combined syncBuffer
	var flush func()

	switch o.Mode {
	case Inherit, RealShell:
		cmd.Stdin = r.stdin
		cmd.Stdout = r.stdout
		cmd.Stderr = r.stderr
	case Silent:
		cmd.Stdout = io.MultiWriter(&stdout, &combined)
		cmd.Stderr = io.MultiWriter(&stderr, &combined)
	default: // Tee
		cmd.Stdin = r.stdin
		label := styledLabel(o)
		mu := &sync.Mutex{}
		outLines := newPrefixWriter(r.stdout, mu, label)
		errLines := newPrefixWriter(r.stderr, mu, label)
		cmd.Stdout = io.MultiWriter(&stdout, &combined, outLines)
		cmd.Stderr = io.MultiWriter(&stderr, &combined, errLines)
		flush = func() {
			_ = outLines.Close()
			_ = errLines.Close()
		}
	}

	start := time.Now()
	err := cmd.Run()
	duration := time.Since(start)

	if flush != nil {
		flush()
	}

	if err != nil {
		var exitErr *osexec.ExitError
		if !errors.As(err, &exitErr) {
			spawnErr := &SpawnError{Command: display, Err: err}
			o.Log(failureLine(o, spawnErr.Error(), duration))
			return nil, spawnErr
		}
	}

	result := &Result{
		Cwd:      o.Dir,
		Command:  display,
		Code:     cmd.ProcessState.ExitCode(),
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		Output:   combined.String(),
		Duration: duration,
	}

	if result.Code == 0 {
		o.Log(successLine(o, duration))
		return result, nil
	}

	// The failure is logged even when the caller's policy suppresses the
	// error, so a swallowed result is never invisible.
	cause := ctx.Err()
	o.Log(failureLine(o, fmt.Sprintf("exit code %d", result.Code), duration))

	if *o.ThrowOnNonZero {
		return result, &CommandError{
			Command: display,
			Dir:     o.Dir,
			Code:    result.Code,
			Stderr:  result.Stderr,
			Err:     cause,
		}
	}
	return result, nil
}

func banner(o Options, display string) string {
	line := bannerStyle.Render(glyphRun + " " + display)
	if o.Dir != "" {
		line += dimStyle.Render(" (in " + o.Dir + ")")
	}
	return prefixed(o, line)
}

func successLine(o Options, d time.Duration) string {
	return prefixed(o, successStyle.Render(glyphOK)+dimStyle.Render(" done in "+d.Round(time.Millisecond).String()))
}

func failureLine(o Options, detail string, d time.Duration) string {
	return prefixed(o, failureStyle.Render(glyphFail+" "+detail)+dimStyle.Render(" after "+d.Round(time.Millisecond).String()))
}

func prefixed(o Options, line string) string {
	if o.Prefix == "" {
		return line
	}
	return styledLabel(o) + line
}
