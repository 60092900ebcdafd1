package exec

import (
	"fmt"
	"time"
)

// Mode selects how the child process's stdio is wired.
type Mode int

const (
	// ModeDefault falls back to the Runner's configured default mode.
	ModeDefault Mode = iota

	// Tee inherits stdin and pipes stdout/stderr, capturing every chunk
	// while forwarding whole, prefixed lines to the terminal.
	Tee

	// Inherit connects the child's stdio directly to the parent's.
	// Nothing is captured.
	Inherit

	// Silent pipes stdout/stderr for capture only; nothing is forwarded.
	Silent

	// RealShell runs the command in the user's interactive login shell
	// with inherited stdio. Nothing is captured.
	RealShell
)

// String returns the mode name.
func (m Mode) String() string {
	switch m {
	case Tee:
		return "tee"
	case Inherit:
		return "inherit"
	case Silent:
		return "silent"
	case RealShell:
		return "real-shell"
	default:
		return "default"
	}
}

// ParseMode converts a mode name from configuration or flags.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "", "default":
		return ModeDefault, nil
	case "tee":
		return Tee, nil
	case "inherit":
		return Inherit, nil
	case "silent":
		return Silent, nil
	case "real-shell":
		return RealShell, nil
	default:
		return ModeDefault, fmt.Errorf("%w: unknown mode %q", ErrInvalidArgument, s)
	}
}

// Colors is the tri-state color policy applied to the child environment.
type Colors int

const (
	// ColorsAuto leaves inherited color variables untouched.
	ColorsAuto Colors = iota

	// ColorsOn forces ANSI color variables on and unsets NO_COLOR.
	ColorsOn

	// ColorsOff forces color variables off (NO_COLOR=1, TERM=dumb, ...).
	ColorsOff
)

// ParseColors converts a color policy name from configuration or flags.
func ParseColors(s string) (Colors, error) {
	switch s {
	case "", "auto":
		return ColorsAuto, nil
	case "always", "on":
		return ColorsOn, nil
	case "never", "off":
		return ColorsOff, nil
	default:
		return ColorsAuto, fmt.Errorf("%w: unknown color policy %q", ErrInvalidArgument, s)
	}
}

// String returns the policy name.
func (c Colors) String() string {
	switch c {
	case ColorsOn:
		return "always"
	case ColorsOff:
		return "never"
	default:
		return "auto"
	}
}

// Log is a sink for human-readable progress lines (command banner,
// success/failure glyph). Each call receives one whole line without a
// trailing newline.
type Log func(line string)

// Discard is a Log sink that drops all progress output.
func Discard(string) {}

// Options is the canonical per-invocation record. Zero-valued fields fall
// back to the Runner's defaults during normalization.
type Options struct {
	// Command is the command to run. Required.
	Command Command

	// Dir is the working directory. Empty means the current directory.
	Dir string

	// Mode is the interaction mode.
	Mode Mode

	// Env is an environment overlay applied on top of the inherited
	// process environment and the Runner's overlay.
	Env map[string]string

	// Timeout terminates the child if it has not exited in time. The
	// resulting non-zero exit is subject to the ThrowOnNonZero policy.
	Timeout time.Duration

	// ThrowOnNonZero controls whether a non-zero exit is returned as an
	// error. Nil falls back to the Runner default (true).
	ThrowOnNonZero *bool

	// PreferLocal resolves executables from project-local bin
	// directories ahead of PATH.
	PreferLocal *bool

	// Prefix labels every forwarded output line in Tee mode.
	Prefix string

	// PrefixSuffix separates the prefix from the line. Defaults to the
	// Runner's prefix separator when a prefix is set.
	PrefixSuffix string

	// Colors is the color policy for the child environment.
	Colors Colors

	// Log receives progress lines. Nil falls back to the Runner's sink;
	// use Discard to silence.
	Log Log
}

// Result describes one completed invocation. It is created only after the
// child has fully exited (or timed out) and is immutable once returned.
type Result struct {
	// Cwd is the working directory the command ran in.
	Cwd string

	// Command is the final, composed, human-readable command text.
	Command string

	// Code is the exit status. -1 when the process was terminated.
	Code int

	// Stdout and Stderr hold the per-stream captures. Empty in Inherit
	// and RealShell modes.
	Stdout string
	Stderr string

	// Output interleaves both streams in arrival order.
	Output string

	// Duration is the wall-clock time from spawn to exit.
	Duration time.Duration
}

// Bool returns a pointer to v, for the optional bool fields of Options.
func Bool(v bool) *bool {
	return &v
}
