package exec

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/jmgilman/runx/internal/envmap"
)

// defaultPrefixSeparator sits between a prefix and the output line.
const defaultPrefixSeparator = " | "

// Runner holds process-wide execution defaults. A Runner is immutable
// after New returns and may be shared across concurrent invocations.
type Runner struct {
	mode           Mode
	colors         Colors
	env            map[string]string
	throwOnNonZero bool
	preferLocal    bool
	prefixSep      string
	commandPrefix  Command
	commandWrapper string
	normalizeDir   func(dir string) string
	log            Log
	stdin          io.Reader
	stdout         io.Writer
	stderr         io.Writer
}

// Option configures a Runner at creation time.
type Option func(*Runner)

// WithMode sets the default interaction mode. The zero default is Tee.
func WithMode(m Mode) Option {
	return func(r *Runner) { r.mode = m }
}

// WithColors sets the default color policy.
func WithColors(c Colors) Option {
	return func(r *Runner) { r.colors = c }
}

// WithEnv sets the Runner-level environment overlay.
func WithEnv(env map[string]string) Option {
	return func(r *Runner) { r.env = envmap.Overlay(r.env, env) }
}

// WithThrowOnNonZero sets whether non-zero exits are returned as errors
// by default. The default is true.
func WithThrowOnNonZero(v bool) Option {
	return func(r *Runner) { r.throwOnNonZero = v }
}

// WithPreferLocal resolves executables from project-local bin directories
// ahead of PATH by default.
func WithPreferLocal(v bool) Option {
	return func(r *Runner) { r.preferLocal = v }
}

// WithPrefixSeparator sets the string between a prefix and the line.
func WithPrefixSeparator(sep string) Option {
	return func(r *Runner) { r.prefixSep = sep }
}

// WithCommandPrefix prepends a command or argv fragment to every command
// before execution (e.g. Argv("ssh", "build-host")).
func WithCommandPrefix(prefix Command) Option {
	return func(r *Runner) { r.commandPrefix = prefix }
}

// WithCommandWrapper wraps every command in a template before execution.
// The template's WrapperEscaped placeholder is replaced by the
// shell-escaped command text, WrapperRaw by the unescaped text; a
// template with neither placeholder acts as one more prefix.
func WithCommandWrapper(template string) Option {
	return func(r *Runner) { r.commandWrapper = template }
}

// WithDirNormalizer sets the function applied to every working directory
// before execution (e.g. to resolve against a project root).
func WithDirNormalizer(fn func(dir string) string) Option {
	return func(r *Runner) { r.normalizeDir = fn }
}

// WithLog sets the default progress sink.
func WithLog(log Log) Option {
	return func(r *Runner) { r.log = log }
}

// WithStdin sets the reader handed to children in Tee and Inherit modes.
func WithStdin(in io.Reader) Option {
	return func(r *Runner) { r.stdin = in }
}

// WithStdout sets the writer that receives forwarded stdout lines.
func WithStdout(w io.Writer) Option {
	return func(r *Runner) { r.stdout = w }
}

// WithStderr sets the writer that receives forwarded stderr lines.
func WithStderr(w io.Writer) Option {
	return func(r *Runner) { r.stderr = w }
}

// New creates a Runner with the given defaults.
func New(opts ...Option) *Runner {
	r := &Runner{
		mode:           Tee,
		throwOnNonZero: true,
		prefixSep:      defaultPrefixSeparator,
		normalizeDir:   func(dir string) string { return dir },
		stdin:          os.Stdin,
		stdout:         os.Stdout,
		stderr:         os.Stderr,
	}

	for _, opt := range opts {
		opt(r)
	}

	if r.log == nil {
		r.log = LogTo(r.stderr)
	}

	return r
}

// Run executes one canonical options record and returns its result.
// It fails with ErrInvalidArgument before spawning when the record has no
// command, with *CommandError on a non-zero exit under the ThrowOnNonZero
// policy, and with *SpawnError when the process could not start.
func (r *Runner) Run(ctx context.Context, opts Options) (*Result, error) {
	opts, err := r.normalize(opts)
	if err != nil {
		return nil, err
	}
	return r.execute(ctx, opts)
}

// One executes a single command. Later option records merge into earlier
// ones field by field, but the positional command always wins over a
// Command field set inside an options record.
func (r *Runner) One(ctx context.Context, cmd Command, opts ...Options) (*Result, error) {
	merged := mergeAll(opts)
	merged.Command = cmd
	return r.Run(ctx, merged)
}

// OneIn executes a single command in the given working directory. The
// positional command and directory win over fields set inside an options
// record.
func (r *Runner) OneIn(ctx context.Context, cmd Command, dir string, opts ...Options) (*Result, error) {
	merged := mergeAll(opts)
	merged.Command = cmd
	merged.Dir = dir
	return r.Run(ctx, merged)
}

// normalize fills Runner defaults into unset fields. Normalizing an
// already-normalized record is a no-op.
func (r *Runner) normalize(o Options) (Options, error) {
	if o.Command.IsZero() {
		return o, fmt.Errorf("%w: no command given", ErrInvalidArgument)
	}

	if o.Mode == ModeDefault {
		o.Mode = r.mode
	}
	if o.Colors == ColorsAuto {
		o.Colors = r.colors
	}
	if o.ThrowOnNonZero == nil {
		v := r.throwOnNonZero
		o.ThrowOnNonZero = &v
	}
	if o.PreferLocal == nil {
		v := r.preferLocal
		o.PreferLocal = &v
	}
	if len(r.env) > 0 {
		o.Env = envmap.Overlay(r.env, o.Env)
	}
	if o.Prefix != "" && o.PrefixSuffix == "" {
		o.PrefixSuffix = r.prefixSep
	}
	if o.Log == nil {
		o.Log = r.log
	}
	o.Dir = r.normalizeDir(o.Dir)

	return o, nil
}

// mergeOptions overlays over onto base: any field explicitly set in over
// replaces the base value, and env maps merge key-wise.
func mergeOptions(base, over Options) Options {
	out := base

	if !over.Command.IsZero() {
		out.Command = over.Command
	}
	if over.Dir != "" {
		out.Dir = over.Dir
	}
	if over.Mode != ModeDefault {
		out.Mode = over.Mode
	}
	if len(over.Env) > 0 {
		out.Env = envmap.Overlay(base.Env, over.Env)
	}
	if over.Timeout != 0 {
		out.Timeout = over.Timeout
	}
	if over.ThrowOnNonZero != nil {
		out.ThrowOnNonZero = over.ThrowOnNonZero
	}
	if over.PreferLocal != nil {
		out.PreferLocal = over.PreferLocal
	}
	if over.Prefix != "" {
		out.Prefix = over.Prefix
	}
	if over.PrefixSuffix != "" {
		out.PrefixSuffix = over.PrefixSuffix
	}
	if over.Colors != ColorsAuto {
		out.Colors = over.Colors
	}
	if over.Log != nil {
		out.Log = over.Log
	}

	return out
}

func mergeAll(opts []Options) Options {
	var out Options
	for _, o := range opts {
		out = mergeOptions(out, o)
	}
	return out
}
