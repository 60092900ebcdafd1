package exec

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"unicode/utf8"

	"golang.org/x/sync/errgroup"
)

// Batch describes a set of invocations dispatched together: either an
// explicit per-invocation list, or a command set fanned out across a
// working-directory set.
type Batch struct {
	// Commands is the command set: one command, an ordered list, or an
	// argv matrix (several Argv commands). Ignored when Invocations is
	// set.
	Commands []Command

	// Dirs is the working-directory set. Empty means the current
	// directory only.
	Dirs []string

	// Parallel runs all invocations concurrently. The default runs them
	// strictly in declaration order, failing fast.
	Parallel bool

	// Names are explicit per-invocation labels. AutoNames derives labels
	// from each invocation's directory basename instead.
	Names     []string
	AutoNames bool

	// FixPrefixLength pads all labels to the longest so multiplexed
	// output columns align. Nil means true.
	FixPrefixLength *bool

	// Invocations is an explicit per-invocation list that bypasses
	// fan-out. Fields an invocation omits fall back to Defaults.
	Invocations []Options

	// Defaults are shared settings applied to every invocation.
	Defaults Options
}

// Many expands a batch into invocations and runs them. Sequential
// batches stop at the first failing invocation whose policy returns an
// error; parallel batches let every invocation run to completion and
// propagate the first failure only after all have settled. Results are
// returned in declaration order.
func (r *Runner) Many(ctx context.Context, b Batch) ([]*Result, error) {
	invs, err := r.expand(b)
	if err != nil {
		return nil, err
	}

	if b.Parallel {
		return r.runParallel(ctx, invs)
	}
	return r.runSequential(ctx, invs)
}

// ComposeMany returns a shell-joinable rendering of the whole batch for
// display and diagnostic purposes only. Sequential invocations join with
// && so each runs only if the previous succeeded; parallel invocations
// render as a call into the concurrently runner tool.
func (r *Runner) ComposeMany(b Batch) (string, error) {
	invs, err := r.expand(b)
	if err != nil {
		return "", err
	}

	parts := make([]string, 0, len(invs))
	names := make([]string, 0, len(invs))
	named := false
	for _, o := range invs {
		text, err := r.ComposeCommand(o)
		if err != nil {
			return "", err
		}
		if o.Dir != "" {
			text = "cd " + QuoteSingle(o.Dir) + " && " + text
		}
		parts = append(parts, text)

		name := strings.TrimRight(o.Prefix, " ")
		names = append(names, name)
		if name != "" {
			named = true
		}
	}

	if !b.Parallel {
		for i, p := range parts {
			if strings.HasPrefix(p, "cd ") {
				parts[i] = "(" + p + ")"
			}
		}
		return strings.Join(parts, " && "), nil
	}

	args := []string{"concurrently"}
	if named {
		args = append(args, "--names", strings.Join(names, ","))
	}
	if effectiveColors(r, b.Defaults) != ColorsOff {
		args = append(args, "--prefix-colors", "auto")
	}
	for _, p := range parts {
		args = append(args, QuoteDouble(p))
	}
	return strings.Join(args, " "), nil
}

// expand turns a batch into the ordered invocation list: the explicit
// list when given, otherwise the cross product of commands and
// directories in cwd-major order.
func (r *Runner) expand(b Batch) ([]Options, error) {
	var invs []Options

	if len(b.Invocations) > 0 {
		invs = make([]Options, 0, len(b.Invocations))
		for i, inv := range b.Invocations {
			o := mergeOptions(b.Defaults, inv)
			if o.Prefix == "" {
				o.Prefix = b.prefixAt(i, o.Dir, 0, 1)
			}
			invs = append(invs, o)
		}
	} else {
		if len(b.Commands) == 0 {
			return nil, fmt.Errorf("%w: batch has no commands", ErrInvalidArgument)
		}
		for _, cmd := range b.Commands {
			if cmd.IsZero() {
				return nil, fmt.Errorf("%w: batch contains an empty command", ErrInvalidArgument)
			}
		}

		dirs := b.Dirs
		if len(dirs) == 0 {
			dirs = []string{""}
		}

		invs = make([]Options, 0, len(dirs)*len(b.Commands))
		k := 0
		for _, dir := range dirs {
			for i, cmd := range b.Commands {
				o := b.Defaults
				o.Command = cmd
				o.Dir = dir
				if o.Prefix == "" {
					o.Prefix = b.prefixAt(k, dir, i, len(b.Commands))
				}
				invs = append(invs, o)
				k++
			}
		}
	}

	if b.FixPrefixLength == nil || *b.FixPrefixLength {
		alignPrefixes(invs)
	}

	return invs, nil
}

// prefixAt derives the display prefix for the k-th invocation: the
// explicit name when given, else the directory basename (suffixed with
// the command index when a directory runs more than one command) under
// AutoNames, else none.
func (b Batch) prefixAt(k int, dir string, cmdIdx, cmdCount int) string {
	if k < len(b.Names) {
		return b.Names[k]
	}
	if !b.AutoNames {
		return ""
	}

	base := dirBasename(dir)
	if cmdCount > 1 {
		return base + "." + strconv.Itoa(cmdIdx)
	}
	return base
}

// dirBasename labels a working directory, resolving the empty directory
// to the current one.
func dirBasename(dir string) string {
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "."
		}
		dir = wd
	}
	return filepath.Base(dir)
}

// alignPrefixes right-pads every prefix to the longest one, so that
// multiplexed output columns line up. No-op when no prefix is set.
func alignPrefixes(invs []Options) {
	longest := 0
	for _, o := range invs {
		if n := utf8.RuneCountInString(o.Prefix); n > longest {
			longest = n
		}
	}
	if longest == 0 {
		return
	}

	for i := range invs {
		pad := longest - utf8.RuneCountInString(invs[i].Prefix)
		invs[i].Prefix += strings.Repeat(" ", pad)
	}
}

func (r *Runner) runSequential(ctx context.Context, invs []Options) ([]*Result, error) {
	results := make([]*Result, 0, len(invs))
	for _, o := range invs {
		res, err := r.Run(ctx, o)
		if res != nil {
			results = append(results, res)
		}
		if err != nil {
			return results, err
		}
	}
	return results, nil
}

// runParallel starts every invocation concurrently. Failure of one
// invocation does not cancel its siblings; the first error surfaces only
// once all have settled.
func (r *Runner) runParallel(ctx context.Context, invs []Options) ([]*Result, error) {
	results := make([]*Result, len(invs))
	var g errgroup.Group

	for i, o := range invs {
		g.Go(func() error {
			res, err := r.Run(ctx, o)
			results[i] = res
			return err
		})
	}

	err := g.Wait()
	return results, err
}

// effectiveColors resolves the color policy a batch would run under.
func effectiveColors(r *Runner, defaults Options) Colors {
	if defaults.Colors != ColorsAuto {
		return defaults.Colors
	}
	return r.colors
}
