package exec

import (
	"regexp"
	"strings"
)

// Wrapper template placeholders.
const (
	// WrapperEscaped is replaced by the shell-escaped command text,
	// safe for embedding inside a wrapper that double-quotes it.
	WrapperEscaped = "{escaped}"

	// WrapperRaw is replaced by the command text with no escaping.
	WrapperRaw = "{raw}"
)

// composeCommand applies the Runner's command prefix and wrapper to a raw
// command, producing the command that is actually spawned.
func (r *Runner) composeCommand(cmd Command) Command {
	out := cmd

	if p := r.commandPrefix; !p.IsZero() {
		switch {
		case p.IsArgv() && out.IsArgv():
			out = Argv(append(p.Args(), out.argv...)...)
		case p.IsArgv():
			// Stay in the prefix's argv shape; the shell string becomes
			// one literal argument (e.g. ssh host "echo hi").
			out = Argv(append(p.Args(), out.shell)...)
		default:
			out = Shell(p.String() + " " + out.String())
		}
	}

	if w := r.commandWrapper; w != "" {
		joined := out.String()
		switch {
		case strings.Contains(w, WrapperEscaped):
			out = Shell(strings.ReplaceAll(w, WrapperEscaped, QuoteDouble(joined)))
		case strings.Contains(w, WrapperRaw):
			out = Shell(strings.ReplaceAll(w, WrapperRaw, joined))
		default:
			// No placeholder: the wrapper acts as one more prefix.
			out = Shell(w + " " + joined)
		}
	}

	return out
}

// ComposeCommand returns the fully composed command text for a record
// without executing it, for dry-run and diagnostic use.
func (r *Runner) ComposeCommand(opts Options) (string, error) {
	opts, err := r.normalize(opts)
	if err != nil {
		return "", err
	}
	return r.composeCommand(opts.Command).String(), nil
}

// QuoteDouble wraps s in double quotes, backslash-escaping the characters
// the shell still interprets inside them: backslash, double quote, dollar,
// and backtick. A shell evaluating the result sees the original argument
// boundaries.
func QuoteDouble(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 2)
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '\\', '"', '$', '`':
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	b.WriteByte('"')
	return b.String()
}

// safeArg matches argument text no shell would re-split or expand.
var safeArg = regexp.MustCompile(`^[A-Za-z0-9_@%+=:,./-]+$`)

// shellJoin joins argv elements with spaces, single-quoting any element
// that contains characters a shell would interpret.
func shellJoin(args []string) string {
	quoted := make([]string, len(args))
	for i, a := range args {
		if safeArg.MatchString(a) {
			quoted[i] = a
		} else {
			quoted[i] = QuoteSingle(a)
		}
	}
	return strings.Join(quoted, " ")
}

// QuoteSingle wraps s in single quotes. Single quotes prevent all shell
// interpretation except for single quotes themselves, which are handled
// by closing the quoted string, emitting an escaped quote, and reopening:
// 'foo'\''bar' -> foo'bar.
func QuoteSingle(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
