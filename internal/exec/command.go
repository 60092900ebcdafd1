package exec

// Command is a single executable command in one of two shapes: a shell
// string, handed to a shell for interpretation, or an argv list, executed
// literally with no shell in between. The zero value is invalid.
type Command struct {
	shell string
	argv  []string
}

// Shell returns a Command that runs the given string through a shell.
// Pipes, redirects, and globs inside the string work as usual.
func Shell(command string) Command {
	return Command{shell: command}
}

// Argv returns a Command that executes args[0] directly with the remaining
// elements as literal, unexpanded arguments.
func Argv(args ...string) Command {
	return Command{argv: args}
}

// IsZero reports whether the command is empty.
func (c Command) IsZero() bool {
	return c.shell == "" && len(c.argv) == 0
}

// IsArgv reports whether the command is in argv form.
func (c Command) IsArgv() bool {
	return len(c.argv) > 0
}

// Args returns a copy of the argv list, or nil for shell commands.
func (c Command) Args() []string {
	if len(c.argv) == 0 {
		return nil
	}
	return append([]string(nil), c.argv...)
}

// String renders the human-readable command text. Argv elements are
// joined with spaces, quoting any element a shell would re-split, so the
// text preserves the original argument boundaries when evaluated.
func (c Command) String() string {
	if c.IsArgv() {
		return shellJoin(c.argv)
	}
	return c.shell
}
