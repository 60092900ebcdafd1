// Package exec runs one or many external commands with output capture,
// live tee output, prefixed multiplexing, and structured results.
//
// The package wraps os/exec with the Runner type. A Runner holds
// process-wide defaults (interaction mode, color policy, environment
// overlay, command prefix and wrapper) and is safe to share across
// concurrent executions; per-call settings always override Runner
// defaults.
//
// # Basic Usage
//
// Create a runner and execute a command:
//
//	r := exec.New()
//	result, err := r.One(ctx, exec.Shell("echo hello"))
//	if err != nil {
//		log.Fatal(err)
//	}
//	fmt.Println(result.Stdout) // "hello\n"
//
// Shell commands are passed to a shell, so pipes and redirects work.
// Argv commands bypass the shell entirely and pass arguments literally:
//
//	result, err := r.One(ctx, exec.Argv("grep", "-r", "TODO", "."))
//
// # Interaction Modes
//
// Four modes control how the child's stdio is wired:
//
//   - Tee (default): stdin is inherited, stdout/stderr are captured and
//     simultaneously forwarded line-by-line with an optional prefix.
//   - Silent: output is captured only, nothing reaches the terminal.
//   - Inherit: the child talks to the terminal directly; nothing is
//     captured. Use this when terminal fidelity matters.
//   - RealShell: the command runs in the user's interactive login shell
//     with inherited stdio, so aliases and startup files apply.
//
// # Batches
//
// Many expands a batch of commands across working directories and runs
// the resulting invocations sequentially (fail-fast) or in parallel:
//
//	results, err := r.Many(ctx, exec.Batch{
//		Commands: []exec.Command{exec.Shell("make test")},
//		Dirs:     []string{"svc/a", "svc/b"},
//		AutoNames: true,
//		Parallel:  true,
//	})
//
// Prefixes derived from directory basenames label every output line, and
// are padded to equal width so columns align.
//
// # Error Handling
//
// A non-zero exit returns *CommandError alongside the full Result unless
// ThrowOnNonZero is disabled, in which case the Result is returned for
// inspection. Failures that prevent the process from starting at all are
// returned as *SpawnError. Malformed options fail with ErrInvalidArgument
// before anything is spawned.
package exec
