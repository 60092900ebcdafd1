package exec

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestRunner returns a silent-logging runner with stdio wired to
// buffers the test can inspect.
func newTestRunner(opts ...Option) (*Runner, *strings.Builder, *strings.Builder) {
	var stdout, stderr strings.Builder
	base := []Option{
		WithLog(Discard),
		WithStdin(strings.NewReader("")),
		WithStdout(&stdout),
		WithStderr(&stderr),
	}
	return New(append(base, opts...)...), &stdout, &stderr
}

func TestRunnerOne(t *testing.T) {
	ctx := context.Background()

	t.Run("captures stdout in silent mode", func(t *testing.T) {
		r, _, _ := newTestRunner()
		res, err := r.One(ctx, Shell("echo hi"), Options{Mode: Silent})

		require.NoError(t, err)
		assert.Equal(t, 0, res.Code)
		assert.Equal(t, "hi\n", res.Stdout)
		assert.Empty(t, res.Stderr)
		assert.Equal(t, "echo hi", res.Command)
		assert.GreaterOrEqual(t, res.Duration, time.Duration(0))
	})

	t.Run("captures stderr separately", func(t *testing.T) {
		r, _, _ := newTestRunner()
		res, err := r.One(ctx, Shell("echo out && echo err >&2"), Options{Mode: Silent})

		require.NoError(t, err)
		assert.Equal(t, "out\n", res.Stdout)
		assert.Equal(t, "err\n", res.Stderr)
	})

	t.Run("output interleaves both streams", func(t *testing.T) {
		r, _, _ := newTestRunner()
		res, err := r.One(ctx, Shell("echo one && echo two >&2 && echo three"), Options{Mode: Silent})

		require.NoError(t, err)
		assert.Equal(t, "one\ntwo\nthree\n", res.Output)
	})

	t.Run("tee captures and forwards with prefix", func(t *testing.T) {
		r, stdout, _ := newTestRunner()
		res, err := r.One(ctx, Shell("echo hi"), Options{Mode: Tee, Prefix: "web", PrefixSuffix: " | ", Colors: ColorsOff})

		require.NoError(t, err)
		assert.Equal(t, "hi\n", res.Stdout)
		assert.Equal(t, "web | hi\n", stdout.String())
	})

	t.Run("tee flushes output lacking a trailing newline", func(t *testing.T) {
		r, stdout, _ := newTestRunner()
		res, err := r.One(ctx, Shell("printf no-newline"), Options{Mode: Tee, Colors: ColorsOff})

		require.NoError(t, err)
		assert.Equal(t, "no-newline", res.Stdout)
		assert.Equal(t, "no-newline\n", stdout.String())
	})

	t.Run("inherit captures nothing", func(t *testing.T) {
		r, stdout, _ := newTestRunner()
		res, err := r.One(ctx, Shell("echo hi"), Options{Mode: Inherit})

		require.NoError(t, err)
		assert.Empty(t, res.Stdout)
		assert.Empty(t, res.Stderr)
		assert.Empty(t, res.Output)
		assert.Equal(t, "hi\n", stdout.String())
	})

	t.Run("argv bypasses the shell", func(t *testing.T) {
		r, _, _ := newTestRunner()
		res, err := r.One(ctx, Argv("echo", "$HOME", "a b"), Options{Mode: Silent})

		require.NoError(t, err)
		assert.Equal(t, "$HOME a b\n", res.Stdout)
	})

	t.Run("shell string expands", func(t *testing.T) {
		r, _, _ := newTestRunner()
		res, err := r.One(ctx, Shell("HOME=/h sh -c 'echo $HOME'"), Options{Mode: Silent})

		require.NoError(t, err)
		assert.Equal(t, "/h\n", res.Stdout)
	})

	t.Run("respects working directory", func(t *testing.T) {
		r, _, _ := newTestRunner()
		dir := t.TempDir()
		res, err := r.OneIn(ctx, Shell("pwd"), dir, Options{Mode: Silent})

		require.NoError(t, err)
		assert.Contains(t, res.Stdout, dir)
		assert.Equal(t, dir, res.Cwd)
	})

	t.Run("passes environment overlay", func(t *testing.T) {
		r, _, _ := newTestRunner(WithEnv(map[string]string{"GLOBAL_VAR": "g"}))
		res, err := r.One(ctx, Shell("echo $GLOBAL_VAR $LOCAL_VAR"), Options{
			Mode: Silent,
			Env:  map[string]string{"LOCAL_VAR": "l"},
		})

		require.NoError(t, err)
		assert.Equal(t, "g l\n", res.Stdout)
	})

	t.Run("non-zero exit returns CommandError with the result", func(t *testing.T) {
		r, _, _ := newTestRunner()
		res, err := r.One(ctx, Shell("echo boom >&2; exit 3"), Options{Mode: Silent})

		require.Error(t, err)
		var cmdErr *CommandError
		require.ErrorAs(t, err, &cmdErr)
		assert.Equal(t, 3, cmdErr.Code)
		assert.Equal(t, "boom\n", cmdErr.Stderr)

		require.NotNil(t, res)
		assert.Equal(t, 3, res.Code)
	})

	t.Run("throw suppressed returns the result", func(t *testing.T) {
		r, _, _ := newTestRunner()
		res, err := r.One(ctx, Shell("exit 3"), Options{Mode: Silent, ThrowOnNonZero: Bool(false)})

		require.NoError(t, err)
		assert.Equal(t, 3, res.Code)
	})

	t.Run("failure is logged even when suppressed", func(t *testing.T) {
		var lines []string
		r, _, _ := newTestRunner()
		_, err := r.One(ctx, Shell("exit 3"), Options{
			Mode:           Silent,
			ThrowOnNonZero: Bool(false),
			Log:            func(line string) { lines = append(lines, line) },
		})

		require.NoError(t, err)
		require.Len(t, lines, 2) // banner + failure glyph
		assert.Contains(t, lines[1], "exit code 3")
	})

	t.Run("timeout surfaces as a failed result", func(t *testing.T) {
		r, _, _ := newTestRunner()
		res, err := r.One(ctx, Shell("sleep 5"), Options{Mode: Silent, Timeout: 50 * time.Millisecond})

		require.Error(t, err)
		var cmdErr *CommandError
		require.ErrorAs(t, err, &cmdErr)
		assert.ErrorIs(t, cmdErr.Err, context.DeadlineExceeded)
		require.NotNil(t, res)
		assert.NotEqual(t, 0, res.Code)
	})

	t.Run("missing executable is a SpawnError", func(t *testing.T) {
		r, _, _ := newTestRunner()
		res, err := r.One(ctx, Argv("definitely-not-a-real-binary-xyz"), Options{Mode: Silent})

		require.Error(t, err)
		var spawnErr *SpawnError
		require.ErrorAs(t, err, &spawnErr)
		assert.Nil(t, res)
	})

	t.Run("empty command fails before spawning", func(t *testing.T) {
		r, _, _ := newTestRunner()
		_, err := r.Run(ctx, Options{})
		require.ErrorIs(t, err, ErrInvalidArgument)
	})
}

func TestRunnerLogsProgress(t *testing.T) {
	var lines []string
	r := New(
		WithLog(func(line string) { lines = append(lines, line) }),
		WithStdin(strings.NewReader("")),
		WithStdout(&strings.Builder{}),
		WithStderr(&strings.Builder{}),
	)

	_, err := r.One(context.Background(), Shell("echo hi"), Options{Mode: Silent})
	require.NoError(t, err)

	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "echo hi")
	assert.Contains(t, lines[1], "done in")
}

func TestPreferLocalResolvesArgvExecutable(t *testing.T) {
	dir := t.TempDir()
	binDir := filepath.Join(dir, "bin")
	require.NoError(t, os.MkdirAll(binDir, 0o755))

	// A bare name that only exists in the project-local bin directory.
	script := "#!/bin/sh\necho from-local-bin\n"
	require.NoError(t, os.WriteFile(filepath.Join(binDir, "localtool"), []byte(script), 0o755))

	ctx := context.Background()

	t.Run("argv commands find local executables", func(t *testing.T) {
		r, _, _ := newTestRunner()
		res, err := r.OneIn(ctx, Argv("localtool"), dir, Options{
			Mode:        Silent,
			PreferLocal: Bool(true),
		})

		require.NoError(t, err)
		assert.Equal(t, "from-local-bin\n", res.Stdout)
	})

	t.Run("without prefer local the bare name stays unresolved", func(t *testing.T) {
		r, _, _ := newTestRunner()
		_, err := r.OneIn(ctx, Argv("localtool"), dir, Options{Mode: Silent})

		var spawnErr *SpawnError
		require.ErrorAs(t, err, &spawnErr)
	})

	t.Run("shell commands find local executables via PATH", func(t *testing.T) {
		r, _, _ := newTestRunner()
		res, err := r.OneIn(ctx, Shell("localtool"), dir, Options{
			Mode:        Silent,
			PreferLocal: Bool(true),
		})

		require.NoError(t, err)
		assert.Equal(t, "from-local-bin\n", res.Stdout)
	})
}
