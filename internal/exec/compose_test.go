package exec

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComposeCommand(t *testing.T) {
	tests := []struct {
		name    string
		prefix  Command
		wrapper string
		cmd     Command
		want    string
	}{
		{
			name: "no prefix or wrapper",
			cmd:  Shell("echo hi"),
			want: "echo hi",
		},
		{
			name:   "string prefix joins string command with a space",
			prefix: Shell("nice -n 10"),
			cmd:    Shell("make build"),
			want:   "nice -n 10 make build",
		},
		{
			name:   "argv prefix concatenates argv command",
			prefix: Argv("ssh", "build-host"),
			cmd:    Argv("make", "build"),
			want:   "ssh build-host make build",
		},
		{
			name:   "argv prefix keeps array shape for string command",
			prefix: Argv("ssh", "build-host"),
			cmd:    Shell("echo hi"),
			want:   "ssh build-host 'echo hi'",
		},
		{
			name:   "string prefix coerces argv command to string",
			prefix: Shell("nice"),
			cmd:    Argv("make", "build"),
			want:   "nice make build",
		},
		{
			name:    "wrapper with escaped placeholder",
			wrapper: `docker run img sh -c {escaped}`,
			cmd:     Shell("echo $HOME"),
			want:    `docker run img sh -c "echo \$HOME"`,
		},
		{
			name:    "wrapper with raw placeholder",
			wrapper: `time {raw}`,
			cmd:     Shell("echo $HOME"),
			want:    "time echo $HOME",
		},
		{
			name:    "wrapper without placeholder acts as prefix",
			wrapper: "nice -n 5",
			cmd:     Shell("make build"),
			want:    "nice -n 5 make build",
		},
		{
			name:    "prefix then wrapper",
			prefix:  Shell("yarn"),
			wrapper: `sh -c {escaped}`,
			cmd:     Shell("run build"),
			want:    `sh -c "yarn run build"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := New(
				WithCommandPrefix(tt.prefix),
				WithCommandWrapper(tt.wrapper),
				WithLog(Discard),
			)
			got, err := r.ComposeCommand(Options{Command: tt.cmd})
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestQuoteDouble(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{`plain`, `"plain"`},
		{`a b`, `"a b"`},
		{`say "hi"`, `"say \"hi\""`},
		{`$HOME`, `"\$HOME"`},
		{"back`tick", "\"back\\`tick\""},
		{`back\slash`, `"back\\slash"`},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, QuoteDouble(tt.in))
	}
}

func TestQuoteSingle(t *testing.T) {
	assert.Equal(t, `'a b'`, QuoteSingle("a b"))
	assert.Equal(t, `'it'\''s'`, QuoteSingle("it's"))
}

// The escaped-placeholder wrapper must preserve argument boundaries: a
// shell evaluating the wrapped form sees the same arguments as running
// the argv form directly.
func TestWrapperEscapedRoundTrip(t *testing.T) {
	args := []string{
		"a b",
		"$HOME",
		"semi;colon",
		"sq'uote",
		`dq"uote`,
		"back`tick",
		"glob*",
	}
	argv := append([]string{"printf", `%s\n`}, args...)

	direct := New(WithLog(Discard))
	want, err := direct.One(context.Background(), Argv(argv...), Options{Mode: Silent})
	require.NoError(t, err)

	wrapped := New(WithCommandWrapper("sh -c "+WrapperEscaped), WithLog(Discard))
	got, err := wrapped.One(context.Background(), Argv(argv...), Options{Mode: Silent})
	require.NoError(t, err)

	assert.Equal(t, want.Stdout, got.Stdout)
	for _, a := range args {
		assert.Contains(t, got.Stdout, a+"\n")
	}
}
