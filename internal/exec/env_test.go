package exec

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envValue(env []string, key string) (string, bool) {
	for _, e := range env {
		if v, ok := strings.CutPrefix(e, key+"="); ok {
			return v, true
		}
	}
	return "", false
}

func TestComposeEnv(t *testing.T) {
	base := []string{"PATH=/usr/bin", "HOME=/home/u", "NO_COLOR=1"}

	t.Run("overlay wins over inherited", func(t *testing.T) {
		env := composeEnv(base, map[string]string{"HOME": "/other"}, Options{PreferLocal: Bool(false)})
		v, ok := envValue(env, "HOME")
		assert.True(t, ok)
		assert.Equal(t, "/other", v)
	})

	t.Run("colors on forces variables and unsets NO_COLOR", func(t *testing.T) {
		env := composeEnv(base, nil, Options{Colors: ColorsOn, PreferLocal: Bool(false)})

		v, _ := envValue(env, "FORCE_COLOR")
		assert.Equal(t, "1", v)
		v, _ = envValue(env, "CLICOLOR_FORCE")
		assert.Equal(t, "1", v)
		_, ok := envValue(env, "NO_COLOR")
		assert.False(t, ok)
	})

	t.Run("colors off disables everything", func(t *testing.T) {
		env := composeEnv(base, map[string]string{"FORCE_COLOR": "1"}, Options{Colors: ColorsOff, PreferLocal: Bool(false)})

		for key, want := range map[string]string{
			"NO_COLOR":       "1",
			"TERM":           "dumb",
			"CLICOLOR":       "0",
			"CLICOLOR_FORCE": "0",
			"FORCE_COLOR":    "0",
		} {
			v, ok := envValue(env, key)
			assert.True(t, ok, key)
			assert.Equal(t, want, v, key)
		}
	})

	t.Run("color forcing beats overlaid color variables", func(t *testing.T) {
		// The tri-state policy is applied last, so an explicit overlay of
		// NO_COLOR does not survive ColorsOn.
		env := composeEnv(base, map[string]string{"NO_COLOR": "1"}, Options{Colors: ColorsOn, PreferLocal: Bool(false)})
		_, ok := envValue(env, "NO_COLOR")
		assert.False(t, ok)
	})

	t.Run("auto leaves inherited values untouched", func(t *testing.T) {
		env := composeEnv(base, nil, Options{PreferLocal: Bool(false)})
		v, ok := envValue(env, "NO_COLOR")
		assert.True(t, ok)
		assert.Equal(t, "1", v)
	})

	t.Run("prefer local prepends project bin dirs", func(t *testing.T) {
		env := composeEnv(base, nil, Options{Dir: "/proj", PreferLocal: Bool(true)})
		v, _ := envValue(env, "PATH")
		assert.True(t, strings.HasPrefix(v, "/proj/node_modules/.bin:/proj/bin:"), v)
		assert.True(t, strings.HasSuffix(v, "/usr/bin"), v)
	})
}

func TestResolveLocalExecutable(t *testing.T) {
	dir := t.TempDir()
	binDir := filepath.Join(dir, "bin")
	require.NoError(t, os.MkdirAll(binDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(binDir, "tool"), []byte("#!/bin/sh\n"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(binDir, "plain"), []byte("data"), 0o644))

	t.Run("resolves an executable local candidate", func(t *testing.T) {
		got := resolveLocalExecutable(dir, "tool")
		assert.Equal(t, filepath.Join(binDir, "tool"), got)
	})

	t.Run("skips non-executable files", func(t *testing.T) {
		assert.Equal(t, "plain", resolveLocalExecutable(dir, "plain"))
	})

	t.Run("leaves missing names for PATH lookup", func(t *testing.T) {
		assert.Equal(t, "missing", resolveLocalExecutable(dir, "missing"))
	})

	t.Run("leaves names that already carry a path", func(t *testing.T) {
		assert.Equal(t, "./tool", resolveLocalExecutable(dir, "./tool"))
	})
}
