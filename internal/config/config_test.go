package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoader(t *testing.T) {
	t.Run("creates and loads defaults", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		l := NewLoaderAt(path)

		cfg, err := l.Load()
		require.NoError(t, err)
		require.NoError(t, cfg.Validate())

		assert.Equal(t, "tee", cfg.Defaults.Mode)
		assert.Equal(t, "auto", cfg.Defaults.Colors)
		assert.True(t, cfg.Defaults.ThrowOnNonZero)
		assert.Equal(t, " | ", cfg.Defaults.PrefixSeparator)
		assert.Empty(t, cfg.Command.Wrapper)

		// The default file was written for editing.
		_, err = os.Stat(path)
		require.NoError(t, err)
	})

	t.Run("reads existing file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		content := `
defaults:
  mode: silent
  colors: never
  prefer_local: true
command:
  wrapper: "sh -c {escaped}"
env:
  CI: "1"
`
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

		cfg, err := NewLoaderAt(path).Load()
		require.NoError(t, err)
		require.NoError(t, cfg.Validate())

		assert.Equal(t, "silent", cfg.Defaults.Mode)
		assert.Equal(t, "never", cfg.Defaults.Colors)
		assert.True(t, cfg.Defaults.PreferLocal)
		assert.Equal(t, "sh -c {escaped}", cfg.Command.Wrapper)
		assert.Equal(t, "1", cfg.Env["CI"])
		// Unset keys keep their defaults.
		assert.True(t, cfg.Defaults.ThrowOnNonZero)
	})

	t.Run("rejects invalid mode", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		require.NoError(t, os.WriteFile(path, []byte("defaults:\n  mode: loud\n"), 0o600))

		cfg, err := NewLoaderAt(path).Load()
		require.NoError(t, err)
		require.Error(t, cfg.Validate())
	})

	t.Run("get and set round-trip", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		l := NewLoaderAt(path)
		_, err := l.Load()
		require.NoError(t, err)

		require.NoError(t, l.Set("defaults.mode", "silent"))
		v, err := l.Get("defaults.mode")
		require.NoError(t, err)
		assert.Equal(t, "silent", v)
	})

	t.Run("unknown key is rejected", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		l := NewLoaderAt(path)
		_, err := l.Load()
		require.NoError(t, err)

		err = l.Set("defaults.nope", "x")
		require.ErrorIs(t, err, ErrInvalidKey)
	})
}

func TestRunnerOptions(t *testing.T) {
	t.Run("maps config onto executor options", func(t *testing.T) {
		cfg := &Config{
			Defaults: DefaultsConfig{
				Mode:           "silent",
				Colors:         "never",
				ThrowOnNonZero: true,
			},
			Command: CommandConfig{Prefix: []string{"nice", "-n", "10"}},
			Env:     map[string]string{"CI": "1"},
		}

		opts, err := cfg.RunnerOptions()
		require.NoError(t, err)
		assert.NotEmpty(t, opts)
	})

	t.Run("rejects unknown color policy", func(t *testing.T) {
		cfg := &Config{Defaults: DefaultsConfig{Colors: "sometimes"}}
		_, err := cfg.RunnerOptions()
		require.Error(t, err)
	})
}
