// Package config provides configuration management for runx.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/jmgilman/runx/internal/exec"
)

// Default configuration locations.
const (
	DefaultConfigDir  = ".config/runx"
	DefaultConfigFile = "config.yaml"
)

// Sentinel errors for configuration operations.
var (
	ErrInvalidKey = errors.New("invalid configuration key")
)

// validate is the shared validator instance.
var validate = validator.New()

// Config represents the full runx configuration.
type Config struct {
	Defaults DefaultsConfig    `mapstructure:"defaults" validate:"required"`
	Command  CommandConfig     `mapstructure:"command"`
	Env      map[string]string `mapstructure:"env"`
}

// DefaultsConfig holds executor-wide default settings.
type DefaultsConfig struct {
	Mode            string `mapstructure:"mode" validate:"omitempty,oneof=tee inherit silent real-shell"`
	Colors          string `mapstructure:"colors" validate:"omitempty,oneof=auto always never"`
	PreferLocal     bool   `mapstructure:"prefer_local"`
	ThrowOnNonZero  bool   `mapstructure:"throw_on_non_zero"`
	PrefixSeparator string `mapstructure:"prefix_separator"`
}

// CommandConfig holds command composition settings.
type CommandConfig struct {
	// Prefix is prepended to every command, in argv form.
	Prefix []string `mapstructure:"prefix"`

	// Wrapper is a template applied to every command. The {escaped}
	// placeholder receives the shell-escaped command text, {raw} the
	// unescaped text.
	Wrapper string `mapstructure:"wrapper"`
}

// Validate checks the configuration for errors using struct tags.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	return nil
}

// RunnerOptions maps the configuration onto executor options.
func (c *Config) RunnerOptions() ([]exec.Option, error) {
	mode, err := exec.ParseMode(c.Defaults.Mode)
	if err != nil {
		return nil, err
	}
	colors, err := exec.ParseColors(c.Defaults.Colors)
	if err != nil {
		return nil, err
	}

	opts := []exec.Option{
		exec.WithColors(colors),
		exec.WithPreferLocal(c.Defaults.PreferLocal),
		exec.WithThrowOnNonZero(c.Defaults.ThrowOnNonZero),
	}
	if mode != exec.ModeDefault {
		opts = append(opts, exec.WithMode(mode))
	}
	if c.Defaults.PrefixSeparator != "" {
		opts = append(opts, exec.WithPrefixSeparator(c.Defaults.PrefixSeparator))
	}
	if len(c.Env) > 0 {
		opts = append(opts, exec.WithEnv(c.Env))
	}
	if len(c.Command.Prefix) > 0 {
		opts = append(opts, exec.WithCommandPrefix(exec.Argv(c.Command.Prefix...)))
	}
	if c.Command.Wrapper != "" {
		opts = append(opts, exec.WithCommandWrapper(c.Command.Wrapper))
	}

	return opts, nil
}

// Loader provides configuration loading and saving.
type Loader struct {
	v    *viper.Viper
	path string
}

// NewLoader creates a new configuration loader.
func NewLoader() (*Loader, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("get home directory: %w", err)
	}
	return NewLoaderAt(filepath.Join(home, DefaultConfigDir, DefaultConfigFile)), nil
}

// NewLoaderAt creates a loader reading the given config file path.
func NewLoaderAt(configPath string) *Loader {
	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")

	// Environment variable binding
	v.SetEnvPrefix("RUNX")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Bind specific env vars to config keys.
	// BindEnv only fails when called with zero arguments.
	//nolint:errcheck // BindEnv only fails with zero arguments
	v.BindEnv("defaults.mode", "RUNX_MODE")
	//nolint:errcheck // BindEnv only fails with zero arguments
	v.BindEnv("defaults.colors", "RUNX_COLORS")
	//nolint:errcheck // BindEnv only fails with zero arguments
	v.BindEnv("command.wrapper", "RUNX_COMMAND_WRAPPER")

	l := &Loader{
		v:    v,
		path: configPath,
	}
	l.setDefaults()

	return l
}

// Path returns the config file location.
func (l *Loader) Path() string {
	return l.path
}

// setDefaults sets all default configuration values using Viper.
func (l *Loader) setDefaults() {
	l.v.SetDefault("defaults.mode", "tee")
	l.v.SetDefault("defaults.colors", "auto")
	l.v.SetDefault("defaults.prefer_local", false)
	l.v.SetDefault("defaults.throw_on_non_zero", true)
	l.v.SetDefault("defaults.prefix_separator", " | ")
	l.v.SetDefault("command.prefix", []string{})
	l.v.SetDefault("command.wrapper", "")
	l.v.SetDefault("env", map[string]string{})
}

// Load reads the configuration file, creating defaults if it doesn't exist.
func (l *Loader) Load() (*Config, error) {
	if _, err := os.Stat(l.path); os.IsNotExist(err) {
		if err := l.createDefault(); err != nil {
			return nil, fmt.Errorf("create default config: %w", err)
		}
	}

	if err := l.v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := l.v.Unmarshal(&cfg, func(dc *mapstructure.DecoderConfig) {
		dc.WeaklyTypedInput = true
	}); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	return &cfg, nil
}

// Set writes one key into the config file.
func (l *Loader) Set(key, value string) error {
	if !l.v.IsSet(key) {
		return fmt.Errorf("%w: %s", ErrInvalidKey, key)
	}
	l.v.Set(key, value)
	if err := l.v.WriteConfigAs(l.path); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Get reads one key from the loaded configuration.
func (l *Loader) Get(key string) (any, error) {
	if !l.v.IsSet(key) {
		return nil, fmt.Errorf("%w: %s", ErrInvalidKey, key)
	}
	return l.v.Get(key), nil
}

// createDefault writes a default config file.
func (l *Loader) createDefault() error {
	if err := os.MkdirAll(filepath.Dir(l.path), 0o750); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	defaults := map[string]any{
		"defaults": map[string]any{
			"mode":              "tee",
			"colors":            "auto",
			"prefer_local":      false,
			"throw_on_non_zero": true,
			"prefix_separator":  " | ",
		},
		"command": map[string]any{
			"prefix":  []string{},
			"wrapper": "",
		},
		"env": map[string]string{},
	}

	data, err := yaml.Marshal(defaults)
	if err != nil {
		return fmt.Errorf("marshal default config: %w", err)
	}

	if err := os.WriteFile(l.path, data, 0o600); err != nil {
		return fmt.Errorf("write default config: %w", err)
	}
	return nil
}
