// Package config handles configuration loading for ollamachat.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment override, e.g. OLLAMACHAT_BASE_URL.
const EnvPrefix = "OLLAMACHAT"

// MarkdownConfig configures markdown rendering options
type MarkdownConfig struct {
	Style            string `mapstructure:"style" yaml:"style"`                           // glamour style name or path to JSON theme
	EnableEmoji      bool   `mapstructure:"enable_emoji" yaml:"enable_emoji"`             // Convert :emoji: to unicode
	PreserveNewLines bool   `mapstructure:"preserve_newlines" yaml:"preserve_newlines"`   // Preserve original line breaks
	TableWrap        bool   `mapstructure:"table_wrap" yaml:"table_wrap"`                 // Enable word wrap in table cells
	InlineTableLinks bool   `mapstructure:"inline_table_links" yaml:"inline_table_links"` // Render links inline in tables
}

// LoggingConfig controls the structured log output
type LoggingConfig struct {
	File  string `mapstructure:"file" yaml:"file"`
	Debug bool   `mapstructure:"debug" yaml:"debug"`
}

// Config represents the user configuration
type Config struct {
	// BaseURL is where the model server listens.
	BaseURL string `mapstructure:"base_url" yaml:"base_url"`
	// TimeoutSeconds bounds a single request. Expiry counts as a failure.
	TimeoutSeconds int `mapstructure:"timeout_seconds" yaml:"timeout_seconds"`
	// DefaultModel is selected at startup when the server offers it.
	DefaultModel    string         `mapstructure:"default_model" yaml:"default_model"`
	CopyToClipboard bool           `mapstructure:"copy_to_clipboard" yaml:"copy_to_clipboard"`
	TUITheme        string         `mapstructure:"tui_theme" yaml:"tui_theme"`
	Markdown        MarkdownConfig `mapstructure:"markdown" yaml:"markdown"`
	Logging         LoggingConfig  `mapstructure:"logging" yaml:"logging"`
}

// DefaultMarkdownConfig returns the default markdown configuration
func DefaultMarkdownConfig() MarkdownConfig {
	return MarkdownConfig{
		Style:            "dark",
		EnableEmoji:      true,
		PreserveNewLines: true,
		TableWrap:        true,
		InlineTableLinks: false,
	}
}

// DefaultConfig returns the default configuration
func DefaultConfig() Config {
	return Config{
		BaseURL:         "http://localhost:11434",
		TimeoutSeconds:  300, // 5 minutes
		DefaultModel:    "",
		CopyToClipboard: false,
		TUITheme:        "tokyonight",
		Markdown:        DefaultMarkdownConfig(),
	}
}

// GetConfigDir returns the configuration directory path
func GetConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	return filepath.Join(home, ".ollamachat"), nil
}

// GetConfigPath returns the path to the config file
func GetConfigPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "config.yaml"), nil
}

// Load reads configuration from path, falling back to GetConfigPath when
// path is empty. A missing file yields the defaults. Environment variables
// (and a .env file in the working directory) override file values.
func Load(path string) (Config, error) {
	if path == "" {
		defaultPath, err := GetConfigPath()
		if err != nil {
			return DefaultConfig(), err
		}
		path = defaultPath
	}

	// .env is optional
	_ = godotenv.Load()

	cfg := DefaultConfig()

	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("base_url", cfg.BaseURL)
	v.SetDefault("timeout_seconds", cfg.TimeoutSeconds)
	v.SetDefault("default_model", cfg.DefaultModel)
	v.SetDefault("copy_to_clipboard", cfg.CopyToClipboard)
	v.SetDefault("tui_theme", cfg.TUITheme)
	v.SetDefault("markdown.style", cfg.Markdown.Style)
	v.SetDefault("markdown.enable_emoji", cfg.Markdown.EnableEmoji)
	v.SetDefault("markdown.preserve_newlines", cfg.Markdown.PreserveNewLines)
	v.SetDefault("markdown.table_wrap", cfg.Markdown.TableWrap)
	v.SetDefault("markdown.inline_table_links", cfg.Markdown.InlineTableLinks)
	v.SetDefault("logging.file", cfg.Logging.File)
	v.SetDefault("logging.debug", cfg.Logging.Debug)

	if _, err := os.Stat(path); err == nil {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return DefaultConfig(), fmt.Errorf("failed to read config file: %w", err)
			}
		}
	} else if !os.IsNotExist(err) {
		return DefaultConfig(), fmt.Errorf("failed to stat config file: %w", err)
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return DefaultConfig(), fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return DefaultConfig(), err
	}

	return cfg, nil
}

// Validate checks the fields that would make every request fail
func (c Config) Validate() error {
	u, err := url.Parse(c.BaseURL)
	if err != nil {
		return fmt.Errorf("invalid base_url %q: %w", c.BaseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid base_url %q: scheme must be http or https", c.BaseURL)
	}
	if u.Host == "" {
		return fmt.Errorf("invalid base_url %q: missing host", c.BaseURL)
	}
	if c.TimeoutSeconds <= 0 {
		return fmt.Errorf("timeout_seconds must be positive, got %d", c.TimeoutSeconds)
	}
	return nil
}

// Save writes cfg as YAML to path, creating the directory if needed
func Save(cfg Config, path string) error {
	if path == "" {
		defaultPath, err := GetConfigPath()
		if err != nil {
			return err
		}
		path = defaultPath
	}

	// Use 0o700 for the config directory
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Marshal renders cfg as YAML
func Marshal(cfg Config) (string, error) {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return "", fmt.Errorf("failed to marshal config: %w", err)
	}
	return string(data), nil
}
