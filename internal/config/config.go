// Package config loads and validates the blogsync configuration file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	ferrors "git.home.luguber.info/inful/blogsync/internal/foundation/errors"
)

// CurrentVersion is the configuration schema version written by Init.
const CurrentVersion = "1"

// Config represents the blogsync configuration file.
type Config struct {
	Version  string         `yaml:"version"`
	Site     SiteConfig     `yaml:"site"`
	Paths    PathsConfig    `yaml:"paths"`
	Slug     SlugConfig     `yaml:"slug"`
	Excerpt  ExcerptConfig  `yaml:"excerpt"`
	Markdown MarkdownConfig `yaml:"markdown"`
	Defaults DefaultsConfig `yaml:"defaults"`
	Schedule ScheduleConfig `yaml:"schedule,omitempty"`
	Watch    WatchConfig    `yaml:"watch,omitempty"`
	Publish  PublishConfig  `yaml:"publish,omitempty"`
	Notify   NotifyConfig   `yaml:"notify,omitempty"`
	Metrics  MetricsConfig  `yaml:"metrics,omitempty"`
	History  HistoryConfig  `yaml:"history,omitempty"`
	Logging  LoggingConfig  `yaml:"logging,omitempty"`
}

// SiteConfig holds presentation settings shared by the index and post pages.
type SiteConfig struct {
	Title          string `yaml:"title"`
	Lang           string `yaml:"lang"`
	DateFormat     string `yaml:"date_format"` // Go reference layout
	TimeFormat     string `yaml:"time_format"` // used by default post text
	TimeZone       string `yaml:"time_zone,omitempty"`
	CreatePostURL  string `yaml:"create_post_url"`
	CreatePostText string `yaml:"create_post_text"`
	NoPostsText    string `yaml:"no_posts_text"`
	BackLinkText   string `yaml:"back_link_text"`
}

// PathsConfig locates the two on-disk artifacts. Index and Posts are relative to Root.
type PathsConfig struct {
	Root  string `yaml:"root"`
	Index string `yaml:"index"`
	Posts string `yaml:"posts"`
}

// SlugConfig selects the slug strategy per pipeline mode.
type SlugConfig struct {
	Resync SlugStrategy `yaml:"resync"`
	Append SlugStrategy `yaml:"append"`
}

// ExcerptConfig controls summary excerpt truncation.
type ExcerptConfig struct {
	Length int    `yaml:"length"`
	Marker string `yaml:"marker"`
}

// MarkdownConfig configures the goldmark converter.
type MarkdownConfig struct {
	Extensions []string `yaml:"extensions,omitempty"`
	HardWraps  bool     `yaml:"hard_wraps,omitempty"`
	// SafeMode drops raw HTML from the rendered body. Off by default: post bodies are trusted.
	SafeMode bool `yaml:"safe_mode,omitempty"`
}

// DefaultsConfig holds text/template sources used when a trigger carries no title/body.
// Templates receive .Date and .Time.
type DefaultsConfig struct {
	Title string `yaml:"title"`
	Body  string `yaml:"body"`
}

// ScheduleConfig drives `blogsync schedule`.
type ScheduleConfig struct {
	Cron       string `yaml:"cron,omitempty"`
	CreatePost bool   `yaml:"create_post,omitempty"`
}

// WatchConfig drives `blogsync watch`.
type WatchConfig struct {
	Inbox     string `yaml:"inbox,omitempty"`
	Processed string `yaml:"processed,omitempty"`
}

// PublishConfig configures optional post-run publication steps.
type PublishConfig struct {
	Git GitPublishConfig `yaml:"git,omitempty"`
}

// GitPublishConfig commits the written files to the repository containing the site root.
type GitPublishConfig struct {
	Enabled     bool   `yaml:"enabled"`
	AuthorName  string `yaml:"author_name,omitempty"`
	AuthorEmail string `yaml:"author_email,omitempty"`
	Message     string `yaml:"message,omitempty"`
}

// NotifyConfig configures publication notifications.
type NotifyConfig struct {
	NATS NATSConfig `yaml:"nats,omitempty"`
}

// NATSConfig publishes one message per written post.
type NATSConfig struct {
	Enabled bool   `yaml:"enabled"`
	URL     string `yaml:"url,omitempty"`
	Subject string `yaml:"subject,omitempty"`
}

// MetricsConfig configures the Prometheus textfile export.
type MetricsConfig struct {
	Textfile string `yaml:"textfile,omitempty"`
}

// HistoryConfig configures the SQLite run ledger.
type HistoryConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path,omitempty"`
}

// LoggingConfig configures the slog handler.
type LoggingConfig struct {
	Level  LogLevel  `yaml:"level,omitempty"`
	Format LogFormat `yaml:"format,omitempty"`
}

// Load reads the configuration at configPath. A missing file is not an error:
// the built-in defaults are returned instead.
func Load(configPath string) (*Config, error) {
	if err := loadEnvFiles(); err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryConfig, "load .env file").Fatal().Build()
	}

	cfg := &Config{}
	data, err := os.ReadFile(filepath.Clean(configPath))
	switch {
	case errors.Is(err, fs.ErrNotExist):
		slog.Debug("Configuration file not found, using defaults", "path", configPath)
	case err != nil:
		return nil, ferrors.WrapError(err, ferrors.CategoryConfig, "read config file").
			Fatal().WithContext("path", configPath).Build()
	default:
		// Expand environment variables in the YAML content
		expanded := os.ExpandEnv(string(data))
		if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
			return nil, ferrors.WrapError(err, ferrors.CategoryConfig, "parse config file").
				Fatal().WithContext("path", configPath).Build()
		}
	}

	if err := Finalize(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Finalize normalizes, defaults and validates cfg in place.
func Finalize(cfg *Config) error {
	if err := normalizeConfig(cfg); err != nil {
		return ferrors.WrapError(err, ferrors.CategoryConfig, "normalize config").Fatal().Build()
	}
	applyDefaults(cfg)
	if err := validateConfig(cfg); err != nil {
		return ferrors.WrapError(err, ferrors.CategoryConfig, "configuration validation failed").Fatal().Build()
	}
	return nil
}

// Default returns a fully defaulted configuration.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

// HistoryPath returns the run ledger location. A relative path lives under
// the site root.
func (c *Config) HistoryPath() string {
	if filepath.IsAbs(c.History.Path) {
		return c.History.Path
	}
	return filepath.Join(c.Paths.Root, c.History.Path)
}

// Init writes an example configuration file.
func Init(configPath string, force bool) error {
	if _, err := os.Stat(configPath); err == nil && !force {
		return ferrors.ValidationError("configuration file already exists (use --force to overwrite)").
			WithContext("path", configPath).Build()
	}

	example := Default()
	example.Version = CurrentVersion
	example.Schedule = ScheduleConfig{Cron: "0 9 * * *", CreatePost: true}
	example.History = HistoryConfig{Enabled: false, Path: ".blogsync/history.db"}

	data, err := yaml.Marshal(example)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if dir := filepath.Dir(configPath); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return ferrors.WrapError(err, ferrors.CategoryFileSystem, "create config directory").Build()
		}
	}
	// #nosec G306 -- configuration is not secret
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		return ferrors.WrapError(err, ferrors.CategoryFileSystem, "write config file").
			WithContext("path", configPath).Build()
	}
	return nil
}
