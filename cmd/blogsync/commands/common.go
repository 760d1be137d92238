// Package commands implements the blogsync command line.
package commands

import (
	"io"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/blogsync/internal/config"
	"git.home.luguber.info/inful/blogsync/internal/event"
)

// Environment overrides for logging.
const (
	EnvLogLevel  = "BLOGSYNC_LOG_LEVEL"
	EnvLogFormat = "BLOGSYNC_LOG_FORMAT"
)

// Global carries state shared by every command.
type Global struct {
	Stdout io.Writer
}

func (g *Global) out() io.Writer {
	if g == nil || g.Stdout == nil {
		return os.Stdout
	}
	return g.Stdout
}

// CLI definition & global flags.
type CLI struct {
	Config  string           `short:"c" help:"Configuration file path" default:"blogsync.yaml"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`
	Root    string           `help:"Site root directory (overrides paths.root)"`

	Init     InitCmd     `cmd:"" help:"Write an example configuration and a bootstrap index page"`
	Resync   ResyncCmd   `cmd:"" help:"Delete every post page and rebuild the index, optionally creating one dated post"`
	Append   AppendCmd   `cmd:"" help:"Render one post and insert its summary at the head of the index"`
	List     ListCmd     `cmd:"" help:"List the summaries published on the index page"`
	Schedule ScheduleCmd `cmd:"" help:"Run resync on a cron schedule"`
	Watch    WatchCmd    `cmd:"" help:"Append every draft dropped into the inbox directory"`
	History  HistoryCmd  `cmd:"" help:"Show recent runs from the history ledger"`
}

// AfterApply runs after flag parsing; setup logging once. The configured
// level is applied later, when a command loads the configuration.
// nolint:unparam // AfterApply currently never returns an error.
func (c *CLI) AfterApply() error {
	level := resolveLevel(c.Verbose, os.Getenv(EnvLogLevel), "")
	slog.SetDefault(newLogger(os.Stderr, level, resolveFormat(os.Getenv(EnvLogFormat), "")))
	return nil
}

// resolveLevel picks the log level. Precedence: --verbose > BLOGSYNC_LOG_LEVEL > config.
func resolveLevel(verbose bool, env string, configured config.LogLevel) slog.Level {
	switch {
	case verbose:
		return slog.LevelDebug
	case env != "":
		return config.NormalizeLogLevel(env).SlogLevel()
	case configured != "":
		return configured.SlogLevel()
	default:
		return slog.LevelInfo
	}
}

func resolveFormat(env string, configured config.LogFormat) config.LogFormat {
	if env != "" {
		return config.NormalizeLogFormat(env)
	}
	if configured != "" {
		return configured
	}
	return config.LogFormatText
}

func newLogger(w io.Writer, level slog.Level, format config.LogFormat) *slog.Logger {
	opts := &slog.HandlerOptions{Level: level}
	if format == config.LogFormatJSON {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// loadConfig reads the configuration, applies the --root override and
// reconfigures logging from the file.
func loadConfig(root *CLI) (*config.Config, error) {
	cfg, err := config.Load(root.Config)
	if err != nil {
		return nil, err
	}
	if root.Root != "" {
		cfg.Paths.Root = root.Root
	}
	level := resolveLevel(root.Verbose, os.Getenv(EnvLogLevel), cfg.Logging.Level)
	slog.SetDefault(newLogger(os.Stderr, level, resolveFormat(os.Getenv(EnvLogFormat), cfg.Logging.Format)))
	return cfg, nil
}

// triggerName labels runs in logs and history.
func triggerName(gh event.GitHubTrigger, fallback string) string {
	if gh.Present() {
		return "github:" + gh.Name
	}
	return fallback
}
