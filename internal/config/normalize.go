package config

import (
	"fmt"
	"strings"
)

// normalizeConfig case-folds enumerations and trims free-form fields before defaults apply.
func normalizeConfig(cfg *Config) error {
	var err error
	if cfg.Slug.Resync, err = ParseSlugStrategy(string(cfg.Slug.Resync)); err != nil {
		return fmt.Errorf("slug.resync: %w", err)
	}
	if cfg.Slug.Append, err = ParseSlugStrategy(string(cfg.Slug.Append)); err != nil {
		return fmt.Errorf("slug.append: %w", err)
	}

	if cfg.Logging.Level != "" {
		cfg.Logging.Level = NormalizeLogLevel(string(cfg.Logging.Level))
	}
	if cfg.Logging.Format != "" {
		cfg.Logging.Format = NormalizeLogFormat(string(cfg.Logging.Format))
	}

	cfg.Version = strings.TrimSpace(cfg.Version)
	cfg.Site.Lang = strings.TrimSpace(cfg.Site.Lang)
	cfg.Site.TimeZone = strings.TrimSpace(cfg.Site.TimeZone)
	cfg.Schedule.Cron = strings.TrimSpace(cfg.Schedule.Cron)

	seen := make(map[string]struct{}, len(cfg.Markdown.Extensions))
	exts := cfg.Markdown.Extensions[:0]
	for _, e := range cfg.Markdown.Extensions {
		key := strings.ToLower(strings.TrimSpace(e))
		if key == "" {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		exts = append(exts, key)
	}
	cfg.Markdown.Extensions = exts
	return nil
}
