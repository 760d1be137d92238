package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/text/language"
)

// ValidateConfig validates a defaulted configuration.
func ValidateConfig(cfg *Config) error {
	return validateConfig(cfg)
}

func validateConfig(cfg *Config) error {
	if cfg.Version != CurrentVersion {
		return fmt.Errorf("unsupported configuration version: %s (expected %s)", cfg.Version, CurrentVersion)
	}
	if err := validateSite(&cfg.Site); err != nil {
		return err
	}
	if err := validatePaths(&cfg.Paths); err != nil {
		return err
	}
	if cfg.Excerpt.Length <= 0 {
		return errors.New("excerpt.length must be positive")
	}
	if cfg.Notify.NATS.Enabled && cfg.Notify.NATS.Subject == "" {
		return errors.New("notify.nats.subject is required when notifications are enabled")
	}
	return nil
}

func validateSite(site *SiteConfig) error {
	if _, err := language.Parse(site.Lang); err != nil {
		return fmt.Errorf("site.lang %q is not a valid BCP 47 tag: %w", site.Lang, err)
	}
	if site.TimeZone != "" {
		if _, err := time.LoadLocation(site.TimeZone); err != nil {
			return fmt.Errorf("site.time_zone: %w", err)
		}
	}
	sample := time.Date(2011, time.November, 11, 11, 11, 11, 0, time.UTC)
	if sample.Format(site.DateFormat) == site.DateFormat {
		return fmt.Errorf("site.date_format %q contains no layout elements", site.DateFormat)
	}
	return nil
}

func validatePaths(paths *PathsConfig) error {
	if err := singleSegment("paths.index", paths.Index); err != nil {
		return err
	}
	posts := filepath.Clean(paths.Posts)
	if filepath.IsAbs(posts) || posts == "." || strings.HasPrefix(posts, "..") {
		return fmt.Errorf("paths.posts must be a relative directory below the site root, got %q", paths.Posts)
	}
	return nil
}

func singleSegment(field, name string) error {
	if name == "" || name != filepath.Base(name) || name == "." || name == ".." {
		return fmt.Errorf("%s must be a plain file name, got %q", field, name)
	}
	return nil
}

// Location resolves the configured time zone, defaulting to the local zone.
func (s SiteConfig) Location() *time.Location {
	if s.TimeZone == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(s.TimeZone)
	if err != nil {
		return time.Local
	}
	return loc
}
