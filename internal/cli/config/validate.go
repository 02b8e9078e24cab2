package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/leapstack-labs/feedlint/internal/report"
	"github.com/leapstack-labs/feedlint/pkg/notice"
)

// Validate checks every option and reports all problems at once.
func (c *Config) Validate() error {
	var errs []error

	if c.Workers < 0 {
		errs = append(errs, fmt.Errorf("workers must not be negative, got %d", c.Workers))
	}
	if c.MaxSamples < 0 {
		errs = append(errs, fmt.Errorf("max_samples must not be negative, got %d", c.MaxSamples))
	}
	if _, err := report.ParseFormat(c.OutputFormat); err != nil {
		errs = append(errs, err)
	}
	if _, err := c.Severity(); err != nil {
		errs = append(errs, err)
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}
	switch strings.ToLower(c.LogFormat) {
	case "", "text", "json":
	default:
		errs = append(errs, fmt.Errorf("log_format must be text or json, got %q", c.LogFormat))
	}
	if _, err := c.Overrides(); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}

// Severity returns the minimum severity to report.
func (c *Config) Severity() (notice.Severity, error) {
	if c.MinSeverity == "" {
		return notice.SeverityInfo, nil
	}
	sev, ok := notice.ParseSeverity(c.MinSeverity)
	if !ok {
		return sev, fmt.Errorf("min_severity must be error, warning or info, got %q", c.MinSeverity)
	}
	return sev, nil
}

// Overrides returns the severity overrides keyed by notice code. Every code
// must belong to a registered notice kind.
func (c *Config) Overrides() (map[string]notice.Severity, error) {
	if len(c.SeverityOverrides) == 0 {
		return nil, nil
	}
	var errs []error
	out := make(map[string]notice.Severity, len(c.SeverityOverrides))
	for code, level := range c.SeverityOverrides {
		if _, ok := notice.ByCode(code); !ok {
			errs = append(errs, fmt.Errorf("severity_overrides: unknown notice code %q", code))
			continue
		}
		sev, ok := notice.ParseSeverity(level)
		if !ok {
			errs = append(errs, fmt.Errorf("severity_overrides: invalid severity %q for %s", level, code))
			continue
		}
		out[code] = sev
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return out, nil
}

// ParseLevel converts a log level name to a slog.Level.
func ParseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if s == "" {
		return slog.LevelWarn, nil
	}
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return level, fmt.Errorf("log_level: %w", err)
	}
	return level, nil
}
