package settings

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"
)

const (
	DefaultRegion        = "us-east-1"
	DefaultRetentionDays = 7
	DefaultPageSize      = 500
	DefaultSchedule      = "0 3 * * *"
	DefaultMaxAttempts   = 5
	DefaultMaxBackoff    = 20 * time.Second
)

// Default returns settings with every default applied
func Default() *Settings {
	return &Settings{
		Region:        DefaultRegion,
		RetentionDays: DefaultRetentionDays,
		PageSize:      DefaultPageSize,
		Schedule:      DefaultSchedule,
		Log: LogSettings{
			Level:  "info",
			Format: "json",
			Output: "stdout",
		},
		Retry: RetrySettings{
			MaxAttempts: DefaultMaxAttempts,
			MaxBackoff:  DefaultMaxBackoff,
		},
	}
}

// Load starts from Default, overlays an optional YAML file, then environment
// overrides. An empty path skips the file. Keys absent from the file keep
// their defaults, so an explicit retention_days: 0 is honored.
func Load(path string) (*Settings, error) {
	s := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, s); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	applyDefaults(s)

	if err := applyEnv(s); err != nil {
		return nil, err
	}

	return s, nil
}

// LoadValid is Load followed by Validate, with every problem joined into one
// error. Settings that loaded but failed validation are still returned so a
// long-lived caller can keep reporting the error per invocation.
func LoadValid(path string) (*Settings, error) {
	s, err := Load(path)
	if err != nil {
		return nil, err
	}
	if errs := s.Validate(); len(errs) > 0 {
		return s, fmt.Errorf("invalid configuration: %w", errors.Join(errs...))
	}
	return s, nil
}

// applyDefaults refills values a file blanked out explicitly
func applyDefaults(s *Settings) {
	d := Default()
	if s.Region == "" {
		s.Region = d.Region
	}
	if s.Schedule == "" {
		s.Schedule = d.Schedule
	}
	if s.Log.Level == "" {
		s.Log.Level = d.Log.Level
	}
	if s.Log.Format == "" {
		s.Log.Format = d.Log.Format
	}
	if s.Log.Output == "" {
		s.Log.Output = d.Log.Output
	}
	if s.Retry.MaxBackoff == 0 {
		s.Retry.MaxBackoff = d.Retry.MaxBackoff
	}
}

func applyEnv(s *Settings) error {
	s.Region = getEnvOrDefault("AWS_REGION", s.Region)
	s.Profile = getEnvOrDefault("AWS_PROFILE", s.Profile)
	s.ProtectTag = getEnvOrDefault("RECLAIMER_PROTECT_TAG", s.ProtectTag)
	s.Schedule = getEnvOrDefault("RECLAIMER_SCHEDULE", s.Schedule)
	s.PushgatewayURL = getEnvOrDefault("RECLAIMER_PUSHGATEWAY_URL", s.PushgatewayURL)
	s.Log.Level = getEnvOrDefault("RECLAIMER_LOG_LEVEL", s.Log.Level)
	s.Log.Format = getEnvOrDefault("RECLAIMER_LOG_FORMAT", s.Log.Format)

	var err error
	if s.RetentionDays, err = getEnvInt("RECLAIMER_RETENTION_DAYS", s.RetentionDays); err != nil {
		return err
	}
	if s.Retry.MaxAttempts, err = getEnvInt("RECLAIMER_MAX_ATTEMPTS", s.Retry.MaxAttempts); err != nil {
		return err
	}
	if v := os.Getenv("RECLAIMER_DRY_RUN"); v != "" {
		dryRun, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("RECLAIMER_DRY_RUN: %w", err)
		}
		s.DryRun = dryRun
	}

	return nil
}

// Validate reports every problem at once
func (s *Settings) Validate() []error {
	var errs []error

	if s.RetentionDays < 0 {
		errs = append(errs, fmt.Errorf("retention_days must be non-negative, got %d", s.RetentionDays))
	}
	if s.PageSize < 0 {
		errs = append(errs, fmt.Errorf("page_size must be non-negative, got %d", s.PageSize))
	}
	if s.Retry.MaxAttempts < 1 {
		errs = append(errs, fmt.Errorf("retry.max_attempts must be at least 1, got %d", s.Retry.MaxAttempts))
	}
	if _, err := cron.ParseStandard(s.Schedule); err != nil {
		errs = append(errs, fmt.Errorf("invalid schedule %q: %w", s.Schedule, err))
	}
	if s.PushgatewayURL != "" {
		if u, err := url.Parse(s.PushgatewayURL); err != nil || u.Scheme == "" || u.Host == "" {
			errs = append(errs, fmt.Errorf("invalid pushgateway_url %q", s.PushgatewayURL))
		}
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[strings.ToLower(s.Log.Level)] {
		errs = append(errs, fmt.Errorf("invalid log.level: %s (expected: debug, info, warn, error)", s.Log.Level))
	}
	validFormats := map[string]bool{"json": true, "logfmt": true, "terminal": true}
	if !validFormats[strings.ToLower(s.Log.Format)] {
		errs = append(errs, fmt.Errorf("invalid log.format: %s (expected: json, logfmt, terminal)", s.Log.Format))
	}

	return errs
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}
