package settings

import "time"

// Settings is the full configuration of a reclaimer process
type Settings struct {
	Region  string `yaml:"region"`
	Profile string `yaml:"profile"`

	RetentionDays int    `yaml:"retention_days"`
	DryRun        bool   `yaml:"dry_run"`
	ProtectTag    string `yaml:"protect_tag"`
	PageSize      int    `yaml:"page_size"`

	Schedule       string `yaml:"schedule"`
	PushgatewayURL string `yaml:"pushgateway_url"`

	Log   LogSettings   `yaml:"log"`
	Retry RetrySettings `yaml:"retry"`
}

type LogSettings struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json, logfmt, terminal
	Output string `yaml:"output"` // stdout, stderr or a file path
}

type RetrySettings struct {
	MaxAttempts int           `yaml:"max_attempts"`
	MaxBackoff  time.Duration `yaml:"max_backoff"`
}
