package flag

import (
	"fmt"

	"github.com/elC0mpa/ebs-reclaimer/model"
	"github.com/elC0mpa/ebs-reclaimer/service/settings"
	"github.com/spf13/pflag"
)

const (
	flagConfig    = "config"
	flagRegion    = "region"
	flagProfile   = "profile"
	flagRetention = "retention-days"
	flagDryRun    = "dry-run"
	flagProtect   = "protect-tag"
	flagSchedule  = "schedule"
	flagOutput    = "output"
)

// NewService registers the reclaimer flags on fs. Call GetParsedFlags after
// fs has been parsed.
func NewService(fs *pflag.FlagSet) *service {
	s := &service{fs: fs}

	fs.StringVarP(&s.flags.ConfigPath, flagConfig, "c", "", "Path to a YAML config file")
	fs.StringVar(&s.flags.Region, flagRegion, "", "AWS region (default from config, then us-east-1)")
	fs.StringVar(&s.flags.Profile, flagProfile, "", "AWS profile configuration")
	fs.IntVar(&s.flags.RetentionDays, flagRetention, settings.DefaultRetentionDays, "Minimum age in days before a resource is deleted")
	fs.BoolVar(&s.flags.DryRun, flagDryRun, false, "Classify and verify permissions without deleting anything")
	fs.StringVar(&s.flags.ProtectTag, flagProtect, "", "Never delete resources carrying this tag key")
	fs.StringVar(&s.flags.Schedule, flagSchedule, "", "Cron expression for the schedule command")
	fs.StringVarP(&s.flags.Output, flagOutput, "o", "table", "Report format: table or json")

	return s
}

// ConfigPath is available before settings are loaded
func (s *service) ConfigPath() string {
	return s.flags.ConfigPath
}

func (s *service) GetParsedFlags(cfg *settings.Settings) (model.Flags, error) {
	flags := s.flags
	if cfg == nil {
		cfg = settings.Default()
	}

	if !s.fs.Changed(flagRegion) {
		flags.Region = cfg.Region
	}
	if !s.fs.Changed(flagProfile) {
		flags.Profile = cfg.Profile
	}
	if !s.fs.Changed(flagRetention) {
		flags.RetentionDays = cfg.RetentionDays
	}
	if !s.fs.Changed(flagDryRun) {
		flags.DryRun = cfg.DryRun
	}
	if !s.fs.Changed(flagProtect) {
		flags.ProtectTag = cfg.ProtectTag
	}
	if !s.fs.Changed(flagSchedule) {
		flags.Schedule = cfg.Schedule
	}

	if flags.RetentionDays < 0 {
		return flags, fmt.Errorf("%w: --%s must not be negative, got %d", model.ErrInvalidRetention, flagRetention, flags.RetentionDays)
	}
	if flags.Output != "table" && flags.Output != "json" {
		return flags, fmt.Errorf("--%s must be table or json, got %q", flagOutput, flags.Output)
	}

	return flags, nil
}
