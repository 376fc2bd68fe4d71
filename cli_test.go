package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/elC0mpa/ebs-reclaimer/service/flag"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCmd_Commands(t *testing.T) {
	root := newRootCmd()

	var names []string
	for _, c := range root.Commands() {
		names = append(names, c.Name())
	}

	assert.ElementsMatch(t, []string{"run", "plan", "schedule"}, names)
	for _, c := range root.Commands() {
		assert.NotNil(t, c.Flags().Lookup("retention-days"), c.Name())
		assert.NotNil(t, c.Flags().Lookup("dry-run"), c.Name())
	}
}

func TestPrepare_FlagsOverrideConfigFile(t *testing.T) {
	t.Setenv("AWS_REGION", "")
	t.Setenv("RECLAIMER_RETENTION_DAYS", "")
	t.Setenv("RECLAIMER_PROTECT_TAG", "")
	path := filepath.Join(t.TempDir(), "reclaimer.yaml")
	require.NoError(t, os.WriteFile(path, []byte("region: eu-west-1\nretention_days: 30\nprotect_tag: keep\n"), 0o600))

	fs := pflag.NewFlagSet("run", pflag.ContinueOnError)
	flagService := flag.NewService(fs)
	require.NoError(t, fs.Parse([]string{"--config", path, "--retention-days", "3"}))

	flags, cfg, logger, err := prepare(flagService)
	require.NoError(t, err)

	assert.NotNil(t, logger)
	assert.Equal(t, 30, cfg.RetentionDays)
	assert.Equal(t, 3, flags.RetentionDays)
	assert.Equal(t, "eu-west-1", flags.Region)
	assert.Equal(t, "keep", flags.ProtectTag)
}

func TestPrepare_InvalidConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reclaimer.yaml")
	require.NoError(t, os.WriteFile(path, []byte("retention_days: -2\nschedule: nonsense\n"), 0o600))

	fs := pflag.NewFlagSet("run", pflag.ContinueOnError)
	flagService := flag.NewService(fs)
	require.NoError(t, fs.Parse([]string{"--config", path}))

	_, _, _, err := prepare(flagService)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "retention_days must be non-negative")
	assert.Contains(t, err.Error(), "invalid schedule")
}
