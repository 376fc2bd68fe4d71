package main

import (
	"os"

	"github.com/elC0mpa/ebs-reclaimer/service/settings"
)

// LoadConfig reads RECLAIMER_CONFIG if set, then environment overrides
// (AWS_REGION, AWS_PROFILE, RECLAIMER_*).
func LoadConfig() (*settings.Settings, error) {
	cfg, err := settings.LoadValid(os.Getenv("RECLAIMER_CONFIG"))
	if err != nil {
		return nil, err
	}
	return cfg, nil
}
