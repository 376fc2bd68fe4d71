package flag

import (
	"github.com/elC0mpa/ebs-reclaimer/model"
	"github.com/elC0mpa/ebs-reclaimer/service/settings"
	"github.com/spf13/pflag"
)

type service struct {
	fs    *pflag.FlagSet
	flags model.Flags
}

type FlagService interface {
	// GetParsedFlags returns flag values, falling back to cfg for any flag
	// the user did not set.
	GetParsedFlags(cfg *settings.Settings) (model.Flags, error)
}
