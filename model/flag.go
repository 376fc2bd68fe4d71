package model

type Flags struct {
	ConfigPath string

	// AWS-specific flags
	Region  string
	Profile string

	RetentionDays int
	DryRun        bool
	ProtectTag    string
	Schedule      string

	Output string // table, json
}
