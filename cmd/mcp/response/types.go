package response

// AccountInfo represents cloud account identity
type AccountInfo struct {
	Provider    string `json:"provider"`
	AccountID   string `json:"account_id"`
	AccountName string `json:"account_name"`
}

// Failure is a delete that did not succeed
type Failure struct {
	ID           string `json:"id"`
	ResourceType string `json:"resource_type"`
	Kind         string `json:"kind"`
	Error        string `json:"error"`
}

// ReclaimSummary is a run report trimmed for an assistant: skipped resources
// are counted by reason instead of listed.
type ReclaimSummary struct {
	RunID              string         `json:"run_id"`
	AccountID          string         `json:"account_id"`
	Region             string         `json:"region"`
	DryRun             bool           `json:"dry_run"`
	State              string         `json:"state"`
	Error              string         `json:"error,omitempty"`
	RetentionDays      int            `json:"retention_days_used"`
	VolumesInspected   int            `json:"volumes_inspected"`
	VolumesDeleted     []string       `json:"volumes_deleted"`
	SnapshotsInspected int            `json:"snapshots_inspected"`
	SnapshotsDeleted   []string       `json:"snapshots_deleted"`
	SkippedByReason    map[string]int `json:"skipped_by_reason"`
	Failures           []Failure      `json:"failures"`
	ReclaimedGiB       int64          `json:"reclaimed_gib"`
	DurationSeconds    float64        `json:"duration_seconds"`
}
