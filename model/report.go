package model

import "time"

// RunState is the lifecycle state of a reclamation run
type RunState string

const (
	RunStateScanning RunState = "scanning"
	RunStateMutating RunState = "mutating"
	RunStateDone     RunState = "done"
	RunStateAborted  RunState = "aborted"
)

// SkipReason explains why a resource was not deleted
type SkipReason string

const (
	SkipInUse             SkipReason = "in-use"
	SkipTooYoung          SkipReason = "too-young"
	SkipUnknownAge        SkipReason = "unknown-age"
	SkipReferencedByImage SkipReason = "referenced-by-image"
	SkipProtected         SkipReason = "protected"
)

// Resource types as they appear in reports and metrics
const (
	ResourceVolume   = "volume"
	ResourceSnapshot = "snapshot"
)

// Failure kinds
const (
	FailureInUse      = "in-use"
	FailurePermission = "permission"
	FailureOther      = "other"
)

// SkippedResource is a resource that was inspected but kept
type SkippedResource struct {
	ID     string     `json:"id"`
	Reason SkipReason `json:"reason"`
}

// Failure is a delete attempt that did not succeed
type Failure struct {
	ID           string `json:"id"`
	ResourceType string `json:"resource_type"`
	Kind         string `json:"kind"`
	Error        string `json:"error"`
}

// Report summarizes a single reclamation run
type Report struct {
	RunID              string            `json:"run_id"`
	AccountID          string            `json:"account_id,omitempty"`
	Region             string            `json:"region,omitempty"`
	DryRun             bool              `json:"dry_run"`
	State              RunState          `json:"state"`
	Error              string            `json:"error,omitempty"`
	RetentionDaysUsed  int               `json:"retention_days_used"`
	StartedAt          time.Time         `json:"started_at"`
	VolumesInspected   int               `json:"volumes_inspected"`
	VolumesDeleted     []string          `json:"volumes_deleted"`
	VolumesSkipped     []SkippedResource `json:"volumes_skipped"`
	SnapshotsInspected int               `json:"snapshots_inspected"`
	SnapshotsDeleted   []string          `json:"snapshots_deleted"`
	SnapshotsSkipped   []SkippedResource `json:"snapshots_skipped"`
	Failures           []Failure         `json:"failures"`
	ReclaimedGiB       int64             `json:"reclaimed_gib"`
	Duration           string            `json:"duration"`
	DurationSeconds    float64           `json:"duration_seconds"`
}

// NewReport returns an empty report with non-nil lists so it serializes as []
func NewReport(runID string, retentionDays int, startedAt time.Time) *Report {
	return &Report{
		RunID:             runID,
		State:             RunStateScanning,
		RetentionDaysUsed: retentionDays,
		StartedAt:         startedAt,
		VolumesDeleted:    []string{},
		VolumesSkipped:    []SkippedResource{},
		SnapshotsDeleted:  []string{},
		SnapshotsSkipped:  []SkippedResource{},
		Failures:          []Failure{},
	}
}

// Finish stamps the wall-clock duration
func (r *Report) Finish(elapsed time.Duration) {
	r.Duration = elapsed.Round(time.Millisecond).String()
	r.DurationSeconds = elapsed.Seconds()
}

// SkipCounts groups skipped resources of both kinds by reason
func (r *Report) SkipCounts() map[SkipReason]int {
	counts := make(map[SkipReason]int)
	for _, s := range r.VolumesSkipped {
		counts[s.Reason]++
	}
	for _, s := range r.SnapshotsSkipped {
		counts[s.Reason]++
	}
	return counts
}
