package response

import (
	"github.com/elC0mpa/ebs-reclaimer/model"
)

// ConvertAccountInfo converts model.AccountInfo to response.AccountInfo
func ConvertAccountInfo(info *model.AccountInfo) *AccountInfo {
	if info == nil {
		return nil
	}
	return &AccountInfo{
		Provider:    info.Provider,
		AccountID:   info.AccountID,
		AccountName: info.AccountName,
	}
}

// ConvertReport summarizes a run report
func ConvertReport(report *model.Report) *ReclaimSummary {
	if report == nil {
		return nil
	}

	skipped := make(map[string]int)
	for reason, n := range report.SkipCounts() {
		skipped[string(reason)] = n
	}

	failures := make([]Failure, 0, len(report.Failures))
	for _, f := range report.Failures {
		failures = append(failures, Failure{
			ID:           f.ID,
			ResourceType: f.ResourceType,
			Kind:         f.Kind,
			Error:        f.Error,
		})
	}

	return &ReclaimSummary{
		RunID:              report.RunID,
		AccountID:          report.AccountID,
		Region:             report.Region,
		DryRun:             report.DryRun,
		State:              string(report.State),
		Error:              report.Error,
		RetentionDays:      report.RetentionDaysUsed,
		VolumesInspected:   report.VolumesInspected,
		VolumesDeleted:     report.VolumesDeleted,
		SnapshotsInspected: report.SnapshotsInspected,
		SnapshotsDeleted:   report.SnapshotsDeleted,
		SkippedByReason:    skipped,
		Failures:           failures,
		ReclaimedGiB:       report.ReclaimedGiB,
		DurationSeconds:    report.DurationSeconds,
	}
}
