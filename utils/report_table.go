package utils

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"github.com/elC0mpa/ebs-reclaimer/model"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// DrawReportTable renders a run report as a summary table followed by the
// skipped and failed resources.
func DrawReportTable(w io.Writer, report *model.Report) {
	title := " EBS RECLAIM REPORT"
	if report.DryRun {
		title += " (dry run)"
	}
	fmt.Fprintf(w, "\n%s\n", text.FgHiWhite.Sprint(title))
	fmt.Fprintf(w, " Account ID: %s  Region: %s  Run: %s\n",
		text.FgBlue.Sprint(orDash(report.AccountID)),
		text.FgBlue.Sprint(orDash(report.Region)),
		report.RunID)
	fmt.Fprintln(w, text.FgHiBlue.Sprint(" ------------------------------------------------"))

	drawSummary(w, report)

	if len(report.VolumesSkipped)+len(report.SnapshotsSkipped) > 0 {
		drawSkipped(w, report)
	}
	if len(report.Failures) > 0 {
		drawFailures(w, report.Failures)
	}
	if report.Error != "" {
		fmt.Fprintf(w, "\n %s %s\n", text.FgHiRed.Sprint("Run aborted:"), report.Error)
	}
}

// PrintReportJSON writes the report exactly as the Lambda handler returns it
func PrintReportJSON(w io.Writer, report *model.Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}

func drawSummary(w io.Writer, report *model.Report) {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.SetTitle("Summary")
	tw.AppendHeader(table.Row{"Resource", "Inspected", "Deleted", "Skipped"})
	tw.SetStyle(table.StyleRounded)
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, Align: text.AlignRight},
		{Number: 3, Align: text.AlignRight},
		{Number: 4, Align: text.AlignRight},
	})

	tw.AppendRow(table.Row{
		"Volumes",
		report.VolumesInspected,
		deletedCell(len(report.VolumesDeleted)),
		len(report.VolumesSkipped),
	})
	tw.AppendRow(table.Row{
		"Snapshots",
		report.SnapshotsInspected,
		deletedCell(len(report.SnapshotsDeleted)),
		len(report.SnapshotsSkipped),
	})

	stateColor := text.FgHiGreen
	if report.State == model.RunStateAborted {
		stateColor = text.FgHiRed
	}
	tw.AppendFooter(table.Row{
		stateColor.Sprint(string(report.State)),
		fmt.Sprintf("retention %dd", report.RetentionDaysUsed),
		fmt.Sprintf("%d GiB", report.ReclaimedGiB),
		report.Duration,
	})
	tw.Render()
}

func drawSkipped(w io.Writer, report *model.Report) {
	counts := report.SkipCounts()
	reasons := make([]model.SkipReason, 0, len(counts))
	for reason := range counts {
		reasons = append(reasons, reason)
	}
	sort.Slice(reasons, func(i, j int) bool {
		if counts[reasons[i]] != counts[reasons[j]] {
			return counts[reasons[i]] > counts[reasons[j]]
		}
		return reasons[i] < reasons[j]
	})

	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.SetTitle("Skipped by reason")
	tw.AppendHeader(table.Row{"Reason", "Count", "Examples"})
	tw.SetStyle(table.StyleRounded)
	tw.SetColumnConfigs([]table.ColumnConfig{{Number: 2, Align: text.AlignRight}})

	examples := skipExamples(report, 3)
	for _, reason := range reasons {
		tw.AppendRow(table.Row{
			text.FgYellow.Sprint(string(reason)),
			counts[reason],
			examples[reason],
		})
	}
	tw.Render()
}

func drawFailures(w io.Writer, failures []model.Failure) {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.SetTitle("Delete failures")
	tw.AppendHeader(table.Row{"Resource", "ID", "Kind", "Error"})
	tw.SetStyle(table.StyleRounded)

	for _, f := range failures {
		tw.AppendRow(table.Row{
			f.ResourceType,
			f.ID,
			text.FgRed.Sprint(f.Kind),
			f.Error,
		})
	}
	tw.Render()
}

func skipExamples(report *model.Report, limit int) map[model.SkipReason]string {
	ids := make(map[model.SkipReason][]string)
	add := func(skips []model.SkippedResource) {
		for _, s := range skips {
			if len(ids[s.Reason]) < limit {
				ids[s.Reason] = append(ids[s.Reason], s.ID)
			}
		}
	}
	add(report.VolumesSkipped)
	add(report.SnapshotsSkipped)

	out := make(map[model.SkipReason]string, len(ids))
	for reason, list := range ids {
		line := ""
		for i, id := range list {
			if i > 0 {
				line += ", "
			}
			line += id
		}
		out[reason] = line
	}
	return out
}

func deletedCell(n int) string {
	if n == 0 {
		return "0"
	}
	return text.FgHiGreen.Sprint(n)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
