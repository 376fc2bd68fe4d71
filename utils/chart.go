package utils

import (
	"fmt"
	"io"
	"sort"

	"github.com/NimbleMarkets/ntcharts/barchart"
	"github.com/charmbracelet/lipgloss"
	"github.com/elC0mpa/ebs-reclaimer/model"
	"github.com/jedib0t/go-pretty/v6/text"
)

const (
	ColorRank1 = "#d73027"
	ColorRank2 = "#f46d43"
	ColorRank3 = "#fee08b"
	ColorRank4 = "#abdda4"
	ColorRank5 = "#66c2a5"
	ColorRank6 = "#1a9850"
)

var defaultStyle = lipgloss.NewStyle().
	BorderStyle(lipgloss.NormalBorder()).
	BorderForeground(lipgloss.Color("#F4D060"))

type outcome struct {
	label string
	count int
}

// DrawOutcomeChart plots how many resources ended in each outcome
func DrawOutcomeChart(w io.Writer, report *model.Report) {
	outcomes := reportOutcomes(report)
	if len(outcomes) == 0 {
		return
	}

	fmt.Fprintf(w, "\n%s\n", text.FgHiWhite.Sprint(" OUTCOMES"))

	bc := barchart.New(100, 16)
	colors := assignRankedColors(outcomes)

	for idx, o := range outcomes {
		bc.Push(barchart.BarData{
			Label: fmt.Sprintf("%s: %d", o.label, o.count),
			Values: []barchart.BarValue{
				{
					Value: float64(o.count),
					Style: lipgloss.NewStyle().Foreground(lipgloss.Color(colors[idx])),
				},
			},
		})
	}

	bc.Draw()
	fmt.Fprintln(w, lipgloss.JoinHorizontal(lipgloss.Top, defaultStyle.Render(bc.View())))
}

// reportOutcomes lists deleted, failed and each skip reason, omitting zeros
func reportOutcomes(report *model.Report) []outcome {
	var out []outcome

	if n := len(report.VolumesDeleted) + len(report.SnapshotsDeleted); n > 0 {
		out = append(out, outcome{label: "deleted", count: n})
	}

	counts := report.SkipCounts()
	reasons := make([]string, 0, len(counts))
	for reason := range counts {
		reasons = append(reasons, string(reason))
	}
	sort.Strings(reasons)
	for _, reason := range reasons {
		out = append(out, outcome{label: reason, count: counts[model.SkipReason(reason)]})
	}

	if n := len(report.Failures); n > 0 {
		out = append(out, outcome{label: "failed", count: n})
	}
	return out
}

func assignRankedColors(outcomes []outcome) []string {
	palette := []string{ColorRank1, ColorRank2, ColorRank3, ColorRank4, ColorRank5, ColorRank6}

	order := make([]int, len(outcomes))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		return outcomes[order[i]].count > outcomes[order[j]].count
	})

	colors := make([]string, len(outcomes))
	for rank, idx := range order {
		colors[idx] = palette[rank%len(palette)]
	}
	return colors
}
