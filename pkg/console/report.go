package console

import (
	"fmt"
	"strings"
	"time"

	"github.com/NimbleMarkets/ntcharts/canvas/runes"
	"github.com/NimbleMarkets/ntcharts/linechart/streamlinechart"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/tidepool-robotics/reefrunner/pkg/session"
)

const (
	chartWidth  = 60
	chartHeight = 12
)

var (
	chartStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("240"))
	overStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
)

// Data set colors for the timeline chart.
var seriesColors = map[string]string{
	"active": "51",
	"budget": "208",
}

// RenderTimeline charts cumulative active run time since the session start
// against the match budget. Runs before start are left out, matching
// Summary.Active.
func RenderTimeline(records []session.Record, start time.Duration) string {
	cumulative := activeSeries(records, start)
	var total float64
	if len(cumulative) > 0 {
		total = cumulative[len(cumulative)-1]
	}

	budget := session.Budget.Seconds()
	top := budget * 1.2
	if total > top {
		top = total * 1.1
	}

	chart := streamlinechart.New(chartWidth, chartHeight,
		streamlinechart.WithYRange(0, top),
	)
	for name, color := range seriesColors {
		style := lipgloss.NewStyle().Foreground(lipgloss.Color(color))
		chart.SetDataSetStyles(name, runes.ThinLineStyle, style)
	}
	for _, v := range cumulative {
		chart.PushDataSet("active", v)
		chart.PushDataSet("budget", budget)
	}
	chart.DrawAll()

	var sb strings.Builder
	sb.WriteString(SubHeaderStyle.Render("Active time since run 1"))
	sb.WriteString("\n")
	sb.WriteString(chartStyle.Render(chart.View()))
	sb.WriteString("\n")
	sb.WriteString(renderLegend())
	return sb.String()
}

// activeSeries returns the running total, in seconds, of the runs started at
// or after start.
func activeSeries(records []session.Record, start time.Duration) []float64 {
	var total float64
	out := make([]float64, 0, len(records))
	for _, r := range records {
		if r.Started < start {
			continue
		}
		total += r.Elapsed.Seconds()
		out = append(out, total)
	}
	return out
}

func renderLegend() string {
	var items []string
	for _, name := range []string{"active", "budget"} {
		colorStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(seriesColors[name])).Bold(true)
		items = append(items, colorStyle.Render("━━")+" "+name)
	}
	return strings.Join(items, "  ")
}

// RenderRecords renders the per-run timing table.
func RenderRecords(records []session.Record) string {
	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12")).Padding(0, 1)
	cellStyle := lipgloss.NewStyle().Padding(0, 1)
	failStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Padding(0, 1)

	rows := make([][]string, 0, len(records))
	for _, r := range records {
		status := "ok"
		if r.Err != nil {
			status = "failed"
		}
		rows = append(rows, []string{
			fmt.Sprintf("#%d", r.Run),
			fmt.Sprintf("%.1fs", r.Started.Seconds()),
			fmt.Sprintf("%.1fs", r.Elapsed.Seconds()),
			status,
		})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(DimStyle).
		Headers("Run", "Started", "Elapsed", "Status").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			if col == 3 && row >= 0 && row < len(records) && records[row].Err != nil {
				return failStyle
			}
			return cellStyle
		})
	return t.Render()
}

// RenderSummary renders the session result block.
func RenderSummary(s *session.Summary) string {
	var sb strings.Builder
	sb.WriteString(DimStyle.Render("---------------------------------------"))
	sb.WriteString("\n")
	sb.WriteString(HeaderStyle.Render("RESULTS:"))
	sb.WriteString("\n")
	if s.Incomplete {
		sb.WriteString("You didn't run everything.\n")
	} else {
		fmt.Fprintf(&sb, "Total time: %.1f seconds. This is %.1f%% of the time\n", s.Total.Seconds(), s.Percent)
		if s.Overage > 0 {
			sb.WriteString(overStyle.Render(fmt.Sprintf("Time exceeded by %.1f seconds.", s.Overage.Seconds())))
			sb.WriteString("\n")
		} else {
			sb.WriteString(SuccessStyle.Render("Within the time budget."))
			sb.WriteString("\n")
		}
	}
	sb.WriteString(DimStyle.Render("---------------------------------------"))
	return sb.String()
}
