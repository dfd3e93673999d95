package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"

	"github.com/dsablic/healthlog/internal/model"
	"github.com/dsablic/healthlog/internal/trend"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	infoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	headerStyle  = lipgloss.NewStyle().Bold(true).Underline(true)
	labelStyle   = lipgloss.NewStyle().Width(10)
	upStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	downStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
	selectedTab  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205")).Padding(0, 1)
	tabStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Padding(0, 1)
	panelStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("63")).Padding(0, 1)
	ratingColors = map[model.Rating]lipgloss.Color{
		model.RatingExcellent: "42",
		model.RatingGood:      "114",
		model.RatingFair:      "214",
		model.RatingPoor:      "203",
	}
)

const (
	defaultBarWidth = 30
	sparkBlocks     = "▁▂▃▄▅▆▇█"
)

func newBar(width int) progress.Model {
	if width <= 0 {
		width = defaultBarWidth
	}
	return progress.New(
		progress.WithDefaultGradient(),
		progress.WithWidth(width),
		progress.WithoutPercentage(),
	)
}

// RenderDashboard renders a styled dashboard. barWidth <= 0 uses the default.
func RenderDashboard(d model.Dashboard, barWidth int) string {
	var b strings.Builder
	bar := newBar(barWidth)

	rating := lipgloss.NewStyle().Bold(true).Foreground(ratingColors[d.Rating])
	b.WriteString(titleStyle.Render("Health Dashboard") + "  " + infoStyle.Render(d.Date.String()) + "\n\n")
	b.WriteString(fmt.Sprintf("Score %s  %s\n", rating.Render(fmt.Sprintf("%d", d.Score)), rating.Render(string(d.Rating))))
	b.WriteString(bar.ViewAs(float64(d.Score)/100) + "\n")
	b.WriteString(infoStyle.Render(fmt.Sprintf("%d of %d days logged", d.LoggedDays, d.WindowSize)) + "\n\n")

	b.WriteString(headerStyle.Render("Breakdown") + "\n")
	for _, c := range model.Categories {
		v := d.Breakdown[c]
		b.WriteString(labelStyle.Render(string(c)) + " " + bar.ViewAs(v/100) + fmt.Sprintf(" %3.0f\n", v))
	}
	b.WriteString("\n")

	b.WriteString(headerStyle.Render("Trend") + "\n")
	for _, k := range model.MetricKeys {
		b.WriteString(labelStyle.Render(string(k)) + " " + Sparkline(d.Trend, k) + "  " + styleChange(d.Changes[k]) + "\n")
	}
	b.WriteString("\n")

	writeSection(&b, "Insights", d.Insights)
	writeSection(&b, "Recommendations", d.Recommendations)
	if len(d.Errors) > 0 {
		writeSection(&b, "Errors", d.Errors)
	}
	return b.String()
}

func writeSection(b *strings.Builder, title string, items []string) {
	b.WriteString(headerStyle.Render(title) + "\n")
	if len(items) == 0 {
		b.WriteString(infoStyle.Render("  Not enough data yet.") + "\n\n")
		return
	}
	for _, item := range items {
		b.WriteString("  • " + item + "\n")
	}
	b.WriteString("\n")
}

func styleChange(change int) string {
	s := trend.FormatChange(change)
	switch {
	case change > 0:
		return upStyle.Render(s)
	case change < 0:
		return downStyle.Render(s)
	}
	return infoStyle.Render(s)
}

// Sparkline draws one block per point scaled to the series maximum for key.
// Placeholder days are drawn as a dot.
func Sparkline(series []model.TrendPoint, key model.MetricKey) string {
	blocks := []rune(sparkBlocks)
	var maxV float64
	for _, p := range series {
		if v, _ := p.Value(key); !p.Placeholder && v > maxV {
			maxV = v
		}
	}

	var b strings.Builder
	for _, p := range series {
		if p.Placeholder {
			b.WriteRune('·')
			continue
		}
		v, _ := p.Value(key)
		idx := 0
		if maxV > 0 && v > 0 {
			idx = int(v / maxV * float64(len(blocks)-1))
		}
		b.WriteRune(blocks[idx])
	}
	return b.String()
}

// RenderPlain renders the dashboard as unstyled text for pipes and logs.
func RenderPlain(d model.Dashboard) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Health Dashboard %s\n", d.Date)
	fmt.Fprintf(&b, "Score: %d (%s), %d of %d days logged\n", d.Score, d.Rating, d.LoggedDays, d.WindowSize)
	for _, c := range model.Categories {
		fmt.Fprintf(&b, "  %-10s %3.0f\n", c, d.Breakdown[c])
	}
	b.WriteString("Changes:\n")
	for _, k := range model.MetricKeys {
		fmt.Fprintf(&b, "  %-10s %s\n", k, trend.FormatChange(d.Changes[k]))
	}
	plainList(&b, "Insights", d.Insights)
	plainList(&b, "Recommendations", d.Recommendations)
	if len(d.Errors) > 0 {
		plainList(&b, "Errors", d.Errors)
	}
	return b.String()
}

func plainList(b *strings.Builder, title string, items []string) {
	fmt.Fprintf(b, "%s:\n", title)
	for _, item := range items {
		fmt.Fprintf(b, "  - %s\n", item)
	}
}
