package output

import (
	"fmt"
	"io"

	"github.com/dsablic/healthlog/internal/model"
	"github.com/dsablic/healthlog/internal/trend"
)

// WriteMarkdown writes the dashboard as GitHub-flavored markdown to w.
func WriteMarkdown(w io.Writer, d model.Dashboard) error {
	fmt.Fprintf(w, "# Health Dashboard\n\n")
	fmt.Fprintf(w, "**Date:** %s\n", d.Date)
	if d.GeneratedAt != "" {
		fmt.Fprintf(w, "**Generated:** %s\n", d.GeneratedAt)
	}
	fmt.Fprintf(w, "**Logged days:** %d of %d\n\n", d.LoggedDays, d.WindowSize)

	fmt.Fprintf(w, "## Score\n\n")
	fmt.Fprintf(w, "**%d / 100** (%s)\n\n", d.Score, d.Rating)
	fmt.Fprintf(w, "| Category | Score |\n")
	fmt.Fprintf(w, "|----------|------:|\n")
	for _, c := range model.Categories {
		fmt.Fprintf(w, "| %s | %.0f |\n", c, d.Breakdown[c])
	}
	fmt.Fprintln(w)

	if err := WriteTrendMarkdown(w, d.Trend, d.Changes); err != nil {
		return err
	}

	writeList(w, "Insights", d.Insights)
	writeList(w, "Recommendations", d.Recommendations)

	if len(d.Errors) > 0 {
		writeList(w, "Errors", d.Errors)
	}
	return nil
}

// WriteTrendMarkdown writes the trend series as a table, one row per day,
// followed by the period change row when changes is non-nil.
func WriteTrendMarkdown(w io.Writer, series []model.TrendPoint, changes map[model.MetricKey]int) error {
	fmt.Fprintf(w, "## Trend\n\n")
	fmt.Fprintf(w, "| Date |")
	for _, k := range model.MetricKeys {
		fmt.Fprintf(w, " %s |", k)
	}
	fmt.Fprintf(w, "\n|------|")
	for range model.MetricKeys {
		fmt.Fprintf(w, "-----:|")
	}
	fmt.Fprintln(w)

	for _, p := range series {
		if p.Placeholder {
			fmt.Fprintf(w, "| %s |", p.Date)
			for range model.MetricKeys {
				fmt.Fprintf(w, " - |")
			}
			fmt.Fprintln(w)
			continue
		}
		fmt.Fprintf(w, "| %s |", p.Date)
		for _, k := range model.MetricKeys {
			v, _ := p.Value(k)
			fmt.Fprintf(w, " %g |", v)
		}
		fmt.Fprintln(w)
	}

	if changes != nil {
		fmt.Fprintf(w, "| **Change** |")
		for _, k := range model.MetricKeys {
			fmt.Fprintf(w, " %s |", trend.FormatChange(changes[k]))
		}
		fmt.Fprintln(w)
	}
	fmt.Fprintln(w)
	return nil
}

func writeList(w io.Writer, title string, items []string) {
	fmt.Fprintf(w, "## %s\n\n", title)
	if len(items) == 0 {
		fmt.Fprintf(w, "_Not enough data yet._\n\n")
		return
	}
	for _, item := range items {
		fmt.Fprintf(w, "- %s\n", item)
	}
	fmt.Fprintln(w)
}
