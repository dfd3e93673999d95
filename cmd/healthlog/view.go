package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dsablic/healthlog/internal/model"
	"github.com/dsablic/healthlog/internal/output"
	"github.com/dsablic/healthlog/internal/trend"
	"github.com/dsablic/healthlog/internal/ui"
)

func checkFormat(format string) error {
	switch format {
	case "text", "json", "markdown":
		return nil
	}
	return fmt.Errorf("unsupported format %q (use text, json or markdown)", format)
}

func newDashboardCmd(a *app) *cobra.Command {
	var wf windowFlags
	var format string
	var interactive bool

	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Show the score, trends, insights and recommendations",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkFormat(format); err != nil {
				return err
			}
			d, err := a.buildDashboard(cmd.Context(), &wf)
			if err != nil {
				return err
			}
			if interactive {
				if !ui.IsTTY() {
					return fmt.Errorf("--interactive needs a terminal")
				}
				return ui.RunDashboard(d)
			}
			return writeDashboard(os.Stdout, d, format)
		},
	}
	wf.register(cmd)
	cmd.Flags().StringVar(&format, "format", "text", "Output format: text, json, markdown")
	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "Browse the dashboard interactively")
	return cmd
}

func writeDashboard(w io.Writer, d model.Dashboard, format string) error {
	switch format {
	case "json":
		return output.WriteJSON(w, d)
	case "markdown":
		return output.WriteMarkdown(w, d)
	}
	if ui.IsTTY() {
		_, err := fmt.Fprint(w, ui.RenderDashboard(d, 0))
		return err
	}
	_, err := fmt.Fprint(w, ui.RenderPlain(d))
	return err
}

type trendReport struct {
	Metric  model.MetricKey         `json:"metric,omitempty"`
	Average float64                 `json:"average,omitempty"`
	Series  []model.TrendPoint      `json:"series"`
	Changes map[model.MetricKey]int `json:"changes"`
}

func newTrendCmd(a *app) *cobra.Command {
	var wf windowFlags
	var format, metric string

	cmd := &cobra.Command{
		Use:   "trend",
		Short: "Show the gap-filled daily series and period changes",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkFormat(format); err != nil {
				return err
			}
			var key model.MetricKey
			if metric != "" {
				k, ok := model.ParseMetricKey(metric)
				if !ok {
					return fmt.Errorf("unknown metric %q", metric)
				}
				key = k
			}

			d, err := a.buildDashboard(cmd.Context(), &wf)
			if err != nil {
				return err
			}
			report := trendReport{Series: d.Trend, Changes: d.Changes}
			if key != "" {
				report.Metric = key
				report.Average = trend.Average(d.Trend, key)
			}

			switch format {
			case "json":
				return output.WriteJSON(os.Stdout, report)
			case "markdown":
				return output.WriteTrendMarkdown(os.Stdout, d.Trend, d.Changes)
			}
			keys := model.MetricKeys
			if key != "" {
				keys = []model.MetricKey{key}
			}
			for _, k := range keys {
				fmt.Fprintf(os.Stdout, "%-10s %s  %s  avg %.1f\n", k, ui.Sparkline(d.Trend, k),
					trend.FormatChange(d.Changes[k]), trend.Average(d.Trend, k))
			}
			fmt.Fprintf(os.Stdout, "%d of %d days logged\n", trend.Logged(d.Trend), len(d.Trend))
			return nil
		},
	}
	wf.register(cmd)
	cmd.Flags().StringVar(&format, "format", "text", "Output format: text, json, markdown")
	cmd.Flags().StringVar(&metric, "metric", "", "Only show one metric (mood, sleep, water, nutrition, stress, exercise)")
	return cmd
}

type insightReport struct {
	Insights        []string `json:"insights"`
	Recommendations []string `json:"recommendations"`
	Errors          []string `json:"errors,omitempty"`
}

func newInsightsCmd(a *app) *cobra.Command {
	var wf windowFlags
	var format string

	cmd := &cobra.Command{
		Use:   "insights",
		Short: "Show insights for the window and recommendations for the latest day",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkFormat(format); err != nil {
				return err
			}
			d, err := a.buildDashboard(cmd.Context(), &wf)
			if err != nil {
				return err
			}
			report := insightReport{Insights: d.Insights, Recommendations: d.Recommendations, Errors: d.Errors}

			switch format {
			case "json":
				return output.WriteJSON(os.Stdout, report)
			case "markdown":
				writeMarkdownList(os.Stdout, "Insights", report.Insights)
				writeMarkdownList(os.Stdout, "Recommendations", report.Recommendations)
				return nil
			}
			fmt.Fprintln(os.Stdout, "Insights:")
			for _, s := range report.Insights {
				fmt.Fprintf(os.Stdout, "  - %s\n", s)
			}
			fmt.Fprintln(os.Stdout, "Recommendations:")
			for _, s := range report.Recommendations {
				fmt.Fprintf(os.Stdout, "  - %s\n", s)
			}
			return nil
		},
	}
	wf.register(cmd)
	cmd.Flags().StringVar(&format, "format", "text", "Output format: text, json, markdown")
	return cmd
}

func writeMarkdownList(w io.Writer, title string, items []string) {
	fmt.Fprintf(w, "## %s\n\n", title)
	for _, item := range items {
		fmt.Fprintf(w, "- %s\n", strings.TrimSpace(item))
	}
	fmt.Fprintln(w)
}
