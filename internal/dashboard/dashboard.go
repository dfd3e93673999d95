package dashboard

import (
	"time"

	"github.com/dsablic/healthlog/internal/insight"
	"github.com/dsablic/healthlog/internal/model"
	"github.com/dsablic/healthlog/internal/score"
	"github.com/dsablic/healthlog/internal/trend"
)

// Options configures Build. Zero values select the defaults.
type Options struct {
	WindowSize int
	EndDate    model.Day
	Engine     *score.Engine
	Rules      *insight.Generator
	Now        time.Time
}

// Build aggregates entries into a dashboard: the gap-filled trend window,
// the score of the latest logged day in the window, period changes, and the
// insights and recommendations for that window.
func Build(entries []model.DailyLogEntry, opts Options) model.Dashboard {
	engine := opts.Engine
	if engine == nil {
		engine = score.Default()
	}
	rules := opts.Rules
	if rules == nil {
		rules = insight.Default()
	}

	window := trend.BuildWindow(entries, opts.WindowSize, opts.EndDate)
	inWindow := Window(entries, window)

	d := model.Dashboard{
		Date:       window[len(window)-1].Date,
		WindowSize: len(window),
		LoggedDays: len(inWindow),
		Trend:      window,
		Changes:    trend.Changes(window),
	}
	if !opts.Now.IsZero() {
		d.GeneratedAt = opts.Now.UTC().Format(time.RFC3339)
	}

	latest := model.Latest(inWindow)
	var scored model.DailyLogEntry
	if latest != nil {
		scored = *latest
	}
	d.Score = engine.Composite(scored)
	d.Rating = score.Classify(d.Score)
	d.Breakdown = engine.Breakdown(scored)
	d.Insights = rules.Insights(inWindow)
	d.Recommendations = rules.Recommendations(latest)

	return d
}

// Window returns the deduplicated entries whose dates fall inside the
// series' date range, oldest first.
func Window(entries []model.DailyLogEntry, series []model.TrendPoint) []model.DailyLogEntry {
	if len(series) == 0 {
		return nil
	}
	start := series[0].Date
	end := series[len(series)-1].Date

	var out []model.DailyLogEntry
	for _, e := range model.Dedupe(entries) {
		if e.Date.Before(start.Time) || e.Date.After(end.Time) {
			continue
		}
		out = append(out, e)
	}
	return out
}
