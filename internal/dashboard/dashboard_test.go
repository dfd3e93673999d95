package dashboard

import (
	"testing"
	"time"

	"github.com/dsablic/healthlog/internal/insight"
	"github.com/dsablic/healthlog/internal/model"
	"github.com/dsablic/healthlog/internal/score"
)

func mustDay(t *testing.T, s string) model.Day {
	t.Helper()
	d, err := model.ParseDay(s)
	if err != nil {
		t.Fatalf("parse %q: %v", s, err)
	}
	return d
}

func TestBuild(t *testing.T) {
	entries := []model.DailyLogEntry{
		{Date: mustDay(t, "2026-02-05"), Mood: 50, SleepHours: 5, WaterConsumed: 8, Nutrition: 60, ExerciseDuration: 10},
		{Date: mustDay(t, "2026-02-07"), Mood: 80, SleepHours: 8, WaterConsumed: 8, Nutrition: 80, ExerciseDuration: 30},
		{Date: mustDay(t, "2026-02-06"), Mood: 75, SleepHours: 5, WaterConsumed: 8, Nutrition: 70, ExerciseDuration: 20},
		// Outside a 7-day window ending 2026-02-07.
		{Date: mustDay(t, "2026-01-20"), Mood: 10},
	}
	now := time.Date(2026, 2, 7, 20, 0, 0, 0, time.UTC)

	d := Build(entries, Options{Now: now})

	if d.GeneratedAt != "2026-02-07T20:00:00Z" {
		t.Errorf("unexpected generated_at %s", d.GeneratedAt)
	}
	if d.Date.String() != "2026-02-07" {
		t.Errorf("expected dashboard date 2026-02-07, got %s", d.Date)
	}
	if d.WindowSize != 7 || len(d.Trend) != 7 {
		t.Errorf("expected 7-day window, got size %d with %d points", d.WindowSize, len(d.Trend))
	}
	if d.LoggedDays != 3 {
		t.Errorf("expected 3 logged days, got %d", d.LoggedDays)
	}
	if d.Score != 91 {
		t.Errorf("expected latest entry score 91, got %d", d.Score)
	}
	if d.Rating != model.RatingExcellent {
		t.Errorf("expected excellent rating, got %s", d.Rating)
	}
	if d.Breakdown[model.CategorySleep] != 100 {
		t.Errorf("expected sleep 100 in breakdown, got %.1f", d.Breakdown[model.CategorySleep])
	}
	// mood 75 -> 80
	if d.Changes[model.MetricMood] != 7 {
		t.Errorf("expected mood change +7, got %d", d.Changes[model.MetricMood])
	}
	// average sleep 6 and 2 active days fire two insights
	if len(d.Insights) != 2 {
		t.Errorf("expected 2 insights, got %v", d.Insights)
	}
	if len(d.Recommendations) != 1 || d.Recommendations[0] != insight.OnTrackMessage {
		t.Errorf("expected on-track recommendation, got %v", d.Recommendations)
	}
}

func TestBuildEmpty(t *testing.T) {
	d := Build(nil, Options{WindowSize: 5, EndDate: mustDay(t, "2026-02-07")})

	if len(d.Trend) != 5 {
		t.Fatalf("expected 5 points, got %d", len(d.Trend))
	}
	if d.Score != 0 || d.Rating != model.RatingPoor {
		t.Errorf("expected score 0 rated poor, got %d %s", d.Score, d.Rating)
	}
	if len(d.Breakdown) != len(model.Categories) {
		t.Errorf("expected full breakdown, got %v", d.Breakdown)
	}
	if len(d.Insights) != 0 || len(d.Recommendations) != 0 {
		t.Errorf("expected no insights or recommendations, got %v %v", d.Insights, d.Recommendations)
	}
	if d.GeneratedAt != "" {
		t.Errorf("expected empty generated_at without Now, got %s", d.GeneratedAt)
	}
}

func TestBuildCustomEngine(t *testing.T) {
	entries := []model.DailyLogEntry{{Date: mustDay(t, "2026-02-07"), ExerciseDuration: 30}}

	d := Build(entries, Options{Engine: score.New(score.Weights{Activity: 1}, 60)})
	if d.Score != 50 {
		t.Errorf("expected activity-only score 50, got %d", d.Score)
	}
}

func TestWindow(t *testing.T) {
	entries := []model.DailyLogEntry{
		{Date: mustDay(t, "2026-02-01")},
		{Date: mustDay(t, "2026-02-03"), Mood: 1},
		{Date: mustDay(t, "2026-02-03"), Mood: 2},
		{Date: mustDay(t, "2026-02-09")},
	}
	series := []model.TrendPoint{{Date: mustDay(t, "2026-02-02")}, {Date: mustDay(t, "2026-02-08")}}

	got := Window(entries, series)
	if len(got) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(got))
	}
	if got[0].Mood != 2 {
		t.Errorf("expected deduplicated entry with mood 2, got %v", got[0].Mood)
	}
	if Window(entries, nil) != nil {
		t.Error("expected nil for empty series")
	}
}
