package insight_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dsablic/healthlog/internal/insight"
	"github.com/dsablic/healthlog/internal/model"
)

func week(t *testing.T, fn func(i int) model.DailyLogEntry) []model.DailyLogEntry {
	t.Helper()
	start, err := model.ParseDay("2026-02-01")
	if err != nil {
		t.Fatal(err)
	}
	entries := make([]model.DailyLogEntry, 7)
	for i := range entries {
		entries[i] = fn(i)
		entries[i].Date = start.AddDays(i)
	}
	return entries
}

func healthyDay(int) model.DailyLogEntry {
	return model.DailyLogEntry{Mood: 80, SleepHours: 8, WaterConsumed: 8, Nutrition: 85, ExerciseDuration: 30}
}

func TestInsightsInsufficientData(t *testing.T) {
	if got := insight.Generate(nil); got == nil || len(got) != 0 {
		t.Errorf("expected empty non-nil slice for no entries, got %#v", got)
	}
	one := []model.DailyLogEntry{healthyDay(0)}
	if got := insight.Generate(one); len(got) != 0 {
		t.Errorf("expected no insights for one entry, got %v", got)
	}
}

func TestInsightsSleepOnly(t *testing.T) {
	entries := week(t, func(int) model.DailyLogEntry {
		return model.DailyLogEntry{Mood: 80, SleepHours: 5, WaterConsumed: 8, ExerciseDuration: 30}
	})

	got := insight.Generate(entries)
	if len(got) != 1 {
		t.Fatalf("expected exactly 1 insight, got %d: %v", len(got), got)
	}
	if got[0] != insight.DefaultInsightRules()[0].Message {
		t.Errorf("expected sleep-deficiency message, got %q", got[0])
	}
}

func TestInsightsBalancedFallback(t *testing.T) {
	got := insight.Generate(week(t, healthyDay))
	if len(got) != 1 || got[0] != insight.BalancedMessage {
		t.Errorf("expected balanced fallback, got %v", got)
	}
}

func TestInsightsAllRulesInPriorityOrder(t *testing.T) {
	entries := week(t, func(i int) model.DailyLogEntry {
		return model.DailyLogEntry{Mood: model.Metric(90 - i*5), SleepHours: 6, WaterConsumed: 3, ExerciseDuration: 10}
	})

	got := insight.Generate(entries)
	rules := insight.DefaultInsightRules()
	if len(got) != len(rules) {
		t.Fatalf("expected %d insights, got %d: %v", len(rules), len(got), got)
	}
	for i, r := range rules {
		if got[i] != r.Message {
			t.Errorf("position %d: expected %s message, got %q", i, r.Name, got[i])
		}
	}
}

func TestInsightsMoodUsesDateOrder(t *testing.T) {
	// Mood falls from 80 to 60 chronologically, but the slice is reversed.
	entries := week(t, func(i int) model.DailyLogEntry {
		e := healthyDay(i)
		e.Mood = model.Metric(80 - i*20/6)
		return e
	})
	for i, j := 0, len(entries)-1; i < j; i, j = i+1, j-1 {
		entries[i], entries[j] = entries[j], entries[i]
	}

	got := insight.Generate(entries)
	if len(got) != 1 || !strings.Contains(got[0], "mood") {
		t.Errorf("expected only the declining-mood insight, got %v", got)
	}
}

func TestInsightsMoodBoundary(t *testing.T) {
	// A drop of exactly 10 does not fire.
	entries := week(t, healthyDay)
	entries[6].Mood = 70

	got := insight.Generate(entries)
	if len(got) != 1 || got[0] != insight.BalancedMessage {
		t.Errorf("expected balanced fallback at a drop of 10, got %v", got)
	}
}

func TestInsightsExerciseConsistency(t *testing.T) {
	entries := week(t, func(i int) model.DailyLogEntry {
		e := healthyDay(i)
		e.ExerciseDuration = 15
		if i < 2 {
			e.ExerciseDuration = 40
		}
		return e
	})

	got := insight.Generate(entries)
	if len(got) != 1 || !strings.Contains(got[0], "Exercise") {
		t.Errorf("expected only the exercise insight with 2 active days, got %v", got)
	}

	entries[2].ExerciseDuration = 16
	got = insight.Generate(entries)
	if len(got) != 1 || got[0] != insight.BalancedMessage {
		t.Errorf("expected balanced fallback with 3 active days, got %v", got)
	}
}

func TestInsightsDeterministic(t *testing.T) {
	entries := week(t, func(i int) model.DailyLogEntry {
		return model.DailyLogEntry{Mood: model.Metric(50 + i), SleepHours: 6.5, WaterConsumed: 5, ExerciseDuration: model.Metric(i * 5)}
	})
	shuffled := []model.DailyLogEntry{entries[3], entries[0], entries[6], entries[1], entries[5], entries[2], entries[4]}

	first := insight.Generate(entries)
	second := insight.Generate(shuffled)
	if len(first) != len(second) {
		t.Fatalf("expected same length, got %d and %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("position %d differs: %q vs %q", i, first[i], second[i])
		}
	}
}

func TestInsightsSameDayRecords(t *testing.T) {
	entries := week(t, healthyDay)[:2]
	d1, d2 := entries[0].Date, entries[1].Date

	// Two records for one day are a single day of data.
	twice := []model.DailyLogEntry{entries[0], entries[0]}
	if got := insight.Generate(twice); len(got) != 0 {
		t.Errorf("expected no insights for one distinct day, got %v", got)
	}

	// The later record for a day replaces the earlier one, whatever the
	// position of the other days.
	early := healthyDay(0)
	early.Date, early.Mood = d1, 50
	late := healthyDay(0)
	late.Date, late.Mood = d1, 80
	next := healthyDay(1)
	next.Date, next.Mood = d2, 60

	orders := [][]model.DailyLogEntry{
		{early, late, next},
		{early, next, late},
		{next, early, late},
	}
	want := insight.Generate([]model.DailyLogEntry{late, next})
	if !containsMood(want) {
		t.Fatalf("expected declining mood from 80 to 60, got %v", want)
	}
	for i, entries := range orders {
		got := insight.Generate(entries)
		if strings.Join(got, "|") != strings.Join(want, "|") {
			t.Errorf("order %d: expected %v, got %v", i, want, got)
		}
	}

	swapped := insight.Generate([]model.DailyLogEntry{late, early, next})
	if containsMood(swapped) {
		t.Errorf("expected no mood insight when 50 is the later record, got %v", swapped)
	}
}

func containsMood(msgs []string) bool {
	for _, m := range msgs {
		if strings.Contains(m, "mood") {
			return true
		}
	}
	return false
}

func TestInsightsExerciseCountsDays(t *testing.T) {
	start := week(t, healthyDay)
	active := healthyDay(0)
	active.Date, active.ExerciseDuration = start[0].Date, 40
	idle := healthyDay(1)
	idle.Date, idle.ExerciseDuration = start[1].Date, 0

	entries := []model.DailyLogEntry{active, active, active, idle}
	got := insight.Generate(entries)
	if len(got) != 1 || !strings.Contains(got[0], "Exercise") {
		t.Errorf("expected exercise insight with 1 active day, got %v", got)
	}
}

func TestRecommendations(t *testing.T) {
	if got := insight.Recommend(nil); got == nil || len(got) != 0 {
		t.Errorf("expected empty non-nil slice for nil entry, got %#v", got)
	}

	good := healthyDay(0)
	got := insight.Recommend(&good)
	if len(got) != 1 || got[0] != insight.OnTrackMessage {
		t.Errorf("expected on-track fallback, got %v", got)
	}

	poor := model.DailyLogEntry{}
	got = insight.Recommend(&poor)
	rules := insight.DefaultRecommendationRules()
	if len(got) != len(rules) {
		t.Fatalf("expected %d recommendations, got %d", len(rules), len(got))
	}
	for i, r := range rules {
		if got[i] != r.Message {
			t.Errorf("position %d: expected %s message, got %q", i, r.Name, got[i])
		}
	}
}

func TestRecommendationThresholds(t *testing.T) {
	tests := []struct {
		name  string
		entry model.DailyLogEntry
		rule  string
	}{
		{"nutrition 69", model.DailyLogEntry{Nutrition: 69, SleepHours: 7, Mood: 70, WaterConsumed: 6, ExerciseDuration: 20}, "nutrition"},
		{"sleep 6.9", model.DailyLogEntry{Nutrition: 70, SleepHours: 6.9, Mood: 70, WaterConsumed: 6, ExerciseDuration: 20}, "sleep"},
		{"mood 69", model.DailyLogEntry{Nutrition: 70, SleepHours: 7, Mood: 69, WaterConsumed: 6, ExerciseDuration: 20}, "mood"},
		{"water 5", model.DailyLogEntry{Nutrition: 70, SleepHours: 7, Mood: 70, WaterConsumed: 5, ExerciseDuration: 20}, "water"},
		{"exercise 19", model.DailyLogEntry{Nutrition: 70, SleepHours: 7, Mood: 70, WaterConsumed: 6, ExerciseDuration: 19}, "exercise"},
	}

	messages := map[string]string{}
	for _, r := range insight.DefaultRecommendationRules() {
		messages[r.Name] = r.Message
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := insight.Recommend(&tt.entry)
			if len(got) != 1 || got[0] != messages[tt.rule] {
				t.Errorf("expected only the %s recommendation, got %v", tt.rule, got)
			}
		})
	}
}

func TestParseRulesOverrides(t *testing.T) {
	data := []byte(`
insights:
  fallback: "All good."
  rules:
    - name: stress
      metric: stress
      aggregate: mean
      compare: ">"
      threshold: 60
      message: "Stress has been high."
recommendations:
  fallback: "Carry on."
`)

	g, err := insight.ParseRules(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(g.InsightRules) != 1 || g.InsightRules[0].Metric != model.MetricStress {
		t.Errorf("expected stress rule to replace defaults, got %+v", g.InsightRules)
	}
	if len(g.RecommendationRules) != len(insight.DefaultRecommendationRules()) {
		t.Error("expected recommendation rules to keep defaults")
	}

	entries := week(t, func(int) model.DailyLogEntry { return model.DailyLogEntry{StressLevel: 80} })
	got := g.Insights(entries)
	if len(got) != 1 || got[0] != "Stress has been high." {
		t.Errorf("expected stress insight, got %v", got)
	}

	good := healthyDay(0)
	if got := g.Recommendations(&good); len(got) != 1 || got[0] != "Carry on." {
		t.Errorf("expected overridden fallback, got %v", got)
	}
}

func TestParseRulesRejectsInvalid(t *testing.T) {
	tests := map[string]string{
		"metric":    "insights:\n  rules:\n    - {name: x, metric: steps, aggregate: mean, compare: '<', threshold: 1, message: m}\n",
		"aggregate": "insights:\n  rules:\n    - {name: x, metric: mood, aggregate: median, compare: '<', threshold: 1, message: m}\n",
		"compare":   "insights:\n  rules:\n    - {name: x, metric: mood, aggregate: mean, compare: '!=', threshold: 1, message: m}\n",
		"message":   "recommendations:\n  rules:\n    - {name: x, metric: mood, aggregate: latest, compare: '<', threshold: 1}\n",
		"yaml":      "insights: [unterminated",
	}

	for name, data := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := insight.ParseRules([]byte(data)); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestLoadRulesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yaml")
	if err := os.WriteFile(path, []byte("recommendations:\n  fallback: \"Nice.\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	g, err := insight.LoadRules(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if g.RecommendationFallback != "Nice." {
		t.Errorf("expected fallback override, got %q", g.RecommendationFallback)
	}

	if _, err := insight.LoadRules(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}
