package trend

import (
	"testing"
	"time"

	"github.com/dsablic/healthlog/internal/model"
)

func mustDay(t *testing.T, s string) model.Day {
	t.Helper()
	d, err := model.ParseDay(s)
	if err != nil {
		t.Fatalf("parse %q: %v", s, err)
	}
	return d
}

func assertAscending(t *testing.T, points []model.TrendPoint) {
	t.Helper()
	for i := 1; i < len(points); i++ {
		if !points[i].Date.After(points[i-1].Date.Time) {
			t.Errorf("point %d (%s) not after point %d (%s)", i, points[i].Date, i-1, points[i-1].Date)
		}
	}
}

func TestDays(t *testing.T) {
	days := Days(mustDay(t, "2025-03-02"), 4)

	expected := []string{"2025-02-27", "2025-02-28", "2025-03-01", "2025-03-02"}
	if len(days) != len(expected) {
		t.Fatalf("expected %d days, got %d", len(expected), len(days))
	}
	for i, d := range days {
		if d.String() != expected[i] {
			t.Errorf("day %d: expected %s, got %s", i, expected[i], d)
		}
		if d.Location() != time.UTC || d.Hour() != 0 {
			t.Errorf("day %d: expected midnight UTC, got %v", i, d.Time)
		}
	}

	if Days(mustDay(t, "2025-03-02"), 0) != nil {
		t.Error("expected nil for non-positive size")
	}
}

func TestBuildWindowEmpty(t *testing.T) {
	orig := now
	now = func() time.Time { return time.Date(2026, 2, 23, 15, 0, 0, 0, time.UTC) }
	defer func() { now = orig }()

	points := BuildWindow(nil, 7, model.Day{})
	if len(points) != 7 {
		t.Fatalf("expected 7 points, got %d", len(points))
	}
	for i, p := range points {
		if !p.Placeholder {
			t.Errorf("point %d: expected placeholder", i)
		}
		for _, key := range model.MetricKeys {
			if v, _ := p.Value(key); v != 0 {
				t.Errorf("point %d: expected %s = 0, got %v", i, key, v)
			}
		}
	}
	if points[6].Date.String() != "2026-02-23" {
		t.Errorf("expected window to end today, got %s", points[6].Date)
	}
	assertAscending(t, points)
}

func TestBuildWindowFillsGaps(t *testing.T) {
	entries := []model.DailyLogEntry{
		{Date: mustDay(t, "2026-02-07"), Mood: 70},
		{Date: mustDay(t, "2026-02-01"), Mood: 50},
		{Date: mustDay(t, "2026-02-04"), Mood: 60},
	}

	points := BuildWindow(entries, 7, mustDay(t, "2026-02-07"))
	if len(points) != 7 {
		t.Fatalf("expected 7 points, got %d", len(points))
	}
	assertAscending(t, points)

	logged := map[string]float64{"2026-02-01": 50, "2026-02-04": 60, "2026-02-07": 70}
	var placeholders int
	for _, p := range points {
		if mood, ok := logged[p.Date.String()]; ok {
			if p.Placeholder {
				t.Errorf("%s: expected a real point", p.Date)
			}
			if p.Mood != mood {
				t.Errorf("%s: expected mood %v, got %v", p.Date, mood, p.Mood)
			}
			continue
		}
		placeholders++
		if !p.Placeholder || p.Mood != 0 {
			t.Errorf("%s: expected zero-valued placeholder, got %+v", p.Date, p)
		}
	}
	if placeholders != 4 {
		t.Errorf("expected 4 placeholders, got %d", placeholders)
	}
}

func TestBuildWindowDefaultsEndToLatestEntry(t *testing.T) {
	entries := []model.DailyLogEntry{
		{Date: mustDay(t, "2026-01-10")},
		{Date: mustDay(t, "2026-01-12")},
	}

	points := BuildWindow(entries, 3, model.Day{})
	if points[2].Date.String() != "2026-01-12" {
		t.Errorf("expected window to end at latest entry, got %s", points[2].Date)
	}
	if points[0].Placeholder {
		t.Error("expected 2026-01-10 to be a real point")
	}
	if !points[1].Placeholder {
		t.Error("expected 2026-01-11 to be a placeholder")
	}
}

func TestBuildWindowTruncatesAndDedupes(t *testing.T) {
	var entries []model.DailyLogEntry
	start := mustDay(t, "2026-03-01")
	for i := 0; i < 10; i++ {
		entries = append(entries, model.DailyLogEntry{Date: start.AddDays(i), Mood: model.Metric(i)})
	}
	entries = append(entries, model.DailyLogEntry{Date: start.AddDays(9), Mood: 99})

	points := BuildWindow(entries, 5, model.Day{})
	if len(points) != 5 {
		t.Fatalf("expected 5 points, got %d", len(points))
	}
	assertAscending(t, points)
	if points[0].Date.String() != "2026-03-06" {
		t.Errorf("expected window to start 2026-03-06, got %s", points[0].Date)
	}
	if points[4].Mood != 99 {
		t.Errorf("expected last duplicate to win, got mood %v", points[4].Mood)
	}
}

func TestBuildWindowAlwaysFullLength(t *testing.T) {
	entries := []model.DailyLogEntry{
		{Date: mustDay(t, "2026-01-01")},
		{Date: mustDay(t, "2026-01-03")},
		{Date: mustDay(t, "2026-02-15")},
	}
	for _, size := range []int{1, 2, 7, 30, 90} {
		points := BuildWindow(entries, size, mustDay(t, "2026-02-15"))
		if len(points) != size {
			t.Errorf("size %d: got %d points", size, len(points))
		}
		assertAscending(t, points)
	}

	if n := len(BuildWindow(entries, 0, model.Day{})); n != DefaultWindowSize {
		t.Errorf("expected default window of %d, got %d", DefaultWindowSize, n)
	}
}

func TestBuildWindowIgnoresEntriesAfterEnd(t *testing.T) {
	entries := []model.DailyLogEntry{
		{Date: mustDay(t, "2026-02-02"), Mood: 40},
		{Date: mustDay(t, "2026-02-20"), Mood: 90},
	}

	points := BuildWindow(entries, 3, mustDay(t, "2026-02-03"))
	if points[2].Date.String() != "2026-02-03" {
		t.Errorf("expected window to end at 2026-02-03, got %s", points[2].Date)
	}
	if points[1].Mood != 40 {
		t.Errorf("expected 2026-02-02 mood 40, got %v", points[1].Mood)
	}
}

func TestPeriodChange(t *testing.T) {
	tests := []struct {
		name     string
		series   []model.TrendPoint
		key      model.MetricKey
		expected int
	}{
		{"increase", []model.TrendPoint{{Mood: 50}, {Mood: 75}}, model.MetricMood, 50},
		{"decrease", []model.TrendPoint{{Sleep: 8}, {Sleep: 6}}, model.MetricSleep, -25},
		{"rounding", []model.TrendPoint{{Water: 3}, {Water: 4}}, model.MetricWater, 33},
		{"uses last two", []model.TrendPoint{{Mood: 10}, {Mood: 40}, {Mood: 60}}, model.MetricMood, 50},
		{"previous zero", []model.TrendPoint{{Mood: 0}, {Mood: 75}}, model.MetricMood, 0},
		{"single point", []model.TrendPoint{{Mood: 75}}, model.MetricMood, 0},
		{"empty", nil, model.MetricMood, 0},
		{"unknown key", []model.TrendPoint{{Mood: 50}, {Mood: 75}}, model.MetricKey("steps"), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PeriodChange(tt.series, tt.key); got != tt.expected {
				t.Errorf("expected %d, got %d", tt.expected, got)
			}
		})
	}
}

func TestChanges(t *testing.T) {
	series := []model.TrendPoint{{Mood: 50, Stress: 40}, {Mood: 75, Stress: 20}}
	changes := Changes(series)
	if len(changes) != len(model.MetricKeys) {
		t.Fatalf("expected %d keys, got %d", len(model.MetricKeys), len(changes))
	}
	if changes[model.MetricMood] != 50 {
		t.Errorf("expected mood +50, got %d", changes[model.MetricMood])
	}
	if changes[model.MetricStress] != -50 {
		t.Errorf("expected stress -50, got %d", changes[model.MetricStress])
	}
}

func TestFormatChange(t *testing.T) {
	tests := map[int]string{50: "+50%", 0: "+0%", -12: "-12%"}
	for in, want := range tests {
		if got := FormatChange(in); got != want {
			t.Errorf("FormatChange(%d): expected %s, got %s", in, want, got)
		}
	}
}

func TestAverageSkipsPlaceholders(t *testing.T) {
	series := []model.TrendPoint{
		{Sleep: 6},
		{Placeholder: true},
		{Sleep: 8},
	}
	if got := Average(series, model.MetricSleep); got != 7 {
		t.Errorf("expected 7, got %v", got)
	}
	if got := Average([]model.TrendPoint{{Placeholder: true}}, model.MetricSleep); got != 0 {
		t.Errorf("expected 0 for all placeholders, got %v", got)
	}
	if got := Logged(series); got != 2 {
		t.Errorf("expected 2 logged, got %d", got)
	}
}
