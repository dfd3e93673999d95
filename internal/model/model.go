// internal/model/model.go
package model

import (
	"bytes"
	"encoding/json"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"
)

// DayLayout is the wire format for calendar dates.
const DayLayout = "2006-01-02"

// Day is a calendar date normalized to midnight UTC.
type Day struct {
	time.Time
}

// NewDay truncates t to its calendar date in t's location and returns it at midnight UTC.
func NewDay(t time.Time) Day {
	y, m, d := t.Date()
	return Day{time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

// ParseDay parses "2006-01-02" or an RFC3339 timestamp.
func ParseDay(s string) (Day, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(DayLayout, s); err == nil {
		return NewDay(t), nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return Day{}, err
	}
	return NewDay(t), nil
}

// AddDays returns the day n calendar days after d.
func (d Day) AddDays(n int) Day {
	return Day{d.Time.AddDate(0, 0, n)}
}

// String returns the day in DayLayout, or "" for the zero day.
func (d Day) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(DayLayout)
}

func (d Day) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Day) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == "" {
		*d = Day{}
		return nil
	}
	parsed, err := ParseDay(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Metric is a numeric log field. Decoding never fails: missing, null, or
// non-numeric values become 0.
type Metric float64

func (m *Metric) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	var f float64
	if err := json.Unmarshal(data, &f); err == nil {
		*m = sanitize(f)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		if f, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
			*m = sanitize(f)
			return nil
		}
	}
	*m = 0
	return nil
}

// MarshalJSON writes non-finite values as 0.
func (m Metric) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.Float())
}

// Float returns the metric as a finite float64.
func (m Metric) Float() float64 {
	return float64(sanitize(float64(m)))
}

func sanitize(f float64) Metric {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return Metric(f)
}

// DailyLogEntry is one user-submitted record for a calendar day.
type DailyLogEntry struct {
	Date             Day    `json:"date"`
	Mood             Metric `json:"mood"`
	SleepHours       Metric `json:"sleepHours"`
	WaterConsumed    Metric `json:"waterConsumed"`
	Nutrition        Metric `json:"nutrition"`
	ExerciseDuration Metric `json:"exerciseDuration"`
	StressLevel      Metric `json:"stressLevel"`
	Notes            string `json:"notes,omitempty"`
}

// Category names a dimension of the composite score.
type Category string

const (
	CategoryNutrition Category = "Nutrition"
	CategorySleep     Category = "Sleep"
	CategoryMood      Category = "Mood"
	CategoryWater     Category = "Water"
	CategoryActivity  Category = "Activity"
)

// Categories lists every category in display order.
var Categories = []Category{
	CategoryNutrition,
	CategorySleep,
	CategoryMood,
	CategoryWater,
	CategoryActivity,
}

// CategoryBreakdown maps each category to a normalized score in [0,100].
type CategoryBreakdown map[Category]float64

// MetricKey identifies a tracked metric in a trend series.
type MetricKey string

const (
	MetricMood      MetricKey = "mood"
	MetricSleep     MetricKey = "sleep"
	MetricWater     MetricKey = "water"
	MetricNutrition MetricKey = "nutrition"
	MetricStress    MetricKey = "stress"
	MetricExercise  MetricKey = "exercise"
)

// MetricKeys lists every tracked metric in display order.
var MetricKeys = []MetricKey{
	MetricMood,
	MetricSleep,
	MetricWater,
	MetricNutrition,
	MetricStress,
	MetricExercise,
}

// ParseMetricKey accepts a metric key or one of its entry field names.
func ParseMetricKey(s string) (MetricKey, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "mood":
		return MetricMood, true
	case "sleep", "sleephours":
		return MetricSleep, true
	case "water", "waterconsumed":
		return MetricWater, true
	case "nutrition":
		return MetricNutrition, true
	case "stress", "stresslevel":
		return MetricStress, true
	case "exercise", "exerciseduration", "activity":
		return MetricExercise, true
	}
	return "", false
}

// Value returns the raw value of key for the entry.
func (e DailyLogEntry) Value(key MetricKey) (float64, bool) {
	switch key {
	case MetricMood:
		return e.Mood.Float(), true
	case MetricSleep:
		return e.SleepHours.Float(), true
	case MetricWater:
		return e.WaterConsumed.Float(), true
	case MetricNutrition:
		return e.Nutrition.Float(), true
	case MetricStress:
		return e.StressLevel.Float(), true
	case MetricExercise:
		return e.ExerciseDuration.Float(), true
	}
	return 0, false
}

// TrendPoint is one date's metrics in a gap-filled series.
type TrendPoint struct {
	Date        Day     `json:"date"`
	Mood        float64 `json:"mood"`
	Sleep       float64 `json:"sleep"`
	Water       float64 `json:"water"`
	Nutrition   float64 `json:"nutrition"`
	Stress      float64 `json:"stress"`
	Exercise    float64 `json:"exercise"`
	Placeholder bool    `json:"placeholder,omitempty"`
}

// PointFromEntry copies an entry's metrics into a TrendPoint.
func PointFromEntry(e DailyLogEntry) TrendPoint {
	return TrendPoint{
		Date:      e.Date,
		Mood:      e.Mood.Float(),
		Sleep:     e.SleepHours.Float(),
		Water:     e.WaterConsumed.Float(),
		Nutrition: e.Nutrition.Float(),
		Stress:    e.StressLevel.Float(),
		Exercise:  e.ExerciseDuration.Float(),
	}
}

// Value returns the point's value for key.
func (p TrendPoint) Value(key MetricKey) (float64, bool) {
	switch key {
	case MetricMood:
		return p.Mood, true
	case MetricSleep:
		return p.Sleep, true
	case MetricWater:
		return p.Water, true
	case MetricNutrition:
		return p.Nutrition, true
	case MetricStress:
		return p.Stress, true
	case MetricExercise:
		return p.Exercise, true
	}
	return 0, false
}

// SortByDate returns a copy of entries sorted ascending by date.
// Entries sharing a date keep their input order.
func SortByDate(entries []DailyLogEntry) []DailyLogEntry {
	sorted := append([]DailyLogEntry(nil), entries...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date.Before(sorted[j].Date.Time)
	})
	return sorted
}

// Dedupe keeps one entry per date, the last one in input order, and returns
// the survivors sorted ascending by date.
func Dedupe(entries []DailyLogEntry) []DailyLogEntry {
	byDate := make(map[Day]DailyLogEntry, len(entries))
	for _, e := range entries {
		byDate[NewDay(e.Date.Time)] = e
	}
	out := make([]DailyLogEntry, 0, len(byDate))
	for day, e := range byDate {
		e.Date = day
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Date.Before(out[j].Date.Time)
	})
	return out
}

// Latest returns the entry with the most recent date, or nil if entries is empty.
func Latest(entries []DailyLogEntry) *DailyLogEntry {
	if len(entries) == 0 {
		return nil
	}
	latest := entries[0]
	for _, e := range entries[1:] {
		if !e.Date.Before(latest.Date.Time) {
			latest = e
		}
	}
	return &latest
}

// Rating classifies a composite score.
type Rating string

const (
	RatingExcellent Rating = "excellent"
	RatingGood      Rating = "good"
	RatingFair      Rating = "fair"
	RatingPoor      Rating = "poor"
)

// Dashboard is the composed view of a user's recent logs.
type Dashboard struct {
	GeneratedAt     string            `json:"generated_at"`
	Date            Day               `json:"date"`
	WindowSize      int               `json:"window_size"`
	LoggedDays      int               `json:"logged_days"`
	Score           int               `json:"score"`
	Rating          Rating            `json:"rating"`
	Breakdown       CategoryBreakdown `json:"breakdown"`
	Trend           []TrendPoint      `json:"trend"`
	Changes         map[MetricKey]int `json:"changes"`
	Insights        []string          `json:"insights"`
	Recommendations []string          `json:"recommendations"`
	Errors          []string          `json:"errors,omitempty"`
}
