package ui

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/dsablic/healthlog/internal/model"
)

// LogFormValues holds the raw text of the log form fields.
type LogFormValues struct {
	Date     model.Day
	Mood     string
	Sleep    string
	Water    string
	Food     string
	Exercise string
	Stress   string
	Notes    string
}

// NewLogFormValues seeds the form from initial, or leaves it blank when
// initial is nil.
func NewLogFormValues(date model.Day, initial *model.DailyLogEntry) *LogFormValues {
	v := &LogFormValues{Date: date}
	if initial != nil {
		v.Mood = formatMetric(initial.Mood)
		v.Sleep = formatMetric(initial.SleepHours)
		v.Water = formatMetric(initial.WaterConsumed)
		v.Food = formatMetric(initial.Nutrition)
		v.Exercise = formatMetric(initial.ExerciseDuration)
		v.Stress = formatMetric(initial.StressLevel)
		v.Notes = initial.Notes
	}
	return v
}

func formatMetric(m model.Metric) string {
	return strconv.FormatFloat(m.Float(), 'f', -1, 64)
}

// RangeValidator accepts blank input or a number in [lo, hi].
func RangeValidator(lo, hi float64) func(string) error {
	return func(s string) error {
		s = strings.TrimSpace(s)
		if s == "" {
			return nil
		}
		f, err := parseFinite(s)
		if err != nil {
			return fmt.Errorf("enter a number")
		}
		if f < lo || f > hi {
			return fmt.Errorf("must be between %g and %g", lo, hi)
		}
		return nil
	}
}

func parseFinite(s string) (float64, error) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("%q is not a finite number", s)
	}
	return f, nil
}

// Entry converts the form values into a log entry. Blank fields are 0.
func (v *LogFormValues) Entry() (model.DailyLogEntry, error) {
	e := model.DailyLogEntry{Date: v.Date, Notes: strings.TrimSpace(v.Notes)}
	fields := []struct {
		name string
		raw  string
		dst  *model.Metric
	}{
		{"mood", v.Mood, &e.Mood},
		{"sleep", v.Sleep, &e.SleepHours},
		{"water", v.Water, &e.WaterConsumed},
		{"nutrition", v.Food, &e.Nutrition},
		{"exercise", v.Exercise, &e.ExerciseDuration},
		{"stress", v.Stress, &e.StressLevel},
	}
	for _, f := range fields {
		raw := strings.TrimSpace(f.raw)
		if raw == "" {
			continue
		}
		n, err := parseFinite(raw)
		if err != nil {
			return model.DailyLogEntry{}, fmt.Errorf("%s: %q is not a number", f.name, raw)
		}
		*f.dst = model.Metric(n)
	}
	return e, nil
}

// LogForm builds the interactive form that fills v.
func LogForm(v *LogFormValues) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Mood").Description("0-100").Value(&v.Mood).Validate(RangeValidator(0, 100)),
			huh.NewInput().Title("Sleep").Description("hours").Value(&v.Sleep).Validate(RangeValidator(0, 24)),
			huh.NewInput().Title("Water").Description("glasses").Value(&v.Water).Validate(RangeValidator(0, 50)),
		).Title("Log for "+v.Date.String()),
		huh.NewGroup(
			huh.NewInput().Title("Nutrition").Description("0-100").Value(&v.Food).Validate(RangeValidator(0, 100)),
			huh.NewInput().Title("Exercise").Description("minutes").Value(&v.Exercise).Validate(RangeValidator(0, 1440)),
			huh.NewInput().Title("Stress").Description("0-100").Value(&v.Stress).Validate(RangeValidator(0, 100)),
			huh.NewText().Title("Notes").Value(&v.Notes),
		),
	)
}
