package insight

import (
	"fmt"

	"github.com/dsablic/healthlog/internal/model"
)

// Aggregate reduces a window of entries to one value for a metric.
type Aggregate string

const (
	// AggregateMean averages the metric over the window.
	AggregateMean Aggregate = "mean"
	// AggregateDelta is the last value minus the first, in date order.
	AggregateDelta Aggregate = "delta"
	// AggregateCountAbove counts days where the metric exceeds Param.
	AggregateCountAbove Aggregate = "count_above"
	// AggregateLatest is the value of the most recent entry.
	AggregateLatest Aggregate = "latest"
)

// Comparison is how an aggregate is tested against a rule's threshold.
type Comparison string

const (
	Below   Comparison = "<"
	AtMost  Comparison = "<="
	Above   Comparison = ">"
	AtLeast Comparison = ">="
)

// Rule emits Message when Aggregate(Metric) Compare Threshold holds.
type Rule struct {
	Name      string          `yaml:"name"`
	Metric    model.MetricKey `yaml:"metric"`
	Aggregate Aggregate       `yaml:"aggregate"`
	Param     float64         `yaml:"param,omitempty"`
	Compare   Comparison      `yaml:"compare"`
	Threshold float64         `yaml:"threshold"`
	Message   string          `yaml:"message"`
}

// Validate reports rules that could never be evaluated.
func (r Rule) Validate() error {
	if _, ok := (model.DailyLogEntry{}).Value(r.Metric); !ok {
		return fmt.Errorf("rule %q: unknown metric %q", r.Name, r.Metric)
	}
	switch r.Aggregate {
	case AggregateMean, AggregateDelta, AggregateCountAbove, AggregateLatest:
	default:
		return fmt.Errorf("rule %q: unknown aggregate %q", r.Name, r.Aggregate)
	}
	switch r.Compare {
	case Below, AtMost, Above, AtLeast:
	default:
		return fmt.Errorf("rule %q: unknown comparison %q", r.Name, r.Compare)
	}
	if r.Message == "" {
		return fmt.Errorf("rule %q: empty message", r.Name)
	}
	return nil
}

// Fires evaluates the rule over entries, which must be sorted by date.
// An empty window never fires.
func (r Rule) Fires(entries []model.DailyLogEntry) bool {
	if len(entries) == 0 {
		return false
	}
	v, ok := r.aggregate(entries)
	if !ok {
		return false
	}
	switch r.Compare {
	case Below:
		return v < r.Threshold
	case AtMost:
		return v <= r.Threshold
	case Above:
		return v > r.Threshold
	case AtLeast:
		return v >= r.Threshold
	}
	return false
}

func (r Rule) aggregate(entries []model.DailyLogEntry) (float64, bool) {
	switch r.Aggregate {
	case AggregateMean:
		var sum float64
		for _, e := range entries {
			v, ok := e.Value(r.Metric)
			if !ok {
				return 0, false
			}
			sum += v
		}
		return sum / float64(len(entries)), true
	case AggregateDelta:
		first, ok := entries[0].Value(r.Metric)
		if !ok {
			return 0, false
		}
		last, _ := entries[len(entries)-1].Value(r.Metric)
		return last - first, true
	case AggregateCountAbove:
		var n int
		for _, e := range entries {
			v, ok := e.Value(r.Metric)
			if !ok {
				return 0, false
			}
			if v > r.Param {
				n++
			}
		}
		return float64(n), true
	case AggregateLatest:
		return entries[len(entries)-1].Value(r.Metric)
	}
	return 0, false
}

// Fallback messages used when no rule fires.
const (
	BalancedMessage = "Your metrics look balanced. Keep up your current routine!"
	OnTrackMessage  = "You're on track. Continue your current plan."
)

// DefaultInsightRules returns the window rules, in priority order.
func DefaultInsightRules() []Rule {
	return []Rule{
		{
			Name:      "sleep-deficiency",
			Metric:    model.MetricSleep,
			Aggregate: AggregateMean,
			Compare:   Below,
			Threshold: 7,
			Message:   "You're averaging less than 7 hours of sleep. Aim for 7-9 hours to support recovery and focus.",
		},
		{
			Name:      "hydration",
			Metric:    model.MetricWater,
			Aggregate: AggregateMean,
			Compare:   Below,
			Threshold: 6,
			Message:   "Your water intake is below target. Keep a bottle nearby and aim for at least 6 glasses a day.",
		},
		{
			Name:      "declining-mood",
			Metric:    model.MetricMood,
			Aggregate: AggregateDelta,
			Compare:   Below,
			Threshold: -10,
			Message:   "Your mood has been declining this week. Consider stress-reducing activities or talking to someone you trust.",
		},
		{
			Name:      "exercise-consistency",
			Metric:    model.MetricExercise,
			Aggregate: AggregateCountAbove,
			Param:     15,
			Compare:   Below,
			Threshold: 3,
			Message:   "Exercise has been inconsistent. Sessions of 15+ minutes on at least 3 days a week build a lasting habit.",
		},
	}
}

// DefaultRecommendationRules returns the per-entry rules, in priority order.
func DefaultRecommendationRules() []Rule {
	return []Rule{
		{
			Name:      "nutrition",
			Metric:    model.MetricNutrition,
			Aggregate: AggregateLatest,
			Compare:   Below,
			Threshold: 70,
			Message:   "Add more whole foods and lean protein to raise your nutrition score.",
		},
		{
			Name:      "sleep",
			Metric:    model.MetricSleep,
			Aggregate: AggregateLatest,
			Compare:   Below,
			Threshold: 7,
			Message:   "Aim for at least 7 hours of sleep by keeping a consistent bedtime.",
		},
		{
			Name:      "mood",
			Metric:    model.MetricMood,
			Aggregate: AggregateLatest,
			Compare:   Below,
			Threshold: 70,
			Message:   "Take a short walk or a mindful break today to lift your mood.",
		},
		{
			Name:      "water",
			Metric:    model.MetricWater,
			Aggregate: AggregateLatest,
			Compare:   Below,
			Threshold: 6,
			Message:   "Drink at least 6 glasses of water today.",
		},
		{
			Name:      "exercise",
			Metric:    model.MetricExercise,
			Aggregate: AggregateLatest,
			Compare:   Below,
			Threshold: 20,
			Message:   "Get at least 20 minutes of physical activity today.",
		},
	}
}
