// Package score turns a daily log entry into a composite health score and
// a per-category breakdown.
package score

import (
	"math"
	"sort"

	"github.com/dsablic/healthlog/internal/model"
)

// Normalization caps: the raw value that maps to a full 100.
const (
	SleepTargetHours = 8.0
	WaterTargetUnits = 8.0

	// DefaultActivityDivisor is the exercise duration, in minutes, that
	// counts as a full activity score.
	DefaultActivityDivisor = 30.0
)

// Rating thresholds for Classify.
const (
	ExcellentThreshold = 85
	GoodThreshold      = 70
	FairThreshold      = 50
)

// Weights are the per-category contributions to the composite score.
type Weights struct {
	Nutrition float64 `yaml:"nutrition"`
	Sleep     float64 `yaml:"sleep"`
	Mood      float64 `yaml:"mood"`
	Water     float64 `yaml:"water"`
	Activity  float64 `yaml:"activity"`
}

// DefaultWeights returns the standard weighting, which sums to 1.0.
func DefaultWeights() Weights {
	return Weights{
		Nutrition: 0.30,
		Sleep:     0.25,
		Mood:      0.15,
		Water:     0.15,
		Activity:  0.15,
	}
}

// Normalize scales the weights to sum to 1.0. Negative weights count as 0;
// if nothing positive remains the defaults are returned.
func (w Weights) Normalize() Weights {
	w.Nutrition = math.Max(w.Nutrition, 0)
	w.Sleep = math.Max(w.Sleep, 0)
	w.Mood = math.Max(w.Mood, 0)
	w.Water = math.Max(w.Water, 0)
	w.Activity = math.Max(w.Activity, 0)

	sum := w.Nutrition + w.Sleep + w.Mood + w.Water + w.Activity
	if sum <= 0 || math.IsNaN(sum) || math.IsInf(sum, 0) {
		return DefaultWeights()
	}
	return Weights{
		Nutrition: w.Nutrition / sum,
		Sleep:     w.Sleep / sum,
		Mood:      w.Mood / sum,
		Water:     w.Water / sum,
		Activity:  w.Activity / sum,
	}
}

func (w Weights) of(c model.Category) float64 {
	switch c {
	case model.CategoryNutrition:
		return w.Nutrition
	case model.CategorySleep:
		return w.Sleep
	case model.CategoryMood:
		return w.Mood
	case model.CategoryWater:
		return w.Water
	case model.CategoryActivity:
		return w.Activity
	}
	return 0
}

// Engine scores entries. The zero value is not usable; use Default or New.
type Engine struct {
	weights         Weights
	activityDivisor float64
}

// New returns an Engine with normalized weights. A non-positive divisor
// falls back to DefaultActivityDivisor.
func New(w Weights, activityDivisor float64) *Engine {
	if activityDivisor <= 0 || math.IsNaN(activityDivisor) || math.IsInf(activityDivisor, 0) {
		activityDivisor = DefaultActivityDivisor
	}
	return &Engine{weights: w.Normalize(), activityDivisor: activityDivisor}
}

var defaultEngine = New(DefaultWeights(), DefaultActivityDivisor)

// Default returns the engine with the standard weights and divisor.
func Default() *Engine {
	return defaultEngine
}

// Weights returns the engine's normalized weights.
func (e *Engine) Weights() Weights {
	return e.weights
}

// ActivityDivisor returns the minutes of exercise that count as 100.
func (e *Engine) ActivityDivisor() float64 {
	return e.activityDivisor
}

// Breakdown returns the normalized score of every category for entry.
// All five categories are always present and within [0,100].
func (e *Engine) Breakdown(entry model.DailyLogEntry) model.CategoryBreakdown {
	return model.CategoryBreakdown{
		model.CategoryNutrition: clamp(entry.Nutrition.Float()),
		model.CategorySleep:     scaled(entry.SleepHours.Float(), SleepTargetHours),
		model.CategoryMood:      clamp(entry.Mood.Float()),
		model.CategoryWater:     scaled(entry.WaterConsumed.Float(), WaterTargetUnits),
		model.CategoryActivity:  scaled(entry.ExerciseDuration.Float(), e.activityDivisor),
	}
}

// Composite returns the weighted score for entry, rounded to the nearest
// integer in [0,100].
func (e *Engine) Composite(entry model.DailyLogEntry) int {
	breakdown := e.Breakdown(entry)
	var total float64
	for _, c := range model.Categories {
		total += breakdown[c] * e.weights.of(c)
	}
	return int(math.Round(clamp(total)))
}

// Breakdown scores entry with the default engine.
func Breakdown(entry model.DailyLogEntry) model.CategoryBreakdown {
	return defaultEngine.Breakdown(entry)
}

// Composite scores entry with the default engine.
func Composite(entry model.DailyLogEntry) int {
	return defaultEngine.Composite(entry)
}

// Classify returns the rating for a composite score.
func Classify(score int) model.Rating {
	switch {
	case score >= ExcellentThreshold:
		return model.RatingExcellent
	case score >= GoodThreshold:
		return model.RatingGood
	case score >= FairThreshold:
		return model.RatingFair
	default:
		return model.RatingPoor
	}
}

// Weakest returns up to n categories with the lowest scores, lowest first.
// Ties keep display order.
func Weakest(b model.CategoryBreakdown, n int) []model.Category {
	cats := append([]model.Category(nil), model.Categories...)
	sort.SliceStable(cats, func(i, j int) bool {
		return b[cats[i]] < b[cats[j]]
	})
	if n < 0 {
		n = 0
	}
	if n > len(cats) {
		n = len(cats)
	}
	return cats[:n]
}

func scaled(v, target float64) float64 {
	return clamp(v / target * 100)
}

func clamp(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
