package trend

import (
	"fmt"
	"math"
	"time"

	"github.com/dsablic/healthlog/internal/model"
)

// DefaultWindowSize is the number of days in a window when none is given.
const DefaultWindowSize = 7

var now = time.Now

// Days returns the size calendar days ending at end, oldest first.
func Days(end model.Day, size int) []model.Day {
	if size <= 0 {
		return nil
	}
	end = model.NewDay(end.Time)
	days := make([]model.Day, 0, size)
	for cur := end.AddDays(-(size - 1)); !cur.After(end.Time); cur = cur.AddDays(1) {
		days = append(days, cur)
	}
	return days
}

// BuildWindow returns exactly windowSize points, one per calendar day in the
// range ending at endDate, oldest first. Days with no entry get a zero-valued
// placeholder. Duplicate dates keep the last entry; entries outside the range
// are ignored.
//
// A windowSize below 1 means DefaultWindowSize. A zero endDate means the
// latest entry's date, or today when entries is empty.
func BuildWindow(entries []model.DailyLogEntry, windowSize int, endDate model.Day) []model.TrendPoint {
	if windowSize <= 0 {
		windowSize = DefaultWindowSize
	}

	sorted := model.Dedupe(entries)

	end := endDate
	switch {
	case !end.IsZero():
		end = model.NewDay(end.Time)
	case len(sorted) > 0:
		end = sorted[len(sorted)-1].Date
	default:
		end = model.NewDay(now().UTC())
	}
	days := Days(end, windowSize)
	start := days[0]

	// Dedupe leaves at most one entry per day, so the range holds at most
	// windowSize of them.
	byDate := make(map[model.Day]model.DailyLogEntry, windowSize)
	for _, e := range sorted {
		if e.Date.Before(start.Time) || e.Date.After(end.Time) {
			continue
		}
		byDate[e.Date] = e
	}

	points := make([]model.TrendPoint, 0, windowSize)
	for _, d := range days {
		if e, ok := byDate[d]; ok {
			points = append(points, model.PointFromEntry(e))
			continue
		}
		points = append(points, model.TrendPoint{Date: d, Placeholder: true})
	}
	return points
}

// PeriodChange returns the signed percentage change of key between the last
// two points, rounded to the nearest integer. It returns 0 when there are
// fewer than two points, the previous value is 0, or key is unknown.
func PeriodChange(series []model.TrendPoint, key model.MetricKey) int {
	if len(series) < 2 {
		return 0
	}
	latest, ok := series[len(series)-1].Value(key)
	if !ok {
		return 0
	}
	previous, _ := series[len(series)-2].Value(key)
	if previous == 0 {
		return 0
	}
	change := (latest - previous) / previous * 100
	if math.IsNaN(change) || math.IsInf(change, 0) {
		return 0
	}
	return int(math.Round(change))
}

// Changes returns PeriodChange for every tracked metric.
func Changes(series []model.TrendPoint) map[model.MetricKey]int {
	out := make(map[model.MetricKey]int, len(model.MetricKeys))
	for _, key := range model.MetricKeys {
		out[key] = PeriodChange(series, key)
	}
	return out
}

// FormatChange renders a change with an explicit sign: "+12%", "+0%", "-8%".
func FormatChange(change int) string {
	if change >= 0 {
		return fmt.Sprintf("+%d%%", change)
	}
	return fmt.Sprintf("%d%%", change)
}

// Average returns the mean of key over real points, ignoring placeholders.
// It returns 0 if there are none.
func Average(series []model.TrendPoint, key model.MetricKey) float64 {
	var sum float64
	var n int
	for _, p := range series {
		if p.Placeholder {
			continue
		}
		v, ok := p.Value(key)
		if !ok {
			return 0
		}
		sum += v
		n++
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

// Logged returns how many points in series are real entries.
func Logged(series []model.TrendPoint) int {
	var n int
	for _, p := range series {
		if !p.Placeholder {
			n++
		}
	}
	return n
}
