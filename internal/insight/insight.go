// Package insight applies threshold rules to recent daily logs and produces
// insight and recommendation messages.
package insight

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/dsablic/healthlog/internal/model"
)

// MinInsightEntries is the smallest window that yields insights.
const MinInsightEntries = 2

// Generator holds the rule tables. Rules fire independently; messages are
// returned in table order.
type Generator struct {
	InsightRules           []Rule
	InsightFallback        string
	RecommendationRules    []Rule
	RecommendationFallback string
}

// Default returns a generator with the built-in rules.
func Default() *Generator {
	return &Generator{
		InsightRules:           DefaultInsightRules(),
		InsightFallback:        BalancedMessage,
		RecommendationRules:    DefaultRecommendationRules(),
		RecommendationFallback: OnTrackMessage,
	}
}

// Insights evaluates the window rules over recent, one entry per day (the
// last record for a date wins). It returns an empty slice for fewer than
// MinInsightEntries distinct days, and the fallback message alone when no
// rule fires.
func (g *Generator) Insights(recent []model.DailyLogEntry) []string {
	days := model.Dedupe(recent)
	if len(days) < MinInsightEntries {
		return []string{}
	}
	return evaluate(g.InsightRules, days, g.InsightFallback)
}

// Recommendations evaluates the per-entry rules against latest. It returns an
// empty slice for nil, and the fallback message alone when no rule fires.
func (g *Generator) Recommendations(latest *model.DailyLogEntry) []string {
	if latest == nil {
		return []string{}
	}
	return evaluate(g.RecommendationRules, []model.DailyLogEntry{*latest}, g.RecommendationFallback)
}

// Validate checks every rule in the generator.
func (g *Generator) Validate() error {
	for _, r := range g.InsightRules {
		if err := r.Validate(); err != nil {
			return fmt.Errorf("insights: %w", err)
		}
	}
	for _, r := range g.RecommendationRules {
		if err := r.Validate(); err != nil {
			return fmt.Errorf("recommendations: %w", err)
		}
	}
	return nil
}

func evaluate(rules []Rule, entries []model.DailyLogEntry, fallback string) []string {
	out := []string{}
	for _, r := range rules {
		if r.Fires(entries) {
			out = append(out, r.Message)
		}
	}
	if len(out) == 0 && fallback != "" {
		out = append(out, fallback)
	}
	return out
}

var defaultGenerator = Default()

// Generate returns insights for recent using the built-in rules.
func Generate(recent []model.DailyLogEntry) []string {
	return defaultGenerator.Insights(recent)
}

// Recommend returns recommendations for latest using the built-in rules.
func Recommend(latest *model.DailyLogEntry) []string {
	return defaultGenerator.Recommendations(latest)
}

// RuleSet is one section of a rules file.
type RuleSet struct {
	Fallback string `yaml:"fallback"`
	Rules    []Rule `yaml:"rules"`
}

// RulesFile is the YAML layout accepted by LoadRules.
type RulesFile struct {
	Insights        RuleSet `yaml:"insights"`
	Recommendations RuleSet `yaml:"recommendations"`
}

// LoadRules reads a YAML rules file and applies it over the built-in rules.
// A section with rules replaces the built-in table; a non-empty fallback
// replaces the built-in fallback.
func LoadRules(path string) (*Generator, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading rules file: %w", err)
	}
	return ParseRules(data)
}

// ParseRules is LoadRules for in-memory YAML.
func ParseRules(data []byte) (*Generator, error) {
	var file RulesFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing YAML: %w", err)
	}

	g := Default()
	if len(file.Insights.Rules) > 0 {
		g.InsightRules = file.Insights.Rules
	}
	if file.Insights.Fallback != "" {
		g.InsightFallback = file.Insights.Fallback
	}
	if len(file.Recommendations.Rules) > 0 {
		g.RecommendationRules = file.Recommendations.Rules
	}
	if file.Recommendations.Fallback != "" {
		g.RecommendationFallback = file.Recommendations.Fallback
	}

	if err := g.Validate(); err != nil {
		return nil, err
	}
	return g, nil
}
