// Package narrative turns a dashboard JSON document into a written summary
// using an installed AI CLI or an OpenAI-compatible chat API.
package narrative

import (
	"context"
	"strings"
)

// Generator produces narrative markdown from dashboard JSON.
type Generator interface {
	Generate(ctx context.Context, dashboardJSON []byte, prompt string) (string, error)
	Name() string
}

// DefaultPrompt returns the built-in instructions for summarizing a health
// dashboard. If extra is non-empty it is appended as additional instructions.
func DefaultPrompt(extra string) string {
	var b strings.Builder

	b.WriteString(`You are a supportive wellness coach. You will receive a JSON health dashboard for one person.

The JSON contains:
- "score" (0-100) and "rating" for the most recent logged day, with "breakdown" per category (sleep, nutrition, activity, hydration, mood).
- "trend": one point per day in the window, oldest first. Points with "placeholder": true are days with no log.
- "changes": percent change between the last two days per metric.
- "insights" and "recommendations": rule-based messages already shown to the user.

Write a short Markdown summary. Output ONLY Markdown, with no code fences around the document and no preamble.

1. **Title**: "# Your Week in Review"
2. **Overview** (## Overview): one paragraph on the overall score and how the week went. Mention logging gaps if several days are placeholders.
3. **What Went Well** (## What Went Well): up to three bullets on the strongest categories or improving metrics.
4. **Focus Areas** (## Focus Areas): up to three bullets on the weakest categories, consistent with the insights and recommendations.
5. **Next Steps** (## Next Steps): two or three concrete, gentle suggestions for tomorrow.

Do not give medical advice or diagnose conditions. Refer to numbers as they appear in the data.
`)

	if extra != "" {
		b.WriteString("\n### Additional Instructions\n\n")
		b.WriteString(extra)
		b.WriteString("\n")
	}

	return b.String()
}
