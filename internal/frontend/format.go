package frontend

import (
	"encoding/json"
	"errors"
	"strings"

	"PawPlanner_WebClient/internal/apiclient"
	"PawPlanner_WebClient/internal/models"
)

var ErrMalformedRecommendation = errors.New("recommendation response has no deterministic block")

const refinementHeader = "--- GEMINI REFINEMENT ---"

// FormatRecommendation renders the deterministic block and the optional
// refinement text as the multi-line recommendation output.
func FormatRecommendation(r *models.RecommendationResponse) (string, error) {
	if r == nil || r.Deterministic == nil {
		return "", ErrMalformedRecommendation
	}
	d := r.Deterministic

	var b strings.Builder
	b.WriteString("Calories/day: " + scalarText(d.CalorieEstimate) + "\n")
	b.WriteString("Category: " + scalarText(d.Category) + "\n")
	b.WriteString("Exercise minutes/day: " + scalarText(d.ExerciseMinutes) + "\n")
	if len(d.Details) > 0 {
		b.WriteString("Details:\n- " + strings.Join(d.Details, "\n- ") + "\n")
	}

	if r.GeminiRefinement != nil && *r.GeminiRefinement != "" {
		b.WriteString("\n" + refinementHeader + "\n" + *r.GeminiRefinement)
	}
	return b.String(), nil
}

// scalarText prints a JSON scalar the way string interpolation would:
// strings unquoted, numbers in JavaScript form, null as "null" and a missing
// field as "undefined".
func scalarText(raw json.RawMessage) string {
	if len(raw) == 0 {
		return "undefined"
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil && string(raw) != "null" {
		return s
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil && string(raw) != "null" {
		return apiclient.NumberText(n)
	}
	text, err := apiclient.Stringify(raw)
	if err != nil {
		return string(raw)
	}
	return text
}

// truthyText returns the text of a value JavaScript would treat as true.
// Missing, null, false, 0 and "" are falsy.
func truthyText(raw json.RawMessage) (string, bool) {
	trimmed := strings.TrimSpace(string(raw))
	switch trimmed {
	case "", "null", "false", `""`:
		return "", false
	}
	var n json.Number
	if !strings.HasPrefix(trimmed, `"`) && json.Unmarshal(raw, &n) == nil {
		if f, err := n.Float64(); err == nil && f == 0 {
			return "", false
		}
	}
	return scalarText(raw), true
}
