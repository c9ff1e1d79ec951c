package models

import "encoding/json"

type RecommendationRequest struct {
	DogID            string `json:"dog_id"`
	RefineWithGemini bool   `json:"refine_with_gemini"`
}

// Numeric fields are kept as raw JSON so they render exactly as sent
// (including null when the backend has no estimate).
type Deterministic struct {
	CalorieEstimate json.RawMessage `json:"calorie_estimate_kcal_per_day"`
	Category        json.RawMessage `json:"category"`
	ExerciseMinutes json.RawMessage `json:"exercise_minutes_per_day"`
	Details         []string        `json:"details"`
}

type RecommendationResponse struct {
	Deterministic    *Deterministic `json:"deterministic"`
	GeminiRefinement *string        `json:"gemini_refinement"`
	Error            string         `json:"error,omitempty"`
}
