package models

import "encoding/json"

// Dog profile form fields accepted by POST /api/profile.
// Values are sent as entered; the backend does the numeric coercion.
var ProfileFields = []string{
	"name",
	"breed",
	"age_years",
	"gender",
	"weight_kg",
	"height_cm",
	"activity_level",
	"current_diet",
	"exercise_routine",
	"health_history",
}

var ActivityLevels = []string{"low", "moderate", "high"}

// Flat key/value payload built from the profile form
type ProfileForm map[string]string

// Response of POST /api/profile. dog_id may be a string or a number.
type CreateProfileResponse struct {
	Status string          `json:"status,omitempty"`
	DogID  json.RawMessage `json:"dog_id,omitempty"`
	Error  string          `json:"error,omitempty"`
}
