package dto

// WeightsPayload mirrors the ranking weights for read and override.
type WeightsPayload struct {
	Urgency    float64 `json:"urgency" validate:"min=0,max=1"`
	Importance float64 `json:"importance" validate:"min=0,max=1"`
	Difficulty float64 `json:"difficulty" validate:"min=0,max=1"`
	Size       float64 `json:"size" validate:"min=0,max=1"`
}

// PreferencesPayload is the full learned-state document exposed over HTTP.
// Maps are keyed the same way they are persisted so the payload round-trips
// through the preferences file format.
type PreferencesPayload struct {
	Weights                    WeightsPayload     `json:"weights"`
	LearnedEnergyProfile       map[int]float64    `json:"learnedEnergyProfile" validate:"omitempty,dive,min=0,max=1"`
	PreferredBlockLengthByType map[string]int     `json:"preferredBlockLengthByType" validate:"omitempty,dive,min=15,max=240"`
	CourseBias                 map[string]float64 `json:"courseBias"`
	LastAdaptationAt           *string            `json:"lastAdaptationAt,omitempty"`
}
