package models

import "time"

// ScoreWeights blend the ranking factors. They conceptually sum to 1.0 but
// the allocator only uses them relatively, so no normalisation is enforced.
type ScoreWeights struct {
	Urgency    float64 `json:"urgency"`
	Importance float64 `json:"importance"`
	Difficulty float64 `json:"difficulty"`
	Size       float64 `json:"size"`
}

// SchedulerPreferences is the durable, per-user learned state. Created with
// defaults on first use; mutated only by the learner or an explicit user
// override; overwritten, never deleted.
type SchedulerPreferences struct {
	Weights                    ScoreWeights       `json:"weights"`
	LearnedEnergyProfile       map[int]float64    `json:"learnedEnergyProfile"`
	PreferredBlockLengthByType map[TaskType]int   `json:"preferredBlockLengthByType"`
	CourseBias                 map[string]float64 `json:"courseBias"`
	LastAdaptationAt           *time.Time         `json:"lastAdaptationAt,omitempty"`
}

// DefaultPreferences seeds a fresh profile: mildly front-loaded energy
// (mornings and early evenings favoured) and a 50-minute block default for
// every known task type.
func DefaultPreferences() SchedulerPreferences {
	profile := make(map[int]float64, 24)
	for hour := 0; hour < 24; hour++ {
		switch {
		case hour < 7:
			profile[hour] = 0.1
		case hour < 12:
			profile[hour] = 0.9
		case hour < 14:
			profile[hour] = 0.6
		case hour < 18:
			profile[hour] = 0.8
		case hour < 22:
			profile[hour] = 0.7
		default:
			profile[hour] = 0.2
		}
	}

	lengths := map[TaskType]int{
		TaskTypeReading:        50,
		TaskTypeProblemSolving: 50,
		TaskTypeWriting:        50,
		TaskTypeProject:        50,
		TaskTypeExam:           50,
		TaskTypeReviewing:      50,
		TaskTypeOther:          50,
	}

	return SchedulerPreferences{
		Weights: ScoreWeights{
			Urgency:    0.4,
			Importance: 0.3,
			Difficulty: 0.2,
			Size:       0.1,
		},
		LearnedEnergyProfile:       profile,
		PreferredBlockLengthByType: lengths,
		CourseBias:                 make(map[string]float64),
	}
}

// Clone returns a deep copy so callers can hand a snapshot to the allocator
// while the learner mutates the original.
func (p SchedulerPreferences) Clone() SchedulerPreferences {
	out := p
	out.LearnedEnergyProfile = make(map[int]float64, len(p.LearnedEnergyProfile))
	for hour, weight := range p.LearnedEnergyProfile {
		out.LearnedEnergyProfile[hour] = weight
	}
	out.PreferredBlockLengthByType = make(map[TaskType]int, len(p.PreferredBlockLengthByType))
	for taskType, minutes := range p.PreferredBlockLengthByType {
		out.PreferredBlockLengthByType[taskType] = minutes
	}
	out.CourseBias = make(map[string]float64, len(p.CourseBias))
	for courseID, bias := range p.CourseBias {
		out.CourseBias[courseID] = bias
	}
	if p.LastAdaptationAt != nil {
		stamp := *p.LastAdaptationAt
		out.LastAdaptationAt = &stamp
	}
	return out
}

// EnergyAt resolves the energy weight for an hour, merging a request-scoped
// override over the learned profile. Unknown hours default to neutral.
func (p SchedulerPreferences) EnergyAt(hour int, override map[int]float64) float64 {
	if override != nil {
		if weight, ok := override[hour]; ok {
			return weight
		}
	}
	if weight, ok := p.LearnedEnergyProfile[hour]; ok {
		return weight
	}
	return 0.5
}

// BlockLengthFor returns the preferred minutes for a task type, or the
// provided fallback when the type has no learned preference yet.
func (p SchedulerPreferences) BlockLengthFor(taskType TaskType, fallback int) int {
	if minutes, ok := p.PreferredBlockLengthByType[taskType]; ok && minutes > 0 {
		return minutes
	}
	return fallback
}
