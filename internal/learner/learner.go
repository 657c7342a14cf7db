package learner

import (
	"sort"

	"go.uber.org/zap"

	"github.com/noah-isme/studyplan-api/internal/models"
)

const (
	// alpha is the EMA smoothing factor shared by every learned parameter.
	alpha = 0.2

	minBlockLengthMinutes = 15
	maxBlockLengthMinutes = 240

	// biasStep scales the per-course avoidance accumulator. Deliberately
	// unbounded: repeated consistent failure keeps raising the pressure.
	biasStep = 0.05

	neutralEnergy = 0.5
)

// Learner folds accumulated block feedback into scheduler preferences.
// It is plain arithmetic over the batch, deterministic for a given input,
// and a no-op on an empty batch.
type Learner struct {
	log *zap.Logger
}

func New(log *zap.Logger) *Learner {
	if log == nil {
		log = zap.NewNop()
	}
	return &Learner{log: log}
}

type hourSignal struct {
	successMinutes int
	failMinutes    int
}

type typeSignal struct {
	successMinutes int
	successBlocks  int
}

type courseSignal struct {
	succeeded int
	failed    int
}

// UpdatePreferences applies one feedback batch to the preferences in place.
// Hours, task types, and courses without any signal in the batch keep their
// prior values.
func (l *Learner) UpdatePreferences(feedback []models.BlockFeedback, prefs *models.SchedulerPreferences) {
	if len(feedback) == 0 {
		return
	}
	if prefs.LearnedEnergyProfile == nil {
		prefs.LearnedEnergyProfile = make(map[int]float64)
	}
	if prefs.PreferredBlockLengthByType == nil {
		prefs.PreferredBlockLengthByType = make(map[models.TaskType]int)
	}
	if prefs.CourseBias == nil {
		prefs.CourseBias = make(map[string]float64)
	}

	hours := make(map[int]*hourSignal)
	types := make(map[models.TaskType]*typeSignal)
	courses := make(map[string]*courseSignal)

	for _, record := range feedback {
		succeeded := record.Succeeded()
		failed := record.Failed()
		if !succeeded && !failed {
			continue
		}

		hour := record.Start.Hour()
		signal := hours[hour]
		if signal == nil {
			signal = &hourSignal{}
			hours[hour] = signal
		}
		if succeeded {
			signal.successMinutes += record.Minutes()
		} else {
			signal.failMinutes += record.Minutes()
		}

		if succeeded {
			ts := types[record.Type]
			if ts == nil {
				ts = &typeSignal{}
				types[record.Type] = ts
			}
			ts.successMinutes += record.Minutes()
			ts.successBlocks++
		}

		if record.CourseID != nil {
			cs := courses[*record.CourseID]
			if cs == nil {
				cs = &courseSignal{}
				courses[*record.CourseID] = cs
			}
			if succeeded {
				cs.succeeded++
			} else {
				cs.failed++
			}
		}
	}

	l.updateEnergyProfile(prefs, hours)
	l.updateBlockLengths(prefs, types)
	l.updateCourseBias(prefs, courses)

	l.log.Info("preferences updated from feedback",
		zap.Int("records", len(feedback)),
		zap.Int("hours_touched", len(hours)),
		zap.Int("types_touched", len(types)),
		zap.Int("courses_touched", len(courses)),
	)
}

// updateEnergyProfile smooths each touched hour toward the observed success
// ratio by minutes. Hours with no signal keep their prior weight.
func (l *Learner) updateEnergyProfile(prefs *models.SchedulerPreferences, hours map[int]*hourSignal) {
	for hour := 0; hour < 24; hour++ {
		signal, ok := hours[hour]
		if !ok {
			continue
		}
		total := signal.successMinutes + signal.failMinutes
		if total == 0 {
			continue
		}
		observed := float64(signal.successMinutes) / float64(total)
		prior, known := prefs.LearnedEnergyProfile[hour]
		if !known {
			prior = neutralEnergy
		}
		prefs.LearnedEnergyProfile[hour] = clampFloat(alpha*observed+(1-alpha)*prior, 0, 1)
	}
}

// updateBlockLengths moves each task type's preferred length toward the
// average duration of its successful blocks.
func (l *Learner) updateBlockLengths(prefs *models.SchedulerPreferences, types map[models.TaskType]*typeSignal) {
	keys := make([]models.TaskType, 0, len(types))
	for taskType := range types {
		keys = append(keys, taskType)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })

	for _, taskType := range keys {
		signal := types[taskType]
		if signal.successBlocks == 0 {
			continue
		}
		observed := float64(signal.successMinutes) / float64(signal.successBlocks)
		prior, known := prefs.PreferredBlockLengthByType[taskType]
		if !known || prior <= 0 {
			prior = int(observed)
		}
		smoothed := alpha*observed + (1-alpha)*float64(prior)
		prefs.PreferredBlockLengthByType[taskType] = clampInt(int(smoothed+0.5), minBlockLengthMinutes, maxBlockLengthMinutes)
	}
}

// updateCourseBias accumulates avoidance pressure per course. Positive bias
// pushes the course down in ranking.
func (l *Learner) updateCourseBias(prefs *models.SchedulerPreferences, courses map[string]*courseSignal) {
	keys := make([]string, 0, len(courses))
	for courseID := range courses {
		keys = append(keys, courseID)
	}
	sort.Strings(keys)

	for _, courseID := range keys {
		signal := courses[courseID]
		delta := signal.failed - signal.succeeded
		if delta == 0 {
			continue
		}
		prefs.CourseBias[courseID] += biasStep * float64(delta)
	}
}

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
