package scheduler

import (
	"math"
	"time"

	"github.com/noah-isme/studyplan-api/internal/models"
)

// minDaysUntilDue floors the deadline-proximity denominator so due-today
// items get a large finite boost instead of a division blow-up.
const minDaysUntilDue = 0.5

// UrgencyScore computes the scalar priority signal for a pending task.
// Pure and deterministic; the absolute scale only matters within one run.
func UrgencyScore(task models.Task, now time.Time) float64 {
	priority := float64(task.Priority)
	if priority < 1 {
		priority = 1
	} else if priority > 5 {
		priority = 5
	}

	score := priority * 10

	if task.Due != nil {
		days := math.Floor(task.Due.Sub(now).Hours() / 24)
		score += 20 / math.Max(days, minDaysUntilDue)
	}

	remainingHours := float64(task.RemainingMinutes()) / 60
	score += 5 * remainingHours

	return score
}
