package scheduler

import (
	"fmt"
	"sort"
	"time"

	"github.com/noah-isme/studyplan-api/internal/models"
)

// Allocator binds pending tasks to candidate study blocks across a horizon.
// Generate is a pure function of its inputs: no I/O, no clock reads, no
// randomness, so identical inputs always produce identical results.
type Allocator struct{}

// NewAllocator constructs an allocator.
func NewAllocator() *Allocator {
	return &Allocator{}
}

type taskState struct {
	task      models.Task
	score     float64
	remaining int
	byDay     map[string][]models.Interval
}

type slotState struct {
	slot  models.FreeSlot
	bound []models.Interval
}

type candidate struct {
	slotIdx  int
	interval models.Interval
	energy   float64
}

// Generate produces the day-by-day plan. The reference time is an explicit
// input so urgency scoring and past-due filtering stay deterministic.
func (a *Allocator) Generate(
	tasks []models.Task,
	events []models.FixedEvent,
	constraints models.Constraints,
	prefs models.SchedulerPreferences,
	now time.Time,
) models.ScheduleResult {
	result := models.ScheduleResult{}
	logf := func(format string, args ...interface{}) {
		result.Log = append(result.Log, fmt.Sprintf(format, args...))
	}

	horizon := models.Interval{Start: constraints.HorizonStart, End: constraints.HorizonEnd}
	busyByDay := make(map[string][]models.Interval)

	// Fixed events pass through as locked blocks and seed the busy map.
	for _, event := range events {
		if !event.Valid() {
			logf("skipped event %q: start is not before end", event.Title)
			continue
		}
		interval := models.Interval{Start: event.Start, End: event.End}
		if !interval.Overlaps(horizon) {
			continue
		}
		key := dayKey(event.Start)
		busyByDay[key] = append(busyByDay[key], interval)
		result.Blocks = append(result.Blocks, models.ScheduledBlock{
			ID:     event.ID,
			Title:  event.Title,
			Start:  event.Start,
			End:    event.End,
			Kind:   models.BlockKindFixed,
			Locked: true,
		})
	}

	for _, window := range constraints.DoNotScheduleWindows {
		if !window.Start.Before(window.End) {
			continue
		}
		key := dayKey(window.Start)
		busyByDay[key] = append(busyByDay[key], window)
	}

	// Partition tasks: locked tasks become fixed blocks before slot
	// computation, flexible tasks flow through ranking.
	var flexible []*taskState
	for i := range tasks {
		task := tasks[i]
		if task.IsCompleted {
			continue
		}
		if !task.HasValidBounds() {
			logf("excluded task %q: min block %d exceeds max block %d", task.Title, task.MinBlockMinutes, task.MaxBlockMinutes)
			continue
		}
		if task.IsPastDue(now) {
			logf("excluded task %q: past due", task.Title)
			continue
		}
		if task.RemainingMinutes() == 0 {
			continue
		}
		if task.Locked {
			a.placeLocked(task, constraints, prefs, busyByDay, &result, logf)
			continue
		}
		flexible = append(flexible, &taskState{
			task:      task,
			remaining: task.RemainingMinutes(),
			byDay:     make(map[string][]models.Interval),
		})
	}

	a.rank(flexible, constraints, prefs, now)
	for _, state := range flexible {
		logf("ranked task %q score=%.2f remaining=%dm", state.task.Title, state.score, state.remaining)
	}

	for _, day := range constraints.HorizonDays() {
		a.allocateDay(day, flexible, constraints, prefs, busyByDay, &result, logf)
	}

	for _, state := range flexible {
		if state.remaining > 0 {
			result.Overflow = append(result.Overflow, models.TaskOverflow{
				TaskID:           state.task.ID,
				Title:            state.task.Title,
				RemainingMinutes: state.remaining,
			})
			logf("overflow: task %q has %dm unplaced within horizon", state.task.Title, state.remaining)
		}
	}

	sort.Slice(result.Blocks, func(i, j int) bool {
		if result.Blocks[i].Start.Equal(result.Blocks[j].Start) {
			return result.Blocks[i].ID < result.Blocks[j].ID
		}
		return result.Blocks[i].Start.Before(result.Blocks[j].Start)
	})
	sort.Slice(result.Overflow, func(i, j int) bool {
		return result.Overflow[i].TaskID < result.Overflow[j].TaskID
	})

	if len(result.Blocks) == 0 {
		logf("no blocks generated for horizon %s to %s", constraints.HorizonStart.Format("2006-01-02"), constraints.HorizonEnd.Format("2006-01-02"))
	}
	return result
}

// placeLocked renders a locked task as an immovable block, treated like a
// fixed event for the rest of the run.
func (a *Allocator) placeLocked(
	task models.Task,
	constraints models.Constraints,
	prefs models.SchedulerPreferences,
	busyByDay map[string][]models.Interval,
	result *models.ScheduleResult,
	logf func(string, ...interface{}),
) {
	if task.LockedStart == nil {
		logf("excluded locked task %q: no pinned start time", task.Title)
		return
	}
	duration := blockMinutesFor(task, constraints, prefs)
	if remaining := task.RemainingMinutes(); remaining >= task.MinBlockMinutes && remaining < duration {
		duration = remaining
	}
	start := *task.LockedStart
	end := start.Add(time.Duration(duration) * time.Minute)
	key := dayKey(start)
	busyByDay[key] = append(busyByDay[key], models.Interval{Start: start, End: end})
	result.Blocks = append(result.Blocks, models.ScheduledBlock{
		ID:     blockID(task.ID, start),
		TaskID: task.ID,
		Title:  task.Title,
		Start:  start,
		End:    end,
		Kind:   models.BlockKindTask,
		Locked: true,
	})
	logf("pinned locked task %q at %s for %dm", task.Title, start.Format("2006-01-02 15:04"), duration)
}

// rank orders flexible tasks by the composite score, breaking ties by
// earliest due date then task id for determinism.
func (a *Allocator) rank(states []*taskState, constraints models.Constraints, prefs models.SchedulerPreferences, now time.Time) {
	maxRemaining := 0
	for _, state := range states {
		if state.remaining > maxRemaining {
			maxRemaining = state.remaining
		}
	}
	for _, state := range states {
		normalizedSize := 0.0
		if maxRemaining > 0 {
			normalizedSize = float64(state.remaining) / float64(maxRemaining)
		}
		bias := 0.0
		if state.task.CourseID != nil {
			bias = prefs.CourseBias[*state.task.CourseID]
		}
		state.score = prefs.Weights.Urgency*UrgencyScore(state.task, now) +
			prefs.Weights.Importance*state.task.Importance +
			prefs.Weights.Difficulty*state.task.Difficulty -
			prefs.Weights.Size*normalizedSize -
			bias
	}
	sort.SliceStable(states, func(i, j int) bool {
		if states[i].score != states[j].score {
			return states[i].score > states[j].score
		}
		iDue, jDue := states[i].task.Due, states[j].task.Due
		switch {
		case iDue != nil && jDue != nil && !iDue.Equal(*jDue):
			return iDue.Before(*jDue)
		case iDue != nil && jDue == nil:
			return true
		case iDue == nil && jDue != nil:
			return false
		}
		return states[i].task.ID < states[j].task.ID
	})
}

// allocateDay computes free slots for one day and greedily binds ranked
// tasks to candidate blocks, highest-energy hours first.
func (a *Allocator) allocateDay(
	day time.Time,
	ranked []*taskState,
	constraints models.Constraints,
	prefs models.SchedulerPreferences,
	busyByDay map[string][]models.Interval,
	result *models.ScheduleResult,
	logf func(string, ...interface{}),
) {
	key := dayKey(day)
	bounds := constraints.DayBounds(day)
	if !bounds.Start.Before(bounds.End) {
		logf("day %s: empty working window", key)
		return
	}

	slots := ComputeFreeSlots(bounds, busyByDay[key])
	if len(slots) == 0 {
		logf("day %s: no free slots", key)
		return
	}
	logf("day %s: %d free slot(s)", key, len(slots))

	blockDur := time.Duration(constraints.DefaultBlockMinutes) * time.Minute
	breakDur := time.Duration(constraints.BreakMinutes) * time.Minute

	states := make([]*slotState, len(slots))
	var candidates []candidate
	for i, slot := range slots {
		states[i] = &slotState{slot: slot}
		for _, interval := range SliceSlot(slot, blockDur, breakDur) {
			candidates = append(candidates, candidate{
				slotIdx:  i,
				interval: interval,
				energy:   prefs.EnergyAt(interval.Start.Hour(), constraints.EnergyProfile),
			})
		}
	}

	// Low-energy hours are deprioritised, not excluded: candidates are
	// visited best-energy first, chronological within equal energy.
	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].energy != candidates[j].energy {
			return candidates[i].energy > candidates[j].energy
		}
		return candidates[i].interval.Start.Before(candidates[j].interval.Start)
	})

	dayMinutes := 0
	for _, cand := range candidates {
		if constraints.MaxStudyMinutesPerDay > 0 && dayMinutes >= constraints.MaxStudyMinutesPerDay {
			logf("day %s: daily study cap reached", key)
			break
		}
		slot := states[cand.slotIdx]
		block, state := a.bindCandidate(cand, slot, ranked, constraints, prefs, key, dayMinutes, logf)
		if state == nil {
			continue
		}
		result.Blocks = append(result.Blocks, block)
		duration := int(block.End.Sub(block.Start).Minutes())
		state.remaining -= duration
		state.byDay[key] = append(state.byDay[key], block.Interval())
		dayMinutes += duration
		insertBound(slot, block.Interval())
		logf("day %s: bound task %q to %s-%s (%dm)", key, state.task.Title, block.Start.Format("15:04"), block.End.Format("15:04"), duration)
	}
}

// bindCandidate selects the highest-ranked eligible task for one candidate
// block and resizes the block to the task's preferred length.
func (a *Allocator) bindCandidate(
	cand candidate,
	slot *slotState,
	ranked []*taskState,
	constraints models.Constraints,
	prefs models.SchedulerPreferences,
	dayKey string,
	dayMinutes int,
	logf func(string, ...interface{}),
) (models.ScheduledBlock, *taskState) {
	breakDur := time.Duration(constraints.BreakMinutes) * time.Minute
	start := cand.interval.Start

	// The candidate may have been consumed by an earlier binding that grew
	// past its grid cell.
	limitEnd := slot.slot.End
	for _, bound := range slot.bound {
		if !bound.End.Add(breakDur).After(start) {
			continue
		}
		if bound.Start.After(start) {
			if bound.Start.Before(limitEnd) {
				limitEnd = bound.Start.Add(-breakDur)
			}
			continue
		}
		return models.ScheduledBlock{}, nil
	}
	available := int(limitEnd.Sub(start).Minutes())
	if available <= 0 {
		return models.ScheduledBlock{}, nil
	}

	gap := time.Duration(constraints.MinGapBetweenBlocksMinutes) * time.Minute

	for _, state := range ranked {
		if state.remaining <= 0 {
			continue
		}
		if state.remaining < state.task.MinBlockMinutes {
			// A final sliver shorter than the task's minimum block is
			// left as overflow rather than emitted undersized.
			continue
		}

		duration := blockMinutesFor(state.task, constraints, prefs)
		if state.remaining >= state.task.MinBlockMinutes && state.remaining < duration {
			duration = state.remaining
		}
		if duration > available {
			if available < state.task.MinBlockMinutes {
				continue
			}
			duration = available
		}
		if constraints.MaxStudyMinutesPerDay > 0 {
			budget := constraints.MaxStudyMinutesPerDay - dayMinutes
			if budget < state.task.MinBlockMinutes {
				continue
			}
			if duration > budget {
				duration = budget
			}
		}

		end := start.Add(time.Duration(duration) * time.Minute)
		if violatesGap(state.byDay[dayKey], models.Interval{Start: start, End: end}, gap) {
			logf("day %s: skipped task %q at %s: min gap not satisfied", dayKey, state.task.Title, start.Format("15:04"))
			continue
		}

		return models.ScheduledBlock{
			ID:     blockID(state.task.ID, start),
			TaskID: state.task.ID,
			Title:  state.task.Title,
			Start:  start,
			End:    end,
			Kind:   models.BlockKindTask,
		}, state
	}
	return models.ScheduledBlock{}, nil
}

// blockMinutesFor resolves the preferred block length for a task, clipped to
// the task's own bounds and the per-block cap.
func blockMinutesFor(task models.Task, constraints models.Constraints, prefs models.SchedulerPreferences) int {
	upper := task.MaxBlockMinutes
	if constraints.MaxStudyMinutesPerBlock > 0 && constraints.MaxStudyMinutesPerBlock < upper {
		upper = constraints.MaxStudyMinutesPerBlock
	}
	preferred := prefs.BlockLengthFor(task.Type, constraints.DefaultBlockMinutes)
	if preferred < task.MinBlockMinutes {
		return task.MinBlockMinutes
	}
	if preferred > upper {
		return upper
	}
	return preferred
}

func violatesGap(existing []models.Interval, next models.Interval, gap time.Duration) bool {
	for _, interval := range existing {
		if next.Start.Before(interval.End.Add(gap)) && interval.Start.Before(next.End.Add(gap)) {
			return true
		}
	}
	return false
}

func insertBound(slot *slotState, interval models.Interval) {
	slot.bound = append(slot.bound, interval)
	sort.Slice(slot.bound, func(i, j int) bool {
		return slot.bound[i].Start.Before(slot.bound[j].Start)
	})
}

func dayKey(t time.Time) string {
	return t.Format("2006-01-02")
}

// blockID derives a stable identifier from the binding itself so repeated
// runs over identical inputs emit identical results.
func blockID(taskID string, start time.Time) string {
	return fmt.Sprintf("%s-%s", taskID, start.UTC().Format("20060102T1504"))
}
