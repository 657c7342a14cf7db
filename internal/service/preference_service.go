package service

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/studyplan-api/internal/dto"
	"github.com/noah-isme/studyplan-api/internal/models"
	appErrors "github.com/noah-isme/studyplan-api/pkg/errors"
)

type preferenceStore interface {
	Get() models.SchedulerPreferences
	Put(prefs models.SchedulerPreferences) error
}

// PreferenceService exposes the learned state for inspection and explicit
// user override.
type PreferenceService struct {
	store     preferenceStore
	schedules interface{ InvalidateCache(ctx context.Context) }
	validator *validator.Validate
	logger    *zap.Logger
}

// NewPreferenceService constructs the service.
func NewPreferenceService(
	store preferenceStore,
	schedules interface{ InvalidateCache(ctx context.Context) },
	validate *validator.Validate,
	logger *zap.Logger,
) *PreferenceService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PreferenceService{store: store, schedules: schedules, validator: validate, logger: logger}
}

// Get returns the current learned state.
func (s *PreferenceService) Get(_ context.Context) *dto.PreferencesPayload {
	return toPayload(s.store.Get())
}

// Update replaces the learned state with a user override. The adaptation
// timestamp is owned by the learner and survives overrides untouched.
func (s *PreferenceService) Update(ctx context.Context, payload dto.PreferencesPayload) (*dto.PreferencesPayload, error) {
	if err := s.validator.Struct(payload); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid preferences payload")
	}
	weights := payload.Weights
	if weights.Urgency+weights.Importance+weights.Difficulty+weights.Size <= 0 {
		return nil, appErrors.Clone(appErrors.ErrInvalidWeights, "at least one ranking weight must be positive")
	}

	current := s.store.Get()
	next := models.SchedulerPreferences{
		Weights: models.ScoreWeights{
			Urgency:    weights.Urgency,
			Importance: weights.Importance,
			Difficulty: weights.Difficulty,
			Size:       weights.Size,
		},
		LearnedEnergyProfile:       payload.LearnedEnergyProfile,
		PreferredBlockLengthByType: make(map[models.TaskType]int, len(payload.PreferredBlockLengthByType)),
		CourseBias:                 payload.CourseBias,
		LastAdaptationAt:           current.LastAdaptationAt,
	}
	if next.LearnedEnergyProfile == nil {
		next.LearnedEnergyProfile = current.LearnedEnergyProfile
	}
	if payload.PreferredBlockLengthByType == nil {
		next.PreferredBlockLengthByType = current.PreferredBlockLengthByType
	} else {
		for taskType, minutes := range payload.PreferredBlockLengthByType {
			next.PreferredBlockLengthByType[models.TaskType(taskType)] = minutes
		}
	}
	if next.CourseBias == nil {
		next.CourseBias = current.CourseBias
	}

	if err := s.store.Put(next); err != nil {
		s.logger.Warn("preferences override persisted in memory only", zap.Error(err))
	}
	if s.schedules != nil {
		s.schedules.InvalidateCache(ctx)
	}
	return toPayload(s.store.Get()), nil
}

func toPayload(prefs models.SchedulerPreferences) *dto.PreferencesPayload {
	lengths := make(map[string]int, len(prefs.PreferredBlockLengthByType))
	for taskType, minutes := range prefs.PreferredBlockLengthByType {
		lengths[string(taskType)] = minutes
	}
	payload := &dto.PreferencesPayload{
		Weights: dto.WeightsPayload{
			Urgency:    prefs.Weights.Urgency,
			Importance: prefs.Weights.Importance,
			Difficulty: prefs.Weights.Difficulty,
			Size:       prefs.Weights.Size,
		},
		LearnedEnergyProfile:       prefs.LearnedEnergyProfile,
		PreferredBlockLengthByType: lengths,
		CourseBias:                 prefs.CourseBias,
	}
	if prefs.LastAdaptationAt != nil {
		stamp := prefs.LastAdaptationAt.UTC().Format(time.RFC3339)
		payload.LastAdaptationAt = &stamp
	}
	return payload
}
