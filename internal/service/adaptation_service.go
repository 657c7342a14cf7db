package service

import (
	"context"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/studyplan-api/internal/dto"
	"github.com/noah-isme/studyplan-api/internal/learner"
	"github.com/noah-isme/studyplan-api/internal/models"
	"github.com/noah-isme/studyplan-api/pkg/config"
	appErrors "github.com/noah-isme/studyplan-api/pkg/errors"
	"github.com/noah-isme/studyplan-api/pkg/jobs"
)

type feedbackLog interface {
	Append(record models.BlockFeedback) error
	Snapshot() []models.BlockFeedback
	Len() int
	ClearConsumed(n int) error
}

type preferenceWriter interface {
	Get() models.SchedulerPreferences
	Update(mutate func(*models.SchedulerPreferences)) error
}

// AdaptationService ingests block feedback and decides when to fold it into
// the preferences. Learner passes run off the request path through a worker
// queue and are gated by a cooldown so redundant triggers stay cheap.
type AdaptationService struct {
	feedback  feedbackLog
	prefs     preferenceWriter
	learner   *learner.Learner
	schedules interface{ InvalidateCache(ctx context.Context) }
	queue     *jobs.Queue
	cfg       config.LearningConfig
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time

	// serialises learner passes; redundant calls must be safe
	runMu sync.Mutex
}

// NewAdaptationService constructs the service and its background queue.
func NewAdaptationService(
	feedback feedbackLog,
	prefs preferenceWriter,
	l *learner.Learner,
	schedules interface{ InvalidateCache(ctx context.Context) },
	cfg config.LearningConfig,
	validate *validator.Validate,
	logger *zap.Logger,
) *AdaptationService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if l == nil {
		l = learner.New(logger)
	}
	s := &AdaptationService{
		feedback:  feedback,
		prefs:     prefs,
		learner:   l,
		schedules: schedules,
		cfg:       cfg,
		validator: validate,
		logger:    logger,
		now:       time.Now,
	}
	s.queue = jobs.NewQueue("adaptation", s.handleJob, jobs.QueueConfig{
		Workers:    cfg.WorkerPoolSize,
		MaxRetries: cfg.WorkerRetries,
		Logger:     logger,
	})
	return s
}

// Start launches the background workers.
func (s *AdaptationService) Start(ctx context.Context) {
	s.queue.Start(ctx)
}

// Stop drains the background workers.
func (s *AdaptationService) Stop() {
	s.queue.Stop()
}

// RecordFeedback appends one block outcome and schedules an adaptation
// check in the background.
func (s *AdaptationService) RecordFeedback(ctx context.Context, req dto.FeedbackRequest) (*dto.FeedbackResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid feedback payload")
	}
	if !req.End.After(req.Start) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "feedback start must be before end")
	}

	record := models.BlockFeedback{
		ID:         uuid.NewString(),
		BlockID:    req.BlockID,
		TaskID:     req.TaskID,
		CourseID:   req.CourseID,
		Type:       models.TaskType(req.Type),
		Start:      req.Start,
		End:        req.End,
		Completion: req.Completion,
		Action:     models.FeedbackAction(req.Action),
		RecordedAt: s.now().UTC(),
	}
	if err := s.feedback.Append(record); err != nil {
		// in-memory append succeeded, only the disk snapshot is stale
		s.logger.Warn("feedback snapshot write failed", zap.Error(err))
	}

	if s.schedules != nil {
		s.schedules.InvalidateCache(ctx)
	}

	if s.cfg.Enabled {
		job := jobs.Job{ID: record.ID, Type: "adaptation-check"}
		if err := s.queue.Enqueue(job); err != nil {
			s.logger.Warn("failed to enqueue adaptation check", zap.Error(err))
		}
	}

	return &dto.FeedbackResponse{ID: record.ID, Pending: s.feedback.Len()}, nil
}

// Run executes one adaptation attempt. With force false the pass only runs
// when feedback exists and the cooldown since the last pass has elapsed.
func (s *AdaptationService) Run(ctx context.Context, force bool) (*dto.LearningRunResponse, error) {
	s.runMu.Lock()
	defer s.runMu.Unlock()

	batch := s.feedback.Snapshot()
	if len(batch) == 0 {
		return &dto.LearningRunResponse{Ran: false, Reason: "no feedback to learn from"}, nil
	}

	if !force {
		if last := s.prefs.Get().LastAdaptationAt; last != nil {
			if elapsed := s.now().Sub(*last); elapsed < s.cfg.Cooldown {
				return &dto.LearningRunResponse{
					Ran:     false,
					Records: len(batch),
					Reason:  "cooldown active",
				}, nil
			}
		}
	}

	err := s.prefs.Update(func(p *models.SchedulerPreferences) {
		s.learner.UpdatePreferences(batch, p)
		stamp := s.now().UTC()
		p.LastAdaptationAt = &stamp
	})
	if err != nil {
		// the in-memory document already carries this pass; only the disk
		// snapshot is stale and the next mutation rewrites it in full
		s.logger.Error("failed to persist adapted preferences", zap.Error(err))
	}
	// Only the snapshotted records are consumed; an append that landed
	// while the learner ran stays queued for the next pass.
	if err := s.feedback.ClearConsumed(len(batch)); err != nil {
		s.logger.Warn("failed to clear consumed feedback", zap.Error(err))
	}
	if s.schedules != nil {
		s.schedules.InvalidateCache(ctx)
	}

	s.logger.Info("adaptation pass completed", zap.Int("records", len(batch)), zap.Bool("forced", force))
	return &dto.LearningRunResponse{Ran: true, Records: len(batch)}, nil
}

func (s *AdaptationService) handleJob(ctx context.Context, _ jobs.Job) error {
	_, err := s.Run(ctx, false)
	return err
}
