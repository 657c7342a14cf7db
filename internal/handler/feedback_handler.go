package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/studyplan-api/internal/dto"
	"github.com/noah-isme/studyplan-api/internal/service"
	appErrors "github.com/noah-isme/studyplan-api/pkg/errors"
	"github.com/noah-isme/studyplan-api/pkg/response"
)

type adaptationRunner interface {
	RecordFeedback(ctx context.Context, req dto.FeedbackRequest) (*dto.FeedbackResponse, error)
	Run(ctx context.Context, force bool) (*dto.LearningRunResponse, error)
}

// FeedbackHandler ingests block outcomes and exposes the explicit
// adaptation trigger.
type FeedbackHandler struct {
	adaptation adaptationRunner
	metrics    *service.MetricsService
}

// NewFeedbackHandler constructs the handler.
func NewFeedbackHandler(adaptation adaptationRunner, metrics *service.MetricsService) *FeedbackHandler {
	return &FeedbackHandler{adaptation: adaptation, metrics: metrics}
}

// PostFeedback godoc
// @Summary Record what happened to a scheduled block
// @Tags Learning
// @Accept json
// @Produce json
// @Param payload body dto.FeedbackRequest true "Block outcome"
// @Success 201 {object} response.Envelope
// @Router /feedback [post]
func (h *FeedbackHandler) PostFeedback(c *gin.Context) {
	var req dto.FeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid feedback payload"))
		return
	}

	resp, err := h.adaptation.RecordFeedback(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	h.metrics.RecordFeedback()
	response.Created(c, resp)
}

// RunLearning godoc
// @Summary Trigger an adaptation pass
// @Description Folds accumulated feedback into the preferences. Without force=true the pass only runs when the cooldown has elapsed.
// @Tags Learning
// @Produce json
// @Param force query bool false "Bypass the cooldown"
// @Success 200 {object} response.Envelope
// @Router /learning/run [post]
func (h *FeedbackHandler) RunLearning(c *gin.Context) {
	force := c.Query("force") == "true"

	resp, err := h.adaptation.Run(c.Request.Context(), force)
	if err != nil {
		response.Error(c, err)
		return
	}
	outcome := "skipped"
	if resp.Ran {
		outcome = "ran"
	}
	h.metrics.RecordAdaptation(outcome)
	response.JSON(c, http.StatusOK, resp)
}
