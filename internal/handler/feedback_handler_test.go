package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/studyplan-api/internal/dto"
	appErrors "github.com/noah-isme/studyplan-api/pkg/errors"
)

type stubAdaptation struct {
	feedbackResp *dto.FeedbackResponse
	feedbackErr  error
	runResp      *dto.LearningRunResponse
	runErr       error
	lastForce    bool
}

func (s *stubAdaptation) RecordFeedback(_ context.Context, _ dto.FeedbackRequest) (*dto.FeedbackResponse, error) {
	return s.feedbackResp, s.feedbackErr
}

func (s *stubAdaptation) Run(_ context.Context, force bool) (*dto.LearningRunResponse, error) {
	s.lastForce = force
	return s.runResp, s.runErr
}

func newFeedbackRouter(adaptation adaptationRunner) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	h := NewFeedbackHandler(adaptation, nil)
	router.POST("/feedback", h.PostFeedback)
	router.POST("/learning/run", h.RunLearning)
	return router
}

func TestPostFeedbackCreated(t *testing.T) {
	stub := &stubAdaptation{feedbackResp: &dto.FeedbackResponse{ID: "fb-1", Pending: 3}}
	router := newFeedbackRouter(stub)

	payload := `{"blockId":"b1","taskId":"t1","type":"reading","start":"2026-03-09T09:00:00Z","end":"2026-03-09T09:50:00Z","completion":0.9,"action":"kept"}`
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/feedback", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	var body struct {
		Data dto.FeedbackResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "fb-1", body.Data.ID)
	assert.Equal(t, 3, body.Data.Pending)
}

func TestPostFeedbackMalformedBody(t *testing.T) {
	router := newFeedbackRouter(&stubAdaptation{})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/feedback", strings.NewReader("{"))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPostFeedbackServiceValidationError(t *testing.T) {
	stub := &stubAdaptation{feedbackErr: appErrors.Clone(appErrors.ErrValidation, "invalid feedback payload")}
	router := newFeedbackRouter(stub)

	payload := `{"blockId":"b1","taskId":"t1","start":"2026-03-09T09:00:00Z","end":"2026-03-09T09:50:00Z","completion":0.9,"action":"ignored"}`
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/feedback", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "VALIDATION_ERROR")
}

func TestRunLearningForceFlag(t *testing.T) {
	stub := &stubAdaptation{runResp: &dto.LearningRunResponse{Ran: true, Records: 4}}
	router := newFeedbackRouter(stub)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/learning/run?force=true", nil)
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, stub.lastForce)
	var body struct {
		Data dto.LearningRunResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.Data.Ran)
	assert.Equal(t, 4, body.Data.Records)
}

func TestRunLearningDefaultNotForced(t *testing.T) {
	stub := &stubAdaptation{runResp: &dto.LearningRunResponse{Ran: false, Reason: "cooldown active"}}
	router := newFeedbackRouter(stub)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/learning/run", nil)
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, stub.lastForce)
	assert.Contains(t, rec.Body.String(), "cooldown active")
}
