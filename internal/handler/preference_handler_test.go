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

type stubPreferences struct {
	payload *dto.PreferencesPayload
	err     error
}

func (s *stubPreferences) Get(_ context.Context) *dto.PreferencesPayload {
	return s.payload
}

func (s *stubPreferences) Update(_ context.Context, _ dto.PreferencesPayload) (*dto.PreferencesPayload, error) {
	return s.payload, s.err
}

func newPreferenceRouter(prefs preferenceManager) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	h := NewPreferenceHandler(prefs)
	router.GET("/preferences", h.GetPreferences)
	router.PUT("/preferences", h.PutPreferences)
	return router
}

func samplePreferences() *dto.PreferencesPayload {
	return &dto.PreferencesPayload{
		Weights:                    dto.WeightsPayload{Urgency: 0.4, Importance: 0.3, Difficulty: 0.2, Size: 0.1},
		LearnedEnergyProfile:       map[int]float64{9: 0.9},
		PreferredBlockLengthByType: map[string]int{"reading": 50},
		CourseBias:                 map[string]float64{},
	}
}

func TestGetPreferences(t *testing.T) {
	router := newPreferenceRouter(&stubPreferences{payload: samplePreferences()})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/preferences", nil)
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Data dto.PreferencesPayload `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.InDelta(t, 0.4, body.Data.Weights.Urgency, 1e-9)
	assert.Equal(t, 50, body.Data.PreferredBlockLengthByType["reading"])
}

func TestPutPreferences(t *testing.T) {
	router := newPreferenceRouter(&stubPreferences{payload: samplePreferences()})

	payload := `{"weights":{"urgency":0.4,"importance":0.3,"difficulty":0.2,"size":0.1}}`
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/preferences", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestPutPreferencesRejectsInvalidWeights(t *testing.T) {
	stub := &stubPreferences{err: appErrors.Clone(appErrors.ErrInvalidWeights, "at least one ranking weight must be positive")}
	router := newPreferenceRouter(stub)

	payload := `{"weights":{"urgency":0,"importance":0,"difficulty":0,"size":0}}`
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/preferences", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "INVALID_WEIGHTS")
}
