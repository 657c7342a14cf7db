package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/studyplan-api/internal/dto"
	appErrors "github.com/noah-isme/studyplan-api/pkg/errors"
	"github.com/noah-isme/studyplan-api/pkg/response"
)

type preferenceManager interface {
	Get(ctx context.Context) *dto.PreferencesPayload
	Update(ctx context.Context, payload dto.PreferencesPayload) (*dto.PreferencesPayload, error)
}

// PreferenceHandler exposes the learned state for inspection and override.
type PreferenceHandler struct {
	prefs preferenceManager
}

// NewPreferenceHandler constructs the handler.
func NewPreferenceHandler(prefs preferenceManager) *PreferenceHandler {
	return &PreferenceHandler{prefs: prefs}
}

// GetPreferences godoc
// @Summary Read the learned scheduling preferences
// @Tags Learning
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /preferences [get]
func (h *PreferenceHandler) GetPreferences(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.prefs.Get(c.Request.Context()))
}

// PutPreferences godoc
// @Summary Override the learned scheduling preferences
// @Tags Learning
// @Accept json
// @Produce json
// @Param payload body dto.PreferencesPayload true "Preferences override"
// @Success 200 {object} response.Envelope
// @Router /preferences [put]
func (h *PreferenceHandler) PutPreferences(c *gin.Context) {
	var payload dto.PreferencesPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid preferences payload"))
		return
	}

	updated, err := h.prefs.Update(c.Request.Context(), payload)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, updated)
}
