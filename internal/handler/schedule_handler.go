package handler

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/studyplan-api/internal/dto"
	"github.com/noah-isme/studyplan-api/internal/service"
	appErrors "github.com/noah-isme/studyplan-api/pkg/errors"
	"github.com/noah-isme/studyplan-api/pkg/response"
)

type scheduleGenerator interface {
	Generate(ctx context.Context, query dto.ScheduleQuery) (*dto.ScheduleResponse, error)
}

type calendarLister interface {
	List(ctx context.Context) (*dto.CalendarsResponse, error)
}

type planExporter interface {
	Render(ctx context.Context, query dto.ExportQuery) (*service.ExportArtifact, error)
}

// ScheduleHandler exposes the schedule read endpoints. The schedule and
// calendar listings return flat payloads consumed by the UI layer; only the
// export endpoint uses the common envelope for errors.
type ScheduleHandler struct {
	schedules scheduleGenerator
	calendars calendarLister
	exporter  planExporter
	metrics   *service.MetricsService
}

// NewScheduleHandler constructs the handler.
func NewScheduleHandler(schedules scheduleGenerator, calendars calendarLister, exporter planExporter, metrics *service.MetricsService) *ScheduleHandler {
	return &ScheduleHandler{schedules: schedules, calendars: calendars, exporter: exporter, metrics: metrics}
}

// GetSchedule godoc
// @Summary Generate the study plan for the coming days
// @Description Builds a day-by-day plan of study blocks around fixed calendar events. The calendars filter narrows conflict avoidance, never task selection.
// @Tags Schedule
// @Produce json
// @Param days query int false "Horizon in days (1-14, default 7)"
// @Param calendars query string false "Comma-separated calendar names"
// @Success 200 {object} dto.ScheduleResponse
// @Router /schedule [get]
func (h *ScheduleHandler) GetSchedule(c *gin.Context) {
	var query dto.ScheduleQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid schedule query"))
		return
	}

	started := time.Now()
	resp, err := h.schedules.Generate(c.Request.Context(), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	h.metrics.ObserveGeneration(time.Since(started), resp.GeneratedBlocks, len(resp.Overflow))

	c.JSON(http.StatusOK, resp)
}

// GetCalendars godoc
// @Summary List selectable calendars
// @Tags Schedule
// @Produce json
// @Success 200 {object} dto.CalendarsResponse
// @Router /calendars [get]
func (h *ScheduleHandler) GetCalendars(c *gin.Context) {
	resp, err := h.calendars.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ExportSchedule godoc
// @Summary Download the plan as CSV or PDF
// @Tags Schedule
// @Produce text/csv,application/pdf
// @Param days query int false "Horizon in days (1-14, default 7)"
// @Param calendars query string false "Comma-separated calendar names"
// @Param format query string false "csv or pdf (default csv)"
// @Success 200 {file} file
// @Router /schedule/export [get]
func (h *ScheduleHandler) ExportSchedule(c *gin.Context) {
	var query dto.ExportQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid export query"))
		return
	}

	artifact, err := h.exporter.Render(c.Request.Context(), query)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", artifact.Filename))
	c.Data(http.StatusOK, artifact.ContentType, artifact.Data)
}
