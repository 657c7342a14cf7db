package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/studyplan-api/internal/dto"
	appErrors "github.com/noah-isme/studyplan-api/pkg/errors"
	"github.com/noah-isme/studyplan-api/pkg/export"
)

type planSource interface {
	Generate(ctx context.Context, query dto.ScheduleQuery) (*dto.ScheduleResponse, error)
}

// ExportArtifact is a rendered plan download.
type ExportArtifact struct {
	Filename    string
	ContentType string
	Data        []byte
}

// ExportService renders a generated plan as a CSV or PDF download.
type ExportService struct {
	plans  planSource
	csv    *export.CSVExporter
	pdf    *export.PDFExporter
	logger *zap.Logger
}

// NewExportService constructs the service.
func NewExportService(plans planSource, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{
		plans:  plans,
		csv:    export.NewCSVExporter(),
		pdf:    export.NewPDFExporter(),
		logger: logger,
	}
}

var exportHeaders = []string{"Date", "Start", "End", "Title", "Kind", "Locked"}

// Render generates the plan for the query and encodes it in the requested
// format. The default format is CSV.
func (s *ExportService) Render(ctx context.Context, query dto.ExportQuery) (*ExportArtifact, error) {
	plan, err := s.plans.Generate(ctx, dto.ScheduleQuery{Days: query.Days, Calendars: query.Calendars})
	if err != nil {
		return nil, err
	}

	dataset := buildPlanDataset(plan)
	stamp := time.Now().UTC().Format("20060102")

	switch query.Format {
	case "pdf":
		data, err := s.pdf.Render(dataset, fmt.Sprintf("Study Plan (%d days)", plan.Days))
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf export")
		}
		return &ExportArtifact{
			Filename:    fmt.Sprintf("studyplan_%s.pdf", stamp),
			ContentType: "application/pdf",
			Data:        data,
		}, nil
	case "", "csv":
		data, err := s.csv.Render(dataset)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv export")
		}
		return &ExportArtifact{
			Filename:    fmt.Sprintf("studyplan_%s.csv", stamp),
			ContentType: "text/csv",
			Data:        data,
		}, nil
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, "format must be csv or pdf")
	}
}

// buildPlanDataset groups blocks by day, emitting a section row per day.
func buildPlanDataset(plan *dto.ScheduleResponse) export.Dataset {
	rows := make([]map[string]string, 0, len(plan.TimeBlocks)+plan.Days)
	currentDay := ""
	for _, block := range plan.TimeBlocks {
		day := block.Start.Format("Monday 2006-01-02")
		if day != currentDay {
			currentDay = day
			rows = append(rows, map[string]string{"Date": day})
		}
		locked := ""
		if block.Locked {
			locked = "yes"
		}
		rows = append(rows, map[string]string{
			"Start":  block.Start.Format("15:04"),
			"End":    block.End.Format("15:04"),
			"Title":  block.Title,
			"Kind":   block.Kind,
			"Locked": locked,
		})
	}
	return export.Dataset{Headers: exportHeaders, Rows: rows}
}
