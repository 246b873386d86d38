package service

import (
	"context"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/chgu-campus/dorm-api/internal/models"
	appErrors "github.com/chgu-campus/dorm-api/pkg/errors"
	"github.com/chgu-campus/dorm-api/pkg/export"
)

// ReportFormat selects the rendering of a request export.
type ReportFormat string

const (
	ReportCSV ReportFormat = "csv"
	ReportPDF ReportFormat = "pdf"
)

// Report is a rendered request export ready to serve.
type Report struct {
	ContentType string
	Filename    string
	Body        []byte
}

// ReportService renders the administrator request list as a tabular
// document, honouring the same filter predicates as the list view.
type ReportService struct {
	requests requestRepo
	csv      *export.CSVExporter
	pdf      *export.PDFExporter
	logger   *zap.Logger
	now      func() time.Time
}

// NewReportService constructs a ReportService.
func NewReportService(requests requestRepo, logger *zap.Logger) *ReportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportService{
		requests: requests,
		csv:      export.NewCSVExporter(),
		pdf:      export.NewPDFExporter(),
		logger:   logger,
		now:      time.Now,
	}
}

var reportHeaders = []string{"ID", "Title", "Category", "Status", "Urgent", "Student", "Room", "Created", "Updated"}

// RequestsReport renders the filtered request list in the given format.
func (s *ReportService) RequestsReport(ctx context.Context, filter models.RequestFilter, format ReportFormat) (*Report, error) {
	requests, err := s.requests.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list requests")
	}

	dataset := export.Dataset{Headers: reportHeaders}
	for _, r := range models.FilterRequests(requests, filter) {
		dataset.Rows = append(dataset.Rows, map[string]string{
			"ID":       r.ID,
			"Title":    r.Title,
			"Category": string(r.Category),
			"Status":   string(r.Status),
			"Urgent":   strconv.FormatBool(r.IsUrgent),
			"Student":  r.Student.FullName,
			"Room":     r.Student.Room,
			"Created":  r.CreatedAt.UTC().Format(time.RFC3339),
			"Updated":  r.UpdatedAt.UTC().Format(time.RFC3339),
		})
	}

	stamp := s.now().UTC().Format("2006-01-02")
	switch format {
	case ReportCSV:
		body, err := s.csv.Render(dataset)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv report")
		}
		return &Report{ContentType: "text/csv", Filename: "requests-" + stamp + ".csv", Body: body}, nil
	case ReportPDF:
		body, err := s.pdf.Render(dataset, "Maintenance requests")
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf report")
		}
		return &Report{ContentType: "application/pdf", Filename: "requests-" + stamp + ".pdf", Body: body}, nil
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, "format must be csv or pdf")
	}
}
