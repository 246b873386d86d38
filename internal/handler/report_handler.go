package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/chgu-campus/dorm-api/internal/models"
	"github.com/chgu-campus/dorm-api/internal/service"
	"github.com/chgu-campus/dorm-api/pkg/response"
)

// ReportHandler serves tabular request exports.
type ReportHandler struct {
	service *service.ReportService
}

// NewReportHandler creates a new handler.
func NewReportHandler(svc *service.ReportService) *ReportHandler {
	return &ReportHandler{service: svc}
}

// Requests godoc
// @Summary Export the request list
// @Description Render the filtered request list as CSV or PDF
// @Tags Reports
// @Produce octet-stream
// @Param format query string false "csv or pdf" default(csv)
// @Param search query string false "Free-text filter"
// @Param status query string false "Status filter or all"
// @Param category query string false "Category filter or all"
// @Success 200 {file} binary
// @Failure 400 {object} response.Envelope
// @Router /admin/reports/requests [get]
func (h *ReportHandler) Requests(c *gin.Context) {
	filter := models.RequestFilter{
		Search:   c.Query("search"),
		Status:   c.Query("status"),
		Category: c.Query("category"),
	}
	format := service.ReportFormat(c.DefaultQuery("format", string(service.ReportCSV)))

	report, err := h.service.RequestsReport(c.Request.Context(), filter, format)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+report.Filename+`"`)
	c.Data(http.StatusOK, report.ContentType, report.Body)
}
