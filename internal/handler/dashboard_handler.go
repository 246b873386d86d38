package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/chgu-campus/dorm-api/internal/models"
	"github.com/chgu-campus/dorm-api/pkg/response"
)

type dashboardProvider interface {
	Summary(ctx context.Context) (*models.DashboardResponse, bool, error)
}

// DashboardHandler serves the admin dashboard payload.
type DashboardHandler struct {
	service dashboardProvider
}

// NewDashboardHandler creates a new handler.
func NewDashboardHandler(svc dashboardProvider) *DashboardHandler {
	return &DashboardHandler{service: svc}
}

// Summary godoc
// @Summary Admin dashboard
// @Description Headline stats and request category distribution
// @Tags Dashboard
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /admin/dashboard [get]
func (h *DashboardHandler) Summary(c *gin.Context) {
	summary, cached, err := h.service.Summary(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, summary, nil, map[string]interface{}{"cached": cached})
}
