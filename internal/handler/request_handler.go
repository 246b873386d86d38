package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/chgu-campus/dorm-api/internal/models"
	"github.com/chgu-campus/dorm-api/internal/service"
	appErrors "github.com/chgu-campus/dorm-api/pkg/errors"
	"github.com/chgu-campus/dorm-api/pkg/response"
)

// RequestHandler wires HTTP endpoints to the request lifecycle service.
type RequestHandler struct {
	service *service.RequestService
}

// NewRequestHandler creates a new handler.
func NewRequestHandler(svc *service.RequestService) *RequestHandler {
	return &RequestHandler{service: svc}
}

// Classify godoc
// @Summary Classify a problem description
// @Description Map free text onto one of the fixed request categories
// @Tags Requests
// @Accept json
// @Produce json
// @Param payload body object true "Classification payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /requests/classify [post]
func (h *RequestHandler) Classify(c *gin.Context) {
	var payload struct {
		Text string `json:"text"`
	}
	if err := c.ShouldBindJSON(&payload); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid classify payload"))
		return
	}

	category, err := h.service.Classify(payload.Text)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, gin.H{"category": category}, nil)
}

// Create godoc
// @Summary Submit a maintenance request
// @Description Create a request on behalf of the authenticated student
// @Tags Requests
// @Accept json
// @Produce json
// @Param payload body models.CreateRequestPayload true "Request payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /requests [post]
func (h *RequestHandler) Create(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var payload models.CreateRequestPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid request payload"))
		return
	}

	req, err := h.service.Submit(c.Request.Context(), claims.UserID, payload)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, req)
}

// ListMine godoc
// @Summary List own requests
// @Tags Requests
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /requests/my [get]
func (h *RequestHandler) ListMine(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	requests, err := h.service.ListByStudent(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, requests, nil)
}

// List godoc
// @Summary List requests for triage
// @Description Admin list with search, status and category filters
// @Tags Requests
// @Produce json
// @Param search query string false "Free-text filter"
// @Param status query string false "Status filter or all"
// @Param category query string false "Category filter or all"
// @Success 200 {object} response.Envelope
// @Router /admin/requests [get]
func (h *RequestHandler) List(c *gin.Context) {
	filter := models.RequestFilter{
		Search:   c.Query("search"),
		Status:   c.Query("status"),
		Category: c.Query("category"),
	}

	result, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, result.Requests, nil, map[string]interface{}{
		"categoryOptions": result.CategoryOptions,
	})
}

// UpdateStatus godoc
// @Summary Transition a request
// @Tags Requests
// @Accept json
// @Produce json
// @Param id path string true "Request ID"
// @Param payload body models.UpdateStatusPayload true "Status payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /admin/requests/{id}/status [put]
func (h *RequestHandler) UpdateStatus(c *gin.Context) {
	var payload models.UpdateStatusPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid status payload"))
		return
	}

	req, err := h.service.UpdateStatus(c.Request.Context(), c.Param("id"), payload.Status)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, req, nil)
}

// SaveComment godoc
// @Summary Attach an administrator comment
// @Tags Requests
// @Accept json
// @Produce json
// @Param id path string true "Request ID"
// @Param payload body models.SaveCommentPayload true "Comment payload"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /admin/requests/{id}/comment [put]
func (h *RequestHandler) SaveComment(c *gin.Context) {
	var payload models.SaveCommentPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid comment payload"))
		return
	}

	req, err := h.service.SaveComment(c.Request.Context(), c.Param("id"), payload.Comment)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, req, nil)
}
