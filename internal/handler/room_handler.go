package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/chgu-campus/dorm-api/internal/models"
	"github.com/chgu-campus/dorm-api/internal/service"
	appErrors "github.com/chgu-campus/dorm-api/pkg/errors"
	"github.com/chgu-campus/dorm-api/pkg/response"
)

// RoomHandler wires HTTP endpoints to the room occupancy service.
type RoomHandler struct {
	service *service.RoomService
}

// NewRoomHandler creates a new handler.
func NewRoomHandler(svc *service.RoomService) *RoomHandler {
	return &RoomHandler{service: svc}
}

// List godoc
// @Summary List rooms with occupancy
// @Description Admin list with search, status and building filters
// @Tags Rooms
// @Produce json
// @Param search query string false "Free-text filter"
// @Param status query string false "Status filter or all"
// @Param building query string false "Building filter or all"
// @Success 200 {object} response.Envelope
// @Router /admin/rooms [get]
func (h *RoomHandler) List(c *gin.Context) {
	filter := models.RoomFilter{
		Search:   c.Query("search"),
		Status:   c.Query("status"),
		Building: c.Query("building"),
	}

	result, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, result.Rooms, nil, map[string]interface{}{
		"buildingOptions": result.BuildingOptions,
	})
}

// UpdateStatus godoc
// @Summary Set a room's status
// @Tags Rooms
// @Accept json
// @Produce json
// @Param id path string true "Room ID"
// @Param payload body models.UpdateRoomStatusPayload true "Status payload"
// @Success 204 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /admin/rooms/{id}/status [put]
func (h *RoomHandler) UpdateStatus(c *gin.Context) {
	var payload models.UpdateRoomStatusPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid status payload"))
		return
	}

	if err := h.service.UpdateStatus(c.Request.Context(), c.Param("id"), payload.Status); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}
