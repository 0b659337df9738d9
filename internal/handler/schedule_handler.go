package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/campus-facility-api/internal/service"
	appErrors "github.com/noah-isme/campus-facility-api/pkg/errors"
	"github.com/noah-isme/campus-facility-api/pkg/response"
)

// ScheduleHandler handles fixed-schedule endpoints.
type ScheduleHandler struct {
	service *service.ScheduleService
}

// NewScheduleHandler constructs a schedule handler.
func NewScheduleHandler(svc *service.ScheduleService) *ScheduleHandler {
	return &ScheduleHandler{service: svc}
}

// Create godoc
// @Summary Create a fixed weekly schedule
// @Description Rejects overlapping schedules for the same room and semester, then expands the weekly pattern into dated occurrences.
// @Tags Schedules
// @Accept json
// @Produce json
// @Param payload body service.CreateScheduleRequest true "Schedule payload"
// @Success 201 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Security BearerAuth
// @Router /schedules [post]
func (h *ScheduleHandler) Create(c *gin.Context) {
	var req service.CreateScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	result, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, result)
}

// ListByRoom godoc
// @Summary List schedules for a room
// @Tags Schedules
// @Produce json
// @Param id path string true "Room ID"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /rooms/{id}/schedules [get]
func (h *ScheduleHandler) ListByRoom(c *gin.Context) {
	schedules, err := h.service.ListByRoom(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, schedules, nil)
}

// ListByInstructor godoc
// @Summary List schedules for an instructor
// @Tags Schedules
// @Produce json
// @Param id path string true "Instructor ID"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /instructors/{id}/schedules [get]
func (h *ScheduleHandler) ListByInstructor(c *gin.Context) {
	schedules, err := h.service.ListByInstructor(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, schedules, nil)
}

// DeleteOccurrence godoc
// @Summary Delete a single dated occurrence
// @Tags Schedules
// @Produce json
// @Param id path string true "Occurrence ID"
// @Success 204 "deleted"
// @Failure 404 {object} response.Envelope
// @Security BearerAuth
// @Router /occurrences/{id} [delete]
func (h *ScheduleHandler) DeleteOccurrence(c *gin.Context) {
	if err := h.service.DeleteOccurrence(c.Request.Context(), c.Param("id"), actorID(c)); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Delete godoc
// @Summary Delete schedules and their occurrences
// @Tags Schedules
// @Accept json
// @Produce json
// @Param payload body handler.IDsRequest true "Schedule IDs"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /schedules [delete]
func (h *ScheduleHandler) Delete(c *gin.Context) {
	var req IDsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	deleted, err := h.service.Delete(c.Request.Context(), req.IDs)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"deleted": deleted}, nil)
}

// IDsRequest is the shared bulk-delete payload.
type IDsRequest struct {
	IDs []string `json:"ids"`
}
