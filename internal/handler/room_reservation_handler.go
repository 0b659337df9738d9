package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/campus-facility-api/internal/service"
	appErrors "github.com/noah-isme/campus-facility-api/pkg/errors"
	"github.com/noah-isme/campus-facility-api/pkg/response"
)

// RoomReservationHandler handles room reservation endpoints.
type RoomReservationHandler struct {
	service *service.RoomReservationService
}

// NewRoomReservationHandler constructs a room reservation handler.
func NewRoomReservationHandler(svc *service.RoomReservationService) *RoomReservationHandler {
	return &RoomReservationHandler{service: svc}
}

// List godoc
// @Summary List room reservations
// @Tags RoomReservations
// @Produce json
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /reservations/rooms [get]
func (h *RoomReservationHandler) List(c *gin.Context) {
	reservations, err := h.service.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, reservations, nil)
}

// Create godoc
// @Summary Request a room reservation
// @Description New reservations always enter pending; conflicts are checked at approval.
// @Tags RoomReservations
// @Accept json
// @Produce json
// @Param payload body service.CreateRoomReservationRequest true "Reservation payload"
// @Success 201 {object} response.Envelope
// @Security BearerAuth
// @Router /reservations/rooms [post]
func (h *RoomReservationHandler) Create(c *gin.Context) {
	var req service.CreateRoomReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	reservation, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, reservation)
}

// Approve godoc
// @Summary Approve a pending reservation
// @Tags RoomReservations
// @Accept json
// @Produce json
// @Param id path string true "Reservation ID"
// @Param payload body service.TransitionRequest true "Transition payload"
// @Success 204 "approved"
// @Failure 409 {object} response.Envelope
// @Security BearerAuth
// @Router /reservations/rooms/{id}/approve [post]
func (h *RoomReservationHandler) Approve(c *gin.Context) {
	h.transition(c, h.service.Approve)
}

// Reject godoc
// @Summary Reject a pending reservation
// @Tags RoomReservations
// @Accept json
// @Produce json
// @Param id path string true "Reservation ID"
// @Param payload body service.TransitionRequest true "Transition payload"
// @Success 204 "rejected"
// @Security BearerAuth
// @Router /reservations/rooms/{id}/reject [post]
func (h *RoomReservationHandler) Reject(c *gin.Context) {
	h.transition(c, h.service.Reject)
}

// Cancel godoc
// @Summary Cancel a pending or approved reservation
// @Tags RoomReservations
// @Accept json
// @Produce json
// @Param id path string true "Reservation ID"
// @Param payload body service.TransitionRequest true "Transition payload"
// @Success 204 "cancelled"
// @Security BearerAuth
// @Router /reservations/rooms/{id}/cancel [post]
func (h *RoomReservationHandler) Cancel(c *gin.Context) {
	h.transition(c, h.service.Cancel)
}

// Delete godoc
// @Summary Delete room reservations
// @Tags RoomReservations
// @Accept json
// @Produce json
// @Param payload body handler.IDsRequest true "Reservation IDs"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /reservations/rooms [delete]
func (h *RoomReservationHandler) Delete(c *gin.Context) {
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

func (h *RoomReservationHandler) transition(c *gin.Context, fn func(ctx context.Context, id string, req service.TransitionRequest) error) {
	var req service.TransitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	if req.ActorID == "" {
		req.ActorID = actorID(c)
	}
	if err := fn(c.Request.Context(), c.Param("id"), req); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
