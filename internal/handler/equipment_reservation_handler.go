package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/campus-facility-api/internal/service"
	appErrors "github.com/noah-isme/campus-facility-api/pkg/errors"
	"github.com/noah-isme/campus-facility-api/pkg/response"
)

// EquipmentReservationHandler handles equipment loan endpoints.
type EquipmentReservationHandler struct {
	service *service.EquipmentReservationService
}

// NewEquipmentReservationHandler constructs an equipment reservation handler.
func NewEquipmentReservationHandler(svc *service.EquipmentReservationService) *EquipmentReservationHandler {
	return &EquipmentReservationHandler{service: svc}
}

// List godoc
// @Summary List equipment reservations
// @Tags EquipmentReservations
// @Produce json
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /reservations/equipment [get]
func (h *EquipmentReservationHandler) List(c *gin.Context) {
	reservations, err := h.service.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, reservations, nil)
}

// Create godoc
// @Summary Request an equipment loan
// @Description The requested window is validated against existing active loans for the item.
// @Tags EquipmentReservations
// @Accept json
// @Produce json
// @Param payload body service.CreateEquipmentReservationRequest true "Loan payload"
// @Success 201 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Security BearerAuth
// @Router /reservations/equipment [post]
func (h *EquipmentReservationHandler) Create(c *gin.Context) {
	var req service.CreateEquipmentReservationRequest
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
// @Summary Approve a pending loan
// @Tags EquipmentReservations
// @Accept json
// @Produce json
// @Param id path string true "Reservation ID"
// @Param payload body service.TransitionRequest true "Transition payload"
// @Success 204 "approved"
// @Failure 409 {object} response.Envelope
// @Security BearerAuth
// @Router /reservations/equipment/{id}/approve [post]
func (h *EquipmentReservationHandler) Approve(c *gin.Context) {
	h.transition(c, h.service.Approve)
}

// Reject godoc
// @Summary Reject a pending loan
// @Tags EquipmentReservations
// @Accept json
// @Produce json
// @Param id path string true "Reservation ID"
// @Param payload body service.TransitionRequest true "Transition payload"
// @Success 204 "rejected"
// @Security BearerAuth
// @Router /reservations/equipment/{id}/reject [post]
func (h *EquipmentReservationHandler) Reject(c *gin.Context) {
	h.transition(c, h.service.Reject)
}

// Cancel godoc
// @Summary Cancel a pending or approved loan
// @Tags EquipmentReservations
// @Accept json
// @Produce json
// @Param id path string true "Reservation ID"
// @Param payload body service.TransitionRequest true "Transition payload"
// @Success 204 "cancelled"
// @Security BearerAuth
// @Router /reservations/equipment/{id}/cancel [post]
func (h *EquipmentReservationHandler) Cancel(c *gin.Context) {
	h.transition(c, h.service.Cancel)
}

// Borrow godoc
// @Summary Mark an approved loan as picked up
// @Tags EquipmentReservations
// @Accept json
// @Produce json
// @Param id path string true "Reservation ID"
// @Param payload body service.TransitionRequest true "Transition payload"
// @Success 204 "borrowed"
// @Security BearerAuth
// @Router /reservations/equipment/{id}/borrow [post]
func (h *EquipmentReservationHandler) Borrow(c *gin.Context) {
	h.transition(c, h.service.Borrow)
}

// Return godoc
// @Summary Mark a borrowed loan as returned
// @Tags EquipmentReservations
// @Accept json
// @Produce json
// @Param id path string true "Reservation ID"
// @Param payload body service.TransitionRequest true "Transition payload"
// @Success 204 "returned"
// @Security BearerAuth
// @Router /reservations/equipment/{id}/return [post]
func (h *EquipmentReservationHandler) Return(c *gin.Context) {
	h.transition(c, h.service.Return)
}

// Delete godoc
// @Summary Delete equipment reservations
// @Tags EquipmentReservations
// @Accept json
// @Produce json
// @Param payload body handler.IDsRequest true "Reservation IDs"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /reservations/equipment [delete]
func (h *EquipmentReservationHandler) Delete(c *gin.Context) {
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

func (h *EquipmentReservationHandler) transition(c *gin.Context, fn func(ctx context.Context, id string, req service.TransitionRequest) error) {
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
