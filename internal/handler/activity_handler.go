package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/campus-facility-api/internal/service"
	"github.com/noah-isme/campus-facility-api/pkg/response"
)

// ActivityHandler exposes the activity log.
type ActivityHandler struct {
	service *service.AuditService
}

// NewActivityHandler constructs an activity handler.
func NewActivityHandler(svc *service.AuditService) *ActivityHandler {
	return &ActivityHandler{service: svc}
}

// List godoc
// @Summary List recent activity entries
// @Tags Activities
// @Produce json
// @Param limit query int false "Max entries" default(100)
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /activities [get]
func (h *ActivityHandler) List(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))
	entries, err := h.service.List(c.Request.Context(), limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, entries, nil)
}
