package handler

import (
	"net/http"

	"roofing_crm_backend/internal/leads/transport"
	"roofing_crm_backend/platform/httpkit"

	"github.com/gin-gonic/gin"
)

// RegisterViewRoutes mounts the dashboard, analytics and calendar pages.
func (h *Handler) RegisterViewRoutes(rg *gin.RouterGroup) {
	rg.GET("/dashboard", h.Dashboard)
	rg.GET("/analytics", h.Analytics)
	rg.GET("/calendar", h.Calendar)
	rg.POST("/calendar/events", h.ScheduleEvent)
}

func (h *Handler) Dashboard(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	var q transport.RangeQuery
	if !h.bindQuery(c, &q) {
		return
	}
	httpkit.OK(c, h.svc.Dashboard(c.Request.Context(), actor, q))
}

func (h *Handler) Analytics(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	var q transport.RangeQuery
	if !h.bindQuery(c, &q) {
		return
	}
	httpkit.OK(c, h.svc.Analytics(c.Request.Context(), actor, q))
}

func (h *Handler) Calendar(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	var q transport.CalendarQuery
	if !h.bindQuery(c, &q) {
		return
	}
	httpkit.OK(c, h.svc.Calendar(c.Request.Context(), actor, q))
}

func (h *Handler) ScheduleEvent(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	var req transport.ScheduleEventRequest
	if !h.bindJSON(c, &req) {
		return
	}

	event, err := h.svc.ScheduleEvent(c.Request.Context(), actor, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.JSON(c, http.StatusCreated, event)
}
