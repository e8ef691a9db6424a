package handler

import (
	"net/http"
	"strconv"

	"roofing_crm_backend/internal/leads/service"
	"roofing_crm_backend/internal/leads/transport"
	teamdomain "roofing_crm_backend/internal/team/domain"
	"roofing_crm_backend/platform/httpkit"
	"roofing_crm_backend/platform/validator"

	"github.com/gin-gonic/gin"
)

// ActorFunc resolves the roster record of the authenticated caller.
type ActorFunc func(c *gin.Context) (teamdomain.User, bool)

type Handler struct {
	svc   *service.Service
	val   *validator.Validator
	actor ActorFunc
}

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
)

func New(svc *service.Service, val *validator.Validator, actor ActorFunc) *Handler {
	return &Handler{svc: svc, val: val, actor: actor}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.List)
	rg.GET("/dispositions", h.Dispositions)
	rg.POST("/import", h.Import)
	rg.POST("/import/preview", h.PreviewImport)
	rg.GET("/:id", h.GetByID)
	rg.POST("/:id/calls", h.RecordCall)
	rg.POST("/:id/transfer", h.Transfer)
	rg.POST("/:id/close-job", h.CloseJob)
	rg.POST("/:id/mark-lost", h.MarkLost)
	rg.GET("/:id/photos", h.Photos)
}

func (h *Handler) List(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	var q transport.ListQuery
	if !h.bindQuery(c, &q) {
		return
	}
	httpkit.OK(c, h.svc.List(c.Request.Context(), actor, q))
}

func (h *Handler) Dispositions(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	httpkit.OK(c, h.svc.DispositionOptions(actor))
}

func (h *Handler) GetByID(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := parseID(c)
	if !ok {
		return
	}

	lead, err := h.svc.Get(c.Request.Context(), actor, id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, lead)
}

func (h *Handler) PreviewImport(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	var req transport.ImportRequest
	if !h.bindJSON(c, &req) {
		return
	}

	preview, err := h.svc.PreviewImport(c.Request.Context(), actor, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, preview)
}

func (h *Handler) Import(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	var req transport.ImportRequest
	if !h.bindJSON(c, &req) {
		return
	}

	resp, err := h.svc.Import(c.Request.Context(), actor, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.JSON(c, http.StatusCreated, resp)
}

func (h *Handler) RecordCall(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req transport.RecordCallRequest
	if !h.bindJSON(c, &req) {
		return
	}

	resp, err := h.svc.RecordCallOutcome(c.Request.Context(), actor, id, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, resp)
}

func (h *Handler) Transfer(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req transport.TransferRequest
	if !h.bindJSON(c, &req) {
		return
	}

	resp, err := h.svc.Transfer(c.Request.Context(), actor, id, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, resp)
}

func (h *Handler) CloseJob(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req transport.CloseJobRequest
	if !h.bindJSON(c, &req) {
		return
	}

	resp, err := h.svc.CloseJob(c.Request.Context(), actor, id, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, resp)
}

func (h *Handler) MarkLost(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := parseID(c)
	if !ok {
		return
	}

	resp, err := h.svc.MarkLost(c.Request.Context(), actor, id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, resp)
}

func (h *Handler) Photos(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := parseID(c)
	if !ok {
		return
	}

	photos, err := h.svc.Photos(c.Request.Context(), actor, id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, photos)
}

func (h *Handler) bindJSON(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return false
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, validator.Fields(err))
		return false
	}
	return true
}

func (h *Handler) bindQuery(c *gin.Context, q interface{}) bool {
	if err := c.ShouldBindQuery(q); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return false
	}
	if err := h.val.Struct(q); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, validator.Fields(err))
		return false
	}
	return true
}

func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return 0, false
	}
	return id, true
}
