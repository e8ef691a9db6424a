package handler

import (
	"net/http"

	"roofing_crm_backend/internal/auth/service"
	"roofing_crm_backend/internal/auth/transport"
	teamdomain "roofing_crm_backend/internal/team/domain"
	"roofing_crm_backend/platform/httpkit"
	"roofing_crm_backend/platform/validator"

	"github.com/gin-gonic/gin"
)

// ActorFunc resolves the authenticated caller.
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
	rg.POST("/login", h.Login)
}

func (h *Handler) Login(c *gin.Context) {
	var req transport.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, validator.Fields(err))
		return
	}

	resp, err := h.svc.Login(c.Request.Context(), req.Username, req.Password)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, resp)
}

func (h *Handler) Me(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}

	profile, err := h.svc.Me(c.Request.Context(), actor)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, profile)
}
