package handler

import (
	"net/http"
	"strconv"

	"roofing_crm_backend/internal/team/domain"
	"roofing_crm_backend/internal/team/service"
	"roofing_crm_backend/internal/team/transport"
	"roofing_crm_backend/platform/httpkit"
	"roofing_crm_backend/platform/validator"

	"github.com/gin-gonic/gin"
)

// ActorFunc resolves the roster record of the authenticated caller.
type ActorFunc func(c *gin.Context) (domain.User, bool)

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

// List handles GET /team.
func (h *Handler) List(c *gin.Context) {
	httpkit.OK(c, h.svc.Roster(c.Request.Context()))
}

// Create handles POST /admin/team.
func (h *Handler) Create(c *gin.Context) {
	h.save(c, 0, http.StatusCreated)
}

// Update handles PUT /admin/team/:id.
func (h *Handler) Update(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	h.save(c, id, http.StatusOK)
}

// Delete handles DELETE /admin/team/:role/:id.
func (h *Handler) Delete(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	if err := h.svc.Delete(c.Request.Context(), actor, id, c.Param("role")); httpkit.HandleError(c, err) {
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) save(c *gin.Context, id int64, status int) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}

	var req transport.SaveMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, validator.Fields(err))
		return
	}

	member, err := h.svc.Save(c.Request.Context(), actor, id, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.JSON(c, status, member)
}
