package maps

import (
	"net/http"
	"strconv"

	teamdomain "roofing_crm_backend/internal/team/domain"
	"roofing_crm_backend/platform/httpkit"

	"github.com/gin-gonic/gin"
)

// ActorFunc resolves the authenticated caller.
type ActorFunc func(c *gin.Context) (teamdomain.User, bool)

// Handler exposes the map embed endpoints.
type Handler struct {
	svc   *Service
	leads LeadLookup
	actor ActorFunc
}

func NewHandler(svc *Service, leads LeadLookup, actor ActorFunc) *Handler {
	return &Handler{svc: svc, leads: leads, actor: actor}
}

// Embed handles GET /api/v1/maps/embed?q=...
func (h *Handler) Embed(c *gin.Context) {
	var req EmbedRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "query 'q' is required (min 3 chars)", nil)
		return
	}

	resp, err := h.svc.EmbedURI(c.Request.Context(), req.Query)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, resp)
}

// LeadMap handles GET /api/v1/leads/:id/map for the lead's full address.
func (h *Handler) LeadMap(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		httpkit.Error(c, http.StatusBadRequest, "invalid lead id", nil)
		return
	}

	lead, err := h.leads.VisibleLead(c.Request.Context(), actor, id)
	if httpkit.HandleError(c, err) {
		return
	}

	resp, err := h.svc.EmbedURI(c.Request.Context(), lead.FullAddress())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, resp)
}
