package insights

import (
	"errors"
	"io"
	"iter"
	"net/http"
	"strconv"

	teamdomain "roofing_crm_backend/internal/team/domain"
	"roofing_crm_backend/platform/apperr"
	"roofing_crm_backend/platform/httpkit"
	"roofing_crm_backend/platform/validator"

	"github.com/gin-gonic/gin"
)

// TemplateRequest asks for an SMS or voicemail template.
type TemplateRequest struct {
	Kind   string `json:"kind" validate:"required,oneof=sms voicemail"`
	Prompt string `json:"prompt" validate:"required,max=2000"`
}

type TemplateResponse struct {
	Kind string `json:"kind"`
	Text string `json:"text"`
}

type TalkingPointsResponse struct {
	LeadID int64  `json:"leadId"`
	Text   string `json:"text"`
}

// ActorFunc resolves the authenticated caller.
type ActorFunc func(c *gin.Context) (teamdomain.User, bool)

type Handler struct {
	svc   *Service
	val   *validator.Validator
	actor ActorFunc
}

func NewHandler(svc *Service, val *validator.Validator, actor ActorFunc) *Handler {
	return &Handler{svc: svc, val: val, actor: actor}
}

// Stream handles GET /leads/:id/insights/stream as server-sent events:
// one "fragment" event per chunk, then "done" or a single "error".
func (h *Handler) Stream(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := parseLeadID(c)
	if !ok {
		return
	}

	fragments, release, err := h.svc.TalkingPoints(c.Request.Context(), actor, id)
	if httpkit.HandleError(c, err) {
		return
	}
	defer release()

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")
	c.Writer.Header().Set("X-Accel-Buffering", "no")

	next, stop := iter.Pull2(fragments)
	defer stop()

	c.Stream(func(w io.Writer) bool {
		fragment, err, more := next()
		switch {
		case !more:
			c.SSEvent("done", "")
			return false
		case err != nil:
			c.SSEvent("error", gin.H{"error": errorMessage(err)})
			return false
		}
		c.SSEvent("fragment", fragment)
		return true
	})
}

// Collect handles POST /leads/:id/insights and returns the whole text.
func (h *Handler) Collect(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := parseLeadID(c)
	if !ok {
		return
	}

	text, err := h.svc.CollectTalkingPoints(c.Request.Context(), actor, id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, TalkingPointsResponse{LeadID: id, Text: text})
}

// Template handles POST /templates.
func (h *Handler) Template(c *gin.Context) {
	if _, ok := h.actor(c); !ok {
		return
	}

	var req TemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request", nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "validation failed", validator.Fields(err))
		return
	}

	text, err := h.svc.GenerateTemplate(c.Request.Context(), TemplateKind(req.Kind), req.Prompt)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, TemplateResponse{Kind: req.Kind, Text: text})
}

func parseLeadID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		httpkit.Error(c, http.StatusBadRequest, "invalid lead id", nil)
		return 0, false
	}
	return id, true
}

func errorMessage(err error) string {
	var appErr *apperr.Error
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return "stream interrupted"
}
