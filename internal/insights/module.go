package insights

import (
	apphttp "roofing_crm_backend/internal/http"
	"roofing_crm_backend/internal/team"
	"roofing_crm_backend/platform/config"
	"roofing_crm_backend/platform/logger"
	"roofing_crm_backend/platform/validator"
)

// Module wires the generated-text routes.
type Module struct {
	handler *Handler
}

func NewModule(leads LeadLookup, gen Generator, cfg config.AIConfig, val *validator.Validator, log *logger.Logger) *Module {
	svc := NewService(leads, gen, cfg.GetInsightModel(), cfg.GetTemplateModel(), log)
	return &Module{handler: NewHandler(svc, val, team.CurrentUser)}
}

func (m *Module) Name() string {
	return "insights"
}

func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.Protected.GET("/leads/:id/insights/stream", m.handler.Stream)
	ctx.Protected.POST("/leads/:id/insights", m.handler.Collect)
	ctx.Protected.POST("/templates", m.handler.Template)
}

var _ apphttp.Module = (*Module)(nil)
