package maps

import (
	apphttp "roofing_crm_backend/internal/http"
	"roofing_crm_backend/internal/team"
	"roofing_crm_backend/platform/config"
	"roofing_crm_backend/platform/logger"
)

// MapsSettings is the configuration the module reads.
type MapsSettings interface {
	config.AIConfig
	config.MapsConfig
}

// Module wires the map embed HTTP routes.
type Module struct {
	handler *Handler
}

func NewModule(places PlaceResolver, leads LeadLookup, cfg MapsSettings, log *logger.Logger) *Module {
	svc := NewService(places, cfg.IsAIEnabled(), cfg.GetMapsAPIKey(), cfg.GetMapsModel(), log)
	h := NewHandler(svc, leads, team.CurrentUser)
	return &Module{handler: h}
}

func (m *Module) Name() string {
	return "maps"
}

func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.Protected.GET("/maps/embed", m.handler.Embed)
	ctx.Protected.GET("/leads/:id/map", m.handler.LeadMap)
}

var _ apphttp.Module = (*Module)(nil)
