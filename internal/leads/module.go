// Package leads provides the lead management bounded context module.
// This file defines the module that encapsulates all leads setup and route registration.
package leads

import (
	"time"

	"roofing_crm_backend/internal/events"
	apphttp "roofing_crm_backend/internal/http"
	"roofing_crm_backend/internal/leads/handler"
	"roofing_crm_backend/internal/leads/ports"
	"roofing_crm_backend/internal/leads/repository"
	"roofing_crm_backend/internal/leads/service"
	"roofing_crm_backend/internal/team"
	"roofing_crm_backend/platform/logger"
	"roofing_crm_backend/platform/validator"
)

// Module is the leads bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule creates the leads module around the process-lifetime store.
func NewModule(repo repository.LeadsRepository, roster ports.TeamRoster, photos ports.PhotoStore, eventBus events.Bus, val *validator.Validator, loc *time.Location, log *logger.Logger) *Module {
	svc := service.New(repo, roster, photos, eventBus, log, loc)
	return &Module{
		handler: handler.New(svc, val, team.CurrentUser),
		service: svc,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "leads"
}

// Service exposes visible-lead lookups to the insights and maps modules.
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes mounts leads routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterRoutes(ctx.Protected.Group("/leads"))
	m.handler.RegisterViewRoutes(ctx.Protected)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
