// Package team provides the team roster bounded context module.
package team

import (
	"context"

	"roofing_crm_backend/internal/events"
	apphttp "roofing_crm_backend/internal/http"
	"roofing_crm_backend/internal/team/domain"
	"roofing_crm_backend/internal/team/handler"
	"roofing_crm_backend/internal/team/repository"
	"roofing_crm_backend/internal/team/service"
	"roofing_crm_backend/platform/logger"
	"roofing_crm_backend/platform/validator"
)

// Module is the team bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
	roster  *repository.Roster
}

// NewModule wires the roster service and handler around an existing roster.
func NewModule(roster *repository.Roster, eventBus events.Bus, val *validator.Validator, log *logger.Logger) *Module {
	svc := service.New(roster, eventBus, log, 0)
	return &Module{
		handler: handler.New(svc, val, CurrentUser),
		service: svc,
		roster:  roster,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "team"
}

// Roster exposes the store for cross-module adapters (auth, leads).
func (m *Module) Roster() *repository.Roster {
	return m.roster
}

// RegisterRoutes mounts team routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.Protected.GET("/team", m.handler.List)

	ctx.Admin.POST("/team", m.handler.Create)
	ctx.Admin.PUT("/team/:id", m.handler.Update)
	ctx.Admin.DELETE("/team/:role/:id", m.handler.Delete)
}

// RegisterHandlers keeps member counters in step with lead activity.
func (m *Module) RegisterHandlers(bus events.Bus) {
	bus.Subscribe(events.LeadsImported{}.EventName(), events.HandlerFunc(func(ctx context.Context, event events.Event) error {
		e, ok := event.(events.LeadsImported)
		if !ok {
			return nil
		}
		m.service.RecordActivity(e.AssignedTo, domain.Stats{Leads: len(e.LeadIDs)})
		return nil
	}))

	bus.Subscribe(events.CallOutcomeRecorded{}.EventName(), events.HandlerFunc(func(ctx context.Context, event events.Event) error {
		e, ok := event.(events.CallOutcomeRecorded)
		if !ok || e.PreviousStatus != "new" || e.ActorRole == string(domain.RoleDealers) {
			return nil
		}
		m.service.RecordActivity(e.Actor, domain.Stats{Contacted: 1})
		return nil
	}))

	bus.Subscribe(events.LeadTransferred{}.EventName(), events.HandlerFunc(func(ctx context.Context, event events.Event) error {
		e, ok := event.(events.LeadTransferred)
		if !ok {
			return nil
		}
		m.service.RecordActivity(e.TransferredBy, domain.Stats{Converted: 1})
		return nil
	}))

	bus.Subscribe(events.JobClosed{}.EventName(), events.HandlerFunc(func(ctx context.Context, event events.Event) error {
		e, ok := event.(events.JobClosed)
		if !ok || e.Reclosed {
			return nil
		}
		m.service.RecordActivity(e.AssignedTo, domain.Stats{Converted: 1})
		return nil
	}))
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
