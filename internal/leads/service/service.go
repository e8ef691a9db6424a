// Package service is the only mutation surface of the leads context. Every
// lifecycle operation checks the role policy, resolves collaborators,
// commits through the repository in one step and then publishes events.
package service

import (
	"context"
	"errors"
	"time"

	"roofing_crm_backend/internal/events"
	"roofing_crm_backend/internal/leads/domain"
	"roofing_crm_backend/internal/leads/ports"
	"roofing_crm_backend/internal/leads/repository"
	"roofing_crm_backend/internal/leads/views"
	teamdomain "roofing_crm_backend/internal/team/domain"
	"roofing_crm_backend/platform/apperr"
	"roofing_crm_backend/platform/logger"
)

const dateLayout = "2006-01-02"

// UnassignedName is the assignee of leads imported without a salesperson.
const UnassignedName = "Unassigned"

const (
	msgLeadNotFound   = "lead not found"
	msgDealerNotFound = "dealer not found"
)

// Service orchestrates lead lifecycle operations and read models.
type Service struct {
	repo     repository.LeadsRepository
	team     ports.TeamRoster
	photos   ports.PhotoStore
	eventBus events.Bus
	log      *logger.Logger
	loc      *time.Location
	now      func() time.Time
}

// New creates the leads service. loc decides what "today" means for note
// and import dates; nil selects UTC.
func New(repo repository.LeadsRepository, team ports.TeamRoster, photos ports.PhotoStore, eventBus events.Bus, log *logger.Logger, loc *time.Location) *Service {
	if loc == nil {
		loc = time.UTC
	}
	return &Service{
		repo:     repo,
		team:     team,
		photos:   photos,
		eventBus: eventBus,
		log:      log,
		loc:      loc,
		now:      time.Now,
	}
}

// VisibleLead returns lead id when actor may see it. Leads outside the
// actor's view are reported as not found.
func (s *Service) VisibleLead(ctx context.Context, actor teamdomain.User, id int64) (domain.Lead, error) {
	lead, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return domain.Lead{}, mapRepoError(err)
	}
	if !views.CanSee(lead, actor) {
		return domain.Lead{}, apperr.NotFound(msgLeadNotFound)
	}
	return lead, nil
}

func (s *Service) today() string {
	return s.now().In(s.loc).Format(dateLayout)
}

func (s *Service) findDealer(dealerID int64) (teamdomain.Member, error) {
	dealer, err := s.team.FindInPartition(dealerID, teamdomain.RoleDealers)
	if err != nil {
		return teamdomain.Member{}, apperr.NotFound(msgDealerNotFound)
	}
	return dealer, nil
}

// visibleTo wraps a transition so it only runs on leads actor can see.
func visibleTo(actor teamdomain.User, fn repository.MutateFunc) repository.MutateFunc {
	return func(lead domain.Lead) (domain.Result, error) {
		if !views.CanSee(lead, actor) {
			return domain.Result{}, apperr.NotFound(msgLeadNotFound)
		}
		return fn(lead)
	}
}

func mapRepoError(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return apperr.NotFound(msgLeadNotFound)
	}
	return err
}
