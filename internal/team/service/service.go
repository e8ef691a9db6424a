// Package service implements roster management: listing the partitions,
// creating and editing members, and deleting them from a partition.
package service

import (
	"context"
	"errors"
	"strings"

	"roofing_crm_backend/internal/events"
	"roofing_crm_backend/internal/team/domain"
	"roofing_crm_backend/internal/team/repository"
	"roofing_crm_backend/internal/team/transport"
	"roofing_crm_backend/platform/apperr"
	"roofing_crm_backend/platform/logger"

	"golang.org/x/crypto/bcrypt"
)

// Service handles roster operations.
type Service struct {
	roster   *repository.Roster
	eventBus events.Bus
	log      *logger.Logger
	cost     int
}

// New creates a roster service. bcryptCost <= 0 selects bcrypt.DefaultCost.
func New(roster *repository.Roster, eventBus events.Bus, log *logger.Logger, bcryptCost int) *Service {
	if bcryptCost <= 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &Service{roster: roster, eventBus: eventBus, log: log, cost: bcryptCost}
}

// Roster returns every partition in display order.
func (s *Service) Roster(ctx context.Context) transport.RosterResponse {
	partitions := s.roster.Partitions()
	return transport.RosterResponse{
		Sales:   transport.ToMemberResponses(partitions[domain.RoleSales]),
		Dealers: transport.ToMemberResponses(partitions[domain.RoleDealers]),
		Admin:   transport.ToMemberResponses(partitions[domain.RoleAdmin]),
	}
}

// Save creates (id == 0) or edits a member. Only admins manage the roster.
func (s *Service) Save(ctx context.Context, actor domain.User, id int64, req transport.SaveMemberRequest) (transport.MemberResponse, error) {
	if actor.Role != domain.RoleAdmin {
		return transport.MemberResponse{}, apperr.Forbidden("only admins can manage the team")
	}

	role, ok := domain.ParseRole(req.Role)
	if !ok {
		return transport.MemberResponse{}, apperr.Validation("invalid role")
	}
	if id == 0 && req.Password == "" {
		return transport.MemberResponse{}, apperr.Validation("password is required for new members")
	}

	var hash string
	if req.Password != "" {
		hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.cost)
		if err != nil {
			return transport.MemberResponse{}, err
		}
		hash = string(hashed)
	}

	member, err := s.roster.Save(repository.SaveParams{
		ID:           id,
		Username:     strings.TrimSpace(req.Username),
		PasswordHash: hash,
		FirstName:    strings.TrimSpace(req.FirstName),
		LastName:     strings.TrimSpace(req.LastName),
		Email:        strings.TrimSpace(req.Email),
		Phone:        strings.TrimSpace(req.Phone),
		Role:         role,
	})
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return transport.MemberResponse{}, apperr.NotFound("team member not found")
		case errors.Is(err, repository.ErrUsernameTaken):
			return transport.MemberResponse{}, apperr.Conflict("username already in use")
		case errors.Is(err, repository.ErrInvalidRole):
			return transport.MemberResponse{}, apperr.Validation("invalid role")
		}
		return transport.MemberResponse{}, err
	}

	s.log.WithContext(ctx).Info("team member saved", "memberId", member.ID, "role", member.Role, "created", id == 0)
	s.eventBus.Publish(ctx, events.MemberSaved{
		BaseEvent: events.NewBaseEvent(),
		MemberID:  member.ID,
		Role:      string(member.Role),
		Created:   id == 0,
	})

	return transport.ToMemberResponse(member), nil
}

// Delete removes a member from the named partition. Leads assigned to the
// member keep their assignee string.
func (s *Service) Delete(ctx context.Context, actor domain.User, id int64, roleValue string) error {
	if actor.Role != domain.RoleAdmin {
		return apperr.Forbidden("only admins can manage the team")
	}
	role, ok := domain.ParseRole(roleValue)
	if !ok {
		return apperr.Validation("invalid role")
	}
	if id == actor.ID {
		return apperr.Validation("you cannot delete your own account")
	}

	removed, err := s.roster.Delete(id, role)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperr.NotFound("team member not found")
		}
		return err
	}

	s.log.WithContext(ctx).Info("team member deleted", "memberId", id, "role", role)
	s.eventBus.Publish(ctx, events.MemberDeleted{
		BaseEvent: events.NewBaseEvent(),
		MemberID:  removed.ID,
		Role:      string(removed.Role),
		FullName:  removed.FullName(),
	})
	return nil
}

// RecordActivity bumps the counters of the member identified by full name.
// Used by the stats subscriber; unknown names are dangling assignees and are skipped.
func (s *Service) RecordActivity(fullName string, delta domain.Stats) {
	if !s.roster.AddStats(fullName, delta) {
		s.log.Debug("stats update skipped for unknown member", "member", fullName)
	}
}
