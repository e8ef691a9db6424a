// Package service verifies roster credentials and issues access tokens.
package service

import (
	"context"
	"errors"

	"roofing_crm_backend/internal/auth/transport"
	teamdomain "roofing_crm_backend/internal/team/domain"
	teamtransport "roofing_crm_backend/internal/team/transport"
	"roofing_crm_backend/platform/apperr"
	"roofing_crm_backend/platform/config"
	"roofing_crm_backend/platform/httpkit"
	"roofing_crm_backend/platform/logger"

	"golang.org/x/crypto/bcrypt"
)

var ErrInvalidCredentials = errors.New("invalid username or password")

// MemberFinder looks roster members up by login name.
type MemberFinder interface {
	FindByUsername(username string) (teamdomain.Member, error)
	FindByID(id int64) (teamdomain.Member, error)
}

type Service struct {
	members MemberFinder
	cfg     config.AuthServiceConfig
	log     *logger.Logger
}

func New(members MemberFinder, cfg config.AuthServiceConfig, log *logger.Logger) *Service {
	return &Service{members: members, cfg: cfg, log: log}
}

// Login checks username and password against the roster and signs an access
// token carrying the member id and role.
func (s *Service) Login(ctx context.Context, username, plainPassword string) (transport.AuthResponse, error) {
	member, err := s.members.FindByUsername(username)
	if err != nil {
		s.log.AuthEvent("login", username, false, "unknown username")
		return transport.AuthResponse{}, apperr.Wrap(apperr.KindUnauthorized, ErrInvalidCredentials.Error(), ErrInvalidCredentials)
	}

	if member.PasswordHash == "" || bcrypt.CompareHashAndPassword([]byte(member.PasswordHash), []byte(plainPassword)) != nil {
		s.log.AuthEvent("login", username, false, "password mismatch")
		return transport.AuthResponse{}, apperr.Wrap(apperr.KindUnauthorized, ErrInvalidCredentials.Error(), ErrInvalidCredentials)
	}

	ttl := s.cfg.GetAccessTokenTTL()
	token, err := httpkit.SignAccessToken(member.ID, string(member.Role), ttl, s.cfg.GetJWTAccessSecret())
	if err != nil {
		return transport.AuthResponse{}, apperr.Internal("failed to issue access token")
	}

	s.log.AuthEvent("login", username, true, "")
	return transport.AuthResponse{
		AccessToken: token,
		ExpiresIn:   int64(ttl.Seconds()),
		User:        teamtransport.ToMemberResponse(member),
	}, nil
}

// Me returns the caller's roster record.
func (s *Service) Me(ctx context.Context, user teamdomain.User) (teamtransport.MemberResponse, error) {
	member, err := s.members.FindByID(user.ID)
	if err != nil {
		return teamtransport.MemberResponse{}, apperr.NotFound("team member not found")
	}
	return teamtransport.ToMemberResponse(member), nil
}
