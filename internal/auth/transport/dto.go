package transport

import teamtransport "roofing_crm_backend/internal/team/transport"

type LoginRequest struct {
	Username string `json:"username" validate:"required,max=64"`
	Password string `json:"password" validate:"required,max=72"`
}

type AuthResponse struct {
	AccessToken string                       `json:"accessToken"`
	ExpiresIn   int64                        `json:"expiresIn"`
	User        teamtransport.MemberResponse `json:"user"`
}
