package transport

import "roofing_crm_backend/internal/team/domain"

// SaveMemberRequest creates a member (no id in the path) or edits one.
// Password is required on create and optional on edit.
type SaveMemberRequest struct {
	Username  string `json:"username" validate:"required,min=3,max=64"`
	Password  string `json:"password" validate:"omitempty,min=8,max=72"`
	FirstName string `json:"firstName" validate:"required,max=100"`
	LastName  string `json:"lastName" validate:"required,max=100"`
	Role      string `json:"role" validate:"required,oneof=sales dealers admin"`
	Email     string `json:"email" validate:"omitempty,email"`
	Phone     string `json:"phone" validate:"omitempty,max=32"`
}

type MemberResponse struct {
	ID        int64        `json:"id"`
	Username  string       `json:"username"`
	FirstName string       `json:"firstName"`
	LastName  string       `json:"lastName"`
	FullName  string       `json:"fullName"`
	Avatar    string       `json:"avatar"`
	Role      string       `json:"role"`
	Email     string       `json:"email,omitempty"`
	Phone     string       `json:"phone,omitempty"`
	Stats     domain.Stats `json:"stats"`
}

type RosterResponse struct {
	Sales   []MemberResponse `json:"sales"`
	Dealers []MemberResponse `json:"dealers"`
	Admin   []MemberResponse `json:"admin"`
}

func ToMemberResponse(m domain.Member) MemberResponse {
	return MemberResponse{
		ID:        m.ID,
		Username:  m.Username,
		FirstName: m.FirstName,
		LastName:  m.LastName,
		FullName:  m.FullName(),
		Avatar:    m.Avatar,
		Role:      string(m.Role),
		Email:     m.Email,
		Phone:     m.Phone,
		Stats:     m.Stats,
	}
}

func ToMemberResponses(members []domain.Member) []MemberResponse {
	out := make([]MemberResponse, 0, len(members))
	for _, m := range members {
		out = append(out, ToMemberResponse(m))
	}
	return out
}
