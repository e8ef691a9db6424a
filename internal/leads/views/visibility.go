// Package views derives every read model of the lead pages from a snapshot:
// visibility, filters, grouping, dashboards, analytics and the calendar.
// Functions here are pure. They never modify their inputs and return the
// same output for the same snapshot.
package views

import (
	"roofing_crm_backend/internal/leads/domain"
	teamdomain "roofing_crm_backend/internal/team/domain"
)

// Visible returns the leads user may see: admins see everything, everyone
// else sees the leads assigned to their full name.
func Visible(leads []domain.Lead, user teamdomain.User) []domain.Lead {
	if user.Role == teamdomain.RoleAdmin {
		return cloneAll(leads)
	}
	name := user.FullName()
	out := make([]domain.Lead, 0)
	for _, lead := range leads {
		if lead.AssignedTo == name {
			out = append(out, lead.Clone())
		}
	}
	return out
}

// CanSee reports whether lead is in user's visible set.
func CanSee(lead domain.Lead, user teamdomain.User) bool {
	return user.Role == teamdomain.RoleAdmin || lead.AssignedTo == user.FullName()
}

func cloneAll(leads []domain.Lead) []domain.Lead {
	out := make([]domain.Lead, len(leads))
	for i, lead := range leads {
		out[i] = lead.Clone()
	}
	return out
}
