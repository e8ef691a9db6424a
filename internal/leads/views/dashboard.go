package views

import (
	"roofing_crm_backend/internal/leads/domain"
	teamdomain "roofing_crm_backend/internal/team/domain"
)

// SalesDashboard is the salesperson's overview.
type SalesDashboard struct {
	TotalLeads     int
	Contacted      int
	Appointments   int
	ConversionRate float64
	Recent         []domain.Lead
}

// DealerDashboard is the dealer's overview.
type DealerDashboard struct {
	ActiveAppointments int
	CompletedJobs      int
	LostJobs           int
	TotalRevenue       float64
	Recent             []domain.Lead
}

// AdminFilter narrows the admin dashboard. SalesMemberID 0 means every
// salesperson.
type AdminFilter struct {
	Range         DateRange
	SalesMemberID int64
}

// AdminDashboard is the company-wide overview.
type AdminDashboard struct {
	TotalLeads     int
	NewLeads       int
	FollowUpNeeded int
	Appointments   int
	ConversionRate float64
	TotalRevenue   float64
	SalesTeam      []teamdomain.Member
	Filter         AdminFilter
	Recent         []domain.Lead
}

// Dashboard holds exactly one populated variant, chosen by role.
type Dashboard struct {
	Role   teamdomain.Role
	Sales  *SalesDashboard
	Dealer *DealerDashboard
	Admin  *AdminDashboard
}

// BuildDashboard dispatches on the user's role. The admin filter is
// ignored for other roles.
func BuildDashboard(leads []domain.Lead, team []teamdomain.Member, user teamdomain.User, f AdminFilter) Dashboard {
	switch user.Role {
	case teamdomain.RoleSales:
		d := BuildSalesDashboard(leads, user)
		return Dashboard{Role: user.Role, Sales: &d}
	case teamdomain.RoleDealers:
		d := BuildDealerDashboard(leads, user)
		return Dashboard{Role: user.Role, Dealer: &d}
	default:
		d := BuildAdminDashboard(leads, team, f)
		return Dashboard{Role: teamdomain.RoleAdmin, Admin: &d}
	}
}

// BuildSalesDashboard summarizes the salesperson's own leads.
func BuildSalesDashboard(leads []domain.Lead, user teamdomain.User) SalesDashboard {
	mine := Visible(leads, user)
	s := Summarize(mine)
	return SalesDashboard{
		TotalLeads:     s.Total,
		Contacted:      s.Contacted,
		Appointments:   s.Appointments,
		ConversionRate: s.ConversionRate,
		Recent:         recent(mine),
	}
}

// BuildDealerDashboard summarizes the dealer's jobs.
func BuildDealerDashboard(leads []domain.Lead, user teamdomain.User) DealerDashboard {
	mine := Visible(leads, user)
	s := Summarize(mine)
	return DealerDashboard{
		ActiveAppointments: s.ByStatus[domain.StatusAppointment],
		CompletedJobs:      s.ByStatus[domain.StatusClosedJob],
		LostJobs:           s.ByStatus[domain.StatusLostJob],
		TotalRevenue:       s.TotalRevenue,
		Recent:             recent(mine),
	}
}

// BuildAdminDashboard narrows every lead by date range and salesperson
// before summarizing. An id that is not on the sales team matches no lead.
func BuildAdminDashboard(leads []domain.Lead, team []teamdomain.Member, f AdminFilter) AdminDashboard {
	salesTeam := make([]teamdomain.Member, 0)
	for _, m := range team {
		if m.Role == teamdomain.RoleSales {
			salesTeam = append(salesTeam, m)
		}
	}

	narrowed := InRange(leads, f.Range)
	if f.SalesMemberID != 0 {
		name, found := "", false
		for _, m := range salesTeam {
			if m.ID == f.SalesMemberID {
				name, found = m.FullName(), true
				break
			}
		}
		kept := narrowed[:0]
		for _, lead := range narrowed {
			if found && lead.AssignedTo == name {
				kept = append(kept, lead)
			}
		}
		narrowed = kept
	}

	s := Summarize(narrowed)
	return AdminDashboard{
		TotalLeads:     s.Total,
		NewLeads:       s.ByStatus[domain.StatusNew],
		FollowUpNeeded: s.ByStatus[domain.StatusFollowUpNeeded],
		Appointments:   s.Appointments,
		ConversionRate: s.ConversionRate,
		TotalRevenue:   s.TotalRevenue,
		SalesTeam:      salesTeam,
		Filter:         f,
		Recent:         recent(narrowed),
	}
}
