package views

import (
	"roofing_crm_backend/internal/leads/domain"
	teamdomain "roofing_crm_backend/internal/team/domain"
)

// FunnelStage is one bar of the conversion funnel.
type FunnelStage struct {
	Name  string
	Leads int
}

// TeamConversions is one bar of the team performance chart.
type TeamConversions struct {
	Name        string
	Conversions int
}

// Analytics is the analytics page read model.
type Analytics struct {
	Range           DateRange
	Summary         Summary
	Funnel          []FunnelStage
	Communication   CommunicationTotals
	TeamPerformance []TeamConversions
}

var funnelStages = []struct {
	name   string
	status domain.Status
}{
	{"New", domain.StatusNew},
	{"Contacted", domain.StatusContacted},
	{"Follow-up", domain.StatusFollowUpNeeded},
	{"Appointment", domain.StatusAppointment},
}

// BuildAnalytics aggregates the user's visible leads added within r.
// Team performance sums the converted counter per partition.
func BuildAnalytics(leads []domain.Lead, partitions map[teamdomain.Role][]teamdomain.Member, user teamdomain.User, r DateRange) Analytics {
	s := Summarize(InRange(Visible(leads, user), r))

	funnel := make([]FunnelStage, 0, len(funnelStages))
	for _, stage := range funnelStages {
		funnel = append(funnel, FunnelStage{Name: stage.name, Leads: s.ByStatus[stage.status]})
	}

	return Analytics{
		Range:         r,
		Summary:       s,
		Funnel:        funnel,
		Communication: s.Communication,
		TeamPerformance: []TeamConversions{
			{Name: "Sales Team", Conversions: sumConverted(partitions[teamdomain.RoleSales])},
			{Name: "Dealers Team", Conversions: sumConverted(partitions[teamdomain.RoleDealers])},
		},
	}
}

func sumConverted(members []teamdomain.Member) int {
	total := 0
	for _, m := range members {
		total += m.Stats.Converted
	}
	return total
}
