package views

import (
	"math"

	"roofing_crm_backend/internal/leads/domain"
)

// RecentLimit is how many leads the dashboards list.
const RecentLimit = 5

// CommunicationTotals sums the counter blocks of a lead set.
type CommunicationTotals struct {
	Calls      int
	SMS        int
	Voicemails int
}

// Summary aggregates a lead set.
type Summary struct {
	Total        int
	ByStatus     map[domain.Status]int
	Contacted    int
	Appointments int
	// ConversionRate is appointments over total as a percentage with one
	// decimal. It is 0 for an empty set.
	ConversionRate float64
	TotalRevenue   float64
	Communication  CommunicationTotals
}

// Summarize computes the aggregate of leads.
func Summarize(leads []domain.Lead) Summary {
	s := Summary{
		Total:    len(leads),
		ByStatus: make(map[domain.Status]int, len(domain.Statuses)),
	}
	for _, status := range domain.Statuses {
		s.ByStatus[status] = 0
	}

	for _, lead := range leads {
		s.ByStatus[lead.Status]++
		if lead.Status != domain.StatusNew {
			s.Contacted++
		}
		s.TotalRevenue += lead.Revenue()
		s.Communication.Calls += lead.Communication.Calls
		s.Communication.SMS += lead.Communication.SMS
		s.Communication.Voicemails += lead.Communication.Voicemails
	}
	s.Appointments = s.ByStatus[domain.StatusAppointment]
	s.ConversionRate = ConversionRate(s.Appointments, s.Total)
	return s
}

// ConversionRate returns part/total as a percentage rounded to one decimal.
func ConversionRate(part, total int) float64 {
	if total <= 0 {
		return 0
	}
	return math.Round(float64(part)/float64(total)*1000) / 10
}

// DateRange is an inclusive range of calendar dates. Empty bounds are open.
type DateRange struct {
	Start string
	End   string
}

// IsZero reports whether neither bound is set.
func (r DateRange) IsZero() bool {
	return r.Start == "" && r.End == ""
}

// Contains compares YYYY-MM-DD strings, which order lexically. A lead without
// a date never falls inside a bounded range.
func (r DateRange) Contains(date string) bool {
	if r.IsZero() {
		return true
	}
	if date == "" {
		return false
	}
	return (r.Start == "" || date >= r.Start) && (r.End == "" || date <= r.End)
}

// InRange keeps the leads added within r.
func InRange(leads []domain.Lead, r DateRange) []domain.Lead {
	out := make([]domain.Lead, 0, len(leads))
	for _, lead := range leads {
		if r.Contains(lead.DateAdded) {
			out = append(out, lead.Clone())
		}
	}
	return out
}

func recent(leads []domain.Lead) []domain.Lead {
	return cloneAll(leads[:min(len(leads), RecentLimit)])
}
