package views

import (
	"fmt"
	"time"

	"roofing_crm_backend/internal/leads/domain"
	teamdomain "roofing_crm_backend/internal/team/domain"
)

// UnknownLead labels events whose lead no longer resolves.
const UnknownLead = "Unknown"

// CalendarEvent is a communication event joined with its lead's agent.
type CalendarEvent struct {
	domain.CommunicationEvent
	AgentName string
}

// CalendarDay is one cell of the month grid.
type CalendarDay struct {
	Date    string
	Day     int
	IsToday bool
	Events  []CalendarEvent
}

// CalendarMonth is a month grid. LeadingBlanks is the weekday of the first
// of the month, Sunday being 0.
type CalendarMonth struct {
	Year          int
	Month         time.Month
	MonthName     string
	LeadingBlanks int
	Days          []CalendarDay
}

// VisibleEvents restricts events to the user's leads. Admins keep every
// event, including ones whose lead does not resolve.
func VisibleEvents(leads []domain.Lead, events []domain.CommunicationEvent, user teamdomain.User) []CalendarEvent {
	agents := make(map[int64]string, len(leads))
	visible := make(map[int64]bool, len(leads))
	for _, lead := range leads {
		agents[lead.ID] = lead.AgentName
		visible[lead.ID] = CanSee(lead, user)
	}

	out := make([]CalendarEvent, 0)
	for _, event := range events {
		if user.Role != teamdomain.RoleAdmin && !visible[event.LeadID] {
			continue
		}
		agent, ok := agents[event.LeadID]
		if !ok || agent == "" {
			agent = UnknownLead
		}
		out = append(out, CalendarEvent{CommunicationEvent: event, AgentName: agent})
	}
	return out
}

// BucketByDate groups events by their exact date string, keeping insertion
// order within a day.
func BucketByDate(events []CalendarEvent) map[string][]CalendarEvent {
	buckets := make(map[string][]CalendarEvent)
	for _, event := range events {
		buckets[event.Date] = append(buckets[event.Date], event)
	}
	return buckets
}

// BuildCalendar renders the month grid for year/month. today is a
// YYYY-MM-DD date used to flag the current day.
func BuildCalendar(leads []domain.Lead, events []domain.CommunicationEvent, user teamdomain.User, year int, month time.Month, today string) CalendarMonth {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	daysInMonth := first.AddDate(0, 1, -1).Day()
	buckets := BucketByDate(VisibleEvents(leads, events, user))

	days := make([]CalendarDay, 0, daysInMonth)
	for day := 1; day <= daysInMonth; day++ {
		date := fmt.Sprintf("%04d-%02d-%02d", year, int(month), day)
		days = append(days, CalendarDay{
			Date:    date,
			Day:     day,
			IsToday: date == today,
			Events:  buckets[date],
		})
	}

	return CalendarMonth{
		Year:          year,
		Month:         month,
		MonthName:     month.String(),
		LeadingBlanks: int(first.Weekday()),
		Days:          days,
	}
}
