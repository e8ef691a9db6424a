// Package notification provides event handlers for sending notifications
// in response to domain events: the dealer mail on a transfer and the
// reminder scheduled ahead of every appointment.
// Domain modules publish events and never talk to mail or queues directly.
package notification

import (
	"context"
	"fmt"
	"time"

	"roofing_crm_backend/internal/email"
	"roofing_crm_backend/internal/events"
	"roofing_crm_backend/internal/leads/domain"
	"roofing_crm_backend/internal/scheduler"
	teamdomain "roofing_crm_backend/internal/team/domain"
	"roofing_crm_backend/platform/logger"
)

const scheduleLayout = "2006-01-02 15:04"

// MemberDirectory resolves a lead assignee string to the roster member.
type MemberDirectory interface {
	FindByFullName(fullName string) (teamdomain.Member, error)
}

// Module handles all notification-related event subscriptions.
type Module struct {
	sender    email.Sender
	reminders scheduler.ReminderScheduler
	members   MemberDirectory
	loc       *time.Location
	leadTime  time.Duration
	now       func() time.Time
	log       *logger.Logger
}

// New creates the module. reminders may be nil when no queue is configured;
// appointment reminders are then skipped.
func New(sender email.Sender, reminders scheduler.ReminderScheduler, members MemberDirectory, loc *time.Location, leadTime time.Duration, log *logger.Logger) *Module {
	if loc == nil {
		loc = time.UTC
	}
	return &Module{
		sender:    sender,
		reminders: reminders,
		members:   members,
		loc:       loc,
		leadTime:  leadTime,
		now:       time.Now,
		log:       log,
	}
}

// RegisterHandlers subscribes the module to the events it reacts to.
func (m *Module) RegisterHandlers(bus events.Bus) {
	bus.Subscribe(events.LeadTransferred{}.EventName(), m)
	bus.Subscribe(events.CommunicationScheduled{}.EventName(), m)

	m.log.Info("notification module registered event handlers")
}

// Handle routes events to the appropriate handler method.
func (m *Module) Handle(ctx context.Context, event events.Event) error {
	switch e := event.(type) {
	case events.LeadTransferred:
		return m.handleLeadTransferred(ctx, e)
	case events.CommunicationScheduled:
		return m.handleCommunicationScheduled(ctx, e)
	default:
		m.log.Warn("unhandled event type in notification module", "event", event.EventName())
		return nil
	}
}

func (m *Module) handleLeadTransferred(ctx context.Context, e events.LeadTransferred) error {
	if e.DealerEmail == "" {
		m.log.Info("appointment mail skipped, dealer has no email", "leadId", e.LeadID, "dealer", e.DealerName)
		return nil
	}

	err := m.sender.SendAppointmentAssignedEmail(ctx, e.DealerEmail, email.Appointment{
		LeadID:      e.LeadID,
		DealerName:  e.DealerName,
		Address:     e.Address,
		Date:        e.Date,
		Time:        e.Time,
		AgentName:   e.AgentName,
		AgentPhone:  e.AgentPhone,
		ScheduledBy: e.TransferredBy,
		Notes:       e.Notes,
	})
	if err != nil {
		m.log.ExternalCallFailed("smtp", "appointment_assigned", err)
		return err
	}
	m.log.Info("appointment mail sent", "leadId", e.LeadID, "dealerId", e.DealerID)
	return nil
}

func (m *Module) handleCommunicationScheduled(ctx context.Context, e events.CommunicationScheduled) error {
	if e.Type != string(domain.CommunicationAppointment) || m.reminders == nil {
		return nil
	}

	member, err := m.members.FindByFullName(e.AssignedTo)
	if err != nil || member.Email == "" {
		m.log.Info("appointment reminder skipped, no email for assignee", "eventId", e.CommunicationEventID, "assignee", e.AssignedTo)
		return nil
	}

	runAt, err := ReminderTime(e.Date, e.Time, m.loc, m.leadTime)
	if err != nil {
		return fmt.Errorf("appointment %d: %w", e.CommunicationEventID, err)
	}
	if !runAt.After(m.now()) {
		m.log.Debug("appointment reminder skipped, reminder time already passed", "eventId", e.CommunicationEventID, "runAt", runAt)
		return nil
	}

	err = m.reminders.ScheduleAppointmentReminder(ctx, scheduler.AppointmentReminderPayload{
		EventID:     e.CommunicationEventID,
		LeadID:      e.LeadID,
		DealerName:  member.FullName(),
		DealerEmail: member.Email,
		Address:     e.Address,
		Date:        e.Date,
		Time:        e.Time,
		AgentName:   e.AgentName,
		AgentPhone:  e.AgentPhone,
		Notes:       e.Notes,
	}, runAt)
	if err != nil {
		m.log.ExternalCallFailed("asynq", "schedule_reminder", err)
		return err
	}
	m.log.Info("appointment reminder scheduled", "eventId", e.CommunicationEventID, "runAt", runAt)
	return nil
}

// ReminderTime is the appointment start in loc minus leadTime.
func ReminderTime(date, clock string, loc *time.Location, leadTime time.Duration) (time.Time, error) {
	start, err := time.ParseInLocation(scheduleLayout, date+" "+clock, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid appointment date or time: %w", err)
	}
	return start.Add(-leadTime), nil
}
