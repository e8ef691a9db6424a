// Package email renders and delivers dealer notifications.
package email

import "context"

// Appointment is the data shown in appointment mails.
type Appointment struct {
	LeadID      int64
	DealerName  string
	Address     string
	Date        string
	Time        string
	AgentName   string
	AgentPhone  string
	ScheduledBy string
	Notes       string
}

type Sender interface {
	SendAppointmentAssignedEmail(ctx context.Context, toEmail string, appt Appointment) error
	SendAppointmentReminderEmail(ctx context.Context, toEmail string, appt Appointment) error
}

type NoopSender struct{}

func (NoopSender) SendAppointmentAssignedEmail(ctx context.Context, toEmail string, appt Appointment) error {
	return nil
}

func (NoopSender) SendAppointmentReminderEmail(ctx context.Context, toEmail string, appt Appointment) error {
	return nil
}
