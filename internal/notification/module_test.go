package notification

import (
	"context"
	"testing"
	"time"

	"roofing_crm_backend/internal/email"
	"roofing_crm_backend/internal/events"
	"roofing_crm_backend/internal/scheduler"
	teamdomain "roofing_crm_backend/internal/team/domain"
	teamrepo "roofing_crm_backend/internal/team/repository"
	"roofing_crm_backend/platform/logger"
)

type testSender struct {
	email.NoopSender
	assigned []email.Appointment
	to       []string
}

func (s *testSender) SendAppointmentAssignedEmail(ctx context.Context, toEmail string, appt email.Appointment) error {
	s.to = append(s.to, toEmail)
	s.assigned = append(s.assigned, appt)
	return nil
}

type scheduledReminder struct {
	payload scheduler.AppointmentReminderPayload
	runAt   time.Time
}

type testReminders struct {
	scheduled []scheduledReminder
}

func (r *testReminders) ScheduleAppointmentReminder(ctx context.Context, payload scheduler.AppointmentReminderPayload, runAt time.Time) error {
	r.scheduled = append(r.scheduled, scheduledReminder{payload: payload, runAt: runAt})
	return nil
}

func newTestModule(t *testing.T) (*Module, *testSender, *testReminders) {
	t.Helper()
	chicago, err := time.LoadLocation("America/Chicago")
	if err != nil {
		t.Fatalf("load location: %v", err)
	}
	roster := teamrepo.NewRoster([]teamdomain.Member{
		{User: teamdomain.User{ID: 5, FirstName: "Mike", LastName: "Johnson", Role: teamdomain.RoleDealers, Email: "mike@example.com"}},
		{User: teamdomain.User{ID: 6, FirstName: "No", LastName: "Mail", Role: teamdomain.RoleDealers}},
	})
	sender := &testSender{}
	reminders := &testReminders{}
	m := New(sender, reminders, roster, chicago, time.Hour, logger.Discard())
	m.now = func() time.Time { return time.Date(2024, 7, 1, 12, 0, 0, 0, chicago) }
	return m, sender, reminders
}

func TestLeadTransferredEmailsDealer(t *testing.T) {
	m, sender, _ := newTestModule(t)

	err := m.Handle(context.Background(), events.LeadTransferred{
		LeadID: 1, DealerID: 5, DealerName: "Mike Johnson", DealerEmail: "mike@example.com",
		TransferredBy: "Jane Doe", Address: "12 Oak Street, Springfield, 62704", Date: "2024-07-10", Time: "14:00",
	})
	if err != nil {
		t.Fatalf("handle: %v", err)
	}
	if len(sender.to) != 1 || sender.to[0] != "mike@example.com" || sender.assigned[0].ScheduledBy != "Jane Doe" {
		t.Fatalf("unexpected mail %v %+v", sender.to, sender.assigned)
	}

	if err := m.Handle(context.Background(), events.LeadTransferred{LeadID: 2, DealerName: "No Mail"}); err != nil || len(sender.to) != 1 {
		t.Fatalf("dealer without email must be skipped (%v)", err)
	}
}

func TestAppointmentSchedulesReminderInConfiguredZone(t *testing.T) {
	m, _, reminders := newTestModule(t)

	err := m.Handle(context.Background(), events.CommunicationScheduled{
		CommunicationEventID: 9, LeadID: 1, Type: "appointment", Date: "2024-07-10", Time: "14:00",
		AssignedTo: "Mike Johnson", Address: "12 Oak Street, Springfield, 62704",
	})
	if err != nil {
		t.Fatalf("handle: %v", err)
	}
	if len(reminders.scheduled) != 1 {
		t.Fatalf("expected one reminder, got %d", len(reminders.scheduled))
	}
	got := reminders.scheduled[0]
	want := time.Date(2024, 7, 10, 18, 0, 0, 0, time.UTC) // 14:00 CDT minus one hour
	if !got.runAt.Equal(want) {
		t.Fatalf("expected run at %s, got %s", want, got.runAt.UTC())
	}
	if got.payload.DealerEmail != "mike@example.com" || got.payload.EventID != 9 {
		t.Fatalf("unexpected payload %+v", got.payload)
	}
}

func TestReminderSkips(t *testing.T) {
	m, _, reminders := newTestModule(t)
	ctx := context.Background()

	cases := []events.CommunicationScheduled{
		{CommunicationEventID: 1, Type: "call", Date: "2024-07-10", Time: "14:00", AssignedTo: "Mike Johnson"},
		{CommunicationEventID: 2, Type: "appointment", Date: "2024-07-10", Time: "14:00", AssignedTo: "No Mail"},
		{CommunicationEventID: 3, Type: "appointment", Date: "2024-07-10", Time: "14:00", AssignedTo: "Unassigned"},
		{CommunicationEventID: 4, Type: "appointment", Date: "2024-07-01", Time: "12:30", AssignedTo: "Mike Johnson"},
	}
	for _, e := range cases {
		if err := m.Handle(ctx, e); err != nil {
			t.Fatalf("event %d: %v", e.CommunicationEventID, err)
		}
	}
	if len(reminders.scheduled) != 0 {
		t.Fatalf("expected no reminders, got %+v", reminders.scheduled)
	}

	bad := events.CommunicationScheduled{CommunicationEventID: 5, Type: "appointment", Date: "07/10/2024", Time: "2pm", AssignedTo: "Mike Johnson"}
	if err := m.Handle(ctx, bad); err == nil {
		t.Fatalf("expected error for unparseable schedule")
	}
}

func TestRemindersDisabledWithoutQueue(t *testing.T) {
	m := New(email.NoopSender{}, nil, teamrepo.NewRoster(nil), nil, time.Hour, logger.Discard())
	err := m.Handle(context.Background(), events.CommunicationScheduled{Type: "appointment", Date: "2099-01-01", Time: "09:00", AssignedTo: "x"})
	if err != nil {
		t.Fatalf("expected no-op without queue, got %v", err)
	}
}
