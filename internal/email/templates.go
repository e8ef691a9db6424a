package email

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
)

//go:embed templates/*.html
var templateFS embed.FS

type baseEmailData struct {
	Title      string
	Heading    string
	Subheading string
}

type appointmentEmailData struct {
	baseEmailData
	Appointment
}

func renderEmailTemplate(name string, data any) (string, error) {
	templates := []string{"templates/base.html", "templates/" + name}
	tmpl, err := template.New("base.html").ParseFS(templateFS, templates...)
	if err != nil {
		return "", fmt.Errorf("parse email template %s: %w", name, err)
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "email", data); err != nil {
		return "", fmt.Errorf("execute email template %s: %w", name, err)
	}
	return buf.String(), nil
}

// RenderAppointmentAssigned returns the subject and HTML body of the mail a
// dealer gets when a lead is transferred to them.
func RenderAppointmentAssigned(appt Appointment) (string, string, error) {
	body, err := renderEmailTemplate("appointment_assigned.html", appointmentEmailData{
		baseEmailData: baseEmailData{
			Title:      "New appointment",
			Heading:    "You have a new roof inspection",
			Subheading: "Scheduled by " + appt.ScheduledBy,
		},
		Appointment: appt,
	})
	if err != nil {
		return "", "", err
	}
	return fmt.Sprintf(subjectAppointmentAssignedFmt, appt.Address, appt.Date), body, nil
}

// RenderAppointmentReminder returns the subject and HTML body of the reminder
// sent ahead of an appointment.
func RenderAppointmentReminder(appt Appointment) (string, string, error) {
	body, err := renderEmailTemplate("appointment_reminder.html", appointmentEmailData{
		baseEmailData: baseEmailData{
			Title:   "Appointment reminder",
			Heading: "Upcoming roof inspection",
		},
		Appointment: appt,
	})
	if err != nil {
		return "", "", err
	}
	return fmt.Sprintf(subjectAppointmentReminderFmt, appt.Time, appt.Address), body, nil
}
