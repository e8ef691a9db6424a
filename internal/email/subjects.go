package email

const (
	subjectAppointmentAssignedFmt = "New roof inspection: %s on %s"
	subjectAppointmentReminderFmt = "Reminder: roof inspection at %s, %s"
)
