package scheduler

import (
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
)

const TaskAppointmentReminder = "appointments.reminder"

// AppointmentReminderPayload carries everything the reminder mail needs, so
// the worker does not depend on the API process's in-memory state.
type AppointmentReminderPayload struct {
	EventID     int64  `json:"eventId"`
	LeadID      int64  `json:"leadId"`
	DealerName  string `json:"dealerName"`
	DealerEmail string `json:"dealerEmail"`
	Address     string `json:"address"`
	Date        string `json:"date"`
	Time        string `json:"time"`
	AgentName   string `json:"agentName,omitempty"`
	AgentPhone  string `json:"agentPhone,omitempty"`
	Notes       string `json:"notes,omitempty"`
}

func NewAppointmentReminderTask(payload AppointmentReminderPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	// One reminder per calendar event; re-enqueueing the same event is a no-op.
	return asynq.NewTask(TaskAppointmentReminder, data, asynq.TaskID(reminderTaskID(payload.EventID))), nil
}

func ParseAppointmentReminderPayload(task *asynq.Task) (AppointmentReminderPayload, error) {
	var payload AppointmentReminderPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return AppointmentReminderPayload{}, err
	}
	return payload, nil
}

func reminderTaskID(eventID int64) string {
	return fmt.Sprintf("appointment-reminder-%d", eventID)
}
