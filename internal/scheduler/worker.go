package scheduler

import (
	"context"
	"fmt"
	"os"

	"roofing_crm_backend/internal/email"
	"roofing_crm_backend/platform/config"
	"roofing_crm_backend/platform/logger"

	"github.com/hibiken/asynq"
)

type Worker struct {
	server *asynq.Server
	mux    *asynq.ServeMux
	sender email.Sender
	log    *logger.Logger
}

// NewWorker builds the asynq server that delivers reminder mail.
func NewWorker(cfg config.SchedulerConfig, sender email.Sender, log *logger.Logger) (*Worker, error) {
	opt, queue, err := connection(cfg)
	if err != nil {
		return nil, err
	}

	concurrency := cfg.GetAsynqConcurrency()
	if concurrency < 1 {
		concurrency = defaultConcurrency
	}

	server := asynq.NewServer(opt, asynq.Config{
		Concurrency: concurrency,
		Queues: map[string]int{
			queue: 1,
		},
		Logger: asynqLogger{log: log},
	})

	w := newWorker(sender, log)
	w.server = server
	return w, nil
}

func newWorker(sender email.Sender, log *logger.Logger) *Worker {
	w := &Worker{
		mux:    asynq.NewServeMux(),
		sender: sender,
		log:    log,
	}
	w.mux.HandleFunc(TaskAppointmentReminder, w.handleAppointmentReminder)
	return w
}

func (w *Worker) Run(ctx context.Context) {
	if w == nil || w.server == nil {
		return
	}

	go func() {
		<-ctx.Done()
		w.server.Shutdown()
	}()

	if err := w.server.Run(w.mux); err != nil {
		w.log.Error("scheduler worker stopped", "error", err)
	}
}

func (w *Worker) handleAppointmentReminder(ctx context.Context, task *asynq.Task) error {
	payload, err := ParseAppointmentReminderPayload(task)
	if err != nil {
		return fmt.Errorf("%w: %v", asynq.SkipRetry, err)
	}

	if payload.DealerEmail == "" {
		w.log.Info("appointment reminder skipped, dealer has no email", "eventId", payload.EventID, "dealer", payload.DealerName)
		return nil
	}

	err = w.sender.SendAppointmentReminderEmail(ctx, payload.DealerEmail, email.Appointment{
		LeadID:     payload.LeadID,
		DealerName: payload.DealerName,
		Address:    payload.Address,
		Date:       payload.Date,
		Time:       payload.Time,
		AgentName:  payload.AgentName,
		AgentPhone: payload.AgentPhone,
		Notes:      payload.Notes,
	})
	if err != nil {
		w.log.ExternalCallFailed("smtp", "appointment_reminder", err)
		return err
	}

	w.log.Info("appointment reminder sent", "eventId", payload.EventID, "leadId", payload.LeadID)
	return nil
}

// asynqLogger routes asynq's own logging through the application logger.
type asynqLogger struct {
	log *logger.Logger
}

func (l asynqLogger) Debug(args ...interface{}) { l.log.Debug(fmt.Sprint(args...), "component", "asynq") }
func (l asynqLogger) Info(args ...interface{})  { l.log.Info(fmt.Sprint(args...), "component", "asynq") }
func (l asynqLogger) Warn(args ...interface{})  { l.log.Warn(fmt.Sprint(args...), "component", "asynq") }
func (l asynqLogger) Error(args ...interface{}) { l.log.Error(fmt.Sprint(args...), "component", "asynq") }

func (l asynqLogger) Fatal(args ...interface{}) {
	l.log.Error(fmt.Sprint(args...), "component", "asynq")
	os.Exit(1)
}
