package domain

import (
	"fmt"
	"strings"

	teamdomain "roofing_crm_backend/internal/team/domain"
	"roofing_crm_backend/platform/apperr"
)

// Appointment carries the dealer hand-off details of a transfer.
type Appointment struct {
	DealerName string
	Date       string
	Time       string
}

// CallOutcome is the input of a recorded call.
type CallOutcome struct {
	Disposition Disposition
	Notes       string
	// Revenue is required when a dealer closes the job.
	Revenue *float64
	// Appointment is required for a transfer.
	Appointment *Appointment
}

// Result is a transition outcome: the updated lead plus, for transfers,
// the appointment event to append. Event.ID is assigned by the store.
type Result struct {
	Lead  Lead
	Event *CommunicationEvent
}

// ApplyCallOutcome records a call against lead. Exactly one note is
// appended, authored by actor and dated today. The input lead is never
// modified; on error the caller keeps its state.
func ApplyCallOutcome(lead Lead, actor teamdomain.User, call CallOutcome, today string) (Result, error) {
	if !AllowsDisposition(actor.Role, call.Disposition) {
		return Result{}, apperr.Forbidden(fmt.Sprintf("disposition %q is not available to %s", call.Disposition, actor.Role))
	}

	author := actor.FullName()
	next := lead.Clone()
	next.Communication.Notes = append(next.Communication.Notes, Note{
		Date:   today,
		Text:   callNoteText(call.Disposition, call.Notes),
		Author: author,
	})

	switch call.Disposition {
	case DispositionClosed:
		if !validRevenue(call.Revenue) {
			return Result{}, apperr.Validation("job revenue is required to close a job")
		}
		revenue := *call.Revenue
		next.JobRevenue = &revenue
		next.Status = dispositionTargets[call.Disposition]
		return Result{Lead: next}, nil

	case DispositionLost:
		next.Status = dispositionTargets[call.Disposition]
		return Result{Lead: next}, nil

	case DispositionTransfer:
		if call.Appointment == nil {
			return Result{}, apperr.Validation("dealer, date and time are required to transfer a lead")
		}
		notes := fmt.Sprintf("Appointment scheduled by %s with %s.", author, call.Appointment.DealerName)
		return ApplyTransfer(next, *call.Appointment, notes)
	}

	next.AssignedTo = author
	return Result{Lead: next}, nil
}

// ApplyTransfer hands lead to a dealer: the dealer becomes the assignee, the
// status moves to appointment and an appointment event is drafted. Both the
// call disposition and the direct transfer go through here.
func ApplyTransfer(lead Lead, appt Appointment, eventNotes string) (Result, error) {
	if strings.TrimSpace(appt.DealerName) == "" || appt.Date == "" || appt.Time == "" {
		return Result{}, apperr.Validation("dealer, date and time are required to transfer a lead")
	}

	next := lead.Clone()
	next.AssignedTo = appt.DealerName
	next.Status = StatusAppointment

	return Result{
		Lead: next,
		Event: &CommunicationEvent{
			LeadID: lead.ID,
			Type:   CommunicationAppointment,
			Date:   appt.Date,
			Time:   appt.Time,
			Notes:  eventNotes,
		},
	}, nil
}

// DirectTransferNotes is the event note of a transfer made outside a call.
func DirectTransferNotes(dealerName string) string {
	return fmt.Sprintf("Appointment scheduled with %s.", dealerName)
}

// ApplyCloseJob closes the job: revenue is overwritten and photos are
// appended to the existing set. Revenue may be omitted only when the lead is
// already a closed job, which keeps the stored revenue.
func ApplyCloseJob(lead Lead, revenue *float64, photos []string) (Lead, error) {
	next := lead.Clone()
	switch {
	case revenue != nil:
		if !validRevenue(revenue) {
			return Lead{}, apperr.Validation("job revenue must be greater than zero")
		}
		value := *revenue
		next.JobRevenue = &value
	case lead.Status != StatusClosedJob:
		return Lead{}, apperr.Validation("job revenue is required to close a job")
	case next.JobRevenue == nil:
		zero := 0.0
		next.JobRevenue = &zero
	}

	next.Status = StatusClosedJob
	next.JobPhotos = append(next.JobPhotos, photos...)
	return next, nil
}

// ApplyMarkLost moves the lead to lost job and changes nothing else.
func ApplyMarkLost(lead Lead) Lead {
	next := lead.Clone()
	next.Status = StatusLostJob
	return next
}

func callNoteText(d Disposition, notes string) string {
	notes = strings.TrimSpace(notes)
	if notes == "" {
		notes = "N/A"
	}
	return fmt.Sprintf("Outcome: %s. Notes: %s", d, notes)
}

func validRevenue(revenue *float64) bool {
	return revenue != nil && *revenue > 0
}
