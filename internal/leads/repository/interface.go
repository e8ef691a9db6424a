package repository

import (
	"context"
	"errors"

	"roofing_crm_backend/internal/leads/domain"
)

// ErrNotFound is returned when a lead id does not resolve.
var ErrNotFound = errors.New("lead not found")

// Snapshot is a deep copy of the store. Views derive everything from it and
// never see live state.
type Snapshot struct {
	Leads  []domain.Lead
	Events []domain.CommunicationEvent
}

// Lookup returns the lead with id from the snapshot.
func (s Snapshot) Lookup(id int64) (domain.Lead, bool) {
	for _, lead := range s.Leads {
		if lead.ID == id {
			return lead, true
		}
	}
	return domain.Lead{}, false
}

// MutateFunc computes the next state of a lead. It receives a private copy;
// returning an error discards the change.
type MutateFunc func(lead domain.Lead) (domain.Result, error)

// LeadReader provides read-only access to leads and the communication log.
type LeadReader interface {
	Snapshot(ctx context.Context) Snapshot
	GetByID(ctx context.Context, id int64) (domain.Lead, error)
}

// LeadWriter is the only way leads change.
type LeadWriter interface {
	Import(ctx context.Context, rows []domain.Fields, assignedTo, dateAdded string) ([]domain.Lead, error)
	Mutate(ctx context.Context, id int64, fn MutateFunc) (domain.Lead, *domain.CommunicationEvent, error)
}

// EventWriter appends to the communication log.
type EventWriter interface {
	AppendEvent(ctx context.Context, draft domain.CommunicationEvent) (domain.CommunicationEvent, error)
}

// LeadsRepository composes every segregated interface.
type LeadsRepository interface {
	LeadReader
	LeadWriter
	EventWriter
}
