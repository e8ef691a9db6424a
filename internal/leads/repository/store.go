// Package repository owns the process-lifetime lead store and the
// communication log. Both live behind one lock so a lifecycle operation
// commits the lead and its event together or not at all.
package repository

import (
	"context"
	"slices"
	"sync"

	"roofing_crm_backend/internal/leads/domain"
)

// Store is the in-memory LeadsRepository.
type Store struct {
	mu          sync.RWMutex
	leads       []domain.Lead
	index       map[int64]int
	events      []domain.CommunicationEvent
	nextLeadID  int64
	nextEventID int64
}

var _ LeadsRepository = (*Store)(nil)

// NewStore seeds the store. Later ids continue after the highest seeded id.
func NewStore(leads []domain.Lead, events []domain.CommunicationEvent) *Store {
	s := &Store{
		leads:  make([]domain.Lead, 0, len(leads)),
		index:  make(map[int64]int, len(leads)),
		events: slices.Clone(events),
	}
	for _, lead := range leads {
		s.index[lead.ID] = len(s.leads)
		s.leads = append(s.leads, lead.Clone())
		s.nextLeadID = max(s.nextLeadID, lead.ID)
	}
	for _, event := range events {
		s.nextEventID = max(s.nextEventID, event.ID)
	}
	s.nextLeadID++
	s.nextEventID++
	return s
}

// Snapshot returns a deep copy of leads and events in insertion order.
func (s *Store) Snapshot(ctx context.Context) Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	leads := make([]domain.Lead, len(s.leads))
	for i, lead := range s.leads {
		leads[i] = lead.Clone()
	}
	return Snapshot{Leads: leads, Events: slices.Clone(s.events)}
}

// GetByID returns a copy of one lead.
func (s *Store) GetByID(ctx context.Context, id int64) (domain.Lead, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	idx, ok := s.index[id]
	if !ok {
		return domain.Lead{}, ErrNotFound
	}
	return s.leads[idx].Clone(), nil
}

// Import appends one new lead per row: next id, status new, empty
// communication block, the given assignee and date.
func (s *Store) Import(ctx context.Context, rows []domain.Fields, assignedTo, dateAdded string) ([]domain.Lead, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	created := make([]domain.Lead, 0, len(rows))
	for _, fields := range rows {
		lead := domain.Lead{
			ID:         s.nextLeadID,
			Fields:     fields,
			Status:     domain.StatusNew,
			AssignedTo: assignedTo,
			DateAdded:  dateAdded,
		}
		s.nextLeadID++
		s.index[lead.ID] = len(s.leads)
		s.leads = append(s.leads, lead)
		created = append(created, lead.Clone())
	}
	return created, nil
}

// Mutate runs fn on a copy of lead id and commits the returned lead together
// with its event, if any. Nothing is written when fn fails.
func (s *Store) Mutate(ctx context.Context, id int64, fn MutateFunc) (domain.Lead, *domain.CommunicationEvent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx, ok := s.index[id]
	if !ok {
		return domain.Lead{}, nil, ErrNotFound
	}

	res, err := fn(s.leads[idx].Clone())
	if err != nil {
		return domain.Lead{}, nil, err
	}

	next := res.Lead.Clone()
	next.ID = id
	s.leads[idx] = next

	var committed *domain.CommunicationEvent
	if res.Event != nil {
		event := s.appendEventLocked(*res.Event)
		committed = &event
	}
	return next.Clone(), committed, nil
}

// AppendEvent records an explicitly scheduled communication. The lead must exist.
func (s *Store) AppendEvent(ctx context.Context, draft domain.CommunicationEvent) (domain.CommunicationEvent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.index[draft.LeadID]; !ok {
		return domain.CommunicationEvent{}, ErrNotFound
	}
	return s.appendEventLocked(draft), nil
}

func (s *Store) appendEventLocked(draft domain.CommunicationEvent) domain.CommunicationEvent {
	draft.ID = s.nextEventID
	s.nextEventID++
	s.events = append(s.events, draft)
	return draft
}
