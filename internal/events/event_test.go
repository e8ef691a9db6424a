package events

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"roofing_crm_backend/platform/logger"
)

func TestAppointmentEventsKeepBusIdentity(t *testing.T) {
	bus := NewInMemoryBus(logger.Discard())

	var gotTransfer LeadTransferred
	var gotScheduled CommunicationScheduled
	bus.Subscribe(LeadTransferred{}.EventName(), HandlerFunc(func(ctx context.Context, event Event) error {
		gotTransfer, _ = event.(LeadTransferred)
		return nil
	}))
	bus.Subscribe(CommunicationScheduled{}.EventName(), HandlerFunc(func(ctx context.Context, event Event) error {
		gotScheduled, _ = event.(CommunicationScheduled)
		return nil
	}))

	transfer := LeadTransferred{BaseEvent: NewBaseEvent(), LeadID: 7, CommunicationEventID: 4, DealerName: "Mike Johnson"}
	if err := bus.PublishSync(context.Background(), transfer); err != nil {
		t.Fatalf("publish transfer: %v", err)
	}
	scheduled := CommunicationScheduled{BaseEvent: NewBaseEvent(), LeadID: 7, CommunicationEventID: 4, Type: "appointment"}
	if err := bus.PublishSync(context.Background(), scheduled); err != nil {
		t.Fatalf("publish scheduled: %v", err)
	}

	if gotTransfer.CommunicationEventID != 4 || gotTransfer.EventID() == uuid.Nil {
		t.Fatalf("unexpected transfer delivered: %+v", gotTransfer)
	}
	if gotScheduled.CommunicationEventID != 4 || gotScheduled.EventID() != scheduled.EventID() {
		t.Fatalf("unexpected scheduled event delivered: %+v", gotScheduled)
	}
	if gotTransfer.EventID() == gotScheduled.EventID() {
		t.Fatalf("expected distinct bus ids per event")
	}
}
