// Package events holds the domain events the leads and team contexts publish.
// The bus itself lives in platform/events and is re-exported here so modules
// need a single import.
package events

import (
	platformevents "roofing_crm_backend/platform/events"
	"roofing_crm_backend/platform/logger"
)

type (
	Event       = platformevents.Event
	Bus         = platformevents.Bus
	Handler     = platformevents.Handler
	HandlerFunc = platformevents.HandlerFunc
	BaseEvent   = platformevents.BaseEvent
	InMemoryBus = platformevents.InMemoryBus
)

var NewBaseEvent = platformevents.NewBaseEvent

// NewInMemoryBus creates the process-local bus.
func NewInMemoryBus(log *logger.Logger) *InMemoryBus {
	return platformevents.NewInMemoryBus(log)
}

// =============================================================================
// Leads Domain Events
// =============================================================================

// LeadsImported is published after a spreadsheet import commits.
type LeadsImported struct {
	BaseEvent
	LeadIDs    []int64 `json:"leadIds"`
	AssignedTo string  `json:"assignedTo"`
	ImportedBy string  `json:"importedBy"`
}

func (e LeadsImported) EventName() string { return "leads.imported" }

// CallOutcomeRecorded is published for every committed call disposition.
type CallOutcomeRecorded struct {
	BaseEvent
	LeadID         int64  `json:"leadId"`
	Disposition    string `json:"disposition"`
	Actor          string `json:"actor"`
	ActorRole      string `json:"actorRole"`
	PreviousStatus string `json:"previousStatus"`
	Status         string `json:"status"`
}

func (e CallOutcomeRecorded) EventName() string { return "leads.call_outcome.recorded" }

// LeadTransferred is published when a lead is handed to a dealer with an appointment.
type LeadTransferred struct {
	BaseEvent
	LeadID               int64  `json:"leadId"`
	// CommunicationEventID is the appointment's id in the communication log.
	CommunicationEventID int64  `json:"communicationEventId"`
	DealerID             int64  `json:"dealerId"`
	DealerName           string `json:"dealerName"`
	DealerEmail          string `json:"dealerEmail"`
	TransferredBy        string `json:"transferredBy"`
	Address              string `json:"address"`
	AgentName            string `json:"agentName"`
	AgentPhone           string `json:"agentPhone"`
	Date                 string `json:"date"`
	Time                 string `json:"time"`
	Notes                string `json:"notes"`
}

func (e LeadTransferred) EventName() string { return "leads.transferred" }

// JobClosed is published when a dealer closes a job.
type JobClosed struct {
	BaseEvent
	LeadID     int64   `json:"leadId"`
	ClosedBy   string  `json:"closedBy"`
	AssignedTo string  `json:"assignedTo"`
	Revenue    float64 `json:"revenue"`
	PhotoCount int     `json:"photoCount"`
	// Reclosed is true when the lead already was a closed job (photo top-up).
	Reclosed bool `json:"reclosed"`
}

func (e JobClosed) EventName() string { return "leads.job.closed" }

// JobLost is published when a job is marked lost.
type JobLost struct {
	BaseEvent
	LeadID   int64  `json:"leadId"`
	MarkedBy string `json:"markedBy"`
}

func (e JobLost) EventName() string { return "leads.job.lost" }

// CommunicationScheduled is published for every appended calendar event.
type CommunicationScheduled struct {
	BaseEvent
	CommunicationEventID int64  `json:"communicationEventId"`
	LeadID               int64  `json:"leadId"`
	Type                 string `json:"type"`
	Date                 string `json:"date"`
	Time                 string `json:"time"`
	Notes                string `json:"notes"`
	AssignedTo           string `json:"assignedTo"`
	Address              string `json:"address"`
	AgentName            string `json:"agentName"`
	AgentPhone           string `json:"agentPhone"`
}

func (e CommunicationScheduled) EventName() string { return "leads.communication.scheduled" }

// =============================================================================
// Team Domain Events
// =============================================================================

// MemberSaved is published when a roster member is created or edited.
type MemberSaved struct {
	BaseEvent
	MemberID int64  `json:"memberId"`
	Role     string `json:"role"`
	Created  bool   `json:"created"`
}

func (e MemberSaved) EventName() string { return "team.member.saved" }

// MemberDeleted is published when a roster member is removed.
type MemberDeleted struct {
	BaseEvent
	MemberID int64  `json:"memberId"`
	Role     string `json:"role"`
	FullName string `json:"fullName"`
}

func (e MemberDeleted) EventName() string { return "team.member.deleted" }

// Compile-time checks that every domain event satisfies Event.
var (
	_ Event = LeadsImported{}
	_ Event = CallOutcomeRecorded{}
	_ Event = LeadTransferred{}
	_ Event = JobClosed{}
	_ Event = JobLost{}
	_ Event = CommunicationScheduled{}
	_ Event = MemberSaved{}
	_ Event = MemberDeleted{}
)
