// Package domain holds the lead entity, its status lifecycle and the
// role policy that decides who may move a lead between statuses.
package domain

import "slices"

// Status is the lifecycle position of a lead.
type Status string

const (
	StatusNew            Status = "new"
	StatusContacted      Status = "contacted"
	StatusFollowUpNeeded Status = "follow-up needed"
	StatusRejected       Status = "rejected"
	StatusAppointment    Status = "appointment"
	StatusClosedJob      Status = "closed job"
	StatusLostJob        Status = "lost job"
)

// Statuses lists every status in pipeline order.
var Statuses = []Status{
	StatusNew,
	StatusContacted,
	StatusFollowUpNeeded,
	StatusRejected,
	StatusAppointment,
	StatusClosedJob,
	StatusLostJob,
}

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	return slices.Contains(Statuses, s)
}

// Fields are the descriptive, importable columns of a lead. All of them are
// free-form strings.
type Fields struct {
	ListingLink  string
	AgentName    string
	AgentEmail   string
	AgentPhone   string
	Address      string
	City         string
	ZipCode      string
	HomeType     string
	HomeValue    string
	RoofFlag     string
	LastSoldDate string
	Permits      string
}

// Empty reports whether every field is blank.
func (f Fields) Empty() bool {
	return f == Fields{}
}

// Note is one entry of a lead's append-only history.
type Note struct {
	Date   string
	Text   string
	Author string
}

// Communication is the counter block plus note history embedded in a lead.
type Communication struct {
	Calls      int
	SMS        int
	Voicemails int
	Notes      []Note
}

// Lead is a prospective or active roofing job.
type Lead struct {
	ID int64
	Fields
	Status     Status
	AssignedTo string
	// DateAdded is a calendar date, YYYY-MM-DD.
	DateAdded     string
	Communication Communication
	// JobRevenue and JobPhotos stay nil until the job is closed and are never cleared afterwards.
	JobRevenue *float64
	JobPhotos  []string
}

// Clone returns a deep copy so callers can mutate without aliasing the store.
func (l Lead) Clone() Lead {
	out := l
	out.Communication.Notes = slices.Clone(l.Communication.Notes)
	out.JobPhotos = slices.Clone(l.JobPhotos)
	if l.JobRevenue != nil {
		revenue := *l.JobRevenue
		out.JobRevenue = &revenue
	}
	return out
}

// Revenue returns the job revenue, treating an absent value as zero.
func (l Lead) Revenue() float64 {
	if l.JobRevenue == nil {
		return 0
	}
	return *l.JobRevenue
}

// FullAddress joins address, city and zip the way map lookups expect it.
func (l Lead) FullAddress() string {
	return l.Address + ", " + l.City + ", " + l.ZipCode
}

// CommunicationType classifies a calendar event.
type CommunicationType string

const (
	CommunicationCall        CommunicationType = "call"
	CommunicationSMS         CommunicationType = "sms"
	CommunicationVoicemail   CommunicationType = "voicemail"
	CommunicationAppointment CommunicationType = "appointment"
)

// Valid reports whether t is a known communication type.
func (t CommunicationType) Valid() bool {
	switch t {
	case CommunicationCall, CommunicationSMS, CommunicationVoicemail, CommunicationAppointment:
		return true
	}
	return false
}

// CommunicationEvent is a scheduled or logged interaction. LeadID is a weak
// reference: it may point at a lead that no longer resolves.
type CommunicationEvent struct {
	ID     int64
	LeadID int64
	Type   CommunicationType
	Date   string
	Time   string
	Notes  string
}
