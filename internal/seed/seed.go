// Package seed loads the roster, leads and calendar events the process
// starts with. The embedded seed.yaml is used unless a file override is given.
package seed

import (
	_ "embed"
	"fmt"
	"os"

	leaddomain "roofing_crm_backend/internal/leads/domain"
	teamdomain "roofing_crm_backend/internal/team/domain"

	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v3"
)

//go:embed seed.yaml
var defaultSeed []byte

// Data is the decoded startup state.
type Data struct {
	Members []teamdomain.Member
	Leads   []leaddomain.Lead
	Events  []leaddomain.CommunicationEvent
}

type document struct {
	Members []memberRecord `yaml:"members"`
	Leads   []leadRecord   `yaml:"leads"`
	Events  []eventRecord  `yaml:"events"`
}

type memberRecord struct {
	ID        int64            `yaml:"id"`
	Username  string           `yaml:"username"`
	Password  string           `yaml:"password"`
	FirstName string           `yaml:"firstName"`
	LastName  string           `yaml:"lastName"`
	Role      string           `yaml:"role"`
	Email     string           `yaml:"email"`
	Phone     string           `yaml:"phone"`
	Stats     teamdomain.Stats `yaml:"stats"`
}

type noteRecord struct {
	Date   string `yaml:"date"`
	Text   string `yaml:"text"`
	Author string `yaml:"author"`
}

type communicationRecord struct {
	Calls      int          `yaml:"calls"`
	SMS        int          `yaml:"sms"`
	Voicemails int          `yaml:"voicemails"`
	Notes      []noteRecord `yaml:"notes"`
}

type leadRecord struct {
	ID            int64               `yaml:"id"`
	ListingLink   string              `yaml:"listingLink"`
	AgentName     string              `yaml:"agentName"`
	AgentEmail    string              `yaml:"agentEmail"`
	AgentPhone    string              `yaml:"agentPhone"`
	Address       string              `yaml:"address"`
	City          string              `yaml:"city"`
	ZipCode       string              `yaml:"zipCode"`
	HomeType      string              `yaml:"homeType"`
	HomeValue     string              `yaml:"homeValue"`
	RoofFlag      string              `yaml:"roofFlag"`
	LastSoldDate  string              `yaml:"lastSoldDate"`
	Permits       string              `yaml:"permits"`
	Status        string              `yaml:"status"`
	AssignedTo    string              `yaml:"assignedTo"`
	DateAdded     string              `yaml:"dateAdded"`
	Communication communicationRecord `yaml:"communication"`
	JobRevenue    *float64            `yaml:"jobRevenue"`
	JobPhotos     []string            `yaml:"jobPhotos"`
}

type eventRecord struct {
	ID     int64  `yaml:"id"`
	LeadID int64  `yaml:"leadId"`
	Type   string `yaml:"type"`
	Date   string `yaml:"date"`
	Time   string `yaml:"time"`
	Notes  string `yaml:"notes"`
}

// Load reads the seed from path, or the embedded default when path is empty.
// bcryptCost <= 0 selects bcrypt.DefaultCost.
func Load(path string, bcryptCost int) (Data, error) {
	raw := defaultSeed
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return Data{}, fmt.Errorf("read seed file: %w", err)
		}
		raw = b
	}
	return Parse(raw, bcryptCost)
}

// Parse decodes and validates a seed document.
func Parse(raw []byte, bcryptCost int) (Data, error) {
	if bcryptCost <= 0 {
		bcryptCost = bcrypt.DefaultCost
	}

	var doc document
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return Data{}, fmt.Errorf("decode seed: %w", err)
	}

	members, err := toMembers(doc.Members, bcryptCost)
	if err != nil {
		return Data{}, err
	}
	leads, err := toLeads(doc.Leads)
	if err != nil {
		return Data{}, err
	}
	events, err := toEvents(doc.Events)
	if err != nil {
		return Data{}, err
	}
	return Data{Members: members, Leads: leads, Events: events}, nil
}

func toMembers(records []memberRecord, cost int) ([]teamdomain.Member, error) {
	seenIDs := make(map[int64]bool, len(records))
	seenNames := make(map[string]bool, len(records))
	out := make([]teamdomain.Member, 0, len(records))

	for _, r := range records {
		role, ok := teamdomain.ParseRole(r.Role)
		if !ok {
			return nil, fmt.Errorf("member %d: invalid role %q", r.ID, r.Role)
		}
		if r.ID <= 0 || seenIDs[r.ID] {
			return nil, fmt.Errorf("member %d: id must be positive and unique", r.ID)
		}
		if r.Username == "" || seenNames[r.Username] {
			return nil, fmt.Errorf("member %d: username must be set and unique", r.ID)
		}
		seenIDs[r.ID] = true
		seenNames[r.Username] = true

		var hash string
		if r.Password != "" {
			hashed, err := bcrypt.GenerateFromPassword([]byte(r.Password), cost)
			if err != nil {
				return nil, fmt.Errorf("member %d: hash password: %w", r.ID, err)
			}
			hash = string(hashed)
		}

		out = append(out, teamdomain.Member{
			User: teamdomain.User{
				ID:           r.ID,
				Username:     r.Username,
				PasswordHash: hash,
				FirstName:    r.FirstName,
				LastName:     r.LastName,
				Avatar:       teamdomain.Avatar(r.FirstName, r.LastName),
				Role:         role,
				Email:        r.Email,
				Phone:        r.Phone,
			},
			Stats: r.Stats,
		})
	}
	return out, nil
}

func toLeads(records []leadRecord) ([]leaddomain.Lead, error) {
	seen := make(map[int64]bool, len(records))
	out := make([]leaddomain.Lead, 0, len(records))

	for _, r := range records {
		status := leaddomain.Status(r.Status)
		if !status.Valid() {
			return nil, fmt.Errorf("lead %d: invalid status %q", r.ID, r.Status)
		}
		if r.ID <= 0 || seen[r.ID] {
			return nil, fmt.Errorf("lead %d: id must be positive and unique", r.ID)
		}
		seen[r.ID] = true

		notes := make([]leaddomain.Note, 0, len(r.Communication.Notes))
		for _, n := range r.Communication.Notes {
			notes = append(notes, leaddomain.Note{Date: n.Date, Text: n.Text, Author: n.Author})
		}

		out = append(out, leaddomain.Lead{
			ID: r.ID,
			Fields: leaddomain.Fields{
				ListingLink:  r.ListingLink,
				AgentName:    r.AgentName,
				AgentEmail:   r.AgentEmail,
				AgentPhone:   r.AgentPhone,
				Address:      r.Address,
				City:         r.City,
				ZipCode:      r.ZipCode,
				HomeType:     r.HomeType,
				HomeValue:    r.HomeValue,
				RoofFlag:     r.RoofFlag,
				LastSoldDate: r.LastSoldDate,
				Permits:      r.Permits,
			},
			Status:     status,
			AssignedTo: r.AssignedTo,
			DateAdded:  r.DateAdded,
			Communication: leaddomain.Communication{
				Calls:      r.Communication.Calls,
				SMS:        r.Communication.SMS,
				Voicemails: r.Communication.Voicemails,
				Notes:      notes,
			},
			JobRevenue: r.JobRevenue,
			JobPhotos:  r.JobPhotos,
		})
	}
	return out, nil
}

func toEvents(records []eventRecord) ([]leaddomain.CommunicationEvent, error) {
	seen := make(map[int64]bool, len(records))
	out := make([]leaddomain.CommunicationEvent, 0, len(records))

	for _, r := range records {
		kind := leaddomain.CommunicationType(r.Type)
		if !kind.Valid() {
			return nil, fmt.Errorf("event %d: invalid type %q", r.ID, r.Type)
		}
		if r.ID <= 0 || seen[r.ID] {
			return nil, fmt.Errorf("event %d: id must be positive and unique", r.ID)
		}
		seen[r.ID] = true

		// LeadID stays a weak reference; events for removed leads are kept.
		out = append(out, leaddomain.CommunicationEvent{
			ID:     r.ID,
			LeadID: r.LeadID,
			Type:   kind,
			Date:   r.Date,
			Time:   r.Time,
			Notes:  r.Notes,
		})
	}
	return out, nil
}
