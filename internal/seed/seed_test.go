package seed

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	leaddomain "roofing_crm_backend/internal/leads/domain"
	teamdomain "roofing_crm_backend/internal/team/domain"

	"golang.org/x/crypto/bcrypt"
)

func TestLoadEmbeddedSeed(t *testing.T) {
	data, err := Load("", bcrypt.MinCost)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(data.Members) == 0 || len(data.Leads) == 0 || len(data.Events) == 0 {
		t.Fatalf("expected members, leads and events, got %d/%d/%d", len(data.Members), len(data.Leads), len(data.Events))
	}

	roles := map[teamdomain.Role]int{}
	for _, m := range data.Members {
		roles[m.Role]++
		if m.Avatar == "" {
			t.Fatalf("member %d has no avatar", m.ID)
		}
	}
	for _, role := range teamdomain.Roles {
		if roles[role] == 0 {
			t.Fatalf("expected at least one %s member", role)
		}
	}

	var admin teamdomain.Member
	for _, m := range data.Members {
		if m.Username == "admin" {
			admin = m
		}
	}
	if bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte("admin123")) != nil {
		t.Fatalf("admin password was not hashed from the seed value")
	}
}

func TestEmbeddedLeadsAssignToRosterMembers(t *testing.T) {
	data, err := Load("", bcrypt.MinCost)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	names := map[string]bool{}
	for _, m := range data.Members {
		names[m.FullName()] = true
	}
	for _, l := range data.Leads {
		if !names[l.AssignedTo] {
			t.Fatalf("lead %d assigned to unknown member %q", l.ID, l.AssignedTo)
		}
		if l.Status == leaddomain.StatusClosedJob && l.JobRevenue == nil {
			t.Fatalf("closed lead %d has no revenue", l.ID)
		}
	}
}

func TestParseRejectsInvalidRecords(t *testing.T) {
	cases := map[string]string{
		"role":      "members:\n  - {id: 1, username: a, role: manager}\n",
		"member id": "members:\n  - {id: 1, username: a, role: sales}\n  - {id: 1, username: b, role: sales}\n",
		"status":    "leads:\n  - {id: 1, status: pending}\n",
		"event":     "events:\n  - {id: 1, leadId: 1, type: fax}\n",
		"yaml":      "members: [",
	}
	for name, raw := range cases {
		if _, err := Parse([]byte(raw), bcrypt.MinCost); err == nil {
			t.Fatalf("%s: expected error", name)
		}
	}
}

func TestLoadOverrideFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed.yaml")
	raw := strings.Join([]string{
		"members:",
		"  - {id: 9, username: solo, password: pw, firstName: Solo, lastName: Admin, role: admin}",
		"events:",
		"  - {id: 3, leadId: 42, type: appointment, date: '2026-10-21', time: '09:30'}",
	}, "\n")
	if err := os.WriteFile(path, []byte(raw), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	data, err := Load(path, bcrypt.MinCost)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(data.Members) != 1 || data.Members[0].Avatar != "SA" {
		t.Fatalf("unexpected members: %+v", data.Members)
	}
	if len(data.Leads) != 0 {
		t.Fatalf("expected no leads, got %d", len(data.Leads))
	}
	if len(data.Events) != 1 || data.Events[0].LeadID != 42 {
		t.Fatalf("dangling event must be kept: %+v", data.Events)
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml"), bcrypt.MinCost); err == nil {
		t.Fatalf("expected error for missing file")
	}
}
