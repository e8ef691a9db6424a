package importer

import (
	"testing"
)

func TestDetectMappingsUsesFirstMatchingHeader(t *testing.T) {
	headers := []string{"Listing URL", "Agent Name", "Agent Email", "Phone", "Street Address", "City", "ZIP", "Property Type", "List Price", "Roof Flag", "Last Sold", "Permits"}

	m := DetectMappings(headers)

	want := map[string]string{
		"listingLink":  "Listing URL",
		"agentName":    "Agent Name",
		"agentEmail":   "Agent Email",
		"agentPhone":   "Phone",
		"address":      "Street Address",
		"city":         "City",
		"zipCode":      "ZIP",
		"homeType":     "Property Type",
		"homeValue":    "List Price",
		"roofFlag":     "Roof Flag",
		"lastSoldDate": "Last Sold",
		"permits":      "Permits",
	}
	for key, header := range want {
		if m[key] != header {
			t.Fatalf("field %s: got %q, want %q", key, m[key], header)
		}
	}
}

func TestDetectMappingsLeavesUnknownFieldsUnmapped(t *testing.T) {
	m := DetectMappings([]string{"Owner", "Notes"})
	if len(m) != 0 {
		t.Fatalf("expected no mappings, got %v", m)
	}
}

func TestFoldDropsEmptyRowsAndHandlesShortRows(t *testing.T) {
	headers := []string{"Agent", "Address", "Phone"}
	rows := [][]string{
		{"Sarah Agent", "12 Oak Street", "555-123-4567"},
		{"", "", ""},
		{"Tom Broker"},
		{"  ", " "},
	}

	got, err := Fold(headers, rows, DetectMappings(headers))
	if err != nil {
		t.Fatalf("fold: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(got))
	}
	if got[0].AgentName != "Sarah Agent" || got[0].Address != "12 Oak Street" || got[0].AgentPhone != "555-123-4567" {
		t.Fatalf("unexpected first row %+v", got[0])
	}
	if got[1].AgentName != "Tom Broker" || got[1].Address != "" {
		t.Fatalf("unexpected second row %+v", got[1])
	}
}

func TestFoldRejectsBadMappings(t *testing.T) {
	headers := []string{"Agent"}

	if _, err := Fold(headers, nil, Mappings{"owner": "Agent"}); err == nil {
		t.Fatalf("expected error for unknown field")
	}
	if _, err := Fold(headers, nil, Mappings{"agentName": "Missing"}); err == nil {
		t.Fatalf("expected error for unknown header")
	}
}
