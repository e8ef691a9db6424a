// Package importer folds spreadsheet rows into lead fields. Parsing the
// spreadsheet itself happens elsewhere; this package receives the header
// row and the data rows as strings.
package importer

import (
	"fmt"
	"slices"
	"strings"

	"roofing_crm_backend/internal/leads/domain"
)

// Field is a lead column a spreadsheet header can map onto.
type Field struct {
	Key      string
	Label    string
	Examples []string
	set      func(*domain.Fields, string)
}

// Fields lists the importable columns in mapping order.
var Fields = []Field{
	{Key: "listingLink", Label: "Listing Link", Examples: []string{"url", "link", "listing"}, set: func(f *domain.Fields, v string) { f.ListingLink = v }},
	{Key: "agentName", Label: "Agent Name", Examples: []string{"agent", "agent name"}, set: func(f *domain.Fields, v string) { f.AgentName = v }},
	{Key: "agentEmail", Label: "Agent Email", Examples: []string{"email"}, set: func(f *domain.Fields, v string) { f.AgentEmail = v }},
	{Key: "agentPhone", Label: "Agent Phone", Examples: []string{"phone", "contact"}, set: func(f *domain.Fields, v string) { f.AgentPhone = v }},
	{Key: "address", Label: "Street Address", Examples: []string{"address", "street"}, set: func(f *domain.Fields, v string) { f.Address = v }},
	{Key: "city", Label: "City", Examples: []string{"city"}, set: func(f *domain.Fields, v string) { f.City = v }},
	{Key: "zipCode", Label: "Postal Code", Examples: []string{"zip", "postal"}, set: func(f *domain.Fields, v string) { f.ZipCode = v }},
	{Key: "homeType", Label: "Home Type", Examples: []string{"type", "home type"}, set: func(f *domain.Fields, v string) { f.HomeType = v }},
	{Key: "homeValue", Label: "Home Value", Examples: []string{"value", "price", "amount"}, set: func(f *domain.Fields, v string) { f.HomeValue = v }},
	{Key: "roofFlag", Label: "Roof Flag", Examples: []string{"roof", "flag"}, set: func(f *domain.Fields, v string) { f.RoofFlag = v }},
	{Key: "lastSoldDate", Label: "Last Sold Date", Examples: []string{"sold", "last sold"}, set: func(f *domain.Fields, v string) { f.LastSoldDate = v }},
	{Key: "permits", Label: "Permits", Examples: []string{"permit"}, set: func(f *domain.Fields, v string) { f.Permits = v }},
}

// Mappings maps a field key to the spreadsheet header feeding it.
type Mappings map[string]string

// DetectMappings picks, for every field, the first header containing one of
// the field's examples, ignoring case. Fields without a match stay unmapped.
func DetectMappings(headers []string) Mappings {
	out := make(Mappings)
	for _, field := range Fields {
		for _, header := range headers {
			lower := strings.ToLower(header)
			if slices.ContainsFunc(field.Examples, func(ex string) bool { return strings.Contains(lower, ex) }) {
				out[field.Key] = header
				break
			}
		}
	}
	return out
}

// Fold converts rows into lead fields, in row order. Unmapped fields and
// short rows yield empty strings; rows where every field is empty are
// dropped. Mappings naming an unknown field or header are rejected.
func Fold(headers []string, rows [][]string, mappings Mappings) ([]domain.Fields, error) {
	columns := make(map[string]int, len(mappings))
	for key, header := range mappings {
		if header == "" {
			continue
		}
		if !slices.ContainsFunc(Fields, func(f Field) bool { return f.Key == key }) {
			return nil, fmt.Errorf("unknown lead field %q", key)
		}
		idx := slices.Index(headers, header)
		if idx < 0 {
			return nil, fmt.Errorf("header %q not found for field %q", header, key)
		}
		columns[key] = idx
	}

	out := make([]domain.Fields, 0, len(rows))
	for _, row := range rows {
		var fields domain.Fields
		for _, field := range Fields {
			idx, ok := columns[field.Key]
			if !ok || idx >= len(row) {
				continue
			}
			field.set(&fields, strings.TrimSpace(row[idx]))
		}
		if fields.Empty() {
			continue
		}
		out = append(out, fields)
	}
	return out, nil
}
