package views

import (
	"strings"

	"roofing_crm_backend/internal/leads/domain"
	teamdomain "roofing_crm_backend/internal/team/domain"
	"roofing_crm_backend/platform/phone"
)

// RoofFlag buckets the free-form roof flag column.
type RoofFlag string

const (
	RoofFlagAll         RoofFlag = "all"
	RoofFlagMayNeedRoof RoofFlag = "may need roof"
	RoofFlagOther       RoofFlag = "other"
)

// MyLeadsGroup is the single group dealers get.
const MyLeadsGroup = "My Leads"

// Filter holds the lead list predicates. Zero values match everything;
// "all" is accepted wherever the list page offers it.
type Filter struct {
	Status    string
	Search    string
	DateAdded string
	RoofFlag  RoofFlag
	HomeType  string
}

// Match reports whether lead satisfies every predicate.
func (f Filter) Match(lead domain.Lead) bool {
	return f.matchStatus(lead) &&
		f.matchSearch(lead) &&
		(f.DateAdded == "" || lead.DateAdded == f.DateAdded) &&
		f.matchRoofFlag(lead) &&
		(isAll(f.HomeType) || lead.HomeType == f.HomeType)
}

func (f Filter) matchStatus(lead domain.Lead) bool {
	return isAll(f.Status) || string(lead.Status) == f.Status
}

// matchSearch compares agent name and address case-insensitively, and the
// agent phone on digits only so formatting does not matter.
func (f Filter) matchSearch(lead domain.Lead) bool {
	if f.Search == "" {
		return true
	}
	term := strings.ToLower(f.Search)
	if strings.Contains(strings.ToLower(lead.AgentName), term) ||
		strings.Contains(strings.ToLower(lead.Address), term) {
		return true
	}
	digits := phone.Digits(f.Search)
	return digits != "" && strings.Contains(phone.Digits(lead.AgentPhone), digits)
}

func (f Filter) matchRoofFlag(lead domain.Lead) bool {
	flag := strings.ToLower(lead.RoofFlag)
	switch f.RoofFlag {
	case RoofFlagMayNeedRoof:
		return flag == string(RoofFlagMayNeedRoof)
	case RoofFlagOther:
		return flag != "" && flag != string(RoofFlagMayNeedRoof)
	default:
		return true
	}
}

func isAll(value string) bool {
	return value == "" || value == "all"
}

// Apply returns the leads matching f, in input order.
func Apply(leads []domain.Lead, f Filter) []domain.Lead {
	out := make([]domain.Lead, 0, len(leads))
	for _, lead := range leads {
		if f.Match(lead) {
			out = append(out, lead.Clone())
		}
	}
	return out
}

// Group is a collapsible block of the lead list.
type Group struct {
	Name  string
	Leads []domain.Lead
}

// GroupLeads groups by agent name in first-occurrence order. Dealers get one
// flat group.
func GroupLeads(leads []domain.Lead, role teamdomain.Role) []Group {
	if role == teamdomain.RoleDealers {
		return []Group{{Name: MyLeadsGroup, Leads: cloneAll(leads)}}
	}

	var groups []Group
	index := make(map[string]int)
	for _, lead := range leads {
		i, ok := index[lead.AgentName]
		if !ok {
			i = len(groups)
			index[lead.AgentName] = i
			groups = append(groups, Group{Name: lead.AgentName})
		}
		groups[i].Leads = append(groups[i].Leads, lead.Clone())
	}
	return groups
}

// HomeTypes lists the distinct non-empty home types in first-occurrence order.
func HomeTypes(leads []domain.Lead) []string {
	seen := make(map[string]bool)
	out := make([]string, 0)
	for _, lead := range leads {
		if lead.HomeType == "" || seen[lead.HomeType] {
			continue
		}
		seen[lead.HomeType] = true
		out = append(out, lead.HomeType)
	}
	return out
}

// LeadsPage is the lead list read model.
type LeadsPage struct {
	Groups        []Group
	Total         int
	StatusOptions []domain.Status
	HomeTypes     []string
}

// BuildLeadsPage composes visibility, filtering and grouping. Home type
// options come from the whole collection.
func BuildLeadsPage(leads []domain.Lead, user teamdomain.User, f Filter) LeadsPage {
	filtered := Apply(Visible(leads, user), f)
	return LeadsPage{
		Groups:        GroupLeads(filtered, user.Role),
		Total:         len(filtered),
		StatusOptions: domain.StatusOptions(user.Role),
		HomeTypes:     HomeTypes(leads),
	}
}
