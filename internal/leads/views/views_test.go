package views

import (
	"reflect"
	"testing"
	"time"

	"roofing_crm_backend/internal/leads/domain"
	teamdomain "roofing_crm_backend/internal/team/domain"
)

var (
	admin = teamdomain.User{ID: 1, FirstName: "Admin", LastName: "User", Role: teamdomain.RoleAdmin}
	jane  = teamdomain.User{ID: 2, FirstName: "Jane", LastName: "Doe", Role: teamdomain.RoleSales}
	john  = teamdomain.User{ID: 3, FirstName: "John", LastName: "Smith", Role: teamdomain.RoleSales}
	mike  = teamdomain.User{ID: 5, FirstName: "Mike", LastName: "Johnson", Role: teamdomain.RoleDealers}
)

func revenue(v float64) *float64 { return &v }

func sampleLeads() []domain.Lead {
	return []domain.Lead{
		{ID: 1, Fields: domain.Fields{AgentName: "Sarah Agent", Address: "12 Oak Street", AgentPhone: "(555) 123-4567", RoofFlag: "May Need Roof", HomeType: "Single Family"}, Status: domain.StatusNew, AssignedTo: "Jane Doe", DateAdded: "2024-07-01", Communication: domain.Communication{Calls: 2, SMS: 1}},
		{ID: 2, Fields: domain.Fields{AgentName: "Tom Broker", Address: "9 Elm Road", AgentPhone: "555.987.6543", RoofFlag: "Old roof", HomeType: "Condo"}, Status: domain.StatusAppointment, AssignedTo: "Jane Doe", DateAdded: "2024-07-03", Communication: domain.Communication{Voicemails: 1}},
		{ID: 3, Fields: domain.Fields{AgentName: "Sarah Agent", Address: "44 Pine Ave", HomeType: "Single Family"}, Status: domain.StatusContacted, AssignedTo: "John Smith", DateAdded: "2024-07-05", Communication: domain.Communication{Calls: 1}},
		{ID: 7, Fields: domain.Fields{AgentName: "Lisa Realty", Address: "7 Birch Ln"}, Status: domain.StatusClosedJob, AssignedTo: "Mike Johnson", DateAdded: "2024-06-20", JobRevenue: revenue(15000)},
		{ID: 8, Fields: domain.Fields{AgentName: "Lisa Realty", Address: "8 Birch Ln"}, Status: domain.StatusAppointment, AssignedTo: "Former Member", DateAdded: "2024-06-21"},
	}
}

func ids(leads []domain.Lead) []int64 {
	out := make([]int64, len(leads))
	for i, lead := range leads {
		out[i] = lead.ID
	}
	return out
}

func TestVisibleContainsOnlyOwnLeadsForNonAdmins(t *testing.T) {
	leads := sampleLeads()

	for _, user := range []teamdomain.User{jane, john, mike} {
		for _, lead := range Visible(leads, user) {
			if lead.AssignedTo != user.FullName() {
				t.Fatalf("%s sees lead %d assigned to %q", user.FullName(), lead.ID, lead.AssignedTo)
			}
		}
	}
	if got := len(Visible(leads, admin)); got != len(leads) {
		t.Fatalf("admin should see all %d leads, got %d", len(leads), got)
	}
}

func TestDanglingAssigneeVisibleToAdminOnly(t *testing.T) {
	leads := sampleLeads()

	if !reflect.DeepEqual(ids(Visible(leads, admin)), []int64{1, 2, 3, 7, 8}) {
		t.Fatalf("admin must keep the dangling lead")
	}
	for _, user := range []teamdomain.User{jane, john, mike} {
		for _, lead := range Visible(leads, user) {
			if lead.ID == 8 {
				t.Fatalf("%s must not see the dangling lead", user.FullName())
			}
		}
	}
}

func TestFilterPredicates(t *testing.T) {
	leads := sampleLeads()

	cases := []struct {
		name   string
		filter Filter
		want   []int64
	}{
		{"zero filter", Filter{}, []int64{1, 2, 3, 7, 8}},
		{"status", Filter{Status: "appointment"}, []int64{2, 8}},
		{"status all", Filter{Status: "all"}, []int64{1, 2, 3, 7, 8}},
		{"agent case insensitive", Filter{Search: "sarah"}, []int64{1, 3}},
		{"address", Filter{Search: "BIRCH"}, []int64{7, 8}},
		{"phone digits ignore formatting", Filter{Search: "555-123"}, []int64{1}},
		{"phone digits other format", Filter{Search: "(987) 65"}, []int64{2}},
		{"date added", Filter{DateAdded: "2024-07-03"}, []int64{2}},
		{"roof may need", Filter{RoofFlag: RoofFlagMayNeedRoof}, []int64{1}},
		{"roof other", Filter{RoofFlag: RoofFlagOther}, []int64{2}},
		{"home type", Filter{HomeType: "Single Family"}, []int64{1, 3}},
		{"and combined", Filter{Search: "sarah", Status: "new"}, []int64{1}},
	}
	for _, tc := range cases {
		got := ids(Apply(leads, tc.filter))
		if !reflect.DeepEqual(got, tc.want) {
			t.Fatalf("%s: got %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestGroupLeadsByAgentInFirstOccurrenceOrder(t *testing.T) {
	groups := GroupLeads(sampleLeads(), teamdomain.RoleAdmin)

	names := make([]string, len(groups))
	for i, g := range groups {
		names[i] = g.Name
	}
	if !reflect.DeepEqual(names, []string{"Sarah Agent", "Tom Broker", "Lisa Realty"}) {
		t.Fatalf("unexpected group order %v", names)
	}
	if !reflect.DeepEqual(ids(groups[0].Leads), []int64{1, 3}) {
		t.Fatalf("unexpected first group %v", ids(groups[0].Leads))
	}

	flat := GroupLeads(sampleLeads(), teamdomain.RoleDealers)
	if len(flat) != 1 || flat[0].Name != MyLeadsGroup || len(flat[0].Leads) != 5 {
		t.Fatalf("dealers should get one flat group, got %+v", flat)
	}
}

func TestBuildLeadsPageForDealer(t *testing.T) {
	page := BuildLeadsPage(sampleLeads(), mike, Filter{})

	if page.Total != 1 || page.Groups[0].Leads[0].ID != 7 {
		t.Fatalf("unexpected dealer page: %+v", page)
	}
	if len(page.StatusOptions) != 3 {
		t.Fatalf("dealers get the job statuses only, got %v", page.StatusOptions)
	}
	if !reflect.DeepEqual(page.HomeTypes, []string{"Single Family", "Condo"}) {
		t.Fatalf("unexpected home types %v", page.HomeTypes)
	}
}

func TestConversionRateBounds(t *testing.T) {
	if got := Summarize(nil).ConversionRate; got != 0 {
		t.Fatalf("empty set must have rate 0, got %v", got)
	}
	if got := ConversionRate(1, 3); got != 33.3 {
		t.Fatalf("expected 33.3, got %v", got)
	}
	if got := ConversionRate(2, 3); got != 66.7 {
		t.Fatalf("expected 66.7, got %v", got)
	}
	for part := 0; part <= 7; part++ {
		rate := ConversionRate(part, 7)
		if rate < 0 || rate > 100 {
			t.Fatalf("rate %v out of bounds", rate)
		}
	}
}

func TestSummarize(t *testing.T) {
	s := Summarize(sampleLeads())

	if s.Total != 5 || s.Appointments != 2 || s.Contacted != 4 {
		t.Fatalf("unexpected counts: %+v", s)
	}
	if s.ConversionRate != 40 {
		t.Fatalf("expected 40%%, got %v", s.ConversionRate)
	}
	if s.TotalRevenue != 15000 {
		t.Fatalf("expected revenue 15000, got %v", s.TotalRevenue)
	}
	if s.Communication != (CommunicationTotals{Calls: 3, SMS: 1, Voicemails: 1}) {
		t.Fatalf("unexpected communication totals %+v", s.Communication)
	}
}

func TestAdminDashboardNarrowing(t *testing.T) {
	team := []teamdomain.Member{{User: admin}, {User: jane}, {User: john}, {User: mike}}

	all := BuildAdminDashboard(sampleLeads(), team, AdminFilter{})
	if all.TotalLeads != 5 || all.TotalRevenue != 15000 || len(all.SalesTeam) != 2 {
		t.Fatalf("unexpected unfiltered dashboard: %+v", all)
	}

	ranged := BuildAdminDashboard(sampleLeads(), team, AdminFilter{Range: DateRange{Start: "2024-07-01", End: "2024-07-03"}})
	if ranged.TotalLeads != 2 || ranged.Appointments != 1 || ranged.ConversionRate != 50 {
		t.Fatalf("unexpected ranged dashboard: %+v", ranged)
	}

	byJane := BuildAdminDashboard(sampleLeads(), team, AdminFilter{SalesMemberID: jane.ID})
	if byJane.TotalLeads != 2 || byJane.NewLeads != 1 {
		t.Fatalf("unexpected salesperson dashboard: %+v", byJane)
	}

	byDealer := BuildAdminDashboard(sampleLeads(), team, AdminFilter{SalesMemberID: mike.ID})
	if byDealer.TotalLeads != 0 {
		t.Fatalf("non sales member must match nothing, got %d", byDealer.TotalLeads)
	}
}

func TestRoleDashboards(t *testing.T) {
	sales := BuildDashboard(sampleLeads(), nil, jane, AdminFilter{})
	if sales.Sales == nil || sales.Sales.TotalLeads != 2 || sales.Sales.ConversionRate != 50 {
		t.Fatalf("unexpected sales dashboard: %+v", sales.Sales)
	}

	dealer := BuildDashboard(sampleLeads(), nil, mike, AdminFilter{})
	if dealer.Dealer == nil || dealer.Dealer.CompletedJobs != 1 || dealer.Dealer.TotalRevenue != 15000 {
		t.Fatalf("unexpected dealer dashboard: %+v", dealer.Dealer)
	}
}

func TestAnalyticsFunnelAndTeamPerformance(t *testing.T) {
	partitions := map[teamdomain.Role][]teamdomain.Member{
		teamdomain.RoleSales:   {{User: jane, Stats: teamdomain.Stats{Converted: 3}}, {User: john, Stats: teamdomain.Stats{Converted: 2}}},
		teamdomain.RoleDealers: {{User: mike, Stats: teamdomain.Stats{Converted: 4}}},
	}

	a := BuildAnalytics(sampleLeads(), partitions, admin, DateRange{Start: "2024-07-01"})
	want := []FunnelStage{{"New", 1}, {"Contacted", 1}, {"Follow-up", 0}, {"Appointment", 1}}
	if !reflect.DeepEqual(a.Funnel, want) {
		t.Fatalf("unexpected funnel %+v", a.Funnel)
	}
	if a.TeamPerformance[0].Conversions != 5 || a.TeamPerformance[1].Conversions != 4 {
		t.Fatalf("unexpected team performance %+v", a.TeamPerformance)
	}
}

func TestCalendarRestrictsAndBuckets(t *testing.T) {
	leads := sampleLeads()
	events := []domain.CommunicationEvent{
		{ID: 1, LeadID: 1, Type: domain.CommunicationCall, Date: "2024-07-10", Time: "10:00"},
		{ID: 2, LeadID: 3, Type: domain.CommunicationSMS, Date: "2024-07-10", Time: "09:00"},
		{ID: 3, LeadID: 2, Type: domain.CommunicationAppointment, Date: "2024-07-10", Time: "08:00"},
		{ID: 4, LeadID: 99, Type: domain.CommunicationCall, Date: "2024-07-11", Time: "12:00"},
	}

	cal := BuildCalendar(leads, events, jane, 2024, time.July, "2024-07-10")
	if cal.LeadingBlanks != 1 || len(cal.Days) != 31 {
		t.Fatalf("July 2024 starts on Monday with 31 days, got %d blanks and %d days", cal.LeadingBlanks, len(cal.Days))
	}
	day := cal.Days[9]
	if !day.IsToday || len(day.Events) != 2 || day.Events[0].ID != 1 || day.Events[1].ID != 3 {
		t.Fatalf("unexpected bucket for the 10th: %+v", day)
	}
	if len(cal.Days[10].Events) != 0 {
		t.Fatalf("dangling event must not reach a salesperson")
	}

	adminCal := BuildCalendar(leads, events, admin, 2024, time.July, "")
	dangling := adminCal.Days[10].Events
	if len(dangling) != 1 || dangling[0].AgentName != UnknownLead {
		t.Fatalf("admin should see the dangling event as unknown, got %+v", dangling)
	}
}

func TestProjectionsArePure(t *testing.T) {
	leads := sampleLeads()
	before := sampleLeads()
	team := []teamdomain.Member{{User: admin}, {User: jane}}

	first := BuildLeadsPage(leads, admin, Filter{Search: "sarah"})
	second := BuildLeadsPage(leads, admin, Filter{Search: "sarah"})
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("lead page projection is not deterministic")
	}
	if !reflect.DeepEqual(BuildAdminDashboard(leads, team, AdminFilter{SalesMemberID: jane.ID}), BuildAdminDashboard(leads, team, AdminFilter{SalesMemberID: jane.ID})) {
		t.Fatalf("dashboard projection is not deterministic")
	}

	first.Groups[0].Leads[0].Status = domain.StatusLostJob
	if !reflect.DeepEqual(leads, before) {
		t.Fatalf("projections must not alias or mutate their input")
	}
}
