package transport

import (
	"roofing_crm_backend/internal/leads/domain"
	"roofing_crm_backend/internal/leads/views"
	"roofing_crm_backend/platform/phone"
)

// Request DTOs

// FieldsPayload carries the descriptive lead columns.
type FieldsPayload struct {
	ListingLink  string `json:"listingLink"`
	AgentName    string `json:"agentName"`
	AgentEmail   string `json:"agentEmail"`
	AgentPhone   string `json:"agentPhone,omitempty"`
	Address      string `json:"address"`
	City         string `json:"city,omitempty"`
	ZipCode      string `json:"zipCode,omitempty"`
	HomeType     string `json:"homeType,omitempty"`
	HomeValue    string `json:"homeValue,omitempty"`
	RoofFlag     string `json:"roofFlag,omitempty"`
	LastSoldDate string `json:"lastSoldDate,omitempty"`
	Permits      string `json:"permits,omitempty"`
}

// ImportRequest is a parsed spreadsheet. Empty mappings are auto-detected
// from the headers. AssignedToID 0 imports the leads unassigned.
type ImportRequest struct {
	Headers      []string          `json:"headers" validate:"required,min=1,dive,max=200"`
	Rows         [][]string        `json:"rows" validate:"required,min=1,max=5000"`
	Mappings     map[string]string `json:"mappings,omitempty"`
	AssignedToID int64             `json:"assignedToId" validate:"gte=0"`
}

// TransferDetails selects a dealer and the appointment slot.
type TransferDetails struct {
	DealerID int64  `json:"dealerId" validate:"required,gt=0"`
	Date     string `json:"date" validate:"required,calendar_date"`
	Time     string `json:"time" validate:"required,clock_time"`
}

// RecordCallRequest logs a call outcome. Revenue is used by the dealer
// "closed" disposition, Transfer by the salesperson "transfer" disposition.
type RecordCallRequest struct {
	Disposition string           `json:"disposition" validate:"required,max=32"`
	Notes       string           `json:"notes" validate:"max=2000"`
	Revenue     *float64         `json:"jobRevenue,omitempty" validate:"omitempty,gt=0"`
	Transfer    *TransferDetails `json:"transferDetails,omitempty"`
}

type TransferRequest = TransferDetails

// CloseJobRequest closes a job outside a call. Photos are data URLs.
type CloseJobRequest struct {
	Revenue *float64 `json:"jobRevenue,omitempty" validate:"omitempty,gt=0"`
	Photos  []string `json:"photos" validate:"max=20,dive,required"`
}

// ScheduleEventRequest adds an entry to the calendar.
type ScheduleEventRequest struct {
	LeadID int64  `json:"leadId" validate:"required,gt=0"`
	Type   string `json:"type" validate:"required,oneof=call sms voicemail appointment"`
	Date   string `json:"date" validate:"required,calendar_date"`
	Time   string `json:"time" validate:"required,clock_time"`
	Notes  string `json:"notes" validate:"max=2000"`
}

// ListQuery are the lead list filters.
type ListQuery struct {
	Status    string `form:"status" validate:"max=32"`
	Search    string `form:"search" validate:"max=200"`
	DateAdded string `form:"dateAdded" validate:"omitempty,calendar_date"`
	RoofFlag  string `form:"roofFlag" validate:"omitempty,oneof=all other 'may need roof'"`
	HomeType  string `form:"homeType" validate:"max=100"`
}

// RangeQuery narrows dashboards and analytics by date added.
type RangeQuery struct {
	StartDate     string `form:"startDate" validate:"omitempty,calendar_date"`
	EndDate       string `form:"endDate" validate:"omitempty,calendar_date"`
	SalesMemberID int64  `form:"salesMemberId" validate:"gte=0"`
}

// CalendarQuery selects a month. Zero values mean the current month.
type CalendarQuery struct {
	Year  int `form:"year" validate:"omitempty,min=1970,max=9999"`
	Month int `form:"month" validate:"omitempty,min=1,max=12"`
}

// Response DTOs

type NoteResponse struct {
	Date   string `json:"date"`
	Text   string `json:"text"`
	Author string `json:"author"`
}

type CommunicationResponse struct {
	Calls      int            `json:"calls"`
	SMS        int            `json:"sms"`
	Voicemails int            `json:"voicemails"`
	Notes      []NoteResponse `json:"notes"`
}

type LeadResponse struct {
	ID int64 `json:"id"`
	FieldsPayload
	AgentPhoneDisplay string                `json:"agentPhoneDisplay,omitempty"`
	Status            string                `json:"status"`
	AssignedTo        string                `json:"assignedTo"`
	DateAdded         string                `json:"dateAdded"`
	Communication     CommunicationResponse `json:"communication"`
	JobRevenue        *float64              `json:"jobRevenue,omitempty"`
	JobPhotoCount     int                   `json:"jobPhotoCount"`
}

type GroupResponse struct {
	Name  string         `json:"name"`
	Leads []LeadResponse `json:"leads"`
}

type LeadsPageResponse struct {
	Groups        []GroupResponse `json:"groups"`
	Total         int             `json:"total"`
	StatusOptions []string        `json:"statusOptions"`
	HomeTypes     []string        `json:"homeTypes"`
}

type DispositionOptionResponse struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

type ImportFieldResponse struct {
	Key    string `json:"key"`
	Label  string `json:"label"`
	Header string `json:"header,omitempty"`
}

type ImportPreviewResponse struct {
	Fields []ImportFieldResponse `json:"fields"`
	Leads  []FieldsPayload       `json:"leads"`
}

type ImportResponse struct {
	Imported   int            `json:"imported"`
	AssignedTo string         `json:"assignedTo"`
	Leads      []LeadResponse `json:"leads"`
}

type EventResponse struct {
	ID        int64  `json:"id"`
	LeadID    int64  `json:"leadId"`
	Type      string `json:"type"`
	Date      string `json:"date"`
	Time      string `json:"time"`
	Notes     string `json:"notes,omitempty"`
	AgentName string `json:"agentName,omitempty"`
}

// LifecycleResponse is returned by every lead mutation. Event is set when
// the operation created a calendar entry.
type LifecycleResponse struct {
	Lead  LeadResponse   `json:"lead"`
	Event *EventResponse `json:"event,omitempty"`
}

type PhotosResponse struct {
	Photos []string `json:"photos"`
}

type CommunicationTotalsResponse struct {
	Calls      int `json:"calls"`
	SMS        int `json:"sms"`
	Voicemails int `json:"voicemails"`
}

type SalesDashboardResponse struct {
	TotalLeads     int            `json:"totalLeads"`
	Contacted      int            `json:"contacted"`
	Appointments   int            `json:"appointments"`
	ConversionRate float64        `json:"conversionRate"`
	Recent         []LeadResponse `json:"recent"`
}

type DealerDashboardResponse struct {
	ActiveAppointments int            `json:"activeAppointments"`
	CompletedJobs      int            `json:"completedJobs"`
	LostJobs           int            `json:"lostJobs"`
	TotalRevenue       float64        `json:"totalRevenue"`
	Recent             []LeadResponse `json:"recent"`
}

type SalesMemberOption struct {
	ID       int64  `json:"id"`
	FullName string `json:"fullName"`
}

type AdminDashboardResponse struct {
	TotalLeads     int                 `json:"totalLeads"`
	NewLeads       int                 `json:"newLeads"`
	FollowUpNeeded int                 `json:"followUpNeeded"`
	Appointments   int                 `json:"appointments"`
	ConversionRate float64             `json:"conversionRate"`
	TotalRevenue   float64             `json:"totalRevenue"`
	SalesTeam      []SalesMemberOption `json:"salesTeam"`
	StartDate      string              `json:"startDate,omitempty"`
	EndDate        string              `json:"endDate,omitempty"`
	SalesMemberID  int64               `json:"salesMemberId,omitempty"`
	Recent         []LeadResponse      `json:"recent"`
}

type DashboardResponse struct {
	Role   string                   `json:"role"`
	Sales  *SalesDashboardResponse  `json:"sales,omitempty"`
	Dealer *DealerDashboardResponse `json:"dealer,omitempty"`
	Admin  *AdminDashboardResponse  `json:"admin,omitempty"`
}

type ChartPoint struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
}

type AnalyticsResponse struct {
	StartDate       string                      `json:"startDate,omitempty"`
	EndDate         string                      `json:"endDate,omitempty"`
	TotalLeads      int                         `json:"totalLeads"`
	ConversionRate  float64                     `json:"conversionRate"`
	TotalRevenue    float64                     `json:"totalRevenue"`
	StatusCounts    map[string]int              `json:"statusCounts"`
	Funnel          []ChartPoint                `json:"funnel"`
	Communication   CommunicationTotalsResponse `json:"communication"`
	TeamPerformance []ChartPoint                `json:"teamPerformance"`
}

type CalendarDayResponse struct {
	Date    string          `json:"date"`
	Day     int             `json:"day"`
	IsToday bool            `json:"isToday"`
	Events  []EventResponse `json:"events"`
}

type CalendarResponse struct {
	Year          int                   `json:"year"`
	Month         int                   `json:"month"`
	MonthName     string                `json:"monthName"`
	LeadingBlanks int                   `json:"leadingBlanks"`
	Days          []CalendarDayResponse `json:"days"`
}

// Mappers

func ToFieldsPayload(f domain.Fields) FieldsPayload {
	return FieldsPayload{
		ListingLink:  f.ListingLink,
		AgentName:    f.AgentName,
		AgentEmail:   f.AgentEmail,
		AgentPhone:   f.AgentPhone,
		Address:      f.Address,
		City:         f.City,
		ZipCode:      f.ZipCode,
		HomeType:     f.HomeType,
		HomeValue:    f.HomeValue,
		RoofFlag:     f.RoofFlag,
		LastSoldDate: f.LastSoldDate,
		Permits:      f.Permits,
	}
}

func ToLeadResponse(l domain.Lead) LeadResponse {
	notes := make([]NoteResponse, 0, len(l.Communication.Notes))
	for _, n := range l.Communication.Notes {
		notes = append(notes, NoteResponse{Date: n.Date, Text: n.Text, Author: n.Author})
	}

	var display string
	if l.AgentPhone != "" {
		display = phone.Display(l.AgentPhone)
	}

	return LeadResponse{
		ID:                l.ID,
		FieldsPayload:     ToFieldsPayload(l.Fields),
		AgentPhoneDisplay: display,
		Status:            string(l.Status),
		AssignedTo:        l.AssignedTo,
		DateAdded:         l.DateAdded,
		Communication: CommunicationResponse{
			Calls:      l.Communication.Calls,
			SMS:        l.Communication.SMS,
			Voicemails: l.Communication.Voicemails,
			Notes:      notes,
		},
		JobRevenue:    l.JobRevenue,
		JobPhotoCount: len(l.JobPhotos),
	}
}

func ToLeadResponses(leads []domain.Lead) []LeadResponse {
	out := make([]LeadResponse, 0, len(leads))
	for _, l := range leads {
		out = append(out, ToLeadResponse(l))
	}
	return out
}

func ToEventResponse(e domain.CommunicationEvent) EventResponse {
	return EventResponse{
		ID:     e.ID,
		LeadID: e.LeadID,
		Type:   string(e.Type),
		Date:   e.Date,
		Time:   e.Time,
		Notes:  e.Notes,
	}
}

func ToLeadsPageResponse(p views.LeadsPage) LeadsPageResponse {
	groups := make([]GroupResponse, 0, len(p.Groups))
	for _, g := range p.Groups {
		groups = append(groups, GroupResponse{Name: g.Name, Leads: ToLeadResponses(g.Leads)})
	}
	statuses := make([]string, 0, len(p.StatusOptions))
	for _, s := range p.StatusOptions {
		statuses = append(statuses, string(s))
	}
	return LeadsPageResponse{
		Groups:        groups,
		Total:         p.Total,
		StatusOptions: statuses,
		HomeTypes:     p.HomeTypes,
	}
}

func ToDashboardResponse(d views.Dashboard) DashboardResponse {
	out := DashboardResponse{Role: string(d.Role)}
	switch {
	case d.Sales != nil:
		out.Sales = &SalesDashboardResponse{
			TotalLeads:     d.Sales.TotalLeads,
			Contacted:      d.Sales.Contacted,
			Appointments:   d.Sales.Appointments,
			ConversionRate: d.Sales.ConversionRate,
			Recent:         ToLeadResponses(d.Sales.Recent),
		}
	case d.Dealer != nil:
		out.Dealer = &DealerDashboardResponse{
			ActiveAppointments: d.Dealer.ActiveAppointments,
			CompletedJobs:      d.Dealer.CompletedJobs,
			LostJobs:           d.Dealer.LostJobs,
			TotalRevenue:       d.Dealer.TotalRevenue,
			Recent:             ToLeadResponses(d.Dealer.Recent),
		}
	case d.Admin != nil:
		team := make([]SalesMemberOption, 0, len(d.Admin.SalesTeam))
		for _, m := range d.Admin.SalesTeam {
			team = append(team, SalesMemberOption{ID: m.ID, FullName: m.FullName()})
		}
		out.Admin = &AdminDashboardResponse{
			TotalLeads:     d.Admin.TotalLeads,
			NewLeads:       d.Admin.NewLeads,
			FollowUpNeeded: d.Admin.FollowUpNeeded,
			Appointments:   d.Admin.Appointments,
			ConversionRate: d.Admin.ConversionRate,
			TotalRevenue:   d.Admin.TotalRevenue,
			SalesTeam:      team,
			StartDate:      d.Admin.Filter.Range.Start,
			EndDate:        d.Admin.Filter.Range.End,
			SalesMemberID:  d.Admin.Filter.SalesMemberID,
			Recent:         ToLeadResponses(d.Admin.Recent),
		}
	}
	return out
}

func ToAnalyticsResponse(a views.Analytics) AnalyticsResponse {
	counts := make(map[string]int, len(a.Summary.ByStatus))
	for status, n := range a.Summary.ByStatus {
		counts[string(status)] = n
	}
	funnel := make([]ChartPoint, 0, len(a.Funnel))
	for _, stage := range a.Funnel {
		funnel = append(funnel, ChartPoint{Name: stage.Name, Value: stage.Leads})
	}
	team := make([]ChartPoint, 0, len(a.TeamPerformance))
	for _, t := range a.TeamPerformance {
		team = append(team, ChartPoint{Name: t.Name, Value: t.Conversions})
	}
	return AnalyticsResponse{
		StartDate:      a.Range.Start,
		EndDate:        a.Range.End,
		TotalLeads:     a.Summary.Total,
		ConversionRate: a.Summary.ConversionRate,
		TotalRevenue:   a.Summary.TotalRevenue,
		StatusCounts:   counts,
		Funnel:         funnel,
		Communication: CommunicationTotalsResponse{
			Calls:      a.Communication.Calls,
			SMS:        a.Communication.SMS,
			Voicemails: a.Communication.Voicemails,
		},
		TeamPerformance: team,
	}
}

func ToCalendarResponse(m views.CalendarMonth) CalendarResponse {
	days := make([]CalendarDayResponse, 0, len(m.Days))
	for _, d := range m.Days {
		events := make([]EventResponse, 0, len(d.Events))
		for _, e := range d.Events {
			resp := ToEventResponse(e.CommunicationEvent)
			resp.AgentName = e.AgentName
			events = append(events, resp)
		}
		days = append(days, CalendarDayResponse{Date: d.Date, Day: d.Day, IsToday: d.IsToday, Events: events})
	}
	return CalendarResponse{
		Year:          m.Year,
		Month:         int(m.Month),
		MonthName:     m.MonthName,
		LeadingBlanks: m.LeadingBlanks,
		Days:          days,
	}
}
