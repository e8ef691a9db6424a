package domain

import (
	"slices"

	teamdomain "roofing_crm_backend/internal/team/domain"
)

// Disposition is the outcome code recorded for a call.
type Disposition string

const (
	DispositionConnected     Disposition = "connected"
	DispositionNoAnswer      Disposition = "no_answer"
	DispositionVoicemail     Disposition = "voicemail"
	DispositionWrongNumber   Disposition = "wrong_number"
	DispositionNotInterested Disposition = "not_interested"
	DispositionTransfer      Disposition = "transfer"
	DispositionClosed        Disposition = "closed"
	DispositionLost          Disposition = "lost"
)

var dispositionLabels = map[Disposition]string{
	DispositionConnected:     "Connected",
	DispositionNoAnswer:      "No Answer",
	DispositionVoicemail:     "Left Voicemail",
	DispositionWrongNumber:   "Wrong Number",
	DispositionNotInterested: "Not Interested",
	DispositionTransfer:      "Transfer to Dealer",
	DispositionClosed:        "Job Closed",
	DispositionLost:          "Job Lost",
}

// Label returns the display label of d.
func (d Disposition) Label() string {
	return dispositionLabels[d]
}

// Operation names a mutation entry point other than call dispositions.
type Operation string

const (
	OperationTransfer Operation = "transfer"
	OperationCloseJob Operation = "close_job"
	OperationMarkLost Operation = "mark_lost"
	OperationImport   Operation = "import"
	OperationSchedule Operation = "schedule"
)

var salesDispositions = []Disposition{
	DispositionConnected,
	DispositionNoAnswer,
	DispositionVoicemail,
	DispositionWrongNumber,
	DispositionNotInterested,
	DispositionTransfer,
}

// dispositionPolicy is the per-role call form. Admins work leads with the
// salesperson form.
var dispositionPolicy = map[teamdomain.Role][]Disposition{
	teamdomain.RoleSales:   salesDispositions,
	teamdomain.RoleDealers: {DispositionClosed, DispositionLost},
	teamdomain.RoleAdmin:   salesDispositions,
}

var operationPolicy = map[Operation][]teamdomain.Role{
	OperationTransfer: {teamdomain.RoleSales, teamdomain.RoleAdmin},
	OperationCloseJob: {teamdomain.RoleDealers, teamdomain.RoleAdmin},
	OperationMarkLost: {teamdomain.RoleDealers, teamdomain.RoleAdmin},
	OperationImport:   {teamdomain.RoleAdmin},
	OperationSchedule: {teamdomain.RoleSales, teamdomain.RoleDealers, teamdomain.RoleAdmin},
}

// dispositionTargets holds the status a disposition moves a lead to.
// Dispositions missing here only log the call.
var dispositionTargets = map[Disposition]Status{
	DispositionTransfer: StatusAppointment,
	DispositionClosed:   StatusClosedJob,
	DispositionLost:     StatusLostJob,
}

// dealerStatuses are the statuses a dealer can filter on.
var dealerStatuses = []Status{StatusAppointment, StatusClosedJob, StatusLostJob}

// DispositionOption is one entry of a role's call form.
type DispositionOption struct {
	Value Disposition
	Label string
}

// AllowsDisposition reports whether role may record disposition d.
func AllowsDisposition(role teamdomain.Role, d Disposition) bool {
	return slices.Contains(dispositionPolicy[role], d)
}

// Allows reports whether role may invoke op.
func Allows(role teamdomain.Role, op Operation) bool {
	return slices.Contains(operationPolicy[op], role)
}

// DispositionOptions returns the codes role may submit, in form order.
func DispositionOptions(role teamdomain.Role) []DispositionOption {
	codes := dispositionPolicy[role]
	out := make([]DispositionOption, 0, len(codes))
	for _, code := range codes {
		out = append(out, DispositionOption{Value: code, Label: code.Label()})
	}
	return out
}

// StatusOptions returns the statuses role can filter the lead list on.
func StatusOptions(role teamdomain.Role) []Status {
	if role == teamdomain.RoleDealers {
		return slices.Clone(dealerStatuses)
	}
	return slices.Clone(Statuses)
}
