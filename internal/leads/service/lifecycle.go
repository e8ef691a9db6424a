package service

import (
	"context"

	"roofing_crm_backend/internal/events"
	"roofing_crm_backend/internal/leads/domain"
	"roofing_crm_backend/internal/leads/importer"
	"roofing_crm_backend/internal/leads/transport"
	teamdomain "roofing_crm_backend/internal/team/domain"
	"roofing_crm_backend/platform/apperr"
	"roofing_crm_backend/platform/sanitize"
)

// DispositionOptions lists the call outcomes available to actor.
func (s *Service) DispositionOptions(actor teamdomain.User) []transport.DispositionOptionResponse {
	options := domain.DispositionOptions(actor.Role)
	out := make([]transport.DispositionOptionResponse, 0, len(options))
	for _, o := range options {
		out = append(out, transport.DispositionOptionResponse{Value: string(o.Value), Label: o.Label})
	}
	return out
}

// PreviewImport shows the detected (or given) column mappings and the leads
// the rows fold into, without importing anything.
func (s *Service) PreviewImport(ctx context.Context, actor teamdomain.User, req transport.ImportRequest) (transport.ImportPreviewResponse, error) {
	if !domain.Allows(actor.Role, domain.OperationImport) {
		return transport.ImportPreviewResponse{}, apperr.Forbidden("only admins can import leads")
	}

	mappings := resolveMappings(req)
	rows, err := importer.Fold(req.Headers, req.Rows, mappings)
	if err != nil {
		return transport.ImportPreviewResponse{}, apperr.Validation(err.Error())
	}

	fields := make([]transport.ImportFieldResponse, 0, len(importer.Fields))
	for _, f := range importer.Fields {
		fields = append(fields, transport.ImportFieldResponse{Key: f.Key, Label: f.Label, Header: mappings[f.Key]})
	}
	leads := make([]transport.FieldsPayload, 0, len(rows))
	for _, row := range rows {
		leads = append(leads, transport.ToFieldsPayload(row))
	}
	return transport.ImportPreviewResponse{Fields: fields, Leads: leads}, nil
}

// Import folds the spreadsheet rows into new leads assigned to the chosen
// salesperson, or to nobody when AssignedToID is 0.
func (s *Service) Import(ctx context.Context, actor teamdomain.User, req transport.ImportRequest) (transport.ImportResponse, error) {
	if !domain.Allows(actor.Role, domain.OperationImport) {
		return transport.ImportResponse{}, apperr.Forbidden("only admins can import leads")
	}

	rows, err := importer.Fold(req.Headers, req.Rows, resolveMappings(req))
	if err != nil {
		return transport.ImportResponse{}, apperr.Validation(err.Error())
	}
	if len(rows) == 0 {
		return transport.ImportResponse{}, apperr.Validation("no rows to import")
	}

	assignee := UnassignedName
	if req.AssignedToID != 0 {
		member, err := s.team.FindInPartition(req.AssignedToID, teamdomain.RoleSales)
		if err != nil {
			return transport.ImportResponse{}, apperr.NotFound("salesperson not found")
		}
		assignee = member.FullName()
	}

	created, err := s.repo.Import(ctx, rows, assignee, s.today())
	if err != nil {
		return transport.ImportResponse{}, err
	}

	ids := make([]int64, 0, len(created))
	for _, lead := range created {
		ids = append(ids, lead.ID)
	}
	s.log.WithContext(ctx).Info("leads imported", "count", len(created), "assignedTo", assignee)
	s.eventBus.Publish(ctx, events.LeadsImported{
		BaseEvent:  events.NewBaseEvent(),
		LeadIDs:    ids,
		AssignedTo: assignee,
		ImportedBy: actor.FullName(),
	})

	return transport.ImportResponse{
		Imported:   len(created),
		AssignedTo: assignee,
		Leads:      transport.ToLeadResponses(created),
	}, nil
}

func resolveMappings(req transport.ImportRequest) importer.Mappings {
	if len(req.Mappings) == 0 {
		return importer.DetectMappings(req.Headers)
	}
	return importer.Mappings(req.Mappings)
}

// RecordCallOutcome logs a call and applies the disposition's transition.
// A transfer commits the reassignment and its appointment event together.
func (s *Service) RecordCallOutcome(ctx context.Context, actor teamdomain.User, leadID int64, req transport.RecordCallRequest) (transport.LifecycleResponse, error) {
	disposition := domain.Disposition(req.Disposition)
	if !domain.AllowsDisposition(actor.Role, disposition) {
		return transport.LifecycleResponse{}, apperr.Forbidden("this call outcome is not available to your role")
	}

	call := domain.CallOutcome{
		Disposition: disposition,
		Notes:       sanitize.Text(req.Notes),
		Revenue:     req.Revenue,
	}

	var dealer teamdomain.Member
	if disposition == domain.DispositionTransfer {
		if req.Transfer == nil {
			return transport.LifecycleResponse{}, apperr.Validation("dealer, date and time are required to transfer a lead")
		}
		found, err := s.findDealer(req.Transfer.DealerID)
		if err != nil {
			return transport.LifecycleResponse{}, err
		}
		dealer = found
		call.Appointment = &domain.Appointment{
			DealerName: dealer.FullName(),
			Date:       req.Transfer.Date,
			Time:       req.Transfer.Time,
		}
	}

	var previous domain.Lead
	today := s.today()
	lead, event, err := s.repo.Mutate(ctx, leadID, visibleTo(actor, func(current domain.Lead) (domain.Result, error) {
		previous = current
		return domain.ApplyCallOutcome(current, actor, call, today)
	}))
	if err != nil {
		return transport.LifecycleResponse{}, mapRepoError(err)
	}

	s.log.LeadEvent("call_outcome", lead.ID, actor.FullName(), string(lead.Status))
	s.eventBus.Publish(ctx, events.CallOutcomeRecorded{
		BaseEvent:      events.NewBaseEvent(),
		LeadID:         lead.ID,
		Disposition:    string(disposition),
		Actor:          actor.FullName(),
		ActorRole:      string(actor.Role),
		PreviousStatus: string(previous.Status),
		Status:         string(lead.Status),
	})

	switch disposition {
	case domain.DispositionTransfer:
		s.publishTransfer(ctx, actor, dealer, lead, event)
	case domain.DispositionClosed:
		s.publishJobClosed(ctx, actor, previous, lead, 0)
	case domain.DispositionLost:
		s.publishJobLost(ctx, actor, lead)
	}

	return lifecycleResponse(lead, event), nil
}

// Transfer hands a lead to a dealer outside a call. It shares the
// transition with the transfer disposition.
func (s *Service) Transfer(ctx context.Context, actor teamdomain.User, leadID int64, req transport.TransferRequest) (transport.LifecycleResponse, error) {
	if !domain.Allows(actor.Role, domain.OperationTransfer) {
		return transport.LifecycleResponse{}, apperr.Forbidden("only salespeople and admins can transfer leads")
	}

	dealer, err := s.findDealer(req.DealerID)
	if err != nil {
		return transport.LifecycleResponse{}, err
	}
	appt := domain.Appointment{DealerName: dealer.FullName(), Date: req.Date, Time: req.Time}

	lead, event, err := s.repo.Mutate(ctx, leadID, visibleTo(actor, func(current domain.Lead) (domain.Result, error) {
		return domain.ApplyTransfer(current, appt, domain.DirectTransferNotes(appt.DealerName))
	}))
	if err != nil {
		return transport.LifecycleResponse{}, mapRepoError(err)
	}

	s.log.LeadEvent("transfer", lead.ID, actor.FullName(), string(lead.Status))
	s.publishTransfer(ctx, actor, dealer, lead, event)
	return lifecycleResponse(lead, event), nil
}

// CloseJob closes a job with revenue and photos. Photos are stored before
// the lead changes and removed again when the change is rejected.
func (s *Service) CloseJob(ctx context.Context, actor teamdomain.User, leadID int64, req transport.CloseJobRequest) (transport.LifecycleResponse, error) {
	if !domain.Allows(actor.Role, domain.OperationCloseJob) {
		return transport.LifecycleResponse{}, apperr.Forbidden("only dealers can close jobs")
	}
	if _, err := s.VisibleLead(ctx, actor, leadID); err != nil {
		return transport.LifecycleResponse{}, err
	}

	refs, err := s.storePhotos(ctx, leadID, req.Photos)
	if err != nil {
		return transport.LifecycleResponse{}, err
	}

	var previous domain.Lead
	lead, _, err := s.repo.Mutate(ctx, leadID, visibleTo(actor, func(current domain.Lead) (domain.Result, error) {
		previous = current
		next, err := domain.ApplyCloseJob(current, req.Revenue, refs)
		return domain.Result{Lead: next}, err
	}))
	if err != nil {
		s.discardPhotos(ctx, refs)
		return transport.LifecycleResponse{}, mapRepoError(err)
	}

	s.log.LeadEvent("close_job", lead.ID, actor.FullName(), string(lead.Status))
	s.publishJobClosed(ctx, actor, previous, lead, len(refs))
	return lifecycleResponse(lead, nil), nil
}

// MarkLost moves a job to lost job.
func (s *Service) MarkLost(ctx context.Context, actor teamdomain.User, leadID int64) (transport.LifecycleResponse, error) {
	if !domain.Allows(actor.Role, domain.OperationMarkLost) {
		return transport.LifecycleResponse{}, apperr.Forbidden("only dealers can mark jobs as lost")
	}

	lead, _, err := s.repo.Mutate(ctx, leadID, visibleTo(actor, func(current domain.Lead) (domain.Result, error) {
		return domain.Result{Lead: domain.ApplyMarkLost(current)}, nil
	}))
	if err != nil {
		return transport.LifecycleResponse{}, mapRepoError(err)
	}

	s.log.LeadEvent("mark_lost", lead.ID, actor.FullName(), string(lead.Status))
	s.publishJobLost(ctx, actor, lead)
	return lifecycleResponse(lead, nil), nil
}

// ScheduleEvent adds a call, SMS, voicemail or appointment to the calendar
// for a lead the actor can see.
func (s *Service) ScheduleEvent(ctx context.Context, actor teamdomain.User, req transport.ScheduleEventRequest) (transport.EventResponse, error) {
	if !domain.Allows(actor.Role, domain.OperationSchedule) {
		return transport.EventResponse{}, apperr.Forbidden("scheduling is not available to your role")
	}
	kind := domain.CommunicationType(req.Type)
	if !kind.Valid() {
		return transport.EventResponse{}, apperr.Validation("invalid communication type")
	}

	lead, err := s.VisibleLead(ctx, actor, req.LeadID)
	if err != nil {
		return transport.EventResponse{}, err
	}

	event, err := s.repo.AppendEvent(ctx, domain.CommunicationEvent{
		LeadID: req.LeadID,
		Type:   kind,
		Date:   req.Date,
		Time:   req.Time,
		Notes:  sanitize.Text(req.Notes),
	})
	if err != nil {
		return transport.EventResponse{}, mapRepoError(err)
	}

	s.log.WithContext(ctx).Info("communication scheduled", "eventId", event.ID, "leadId", event.LeadID, "type", event.Type, "date", event.Date)
	s.publishScheduled(ctx, lead, event)

	resp := transport.ToEventResponse(event)
	resp.AgentName = lead.AgentName
	return resp, nil
}

func (s *Service) storePhotos(ctx context.Context, leadID int64, photos []string) ([]string, error) {
	refs := make([]string, 0, len(photos))
	for _, photo := range photos {
		ref, err := s.photos.Save(ctx, leadID, photo)
		if err != nil {
			s.discardPhotos(ctx, refs)
			if apperr.GetKind(err) != apperr.KindUnknown {
				return nil, err
			}
			s.log.ExternalCallFailed("photo-store", "save", err)
			return nil, apperr.External("failed to store job photo", err)
		}
		refs = append(refs, ref)
	}
	return refs, nil
}

func (s *Service) discardPhotos(ctx context.Context, refs []string) {
	for _, ref := range refs {
		if err := s.photos.Delete(ctx, ref); err != nil {
			s.log.ExternalCallFailed("photo-store", "delete", err)
		}
	}
}

func (s *Service) publishTransfer(ctx context.Context, actor teamdomain.User, dealer teamdomain.Member, lead domain.Lead, event *domain.CommunicationEvent) {
	if event == nil {
		return
	}
	s.eventBus.Publish(ctx, events.LeadTransferred{
		BaseEvent:            events.NewBaseEvent(),
		LeadID:               lead.ID,
		CommunicationEventID: event.ID,
		DealerID:             dealer.ID,
		DealerName:           dealer.FullName(),
		DealerEmail:          dealer.Email,
		TransferredBy:        actor.FullName(),
		Address:              lead.FullAddress(),
		AgentName:            lead.AgentName,
		AgentPhone:           lead.AgentPhone,
		Date:                 event.Date,
		Time:                 event.Time,
		Notes:                event.Notes,
	})
	s.publishScheduled(ctx, lead, *event)
}

func (s *Service) publishScheduled(ctx context.Context, lead domain.Lead, event domain.CommunicationEvent) {
	s.eventBus.Publish(ctx, events.CommunicationScheduled{
		BaseEvent:            events.NewBaseEvent(),
		CommunicationEventID: event.ID,
		LeadID:               event.LeadID,
		Type:                 string(event.Type),
		Date:                 event.Date,
		Time:                 event.Time,
		Notes:                event.Notes,
		AssignedTo:           lead.AssignedTo,
		Address:              lead.FullAddress(),
		AgentName:            lead.AgentName,
		AgentPhone:           lead.AgentPhone,
	})
}

func (s *Service) publishJobClosed(ctx context.Context, actor teamdomain.User, previous, lead domain.Lead, photoCount int) {
	s.eventBus.Publish(ctx, events.JobClosed{
		BaseEvent:  events.NewBaseEvent(),
		LeadID:     lead.ID,
		ClosedBy:   actor.FullName(),
		AssignedTo: lead.AssignedTo,
		Revenue:    lead.Revenue(),
		PhotoCount: photoCount,
		Reclosed:   previous.Status == domain.StatusClosedJob,
	})
}

func (s *Service) publishJobLost(ctx context.Context, actor teamdomain.User, lead domain.Lead) {
	s.eventBus.Publish(ctx, events.JobLost{
		BaseEvent: events.NewBaseEvent(),
		LeadID:    lead.ID,
		MarkedBy:  actor.FullName(),
	})
}

func lifecycleResponse(lead domain.Lead, event *domain.CommunicationEvent) transport.LifecycleResponse {
	resp := transport.LifecycleResponse{Lead: transport.ToLeadResponse(lead)}
	if event != nil {
		e := transport.ToEventResponse(*event)
		e.AgentName = lead.AgentName
		resp.Event = &e
	}
	return resp
}
