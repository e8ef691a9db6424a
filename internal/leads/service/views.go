package service

import (
	"context"
	"time"

	"roofing_crm_backend/internal/leads/transport"
	"roofing_crm_backend/internal/leads/views"
	teamdomain "roofing_crm_backend/internal/team/domain"
	"roofing_crm_backend/platform/apperr"
)

// List returns the grouped, filtered lead list for actor.
func (s *Service) List(ctx context.Context, actor teamdomain.User, q transport.ListQuery) transport.LeadsPageResponse {
	snap := s.repo.Snapshot(ctx)
	page := views.BuildLeadsPage(snap.Leads, actor, views.Filter{
		Status:    q.Status,
		Search:    q.Search,
		DateAdded: q.DateAdded,
		RoofFlag:  views.RoofFlag(q.RoofFlag),
		HomeType:  q.HomeType,
	})
	return transport.ToLeadsPageResponse(page)
}

// Get returns one visible lead.
func (s *Service) Get(ctx context.Context, actor teamdomain.User, id int64) (transport.LeadResponse, error) {
	lead, err := s.VisibleLead(ctx, actor, id)
	if err != nil {
		return transport.LeadResponse{}, err
	}
	return transport.ToLeadResponse(lead), nil
}

// Photos resolves the stored job photos of a visible lead to displayable URLs.
func (s *Service) Photos(ctx context.Context, actor teamdomain.User, id int64) (transport.PhotosResponse, error) {
	lead, err := s.VisibleLead(ctx, actor, id)
	if err != nil {
		return transport.PhotosResponse{}, err
	}

	urls := make([]string, 0, len(lead.JobPhotos))
	for _, ref := range lead.JobPhotos {
		url, err := s.photos.URL(ctx, ref)
		if err != nil {
			s.log.ExternalCallFailed("photo-store", "url", err)
			return transport.PhotosResponse{}, apperr.External("failed to load job photos", err)
		}
		urls = append(urls, url)
	}
	return transport.PhotosResponse{Photos: urls}, nil
}

// Dashboard returns the role-specific overview. Range and salesperson
// narrowing apply to admins only.
func (s *Service) Dashboard(ctx context.Context, actor teamdomain.User, q transport.RangeQuery) transport.DashboardResponse {
	snap := s.repo.Snapshot(ctx)
	d := views.BuildDashboard(snap.Leads, s.team.All(), actor, views.AdminFilter{
		Range:         views.DateRange{Start: q.StartDate, End: q.EndDate},
		SalesMemberID: q.SalesMemberID,
	})
	return transport.ToDashboardResponse(d)
}

// Analytics aggregates the actor's visible leads within the date range.
func (s *Service) Analytics(ctx context.Context, actor teamdomain.User, q transport.RangeQuery) transport.AnalyticsResponse {
	snap := s.repo.Snapshot(ctx)
	a := views.BuildAnalytics(snap.Leads, s.team.Partitions(), actor, views.DateRange{Start: q.StartDate, End: q.EndDate})
	return transport.ToAnalyticsResponse(a)
}

// Calendar renders the month grid of the actor's communications. A zero
// year or month falls back to the current one.
func (s *Service) Calendar(ctx context.Context, actor teamdomain.User, q transport.CalendarQuery) transport.CalendarResponse {
	now := s.now().In(s.loc)
	year, month := q.Year, time.Month(q.Month)
	if year == 0 {
		year = now.Year()
	}
	if month == 0 {
		month = now.Month()
	}

	snap := s.repo.Snapshot(ctx)
	cal := views.BuildCalendar(snap.Leads, snap.Events, actor, year, month, now.Format(dateLayout))
	return transport.ToCalendarResponse(cal)
}
