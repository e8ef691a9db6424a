package maps

import (
	"context"

	"roofing_crm_backend/internal/leads/domain"
	teamdomain "roofing_crm_backend/internal/team/domain"
)

// EmbedRequest represents the query parameters from the frontend.
type EmbedRequest struct {
	Query string `form:"q" binding:"required,min=3"`
}

// EmbedResponse carries the iframe source for a satellite map.
type EmbedResponse struct {
	Address  string `json:"address"`
	EmbedURI string `json:"embedUri"`
	PlaceID  string `json:"placeId,omitempty"`
}

// PlaceResolver finds a Google Maps place id for a free-form address.
// An empty id with a nil error means no place was found.
type PlaceResolver interface {
	ResolvePlaceID(ctx context.Context, model, address string) (string, error)
}

// LeadLookup resolves a lead the actor is allowed to see.
type LeadLookup interface {
	VisibleLead(ctx context.Context, actor teamdomain.User, id int64) (domain.Lead, error)
}
