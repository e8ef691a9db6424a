package maps

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"time"

	"roofing_crm_backend/platform/ai/gemini"
	"roofing_crm_backend/platform/apperr"
	"roofing_crm_backend/platform/logger"

	"golang.org/x/sync/singleflight"
)

const embedBaseURL = "https://www.google.com/maps/embed/v1/place"

// lookupTimeout bounds a shared place lookup independently of its callers.
const lookupTimeout = 30 * time.Second

const (
	msgGeminiNotConfigured = "Gemini API key not configured. Maps lookups need GEMINI_API_KEY."
	msgMapsNotConfigured   = "Google Maps API key not configured. Maps lookups need MAPS_API_KEY."
	msgLookupFailed        = "Failed to generate map. The Gemini API call failed."
)

type Service struct {
	places     PlaceResolver
	aiEnabled  bool
	mapsAPIKey string
	model      string
	group      singleflight.Group
	log        *logger.Logger
}

func NewService(places PlaceResolver, aiEnabled bool, mapsAPIKey, model string, log *logger.Logger) *Service {
	return &Service{
		places:     places,
		aiEnabled:  aiEnabled,
		mapsAPIKey: strings.TrimSpace(mapsAPIKey),
		model:      model,
		log:        log,
	}
}

// EmbedURI returns a satellite embed URL for address. The place id found by
// maps grounding is preferred; without one the address itself is the query.
// Concurrent lookups for the same address share one upstream call.
func (s *Service) EmbedURI(ctx context.Context, address string) (EmbedResponse, error) {
	address = strings.TrimSpace(address)
	if address == "" {
		return EmbedResponse{}, apperr.Validation("address is required")
	}
	if !s.aiEnabled {
		return EmbedResponse{}, apperr.External(msgGeminiNotConfigured, gemini.ErrNotConfigured)
	}
	if s.mapsAPIKey == "" {
		return EmbedResponse{}, apperr.External(msgMapsNotConfigured, nil)
	}

	ch := s.group.DoChan(address, func() (interface{}, error) {
		callCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), lookupTimeout)
		defer cancel()
		return s.places.ResolvePlaceID(callCtx, s.model, address)
	})

	var res singleflight.Result
	select {
	case <-ctx.Done():
		return EmbedResponse{}, apperr.External(msgLookupFailed, ctx.Err())
	case res = <-ch:
	}
	if res.Err != nil {
		if errors.Is(res.Err, gemini.ErrNotConfigured) {
			return EmbedResponse{}, apperr.External(msgGeminiNotConfigured, res.Err)
		}
		s.log.ExternalCallFailed("gemini", "resolve_place", res.Err)
		return EmbedResponse{}, apperr.External(msgLookupFailed, res.Err)
	}

	placeID := res.Val.(string)
	if placeID == "" {
		s.log.WithContext(ctx).Warn("no place id from grounding, falling back to address query", "address", address)
	}
	return EmbedResponse{
		Address:  address,
		EmbedURI: BuildEmbedURI(s.mapsAPIKey, placeID, address),
		PlaceID:  placeID,
	}, nil
}

// BuildEmbedURI formats the embed URL for a place id, or for the address
// when placeID is empty.
func BuildEmbedURI(apiKey, placeID, address string) string {
	q := address
	if placeID != "" {
		q = "place_id:" + placeID
	}
	params := url.Values{
		"key":     {apiKey},
		"q":       {q},
		"maptype": {"satellite"},
	}
	return embedBaseURL + "?" + params.Encode()
}
