// Package gemini wraps the Google Gen AI SDK for the two call shapes the
// application needs: a single completed string and an ordered fragment stream.
// This is part of the platform layer and contains no business logic.
package gemini

import (
	"context"
	"errors"
	"iter"
	"net/url"
	"strings"

	"google.golang.org/genai"
)

// ErrNotConfigured is returned when no API key was supplied.
var ErrNotConfigured = errors.New("gemini api key not configured")

// Client is a thin wrapper around genai.Client.
type Client struct {
	client *genai.Client
}

// New creates a client for the Gemini Developer API. An empty apiKey
// yields a nil client and ErrNotConfigured.
func New(ctx context.Context, apiKey string) (*Client, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, ErrNotConfigured
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, err
	}
	return &Client{client: client}, nil
}

// Generate returns the complete text response for prompt.
func (c *Client) Generate(ctx context.Context, model, prompt string) (string, error) {
	if c == nil || c.client == nil {
		return "", ErrNotConfigured
	}

	resp, err := c.client.Models.GenerateContent(ctx, model, genai.Text(prompt), nil)
	if err != nil {
		return "", err
	}
	return resp.Text(), nil
}

// Stream yields text fragments in arrival order. Breaking out of the range
// loop or cancelling ctx stops the underlying request.
func (c *Client) Stream(ctx context.Context, model, prompt string) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		if c == nil || c.client == nil {
			yield("", ErrNotConfigured)
			return
		}

		for resp, err := range c.client.Models.GenerateContentStream(ctx, model, genai.Text(prompt), nil) {
			if err != nil {
				yield("", err)
				return
			}
			text := resp.Text()
			if text == "" {
				continue
			}
			if !yield(text, nil) {
				return
			}
		}
	}
}

// ResolvePlaceID asks the model, grounded on Google Maps, for the place at
// address and returns its place id. An empty id with a nil error means the
// grounding produced no place.
func (c *Client) ResolvePlaceID(ctx context.Context, model, address string) (string, error) {
	if c == nil || c.client == nil {
		return "", ErrNotConfigured
	}

	config := &genai.GenerateContentConfig{
		Tools: []*genai.Tool{{GoogleMaps: &genai.GoogleMaps{}}},
	}
	prompt := "Find the precise location and place ID for this address: " + address

	resp, err := c.client.Models.GenerateContent(ctx, model, genai.Text(prompt), config)
	if err != nil {
		return "", err
	}

	for _, candidate := range resp.Candidates {
		if candidate == nil || candidate.GroundingMetadata == nil {
			continue
		}
		for _, chunk := range candidate.GroundingMetadata.GroundingChunks {
			if chunk == nil || chunk.Maps == nil {
				continue
			}
			if id := PlaceIDFromURI(chunk.Maps.URI); id != "" {
				return id, nil
			}
		}
	}
	return "", nil
}

// PlaceIDFromURI extracts the query_place_id parameter of a Maps URI.
func PlaceIDFromURI(uri string) string {
	if uri == "" {
		return ""
	}
	parsed, err := url.Parse(uri)
	if err != nil {
		return ""
	}
	return parsed.Query().Get("query_place_id")
}
