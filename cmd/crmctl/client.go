package main

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	authtransport "roofing_crm_backend/internal/auth/transport"
	leadtransport "roofing_crm_backend/internal/leads/transport"
	"roofing_crm_backend/internal/maps"
	"roofing_crm_backend/platform/httpkit"
)

const apiPrefix = "/api/v1"

// apiClient talks to a running API server on behalf of one member.
type apiClient struct {
	baseURL string
	http    *http.Client
	token   string
}

func newAPIClient(baseURL string) *apiClient {
	return &apiClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *apiClient) login(ctx context.Context, username, password string) (authtransport.AuthResponse, error) {
	var resp authtransport.AuthResponse
	err := c.do(ctx, http.MethodPost, "/auth/login", authtransport.LoginRequest{Username: username, Password: password}, &resp)
	if err != nil {
		return authtransport.AuthResponse{}, err
	}
	c.token = resp.AccessToken
	return resp, nil
}

func (c *apiClient) importLeads(ctx context.Context, req leadtransport.ImportRequest) (leadtransport.ImportResponse, error) {
	var resp leadtransport.ImportResponse
	err := c.do(ctx, http.MethodPost, "/leads/import", req, &resp)
	return resp, err
}

func (c *apiClient) previewImport(ctx context.Context, req leadtransport.ImportRequest) (leadtransport.ImportPreviewResponse, error) {
	var resp leadtransport.ImportPreviewResponse
	err := c.do(ctx, http.MethodPost, "/leads/import/preview", req, &resp)
	return resp, err
}

func (c *apiClient) mapEmbed(ctx context.Context, address string) (maps.EmbedResponse, error) {
	var resp maps.EmbedResponse
	err := c.do(ctx, http.MethodGet, "/maps/embed?q="+url.QueryEscape(address), nil, &resp)
	return resp, err
}

func (c *apiClient) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+apiPrefix+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	res, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = res.Body.Close() }()

	if res.StatusCode >= http.StatusBadRequest {
		var apiErr httpkit.ErrorResponse
		if err := json.NewDecoder(res.Body).Decode(&apiErr); err != nil || apiErr.Error == "" {
			return fmt.Errorf("%s %s: %s", method, path, res.Status)
		}
		return fmt.Errorf("%s %s: %s (%d)", method, path, apiErr.Error, res.StatusCode)
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(res.Body).Decode(out)
}

// readSheet turns a CSV export into the header row plus data rows the
// import endpoint expects. Short rows are padded to the header width.
func readSheet(r io.Reader) ([]string, [][]string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("read csv: %w", err)
	}
	if len(records) == 0 {
		return nil, nil, errors.New("csv file is empty")
	}

	headers := records[0]
	if len(headers) > 0 {
		headers[0] = strings.TrimPrefix(headers[0], "\ufeff")
	}
	rows := make([][]string, 0, len(records)-1)
	for _, rec := range records[1:] {
		for len(rec) < len(headers) {
			rec = append(rec, "")
		}
		rows = append(rows, rec)
	}
	if len(rows) == 0 {
		return nil, nil, errors.New("csv file has no data rows")
	}
	return headers, rows, nil
}
