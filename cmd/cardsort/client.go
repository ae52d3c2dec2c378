package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"syscall"
	"time"

	"cardsort/internal/api"
)

// apiClient talks to the daemon's HTTP API.
type apiClient struct {
	base string
	http *http.Client
}

func newAPIClient(base string) *apiClient {
	return &apiClient{
		base: strings.TrimRight(base, "/"),
		// Scans wait on the mechanical cycle, so the client timeout has to
		// outlast a full sensor timeout.
		http: &http.Client{Timeout: 2 * time.Minute},
	}
}

func (c *apiClient) Status(ctx context.Context) (*api.DaemonStatus, error) {
	var status api.DaemonStatus
	if err := c.getJSON(ctx, "/api/status", &status); err != nil {
		return nil, err
	}
	return &status, nil
}

func (c *apiClient) Scan(ctx context.Context, imageData []byte) (*api.ScanResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+"/api/scan", bytes.NewReader(imageData))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/octet-stream")

	var scan api.ScanResponse
	if err := c.doJSON(req, &scan); err != nil {
		return nil, err
	}
	return &scan, nil
}

type cardFilter struct {
	color    string
	cmc      string
	maxPrice string
}

func (c *apiClient) ListCards(ctx context.Context, filter cardFilter) ([]api.Card, error) {
	query := url.Values{}
	if filter.color != "" {
		query.Set("color", filter.color)
	}
	if filter.cmc != "" {
		query.Set("cmc", filter.cmc)
	}
	if filter.maxPrice != "" {
		query.Set("max_price", filter.maxPrice)
	}
	path := "/api/cards"
	if encoded := query.Encode(); encoded != "" {
		path += "?" + encoded
	}

	var list api.CardListResponse
	if err := c.getJSON(ctx, path, &list); err != nil {
		return nil, err
	}
	return list.Cards, nil
}

func (c *apiClient) GetCard(ctx context.Context, id int64) (*api.Card, error) {
	var resp api.CardResponse
	if err := c.getJSON(ctx, "/api/cards/"+strconv.FormatInt(id, 10), &resp); err != nil {
		return nil, err
	}
	return &resp.Card, nil
}

func (c *apiClient) DeleteCard(ctx context.Context, id int64) error {
	return c.delete(ctx, "/api/cards/"+strconv.FormatInt(id, 10))
}

func (c *apiClient) ListRules(ctx context.Context) ([]api.Rule, error) {
	var list api.RuleListResponse
	if err := c.getJSON(ctx, "/api/rules", &list); err != nil {
		return nil, err
	}
	return list.Rules, nil
}

func (c *apiClient) CreateRule(ctx context.Context, req api.CreateRuleRequest) (*api.Rule, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+"/api/rules", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	var resp api.RuleResponse
	if err := c.doJSON(httpReq, &resp); err != nil {
		return nil, err
	}
	return &resp.Rule, nil
}

func (c *apiClient) DeleteRule(ctx context.Context, id int64) error {
	return c.delete(ctx, "/api/rules/"+strconv.FormatInt(id, 10))
}

func (c *apiClient) GetCrop(ctx context.Context) (*api.Crop, error) {
	var crop api.Crop
	if err := c.getJSON(ctx, "/api/crop", &crop); err != nil {
		return nil, err
	}
	return &crop, nil
}

func (c *apiClient) SetCrop(ctx context.Context, crop api.Crop) error {
	body, err := json.Marshal(crop)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, c.base+"/api/crop", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.doJSON(req, nil)
}

func (c *apiClient) ReloadDictionary(ctx context.Context) (*api.ReloadResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+"/api/dictionary/reload", nil)
	if err != nil {
		return nil, err
	}
	var resp api.ReloadResponse
	if err := c.doJSON(req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ExportCSV streams the catalog export to w.
func (c *apiClient) ExportCSV(ctx context.Context, w io.Writer) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+"/api/export/csv", nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return wrapDialError(err, c.base)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return decodeError(resp)
	}
	_, err = io.Copy(w, resp.Body)
	return err
}

func (c *apiClient) getJSON(ctx context.Context, path string, into any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+path, nil)
	if err != nil {
		return err
	}
	return c.doJSON(req, into)
}

func (c *apiClient) delete(ctx context.Context, path string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.base+path, nil)
	if err != nil {
		return err
	}
	return c.doJSON(req, nil)
}

func (c *apiClient) doJSON(req *http.Request, into any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return wrapDialError(err, c.base)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp)
	}
	if into == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(into); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func decodeError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	var payload struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && payload.Error != "" {
		return fmt.Errorf("daemon: %s (status %d)", payload.Error, resp.StatusCode)
	}
	return fmt.Errorf("daemon returned status %d", resp.StatusCode)
}

func wrapDialError(err error, base string) error {
	if errors.Is(err, syscall.ECONNREFUSED) {
		return fmt.Errorf("connect to daemon at %s: connection refused; start the daemon with `cardsortd`", base)
	}
	return fmt.Errorf("connect to daemon at %s: %w", base, err)
}
