package pocketbase

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"
)

// ErrNotFound is returned when a filtered lookup matches no records.
var ErrNotFound = errors.New("pocketbase: record not found")

// Record mirrors one document in the tickets collection.
type Record struct {
	ID        string `json:"id,omitempty"`
	NumBoleto int    `json:"num__boleto,omitempty"`
	Nombre    string `json:"nombre"`
	Telefono  string `json:"telefono"`
	Vendido   bool   `json:"vendido"`
	Fecha     string `json:"fecha,omitempty"`
}

// Client defines the interface for interacting with the PocketBase records API
type Client interface {
	ListClaimed(ctx context.Context) ([]Record, error)
	FirstByNumber(ctx context.Context, number int) (*Record, error)
	Create(ctx context.Context, rec Record) (*Record, error)
	Update(ctx context.Context, id string, rec Record) error
	Delete(ctx context.Context, id string) error
}

type clientImpl struct {
	baseURL    string
	collection string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a new PocketBase client for one collection
func NewClient(baseURL, collection string, logger *slog.Logger) Client {
	return &clientImpl{
		baseURL:    baseURL,
		collection: collection,
		httpClient: &http.Client{Timeout: 15 * time.Second},
		logger:     logger,
	}
}

func (c *clientImpl) recordsURL() string {
	return fmt.Sprintf("%s/api/collections/%s/records", c.baseURL, url.PathEscape(c.collection))
}

// ListClaimed fetches every sold ticket, sorted by number, with only the
// fields the grid needs.
func (c *clientImpl) ListClaimed(ctx context.Context) ([]Record, error) {
	query := url.Values{}
	query.Set("page", "1")
	query.Set("perPage", "500")
	query.Set("filter", "vendido=true")
	query.Set("sort", "num__boleto")
	query.Set("fields", "id,num__boleto,nombre,telefono")

	body, err := c.do(ctx, http.MethodGet, c.recordsURL()+"?"+query.Encode(), nil)
	if err != nil {
		return nil, err
	}

	var response struct {
		Items []Record `json:"items"`
	}
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("error parsing response: %w", err)
	}

	c.logger.Debug("fetched claimed tickets", "count", len(response.Items))
	return response.Items, nil
}

// FirstByNumber returns the existing record for a ticket number, or
// ErrNotFound when the number has no claim yet.
func (c *clientImpl) FirstByNumber(ctx context.Context, number int) (*Record, error) {
	query := url.Values{}
	query.Set("page", "1")
	query.Set("perPage", "1")
	query.Set("filter", fmt.Sprintf("num__boleto=%d", number))
	query.Set("fields", "id")

	body, err := c.do(ctx, http.MethodGet, c.recordsURL()+"?"+query.Encode(), nil)
	if err != nil {
		return nil, err
	}

	var response struct {
		Items []Record `json:"items"`
	}
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("error parsing response: %w", err)
	}

	if len(response.Items) == 0 {
		return nil, ErrNotFound
	}
	return &response.Items[0], nil
}

// Create inserts a new ticket record and returns it with the assigned ID.
func (c *clientImpl) Create(ctx context.Context, rec Record) (*Record, error) {
	payload, err := json.Marshal(rec)
	if err != nil {
		return nil, fmt.Errorf("error creating payload: %w", err)
	}

	body, err := c.do(ctx, http.MethodPost, c.recordsURL(), bytes.NewBuffer(payload))
	if err != nil {
		return nil, err
	}

	var created Record
	if err := json.Unmarshal(body, &created); err != nil {
		return nil, fmt.Errorf("error parsing response: %w", err)
	}

	c.logger.Debug("created ticket record", "id", created.ID, "number", created.NumBoleto)
	return &created, nil
}

// Update overwrites claimant fields of an existing record by ID.
func (c *clientImpl) Update(ctx context.Context, id string, rec Record) error {
	payload, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("error creating payload: %w", err)
	}

	endpoint := c.recordsURL() + "/" + url.PathEscape(id)
	if _, err := c.do(ctx, http.MethodPatch, endpoint, bytes.NewBuffer(payload)); err != nil {
		return err
	}

	c.logger.Debug("updated ticket record", "id", id)
	return nil
}

// Delete removes a record by ID.
func (c *clientImpl) Delete(ctx context.Context, id string) error {
	endpoint := c.recordsURL() + "/" + url.PathEscape(id)
	if _, err := c.do(ctx, http.MethodDelete, endpoint, nil); err != nil {
		return err
	}

	c.logger.Debug("deleted ticket record", "id", id)
	return nil
}

func (c *clientImpl) do(ctx context.Context, method, endpoint string, payload io.Reader) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, endpoint, payload)
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}
	if payload != nil {
		req.Header.Add("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error calling PocketBase: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("error reading response: %w", err)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, fmt.Errorf("error from PocketBase API: %s", string(body))
	}

	return body, nil
}
