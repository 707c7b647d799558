package journal

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/sirupsen/logrus"
)

// Client performs journal-entry CRUD against the backend's /api/journal
// endpoints. Entries belong to the user id recorded on them; the backend is
// the state of record and list order is returned as-is.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a journal client for the given backend base URL.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// List fetches all entries owned by userID in backend order.
func (c *Client) List(ctx context.Context, userID string) ([]Entry, error) {
	if userID == "" {
		return nil, fmt.Errorf("user id is required")
	}

	var entries []Entry
	path := "/api/journal/user/" + url.PathEscape(userID)
	if err := c.do(ctx, http.MethodGet, path, nil, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// Create submits a new entry and returns it with the server-assigned id.
func (c *Client) Create(ctx context.Context, e Entry) (Entry, error) {
	var created Entry
	if err := c.do(ctx, http.MethodPost, "/api/journal", &e, &created); err != nil {
		return Entry{}, err
	}
	return created, nil
}

// Update replaces the entry with the given id and returns the updated record.
func (c *Client) Update(ctx context.Context, id int64, e Entry) (Entry, error) {
	var updated Entry
	path := fmt.Sprintf("/api/journal/%d", id)
	if err := c.do(ctx, http.MethodPut, path, &e, &updated); err != nil {
		return Entry{}, err
	}
	return updated, nil
}

// Delete removes the entry with the given id. The caller is responsible for
// dropping it from any locally cached list.
func (c *Client) Delete(ctx context.Context, id int64) error {
	path := fmt.Sprintf("/api/journal/%d", id)
	return c.do(ctx, http.MethodDelete, path, nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	requestID := ulid.Make().String()
	req.Header.Set("X-Request-ID", requestID)

	logrus.WithFields(logrus.Fields{
		"method":     method,
		"path":       path,
		"request_id": requestID,
	}).Debug("journal: request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		b, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("API error (status %d): %s", resp.StatusCode, string(b))
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}
