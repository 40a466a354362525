package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/verte-zerg/evtrack/internal/model"
)

// DefaultTable is the hosted table name used by the remote gateway.
const DefaultTable = "events"

const remoteTimeout = 30 * time.Second

// ErrMissingCredentials is returned when the remote store is not configured.
var ErrMissingCredentials = errors.New("supabase url and key are required")

// Remote talks to a Supabase/PostgREST table over HTTP.
type Remote struct {
	baseURL string
	key     string
	table   string
	client  *http.Client
}

var _ Gateway = (*Remote)(nil)

// NewRemote returns a gateway for the table at baseURL. A nil client uses a
// client with a 30s timeout.
func NewRemote(baseURL, key, table string, client *http.Client) (*Remote, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	key = strings.TrimSpace(key)
	if baseURL == "" || key == "" {
		return nil, ErrMissingCredentials
	}
	if _, err := url.Parse(baseURL); err != nil {
		return nil, fmt.Errorf("invalid supabase url: %w", err)
	}
	if table == "" {
		table = DefaultTable
	}
	if client == nil {
		client = &http.Client{Timeout: remoteTimeout}
	}
	return &Remote{baseURL: baseURL, key: key, table: table, client: client}, nil
}

func (r *Remote) endpoint() string {
	return r.baseURL + "/rest/v1/" + url.PathEscape(r.table)
}

func (r *Remote) newRequest(ctx context.Context, method, target string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("apikey", r.key)
	req.Header.Set("Authorization", "Bearer "+r.key)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req, nil
}

// FetchAllEvents selects every row of the table.
func (r *Remote) FetchAllEvents(ctx context.Context) ([]model.RawEvent, error) {
	req, err := r.newRequest(ctx, http.MethodGet, r.endpoint()+"?select=*", nil)
	if err != nil {
		return nil, fmt.Errorf("fetch events: %w", err)
	}
	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch events: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if err := checkStatus(resp); err != nil {
		return nil, fmt.Errorf("fetch events: %w", err)
	}
	var events []model.RawEvent
	if err := json.NewDecoder(resp.Body).Decode(&events); err != nil {
		return nil, fmt.Errorf("decode events: %w", err)
	}
	return events, nil
}

// InsertEvent posts a single row.
func (r *Remote) InsertEvent(ctx context.Context, ev model.RawEvent) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}
	req, err := r.newRequest(ctx, http.MethodPost, r.endpoint(), bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("insert event: %w", err)
	}
	req.Header.Set("Prefer", "return=minimal")
	resp, err := r.client.Do(req)
	if err != nil {
		return fmt.Errorf("insert event: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if err := checkStatus(resp); err != nil {
		return fmt.Errorf("insert event: %w", err)
	}
	return nil
}

func checkStatus(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	msg := strings.TrimSpace(string(body))
	if msg == "" {
		return fmt.Errorf("unexpected status: %s", resp.Status)
	}
	return fmt.Errorf("unexpected status: %s: %s", resp.Status, msg)
}
