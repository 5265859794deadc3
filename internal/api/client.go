// Package api implements the HTTP client for the tracking service.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/hollowbeak/clockin/internal/apperrors"
	"github.com/hollowbeak/clockin/internal/model"
)

// Client talks to the tracking service. Every operation is a single attempt:
// no retries, no caching, and no client-side timeout, so a hung request is
// bounded only by its context.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient builds a client for the service at baseURL.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{},
	}
}

type wireEntryID struct {
	Title string    `json:"title"`
	Start time.Time `json:"start"`
}

type wireFinished struct {
	ID    wireEntryID `json:"id"`
	End   *time.Time  `json:"end"`
	Notes string      `json:"notes"`
}

// Recent returns the most-recent-first list of finished titles.
func (c *Client) Recent(ctx context.Context) ([]string, error) {
	var titles []string
	if err := c.getJSON(ctx, "/api/recent/", &titles); err != nil {
		return nil, err
	}
	return titles, nil
}

// Ongoing returns the currently open sessions in server order.
func (c *Client) Ongoing(ctx context.Context) ([]model.Session, error) {
	var rows []wireEntryID
	if err := c.getJSON(ctx, "/api/unfinished/", &rows); err != nil {
		return nil, err
	}
	sessions := make([]model.Session, 0, len(rows))
	for _, row := range rows {
		sessions = append(sessions, model.Session{Title: row.Title, Start: row.Start})
	}
	return sessions, nil
}

// Start opens a new session for title.
func (c *Client) Start(ctx context.Context, title string) error {
	resp, err := c.do(ctx, http.MethodPost, "/api/start/"+url.PathEscape(title), nil)
	if err != nil {
		return err
	}
	return drain(resp)
}

// Finish closes the open session for title, storing notes as its annotation.
func (c *Client) Finish(ctx context.Context, title, notes string) error {
	resp, err := c.do(ctx, http.MethodPost, "/api/finish/"+url.PathEscape(title), strings.NewReader(notes))
	if err != nil {
		return err
	}
	return drain(resp)
}

// Latest returns the most recent session recorded for title, open or closed,
// or nil when the service knows none.
func (c *Client) Latest(ctx context.Context, title string) (*model.Session, error) {
	var row *wireFinished
	if err := c.getJSON(ctx, "/api/latest/"+url.PathEscape(title), &row); err != nil {
		return nil, err
	}
	if row == nil {
		return nil, nil
	}
	return &model.Session{
		Title: row.ID.Title,
		Start: row.ID.Start,
		End:   row.End,
		Notes: row.Notes,
	}, nil
}

// Report fetches the pre-rendered report text for a canonical query. An
// unbounded query sends the literal "null" days segment.
func (c *Client) Report(ctx context.Context, q model.ReportQuery) (string, error) {
	days := "null"
	if q.Bounded() {
		days = strconv.Itoa(q.Days)
	}
	path := fmt.Sprintf("/api/report/%d/%s?view_type=%s", q.Offset, days, url.QueryEscape(string(q.View)))
	return c.getText(ctx, path)
}

// ReportByDate fetches the report text for an explicit date range. Dates
// travel as given; the service validates them.
func (c *Client) ReportByDate(ctx context.Context, from, to string, view model.ViewType) (string, error) {
	path := fmt.Sprintf("/api/report-by-date/%s/%s?view_type=%s",
		url.PathEscape(from), url.PathEscape(to), url.QueryEscape(string(view)))
	return c.getText(ctx, path)
}

func (c *Client) do(ctx context.Context, method, path string, body io.Reader) (*http.Response, error) {
	if body == nil {
		body = http.NoBody
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if method == http.MethodPost {
		req.Header.Set("Content-Type", "text/plain; charset=utf-8")
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &apperrors.TransportError{Err: err}
	}
	return resp, nil
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	resp, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if err := checkStatus(resp); err != nil {
		return err
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func (c *Client) getText(ctx context.Context, path string) (string, error) {
	resp, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return "", err
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if err := checkStatus(resp); err != nil {
		return "", err
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}
	return string(data), nil
}

func drain(resp *http.Response) error {
	defer func() {
		_ = resp.Body.Close()
	}()
	if err := checkStatus(resp); err != nil {
		return err
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

func checkStatus(resp *http.Response) error {
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &apperrors.StatusError{Code: resp.StatusCode}
	}
	return nil
}
