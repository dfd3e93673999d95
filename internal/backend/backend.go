// Package backend is the client for the remote log-storage REST API.
package backend

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"

	"github.com/dsablic/healthlog/internal/model"
)

var (
	ErrUnauthorized = errors.New("backend: session is missing or expired")
	ErrConflict     = errors.New("backend: a log already exists for that date")
	ErrNotFound     = errors.New("backend: no log for that date")
)

// LogLister fetches logs for a date range, inclusive.
type LogLister interface {
	ListLogs(ctx context.Context, from, to model.Day) ([]model.DailyLogEntry, error)
}

// LogSubmitter creates or replaces a day's log.
type LogSubmitter interface {
	SubmitLog(ctx context.Context, entry model.DailyLogEntry) (model.DailyLogEntry, error)
	UpdateLog(ctx context.Context, entry model.DailyLogEntry) (model.DailyLogEntry, error)
}

// Session describes the authenticated user.
type Session struct {
	UserID    string    `json:"id"`
	Email     string    `json:"email"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// LoginResult is returned by a successful login.
type LoginResult struct {
	Token        string    `json:"token"`
	RefreshToken string    `json:"refreshToken"`
	ExpiresAt    time.Time `json:"expiresAt"`
	User         struct {
		ID    string `json:"id"`
		Email string `json:"email"`
	} `json:"user"`
}

// Client talks to the log backend.
type Client struct {
	http *resty.Client
}

// New creates a client for baseURL. An empty token sends unauthenticated
// requests (only Login works). A positive reqPerSec rate-limits requests;
// 429 responses are retried either way.
func New(baseURL, token string, reqPerSec float64) *Client {
	c := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetHeader("Accept", "application/json").
		SetHeader("Content-Type", "application/json").
		SetTransport(&RateLimitTransport{ReqPerSec: reqPerSec}).
		SetTimeout(30 * time.Second)
	if token != "" {
		c.SetAuthToken(token)
	}
	return &Client{http: c}
}

type apiError struct {
	Message string `json:"message"`
}

type logPage struct {
	Data []model.DailyLogEntry `json:"data"`
	Next string                `json:"next"`
}

// ListLogs fetches every log between from and to, following pagination via
// the body's "next" field or a Link rel="next" header.
func (c *Client) ListLogs(ctx context.Context, from, to model.Day) ([]model.DailyLogEntry, error) {
	var all []model.DailyLogEntry

	req := c.http.R().SetContext(ctx).SetQueryParams(map[string]string{
		"from": from.String(),
		"to":   to.String(),
	})
	nextURL := "/logs"
	seen := map[string]bool{}

	for nextURL != "" {
		if seen[nextURL] {
			return nil, fmt.Errorf("backend pagination loop at %s", nextURL)
		}
		seen[nextURL] = true

		var page logPage
		var apiErr apiError
		resp, err := req.SetResult(&page).SetError(&apiErr).Get(nextURL)
		if err != nil {
			return nil, fmt.Errorf("list logs: %w", err)
		}
		if err := check(resp, apiErr); err != nil {
			return nil, fmt.Errorf("list logs: %w", err)
		}
		all = append(all, page.Data...)

		nextURL = page.Next
		if nextURL == "" {
			nextURL = parseLinkNext(resp.Header().Get("Link"))
		}
		// Next links carry their own query.
		req = c.http.R().SetContext(ctx)
	}

	return all, nil
}

// SubmitLog creates the log for entry's date. It returns ErrConflict if the
// date already has one; use UpdateLog to replace it.
func (c *Client) SubmitLog(ctx context.Context, entry model.DailyLogEntry) (model.DailyLogEntry, error) {
	var created model.DailyLogEntry
	var apiErr apiError
	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Idempotency-Key", uuid.NewString()).
		SetBody(entry).
		SetResult(&created).
		SetError(&apiErr).
		Post("/logs")
	if err != nil {
		return model.DailyLogEntry{}, fmt.Errorf("submit log: %w", err)
	}
	if err := check(resp, apiErr); err != nil {
		return model.DailyLogEntry{}, fmt.Errorf("submit log %s: %w", entry.Date, err)
	}
	return created, nil
}

// UpdateLog replaces the log for entry's date.
func (c *Client) UpdateLog(ctx context.Context, entry model.DailyLogEntry) (model.DailyLogEntry, error) {
	var updated model.DailyLogEntry
	var apiErr apiError
	resp, err := c.http.R().
		SetContext(ctx).
		SetPathParam("date", entry.Date.String()).
		SetBody(entry).
		SetResult(&updated).
		SetError(&apiErr).
		Put("/logs/{date}")
	if err != nil {
		return model.DailyLogEntry{}, fmt.Errorf("update log: %w", err)
	}
	if err := check(resp, apiErr); err != nil {
		return model.DailyLogEntry{}, fmt.Errorf("update log %s: %w", entry.Date, err)
	}
	return updated, nil
}

// Login exchanges credentials for a session token.
func (c *Client) Login(ctx context.Context, email, password string) (LoginResult, error) {
	var result LoginResult
	var apiErr apiError
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(map[string]string{"email": email, "password": password}).
		SetResult(&result).
		SetError(&apiErr).
		Post("/auth/login")
	if err != nil {
		return LoginResult{}, fmt.Errorf("login: %w", err)
	}
	if err := check(resp, apiErr); err != nil {
		return LoginResult{}, fmt.Errorf("login: %w", err)
	}
	if result.Token == "" {
		return LoginResult{}, fmt.Errorf("login: backend returned no token")
	}
	return result, nil
}

// Session validates the current token.
func (c *Client) Session(ctx context.Context) (Session, error) {
	var sess Session
	var apiErr apiError
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&sess).
		SetError(&apiErr).
		Get("/auth/session")
	if err != nil {
		return Session{}, fmt.Errorf("session: %w", err)
	}
	if err := check(resp, apiErr); err != nil {
		return Session{}, fmt.Errorf("session: %w", err)
	}
	return sess, nil
}

func check(resp *resty.Response, apiErr apiError) error {
	if !resp.IsError() {
		return nil
	}
	var base error
	switch resp.StatusCode() {
	case http.StatusUnauthorized, http.StatusForbidden:
		base = ErrUnauthorized
	case http.StatusConflict:
		base = ErrConflict
	case http.StatusNotFound:
		base = ErrNotFound
	default:
		base = fmt.Errorf("backend returned status %d", resp.StatusCode())
	}
	if apiErr.Message != "" {
		return fmt.Errorf("%w: %s", base, apiErr.Message)
	}
	return base
}

var linkNextRe = regexp.MustCompile(`<([^>]+)>;\s*rel="next"`)

func parseLinkNext(header string) string {
	matches := linkNextRe.FindStringSubmatch(header)
	if len(matches) < 2 {
		return ""
	}
	return matches[1]
}
