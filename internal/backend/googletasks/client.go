// Package googletasks implements service.Store on a Google Tasks list.
package googletasks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	tasks "google.golang.org/api/tasks/v1"

	"tugas/internal/config"
	"tugas/internal/countdown"
	"tugas/internal/service"
)

const (
	// DefaultListID is the special ID for the default list.
	DefaultListID = "@default"

	// PageSize is the number of tasks per page.
	PageSize = 100

	// APITimeout is the timeout for API calls.
	APITimeout = 5 * time.Second

	// Scope is the OAuth scope for Google Tasks.
	Scope = "https://www.googleapis.com/auth/tasks"

	// deadlinePrefix marks the notes line carrying the exact deadline.
	// Google Tasks keeps only the date part of Due.
	deadlinePrefix = "deadline: "

	statusCompleted   = "completed"
	statusNeedsAction = "needsAction"
)

// Client implements service.Store using the Google Tasks API.
type Client struct {
	svc    *tasks.Service
	listID string
	loc    *time.Location
}

// New creates a new Google Tasks client.
// Requires oauth_client.json and token.json to exist.
func New(ctx context.Context, cfg *config.Config) (*Client, error) {
	clientJSON, err := os.ReadFile(cfg.OAuthClientPath())
	if err != nil {
		return nil, fmt.Errorf("failed to read oauth_client.json: %w", err)
	}

	oauthConfig, err := google.ConfigFromJSON(clientJSON, Scope)
	if err != nil {
		return nil, fmt.Errorf("invalid oauth_client.json: %w", err)
	}

	tokenData, err := os.ReadFile(cfg.TokenPath())
	if err != nil {
		return nil, fmt.Errorf("failed to read token.json: %w", err)
	}

	var token oauth2.Token
	if err := json.Unmarshal(tokenData, &token); err != nil {
		return nil, fmt.Errorf("invalid token.json: %w", err)
	}

	// Token source refreshes automatically
	httpClient := oauth2.NewClient(ctx, oauthConfig.TokenSource(ctx, &token))

	return NewWithHTTPClient(ctx, httpClient, cfg.TaskList, cfg.Loc())
}

// NewWithHTTPClient creates a client with a custom HTTP client (for testing).
func NewWithHTTPClient(ctx context.Context, httpClient *http.Client, listID string, loc *time.Location, opts ...option.ClientOption) (*Client, error) {
	opts = append([]option.ClientOption{option.WithHTTPClient(httpClient)}, opts...)
	svc, err := tasks.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create tasks service: %w", err)
	}
	if listID == "" {
		listID = DefaultListID
	}
	if loc == nil {
		loc = time.Local
	}
	return &Client{svc: svc, listID: listID, loc: loc}, nil
}

// Close is a no-op; the HTTP client needs no teardown.
func (c *Client) Close() error { return nil }

// ListAll returns every task of the list, completed and hidden ones included.
func (c *Client) ListAll(ctx context.Context) ([]service.Task, error) {
	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	var result []service.Task
	err := c.svc.Tasks.List(c.listID).
		MaxResults(PageSize).
		ShowCompleted(true).
		ShowHidden(true).
		ShowDeleted(false).
		Pages(ctx, func(resp *tasks.Tasks) error {
			for _, t := range resp.Items {
				result = append(result, fromAPI(t, c.loc))
			}
			return nil
		})
	if err != nil {
		return nil, wrapError("list", err)
	}
	return result, nil
}

// Create inserts a task and returns its ID.
func (c *Client) Create(ctx context.Context, nt service.NewTask) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	created, err := c.svc.Tasks.Insert(c.listID, toAPI(nt, c.loc)).Context(ctx).Do()
	if err != nil {
		return "", wrapError("create", err)
	}
	return created.Id, nil
}

// Update patches the given fields.
func (c *Client) Update(ctx context.Context, id string, f service.Fields) error {
	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	if _, err := c.svc.Tasks.Patch(c.listID, id, patchFor(f, c.loc)).Context(ctx).Do(); err != nil {
		return wrapError("update", err)
	}
	return nil
}

// Delete deletes a task. A task that is already gone is not an error.
func (c *Client) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	err := c.svc.Tasks.Delete(c.listID, id).Context(ctx).Do()
	if err != nil && !isStatus(err, http.StatusNotFound) {
		return wrapError("delete", err)
	}
	return nil
}

// fromAPI converts a Google task. The exact deadline comes from the notes
// when present, otherwise from the date-only Due field.
func fromAPI(t *tasks.Task, loc *time.Location) service.Task {
	task := service.Task{
		ID:        t.Id,
		Text:      t.Title,
		Completed: t.Status == statusCompleted,
	}
	if d, ok := deadlineFromNotes(t.Notes); ok {
		task.Deadline = d
	} else if t.Due != "" {
		if due, err := time.Parse(time.RFC3339, t.Due); err == nil {
			// Due is a UTC midnight date; keep the calendar day.
			task.Deadline = time.Date(due.Year(), due.Month(), due.Day(), 0, 0, 0, 0, loc).Format("2006-01-02T15:04")
		}
	}
	return task
}

func toAPI(nt service.NewTask, loc *time.Location) *tasks.Task {
	t := &tasks.Task{
		Title:  nt.Text,
		Status: statusNeedsAction,
		Notes:  deadlinePrefix + nt.Deadline,
		Due:    dueFor(nt.Deadline, loc),
	}
	if nt.Completed {
		t.Status = statusCompleted
	}
	return t
}

func patchFor(f service.Fields, loc *time.Location) *tasks.Task {
	t := &tasks.Task{}
	if f.Text != nil {
		t.Title = *f.Text
		t.ForceSendFields = append(t.ForceSendFields, "Title")
	}
	if f.Deadline != nil {
		t.Notes = deadlinePrefix + *f.Deadline
		t.Due = dueFor(*f.Deadline, loc)
	}
	if f.Completed != nil {
		if *f.Completed {
			t.Status = statusCompleted
		} else {
			t.Status = statusNeedsAction
			t.NullFields = append(t.NullFields, "Completed")
		}
	}
	return t
}

// dueFor returns the RFC 3339 date Google Tasks expects, or "" when the
// deadline cannot be parsed.
func dueFor(deadline string, loc *time.Location) string {
	t, err := countdown.Parse(deadline, loc)
	if err != nil {
		return ""
	}
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC).Format(time.RFC3339)
}

func deadlineFromNotes(notes string) (string, bool) {
	for _, line := range strings.Split(notes, "\n") {
		if strings.HasPrefix(line, deadlinePrefix) {
			return strings.TrimSpace(strings.TrimPrefix(line, deadlinePrefix)), true
		}
	}
	return "", false
}

func isStatus(err error, code int) bool {
	var gerr *googleapi.Error
	return errors.As(err, &gerr) && gerr.Code == code
}

// wrapError wraps API errors with user-friendly messages.
func wrapError(op string, err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) || strings.Contains(err.Error(), "context deadline exceeded") {
		return service.NewStoreError(op, service.KindUnavailable, fmt.Errorf("request timed out"))
	}

	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		switch gerr.Code {
		case http.StatusUnauthorized, http.StatusForbidden:
			return service.NewStoreError(op, service.KindAuth, fmt.Errorf("token expired or revoked (run: tugas login)"))
		case http.StatusNotFound:
			return service.NewStoreError(op, service.KindNotFound, fmt.Errorf("not found"))
		case http.StatusServiceUnavailable, http.StatusBadGateway, http.StatusGatewayTimeout:
			return service.NewStoreError(op, service.KindUnavailable, err)
		}
		return service.NewStoreError(op, service.KindInternal, err)
	}

	// oauth2 refresh failures
	var rerr *oauth2.RetrieveError
	if errors.As(err, &rerr) {
		return service.NewStoreError(op, service.KindAuth, fmt.Errorf("token expired or revoked (run: tugas login)"))
	}

	return service.NewStoreError(op, service.KindUnavailable, err)
}
