// Package client is the Go SDK for the feedback API. It mirrors the
// behavior of the embedded website widget: a read-through cache over the
// HTTP endpoints, falling back to cached values when the network is down.
package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
)

// VisitorHeader carries the opaque visitor token on every request.
const VisitorHeader = "X-Visitor-Id"

// Snapshot is one resource's feedback including the caller's own vote. The
// vote is empty when the caller has not voted.
type Snapshot struct {
	ResourceID   string `json:"resourceId"`
	Likes        int64  `json:"likes"`
	Dislikes     int64  `json:"dislikes"`
	UserVote     string `json:"userVote"`
	CommentCount int    `json:"commentCount"`
}

// Totals is the bulk fetch shape, without per-visitor vote state.
type Totals struct {
	Likes        int64 `json:"likes"`
	Dislikes     int64 `json:"dislikes"`
	CommentCount int   `json:"commentCount"`
}

// Comment is a stored comment as returned by the API.
type Comment struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
	Helpful   int       `json:"helpful"`
}

// ValidationError is returned when the server rejects a request body.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// Notifier receives a short user-facing message when a call fails in a way
// the widget should mention but not crash on.
type Notifier func(message string)

// FeedbackClient talks to the feedback API on behalf of one visitor.
type FeedbackClient struct {
	baseURL    string
	visitorID  string
	httpClient *http.Client
	notify     Notifier

	mu    sync.RWMutex
	cache map[string]Snapshot
}

// Option configures a FeedbackClient.
type Option func(*FeedbackClient)

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *FeedbackClient) { c.httpClient = hc }
}

// WithNotifier sets the failure notification callback.
func WithNotifier(n Notifier) Option {
	return func(c *FeedbackClient) { c.notify = n }
}

// New creates a feedback client. The visitor id should come from a
// VisitorIDStore so it stays stable across sessions.
func New(baseURL, visitorID string, opts ...Option) *FeedbackClient {
	c := &FeedbackClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		visitorID:  visitorID,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		cache:      make(map[string]Snapshot),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FetchAll bulk loads totals for every resource and warms the cache.
// On failure it notifies and returns whatever was cached.
func (c *FeedbackClient) FetchAll() map[string]Totals {
	var payload struct {
		Feedback map[string]Totals `json:"feedback"`
	}
	if err := c.do(http.MethodGet, "/feedback", nil, &payload); err != nil {
		c.notifyFailure()
		return c.cachedTotals()
	}

	c.mu.Lock()
	for resourceID, totals := range payload.Feedback {
		snap := c.cache[resourceID]
		snap.ResourceID = resourceID
		snap.Likes = totals.Likes
		snap.Dislikes = totals.Dislikes
		snap.CommentCount = totals.CommentCount
		c.cache[resourceID] = snap
	}
	c.mu.Unlock()

	return payload.Feedback
}

// FetchOne returns one resource's feedback including this visitor's vote.
// On failure it notifies and returns the cached snapshot, or a zero
// snapshot if the resource was never seen.
func (c *FeedbackClient) FetchOne(resourceID string) Snapshot {
	var snap Snapshot
	if err := c.do(http.MethodGet, "/feedback/"+url.PathEscape(resourceID), nil, &snap); err != nil {
		c.notifyFailure()
		return c.cached(resourceID)
	}

	c.setCached(resourceID, snap)
	return snap
}

// Vote submits a like or dislike with toggle semantics and returns the
// updated snapshot. On failure the cache is left untouched and an error is
// returned; there is no optimistic update.
func (c *FeedbackClient) Vote(resourceID, choice string) (Snapshot, error) {
	body := map[string]string{"vote": choice}

	var snap Snapshot
	if err := c.do(http.MethodPost, "/feedback/"+url.PathEscape(resourceID)+"/vote", body, &snap); err != nil {
		if !isValidation(err) {
			c.notifyFailure()
		}
		return c.cached(resourceID), err
	}

	c.setCached(resourceID, snap)
	return snap, nil
}

// Comment submits a comment. Validation failures come back as
// *ValidationError; network failures notify and leave the cache untouched.
func (c *FeedbackClient) Comment(resourceID, text string) (*Comment, error) {
	body := map[string]string{"text": text}

	var comment Comment
	if err := c.do(http.MethodPost, "/comments/"+url.PathEscape(resourceID), body, &comment); err != nil {
		if !isValidation(err) {
			c.notifyFailure()
		}
		return nil, err
	}

	c.mu.Lock()
	snap := c.cache[resourceID]
	snap.ResourceID = resourceID
	snap.CommentCount++
	c.cache[resourceID] = snap
	c.mu.Unlock()

	return &comment, nil
}

// Comments lists a resource's comments, newest first. On failure it
// notifies and returns an empty list.
func (c *FeedbackClient) Comments(resourceID string) []Comment {
	var payload struct {
		Comments []Comment `json:"comments"`
	}
	if err := c.do(http.MethodGet, "/comments/"+url.PathEscape(resourceID), nil, &payload); err != nil {
		c.notifyFailure()
		return nil
	}
	return payload.Comments
}

// Cached returns the cached snapshot for a resource without touching the
// network, for immediate re-renders.
func (c *FeedbackClient) Cached(resourceID string) Snapshot {
	return c.cached(resourceID)
}

func (c *FeedbackClient) do(method, path string, body, out any) error {
	var reqBody *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewReader(data)
	} else {
		reqBody = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, c.baseURL+path, reqBody)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(VisitorHeader, c.visitorID)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusBadRequest {
		var apiErr struct {
			Error string `json:"error"`
		}
		if decodeErr := json.NewDecoder(resp.Body).Decode(&apiErr); decodeErr == nil && apiErr.Error != "" {
			return &ValidationError{Message: apiErr.Error}
		}
		return &ValidationError{Message: "request rejected"}
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return fmt.Errorf("api error: status %d", resp.StatusCode)
	}

	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func (c *FeedbackClient) cached(resourceID string) Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	snap, ok := c.cache[resourceID]
	if !ok {
		return Snapshot{ResourceID: resourceID}
	}
	return snap
}

func (c *FeedbackClient) setCached(resourceID string, snap Snapshot) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cache[resourceID] = snap
}

func (c *FeedbackClient) cachedTotals() map[string]Totals {
	c.mu.RLock()
	defer c.mu.RUnlock()
	totals := make(map[string]Totals, len(c.cache))
	for resourceID, snap := range c.cache {
		totals[resourceID] = Totals{
			Likes:        snap.Likes,
			Dislikes:     snap.Dislikes,
			CommentCount: snap.CommentCount,
		}
	}
	return totals
}

func (c *FeedbackClient) notifyFailure() {
	if c.notify != nil {
		c.notify("Unable to save feedback. Please try again.")
	}
}

func isValidation(err error) bool {
	_, ok := err.(*ValidationError)
	return ok
}
