// Package feedclient is the consumer side of the feed: it keeps a cached copy
// of the feed, listens to the /ws relay for invalidation hints and falls back
// to interval polling when the relay is down. Relay events are advisory only;
// data always comes from re-fetching the REST API.
package feedclient

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"resty.dev/v3"

	"github.com/d60-Lab/hint/internal/model"
)

const (
	defaultPollInterval   = 15 * time.Second
	defaultReconnectDelay = 3 * time.Second
)

type Options struct {
	// BaseURL e.g. http://localhost:8080
	BaseURL string
	// Token optional session token, sent as Authorization: Bearer
	Token string
	// PollInterval cache invalidation fallback period (default 15s)
	PollInterval time.Duration
	// ReconnectDelay relay reconnect backoff (default 3s)
	ReconnectDelay time.Duration
	// DisableRelay skips the websocket subscription (polling only)
	DisableRelay bool
}

type Controller struct {
	rest           *resty.Client
	baseURL        string
	pollInterval   time.Duration
	reconnectDelay time.Duration

	mu     sync.Mutex
	cached []model.FeedItem
	valid  bool

	closeOnce sync.Once
	closed    chan struct{}
}

func New(opts Options) *Controller {
	if opts.PollInterval <= 0 {
		opts.PollInterval = defaultPollInterval
	}
	if opts.ReconnectDelay <= 0 {
		opts.ReconnectDelay = defaultReconnectDelay
	}
	rest := resty.New().SetBaseURL(opts.BaseURL)
	if opts.Token != "" {
		rest.SetAuthToken(opts.Token)
	}

	c := &Controller{
		rest:           rest,
		baseURL:        opts.BaseURL,
		pollInterval:   opts.PollInterval,
		reconnectDelay: opts.ReconnectDelay,
		closed:         make(chan struct{}),
	}
	go c.pollLoop()
	if !opts.DisableRelay {
		go c.relayLoop()
	}
	return c
}

func (c *Controller) Close() {
	c.closeOnce.Do(func() { close(c.closed) })
	_ = c.rest.Close()
}

// Invalidate drops the cached feed; the next Feed call re-fetches.
func (c *Controller) Invalidate() {
	c.mu.Lock()
	c.valid = false
	c.mu.Unlock()
}

// Feed returns the cached feed, re-fetching it after an invalidation.
func (c *Controller) Feed(ctx context.Context) ([]model.FeedItem, error) {
	c.mu.Lock()
	if c.valid {
		out := make([]model.FeedItem, len(c.cached))
		copy(out, c.cached)
		c.mu.Unlock()
		return out, nil
	}
	c.mu.Unlock()

	var items []model.FeedItem
	resp, err := c.rest.R().
		SetContext(ctx).
		SetResult(&items).
		Get("/api/feed")
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, &APIError{Status: resp.StatusCode()}
	}

	c.mu.Lock()
	c.cached = items
	c.valid = true
	out := make([]model.FeedItem, len(items))
	copy(out, items)
	c.mu.Unlock()
	return out, nil
}

// ToggleLike flips the like state optimistically in the cached copy before
// the server answers; a server error rolls the cache back to the snapshot.
func (c *Controller) ToggleLike(ctx context.Context, postID string) (bool, error) {
	c.mu.Lock()
	snapshot := make([]model.FeedItem, len(c.cached))
	copy(snapshot, c.cached)
	wasValid := c.valid
	var optimistic bool
	for i := range c.cached {
		if c.cached[i].ID == postID {
			optimistic = !c.cached[i].IsLiked
			c.cached[i].IsLiked = optimistic
			if optimistic {
				c.cached[i].LikeCount++
			} else {
				c.cached[i].LikeCount--
			}
			break
		}
	}
	c.mu.Unlock()

	var result struct {
		Liked bool `json:"liked"`
	}
	resp, err := c.rest.R().
		SetContext(ctx).
		SetBody(map[string]string{"postId": postID}).
		SetResult(&result).
		Post("/api/likes")
	if err == nil && resp.IsError() {
		err = &APIError{Status: resp.StatusCode()}
	}
	if err != nil {
		// rollback to the pre-toggle state
		c.mu.Lock()
		c.cached = snapshot
		c.valid = wasValid
		c.mu.Unlock()
		return false, err
	}
	return result.Liked, nil
}

// pollLoop is the liveness fallback: even with the relay down for good the
// cache goes stale at most one poll interval.
func (c *Controller) pollLoop() {
	ticker := time.NewTicker(c.pollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			c.Invalidate()
		case <-c.closed:
			return
		}
	}
}

// relayLoop keeps a websocket subscription alive, reconnecting forever with a
// fixed backoff. Any update event invalidates the cache.
func (c *Controller) relayLoop() {
	wsURL := httpToWS(c.baseURL) + "/ws"
	for {
		select {
		case <-c.closed:
			return
		default:
		}

		conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
		if err != nil {
			c.sleepOrClosed()
			continue
		}

		done := make(chan struct{})
		go func() {
			select {
			case <-c.closed:
				_ = conn.Close()
			case <-done:
			}
		}()

		for {
			var env struct {
				Type string `json:"type"`
			}
			if err := conn.ReadJSON(&env); err != nil {
				break
			}
			if env.Type == "update" {
				c.Invalidate()
			}
		}
		close(done)
		_ = conn.Close()
		c.sleepOrClosed()
	}
}

func (c *Controller) sleepOrClosed() {
	select {
	case <-time.After(c.reconnectDelay):
	case <-c.closed:
	}
}

func httpToWS(base string) string {
	switch {
	case strings.HasPrefix(base, "https://"):
		return "wss://" + strings.TrimPrefix(base, "https://")
	case strings.HasPrefix(base, "http://"):
		return "ws://" + strings.TrimPrefix(base, "http://")
	default:
		return base
	}
}

// APIError carries a non-2xx status from the REST API.
type APIError struct {
	Status int
}

func (e *APIError) Error() string {
	return fmt.Sprintf("feedclient: unexpected status %d %s", e.Status, http.StatusText(e.Status))
}
