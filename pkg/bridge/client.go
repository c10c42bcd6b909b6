package bridge

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/nyk-lgtm/tli-tracker/pkg/settings"
)

// ErrClosed is returned by calls made after the connection has shut down.
var ErrClosed = errors.New("bridge: connection closed")

const (
	dialTimeout  = 5 * time.Second
	writeTimeout = 5 * time.Second
	callTimeout  = 10 * time.Second
	eventBuffer  = 64
)

// Client is a single overlay window's connection to the host. Calls are
// safe for concurrent use; responses are matched to callers by request id.
type Client struct {
	conn *websocket.Conn
	log  *slog.Logger

	writeMu sync.Mutex

	mu      sync.Mutex
	nextID  uint64
	pending map[uint64]chan Envelope
	closed  bool

	events chan Event
	done   chan struct{}
}

// Dial connects to the host bridge endpoint and starts the read loop.
func Dial(ctx context.Context, url string, log *slog.Logger) (*Client, error) {
	if log == nil {
		log = slog.Default()
	}
	dialCtx, cancel := context.WithTimeout(ctx, dialTimeout)
	defer cancel()

	conn, _, err := websocket.DefaultDialer.DialContext(dialCtx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("dial host bridge %s: %w", url, err)
	}

	c := &Client{
		conn:    conn,
		log:     log,
		pending: make(map[uint64]chan Envelope),
		events:  make(chan Event, eventBuffer),
		done:    make(chan struct{}),
	}
	go c.readLoop()
	return c, nil
}

// Events returns the channel of host pushes. The channel closes when the
// connection shuts down, so ranging over it doubles as a liveness check.
func (c *Client) Events() <-chan Event {
	return c.events
}

// Done is closed when the read loop exits for any reason.
func (c *Client) Done() <-chan struct{} {
	return c.done
}

// Close tears down the connection and fails all in-flight calls.
func (c *Client) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	c.mu.Unlock()
	return c.conn.Close()
}

func (c *Client) readLoop() {
	defer func() {
		c.mu.Lock()
		c.closed = true
		for id, ch := range c.pending {
			close(ch)
			delete(c.pending, id)
		}
		c.mu.Unlock()
		close(c.events)
		close(c.done)
		c.conn.Close()
	}()

	for {
		var env Envelope
		if err := c.conn.ReadJSON(&env); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				c.log.Debug("bridge read loop ended", "error", err)
			}
			return
		}

		switch {
		case env.Event != "":
			select {
			case c.events <- Event{Name: env.Event, Data: env.Data}:
			default:
				// A stalled consumer must not wedge the read loop.
				c.log.Warn("bridge event dropped", "event", env.Event)
			}
		case env.ID != 0:
			c.mu.Lock()
			ch, ok := c.pending[env.ID]
			if ok {
				delete(c.pending, env.ID)
			}
			c.mu.Unlock()
			if ok {
				ch <- env
				close(ch)
			} else {
				c.log.Debug("bridge response without caller", "id", env.ID)
			}
		}
	}
}

// Call issues a request and blocks for the matching response.
func (c *Client) Call(ctx context.Context, method string, params any) (json.RawMessage, error) {
	var raw json.RawMessage
	if params != nil {
		b, err := json.Marshal(params)
		if err != nil {
			return nil, fmt.Errorf("encode %s params: %w", method, err)
		}
		raw = b
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil, ErrClosed
	}
	c.nextID++
	id := c.nextID
	ch := make(chan Envelope, 1)
	c.pending[id] = ch
	c.mu.Unlock()

	env := Envelope{ID: id, Method: method, Params: raw}

	c.writeMu.Lock()
	c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	err := c.conn.WriteJSON(env)
	c.writeMu.Unlock()
	if err != nil {
		c.mu.Lock()
		delete(c.pending, id)
		c.mu.Unlock()
		return nil, fmt.Errorf("send %s: %w", method, err)
	}

	ctx, cancel := context.WithTimeout(ctx, callTimeout)
	defer cancel()

	select {
	case resp, ok := <-ch:
		if !ok {
			return nil, ErrClosed
		}
		if resp.Error != "" {
			return nil, fmt.Errorf("%s: %s", method, resp.Error)
		}
		return resp.Result, nil
	case <-ctx.Done():
		c.mu.Lock()
		delete(c.pending, id)
		c.mu.Unlock()
		return nil, fmt.Errorf("%s: %w", method, ctx.Err())
	}
}

// GetSettings fetches the full host settings document.
func (c *Client) GetSettings(ctx context.Context) (settings.Settings, error) {
	raw, err := c.Call(ctx, MethodGetSettings, nil)
	if err != nil {
		return settings.Settings{}, err
	}
	var s settings.Settings
	if err := json.Unmarshal(raw, &s); err != nil {
		return settings.Settings{}, fmt.Errorf("decode settings: %w", err)
	}
	return s, nil
}

// SaveWidgetLayout persists the widget layout on the host.
func (c *Client) SaveWidgetLayout(ctx context.Context, widgets []settings.WidgetLayout) error {
	return c.statusCall(ctx, MethodSaveWidgetLayout, map[string]any{"widgets": widgets})
}

// SetOverlayOpacity updates the overlay opacity on the host.
func (c *Client) SetOverlayOpacity(ctx context.Context, opacity float64) error {
	return c.statusCall(ctx, MethodSetOverlayOpacity, OpacityParams{Opacity: opacity})
}

// ResetSettings discards the host's stored settings. The new defaults
// arrive as a settings_reset push.
func (c *Client) ResetSettings(ctx context.Context) error {
	return c.statusCall(ctx, MethodResetSettings, nil)
}

// ResizeOverlay tells the host the overlay's canvas size changed.
func (c *Client) ResizeOverlay(ctx context.Context, width, height float64) error {
	return c.statusCall(ctx, MethodResizeOverlay, ResizeParams{Width: width, Height: height})
}

// StartDrag notifies the host that a window drag gesture began.
func (c *Client) StartDrag(ctx context.Context) error {
	return c.statusCall(ctx, MethodStartDrag, nil)
}

// Ping round-trips a no-op request.
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.Call(ctx, MethodPing, nil)
	return err
}

func (c *Client) statusCall(ctx context.Context, method string, params any) error {
	raw, err := c.Call(ctx, method, params)
	if err != nil {
		return err
	}
	var st Status
	if err := json.Unmarshal(raw, &st); err != nil {
		return fmt.Errorf("decode %s response: %w", method, err)
	}
	if !st.OK() {
		return fmt.Errorf("%s rejected: %s", method, st.Message)
	}
	return nil
}
