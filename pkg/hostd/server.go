package hostd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/google/uuid"

	"github.com/nyk-lgtm/tli-tracker/pkg/bridge"
	"github.com/nyk-lgtm/tli-tracker/pkg/settings"
)

const (
	sendBuffer       = 64
	sessionWriteWait = 5 * time.Second
	shutdownWait     = 3 * time.Second
)

// Server accepts overlay bridge connections, answers their requests
// against Storage, and fans host events out to every connected window.
type Server struct {
	addr     string
	storage  *Storage
	log      *slog.Logger
	upgrader websocket.Upgrader

	mu       sync.Mutex
	sessions map[string]*session
}

type session struct {
	id   string
	conn *websocket.Conn
	send chan []byte
	done chan struct{}
	once sync.Once
}

// NewServer creates a bridge server listening on addr.
func NewServer(addr string, storage *Storage, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	return &Server{
		addr:    addr,
		storage: storage,
		log:     log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// The bridge binds to loopback; browser origin checks do
			// not apply to overlay windows.
			CheckOrigin: func(*http.Request) bool { return true },
		},
		sessions: make(map[string]*session),
	}
}

// Run serves the bridge endpoint until ctx is canceled.
func (s *Server) Run(ctx context.Context) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/bridge", s.HandleBridge)

	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.addr, err)
	}
	srv := &http.Server{Handler: mux}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()
	s.log.Info("bridge listening", "addr", ln.Addr().String())

	select {
	case <-ctx.Done():
		shutCtx, cancel := context.WithTimeout(context.Background(), shutdownWait)
		defer cancel()
		srv.Shutdown(shutCtx)
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// HandleBridge upgrades one overlay connection and serves it until the
// window disconnects.
func (s *Server) HandleBridge(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("bridge upgrade failed", "error", err)
		return
	}

	sess := &session{
		id:   uuid.NewString(),
		conn: conn,
		send: make(chan []byte, sendBuffer),
		done: make(chan struct{}),
	}
	s.mu.Lock()
	s.sessions[sess.id] = sess
	count := len(s.sessions)
	s.mu.Unlock()
	s.log.Info("overlay connected", "session", sess.id, "windows", count)

	go s.writePump(sess)
	s.readLoop(sess)

	s.mu.Lock()
	delete(s.sessions, sess.id)
	count = len(s.sessions)
	s.mu.Unlock()
	sess.close()
	s.log.Info("overlay disconnected", "session", sess.id, "windows", count)
}

func (sess *session) close() {
	sess.once.Do(func() {
		close(sess.done)
		sess.conn.Close()
	})
}

func (s *Server) writePump(sess *session) {
	for {
		select {
		case msg := <-sess.send:
			sess.conn.SetWriteDeadline(time.Now().Add(sessionWriteWait))
			if err := sess.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				sess.close()
				return
			}
		case <-sess.done:
			return
		}
	}
}

func (s *Server) readLoop(sess *session) {
	for {
		var env bridge.Envelope
		if err := sess.conn.ReadJSON(&env); err != nil {
			return
		}
		if env.Method == "" {
			continue
		}
		resp := s.dispatch(sess, env)
		s.queue(sess, resp)
	}
}

// dispatch executes one request and builds its response envelope.
func (s *Server) dispatch(sess *session, env bridge.Envelope) bridge.Envelope {
	resp := bridge.Envelope{ID: env.ID}
	result, err := s.handleMethod(sess, env.Method, env.Params)
	if err != nil {
		s.log.Warn("bridge request failed", "method", env.Method, "error", err)
		resp.Error = err.Error()
		return resp
	}
	resp.Result = result
	return resp
}

func (s *Server) handleMethod(sess *session, method string, params json.RawMessage) (json.RawMessage, error) {
	switch method {
	case bridge.MethodPing:
		return okResult()

	case bridge.MethodGetSettings:
		return json.Marshal(s.storage.Load())

	case bridge.MethodSaveWidgetLayout:
		var p struct {
			Widgets []settings.WidgetLayout `json:"widgets"`
		}
		if err := json.Unmarshal(params, &p); err != nil {
			return nil, fmt.Errorf("decode widget layout: %w", err)
		}
		cfg, err := s.storage.SaveWidgetLayout(p.Widgets)
		if err != nil {
			return nil, err
		}
		s.broadcastSettings(cfg, sess)
		return okResult()

	case bridge.MethodSetOverlayOpacity:
		var p bridge.OpacityParams
		if err := json.Unmarshal(params, &p); err != nil {
			return nil, fmt.Errorf("decode opacity: %w", err)
		}
		cfg, err := s.storage.SetOpacity(p.Opacity)
		if err != nil {
			return nil, err
		}
		s.broadcastSettings(cfg, sess)
		return okResult()

	case bridge.MethodResetSettings:
		cfg, err := s.storage.Reset()
		if err != nil {
			return nil, err
		}
		data, encErr := json.Marshal(cfg)
		if encErr != nil {
			return nil, encErr
		}
		// Reset goes to every window, the caller included, so all of
		// them pick up the defaults at once.
		s.broadcast(bridge.EventSettingsReset, data, nil)
		return okResult()

	case bridge.MethodResizeOverlay:
		var p bridge.ResizeParams
		if err := json.Unmarshal(params, &p); err != nil {
			return nil, fmt.Errorf("decode resize: %w", err)
		}
		if p.Width <= 0 || p.Height <= 0 {
			return nil, fmt.Errorf("invalid overlay size %gx%g", p.Width, p.Height)
		}
		s.log.Debug("overlay resized", "width", p.Width, "height", p.Height)
		return okResult()

	case bridge.MethodStartDrag:
		// Window dragging is handled by the windowing side; the bridge
		// just acknowledges the gesture.
		return okResult()

	default:
		return nil, fmt.Errorf("unknown method %q", method)
	}
}

func okResult() (json.RawMessage, error) {
	return json.Marshal(bridge.Status{Status: "ok"})
}

// broadcastSettings pushes the updated settings to every other window and
// a bare update marker so siblings re-render without re-pulling.
func (s *Server) broadcastSettings(cfg settings.Settings, except *session) {
	data, err := json.Marshal(cfg)
	if err != nil {
		s.log.Warn("encode settings broadcast", "error", err)
		return
	}
	s.broadcast(bridge.EventSettingsUpdate, data, except)
	s.broadcast(bridge.EventBroadcast, json.RawMessage(`"update"`), except)
}

// PushEvent sends an event to every connected window.
func (s *Server) PushEvent(name string, data json.RawMessage) {
	s.broadcast(name, data, nil)
}

// SetEditMode pushes an edit-mode toggle to all windows.
func (s *Server) SetEditMode(enabled bool) {
	data, _ := json.Marshal(bridge.EditModePayload{Enabled: enabled})
	s.broadcast(bridge.EventEditMode, data, nil)
}

func (s *Server) broadcast(name string, data json.RawMessage, except *session) {
	msg, err := json.Marshal(bridge.Envelope{Event: name, Data: data})
	if err != nil {
		s.log.Warn("encode event", "event", name, "error", err)
		return
	}
	s.mu.Lock()
	targets := make([]*session, 0, len(s.sessions))
	for _, sess := range s.sessions {
		if sess != except {
			targets = append(targets, sess)
		}
	}
	s.mu.Unlock()
	for _, sess := range targets {
		s.queueRaw(sess, msg)
	}
}

func (s *Server) queue(sess *session, env bridge.Envelope) {
	msg, err := json.Marshal(env)
	if err != nil {
		s.log.Warn("encode response", "error", err)
		return
	}
	s.queueRaw(sess, msg)
}

func (s *Server) queueRaw(sess *session, msg []byte) {
	select {
	case sess.send <- msg:
	case <-sess.done:
	default:
		// A window that stops reading loses events rather than
		// blocking the rest.
		s.log.Warn("session send buffer full", "session", sess.id)
	}
}
