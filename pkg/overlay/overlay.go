// Package overlay is the terminal overlay client: a bubbletea program that
// renders the tracked session's widgets and hosts the mouse-driven layout
// edit mode. Widget geometry lives in an abstract pixel canvas; the
// terminal view is a scaled projection of it, so layouts saved here match
// the sizes other frontends use.
package overlay

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nyk-lgtm/tli-tracker/pkg/bridge"
	"github.com/nyk-lgtm/tli-tracker/pkg/config"
	"github.com/nyk-lgtm/tli-tracker/pkg/editmode"
	"github.com/nyk-lgtm/tli-tracker/pkg/geometry"
	"github.com/nyk-lgtm/tli-tracker/pkg/registry"
	"github.com/nyk-lgtm/tli-tracker/pkg/settings"
	"github.com/nyk-lgtm/tli-tracker/pkg/snap"
	"github.com/nyk-lgtm/tli-tracker/pkg/theme"
	"github.com/nyk-lgtm/tli-tracker/pkg/track"
)

const (
	rpcTimeout  = 5 * time.Second
	opacityStep = 0.05
)

// errOffline is returned by host calls attempted without a connection.
var errOffline = errors.New("not connected to host")

// hostLink holds the current bridge client behind a mutex so closures
// created at startup keep working across reconnects.
type hostLink struct {
	mu     sync.Mutex
	client *bridge.Client
}

func (l *hostLink) set(c *bridge.Client) {
	l.mu.Lock()
	l.client = c
	l.mu.Unlock()
}

func (l *hostLink) get() *bridge.Client {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.client
}

func (l *hostLink) saveLayout(widgets []settings.WidgetLayout) error {
	c := l.get()
	if c == nil {
		return errOffline
	}
	ctx, cancel := context.WithTimeout(context.Background(), rpcTimeout)
	defer cancel()
	return c.SaveWidgetLayout(ctx, widgets)
}

// Messages delivered into the update loop.
type (
	tickMsg      time.Time
	connectedMsg struct {
		client *bridge.Client
		err    error
	}
	hostEventMsg  bridge.Event
	hostClosedMsg struct{}
	settingsMsg   settings.Settings
	rpcErrMsg     struct{ err error }
)

// Model is the root bubbletea model for one overlay window.
type Model struct {
	cfg  *config.Config
	log  *slog.Logger
	link *hostLink

	store    *registry.Store
	renderer *registry.Renderer
	bounds   *geometry.LiveBounds
	ctrl     *editmode.Controller

	settings settings.Settings
	keys     keyMap
	help     help.Model
	styles   styles

	width, height int
	connected     bool
	showHelp      bool
	status        string
}

// New builds an overlay model. The model starts offline with the default
// layout and replaces it once the host connection delivers settings.
func New(cfg *config.Config, log *slog.Logger) *Model {
	if log == nil {
		log = slog.Default()
	}
	defaults := settings.Default()
	defaults.Widgets = registry.DefaultLayout()

	store := registry.NewStore()
	store.Load(defaults.Widgets)

	bounds := geometry.NewLiveBounds(geometry.Size{
		Width:  cfg.Canvas.Width,
		Height: cfg.Canvas.Height,
	})
	link := &hostLink{}
	ctrl := editmode.New(store, bounds, snap.NewEngine(store.Widgets),
		func() error { return link.saveLayout(store.Snapshot()) }, log)

	if cfg.General.ThemeFile != "" {
		if th, err := theme.LoadFile(cfg.General.ThemeFile); err != nil {
			log.Warn("theme file rejected", "path", cfg.General.ThemeFile, "error", err)
		} else {
			log.Info("loaded theme", "name", th.Name)
		}
	}
	th := theme.Get(cfg.General.Theme)

	return &Model{
		cfg:      cfg,
		log:      log,
		link:     link,
		store:    store,
		renderer: registry.NewRenderer(defaults, th),
		bounds:   bounds,
		ctrl:     ctrl,
		settings: defaults,
		keys:     newKeyMap(defaults.EditModeHotkey),
		help:     help.New(),
		styles:   newStyles(th),
	}
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.dialCmd(), m.tickCmd())
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		return m, nil

	case tickMsg:
		m.renderer.Tick()
		return m, m.tickCmd()

	case connectedMsg:
		return m.updateConnection(msg)

	case hostEventMsg:
		return m.updateHostEvent(bridge.Event(msg))

	case settingsMsg:
		m.applySettings(settings.Settings(msg))
		return m, nil

	case hostClosedMsg:
		m.connected = false
		m.link.set(nil)
		m.status = "host connection lost, retrying"
		return m, m.redialCmd()

	case rpcErrMsg:
		m.log.Warn("host request failed", "error", msg.err)
		m.status = msg.err.Error()
		return m, nil

	case tea.KeyMsg:
		return m.updateKey(msg)

	case tea.MouseMsg:
		m.updateMouse(tea.MouseEvent(msg))
		return m, nil
	}
	return m, nil
}

func (m *Model) updateConnection(msg connectedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.log.Warn("host dial failed", "error", msg.err)
		m.status = "host unreachable, retrying"
		return m, m.redialCmd()
	}
	m.link.set(msg.client)
	m.connected = true
	m.status = ""
	m.log.Info("connected to host")

	// Tell the host what canvas this window lays out against.
	client, size := msg.client, m.bounds.Size()
	announce := func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), rpcTimeout)
		defer cancel()
		if err := client.ResizeOverlay(ctx, size.Width, size.Height); err != nil {
			return rpcErrMsg{err}
		}
		return nil
	}
	return m, tea.Batch(m.fetchSettingsCmd(), announce, m.listenCmd(msg.client))
}

func (m *Model) updateHostEvent(ev bridge.Event) (tea.Model, tea.Cmd) {
	client := m.link.get()
	switch ev.Name {
	case bridge.EventState:
		st, err := track.Decode(ev.Data)
		if err != nil {
			m.log.Warn("malformed state push", "error", err)
		}
		m.renderer.ApplyState(st)

	case bridge.EventSettingsUpdate, bridge.EventSettingsReset:
		var cfg settings.Settings
		if err := json.Unmarshal(ev.Data, &cfg); err != nil {
			m.log.Warn("malformed settings push", "error", err)
			break
		}
		m.applySettings(cfg)

	case bridge.EventBroadcast:
		// A sibling window changed something; re-pull settings.
		return m, tea.Batch(m.fetchSettingsCmd(), m.listenCmd(client))

	case bridge.EventEditMode:
		var p bridge.EditModePayload
		if err := json.Unmarshal(ev.Data, &p); err != nil {
			m.log.Warn("malformed edit_mode push", "error", err)
			break
		}
		m.ctrl.SetEnabled(p.Enabled)
	}
	return m, m.listenCmd(client)
}

func (m *Model) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		if m.ctrl.Enabled() {
			m.ctrl.SetEnabled(false)
		}
		return m, tea.Quit

	case key.Matches(msg, m.keys.ToggleEdit):
		m.ctrl.SetEnabled(!m.ctrl.Enabled())
		return m, nil

	case key.Matches(msg, m.keys.Help):
		m.showHelp = !m.showHelp
		return m, nil

	case key.Matches(msg, m.keys.AddWidget):
		if !m.ctrl.Enabled() {
			return m, nil
		}
		return m, m.addWidget()

	case key.Matches(msg, m.keys.OpacityUp):
		return m, m.adjustOpacity(opacityStep)

	case key.Matches(msg, m.keys.OpacityDown):
		return m, m.adjustOpacity(-opacityStep)
	}
	return m, nil
}

// updateMouse feeds terminal mouse events into the gesture controller,
// translating cell coordinates to canvas pixels.
func (m *Model) updateMouse(ev tea.MouseEvent) {
	if !m.ctrl.Enabled() || m.width <= 0 || m.height <= 1 {
		return
	}
	// The bottom row is the status bar, not canvas.
	proj := newProjection(m.bounds.Size(), m.width, m.height-1)
	pt := proj.toCanvas(ev.X, ev.Y)

	switch ev.Action {
	case tea.MouseActionPress:
		if ev.Button != tea.MouseButtonLeft {
			return
		}
		mod := editmode.ModNone
		if ev.Ctrl {
			mod = editmode.ModToggle
		}
		m.ctrl.PointerDown(pt, mod)
	case tea.MouseActionMotion:
		m.ctrl.PointerMove(pt)
	case tea.MouseActionRelease:
		m.ctrl.PointerUp()
	}
}

// applySettings installs a new settings document. Widget geometry is left
// alone mid-gesture so a host push cannot yank a widget out from under the
// cursor.
func (m *Model) applySettings(cfg settings.Settings) {
	m.settings = cfg
	m.renderer.ApplySettings(cfg)
	m.keys = newKeyMap(cfg.EditModeHotkey)
	if m.ctrl.Phase() <= editmode.PhaseIdle {
		m.store.Load(cfg.Widgets)
	}
}

// addWidget adds an instance of the least-represented widget type at its
// default position and persists the new layout.
func (m *Model) addWidget() tea.Cmd {
	counts := make(map[string]int)
	for _, w := range m.store.All() {
		counts[w.Type]++
	}
	types := registry.Types()
	chosen := types[0]
	for _, typ := range types {
		if counts[typ] < counts[chosen] {
			chosen = typ
		}
	}
	w := m.store.Add(chosen, true)
	m.status = fmt.Sprintf("added %s", w.Type)

	layout := m.store.Snapshot()
	return func() tea.Msg {
		if err := m.link.saveLayout(layout); err != nil {
			return rpcErrMsg{fmt.Errorf("save layout: %w", err)}
		}
		return nil
	}
}

// adjustOpacity nudges the overlay opacity and pushes it to the host. The
// terminal cannot actually blend, so the local effect is display only.
func (m *Model) adjustOpacity(delta float64) tea.Cmd {
	next := geometry.Clamp(m.settings.OverlayOpacity+delta, 0.2, 1.0)
	m.settings.OverlayOpacity = next
	m.status = fmt.Sprintf("opacity %.0f%%", next*100)

	link := m.link
	return func() tea.Msg {
		c := link.get()
		if c == nil {
			return rpcErrMsg{errOffline}
		}
		ctx, cancel := context.WithTimeout(context.Background(), rpcTimeout)
		defer cancel()
		if err := c.SetOverlayOpacity(ctx, next); err != nil {
			return rpcErrMsg{err}
		}
		return nil
	}
}

func (m *Model) tickCmd() tea.Cmd {
	interval := m.cfg.Host.StateInterval.Duration
	if interval <= 0 {
		interval = time.Second
	}
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m *Model) dialCmd() tea.Cmd {
	url := m.cfg.Host.URL
	log := m.log
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), rpcTimeout)
		defer cancel()
		client, err := bridge.Dial(ctx, url, log)
		return connectedMsg{client: client, err: err}
	}
}

func (m *Model) redialCmd() tea.Cmd {
	retry := m.cfg.Host.DialRetry.Duration
	if retry <= 0 {
		retry = 3 * time.Second
	}
	dial := m.dialCmd()
	return tea.Tick(retry, func(time.Time) tea.Msg {
		return dial()
	})
}

func (m *Model) fetchSettingsCmd() tea.Cmd {
	link := m.link
	return func() tea.Msg {
		c := link.get()
		if c == nil {
			return rpcErrMsg{errOffline}
		}
		ctx, cancel := context.WithTimeout(context.Background(), rpcTimeout)
		defer cancel()
		cfg, err := c.GetSettings(ctx)
		if err != nil {
			return rpcErrMsg{fmt.Errorf("get settings: %w", err)}
		}
		return settingsMsg(cfg)
	}
}

// listenCmd waits for the next host push. It re-arms itself from Update
// after each delivered event.
func (m *Model) listenCmd(client *bridge.Client) tea.Cmd {
	if client == nil {
		return nil
	}
	return func() tea.Msg {
		ev, ok := <-client.Events()
		if !ok {
			return hostClosedMsg{}
		}
		return hostEventMsg(ev)
	}
}
