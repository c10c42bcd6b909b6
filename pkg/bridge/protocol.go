// Package bridge implements the overlay's connection to the host process:
// an asynchronous request/response channel plus host-to-overlay event
// pushes, carried as JSON over a single WebSocket.
//
// Wire format, one JSON object per message:
//
//	{"id": 7, "method": "get_settings", "params": {...}}   client request
//	{"id": 7, "result": {...}}                             host response
//	{"id": 7, "error": "..."}                              host failure
//	{"event": "state", "data": {...}}                      host push
//
// Requests and responses correlate by id; pushes have no id and may arrive
// at any time.
package bridge

import "encoding/json"

// Host push event names.
const (
	EventState          = "state"
	EventSettingsUpdate = "settings_update"
	EventSettingsReset  = "settings_reset"
	EventEditMode       = "edit_mode"
	// EventBroadcast is the cross-window settings signal: an opaque
	// "update" marker telling sibling windows to re-pull settings rather
	// than carrying the new settings inline.
	EventBroadcast = "broadcast"
)

// Request method names.
const (
	MethodGetSettings       = "get_settings"
	MethodSaveWidgetLayout  = "save_widget_layout"
	MethodSetOverlayOpacity = "set_overlay_opacity"
	MethodResetSettings     = "reset_settings"
	MethodResizeOverlay     = "resize_overlay"
	MethodStartDrag         = "start_drag"
	MethodPing              = "ping"
)

// Envelope is the single wire message shape; unused fields stay empty.
type Envelope struct {
	ID     uint64          `json:"id,omitempty"`
	Method string          `json:"method,omitempty"`
	Params json.RawMessage `json:"params,omitempty"`
	Result json.RawMessage `json:"result,omitempty"`
	Error  string          `json:"error,omitempty"`
	Event  string          `json:"event,omitempty"`
	Data   json.RawMessage `json:"data,omitempty"`
}

// Event is a host push delivered to the overlay's event channel.
type Event struct {
	Name string
	Data json.RawMessage
}

// EditModePayload is the data of an edit_mode push.
type EditModePayload struct {
	Enabled bool `json:"enabled"`
}

// ResizeParams is the params of a resize_overlay request.
type ResizeParams struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// OpacityParams is the params of a set_overlay_opacity request.
type OpacityParams struct {
	Opacity float64 `json:"opacity"`
}

// Status is the generic host response body for side-effect methods.
type Status struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// OK reports whether the host accepted the request.
func (s Status) OK() bool {
	return s.Status == "ok"
}
