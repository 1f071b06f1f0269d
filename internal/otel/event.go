// Package otel records structured events for releasebase.
//
// Events are typed structs serialized as JSONL lines. The Logger writes them
// asynchronously through a buffered channel drained by one goroutine; an
// optional RingBuffer keeps the most recent ones in memory for the debug
// overlay.
package otel

import (
	"encoding/json"
	"time"
)

// Level defines event severity for filtering.
type Level string

const (
	LevelDebug Level = "debug"
	LevelInfo  Level = "info"
	LevelWarn  Level = "warn"
	LevelError Level = "error"
)

// EventKind identifies the category of an event.
// Dot-delimited: "<subsystem>.<action>".
type EventKind string

const (
	// Bulk document fetch
	KindFetchStart    EventKind = "fetch.start"
	KindFetchComplete EventKind = "fetch.complete"
	KindFetchError    EventKind = "fetch.error"
	KindFetchTimeout  EventKind = "fetch.timeout"
	KindFetchStale    EventKind = "fetch.stale"
	KindFetchCancel   EventKind = "fetch.cancel"

	// Side loads
	KindPeopleLoaded   EventKind = "people.loaded"
	KindPeopleError    EventKind = "people.error"
	KindStatsLoaded    EventKind = "stats.loaded"
	KindStatsError     EventKind = "stats.error"
	KindManifestLoaded EventKind = "manifest.loaded"
	KindManifestError  EventKind = "manifest.error"

	// Normalization
	KindNormalizeSkip EventKind = "normalize.skip"

	// UI
	KindTabChange EventKind = "ui.tab"
	KindKeyPress  EventKind = "ui.key"
	KindFacet     EventKind = "ui.facet"
	KindModal     EventKind = "ui.modal"

	// System
	KindStartup  EventKind = "sys.startup"
	KindShutdown EventKind = "sys.shutdown"
	KindError    EventKind = "sys.error"

	// Trace, only emitted when RELEASEBASE_TRACE is set
	KindMsgReceived EventKind = "trace.msg_received"
	KindMsgHandled  EventKind = "trace.msg_handled"
)

// Event is one observability record. Every field except Kind and Time is
// optional. Serialized as a single JSONL line.
type Event struct {
	Time      time.Time      `json:"t"`
	Level     Level          `json:"level,omitempty"`
	Kind      EventKind      `json:"kind"`
	Comp      string         `json:"comp,omitempty"` // "ui", "api", "main", "rb"
	SessionID string         `json:"session_id,omitempty"`
	RequestID string         `json:"rid,omitempty"` // bulk fetch correlation id
	Tab       string         `json:"tab,omitempty"`
	Dur       time.Duration  `json:"-"`
	DurMs     float64        `json:"dur_ms,omitempty"` // computed from Dur at marshal time
	Count     int            `json:"count,omitempty"`
	Query     string         `json:"query,omitempty"`
	Err       string         `json:"err,omitempty"`
	Msg       string         `json:"msg,omitempty"`
	Extra     map[string]any `json:"extra,omitempty"`
}

// MarshalJSON implements json.Marshaler, converting Dur to DurMs.
func (e Event) MarshalJSON() ([]byte, error) {
	type alias Event
	a := alias(e)
	if e.Dur > 0 {
		a.DurMs = float64(e.Dur) / float64(time.Millisecond)
	}
	return json.Marshal(a)
}

// Duration returns Dur, falling back to DurMs for decoded events.
func (e Event) Duration() time.Duration {
	if e.Dur > 0 {
		return e.Dur
	}
	return time.Duration(e.DurMs * float64(time.Millisecond))
}
