package events

import (
	"encoding/json"
	"time"
)

type Event struct {
	Type    string          `json:"type"`
	Version int             `json:"v"`
	At      time.Time       `json:"at"`
	RunID   string          `json:"run_id,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// ProgressData is the payload of a "search_progress" event.
type ProgressData struct {
	Percent int    `json:"percent"`
	Title   string `json:"title"`
}

// DoneData is the payload of a "search_done" event.
type DoneData struct {
	Outcome string `json:"outcome"`
	File    string `json:"file,omitempty"`
	Rows    int    `json:"rows"`
	Error   string `json:"error,omitempty"`
}

// NewEvent stamps an envelope around a payload.
func NewEvent(runID, typ string, v int, data any) Event {
	var raw json.RawMessage
	if data != nil {
		b, _ := json.Marshal(data)
		raw = b
	}
	return Event{
		Type:    typ,
		Version: v,
		At:      time.Now().UTC(),
		RunID:   runID,
		Data:    raw,
	}
}

// Encode renders the event as the JSON line sent over SSE.
func (e Event) Encode() string {
	b, _ := json.Marshal(e)
	return string(b)
}
