// Package httpapi is the localhost surface a desktop shell talks to: start
// and cancel runs, poll status, stream progress events.
package httpapi

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"jobinsights-engine/internal/config"
	"jobinsights-engine/internal/directory"
	"jobinsights-engine/internal/events"
	"jobinsights-engine/internal/fetch"
	"jobinsights-engine/internal/session"
)

type Server struct {
	Cfg    config.Config
	Runner *session.Runner
	Dir    *directory.Directory
	Hub    *events.Hub
}

func (s *Server) Routes(mux *http.ServeMux) {
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/directory", s.handleDirectory)
	mux.HandleFunc("/search", s.handleSearch)
	mux.HandleFunc("/cancel", s.handleCancel)
	mux.HandleFunc("/status", s.handleStatus)
	mux.HandleFunc("/events", s.handleEvents)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]any{"ok": true})
}

func (s *Server) handleDirectory(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]any{
		"regions":     s.Dir.RegionNames(),
		"sort_orders": s.Dir.SortOrders(),
	})
}

type searchRequest struct {
	Query          string `json:"query"`
	Region         string `json:"region"`
	Pages          int    `json:"pages"`
	Period         string `json:"period"` // raw user input; invalid resets to 365
	OnlyWithSalary bool   `json:"only_with_salary"`
	OrderBy        string `json:"order_by"`
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "POST only", http.StatusMethodNotAllowed)
		return
	}
	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad request body", http.StatusBadRequest)
		return
	}
	p := session.Params{
		Query:          req.Query,
		Region:         req.Region,
		Pages:          config.ClampPages(req.Pages),
		Period:         config.NormalizePeriod(req.Period),
		OnlyWithSalary: req.OnlyWithSalary,
		OrderBy:        req.OrderBy,
	}

	// Claiming here makes the run slot and its token one atomic handover; a
	// concurrent request gets the 409 instead of clobbering the live token.
	if err := s.Runner.Claim(fetch.NewCancelToken()); err != nil {
		http.Error(w, "search already running", http.StatusConflict)
		return
	}

	runID := uuid.NewString()
	notif := hubNotifier{hub: s.Hub, runID: runID}

	go func() {
		res, err := s.Runner.RunClaimed(context.Background(), p, notif)
		if err != nil {
			s.Hub.Publish(events.NewEvent(runID, "search_done", 1, events.DoneData{
				Outcome: res.Outcome,
				Error:   err.Error(),
			}))
		}
	}()

	writeJSON(w, map[string]any{"ok": true, "run_id": runID, "period": p.Period})
}

func (s *Server) handleCancel(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "POST only", http.StatusMethodNotAllowed)
		return
	}
	if !s.Runner.Cancel() {
		http.Error(w, "no run to cancel", http.StatusConflict)
		return
	}
	writeJSON(w, map[string]any{"ok": true})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.Runner.Status())
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	// Server-Sent Events
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	ch := s.Hub.Subscribe()
	defer s.Hub.Unsubscribe(ch)

	writeSSE(w, "ping", `{"type":"ping"}`)
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case evt := <-ch:
			writeSSE(w, "message", evt.Encode())
			flusher.Flush()
		}
	}
}

// hubNotifier adapts session notifications onto the event hub.
type hubNotifier struct {
	hub   *events.Hub
	runID string
}

func (h hubNotifier) Progress(percent int, title string) {
	h.hub.Publish(events.NewEvent(h.runID, "search_progress", 1, events.ProgressData{
		Percent: percent,
		Title:   title,
	}))
}

func (h hubNotifier) Done(res session.Result) {
	data := events.DoneData{Outcome: res.Outcome, File: res.File, Rows: res.Rows}
	if res.Err != nil {
		data.Error = res.Err.Error()
	}
	h.hub.Publish(events.NewEvent(h.runID, "search_done", 1, data))
}
