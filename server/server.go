// Copyright 2025 The eolscout Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package server exposes the chat API over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/eolscout/eolscout"
	"github.com/eolscout/eolscout/fingerprint"
	"github.com/eolscout/eolscout/log"
	"github.com/eolscout/eolscout/lookup"
	"github.com/eolscout/eolscout/report"
	"github.com/eolscout/eolscout/telemetry"
)

// maxChatBody caps the request body size.
const maxChatBody = 64 << 10

// ChatRequest is the POST /api/v1/chat body.
type ChatRequest struct {
	SessionID string `json:"session_id"`
	Message   string `json:"message"`
	// TimeoutSeconds shortens the request deadline when positive. It can
	// not extend it past the configured maximum.
	TimeoutSeconds int `json:"timeout_seconds,omitempty"`
	// Confirm acknowledges a destructive-sounding request; confirmed=false
	// returns a refusal without executing anything.
	Confirm *ConfirmPayload `json:"confirm,omitempty"`
	// IncludeEvents echoes this request's telemetry in the response.
	IncludeEvents bool `json:"include_events,omitempty"`
}

// ConfirmPayload is the confirmation handshake for destructive requests.
type ConfirmPayload struct {
	Confirmed       bool   `json:"confirmed"`
	OriginalMessage string `json:"original_message"`
}

// refusalMarkdown answers a declined confirmation.
const refusalMarkdown = "Request was not confirmed. Nothing was executed."

// ChatResponse is the chat answer.
type ChatResponse struct {
	RequestID string `json:"request_id,omitempty"`
	SessionID string `json:"session_id"`
	Intent    string `json:"intent,omitempty"`
	Task      string `json:"task,omitempty"`
	Markdown  string `json:"markdown"`
	// Report holds the per-asset outcomes behind the markdown.
	Report []ReportItem `json:"report,omitempty"`
	// Events is this request's telemetry, present when asked for.
	Events []telemetry.Event `json:"events,omitempty"`
}

// ReportItem is one asset row of the structured report.
type ReportItem struct {
	Name       string  `json:"name"`
	Version    string  `json:"version,omitempty"`
	Status     string  `json:"status,omitempty"`
	Risk       string  `json:"risk,omitempty"`
	EOLDate    string  `json:"eol_date,omitempty"`
	Confidence float64 `json:"confidence,omitempty"`
	Source     string  `json:"source,omitempty"`
	SourceURL  string  `json:"source_url,omitempty"`
	Error      string  `json:"error,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// Server routes HTTP requests to the Scout.
type Server struct {
	scout  *eolscout.Scout
	mux    *mux.Router
	reqs   *prometheus.CounterVec
	durs   *prometheus.HistogramVec
	purges prometheus.Counter
}

// New builds the Server and registers its metrics with the registerer
// (prometheus.DefaultRegisterer in production; tests pass their own).
func New(scout *eolscout.Scout, reg prometheus.Registerer) *Server {
	s := &Server{
		scout: scout,
		mux:   mux.NewRouter(),
		reqs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "eolscout_chat_requests_total",
			Help: "Chat requests by intent and outcome.",
		}, []string{"intent", "outcome"}),
		durs: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "eolscout_chat_duration_seconds",
			Help:    "Chat request latency.",
			Buckets: prometheus.ExponentialBuckets(0.05, 2, 12),
		}, []string{"intent"}),
		purges: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "eolscout_cache_purges_total",
			Help: "Cache purge requests.",
		}),
	}
	reg.MustRegister(s.reqs, s.durs, s.purges)

	s.mux.HandleFunc("/api/v1/chat", s.handleChat).Methods(http.MethodPost)
	s.mux.HandleFunc("/api/v1/health", s.handleHealth).Methods(http.MethodGet)
	s.mux.HandleFunc("/api/v1/cache/purge", s.handlePurge).Methods(http.MethodPost)
	s.mux.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)
	return s
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler { return s.mux }

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxChatBody))
	if err := dec.Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
		return
	}
	if req.Message == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "message is required"})
		return
	}
	if req.SessionID == "" {
		req.SessionID = "anonymous"
	}
	if req.Confirm != nil {
		if !req.Confirm.Confirmed {
			writeJSON(w, http.StatusOK, ChatResponse{SessionID: req.SessionID, Markdown: refusalMarkdown})
			return
		}
		if req.Confirm.OriginalMessage != "" {
			req.Message = req.Confirm.OriginalMessage
		}
	}
	ctx := r.Context()
	if req.TimeoutSeconds > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(req.TimeoutSeconds)*time.Second)
		defer cancel()
	}

	start := time.Now()
	resp, err := s.scout.Run(ctx, req.SessionID, req.Message)
	if err != nil {
		s.reqs.WithLabelValues("unknown", "error").Inc()
		status := http.StatusInternalServerError
		switch {
		case errors.Is(err, eolscout.ErrNoTargets):
			status = http.StatusBadRequest
		case errors.Is(err, context.DeadlineExceeded):
			status = http.StatusGatewayTimeout
		}
		log.Warnf("chat request failed: %v", err)
		writeJSON(w, status, errorResponse{Error: err.Error()})
		return
	}
	s.reqs.WithLabelValues(string(resp.Intent), "ok").Inc()
	s.durs.WithLabelValues(string(resp.Intent)).Observe(time.Since(start).Seconds())

	out := ChatResponse{
		RequestID: resp.RequestID,
		SessionID: resp.SessionID,
		Intent:    string(resp.Intent),
		Task:      string(resp.Task),
		Markdown:  resp.Markdown,
		Report:    reportItems(resp.Items),
	}
	if req.IncludeEvents {
		out.Events = requestEvents(s.scout.Recorder(), resp.SessionID, resp.RequestID)
	}
	writeJSON(w, http.StatusOK, out)
}

// reportItems flattens lookup outcomes into the wire report rows.
func reportItems(items []report.Item) []ReportItem {
	var out []ReportItem
	for _, it := range items {
		row := ReportItem{
			Name:    it.Fingerprint.Name,
			Version: it.Fingerprint.Version,
		}
		if it.Err != nil {
			row.Error = string(lookup.KindOf(it.Err))
		} else {
			row.Status = string(it.Result.Status)
			row.Risk = string(it.Result.Risk)
			row.Confidence = it.Result.Confidence
			row.Source = it.Result.Source
			row.SourceURL = it.Result.SourceURL
			if it.Result.EOLDate != nil {
				row.EOLDate = it.Result.EOLDate.Format("2006-01-02")
			}
		}
		out = append(out, row)
	}
	return out
}

// requestEvents pulls one request's telemetry out of the session ring.
func requestEvents(rec *telemetry.Recorder, sessionID, requestID string) []telemetry.Event {
	if rec == nil {
		return nil
	}
	var out []telemetry.Event
	for _, ev := range rec.LastN(sessionID, telemetry.DefaultRingSize) {
		if ev.RequestID == requestID {
			out = append(out, ev)
		}
	}
	return out
}

// HealthResponse is the GET /api/v1/health body.
type HealthResponse struct {
	OK        bool                      `json:"ok"`
	Version   string                    `json:"version"`
	Providers []eolscout.ProviderStatus `json:"providers"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		OK:        true,
		Version:   eolscout.Version,
		Providers: s.scout.ProviderStatuses(),
	})
}

// PurgeRequest optionally narrows the purge to one product. An empty body
// purges everything.
type PurgeRequest struct {
	Name    string `json:"name"`
	Version string `json:"version"`
	Kind    string `json:"kind"`
}

func (s *Server) handlePurge(w http.ResponseWriter, r *http.Request) {
	var req PurgeRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxChatBody))
	if err := dec.Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
		return
	}
	var (
		n   int
		err error
	)
	if req.Name != "" {
		kind := fingerprint.Kind(req.Kind)
		if kind == "" {
			kind = fingerprint.KindSoftware
		}
		n, err = s.scout.PurgeEntry(fingerprint.New(req.Name, req.Version, kind))
	} else {
		n, err = s.scout.Purge()
	}
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}
	s.purges.Inc()
	writeJSON(w, http.StatusOK, map[string]int{"deleted": n})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Errorf("encoding response: %v", err)
	}
}
