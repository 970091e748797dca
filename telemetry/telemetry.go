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

// Package telemetry records structured events for every decision the lookup
// pipeline makes: state transitions, provider calls, cache hits, retries and
// cancellations. Events go to an in-memory ring buffer and optionally to an
// external sink. The recorder handle is passed explicitly; there is no
// module-level global.
package telemetry

import (
	"sync"
	"time"
)

// DefaultRingSize is the number of events the ring buffer retains.
const DefaultRingSize = 10000

// Event types emitted by the pipeline.
const (
	TypeStateTransition    = "state_transition"
	TypeClassifierDecision = "classifier_decision"
	TypeProviderStart      = "provider_call_start"
	TypeProviderFinish     = "provider_call_finish"
	TypeProviderDisabled   = "provider_disabled"
	TypeCacheHit           = "cache_hit"
	TypeCacheMiss          = "cache_miss"
	TypeRetry              = "retry"
	TypeCancelled          = "cancelled"
	TypeInventory          = "inventory_collected"
)

// Event is one structured telemetry record.
type Event struct {
	Time      time.Time      `json:"time"`
	SessionID string         `json:"session_id"`
	RequestID string         `json:"request_id"`
	Component string         `json:"component"`
	Type      string         `json:"type"`
	Payload   map[string]any `json:"payload,omitempty"`
}

// Sink receives every event in addition to the ring buffer. Implementations
// must be safe for concurrent use.
type Sink interface {
	Emit(Event)
}

// Recorder is the append-only event log. Safe for concurrent use: a single
// producer lock guards writes, readers get point-in-time snapshots.
type Recorder struct {
	mu   sync.Mutex
	ring []Event
	next int
	full bool
	sink Sink
	now  func() time.Time
}

// NewRecorder creates a Recorder with the given ring size (DefaultRingSize
// if zero or negative) and an optional external sink.
func NewRecorder(size int, sink Sink) *Recorder {
	if size <= 0 {
		size = DefaultRingSize
	}
	return &Recorder{ring: make([]Event, size), sink: sink, now: time.Now}
}

// Record appends one event, stamping the current time.
func (r *Recorder) Record(sessionID, requestID, component, eventType string, payload map[string]any) {
	ev := Event{
		Time:      r.now(),
		SessionID: sessionID,
		RequestID: requestID,
		Component: component,
		Type:      eventType,
		Payload:   payload,
	}
	r.mu.Lock()
	r.ring[r.next] = ev
	r.next++
	if r.next == len(r.ring) {
		r.next = 0
		r.full = true
	}
	sink := r.sink
	r.mu.Unlock()
	if sink != nil {
		sink.Emit(ev)
	}
}

// snapshot returns the buffered events oldest-first.
func (r *Recorder) snapshot() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.full {
		out := make([]Event, r.next)
		copy(out, r.ring[:r.next])
		return out
	}
	out := make([]Event, 0, len(r.ring))
	out = append(out, r.ring[r.next:]...)
	out = append(out, r.ring[:r.next]...)
	return out
}

// LastN returns up to n most recent events for a session, oldest-first.
// A session id of "" matches all sessions.
func (r *Recorder) LastN(sessionID string, n int) []Event {
	all := r.snapshot()
	var matched []Event
	for _, ev := range all {
		if sessionID == "" || ev.SessionID == sessionID {
			matched = append(matched, ev)
		}
	}
	if n > 0 && len(matched) > n {
		matched = matched[len(matched)-n:]
	}
	return matched
}

// CountByType returns how many buffered events carry the given type,
// optionally restricted to one session. Used by tests and health checks.
func (r *Recorder) CountByType(sessionID, eventType string) int {
	count := 0
	for _, ev := range r.snapshot() {
		if eventType != "" && ev.Type != eventType {
			continue
		}
		if sessionID != "" && ev.SessionID != sessionID {
			continue
		}
		count++
	}
	return count
}
