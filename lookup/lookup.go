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

// Package lookup defines the uniform result record produced by every EOL
// provider, together with the status/risk derivation rules and the error
// taxonomy shared across the lookup pipeline.
package lookup

import (
	"fmt"
	"time"
)

// Status is the support status of a software cycle.
type Status string

// Status values.
const (
	StatusActive         Status = "active"
	StatusApproachingEOL Status = "approaching_eol"
	StatusEndOfLife      Status = "end_of_life"
	StatusUnknown        Status = "unknown"
)

// Risk is the operational risk level derived from the EOL date.
type Risk string

// Risk values.
const (
	RiskLow      Risk = "low"
	RiskMedium   Risk = "medium"
	RiskHigh     Risk = "high"
	RiskCritical Risk = "critical"
	RiskUnknown  Risk = "unknown"
)

// Label is the human readable support posture shown in reports.
type Label string

// Label values.
const (
	LabelEndOfLife      Label = "End of Life"
	LabelCriticalSoon   Label = "Critical – EOL Soon"
	LabelHighRisk       Label = "High Risk"
	LabelMediumRisk     Label = "Medium Risk"
	LabelActiveSupport  Label = "Active Support"
	LabelUnknownSupport Label = "Unknown"
)

// Result is the record every provider produces. All optional fields use
// pointer or zero values; Success implies at least one of EOLDate or
// SupportEndDate is set, or Extra carries a cycle record.
type Result struct {
	Success        bool           `json:"success"`
	SoftwareName   string         `json:"software_name"`
	Version        string         `json:"version,omitempty"`
	EOLDate        *time.Time     `json:"eol_date,omitempty"`
	SupportEndDate *time.Time     `json:"support_end_date,omitempty"`
	ReleaseDate    *time.Time     `json:"release_date,omitempty"`
	LatestVersion  string         `json:"latest_version,omitempty"`
	Status         Status         `json:"status"`
	Risk           Risk           `json:"risk"`
	Label          Label          `json:"label,omitempty"`
	Confidence     float64        `json:"confidence"`
	Source         string         `json:"source"`
	SourceURL      string         `json:"source_url,omitempty"`
	FetchedAt      time.Time      `json:"fetched_at"`
	Extra          map[string]any `json:"extra,omitempty"`
}

// Derive returns the status, risk and label for an EOL date relative to now,
// per the fixed derivation table. A nil date yields the unknown triple.
func Derive(eol *time.Time, now time.Time) (Status, Risk, Label) {
	if eol == nil {
		return StatusUnknown, RiskUnknown, LabelUnknownSupport
	}
	days := int(eol.Sub(now).Hours() / 24)
	switch {
	case eol.Before(now) || eol.Equal(now):
		return StatusEndOfLife, RiskCritical, LabelEndOfLife
	case days < 90:
		return StatusApproachingEOL, RiskCritical, LabelCriticalSoon
	case days < 365:
		return StatusApproachingEOL, RiskHigh, LabelHighRisk
	case days < 730:
		return StatusActive, RiskMedium, LabelMediumRisk
	default:
		return StatusActive, RiskLow, LabelActiveSupport
	}
}

// Finalize fills in derived fields a provider left empty: status, risk and
// label from the EOL date, and the fetch timestamp.
func (r *Result) Finalize(now time.Time) {
	if r.Status == "" || r.Risk == "" {
		st, rk, lb := Derive(r.EOLDate, now)
		if r.Status == "" {
			r.Status = st
		}
		if r.Risk == "" {
			r.Risk = rk
		}
		if r.Label == "" {
			r.Label = lb
		}
	}
	if r.FetchedAt.IsZero() {
		r.FetchedAt = now
	}
}

// ErrorKind classifies provider failures. Only the transient kinds are
// retried; the rest advance the cascade or surface to the caller.
type ErrorKind string

// ErrorKind values.
const (
	ErrInputInvalid ErrorKind = "input_invalid"
	ErrNotSupported ErrorKind = "not_supported"
	ErrNotFound     ErrorKind = "not_found"
	ErrTransient    ErrorKind = "transient_network"
	ErrUpstream5xx  ErrorKind = "upstream_5xx"
	ErrTimeout      ErrorKind = "timeout"
	ErrParseFailure ErrorKind = "parse_failure"
	ErrDisabled     ErrorKind = "disabled"
	ErrCancelled    ErrorKind = "cancelled"
)

// Error is the failure type returned by providers and the plan executor.
type Error struct {
	Kind   ErrorKind
	Source string // provider id, if known
	Err    error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Source, e.Kind, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Source, e.Kind)
}

// Unwrap returns the wrapped cause.
func (e *Error) Unwrap() error { return e.Err }

// Retryable reports whether the orchestrator may retry this failure.
func (e *Error) Retryable() bool {
	switch e.Kind {
	case ErrTransient, ErrUpstream5xx, ErrTimeout:
		return true
	default:
		return false
	}
}

// NewError builds an Error with the given kind, source provider and cause.
func NewError(kind ErrorKind, source string, err error) *Error {
	return &Error{Kind: kind, Source: source, Err: err}
}

// KindOf extracts the error kind from an arbitrary error, defaulting to
// transient for plain errors so unexpected failures remain retryable.
func KindOf(err error) ErrorKind {
	if err == nil {
		return ""
	}
	if le, ok := err.(*Error); ok {
		return le.Kind
	}
	return ErrTransient
}

// Date parses a YYYY-MM-DD string into a *time.Time, returning nil when the
// string is empty or malformed. Providers use it when decoding cycle tables.
func Date(s string) *time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil
	}
	return &t
}
