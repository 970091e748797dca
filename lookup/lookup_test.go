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

package lookup_test

import (
	"errors"
	"testing"
	"time"

	"github.com/eolscout/eolscout/lookup"
	"github.com/google/go-cmp/cmp"
)

func TestDeriveBoundaries(t *testing.T) {
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	tests := []struct {
		name       string
		offsetDays int
		wantStatus lookup.Status
		wantRisk   lookup.Risk
		wantLabel  lookup.Label
	}{
		{name: "one-day-past", offsetDays: -1, wantStatus: lookup.StatusEndOfLife, wantRisk: lookup.RiskCritical, wantLabel: lookup.LabelEndOfLife},
		{name: "today", offsetDays: 0, wantStatus: lookup.StatusEndOfLife, wantRisk: lookup.RiskCritical, wantLabel: lookup.LabelEndOfLife},
		{name: "89-days", offsetDays: 89, wantStatus: lookup.StatusApproachingEOL, wantRisk: lookup.RiskCritical, wantLabel: lookup.LabelCriticalSoon},
		{name: "90-days", offsetDays: 90, wantStatus: lookup.StatusApproachingEOL, wantRisk: lookup.RiskHigh, wantLabel: lookup.LabelHighRisk},
		{name: "364-days", offsetDays: 364, wantStatus: lookup.StatusApproachingEOL, wantRisk: lookup.RiskHigh, wantLabel: lookup.LabelHighRisk},
		{name: "365-days", offsetDays: 365, wantStatus: lookup.StatusActive, wantRisk: lookup.RiskMedium, wantLabel: lookup.LabelMediumRisk},
		{name: "729-days", offsetDays: 729, wantStatus: lookup.StatusActive, wantRisk: lookup.RiskMedium, wantLabel: lookup.LabelMediumRisk},
		{name: "730-days", offsetDays: 730, wantStatus: lookup.StatusActive, wantRisk: lookup.RiskLow, wantLabel: lookup.LabelActiveSupport},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			eol := now.AddDate(0, 0, tt.offsetDays)
			st, rk, lb := lookup.Derive(&eol, now)
			if st != tt.wantStatus || rk != tt.wantRisk || lb != tt.wantLabel {
				t.Errorf("Derive(%+dd) = (%v, %v, %v), want (%v, %v, %v)",
					tt.offsetDays, st, rk, lb, tt.wantStatus, tt.wantRisk, tt.wantLabel)
			}
		})
	}
}

func TestDeriveNoDate(t *testing.T) {
	st, rk, lb := lookup.Derive(nil, time.Now())
	if st != lookup.StatusUnknown || rk != lookup.RiskUnknown || lb != lookup.LabelUnknownSupport {
		t.Errorf("Derive(nil) = (%v, %v, %v), want unknowns", st, rk, lb)
	}
}

func TestFinalize(t *testing.T) {
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	eol := now.AddDate(3, 0, 0)
	r := lookup.Result{Success: true, SoftwareName: "postgresql", EOLDate: &eol}
	r.Finalize(now)
	want := lookup.Result{
		Success:      true,
		SoftwareName: "postgresql",
		EOLDate:      &eol,
		Status:       lookup.StatusActive,
		Risk:         lookup.RiskLow,
		Label:        lookup.LabelActiveSupport,
		FetchedAt:    now,
	}
	if diff := cmp.Diff(want, r); diff != "" {
		t.Errorf("Finalize() returned unexpected diff (-want +got):\n%s", diff)
	}
}

func TestFinalizeKeepsProviderStatus(t *testing.T) {
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	r := lookup.Result{Success: true, Status: lookup.StatusEndOfLife, Risk: lookup.RiskCritical, Label: lookup.LabelEndOfLife}
	r.Finalize(now)
	if r.Status != lookup.StatusEndOfLife || r.Risk != lookup.RiskCritical {
		t.Errorf("Finalize() overwrote provider-supplied status: %+v", r)
	}
}

func TestErrorRetryable(t *testing.T) {
	tests := []struct {
		kind lookup.ErrorKind
		want bool
	}{
		{lookup.ErrTransient, true},
		{lookup.ErrUpstream5xx, true},
		{lookup.ErrTimeout, true},
		{lookup.ErrNotFound, false},
		{lookup.ErrNotSupported, false},
		{lookup.ErrParseFailure, false},
		{lookup.ErrDisabled, false},
		{lookup.ErrCancelled, false},
	}
	for _, tt := range tests {
		e := lookup.NewError(tt.kind, "test", nil)
		if got := e.Retryable(); got != tt.want {
			t.Errorf("Retryable(%v) = %v, want %v", tt.kind, got, tt.want)
		}
	}
}

func TestKindOf(t *testing.T) {
	if got := lookup.KindOf(lookup.NewError(lookup.ErrNotFound, "x", nil)); got != lookup.ErrNotFound {
		t.Errorf("KindOf(lookup.Error) = %v, want not_found", got)
	}
	if got := lookup.KindOf(errors.New("boom")); got != lookup.ErrTransient {
		t.Errorf("KindOf(plain error) = %v, want transient", got)
	}
}

func TestDate(t *testing.T) {
	if got := lookup.Date("2029-01-09"); got == nil || !got.Equal(time.Date(2029, 1, 9, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("Date(2029-01-09) = %v", got)
	}
	if got := lookup.Date("not-a-date"); got != nil {
		t.Errorf("Date(garbage) = %v, want nil", got)
	}
}
