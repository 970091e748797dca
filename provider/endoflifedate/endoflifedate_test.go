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

package endoflifedate_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/eolscout/eolscout/fingerprint"
	"github.com/eolscout/eolscout/lookup"
	"github.com/eolscout/eolscout/provider/endoflifedate"
	"github.com/google/go-cmp/cmp"
)

var fixedNow = time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

const ubuntuJSON = `[
  {"cycle":"24.04","releaseDate":"2024-04-25","eol":"2029-05-31","latest":"24.04.2","lts":true},
  {"cycle":"20.04","releaseDate":"2020-04-23","eol":"2025-05-31","latest":"20.04.6","lts":true},
  {"cycle":"18.04","releaseDate":"2018-04-26","eol":"2023-05-31","latest":"18.04.6","lts":true}
]`

const postgresqlJSON = `[
  {"cycle":"12.2","releaseDate":"2020-02-13","eol":"2024-11-14"},
  {"cycle":"12.1","releaseDate":"2019-11-14","eol":"2024-11-14"},
  {"cycle":"12.0","releaseDate":"2019-10-03","eol":"2024-11-14"},
  {"cycle":"13","releaseDate":"2020-09-24","eol":"2025-11-13","latest":"13.20"}
]`

const nginxJSON = `[
  {"cycle":"1.27","releaseDate":"2024-05-29","eol":false,"latest":"1.27.4"},
  {"cycle":"1.24","releaseDate":"2023-04-11","eol":true,"latest":"1.24.0"}
]`

const windowsServerJSON = `[
  {"cycle":"2019","releaseDate":"2018-11-13","eol":"2029-01-09","latest":"10.0.17763"}
]`

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	serve := func(path, body string) {
		mux.HandleFunc(path, func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(body))
		})
	}
	serve("/api/ubuntu.json", ubuntuJSON)
	serve("/api/postgresql.json", postgresqlJSON)
	serve("/api/nginx.json", nginxJSON)
	serve("/api/windows-server.json", windowsServerJSON)
	serve("/api/all.json", `["ubuntu","postgresql","nginx","debian","almalinux","windows-server"]`)
	mux.HandleFunc("/api/", http.NotFound)
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func newProvider(t *testing.T) *endoflifedate.Provider {
	return endoflifedate.New(
		endoflifedate.WithBaseURL(newTestServer(t).URL),
		endoflifedate.WithClock(func() time.Time { return fixedNow }),
	)
}

func TestLookupDirectSlug(t *testing.T) {
	p := newProvider(t)
	got, err := p.Lookup(context.Background(), fingerprint.New("Ubuntu", "18.04", fingerprint.KindOS))
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if want := "2023-05-31"; got.EOLDate.Format("2006-01-02") != want {
		t.Errorf("EOLDate = %v, want %s", got.EOLDate, want)
	}
	if got.Confidence != 0.9 {
		t.Errorf("Confidence = %v, want 0.9 for a direct slug hit", got.Confidence)
	}
	if got.Status != lookup.StatusEndOfLife {
		t.Errorf("Status = %v, want end_of_life", got.Status)
	}
	if got.Source != "aggregator/endoflife.date" {
		t.Errorf("Source = %q", got.Source)
	}
}

func TestLookupVersionEmbeddedInName(t *testing.T) {
	p := newProvider(t)
	got, err := p.Lookup(context.Background(), fingerprint.New("Ubuntu 20.04", "", fingerprint.KindOS))
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if got.Version != "20.04" {
		t.Errorf("Version = %q, want 20.04", got.Version)
	}
}

func TestLookupBareMajorExpandsMinors(t *testing.T) {
	p := newProvider(t)
	got, err := p.Lookup(context.Background(), fingerprint.New("PostgreSQL", "12", fingerprint.KindSoftware))
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if got.Version != "12.0" {
		t.Errorf("Version = %q, want earliest cycle 12.0", got.Version)
	}
	want := []string{"12.0", "12.1", "12.2"}
	if diff := cmp.Diff(want, got.Extra["minor_versions"]); diff != "" {
		t.Errorf("minor_versions diff (-want +got):\n%s", diff)
	}
}

func TestLookupBooleanEOLFields(t *testing.T) {
	p := newProvider(t)

	open, err := p.Lookup(context.Background(), fingerprint.New("nginx", "1.27", fingerprint.KindSoftware))
	if err != nil {
		t.Fatalf("Lookup(1.27): %v", err)
	}
	if open.EOLDate != nil || open.Status != lookup.StatusUnknown {
		t.Errorf("eol=false cycle: EOLDate=%v Status=%v, want nil/unknown", open.EOLDate, open.Status)
	}

	over, err := p.Lookup(context.Background(), fingerprint.New("nginx", "1.24", fingerprint.KindSoftware))
	if err != nil {
		t.Fatalf("Lookup(1.24): %v", err)
	}
	if over.Status != lookup.StatusEndOfLife {
		t.Errorf("eol=true cycle: Status = %v, want end_of_life", over.Status)
	}
	if synth, _ := over.Extra["eol_date_synthesized"].(bool); !synth {
		t.Error("eol=true cycle should mark its date as synthesized")
	}
}

func TestLookupCatalogSimilarity(t *testing.T) {
	p := newProvider(t)
	// "postgresql-db" misses directly and via aliases; the catalog search
	// should land on "postgresql".
	got, err := p.Lookup(context.Background(), fingerprint.New("postgresql db", "13", fingerprint.KindSoftware))
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if got.Version != "13" {
		t.Errorf("Version = %q, want 13", got.Version)
	}
	// The candidate is fully contained in the search term (score 0.8), so
	// the confidence is the catalog ceiling, not a product of the two.
	if got.Confidence != 0.75 {
		t.Errorf("Confidence = %v, want 0.75 for a capped catalog match", got.Confidence)
	}
}

func TestLookupCatalogConfidenceFollowsLowScore(t *testing.T) {
	p := newProvider(t)
	// "windows-datacenter" shares one token with "windows-server" over a
	// union of three (score 1/3); the sub-ceiling score passes through as
	// the confidence instead of being scaled down further.
	got, err := p.Lookup(context.Background(), fingerprint.New("windows datacenter", "", fingerprint.KindOS))
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if want := 1.0 / 3.0; got.Confidence != want {
		t.Errorf("Confidence = %v, want %v (the match score itself)", got.Confidence, want)
	}
}

func TestLookupNotFound(t *testing.T) {
	p := newProvider(t)
	_, err := p.Lookup(context.Background(), fingerprint.New("FrobnicatorDB", "9", fingerprint.KindSoftware))
	if lookup.KindOf(err) != lookup.ErrNotFound {
		t.Errorf("error kind = %v, want not_found", lookup.KindOf(err))
	}
}

func TestLookupUpstream5xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()
	p := endoflifedate.New(endoflifedate.WithBaseURL(srv.URL))
	_, err := p.Lookup(context.Background(), fingerprint.New("Ubuntu", "18.04", fingerprint.KindOS))
	if lookup.KindOf(err) != lookup.ErrUpstream5xx {
		t.Errorf("error kind = %v, want upstream_5xx", lookup.KindOf(err))
	}
}
