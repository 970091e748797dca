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

package server_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/eolscout/eolscout"
	"github.com/eolscout/eolscout/lookup"
	"github.com/eolscout/eolscout/provider"
	"github.com/eolscout/eolscout/provider/providertest"
	"github.com/eolscout/eolscout/server"
	"github.com/eolscout/eolscout/telemetry"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	res := lookup.Result{
		Success:      true,
		SoftwareName: "windows server 2019",
		Version:      "2019",
		EOLDate:      lookup.Date("2029-01-09"),
		Confidence:   0.95,
		Source:       "vendor/microsoft",
		SourceURL:    "https://learn.microsoft.com/lifecycle/products/windows-server-2019",
	}
	vendor := &providertest.Fake{
		IDValue: "vendor/microsoft", PriorityValue: 10, KindValue: provider.KindVendor,
		Script: []providertest.Step{{Result: res}},
	}
	scout := eolscout.New(eolscout.Options{
		Providers: []provider.Provider{vendor},
		Recorder:  telemetry.NewRecorder(0, nil),
	})
	srv := server.New(scout, prometheus.NewRegistry())
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func postJSON(t *testing.T, url, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(url, "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestChat(t *testing.T) {
	ts := newTestServer(t)
	resp := postJSON(t, ts.URL+"/api/v1/chat",
		`{"session_id":"s1","message":"What is the EOL of Windows Server 2019?"}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var body server.ChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if body.Intent != "direct_eol" || body.Task != "EOL_ONLY" {
		t.Errorf("intent/task = %q/%q", body.Intent, body.Task)
	}
	if !strings.Contains(body.Markdown, "2029-01-09") {
		t.Errorf("markdown missing EOL date:\n%s", body.Markdown)
	}
	if body.RequestID == "" {
		t.Error("missing request id")
	}
}

func TestChatRejectsEmptyMessage(t *testing.T) {
	ts := newTestServer(t)
	resp := postJSON(t, ts.URL+"/api/v1/chat", `{"session_id":"s1"}`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}

func TestChatNoTargetsIs400(t *testing.T) {
	ts := newTestServer(t)
	resp := postJSON(t, ts.URL+"/api/v1/chat", `{"message":"is anything end of life?"}`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t)
	resp, err := http.Get(ts.URL + "/api/v1/health")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d", resp.StatusCode)
	}
}

func TestPurge(t *testing.T) {
	ts := newTestServer(t)
	postJSON(t, ts.URL+"/api/v1/chat",
		`{"session_id":"s1","message":"What is the EOL of Windows Server 2019?"}`)
	resp := postJSON(t, ts.URL+"/api/v1/cache/purge", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var body map[string]int
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if body["deleted"] != 1 {
		t.Errorf("deleted = %d, want 1", body["deleted"])
	}
}

func TestChatStructuredReportAndEvents(t *testing.T) {
	ts := newTestServer(t)
	resp := postJSON(t, ts.URL+"/api/v1/chat",
		`{"session_id":"s1","message":"What is the EOL of Windows Server 2019?","include_events":true}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var body server.ChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if len(body.Report) != 1 {
		t.Fatalf("report rows = %d, want 1", len(body.Report))
	}
	row := body.Report[0]
	if row.Name != "windows server 2019" || row.EOLDate != "2029-01-09" || row.Source != "vendor/microsoft" {
		t.Errorf("row = %+v", row)
	}
	// The fake provider returns a bare date; status and risk are derived
	// downstream and must still reach the wire report.
	if row.Status == "" || row.Risk == "" {
		t.Errorf("row missing derived status/risk: %+v", row)
	}
	if len(body.Events) == 0 {
		t.Error("want telemetry events in response")
	}
	for _, ev := range body.Events {
		if ev.RequestID != body.RequestID {
			t.Errorf("event from foreign request: %+v", ev)
		}
	}
}

func TestChatUnconfirmedIsRefused(t *testing.T) {
	ts := newTestServer(t)
	resp := postJSON(t, ts.URL+"/api/v1/chat",
		`{"message":"purge everything","confirm":{"confirmed":false,"original_message":"purge everything"}}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var body server.ChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(body.Markdown, "not confirmed") {
		t.Errorf("markdown = %q, want refusal", body.Markdown)
	}
	if body.RequestID != "" {
		t.Error("refusal should not execute a request")
	}
}

func TestHealthListsProviders(t *testing.T) {
	ts := newTestServer(t)
	resp, err := http.Get(ts.URL + "/api/v1/health")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	var body server.HealthResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if !body.OK || body.Version == "" {
		t.Errorf("ok/version = %v/%q", body.OK, body.Version)
	}
	if len(body.Providers) != 1 || body.Providers[0].ID != "vendor/microsoft" || !body.Providers[0].Ready {
		t.Errorf("providers = %+v", body.Providers)
	}
}

func TestPurgeSingleEntry(t *testing.T) {
	ts := newTestServer(t)
	postJSON(t, ts.URL+"/api/v1/chat",
		`{"session_id":"s1","message":"What is the EOL of Windows Server 2019?"}`)
	resp := postJSON(t, ts.URL+"/api/v1/cache/purge",
		`{"name":"Windows Server 2019","kind":"os"}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var body map[string]int
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if body["deleted"] != 1 {
		t.Errorf("deleted = %d, want 1", body["deleted"])
	}
}

func TestChatMethodNotAllowed(t *testing.T) {
	ts := newTestServer(t)
	resp, err := http.Get(ts.URL + "/api/v1/chat")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", resp.StatusCode)
	}
}
