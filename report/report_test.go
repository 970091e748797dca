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

package report_test

import (
	"strings"
	"testing"
	"time"

	"github.com/eolscout/eolscout/fingerprint"
	"github.com/eolscout/eolscout/lookup"
	"github.com/eolscout/eolscout/report"
)

var now = time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

func item(name, version string, eol string) report.Item {
	res := lookup.Result{
		Success:      true,
		SoftwareName: name,
		Version:      version,
		EOLDate:      lookup.Date(eol),
		Source:       "vendor/test",
		SourceURL:    "https://example.com/" + name,
	}
	res.Finalize(now)
	return report.Item{
		Fingerprint: fingerprint.New(name, version, fingerprint.KindSoftware),
		Result:      res,
	}
}

func failedItem(name string) report.Item {
	return report.Item{
		Fingerprint: fingerprint.New(name, "1", fingerprint.KindSoftware),
		Err:         lookup.NewError(lookup.ErrTimeout, "vendor/test", nil),
	}
}

func TestAggregateBuckets(t *testing.T) {
	items := []report.Item{
		item("pastware", "1", "2023-01-01"),
		item("soonware", "2", "2025-04-01"),
		item("safeware", "3", "2030-01-01"),
		item("mystware", "4", ""),
		failedItem("deadware"),
	}
	r := report.Aggregate(items, now)

	if len(r.EndOfLife) != 1 || r.EndOfLife[0].Fingerprint.Name != "pastware" {
		t.Errorf("EndOfLife = %v", names(r.EndOfLife))
	}
	if len(r.Approaching) != 1 || r.Approaching[0].Fingerprint.Name != "soonware" {
		t.Errorf("Approaching = %v", names(r.Approaching))
	}
	if len(r.Supported) != 1 || r.Supported[0].Fingerprint.Name != "safeware" {
		t.Errorf("Supported = %v", names(r.Supported))
	}
	if len(r.Unknown) != 1 || len(r.Failed) != 1 {
		t.Errorf("Unknown/Failed = %v/%v", names(r.Unknown), names(r.Failed))
	}
	if r.Total() != 5 {
		t.Errorf("Total = %d, want 5", r.Total())
	}
}

func TestRenderOrdering(t *testing.T) {
	items := []report.Item{
		item("zebra", "1", "2025-04-01"),    // approaching, critical
		item("aardvark", "2", "2022-01-01"), // eol, critical, earlier date
		item("badger", "3", "2022-01-01"),   // eol, critical, same date, name sorts
	}
	out := report.Aggregate(items, now).Render()

	ia := strings.Index(out, "aardvark")
	ib := strings.Index(out, "badger")
	iz := strings.Index(out, "zebra")
	if ia < 0 || ib < 0 || iz < 0 {
		t.Fatalf("missing entries in output:\n%s", out)
	}
	if !(ia < ib && ib < iz) {
		t.Errorf("ordering wrong (aardvark=%d badger=%d zebra=%d):\n%s", ia, ib, iz, out)
	}
}

func TestRenderDeterministic(t *testing.T) {
	items := []report.Item{
		item("alpha", "1", "2023-01-01"),
		item("beta", "2", "2026-01-01"),
		failedItem("gamma"),
	}
	first := report.Aggregate(items, now).Render()
	for i := 0; i < 5; i++ {
		if got := report.Aggregate(items, now).Render(); got != first {
			t.Fatal("Render output differs between runs")
		}
	}
}

func TestRenderElidesLongSections(t *testing.T) {
	var items []report.Item
	for _, n := range []string{"a", "b", "c", "d", "e", "f", "g", "h", "i", "j", "k", "l"} {
		items = append(items, item("prod-"+n, "1", "2020-01-01"))
	}
	out := report.Aggregate(items, now).Render()
	if !strings.Contains(out, "… and 2 more") {
		t.Errorf("missing elision marker:\n%s", out)
	}
}

func TestRenderSourceLinks(t *testing.T) {
	out := report.Aggregate([]report.Item{item("pastware", "1", "2023-01-01")}, now).Render()
	if !strings.Contains(out, "](https://example.com/pastware)") {
		t.Errorf("missing source link:\n%s", out)
	}
}

func TestRenderEscapesMarkdown(t *testing.T) {
	it := item("evil_name*", "1", "2023-01-01")
	out := report.Aggregate([]report.Item{it}, now).Render()
	if strings.Contains(out, "evil_name*") {
		t.Errorf("unescaped markdown in output:\n%s", out)
	}
}

func TestRenderNothingDetermined(t *testing.T) {
	out := report.Aggregate([]report.Item{failedItem("deadware")}, now).Render()
	if !strings.Contains(out, "No support status could be determined") {
		t.Errorf("missing fallback text:\n%s", out)
	}
}

func TestRenderAllFailedListsAssets(t *testing.T) {
	items := []report.Item{
		{
			Fingerprint: fingerprint.New("ghostware", "2", fingerprint.KindSoftware),
			Err:         lookup.NewError(lookup.ErrNotFound, "vendor/test", nil),
		},
		failedItem("deadware"),
	}
	out := report.Aggregate(items, now).Render()
	if !strings.Contains(out, "## Failed lookups") {
		t.Fatalf("missing failed section:\n%s", out)
	}
	if !strings.Contains(out, "ghostware") || !strings.Contains(out, "not_found") {
		t.Errorf("failed entry missing name or error kind:\n%s", out)
	}
	if !strings.Contains(out, "deadware") || !strings.Contains(out, "timeout") {
		t.Errorf("failed entry missing name or error kind:\n%s", out)
	}
	if !strings.Contains(out, "## Recommendations") {
		t.Errorf("missing recommendations:\n%s", out)
	}
}

func TestRenderEscapesSourceURL(t *testing.T) {
	it := item("pastware", "1", "2023-01-01")
	it.Result.SourceURL = "https://example.com/evil_name*(x)"
	out := report.Aggregate([]report.Item{it}, now).Render()
	if strings.Contains(out, "evil_name*") {
		t.Errorf("raw URL leaked into markdown:\n%s", out)
	}
	if !strings.Contains(out, "](https://example.com/evil%5Fname%2A%28x%29)") {
		t.Errorf("missing percent-encoded link target:\n%s", out)
	}
}

func TestAggregateDerivesMissingStatus(t *testing.T) {
	res := lookup.Result{
		Success:      true,
		SoftwareName: "pastware",
		Version:      "1",
		EOLDate:      lookup.Date("2023-01-01"),
		Source:       "vendor/test",
	}
	// No Finalize: the provider handed back a date but no status.
	it := report.Item{
		Fingerprint: fingerprint.New("pastware", "1", fingerprint.KindSoftware),
		Result:      res,
	}
	r := report.Aggregate([]report.Item{it}, now)
	if len(r.EndOfLife) != 1 || len(r.Unknown) != 0 {
		t.Errorf("EndOfLife/Unknown = %v/%v, want dated result bucketed as EOL", names(r.EndOfLife), names(r.Unknown))
	}
	if got := r.EndOfLife[0].Result.Status; got != lookup.StatusEndOfLife {
		t.Errorf("Status = %q, want %q", got, lookup.StatusEndOfLife)
	}
}

func TestRenderEmpty(t *testing.T) {
	out := report.Aggregate(nil, now).Render()
	if !strings.Contains(out, "Nothing to report") {
		t.Errorf("empty report rendered %q", out)
	}
}

func names(items []report.Item) []string {
	var out []string
	for _, it := range items {
		out = append(out, it.Fingerprint.Name)
	}
	return out
}
