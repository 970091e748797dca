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

package inventory_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/eolscout/eolscout/inventory"
)

func writeExport(t *testing.T, content map[string]any) string {
	t.Helper()
	data, err := json.Marshal(content)
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "export.json")
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestFileBackendQueries(t *testing.T) {
	recent := time.Now().Add(-time.Hour).UTC()
	path := writeExport(t, map[string]any{
		"os_heartbeats": []map[string]any{
			{"computer": "srv-01", "raw_name": "Windows Server 2019 Datacenter", "last_seen": recent},
		},
		"software": []map[string]any{
			{"computer": "srv-02", "raw_name": "PostgreSQL", "raw_version": "12.4", "last_seen": recent},
		},
	})
	b := inventory.NewFileBackend(path)

	osRows, err := b.QueryOSHeartbeat(context.Background(), 30*24*time.Hour, 100)
	if err != nil {
		t.Fatal(err)
	}
	want := []inventory.Row{{Computer: "srv-01", RawName: "Windows Server 2019 Datacenter"}}
	if diff := cmp.Diff(want, osRows); diff != "" {
		t.Errorf("os rows diff (-want +got):\n%s", diff)
	}

	swRows, err := b.QuerySoftwareInventory(context.Background(), 30*24*time.Hour, 100)
	if err != nil {
		t.Fatal(err)
	}
	if len(swRows) != 1 || swRows[0].RawVersion != "12.4" {
		t.Errorf("software rows = %+v", swRows)
	}
}

func TestFileBackendWindowFiltersStaleRows(t *testing.T) {
	path := writeExport(t, map[string]any{
		"os_heartbeats": []map[string]any{
			{"computer": "srv-old", "raw_name": "Ubuntu 18.04", "last_seen": time.Now().Add(-90 * 24 * time.Hour).UTC()},
			{"computer": "srv-new", "raw_name": "Ubuntu 22.04", "last_seen": time.Now().Add(-time.Hour).UTC()},
			{"computer": "srv-unstamped", "raw_name": "Debian 12"},
		},
	})
	rows, err := inventory.NewFileBackend(path).QueryOSHeartbeat(context.Background(), 30*24*time.Hour, 100)
	if err != nil {
		t.Fatal(err)
	}
	var computers []string
	for _, r := range rows {
		computers = append(computers, r.Computer)
	}
	want := []string{"srv-new", "srv-unstamped"}
	if diff := cmp.Diff(want, computers); diff != "" {
		t.Errorf("computers diff (-want +got):\n%s", diff)
	}
}

func TestFileBackendLimit(t *testing.T) {
	var rows []map[string]any
	for i := 0; i < 5; i++ {
		rows = append(rows, map[string]any{"computer": "srv", "raw_name": "Debian 12"})
	}
	path := writeExport(t, map[string]any{"os_heartbeats": rows})
	got, err := inventory.NewFileBackend(path).QueryOSHeartbeat(context.Background(), time.Hour, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Errorf("len = %d, want 2", len(got))
	}
}

func TestFileBackendMissingFile(t *testing.T) {
	b := inventory.NewFileBackend(filepath.Join(t.TempDir(), "absent.json"))
	if _, err := b.QueryOSHeartbeat(context.Background(), time.Hour, 10); err == nil {
		t.Error("want error for missing export file")
	}
}
