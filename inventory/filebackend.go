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

package inventory

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// exportRow is one record in an inventory export file. LastSeen filters rows
// against the query window; zero means the export carries no timestamps and
// every row passes.
type exportRow struct {
	Computer   string    `json:"computer"`
	RawName    string    `json:"raw_name"`
	RawVersion string    `json:"raw_version"`
	LastSeen   time.Time `json:"last_seen"`
}

type exportFile struct {
	OSHeartbeats []exportRow `json:"os_heartbeats"`
	Software     []exportRow `json:"software"`
}

// FileBackend serves inventory queries from a JSON export file, for
// deployments without a live telemetry store and for the CLI. The file is
// re-read on every query so edits take effect without a restart.
type FileBackend struct {
	path string
	now  func() time.Time
}

// NewFileBackend creates a backend over the export file at path.
func NewFileBackend(path string) *FileBackend {
	return &FileBackend{path: path, now: time.Now}
}

// QueryOSHeartbeat implements Backend.
func (f *FileBackend) QueryOSHeartbeat(_ context.Context, window time.Duration, limit int) ([]Row, error) {
	export, err := f.load()
	if err != nil {
		return nil, err
	}
	return f.filter(export.OSHeartbeats, window, limit), nil
}

// QuerySoftwareInventory implements Backend.
func (f *FileBackend) QuerySoftwareInventory(_ context.Context, window time.Duration, limit int) ([]Row, error) {
	export, err := f.load()
	if err != nil {
		return nil, err
	}
	return f.filter(export.Software, window, limit), nil
}

func (f *FileBackend) load() (*exportFile, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		return nil, fmt.Errorf("reading inventory export: %w", err)
	}
	var export exportFile
	if err := json.Unmarshal(data, &export); err != nil {
		return nil, fmt.Errorf("parsing inventory export %s: %w", f.path, err)
	}
	return &export, nil
}

func (f *FileBackend) filter(rows []exportRow, window time.Duration, limit int) []Row {
	cutoff := f.now().Add(-window)
	var out []Row
	for _, r := range rows {
		if !r.LastSeen.IsZero() && r.LastSeen.Before(cutoff) {
			continue
		}
		out = append(out, Row{Computer: r.Computer, RawName: r.RawName, RawVersion: r.RawVersion})
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out
}
