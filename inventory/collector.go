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
	"fmt"
	"time"

	"github.com/eolscout/eolscout/fingerprint"
	"github.com/eolscout/eolscout/normalizer"
)

// DefaultLimit caps how many rows a single collection pulls from the backend.
const DefaultLimit = 5000

// Collector turns raw telemetry rows into normalized, deduplicated Assets.
type Collector struct {
	backend Backend
	limit   int
}

// CollectorOption configures a Collector.
type CollectorOption func(*Collector)

// WithRowLimit overrides the per-query row cap.
func WithRowLimit(n int) CollectorOption {
	return func(c *Collector) {
		if n > 0 {
			c.limit = n
		}
	}
}

// NewCollector creates a Collector over the given backend.
func NewCollector(backend Backend, opts ...CollectorOption) *Collector {
	c := &Collector{backend: backend, limit: DefaultLimit}
	for _, o := range opts {
		o(c)
	}
	return c
}

// CollectOS fetches OS heartbeats within the window and normalizes them.
func (c *Collector) CollectOS(ctx context.Context, window time.Duration) ([]Asset, error) {
	rows, err := c.backend.QueryOSHeartbeat(ctx, window, c.limit)
	if err != nil {
		return nil, fmt.Errorf("querying OS heartbeat: %w", err)
	}
	return normalizeRows(rows, fingerprint.KindOS), nil
}

// CollectSoftware fetches software inventory within the window and
// normalizes it.
func (c *Collector) CollectSoftware(ctx context.Context, window time.Duration) ([]Asset, error) {
	rows, err := c.backend.QuerySoftwareInventory(ctx, window, c.limit)
	if err != nil {
		return nil, fmt.Errorf("querying software inventory: %w", err)
	}
	return normalizeRows(rows, fingerprint.KindSoftware), nil
}

// normalizeRows runs each raw row through the regex ladder and deduplicates
// by (computer, name, version). The unparsed raw string is preserved in
// Asset.Extra for audit.
func normalizeRows(rows []Row, kind fingerprint.Kind) []Asset {
	var out []Asset
	seen := map[string]bool{}
	for _, row := range rows {
		var p normalizer.Parsed
		if kind == fingerprint.KindOS {
			p = normalizer.ParseOS(row.RawName)
		} else {
			p = normalizer.ParseSoftware(row.RawName)
		}
		version := p.Version
		if version == "" {
			version = row.RawVersion
		}
		key := row.Computer + "|" + p.Name + "|" + version
		if seen[key] {
			continue
		}
		seen[key] = true

		extra := map[string]string{"raw_string": row.RawName}
		if row.Computer != "" {
			extra["computer"] = row.Computer
		}
		if p.Edition != "" {
			extra["edition"] = p.Edition
		}
		out = append(out, Asset{
			Name:      p.Name,
			Version:   version,
			Kind:      kind,
			SourceTag: "telemetry",
			Extra:     extra,
		})
	}
	return out
}

// Dedupe collapses assets that normalize to the same fingerprint, keeping
// the first occurrence. Used when merging inventory with message mentions.
func Dedupe(assets []Asset) []Asset {
	var out []Asset
	seen := map[fingerprint.Fingerprint]bool{}
	for _, a := range assets {
		fp := a.Fingerprint()
		if seen[fp] {
			continue
		}
		seen[fp] = true
		out = append(out, a)
	}
	return out
}
