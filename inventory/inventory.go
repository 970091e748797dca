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

// Package inventory models the assets found in an enterprise environment and
// the collector that pulls them from a telemetry backend.
package inventory

import (
	"context"
	"time"

	"github.com/eolscout/eolscout/fingerprint"
)

// Asset is one (name, version) pair found in the inventory or extracted from
// a user message.
type Asset struct {
	Name      string
	Version   string
	Kind      fingerprint.Kind
	SourceTag string
	// Extra carries audit detail, always including the unparsed raw_string
	// for collector-produced assets.
	Extra map[string]string
}

// Fingerprint returns the normalized identity of the asset.
func (a Asset) Fingerprint() fingerprint.Fingerprint {
	return fingerprint.New(a.Name, a.Version, a.Kind)
}

// Row is one record from the telemetry backend. RawName is free-form;
// parsing it is the collector's job.
type Row struct {
	Computer   string
	RawName    string
	RawVersion string
}

// Backend is the outbound contract to the observability store holding OS
// heartbeats and software inventory. Implementations live outside this
// module; tests use a scripted fake.
type Backend interface {
	QueryOSHeartbeat(ctx context.Context, window time.Duration, limit int) ([]Row, error)
	QuerySoftwareInventory(ctx context.Context, window time.Duration, limit int) ([]Row, error)
}
