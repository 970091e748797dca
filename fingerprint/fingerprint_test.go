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

package fingerprint_test

import (
	"testing"

	"github.com/eolscout/eolscout/fingerprint"
	"github.com/google/go-cmp/cmp"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		inName  string
		inVer   string
		kind    fingerprint.Kind
		want    fingerprint.Fingerprint
	}{
		{
			name:   "case-fold-and-collapse",
			inName: "  Windows   Server  2019 ",
			inVer:  "10.0",
			kind:   fingerprint.KindOS,
			want:   fingerprint.Fingerprint{Name: "windows server 2019", Version: "10.0", Kind: fingerprint.KindOS},
		},
		{
			name:   "sql-server-alias",
			inName: "Microsoft SQL Server",
			inVer:  "2016",
			kind:   fingerprint.KindSoftware,
			want:   fingerprint.Fingerprint{Name: "mssqlserver", Version: "2016", Kind: fingerprint.KindSoftware},
		},
		{
			name:   "ms-sql-server-alias",
			inName: "ms sql server",
			inVer:  "2016",
			kind:   fingerprint.KindSoftware,
			want:   fingerprint.Fingerprint{Name: "mssqlserver", Version: "2016", Kind: fingerprint.KindSoftware},
		},
		{
			name:   "rhel-alias",
			inName: "Red Hat Enterprise Linux",
			inVer:  "8",
			kind:   fingerprint.KindOS,
			want:   fingerprint.Fingerprint{Name: "rhel", Version: "8", Kind: fingerprint.KindOS},
		},
		{
			name:   "nodejs-alias",
			inName: "Node.js",
			inVer:  "18",
			kind:   fingerprint.KindSoftware,
			want:   fingerprint.Fingerprint{Name: "nodejs", Version: "18", Kind: fingerprint.KindSoftware},
		},
		{
			name:   "alias-must-not-fire-inside-longer-word",
			inName: "PostgreSQL",
			inVer:  "12",
			kind:   fingerprint.KindSoftware,
			want:   fingerprint.Fingerprint{Name: "postgresql", Version: "12", Kind: fingerprint.KindSoftware},
		},
		{
			name:   "postgres-alias-on-whole-word",
			inName: "Postgres",
			inVer:  "12",
			kind:   fingerprint.KindSoftware,
			want:   fingerprint.Fingerprint{Name: "postgresql", Version: "12", Kind: fingerprint.KindSoftware},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := fingerprint.New(tt.inName, tt.inVer, tt.kind)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("New(%q, %q) returned unexpected diff (-want +got):\n%s", tt.inName, tt.inVer, diff)
			}
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{
		"Windows Server 2019",
		"  Microsoft SQL Server ",
		"Ubuntu 20.04 LTS",
		"Red Hat Enterprise Linux",
		"node.js",
		"PostgreSQL",
		"Postgres",
	}
	for _, in := range inputs {
		once := fingerprint.NormalizeName(in)
		twice := fingerprint.NormalizeName(once)
		if once != twice {
			t.Errorf("NormalizeName not idempotent for %q: %q != %q", in, once, twice)
		}
	}
}

func TestEqualFingerprintsShareCacheKey(t *testing.T) {
	a := fingerprint.New("Windows  Server 2019", "", fingerprint.KindOS)
	b := fingerprint.New("windows server 2019", "", fingerprint.KindOS)
	if a != b {
		t.Fatalf("expected %v == %v", a, b)
	}
	if a.Hex16() != b.Hex16() {
		t.Errorf("equal fingerprints produced different cache keys: %s vs %s", a.Hex16(), b.Hex16())
	}
	if len(a.Hex16()) != 16 {
		t.Errorf("Hex16() = %q, want 16 hex chars", a.Hex16())
	}
}

func TestSlug(t *testing.T) {
	fp := fingerprint.New("Windows Server 2019", "", fingerprint.KindOS)
	if got := fp.Slug(); got != "windows-server-2019" {
		t.Errorf("Slug() = %q, want windows-server-2019", got)
	}
	fp = fingerprint.New("Ubuntu", "20.04", fingerprint.KindOS)
	if got := fp.Slug(); got != "ubuntu" {
		t.Errorf("Slug() = %q, want ubuntu", got)
	}
}
