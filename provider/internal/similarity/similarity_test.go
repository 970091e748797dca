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

package similarity

import (
	"math"
	"testing"
)

func TestScore(t *testing.T) {
	tests := []struct {
		name      string
		search    string
		candidate string
		want      float64
	}{
		{name: "exact", search: "postgresql", candidate: "postgresql", want: 1.0},
		{name: "exact-case-insensitive", search: "PostgreSQL", candidate: "postgresql", want: 1.0},
		{name: "containment-forward", search: "sql", candidate: "mssqlserver", want: 0.8},
		{name: "containment-reverse", search: "mssqlserver-2016", candidate: "mssqlserver", want: 0.8},
		// Containment wins before token scoring: the search string is a
		// substring of the candidate.
		{name: "containment-prefix", search: "windows-server", candidate: "windows-server-2019", want: 0.8},
		// No substring relation (space vs hyphen), so this is scored on
		// tokens: 2 of 4 shared plus the all-search-tokens bonus.
		{name: "token-overlap-with-bonus", search: "windows server", candidate: "windows-server-datacenter-2019", want: 2.0/4.0 + 0.3},
		{name: "token-overlap-partial", search: "centos server", candidate: "centos-stream", want: 1.0 / 3.0},
		{name: "no-overlap", search: "oracle", candidate: "ubuntu", want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Score(tt.search, tt.candidate)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Score(%q, %q) = %v, want %v", tt.search, tt.candidate, got, tt.want)
			}
		})
	}
}

func TestTopK(t *testing.T) {
	catalog := []string{"postgresql", "mysql", "mssqlserver", "windows-server-2019", "ubuntu"}
	got := TopK("postgresql", catalog, 2)
	if len(got) == 0 || got[0].ID != "postgresql" || got[0].Score != 1.0 {
		t.Fatalf("TopK best = %+v, want postgresql at 1.0", got)
	}
	if len(got) > 2 {
		t.Errorf("TopK returned %d matches, want at most 2", len(got))
	}
}

func TestTopKThreshold(t *testing.T) {
	got := TopK("frobnicatordb", []string{"ubuntu", "postgresql"}, 5)
	if len(got) != 0 {
		t.Errorf("TopK below threshold returned %+v, want none", got)
	}
}
