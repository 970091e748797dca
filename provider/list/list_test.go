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

package list_test

import (
	"context"
	"strings"
	"testing"

	"github.com/eolscout/eolscout/provider"
	"github.com/eolscout/eolscout/provider/list"
	"github.com/eolscout/eolscout/provider/websearch"
)

func TestUniqueIDs(t *testing.T) {
	seen := map[string]bool{}
	for _, p := range list.All(noopSearcher{}) {
		if seen[p.ID()] {
			t.Errorf("duplicate provider id %q", p.ID())
		}
		seen[p.ID()] = true
	}
}

func TestKindsMatchIDPrefixes(t *testing.T) {
	for _, p := range list.All(noopSearcher{}) {
		var want provider.Kind
		switch {
		case strings.HasPrefix(p.ID(), "vendor/"):
			want = provider.KindVendor
		case strings.HasPrefix(p.ID(), "aggregator/"):
			want = provider.KindAggregator
		case strings.HasPrefix(p.ID(), "websearch/"):
			want = provider.KindWebSearch
		default:
			t.Errorf("provider id %q has no recognized prefix", p.ID())
			continue
		}
		if p.Kind() != want {
			t.Errorf("provider %q: Kind = %v, want %v", p.ID(), p.Kind(), want)
		}
	}
}

func TestAllWithoutSearcherOmitsFallback(t *testing.T) {
	for _, p := range list.All(nil) {
		if p.Kind() == provider.KindWebSearch {
			t.Errorf("web-search provider %q present without a searcher", p.ID())
		}
	}
}

func TestFromName(t *testing.T) {
	providers := list.All(noopSearcher{})
	p, err := list.FromName(providers, "vendor/ubuntu")
	if err != nil {
		t.Fatalf("FromName: %v", err)
	}
	if p.ID() != "vendor/ubuntu" {
		t.Errorf("FromName returned %q", p.ID())
	}
	if _, err := list.FromName(providers, "vendor/nonexistent"); err == nil {
		t.Error("FromName accepted an unknown id")
	}
}

type noopSearcher struct{}

func (noopSearcher) Search(context.Context, string) ([]websearch.SearchResult, error) {
	return nil, nil
}
