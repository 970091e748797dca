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

// Package list assembles the default provider set.
package list

import (
	"fmt"

	"github.com/eolscout/eolscout/provider"
	"github.com/eolscout/eolscout/provider/endoflifedate"
	"github.com/eolscout/eolscout/provider/eolstatus"
	"github.com/eolscout/eolscout/provider/static"
	"github.com/eolscout/eolscout/provider/websearch"
)

// Vendors returns one instance of every vendor provider.
func Vendors() []provider.Provider {
	return []provider.Provider{
		static.Microsoft(),
		static.Ubuntu(),
		static.RedHat(),
		static.Debian(),
		static.Oracle(),
		static.Apache(),
		static.PostgreSQL(),
		static.NodeJS(),
		static.PHP(),
		static.Python(),
		static.VMware(),
	}
}

// Aggregators returns the aggregator providers, most authoritative first.
func Aggregators() []provider.Provider {
	return []provider.Provider{
		endoflifedate.New(),
		eolstatus.New(),
	}
}

// All returns the full default provider set. A nil searcher omits the
// web-search fallback, which is how deployments without an API key run.
func All(searcher websearch.Searcher) []provider.Provider {
	providers := append(Vendors(), Aggregators()...)
	if searcher != nil {
		providers = append(providers, websearch.New("websearch/bing", searcher))
	}
	return providers
}

// FromName finds a provider by id in the given set.
func FromName(providers []provider.Provider, id string) (provider.Provider, error) {
	for _, p := range providers {
		if p.ID() == id {
			return p, nil
		}
	}
	return nil, fmt.Errorf("unknown provider %q", id)
}
