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

// Package provider collects the common code shared by all EOL data source
// providers: the lookup capability, the kind taxonomy, and helpers for
// keyword-based Supports predicates.
package provider

import (
	"context"
	"strings"

	"bitbucket.org/creachadair/stringset"
	"github.com/eolscout/eolscout/fingerprint"
	"github.com/eolscout/eolscout/lookup"
)

// Kind tags what class of data source a provider is. Confidence decreases
// monotonically down this list when the same fingerprint is resolved by
// progressively less authoritative sources.
type Kind int

// Kind values, most authoritative first.
const (
	KindVendor Kind = iota
	KindAggregator
	KindWebSearch
)

// Provider is a single EOL data source. One instance is registered per
// vendor, aggregator or fallback at startup.
type Provider interface {
	// A unique id used to identify this provider, e.g. "vendor/microsoft".
	ID() string
	// Lookup resolves the fingerprint to a uniform result. Failures are
	// *lookup.Error values carrying the error kind.
	Lookup(ctx context.Context, fp fingerprint.Fingerprint) (lookup.Result, error)
	// Supports is the cheap predicate the router uses when building a plan.
	Supports(fp fingerprint.Fingerprint) bool
	// Priority orders providers within a cascade; lower is preferred.
	Priority() int
	// Kind tags the provider class for confidence ordering.
	Kind() Kind
}

// Keywords is a case-insensitive product keyword set backing the Supports
// predicate of vendor providers.
type Keywords struct {
	set stringset.Set
}

// NewKeywords builds a keyword set from lowercase product words or phrases.
func NewKeywords(words ...string) Keywords {
	return Keywords{set: stringset.New(words...)}
}

// Match reports whether the fingerprint's normalized name contains any of
// the keywords. Phrases match as substrings, single words as whole tokens.
func (k Keywords) Match(fp fingerprint.Fingerprint) bool {
	name := fp.Name
	tokens := stringset.New(strings.FieldsFunc(name, func(r rune) bool {
		return r == ' ' || r == '-' || r == '_' || r == '.'
	})...)
	for kw := range k.set {
		if strings.ContainsRune(kw, ' ') {
			if strings.Contains(name, kw) {
				return true
			}
		} else if tokens.Contains(kw) {
			return true
		}
	}
	return false
}
