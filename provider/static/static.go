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

// Package static implements the vendor-specific EOL providers. Each vendor
// owns an embedded table of known release cycles keyed by normalized product
// codes (e.g. windows-server-2016, ubuntu-20.04, postgresql-13) and an
// optional live page consulted only on a table miss.
package static

import (
	"context"
	"strings"
	"time"

	"github.com/eolscout/eolscout/fingerprint"
	"github.com/eolscout/eolscout/lookup"
	"github.com/eolscout/eolscout/normalizer"
	"github.com/eolscout/eolscout/provider"
)

// Confidence levels: embedded tables are authoritative, a live page parse
// slightly less so.
const (
	staticConfidence = 0.95
	liveConfidence   = 0.85
)

// Cycle is one release line of a vendor product.
type Cycle struct {
	// Product is the normalized family slug, e.g. "windows-server".
	Product string
	// Cycle is the release line within the family, e.g. "2019" or "20.04".
	Cycle      string
	Release    string // YYYY-MM-DD, may be empty
	SupportEnd string // end of mainstream support
	EOL        string // end of life
	Latest     string // latest patch release
	LTS        bool
	// Extended is the end of paid extended support, when the vendor
	// offers one.
	Extended string
}

// Code returns the full product code, e.g. "windows-server-2019".
func (c Cycle) Code() string { return c.Product + "-" + c.Cycle }

// Vendor is a Provider backed by an embedded cycle table.
type Vendor struct {
	id       string
	priority int
	keywords provider.Keywords
	cycles   []Cycle
	// urlFor renders the authoritative lifecycle page for a product code.
	urlFor func(code string) string
	// live optionally refreshes the table for a product family on a miss.
	live *liveSource
	now  func() time.Time
}

var _ provider.Provider = &Vendor{}

// ID implements Provider.
func (v *Vendor) ID() string { return v.id }

// Priority implements Provider.
func (v *Vendor) Priority() int { return v.priority }

// Kind implements Provider.
func (v *Vendor) Kind() provider.Kind { return provider.KindVendor }

// Supports implements Provider via the vendor's keyword set.
func (v *Vendor) Supports(fp fingerprint.Fingerprint) bool {
	return v.keywords.Match(fp)
}

// Lookup implements Provider. The static table is consulted first; the live
// source, when configured, is attempted only on a miss.
func (v *Vendor) Lookup(ctx context.Context, fp fingerprint.Fingerprint) (lookup.Result, error) {
	if !v.Supports(fp) {
		return lookup.Result{}, lookup.NewError(lookup.ErrNotSupported, v.id, nil)
	}
	family, query := v.resolveTarget(fp)
	if family == "" {
		return lookup.Result{}, lookup.NewError(lookup.ErrNotFound, v.id, nil)
	}
	if res, ok := v.match(v.cycles, family, query, fp, staticConfidence); ok {
		return res, nil
	}
	if v.live != nil {
		fetched, err := v.live.refresh(ctx, family)
		if err != nil {
			// A dead live source turns a table miss into not_found, not a
			// hard failure: the cascade should advance.
			if le, ok := err.(*lookup.Error); ok && le.Retryable() {
				return lookup.Result{}, err
			}
			return lookup.Result{}, lookup.NewError(lookup.ErrNotFound, v.id, err)
		}
		if res, ok := v.match(fetched, family, query, fp, liveConfidence); ok {
			return res, nil
		}
	}
	return lookup.Result{}, lookup.NewError(lookup.ErrNotFound, v.id, nil)
}

// resolveTarget maps a fingerprint onto (product family, cycle query).
// A name carrying its cycle ("windows server 2019") resolves to the family
// plus the embedded cycle; otherwise the fingerprint version is the query.
func (v *Vendor) resolveTarget(fp fingerprint.Fingerprint) (family, query string) {
	slug := fp.Slug()
	for _, fam := range v.families() {
		if slug == fam {
			if fam != "" && len(fam) > len(family) {
				family, query = fam, fp.Version
			}
			continue
		}
		if strings.HasPrefix(slug, fam+"-") && len(fam) > len(family) {
			// Slugging turned the version's dots into hyphens; restore them
			// so the cycle query parses as a numeric tuple.
			family = fam
			query = strings.ReplaceAll(strings.TrimPrefix(slug, fam+"-"), "-", ".")
		}
	}
	return family, query
}

func (v *Vendor) families() []string {
	var out []string
	seen := map[string]bool{}
	for _, c := range v.cycles {
		if !seen[c.Product] {
			seen[c.Product] = true
			out = append(out, c.Product)
		}
	}
	return out
}

// match selects the cycle for (family, query) from the given table and
// builds the uniform result. A bare major query selects the earliest cycle
// within that major; all matching cycles land in extra.minor_versions.
func (v *Vendor) match(table []Cycle, family, query string, fp fingerprint.Fingerprint, confidence float64) (lookup.Result, bool) {
	var familyCycles []Cycle
	var cycleIDs []string
	for _, c := range table {
		if c.Product == family {
			familyCycles = append(familyCycles, c)
			cycleIDs = append(cycleIDs, c.Cycle)
		}
	}
	if len(familyCycles) == 0 {
		return lookup.Result{}, false
	}

	var best string
	var matches []string
	if query == "" {
		// No version to pin: report the newest known cycle and list the
		// rest so the caller can see the spread.
		normalizer.SortVersions(cycleIDs)
		best = cycleIDs[len(cycleIDs)-1]
		matches = cycleIDs
	} else {
		var ok bool
		best, matches, ok = normalizer.SelectCycle(query, cycleIDs)
		if !ok {
			return lookup.Result{}, false
		}
	}

	var chosen Cycle
	for _, c := range familyCycles {
		if c.Cycle == best {
			chosen = c
			break
		}
	}

	now := v.now()
	res := lookup.Result{
		Success:        true,
		SoftwareName:   fp.Name,
		Version:        chosen.Cycle,
		EOLDate:        lookup.Date(chosen.EOL),
		SupportEndDate: lookup.Date(chosen.SupportEnd),
		ReleaseDate:    lookup.Date(chosen.Release),
		LatestVersion:  chosen.Latest,
		Confidence:     confidence,
		Source:         v.id,
		Extra:          map[string]any{"product_code": chosen.Code()},
	}
	if v.urlFor != nil {
		res.SourceURL = v.urlFor(chosen.Code())
	}
	if chosen.LTS {
		res.Extra["lts"] = true
	}
	if chosen.Extended != "" {
		res.Extra["extended_support"] = chosen.Extended
	}
	if len(matches) > 1 {
		res.Extra["minor_versions"] = matches
	}
	res.Finalize(now)
	return res, true
}
