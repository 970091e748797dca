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

// Package websearch implements the last-resort provider: ask a web search
// API about the product and mine the result snippets for an EOL date.
// Results never score vendor-grade confidence; this provider exists so that
// products outside every table and aggregator still get a best-effort answer.
package websearch

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/eolscout/eolscout/fingerprint"
	"github.com/eolscout/eolscout/log"
	"github.com/eolscout/eolscout/lookup"
	"github.com/eolscout/eolscout/provider"
)

// SearchResult is one hit from the search API.
type SearchResult struct {
	URL     string
	Title   string
	Snippet string
}

// Searcher is the pluggable search backend.
type Searcher interface {
	Search(ctx context.Context, query string) ([]SearchResult, error)
}

// Query phrasings tried in order. Each phrasing reaches a different slice of
// the index; the first query returning scorable evidence wins.
var queryTemplates = []string{
	"%s end of life date",
	"%s end of support",
	"%s EOL support lifecycle",
}

// Snippet evidence scoring, out of 100.
const (
	scoreDateFound     = 40
	scoreEOLSynonym    = 30
	scoreNameTokens    = 20
	scoreTrustedDomain = 10
)

// Confidence tiers over the evidence score.
const (
	highScore   = 70
	mediumScore = 40

	highConfidence   = 0.75
	mediumConfidence = 0.55
	lowConfidence    = 0.35
)

var eolSynonyms = []string{
	"end of life", "end-of-life", "eol", "end of support",
	"end of servicing", "discontinued", "no longer supported", "reaches eol",
}

// Domains whose lifecycle pages are usually accurate.
var trustedDomains = []string{
	"endoflife.date", "learn.microsoft.com", "ubuntu.com", "access.redhat.com",
	"postgresql.org", "python.org", "php.net", "nodejs.org", "wikipedia.org",
}

// Provider is the web-search fallback.
type Provider struct {
	id       string
	searcher Searcher
	now      func() time.Time
}

// New builds the fallback provider over the given search backend. The id
// names the backend, e.g. "websearch/bing".
func New(id string, s Searcher) *Provider {
	return &Provider{id: id, searcher: s, now: time.Now}
}

// WithClock replaces the plausibility-window clock, used in tests.
func (p *Provider) WithClock(now func() time.Time) *Provider {
	p.now = now
	return p
}

var _ provider.Provider = &Provider{}

// ID implements provider.Provider.
func (p *Provider) ID() string { return p.id }

// Priority implements provider.Provider.
func (p *Provider) Priority() int { return 90 }

// Kind implements provider.Provider.
func (p *Provider) Kind() provider.Kind { return provider.KindWebSearch }

// Supports implements provider.Provider. The fallback tries anything.
func (p *Provider) Supports(fingerprint.Fingerprint) bool { return true }

// Lookup implements provider.Provider.
func (p *Provider) Lookup(ctx context.Context, fp fingerprint.Fingerprint) (lookup.Result, error) {
	subject := strings.TrimSpace(fp.Name + " " + fp.Version)
	now := p.now()

	var lastErr error
	for _, tmpl := range queryTemplates {
		query := fmt.Sprintf(tmpl, subject)
		results, err := p.searcher.Search(ctx, query)
		if err != nil {
			lastErr = err
			continue
		}
		if best, ok := p.bestEvidence(results, fp, now); ok {
			log.Debugf("%s: %q answered by %s (score %d)", p.id, query, best.url, best.score)
			return p.resultFrom(best, fp, now), nil
		}
	}
	if lastErr != nil {
		return lookup.Result{}, lookup.NewError(lookup.ErrTransient, p.id, lastErr)
	}
	return lookup.Result{}, lookup.NewError(lookup.ErrNotFound, p.id, nil)
}

// evidence is one scored search hit.
type evidence struct {
	url   string
	eol   *time.Time
	score int
}

// bestEvidence scores every result and keeps the strongest one carrying a
// plausible date.
func (p *Provider) bestEvidence(results []SearchResult, fp fingerprint.Fingerprint, now time.Time) (evidence, bool) {
	var best evidence
	for _, r := range results {
		text := strings.ToLower(r.Title + " " + r.Snippet)
		score := 0

		dates := PlausibleDates(ExtractDates(r.Title+" "+r.Snippet), now)
		if len(dates) > 0 {
			score += scoreDateFound
		}
		for _, syn := range eolSynonyms {
			if strings.Contains(text, syn) {
				score += scoreEOLSynonym
				break
			}
		}
		if allTokensPresent(fp.Name, text) {
			score += scoreNameTokens
		}
		for _, d := range trustedDomains {
			if strings.Contains(r.URL, d) {
				score += scoreTrustedDomain
				break
			}
		}
		if len(dates) == 0 || score <= best.score {
			continue
		}
		eol := PickEOLDate(dates, now)
		best = evidence{url: r.URL, eol: &eol, score: score}
	}
	return best, best.eol != nil
}

func (p *Provider) resultFrom(ev evidence, fp fingerprint.Fingerprint, now time.Time) lookup.Result {
	confidence := lowConfidence
	switch {
	case ev.score >= highScore:
		confidence = highConfidence
	case ev.score >= mediumScore:
		confidence = mediumConfidence
	}
	res := lookup.Result{
		Success:      true,
		SoftwareName: fp.Name,
		Version:      fp.Version,
		EOLDate:      ev.eol,
		Confidence:   confidence,
		Source:       p.id,
		SourceURL:    ev.url,
		Extra:        map[string]any{"evidence_score": ev.score},
	}
	res.Finalize(now)
	return res
}

func allTokensPresent(name, text string) bool {
	for _, tok := range strings.Fields(name) {
		if !strings.Contains(text, tok) {
			return false
		}
	}
	return true
}
