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

// Package eolstatus implements the secondary aggregator, scraped from
// eolstatus.com HTML pages. The site publishes a product index page whose
// links name the known product slugs; the index is cached in-process so a
// burst of lookups does not refetch it.
package eolstatus

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"net"
	"net/http"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/eolscout/eolscout/fingerprint"
	"github.com/eolscout/eolscout/log"
	"github.com/eolscout/eolscout/lookup"
	"github.com/eolscout/eolscout/normalizer"
	"github.com/eolscout/eolscout/provider"
	"github.com/eolscout/eolscout/provider/internal/htmltable"
	"github.com/eolscout/eolscout/provider/internal/similarity"
)

// DefaultBaseURL is the production site root.
const DefaultBaseURL = "https://eolstatus.com"

// indexTTL bounds how long the scraped product index is reused.
const indexTTL = 6 * time.Hour

const (
	directConfidence = 0.8
	indexConfidence  = 0.7
)

const maxBody = 4 << 20

var reISO = regexp.MustCompile(`\d{4}-\d{2}-\d{2}`)

// Provider is the eolstatus.com aggregator.
type Provider struct {
	baseURL string
	client  *http.Client
	now     func() time.Time

	mu        sync.Mutex
	slugs     []string
	fetchedAt time.Time
}

// Option configures a Provider.
type Option func(*Provider)

// WithBaseURL points the provider at a different site root, used in tests.
func WithBaseURL(u string) Option {
	return func(p *Provider) { p.baseURL = strings.TrimRight(u, "/") }
}

// WithHTTPClient replaces the HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(p *Provider) { p.client = c }
}

// WithClock replaces the clock, used in tests.
func WithClock(now func() time.Time) Option {
	return func(p *Provider) { p.now = now }
}

// New builds the aggregator provider.
func New(opts ...Option) *Provider {
	p := &Provider{
		baseURL: DefaultBaseURL,
		client:  &http.Client{Timeout: 10 * time.Second},
		now:     time.Now,
	}
	for _, o := range opts {
		o(p)
	}
	return p
}

var _ provider.Provider = &Provider{}

// ID implements provider.Provider.
func (p *Provider) ID() string { return "aggregator/eolstatus.com" }

// Priority implements provider.Provider.
func (p *Provider) Priority() int { return 30 }

// Kind implements provider.Provider.
func (p *Provider) Kind() provider.Kind { return provider.KindAggregator }

// Supports implements provider.Provider.
func (p *Provider) Supports(fingerprint.Fingerprint) bool { return true }

// Lookup implements provider.Provider: try the fingerprint slug directly,
// then fall back to a similarity search over the scraped product index.
func (p *Provider) Lookup(ctx context.Context, fp fingerprint.Fingerprint) (lookup.Result, error) {
	slug, query := splitSlug(fp)

	res, err := p.fetchProduct(ctx, slug, query, fp, directConfidence)
	if err == nil {
		return res, nil
	}
	if lookup.KindOf(err) != lookup.ErrNotFound {
		return lookup.Result{}, err
	}

	slugs, err := p.index(ctx)
	if err != nil {
		return lookup.Result{}, err
	}
	for _, m := range similarity.TopK(slug, slugs, 3) {
		res, err := p.fetchProduct(ctx, m.ID, query, fp, math.Min(indexConfidence, m.Score))
		if err == nil {
			log.Debugf("%s: index match %q for %q (score %.2f)", p.ID(), m.ID, slug, m.Score)
			return res, nil
		}
		if lookup.KindOf(err) != lookup.ErrNotFound {
			return lookup.Result{}, err
		}
	}
	return lookup.Result{}, lookup.NewError(lookup.ErrNotFound, p.ID(), nil)
}

func splitSlug(fp fingerprint.Fingerprint) (slug, query string) {
	slug, query = fp.Slug(), fp.Version
	parts := strings.Split(slug, "-")
	i := len(parts)
	for i > 1 && isNumeric(parts[i-1]) {
		i--
	}
	if i < len(parts) {
		slug = strings.Join(parts[:i], "-")
		query = strings.Join(parts[i:], ".")
	}
	return slug, query
}

func isNumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// index returns the product slugs scraped from the site index, refreshing
// at most once per indexTTL.
func (p *Provider) index(ctx context.Context) ([]string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.slugs != nil && p.now().Sub(p.fetchedAt) < indexTTL {
		return p.slugs, nil
	}
	body, err := p.get(ctx, p.baseURL+"/products")
	if err != nil {
		// A stale index beats no index.
		if p.slugs != nil {
			log.Warnf("%s: index refresh failed, reusing stale index: %v", p.ID(), err)
			return p.slugs, nil
		}
		return nil, err
	}
	links, err := htmltable.Links(bytes.NewReader(body))
	if err != nil {
		return nil, lookup.NewError(lookup.ErrParseFailure, p.ID(), err)
	}
	var slugs []string
	seen := map[string]bool{}
	for _, l := range links {
		s, ok := strings.CutPrefix(l.Href, "/products/")
		if !ok || s == "" || seen[s] {
			continue
		}
		seen[s] = true
		slugs = append(slugs, s)
	}
	if len(slugs) == 0 {
		return nil, lookup.NewError(lookup.ErrParseFailure, p.ID(), errors.New("product index has no product links"))
	}
	p.slugs, p.fetchedAt = slugs, p.now()
	return p.slugs, nil
}

// fetchProduct scrapes one product page and selects the cycle for the query.
// Pages carry a release table with version, release date and EOL columns.
func (p *Provider) fetchProduct(ctx context.Context, slug, query string, fp fingerprint.Fingerprint, confidence float64) (lookup.Result, error) {
	body, err := p.get(ctx, p.baseURL+"/products/"+slug)
	if err != nil {
		return lookup.Result{}, err
	}
	header, rows, err := htmltable.First(bytes.NewReader(body))
	if err != nil {
		return lookup.Result{}, lookup.NewError(lookup.ErrParseFailure, p.ID(), err)
	}
	cycleCol, eolCol, relCol := -1, -1, -1
	for i, h := range header {
		switch t := strings.ToLower(h); {
		case strings.Contains(t, "version") || strings.Contains(t, "cycle") || strings.Contains(t, "release name"):
			if cycleCol < 0 {
				cycleCol = i
			}
		case strings.Contains(t, "end of life") || strings.Contains(t, "eol"):
			eolCol = i
		case strings.Contains(t, "released") || strings.Contains(t, "release"):
			relCol = i
		}
	}
	if cycleCol < 0 {
		return lookup.Result{}, lookup.NewError(lookup.ErrParseFailure, p.ID(),
			fmt.Errorf("product %s: no version column", slug))
	}

	type row struct{ cycle, eol, release string }
	byID := map[string]row{}
	var ids []string
	for _, cells := range rows {
		if cycleCol >= len(cells) || cells[cycleCol] == "" {
			continue
		}
		r := row{cycle: cells[cycleCol]}
		if eolCol >= 0 && eolCol < len(cells) {
			r.eol = cells[eolCol]
		}
		if relCol >= 0 && relCol < len(cells) {
			r.release = cells[relCol]
		}
		byID[r.cycle] = r
		ids = append(ids, r.cycle)
	}
	if len(ids) == 0 {
		return lookup.Result{}, lookup.NewError(lookup.ErrNotFound, p.ID(), nil)
	}

	var best string
	var matches []string
	if query == "" {
		normalizer.SortVersions(ids)
		best, matches = ids[len(ids)-1], ids
	} else {
		var ok bool
		best, matches, ok = normalizer.SelectCycle(query, ids)
		if !ok {
			return lookup.Result{}, lookup.NewError(lookup.ErrNotFound, p.ID(), nil)
		}
	}

	chosen := byID[best]
	res := lookup.Result{
		Success:      true,
		SoftwareName: fp.Name,
		Version:      best,
		EOLDate:      lookup.Date(reISO.FindString(chosen.eol)),
		ReleaseDate:  lookup.Date(reISO.FindString(chosen.release)),
		Confidence:   confidence,
		Source:       p.ID(),
		SourceURL:    p.baseURL + "/products/" + slug,
		Extra:        map[string]any{"product_code": slug + "-" + best},
	}
	if len(matches) > 1 {
		res.Extra["minor_versions"] = matches
	}
	res.Finalize(p.now())
	return res, nil
}

func (p *Provider) get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, lookup.NewError(lookup.ErrTransient, p.ID(), err)
	}
	resp, err := p.client.Do(req)
	if err != nil {
		return nil, lookup.NewError(netErrKind(err), p.ID(), err)
	}
	defer resp.Body.Close()
	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, lookup.NewError(lookup.ErrNotFound, p.ID(), nil)
	case resp.StatusCode >= 500:
		return nil, lookup.NewError(lookup.ErrUpstream5xx, p.ID(), fmt.Errorf("GET %s: %s", url, resp.Status))
	case resp.StatusCode != http.StatusOK:
		return nil, lookup.NewError(lookup.ErrTransient, p.ID(), fmt.Errorf("GET %s: %s", url, resp.Status))
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return nil, lookup.NewError(lookup.ErrTransient, p.ID(), err)
	}
	return body, nil
}

func netErrKind(err error) lookup.ErrorKind {
	if errors.Is(err, context.DeadlineExceeded) {
		return lookup.ErrTimeout
	}
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return lookup.ErrTimeout
	}
	return lookup.ErrTransient
}
