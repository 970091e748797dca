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

// Package endoflifedate implements the aggregator provider backed by the
// endoflife.date JSON API. Products resolve through three strategies, in
// order: the direct slug, known alias variations, and a similarity search
// over the full product catalog.
package endoflifedate

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"github.com/eolscout/eolscout/fingerprint"
	"github.com/eolscout/eolscout/log"
	"github.com/eolscout/eolscout/lookup"
	"github.com/eolscout/eolscout/normalizer"
	"github.com/eolscout/eolscout/provider"
	"github.com/eolscout/eolscout/provider/internal/similarity"
)

// DefaultBaseURL is the production API root.
const DefaultBaseURL = "https://endoflife.date"

// Confidence by resolution strategy. A direct slug hit is nearly as good as
// a vendor table; a catalog similarity match carries its score, capped at
// the catalog ceiling.
const (
	directConfidence  = 0.9
	aliasConfidence   = 0.85
	catalogConfidence = 0.75
)

const maxBody = 4 << 20

// Slug rewrites applied before hitting the API. The left side is the
// normalized fingerprint slug, the right side the endoflife.date product.
var slugAliases = map[string]string{
	"java":           "oracle-jdk",
	"apache":         "apache-http-server",
	"oracle-db":      "oracle-database",
	"win":            "windows",
	"k8s":            "kubernetes",
	"elastic-search": "elasticsearch",
}

// Provider is the endoflife.date aggregator.
type Provider struct {
	baseURL string
	client  *http.Client
	now     func() time.Time
}

// Option configures a Provider.
type Option func(*Provider)

// WithBaseURL points the provider at a different API root, used in tests.
func WithBaseURL(u string) Option {
	return func(p *Provider) { p.baseURL = strings.TrimRight(u, "/") }
}

// WithHTTPClient replaces the HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(p *Provider) { p.client = c }
}

// WithClock replaces the status-derivation clock, used in tests.
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
func (p *Provider) ID() string { return "aggregator/endoflife.date" }

// Priority implements provider.Provider.
func (p *Provider) Priority() int { return 20 }

// Kind implements provider.Provider.
func (p *Provider) Kind() provider.Kind { return provider.KindAggregator }

// Supports implements provider.Provider. The aggregator accepts anything;
// misses surface as not_found during Lookup.
func (p *Provider) Supports(fingerprint.Fingerprint) bool { return true }

// Lookup implements provider.Provider.
func (p *Provider) Lookup(ctx context.Context, fp fingerprint.Fingerprint) (lookup.Result, error) {
	slug, query := splitSlug(fp)

	// Strategy 1: the slug as-is.
	if res, err := p.fetchProduct(ctx, slug, query, fp, directConfidence); err == nil {
		return res, nil
	} else if lookup.KindOf(err) != lookup.ErrNotFound {
		return lookup.Result{}, err
	}

	// Strategy 2: alias variations.
	for _, alias := range aliasVariations(slug) {
		res, err := p.fetchProduct(ctx, alias, query, fp, aliasConfidence)
		if err == nil {
			return res, nil
		}
		if lookup.KindOf(err) != lookup.ErrNotFound {
			return lookup.Result{}, err
		}
	}

	// Strategy 3: similarity search over the catalog.
	products, err := p.fetchCatalog(ctx)
	if err != nil {
		return lookup.Result{}, err
	}
	for _, m := range similarity.TopK(slug, products, 3) {
		res, err := p.fetchProduct(ctx, m.ID, query, fp, math.Min(catalogConfidence, m.Score))
		if err == nil {
			log.Debugf("%s: catalog match %q for %q (score %.2f)", p.ID(), m.ID, slug, m.Score)
			return res, nil
		}
		if lookup.KindOf(err) != lookup.ErrNotFound {
			return lookup.Result{}, err
		}
	}
	return lookup.Result{}, lookup.NewError(lookup.ErrNotFound, p.ID(), nil)
}

// splitSlug separates a product slug from a trailing cycle query. A version
// embedded in the name wins over the fingerprint version field.
func splitSlug(fp fingerprint.Fingerprint) (slug, query string) {
	slug, query = fp.Slug(), fp.Version
	parts := strings.Split(slug, "-")
	// Peel trailing numeric segments off the slug; they are the cycle.
	i := len(parts)
	for i > 1 && isNumericSegment(parts[i-1]) {
		i--
	}
	if i < len(parts) {
		slug = strings.Join(parts[:i], "-")
		query = strings.Join(parts[i:], ".")
	}
	return slug, query
}

func isNumericSegment(s string) bool {
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

// aliasVariations lists alternative product slugs to try after a direct miss.
func aliasVariations(slug string) []string {
	var out []string
	if alias, ok := slugAliases[slug]; ok && alias != slug {
		out = append(out, alias)
	}
	if trimmed := strings.TrimPrefix(slug, "microsoft-"); trimmed != slug {
		out = append(out, trimmed)
	}
	if trimmed := strings.TrimSuffix(slug, "-server"); trimmed != slug {
		out = append(out, trimmed)
	}
	return out
}

// fetchProduct downloads one product's cycle list and selects the cycle for
// the query.
func (p *Provider) fetchProduct(ctx context.Context, slug, query string, fp fingerprint.Fingerprint, confidence float64) (lookup.Result, error) {
	body, err := p.get(ctx, p.baseURL+"/api/"+slug+".json")
	if err != nil {
		return lookup.Result{}, err
	}
	parsed := gjson.ParseBytes(body)
	if !parsed.IsArray() {
		return lookup.Result{}, lookup.NewError(lookup.ErrParseFailure, p.ID(),
			fmt.Errorf("product %s: expected JSON array", slug))
	}

	cycles := parsed.Array()
	var ids []string
	byID := make(map[string]gjson.Result, len(cycles))
	for _, c := range cycles {
		id := c.Get("cycle").String()
		if id == "" {
			continue
		}
		ids = append(ids, id)
		byID[id] = c
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

	res := p.resultFor(byID[best], slug, best, fp, confidence)
	if len(matches) > 1 {
		res.Extra["minor_versions"] = matches
	}
	res.Finalize(p.now())
	return res, nil
}

// resultFor maps one endoflife.date cycle object onto the uniform result.
// The eol and support fields are polymorphic: a date string, or a boolean
// where true means already over and false means still open-ended.
func (p *Provider) resultFor(c gjson.Result, slug, cycle string, fp fingerprint.Fingerprint, confidence float64) lookup.Result {
	res := lookup.Result{
		Success:       true,
		SoftwareName:  fp.Name,
		Version:       cycle,
		ReleaseDate:   lookup.Date(c.Get("releaseDate").String()),
		LatestVersion: c.Get("latest").String(),
		Confidence:    confidence,
		Source:        p.ID(),
		SourceURL:     p.baseURL + "/" + slug,
		Extra:         map[string]any{"product_code": slug + "-" + cycle},
	}
	switch eol := c.Get("eol"); eol.Type {
	case gjson.String:
		res.EOLDate = lookup.Date(eol.String())
	case gjson.True:
		// Over, but the date is not published; synthesize "already past".
		past := p.now().AddDate(0, 0, -1)
		res.EOLDate = &past
		res.Extra["eol_date_synthesized"] = true
	}
	if sup := c.Get("support"); sup.Type == gjson.String {
		res.SupportEndDate = lookup.Date(sup.String())
	}
	if lts := c.Get("lts"); lts.Type == gjson.True || lts.Type == gjson.String {
		res.Extra["lts"] = true
	}
	return res
}

// fetchCatalog downloads the full product slug list.
func (p *Provider) fetchCatalog(ctx context.Context) ([]string, error) {
	body, err := p.get(ctx, p.baseURL+"/api/all.json")
	if err != nil {
		return nil, err
	}
	parsed := gjson.ParseBytes(body)
	if !parsed.IsArray() {
		return nil, lookup.NewError(lookup.ErrParseFailure, p.ID(), errors.New("catalog: expected JSON array"))
	}
	var out []string
	for _, v := range parsed.Array() {
		if s := v.String(); s != "" {
			out = append(out, s)
		}
	}
	return out, nil
}

func (p *Provider) get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, lookup.NewError(lookup.ErrTransient, p.ID(), err)
	}
	req.Header.Set("Accept", "application/json")
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
