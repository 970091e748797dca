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

// Package eolscout orchestrates one chat request end to end: classify the
// message, gather lookup targets (from the message or the inventory), run
// the provider cascades under a bounded worker pool, and render the report.
package eolscout

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"

	"github.com/eolscout/eolscout/cache"
	"github.com/eolscout/eolscout/classifier"
	"github.com/eolscout/eolscout/fingerprint"
	"github.com/eolscout/eolscout/inventory"
	"github.com/eolscout/eolscout/log"
	"github.com/eolscout/eolscout/lookup"
	"github.com/eolscout/eolscout/normalizer"
	"github.com/eolscout/eolscout/provider"
	"github.com/eolscout/eolscout/report"
	"github.com/eolscout/eolscout/router"
	"github.com/eolscout/eolscout/telemetry"
)

// Version is reported by the health endpoint and the CLI.
const Version = "0.1.0"

// Defaults applied when Options leaves a knob zero.
const (
	DefaultRequestDeadline = 60 * time.Second
	DefaultProviderTimeout = 15 * time.Second
	DefaultPoolSize        = 8

	// DefaultAgentID namespaces cache keys for this agent.
	DefaultAgentID = "eol-agent"
)

// Retry policy for retryable provider failures: up to lookupMaxAttempts
// total attempts with exponential backoff and jitter.
const (
	lookupMaxAttempts    = 3
	retryInitialInterval = 250 * time.Millisecond
	retryMultiplier      = 2.0
	retryJitter          = 0.2
)

// ErrNoTargets is returned when an EOL question names no recognizable
// product.
var ErrNoTargets = errors.New("no products recognized in message")

// Options wires a Scout together.
type Options struct {
	// Providers is the full provider set; see provider/list.
	Providers []provider.Provider
	// DisabledProviders lists provider ids excluded from every cascade.
	DisabledProviders []string
	// Store backs the lookup cache; nil keeps it in memory.
	Store cache.Store
	// CacheTTL and CacheNegativeTTL override the cache expiries when
	// positive.
	CacheTTL         time.Duration
	CacheNegativeTTL time.Duration
	// Backend answers inventory queries; nil disables inventory tasks.
	Backend inventory.Backend
	// InventoryRowLimit caps how many rows each inventory query pulls.
	InventoryRowLimit int
	// Recorder receives telemetry events; nil disables recording.
	Recorder *telemetry.Recorder

	RequestDeadline time.Duration
	ProviderTimeout time.Duration
	PoolSize        int
	// HeartbeatWindow bounds inventory staleness.
	HeartbeatWindow time.Duration

	// Clock overrides time.Now, used in tests.
	Clock func() time.Time
}

// Scout is the request orchestrator.
type Scout struct {
	router    *router.Router
	cache     *cache.Cache
	collector *inventory.Collector
	recorder  *telemetry.Recorder

	requestDeadline time.Duration
	providerTimeout time.Duration
	poolSize        int
	heartbeatWindow time.Duration
	now             func() time.Time
}

// New builds a Scout from the options.
func New(opts Options) *Scout {
	s := &Scout{
		router:          router.New(opts.Providers, opts.DisabledProviders),
		recorder:        opts.Recorder,
		requestDeadline: opts.RequestDeadline,
		providerTimeout: opts.ProviderTimeout,
		poolSize:        opts.PoolSize,
		heartbeatWindow: opts.HeartbeatWindow,
		now:             opts.Clock,
	}
	if s.requestDeadline <= 0 {
		s.requestDeadline = DefaultRequestDeadline
	}
	if s.providerTimeout <= 0 {
		s.providerTimeout = DefaultProviderTimeout
	}
	if s.poolSize <= 0 {
		s.poolSize = DefaultPoolSize
	}
	if s.heartbeatWindow <= 0 {
		s.heartbeatWindow = 30 * 24 * time.Hour
	}
	if s.now == nil {
		s.now = time.Now
	}
	cacheOpts := []cache.Option{cache.WithClock(s.now)}
	if opts.CacheTTL > 0 {
		cacheOpts = append(cacheOpts, cache.WithTTL(opts.CacheTTL))
	}
	if opts.CacheNegativeTTL > 0 {
		cacheOpts = append(cacheOpts, cache.WithNegativeTTL(opts.CacheNegativeTTL))
	}
	s.cache = cache.New(opts.Store, cacheOpts...)
	if opts.Backend != nil {
		var collOpts []inventory.CollectorOption
		if opts.InventoryRowLimit > 0 {
			collOpts = append(collOpts, inventory.WithRowLimit(opts.InventoryRowLimit))
		}
		s.collector = inventory.NewCollector(opts.Backend, collOpts...)
	}
	return s
}

// Response is the outcome of one chat request.
type Response struct {
	SessionID string
	RequestID string
	Intent    classifier.Intent
	Task      classifier.Task

	// Assets lists the inventory collected, for inventory tasks.
	Assets []inventory.Asset
	// Items holds per-target lookup outcomes, for EOL tasks.
	Items []report.Item
	// Markdown is the rendered answer.
	Markdown string
}

// Run executes one chat request. The context is bounded by the request
// deadline; per-provider attempts are bounded separately.
func (s *Scout) Run(ctx context.Context, sessionID, message string) (*Response, error) {
	ctx, cancel := context.WithTimeout(ctx, s.requestDeadline)
	defer cancel()

	resp := &Response{SessionID: sessionID, RequestID: uuid.NewString()}
	s.record(resp, "orchestrator", telemetry.TypeStateTransition, map[string]any{"state": "received"})

	resp.Intent, resp.Task = classifier.Classify(message)
	s.record(resp, "classifier", telemetry.TypeClassifierDecision, map[string]any{
		"intent": string(resp.Intent),
		"task":   string(resp.Task),
	})
	// Inventory tasks start their collection immediately; for mixed tasks
	// this overlaps with nothing yet, but keeps the single code path.
	var assets []inventory.Asset
	if needsInventory(resp.Task) {
		assets = s.collect(ctx, resp)
		resp.Assets = assets
	}
	s.record(resp, "orchestrator", telemetry.TypeStateTransition, map[string]any{"state": "planned"})

	if resp.Task == classifier.TaskInventoryOnly {
		resp.Markdown = renderInventory(resp.Intent, assets)
		s.record(resp, "orchestrator", telemetry.TypeStateTransition, map[string]any{"state": "reported"})
		return resp, nil
	}

	targets := s.targets(resp, message, assets)
	if len(targets) == 0 {
		return nil, fmt.Errorf("%w: %q", ErrNoTargets, message)
	}

	items := s.lookupAll(ctx, resp, targets)
	resp.Items = items
	s.record(resp, "orchestrator", telemetry.TypeStateTransition, map[string]any{"state": "looked_up"})

	resp.Markdown = report.Aggregate(items, s.now()).Render()
	s.record(resp, "orchestrator", telemetry.TypeStateTransition, map[string]any{"state": "reported"})
	return resp, nil
}

// Purge drops this agent's cached lookups, returning how many were removed.
func (s *Scout) Purge() (int, error) {
	return s.cache.Purge(DefaultAgentID)
}

// PurgeEntry drops the cached entry for one fingerprint, returning how many
// entries were removed (0 or 1).
func (s *Scout) PurgeEntry(fp fingerprint.Fingerprint) (int, error) {
	return s.cache.Evict(DefaultAgentID, fp)
}

// Recorder exposes the telemetry recorder, nil when recording is off.
func (s *Scout) Recorder() *telemetry.Recorder { return s.recorder }

// ProviderStatus is one provider row in the health report.
type ProviderStatus struct {
	ID    string `json:"id"`
	Ready bool   `json:"ready"`
}

// ProviderStatuses lists every registered provider. Ready is false only for
// providers disabled by configuration.
func (s *Scout) ProviderStatuses() []ProviderStatus {
	var out []ProviderStatus
	for _, p := range s.router.Providers() {
		out = append(out, ProviderStatus{ID: p.ID(), Ready: !s.router.Disabled(p.ID())})
	}
	return out
}

func needsInventory(task classifier.Task) bool {
	return task == classifier.TaskInventoryOnly || task == classifier.TaskMixedInventoryEOL
}

// collect pulls the inventory slices the intent asks for, OS and software in
// parallel. A failing slice degrades the answer rather than aborting the
// request: the failure is logged and recorded, and whatever the other slice
// returned still flows into the report.
func (s *Scout) collect(ctx context.Context, resp *Response) []inventory.Asset {
	if s.collector == nil {
		s.record(resp, "inventory", telemetry.TypeInventory, map[string]any{
			"assets": 0, "error": "backend not configured",
		})
		return nil
	}
	wantOS := resp.Intent == classifier.IntentOSInventory || resp.Intent == classifier.IntentOSEOLGrounded ||
		resp.Intent == classifier.IntentGeneralEOLGrounded
	wantSW := resp.Intent == classifier.IntentSoftwareInventory || resp.Intent == classifier.IntentSWEOLGrounded ||
		resp.Intent == classifier.IntentGeneralEOLGrounded

	var osAssets, swAssets []inventory.Asset
	g, gctx := errgroup.WithContext(ctx)
	if wantOS {
		g.Go(func() error {
			var err error
			osAssets, err = s.collector.CollectOS(gctx, s.heartbeatWindow)
			if err != nil {
				log.Warnf("collecting OS inventory: %v", err)
				s.record(resp, "inventory", telemetry.TypeInventory, map[string]any{
					"slice": "os", "error": err.Error(),
				})
			}
			return nil
		})
	}
	if wantSW {
		g.Go(func() error {
			var err error
			swAssets, err = s.collector.CollectSoftware(gctx, s.heartbeatWindow)
			if err != nil {
				log.Warnf("collecting software inventory: %v", err)
				s.record(resp, "inventory", telemetry.TypeInventory, map[string]any{
					"slice": "software", "error": err.Error(),
				})
			}
			return nil
		})
	}
	// Workers never return errors; a failed slice just stays empty.
	_ = g.Wait()

	assets := inventory.Dedupe(append(osAssets, swAssets...))
	s.record(resp, "inventory", telemetry.TypeInventory, map[string]any{"assets": len(assets)})
	return assets
}

// targets derives the fingerprints to look up: inventory assets for grounded
// tasks, message mentions otherwise.
func (s *Scout) targets(resp *Response, message string, assets []inventory.Asset) []fingerprint.Fingerprint {
	var fps []fingerprint.Fingerprint
	seen := map[fingerprint.Fingerprint]bool{}
	add := func(fp fingerprint.Fingerprint) {
		if fp.Name != "" && !seen[fp] {
			seen[fp] = true
			fps = append(fps, fp)
		}
	}
	if resp.Task == classifier.TaskMixedInventoryEOL {
		for _, a := range assets {
			add(a.Fingerprint())
		}
		return fps
	}
	for _, m := range normalizer.ExtractMentions(message) {
		kind := fingerprint.KindSoftware
		if normalizer.LooksLikeOS(m.Name) {
			kind = fingerprint.KindOS
		}
		add(fingerprint.New(m.Name, m.Version, kind))
	}
	return fps
}

// lookupAll fans the targets out over the worker pool. Every target yields
// exactly one item; a failed cascade yields an item with Err set.
func (s *Scout) lookupAll(ctx context.Context, resp *Response, targets []fingerprint.Fingerprint) []report.Item {
	items := make([]report.Item, len(targets))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.poolSize)
	for i, fp := range targets {
		i, fp := i, fp
		g.Go(func() error {
			res, err := s.lookupOne(gctx, resp, fp)
			if err == nil && res.Status == "" {
				// Providers normally derive the status themselves; backstop
				// any that handed back a bare date.
				res.Finalize(s.now())
			}
			items[i] = report.Item{Fingerprint: fp, Result: res, Err: err}
			return nil
		})
	}
	// Workers never return errors; they fold failures into their item.
	_ = g.Wait()
	return items
}

// lookupOne resolves one fingerprint through the cache and, on miss, the
// provider cascade.
func (s *Scout) lookupOne(ctx context.Context, resp *Response, fp fingerprint.Fingerprint) (lookup.Result, error) {
	res, hit, err := s.cache.Lookup(ctx, DefaultAgentID, fp, func(fctx context.Context) (lookup.Result, error) {
		return s.cascade(fctx, resp, fp)
	})
	event := telemetry.TypeCacheMiss
	if hit {
		event = telemetry.TypeCacheHit
	}
	s.record(resp, "cache", event, map[string]any{"fingerprint": fp.String()})
	return res, err
}

// cascade walks the provider plan for fp until the stop rule is satisfied.
// The best sub-threshold success is kept as a fallback answer.
func (s *Scout) cascade(ctx context.Context, resp *Response, fp fingerprint.Fingerprint) (lookup.Result, error) {
	plan := s.router.PlanFor(resp.Task, fp)
	for _, id := range plan.DisabledIDs {
		s.record(resp, "router", telemetry.TypeProviderDisabled, map[string]any{
			"provider":    id,
			"fingerprint": fp.String(),
		})
	}
	if plan.Empty() {
		return lookup.Result{}, lookup.NewError(lookup.ErrNotSupported, "router", fmt.Errorf("no providers for %s", fp))
	}

	var best lookup.Result
	var haveBest bool
	var errs error
	for _, p := range plan.Providers {
		if ctx.Err() != nil {
			s.record(resp, "orchestrator", telemetry.TypeCancelled, map[string]any{"fingerprint": fp.String()})
			return lookup.Result{}, lookup.NewError(lookup.ErrCancelled, p.ID(), ctx.Err())
		}
		res, err := s.attempt(ctx, resp, p, fp)
		if err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		if res.Confidence >= plan.Stop.ConfidenceThreshold {
			return res, nil
		}
		if !haveBest || res.Confidence > best.Confidence {
			best, haveBest = res, true
		}
	}
	if haveBest {
		return best, nil
	}
	if errs == nil {
		return lookup.Result{}, lookup.NewError(lookup.ErrNotFound, "router", nil)
	}
	// Collapse the cascade errors into a single representative kind: any
	// not_found wins over transport noise, because it means providers did
	// answer and the product is simply unknown.
	kind := lookup.ErrTransient
	for _, e := range multierr.Errors(errs) {
		if lookup.KindOf(e) == lookup.ErrNotFound {
			kind = lookup.ErrNotFound
			break
		}
	}
	return lookup.Result{}, lookup.NewError(kind, "router", errs)
}

// attempt runs one provider with the per-attempt timeout and the retry
// policy for retryable failures.
func (s *Scout) attempt(ctx context.Context, resp *Response, p provider.Provider, fp fingerprint.Fingerprint) (lookup.Result, error) {
	s.record(resp, p.ID(), telemetry.TypeProviderStart, map[string]any{"fingerprint": fp.String()})
	start := s.now()

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = retryInitialInterval
	bo.Multiplier = retryMultiplier
	bo.RandomizationFactor = retryJitter
	bo.MaxElapsedTime = 0

	var res lookup.Result
	attempts := 0
	operation := func() error {
		attempts++
		actx, cancel := context.WithTimeout(ctx, s.providerTimeout)
		defer cancel()
		var err error
		res, err = p.Lookup(actx, fp)
		if err == nil {
			return nil
		}
		var le *lookup.Error
		if errors.As(err, &le) && le.Retryable() && attempts < lookupMaxAttempts {
			s.record(resp, p.ID(), telemetry.TypeRetry, map[string]any{
				"fingerprint": fp.String(),
				"attempt":     attempts,
				"kind":        string(lookup.KindOf(err)),
			})
			return err
		}
		return backoff.Permanent(err)
	}
	err := backoff.Retry(operation, backoff.WithContext(bo, ctx))

	payload := map[string]any{
		"fingerprint": fp.String(),
		"attempts":    attempts,
		"duration_ms": s.now().Sub(start).Milliseconds(),
	}
	if err != nil {
		payload["error_kind"] = string(lookup.KindOf(err))
		log.Debugf("%s: lookup %s failed after %d attempt(s): %v", p.ID(), fp, attempts, err)
	} else {
		payload["confidence"] = res.Confidence
	}
	s.record(resp, p.ID(), telemetry.TypeProviderFinish, payload)
	return res, err
}

// renderInventory is the markdown answer for pure inventory questions.
func renderInventory(intent classifier.Intent, assets []inventory.Asset) string {
	kind := "assets"
	switch intent {
	case classifier.IntentOSInventory:
		kind = "operating systems"
	case classifier.IntentSoftwareInventory:
		kind = "software packages"
	}
	if len(assets) == 0 {
		return fmt.Sprintf("No %s found in the inventory.\n", kind)
	}
	var b []byte
	b = fmt.Appendf(b, "# Inventory\n\nFound %d distinct %s:\n\n", len(assets), kind)
	for _, a := range assets {
		name := normalizer.EscapeMarkdown(a.Name)
		if a.Version != "" {
			b = fmt.Appendf(b, "- %s %s\n", name, normalizer.EscapeMarkdown(a.Version))
		} else {
			b = fmt.Appendf(b, "- %s\n", name)
		}
	}
	return string(b)
}

func (s *Scout) record(resp *Response, component, eventType string, payload map[string]any) {
	if s.recorder == nil {
		return
	}
	s.recorder.Record(resp.SessionID, resp.RequestID, component, eventType, payload)
}
