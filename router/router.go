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

// Package router builds the provider cascade for an asset: which providers
// to try, in what order, and when to stop.
package router

import (
	"slices"

	"github.com/eolscout/eolscout/classifier"
	"github.com/eolscout/eolscout/fingerprint"
	"github.com/eolscout/eolscout/provider"
)

// DefaultConfidenceThreshold is the first-success bar: a result at or above
// it ends the cascade immediately.
const DefaultConfidenceThreshold = 0.6

// StopKind selects the rule deciding when a cascade is complete.
type StopKind int

// StopKind values.
const (
	// FirstSuccess stops at the first result whose confidence meets the
	// threshold; if the cascade exhausts without one, the best result wins.
	FirstSuccess StopKind = iota
	// CollectBest always runs the full cascade and keeps the best result.
	CollectBest
	// Quorum stops once N providers agree on the EOL date.
	Quorum
)

// StopRule is the cascade termination predicate.
type StopRule struct {
	Kind                StopKind
	ConfidenceThreshold float64
	QuorumN             int
}

// Plan is an ordered provider cascade for one asset.
type Plan struct {
	Providers []provider.Provider
	Stop      StopRule
	// DisabledIDs lists providers that would have been in the cascade but
	// are turned off by configuration; recorded for telemetry.
	DisabledIDs []string
}

// Empty reports whether the plan contains no providers to run.
func (p Plan) Empty() bool { return len(p.Providers) == 0 }

// Router picks provider cascades from the registered provider set.
type Router struct {
	vendors     []provider.Provider
	aggregators []provider.Provider
	fallbacks   []provider.Provider
	disabled    map[string]bool
}

// New builds a Router over the given providers. disabled lists provider ids
// turned off by configuration.
func New(providers []provider.Provider, disabled []string) *Router {
	r := &Router{disabled: map[string]bool{}}
	for _, id := range disabled {
		r.disabled[id] = true
	}
	for _, p := range providers {
		switch p.Kind() {
		case provider.KindVendor:
			r.vendors = append(r.vendors, p)
		case provider.KindAggregator:
			r.aggregators = append(r.aggregators, p)
		case provider.KindWebSearch:
			r.fallbacks = append(r.fallbacks, p)
		}
	}
	byPriority := func(a, b provider.Provider) int { return a.Priority() - b.Priority() }
	slices.SortStableFunc(r.vendors, byPriority)
	slices.SortStableFunc(r.aggregators, byPriority)
	slices.SortStableFunc(r.fallbacks, byPriority)
	return r
}

// Providers returns every registered provider, vendors first, each group in
// priority order. Used by the health endpoint.
func (r *Router) Providers() []provider.Provider {
	out := make([]provider.Provider, 0, len(r.vendors)+len(r.aggregators)+len(r.fallbacks))
	out = append(out, r.vendors...)
	out = append(out, r.aggregators...)
	out = append(out, r.fallbacks...)
	return out
}

// Disabled reports whether the provider id is turned off by configuration.
func (r *Router) Disabled(id string) bool { return r.disabled[id] }

// PlanFor returns the cascade for one asset under the given task.
// INVENTORY_ONLY needs no providers; INTERNET_EOL uses only the web-search
// fallback; everything else cascades vendor -> aggregators -> web search.
func (r *Router) PlanFor(task classifier.Task, fp fingerprint.Fingerprint) Plan {
	plan := Plan{Stop: StopRule{Kind: FirstSuccess, ConfidenceThreshold: DefaultConfidenceThreshold}}
	switch task {
	case classifier.TaskInventoryOnly:
		return plan
	case classifier.TaskInternetEOL:
		plan.Providers = r.alive(&plan, r.fallbacks...)
		return plan
	}

	// First vendor whose Supports matches, then the aggregators, then the
	// web-search fallback.
	for _, v := range r.vendors {
		if !v.Supports(fp) {
			continue
		}
		if r.disabled[v.ID()] {
			plan.DisabledIDs = append(plan.DisabledIDs, v.ID())
			continue
		}
		plan.Providers = append(plan.Providers, v)
		break
	}
	plan.Providers = append(plan.Providers, r.alive(&plan, r.aggregators...)...)
	plan.Providers = append(plan.Providers, r.alive(&plan, r.fallbacks...)...)
	return plan
}

// alive filters out disabled providers, recording them on the plan.
func (r *Router) alive(plan *Plan, providers ...provider.Provider) []provider.Provider {
	var out []provider.Provider
	for _, p := range providers {
		if r.disabled[p.ID()] {
			plan.DisabledIDs = append(plan.DisabledIDs, p.ID())
			continue
		}
		out = append(out, p)
	}
	return out
}
