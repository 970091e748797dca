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

// Package providertest contains a scripted Provider implementation for
// exercising the router, cache and orchestrator in tests.
package providertest

import (
	"context"
	"sync"

	"github.com/eolscout/eolscout/fingerprint"
	"github.com/eolscout/eolscout/lookup"
	"github.com/eolscout/eolscout/provider"
)

// Step is one scripted Lookup outcome.
type Step struct {
	Result lookup.Result
	Err    error
}

// Fake is a Provider whose Lookup returns scripted outcomes in order,
// repeating the last one once the script runs out.
type Fake struct {
	IDValue       string
	PriorityValue int
	KindValue     provider.Kind
	SupportsFn    func(fingerprint.Fingerprint) bool
	Script        []Step

	mu    sync.Mutex
	calls int
	seen  []fingerprint.Fingerprint
}

var _ provider.Provider = &Fake{}

// ID implements Provider.
func (f *Fake) ID() string { return f.IDValue }

// Priority implements Provider.
func (f *Fake) Priority() int { return f.PriorityValue }

// Kind implements Provider.
func (f *Fake) Kind() provider.Kind { return f.KindValue }

// Supports implements Provider. Defaults to true when no predicate is set.
func (f *Fake) Supports(fp fingerprint.Fingerprint) bool {
	if f.SupportsFn == nil {
		return true
	}
	return f.SupportsFn(fp)
}

// Lookup implements Provider by replaying the script.
func (f *Fake) Lookup(ctx context.Context, fp fingerprint.Fingerprint) (lookup.Result, error) {
	if err := ctx.Err(); err != nil {
		return lookup.Result{}, lookup.NewError(lookup.ErrCancelled, f.IDValue, err)
	}
	f.mu.Lock()
	i := f.calls
	f.calls++
	f.seen = append(f.seen, fp)
	if i >= len(f.Script) {
		i = len(f.Script) - 1
	}
	var step Step
	if i >= 0 {
		step = f.Script[i]
	}
	f.mu.Unlock()
	if step.Err != nil {
		return lookup.Result{}, step.Err
	}
	return step.Result, nil
}

// Calls returns how many times Lookup ran.
func (f *Fake) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

// Seen returns the fingerprints Lookup received, in order.
func (f *Fake) Seen() []fingerprint.Fingerprint {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]fingerprint.Fingerprint, len(f.seen))
	copy(out, f.seen)
	return out
}

// Success builds a successful scripted result with the given confidence.
func Success(source, name string, confidence float64) Step {
	return Step{Result: lookup.Result{
		Success:      true,
		SoftwareName: name,
		Confidence:   confidence,
		Source:       source,
		Extra:        map[string]any{"cycle": name},
	}}
}

// Failure builds a scripted failure of the given kind.
func Failure(source string, kind lookup.ErrorKind) Step {
	return Step{Err: lookup.NewError(kind, source, nil)}
}
