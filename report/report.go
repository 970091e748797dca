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

// Package report aggregates per-asset lookup outcomes into buckets and
// renders the deterministic markdown summary returned to the user.
package report

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/eolscout/eolscout/fingerprint"
	"github.com/eolscout/eolscout/lookup"
	"github.com/eolscout/eolscout/normalizer"
)

// How many entries each section renders before eliding the rest.
const (
	attentionLimit = 10
	sectionLimit   = 5
)

// Item is one asset's lookup outcome.
type Item struct {
	Fingerprint fingerprint.Fingerprint
	Result      lookup.Result
	Err         error
}

// Report groups items by support status. Every slice is sorted by severity
// first and name second, so rendering is deterministic.
type Report struct {
	GeneratedAt time.Time

	EndOfLife   []Item
	Approaching []Item
	Supported   []Item
	Unknown     []Item
	Failed      []Item
}

// Total returns the number of assets covered.
func (r *Report) Total() int {
	return len(r.EndOfLife) + len(r.Approaching) + len(r.Supported) + len(r.Unknown) + len(r.Failed)
}

// Aggregate buckets the items. Failed lookups (Err set) land in Failed;
// successful ones bucket by derived status. Results a provider returned
// without a status are derived here from their EOL date so they cannot
// slip into the Unknown bucket with a date attached.
func Aggregate(items []Item, now time.Time) *Report {
	r := &Report{GeneratedAt: now}
	for _, it := range items {
		if it.Err == nil && it.Result.Status == "" {
			it.Result.Finalize(now)
		}
		switch {
		case it.Err != nil:
			r.Failed = append(r.Failed, it)
		case it.Result.Status == lookup.StatusEndOfLife:
			r.EndOfLife = append(r.EndOfLife, it)
		case it.Result.Status == lookup.StatusApproachingEOL:
			r.Approaching = append(r.Approaching, it)
		case it.Result.Status == lookup.StatusActive:
			r.Supported = append(r.Supported, it)
		default:
			r.Unknown = append(r.Unknown, it)
		}
	}
	for _, bucket := range [][]Item{r.EndOfLife, r.Approaching, r.Supported, r.Unknown, r.Failed} {
		slices.SortStableFunc(bucket, compareItems)
	}
	return r
}

// compareItems orders by risk descending, EOL date ascending, name ascending.
func compareItems(a, b Item) int {
	if ra, rb := riskRank(a.Result.Risk), riskRank(b.Result.Risk); ra != rb {
		return rb - ra
	}
	ea, eb := a.Result.EOLDate, b.Result.EOLDate
	switch {
	case ea != nil && eb != nil && !ea.Equal(*eb):
		return ea.Compare(*eb)
	case ea == nil && eb != nil:
		return 1
	case ea != nil && eb == nil:
		return -1
	}
	return strings.Compare(a.Fingerprint.Name, b.Fingerprint.Name)
}

func riskRank(r lookup.Risk) int {
	switch r {
	case lookup.RiskCritical:
		return 4
	case lookup.RiskHigh:
		return 3
	case lookup.RiskMedium:
		return 2
	case lookup.RiskLow:
		return 1
	}
	return 0
}

// Render produces the markdown summary. Output is fully determined by the
// report contents; no clocks or maps leak into the text.
func (r *Report) Render() string {
	if r.Total() == 0 {
		return "Nothing to report.\n"
	}
	determined := len(r.EndOfLife) + len(r.Approaching) + len(r.Supported)
	var b strings.Builder

	fmt.Fprintf(&b, "# EOL Report (%s)\n\n", r.GeneratedAt.Format("2006-01-02"))
	fmt.Fprintf(&b, "Assets reviewed: %d. End of life: %d, approaching EOL: %d, supported: %d, unknown: %d, failed lookups: %d.\n",
		r.Total(), len(r.EndOfLife), len(r.Approaching), len(r.Supported), len(r.Unknown), len(r.Failed))

	if determined == 0 {
		b.WriteString("\nNo support status could be determined for any asset. Review the assets manually and check provider availability.\n")
	}

	if len(r.EndOfLife)+len(r.Approaching) > 0 {
		b.WriteString("\n## ATTENTION REQUIRED\n\n")
		urgent := append(append([]Item{}, r.EndOfLife...), r.Approaching...)
		slices.SortStableFunc(urgent, compareItems)
		renderItems(&b, urgent, attentionLimit)
	}
	if len(r.Supported) > 0 {
		b.WriteString("\n## Supported\n\n")
		renderItems(&b, r.Supported, sectionLimit)
	}
	if len(r.Unknown) > 0 {
		b.WriteString("\n## Unknown support status\n\n")
		renderItems(&b, r.Unknown, sectionLimit)
	}
	if len(r.Failed) > 0 {
		b.WriteString("\n## Failed lookups\n\n")
		renderFailed(&b, r.Failed, sectionLimit)
	}
	renderRecommendations(&b, r)
	return b.String()
}

func renderItems(b *strings.Builder, items []Item, limit int) {
	n := len(items)
	if n > limit {
		items = items[:limit]
	}
	for _, it := range items {
		b.WriteString("- " + itemLine(it) + "\n")
	}
	if n > limit {
		fmt.Fprintf(b, "- … and %d more\n", n-limit)
	}
}

func renderFailed(b *strings.Builder, items []Item, limit int) {
	n := len(items)
	if n > limit {
		items = items[:limit]
	}
	for _, it := range items {
		kind := lookup.KindOf(it.Err)
		fmt.Fprintf(b, "- **%s**: lookup failed (%s)\n", displayName(it), kind)
	}
	if n > limit {
		fmt.Fprintf(b, "- … and %d more\n", n-limit)
	}
}

// itemLine renders one asset as a single markdown bullet body.
func itemLine(it Item) string {
	var parts []string
	parts = append(parts, "**"+displayName(it)+"**")
	if it.Result.Label != "" {
		parts = append(parts, string(it.Result.Label))
	}
	if it.Result.EOLDate != nil {
		parts = append(parts, "EOL "+it.Result.EOLDate.Format("2006-01-02"))
	}
	if it.Result.LatestVersion != "" {
		parts = append(parts, "latest "+normalizer.EscapeMarkdown(it.Result.LatestVersion))
	}
	line := strings.Join(parts, ", ")
	if it.Result.SourceURL != "" {
		line += fmt.Sprintf(" ([%s](%s))", sourceLabel(it.Result.Source), normalizer.EscapeURL(it.Result.SourceURL))
	}
	return line
}

func displayName(it Item) string {
	name := it.Fingerprint.Name
	if name == "" {
		name = it.Result.SoftwareName
	}
	version := it.Result.Version
	if version == "" {
		version = it.Fingerprint.Version
	}
	s := normalizer.EscapeMarkdown(name)
	if version != "" {
		s += " " + normalizer.EscapeMarkdown(version)
	}
	return s
}

func sourceLabel(source string) string {
	if i := strings.IndexByte(source, '/'); i >= 0 {
		return source[i+1:]
	}
	return source
}

func renderRecommendations(b *strings.Builder, r *Report) {
	if len(r.EndOfLife) == 0 && len(r.Approaching) == 0 && len(r.Failed) == 0 {
		return
	}
	b.WriteString("\n## Recommendations\n\n")
	if len(r.EndOfLife) > 0 {
		fmt.Fprintf(b, "- %d asset(s) are past end of life and no longer receive security fixes. Plan replacements now.\n", len(r.EndOfLife))
	}
	if len(r.Approaching) > 0 {
		fmt.Fprintf(b, "- %d asset(s) approach end of life within the next two years. Schedule upgrades before the dates above.\n", len(r.Approaching))
	}
	if len(r.Failed) > 0 {
		fmt.Fprintf(b, "- %d lookup(s) failed. Review these assets manually.\n", len(r.Failed))
	}
}
