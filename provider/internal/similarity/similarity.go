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

// Package similarity scores how well a product id from an aggregator catalog
// matches a search term. Used by the aggregator providers' catalog-scan
// search strategy.
package similarity

import (
	"slices"
	"strings"
)

// CandidateThreshold is the minimum score at which a catalog entry is worth
// attempting a lookup against.
const CandidateThreshold = 0.3

// Score rates the match between a search term and a candidate product id.
// Exact match scores 1.0, containment either direction 0.8, otherwise token
// Jaccard with a 0.3 bonus when every search token appears in the candidate.
func Score(search, candidate string) float64 {
	s := normalize(search)
	c := normalize(candidate)
	if s == c {
		return 1.0
	}
	if s != "" && c != "" && (strings.Contains(c, s) || strings.Contains(s, c)) {
		return 0.8
	}
	st := tokens(s)
	ct := tokens(c)
	if len(st) == 0 || len(ct) == 0 {
		return 0
	}
	inter := 0
	for tok := range st {
		if ct[tok] {
			inter++
		}
	}
	union := len(st) + len(ct) - inter
	score := float64(inter) / float64(union)
	if inter == len(st) {
		score += 0.3
	}
	if score > 1.0 {
		score = 1.0
	}
	return score
}

// Match is one scored catalog entry.
type Match struct {
	ID    string
	Score float64
}

// TopK scores every catalog id against the search term and returns the k
// best candidates at or above the threshold, best first.
func TopK(search string, catalog []string, k int) []Match {
	var matches []Match
	for _, id := range catalog {
		if sc := Score(search, id); sc >= CandidateThreshold {
			matches = append(matches, Match{ID: id, Score: sc})
		}
	}
	slices.SortStableFunc(matches, func(a, b Match) int {
		switch {
		case a.Score > b.Score:
			return -1
		case a.Score < b.Score:
			return 1
		default:
			return strings.Compare(a.ID, b.ID)
		}
	})
	if k > 0 && len(matches) > k {
		matches = matches[:k]
	}
	return matches
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func tokens(s string) map[string]bool {
	out := map[string]bool{}
	for _, tok := range strings.FieldsFunc(s, func(r rune) bool {
		return r == '-' || r == '_' || r == ' ' || r == '\t'
	}) {
		out[tok] = true
	}
	return out
}
