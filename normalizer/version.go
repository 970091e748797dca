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

package normalizer

import (
	"slices"
	"strconv"
	"strings"
)

// Version is a loosely parsed version: a numeric tuple plus any trailing
// suffix tokens ("LTS", Oracle's "c", edition words). Opaque strings parse
// to an empty tuple and compare by their raw form.
type Version struct {
	Tuple  []int
	Suffix string
	Raw    string
}

// ParseVersion splits a version string into its numeric tuple and suffix.
// "18.04.5 LTS" -> {Tuple: [18 4 5], Suffix: "lts"}, "19c" -> {[19], "c"},
// "2019 Datacenter" -> {[2019], "datacenter"}.
func ParseVersion(s string) Version {
	v := Version{Raw: strings.TrimSpace(s)}
	rest := strings.ToLower(v.Raw)
	rest = strings.TrimPrefix(rest, "v")
	i := 0
	for i < len(rest) {
		start := i
		for i < len(rest) && rest[i] >= '0' && rest[i] <= '9' {
			i++
		}
		if start == i {
			break
		}
		n, _ := strconv.Atoi(rest[start:i])
		v.Tuple = append(v.Tuple, n)
		if i < len(rest) && rest[i] == '.' {
			i++
			continue
		}
		break
	}
	v.Suffix = strings.TrimSpace(strings.Trim(rest[i:], " .-_"))
	return v
}

// IsPrefixOf reports whether v's tuple is a prefix of other's tuple.
// This is the acceptance rule for version matching: a caller asking for
// "12" accepts any "12.x" cycle, "3.9" accepts "3.9.z" but not "3.10".
func (v Version) IsPrefixOf(other Version) bool {
	if len(v.Tuple) == 0 {
		return strings.EqualFold(v.Raw, other.Raw)
	}
	if len(v.Tuple) > len(other.Tuple) {
		return false
	}
	for i, n := range v.Tuple {
		if other.Tuple[i] != n {
			return false
		}
	}
	return true
}

// CompareVersions orders two version strings by numeric tuple, falling back
// to the raw string for opaque versions. Shorter tuples sort first when they
// are prefixes ("12" < "12.0" < "12.1").
func CompareVersions(a, b string) int {
	va, vb := ParseVersion(a), ParseVersion(b)
	for i := 0; i < len(va.Tuple) && i < len(vb.Tuple); i++ {
		if va.Tuple[i] != vb.Tuple[i] {
			if va.Tuple[i] < vb.Tuple[i] {
				return -1
			}
			return 1
		}
	}
	if len(va.Tuple) != len(vb.Tuple) {
		if len(va.Tuple) < len(vb.Tuple) {
			return -1
		}
		return 1
	}
	return strings.Compare(va.Raw, vb.Raw)
}

// SortVersions sorts version strings ascending in place and returns them.
func SortVersions(versions []string) []string {
	slices.SortFunc(versions, CompareVersions)
	return versions
}

// SelectCycle picks the cycle matching a query version from a provider's
// cycle list. A bare major selects the earliest cycle within that major
// (not the latest patch); a full version selects the exact cycle. The
// returned slice holds every matching cycle, sorted ascending.
func SelectCycle(query string, cycles []string) (best string, matches []string, ok bool) {
	q := ParseVersion(query)
	for _, c := range cycles {
		if q.IsPrefixOf(ParseVersion(c)) {
			matches = append(matches, c)
		}
	}
	if len(matches) == 0 {
		return "", nil, false
	}
	SortVersions(matches)
	return matches[0], matches, true
}
