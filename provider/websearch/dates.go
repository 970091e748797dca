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

package websearch

import (
	"regexp"
	"slices"
	"strconv"
	"strings"
	"time"
)

// The date pattern ladder, tried most-specific first. A year-only match is
// last resort and resolves to December 31 of that year.
var (
	reISO      = regexp.MustCompile(`\b(\d{4})-(\d{2})-(\d{2})\b`)
	reUS       = regexp.MustCompile(`\b(\d{1,2})/(\d{1,2})/(\d{4})\b`)
	reLong     = regexp.MustCompile(`\b(January|February|March|April|May|June|July|August|September|October|November|December)\s+(\d{1,2}),?\s+(\d{4})\b`)
	reAbbrev   = regexp.MustCompile(`\b(Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec)\.?\s+(\d{1,2}),?\s+(\d{4})\b`)
	reDayFirst = regexp.MustCompile(`\b(\d{1,2})\s+(January|February|March|April|May|June|July|August|September|October|November|December|Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec)\.?\s+(\d{4})\b`)
	reYearOnly = regexp.MustCompile(`\b(19\d{2}|20\d{2})\b`)
)

var monthByName = map[string]time.Month{
	"january": time.January, "jan": time.January,
	"february": time.February, "feb": time.February,
	"march": time.March, "mar": time.March,
	"april": time.April, "apr": time.April,
	"may":  time.May,
	"june": time.June, "jun": time.June,
	"july": time.July, "jul": time.July,
	"august": time.August, "aug": time.August,
	"september": time.September, "sep": time.September,
	"october": time.October, "oct": time.October,
	"november": time.November, "nov": time.November,
	"december": time.December, "dec": time.December,
}

// ExtractDates mines every date mention from free text, walking the pattern
// ladder. The year-only pattern fires only when nothing more specific did.
func ExtractDates(text string) []time.Time {
	var out []time.Time

	for _, m := range reISO.FindAllStringSubmatch(text, -1) {
		if t, ok := ymd(m[1], m[2], m[3]); ok {
			out = append(out, t)
		}
	}
	for _, m := range reUS.FindAllStringSubmatch(text, -1) {
		if t, ok := ymd(m[3], m[1], m[2]); ok {
			out = append(out, t)
		}
	}
	for _, m := range reLong.FindAllStringSubmatch(text, -1) {
		if t, ok := monthDay(m[1], m[2], m[3]); ok {
			out = append(out, t)
		}
	}
	for _, m := range reAbbrev.FindAllStringSubmatch(text, -1) {
		if t, ok := monthDay(m[1], m[2], m[3]); ok {
			out = append(out, t)
		}
	}
	for _, m := range reDayFirst.FindAllStringSubmatch(text, -1) {
		if t, ok := monthDay(m[2], m[1], m[3]); ok {
			out = append(out, t)
		}
	}
	if len(out) > 0 {
		return dedupe(out)
	}
	for _, m := range reYearOnly.FindAllStringSubmatch(text, -1) {
		y, _ := strconv.Atoi(m[1])
		out = append(out, time.Date(y, time.December, 31, 0, 0, 0, 0, time.UTC))
	}
	return dedupe(out)
}

// PlausibleDates keeps dates within ten years of now, either direction.
// Snippets routinely quote founding years and copyright lines; a support
// date outside that window is noise.
func PlausibleDates(dates []time.Time, now time.Time) []time.Time {
	lo, hi := now.AddDate(-10, 0, 0), now.AddDate(10, 0, 0)
	var out []time.Time
	for _, d := range dates {
		if d.After(lo) && d.Before(hi) {
			out = append(out, d)
		}
	}
	return out
}

// PickEOLDate chooses the most likely EOL date from plausible candidates:
// the earliest future date, or when everything is past, the latest past one.
func PickEOLDate(dates []time.Time, now time.Time) time.Time {
	slices.SortFunc(dates, func(a, b time.Time) int { return a.Compare(b) })
	for _, d := range dates {
		if d.After(now) {
			return d
		}
	}
	return dates[len(dates)-1]
}

func ymd(ys, ms, ds string) (time.Time, bool) {
	y, _ := strconv.Atoi(ys)
	m, _ := strconv.Atoi(ms)
	d, _ := strconv.Atoi(ds)
	if m < 1 || m > 12 || d < 1 || d > 31 {
		return time.Time{}, false
	}
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC), true
}

func monthDay(month, day, year string) (time.Time, bool) {
	m, ok := monthByName[strings.ToLower(month)]
	if !ok {
		return time.Time{}, false
	}
	d, _ := strconv.Atoi(day)
	y, _ := strconv.Atoi(year)
	if d < 1 || d > 31 {
		return time.Time{}, false
	}
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), true
}

func dedupe(dates []time.Time) []time.Time {
	slices.SortFunc(dates, func(a, b time.Time) int { return a.Compare(b) })
	return slices.CompactFunc(dates, func(a, b time.Time) bool { return a.Equal(b) })
}
