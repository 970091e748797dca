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

package static

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"regexp"
	"strings"

	"github.com/eolscout/eolscout/log"
	"github.com/eolscout/eolscout/lookup"
	"github.com/eolscout/eolscout/provider/internal/htmltable"
)

const userAgent = "eolscout/1.0 (+https://github.com/eolscout/eolscout)"

// maxLiveBody caps how much of a lifecycle page we are willing to read.
const maxLiveBody = 4 << 20

// liveSource fetches a vendor lifecycle page and parses its release table
// when the embedded table has no answer.
type liveSource struct {
	providerID string
	// urlFor renders the page URL for a product family.
	urlFor func(family string) string
	client *http.Client
}

// refresh downloads and parses the lifecycle page for family.
func (l *liveSource) refresh(ctx context.Context, family string) ([]Cycle, error) {
	url := l.urlFor(family)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, lookup.NewError(lookup.ErrTransient, l.providerID, err)
	}
	req.Header.Set("User-Agent", userAgent)
	resp, err := l.httpClient().Do(req)
	if err != nil {
		return nil, lookup.NewError(classifyNetErr(err), l.providerID, err)
	}
	defer resp.Body.Close()
	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, lookup.NewError(lookup.ErrNotFound, l.providerID, nil)
	case resp.StatusCode >= 500:
		return nil, lookup.NewError(lookup.ErrUpstream5xx, l.providerID,
			fmt.Errorf("GET %s: %s", url, resp.Status))
	case resp.StatusCode != http.StatusOK:
		return nil, lookup.NewError(lookup.ErrTransient, l.providerID,
			fmt.Errorf("GET %s: %s", url, resp.Status))
	}
	cycles, err := parseCycleTable(io.LimitReader(resp.Body, maxLiveBody), family)
	if err != nil {
		return nil, lookup.NewError(lookup.ErrParseFailure, l.providerID, err)
	}
	log.Debugf("%s: live refresh of %q yielded %d cycles", l.providerID, family, len(cycles))
	return cycles, nil
}

func (l *liveSource) httpClient() *http.Client {
	if l.client != nil {
		return l.client
	}
	return http.DefaultClient
}

func classifyNetErr(err error) lookup.ErrorKind {
	if errors.Is(err, context.DeadlineExceeded) {
		return lookup.ErrTimeout
	}
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return lookup.ErrTimeout
	}
	return lookup.ErrTransient
}

var reISODate = regexp.MustCompile(`\d{4}-\d{2}-\d{2}`)

// parseCycleTable extracts release cycles from the first HTML table whose
// header row names a cycle/version column. Column meaning is taken from the
// header text; unrecognized columns are ignored.
func parseCycleTable(r io.Reader, family string) ([]Cycle, error) {
	header, rows, err := htmltable.First(r)
	if err != nil {
		return nil, err
	}
	cols := headerColumns(header)
	if cols.cycle < 0 {
		return nil, errors.New("release table has no cycle column")
	}
	var cycles []Cycle
	for _, cells := range rows {
		if cols.cycle >= len(cells) {
			continue
		}
		c := Cycle{Product: family, Cycle: strings.TrimSpace(cells[cols.cycle])}
		if c.Cycle == "" {
			continue
		}
		c.Release = dateAt(cells, cols.release)
		c.SupportEnd = dateAt(cells, cols.support)
		c.EOL = dateAt(cells, cols.eol)
		c.Latest = textAt(cells, cols.latest)
		cycles = append(cycles, c)
	}
	if len(cycles) == 0 {
		return nil, errors.New("release table had no parseable rows")
	}
	return cycles, nil
}

type columnIndex struct {
	cycle, release, support, eol, latest int
}

func headerColumns(header []string) columnIndex {
	cols := columnIndex{cycle: -1, release: -1, support: -1, eol: -1, latest: -1}
	for i, text := range header {
		switch t := strings.ToLower(text); {
		case strings.Contains(t, "cycle") || strings.Contains(t, "version") || strings.Contains(t, "release name"):
			if cols.cycle < 0 {
				cols.cycle = i
			}
		case strings.Contains(t, "released") || strings.Contains(t, "release date") || strings.Contains(t, "ga date"):
			cols.release = i
		case strings.Contains(t, "active support") || strings.Contains(t, "mainstream"):
			cols.support = i
		case strings.Contains(t, "end of life") || strings.Contains(t, "eol") || strings.Contains(t, "security support") || strings.Contains(t, "retirement"):
			if cols.eol < 0 {
				cols.eol = i
			}
		case strings.Contains(t, "latest"):
			cols.latest = i
		}
	}
	return cols
}

func dateAt(cells []string, i int) string {
	if i < 0 || i >= len(cells) {
		return ""
	}
	return reISODate.FindString(cells[i])
}

func textAt(cells []string, i int) string {
	if i < 0 || i >= len(cells) {
		return ""
	}
	return strings.TrimSpace(cells[i])
}
