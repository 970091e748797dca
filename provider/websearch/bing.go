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
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/tidwall/gjson"
)

// DefaultBingEndpoint is the Bing Web Search API v7 endpoint.
const DefaultBingEndpoint = "https://api.bing.microsoft.com/v7.0/search"

const bingMaxBody = 2 << 20

// BingClient implements Searcher over the Bing Web Search API.
type BingClient struct {
	APIKey   string
	Endpoint string
	Client   *http.Client
	// Count limits results per query; Bing defaults to 10.
	Count int
}

// NewBingClient builds a client for the production endpoint.
func NewBingClient(apiKey string) *BingClient {
	return &BingClient{
		APIKey:   apiKey,
		Endpoint: DefaultBingEndpoint,
		Client:   &http.Client{Timeout: 10 * time.Second},
		Count:    10,
	}
}

// Search implements Searcher.
func (b *BingClient) Search(ctx context.Context, query string) ([]SearchResult, error) {
	u, err := url.Parse(b.Endpoint)
	if err != nil {
		return nil, err
	}
	q := u.Query()
	q.Set("q", query)
	q.Set("count", fmt.Sprint(b.Count))
	q.Set("responseFilter", "Webpages")
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Ocp-Apim-Subscription-Key", b.APIKey)
	resp, err := b.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("bing search: %s", resp.Status)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, bingMaxBody))
	if err != nil {
		return nil, err
	}

	var out []SearchResult
	for _, v := range gjson.GetBytes(body, "webPages.value").Array() {
		out = append(out, SearchResult{
			URL:     v.Get("url").String(),
			Title:   v.Get("name").String(),
			Snippet: v.Get("snippet").String(),
		})
	}
	return out, nil
}
