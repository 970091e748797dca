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

// Package htmltable extracts tabular data and links from scraped lifecycle
// pages. Shared by the providers that parse vendor and aggregator HTML.
package htmltable

import (
	"errors"
	"io"
	"strings"

	"golang.org/x/net/html"
)

// ErrNoTable is returned when a page contains no <table> element.
var ErrNoTable = errors.New("no table in page")

// First parses the first table of the document into a header row and data
// rows, with cell text flattened and trimmed.
func First(r io.Reader) (header []string, rows [][]string, err error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, nil, err
	}
	table := find(doc, "table")
	if table == nil {
		return nil, nil, ErrNoTable
	}
	trs := collect(table, "tr")
	if len(trs) == 0 {
		return nil, nil, ErrNoTable
	}
	header = cellTexts(trs[0])
	for _, tr := range trs[1:] {
		if cells := cellTexts(tr); len(cells) > 0 {
			rows = append(rows, cells)
		}
	}
	return header, rows, nil
}

// Link is an anchor extracted from a page.
type Link struct {
	Href string
	Text string
}

// Links returns every anchor in the document.
func Links(r io.Reader) ([]Link, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, err
	}
	var out []Link
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "a" {
			var href string
			for _, a := range n.Attr {
				if a.Key == "href" {
					href = a.Val
					break
				}
			}
			if href != "" {
				out = append(out, Link{Href: href, Text: Text(n)})
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return out, nil
}

// Text flattens the text content of a node.
func Text(n *html.Node) string {
	var b strings.Builder
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.TrimSpace(b.String())
}

func find(n *html.Node, tag string) *html.Node {
	if n.Type == html.ElementNode && n.Data == tag {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if t := find(c, tag); t != nil {
			return t
		}
	}
	return nil
}

// collect gathers descendant elements of the given tag, stopping descent at
// each hit so nested tables do not double-count rows.
func collect(n *html.Node, tag string) []*html.Node {
	var out []*html.Node
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == tag {
			out = append(out, n)
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c)
	}
	return out
}

func cellTexts(row *html.Node) []string {
	var cells []string
	for c := row.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && (c.Data == "td" || c.Data == "th") {
			cells = append(cells, Text(c))
		}
	}
	return cells
}
