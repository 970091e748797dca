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

// Package fingerprint defines the normalized (name, version, kind) tuple used
// as the cache and single-flight key throughout the lookup pipeline.
package fingerprint

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/gohugoio/hashstructure"
)

// Kind distinguishes operating systems from regular software.
type Kind string

// Kind values.
const (
	KindSoftware Kind = "software"
	KindOS       Kind = "os"
)

// Fingerprint is the normalized identity of a lookup target. Two fingerprints
// compare equal iff their normalized forms are equal, so the struct is usable
// directly as a map key.
type Fingerprint struct {
	Name    string
	Version string
	Kind    Kind
}

// Phrase aliases applied to normalized names, checked in order so longer
// phrases win over their substrings. Matching is anchored on word boundaries
// so a rule never fires inside a longer word ("postgres" must not rewrite
// part of "postgresql"); that keeps normalization idempotent.
var aliases = []struct {
	re *regexp.Regexp
	to string
}{
	{aliasPattern("microsoft sql server"), "mssqlserver"},
	{aliasPattern("ms sql server"), "mssqlserver"},
	{aliasPattern("sql server"), "mssqlserver"},
	{aliasPattern("red hat enterprise linux"), "rhel"},
	{aliasPattern("redhat enterprise linux"), "rhel"},
	{aliasPattern("red hat"), "rhel"},
	{aliasPattern("suse linux enterprise server"), "sles"},
	{aliasPattern("internet information services"), "iis"},
	{aliasPattern("node js"), "nodejs"},
	{aliasPattern("node.js"), "nodejs"},
	{aliasPattern("postgres"), "postgresql"},
	{aliasPattern("apache http server"), "apache"},
	{aliasPattern("apache httpd"), "apache"},
	{aliasPattern("vmware esxi"), "esxi"},
	{aliasPattern("vmware vsphere"), "vsphere"},
}

func aliasPattern(phrase string) *regexp.Regexp {
	return regexp.MustCompile(`\b` + regexp.QuoteMeta(phrase) + `\b`)
}

// New builds a Fingerprint from free-form name and version strings.
// Normalization is idempotent: New(New(x)...) equals New(x...).
func New(name, version string, kind Kind) Fingerprint {
	return Fingerprint{
		Name:    NormalizeName(name),
		Version: strings.TrimSpace(strings.ToLower(version)),
		Kind:    kind,
	}
}

// NormalizeName case-folds, collapses whitespace and applies the alias table.
func NormalizeName(name string) string {
	n := strings.ToLower(strings.TrimSpace(name))
	n = strings.Join(strings.Fields(n), " ")
	for _, a := range aliases {
		n = a.re.ReplaceAllString(n, a.to)
	}
	// Re-collapse in case a replacement left doubled spaces.
	return strings.Join(strings.Fields(n), " ")
}

// Slug returns the name with spaces and dots replaced by hyphens, the form
// vendor tables and aggregator URLs key their products by
// (e.g. "windows server 2019" -> "windows-server-2019").
func (f Fingerprint) Slug() string {
	s := strings.ReplaceAll(f.Name, " ", "-")
	return strings.ReplaceAll(s, ".", "-")
}

// String renders the fingerprint for logs and telemetry payloads.
func (f Fingerprint) String() string {
	if f.Version == "" {
		return fmt.Sprintf("%s/%s", f.Kind, f.Name)
	}
	return fmt.Sprintf("%s/%s@%s", f.Kind, f.Name, f.Version)
}

// Hex16 returns the stable 16-hex-digit hash used in persistent cache keys.
func (f Fingerprint) Hex16() string {
	h, err := hashstructure.Hash(f, nil)
	if err != nil {
		// Hash only fails on unsupported types; Fingerprint is all strings.
		return fmt.Sprintf("%016x", 0)
	}
	return fmt.Sprintf("%016x", h)
}
