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

package normalizer_test

import (
	"testing"

	"github.com/eolscout/eolscout/normalizer"
	"github.com/google/go-cmp/cmp"
)

func TestParseOS(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want normalizer.Parsed
	}{
		{
			name: "windows-server-with-edition-and-kernel",
			raw:  "Windows Server 2019 Datacenter|10.0.17763",
			want: normalizer.Parsed{Name: "Windows Server 2019", Version: "10.0.17763", Edition: "Datacenter"},
		},
		{
			name: "windows-server-plain",
			raw:  "Windows Server 2016",
			want: normalizer.Parsed{Name: "Windows Server 2016"},
		},
		{
			name: "ubuntu-point-release",
			raw:  "Ubuntu 18.04.5 LTS",
			want: normalizer.Parsed{Name: "Ubuntu", Version: "18.04"},
		},
		{
			name: "rhel-long-form",
			raw:  "Red Hat Enterprise Linux Server 7.9",
			want: normalizer.Parsed{Name: "RHEL", Version: "7.9"},
		},
		{
			name: "centos",
			raw:  "CentOS Linux 7",
			want: normalizer.Parsed{Name: "CentOS", Version: "7"},
		},
		{
			name: "debian",
			raw:  "Debian GNU/Linux 11",
			want: normalizer.Parsed{Name: "Debian", Version: "11"},
		},
		{
			name: "macos",
			raw:  "macOS 13.2.1",
			want: normalizer.Parsed{Name: "macOS", Version: "13.2.1"},
		},
		{
			name: "fallback-word-number",
			raw:  "FreeBSD 13.1",
			want: normalizer.Parsed{Name: "FreeBSD", Version: "13.1"},
		},
		{
			name: "opaque",
			raw:  "Some Appliance OS",
			want: normalizer.Parsed{Name: "Some Appliance OS"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := normalizer.ParseOS(tt.raw)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("ParseOS(%q) returned unexpected diff (-want +got):\n%s", tt.raw, diff)
			}
		})
	}
}

func TestParseSoftware(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want normalizer.Parsed
	}{
		{name: "v-prefix", raw: "nginx v1.22.1", want: normalizer.Parsed{Name: "nginx", Version: "1.22.1"}},
		{name: "dash-version", raw: "tomcat - 9.0.71", want: normalizer.Parsed{Name: "tomcat", Version: "9.0.71"}},
		{name: "dotted", raw: "PostgreSQL 12.4", want: normalizer.Parsed{Name: "PostgreSQL", Version: "12.4"}},
		{name: "year-version", raw: "Microsoft SQL Server 2019", want: normalizer.Parsed{Name: "Microsoft SQL Server", Version: "2019"}},
		{name: "bare-major", raw: "PostgreSQL 12", want: normalizer.Parsed{Name: "PostgreSQL", Version: "12"}},
		{name: "no-version", raw: "Slack", want: normalizer.Parsed{Name: "Slack"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := normalizer.ParseSoftware(tt.raw)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("ParseSoftware(%q) returned unexpected diff (-want +got):\n%s", tt.raw, diff)
			}
		})
	}
}

func TestExtractMentions(t *testing.T) {
	tests := []struct {
		name    string
		message string
		want    []normalizer.Parsed
	}{
		{
			name:    "windows-server-question",
			message: "What is the EOL of Windows Server 2019?",
			want:    []normalizer.Parsed{{Name: "Windows Server 2019"}},
		},
		{
			name:    "postgres-bare-major",
			message: "Is PostgreSQL 12 still supported?",
			want:    []normalizer.Parsed{{Name: "PostgreSQL", Version: "12"}},
		},
		{
			name:    "multiple-products",
			message: "Check Windows Server 2016 and Ubuntu 18.04 please",
			want: []normalizer.Parsed{
				{Name: "Windows Server 2016"},
				{Name: "Ubuntu", Version: "18.04"},
			},
		},
		{
			name:    "unknown-product-fallback",
			message: "When does FrobnicatorDB 9 go out of support?",
			want:    []normalizer.Parsed{{Name: "FrobnicatorDB", Version: "9"}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := normalizer.ExtractMentions(tt.message)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("ExtractMentions(%q) returned unexpected diff (-want +got):\n%s", tt.message, diff)
			}
		})
	}
}

func TestLooksLikeOS(t *testing.T) {
	if !normalizer.LooksLikeOS("Windows Server 2019") {
		t.Error("LooksLikeOS(Windows Server 2019) = false, want true")
	}
	if normalizer.LooksLikeOS("PostgreSQL") {
		t.Error("LooksLikeOS(PostgreSQL) = true, want false")
	}
}

func TestEscapeMarkdown(t *testing.T) {
	got := normalizer.EscapeMarkdown("weird|name_with*chars[1]")
	want := `weird\|name\_with\*chars\[1\]`
	if got != want {
		t.Errorf("EscapeMarkdown() = %q, want %q", got, want)
	}
}
