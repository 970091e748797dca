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

// Package normalizer centralizes the regex-based name and version extraction
// shared by the inventory collector, the classifier and the orchestrator's
// message extractor. Raw telemetry strings are free-form; the ladder here
// turns them into (name, version) pairs providers can match on.
package normalizer

import (
	"regexp"
	"strings"
)

// Parsed is the outcome of running a raw product string through the ladder.
type Parsed struct {
	Name    string
	Version string
	// Edition or other trailing detail captured by OS patterns, e.g.
	// "Datacenter" for "Windows Server 2019 Datacenter".
	Edition string
}

var (
	reWindowsServer = regexp.MustCompile(`(?i)(Windows Server)\s+(\d{4})(?:\s+([^|]+))?`)
	reWindows       = regexp.MustCompile(`(?i)(Windows)\s+(\d+(?:\.\d+)?)`)
	reUbuntu        = regexp.MustCompile(`(?i)(Ubuntu)\s+(\d+\.\d+)`)
	reRHEL          = regexp.MustCompile(`(?i)(?:Red Hat Enterprise Linux|RHEL)\s+(?:Server\s+)?(\d+(?:\.\d+)?)`)
	reCentOS        = regexp.MustCompile(`(?i)(CentOS)(?:\s+Linux)?\s+(\d+(?:\.\d+)?)`)
	reDebian        = regexp.MustCompile(`(?i)(Debian)(?:\s+GNU/Linux)?\s+(\d+(?:\.\d+)?)`)
	reMacOS         = regexp.MustCompile(`(?i)(macOS|Mac OS X)\s+(\d+(?:\.\d+)*)`)
	reKernelVersion = regexp.MustCompile(`\b(\d+\.\d+(?:\.\d+)*)\b`)

	// Software patterns, tried in order: "name vX.Y.Z", "name - version",
	// "name X.Y(.Z)", "name 2019" (year versions).
	reSoftVPrefix = regexp.MustCompile(`^(.*?)\s+v(\d+(?:\.\d+)*)\s*$`)
	reSoftDash    = regexp.MustCompile(`^(.*?)\s+-\s+(\S+)\s*$`)
	reSoftDotted  = regexp.MustCompile(`^(.*?)\s+(\d+(?:\.\d+)+)(?:\s+.*)?$`)
	reSoftYear    = regexp.MustCompile(`^(.*?)\s+((?:19|20)\d{2})(?:\s+.*)?$`)
	reSoftMajor   = regexp.MustCompile(`^(.*?)\s+(\d+)(?:\s+.*)?$`)

	// Generic OS fallback.
	reFallback = regexp.MustCompile(`(\w+)\s+(\d+(?:\.\d+)*)`)
)

// ParseOS runs an OS heartbeat name string through the ladder.
// The Windows Server year stays part of the name ("Windows Server 2019")
// since vendor cycles are keyed by year, not kernel version.
func ParseOS(raw string) Parsed {
	if m := reWindowsServer.FindStringSubmatch(raw); m != nil {
		p := Parsed{Name: m[1] + " " + m[2]}
		if len(m) > 3 {
			p.Edition = strings.TrimSpace(m[3])
		}
		// The kernel-like version (e.g. "10.0") rides along when present
		// after the year match.
		rest := raw[strings.Index(raw, m[0])+len(m[0]):]
		if v := reKernelVersion.FindString(rest); v != "" {
			p.Version = v
		}
		return p
	}
	if m := reUbuntu.FindStringSubmatch(raw); m != nil {
		return Parsed{Name: m[1], Version: m[2]}
	}
	if m := reRHEL.FindStringSubmatch(raw); m != nil {
		return Parsed{Name: "RHEL", Version: m[1]}
	}
	if m := reCentOS.FindStringSubmatch(raw); m != nil {
		return Parsed{Name: m[1], Version: m[2]}
	}
	if m := reDebian.FindStringSubmatch(raw); m != nil {
		return Parsed{Name: m[1], Version: m[2]}
	}
	if m := reMacOS.FindStringSubmatch(raw); m != nil {
		return Parsed{Name: "macOS", Version: m[2]}
	}
	if m := reWindows.FindStringSubmatch(raw); m != nil {
		return Parsed{Name: m[1] + " " + m[2]}
	}
	if m := reFallback.FindStringSubmatch(raw); m != nil {
		return Parsed{Name: m[1], Version: m[2]}
	}
	return Parsed{Name: strings.TrimSpace(raw)}
}

// ParseSoftware runs a software inventory name string through the ladder.
func ParseSoftware(raw string) Parsed {
	raw = strings.TrimSpace(raw)
	if m := reSoftVPrefix.FindStringSubmatch(raw); m != nil {
		return Parsed{Name: strings.TrimSpace(m[1]), Version: m[2]}
	}
	if m := reSoftDash.FindStringSubmatch(raw); m != nil {
		return Parsed{Name: strings.TrimSpace(m[1]), Version: m[2]}
	}
	if m := reSoftDotted.FindStringSubmatch(raw); m != nil {
		return Parsed{Name: strings.TrimSpace(m[1]), Version: m[2]}
	}
	if m := reSoftYear.FindStringSubmatch(raw); m != nil {
		return Parsed{Name: strings.TrimSpace(m[1]), Version: m[2]}
	}
	if m := reSoftMajor.FindStringSubmatch(raw); m != nil {
		return Parsed{Name: strings.TrimSpace(m[1]), Version: m[2]}
	}
	return Parsed{Name: raw}
}

// Product phrases that signal an OS rather than regular software when they
// appear in a user message.
var osKeywords = []string{
	"windows server", "windows", "ubuntu", "rhel", "red hat", "centos",
	"debian", "macos", "esxi", "suse", "sles",
}

// LooksLikeOS reports whether a free-form product name refers to an
// operating system.
func LooksLikeOS(name string) bool {
	n := strings.ToLower(name)
	for _, kw := range osKeywords {
		if strings.Contains(n, kw) {
			return true
		}
	}
	return false
}

// Product mention patterns used to pull assets out of a chat message, e.g.
// "What is the EOL of Windows Server 2019?". Tried in order; the special
// cases beat the generic "word + number" fallback.
var reMsgWindowsServer = regexp.MustCompile(`(?i)(Windows Server)\s+(\d{4})`)

var messagePatterns = []*regexp.Regexp{
	reMsgWindowsServer,
	reUbuntu,
	reRHEL,
	reCentOS,
	reDebian,
	regexp.MustCompile(`(?i)\b(postgresql|mysql|mariadb|mongodb|redis|python|php|java|tomcat|apache|nginx|mssqlserver|sql server|exchange|sharepoint|office|vcenter|esxi|node\.?js)\s+(\d+(?:\.\d+)*)`),
	regexp.MustCompile(`(?i)\b([A-Za-z][A-Za-z0-9_.+-]{2,})\s+(\d+(?:\.\d+)*)`),
}

// ExtractMentions pulls (name, version) product mentions out of a user
// message, deduplicated in order of appearance. Text claimed by an earlier
// pattern is masked so the generic fallback can't re-capture fragments of it.
func ExtractMentions(message string) []Parsed {
	var out []Parsed
	seen := map[string]bool{}
	remaining := message
	for i, re := range messagePatterns {
		generic := i == len(messagePatterns)-1
		if generic && len(out) > 0 {
			break
		}
		for _, m := range re.FindAllStringSubmatch(remaining, -1) {
			name := strings.TrimSpace(m[1])
			version := ""
			if len(m) > 2 {
				version = strings.TrimSpace(m[2])
			}
			if re == reMsgWindowsServer {
				name = name + " " + version // year is part of the product name
				version = ""
			}
			key := strings.ToLower(name) + "|" + version
			if seen[key] {
				continue
			}
			seen[key] = true
			out = append(out, Parsed{Name: name, Version: version})
		}
		remaining = re.ReplaceAllString(remaining, " ")
	}
	return out
}

var markdownEscaper = strings.NewReplacer(
	`\`, `\\`, `*`, `\*`, `_`, `\_`, "`", "\\`",
	`[`, `\[`, `]`, `\]`, `|`, `\|`, `#`, `\#`,
)

// EscapeMarkdown escapes characters that would break the rendered report.
func EscapeMarkdown(s string) string {
	return markdownEscaper.Replace(s)
}

var urlEscaper = strings.NewReplacer(
	" ", "%20", "(", "%28", ")", "%29", "*", "%2A",
	"_", "%5F", "`", "%60", "[", "%5B", "]", "%5D",
	`\`, "%5C", "|", "%7C", "<", "%3C", ">", "%3E",
)

// EscapeURL percent-encodes characters that would terminate or restyle a
// markdown link target. Backslash escaping is not valid inside a URL, so
// these use percent encoding instead.
func EscapeURL(s string) string {
	return urlEscaper.Replace(s)
}
