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
	"time"

	"github.com/eolscout/eolscout/provider"
)

// NodeJS covers the Node.js release schedule. SupportEnd marks the end of
// the active LTS window; EOL marks the end of maintenance.
func NodeJS() *Vendor {
	return &Vendor{
		id:       "vendor/nodejs",
		priority: 10,
		keywords: provider.NewKeywords("nodejs", "node"),
		urlFor: func(code string) string {
			return "https://endoflife.date/nodejs"
		},
		live: &liveSource{
			providerID: "vendor/nodejs",
			urlFor: func(string) string {
				return "https://endoflife.date/nodejs"
			},
		},
		now: time.Now,
		cycles: []Cycle{
			{Product: "nodejs", Cycle: "12", Release: "2019-04-23", SupportEnd: "2020-11-30", EOL: "2022-04-30", LTS: true, Latest: "12.22.12"},
			{Product: "nodejs", Cycle: "14", Release: "2020-04-21", SupportEnd: "2021-10-19", EOL: "2023-04-30", LTS: true, Latest: "14.21.3"},
			{Product: "nodejs", Cycle: "16", Release: "2021-04-20", SupportEnd: "2022-10-18", EOL: "2023-09-11", LTS: true, Latest: "16.20.2"},
			{Product: "nodejs", Cycle: "18", Release: "2022-04-19", SupportEnd: "2023-10-18", EOL: "2025-04-30", LTS: true, Latest: "18.20.8"},
			{Product: "nodejs", Cycle: "20", Release: "2023-04-18", SupportEnd: "2024-10-22", EOL: "2026-04-30", LTS: true, Latest: "20.19.0"},
			{Product: "nodejs", Cycle: "22", Release: "2024-04-24", SupportEnd: "2025-10-21", EOL: "2027-04-30", LTS: true, Latest: "22.14.0"},
			{Product: "nodejs", Cycle: "23", Release: "2024-10-16", SupportEnd: "2025-04-01", EOL: "2025-06-01", Latest: "23.10.0"},
		},
	}
}
