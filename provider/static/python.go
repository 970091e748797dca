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

// Python covers CPython's release schedule per the devguide. SupportEnd is
// the end of bugfix releases; EOL the end of security releases.
func Python() *Vendor {
	return &Vendor{
		id:       "vendor/python",
		priority: 10,
		keywords: provider.NewKeywords("python", "cpython"),
		urlFor: func(code string) string {
			return "https://devguide.python.org/versions/"
		},
		live: &liveSource{
			providerID: "vendor/python",
			urlFor: func(string) string {
				return "https://devguide.python.org/versions/"
			},
		},
		now: time.Now,
		cycles: []Cycle{
			{Product: "python", Cycle: "2.7", Release: "2010-07-03", EOL: "2020-01-01", Latest: "2.7.18"},
			{Product: "python", Cycle: "3.6", Release: "2016-12-23", SupportEnd: "2018-12-24", EOL: "2021-12-23", Latest: "3.6.15"},
			{Product: "python", Cycle: "3.7", Release: "2018-06-27", SupportEnd: "2020-06-27", EOL: "2023-06-27", Latest: "3.7.17"},
			{Product: "python", Cycle: "3.8", Release: "2019-10-14", SupportEnd: "2021-05-03", EOL: "2024-10-07", Latest: "3.8.20"},
			{Product: "python", Cycle: "3.9", Release: "2020-10-05", SupportEnd: "2022-05-17", EOL: "2025-10-31", Latest: "3.9.21"},
			{Product: "python", Cycle: "3.10", Release: "2021-10-04", SupportEnd: "2023-04-05", EOL: "2026-10-31", Latest: "3.10.16"},
			{Product: "python", Cycle: "3.11", Release: "2022-10-24", SupportEnd: "2024-04-02", EOL: "2027-10-31", Latest: "3.11.11"},
			{Product: "python", Cycle: "3.12", Release: "2023-10-02", SupportEnd: "2025-04-02", EOL: "2028-10-31", Latest: "3.12.9"},
			{Product: "python", Cycle: "3.13", Release: "2024-10-07", SupportEnd: "2026-10-01", EOL: "2029-10-31", Latest: "3.13.2"},
		},
	}
}
