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

// PostgreSQL covers the community's five-year major release policy. Minor
// releases within a major are listed individually so that a bare-major query
// resolves to the earliest cycle and reports the rest as minor_versions.
func PostgreSQL() *Vendor {
	return &Vendor{
		id:       "vendor/postgresql",
		priority: 10,
		keywords: provider.NewKeywords("postgresql"),
		urlFor: func(code string) string {
			return "https://www.postgresql.org/support/versioning/"
		},
		live: &liveSource{
			providerID: "vendor/postgresql",
			urlFor: func(string) string {
				return "https://www.postgresql.org/support/versioning/"
			},
		},
		now: time.Now,
		cycles: []Cycle{
			{Product: "postgresql", Cycle: "9.6", Release: "2016-09-29", EOL: "2021-11-11", Latest: "9.6.24"},
			{Product: "postgresql", Cycle: "10", Release: "2017-10-05", EOL: "2022-11-10", Latest: "10.23"},
			{Product: "postgresql", Cycle: "11", Release: "2018-10-18", EOL: "2023-11-09", Latest: "11.22"},
			{Product: "postgresql", Cycle: "12.0", Release: "2019-10-03", EOL: "2024-11-14"},
			{Product: "postgresql", Cycle: "12.1", Release: "2019-11-14", EOL: "2024-11-14"},
			{Product: "postgresql", Cycle: "12.2", Release: "2020-02-13", EOL: "2024-11-14"},
			{Product: "postgresql", Cycle: "13", Release: "2020-09-24", EOL: "2025-11-13", Latest: "13.20"},
			{Product: "postgresql", Cycle: "14", Release: "2021-09-30", EOL: "2026-11-12", Latest: "14.17"},
			{Product: "postgresql", Cycle: "15", Release: "2022-10-13", EOL: "2027-11-11", Latest: "15.12"},
			{Product: "postgresql", Cycle: "16", Release: "2023-09-14", EOL: "2028-11-09", Latest: "16.8"},
			{Product: "postgresql", Cycle: "17", Release: "2024-09-26", EOL: "2029-11-08", Latest: "17.4"},
		},
	}
}
