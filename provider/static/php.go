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

// PHP covers php.net's supported-versions schedule.
func PHP() *Vendor {
	return &Vendor{
		id:       "vendor/php",
		priority: 10,
		keywords: provider.NewKeywords("php"),
		urlFor: func(code string) string {
			return "https://www.php.net/supported-versions.php"
		},
		live: &liveSource{
			providerID: "vendor/php",
			urlFor: func(string) string {
				return "https://www.php.net/supported-versions.php"
			},
		},
		now: time.Now,
		cycles: []Cycle{
			{Product: "php", Cycle: "7.4", Release: "2019-11-28", SupportEnd: "2021-11-28", EOL: "2022-11-28", Latest: "7.4.33"},
			{Product: "php", Cycle: "8.0", Release: "2020-11-26", SupportEnd: "2022-11-26", EOL: "2023-11-26", Latest: "8.0.30"},
			{Product: "php", Cycle: "8.1", Release: "2021-11-25", SupportEnd: "2023-11-25", EOL: "2025-12-31", Latest: "8.1.32"},
			{Product: "php", Cycle: "8.2", Release: "2022-12-08", SupportEnd: "2024-12-31", EOL: "2026-12-31", Latest: "8.2.28"},
			{Product: "php", Cycle: "8.3", Release: "2023-11-23", SupportEnd: "2025-12-31", EOL: "2027-12-31", Latest: "8.3.19"},
			{Product: "php", Cycle: "8.4", Release: "2024-11-21", SupportEnd: "2026-12-31", EOL: "2028-12-31", Latest: "8.4.5"},
		},
	}
}
