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

// Debian covers the Debian release cycle. EOL is the end of regular security
// support; Extended is the end of the LTS effort.
func Debian() *Vendor {
	return &Vendor{
		id:       "vendor/debian",
		priority: 10,
		keywords: provider.NewKeywords("debian"),
		urlFor: func(code string) string {
			return "https://endoflife.date/" + code
		},
		now: time.Now,
		cycles: []Cycle{
			{Product: "debian", Cycle: "9", Release: "2017-06-17", EOL: "2020-07-06", Extended: "2022-06-30", Latest: "9.13"},
			{Product: "debian", Cycle: "10", Release: "2019-07-06", EOL: "2022-09-10", Extended: "2024-06-30", Latest: "10.13"},
			{Product: "debian", Cycle: "11", Release: "2021-08-14", EOL: "2024-08-14", Extended: "2026-08-31", Latest: "11.11"},
			{Product: "debian", Cycle: "12", Release: "2023-06-10", EOL: "2026-06-10", Extended: "2028-06-30", Latest: "12.10"},
		},
	}
}
