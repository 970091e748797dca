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

// Ubuntu covers Canonical's Ubuntu release cycle. EOL here is the end of
// standard security maintenance; ESM extends it for Pro subscribers and is
// surfaced via extra.extended_support.
func Ubuntu() *Vendor {
	return &Vendor{
		id:       "vendor/ubuntu",
		priority: 10,
		keywords: provider.NewKeywords("ubuntu", "canonical"),
		urlFor: func(code string) string {
			return "https://endoflife.date/" + code
		},
		live: &liveSource{
			providerID: "vendor/ubuntu",
			urlFor: func(string) string {
				return "https://endoflife.date/ubuntu"
			},
		},
		now: time.Now,
		cycles: []Cycle{
			{Product: "ubuntu", Cycle: "14.04", Release: "2014-04-17", EOL: "2019-04-25", Extended: "2024-04-25", LTS: true, Latest: "14.04.6"},
			{Product: "ubuntu", Cycle: "16.04", Release: "2016-04-21", EOL: "2021-04-30", Extended: "2026-04-23", LTS: true, Latest: "16.04.7"},
			{Product: "ubuntu", Cycle: "18.04", Release: "2018-04-26", EOL: "2023-05-31", Extended: "2028-04-01", LTS: true, Latest: "18.04.6"},
			{Product: "ubuntu", Cycle: "20.04", Release: "2020-04-23", EOL: "2025-05-31", Extended: "2030-04-02", LTS: true, Latest: "20.04.6"},
			{Product: "ubuntu", Cycle: "22.04", Release: "2022-04-21", EOL: "2027-06-01", Extended: "2032-04-09", LTS: true, Latest: "22.04.5"},
			{Product: "ubuntu", Cycle: "23.10", Release: "2023-10-12", EOL: "2024-07-11", Latest: "23.10"},
			{Product: "ubuntu", Cycle: "24.04", Release: "2024-04-25", EOL: "2029-05-31", Extended: "2034-04-25", LTS: true, Latest: "24.04.2"},
		},
	}
}
