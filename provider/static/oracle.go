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

// Oracle covers Oracle Database, Oracle Linux and Oracle's JDK builds.
// Database versions carry the "c" suffix (19c); the tuple matcher ignores it.
func Oracle() *Vendor {
	return &Vendor{
		id:       "vendor/oracle",
		priority: 10,
		keywords: provider.NewKeywords("oracle", "oracle database", "oracle linux", "jdk"),
		urlFor: func(code string) string {
			return "https://endoflife.date/" + code
		},
		now: time.Now,
		cycles: []Cycle{
			{Product: "oracle-database", Cycle: "11.2", Release: "2009-09-01", SupportEnd: "2015-01-31", EOL: "2020-12-31"},
			{Product: "oracle-database", Cycle: "12.1", Release: "2013-06-25", SupportEnd: "2018-07-31", EOL: "2022-07-31"},
			{Product: "oracle-database", Cycle: "12.2", Release: "2017-03-01", SupportEnd: "2020-11-30", EOL: "2022-03-31"},
			{Product: "oracle-database", Cycle: "18", Release: "2018-02-16", EOL: "2021-06-30"},
			{Product: "oracle-database", Cycle: "19", Release: "2019-02-13", SupportEnd: "2026-04-30", EOL: "2029-12-31", LTS: true},
			{Product: "oracle-database", Cycle: "21", Release: "2021-08-13", EOL: "2025-04-30"},
			{Product: "oracle-database", Cycle: "23", Release: "2023-09-19", SupportEnd: "2029-04-30", EOL: "2032-04-30", LTS: true},

			{Product: "oracle-linux", Cycle: "7", Release: "2014-07-23", EOL: "2024-07-31", Extended: "2028-06-30"},
			{Product: "oracle-linux", Cycle: "8", Release: "2019-07-18", EOL: "2029-07-31", Extended: "2032-07-31"},
			{Product: "oracle-linux", Cycle: "9", Release: "2022-06-30", EOL: "2032-06-30", Extended: "2035-06-30"},

			{Product: "java", Cycle: "8", Release: "2014-03-18", SupportEnd: "2022-03-31", EOL: "2030-12-31", LTS: true},
			{Product: "java", Cycle: "11", Release: "2018-09-25", SupportEnd: "2023-09-30", EOL: "2032-01-31", LTS: true},
			{Product: "java", Cycle: "17", Release: "2021-09-14", SupportEnd: "2026-09-30", EOL: "2029-09-30", LTS: true},
			{Product: "java", Cycle: "21", Release: "2023-09-19", SupportEnd: "2028-09-30", EOL: "2031-09-30", LTS: true},
		},
	}
}
