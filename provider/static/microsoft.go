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

// Microsoft covers the Windows, Windows Server, SQL Server, Exchange and
// Office lifecycles published at learn.microsoft.com/lifecycle.
func Microsoft() *Vendor {
	return &Vendor{
		id:       "vendor/microsoft",
		priority: 10,
		keywords: provider.NewKeywords(
			"microsoft", "windows", "mssqlserver", "exchange", "sharepoint",
			"office", "iis", "hyperv", "windows server",
		),
		urlFor: func(code string) string {
			return "https://learn.microsoft.com/lifecycle/products/" + code
		},
		live: &liveSource{
			providerID: "vendor/microsoft",
			urlFor: func(family string) string {
				return "https://learn.microsoft.com/lifecycle/products/" + family
			},
		},
		now: time.Now,
		cycles: []Cycle{
			{Product: "windows-server", Cycle: "2012", Release: "2012-10-30", SupportEnd: "2018-10-09", EOL: "2023-10-10", Extended: "2026-10-13"},
			{Product: "windows-server", Cycle: "2016", Release: "2016-10-15", SupportEnd: "2022-01-11", EOL: "2027-01-12"},
			{Product: "windows-server", Cycle: "2019", Release: "2018-11-13", SupportEnd: "2024-01-09", EOL: "2029-01-09", Latest: "10.0.17763"},
			{Product: "windows-server", Cycle: "2022", Release: "2021-08-18", SupportEnd: "2026-10-13", EOL: "2031-10-14", Latest: "10.0.20348"},
			{Product: "windows-server", Cycle: "2025", Release: "2024-11-01", SupportEnd: "2029-10-09", EOL: "2034-10-10"},

			{Product: "windows", Cycle: "8.1", Release: "2013-11-13", SupportEnd: "2018-01-09", EOL: "2023-01-10"},
			{Product: "windows", Cycle: "10", Release: "2015-07-29", EOL: "2025-10-14", Latest: "22H2"},
			{Product: "windows", Cycle: "11", Release: "2021-10-04", EOL: "2031-10-14", Latest: "24H2"},

			{Product: "mssqlserver", Cycle: "2012", Release: "2012-05-20", SupportEnd: "2017-07-11", EOL: "2022-07-12"},
			{Product: "mssqlserver", Cycle: "2014", Release: "2014-06-05", SupportEnd: "2019-07-09", EOL: "2024-07-09"},
			{Product: "mssqlserver", Cycle: "2016", Release: "2016-06-01", SupportEnd: "2021-07-13", EOL: "2026-07-14"},
			{Product: "mssqlserver", Cycle: "2017", Release: "2017-09-29", SupportEnd: "2022-10-11", EOL: "2027-10-12"},
			{Product: "mssqlserver", Cycle: "2019", Release: "2019-11-04", SupportEnd: "2025-02-28", EOL: "2030-01-08"},
			{Product: "mssqlserver", Cycle: "2022", Release: "2022-11-16", SupportEnd: "2028-01-11", EOL: "2033-01-11"},

			{Product: "exchange", Cycle: "2016", Release: "2015-10-01", SupportEnd: "2020-10-13", EOL: "2025-10-14"},
			{Product: "exchange", Cycle: "2019", Release: "2018-10-22", SupportEnd: "2024-01-09", EOL: "2025-10-14"},

			{Product: "office", Cycle: "2016", Release: "2015-09-22", SupportEnd: "2020-10-13", EOL: "2025-10-14"},
			{Product: "office", Cycle: "2019", Release: "2018-09-24", SupportEnd: "2023-10-10", EOL: "2025-10-14"},
			{Product: "office", Cycle: "2021", Release: "2021-10-05", SupportEnd: "2026-10-13", EOL: "2026-10-13"},
		},
	}
}
