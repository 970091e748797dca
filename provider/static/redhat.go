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

// RedHat covers RHEL and CentOS. CentOS Linux cycles end abruptly at the
// Stream cutover dates, which is why 8 dies before 7.
func RedHat() *Vendor {
	return &Vendor{
		id:       "vendor/redhat",
		priority: 10,
		keywords: provider.NewKeywords("rhel", "centos", "fedora"),
		urlFor: func(code string) string {
			return "https://endoflife.date/" + code
		},
		now: time.Now,
		cycles: []Cycle{
			{Product: "rhel", Cycle: "6", Release: "2010-11-09", SupportEnd: "2016-05-10", EOL: "2020-11-30", Extended: "2024-06-30", Latest: "6.10"},
			{Product: "rhel", Cycle: "7", Release: "2014-06-09", SupportEnd: "2019-08-06", EOL: "2024-06-30", Extended: "2028-06-30", Latest: "7.9"},
			{Product: "rhel", Cycle: "8", Release: "2019-05-07", SupportEnd: "2024-05-31", EOL: "2029-05-31", Extended: "2032-05-31", Latest: "8.10"},
			{Product: "rhel", Cycle: "9", Release: "2022-05-17", SupportEnd: "2027-05-31", EOL: "2032-05-31", Extended: "2035-05-31", Latest: "9.5"},

			{Product: "centos", Cycle: "6", Release: "2011-07-10", EOL: "2020-11-30"},
			{Product: "centos", Cycle: "7", Release: "2014-07-07", EOL: "2024-06-30", Latest: "7.9"},
			{Product: "centos", Cycle: "8", Release: "2019-09-24", EOL: "2021-12-31", Latest: "8.5"},
		},
	}
}
