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

// Apache covers httpd and Tomcat. The ASF does not publish fixed EOL dates
// for active branches, so open-ended cycles have no EOL and resolve to an
// unknown status rather than a guess.
func Apache() *Vendor {
	return &Vendor{
		id:       "vendor/apache",
		priority: 10,
		keywords: provider.NewKeywords("apache", "httpd", "tomcat"),
		urlFor: func(code string) string {
			return "https://endoflife.date/" + code
		},
		now: time.Now,
		cycles: []Cycle{
			{Product: "apache", Cycle: "2.2", Release: "2005-12-01", EOL: "2018-01-01", Latest: "2.2.34"},
			{Product: "apache", Cycle: "2.4", Release: "2012-02-21", Latest: "2.4.63"},

			{Product: "tomcat", Cycle: "7", Release: "2011-01-14", EOL: "2021-03-31", Latest: "7.0.109"},
			{Product: "tomcat", Cycle: "8.5", Release: "2016-06-13", EOL: "2024-03-31", Latest: "8.5.100"},
			{Product: "tomcat", Cycle: "9", Release: "2018-01-18", Latest: "9.0.102"},
			{Product: "tomcat", Cycle: "10.1", Release: "2022-09-23", Latest: "10.1.39"},
			{Product: "tomcat", Cycle: "11", Release: "2024-12-09", Latest: "11.0.5"},
		},
	}
}
