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

// VMware covers ESXi and vCenter per the Broadcom product lifecycle matrix.
// EOL is end of general support; Extended is end of technical guidance.
func VMware() *Vendor {
	return &Vendor{
		id:       "vendor/vmware",
		priority: 10,
		keywords: provider.NewKeywords("vmware", "esxi", "vcenter", "vsphere"),
		urlFor: func(code string) string {
			return "https://endoflife.date/" + code
		},
		now: time.Now,
		cycles: []Cycle{
			{Product: "esxi", Cycle: "6.0", Release: "2015-03-12", EOL: "2020-03-12", Extended: "2022-03-12"},
			{Product: "esxi", Cycle: "6.5", Release: "2016-11-15", EOL: "2022-10-15", Extended: "2023-11-15"},
			{Product: "esxi", Cycle: "6.7", Release: "2018-04-17", EOL: "2022-10-15", Extended: "2023-11-15"},
			{Product: "esxi", Cycle: "7.0", Release: "2020-04-02", EOL: "2025-10-02", Extended: "2027-10-02", Latest: "7.0u3"},
			{Product: "esxi", Cycle: "8.0", Release: "2022-10-11", EOL: "2027-10-11", Extended: "2029-10-11", Latest: "8.0u3"},

			{Product: "vcenter", Cycle: "6.7", Release: "2018-04-17", EOL: "2022-10-15", Extended: "2023-11-15"},
			{Product: "vcenter", Cycle: "7.0", Release: "2020-04-02", EOL: "2025-10-02", Extended: "2027-10-02"},
			{Product: "vcenter", Cycle: "8.0", Release: "2022-10-11", EOL: "2027-10-11", Extended: "2029-10-11"},
		},
	}
}
