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

// Package classifier maps a free-form user message to a query intent and
// task type. The rules are an ordered keyword ladder: internet-search
// phrases beat EOL phrases, which beat inventory phrases. Classification is
// deterministic and side-effect free.
package classifier

import (
	"strings"

	"github.com/eolscout/eolscout/normalizer"
)

// Intent is the finite query intent space.
type Intent string

// Intent values.
const (
	IntentDirectEOL          Intent = "direct_eol"
	IntentInternetEOL        Intent = "internet_eol"
	IntentOSInventory        Intent = "os_inventory"
	IntentSoftwareInventory  Intent = "software_inventory"
	IntentOSEOLGrounded      Intent = "os_eol_grounded"
	IntentSWEOLGrounded      Intent = "software_eol_grounded"
	IntentGeneralEOLGrounded Intent = "general_eol_grounded"
	IntentUpdatePlanning     Intent = "update_planning"
)

// Task is the execution mode the orchestrator derives its plan from.
type Task string

// Task values.
const (
	TaskEOLOnly           Task = "EOL_ONLY"
	TaskInternetEOL       Task = "INTERNET_EOL"
	TaskInventoryOnly     Task = "INVENTORY_ONLY"
	TaskMixedInventoryEOL Task = "MIXED_INVENTORY_EOL"
	TaskUpdatePlanning    Task = "UPDATE_PLANNING"
)

// TaskFor is the fixed total mapping from intent to task.
func TaskFor(intent Intent) Task {
	switch intent {
	case IntentInternetEOL:
		return TaskInternetEOL
	case IntentDirectEOL:
		return TaskEOLOnly
	case IntentOSInventory, IntentSoftwareInventory:
		return TaskInventoryOnly
	case IntentUpdatePlanning:
		return TaskUpdatePlanning
	default: // the three grounded intents
		return TaskMixedInventoryEOL
	}
}

var (
	internetPhrases = []string{
		"search the internet", "search the web", "search online",
		"internet search", "web search", "look online", "look it up online",
		"check online", "google",
	}
	eolPhrases = []string{
		"end of life", "end-of-life", "eol", "end of support",
		"out of support", "support end", "lifecycle", "life cycle",
		"deprecat", "retire", "sunset", "unsupported",
	}
	updatePhrases = []string{
		"upgrade", "update plan", "migrat", "moderniz", "patch plan",
		"move to", "replace with",
	}
	osInventoryPhrases = []string{
		"operating system", "os inventory", "oses", "os versions",
		"what os", "which os",
	}
	softwareInventoryPhrases = []string{
		"software inventory", "installed software", "what software",
		"which software", "applications do", "apps do",
	}
	inventoryPhrases = []string{
		"inventory", "do i have", "do we have", "in my environment",
		"in our environment", "my servers", "our servers", "my estate",
		"our estate", "my fleet", "our fleet",
	}
)

func containsAny(msg string, phrases []string) bool {
	for _, p := range phrases {
		if strings.Contains(msg, p) {
			return true
		}
	}
	return false
}

// Classify maps a user message to (intent, task). Rule order matters and is
// part of the contract.
func Classify(message string) (Intent, Task) {
	msg := strings.ToLower(strings.TrimSpace(message))

	internet := containsAny(msg, internetPhrases)
	eol := containsAny(msg, eolPhrases)
	update := containsAny(msg, updatePhrases)
	osInv := containsAny(msg, osInventoryPhrases)
	swInv := containsAny(msg, softwareInventoryPhrases)
	inv := osInv || swInv || containsAny(msg, inventoryPhrases)
	mentions := normalizer.ExtractMentions(message)

	var intent Intent
	switch {
	case internet:
		intent = IntentInternetEOL
	case update:
		intent = IntentUpdatePlanning
	case eol && inv && osInv:
		intent = IntentOSEOLGrounded
	case eol && inv && swInv:
		intent = IntentSWEOLGrounded
	case eol && inv:
		intent = IntentGeneralEOLGrounded
	case eol && len(mentions) > 0:
		intent = IntentDirectEOL
	case eol:
		intent = IntentGeneralEOLGrounded
	case osInv:
		intent = IntentOSInventory
	case swInv:
		intent = IntentSoftwareInventory
	case inv:
		intent = IntentSoftwareInventory
	default:
		// No recognizable phrasing: treat product mentions as a direct EOL
		// question, anything else as a grounded review.
		if len(mentions) > 0 {
			intent = IntentDirectEOL
		} else {
			intent = IntentGeneralEOLGrounded
		}
	}
	return intent, TaskFor(intent)
}
