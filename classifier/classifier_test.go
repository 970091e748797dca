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

package classifier_test

import (
	"testing"

	"github.com/eolscout/eolscout/classifier"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name       string
		message    string
		wantIntent classifier.Intent
		wantTask   classifier.Task
	}{
		{
			name:       "direct-eol",
			message:    "What is the EOL of Windows Server 2019?",
			wantIntent: classifier.IntentDirectEOL,
			wantTask:   classifier.TaskEOLOnly,
		},
		{
			name:       "internet-beats-eol",
			message:    "Search the web for the end of life of CoolDB 4",
			wantIntent: classifier.IntentInternetEOL,
			wantTask:   classifier.TaskInternetEOL,
		},
		{
			name:       "os-inventory",
			message:    "What operating systems do I have?",
			wantIntent: classifier.IntentOSInventory,
			wantTask:   classifier.TaskInventoryOnly,
		},
		{
			name:       "software-inventory",
			message:    "Show me the installed software in my environment",
			wantIntent: classifier.IntentSoftwareInventory,
			wantTask:   classifier.TaskInventoryOnly,
		},
		{
			name:       "os-eol-grounded",
			message:    "Review which of my operating systems are end of life",
			wantIntent: classifier.IntentOSEOLGrounded,
			wantTask:   classifier.TaskMixedInventoryEOL,
		},
		{
			name:       "software-eol-grounded",
			message:    "Which installed software in our environment is out of support?",
			wantIntent: classifier.IntentSWEOLGrounded,
			wantTask:   classifier.TaskMixedInventoryEOL,
		},
		{
			name:       "general-eol-grounded",
			message:    "Is anything in my environment end of life?",
			wantIntent: classifier.IntentGeneralEOLGrounded,
			wantTask:   classifier.TaskMixedInventoryEOL,
		},
		{
			name:       "update-planning",
			message:    "Plan an upgrade for our Ubuntu fleet",
			wantIntent: classifier.IntentUpdatePlanning,
			wantTask:   classifier.TaskUpdatePlanning,
		},
		{
			name:       "bare-product-mention",
			message:    "PostgreSQL 12",
			wantIntent: classifier.IntentDirectEOL,
			wantTask:   classifier.TaskEOLOnly,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			intent, task := classifier.Classify(tt.message)
			if intent != tt.wantIntent || task != tt.wantTask {
				t.Errorf("Classify(%q) = (%v, %v), want (%v, %v)",
					tt.message, intent, task, tt.wantIntent, tt.wantTask)
			}
		})
	}
}

func TestClassifyDeterministic(t *testing.T) {
	msg := "Which installed software is end of life?"
	i1, t1 := classifier.Classify(msg)
	for i := 0; i < 5; i++ {
		i2, t2 := classifier.Classify(msg)
		if i1 != i2 || t1 != t2 {
			t.Fatalf("Classify is not deterministic: (%v,%v) vs (%v,%v)", i1, t1, i2, t2)
		}
	}
}

func TestTaskForTotal(t *testing.T) {
	intents := []classifier.Intent{
		classifier.IntentDirectEOL, classifier.IntentInternetEOL,
		classifier.IntentOSInventory, classifier.IntentSoftwareInventory,
		classifier.IntentOSEOLGrounded, classifier.IntentSWEOLGrounded,
		classifier.IntentGeneralEOLGrounded, classifier.IntentUpdatePlanning,
	}
	for _, in := range intents {
		if task := classifier.TaskFor(in); task == "" {
			t.Errorf("TaskFor(%v) returned empty task", in)
		}
	}
}
