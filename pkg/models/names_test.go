/*
 * Copyright 2025 Carver Automation Corporation.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package models

import "testing"

func TestNameTypeOf(t *testing.T) {
	tests := map[string]NameType{
		"tags.building":           NameTypeTag,
		"properties.desired.rate": NameTypeDesiredProperty,
		"properties.reported.fw":  NameTypeReportedProperty,
		"methods.Reboot":          NameTypeMethod,
	}

	for name, want := range tests {
		got, ok := NameTypeOf(name)
		if !ok || got != want {
			t.Errorf("NameTypeOf(%q) = %q, %v; want %q", name, got, ok, want)
		}
	}

	if _, ok := NameTypeOf("deviceId"); ok {
		t.Error("deviceId should not map to a name type")
	}
}

func TestParseNameType(t *testing.T) {
	if got, ok := ParseNameType(" Desired "); !ok || got != NameTypeDesiredProperty {
		t.Fatalf("ParseNameType = %q, %v", got, ok)
	}

	if _, ok := ParseNameType("bogus"); ok {
		t.Fatal("bogus should be rejected")
	}
}
