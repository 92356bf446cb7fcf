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

import (
	"strings"
	"time"
)

// NameType classifies a name held in the known-names cache.
type NameType string

const (
	NameTypeTag              NameType = "tag"
	NameTypeDesiredProperty  NameType = "desired"
	NameTypeReportedProperty NameType = "reported"
	NameTypeMethod           NameType = "method"
)

// MethodNamePrefix marks names of device methods in the cache.
const MethodNamePrefix = "methods."

// NameEntry is the cached record of one known name.
type NameEntry struct {
	Name      string    `json:"name"`
	Type      NameType  `json:"type"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NameTypeOf derives the cache type from a dotted name prefix.
func NameTypeOf(name string) (NameType, bool) {
	switch {
	case strings.HasPrefix(name, TwinTagsPrefix):
		return NameTypeTag, true
	case strings.HasPrefix(name, TwinDesiredPrefix):
		return NameTypeDesiredProperty, true
	case strings.HasPrefix(name, TwinReportedPrefix):
		return NameTypeReportedProperty, true
	case strings.HasPrefix(name, MethodNamePrefix):
		return NameTypeMethod, true
	}

	return "", false
}

// ParseNameType validates a user-supplied name type.
func ParseNameType(raw string) (NameType, bool) {
	switch t := NameType(strings.ToLower(strings.TrimSpace(raw))); t {
	case NameTypeTag, NameTypeDesiredProperty, NameTypeReportedProperty, NameTypeMethod:
		return t, true
	}

	return "", false
}
