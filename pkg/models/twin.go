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
	"errors"
	"fmt"
	"strings"
)

const (
	// TwinTagsPrefix is the path root for twin tags.
	TwinTagsPrefix = "tags."
	// TwinDesiredPrefix is the path root for desired properties.
	TwinDesiredPrefix = "properties.desired."
	// TwinReportedPrefix is the path root for reported properties.
	TwinReportedPrefix = "properties.reported."

	// ETagAny disables optimistic concurrency checks on a twin patch.
	ETagAny = "*"
)

var (
	ErrTwinPathEmpty       = errors.New("twin path is empty")
	ErrTwinPathUnsupported = errors.New("twin path must start with tags. or properties.desired.")
	ErrTwinPathConflict    = errors.New("twin path conflicts with an existing value")
)

// TwinPatch is a partial device twin applied by an update-twin job.
// A nil leaf value deletes the corresponding tag or property.
type TwinPatch struct {
	Tags       map[string]interface{} `json:"tags,omitempty"`
	Properties *TwinProperties        `json:"properties,omitempty"`
	ETag       string                 `json:"etag,omitempty"`
}

// TwinProperties holds the desired section of a twin patch.
type TwinProperties struct {
	Desired map[string]interface{} `json:"desired,omitempty"`
}

// NewTwinPatch returns an empty patch.
func NewTwinPatch() *TwinPatch {
	return &TwinPatch{}
}

// Set assigns value at a dotted twin path such as "tags.location.building"
// or "properties.desired.telemetryInterval". Intermediate objects are created
// as needed.
func (t *TwinPatch) Set(path string, value interface{}) error {
	path = strings.TrimSpace(path)
	if path == "" {
		return ErrTwinPathEmpty
	}

	var (
		root map[string]interface{}
		rest string
	)

	switch {
	case strings.HasPrefix(path, TwinTagsPrefix):
		if t.Tags == nil {
			t.Tags = make(map[string]interface{})
		}

		root, rest = t.Tags, strings.TrimPrefix(path, TwinTagsPrefix)
	case strings.HasPrefix(path, TwinDesiredPrefix):
		if t.Properties == nil {
			t.Properties = &TwinProperties{}
		}

		if t.Properties.Desired == nil {
			t.Properties.Desired = make(map[string]interface{})
		}

		root, rest = t.Properties.Desired, strings.TrimPrefix(path, TwinDesiredPrefix)
	default:
		return fmt.Errorf("%w: %q", ErrTwinPathUnsupported, path)
	}

	return setNested(root, strings.Split(rest, "."), value, path)
}

func setNested(node map[string]interface{}, parts []string, value interface{}, path string) error {
	for i, part := range parts {
		if part == "" {
			return fmt.Errorf("%w: %q", ErrTwinPathEmpty, path)
		}

		if i == len(parts)-1 {
			node[part] = value
			return nil
		}

		next, exists := node[part]
		if !exists || next == nil {
			child := make(map[string]interface{})
			node[part] = child
			node = child

			continue
		}

		child, ok := next.(map[string]interface{})
		if !ok {
			return fmt.Errorf("%w: %q", ErrTwinPathConflict, path)
		}

		node = child
	}

	return nil
}

// IsEmpty reports whether the patch touches nothing.
func (t *TwinPatch) IsEmpty() bool {
	if t == nil {
		return true
	}

	return len(t.Tags) == 0 && (t.Properties == nil || len(t.Properties.Desired) == 0)
}
