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

package kv

import (
	"errors"
)

var (
	// ErrEmptyName is returned when a blank name is registered.
	ErrEmptyName = errors.New("name is empty")
	// ErrUnknownNameType is returned when a name has no recognized prefix.
	ErrUnknownNameType = errors.New("name has no known type prefix")

	errBucketRequired = errors.New("name cache bucket is required")
	errMalformedKey   = errors.New("malformed name key")
)
