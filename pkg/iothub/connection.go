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

package iothub

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidConnectionString is returned when a required key is missing.
	ErrInvalidConnectionString = errors.New("invalid iothub connection string")
)

// ConnectionString holds the parts of an IoT Hub service connection string.
type ConnectionString struct {
	HostName            string
	SharedAccessKeyName string
	SharedAccessKey     []byte
}

// ParseConnectionString parses
// "HostName=<host>;SharedAccessKeyName=<policy>;SharedAccessKey=<base64 key>".
// Keys are matched case-insensitively and unknown keys are ignored.
func ParseConnectionString(raw string) (*ConnectionString, error) {
	values := make(map[string]string)

	for _, part := range strings.Split(raw, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		key, value, ok := strings.Cut(part, "=")
		if !ok {
			return nil, fmt.Errorf("%w: malformed segment %q", ErrInvalidConnectionString, part)
		}

		values[strings.ToLower(strings.TrimSpace(key))] = strings.TrimSpace(value)
	}

	cs := &ConnectionString{
		HostName:            values["hostname"],
		SharedAccessKeyName: values["sharedaccesskeyname"],
	}

	if cs.HostName == "" {
		return nil, fmt.Errorf("%w: HostName is required", ErrInvalidConnectionString)
	}

	if cs.SharedAccessKeyName == "" {
		return nil, fmt.Errorf("%w: SharedAccessKeyName is required", ErrInvalidConnectionString)
	}

	encodedKey := values["sharedaccesskey"]
	if encodedKey == "" {
		return nil, fmt.Errorf("%w: SharedAccessKey is required", ErrInvalidConnectionString)
	}

	key, err := base64.StdEncoding.DecodeString(encodedKey)
	if err != nil {
		return nil, fmt.Errorf("%w: SharedAccessKey is not base64: %w", ErrInvalidConnectionString, err)
	}

	cs.SharedAccessKey = key

	return cs, nil
}
