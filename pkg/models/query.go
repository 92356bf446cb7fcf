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
	"time"

	"github.com/carverauto/devicejobs/pkg/devicequery"
)

var errNilDeviceQuery = errors.New("device query is nil")

// DeviceQuery is a named, stored device filter used to target jobs.
type DeviceQuery struct {
	Name      string               `json:"name"`
	Filters   []devicequery.Clause `json:"filters,omitempty"`
	SQL       string               `json:"sql,omitempty"`
	CreatedAt time.Time            `json:"created_at"`
	UpdatedAt time.Time            `json:"updated_at"`
}

// Condition derives the backend filter predicate for the query.
func (q *DeviceQuery) Condition() (string, error) {
	if q == nil {
		return "", errNilDeviceQuery
	}

	return devicequery.Render(q.SQL, q.Filters)
}
