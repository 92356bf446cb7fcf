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

import "time"

// TwinChange is one tag or desired-property edit submitted from the UI.
type TwinChange struct {
	Name      string      `json:"name"`
	Value     interface{} `json:"value"`
	IsDeleted bool        `json:"is_deleted"`
}

// ScheduleTwinUpdateRequest schedules a twin patch across the devices
// matched by QueryName.
type ScheduleTwinUpdateRequest struct {
	QueryName           string       `json:"query_name"`
	JobName             string       `json:"job_name"`
	Tags                []TwinChange `json:"tags"`
	DesiredProperties   []TwinChange `json:"desired_properties"`
	StartTime           time.Time    `json:"start_time"`
	MaxExecutionSeconds int64        `json:"max_execution_seconds"`
}

// MethodParameter is a single named argument of a device method.
type MethodParameter struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// ScheduleDeviceMethodRequest schedules a direct method invocation across
// the devices matched by QueryName. MethodName may carry a display signature
// such as "Reboot(delaySec)".
type ScheduleDeviceMethodRequest struct {
	QueryName           string            `json:"query_name"`
	JobName             string            `json:"job_name"`
	MethodName          string            `json:"method_name"`
	Parameters          []MethodParameter `json:"parameters"`
	StartTime           time.Time         `json:"start_time"`
	MaxExecutionSeconds int64             `json:"max_execution_seconds"`
}

// ErrorResponse is the JSON body of every failed API call.
type ErrorResponse struct {
	Message string `json:"message"`
	Status  int    `json:"status"`
}

// JobSubmittedResponse tells the UI where to go after scheduling a job.
type JobSubmittedResponse struct {
	JobID    string `json:"job_id"`
	Redirect string `json:"redirect"`
}
