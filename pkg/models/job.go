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
	"encoding/json"
	"time"
)

const (
	// QueryNameAllDevices is the reserved query name that targets every device.
	// The query store never holds an entry for it.
	QueryNameAllDevices = "*"

	// AllDevicesCondition is the predicate submitted for QueryNameAllDevices.
	AllDevicesCondition = "tags.HubEnabledState='Running'"

	// AllDevicesDisplayName is shown in place of QueryNameAllDevices.
	AllDevicesDisplayName = "All Devices"

	// NotApplicable is the placeholder for display values that cannot be resolved.
	NotApplicable = "N/A"
)

// JobRecord associates a backend job id with the names a user chose for it.
// Records are written once at submission time and never updated.
type JobRecord struct {
	JobID     string    `json:"job_id"`
	QueryName string    `json:"query_name"`
	JobName   string    `json:"job_name"`
	CreatedAt time.Time `json:"created_at"`
}

// JobType is the kind of bulk operation tracked by the device backend.
type JobType string

const (
	JobTypeUnknown              JobType = "unknown"
	JobTypeScheduleUpdateTwin   JobType = "scheduleUpdateTwin"
	JobTypeScheduleDeviceMethod JobType = "scheduleDeviceMethod"
)

// JobStatus is the execution state reported by the device backend.
type JobStatus string

const (
	JobStatusUnknown   JobStatus = "unknown"
	JobStatusEnqueued  JobStatus = "enqueued"
	JobStatusRunning   JobStatus = "running"
	JobStatusCompleted JobStatus = "completed"
	JobStatusFailed    JobStatus = "failed"
	JobStatusCancelled JobStatus = "cancelled"
	JobStatusScheduled JobStatus = "scheduled"
	JobStatusQueued    JobStatus = "queued"
)

// IsTerminal reports whether the job will no longer change state.
func (s JobStatus) IsTerminal() bool {
	switch s {
	case JobStatusCompleted, JobStatusFailed, JobStatusCancelled:
		return true
	case JobStatusUnknown, JobStatusEnqueued, JobStatusRunning, JobStatusScheduled, JobStatusQueued:
		return false
	}

	return false
}

// DeviceJobStatistics summarizes per-device progress of a job.
type DeviceJobStatistics struct {
	DeviceCount    int `json:"deviceCount"`
	FailedCount    int `json:"failedCount"`
	SucceededCount int `json:"succeededCount"`
	RunningCount   int `json:"runningCount"`
	PendingCount   int `json:"pendingCount"`
}

// CloudToDeviceMethod describes a direct method invocation carried by a job.
type CloudToDeviceMethod struct {
	MethodName               string          `json:"methodName"`
	Payload                  json.RawMessage `json:"payload,omitempty"`
	ResponseTimeoutInSeconds int             `json:"responseTimeoutInSeconds,omitempty"`
	ConnectTimeoutInSeconds  int             `json:"connectTimeoutInSeconds,omitempty"`
}

// JobResponse is the live job status fetched from the device backend.
// It is never persisted; every read re-fetches it.
type JobResponse struct {
	JobID                     string               `json:"jobId"`
	QueryCondition            string               `json:"queryCondition,omitempty"`
	CreatedTime               time.Time            `json:"createdTime"`
	StartTime                 *time.Time           `json:"startTime,omitempty"`
	EndTime                   *time.Time           `json:"endTime,omitempty"`
	MaxExecutionTimeInSeconds int64                `json:"maxExecutionTimeInSeconds,omitempty"`
	Type                      JobType              `json:"type"`
	Status                    JobStatus            `json:"status"`
	FailureReason             string               `json:"failureReason,omitempty"`
	StatusMessage             string               `json:"statusMessage,omitempty"`
	CloudToDeviceMethod       *CloudToDeviceMethod `json:"cloudToDeviceMethod,omitempty"`
	UpdateTwin                *TwinPatch           `json:"updateTwin,omitempty"`
	DeviceJobStatistics       *DeviceJobStatistics `json:"deviceJobStatistics,omitempty"`
}

// JobView is a live job enriched with the display names from its JobRecord.
type JobView struct {
	*JobResponse
	JobName   string `json:"job_name"`
	QueryName string `json:"query_name"`
}

// NamedJob pairs a job's display name with its live status.
type NamedJob struct {
	Name string       `json:"name"`
	Job  *JobResponse `json:"job"`
}

// PreScheduleJobs lists the jobs previously scheduled against one query.
type PreScheduleJobs struct {
	QueryName        string     `json:"query_name"`
	JobsSharingQuery []NamedJob `json:"jobs_sharing_query"`
}
