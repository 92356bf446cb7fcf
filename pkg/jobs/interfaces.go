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

//go:generate mockgen -destination=mock_jobs.go -package=jobs github.com/carverauto/devicejobs/pkg/jobs DeviceManager,JobRepository,QueryRepository,NameCache,EventPublisher

package jobs

import (
	"context"
	"encoding/json"
	"time"

	"github.com/carverauto/devicejobs/pkg/models"
)

// DeviceManager submits and inspects bulk jobs on the device backend.
// GetJob and CancelJob return models.ErrNotFound for unknown ids.
type DeviceManager interface {
	ScheduleTwinUpdate(ctx context.Context, condition string, twin *models.TwinPatch, start time.Time, maxSeconds int64) (string, error)
	ScheduleDeviceMethod(ctx context.Context, condition, methodName string, payload json.RawMessage, start time.Time, maxSeconds int64) (string, error)
	GetJob(ctx context.Context, jobID string) (*models.JobResponse, error)
	CancelJob(ctx context.Context, jobID string) (*models.JobResponse, error)
}

// JobRepository persists the user-facing names of submitted jobs.
type JobRepository interface {
	Add(ctx context.Context, record *models.JobRecord) error
	FindByJobID(ctx context.Context, jobID string) (*models.JobRecord, error)
	FindAllByQueryName(ctx context.Context, queryName string) ([]*models.JobRecord, error)
}

// QueryRepository looks up stored device queries by name.
type QueryRepository interface {
	GetQuery(ctx context.Context, name string) (*models.DeviceQuery, error)
}

// NameCache remembers tag, property and method names for autocomplete.
type NameCache interface {
	AddName(ctx context.Context, name string) error
}

// EventPublisher announces accepted jobs to other services.
type EventPublisher interface {
	PublishJobScheduled(ctx context.Context, event *models.JobScheduledEvent) error
}
