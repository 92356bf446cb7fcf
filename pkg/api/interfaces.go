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

package api

import (
	"context"

	"github.com/carverauto/devicejobs/pkg/models"
)

//go:generate mockgen -destination=mock_api.go -package=api github.com/carverauto/devicejobs/pkg/api JobService,QueryService,NameLister

// JobService schedules and inspects device jobs.
type JobService interface {
	ResolveQueryCondition(ctx context.Context, queryName string) (string, error)
	ScheduleTwinUpdate(ctx context.Context, req *models.ScheduleTwinUpdateRequest) (string, error)
	ScheduleDeviceMethod(ctx context.Context, req *models.ScheduleDeviceMethodRequest) (string, error)
	GetJobProperties(ctx context.Context, jobID string) (*models.JobView, error)
	CancelJob(ctx context.Context, jobID string) (*models.JobView, error)
	ListJobsSharingQuery(ctx context.Context, queryName string) (*models.PreScheduleJobs, error)
}

// QueryService manages saved device queries.
type QueryService interface {
	GetQuery(ctx context.Context, name string) (*models.DeviceQuery, error)
	ListQueries(ctx context.Context) ([]*models.DeviceQuery, error)
	SaveQuery(ctx context.Context, query *models.DeviceQuery) (*models.DeviceQuery, error)
	DeleteQuery(ctx context.Context, name string) error
}

// NameLister serves known twin and method names for autocomplete.
type NameLister interface {
	ListNames(ctx context.Context, nameType models.NameType) ([]string, error)
}
