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

package jobs

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/carverauto/devicejobs/pkg/models"
)

const (
	meterName                 = "devicejobs/jobs"
	metricJobsScheduled       = "jobs.scheduled"
	metricStatusFetchFailures = "jobs.status_fetch_failures"
)

//nolint:gochecknoglobals // instruments are process-wide
var (
	jobsMetricsOnce sync.Once

	scheduledCounter    metric.Int64Counter
	fetchFailureCounter metric.Int64Counter
)

func initJobsMetrics() {
	meter := otel.Meter(meterName)

	if counter, err := meter.Int64Counter(
		metricJobsScheduled,
		metric.WithDescription("Jobs accepted by the device backend and recorded"),
	); err != nil {
		otel.Handle(err)
	} else {
		scheduledCounter = counter
	}

	if counter, err := meter.Int64Counter(
		metricStatusFetchFailures,
		metric.WithDescription("Live job status fetches that failed while listing jobs"),
	); err != nil {
		otel.Handle(err)
	} else {
		fetchFailureCounter = counter
	}
}

func recordJobScheduled(ctx context.Context, jobType models.JobType) {
	jobsMetricsOnce.Do(initJobsMetrics)
	if scheduledCounter == nil {
		return
	}

	scheduledCounter.Add(ctx, 1, metric.WithAttributes(attribute.String("type", string(jobType))))
}

func recordStatusFetchFailure(ctx context.Context) {
	jobsMetricsOnce.Do(initJobsMetrics)
	if fetchFailureCounter == nil {
		return
	}

	fetchFailureCounter.Add(ctx, 1)
}
