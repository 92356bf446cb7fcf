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

// Package jobs schedules bulk twin updates and device-method invocations
// against named device queries, and reports on the jobs it has submitted.
package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/carverauto/devicejobs/pkg/logger"
	"github.com/carverauto/devicejobs/pkg/models"
)

const tracerName = "devicejobs/jobs"

// Coordinator ties the device backend to the job metadata and query stores.
// It holds no per-request state and is safe for concurrent use.
type Coordinator struct {
	devices DeviceManager
	jobs    JobRepository
	queries QueryRepository
	names   NameCache
	events  EventPublisher
	logger  logger.Logger
	tracer  trace.Tracer
	now     func() time.Time
}

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithLogger sets the coordinator logger.
func WithLogger(log logger.Logger) Option {
	return func(c *Coordinator) {
		c.logger = log
	}
}

// WithEventPublisher announces every accepted job through p.
func WithEventPublisher(p EventPublisher) Option {
	return func(c *Coordinator) {
		c.events = p
	}
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(c *Coordinator) {
		c.now = now
	}
}

// NewCoordinator creates a coordinator. names may be nil when no name cache
// is configured.
func NewCoordinator(devices DeviceManager, jobs JobRepository, queries QueryRepository, names NameCache, opts ...Option) *Coordinator {
	c := &Coordinator{
		devices: devices,
		jobs:    jobs,
		queries: queries,
		names:   names,
		logger:  logger.NewTestLogger(),
		tracer:  otel.Tracer(tracerName),
		now:     time.Now,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// ResolveQueryCondition returns the backend predicate for queryName. Blank
// names and "*" resolve to the all-devices predicate without a store lookup.
func (c *Coordinator) ResolveQueryCondition(ctx context.Context, queryName string) (string, error) {
	ctx, span := c.tracer.Start(ctx, "ResolveQueryCondition")
	defer span.End()

	condition, err := c.resolveCondition(ctx, queryName)
	if err != nil {
		return "", failSpan(span, err)
	}

	return condition, nil
}

func (c *Coordinator) resolveCondition(ctx context.Context, queryName string) (string, error) {
	queryName = normalizeQueryName(queryName)
	if queryName == models.QueryNameAllDevices {
		return models.AllDevicesCondition, nil
	}

	query, err := c.queries.GetQuery(ctx, queryName)
	if err != nil {
		return "", fmt.Errorf("resolve query %q: %w", queryName, err)
	}

	condition, err := query.Condition()
	if err != nil {
		return "", fmt.Errorf("resolve query %q: %w", queryName, err)
	}

	return condition, nil
}

// ScheduleTwinUpdate submits a twin patch job built from the request's
// non-blank tag and desired-property changes and returns the backend job id.
func (c *Coordinator) ScheduleTwinUpdate(ctx context.Context, req *models.ScheduleTwinUpdateRequest) (string, error) {
	ctx, span := c.tracer.Start(ctx, "ScheduleTwinUpdate")
	defer span.End()

	if req == nil {
		return "", failSpan(span, ErrNilRequest)
	}

	span.SetAttributes(
		attribute.String("query_name", req.QueryName),
		attribute.Int("tag_changes", len(req.Tags)),
		attribute.Int("property_changes", len(req.DesiredProperties)),
	)

	start, err := c.executionWindow(req.StartTime, req.MaxExecutionSeconds)
	if err != nil {
		return "", failSpan(span, err)
	}

	patch, touched, err := buildTwinPatch(req.Tags, req.DesiredProperties)
	if err != nil {
		return "", failSpan(span, err)
	}

	if patch.IsEmpty() {
		c.logger.Debug().Str("query_name", req.QueryName).Msg("Twin update carries no changes")
	}

	c.registerNames(ctx, touched)

	patch.ETag = models.ETagAny

	condition, err := c.resolveCondition(ctx, req.QueryName)
	if err != nil {
		return "", failSpan(span, err)
	}

	jobID, err := c.devices.ScheduleTwinUpdate(ctx, condition, patch, start, req.MaxExecutionSeconds)
	if err != nil {
		return "", failSpan(span, fmt.Errorf("schedule twin update: %w", err))
	}

	event := &models.JobScheduledEvent{
		JobID:          jobID,
		JobName:        req.JobName,
		JobType:        models.JobTypeScheduleUpdateTwin,
		QueryName:      normalizeQueryName(req.QueryName),
		QueryCondition: condition,
		StartTime:      start,
		MaxExecution:   req.MaxExecutionSeconds,
	}

	if err := c.recordJob(ctx, event); err != nil {
		return "", failSpan(span, err)
	}

	span.SetAttributes(attribute.String("job_id", jobID))

	return jobID, nil
}

// ScheduleDeviceMethod submits a direct-method job. The method name is cut at
// the first "(" so display signatures like "Reboot(delaySec)" are accepted.
func (c *Coordinator) ScheduleDeviceMethod(ctx context.Context, req *models.ScheduleDeviceMethodRequest) (string, error) {
	ctx, span := c.tracer.Start(ctx, "ScheduleDeviceMethod")
	defer span.End()

	if req == nil {
		return "", failSpan(span, ErrNilRequest)
	}

	methodName := NormalizeMethodName(req.MethodName)
	if methodName == "" {
		return "", failSpan(span, ErrMethodNameRequired)
	}

	span.SetAttributes(
		attribute.String("query_name", req.QueryName),
		attribute.String("method_name", methodName),
	)

	start, err := c.executionWindow(req.StartTime, req.MaxExecutionSeconds)
	if err != nil {
		return "", failSpan(span, err)
	}

	payload, err := methodPayload(req.Parameters)
	if err != nil {
		return "", failSpan(span, err)
	}

	condition, err := c.resolveCondition(ctx, req.QueryName)
	if err != nil {
		return "", failSpan(span, err)
	}

	jobID, err := c.devices.ScheduleDeviceMethod(ctx, condition, methodName, payload, start, req.MaxExecutionSeconds)
	if err != nil {
		return "", failSpan(span, fmt.Errorf("schedule device method: %w", err))
	}

	event := &models.JobScheduledEvent{
		JobID:          jobID,
		JobName:        req.JobName,
		JobType:        models.JobTypeScheduleDeviceMethod,
		QueryName:      normalizeQueryName(req.QueryName),
		QueryCondition: condition,
		MethodName:     methodName,
		StartTime:      start,
		MaxExecution:   req.MaxExecutionSeconds,
	}

	if err := c.recordJob(ctx, event); err != nil {
		return "", failSpan(span, err)
	}

	span.SetAttributes(attribute.String("job_id", jobID))

	return jobID, nil
}

// GetJobProperties fetches the live job and decorates it with its stored
// names. A missing or unreachable metadata record never fails the call.
func (c *Coordinator) GetJobProperties(ctx context.Context, jobID string) (*models.JobView, error) {
	ctx, span := c.tracer.Start(ctx, "GetJobProperties", trace.WithAttributes(attribute.String("job_id", jobID)))
	defer span.End()

	if strings.TrimSpace(jobID) == "" {
		return nil, failSpan(span, ErrJobIDRequired)
	}

	job, err := c.devices.GetJob(ctx, jobID)
	if err == nil && job == nil {
		err = models.ErrNotFound
	}

	if err != nil {
		return nil, failSpan(span, fmt.Errorf("get job %s: %w", jobID, err))
	}

	return c.describe(ctx, jobID, job), nil
}

// CancelJob cancels a running job and returns its updated view.
func (c *Coordinator) CancelJob(ctx context.Context, jobID string) (*models.JobView, error) {
	ctx, span := c.tracer.Start(ctx, "CancelJob", trace.WithAttributes(attribute.String("job_id", jobID)))
	defer span.End()

	if strings.TrimSpace(jobID) == "" {
		return nil, failSpan(span, ErrJobIDRequired)
	}

	job, err := c.devices.CancelJob(ctx, jobID)
	if err == nil && job == nil {
		err = models.ErrNotFound
	}

	if err != nil {
		return nil, failSpan(span, fmt.Errorf("cancel job %s: %w", jobID, err))
	}

	if job.Status.IsTerminal() {
		c.logger.Info().Str("job_id", jobID).Str("status", string(job.Status)).Msg("Job cancelled")
	} else {
		c.logger.Warn().Str("job_id", jobID).Str("status", string(job.Status)).Msg("Job cancellation pending")
	}

	return c.describe(ctx, jobID, job), nil
}

// ListJobsSharingQuery returns the live status of every job scheduled against
// queryName, newest first. Jobs whose status cannot be fetched are omitted.
func (c *Coordinator) ListJobsSharingQuery(ctx context.Context, queryName string) (*models.PreScheduleJobs, error) {
	queryName = normalizeQueryName(queryName)

	ctx, span := c.tracer.Start(ctx, "ListJobsSharingQuery", trace.WithAttributes(attribute.String("query_name", queryName)))
	defer span.End()

	records, err := c.jobs.FindAllByQueryName(ctx, queryName)
	if err != nil {
		return nil, failSpan(span, fmt.Errorf("list jobs for query %q: %w", queryName, err))
	}

	fetched := make([]*models.NamedJob, len(records))

	var g errgroup.Group

	for i, record := range records {
		if record == nil {
			continue
		}

		g.Go(func() error {
			job, err := c.devices.GetJob(ctx, record.JobID)
			if err != nil || job == nil {
				recordStatusFetchFailure(ctx)
				c.logger.Debug().Err(err).Str("job_id", record.JobID).Msg("Skipping job without live status")

				return nil
			}

			fetched[i] = &models.NamedJob{Name: record.JobName, Job: job}

			return nil
		})
	}

	_ = g.Wait()

	result := &models.PreScheduleJobs{
		QueryName:        queryName,
		JobsSharingQuery: make([]models.NamedJob, 0, len(fetched)),
	}

	for _, named := range fetched {
		if named != nil {
			result.JobsSharingQuery = append(result.JobsSharingQuery, *named)
		}
	}

	slices.SortStableFunc(result.JobsSharingQuery, func(a, b models.NamedJob) int {
		return b.Job.CreatedTime.Compare(a.Job.CreatedTime)
	})

	span.SetAttributes(
		attribute.Int("records", len(records)),
		attribute.Int("jobs", len(result.JobsSharingQuery)),
	)

	return result, nil
}

func (c *Coordinator) describe(ctx context.Context, jobID string, job *models.JobResponse) *models.JobView {
	view := &models.JobView{JobResponse: job}

	record, err := c.jobs.FindByJobID(ctx, jobID)
	if err == nil && record == nil {
		err = models.ErrNotFound
	}

	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			c.logger.Debug().Str("job_id", jobID).Msg("No job record, using job id as display name")
		} else {
			c.logger.Warn().Err(err).Str("job_id", jobID).Msg("Job metadata lookup failed, using job id as display name")
		}

		view.JobName = jobID
		view.QueryName = orNotApplicable(job.QueryCondition)

		return view
	}

	view.JobName = orNotApplicable(record.JobName)

	queryName := record.QueryName
	if strings.TrimSpace(queryName) == "" {
		queryName = orNotApplicable(job.QueryCondition)
	}

	if queryName == models.QueryNameAllDevices {
		queryName = models.AllDevicesDisplayName
	}

	view.QueryName = queryName

	return view
}

// recordJob persists the job's names and announces it. Publishing is best-effort.
func (c *Coordinator) recordJob(ctx context.Context, event *models.JobScheduledEvent) error {
	if strings.TrimSpace(event.JobID) == "" {
		return ErrEmptyJobID
	}

	now := c.now().UTC()

	record := &models.JobRecord{
		JobID:     event.JobID,
		QueryName: event.QueryName,
		JobName:   event.JobName,
		CreatedAt: now,
	}

	if err := c.jobs.Add(ctx, record); err != nil {
		c.logger.Error().Err(err).Str("job_id", event.JobID).Msg("Job submitted but its record could not be stored")

		return fmt.Errorf("store job record %s: %w", event.JobID, err)
	}

	recordJobScheduled(ctx, event.JobType)

	c.logger.Info().
		Str("job_id", event.JobID).
		Str("job_type", string(event.JobType)).
		Str("query_name", event.QueryName).
		Msg("Job scheduled")

	if c.events == nil {
		return nil
	}

	event.ScheduledAt = now

	if err := c.events.PublishJobScheduled(ctx, event); err != nil {
		c.logger.Warn().Err(err).Str("job_id", event.JobID).Msg("Failed to publish job scheduled event")
	}

	return nil
}

// registerNames records each name independently; a failure is logged and the
// remaining names are still attempted.
func (c *Coordinator) registerNames(ctx context.Context, names []string) {
	if c.names == nil {
		return
	}

	for _, name := range names {
		if err := c.names.AddName(ctx, name); err != nil {
			c.logger.Warn().Err(err).Str("name", name).Msg("Failed to register name")
		}
	}
}

func (c *Coordinator) executionWindow(start time.Time, maxSeconds int64) (time.Time, error) {
	if maxSeconds <= 0 {
		return time.Time{}, fmt.Errorf("%w: %d", ErrInvalidMaxExecution, maxSeconds)
	}

	if start.IsZero() {
		return c.now().UTC(), nil
	}

	return start.UTC(), nil
}

// buildTwinPatch applies the non-blank changes and returns the full twin
// paths it touched, in request order.
func buildTwinPatch(tags, desired []models.TwinChange) (*models.TwinPatch, []string, error) {
	patch := models.NewTwinPatch()
	touched := make([]string, 0, len(tags)+len(desired))

	apply := func(changes []models.TwinChange, prefix string) error {
		for _, change := range changes {
			name := strings.TrimSpace(change.Name)
			if name == "" {
				continue
			}

			if !strings.HasPrefix(name, prefix) {
				name = prefix + name
			}

			var value interface{}
			if !change.IsDeleted {
				value = change.Value
			}

			if err := patch.Set(name, value); err != nil {
				return err
			}

			touched = append(touched, name)
		}

		return nil
	}

	if err := apply(tags, models.TwinTagsPrefix); err != nil {
		return nil, nil, err
	}

	if err := apply(desired, models.TwinDesiredPrefix); err != nil {
		return nil, nil, err
	}

	return patch, touched, nil
}

// NormalizeMethodName strips a display signature: "Reboot(delaySec)" becomes "Reboot".
func NormalizeMethodName(name string) string {
	if i := strings.IndexByte(name, '('); i >= 0 {
		name = name[:i]
	}

	return strings.TrimSpace(name)
}

// methodPayload encodes parameters as a JSON object of name to value. Blank
// names are skipped and a repeated name keeps its last value.
func methodPayload(params []models.MethodParameter) (json.RawMessage, error) {
	values := make(map[string]string, len(params))

	for _, p := range params {
		name := strings.TrimSpace(p.Name)
		if name == "" {
			continue
		}

		values[name] = p.Value
	}

	payload, err := json.Marshal(values)
	if err != nil {
		return nil, fmt.Errorf("encode method parameters: %w", err)
	}

	return payload, nil
}

// IsValidationError reports whether err was caused by the request itself
// rather than a collaborator.
func IsValidationError(err error) bool {
	for _, target := range []error{
		ErrNilRequest,
		ErrMethodNameRequired,
		ErrInvalidMaxExecution,
		ErrJobIDRequired,
		models.ErrTwinPathEmpty,
		models.ErrTwinPathUnsupported,
		models.ErrTwinPathConflict,
	} {
		if errors.Is(err, target) {
			return true
		}
	}

	return false
}

func normalizeQueryName(queryName string) string {
	queryName = strings.TrimSpace(queryName)
	if queryName == "" {
		return models.QueryNameAllDevices
	}

	return queryName
}

func orNotApplicable(value string) string {
	if strings.TrimSpace(value) == "" {
		return models.NotApplicable
	}

	return value
}

func failSpan(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())

	return err
}
