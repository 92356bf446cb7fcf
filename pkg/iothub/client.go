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

// Package iothub submits and inspects bulk jobs through the Azure IoT Hub
// jobs REST API.
package iothub

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore/policy"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/runtime"
	"github.com/google/uuid"

	"github.com/carverauto/devicejobs/pkg/logger"
	"github.com/carverauto/devicejobs/pkg/models"
	"github.com/carverauto/devicejobs/pkg/version"
)

const (
	moduleName = "devicejobs/iothub"

	// DefaultAPIVersion is the jobs API version requested when none is configured.
	DefaultAPIVersion = "2021-04-12"

	defaultSASTokenTTL           = time.Hour
	defaultMethodResponseTimeout = 30 * time.Second
	defaultConnectTimeout        = 0
)

var (
	errNilConfig  = errors.New("iothub config is nil")
	errNilTwin    = errors.New("twin patch is nil")
	errEmptyJobID = errors.New("job id is empty")
)

// ClientOptions overrides transport-level settings. All fields are optional.
type ClientOptions struct {
	// Endpoint replaces https://<HostName>, mainly for tests.
	Endpoint string
	// Transport replaces the default HTTP client.
	Transport policy.Transporter
	// Retry replaces the retry settings derived from the config.
	Retry    *policy.RetryOptions
	Logger   logger.Logger
	NewJobID func() string
}

// Client implements the job operations of the device backend.
type Client struct {
	endpoint              string
	apiVersion            string
	methodResponseTimeout time.Duration
	pipeline              runtime.Pipeline
	logger                logger.Logger
	newJobID              func() string
}

// NewClient builds a client from the service configuration.
func NewClient(cfg *models.IoTHubConfig, opts *ClientOptions) (*Client, error) {
	if cfg == nil {
		return nil, errNilConfig
	}

	cs, err := ParseConnectionString(cfg.ConnectionString)
	if err != nil {
		return nil, err
	}

	if opts == nil {
		opts = &ClientOptions{}
	}

	c := &Client{
		endpoint:              "https://" + cs.HostName,
		apiVersion:            cfg.APIVersion,
		methodResponseTimeout: time.Duration(cfg.MethodResponseTimeout),
		logger:                opts.Logger,
		newJobID:              opts.NewJobID,
	}

	if opts.Endpoint != "" {
		c.endpoint = strings.TrimSuffix(opts.Endpoint, "/")
	}

	if c.apiVersion == "" {
		c.apiVersion = DefaultAPIVersion
	}

	if c.methodResponseTimeout <= 0 {
		c.methodResponseTimeout = defaultMethodResponseTimeout
	}

	if c.logger == nil {
		c.logger = logger.NewTestLogger()
	}

	if c.newJobID == nil {
		c.newJobID = uuid.NewString
	}

	ttl := time.Duration(cfg.SASTokenTTL)
	if ttl <= 0 {
		ttl = defaultSASTokenTTL
	}

	clientOpts := &policy.ClientOptions{
		Transport: opts.Transport,
		Retry: policy.RetryOptions{
			MaxRetries: cfg.MaxRetries,
			TryTimeout: time.Duration(cfg.RequestTimeout),
		},
	}

	if opts.Retry != nil {
		clientOpts.Retry = *opts.Retry
	}

	c.pipeline = runtime.NewPipeline(moduleName, version.GetVersion(), runtime.PipelineOptions{
		PerRetry: []policy.Policy{newSASPolicy(cs, ttl)},
	}, clientOpts)

	return c, nil
}

type jobRequest struct {
	JobID                     string                      `json:"jobId"`
	Type                      models.JobType              `json:"type"`
	QueryCondition            string                      `json:"queryCondition"`
	UpdateTwin                *models.TwinPatch           `json:"updateTwin,omitempty"`
	CloudToDeviceMethod       *models.CloudToDeviceMethod `json:"cloudToDeviceMethod,omitempty"`
	StartTime                 time.Time                   `json:"startTime"`
	MaxExecutionTimeInSeconds int64                       `json:"maxExecutionTimeInSeconds"`
}

// ScheduleTwinUpdate submits a scheduleUpdateTwin job and returns its id.
func (c *Client) ScheduleTwinUpdate(
	ctx context.Context, condition string, twin *models.TwinPatch, start time.Time, maxSeconds int64) (string, error) {
	if twin == nil {
		return "", errNilTwin
	}

	return c.submit(ctx, &jobRequest{
		Type:                      models.JobTypeScheduleUpdateTwin,
		QueryCondition:            condition,
		UpdateTwin:                twin,
		StartTime:                 start.UTC(),
		MaxExecutionTimeInSeconds: maxSeconds,
	})
}

// ScheduleDeviceMethod submits a scheduleDeviceMethod job and returns its id.
func (c *Client) ScheduleDeviceMethod(
	ctx context.Context, condition, methodName string, payload json.RawMessage, start time.Time, maxSeconds int64) (string, error) {
	return c.submit(ctx, &jobRequest{
		Type:           models.JobTypeScheduleDeviceMethod,
		QueryCondition: condition,
		CloudToDeviceMethod: &models.CloudToDeviceMethod{
			MethodName:               methodName,
			Payload:                  payload,
			ResponseTimeoutInSeconds: int(c.methodResponseTimeout / time.Second),
			ConnectTimeoutInSeconds:  defaultConnectTimeout,
		},
		StartTime:                 start.UTC(),
		MaxExecutionTimeInSeconds: maxSeconds,
	})
}

// GetJob fetches the live status of a job.
func (c *Client) GetJob(ctx context.Context, jobID string) (*models.JobResponse, error) {
	if strings.TrimSpace(jobID) == "" {
		return nil, errEmptyJobID
	}

	var job models.JobResponse
	if err := c.do(ctx, http.MethodGet, jobPath(jobID), nil, &job); err != nil {
		return nil, fmt.Errorf("get job %s: %w", jobID, err)
	}

	return &job, nil
}

// CancelJob requests cancellation and returns the job as the hub reports it.
func (c *Client) CancelJob(ctx context.Context, jobID string) (*models.JobResponse, error) {
	if strings.TrimSpace(jobID) == "" {
		return nil, errEmptyJobID
	}

	var job models.JobResponse
	if err := c.do(ctx, http.MethodPost, jobPath(jobID)+"/cancel", nil, &job); err != nil {
		return nil, fmt.Errorf("cancel job %s: %w", jobID, err)
	}

	return &job, nil
}

func (c *Client) submit(ctx context.Context, body *jobRequest) (string, error) {
	body.JobID = c.newJobID()

	var job models.JobResponse
	if err := c.do(ctx, http.MethodPut, jobPath(body.JobID), body, &job); err != nil {
		return "", fmt.Errorf("submit %s job: %w", body.Type, err)
	}

	jobID := job.JobID
	if jobID == "" {
		jobID = body.JobID
	}

	c.logger.Debug().
		Str("job_id", jobID).
		Str("type", string(body.Type)).
		Str("status", string(job.Status)).
		Msg("Job submitted to hub")

	return jobID, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	req, err := runtime.NewRequest(ctx, method, c.endpoint+path+"?api-version="+url.QueryEscape(c.apiVersion))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	req.Raw().Header.Set("Accept", "application/json")

	if body != nil {
		if err := runtime.MarshalAsJSON(req, body); err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
	}

	resp, err := c.pipeline.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return err
		}

		return fmt.Errorf("%w: %w", models.ErrUnavailable, err)
	}

	if err := classify(resp); err != nil {
		return err
	}

	if out == nil {
		runtime.Drain(resp)
		return nil
	}

	if err := runtime.UnmarshalAsJSON(resp, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}

	return nil
}

// classify maps a hub response onto the shared classification errors. The
// *azcore.ResponseError stays in the chain for callers that need the body.
func classify(resp *http.Response) error {
	if resp.StatusCode >= http.StatusOK && resp.StatusCode < http.StatusMultipleChoices {
		return nil
	}

	respErr := runtime.NewResponseError(resp)

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%w: %w", models.ErrNotFound, respErr)
	case resp.StatusCode == http.StatusBadRequest:
		return fmt.Errorf("%w: %w", models.ErrRejected, respErr)
	case resp.StatusCode == http.StatusTooManyRequests, resp.StatusCode >= http.StatusInternalServerError:
		return fmt.Errorf("%w: %w", models.ErrUnavailable, respErr)
	default:
		return respErr
	}
}

func jobPath(jobID string) string {
	return "/jobs/v2/" + url.PathEscape(jobID)
}
