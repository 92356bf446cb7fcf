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
	"fmt"
	"math"
	"net/http"
	"net/url"
	"time"

	"github.com/gorilla/mux"

	"github.com/carverauto/devicejobs/pkg/jobs"
	"github.com/carverauto/devicejobs/pkg/models"
	"github.com/carverauto/devicejobs/pkg/version"
)

// twinUpdateRequest is the body of POST /api/jobs/twin-update.
type twinUpdateRequest struct {
	QueryName               string              `json:"query_name"`
	JobName                 string              `json:"job_name"`
	Tags                    []models.TwinChange `json:"tags"`
	DesiredProperties       []models.TwinChange `json:"desired_properties"`
	StartTime               time.Time           `json:"start_time"`
	MaxExecutionTimeMinutes int64               `json:"max_execution_time_minutes"`
}

// deviceMethodRequest is the body of POST /api/jobs/device-method.
type deviceMethodRequest struct {
	QueryName               string                   `json:"query_name"`
	JobName                 string                   `json:"job_name"`
	MethodName              string                   `json:"method_name"`
	Parameters              []models.MethodParameter `json:"parameters"`
	StartTime               time.Time                `json:"start_time"`
	MaxExecutionTimeMinutes int64                    `json:"max_execution_time_minutes"`
}

type healthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
	BuildID string `json:"build_id"`
}

func minutesToSeconds(minutes int64) (int64, error) {
	if minutes <= 0 || minutes > math.MaxInt64/60 {
		return 0, fmt.Errorf("%w: %d minutes", jobs.ErrInvalidMaxExecution, minutes)
	}

	return minutes * 60, nil
}

func (s *APIServer) requestContext(r *http.Request) (context.Context, context.CancelFunc) {
	return context.WithTimeout(r.Context(), s.timeout)
}

func (*APIServer) handleHealth(w http.ResponseWriter, _ *http.Request) {
	info := version.Get()

	writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Version: info.Version, BuildID: info.BuildID})
}

func (s *APIServer) handleScheduleTwinUpdate(w http.ResponseWriter, r *http.Request) {
	var body twinUpdateRequest
	if err := decodeJSON(w, r, &body); err != nil {
		s.respondError(w, r, err)
		return
	}

	maxSeconds, err := minutesToSeconds(body.MaxExecutionTimeMinutes)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	ctx, cancel := s.requestContext(r)
	defer cancel()

	jobID, err := s.jobs.ScheduleTwinUpdate(ctx, &models.ScheduleTwinUpdateRequest{
		QueryName:           body.QueryName,
		JobName:             body.JobName,
		Tags:                body.Tags,
		DesiredProperties:   body.DesiredProperties,
		StartTime:           body.StartTime,
		MaxExecutionSeconds: maxSeconds,
	})
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	s.respondScheduled(w, jobID)
}

func (s *APIServer) handleScheduleDeviceMethod(w http.ResponseWriter, r *http.Request) {
	var body deviceMethodRequest
	if err := decodeJSON(w, r, &body); err != nil {
		s.respondError(w, r, err)
		return
	}

	maxSeconds, err := minutesToSeconds(body.MaxExecutionTimeMinutes)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	ctx, cancel := s.requestContext(r)
	defer cancel()

	jobID, err := s.jobs.ScheduleDeviceMethod(ctx, &models.ScheduleDeviceMethodRequest{
		QueryName:           body.QueryName,
		JobName:             body.JobName,
		MethodName:          body.MethodName,
		Parameters:          body.Parameters,
		StartTime:           body.StartTime,
		MaxExecutionSeconds: maxSeconds,
	})
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	s.respondScheduled(w, jobID)
}

func (*APIServer) respondScheduled(w http.ResponseWriter, jobID string) {
	w.Header().Set("Location", "/api/jobs/"+url.PathEscape(jobID))
	writeJSON(w, http.StatusCreated, models.JobSubmittedResponse{JobID: jobID, Redirect: jobsPageRedirect})
}

func (s *APIServer) handleGetJob(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := s.requestContext(r)
	defer cancel()

	view, err := s.jobs.GetJobProperties(ctx, mux.Vars(r)["jobId"])
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, view)
}

func (s *APIServer) handleCancelJob(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := s.requestContext(r)
	defer cancel()

	view, err := s.jobs.CancelJob(ctx, mux.Vars(r)["jobId"])
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, view)
}

func (s *APIServer) handleListJobs(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := s.requestContext(r)
	defer cancel()

	result, err := s.jobs.ListJobsSharingQuery(ctx, r.URL.Query().Get("query"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}
