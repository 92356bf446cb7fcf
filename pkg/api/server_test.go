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
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/carverauto/devicejobs/pkg/auth"
	"github.com/carverauto/devicejobs/pkg/db"
	"github.com/carverauto/devicejobs/pkg/jobs"
	"github.com/carverauto/devicejobs/pkg/models"
)

var errBackend = errors.New("backend exploded")

type testServer struct {
	jobs    *MockJobService
	queries *MockQueryService
	names   *MockNameLister
	handler http.Handler
}

func newTestServer(t *testing.T, opts ...func(*APIServer)) *testServer {
	t.Helper()

	ctrl := gomock.NewController(t)

	ts := &testServer{
		jobs:    NewMockJobService(ctrl),
		queries: NewMockQueryService(ctrl),
		names:   NewMockNameLister(ctrl),
	}

	all := append([]func(*APIServer){
		WithJobService(ts.jobs),
		WithQueryService(ts.queries),
		WithNameLister(ts.names),
	}, opts...)

	ts.handler = NewAPIServer(models.CORSConfig{AllowedOrigins: []string{"http://ui.local"}}, all...).Handler()

	return ts
}

func (ts *testServer) do(t *testing.T, method, path, body string, headers ...string) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, http.NoBody)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}

	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}

	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)

	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) models.ErrorResponse {
	t.Helper()

	var resp models.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	return resp
}

func TestHealthz(t *testing.T) {
	ts := newTestServer(t, WithAuthConfig(&models.AuthConfig{APIKey: "secret"}))

	rec := ts.do(t, http.MethodGet, "/healthz", "")

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp healthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.NotEmpty(t, resp.Version)
}

func TestScheduleTwinUpdate(t *testing.T) {
	ts := newTestServer(t)
	start := time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC)

	ts.jobs.EXPECT().ScheduleTwinUpdate(gomock.Any(), &models.ScheduleTwinUpdateRequest{
		QueryName:           "lobby",
		JobName:             "relocate",
		Tags:                []models.TwinChange{{Name: "tags.floor", Value: "2"}},
		DesiredProperties:   []models.TwinChange{{Name: "properties.desired.fw", IsDeleted: true}},
		StartTime:           start,
		MaxExecutionSeconds: 600,
	}).Return("job-42", nil)

	rec := ts.do(t, http.MethodPost, "/api/jobs/twin-update", `{
		"query_name": "lobby",
		"job_name": "relocate",
		"tags": [{"name": "tags.floor", "value": "2"}],
		"desired_properties": [{"name": "properties.desired.fw", "is_deleted": true}],
		"start_time": "2025-03-14T09:00:00Z",
		"max_execution_time_minutes": 10
	}`)

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, "/api/jobs/job-42", rec.Header().Get("Location"))
	assert.JSONEq(t, `{"job_id":"job-42","redirect":"/jobs"}`, rec.Body.String())
}

func TestScheduleDeviceMethod(t *testing.T) {
	ts := newTestServer(t)

	ts.jobs.EXPECT().ScheduleDeviceMethod(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ interface{}, req *models.ScheduleDeviceMethodRequest) (string, error) {
			assert.Equal(t, "Reboot(delaySec)", req.MethodName)
			assert.Equal(t, []models.MethodParameter{{Name: "delaySec", Value: "5"}}, req.Parameters)
			assert.Equal(t, int64(3600), req.MaxExecutionSeconds)
			assert.True(t, req.StartTime.IsZero())

			return "job-7", nil
		})

	rec := ts.do(t, http.MethodPost, "/api/jobs/device-method", `{
		"query_name": "*",
		"job_name": "reboot",
		"method_name": "Reboot(delaySec)",
		"parameters": [{"name": "delaySec", "value": "5"}],
		"max_execution_time_minutes": 60
	}`)

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, "/api/jobs/job-7", rec.Header().Get("Location"))
}

func TestScheduleRejectsBadInput(t *testing.T) {
	ts := newTestServer(t)

	tests := []struct {
		name string
		path string
		body string
	}{
		{"malformed json", "/api/jobs/twin-update", `{"query_name":`},
		{"zero minutes", "/api/jobs/twin-update", `{"max_execution_time_minutes": 0}`},
		{"negative minutes", "/api/jobs/device-method", `{"method_name":"Reboot","max_execution_time_minutes": -5}`},
		{"overflowing minutes", "/api/jobs/device-method", `{"method_name":"Reboot","max_execution_time_minutes": 9223372036854775807}`},
		{"bad start time", "/api/jobs/device-method", `{"start_time":"tomorrow","max_execution_time_minutes": 5}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := ts.do(t, http.MethodPost, tt.path, tt.body)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, http.StatusBadRequest, decodeError(t, rec).Status)
		})
	}
}

func TestErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantMsg    string
	}{
		{"not found", fmt.Errorf("get job j: %w", models.ErrNotFound), http.StatusNotFound, "get job j: not found"},
		{"validation", fmt.Errorf("schedule: %w", jobs.ErrMethodNameRequired), http.StatusBadRequest, "schedule: method name is required"},
		{"twin path", models.ErrTwinPathConflict, http.StatusBadRequest, models.ErrTwinPathConflict.Error()},
		{"unavailable", fmt.Errorf("%w: %w", models.ErrUnavailable, errBackend), http.StatusServiceUnavailable, "device service temporarily unavailable"},
		{"unexpected", errBackend, http.StatusInternalServerError, "internal server error"},
		{"rejected", fmt.Errorf("schedule twin update: %w: %w", models.ErrRejected,
			&azcore.ResponseError{ErrorCode: "InvalidQuery", StatusCode: http.StatusBadRequest}),
			http.StatusBadRequest, "request rejected by device service: InvalidQuery"},
		{"rejected without code", fmt.Errorf("%w: %w", models.ErrRejected, errBackend),
			http.StatusBadRequest, "request rejected by device service"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := newTestServer(t)
			ts.jobs.EXPECT().GetJobProperties(gomock.Any(), "j").Return(nil, tt.err)

			rec := ts.do(t, http.MethodGet, "/api/jobs/j", "")

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
			assert.Equal(t, models.ErrorResponse{Message: tt.wantMsg, Status: tt.wantStatus}, decodeError(t, rec))
		})
	}
}

func TestGetAndCancelJob(t *testing.T) {
	ts := newTestServer(t)
	view := &models.JobView{
		JobResponse: &models.JobResponse{JobID: "j-1", Status: models.JobStatusRunning},
		JobName:     "relocate",
		QueryName:   "lobby",
	}

	ts.jobs.EXPECT().GetJobProperties(gomock.Any(), "j-1").Return(view, nil)
	ts.jobs.EXPECT().CancelJob(gomock.Any(), "j-1").Return(view, nil)

	rec := ts.do(t, http.MethodGet, "/api/jobs/j-1", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var got map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "relocate", got["job_name"])
	assert.Equal(t, "lobby", got["query_name"])

	rec = ts.do(t, http.MethodPost, "/api/jobs/j-1/cancel", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestListJobsSharingQuery(t *testing.T) {
	ts := newTestServer(t)

	ts.jobs.EXPECT().ListJobsSharingQuery(gomock.Any(), "lobby").
		Return(&models.PreScheduleJobs{QueryName: "lobby", JobsSharingQuery: []models.NamedJob{}}, nil)

	rec := ts.do(t, http.MethodGet, "/api/jobs?query=lobby", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"query_name":"lobby","jobs_sharing_query":[]}`, rec.Body.String())
}

func TestQueryRoutes(t *testing.T) {
	ts := newTestServer(t)

	ts.jobs.EXPECT().ResolveQueryCondition(gomock.Any(), "lobby").Return("tags.floor = '2'", nil)
	ts.queries.EXPECT().ListQueries(gomock.Any()).Return([]*models.DeviceQuery{}, nil)
	ts.queries.EXPECT().GetQuery(gomock.Any(), "gone").Return(nil, models.ErrNotFound)
	stored := time.Date(2025, 4, 1, 12, 0, 0, 0, time.UTC)
	ts.queries.EXPECT().SaveQuery(gomock.Any(), &models.DeviceQuery{Name: "lobby", SQL: "tags.floor = '2'"}).
		Return(&models.DeviceQuery{Name: "lobby", SQL: "tags.floor = '2'", CreatedAt: stored, UpdatedAt: stored}, nil)
	ts.queries.EXPECT().SaveQuery(gomock.Any(), &models.DeviceQuery{Name: "*"}).
		Return(nil, fmt.Errorf("%w: *", db.ErrReservedQueryName))
	ts.queries.EXPECT().DeleteQuery(gomock.Any(), "lobby").Return(nil)

	rec := ts.do(t, http.MethodGet, "/api/queries/lobby/condition", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"query_name":"lobby","condition":"tags.floor = '2'"}`, rec.Body.String())

	rec = ts.do(t, http.MethodGet, "/api/queries", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())

	rec = ts.do(t, http.MethodGet, "/api/queries/gone", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = ts.do(t, http.MethodPut, "/api/queries/lobby", `{"name":"ignored","sql":"tags.floor = '2'"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var saved models.DeviceQuery
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &saved))
	assert.Equal(t, "lobby", saved.Name)
	assert.True(t, stored.Equal(saved.UpdatedAt), "response carries the stored row")

	rec = ts.do(t, http.MethodPut, "/api/queries/*", `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = ts.do(t, http.MethodDelete, "/api/queries/lobby", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestListNames(t *testing.T) {
	ts := newTestServer(t)

	ts.names.EXPECT().ListNames(gomock.Any(), models.NameTypeTag).Return([]string{"tags.floor", "tags.site"}, nil)

	rec := ts.do(t, http.MethodGet, "/api/names?type=tag", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"type":"tag","names":["tags.floor","tags.site"]}`, rec.Body.String())

	rec = ts.do(t, http.MethodGet, "/api/names?type=bogus", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListNamesWithoutCache(t *testing.T) {
	handler := NewAPIServer(models.CORSConfig{}).Handler()

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/names?type=method", http.NoBody))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"type":"method","names":[]}`, rec.Body.String())
}

func TestRoutesEnforcePermissions(t *testing.T) {
	const secret = "s3cret"

	ts := newTestServer(t, WithAuthConfig(&models.AuthConfig{
		JWTSecret: secret,
		APIKey:    "key-1",
		RBAC:      models.DefaultRBACConfig(),
	}))

	viewer, err := auth.GenerateJWT(&models.User{ID: "v", Roles: []string{"viewer"}}, secret, "", time.Hour)
	require.NoError(t, err)

	ts.jobs.EXPECT().ListJobsSharingQuery(gomock.Any(), "").
		Return(&models.PreScheduleJobs{QueryName: "*", JobsSharingQuery: []models.NamedJob{}}, nil).Times(2)

	rec := ts.do(t, http.MethodGet, "/api/jobs", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = ts.do(t, http.MethodGet, "/api/jobs", "", "Authorization", "Bearer "+viewer)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = ts.do(t, http.MethodPost, "/api/jobs/j/cancel", "", "Authorization", "Bearer "+viewer)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = ts.do(t, http.MethodGet, "/api/jobs", "", auth.APIKeyHeader, "key-1")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCORSPreflight(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodOptions, "/api/jobs/twin-update", "", "Origin", "http://ui.local")

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "http://ui.local", rec.Header().Get("Access-Control-Allow-Origin"))
}
