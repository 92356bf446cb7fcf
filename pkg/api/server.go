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

// Package api provides the HTTP API for scheduling and inspecting device jobs.
package api

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/carverauto/devicejobs/pkg/auth"
	srHttp "github.com/carverauto/devicejobs/pkg/http"
	"github.com/carverauto/devicejobs/pkg/logger"
	"github.com/carverauto/devicejobs/pkg/models"
)

const (
	defaultTimeout = 30 * time.Second
	maxBodyBytes   = 1 << 20
	// jobsPageRedirect is where the UI lands after a job is scheduled.
	jobsPageRedirect = "/jobs"
)

// APIServer routes HTTP requests to the job, query and name services.
type APIServer struct {
	router     *mux.Router
	jobs       JobService
	queries    QueryService
	names      NameLister
	authConfig *models.AuthConfig
	rbacConfig models.RBACConfig
	corsConfig models.CORSConfig
	logger     logger.Logger
	timeout    time.Duration
}

// NewAPIServer creates a new API server instance with the given configuration
func NewAPIServer(config models.CORSConfig, options ...func(server *APIServer)) *APIServer {
	s := &APIServer{
		router:     mux.NewRouter(),
		corsConfig: config,
		rbacConfig: models.DefaultRBACConfig(),
		logger:     logger.NewTestLogger(),
		timeout:    defaultTimeout,
	}

	for _, o := range options {
		o(s)
	}

	s.setupRoutes()

	return s
}

// WithJobService sets the service behind the /api/jobs routes.
func WithJobService(j JobService) func(server *APIServer) {
	return func(server *APIServer) {
		server.jobs = j
	}
}

// WithQueryService sets the saved-query store behind the /api/queries routes.
func WithQueryService(q QueryService) func(server *APIServer) {
	return func(server *APIServer) {
		server.queries = q
	}
}

// WithNameLister sets the known-names source. Without one /api/names
// answers with an empty list.
func WithNameLister(n NameLister) func(server *APIServer) {
	return func(server *APIServer) {
		server.names = n
	}
}

// WithAuthConfig enables authentication. Its RBAC table replaces the
// default one when it defines any roles.
func WithAuthConfig(cfg *models.AuthConfig) func(server *APIServer) {
	return func(server *APIServer) {
		server.authConfig = cfg

		if cfg != nil && len(cfg.RBAC.RolePermissions) > 0 {
			server.rbacConfig = cfg.RBAC
		}
	}
}

// WithLogger sets the request logger.
func WithLogger(log logger.Logger) func(server *APIServer) {
	return func(server *APIServer) {
		if log != nil {
			server.logger = log
		}
	}
}

// WithRequestTimeout bounds the work done for each request.
func WithRequestTimeout(d time.Duration) func(server *APIServer) {
	return func(server *APIServer) {
		if d > 0 {
			server.timeout = d
		}
	}
}

// Handler returns the router wrapped in request logging and CORS.
func (s *APIServer) Handler() http.Handler {
	return srHttp.CommonMiddleware(s.router, s.corsConfig, s.logger)
}

func (s *APIServer) setupRoutes() {
	s.router.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)

	protected := s.router.PathPrefix("/api").Subrouter()
	protected.Use(auth.AuthMiddleware(s.authConfig, s.logger))

	view := s.requirePermission(models.PermissionViewJobs)
	manage := s.requirePermission(models.PermissionManageJobs)

	protected.Handle("/jobs", view(s.handleListJobs)).Methods(http.MethodGet)
	protected.Handle("/jobs/twin-update", manage(s.handleScheduleTwinUpdate)).Methods(http.MethodPost)
	protected.Handle("/jobs/device-method", manage(s.handleScheduleDeviceMethod)).Methods(http.MethodPost)
	protected.Handle("/jobs/{jobId}", view(s.handleGetJob)).Methods(http.MethodGet)
	protected.Handle("/jobs/{jobId}/cancel", manage(s.handleCancelJob)).Methods(http.MethodPost)

	protected.Handle("/queries", view(s.handleListQueries)).Methods(http.MethodGet)
	protected.Handle("/queries/{name}", view(s.handleGetQuery)).Methods(http.MethodGet)
	protected.Handle("/queries/{name}", manage(s.handleSaveQuery)).Methods(http.MethodPut)
	protected.Handle("/queries/{name}", manage(s.handleDeleteQuery)).Methods(http.MethodDelete)
	protected.Handle("/queries/{name}/condition", view(s.handleQueryCondition)).Methods(http.MethodGet)

	protected.Handle("/names", view(s.handleListNames)).Methods(http.MethodGet)
}

func (s *APIServer) requirePermission(permission string) func(http.HandlerFunc) http.Handler {
	mw := auth.PermissionMiddleware(permission, &s.rbacConfig)

	return func(h http.HandlerFunc) http.Handler {
		return mw(h)
	}
}
