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

// Package app boots the device-jobs service.
package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"

	"github.com/carverauto/devicejobs/pkg/api"
	"github.com/carverauto/devicejobs/pkg/config"
	"github.com/carverauto/devicejobs/pkg/db"
	"github.com/carverauto/devicejobs/pkg/iothub"
	"github.com/carverauto/devicejobs/pkg/jobs"
	"github.com/carverauto/devicejobs/pkg/kv"
	"github.com/carverauto/devicejobs/pkg/lifecycle"
	"github.com/carverauto/devicejobs/pkg/logger"
	"github.com/carverauto/devicejobs/pkg/models"
	"github.com/carverauto/devicejobs/pkg/natsutil"
	"github.com/carverauto/devicejobs/pkg/version"
)

const (
	serviceName    = "device-jobs"
	startupTimeout = 30 * time.Second
)

// Options contains runtime configuration derived from CLI flags.
type Options struct {
	ConfigPath string
}

// Run boots the service and blocks until it shuts down.
func Run(ctx context.Context, opts Options) error {
	if ctx == nil {
		ctx = context.Background()
	}

	bootLogger, err := lifecycle.CreateComponentLogger(ctx, "device-jobs-main", nil)
	if err != nil {
		return err
	}

	cfg, err := config.LoadServiceConfig(ctx, opts.ConfigPath, bootLogger)
	if err != nil {
		return err
	}

	mainLogger, err := lifecycle.CreateComponentLogger(ctx, "device-jobs-main", cfg.Logging)
	if err != nil {
		return err
	}

	defer func() {
		if shutdownErr := lifecycle.ShutdownLogger(); shutdownErr != nil {
			mainLogger.Error().Err(shutdownErr).Msg("Error shutting down logger")
		}
	}()

	mainLogger.Info().
		Str("version", version.GetFullVersion()).
		Str("listen_addr", cfg.ListenAddr).
		Msg("Starting device-jobs")

	otelCfg := otelConfig(cfg.Logging)

	tp, err := logger.InitializeTracing(ctx, logger.TracingConfig{
		ServiceName:    serviceName,
		ServiceVersion: version.GetVersion(),
		Logger:         mainLogger,
		OTel:           otelCfg,
	})
	if err != nil {
		return err
	}

	defer func() {
		if err := tp.Shutdown(context.Background()); err != nil {
			mainLogger.Error().Err(err).Msg("Error shutting down tracer provider")
		}
	}()

	if _, metricsErr := logger.InitializeMetrics(ctx, logger.MetricsConfig{
		ServiceName:    serviceName,
		ServiceVersion: version.GetVersion(),
		OTel:           otelCfg,
	}); metricsErr != nil && !errors.Is(metricsErr, logger.ErrOTelMetricsDisabled) {
		return metricsErr
	}

	svc, err := newServices(ctx, cfg, mainLogger)
	if err != nil {
		return err
	}
	defer svc.close()

	apiServer := api.NewAPIServer(cfg.CORS,
		api.WithJobService(svc.coordinator),
		api.WithQueryService(svc.queries),
		api.WithNameLister(svc.names),
		api.WithAuthConfig(cfg.Auth),
		api.WithLogger(mainLogger),
		api.WithRequestTimeout(time.Duration(cfg.RequestTimeout)),
	)

	return lifecycle.RunHTTPServer(ctx, &lifecycle.HTTPServerOptions{
		ListenAddr:      cfg.ListenAddr,
		Handler:         apiServer.Handler(),
		ShutdownTimeout: time.Duration(cfg.ShutdownTimeout),
		RequestTimeout:  time.Duration(cfg.RequestTimeout),
		Logger:          mainLogger,
	})
}

func otelConfig(cfg *logger.Config) *logger.OTelConfig {
	if cfg == nil {
		return nil
	}

	return &cfg.OTel
}

// services holds the collaborators behind the API and releases them on close.
type services struct {
	coordinator *jobs.Coordinator
	queries     *db.QueryStore
	names       api.NameLister
	closers     []func()
}

func (s *services) close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		s.closers[i]()
	}
}

func newServices(ctx context.Context, cfg *models.ServiceConfig, log logger.Logger) (_ *services, err error) {
	svc := &services{}

	defer func() {
		if err != nil {
			svc.close()
		}
	}()

	startCtx, cancel := context.WithTimeout(ctx, startupTimeout)
	defer cancel()

	pool, err := db.NewCNPGPool(startCtx, cfg.CNPG, log)
	if err != nil {
		return nil, err
	}

	svc.closers = append(svc.closers, pool.Close)

	if err := db.Migrate(startCtx, pool, log); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	jobStore := db.NewJobStore(pool, log)
	svc.queries = db.NewQueryStore(pool, log)

	devices, err := iothub.NewClient(cfg.IoTHub, &iothub.ClientOptions{Logger: log})
	if err != nil {
		return nil, err
	}

	var (
		nameCache jobs.NameCache
		coordOpts = []jobs.Option{jobs.WithLogger(log)}
	)

	if needsNATS(cfg) {
		nc, err := natsutil.Connect(startCtx, cfg.NATS, log)
		if err != nil {
			return nil, err
		}

		svc.closers = append(svc.closers, func() { drainNATS(nc, log) })

		if cfg.NameCache != nil && cfg.NameCache.Enabled {
			cache, err := newNameCache(startCtx, nc, cfg, log)
			if err != nil {
				return nil, err
			}

			nameCache = cache
			svc.names = cache
		}

		if cfg.Events != nil && cfg.Events.Enabled {
			publisher, err := natsutil.CreateEventPublisher(startCtx, nc, cfg.NATS, cfg.Events, log)
			if err != nil {
				return nil, err
			}

			coordOpts = append(coordOpts, jobs.WithEventPublisher(publisher))
		}
	}

	svc.coordinator = jobs.NewCoordinator(devices, jobStore, svc.queries, nameCache, coordOpts...)

	return svc, nil
}

func needsNATS(cfg *models.ServiceConfig) bool {
	return (cfg.NameCache != nil && cfg.NameCache.Enabled) || (cfg.Events != nil && cfg.Events.Enabled)
}

func newNameCache(ctx context.Context, nc *nats.Conn, cfg *models.ServiceConfig, log logger.Logger) (*kv.NameCache, error) {
	var (
		js  jetstream.JetStream
		err error
	)

	if cfg.NATS.Domain != "" {
		js, err = jetstream.NewWithDomain(nc, cfg.NATS.Domain)
	} else {
		js, err = jetstream.New(nc)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to create JetStream context: %w", err)
	}

	return kv.NewNameCache(ctx, js, cfg.NameCache.Bucket, log)
}

func drainNATS(nc *nats.Conn, log logger.Logger) {
	if err := nc.Drain(); err != nil {
		log.Warn().Err(err).Msg("Failed to drain NATS connection")
	}
}
