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

package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/carverauto/devicejobs/pkg/logger"
)

const (
	defaultShutdownTimeout = 15 * time.Second
	defaultReadTimeout     = 10 * time.Second
	defaultRequestTimeout  = 30 * time.Second
	defaultIdleTimeout     = 60 * time.Second
	// writeTimeoutMargin leaves room to send the error body once a
	// handler's request context has expired.
	writeTimeoutMargin = 15 * time.Second
)

// WriteTimeout returns the connection write deadline for handlers that bound
// their own work by requestTimeout.
func WriteTimeout(requestTimeout time.Duration) time.Duration {
	if requestTimeout <= 0 {
		requestTimeout = defaultRequestTimeout
	}

	return requestTimeout + writeTimeoutMargin
}

// HTTPServerOptions configures RunHTTPServer.
type HTTPServerOptions struct {
	ListenAddr      string
	Handler         http.Handler
	ShutdownTimeout time.Duration
	// RequestTimeout is the per-request deadline applied by Handler. The
	// write deadline is derived from it.
	RequestTimeout time.Duration
	Logger         logger.Logger
	// OnShutdown runs after the listener has drained.
	OnShutdown func(ctx context.Context) error
}

// RunHTTPServer serves until ctx is cancelled or SIGINT/SIGTERM arrives, then
// shuts down gracefully within ShutdownTimeout.
func RunHTTPServer(ctx context.Context, opts *HTTPServerOptions) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	log := opts.Logger
	if log == nil {
		log = logger.NewTestLogger()
	}

	timeout := opts.ShutdownTimeout
	if timeout <= 0 {
		timeout = defaultShutdownTimeout
	}

	srv := &http.Server{
		Addr:              opts.ListenAddr,
		Handler:           opts.Handler,
		ReadHeaderTimeout: defaultReadTimeout,
		ReadTimeout:       defaultReadTimeout,
		WriteTimeout:      WriteTimeout(opts.RequestTimeout),
		IdleTimeout:       defaultIdleTimeout,
	}

	errCh := make(chan error, 1)

	go func() {
		log.Info().Str("listen_addr", opts.ListenAddr).Msg("Starting HTTP API server")

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}

		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("http server: %w", err)
		}

		return nil
	case <-ctx.Done():
	}

	log.Info().Dur("timeout", timeout).Msg("Shutting down HTTP API server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http server shutdown: %w", err)
	}

	if opts.OnShutdown != nil {
		if err := opts.OnShutdown(shutdownCtx); err != nil {
			return err
		}
	}

	return nil
}
