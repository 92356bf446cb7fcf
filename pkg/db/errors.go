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

package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/carverauto/devicejobs/pkg/models"
)

var (
	// ErrInvalidJobRecord is returned for a record without a job id.
	ErrInvalidJobRecord = errors.New("job record requires a job id")
	// ErrInvalidQuery is returned when a device query cannot be stored.
	ErrInvalidQuery = errors.New("invalid device query")
	// ErrReservedQueryName is returned for attempts to store the all-devices name.
	ErrReservedQueryName = errors.New("query name is reserved")
)

// PostgreSQL SQLSTATE codes for transient errors that should be retried.
const (
	sqlstateDeadlockDetected    = "40P01"
	sqlstateSerializationFailed = "40001"
	sqlstateStatementTimeout    = "57014"
	sqlstateAdminShutdown       = "57P01"
	sqlstateCannotConnectNow    = "57P03"
)

const (
	defaultCNPGMaxRetryAttempts = 3
	defaultCNPGBaseBackoff      = 150 * time.Millisecond
	defaultCNPGDeadlockBackoff  = 500 * time.Millisecond
)

// classify maps a storage error onto the shared classification errors:
// no rows is ErrNotFound, anything else is ErrUnavailable.
func classify(op string, err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%s: %w", op, models.ErrNotFound)
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%s: %w", op, err)
	}

	return fmt.Errorf("%s: %w: %w", op, models.ErrUnavailable, err)
}

// classifyCNPGError reports the SQLSTATE of err and whether a retry may succeed.
func classifyCNPGError(err error) (string, bool) {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return "", false
	}

	switch pgErr.Code {
	case sqlstateDeadlockDetected, sqlstateSerializationFailed, sqlstateStatementTimeout,
		sqlstateAdminShutdown, sqlstateCannotConnectNow:
		return pgErr.Code, true
	}

	return pgErr.Code, false
}

// cnpgBackoffDelay doubles the base delay per attempt; lock conflicts start
// from a longer base.
func cnpgBackoffDelay(attempt int, sqlstate string) time.Duration {
	if attempt < 1 {
		attempt = 1
	}

	base := defaultCNPGBaseBackoff
	if sqlstate == sqlstateDeadlockDetected || sqlstate == sqlstateSerializationFailed {
		base = defaultCNPGDeadlockBackoff
	}

	return base * time.Duration(1<<(attempt-1))
}

// withRetry runs op until it succeeds, fails permanently, or the attempt
// budget is spent.
func withRetry(ctx context.Context, attempts int, op func(context.Context) error) error {
	var err error

	for attempt := 1; attempt <= attempts; attempt++ {
		if err = op(ctx); err == nil {
			return nil
		}

		sqlstate, transient := classifyCNPGError(err)
		if !transient || attempt == attempts {
			return err
		}

		timer := time.NewTimer(cnpgBackoffDelay(attempt, sqlstate))

		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}

	return err
}
