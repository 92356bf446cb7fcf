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
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carverauto/devicejobs/pkg/jobs"
	"github.com/carverauto/devicejobs/pkg/logger"
	"github.com/carverauto/devicejobs/pkg/models"
)

var (
	_ jobs.JobRepository   = (*JobStore)(nil)
	_ jobs.QueryRepository = (*QueryStore)(nil)

	errConnReset = errors.New("connection reset by peer")
)

func TestJobStoreAdd(t *testing.T) {
	q := &fakeQuerier{execTag: pgconn.NewCommandTag("INSERT 0 1")}
	store := NewJobStore(q, logger.NewTestLogger())
	created := time.Date(2025, 6, 1, 10, 0, 0, 0, time.FixedZone("CEST", 2*3600))

	err := store.Add(context.Background(), &models.JobRecord{
		JobID:     "job-1",
		QueryName: "*",
		JobName:   "relocate",
		CreatedAt: created,
	})
	require.NoError(t, err)

	require.Len(t, q.execs, 1)
	assert.Contains(t, q.execs[0].sql, "ON CONFLICT (job_id) DO NOTHING")
	assert.Equal(t, []any{"job-1", "*", "relocate", created.UTC()}, q.execs[0].args)
}

func TestJobStoreAddRejectsMissingID(t *testing.T) {
	store := NewJobStore(&fakeQuerier{}, nil)

	require.ErrorIs(t, store.Add(context.Background(), nil), ErrInvalidJobRecord)
	require.ErrorIs(t, store.Add(context.Background(), &models.JobRecord{JobID: " "}), ErrInvalidJobRecord)
}

func TestJobStoreAddRetriesTransientErrors(t *testing.T) {
	q := &fakeQuerier{
		execTag:  pgconn.NewCommandTag("INSERT 0 1"),
		execErrs: []error{&pgconn.PgError{Code: sqlstateSerializationFailed}, nil},
	}
	store := NewJobStore(q, nil)

	require.NoError(t, store.Add(context.Background(), &models.JobRecord{JobID: "job-1"}))
	assert.Len(t, q.execs, 2)
}

func TestJobStoreAddClassifiesPermanentErrors(t *testing.T) {
	q := &fakeQuerier{execErrs: []error{&pgconn.PgError{Code: "23502"}}}
	store := NewJobStore(q, nil)

	err := store.Add(context.Background(), &models.JobRecord{JobID: "job-1"})
	require.ErrorIs(t, err, models.ErrUnavailable)
	assert.Len(t, q.execs, 1)
}

func TestJobStoreFindByJobID(t *testing.T) {
	created := time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)
	q := &fakeQuerier{row: &fakeRow{values: []interface{}{"job-1", "floor-2", "patch", created}}}

	record, err := NewJobStore(q, nil).FindByJobID(context.Background(), "job-1")
	require.NoError(t, err)
	assert.Equal(t, &models.JobRecord{JobID: "job-1", QueryName: "floor-2", JobName: "patch", CreatedAt: created}, record)
}

func TestJobStoreFindByJobIDClassifiesErrors(t *testing.T) {
	_, err := NewJobStore(&fakeQuerier{}, nil).FindByJobID(context.Background(), "missing")
	require.ErrorIs(t, err, models.ErrNotFound)

	_, err = NewJobStore(&fakeQuerier{row: &fakeRow{err: errConnReset}}, nil).FindByJobID(context.Background(), "job-1")
	require.ErrorIs(t, err, models.ErrUnavailable)
	require.ErrorIs(t, err, errConnReset)
}

func TestJobStoreFindAllByQueryName(t *testing.T) {
	newer := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)
	older := newer.Add(-24 * time.Hour)

	rows := &fakeRows{rows: []*fakeRow{
		{values: []interface{}{"job-2", "*", "second", newer}},
		{values: []interface{}{"job-1", "*", "first", older}},
	}}

	records, err := NewJobStore(&fakeQuerier{rows: rows}, nil).FindAllByQueryName(context.Background(), "*")
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "job-2", records[0].JobID)
	assert.Equal(t, "first", records[1].JobName)
	assert.True(t, rows.closed)
}

func TestJobStoreFindAllByQueryNameErrors(t *testing.T) {
	_, err := NewJobStore(&fakeQuerier{queryErr: errConnReset}, nil).FindAllByQueryName(context.Background(), "*")
	require.ErrorIs(t, err, models.ErrUnavailable)

	rows := &fakeRows{err: errConnReset}
	_, err = NewJobStore(&fakeQuerier{rows: rows}, nil).FindAllByQueryName(context.Background(), "*")
	require.ErrorIs(t, err, models.ErrUnavailable)
}

func TestWithRetryStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0

	err := withRetry(ctx, 5, func(context.Context) error {
		calls++
		cancel()

		return &pgconn.PgError{Code: sqlstateDeadlockDetected}
	})
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls)
}

func TestCNPGBackoffDelay(t *testing.T) {
	assert.Equal(t, defaultCNPGBaseBackoff, cnpgBackoffDelay(0, ""))
	assert.Equal(t, 2*defaultCNPGBaseBackoff, cnpgBackoffDelay(2, sqlstateStatementTimeout))
	assert.Equal(t, 4*defaultCNPGDeadlockBackoff, cnpgBackoffDelay(3, sqlstateDeadlockDetected))
}
