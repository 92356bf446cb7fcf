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
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/carverauto/devicejobs/pkg/logger"
	"github.com/carverauto/devicejobs/pkg/models"
)

const (
	insertJobRecordSQL = `
INSERT INTO device_jobs (job_id, query_name, job_name, created_at)
VALUES ($1, $2, $3, $4)
ON CONFLICT (job_id) DO NOTHING`

	selectJobRecordSQL = `
SELECT job_id, query_name, job_name, created_at
FROM device_jobs
WHERE job_id = $1`

	selectJobRecordsByQuerySQL = `
SELECT job_id, query_name, job_name, created_at
FROM device_jobs
WHERE query_name = $1
ORDER BY created_at DESC`
)

// JobStore persists the names users gave their jobs.
type JobStore struct {
	db       Querier
	logger   logger.Logger
	attempts int
}

// NewJobStore creates a JobStore over q.
func NewJobStore(q Querier, log logger.Logger) *JobStore {
	if log == nil {
		log = logger.NewTestLogger()
	}

	return &JobStore{db: q, logger: log, attempts: defaultCNPGMaxRetryAttempts}
}

// Add stores record. Records are immutable, so a second Add for the same
// job id keeps the first one.
func (s *JobStore) Add(ctx context.Context, record *models.JobRecord) error {
	if record == nil || strings.TrimSpace(record.JobID) == "" {
		return ErrInvalidJobRecord
	}

	createdAt := record.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	err := withRetry(ctx, s.attempts, func(ctx context.Context) error {
		tag, err := s.db.Exec(ctx, insertJobRecordSQL, record.JobID, record.QueryName, record.JobName, createdAt.UTC())
		if err != nil {
			return err
		}

		if tag.RowsAffected() == 0 {
			s.logger.Debug().Str("job_id", record.JobID).Msg("Job record already exists")
		}

		return nil
	})

	return classify("insert job record", err)
}

// FindByJobID returns models.ErrNotFound when no record exists.
func (s *JobStore) FindByJobID(ctx context.Context, jobID string) (*models.JobRecord, error) {
	record, err := scanJobRecord(s.db.QueryRow(ctx, selectJobRecordSQL, jobID))
	if err != nil {
		return nil, classify("select job record", err)
	}

	return record, nil
}

// FindAllByQueryName returns the records for queryName, newest first.
func (s *JobStore) FindAllByQueryName(ctx context.Context, queryName string) ([]*models.JobRecord, error) {
	rows, err := s.db.Query(ctx, selectJobRecordsByQuerySQL, queryName)
	if err != nil {
		return nil, classify("list job records", err)
	}
	defer rows.Close()

	var records []*models.JobRecord

	for rows.Next() {
		record, err := scanJobRecord(rows)
		if err != nil {
			return nil, classify("scan job record", err)
		}

		records = append(records, record)
	}

	if err := rows.Err(); err != nil {
		return nil, classify("iterate job records", err)
	}

	return records, nil
}

func scanJobRecord(row pgx.Row) (*models.JobRecord, error) {
	var record models.JobRecord

	if err := row.Scan(&record.JobID, &record.QueryName, &record.JobName, &record.CreatedAt); err != nil {
		return nil, err
	}

	record.CreatedAt = record.CreatedAt.UTC()

	return &record, nil
}
