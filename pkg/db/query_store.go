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
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/carverauto/devicejobs/pkg/devicequery"
	"github.com/carverauto/devicejobs/pkg/logger"
	"github.com/carverauto/devicejobs/pkg/models"
)

const (
	selectQuerySQL = `
SELECT name, filters, sql, created_at, updated_at
FROM device_queries
WHERE name = $1`

	listQueriesSQL = `
SELECT name, filters, sql, created_at, updated_at
FROM device_queries
ORDER BY name`

	upsertQuerySQL = `
INSERT INTO device_queries (name, filters, sql, created_at, updated_at)
VALUES ($1, $2, $3, $4, $4)
ON CONFLICT (name) DO UPDATE SET
    filters = EXCLUDED.filters,
    sql = EXCLUDED.sql,
    updated_at = EXCLUDED.updated_at
RETURNING name, filters, sql, created_at, updated_at`

	deleteQuerySQL = `DELETE FROM device_queries WHERE name = $1`
)

// QueryStore holds the saved device queries jobs are scheduled against.
type QueryStore struct {
	db       Querier
	logger   logger.Logger
	attempts int
	now      func() time.Time
}

// NewQueryStore creates a QueryStore over q.
func NewQueryStore(q Querier, log logger.Logger) *QueryStore {
	if log == nil {
		log = logger.NewTestLogger()
	}

	return &QueryStore{db: q, logger: log, attempts: defaultCNPGMaxRetryAttempts, now: time.Now}
}

// GetQuery returns models.ErrNotFound for unknown names.
func (s *QueryStore) GetQuery(ctx context.Context, name string) (*models.DeviceQuery, error) {
	name = queryKey(name)

	query, err := scanDeviceQuery(s.db.QueryRow(ctx, selectQuerySQL, name))
	if err != nil {
		return nil, classify(fmt.Sprintf("select query %q", name), err)
	}

	return query, nil
}

// ListQueries returns every saved query ordered by name.
func (s *QueryStore) ListQueries(ctx context.Context) ([]*models.DeviceQuery, error) {
	rows, err := s.db.Query(ctx, listQueriesSQL)
	if err != nil {
		return nil, classify("list queries", err)
	}
	defer rows.Close()

	queries := make([]*models.DeviceQuery, 0)

	for rows.Next() {
		query, err := scanDeviceQuery(rows)
		if err != nil {
			return nil, classify("scan query", err)
		}

		queries = append(queries, query)
	}

	if err := rows.Err(); err != nil {
		return nil, classify("iterate queries", err)
	}

	return queries, nil
}

// SaveQuery creates or replaces a query and returns the stored row. The
// query must render to a condition and may not use the reserved all-devices
// name.
func (s *QueryStore) SaveQuery(ctx context.Context, query *models.DeviceQuery) (*models.DeviceQuery, error) {
	if query == nil {
		return nil, ErrInvalidQuery
	}

	name := queryKey(query.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidQuery)
	}

	if name == models.QueryNameAllDevices {
		return nil, ErrReservedQueryName
	}

	if _, err := query.Condition(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidQuery, err)
	}

	filters := query.Filters
	if filters == nil {
		filters = []devicequery.Clause{}
	}

	encoded, err := json.Marshal(filters)
	if err != nil {
		return nil, fmt.Errorf("%w: encode filters: %w", ErrInvalidQuery, err)
	}

	now := s.now().UTC()

	var saved *models.DeviceQuery

	err = withRetry(ctx, s.attempts, func(ctx context.Context) error {
		var err error

		saved, err = scanDeviceQuery(s.db.QueryRow(ctx, upsertQuerySQL, name, encoded, strings.TrimSpace(query.SQL), now))

		return err
	})
	if err != nil {
		return nil, classify(fmt.Sprintf("save query %q", name), err)
	}

	s.logger.Info().Str("query_name", name).Int("filters", len(filters)).Msg("Device query saved")

	return saved, nil
}

// DeleteQuery removes a query; unknown names return models.ErrNotFound.
func (s *QueryStore) DeleteQuery(ctx context.Context, name string) error {
	name = queryKey(name)

	tag, err := s.db.Exec(ctx, deleteQuerySQL, name)
	if err != nil {
		return classify(fmt.Sprintf("delete query %q", name), err)
	}

	if tag.RowsAffected() == 0 {
		return classify(fmt.Sprintf("delete query %q", name), pgx.ErrNoRows)
	}

	return nil
}

// queryKey is the stored form of a query name.
func queryKey(name string) string {
	return strings.TrimSpace(name)
}

func scanDeviceQuery(row pgx.Row) (*models.DeviceQuery, error) {
	var (
		query   models.DeviceQuery
		filters []byte
	)

	if err := row.Scan(&query.Name, &filters, &query.SQL, &query.CreatedAt, &query.UpdatedAt); err != nil {
		return nil, err
	}

	if len(filters) > 0 {
		if err := json.Unmarshal(filters, &query.Filters); err != nil {
			return nil, fmt.Errorf("decode filters of %q: %w", query.Name, err)
		}
	}

	return &query, nil
}
