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
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carverauto/devicejobs/pkg/devicequery"
	"github.com/carverauto/devicejobs/pkg/logger"
	"github.com/carverauto/devicejobs/pkg/models"
)

func TestQueryStoreGetQuery(t *testing.T) {
	ts := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	q := &fakeQuerier{row: &fakeRow{values: []interface{}{
		"floor-2",
		[]byte(`[{"column":"floor","operator":"=","value":2}]`),
		"",
		ts,
		ts,
	}}}

	query, err := NewQueryStore(q, nil).GetQuery(context.Background(), "floor-2")
	require.NoError(t, err)
	assert.Equal(t, "floor-2", query.Name)
	require.Len(t, query.Filters, 1)
	assert.Equal(t, devicequery.Equals, query.Filters[0].Operator)

	condition, err := query.Condition()
	require.NoError(t, err)
	assert.Equal(t, "tags.floor = 2", condition)
}

func TestQueryStoreGetQueryNotFound(t *testing.T) {
	_, err := NewQueryStore(&fakeQuerier{}, nil).GetQuery(context.Background(), "gone")
	require.ErrorIs(t, err, models.ErrNotFound)
}

func savedRow(name, filters, sql string, created, updated time.Time) *fakeRow {
	return &fakeRow{values: []interface{}{name, []byte(filters), sql, created, updated}}
}

func TestQueryStoreSaveQuery(t *testing.T) {
	created := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	now := time.Date(2025, 2, 2, 2, 2, 2, 0, time.UTC)
	q := &fakeQuerier{row: savedRow("lab", `[{"column":"site","operator":"=","value":"lab"}]`, "", created, now)}
	store := NewQueryStore(q, nil)
	store.now = func() time.Time { return now }

	saved, err := store.SaveQuery(context.Background(), &models.DeviceQuery{
		Name:    " lab ",
		Filters: []devicequery.Clause{{Column: "site", Operator: devicequery.Equals, Value: "lab"}},
	})
	require.NoError(t, err)

	require.Len(t, q.rowCalls, 1)
	args := q.rowCalls[0].args
	assert.Equal(t, "lab", args[0])
	assert.JSONEq(t, `[{"column":"site","operator":"=","value":"lab"}]`, string(args[1].([]byte)))
	assert.Equal(t, "", args[2])
	assert.Equal(t, now, args[3])

	assert.Equal(t, "lab", saved.Name)
	assert.Equal(t, created, saved.CreatedAt)
	assert.Equal(t, now, saved.UpdatedAt)
	require.Len(t, saved.Filters, 1)
}

func TestQueryStoreSaveQueryRawSQLStoresEmptyFilters(t *testing.T) {
	ts := time.Now().UTC()
	q := &fakeQuerier{row: savedRow("raw", `[]`, "tags.x = 1", ts, ts)}

	_, err := NewQueryStore(q, nil).SaveQuery(context.Background(), &models.DeviceQuery{
		Name: "raw",
		SQL:  " tags.x = 1 ",
	})
	require.NoError(t, err)

	var filters []devicequery.Clause
	require.NoError(t, json.Unmarshal(q.rowCalls[0].args[1].([]byte), &filters))
	assert.Empty(t, filters)
	assert.Equal(t, "tags.x = 1", q.rowCalls[0].args[2])
}

func TestQueryStoreSaveQueryValidation(t *testing.T) {
	q := &fakeQuerier{}
	store := NewQueryStore(q, nil)
	ctx := context.Background()

	for _, query := range []*models.DeviceQuery{nil, {Name: " ", SQL: "x"}} {
		_, err := store.SaveQuery(ctx, query)
		require.ErrorIs(t, err, ErrInvalidQuery)
	}

	_, err := store.SaveQuery(ctx, &models.DeviceQuery{Name: " * ", SQL: "x"})
	require.ErrorIs(t, err, ErrReservedQueryName)

	_, err = store.SaveQuery(ctx, &models.DeviceQuery{Name: "empty"})
	require.ErrorIs(t, err, ErrInvalidQuery)
	require.ErrorIs(t, err, devicequery.ErrEmptyCondition)

	assert.Empty(t, q.rowCalls, "invalid queries never reach the database")
}

func TestQueryStoreTrimsLookupNames(t *testing.T) {
	ts := time.Now().UTC()
	q := &fakeQuerier{
		row:     savedRow("lab", `[]`, "tags.x = 1", ts, ts),
		execTag: pgconn.NewCommandTag("DELETE 1"),
	}
	store := NewQueryStore(q, nil)

	_, err := store.GetQuery(context.Background(), "  lab ")
	require.NoError(t, err)
	require.NoError(t, store.DeleteQuery(context.Background(), "lab\t"))

	assert.Equal(t, "lab", q.rowCalls[0].args[0])
	assert.Equal(t, "lab", q.execs[0].args[0])
}

func TestQueryStoreListQueries(t *testing.T) {
	ts := time.Now().UTC()
	rows := &fakeRows{rows: []*fakeRow{
		{values: []interface{}{"a", []byte(`[]`), "tags.a = 1", ts, ts}},
		{values: []interface{}{"b", nil, "tags.b = 1", ts, ts}},
	}}

	queries, err := NewQueryStore(&fakeQuerier{rows: rows}, nil).ListQueries(context.Background())
	require.NoError(t, err)
	require.Len(t, queries, 2)
	assert.Equal(t, "tags.b = 1", queries[1].SQL)

	empty, err := NewQueryStore(&fakeQuerier{}, nil).ListQueries(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
}

func TestQueryStoreDeleteQuery(t *testing.T) {
	deleted := &fakeQuerier{execTag: pgconn.NewCommandTag("DELETE 1")}
	require.NoError(t, NewQueryStore(deleted, nil).DeleteQuery(context.Background(), "lab"))

	missing := &fakeQuerier{execTag: pgconn.NewCommandTag("DELETE 0")}
	require.ErrorIs(t, NewQueryStore(missing, nil).DeleteQuery(context.Background(), "lab"), models.ErrNotFound)
}

func TestMigrateAppliesPendingFiles(t *testing.T) {
	q := &fakeQuerier{rows: &fakeRows{rows: []*fakeRow{{values: []interface{}{"00001"}}}}}

	require.NoError(t, Migrate(context.Background(), q, logger.NewTestLogger()))

	var recorded []any

	for _, call := range q.execs {
		if len(call.args) == 1 {
			recorded = append(recorded, call.args[0])
		}
	}

	assert.Equal(t, []any{"00002"}, recorded)
	assert.Contains(t, q.execs[0].sql, cnpgMigrationsTable)
}
