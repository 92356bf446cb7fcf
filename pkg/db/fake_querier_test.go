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
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	errFakeRowScanMismatch    = errors.New("fake row scan mismatch")
	errFakeRowUnsupportedDest = errors.New("unsupported destination type")
)

type fakeRow struct {
	values []interface{}
	err    error
}

func (r *fakeRow) Scan(dest ...interface{}) error {
	if r.err != nil {
		return r.err
	}

	if len(dest) != len(r.values) {
		return fmt.Errorf("%w: dest=%d values=%d", errFakeRowScanMismatch, len(dest), len(r.values))
	}

	for i, d := range dest {
		switch ptr := d.(type) {
		case *string:
			val, _ := r.values[i].(string)
			*ptr = val
		case *[]byte:
			switch v := r.values[i].(type) {
			case []byte:
				*ptr = append((*ptr)[:0], v...)
			case string:
				*ptr = []byte(v)
			case nil:
				*ptr = nil
			}
		case *time.Time:
			val, _ := r.values[i].(time.Time)
			*ptr = val
		default:
			return fmt.Errorf("%w: %T", errFakeRowUnsupportedDest, d)
		}
	}

	return nil
}

type fakeRows struct {
	rows   []*fakeRow
	idx    int
	err    error
	closed bool
}

func (r *fakeRows) Close()                                       { r.closed = true }
func (r *fakeRows) Err() error                                   { return r.err }
func (r *fakeRows) CommandTag() pgconn.CommandTag                { return pgconn.NewCommandTag("SELECT") }
func (r *fakeRows) FieldDescriptions() []pgconn.FieldDescription { return nil }
func (r *fakeRows) Values() ([]any, error)                       { return nil, nil }
func (r *fakeRows) RawValues() [][]byte                          { return nil }
func (r *fakeRows) Conn() *pgx.Conn                              { return nil }

func (r *fakeRows) Next() bool {
	if r.idx >= len(r.rows) {
		return false
	}

	r.idx++

	return true
}

func (r *fakeRows) Scan(dest ...any) error {
	return r.rows[r.idx-1].Scan(dest...)
}

type execCall struct {
	sql  string
	args []any
}

// fakeQuerier records Exec calls and replays canned results.
type fakeQuerier struct {
	mu sync.Mutex

	execs    []execCall
	execTag  pgconn.CommandTag
	execErrs []error

	rows     *fakeRows
	queryErr error
	row      *fakeRow
	rowCalls []execCall
}

func (f *fakeQuerier) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.execs = append(f.execs, execCall{sql: sql, args: args})

	if len(f.execErrs) > 0 {
		err := f.execErrs[0]
		f.execErrs = f.execErrs[1:]

		if err != nil {
			return pgconn.CommandTag{}, err
		}
	}

	return f.execTag, nil
}

func (f *fakeQuerier) Query(context.Context, string, ...any) (pgx.Rows, error) {
	if f.queryErr != nil {
		return nil, f.queryErr
	}

	if f.rows == nil {
		return &fakeRows{}, nil
	}

	return f.rows, nil
}

func (f *fakeQuerier) QueryRow(_ context.Context, sql string, args ...any) pgx.Row {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.rowCalls = append(f.rowCalls, execCall{sql: sql, args: args})

	if f.row == nil {
		return &fakeRow{err: pgx.ErrNoRows}
	}

	return f.row
}
