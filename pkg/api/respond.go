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
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"

	"github.com/carverauto/devicejobs/pkg/db"
	"github.com/carverauto/devicejobs/pkg/devicequery"
	"github.com/carverauto/devicejobs/pkg/jobs"
	"github.com/carverauto/devicejobs/pkg/models"
)

var errInvalidBody = errors.New("invalid request body")

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, message string, statusCode int) {
	writeJSON(w, statusCode, models.ErrorResponse{Message: message, Status: statusCode})
}

// statusForError maps a service error onto an HTTP status.
func statusForError(err error) int {
	switch {
	case errors.Is(err, models.ErrNotFound):
		return http.StatusNotFound
	case isBadRequest(err):
		return http.StatusBadRequest
	case errors.Is(err, models.ErrUnavailable), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func isBadRequest(err error) bool {
	if jobs.IsValidationError(err) {
		return true
	}

	for _, target := range []error{
		errInvalidBody,
		models.ErrRejected,
		db.ErrInvalidQuery,
		db.ErrReservedQueryName,
		devicequery.ErrEmptyCondition,
		devicequery.ErrUnsupportedOperator,
		devicequery.ErrMissingValues,
	} {
		if errors.Is(err, target) {
			return true
		}
	}

	return false
}

// respondError writes err with its mapped status. Server-side failures are
// logged and their detail withheld from the client.
func (s *APIServer) respondError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusForError(err)

	event := s.logger.Debug()
	if status >= http.StatusInternalServerError {
		event = s.logger.Error()
	}

	event.Err(err).
		Str("method", r.Method).
		Str("path", r.URL.Path).
		Int("status", status).
		Msg("Request failed")

	message := err.Error()

	switch status {
	case http.StatusBadRequest:
		if errors.Is(err, models.ErrRejected) {
			message = rejectedMessage(err)
		}
	case http.StatusServiceUnavailable:
		message = "device service temporarily unavailable"
	case http.StatusInternalServerError:
		message = "internal server error"
	}

	writeError(w, message, status)
}

// rejectedMessage reports the device service's error code without echoing its
// full response.
func rejectedMessage(err error) string {
	var respErr *azcore.ResponseError
	if errors.As(err, &respErr) && respErr.ErrorCode != "" {
		return models.ErrRejected.Error() + ": " + respErr.ErrorCode
	}

	return models.ErrRejected.Error()
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return fmt.Errorf("%w: %w", errInvalidBody, err)
	}

	return nil
}
