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

package jobs

import "errors"

var (
	ErrNilRequest          = errors.New("job request is nil")
	ErrMethodNameRequired  = errors.New("method name is required")
	ErrInvalidMaxExecution = errors.New("max execution time must be positive")
	ErrEmptyJobID          = errors.New("device backend returned an empty job id")
	ErrJobIDRequired       = errors.New("job id is required")
)
