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

package models

import (
	"errors"
	"time"
)

var errNATSURLRequired = errors.New("nats url is required")

const (
	defaultEventsStream = "events"
	// JobScheduledSubject is the subject job submissions are announced on.
	JobScheduledSubject = "events.jobs.scheduled"
)

// NATSConfig configures NATS connectivity
type NATSConfig struct {
	URL      string          `json:"url"`
	Domain   string          `json:"domain,omitempty"`
	Security *SecurityConfig `json:"security,omitempty"`
}

// Validate ensures the NATS configuration is valid
func (c *NATSConfig) Validate() error {
	if c.URL == "" {
		return errNATSURLRequired
	}

	return nil
}

// EventsConfig configures the event publishing system
type EventsConfig struct {
	Enabled    bool     `json:"enabled"`
	StreamName string   `json:"stream_name"`
	Subjects   []string `json:"subjects"`
}

// Validate fills defaults for an enabled events configuration.
func (c *EventsConfig) Validate() error {
	if !c.Enabled {
		return nil
	}

	if c.StreamName == "" {
		c.StreamName = defaultEventsStream
	}

	if len(c.Subjects) == 0 {
		c.Subjects = []string{"events.jobs.*"}
	}

	return nil
}

// CloudEvent represents a CloudEvents v1.0 compliant event.
type CloudEvent struct {
	SpecVersion     string      `json:"specversion"`
	ID              string      `json:"id"`
	Source          string      `json:"source"`
	Type            string      `json:"type"`
	DataContentType string      `json:"datacontenttype"`
	Subject         string      `json:"subject,omitempty"`
	Time            *time.Time  `json:"time,omitempty"`
	Data            interface{} `json:"data,omitempty"`
}

// JobScheduledEvent announces a job accepted by the device backend.
type JobScheduledEvent struct {
	JobID          string    `json:"job_id"`
	JobName        string    `json:"job_name"`
	JobType        JobType   `json:"job_type"`
	QueryName      string    `json:"query_name"`
	QueryCondition string    `json:"query_condition"`
	MethodName     string    `json:"method_name,omitempty"`
	StartTime      time.Time `json:"start_time"`
	MaxExecution   int64     `json:"max_execution_seconds"`
	ScheduledAt    time.Time `json:"scheduled_at"`
}
