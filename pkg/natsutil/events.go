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

package natsutil

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"

	"github.com/carverauto/devicejobs/pkg/logger"
	"github.com/carverauto/devicejobs/pkg/models"
)

const (
	eventSource = "devicejobs/coordinator"
	// JobScheduledEventType is the CloudEvents type of job announcements.
	JobScheduledEventType = "com.carverauto.devicejobs.job.scheduled"
)

var (
	errNilNATSConfig = errors.New("configuration is required")
	errNilEvent      = errors.New("event is nil")
)

// EventPublisher provides methods for publishing CloudEvents to NATS JetStream.
type EventPublisher struct {
	js     jetstream.JetStream
	stream string
	logger logger.Logger
}

// NewEventPublisher creates a new EventPublisher for the specified stream.
func NewEventPublisher(js jetstream.JetStream, streamName string, log logger.Logger) *EventPublisher {
	if log == nil {
		log = logger.NewTestLogger()
	}

	return &EventPublisher{
		js:     js,
		stream: streamName,
		logger: log,
	}
}

// CreateEventPublisher binds a publisher to nc, creating the stream when it
// is missing and adding the job subject when the stream does not cover it.
func CreateEventPublisher(
	ctx context.Context, nc *nats.Conn, cfg *models.NATSConfig, events *models.EventsConfig, log logger.Logger) (*EventPublisher, error) {
	if events == nil {
		return nil, fmt.Errorf("events: %w", errNilNATSConfig)
	}

	var (
		js  jetstream.JetStream
		err error
	)

	if cfg != nil && cfg.Domain != "" {
		js, err = jetstream.NewWithDomain(nc, cfg.Domain)
	} else {
		js, err = jetstream.New(nc)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to create JetStream context: %w", err)
	}

	if err := ensureStream(ctx, js, events.StreamName, events.Subjects); err != nil {
		return nil, err
	}

	return NewEventPublisher(js, events.StreamName, log), nil
}

func ensureStream(ctx context.Context, js jetstream.JetStream, streamName string, subjects []string) error {
	stream, err := js.Stream(ctx, streamName)
	if err != nil {
		if !isStreamMissingErr(err) {
			return fmt.Errorf("failed to look up stream %s: %w", streamName, err)
		}

		_, err = js.CreateOrUpdateStream(ctx, jetstream.StreamConfig{
			Name:     streamName,
			Subjects: ensureSubjectList(append([]string(nil), subjects...), models.JobScheduledSubject),
		})
		if err != nil {
			return fmt.Errorf("failed to create stream %s: %w", streamName, err)
		}

		return nil
	}

	info, err := stream.Info(ctx)
	if err != nil {
		return fmt.Errorf("failed to read stream %s: %w", streamName, err)
	}

	merged := ensureSubjectList(append([]string(nil), info.Config.Subjects...), models.JobScheduledSubject)
	if len(merged) == len(info.Config.Subjects) {
		return nil
	}

	updated := info.Config
	updated.Subjects = merged

	if _, err := js.UpdateStream(ctx, updated); err != nil {
		return fmt.Errorf("failed to add %s to stream %s: %w", models.JobScheduledSubject, streamName, err)
	}

	return nil
}

// PublishJobScheduled announces an accepted job as a CloudEvent.
func (p *EventPublisher) PublishJobScheduled(ctx context.Context, event *models.JobScheduledEvent) error {
	if event == nil {
		return errNilEvent
	}

	scheduledAt := event.ScheduledAt

	cloudEvent := models.CloudEvent{
		SpecVersion:     "1.0",
		ID:              uuid.New().String(),
		Source:          eventSource,
		Type:            JobScheduledEventType,
		DataContentType: "application/json",
		Subject:         models.JobScheduledSubject,
		Time:            &scheduledAt,
		Data:            event,
	}

	payload, err := json.Marshal(cloudEvent)
	if err != nil {
		return fmt.Errorf("failed to marshal job scheduled event: %w", err)
	}

	ack, err := p.js.Publish(ctx, cloudEvent.Subject, payload, jetstream.WithMsgID(cloudEvent.ID))
	if err != nil {
		return fmt.Errorf("failed to publish job scheduled event: %w", err)
	}

	p.logger.Debug().
		Str("event_id", cloudEvent.ID).
		Str("job_id", event.JobID).
		Str("stream", ack.Stream).
		Uint64("seq", ack.Sequence).
		Msg("Published job scheduled event")

	return nil
}

// ensureSubjectList appends subject unless an existing pattern already covers it.
func ensureSubjectList(subjects []string, subject string) []string {
	for _, pattern := range subjects {
		if matchesSubject(pattern, subject) {
			return subjects
		}
	}

	return append(subjects, subject)
}

// matchesSubject applies NATS wildcard rules: "*" matches one token and a
// trailing ">" matches one or more.
func matchesSubject(pattern, subject string) bool {
	patternTokens := strings.Split(pattern, ".")
	subjectTokens := strings.Split(subject, ".")

	for i, token := range patternTokens {
		if token == ">" {
			return i == len(patternTokens)-1 && len(subjectTokens) > i
		}

		if i >= len(subjectTokens) {
			return false
		}

		if token != "*" && token != subjectTokens[i] {
			return false
		}
	}

	return len(patternTokens) == len(subjectTokens)
}

func isStreamMissingErr(err error) bool {
	return errors.Is(err, jetstream.ErrStreamNotFound) ||
		errors.Is(err, jetstream.ErrNoStreamResponse) ||
		errors.Is(err, nats.ErrStreamNotFound) ||
		errors.Is(err, nats.ErrNoStreamResponse) ||
		errors.Is(err, nats.ErrNoResponders)
}
