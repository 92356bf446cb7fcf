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
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/nats-io/nats-server/v2/server"
	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carverauto/devicejobs/pkg/jobs"
	"github.com/carverauto/devicejobs/pkg/logger"
	"github.com/carverauto/devicejobs/pkg/models"
)

var errTestFixture = errors.New("fixture error")

var _ jobs.EventPublisher = (*EventPublisher)(nil)

func TestEnsureSubjectList(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		subjects []string
		subject  string
		want     []string
	}{
		{
			name:     "adds subject when list empty",
			subjects: nil,
			subject:  "events.jobs.scheduled",
			want:     []string{"events.jobs.scheduled"},
		},
		{
			name:     "keeps list when wildcard matches",
			subjects: []string{"events.jobs.*"},
			subject:  "events.jobs.scheduled",
			want:     []string{"events.jobs.*"},
		},
		{
			name:     "keeps list when greater wildcard matches",
			subjects: []string{"events.>"},
			subject:  "events.jobs.scheduled",
			want:     []string{"events.>"},
		},
		{
			name:     "appends when unmatched",
			subjects: []string{"logs.syslog.*"},
			subject:  "events.jobs.scheduled",
			want:     []string{"logs.syslog.*", "events.jobs.scheduled"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			result := ensureSubjectList(append([]string(nil), tc.subjects...), tc.subject)

			if len(result) != len(tc.want) {
				t.Fatalf("expected %d subjects, got %d", len(tc.want), len(result))
			}

			for i := range tc.want {
				if tc.want[i] != result[i] {
					t.Fatalf("result[%d] = %q, want %q", i, result[i], tc.want[i])
				}
			}
		})
	}
}

func TestMatchesSubject(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		pattern  string
		subject  string
		expected bool
	}{
		{"exact match", "events.jobs.scheduled", "events.jobs.scheduled", true},
		{"single wildcard", "events.*.scheduled", "events.jobs.scheduled", true},
		{"greater wildcard", "events.>", "events.jobs.scheduled", true},
		{"greater needs a token", "events.jobs.scheduled.>", "events.jobs.scheduled", false},
		{"no match length", "events.*", "events.jobs.scheduled", false},
		{"no match tokens", "logs.syslog.*", "events.jobs.scheduled", false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := matchesSubject(tc.pattern, tc.subject); got != tc.expected {
				t.Fatalf("matchesSubject(%q, %q) = %t, want %t", tc.pattern, tc.subject, got, tc.expected)
			}
		})
	}
}

func TestIsStreamMissingErr(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{"jetstream no stream response", jetstream.ErrNoStreamResponse, true},
		{"jetstream stream not found", jetstream.ErrStreamNotFound, true},
		{"nats no stream response", nats.ErrNoStreamResponse, true},
		{"nats stream not found", nats.ErrStreamNotFound, true},
		{"nats no responders", nats.ErrNoResponders, true},
		{"other error", errTestFixture, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := isStreamMissingErr(tc.err); got != tc.expected {
				t.Fatalf("isStreamMissingErr(%v) = %t, want %t", tc.err, got, tc.expected)
			}
		})
	}
}

func TestTLSConfigRequiresMTLS(t *testing.T) {
	t.Parallel()

	_, err := TLSConfig(nil)
	require.ErrorIs(t, err, ErrMTLSRequired)

	_, err = TLSConfig(&models.SecurityConfig{Mode: models.SecurityModeNone})
	require.ErrorIs(t, err, ErrMTLSRequired)
}

func TestTLSConfigRequiresAllFiles(t *testing.T) {
	t.Parallel()

	_, err := TLSConfig(&models.SecurityConfig{
		Mode: models.SecurityModeMTLS,
		TLS:  models.TLSConfig{CertFile: "client.pem", KeyFile: "client-key.pem"},
	})
	require.ErrorIs(t, err, ErrTLSFileMissing)
	assert.Contains(t, err.Error(), "ca_file")
}

func TestTLSConfigRejectsBadCABundle(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "root.pem"), []byte("not a certificate"), 0o600))

	sec := &models.SecurityConfig{
		Mode:    models.SecurityModeMTLS,
		CertDir: dir,
		TLS:     models.TLSConfig{CertFile: "client.pem", KeyFile: "client-key.pem", CAFile: "root.pem"},
	}

	_, err := TLSConfig(sec)
	require.ErrorIs(t, err, ErrCAParsingFailed)
	assert.Contains(t, err.Error(), filepath.Join(dir, "root.pem"))
	assert.Equal(t, "root.pem", sec.TLS.CAFile, "caller config is left untouched")
}

func TestConnectValidatesConfig(t *testing.T) {
	t.Parallel()

	_, err := Connect(context.Background(), nil, logger.NewTestLogger())
	require.Error(t, err)

	_, err = Connect(context.Background(), &models.NATSConfig{}, logger.NewTestLogger())
	require.Error(t, err)
}

func runJetStreamServer(t *testing.T) *server.Server {
	t.Helper()

	srv, err := server.NewServer(&server.Options{
		Host:      "127.0.0.1",
		Port:      -1,
		JetStream: true,
		StoreDir:  t.TempDir(),
		NoLog:     true,
		NoSigs:    true,
	})
	require.NoError(t, err)

	go srv.Start()

	if !srv.ReadyForConnections(10 * time.Second) {
		srv.Shutdown()
		t.Fatalf("embedded NATS server not ready for connections")
	}

	t.Cleanup(srv.Shutdown)

	return srv
}

func TestEventPublisherPublishesJobScheduled(t *testing.T) {
	srv := runJetStreamServer(t)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	nc, err := Connect(ctx, &models.NATSConfig{URL: srv.ClientURL()}, logger.NewTestLogger())
	require.NoError(t, err)
	t.Cleanup(nc.Close)

	events := &models.EventsConfig{Enabled: true, StreamName: "jobs_test", Subjects: []string{"events.audit.*"}}

	publisher, err := CreateEventPublisher(ctx, nc, &models.NATSConfig{URL: srv.ClientURL()}, events, logger.NewTestLogger())
	require.NoError(t, err)

	scheduledAt := time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC)
	require.NoError(t, publisher.PublishJobScheduled(ctx, &models.JobScheduledEvent{
		JobID:          "job-1",
		JobName:        "reboot",
		JobType:        models.JobTypeScheduleDeviceMethod,
		QueryName:      "*",
		QueryCondition: "*",
		MethodName:     "Reboot",
		StartTime:      scheduledAt,
		MaxExecution:   3600,
		ScheduledAt:    scheduledAt,
	}))

	js, err := jetstream.New(nc)
	require.NoError(t, err)

	stream, err := js.Stream(ctx, "jobs_test")
	require.NoError(t, err)

	info, err := stream.Info(ctx)
	require.NoError(t, err)
	assert.Contains(t, info.Config.Subjects, "events.audit.*")
	assert.Contains(t, info.Config.Subjects, models.JobScheduledSubject)

	msg, err := stream.GetLastMsgForSubject(ctx, models.JobScheduledSubject)
	require.NoError(t, err)

	var envelope struct {
		SpecVersion string                   `json:"specversion"`
		Type        string                   `json:"type"`
		Source      string                   `json:"source"`
		Data        models.JobScheduledEvent `json:"data"`
	}
	require.NoError(t, json.Unmarshal(msg.Data, &envelope))

	assert.Equal(t, "1.0", envelope.SpecVersion)
	assert.Equal(t, JobScheduledEventType, envelope.Type)
	assert.Equal(t, eventSource, envelope.Source)
	assert.Equal(t, "job-1", envelope.Data.JobID)
	assert.Equal(t, "Reboot", envelope.Data.MethodName)
}

func TestCreateEventPublisherAddsSubjectToExistingStream(t *testing.T) {
	srv := runJetStreamServer(t)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	nc, err := nats.Connect(srv.ClientURL())
	require.NoError(t, err)
	t.Cleanup(nc.Close)

	js, err := jetstream.New(nc)
	require.NoError(t, err)

	_, err = js.CreateStream(ctx, jetstream.StreamConfig{Name: "existing", Subjects: []string{"logs.>"}})
	require.NoError(t, err)

	_, err = CreateEventPublisher(ctx, nc, nil,
		&models.EventsConfig{Enabled: true, StreamName: "existing"}, logger.NewTestLogger())
	require.NoError(t, err)

	stream, err := js.Stream(ctx, "existing")
	require.NoError(t, err)

	info, err := stream.Info(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"logs.>", models.JobScheduledSubject}, info.Config.Subjects)
}

func TestPublishJobScheduledRejectsNil(t *testing.T) {
	t.Parallel()

	p := NewEventPublisher(nil, "events", nil)
	require.ErrorIs(t, p.PublishJobScheduled(context.Background(), nil), errNilEvent)
}
