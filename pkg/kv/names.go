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

// Package kv keeps the registry of known twin and method names in a NATS
// JetStream key-value bucket.
package kv

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/nats-io/nats.go/jetstream"

	"github.com/carverauto/devicejobs/pkg/logger"
	"github.com/carverauto/devicejobs/pkg/models"
)

// NameCache remembers every tag, property and method name used in a job so
// the UI can offer them for autocomplete.
type NameCache struct {
	kv     jetstream.KeyValue
	logger logger.Logger
	now    func() time.Time
}

// NewNameCache creates bucket if needed and binds to it.
func NewNameCache(ctx context.Context, js jetstream.JetStream, bucket string, log logger.Logger) (*NameCache, error) {
	if strings.TrimSpace(bucket) == "" {
		return nil, errBucketRequired
	}

	kv, err := js.CreateOrUpdateKeyValue(ctx, jetstream.KeyValueConfig{
		Bucket:      bucket,
		Description: "device-jobs known twin and method names",
		History:     1,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create KV bucket %s: %w", bucket, err)
	}

	if log == nil {
		log = logger.NewTestLogger()
	}

	return &NameCache{kv: kv, logger: log, now: time.Now}, nil
}

// AddName records name under the type derived from its prefix. Adding a
// known name again only refreshes its timestamp.
func (c *NameCache) AddName(ctx context.Context, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrEmptyName
	}

	nameType, ok := models.NameTypeOf(name)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownNameType, name)
	}

	value, err := json.Marshal(models.NameEntry{
		Name:      name,
		Type:      nameType,
		UpdatedAt: c.now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("failed to encode name %q: %w", name, err)
	}

	if _, err := c.kv.Put(ctx, nameKey(nameType, name), value); err != nil {
		return fmt.Errorf("%w: failed to put name %q: %w", models.ErrUnavailable, name, err)
	}

	c.logger.Debug().Str("name", name).Str("type", string(nameType)).Msg("Name registered")

	return nil
}

// ListNames returns the sorted names of one type.
func (c *NameCache) ListNames(ctx context.Context, nameType models.NameType) ([]string, error) {
	lister, err := c.kv.ListKeysFiltered(ctx, string(nameType)+".>")
	if errors.Is(err, jetstream.ErrNoKeysFound) {
		return []string{}, nil
	}

	if err != nil {
		return nil, fmt.Errorf("%w: failed to list %s names: %w", models.ErrUnavailable, nameType, err)
	}

	defer func() { _ = lister.Stop() }()

	names := make([]string, 0)

	for key := range lister.Keys() {
		name, err := nameFromKey(key)
		if err != nil {
			c.logger.Warn().Err(err).Str("key", key).Msg("Skipping undecodable name key")
			continue
		}

		names = append(names, name)
	}

	slices.Sort(names)

	return names, nil
}

// nameKey encodes names so dots and spaces never collide with KV token rules.
func nameKey(nameType models.NameType, name string) string {
	return string(nameType) + "." + base64.RawURLEncoding.EncodeToString([]byte(name))
}

func nameFromKey(key string) (string, error) {
	_, encoded, ok := strings.Cut(key, ".")
	if !ok {
		return "", fmt.Errorf("%w: %q", errMalformedKey, key)
	}

	raw, err := base64.RawURLEncoding.DecodeString(encoded)
	if err != nil {
		return "", err
	}

	return string(raw), nil
}
