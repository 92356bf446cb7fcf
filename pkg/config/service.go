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

package config

import (
	"context"
	"os"
	"strings"

	"github.com/carverauto/devicejobs/pkg/logger"
	"github.com/carverauto/devicejobs/pkg/models"
)

// Secret environment variables. They take precedence over the loaded document
// so credentials never need to live in the config file.
const (
	EnvIoTHubConnectionString = "IOTHUB_CONNECTION_STRING"
	EnvJWTSecret              = "JWT_SECRET"
	EnvAPIKey                 = "API_KEY"
	EnvCNPGPassword           = "CNPG_PASSWORD"
)

// LoadServiceConfig loads the service document, overlays secrets from the
// environment and validates the result.
func LoadServiceConfig(ctx context.Context, path string, log logger.Logger) (*models.ServiceConfig, error) {
	cfg := &models.ServiceConfig{}

	if err := NewConfig(log).Load(ctx, path, cfg); err != nil {
		return nil, err
	}

	ApplySecretOverlays(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// ApplySecretOverlays copies non-empty secret variables into cfg, allocating
// the owning sections when needed.
func ApplySecretOverlays(cfg *models.ServiceConfig) {
	if v := secretEnv(EnvIoTHubConnectionString); v != "" {
		if cfg.IoTHub == nil {
			cfg.IoTHub = &models.IoTHubConfig{}
		}

		cfg.IoTHub.ConnectionString = v
	}

	if v := secretEnv(EnvCNPGPassword); v != "" && cfg.CNPG != nil {
		cfg.CNPG.Password = v
	}

	jwtSecret := secretEnv(EnvJWTSecret)
	apiKey := secretEnv(EnvAPIKey)

	if jwtSecret == "" && apiKey == "" {
		return
	}

	if cfg.Auth == nil {
		cfg.Auth = &models.AuthConfig{}
	}

	if jwtSecret != "" {
		cfg.Auth.JWTSecret = jwtSecret
	}

	if apiKey != "" {
		cfg.Auth.APIKey = apiKey
	}
}

func secretEnv(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}
