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
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/carverauto/devicejobs/pkg/logger"
)

// Duration is a time.Duration that unmarshals from "30s" strings or
// nanosecond numbers.
type Duration time.Duration

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	switch value := v.(type) {
	case float64:
		*d = Duration(time.Duration(value))
		return nil
	case string:
		dur, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("invalid duration: %w", err)
		}

		*d = Duration(dur)

		return nil
	default:
		return errInvalidDuration
	}
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

const defaultNameCacheBucket = "device_names"

var (
	errInvalidDuration          = errors.New("invalid duration")
	errListenAddrRequired       = errors.New("listen address is required")
	errCNPGRequired             = errors.New("cnpg configuration is required")
	errCNPGHostRequired         = errors.New("cnpg.host is required")
	errCNPGDatabaseRequired     = errors.New("cnpg.database is required")
	errIoTHubRequired           = errors.New("iothub configuration is required")
	errIoTHubConnStrRequired    = errors.New("iothub.connection_string is required")
	errNATSRequiredForNameCache = errors.New("nats configuration is required when name_cache is enabled")
	errNATSRequiredForEvents    = errors.New("nats configuration is required when events are enabled")
)

// ServiceConfig is the configuration document for the device-jobs service.
type ServiceConfig struct {
	ListenAddr      string           `json:"listen_addr"`
	ShutdownTimeout Duration         `json:"shutdown_timeout"`
	RequestTimeout  Duration         `json:"request_timeout"`
	Logging         *logger.Config   `json:"logging"`
	CNPG            *CNPGDatabase    `json:"cnpg"`
	NATS            *NATSConfig      `json:"nats"`
	NameCache       *NameCacheConfig `json:"name_cache"`
	Events          *EventsConfig    `json:"events"`
	IoTHub          *IoTHubConfig    `json:"iothub"`
	Auth            *AuthConfig      `json:"auth"`
	CORS            CORSConfig       `json:"cors"`
}

// CNPGDatabase describes the Postgres cluster holding job records and
// device queries.
type CNPGDatabase struct {
	Host               string            `json:"host"`
	Port               int               `json:"port"`
	Database           string            `json:"database"`
	Username           string            `json:"username"`
	Password           string            `json:"password" sensitive:"true"`
	ApplicationName    string            `json:"application_name"`
	SSLMode            string            `json:"ssl_mode"`
	CertDir            string            `json:"cert_dir"`
	TLS                *TLSConfig        `json:"tls,omitempty"`
	MaxConnections     int32             `json:"max_connections"`
	MinConnections     int32             `json:"min_connections"`
	MaxConnLifetime    Duration          `json:"max_conn_lifetime"`
	HealthCheckPeriod  Duration          `json:"health_check_period"`
	StatementTimeout   Duration          `json:"statement_timeout"`
	ExtraRuntimeParams map[string]string `json:"extra_runtime_params,omitempty"`
}

// NameCacheConfig configures the JetStream KV bucket of known twin names.
type NameCacheConfig struct {
	Enabled bool   `json:"enabled"`
	Bucket  string `json:"bucket"`
}

// IoTHubConfig configures the device-management backend client.
type IoTHubConfig struct {
	ConnectionString      string   `json:"connection_string" sensitive:"true"`
	APIVersion            string   `json:"api_version"`
	SASTokenTTL           Duration `json:"sas_token_ttl"`
	MethodResponseTimeout Duration `json:"method_response_timeout"`
	RequestTimeout        Duration `json:"request_timeout"`
	MaxRetries            int32    `json:"max_retries"`
}

// CORSConfig lists the origins allowed to call the API from a browser.
type CORSConfig struct {
	AllowedOrigins   []string `json:"allowed_origins"`
	AllowCredentials bool     `json:"allow_credentials"`
}

// Validate checks required settings and fills defaults in place.
func (c *ServiceConfig) Validate() error {
	if strings.TrimSpace(c.ListenAddr) == "" {
		return errListenAddrRequired
	}

	if c.CNPG == nil {
		return errCNPGRequired
	}

	if c.CNPG.Host == "" {
		return errCNPGHostRequired
	}

	if c.CNPG.Database == "" {
		return errCNPGDatabaseRequired
	}

	if c.IoTHub == nil {
		return errIoTHubRequired
	}

	if strings.TrimSpace(c.IoTHub.ConnectionString) == "" {
		return errIoTHubConnStrRequired
	}

	if c.Events != nil {
		if err := c.Events.Validate(); err != nil {
			return err
		}
	}

	if c.NameCache != nil && c.NameCache.Enabled {
		if c.NATS == nil {
			return errNATSRequiredForNameCache
		}

		if err := c.NATS.Validate(); err != nil {
			return err
		}

		if c.NameCache.Bucket == "" {
			c.NameCache.Bucket = defaultNameCacheBucket
		}
	}

	if c.Events != nil && c.Events.Enabled {
		if c.NATS == nil {
			return errNATSRequiredForEvents
		}

		if err := c.NATS.Validate(); err != nil {
			return err
		}
	}

	if c.Auth != nil && len(c.Auth.RBAC.RolePermissions) == 0 {
		c.Auth.RBAC = DefaultRBACConfig()
	}

	if c.ShutdownTimeout == 0 {
		c.ShutdownTimeout = Duration(15 * time.Second)
	}

	if c.RequestTimeout <= 0 {
		c.RequestTimeout = Duration(30 * time.Second)
	}

	return nil
}
