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
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/carverauto/devicejobs/pkg/config"
	"github.com/carverauto/devicejobs/pkg/models"
)

var (
	// ErrMTLSRequired is returned when the NATS security block is not mTLS.
	ErrMTLSRequired = errors.New("mtls security required")
	// ErrTLSFileMissing is returned when a cert, key or CA path is blank.
	ErrTLSFileMissing = errors.New("tls file path missing")
	// ErrCAParsingFailed is returned when the CA bundle holds no PEM certificate.
	ErrCAParsingFailed = errors.New("failed to parse CA certificate")
)

// TLSConfig builds the client side of an mTLS NATS connection. Relative paths
// are resolved against sec.CertDir without mutating sec.
func TLSConfig(sec *models.SecurityConfig) (*tls.Config, error) {
	if sec == nil || sec.Mode != models.SecurityModeMTLS {
		return nil, ErrMTLSRequired
	}

	paths := sec.TLS
	config.NormalizeTLSPaths(&paths, sec.CertDir)

	for name, path := range map[string]string{
		"cert_file": paths.CertFile,
		"key_file":  paths.KeyFile,
		"ca_file":   paths.CAFile,
	} {
		if strings.TrimSpace(path) == "" {
			return nil, fmt.Errorf("%w: nats.security.tls.%s", ErrTLSFileMissing, name)
		}
	}

	caPEM, err := os.ReadFile(paths.CAFile)
	if err != nil {
		return nil, fmt.Errorf("read NATS CA bundle %s: %w", paths.CAFile, err)
	}

	roots := x509.NewCertPool()
	if !roots.AppendCertsFromPEM(caPEM) {
		return nil, fmt.Errorf("%w: %s", ErrCAParsingFailed, paths.CAFile)
	}

	cert, err := tls.LoadX509KeyPair(paths.CertFile, paths.KeyFile)
	if err != nil {
		return nil, fmt.Errorf("load NATS client certificate %s: %w", paths.CertFile, err)
	}

	return &tls.Config{
		Certificates: []tls.Certificate{cert},
		RootCAs:      roots,
		ServerName:   sec.ServerName,
		MinVersion:   tls.VersionTLS13,
	}, nil
}
