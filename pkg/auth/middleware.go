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

package auth

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/carverauto/devicejobs/pkg/logger"
	"github.com/carverauto/devicejobs/pkg/models"
)

const (
	// APIKeyHeader carries a shared API key as an alternative to bearer tokens.
	APIKeyHeader = "X-API-Key"
	// AdminRole is granted to API-key callers and to everyone when
	// authentication is disabled.
	AdminRole = "admin"
)

type contextKey struct{}

var userKey = contextKey{}

// WithUser returns a copy of ctx carrying user.
func WithUser(ctx context.Context, user *models.User) context.Context {
	return context.WithValue(ctx, userKey, user)
}

// GetUserFromContext returns the authenticated caller, if any.
func GetUserFromContext(ctx context.Context) (*models.User, bool) {
	user, ok := ctx.Value(userKey).(*models.User)

	return user, ok && user != nil
}

// AuthMiddleware authenticates each request with a bearer token or the API
// key. With neither configured every caller is an anonymous admin.
func AuthMiddleware(cfg *models.AuthConfig, log logger.Logger) mux.MiddlewareFunc {
	if log == nil {
		log = logger.NewTestLogger()
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !cfg.Enabled() {
				next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), anonymousAdmin())))
				return
			}

			if user, ok := authenticateBearer(r, cfg, log); ok {
				next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
				return
			}

			if authenticateAPIKey(r, cfg.APIKey) {
				next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), apiKeyUser())))
				return
			}

			log.Debug().
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Msg("Rejected unauthenticated request")

			writeError(w, "unauthorized", http.StatusUnauthorized)
		})
	}
}

func authenticateBearer(r *http.Request, cfg *models.AuthConfig, log logger.Logger) (*models.User, bool) {
	if cfg.JWTSecret == "" {
		return nil, false
	}

	token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
	if !ok || strings.TrimSpace(token) == "" {
		return nil, false
	}

	claims, err := ParseJWT(strings.TrimSpace(token), cfg.JWTSecret, cfg.JWTIssuer)
	if err != nil {
		log.Debug().Err(err).Msg("Bearer token rejected")
		return nil, false
	}

	return UserFromClaims(claims, cfg.RBAC.DefaultRoles), true
}

func authenticateAPIKey(r *http.Request, apiKey string) bool {
	if apiKey == "" {
		return false
	}

	presented := r.Header.Get(APIKeyHeader)

	return presented != "" && subtle.ConstantTimeCompare([]byte(presented), []byte(apiKey)) == 1
}

func anonymousAdmin() *models.User {
	return &models.User{ID: "anonymous", Name: "anonymous", Provider: "none", Roles: []string{AdminRole}}
}

func apiKeyUser() *models.User {
	return &models.User{ID: "api-key", Name: "api-key", Provider: "api_key", Roles: []string{AdminRole}}
}

func writeError(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	_ = json.NewEncoder(w).Encode(models.ErrorResponse{Message: message, Status: statusCode})
}
