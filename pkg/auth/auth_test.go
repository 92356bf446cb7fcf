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
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carverauto/devicejobs/pkg/logger"
	"github.com/carverauto/devicejobs/pkg/models"
)

const testSecret = "test-secret"

func TestGenerateAndParseJWT(t *testing.T) {
	user := &models.User{ID: "u-1", Email: "ops@example.com", Roles: []string{"operator"}}

	token, err := GenerateJWT(user, testSecret, "devicejobs", time.Hour)
	require.NoError(t, err)

	claims, err := ParseJWT(token, testSecret, "devicejobs")
	require.NoError(t, err)
	assert.Equal(t, "u-1", claims.Subject)
	assert.Equal(t, "ops@example.com", claims.Email)
	assert.Equal(t, []string{"operator"}, claims.Roles)

	_, err = ParseJWT(token, "other-secret", "")
	require.ErrorIs(t, err, ErrInvalidToken)

	_, err = ParseJWT(token, testSecret, "someone-else")
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseJWTRejectsExpiredAndUnsigned(t *testing.T) {
	expired, err := GenerateJWT(&models.User{ID: "u-1"}, testSecret, "", -time.Minute)
	require.NoError(t, err)

	_, err = ParseJWT(expired, testSecret, "")
	require.ErrorIs(t, err, ErrInvalidToken)

	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{
		Subject:   "u-1",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = ParseJWT(unsigned, testSecret, "")
	require.ErrorIs(t, err, ErrInvalidToken)

	noSubject, err := GenerateJWT(&models.User{}, testSecret, "", time.Hour)
	require.NoError(t, err)

	_, err = ParseJWT(noSubject, testSecret, "")
	require.ErrorIs(t, err, ErrInvalidToken)

	_, err = GenerateJWT(&models.User{ID: "u-1"}, "", "", time.Hour)
	require.Error(t, err)
}

func TestUserFromClaimsDefaultRoles(t *testing.T) {
	user := UserFromClaims(&Claims{RegisteredClaims: jwt.RegisteredClaims{Subject: "u-2"}}, []string{"viewer"})

	assert.Equal(t, "u-2", user.ID)
	assert.Equal(t, []string{"viewer"}, user.Roles)
	assert.True(t, user.ExpiresAt.IsZero())
}

func TestHasPermission(t *testing.T) {
	rbac := models.DefaultRBACConfig()

	tests := []struct {
		name       string
		roles      []string
		permission string
		want       bool
	}{
		{"admin wildcard", []string{"admin"}, models.PermissionManageJobs, true},
		{"operator category", []string{"operator"}, models.PermissionManageJobs, true},
		{"operator other category", []string{"operator"}, "queries:manage", false},
		{"viewer exact", []string{"viewer"}, models.PermissionViewJobs, true},
		{"viewer denied manage", []string{"viewer"}, models.PermissionManageJobs, false},
		{"unknown role", []string{"guest"}, models.PermissionViewJobs, false},
		{"any role suffices", []string{"guest", "viewer"}, models.PermissionViewJobs, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user := &models.User{ID: "u", Roles: tt.roles}
			assert.Equal(t, tt.want, HasPermission(user, tt.permission, &rbac))
		})
	}

	assert.False(t, HasPermission(nil, models.PermissionViewJobs, &rbac))
	assert.False(t, HasPermission(&models.User{Roles: []string{"admin"}}, models.PermissionViewJobs, nil))
}

func serveWithAuth(t *testing.T, cfg *models.AuthConfig, permission string, req *http.Request) (*httptest.ResponseRecorder, *models.User) {
	t.Helper()

	var seen *models.User

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = GetUserFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	})

	rbac := models.DefaultRBACConfig()
	if cfg != nil && len(cfg.RBAC.RolePermissions) > 0 {
		rbac = cfg.RBAC
	}

	chain := AuthMiddleware(cfg, logger.NewTestLogger())(PermissionMiddleware(permission, &rbac)(handler))

	rec := httptest.NewRecorder()
	chain.ServeHTTP(rec, req)

	return rec, seen
}

func TestAuthMiddlewareDisabledIsAnonymousAdmin(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/jobs/twin-update", http.NoBody)

	rec, user := serveWithAuth(t, nil, models.PermissionManageJobs, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	require.NotNil(t, user)
	assert.Equal(t, []string{AdminRole}, user.Roles)
}

func TestAuthMiddleware(t *testing.T) {
	cfg := &models.AuthConfig{JWTSecret: testSecret, APIKey: "key-123", RBAC: models.DefaultRBACConfig()}

	viewerToken, err := GenerateJWT(&models.User{ID: "v", Roles: []string{"viewer"}}, testSecret, "", time.Hour)
	require.NoError(t, err)

	operatorToken, err := GenerateJWT(&models.User{ID: "o", Roles: []string{"operator"}}, testSecret, "", time.Hour)
	require.NoError(t, err)

	noRoleToken, err := GenerateJWT(&models.User{ID: "n"}, testSecret, "", time.Hour)
	require.NoError(t, err)

	tests := []struct {
		name       string
		header     string
		value      string
		permission string
		wantStatus int
		wantUser   string
	}{
		{"missing credentials", "", "", models.PermissionViewJobs, http.StatusUnauthorized, ""},
		{"bad token", "Authorization", "Bearer nope", models.PermissionViewJobs, http.StatusUnauthorized, ""},
		{"wrong api key", APIKeyHeader, "key-999", models.PermissionViewJobs, http.StatusUnauthorized, ""},
		{"api key is admin", APIKeyHeader, "key-123", models.PermissionManageJobs, http.StatusNoContent, "api-key"},
		{"viewer can view", "Authorization", "Bearer " + viewerToken, models.PermissionViewJobs, http.StatusNoContent, "v"},
		{"viewer cannot manage", "Authorization", "Bearer " + viewerToken, models.PermissionManageJobs, http.StatusForbidden, ""},
		{"operator can manage", "Authorization", "Bearer " + operatorToken, models.PermissionManageJobs, http.StatusNoContent, "o"},
		{"default role applies", "Authorization", "Bearer " + noRoleToken, models.PermissionViewJobs, http.StatusNoContent, "n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/jobs/j", http.NoBody)
			if tt.header != "" {
				req.Header.Set(tt.header, tt.value)
			}

			rec, user := serveWithAuth(t, cfg, tt.permission, req)

			assert.Equal(t, tt.wantStatus, rec.Code)

			if tt.wantUser == "" {
				assert.Nil(t, user)
				return
			}

			require.NotNil(t, user)
			assert.Equal(t, tt.wantUser, user.ID)
		})
	}
}

func TestPermissionMiddlewareWithoutUser(t *testing.T) {
	rbac := models.DefaultRBACConfig()
	handler := PermissionMiddleware(models.PermissionViewJobs, &rbac)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		t.Fatal("handler must not run")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", http.NoBody))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"message":"unauthorized","status":401}`, rec.Body.String())
}
