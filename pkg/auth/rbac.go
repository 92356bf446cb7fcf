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
	"strings"

	"github.com/gorilla/mux"

	"github.com/carverauto/devicejobs/pkg/models"
)

// HasPermission checks if a user has a specific permission
func HasPermission(user *models.User, permission string, config *models.RBACConfig) bool {
	if user == nil || config == nil || config.RolePermissions == nil {
		return false
	}

	for _, role := range user.Roles {
		for _, perm := range config.RolePermissions[role] {
			if permissionMatches(perm, permission) {
				return true
			}
		}
	}

	return false
}

// permissionMatches accepts "*", an exact match, or a category wildcard
// such as "jobs:*" for "jobs:view".
func permissionMatches(granted, requested string) bool {
	if granted == "*" || granted == requested {
		return true
	}

	if category, ok := strings.CutSuffix(granted, ":*"); ok {
		return strings.HasPrefix(requested, category+":")
	}

	return false
}

// PermissionMiddleware creates middleware that checks for specific permissions
func PermissionMiddleware(permission string, config *models.RBACConfig) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := GetUserFromContext(r.Context())
			if !ok {
				writeError(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			if !HasPermission(user, permission, config) {
				writeError(w, "insufficient permissions", http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
