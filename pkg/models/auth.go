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

import "time"

// Permissions checked on the job routes.
const (
	PermissionViewJobs   = "jobs:view"
	PermissionManageJobs = "jobs:manage"
)

// User is the authenticated caller attached to a request context.
type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Provider  string    `json:"provider"`
	Roles     []string  `json:"roles"`
	ExpiresAt time.Time `json:"expires_at,omitempty"`
}

// AuthConfig configures bearer-token and API-key authentication.
type AuthConfig struct {
	JWTSecret string     `json:"jwt_secret" sensitive:"true"`
	JWTIssuer string     `json:"jwt_issuer,omitempty"`
	APIKey    string     `json:"api_key,omitempty" sensitive:"true"`
	RBAC      RBACConfig `json:"rbac"`
}

// Enabled reports whether any authentication method is configured.
func (c *AuthConfig) Enabled() bool {
	return c != nil && (c.JWTSecret != "" || c.APIKey != "")
}

// RBACConfig maps roles to permissions. A permission of "*" grants
// everything and "jobs:*" grants every permission in the jobs category.
type RBACConfig struct {
	RolePermissions map[string][]string `json:"role_permissions"`
	DefaultRoles    []string            `json:"default_roles,omitempty"`
}

// DefaultRBACConfig returns the built-in role table.
func DefaultRBACConfig() RBACConfig {
	return RBACConfig{
		RolePermissions: map[string][]string{
			"admin":    {"*"},
			"operator": {"jobs:*"},
			"viewer":   {PermissionViewJobs},
		},
		DefaultRoles: []string{"viewer"},
	}
}
