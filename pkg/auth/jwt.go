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

// Package auth authenticates API callers and checks their permissions.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/carverauto/devicejobs/pkg/models"
)

var (
	ErrInvalidToken    = errors.New("invalid token")
	errSecretRequired  = errors.New("jwt secret is required")
	errSubjectRequired = errors.New("token subject is required")
)

// Claims are the JWT claims accepted on bearer tokens.
type Claims struct {
	Email string   `json:"email,omitempty"`
	Name  string   `json:"name,omitempty"`
	Roles []string `json:"roles,omitempty"`
	jwt.RegisteredClaims
}

// GenerateJWT signs an HS256 token for user valid for expiration.
func GenerateJWT(user *models.User, secret, issuer string, expiration time.Duration) (string, error) {
	if secret == "" {
		return "", errSecretRequired
	}

	now := time.Now()

	claims := Claims{
		Email: user.Email,
		Name:  user.Name,
		Roles: user.Roles,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			Issuer:    issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(expiration)),
		},
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

// ParseJWT verifies tokenString and returns its claims. Only HS256 is
// accepted, and the issuer is checked when one is configured.
func ParseJWT(tokenString, secret, issuer string) (*Claims, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	}

	if issuer != "" {
		opts = append(opts, jwt.WithIssuer(issuer))
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(*jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}, opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	if claims.Subject == "" {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, errSubjectRequired)
	}

	return claims, nil
}

// UserFromClaims builds the request user for verified claims. Callers
// without roles get defaultRoles.
func UserFromClaims(claims *Claims, defaultRoles []string) *models.User {
	roles := claims.Roles
	if len(roles) == 0 {
		roles = append([]string(nil), defaultRoles...)
	}

	user := &models.User{
		ID:       claims.Subject,
		Email:    claims.Email,
		Name:     claims.Name,
		Provider: "jwt",
		Roles:    roles,
	}

	if claims.ExpiresAt != nil {
		user.ExpiresAt = claims.ExpiresAt.Time
	}

	return user
}
