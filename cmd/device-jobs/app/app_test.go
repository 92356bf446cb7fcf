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

package app

import (
	"testing"

	"github.com/carverauto/devicejobs/pkg/logger"
	"github.com/carverauto/devicejobs/pkg/models"
)

func TestNeedsNATS(t *testing.T) {
	tests := []struct {
		name string
		cfg  *models.ServiceConfig
		want bool
	}{
		{"nothing enabled", &models.ServiceConfig{}, false},
		{"disabled sections", &models.ServiceConfig{
			NameCache: &models.NameCacheConfig{},
			Events:    &models.EventsConfig{},
		}, false},
		{"name cache", &models.ServiceConfig{NameCache: &models.NameCacheConfig{Enabled: true}}, true},
		{"events", &models.ServiceConfig{Events: &models.EventsConfig{Enabled: true}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := needsNATS(tt.cfg); got != tt.want {
				t.Fatalf("needsNATS() = %t, want %t", got, tt.want)
			}
		})
	}
}

func TestServicesCloseRunsInReverse(t *testing.T) {
	var order []int

	svc := &services{closers: []func(){
		func() { order = append(order, 1) },
		func() { order = append(order, 2) },
	}}

	svc.close()

	if len(order) != 2 || order[0] != 2 || order[1] != 1 {
		t.Fatalf("close order = %v, want [2 1]", order)
	}
}

func TestOtelConfig(t *testing.T) {
	if otelConfig(nil) != nil {
		t.Fatal("expected nil OTel config without logging section")
	}

	cfg := &logger.Config{OTel: logger.OTelConfig{Enabled: true, Endpoint: "collector:4317"}}
	if got := otelConfig(cfg); got == nil || got.Endpoint != "collector:4317" {
		t.Fatalf("otelConfig() = %+v", got)
	}
}
