// Harborview - Jellyfin Analytics Dashboard
// Copyright 2026 Harborview contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/harborview/harborview

// Package api provides the REST boundary: chi routing, the dashboard
// and settings handlers, and static client serving.
package api

import (
	"time"

	"github.com/harborview/harborview/internal/analytics"
	"github.com/harborview/harborview/internal/config"
	"github.com/harborview/harborview/internal/settings"
	"github.com/harborview/harborview/internal/sync"
)

// Handler bundles the services the HTTP layer fronts.
type Handler struct {
	analytics *analytics.Service
	settings  settings.Store
	source    *sync.Source
	manager   *sync.Manager
	cfg       *config.Config
	startTime time.Time
}

// NewHandler wires the HTTP handlers to their services.
func NewHandler(
	analyticsService *analytics.Service,
	settingsStore settings.Store,
	source *sync.Source,
	manager *sync.Manager,
	cfg *config.Config,
) *Handler {
	return &Handler{
		analytics: analyticsService,
		settings:  settingsStore,
		source:    source,
		manager:   manager,
		cfg:       cfg,
		startTime: time.Now(),
	}
}
