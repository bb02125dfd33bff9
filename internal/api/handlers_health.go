// Harborview - Jellyfin Analytics Dashboard
// Copyright 2026 Harborview contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/harborview/harborview

package api

import (
	"net/http"
	"time"

	"github.com/harborview/harborview/internal/models"
)

// Health handles GET /health.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, models.HealthResponse{
		Status:      "ok",
		Timestamp:   time.Now(),
		Uptime:      time.Since(h.startTime).Seconds(),
		Environment: h.cfg.Server.Environment,
	})
}
