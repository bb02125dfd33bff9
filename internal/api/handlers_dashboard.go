// Harborview - Jellyfin Analytics Dashboard
// Copyright 2026 Harborview contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/harborview/harborview

package api

import (
	"net/http"
)

// DashboardOverview handles GET /api/dashboard/overview.
// Syncs from Jellyfin first, then returns the headline aggregates.
func (h *Handler) DashboardOverview(w http.ResponseWriter, r *http.Request) {
	overview, err := h.analytics.Overview(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch dashboard overview", err)
		return
	}
	respondJSON(w, http.StatusOK, overview)
}

// UserStats handles GET /api/users/stats.
func (h *Handler) UserStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.analytics.UserStats(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch user statistics", err)
		return
	}
	respondJSON(w, http.StatusOK, stats)
}

// ContentStats handles GET /api/content/stats.
func (h *Handler) ContentStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.analytics.ContentStats(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch content statistics", err)
		return
	}
	respondJSON(w, http.StatusOK, stats)
}

// ActivityTimeline handles GET /api/activities/timeline?days=N.
func (h *Handler) ActivityTimeline(w http.ResponseWriter, r *http.Request) {
	days := getIntParam(r, "days", 7)

	timeline, err := h.analytics.Timeline(r.Context(), days)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch activity timeline", err)
		return
	}
	respondJSON(w, http.StatusOK, timeline)
}

// ActiveSessions handles GET /api/sessions/active.
// Live data from the source adapter, not the persisted session table.
func (h *Handler) ActiveSessions(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.analytics.ActiveSessions(r.Context()))
}

// SyncNow handles POST /api/sync: one explicit pipeline pass.
func (h *Handler) SyncNow(w http.ResponseWriter, r *http.Request) {
	if err := h.manager.Sync(r.Context()); err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to sync data from Jellyfin", err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "Data sync completed successfully"})
}
