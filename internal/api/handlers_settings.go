// Harborview - Jellyfin Analytics Dashboard
// Copyright 2026 Harborview contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/harborview/harborview

package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"

	"github.com/harborview/harborview/internal/settings"
	"github.com/harborview/harborview/internal/sync"
)

// AllSettings handles GET /api/settings.
func (h *Handler) AllSettings(w http.ResponseWriter, r *http.Request) {
	categories, err := h.settings.All(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch settings", err)
		return
	}
	respondJSON(w, http.StatusOK, categories)
}

// SettingsByCategory handles GET /api/settings/{category}.
func (h *Handler) SettingsByCategory(w http.ResponseWriter, r *http.Request) {
	category := chi.URLParam(r, "category")

	views, err := h.settings.ByCategory(r.Context(), category)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch settings", err)
		return
	}
	respondJSON(w, http.StatusOK, views)
}

type updateSettingRequest struct {
	Value *string `json:"value"`
}

// UpdateSetting handles PUT /api/settings/{key}. A change to a
// jellyfin.* key reconfigures the source adapter immediately.
func (h *Handler) UpdateSetting(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")

	var req updateSettingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Value == nil {
		respondError(w, http.StatusBadRequest, "Setting value must be a string", err)
		return
	}

	if err := h.settings.Set(r.Context(), key, *req.Value); err != nil {
		if errors.Is(err, settings.ErrUnknownKey) || errors.Is(err, settings.ErrInvalidValue) {
			respondError(w, http.StatusBadRequest, err.Error(), nil)
			return
		}
		respondError(w, http.StatusBadRequest, "Failed to update setting", err)
		return
	}

	if strings.HasPrefix(key, "jellyfin.") {
		h.source.Reload(r.Context())
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "Setting updated successfully"})
}

// ValidateSettings handles POST /api/settings/validate.
func (h *Handler) ValidateSettings(w http.ResponseWriter, r *http.Request) {
	validation, err := h.settings.Validate(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to validate settings", err)
		return
	}
	respondJSON(w, http.StatusOK, validation)
}

type testJellyfinRequest struct {
	URL    string `json:"url"`
	APIKey string `json:"apiKey"`
}

// TestJellyfin handles POST /api/settings/test-jellyfin: probes the
// given credentials with one real call and reports honestly, without
// the bulk reads' mock fallback.
func (h *Handler) TestJellyfin(w http.ResponseWriter, r *http.Request) {
	var req testJellyfinRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "URL and API key are required", err)
		return
	}
	if req.URL == "" || req.APIKey == "" {
		respondError(w, http.StatusBadRequest, "URL and API key are required", nil)
		return
	}

	result := sync.TestConnection(r.Context(), req.URL, req.APIKey)
	status := http.StatusOK
	if !result.Success {
		status = http.StatusBadRequest
	}
	respondJSON(w, status, result)
}
