// Harborview - Jellyfin Analytics Dashboard
// Copyright 2026 Harborview contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/harborview/harborview

package api

import (
	"net/http"
	"strconv"

	"github.com/goccy/go-json"

	"github.com/harborview/harborview/internal/logging"
)

// respondJSON sends a JSON response with proper headers
func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")

	data, err := json.Marshal(payload)
	if err != nil {
		logging.Error().Err(err).Msg("Failed to marshal JSON response")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		logging.Error().Err(err).Msg("Failed to write JSON response")
	}
}

// respondError sends the flat error shape `{"error": "..."}`
func respondError(w http.ResponseWriter, status int, message string, err error) {
	if err != nil {
		logging.Error().Err(err).Str("message", message).Msg("API Error")
	}
	respondJSON(w, status, map[string]string{"error": message})
}

// getIntParam reads an integer query parameter with a fallback default
func getIntParam(r *http.Request, name string, fallback int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}
