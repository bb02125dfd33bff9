// Harborview - Jellyfin Analytics Dashboard
// Copyright 2026 Harborview contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/harborview/harborview

package models

import "time"

// DashboardOverview is the response shape for GET /api/dashboard/overview.
type DashboardOverview struct {
	TotalUsers     int          `json:"totalUsers"`
	TotalContent   int          `json:"totalContent"`
	ActiveSessions int          `json:"activeSessions"`
	TotalWatchTime int64        `json:"totalWatchTime"` // hours
	TopUsers       []TopUser    `json:"topUsers"`
	TopContent     []TopContent `json:"topContent"`
}

// TopUser is one entry of the overview's top-users list.
type TopUser struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	PlayCount    int    `json:"playCount"`
	TotalRuntime int64  `json:"totalRuntime"`
}

// TopContent is one entry of the overview's top-content list.
type TopContent struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Type      string `json:"type"`
	PlayCount int    `json:"playCount"`
}

// UserStatsResponse is the response shape for GET /api/users/stats.
type UserStatsResponse struct {
	MostActiveUsers []User `json:"mostActiveUsers"`
}

// ContentStatsResponse is the response shape for GET /api/content/stats.
type ContentStatsResponse struct {
	MostWatchedContent []ContentStats `json:"mostWatchedContent"`
}

// TimelinePoint is one calendar-day bucket of GET /api/activities/timeline.
type TimelinePoint struct {
	Date         string `json:"date"` // YYYY-MM-DD
	Count        int    `json:"count"`
	TotalRuntime int64  `json:"totalRuntime"`
}

// HealthResponse is the response shape for GET /health.
type HealthResponse struct {
	Status      string    `json:"status"`
	Timestamp   time.Time `json:"timestamp"`
	Uptime      float64   `json:"uptime"` // seconds
	Environment string    `json:"environment"`
}

// SettingView is the masked, read-side view of one setting.
type SettingView struct {
	Key         string  `json:"key"`
	Value       *string `json:"value"`
	Description string  `json:"description"`
	Type        string  `json:"type"`
	Required    bool    `json:"required"`
	IsEncrypted bool    `json:"isEncrypted"`
}

// SettingsCategory groups settings of one category for GET /api/settings.
type SettingsCategory struct {
	Category string        `json:"category"`
	Settings []SettingView `json:"settings"`
}

// SettingsValidation is the response shape for POST /api/settings/validate.
type SettingsValidation struct {
	IsValid bool     `json:"isValid"`
	Errors  []string `json:"errors"`
}

// ConnectionTestResult is the response shape for POST /api/settings/test-jellyfin.
type ConnectionTestResult struct {
	Success   bool   `json:"success"`
	Connected bool   `json:"connected"`
	Message   string `json:"message"`
	UserCount int    `json:"userCount,omitempty"`
}
