// Harborview - Jellyfin Analytics Dashboard
// Copyright 2026 Harborview contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/harborview/harborview

package models

import (
	"time"

	"github.com/google/uuid"
)

// User is the persisted aggregate for one Jellyfin account.
//
// PlayCount is a monotonic counter incremented by the sync pipeline for
// every newly observed playback activity; it is never decremented.
type User struct {
	ID           string     `json:"id"` // Jellyfin user id
	Name         string     `json:"name"`
	PlayCount    int        `json:"playCount"`
	TotalRuntime int64      `json:"totalRuntime"` // seconds
	LastActivity *time.Time `json:"lastActivity"`
	CreatedAt    time.Time  `json:"-"`
	UpdatedAt    time.Time  `json:"-"`
}

// ContentStats is the persisted watch aggregate for one library item.
type ContentStats struct {
	ItemID       string     `json:"id"` // Jellyfin item id
	Name         string     `json:"name"`
	Type         string     `json:"type"` // "Movie", "Episode", "Audio"
	PlayCount    int        `json:"playCount"`
	TotalRuntime int64      `json:"totalRuntime"` // seconds
	UniqueUsers  int        `json:"uniqueUsers"`
	LastPlayed   *time.Time `json:"lastPlayed"`
	UpdatedAt    time.Time  `json:"-"`
}

// Activity is an immutable append-only playback event. ExternalID is the
// Jellyfin activity log id and is the deduplication boundary: a given
// external id is inserted at most once.
type Activity struct {
	ID         uuid.UUID `json:"-"`
	ExternalID string    `json:"id"`
	UserID     string    `json:"userId"`
	ItemID     string    `json:"itemId,omitempty"`
	ItemName   string    `json:"itemName"`
	ItemType   string    `json:"itemType"`
	Kind       string    `json:"activityType"` // "play", "pause", "stop"
	Timestamp  time.Time `json:"timestamp"`
	Data       string    `json:"data,omitempty"` // free-form JSON payload
}

// ActivityPayload is the auxiliary payload carried in Activity.Data.
// Fields are best-effort; missing or unparseable payloads contribute zero
// runtime to timeline sums.
type ActivityPayload struct {
	DeviceName string `json:"deviceName,omitempty"`
	ClientName string `json:"clientName,omitempty"`
	Runtime    int64  `json:"runtime,omitempty"` // seconds
}

// Session is the persisted record of a currently-or-recently active
// playback session. Rows are expired by the sync pipeline's two-phase
// deactivate-then-reactivate pass, not by an explicit end event.
type Session struct {
	ID            string     `json:"id"` // Jellyfin session id
	UserID        string     `json:"userId"`
	ItemID        string     `json:"itemId"`
	ItemName      string     `json:"itemName"`
	ItemType      string     `json:"itemType"`
	DeviceName    string     `json:"deviceName"`
	ClientName    string     `json:"clientName"`
	PlayMethod    string     `json:"playMethod"`
	StartTime     time.Time  `json:"startTime"`
	EndTime       *time.Time `json:"endTime"`
	PositionTicks int64      `json:"playbackPositionTicks"`
	RuntimeTicks  int64      `json:"runtimeTicks"`
	IsActive      bool       `json:"isActive"`
	UpdatedAt     time.Time  `json:"-"`
}
