// Harborview - Jellyfin Analytics Dashboard
// Copyright 2026 Harborview contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/harborview/harborview

// Package models contains the Jellyfin API wire types and Harborview's
// persisted aggregate and API response types.
//
// Jellyfin types mirror the upstream JSON shapes (PascalCase fields).
// API Reference: https://api.jellyfin.org/
package models

// JellyfinUser represents a Jellyfin user account.
type JellyfinUser struct {
	ID               string `json:"Id"`
	Name             string `json:"Name"`
	LastActivityDate string `json:"LastActivityDate,omitempty"` // ISO timestamp
}

// JellyfinSession represents an active session reported by /Sessions.
type JellyfinSession struct {
	ID                 string `json:"Id"`
	UserID             string `json:"UserId"`
	UserName           string `json:"UserName"`
	Client             string `json:"Client"`
	DeviceID           string `json:"DeviceId,omitempty"`
	DeviceName         string `json:"DeviceName"`
	ApplicationVersion string `json:"ApplicationVersion,omitempty"`
	RemoteEndPoint     string `json:"RemoteEndPoint,omitempty"`
	LastActivityDate   string `json:"LastActivityDate,omitempty"`

	PlayState      *JellyfinPlayState      `json:"PlayState,omitempty"`
	NowPlayingItem *JellyfinNowPlayingItem `json:"NowPlayingItem,omitempty"`
}

// JellyfinPlayState represents playback state details within a session.
type JellyfinPlayState struct {
	PositionTicks int64  `json:"PositionTicks,omitempty"`
	CanSeek       bool   `json:"CanSeek"`
	IsPaused      bool   `json:"IsPaused"`
	PlayMethod    string `json:"PlayMethod,omitempty"` // "DirectPlay", "DirectStream", "Transcode"
}

// JellyfinNowPlayingItem represents the content a session is playing.
type JellyfinNowPlayingItem struct {
	ID           string `json:"Id"`
	Name         string `json:"Name"`
	Type         string `json:"Type"` // "Movie", "Episode", "Audio"
	RunTimeTicks int64  `json:"RunTimeTicks,omitempty"`
}

// JellyfinActivity represents one activity log entry from
// /System/ActivityLog/Entries.
type JellyfinActivity struct {
	ID       string `json:"Id"`
	Name     string `json:"Name"`
	Overview string `json:"Overview,omitempty"`
	Type     string `json:"Type"` // "VideoPlayback", "AuthenticationSucceeded", ...
	ItemID   string `json:"ItemId,omitempty"`
	Date     string `json:"Date"` // ISO timestamp
	UserID   string `json:"UserId"`
	UserName string `json:"UserName,omitempty"`
	Severity string `json:"Severity,omitempty"`
}

// JellyfinActivityLogResponse is the paged envelope around activity entries.
type JellyfinActivityLogResponse struct {
	Items            []JellyfinActivity `json:"Items"`
	TotalRecordCount int                `json:"TotalRecordCount"`
}

// JellyfinLibraryItem represents a playable library item from /Items.
type JellyfinLibraryItem struct {
	ID           string `json:"Id"`
	Name         string `json:"Name"`
	Type         string `json:"Type"` // "Movie", "Episode", "Audio"
	PlayCount    int    `json:"PlayCount,omitempty"`
	RunTimeTicks int64  `json:"RunTimeTicks,omitempty"`
}

// JellyfinItemsResponse is the paged envelope around library items.
type JellyfinItemsResponse struct {
	Items            []JellyfinLibraryItem `json:"Items"`
	TotalRecordCount int                   `json:"TotalRecordCount"`
}

// TicksPerSecond is the Jellyfin runtime tick unit: one tick is 100ns,
// so 10,000,000 ticks make one second.
const TicksPerSecond int64 = 10_000_000

// TicksToSeconds converts Jellyfin runtime ticks to whole seconds
// (truncating integer division).
func TicksToSeconds(ticks int64) int64 {
	return ticks / TicksPerSecond
}
