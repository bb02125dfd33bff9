// Harborview - Jellyfin Analytics Dashboard
// Copyright 2026 Harborview contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/harborview/harborview

package sync

import (
	"time"

	"github.com/harborview/harborview/internal/models"
)

// MockIDPrefix marks mock user ids. The connection test uses it to tell
// real upstream data from these fixtures.
const MockIDPrefix = "user"

// Mock fixtures returned by the adapter when Jellyfin is unconfigured
// or unreachable. The dashboard always has something to show; the
// fixtures are deterministic except for the timestamps, which are
// anchored to now so the timeline stays populated.

func mockUsers() []models.JellyfinUser {
	now := time.Now()
	return []models.JellyfinUser{
		{ID: "user1", Name: "John Doe", LastActivityDate: now.Add(-1 * time.Hour).Format(time.RFC3339)},
		{ID: "user2", Name: "Jane Smith", LastActivityDate: now.Add(-2 * time.Hour).Format(time.RFC3339)},
		{ID: "user3", Name: "Bob Wilson", LastActivityDate: now.Add(-24 * time.Hour).Format(time.RFC3339)},
	}
}

func mockSessions() []models.JellyfinSession {
	return []models.JellyfinSession{
		{
			ID:         "session1",
			UserID:     "user1",
			UserName:   "John Doe",
			DeviceName: "Chrome Browser",
			Client:     "Jellyfin Web",
			PlayState: &models.JellyfinPlayState{
				PositionTicks: 18000000000,
				CanSeek:       true,
				IsPaused:      false,
			},
			NowPlayingItem: &models.JellyfinNowPlayingItem{
				ID:           "movie1",
				Name:         "The Matrix",
				Type:         "Movie",
				RunTimeTicks: 81840000000,
			},
		},
		{
			ID:         "session2",
			UserID:     "user2",
			UserName:   "Jane Smith",
			DeviceName: "Android Phone",
			Client:     "Jellyfin Mobile",
			PlayState: &models.JellyfinPlayState{
				PositionTicks: 12000000000,
				CanSeek:       true,
				IsPaused:      true,
			},
			NowPlayingItem: &models.JellyfinNowPlayingItem{
				ID:           "episode1",
				Name:         "Breaking Bad S01E01",
				Type:         "Episode",
				RunTimeTicks: 28800000000,
			},
		},
	}
}

func mockActivities() []models.JellyfinActivity {
	now := time.Now()
	return []models.JellyfinActivity{
		{
			ID:       "activity1",
			Name:     "John Doe played The Matrix",
			Type:     "VideoPlayback",
			ItemID:   "movie1",
			Date:     now.Add(-1 * time.Hour).Format(time.RFC3339),
			UserID:   "user1",
			UserName: "John Doe",
			Severity: "Info",
		},
		{
			ID:       "activity2",
			Name:     "Jane Smith played Breaking Bad S01E01",
			Type:     "VideoPlayback",
			ItemID:   "episode1",
			Date:     now.Add(-2 * time.Hour).Format(time.RFC3339),
			UserID:   "user2",
			UserName: "Jane Smith",
			Severity: "Info",
		},
	}
}

func mockLibraryItems() []models.JellyfinLibraryItem {
	return []models.JellyfinLibraryItem{
		{ID: "movie1", Name: "The Matrix", Type: "Movie", PlayCount: 15, RunTimeTicks: 81840000000},
		{ID: "movie2", Name: "Inception", Type: "Movie", PlayCount: 12, RunTimeTicks: 88800000000},
		{ID: "episode1", Name: "Breaking Bad S01E01", Type: "Episode", PlayCount: 8, RunTimeTicks: 28800000000},
	}
}
