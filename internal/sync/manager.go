// Harborview - Jellyfin Analytics Dashboard
// Copyright 2026 Harborview contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/harborview/harborview

/*
manager.go - Sync Pipeline

Reconciles the local aggregate store against the Jellyfin source. One
Sync pass fetches users, sessions, activities, and library items (the
adapter cannot fail; at worst it serves mock data), then folds each
slice into storage in a fixed order. There is no transaction across
folds: each row write is atomic on its own, and a storage error aborts
the remaining steps without rolling back completed ones. Every fold is
idempotent, so the next pass converges.
*/

package sync

import (
	"context"
	"fmt"
	stdsync "sync"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/harborview/harborview/internal/database"
	"github.com/harborview/harborview/internal/logging"
	"github.com/harborview/harborview/internal/metrics"
	"github.com/harborview/harborview/internal/models"
)

// Manager drives the sync pipeline.
type Manager struct {
	db     *database.DB
	source *Source

	mu       stdsync.Mutex
	lastSync time.Time
}

// NewManager builds a pipeline over db and source.
func NewManager(db *database.DB, source *Source) *Manager {
	return &Manager{db: db, source: source}
}

// LastSyncTime returns when the last successful Sync completed, zero
// before the first one.
func (m *Manager) LastSyncTime() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastSync
}

// Sync runs one full pipeline pass.
func (m *Manager) Sync(ctx context.Context) error {
	start := time.Now()

	// The four fetches are independent; run them concurrently. The
	// adapter swallows its own failures, so there is nothing to join
	// but the results.
	var (
		users      []models.JellyfinUser
		sessions   []models.JellyfinSession
		activities []models.JellyfinActivity
		items      []models.JellyfinLibraryItem
	)

	var wg stdsync.WaitGroup
	wg.Add(4)
	go func() { defer wg.Done(); users = m.source.Users(ctx) }()
	go func() { defer wg.Done(); sessions = m.source.Sessions(ctx) }()
	go func() { defer wg.Done(); activities = m.source.Activities(ctx) }()
	go func() { defer wg.Done(); items = m.source.LibraryItems(ctx) }()
	wg.Wait()

	if err := m.foldUsers(ctx, users); err != nil {
		metrics.SyncErrors.WithLabelValues("users").Inc()
		return fmt.Errorf("user sync failed: %w", err)
	}
	if err := m.foldSessions(ctx, sessions); err != nil {
		metrics.SyncErrors.WithLabelValues("sessions").Inc()
		return fmt.Errorf("session sync failed: %w", err)
	}
	if err := m.foldActivities(ctx, activities); err != nil {
		metrics.SyncErrors.WithLabelValues("activities").Inc()
		return fmt.Errorf("activity sync failed: %w", err)
	}
	if err := m.foldContentStats(ctx, items); err != nil {
		metrics.SyncErrors.WithLabelValues("content").Inc()
		return fmt.Errorf("content sync failed: %w", err)
	}

	m.mu.Lock()
	m.lastSync = time.Now()
	m.mu.Unlock()

	metrics.RecordSyncSuccess(time.Since(start))
	logging.Info().Dur("duration", time.Since(start)).
		Int("users", len(users)).Int("sessions", len(sessions)).
		Int("activities", len(activities)).Int("items", len(items)).
		Msg("Data sync from Jellyfin completed")

	return nil
}

// foldUsers upserts every source user. Counters belong to the activity
// fold and are never touched here.
func (m *Manager) foldUsers(ctx context.Context, users []models.JellyfinUser) error {
	for i := range users {
		u := &users[i]
		var lastActivity *time.Time
		if u.LastActivityDate != "" {
			if t, err := time.Parse(time.RFC3339, u.LastActivityDate); err == nil {
				lastActivity = &t
			}
		}
		if err := m.db.UpsertUser(ctx, u.ID, u.Name, lastActivity); err != nil {
			return err
		}
		metrics.SyncRecordsProcessed.WithLabelValues("users").Inc()
	}
	return nil
}

// foldSessions runs the two-phase session reconciliation: deactivate
// everything, then upsert (and thereby revive) the sessions the source
// still reports with playing content. Sessions absent upstream stay
// ended; idle sessions without a NowPlayingItem are ignored.
func (m *Manager) foldSessions(ctx context.Context, sessions []models.JellyfinSession) error {
	now := time.Now()

	if err := m.db.DeactivateActiveSessions(ctx, now); err != nil {
		return err
	}

	for i := range sessions {
		src := &sessions[i]
		if src.NowPlayingItem == nil {
			continue
		}

		session := &models.Session{
			ID:           src.ID,
			UserID:       src.UserID,
			ItemID:       src.NowPlayingItem.ID,
			ItemName:     src.NowPlayingItem.Name,
			ItemType:     src.NowPlayingItem.Type,
			DeviceName:   src.DeviceName,
			ClientName:   src.Client,
			PlayMethod:   "DirectPlay",
			StartTime:    now,
			RuntimeTicks: src.NowPlayingItem.RunTimeTicks,
			IsActive:     true,
		}
		if src.PlayState != nil {
			session.PositionTicks = src.PlayState.PositionTicks
			if src.PlayState.PlayMethod != "" {
				session.PlayMethod = src.PlayState.PlayMethod
			}
		}

		if err := m.db.UpsertActiveSession(ctx, session); err != nil {
			return err
		}
		metrics.SyncRecordsProcessed.WithLabelValues("sessions").Inc()
	}

	return nil
}

// foldActivities inserts video playback activities once per external
// id. A user's play count grows by exactly 1 per activity that was
// actually inserted; re-observed entries change nothing.
func (m *Manager) foldActivities(ctx context.Context, activities []models.JellyfinActivity) error {
	for i := range activities {
		src := &activities[i]
		if src.Type != "VideoPlayback" || src.UserID == "" {
			continue
		}

		timestamp := time.Now()
		if t, err := time.Parse(time.RFC3339, src.Date); err == nil {
			timestamp = t
		}

		payload, err := json.Marshal(models.ActivityPayload{
			DeviceName: "Unknown",
			ClientName: "Unknown",
		})
		if err != nil {
			return fmt.Errorf("failed to marshal activity payload: %w", err)
		}

		activity := &models.Activity{
			ID:         uuid.New(),
			ExternalID: src.ID,
			UserID:     src.UserID,
			ItemID:     src.ItemID,
			ItemName:   src.Name,
			ItemType:   "Video",
			Kind:       "play",
			Timestamp:  timestamp,
			Data:       string(payload),
		}

		inserted, err := m.db.InsertActivity(ctx, activity)
		if err != nil {
			return err
		}
		if !inserted {
			continue
		}

		if err := m.db.IncrementUserPlayCount(ctx, src.UserID); err != nil {
			return err
		}
		metrics.SyncRecordsProcessed.WithLabelValues("activities").Inc()
	}
	return nil
}

// foldContentStats upserts library items that have been played at
// least once, converting runtime ticks to seconds.
func (m *Manager) foldContentStats(ctx context.Context, items []models.JellyfinLibraryItem) error {
	for i := range items {
		item := &items[i]
		if item.PlayCount <= 0 {
			continue
		}

		runtime := models.TicksToSeconds(item.RunTimeTicks)
		if err := m.db.UpsertContentStats(ctx, item.ID, item.Name, item.Type, item.PlayCount, runtime); err != nil {
			return err
		}
		metrics.SyncRecordsProcessed.WithLabelValues("content").Inc()
	}
	return nil
}
