// Harborview - Jellyfin Analytics Dashboard
// Copyright 2026 Harborview contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/harborview/harborview

package sync

import (
	"context"
	"testing"

	"github.com/harborview/harborview/internal/database"
	"github.com/harborview/harborview/internal/models"
)

func newTestManager(t *testing.T) (*Manager, *database.DB) {
	t.Helper()
	db, err := database.NewInMemory()
	if err != nil {
		t.Fatalf("failed to open in-memory database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	source := NewSource(&stubProvider{}, "", "")
	return NewManager(db, source), db
}

func TestSyncFoldsMockData(t *testing.T) {
	m, db := newTestManager(t)
	ctx := context.Background()

	if err := m.Sync(ctx); err != nil {
		t.Fatalf("sync failed: %v", err)
	}

	userCount, err := db.CountUsers(ctx)
	if err != nil {
		t.Fatalf("count users failed: %v", err)
	}
	if userCount != 3 {
		t.Errorf("expected 3 users, got %d", userCount)
	}

	contentCount, err := db.CountContent(ctx)
	if err != nil {
		t.Fatalf("count content failed: %v", err)
	}
	if contentCount != 3 {
		t.Errorf("expected 3 content rows, got %d", contentCount)
	}

	active, err := db.ActiveSessions(ctx)
	if err != nil {
		t.Fatalf("active sessions failed: %v", err)
	}
	if len(active) != 2 {
		t.Errorf("expected 2 active sessions, got %d", len(active))
	}

	if m.LastSyncTime().IsZero() {
		t.Error("expected last sync time recorded")
	}
}

func TestSyncIsIdempotent(t *testing.T) {
	m, db := newTestManager(t)
	ctx := context.Background()

	if err := m.Sync(ctx); err != nil {
		t.Fatalf("first sync failed: %v", err)
	}
	if err := m.Sync(ctx); err != nil {
		t.Fatalf("second sync failed: %v", err)
	}

	// Activities carry stable external ids, so the second pass inserts
	// nothing and play counts stay put.
	u, err := db.GetUser(ctx, "user1")
	if err != nil {
		t.Fatalf("get user failed: %v", err)
	}
	if u.PlayCount != 1 {
		t.Errorf("expected play count 1 after repeated syncs, got %d", u.PlayCount)
	}

	count, err := db.CountActivities(ctx)
	if err != nil {
		t.Fatalf("count activities failed: %v", err)
	}
	if count != 2 {
		t.Errorf("expected 2 activities after repeated syncs, got %d", count)
	}

	contentCount, err := db.CountContent(ctx)
	if err != nil {
		t.Fatalf("count content failed: %v", err)
	}
	if contentCount != 3 {
		t.Errorf("expected 3 content rows after repeated syncs, got %d", contentCount)
	}
}

func TestSyncConvertsRuntimeTicks(t *testing.T) {
	m, db := newTestManager(t)
	ctx := context.Background()

	if err := m.Sync(ctx); err != nil {
		t.Fatalf("sync failed: %v", err)
	}

	// The Matrix: 81840000000 ticks / 10000000 = 8184 seconds.
	c, err := db.GetContentStats(ctx, "movie1")
	if err != nil {
		t.Fatalf("get content stats failed: %v", err)
	}
	if c.TotalRuntime != 8184 {
		t.Errorf("expected 8184 seconds, got %d", c.TotalRuntime)
	}
	if c.PlayCount != 15 {
		t.Errorf("expected play count 15, got %d", c.PlayCount)
	}
}

func TestSyncIncrementsPlayCountOncePerActivity(t *testing.T) {
	m, db := newTestManager(t)
	ctx := context.Background()

	if err := m.Sync(ctx); err != nil {
		t.Fatalf("sync failed: %v", err)
	}

	// Mock fixtures: one play each for user1 and user2, none for user3.
	for _, tt := range []struct {
		userID string
		want   int
	}{
		{"user1", 1},
		{"user2", 1},
		{"user3", 0},
	} {
		u, err := db.GetUser(ctx, tt.userID)
		if err != nil {
			t.Fatalf("get user %s failed: %v", tt.userID, err)
		}
		if u.PlayCount != tt.want {
			t.Errorf("user %s: expected play count %d, got %d", tt.userID, tt.want, u.PlayCount)
		}
	}
}

func TestSyncSessionTwoPhase(t *testing.T) {
	m, db := newTestManager(t)
	ctx := context.Background()

	if err := m.Sync(ctx); err != nil {
		t.Fatalf("sync failed: %v", err)
	}

	// A session no longer reported by the source stays deactivated
	// after the next pass.
	stale := active0(t, db)
	stale.ID = "stale-session"
	if err := db.UpsertActiveSession(ctx, stale); err != nil {
		t.Fatalf("seed stale session failed: %v", err)
	}

	if err := m.Sync(ctx); err != nil {
		t.Fatalf("second sync failed: %v", err)
	}

	got, err := db.GetSession(ctx, "stale-session")
	if err != nil {
		t.Fatalf("get session failed: %v", err)
	}
	if got.IsActive {
		t.Error("expected stale session deactivated")
	}
	if got.EndTime == nil {
		t.Error("expected stale session end time set")
	}

	// The fixture sessions are still reported and so still active.
	active, err := db.ActiveSessions(ctx)
	if err != nil {
		t.Fatalf("active sessions failed: %v", err)
	}
	if len(active) != 2 {
		t.Errorf("expected 2 active sessions, got %d", len(active))
	}
}

func active0(t *testing.T, db *database.DB) *models.Session {
	t.Helper()
	active, err := db.ActiveSessions(context.Background())
	if err != nil {
		t.Fatalf("active sessions failed: %v", err)
	}
	if len(active) == 0 {
		t.Fatal("expected at least one active session")
	}
	s := active[0]
	return &s
}
