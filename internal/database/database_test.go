// Harborview - Jellyfin Analytics Dashboard
// Copyright 2026 Harborview contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/harborview/harborview

package database

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/harborview/harborview/internal/models"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := NewInMemory()
	if err != nil {
		t.Fatalf("failed to open in-memory database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func checkNoError(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestUpsertUserPreservesCounters(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	checkNoError(t, db.UpsertUser(ctx, "u1", "Alice", nil))
	checkNoError(t, db.IncrementUserPlayCount(ctx, "u1"))
	checkNoError(t, db.IncrementUserPlayCount(ctx, "u1"))

	seen := time.Now().UTC().Truncate(time.Second)
	checkNoError(t, db.UpsertUser(ctx, "u1", "Alice Renamed", &seen))

	u, err := db.GetUser(ctx, "u1")
	checkNoError(t, err)

	if u.Name != "Alice Renamed" {
		t.Errorf("expected updated name, got %q", u.Name)
	}
	if u.PlayCount != 2 {
		t.Errorf("expected play count preserved at 2, got %d", u.PlayCount)
	}
	if u.LastActivity == nil {
		t.Error("expected last activity to be set")
	}
}

func TestTopUsersOrdering(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	checkNoError(t, db.UpsertUser(ctx, "a", "A", nil))
	checkNoError(t, db.UpsertUser(ctx, "b", "B", nil))
	checkNoError(t, db.UpsertUser(ctx, "c", "C", nil))
	for i := 0; i < 3; i++ {
		checkNoError(t, db.IncrementUserPlayCount(ctx, "b"))
	}
	checkNoError(t, db.IncrementUserPlayCount(ctx, "c"))

	users, err := db.TopUsers(ctx, 2)
	checkNoError(t, err)

	if len(users) != 2 {
		t.Fatalf("expected 2 users, got %d", len(users))
	}
	if users[0].ID != "b" || users[1].ID != "c" {
		t.Errorf("unexpected ordering: %s, %s", users[0].ID, users[1].ID)
	}
}

func TestUpsertContentStatsUniqueUsersSetOnce(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	checkNoError(t, db.UpsertContentStats(ctx, "item1", "The Matrix", "Movie", 5, 8184))
	checkNoError(t, db.UpsertContentStats(ctx, "item1", "The Matrix", "Movie", 7, 8184))

	c, err := db.GetContentStats(ctx, "item1")
	checkNoError(t, err)

	if c.PlayCount != 7 {
		t.Errorf("expected refreshed play count 7, got %d", c.PlayCount)
	}
	if c.UniqueUsers != 1 {
		t.Errorf("expected unique users to stay 1, got %d", c.UniqueUsers)
	}

	count, err := db.CountContent(ctx)
	checkNoError(t, err)
	if count != 1 {
		t.Errorf("expected a single row after re-upsert, got %d", count)
	}
}

func TestInsertActivityDeduplicates(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	a := &models.Activity{
		ID:         uuid.New(),
		ExternalID: "jellyfin-1001",
		UserID:     "u1",
		ItemID:     "item1",
		ItemName:   "The Matrix",
		ItemType:   "Movie",
		Kind:       "VideoPlayback",
		Timestamp:  time.Now().UTC(),
		Data:       `{"deviceName":"Living Room TV"}`,
	}

	inserted, err := db.InsertActivity(ctx, a)
	checkNoError(t, err)
	if !inserted {
		t.Fatal("expected first insert to report inserted")
	}

	dup := *a
	dup.ID = uuid.New()
	inserted, err = db.InsertActivity(ctx, &dup)
	checkNoError(t, err)
	if inserted {
		t.Error("expected duplicate external id to be skipped")
	}

	count, err := db.CountActivities(ctx)
	checkNoError(t, err)
	if count != 1 {
		t.Errorf("expected 1 stored activity, got %d", count)
	}
}

func TestActivitiesSinceCutoff(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	now := time.Now().UTC()

	for _, age := range []time.Duration{48 * time.Hour, 12 * time.Hour, time.Hour} {
		a := &models.Activity{
			ID:         uuid.New(),
			ExternalID: uuid.NewString(),
			UserID:     "u1",
			Kind:       "VideoPlayback",
			Timestamp:  now.Add(-age),
			Data:       "{}",
		}
		inserted, err := db.InsertActivity(ctx, a)
		checkNoError(t, err)
		if !inserted {
			t.Fatal("expected insert")
		}
	}

	recent, err := db.ActivitiesSince(ctx, now.Add(-24*time.Hour))
	checkNoError(t, err)

	if len(recent) != 2 {
		t.Fatalf("expected 2 recent activities, got %d", len(recent))
	}
	if !recent[0].Timestamp.Before(recent[1].Timestamp) {
		t.Error("expected ascending timestamp order")
	}
}

func TestSessionDeactivateThenReactivate(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	start := time.Now().UTC().Add(-10 * time.Minute).Truncate(time.Second)

	s := &models.Session{
		ID:            "sess1",
		UserID:        "u1",
		ItemID:        "item1",
		ItemName:      "The Matrix",
		ItemType:      "Movie",
		DeviceName:    "Living Room TV",
		ClientName:    "Jellyfin Web",
		PlayMethod:    "DirectPlay",
		StartTime:     start,
		PositionTicks: 1200000000,
		RuntimeTicks:  81840000000,
	}
	checkNoError(t, db.UpsertActiveSession(ctx, s))

	// Sweep: everything goes inactive with an end time.
	checkNoError(t, db.DeactivateActiveSessions(ctx, time.Now().UTC()))

	active, err := db.ActiveSessions(ctx)
	checkNoError(t, err)
	if len(active) != 0 {
		t.Fatalf("expected no active sessions after sweep, got %d", len(active))
	}

	// The same session seen again gets revived with its position advanced.
	s.PositionTicks = 2400000000
	checkNoError(t, db.UpsertActiveSession(ctx, s))

	got, err := db.GetSession(ctx, "sess1")
	checkNoError(t, err)

	if !got.IsActive {
		t.Error("expected session to be active again")
	}
	if got.EndTime != nil {
		t.Error("expected end time cleared on reactivation")
	}
	if got.PositionTicks != 2400000000 {
		t.Errorf("expected refreshed position, got %d", got.PositionTicks)
	}
}

func TestSessionExpiryKeepsEndedRow(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	s := &models.Session{ID: "gone", UserID: "u1", StartTime: time.Now().UTC()}
	checkNoError(t, db.UpsertActiveSession(ctx, s))
	end := time.Now().UTC()
	checkNoError(t, db.DeactivateActiveSessions(ctx, end))

	got, err := db.GetSession(ctx, "gone")
	checkNoError(t, err)
	if got.IsActive {
		t.Error("expected session inactive")
	}
	if got.EndTime == nil {
		t.Error("expected end time recorded")
	}
}

func TestSettingRowRoundTrip(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	_, err := db.GetSettingRow(ctx, "jellyfin.url")
	if !errors.Is(err, ErrSettingNotFound) {
		t.Fatalf("expected ErrSettingNotFound, got %v", err)
	}

	row := &SettingRow{
		Key:         "jellyfin.url",
		Value:       "http://jellyfin.local:8096",
		Description: "Jellyfin server URL",
		Category:    "jellyfin",
	}
	checkNoError(t, db.UpsertSettingRow(ctx, row))

	row.Value = "http://media.example.org"
	checkNoError(t, db.UpsertSettingRow(ctx, row))

	got, err := db.GetSettingRow(ctx, "jellyfin.url")
	checkNoError(t, err)
	if got.Value != "http://media.example.org" {
		t.Errorf("expected replaced value, got %q", got.Value)
	}
	if got.IsEncrypted {
		t.Error("expected plaintext flag")
	}
}
