// Harborview - Jellyfin Analytics Dashboard
// Copyright 2026 Harborview contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/harborview/harborview

package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/harborview/harborview/internal/models"
)

// UpsertContentStats records library-reported statistics for one item.
// unique_users is set to 1 on first insert and never touched on update;
// the per-item audience is approximated, not tracked per user.
func (db *DB) UpsertContentStats(ctx context.Context, itemID, name, itemType string, playCount int, totalRuntime int64) error {
	now := time.Now()

	query := `INSERT INTO content_stats (item_id, name, type, play_count, total_runtime, unique_users, last_played, updated_at)
		VALUES (?, ?, ?, ?, ?, 1, ?, ?)
		ON CONFLICT (item_id) DO UPDATE SET
			name = excluded.name,
			type = excluded.type,
			play_count = excluded.play_count,
			total_runtime = excluded.total_runtime,
			last_played = excluded.last_played,
			updated_at = excluded.updated_at`

	if _, err := db.conn.ExecContext(ctx, query, itemID, name, itemType, playCount, totalRuntime, now, now); err != nil {
		return fmt.Errorf("failed to upsert content stats for %s: %w", itemID, err)
	}

	return nil
}

// CountContent returns the number of distinct library items on record.
func (db *DB) CountContent(ctx context.Context) (int, error) {
	var count int
	if err := db.conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM content_stats`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count content: %w", err)
	}
	return count, nil
}

// TopContent returns up to limit items ordered by play count descending.
func (db *DB) TopContent(ctx context.Context, limit int) ([]models.ContentStats, error) {
	query := `SELECT item_id, name, type, play_count, total_runtime, unique_users, last_played, updated_at
		FROM content_stats ORDER BY play_count DESC LIMIT ?`

	rows, err := db.conn.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query top content: %w", err)
	}
	defer closeQuietly(rows)

	items := make([]models.ContentStats, 0, limit)
	for rows.Next() {
		var c models.ContentStats
		var lastPlayed sql.NullTime
		if err := rows.Scan(&c.ItemID, &c.Name, &c.Type, &c.PlayCount, &c.TotalRuntime, &c.UniqueUsers, &lastPlayed, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan content row: %w", err)
		}
		if lastPlayed.Valid {
			t := lastPlayed.Time
			c.LastPlayed = &t
		}
		items = append(items, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate content rows: %w", err)
	}

	return items, nil
}

// GetContentStats returns one item's stats by id.
func (db *DB) GetContentStats(ctx context.Context, itemID string) (*models.ContentStats, error) {
	query := `SELECT item_id, name, type, play_count, total_runtime, unique_users, last_played, updated_at
		FROM content_stats WHERE item_id = ?`

	var c models.ContentStats
	var lastPlayed sql.NullTime
	err := db.conn.QueryRowContext(ctx, query, itemID).
		Scan(&c.ItemID, &c.Name, &c.Type, &c.PlayCount, &c.TotalRuntime, &c.UniqueUsers, &lastPlayed, &c.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to get content stats for %s: %w", itemID, err)
	}
	if lastPlayed.Valid {
		t := lastPlayed.Time
		c.LastPlayed = &t
	}

	return &c, nil
}
