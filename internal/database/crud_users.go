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

// UpsertUser inserts a user on first observation, or refreshes name and
// last-activity on subsequent syncs. Play count and runtime are never
// written here; they are owned by the activity fold.
func (db *DB) UpsertUser(ctx context.Context, id, name string, lastActivity *time.Time) error {
	now := time.Now()

	query := `INSERT INTO users (id, name, play_count, total_runtime, last_activity, created_at, updated_at)
		VALUES (?, ?, 0, 0, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			name = excluded.name,
			last_activity = excluded.last_activity,
			updated_at = excluded.updated_at`

	if _, err := db.conn.ExecContext(ctx, query, id, name, lastActivity, now, now); err != nil {
		return fmt.Errorf("failed to upsert user %s: %w", id, err)
	}

	return nil
}

// IncrementUserPlayCount adds exactly 1 to the user's play count.
func (db *DB) IncrementUserPlayCount(ctx context.Context, userID string) error {
	query := `UPDATE users SET play_count = play_count + 1, updated_at = ? WHERE id = ?`

	if _, err := db.conn.ExecContext(ctx, query, time.Now(), userID); err != nil {
		return fmt.Errorf("failed to increment play count for user %s: %w", userID, err)
	}

	return nil
}

// CountUsers returns the total number of persisted users.
func (db *DB) CountUsers(ctx context.Context) (int, error) {
	var count int
	if err := db.conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}
	return count, nil
}

// TopUsers returns up to limit users ordered by play count descending.
// Ties fall back to storage order; there is no secondary sort key.
func (db *DB) TopUsers(ctx context.Context, limit int) ([]models.User, error) {
	query := `SELECT id, name, play_count, total_runtime, last_activity, created_at, updated_at
		FROM users ORDER BY play_count DESC LIMIT ?`

	rows, err := db.conn.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query top users: %w", err)
	}
	defer closeQuietly(rows)

	users := make([]models.User, 0, limit)
	for rows.Next() {
		var u models.User
		var lastActivity sql.NullTime
		if err := rows.Scan(&u.ID, &u.Name, &u.PlayCount, &u.TotalRuntime, &lastActivity, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan user row: %w", err)
		}
		if lastActivity.Valid {
			t := lastActivity.Time
			u.LastActivity = &t
		}
		users = append(users, u)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate user rows: %w", err)
	}

	return users, nil
}

// GetUser returns one user by id, or sql.ErrNoRows wrapped when absent.
func (db *DB) GetUser(ctx context.Context, id string) (*models.User, error) {
	query := `SELECT id, name, play_count, total_runtime, last_activity, created_at, updated_at
		FROM users WHERE id = ?`

	var u models.User
	var lastActivity sql.NullTime
	err := db.conn.QueryRowContext(ctx, query, id).
		Scan(&u.ID, &u.Name, &u.PlayCount, &u.TotalRuntime, &lastActivity, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to get user %s: %w", id, err)
	}
	if lastActivity.Valid {
		t := lastActivity.Time
		u.LastActivity = &t
	}

	return &u, nil
}

// TotalUserRuntime returns the sum of all users' runtime in seconds.
func (db *DB) TotalUserRuntime(ctx context.Context) (int64, error) {
	var total sql.NullInt64
	if err := db.conn.QueryRowContext(ctx, `SELECT SUM(total_runtime) FROM users`).Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to sum user runtime: %w", err)
	}
	return total.Int64, nil
}
