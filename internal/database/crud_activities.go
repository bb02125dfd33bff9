// Harborview - Jellyfin Analytics Dashboard
// Copyright 2026 Harborview contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/harborview/harborview

package database

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/harborview/harborview/internal/logging"
	"github.com/harborview/harborview/internal/models"
)

// InsertActivity stores one upstream activity-log entry keyed by its
// external id. The insert is conditional: a duplicate external id leaves
// the table untouched and reports inserted=false, so callers can decide
// whether the entry counts toward per-user statistics. The check and the
// insert are a single statement, which keeps concurrent syncs from
// double-counting the same entry.
func (db *DB) InsertActivity(ctx context.Context, a *models.Activity) (bool, error) {
	query := `INSERT INTO activities (id, external_id, user_id, item_id, item_name, item_type, activity_type, timestamp, data)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (external_id) DO NOTHING`

	result, err := db.conn.ExecContext(ctx, query,
		a.ID.String(), a.ExternalID, a.UserID, a.ItemID, a.ItemName, a.ItemType, a.Kind, a.Timestamp, a.Data)
	if err != nil {
		return false, fmt.Errorf("failed to insert activity %s: %w", a.ExternalID, err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read rows affected for activity %s: %w", a.ExternalID, err)
	}

	if rows == 0 {
		logging.Debug().Str("external_id", a.ExternalID).Msg("Duplicate activity skipped")
		return false, nil
	}

	return true, nil
}

// ActivitiesSince returns activities with timestamp >= cutoff, oldest first.
func (db *DB) ActivitiesSince(ctx context.Context, cutoff time.Time) ([]models.Activity, error) {
	query := `SELECT id, external_id, user_id, item_id, item_name, item_type, activity_type, timestamp, data
		FROM activities WHERE timestamp >= ? ORDER BY timestamp ASC`

	rows, err := db.conn.QueryContext(ctx, query, cutoff)
	if err != nil {
		return nil, fmt.Errorf("failed to query activities: %w", err)
	}
	defer closeQuietly(rows)

	var activities []models.Activity
	for rows.Next() {
		var a models.Activity
		var id string
		if err := rows.Scan(&id, &a.ExternalID, &a.UserID, &a.ItemID, &a.ItemName, &a.ItemType, &a.Kind, &a.Timestamp, &a.Data); err != nil {
			return nil, fmt.Errorf("failed to scan activity row: %w", err)
		}
		if parsed, perr := uuid.Parse(id); perr == nil {
			a.ID = parsed
		}
		activities = append(activities, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate activity rows: %w", err)
	}

	return activities, nil
}

// CountActivities returns the total stored activity count.
func (db *DB) CountActivities(ctx context.Context) (int, error) {
	var count int
	if err := db.conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM activities`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count activities: %w", err)
	}
	return count, nil
}
