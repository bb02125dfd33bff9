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

// DeactivateActiveSessions marks every currently active session as ended
// at the given time. Sessions still present upstream are reactivated by
// the upsert that follows within the same sync pass.
func (db *DB) DeactivateActiveSessions(ctx context.Context, end time.Time) error {
	query := `UPDATE sessions SET is_active = false, end_time = ?, updated_at = ? WHERE is_active = true`

	if _, err := db.conn.ExecContext(ctx, query, end, time.Now()); err != nil {
		return fmt.Errorf("failed to deactivate sessions: %w", err)
	}

	return nil
}

// UpsertActiveSession inserts or refreshes a session observed upstream.
// An existing row keeps its original start_time; end_time is cleared so
// a session wiped by the deactivation sweep comes back alive.
func (db *DB) UpsertActiveSession(ctx context.Context, s *models.Session) error {
	now := time.Now()

	query := `INSERT INTO sessions (id, user_id, item_id, item_name, item_type, device_name, client_name, play_method,
			start_time, end_time, position_ticks, runtime_ticks, is_active, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, NULL, ?, ?, true, ?)
		ON CONFLICT (id) DO UPDATE SET
			user_id = excluded.user_id,
			item_id = excluded.item_id,
			item_name = excluded.item_name,
			item_type = excluded.item_type,
			device_name = excluded.device_name,
			client_name = excluded.client_name,
			play_method = excluded.play_method,
			end_time = NULL,
			position_ticks = excluded.position_ticks,
			runtime_ticks = excluded.runtime_ticks,
			is_active = true,
			updated_at = excluded.updated_at`

	_, err := db.conn.ExecContext(ctx, query,
		s.ID, s.UserID, s.ItemID, s.ItemName, s.ItemType, s.DeviceName, s.ClientName, s.PlayMethod,
		s.StartTime, s.PositionTicks, s.RuntimeTicks, now)
	if err != nil {
		return fmt.Errorf("failed to upsert session %s: %w", s.ID, err)
	}

	return nil
}

// ActiveSessions returns all sessions currently flagged active, most
// recently started first.
func (db *DB) ActiveSessions(ctx context.Context) ([]models.Session, error) {
	query := `SELECT id, user_id, item_id, item_name, item_type, device_name, client_name, play_method,
			start_time, end_time, position_ticks, runtime_ticks, is_active, updated_at
		FROM sessions WHERE is_active = true ORDER BY start_time DESC`

	rows, err := db.conn.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query active sessions: %w", err)
	}
	defer closeQuietly(rows)

	sessions := make([]models.Session, 0)
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, *s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate session rows: %w", err)
	}

	return sessions, nil
}

// GetSession returns one session by id regardless of activity state.
func (db *DB) GetSession(ctx context.Context, id string) (*models.Session, error) {
	query := `SELECT id, user_id, item_id, item_name, item_type, device_name, client_name, play_method,
			start_time, end_time, position_ticks, runtime_ticks, is_active, updated_at
		FROM sessions WHERE id = ?`

	row := db.conn.QueryRowContext(ctx, query, id)
	s, err := scanSession(row)
	if err != nil {
		return nil, fmt.Errorf("failed to get session %s: %w", id, err)
	}

	return s, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSession(row rowScanner) (*models.Session, error) {
	var s models.Session
	var endTime sql.NullTime
	err := row.Scan(&s.ID, &s.UserID, &s.ItemID, &s.ItemName, &s.ItemType, &s.DeviceName, &s.ClientName, &s.PlayMethod,
		&s.StartTime, &endTime, &s.PositionTicks, &s.RuntimeTicks, &s.IsActive, &s.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to scan session row: %w", err)
	}
	if endTime.Valid {
		t := endTime.Time
		s.EndTime = &t
	}
	return &s, nil
}
