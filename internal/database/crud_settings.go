// Harborview - Jellyfin Analytics Dashboard
// Copyright 2026 Harborview contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/harborview/harborview

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// SettingRow is the persisted form of one configuration value. Encrypted
// values are stored already ciphered; the flag records which ones are.
type SettingRow struct {
	Key         string
	Value       string
	Description string
	Category    string
	IsEncrypted bool
	UpdatedAt   time.Time
}

// ErrSettingNotFound reports a key with no stored row.
var ErrSettingNotFound = errors.New("setting not found")

// GetSettingRow returns the stored row for key, or ErrSettingNotFound.
func (db *DB) GetSettingRow(ctx context.Context, key string) (*SettingRow, error) {
	query := `SELECT key, value, description, category, is_encrypted, updated_at FROM settings WHERE key = ?`

	var row SettingRow
	err := db.conn.QueryRowContext(ctx, query, key).
		Scan(&row.Key, &row.Value, &row.Description, &row.Category, &row.IsEncrypted, &row.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSettingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get setting %s: %w", key, err)
	}

	return &row, nil
}

// UpsertSettingRow writes or replaces the stored row for row.Key.
func (db *DB) UpsertSettingRow(ctx context.Context, row *SettingRow) error {
	query := `INSERT INTO settings (key, value, description, category, is_encrypted, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (key) DO UPDATE SET
			value = excluded.value,
			description = excluded.description,
			category = excluded.category,
			is_encrypted = excluded.is_encrypted,
			updated_at = excluded.updated_at`

	if _, err := db.conn.ExecContext(ctx, query,
		row.Key, row.Value, row.Description, row.Category, row.IsEncrypted, time.Now()); err != nil {
		return fmt.Errorf("failed to upsert setting %s: %w", row.Key, err)
	}

	return nil
}
