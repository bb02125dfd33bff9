// Harborview - Jellyfin Analytics Dashboard
// Copyright 2026 Harborview contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/harborview/harborview

package database

import "fmt"

// createTables creates the aggregate tables and indexes. All statements
// are idempotent so startup is safe against existing databases.
func (db *DB) createTables() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id VARCHAR PRIMARY KEY,
			name VARCHAR NOT NULL,
			play_count INTEGER NOT NULL DEFAULT 0,
			total_runtime BIGINT NOT NULL DEFAULT 0,
			last_activity TIMESTAMP,
			created_at TIMESTAMP NOT NULL,
			updated_at TIMESTAMP NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS content_stats (
			item_id VARCHAR PRIMARY KEY,
			name VARCHAR NOT NULL,
			type VARCHAR NOT NULL,
			play_count INTEGER NOT NULL DEFAULT 0,
			total_runtime BIGINT NOT NULL DEFAULT 0,
			unique_users INTEGER NOT NULL DEFAULT 1,
			last_played TIMESTAMP,
			updated_at TIMESTAMP NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS activities (
			id VARCHAR PRIMARY KEY,
			external_id VARCHAR NOT NULL UNIQUE,
			user_id VARCHAR NOT NULL,
			item_id VARCHAR,
			item_name VARCHAR NOT NULL,
			item_type VARCHAR NOT NULL,
			activity_type VARCHAR NOT NULL,
			timestamp TIMESTAMP NOT NULL,
			data VARCHAR
		)`,
		`CREATE TABLE IF NOT EXISTS sessions (
			id VARCHAR PRIMARY KEY,
			user_id VARCHAR NOT NULL,
			item_id VARCHAR NOT NULL,
			item_name VARCHAR NOT NULL,
			item_type VARCHAR NOT NULL,
			device_name VARCHAR,
			client_name VARCHAR,
			play_method VARCHAR,
			start_time TIMESTAMP NOT NULL,
			end_time TIMESTAMP,
			position_ticks BIGINT NOT NULL DEFAULT 0,
			runtime_ticks BIGINT NOT NULL DEFAULT 0,
			is_active BOOLEAN NOT NULL DEFAULT false,
			updated_at TIMESTAMP NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS settings (
			key VARCHAR PRIMARY KEY,
			value VARCHAR,
			description VARCHAR,
			category VARCHAR NOT NULL,
			is_encrypted BOOLEAN NOT NULL DEFAULT false,
			updated_at TIMESTAMP NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_users_play_count ON users (play_count)`,
		`CREATE INDEX IF NOT EXISTS idx_content_play_count ON content_stats (play_count)`,
		`CREATE INDEX IF NOT EXISTS idx_activities_timestamp ON activities (timestamp)`,
		`CREATE INDEX IF NOT EXISTS idx_sessions_active ON sessions (is_active)`,
	}

	for _, stmt := range statements {
		if _, err := db.conn.Exec(stmt); err != nil {
			return fmt.Errorf("failed to execute schema statement: %w", err)
		}
	}

	return nil
}
