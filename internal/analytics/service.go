// Harborview - Jellyfin Analytics Dashboard
// Copyright 2026 Harborview contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/harborview/harborview

// Package analytics is the read-model query layer over the persisted
// aggregates. Reads are pull-on-read: the dashboard overview triggers a
// sync pass before querying, so a freshly started instance shows data
// on the first request.
package analytics

import (
	"context"
	"math"
	"time"

	"github.com/goccy/go-json"

	"github.com/harborview/harborview/internal/database"
	"github.com/harborview/harborview/internal/models"
	"github.com/harborview/harborview/internal/sync"
)

// Store is the slice of storage the query layer needs.
type Store interface {
	CountUsers(ctx context.Context) (int, error)
	CountContent(ctx context.Context) (int, error)
	TopUsers(ctx context.Context, limit int) ([]models.User, error)
	TopContent(ctx context.Context, limit int) ([]models.ContentStats, error)
	TotalUserRuntime(ctx context.Context) (int64, error)
	ActivitiesSince(ctx context.Context, cutoff time.Time) ([]models.Activity, error)
}

var _ Store = (*database.DB)(nil)

// Syncer runs one sync pipeline pass.
type Syncer interface {
	Sync(ctx context.Context) error
}

// Service answers the dashboard queries.
type Service struct {
	store  Store
	source *sync.Source
	syncer Syncer
}

// NewService builds the query layer over store, the live source, and
// the sync pipeline.
func NewService(store Store, source *sync.Source, syncer Syncer) *Service {
	return &Service{store: store, source: source, syncer: syncer}
}

// Overview syncs, then assembles the dashboard headline numbers.
func (s *Service) Overview(ctx context.Context) (*models.DashboardOverview, error) {
	if err := s.syncer.Sync(ctx); err != nil {
		return nil, err
	}

	totalUsers, err := s.store.CountUsers(ctx)
	if err != nil {
		return nil, err
	}
	totalContent, err := s.store.CountContent(ctx)
	if err != nil {
		return nil, err
	}
	topUsers, err := s.store.TopUsers(ctx, 5)
	if err != nil {
		return nil, err
	}
	topContent, err := s.store.TopContent(ctx, 5)
	if err != nil {
		return nil, err
	}
	totalRuntime, err := s.store.TotalUserRuntime(ctx)
	if err != nil {
		return nil, err
	}

	// Live count of sessions actually playing something.
	activeSessions := 0
	for _, session := range s.source.Sessions(ctx) {
		if session.NowPlayingItem != nil {
			activeSessions++
		}
	}

	overview := &models.DashboardOverview{
		TotalUsers:     totalUsers,
		TotalContent:   totalContent,
		ActiveSessions: activeSessions,
		TotalWatchTime: int64(math.Round(float64(totalRuntime) / 3600)),
		TopUsers:       make([]models.TopUser, 0, len(topUsers)),
		TopContent:     make([]models.TopContent, 0, len(topContent)),
	}
	for _, u := range topUsers {
		overview.TopUsers = append(overview.TopUsers, models.TopUser{
			ID:           u.ID,
			Name:         u.Name,
			PlayCount:    u.PlayCount,
			TotalRuntime: u.TotalRuntime,
		})
	}
	for _, c := range topContent {
		overview.TopContent = append(overview.TopContent, models.TopContent{
			ID:        c.ItemID,
			Name:      c.Name,
			Type:      c.Type,
			PlayCount: c.PlayCount,
		})
	}

	return overview, nil
}

// UserStats returns the 20 most active users by play count.
func (s *Service) UserStats(ctx context.Context) (*models.UserStatsResponse, error) {
	users, err := s.store.TopUsers(ctx, 20)
	if err != nil {
		return nil, err
	}
	return &models.UserStatsResponse{MostActiveUsers: users}, nil
}

// ContentStats returns the 20 most watched items by play count.
func (s *Service) ContentStats(ctx context.Context) (*models.ContentStatsResponse, error) {
	content, err := s.store.TopContent(ctx, 20)
	if err != nil {
		return nil, err
	}
	return &models.ContentStatsResponse{MostWatchedContent: content}, nil
}

// Timeline buckets the last N calendar days of activity, one point per
// day whether or not anything happened. Runtime comes from the activity
// payload; entries with no parseable payload still count but contribute
// zero runtime.
func (s *Service) Timeline(ctx context.Context, days int) ([]models.TimelinePoint, error) {
	if days <= 0 {
		days = 7
	}

	now := time.Now().UTC()
	cutoff := now.AddDate(0, 0, -days)

	activities, err := s.store.ActivitiesSince(ctx, cutoff)
	if err != nil {
		return nil, err
	}

	buckets := make(map[string]*models.TimelinePoint, days)
	points := make([]models.TimelinePoint, 0, days)
	for i := days - 1; i >= 0; i-- {
		date := now.AddDate(0, 0, -i).Format("2006-01-02")
		points = append(points, models.TimelinePoint{Date: date})
	}
	for i := range points {
		buckets[points[i].Date] = &points[i]
	}

	for i := range activities {
		a := &activities[i]
		point, ok := buckets[a.Timestamp.UTC().Format("2006-01-02")]
		if !ok {
			continue
		}
		point.Count++

		if a.Data == "" {
			continue
		}
		var payload models.ActivityPayload
		if err := json.Unmarshal([]byte(a.Data), &payload); err != nil {
			continue
		}
		point.TotalRuntime += payload.Runtime
	}

	return points, nil
}

// ActiveSessions returns the live session list from the source.
func (s *Service) ActiveSessions(ctx context.Context) []models.JellyfinSession {
	return s.source.Sessions(ctx)
}
