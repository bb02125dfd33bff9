// Harborview - Jellyfin Analytics Dashboard
// Copyright 2026 Harborview contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/harborview/harborview

package sync

import (
	"context"
	"strings"
	stdsync "sync"

	"github.com/harborview/harborview/internal/logging"
	"github.com/harborview/harborview/internal/metrics"
	"github.com/harborview/harborview/internal/models"
	"github.com/harborview/harborview/internal/settings"
)

// ConfigProvider supplies the current Jellyfin connection settings.
// *settings.Service satisfies it.
type ConfigProvider interface {
	JellyfinConfig(ctx context.Context) (*settings.JellyfinConfig, error)
}

// Source is the media-source adapter the pipeline and the read layer
// consume. Its four bulk reads never fail: when Jellyfin is
// unconfigured or a call errors, the failure is logged and the fixed
// mock fixtures are returned for that call. The dashboard always shows
// something; only the explicit connection test reports honest results.
type Source struct {
	provider ConfigProvider

	// Bootstrap credentials from the environment, used until settings
	// carry a complete configuration.
	bootstrapURL    string
	bootstrapAPIKey string

	mu     stdsync.RWMutex
	client JellyfinClientInterface // nil while unconfigured
}

// NewSource builds an adapter over provider. bootstrapURL/bootstrapAPIKey
// come from the environment and apply when both are set.
func NewSource(provider ConfigProvider, bootstrapURL, bootstrapAPIKey string) *Source {
	s := &Source{
		provider:        provider,
		bootstrapURL:    bootstrapURL,
		bootstrapAPIKey: bootstrapAPIKey,
	}
	if bootstrapURL != "" && bootstrapAPIKey != "" {
		s.client = NewJellyfinBreakerClient(bootstrapURL, bootstrapAPIKey)
	} else {
		logging.Warn().Msg("Jellyfin configuration incomplete, using mock data")
	}
	return s
}

// Reload re-resolves the connection settings and swaps the client.
// Callers invoke it after a jellyfin.* setting changes; the adapter
// never re-reads settings on its own.
func (s *Source) Reload(ctx context.Context) {
	cfg, err := s.provider.JellyfinConfig(ctx)
	if err != nil {
		logging.Warn().Err(err).Msg("Failed to load Jellyfin configuration from settings")
		return
	}

	url, apiKey := cfg.URL, cfg.APIKey
	if url == "" || apiKey == "" {
		url, apiKey = s.bootstrapURL, s.bootstrapAPIKey
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if url == "" || apiKey == "" {
		s.client = nil
		logging.Warn().Msg("Jellyfin configuration incomplete, using mock data")
		return
	}

	s.client = NewJellyfinBreakerClient(url, apiKey)
	logging.Info().Str("url", url).Msg("Jellyfin client configured")
}

func (s *Source) currentClient() JellyfinClientInterface {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.client
}

// IsConfigured reports whether a live client is in place.
func (s *Source) IsConfigured() bool {
	return s.currentClient() != nil
}

// Users lists Jellyfin users, falling back to mock data on any failure.
func (s *Source) Users(ctx context.Context) []models.JellyfinUser {
	client := s.currentClient()
	if client == nil {
		metrics.SourceFallbacks.WithLabelValues("users", "unconfigured").Inc()
		return mockUsers()
	}

	users, err := client.GetUsers(ctx)
	if err != nil {
		logging.Error().Err(err).Msg("Error fetching users from Jellyfin")
		metrics.SourceFallbacks.WithLabelValues("users", "error").Inc()
		return mockUsers()
	}
	return users
}

// Sessions lists Jellyfin sessions, falling back to mock data on any failure.
func (s *Source) Sessions(ctx context.Context) []models.JellyfinSession {
	client := s.currentClient()
	if client == nil {
		metrics.SourceFallbacks.WithLabelValues("sessions", "unconfigured").Inc()
		return mockSessions()
	}

	sessions, err := client.GetSessions(ctx)
	if err != nil {
		logging.Error().Err(err).Msg("Error fetching sessions from Jellyfin")
		metrics.SourceFallbacks.WithLabelValues("sessions", "error").Inc()
		return mockSessions()
	}
	return sessions
}

// Activities lists the first activity-log page, falling back to mock
// data on any failure.
func (s *Source) Activities(ctx context.Context) []models.JellyfinActivity {
	client := s.currentClient()
	if client == nil {
		metrics.SourceFallbacks.WithLabelValues("activities", "unconfigured").Inc()
		return mockActivities()
	}

	activities, err := client.GetActivities(ctx, 0, 100)
	if err != nil {
		logging.Error().Err(err).Msg("Error fetching activities from Jellyfin")
		metrics.SourceFallbacks.WithLabelValues("activities", "error").Inc()
		return mockActivities()
	}
	return activities
}

// LibraryItems lists playable library items, falling back to mock data
// on any failure.
func (s *Source) LibraryItems(ctx context.Context) []models.JellyfinLibraryItem {
	client := s.currentClient()
	if client == nil {
		metrics.SourceFallbacks.WithLabelValues("library_items", "unconfigured").Inc()
		return mockLibraryItems()
	}

	items, err := client.GetLibraryItems(ctx)
	if err != nil {
		logging.Error().Err(err).Msg("Error fetching library items from Jellyfin")
		metrics.SourceFallbacks.WithLabelValues("library_items", "error").Inc()
		return mockLibraryItems()
	}
	return items
}

// TestConnection probes an explicit url/apiKey pair with a single user
// listing and reports honestly: a transport failure is a failure, and
// data that looks like the mock fixtures is flagged as not connected.
// Unlike the bulk reads, nothing here is masked.
func TestConnection(ctx context.Context, url, apiKey string) *models.ConnectionTestResult {
	if url == "" || apiKey == "" {
		return &models.ConnectionTestResult{
			Success:   false,
			Connected: false,
			Message:   "URL and API key are required",
		}
	}

	client := NewJellyfinClient(url, apiKey)
	users, err := client.GetUsers(ctx)
	if err != nil {
		return &models.ConnectionTestResult{
			Success:   false,
			Connected: false,
			Message:   err.Error(),
		}
	}

	connected := len(users) > 0
	for _, u := range users {
		if strings.HasPrefix(u.ID, MockIDPrefix) {
			connected = false
			break
		}
	}

	message := "Successfully connected to Jellyfin"
	if !connected {
		message = "Connected, but using mock data (check configuration)"
	}

	return &models.ConnectionTestResult{
		Success:   true,
		Connected: connected,
		Message:   message,
		UserCount: len(users),
	}
}
