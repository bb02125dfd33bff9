// Harborview - Jellyfin Analytics Dashboard
// Copyright 2026 Harborview contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/harborview/harborview

/*
jellyfin_client.go - Jellyfin REST API Client

This file implements a REST API client for Jellyfin media server.
It provides methods to fetch users, sessions, activity-log entries,
and library items.

API Reference: https://api.jellyfin.org/
*/

package sync

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/harborview/harborview/internal/models"
)

// JellyfinClientInterface defines the interface for Jellyfin API operations.
// Both JellyfinClient and JellyfinBreakerClient implement this interface.
type JellyfinClientInterface interface {
	Ping(ctx context.Context) error
	GetUsers(ctx context.Context) ([]models.JellyfinUser, error)
	GetSessions(ctx context.Context) ([]models.JellyfinSession, error)
	GetActivities(ctx context.Context, startIndex, limit int) ([]models.JellyfinActivity, error)
	GetLibraryItems(ctx context.Context) ([]models.JellyfinLibraryItem, error)
}

// Ensure JellyfinClient implements JellyfinClientInterface
var _ JellyfinClientInterface = (*JellyfinClient)(nil)

// JellyfinClient provides access to the Jellyfin REST API
type JellyfinClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewJellyfinClient creates a new Jellyfin API client
//
// Parameters:
//   - baseURL: Jellyfin server URL (e.g., http://localhost:8096)
//   - apiKey: Jellyfin API key from Admin Dashboard > API Keys
func NewJellyfinClient(baseURL, apiKey string) *JellyfinClient {
	// Normalize URL (remove trailing slash)
	baseURL = strings.TrimSuffix(baseURL, "/")

	return &JellyfinClient{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// GetUsers retrieves all users from Jellyfin
func (c *JellyfinClient) GetUsers(ctx context.Context) ([]models.JellyfinUser, error) {
	resp, err := c.doRequest(ctx, "/Users", nil)
	if err != nil {
		return nil, fmt.Errorf("jellyfin users request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, statusError("jellyfin users", resp)
	}

	var users []models.JellyfinUser
	if err := json.NewDecoder(resp.Body).Decode(&users); err != nil {
		return nil, fmt.Errorf("failed to decode jellyfin users: %w", err)
	}

	return users, nil
}

// GetSessions retrieves all sessions from Jellyfin, including idle ones.
// Callers interested in playback filter on NowPlayingItem.
func (c *JellyfinClient) GetSessions(ctx context.Context) ([]models.JellyfinSession, error) {
	resp, err := c.doRequest(ctx, "/Sessions", nil)
	if err != nil {
		return nil, fmt.Errorf("jellyfin sessions request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, statusError("jellyfin sessions", resp)
	}

	var sessions []models.JellyfinSession
	if err := json.NewDecoder(resp.Body).Decode(&sessions); err != nil {
		return nil, fmt.Errorf("failed to decode jellyfin sessions: %w", err)
	}

	return sessions, nil
}

// GetActivities retrieves a page of the server activity log, restricted
// to entries attributed to a user.
func (c *JellyfinClient) GetActivities(ctx context.Context, startIndex, limit int) ([]models.JellyfinActivity, error) {
	params := url.Values{}
	params.Set("startIndex", strconv.Itoa(startIndex))
	params.Set("limit", strconv.Itoa(limit))
	params.Set("hasUserId", "true")

	resp, err := c.doRequest(ctx, "/System/ActivityLog/Entries", params)
	if err != nil {
		return nil, fmt.Errorf("jellyfin activity log request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, statusError("jellyfin activity log", resp)
	}

	var page models.JellyfinActivityLogResponse
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		return nil, fmt.Errorf("failed to decode jellyfin activity log: %w", err)
	}

	return page.Items, nil
}

// GetLibraryItems retrieves playable library items with play statistics
func (c *JellyfinClient) GetLibraryItems(ctx context.Context) ([]models.JellyfinLibraryItem, error) {
	params := url.Values{}
	params.Set("recursive", "true")
	params.Set("includeItemTypes", "Movie,Episode,Audio")
	params.Set("fields", "PlayCount,DateLastContentAdded")

	resp, err := c.doRequest(ctx, "/Items", params)
	if err != nil {
		return nil, fmt.Errorf("jellyfin items request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, statusError("jellyfin items", resp)
	}

	var page models.JellyfinItemsResponse
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		return nil, fmt.Errorf("failed to decode jellyfin items: %w", err)
	}

	return page.Items, nil
}

// Ping tests connectivity to the Jellyfin server
func (c *JellyfinClient) Ping(ctx context.Context) error {
	resp, err := c.doRequest(ctx, "/System/Ping", nil)
	if err != nil {
		return fmt.Errorf("jellyfin ping failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("jellyfin ping returned status %d", resp.StatusCode)
	}

	return nil
}

// doRequest performs an HTTP GET request to the Jellyfin API
func (c *JellyfinClient) doRequest(ctx context.Context, endpoint string, params url.Values) (*http.Response, error) {
	fullURL := c.baseURL + endpoint
	if len(params) > 0 {
		fullURL += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	// Set authorization header using API key
	req.Header.Set("X-Emby-Token", c.apiKey)
	req.Header.Set("X-Emby-Client", "Harborview")
	req.Header.Set("X-Emby-Device-Name", "Harborview")
	req.Header.Set("X-Emby-Device-Id", "harborview")
	req.Header.Set("X-Emby-Client-Version", "1.0.0")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")

	return c.httpClient.Do(req)
}

func statusError(operation string, resp *http.Response) error {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%s returned status %d (failed to read body)", operation, resp.StatusCode)
	}
	return fmt.Errorf("%s returned status %d: %s", operation, resp.StatusCode, string(body))
}
