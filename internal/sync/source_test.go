// Harborview - Jellyfin Analytics Dashboard
// Copyright 2026 Harborview contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/harborview/harborview

package sync

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/harborview/harborview/internal/settings"
)

type stubProvider struct {
	url    string
	apiKey string
}

func (p *stubProvider) JellyfinConfig(_ context.Context) (*settings.JellyfinConfig, error) {
	return &settings.JellyfinConfig{URL: p.url, APIKey: p.apiKey, SyncIntervalMS: settings.DefaultSyncIntervalMS}, nil
}

func TestUnconfiguredSourceServesMocks(t *testing.T) {
	source := NewSource(&stubProvider{}, "", "")
	ctx := context.Background()

	users := source.Users(ctx)
	if len(users) != 3 || users[0].ID != "user1" {
		t.Errorf("unexpected mock users: %+v", users)
	}

	sessions := source.Sessions(ctx)
	if len(sessions) != 2 || sessions[0].NowPlayingItem == nil {
		t.Fatalf("unexpected mock sessions: %+v", sessions)
	}
	if sessions[0].NowPlayingItem.RunTimeTicks != 81840000000 {
		t.Errorf("unexpected mock runtime ticks: %d", sessions[0].NowPlayingItem.RunTimeTicks)
	}

	activities := source.Activities(ctx)
	if len(activities) != 2 || activities[0].Type != "VideoPlayback" {
		t.Errorf("unexpected mock activities: %+v", activities)
	}

	items := source.LibraryItems(ctx)
	if len(items) != 3 || items[0].Name != "The Matrix" {
		t.Errorf("unexpected mock library items: %+v", items)
	}
}

func TestSourceFallsBackOnServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	source := NewSource(&stubProvider{}, server.URL, "key")
	if !source.IsConfigured() {
		t.Fatal("expected configured source")
	}

	users := source.Users(context.Background())
	if len(users) != 3 || users[0].ID != "user1" {
		t.Errorf("expected mock fallback on server error, got %+v", users)
	}
}

func TestReloadSwapsClient(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"Id":"real-1","Name":"Real User"}]`))
	}))
	defer server.Close()

	provider := &stubProvider{}
	source := NewSource(provider, "", "")
	if source.IsConfigured() {
		t.Fatal("expected unconfigured source")
	}

	provider.url = server.URL
	provider.apiKey = "key"
	source.Reload(context.Background())

	if !source.IsConfigured() {
		t.Fatal("expected configured source after reload")
	}
	users := source.Users(context.Background())
	if len(users) != 1 || users[0].ID != "real-1" {
		t.Errorf("expected live data after reload, got %+v", users)
	}
}

func TestConnectionMissingCredentials(t *testing.T) {
	result := TestConnection(context.Background(), "", "")
	if result.Success || result.Connected {
		t.Errorf("expected failure for empty credentials, got %+v", result)
	}
}

func TestConnectionTransportFailure(t *testing.T) {
	// Closed server: connection refused.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	result := TestConnection(context.Background(), url, "key")
	if result.Success {
		t.Errorf("expected transport failure, got %+v", result)
	}
	if result.Connected {
		t.Error("expected connected false on transport failure")
	}
}

func TestConnectionDetectsMockLookingData(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"Id":"user1","Name":"John Doe"}]`))
	}))
	defer server.Close()

	result := TestConnection(context.Background(), server.URL, "key")
	if !result.Success {
		t.Fatalf("expected transport success, got %+v", result)
	}
	if result.Connected {
		t.Error("expected connected false for mock-prefixed ids")
	}
	if result.UserCount != 1 {
		t.Errorf("expected user count 1, got %d", result.UserCount)
	}
}

func TestConnectionRealData(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"Id":"7f3a2b","Name":"Alice"},{"Id":"9c4d1e","Name":"Bob"}]`))
	}))
	defer server.Close()

	result := TestConnection(context.Background(), server.URL, "key")
	if !result.Success || !result.Connected {
		t.Fatalf("expected real connection, got %+v", result)
	}
	if result.UserCount != 2 {
		t.Errorf("expected user count 2, got %d", result.UserCount)
	}
}
