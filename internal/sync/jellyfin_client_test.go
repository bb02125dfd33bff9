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
)

func TestGetUsersSendsTokenHeader(t *testing.T) {
	var gotToken, gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotToken = r.Header.Get("X-Emby-Token")
		gotPath = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"Id":"abc","Name":"Alice"}]`))
	}))
	defer server.Close()

	client := NewJellyfinClient(server.URL+"/", "test-key")
	users, err := client.GetUsers(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if gotToken != "test-key" {
		t.Errorf("expected token header, got %q", gotToken)
	}
	if gotPath != "/Users" {
		t.Errorf("expected /Users path, got %q", gotPath)
	}
	if len(users) != 1 || users[0].ID != "abc" {
		t.Errorf("unexpected users: %+v", users)
	}
}

func TestGetActivitiesQueryParams(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/System/ActivityLog/Entries" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("startIndex") != "0" || q.Get("limit") != "100" || q.Get("hasUserId") != "true" {
			t.Errorf("unexpected query: %s", r.URL.RawQuery)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"Items":[{"Id":"1","Name":"x played y","Type":"VideoPlayback","UserId":"abc","Date":"2026-01-01T00:00:00Z"}],"TotalRecordCount":1}`))
	}))
	defer server.Close()

	client := NewJellyfinClient(server.URL, "k")
	activities, err := client.GetActivities(context.Background(), 0, 100)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(activities) != 1 || activities[0].Type != "VideoPlayback" {
		t.Errorf("unexpected activities: %+v", activities)
	}
}

func TestGetLibraryItemsQueryParams(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("recursive") != "true" {
			t.Errorf("expected recursive=true, got %q", q.Get("recursive"))
		}
		if q.Get("includeItemTypes") != "Movie,Episode,Audio" {
			t.Errorf("unexpected includeItemTypes: %q", q.Get("includeItemTypes"))
		}
		if q.Get("fields") != "PlayCount,DateLastContentAdded" {
			t.Errorf("unexpected fields: %q", q.Get("fields"))
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"Items":[{"Id":"m1","Name":"The Matrix","Type":"Movie","PlayCount":3,"RunTimeTicks":81840000000}],"TotalRecordCount":1}`))
	}))
	defer server.Close()

	client := NewJellyfinClient(server.URL, "k")
	items, err := client.GetLibraryItems(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 1 || items[0].RunTimeTicks != 81840000000 {
		t.Errorf("unexpected items: %+v", items)
	}
}

func TestClientReportsHTTPErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
	}))
	defer server.Close()

	client := NewJellyfinClient(server.URL, "bad-key")
	if _, err := client.GetUsers(context.Background()); err == nil {
		t.Error("expected error for 401 response")
	}
	if err := client.Ping(context.Background()); err == nil {
		t.Error("expected ping error for 401 response")
	}
}
