// Harborview - Jellyfin Analytics Dashboard
// Copyright 2026 Harborview contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/harborview/harborview

package settings

import (
	"fmt"
	"net/url"
	"strconv"
)

// Definition describes one configurable key: where it lives, how it is
// presented, and how candidate values are validated before storage.
type Definition struct {
	Key          string
	Category     string
	Description  string
	Type         string
	Required     bool
	Encrypted    bool
	DefaultValue string
	Validate     func(value string) error
}

// Setting keys. The catalog below is the full set of keys the store
// will accept; unknown keys are rejected on both read and write.
const (
	KeyJellyfinURL          = "jellyfin.url"
	KeyJellyfinAPIKey       = "jellyfin.apiKey"
	KeyJellyfinSyncInterval = "jellyfin.syncInterval"
	KeyAppTitle             = "app.title"
	KeyAppTheme             = "app.theme"
)

// Sync interval bounds in milliseconds.
const (
	MinSyncIntervalMS     = 60000
	MaxSyncIntervalMS     = 3600000
	DefaultSyncIntervalMS = 300000
)

// MaskedValue replaces encrypted values in read responses.
const MaskedValue = "••••••••"

var catalog = []Definition{
	{
		Key:          KeyJellyfinURL,
		Category:     "jellyfin",
		Description:  "Base URL of the Jellyfin server",
		Type:         "url",
		Required:     true,
		DefaultValue: "http://localhost:8096",
		Validate:     validateURL,
	},
	{
		Key:         KeyJellyfinAPIKey,
		Category:    "jellyfin",
		Description: "API key used to authenticate against Jellyfin",
		Type:        "password",
		Required:    true,
		Encrypted:   true,
		Validate:    validateNonEmpty,
	},
	{
		Key:          KeyJellyfinSyncInterval,
		Category:     "jellyfin",
		Description:  "Milliseconds between background syncs (1 minute to 1 hour)",
		Type:         "number",
		DefaultValue: strconv.Itoa(DefaultSyncIntervalMS),
		Validate:     validateSyncInterval,
	},
	{
		Key:          KeyAppTitle,
		Category:     "general",
		Description:  "Title shown in the dashboard header",
		Type:         "string",
		DefaultValue: "Jellyfin Analytics",
		Validate:     validateNonEmpty,
	},
	{
		Key:          KeyAppTheme,
		Category:     "general",
		Description:  "Dashboard color theme",
		Type:         "string",
		DefaultValue: "dark",
		Validate:     validateTheme,
	},
}

var catalogByKey = func() map[string]*Definition {
	m := make(map[string]*Definition, len(catalog))
	for i := range catalog {
		m[catalog[i].Key] = &catalog[i]
	}
	return m
}()

// Lookup returns the definition for key, or nil for unknown keys.
func Lookup(key string) *Definition {
	return catalogByKey[key]
}

// Catalog returns the full ordered list of definitions.
func Catalog() []Definition {
	return catalog
}

func validateNonEmpty(value string) error {
	if value == "" {
		return fmt.Errorf("value must not be empty")
	}
	return nil
}

func validateURL(value string) error {
	if value == "" {
		return fmt.Errorf("value must not be empty")
	}
	u, err := url.Parse(value)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("value must be a valid http(s) URL")
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("value must use http or https")
	}
	return nil
}

func validateSyncInterval(value string) error {
	ms, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("value must be an integer number of milliseconds")
	}
	if ms < MinSyncIntervalMS || ms > MaxSyncIntervalMS {
		return fmt.Errorf("sync interval must be between %d and %d milliseconds", MinSyncIntervalMS, MaxSyncIntervalMS)
	}
	return nil
}

func validateTheme(value string) error {
	if value != "dark" && value != "light" {
		return fmt.Errorf("theme must be dark or light")
	}
	return nil
}
