// Harborview - Jellyfin Analytics Dashboard
// Copyright 2026 Harborview contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/harborview/harborview

package settings

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/harborview/harborview/internal/database"
	"github.com/harborview/harborview/internal/logging"
	"github.com/harborview/harborview/internal/models"
)

// ErrUnknownKey reports a key absent from the catalog.
var ErrUnknownKey = errors.New("unknown setting key")

// ErrInvalidValue wraps a validation failure on write.
var ErrInvalidValue = errors.New("invalid setting value")

// Store is the settings surface the rest of the service consumes.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	ByCategory(ctx context.Context, category string) ([]models.SettingView, error)
	All(ctx context.Context) ([]models.SettingsCategory, error)
	Validate(ctx context.Context) (*models.SettingsValidation, error)
	JellyfinConfig(ctx context.Context) (*JellyfinConfig, error)
}

// Service persists catalog-defined settings in the database, encrypting
// the values the catalog marks encrypted.
type Service struct {
	db     *database.DB
	cipher *Cipher
}

var _ Store = (*Service)(nil)

// JellyfinConfig is the decrypted connection bundle the sync layer uses.
type JellyfinConfig struct {
	URL            string
	APIKey         string
	SyncIntervalMS int
}

// NewService builds a settings service over db, deriving the value
// cipher from encryptionKey.
func NewService(db *database.DB, encryptionKey string) (*Service, error) {
	cipher, err := NewCipher(encryptionKey)
	if err != nil {
		return nil, err
	}
	return &Service{db: db, cipher: cipher}, nil
}

// Init seeds every catalog key that has a default and no stored row.
// Existing rows are never overwritten, so user edits survive restarts.
func (s *Service) Init(ctx context.Context) error {
	for _, def := range Catalog() {
		if def.DefaultValue == "" {
			continue
		}
		_, err := s.db.GetSettingRow(ctx, def.Key)
		if err == nil {
			continue
		}
		if !errors.Is(err, database.ErrSettingNotFound) {
			return fmt.Errorf("failed to check setting %s: %w", def.Key, err)
		}
		if err := s.store(ctx, &def, def.DefaultValue); err != nil {
			return err
		}
		logging.Debug().Str("key", def.Key).Msg("Seeded default setting")
	}
	return nil
}

// Get returns the decrypted value for key. Missing optional keys come
// back as their catalog default; a missing required key is an empty
// string.
func (s *Service) Get(ctx context.Context, key string) (string, error) {
	def := Lookup(key)
	if def == nil {
		return "", fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}

	row, err := s.db.GetSettingRow(ctx, key)
	if errors.Is(err, database.ErrSettingNotFound) {
		return def.DefaultValue, nil
	}
	if err != nil {
		return "", err
	}

	if row.IsEncrypted {
		return s.cipher.Decrypt(row.Value)
	}
	return row.Value, nil
}

// Set validates and persists a value for key, encrypting it when the
// catalog requires.
func (s *Service) Set(ctx context.Context, key, value string) error {
	def := Lookup(key)
	if def == nil {
		return fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}
	if def.Validate != nil {
		if err := def.Validate(value); err != nil {
			return fmt.Errorf("%w: %s: %s", ErrInvalidValue, key, err.Error())
		}
	}
	return s.store(ctx, def, value)
}

func (s *Service) store(ctx context.Context, def *Definition, value string) error {
	stored := value
	if def.Encrypted {
		encrypted, err := s.cipher.Encrypt(value)
		if err != nil {
			return fmt.Errorf("failed to encrypt setting %s: %w", def.Key, err)
		}
		stored = encrypted
	}

	return s.db.UpsertSettingRow(ctx, &database.SettingRow{
		Key:         def.Key,
		Value:       stored,
		Description: def.Description,
		Category:    def.Category,
		IsEncrypted: def.Encrypted,
	})
}

// ByCategory returns the catalog views for one category. Encrypted
// values with content are masked; absent values are null.
func (s *Service) ByCategory(ctx context.Context, category string) ([]models.SettingView, error) {
	views := make([]models.SettingView, 0)
	for _, def := range Catalog() {
		if def.Category != category {
			continue
		}
		view, err := s.view(ctx, &def)
		if err != nil {
			return nil, err
		}
		views = append(views, *view)
	}
	return views, nil
}

// All returns every category with its settings, in catalog order.
func (s *Service) All(ctx context.Context) ([]models.SettingsCategory, error) {
	var categories []models.SettingsCategory
	index := make(map[string]int)

	for _, def := range Catalog() {
		view, err := s.view(ctx, &def)
		if err != nil {
			return nil, err
		}
		i, ok := index[def.Category]
		if !ok {
			i = len(categories)
			index[def.Category] = i
			categories = append(categories, models.SettingsCategory{Category: def.Category})
		}
		categories[i].Settings = append(categories[i].Settings, *view)
	}

	return categories, nil
}

func (s *Service) view(ctx context.Context, def *Definition) (*models.SettingView, error) {
	view := &models.SettingView{
		Key:         def.Key,
		Description: def.Description,
		Type:        def.Type,
		Required:    def.Required,
		IsEncrypted: def.Encrypted,
	}

	row, err := s.db.GetSettingRow(ctx, def.Key)
	if errors.Is(err, database.ErrSettingNotFound) {
		if def.DefaultValue != "" {
			v := def.DefaultValue
			view.Value = &v
		}
		return view, nil
	}
	if err != nil {
		return nil, err
	}

	if def.Encrypted {
		if row.Value != "" {
			v := MaskedValue
			view.Value = &v
		}
		return view, nil
	}

	v := row.Value
	view.Value = &v
	return view, nil
}

// Validate reports whether every required setting has a usable value.
func (s *Service) Validate(ctx context.Context) (*models.SettingsValidation, error) {
	result := &models.SettingsValidation{IsValid: true, Errors: []string{}}

	for _, def := range Catalog() {
		if !def.Required {
			continue
		}
		value, err := s.Get(ctx, def.Key)
		if err != nil {
			result.IsValid = false
			result.Errors = append(result.Errors, fmt.Sprintf("%s: %s", def.Key, err.Error()))
			continue
		}
		if value == "" {
			result.IsValid = false
			result.Errors = append(result.Errors, fmt.Sprintf("%s is required", def.Key))
		}
	}

	return result, nil
}

// JellyfinConfig returns the decrypted connection settings, falling
// back to the default interval when the stored one is unparsable.
func (s *Service) JellyfinConfig(ctx context.Context) (*JellyfinConfig, error) {
	url, err := s.Get(ctx, KeyJellyfinURL)
	if err != nil {
		return nil, err
	}
	apiKey, err := s.Get(ctx, KeyJellyfinAPIKey)
	if err != nil {
		return nil, err
	}
	interval, err := s.Get(ctx, KeyJellyfinSyncInterval)
	if err != nil {
		return nil, err
	}

	ms, convErr := strconv.Atoi(interval)
	if convErr != nil || ms < MinSyncIntervalMS || ms > MaxSyncIntervalMS {
		ms = DefaultSyncIntervalMS
	}

	return &JellyfinConfig{URL: url, APIKey: apiKey, SyncIntervalMS: ms}, nil
}
