package store

import "context"

// SettingsStore defines the interface for the key-value settings table.
type SettingsStore interface {
	// GetAll returns every stored setting.
	GetAll(ctx context.Context) (map[string]string, error)

	// Get returns one setting.
	// Returns ErrSettingNotFound if the key is not stored.
	Get(ctx context.Context, key string) (string, error)

	// Set inserts or replaces one setting.
	Set(ctx context.Context, key, value string) error

	// SetDefault inserts a setting only when the key is not stored yet.
	SetDefault(ctx context.Context, key, value string) error
}
