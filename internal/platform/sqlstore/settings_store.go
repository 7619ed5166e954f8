package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/phrazzld/scry-study/internal/domain"
	"github.com/phrazzld/scry-study/internal/platform/logger"
	"github.com/phrazzld/scry-study/internal/store"
)

// SettingsStore implements the store.SettingsStore interface on database/sql.
type SettingsStore struct {
	db      store.DBTX
	dialect Dialect
	logger  *slog.Logger
}

// NewSettingsStore creates a new SQL implementation of the SettingsStore interface.
func NewSettingsStore(db store.DBTX, dialect Dialect, logger *slog.Logger) *SettingsStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if dialect == nil {
		panic("dialect cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &SettingsStore{
		db:      db,
		dialect: dialect,
		logger:  logger.With(slog.String("component", "settings_store")),
	}
}

// Ensure SettingsStore implements store.SettingsStore interface
var _ store.SettingsStore = (*SettingsStore)(nil)

// GetAll implements store.SettingsStore.GetAll
func (s *SettingsStore) GetAll(ctx context.Context) (map[string]string, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	rows, err := s.db.QueryContext(ctx, `SELECT key, value FROM settings`)
	if err != nil {
		log.Error("failed to load settings", slog.String("error", err.Error()))
		return nil, s.dialect.MapError(err)
	}
	defer closeRows(log, rows)

	settings := make(map[string]string)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, s.dialect.MapError(err)
		}
		settings[key] = value
	}
	if err := rows.Err(); err != nil {
		return nil, s.dialect.MapError(err)
	}
	return settings, nil
}

// Get implements store.SettingsStore.Get
func (s *SettingsStore) Get(ctx context.Context, key string) (string, error) {
	var value string
	err := s.db.QueryRowContext(ctx, s.dialect.Rebind(`SELECT value FROM settings WHERE key = ?`), key).
		Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", store.ErrSettingNotFound
		}
		return "", s.dialect.MapError(err)
	}
	return value, nil
}

// Set implements store.SettingsStore.Set
func (s *SettingsStore) Set(ctx context.Context, key, value string) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if key == "" {
		return domain.ErrEmptySettingKey
	}

	query := `
		INSERT INTO settings (key, value) VALUES (?, ?)
		ON CONFLICT (key) DO UPDATE SET value = excluded.value
	`
	if _, err := s.db.ExecContext(ctx, s.dialect.Rebind(query), key, value); err != nil {
		log.Error("failed to save setting", slog.String("error", err.Error()), slog.String("key", key))
		return store.NewStoreError("setting", "save", s.dialect.MapError(err))
	}

	log.Debug("setting saved", slog.String("key", key))
	return nil
}

// SetDefault implements store.SettingsStore.SetDefault
func (s *SettingsStore) SetDefault(ctx context.Context, key, value string) error {
	if key == "" {
		return domain.ErrEmptySettingKey
	}

	query := `INSERT INTO settings (key, value) VALUES (?, ?) ON CONFLICT (key) DO NOTHING`
	if _, err := s.db.ExecContext(ctx, s.dialect.Rebind(query), key, value); err != nil {
		return s.dialect.MapError(err)
	}
	return nil
}
