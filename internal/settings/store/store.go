package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/MrJamesThe3rd/aion/internal/settings"
)

const preferencesKey = "preferences"

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) GetSettings(ctx context.Context) (*settings.Settings, error) {
	var raw []byte

	err := s.db.QueryRowContext(ctx, `SELECT value FROM settings WHERE key = $1`, preferencesKey).Scan(&raw)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}

		return nil, fmt.Errorf("getting settings: %w", err)
	}

	var out settings.Settings
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("decoding settings: %w", err)
	}

	return &out, nil
}

func (s *Store) SaveSettings(ctx context.Context, in settings.Settings) error {
	raw, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("encoding settings: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO settings (key, value) VALUES ($1, $2)
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value
	`, preferencesKey, raw)
	if err != nil {
		return fmt.Errorf("saving settings: %w", err)
	}

	return nil
}
