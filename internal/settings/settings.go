package settings

import (
	"context"
	"fmt"
)

// Settings are user preferences carried along with backups.
type Settings struct {
	Theme      string `json:"theme"`
	Mode       string `json:"mode"`
	UserName   string `json:"user"`
	ShowIncome bool   `json:"showIncome"`
}

func Default() Settings {
	return Settings{
		Theme:      "purple",
		Mode:       "dark",
		ShowIncome: true,
	}
}

type Repository interface {
	// GetSettings returns nil when nothing was stored yet.
	GetSettings(ctx context.Context) (*Settings, error)
	SaveSettings(ctx context.Context, s Settings) error
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Get(ctx context.Context) (Settings, error) {
	stored, err := s.repo.GetSettings(ctx)
	if err != nil {
		return Settings{}, fmt.Errorf("getting settings: %w", err)
	}

	if stored == nil {
		return Default(), nil
	}

	return *stored, nil
}

func (s *Service) Save(ctx context.Context, settings Settings) error {
	if err := s.repo.SaveSettings(ctx, settings); err != nil {
		return fmt.Errorf("saving settings: %w", err)
	}

	return nil
}
