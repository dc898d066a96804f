package category

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"
)

var ErrInvalidInput = errors.New("invalid category")

// Defaults is the list offered until the user stores one of their own.
var Defaults = []string{
	"Alimentação",
	"Moradia",
	"Transporte",
	"Lazer",
	"Saúde",
	"Educação",
	"Serviços",
	"Investimentos",
	"Outros",
}

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=category
type Repository interface {
	// ListCategories returns the stored names in order, or nil when none were ever stored.
	ListCategories(ctx context.Context) ([]string, error)
	ReplaceCategories(ctx context.Context, names []string) error
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context) ([]string, error) {
	names, err := s.repo.ListCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing categories: %w", err)
	}

	if len(names) == 0 {
		return slices.Clone(Defaults), nil
	}

	return names, nil
}

// Add appends name with its first letter capitalised. Adding an existing name is a no-op.
func (s *Service) Add(ctx context.Context, name string) ([]string, error) {
	name = normalize(name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}

	names, err := s.List(ctx)
	if err != nil {
		return nil, err
	}

	if slices.Contains(names, name) {
		return names, nil
	}

	names = append(names, name)

	if err := s.repo.ReplaceCategories(ctx, names); err != nil {
		return nil, fmt.Errorf("saving categories: %w", err)
	}

	return names, nil
}

func (s *Service) Replace(ctx context.Context, names []string) error {
	if err := s.repo.ReplaceCategories(ctx, names); err != nil {
		return fmt.Errorf("replacing categories: %w", err)
	}

	return nil
}

func normalize(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return ""
	}

	r, size := utf8.DecodeRuneInString(name)

	return string(unicode.ToUpper(r)) + name[size:]
}
