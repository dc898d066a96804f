package card

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=card
type Repository interface {
	CreateCard(ctx context.Context, c *Card) error
	GetCard(ctx context.Context, id uuid.UUID) (*Card, error)
	ListCards(ctx context.Context) ([]*Card, error)
	UpdateCard(ctx context.Context, c *Card) error
	DeleteCard(ctx context.Context, id uuid.UUID) error
	ReplaceCards(ctx context.Context, cards []*Card) error
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Create(ctx context.Context, params Params) (*Card, error) {
	if err := params.validate(); err != nil {
		return nil, err
	}

	c := &Card{ID: uuid.New()}
	c.apply(params)

	if err := s.repo.CreateCard(ctx, c); err != nil {
		return nil, fmt.Errorf("creating card: %w", err)
	}

	return c, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Card, error) {
	return s.repo.GetCard(ctx, id)
}

// List returns every card, archived ones included.
func (s *Service) List(ctx context.Context) ([]*Card, error) {
	return s.repo.ListCards(ctx)
}

// ListActive returns the cards that can still be picked for new expenses.
func (s *Service) ListActive(ctx context.Context) ([]*Card, error) {
	cards, err := s.repo.ListCards(ctx)
	if err != nil {
		return nil, err
	}

	active := make([]*Card, 0, len(cards))

	for _, c := range cards {
		if !c.IsArchived {
			active = append(active, c)
		}
	}

	return active, nil
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, params Params) (*Card, error) {
	if err := params.validate(); err != nil {
		return nil, err
	}

	c, err := s.repo.GetCard(ctx, id)
	if err != nil {
		return nil, err
	}

	c.apply(params)

	if err := s.repo.UpdateCard(ctx, c); err != nil {
		return nil, fmt.Errorf("updating card: %w", err)
	}

	return c, nil
}

// SetArchived hides or restores a card. Transactions referencing it are unaffected.
func (s *Service) SetArchived(ctx context.Context, id uuid.UUID, archived bool) (*Card, error) {
	c, err := s.repo.GetCard(ctx, id)
	if err != nil {
		return nil, err
	}

	c.IsArchived = archived

	if err := s.repo.UpdateCard(ctx, c); err != nil {
		return nil, fmt.Errorf("archiving card: %w", err)
	}

	return c, nil
}

// Delete removes the card only. Transactions keep their now dangling CardID.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.DeleteCard(ctx, id)
}

func (s *Service) Replace(ctx context.Context, cards []*Card) error {
	if err := s.repo.ReplaceCards(ctx, cards); err != nil {
		return fmt.Errorf("replacing cards: %w", err)
	}

	return nil
}
