package localstore

import (
	"context"
	"fmt"
	"slices"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/aion/internal/card"
	"github.com/MrJamesThe3rd/aion/internal/category"
	"github.com/MrJamesThe3rd/aion/internal/goal"
	"github.com/MrJamesThe3rd/aion/internal/settings"
	"github.com/MrJamesThe3rd/aion/internal/snapshot"
	"github.com/MrJamesThe3rd/aion/internal/transaction"
)

var (
	_ transaction.Repository = (*Store)(nil)
	_ card.Repository        = (*Store)(nil)
	_ goal.Repository        = (*Store)(nil)
	_ category.Repository    = (*Store)(nil)
	_ settings.Repository    = (*Store)(nil)
)

func (s *Store) commitCards(next []*card.Card) error {
	docs := make([]snapshot.Card, len(next))
	for i, c := range next {
		docs[i] = snapshot.FromCard(c)
	}

	if err := s.put(KeyCards, docs); err != nil {
		return fmt.Errorf("saving cards: %w", err)
	}

	s.cards = next

	return nil
}

func (s *Store) CreateCard(_ context.Context, c *card.Card) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *c

	return s.commitCards(append(slices.Clone(s.cards), &cp))
}

func (s *Store) GetCard(_ context.Context, id uuid.UUID) (*card.Card, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, c := range s.cards {
		if c.ID == id {
			cp := *c
			return &cp, nil
		}
	}

	return nil, card.ErrNotFound
}

func (s *Store) ListCards(_ context.Context) ([]*card.Card, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*card.Card, len(s.cards))
	for i, c := range s.cards {
		cp := *c
		out[i] = &cp
	}

	return out, nil
}

func (s *Store) UpdateCard(_ context.Context, c *card.Card) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := slices.IndexFunc(s.cards, func(x *card.Card) bool { return x.ID == c.ID })
	if i < 0 {
		return card.ErrNotFound
	}

	next := slices.Clone(s.cards)
	cp := *c
	next[i] = &cp

	return s.commitCards(next)
}

func (s *Store) DeleteCard(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := slices.IndexFunc(s.cards, func(x *card.Card) bool { return x.ID == id })
	if i < 0 {
		return card.ErrNotFound
	}

	return s.commitCards(slices.Delete(slices.Clone(s.cards), i, i+1))
}

func (s *Store) ReplaceCards(_ context.Context, cards []*card.Card) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := make([]*card.Card, len(cards))
	for i, c := range cards {
		cp := *c
		next[i] = &cp
	}

	return s.commitCards(next)
}

func cloneGoal(g *goal.Goal) *goal.Goal {
	cp := *g
	if g.Deadline != nil {
		cp.Deadline = new(*g.Deadline)
	}

	return &cp
}

func (s *Store) commitGoals(next []*goal.Goal) error {
	docs := make([]snapshot.Goal, len(next))
	for i, g := range next {
		docs[i] = snapshot.FromGoal(g)
	}

	if err := s.put(KeyGoals, docs); err != nil {
		return fmt.Errorf("saving goals: %w", err)
	}

	s.goals = next

	return nil
}

func (s *Store) CreateGoal(_ context.Context, g *goal.Goal) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.commitGoals(append(slices.Clone(s.goals), cloneGoal(g)))
}

func (s *Store) GetGoal(_ context.Context, id uuid.UUID) (*goal.Goal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, g := range s.goals {
		if g.ID == id {
			return cloneGoal(g), nil
		}
	}

	return nil, goal.ErrNotFound
}

func (s *Store) ListGoals(_ context.Context) ([]*goal.Goal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*goal.Goal, len(s.goals))
	for i, g := range s.goals {
		out[i] = cloneGoal(g)
	}

	return out, nil
}

func (s *Store) UpdateGoal(_ context.Context, g *goal.Goal) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := slices.IndexFunc(s.goals, func(x *goal.Goal) bool { return x.ID == g.ID })
	if i < 0 {
		return goal.ErrNotFound
	}

	next := slices.Clone(s.goals)
	next[i] = cloneGoal(g)

	return s.commitGoals(next)
}

func (s *Store) DeleteGoal(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := slices.IndexFunc(s.goals, func(x *goal.Goal) bool { return x.ID == id })
	if i < 0 {
		return goal.ErrNotFound
	}

	return s.commitGoals(slices.Delete(slices.Clone(s.goals), i, i+1))
}

func (s *Store) ReplaceGoals(_ context.Context, goals []*goal.Goal) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := make([]*goal.Goal, len(goals))
	for i, g := range goals {
		next[i] = cloneGoal(g)
	}

	return s.commitGoals(next)
}

func (s *Store) ListCategories(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return slices.Clone(s.categories), nil
}

func (s *Store) ReplaceCategories(_ context.Context, names []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := slices.Clone(names)
	if err := s.put(KeyCategories, next); err != nil {
		return fmt.Errorf("saving categories: %w", err)
	}

	s.categories = next

	return nil
}

func (s *Store) GetSettings(_ context.Context) (*settings.Settings, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.settings == nil {
		return nil, nil
	}

	cp := *s.settings

	return &cp, nil
}

func (s *Store) SaveSettings(_ context.Context, in settings.Settings) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.put(KeySettings, in); err != nil {
		return fmt.Errorf("saving settings: %w", err)
	}

	s.settings = &in

	return nil
}
