// Package localstore persists the whole ledger in a directory of opaque files, one per collection.
// Every collection is read once at open and rewritten in full after each change.
package localstore

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/MrJamesThe3rd/aion/internal/card"
	"github.com/MrJamesThe3rd/aion/internal/goal"
	"github.com/MrJamesThe3rd/aion/internal/settings"
	"github.com/MrJamesThe3rd/aion/internal/snapshot"
	"github.com/MrJamesThe3rd/aion/internal/transaction"
)

const (
	KeyTransactions = "finpro_transactions"
	KeyCards        = "finpro_cards"
	KeyGoals        = "finpro_goals"
	KeyCategories   = "finpro_categories"
	KeySettings     = "finpro_settings"
)

type Store struct {
	kv *FileKV

	mu         sync.RWMutex
	txs        []*transaction.Transaction
	cards      []*card.Card
	goals      []*goal.Goal
	categories []string
	settings   *settings.Settings
}

// Open loads every collection from dir. Unreadable collections start empty.
func Open(ctx context.Context, dir string, loc *time.Location) (*Store, error) {
	kv, err := NewFileKV(dir)
	if err != nil {
		return nil, err
	}

	if loc == nil {
		loc = time.Local
	}

	s := &Store{kv: kv}
	log := zerolog.Ctx(ctx)

	txDocs, err := load[[]snapshot.Transaction](kv, KeyTransactions)
	if err != nil {
		return nil, err
	}

	for _, d := range txDocs {
		tx, err := d.ToTransaction(loc)
		if err != nil {
			log.Warn().Err(err).Msg("skipping unreadable stored transaction")
			continue
		}

		s.txs = append(s.txs, tx)
	}

	cardDocs, err := load[[]snapshot.Card](kv, KeyCards)
	if err != nil {
		return nil, err
	}

	if s.cards, err = snapshot.Cards(cardDocs); err != nil {
		log.Warn().Err(err).Msg("discarding unreadable stored cards")
		s.cards = nil
	}

	goalDocs, err := load[[]snapshot.Goal](kv, KeyGoals)
	if err != nil {
		return nil, err
	}

	if s.goals, err = snapshot.Goals(goalDocs, loc); err != nil {
		log.Warn().Err(err).Msg("discarding unreadable stored goals")
		s.goals = nil
	}

	if s.categories, err = load[[]string](kv, KeyCategories); err != nil {
		return nil, err
	}

	if s.settings, err = load[*settings.Settings](kv, KeySettings); err != nil {
		return nil, err
	}

	log.Debug().
		Int("transactions", len(s.txs)).
		Int("cards", len(s.cards)).
		Int("goals", len(s.goals)).
		Str("dir", dir).
		Msg("opened local store")

	return s, nil
}

func load[T any](kv *FileKV, key string) (T, error) {
	data, err := kv.Get(key)
	if err != nil {
		var zero T
		return zero, err
	}

	v, _ := Decode[T](data)

	return v, nil
}

func (s *Store) put(key string, v any) error {
	data, err := Encode(v)
	if err != nil {
		return err
	}

	return s.kv.Put(key, data)
}

func cloneTx(tx *transaction.Transaction) *transaction.Transaction {
	c := *tx

	if tx.GroupID != nil {
		c.GroupID = new(*tx.GroupID)
	}

	if tx.CardID != nil {
		c.CardID = new(*tx.CardID)
	}

	if tx.PaidAt != nil {
		c.PaidAt = new(*tx.PaidAt)
	}

	return &c
}

func cloneTxs(txs []*transaction.Transaction) []*transaction.Transaction {
	out := make([]*transaction.Transaction, len(txs))
	for i, tx := range txs {
		out[i] = cloneTx(tx)
	}

	return out
}

// commitTxs persists next and only then makes it the current state.
func (s *Store) commitTxs(next []*transaction.Transaction) error {
	docs := make([]snapshot.Transaction, len(next))
	for i, tx := range next {
		docs[i] = snapshot.FromTransaction(tx)
	}

	if err := s.put(KeyTransactions, docs); err != nil {
		return fmt.Errorf("saving transactions: %w", err)
	}

	s.txs = next

	return nil
}

// rewriteTxs applies fn to a copy of every transaction. fn returns false to drop one.
// It reports how many transactions fn changed or dropped.
func (s *Store) rewriteTxs(fn func(tx *transaction.Transaction) (keep, changed bool)) (int64, error) {
	next := make([]*transaction.Transaction, 0, len(s.txs))

	var n int64

	for _, tx := range s.txs {
		c := cloneTx(tx)

		keep, changed := fn(c)
		if changed || !keep {
			n++
		}

		if keep {
			next = append(next, c)
		}
	}

	if n == 0 {
		return 0, nil
	}

	return n, s.commitTxs(next)
}

func (s *Store) CreateTransactions(_ context.Context, txs []*transaction.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := slices.Concat(s.txs, cloneTxs(txs))

	return s.commitTxs(next)
}

func (s *Store) GetTransaction(_ context.Context, id uuid.UUID) (*transaction.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, tx := range s.txs {
		if tx.ID == id {
			return cloneTx(tx), nil
		}
	}

	return nil, transaction.ErrNotFound
}

func matches(tx *transaction.Transaction, f transaction.ListFilter) bool {
	switch {
	case f.Status != nil && tx.Status != *f.Status:
		return false
	case f.Type != nil && tx.Type != *f.Type:
		return false
	case f.StartDate != nil && tx.Date.Before(*f.StartDate):
		return false
	case f.EndDate != nil && !tx.Date.Before(*f.EndDate):
		return false
	case f.GroupID != nil && (tx.GroupID == nil || *tx.GroupID != *f.GroupID):
		return false
	case f.CardID != nil && (tx.CardID == nil || *tx.CardID != *f.CardID):
		return false
	}

	return true
}

func (s *Store) ListTransactions(_ context.Context, filter transaction.ListFilter) ([]*transaction.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*transaction.Transaction

	for _, tx := range s.txs {
		if matches(tx, filter) {
			out = append(out, cloneTx(tx))
		}
	}

	slices.SortStableFunc(out, func(a, b *transaction.Transaction) int {
		if c := a.Date.Compare(b.Date); c != 0 {
			return c
		}

		return cmp.Compare(a.InstallmentCurrent, b.InstallmentCurrent)
	})

	return out, nil
}

func (s *Store) UpdateTransaction(_ context.Context, tx *transaction.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	n, err := s.rewriteTxs(func(c *transaction.Transaction) (bool, bool) {
		if c.ID != tx.ID {
			return true, false
		}

		c.Description = tx.Description
		c.Amount = tx.Amount
		c.Status = tx.Status
		c.PaidAt = nil

		if tx.PaidAt != nil {
			c.PaidAt = new(*tx.PaidAt)
		}

		return true, true
	})
	if err != nil {
		return err
	}

	if n == 0 {
		return transaction.ErrNotFound
	}

	return nil
}

func (s *Store) DeleteTransaction(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	n, err := s.rewriteTxs(func(c *transaction.Transaction) (bool, bool) {
		return c.ID != id, false
	})
	if err != nil {
		return err
	}

	if n == 0 {
		return transaction.ErrNotFound
	}

	return nil
}

func (s *Store) DeleteGroupAfter(_ context.Context, groupID uuid.UUID, after time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.rewriteTxs(func(c *transaction.Transaction) (bool, bool) {
		drop := c.GroupID != nil && *c.GroupID == groupID && c.Date.After(after)
		return !drop, false
	})
}

func (s *Store) PayGroup(_ context.Context, groupID uuid.UUID, paidAt time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.rewriteTxs(func(c *transaction.Transaction) (bool, bool) {
		if c.GroupID == nil || *c.GroupID != groupID {
			return true, false
		}

		return true, c.MarkPaid(paidAt) == nil
	})
}

func (s *Store) MarkOverdue(_ context.Context, before time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.rewriteTxs(func(c *transaction.Transaction) (bool, bool) {
		if c.Status != transaction.StatusPending || !c.Date.Before(before) {
			return true, false
		}

		c.Status = transaction.StatusOverdue

		return true, true
	})
}

func (s *Store) ReplaceTransactions(_ context.Context, txs []*transaction.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.commitTxs(cloneTxs(txs))
}
