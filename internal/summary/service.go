package summary

import (
	"context"
	"fmt"
	"time"

	"github.com/MrJamesThe3rd/aion/internal/calendar"
	"github.com/MrJamesThe3rd/aion/internal/card"
	"github.com/MrJamesThe3rd/aion/internal/transaction"
)

type TransactionSource interface {
	SweepOverdue(ctx context.Context) (int64, error)
	List(ctx context.Context, filter transaction.ListFilter) ([]*transaction.Transaction, error)
}

type CardSource interface {
	List(ctx context.Context) ([]*card.Card, error)
}

type Service struct {
	txs   TransactionSource
	cards CardSource
	loc   *time.Location
}

func NewService(txs TransactionSource, cards CardSource, loc *time.Location) *Service {
	if loc == nil {
		loc = time.Local
	}

	return &Service{txs: txs, cards: cards, loc: loc}
}

// Month sweeps overdue transactions and then aggregates the given month.
func (s *Service) Month(ctx context.Context, year int, month time.Month) (Month, error) {
	if _, err := s.txs.SweepOverdue(ctx); err != nil {
		return Month{}, err
	}

	start, end := calendar.MonthRange(year, month, s.loc)

	monthTxs, err := s.txs.List(ctx, transaction.ListFilter{StartDate: &start, EndDate: &end})
	if err != nil {
		return Month{}, fmt.Errorf("listing month transactions: %w", err)
	}

	paid := transaction.StatusPaid

	history, err := s.txs.List(ctx, transaction.ListFilter{Status: &paid, EndDate: &start})
	if err != nil {
		return Month{}, fmt.Errorf("listing earlier transactions: %w", err)
	}

	return Aggregate(year, month, monthTxs, history), nil
}

// CardUsage reports the committed amount of every card, archived ones included.
func (s *Service) CardUsage(ctx context.Context) ([]CardUsage, error) {
	cards, err := s.cards.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing cards: %w", err)
	}

	expense := transaction.TypeExpense

	txs, err := s.txs.List(ctx, transaction.ListFilter{Type: &expense})
	if err != nil {
		return nil, fmt.Errorf("listing expenses: %w", err)
	}

	return Usage(cards, txs), nil
}
