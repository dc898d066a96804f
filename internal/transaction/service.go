package transaction

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/aion/internal/calendar"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=transaction
type Repository interface {
	// CreateTransactions inserts the whole batch or nothing.
	CreateTransactions(ctx context.Context, txs []*Transaction) error
	GetTransaction(ctx context.Context, id uuid.UUID) (*Transaction, error)
	ListTransactions(ctx context.Context, filter ListFilter) ([]*Transaction, error)
	UpdateTransaction(ctx context.Context, tx *Transaction) error
	DeleteTransaction(ctx context.Context, id uuid.UUID) error

	// DeleteGroupAfter removes the members of the group dated strictly after the given instant.
	DeleteGroupAfter(ctx context.Context, groupID uuid.UUID, after time.Time) (int64, error)
	// PayGroup marks every pending or overdue member of the group as paid at paidAt.
	PayGroup(ctx context.Context, groupID uuid.UUID, paidAt time.Time) (int64, error)
	// MarkOverdue turns every pending transaction dated before the given instant into overdue.
	MarkOverdue(ctx context.Context, before time.Time) (int64, error)

	// ReplaceTransactions drops every stored transaction and stores txs instead.
	ReplaceTransactions(ctx context.Context, txs []*Transaction) error
}

type ListFilter struct {
	Status    *Status
	Type      *Type
	StartDate *time.Time // Inclusive
	EndDate   *time.Time // Exclusive
	GroupID   *uuid.UUID
	CardID    *uuid.UUID
}

type Service struct {
	repo      Repository
	generator *Generator
	now       func() time.Time
}

type Option func(*Service)

// WithClock sets the source of the current time. Its location defines where a day starts.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// WithRecurrenceMonths sets how many monthly members a fixed recurrence generates.
func WithRecurrenceMonths(months int) Option {
	return func(s *Service) {
		s.generator = NewGenerator(months)
	}
}

func NewService(repo Repository, opts ...Option) *Service {
	s := &Service{
		repo:      repo,
		generator: NewGenerator(DefaultRecurrenceMonths),
		now:       time.Now,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Now returns the current time as seen by the service.
func (s *Service) Now() time.Time {
	return s.now()
}

// Create expands the request into one or more transactions and stores them as a single batch.
// Members dated before today are stored as overdue.
func (s *Service) Create(ctx context.Context, req GenerateRequest) ([]*Transaction, error) {
	txs, err := s.generator.Generate(req)
	if err != nil {
		return nil, err
	}

	now := s.now()
	s.stamp(txs, now)

	if err := s.repo.CreateTransactions(ctx, txs); err != nil {
		return nil, fmt.Errorf("creating transactions: %w", err)
	}

	return txs, nil
}

// CreateParams describes a standalone transaction recorded as-is, without recurrence.
type CreateParams struct {
	Description   string
	Amount        int64
	Type          Type
	Category      string
	Status        Status
	Date          time.Time
	PaymentMethod PaymentMethod
	CardID        *uuid.UUID
}

// Record stores a single standalone transaction. A paid transaction gets PaidAt set to now.
func (s *Service) Record(ctx context.Context, params CreateParams) (*Transaction, error) {
	if strings.TrimSpace(params.Description) == "" {
		return nil, invalid("description is required")
	}

	if params.Amount <= 0 {
		return nil, invalid("amount must be positive")
	}

	if !params.Type.Valid() {
		return nil, invalid("unknown type %q", params.Type)
	}

	if params.Status == "" {
		params.Status = StatusPending
	}

	if !params.Status.Valid() {
		return nil, invalid("unknown status %q", params.Status)
	}

	if params.PaymentMethod == "" {
		params.PaymentMethod = PaymentOther
	}

	now := s.now()
	if params.Date.IsZero() {
		params.Date = now
	}

	tx := &Transaction{
		Description:   strings.TrimSpace(params.Description),
		Amount:        params.Amount,
		Category:      params.Category,
		Type:          params.Type,
		Status:        params.Status,
		Date:          params.Date,
		CardID:        params.CardID,
		PaymentMethod: params.PaymentMethod,
	}

	if tx.Status == StatusPaid {
		tx.PaidAt = &now
	}

	s.stamp([]*Transaction{tx}, now)

	if err := s.repo.CreateTransactions(ctx, []*Transaction{tx}); err != nil {
		return nil, fmt.Errorf("recording transaction: %w", err)
	}

	return tx, nil
}

// AddIncome records income that has already been received.
func (s *Service) AddIncome(ctx context.Context, description string, amount int64, date time.Time, category string) (*Transaction, error) {
	return s.Record(ctx, CreateParams{
		Description: description,
		Amount:      amount,
		Type:        TypeIncome,
		Category:    category,
		Status:      StatusPaid,
		Date:        date,
	})
}

func (s *Service) stamp(txs []*Transaction, now time.Time) {
	for _, tx := range txs {
		tx.ID = uuid.New()
		tx.CreatedAt = now
		tx.sweep(now)
	}
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Transaction, error) {
	return s.repo.GetTransaction(ctx, id)
}

func (s *Service) List(ctx context.Context, filter ListFilter) ([]*Transaction, error) {
	return s.repo.ListTransactions(ctx, filter)
}

// ListMonth returns the transactions dated inside the given month.
func (s *Service) ListMonth(ctx context.Context, year int, month time.Month) ([]*Transaction, error) {
	start, end := calendar.MonthRange(year, month, s.now().Location())

	return s.repo.ListTransactions(ctx, ListFilter{StartDate: &start, EndDate: &end})
}

// EditParams holds the user-editable fields of a transaction. Nil fields are left untouched.
type EditParams struct {
	Description *string
	Amount      *int64
}

// Update edits the description and amount of a single transaction.
// Dates and recurrence metadata never change after generation.
func (s *Service) Update(ctx context.Context, id uuid.UUID, params EditParams) (*Transaction, error) {
	if params.Description != nil && strings.TrimSpace(*params.Description) == "" {
		return nil, invalid("description cannot be empty")
	}

	if params.Amount != nil && *params.Amount <= 0 {
		return nil, invalid("amount must be positive")
	}

	tx, err := s.repo.GetTransaction(ctx, id)
	if err != nil {
		return nil, err
	}

	if params.Description != nil {
		tx.Description = strings.TrimSpace(*params.Description)
	}

	if params.Amount != nil {
		tx.Amount = *params.Amount
	}

	if err := s.repo.UpdateTransaction(ctx, tx); err != nil {
		return nil, fmt.Errorf("updating transaction: %w", err)
	}

	return tx, nil
}

// UpdateStatus applies a user status change: paying sets PaidAt, reverting to pending clears it.
func (s *Service) UpdateStatus(ctx context.Context, id uuid.UUID, status Status) (*Transaction, error) {
	tx, err := s.repo.GetTransaction(ctx, id)
	if err != nil {
		return nil, err
	}

	switch status {
	case StatusPaid:
		err = tx.MarkPaid(s.now())
	case StatusPending:
		err = tx.MarkPending()
	default:
		err = fmt.Errorf("%w: %s cannot be set by hand", ErrInvalidTransition, status)
	}

	if err != nil {
		return nil, err
	}

	if err := s.repo.UpdateTransaction(ctx, tx); err != nil {
		return nil, fmt.Errorf("updating status: %w", err)
	}

	return tx, nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.DeleteTransaction(ctx, id)
}

// StopRecurrence permanently deletes the members of ref's group dated after ref.
// Members on or before ref's date are kept.
func (s *Service) StopRecurrence(ctx context.Context, id uuid.UUID) (int64, error) {
	ref, err := s.repo.GetTransaction(ctx, id)
	if err != nil {
		return 0, err
	}

	if !ref.InGroup() {
		return 0, ErrNotGrouped
	}

	n, err := s.repo.DeleteGroupAfter(ctx, *ref.GroupID, ref.Date)
	if err != nil {
		return 0, fmt.Errorf("stopping recurrence: %w", err)
	}

	return n, nil
}

// Anticipate pays every pending or overdue member of ref's group now.
// Members already paid keep their original PaidAt.
func (s *Service) Anticipate(ctx context.Context, id uuid.UUID) (int64, error) {
	ref, err := s.repo.GetTransaction(ctx, id)
	if err != nil {
		return 0, err
	}

	if !ref.InGroup() {
		return 0, ErrNotGrouped
	}

	n, err := s.repo.PayGroup(ctx, *ref.GroupID, s.now())
	if err != nil {
		return 0, fmt.Errorf("anticipating installments: %w", err)
	}

	return n, nil
}

// HasFutureRecurrences reports whether stopping ref's recurrence would delete anything.
func (s *Service) HasFutureRecurrences(ctx context.Context, ref *Transaction) (bool, error) {
	if !ref.InGroup() || !ref.IsRecurring {
		return false, nil
	}

	members, err := s.repo.ListTransactions(ctx, ListFilter{GroupID: ref.GroupID})
	if err != nil {
		return false, fmt.Errorf("listing group: %w", err)
	}

	for _, m := range members {
		if m.Date.After(ref.Date) {
			return true, nil
		}
	}

	return false, nil
}

// HasPendingInstallments reports whether anticipating ref's installments would pay anything.
func (s *Service) HasPendingInstallments(ctx context.Context, ref *Transaction) (bool, error) {
	if !ref.InGroup() || !ref.IsInstallment() {
		return false, nil
	}

	members, err := s.repo.ListTransactions(ctx, ListFilter{GroupID: ref.GroupID})
	if err != nil {
		return false, fmt.Errorf("listing group: %w", err)
	}

	for _, m := range members {
		if m.Status == StatusPending || m.Status == StatusOverdue {
			return true, nil
		}
	}

	return false, nil
}

// SweepOverdue reclassifies every pending transaction dated before today as overdue.
func (s *Service) SweepOverdue(ctx context.Context) (int64, error) {
	today := calendar.StartOfDay(s.now())

	n, err := s.repo.MarkOverdue(ctx, today)
	if err != nil {
		return 0, fmt.Errorf("sweeping overdue transactions: %w", err)
	}

	return n, nil
}

// Replace swaps the whole ledger for txs, as done when restoring a backup, then sweeps.
func (s *Service) Replace(ctx context.Context, txs []*Transaction) error {
	for _, tx := range txs {
		if tx.ID == uuid.Nil {
			tx.ID = uuid.New()
		}

		if tx.Status == StatusPaid && tx.PaidAt == nil {
			paidAt := tx.Date
			tx.PaidAt = &paidAt
		}

		if tx.Status != StatusPaid {
			tx.PaidAt = nil
		}
	}

	if err := s.repo.ReplaceTransactions(ctx, txs); err != nil {
		return fmt.Errorf("replacing transactions: %w", err)
	}

	if _, err := s.SweepOverdue(ctx); err != nil {
		return err
	}

	return nil
}
