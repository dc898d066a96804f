package goal

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/MrJamesThe3rd/aion/internal/transaction"
)

const (
	categoryInvestments = "Investimentos"
	categoryOther       = "Outros"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=goal
type Repository interface {
	CreateGoal(ctx context.Context, g *Goal) error
	GetGoal(ctx context.Context, id uuid.UUID) (*Goal, error)
	ListGoals(ctx context.Context) ([]*Goal, error)
	UpdateGoal(ctx context.Context, g *Goal) error
	DeleteGoal(ctx context.Context, id uuid.UUID) error
	ReplaceGoals(ctx context.Context, goals []*Goal) error
}

// Ledger records the transactions that mirror every change to a goal balance.
type Ledger interface {
	Record(ctx context.Context, params transaction.CreateParams) (*transaction.Transaction, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type Service struct {
	repo   Repository
	ledger Ledger
	now    func() time.Time
}

type Option func(*Service)

// WithClock sets the source of the current time, used to date mirror transactions.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

func NewService(repo Repository, ledger Ledger, opts ...Option) *Service {
	s := &Service{
		repo:   repo,
		ledger: ledger,
		now:    time.Now,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

type Params struct {
	Title        string
	TargetAmount int64
	Deadline     *time.Time
}

func (p Params) validate() error {
	if strings.TrimSpace(p.Title) == "" {
		return fmt.Errorf("%w: title is required", ErrInvalidInput)
	}

	if p.TargetAmount <= 0 {
		return fmt.Errorf("%w: target must be positive", ErrInvalidInput)
	}

	return nil
}

func (s *Service) Create(ctx context.Context, params Params) (*Goal, error) {
	if err := params.validate(); err != nil {
		return nil, err
	}

	g := &Goal{
		ID:           uuid.New(),
		Title:        strings.TrimSpace(params.Title),
		TargetAmount: params.TargetAmount,
		Deadline:     params.Deadline,
		CreatedAt:    s.now(),
	}

	if err := s.repo.CreateGoal(ctx, g); err != nil {
		return nil, fmt.Errorf("creating goal: %w", err)
	}

	return g, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Goal, error) {
	return s.repo.GetGoal(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]*Goal, error) {
	return s.repo.ListGoals(ctx)
}

// Update edits title, target and deadline. The saved amount only moves through Deposit and Withdraw.
func (s *Service) Update(ctx context.Context, id uuid.UUID, params Params) (*Goal, error) {
	if err := params.validate(); err != nil {
		return nil, err
	}

	g, err := s.repo.GetGoal(ctx, id)
	if err != nil {
		return nil, err
	}

	g.Title = strings.TrimSpace(params.Title)
	g.TargetAmount = params.TargetAmount
	g.Deadline = params.Deadline

	if err := s.repo.UpdateGoal(ctx, g); err != nil {
		return nil, fmt.Errorf("updating goal: %w", err)
	}

	return g, nil
}

// Deposit moves money into the goal, recorded as a paid expense.
func (s *Service) Deposit(ctx context.Context, id uuid.UUID, amount int64) (*Goal, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("%w: amount must be positive", ErrInvalidInput)
	}

	g, err := s.repo.GetGoal(ctx, id)
	if err != nil {
		return nil, err
	}

	return s.move(ctx, g, amount, transaction.CreateParams{
		Description: "Depósito Meta: " + g.Title,
		Amount:      amount,
		Type:        transaction.TypeExpense,
		Category:    categoryInvestments,
	})
}

// Withdraw takes money out of the goal, recorded as a paid income.
func (s *Service) Withdraw(ctx context.Context, id uuid.UUID, amount int64) (*Goal, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("%w: amount must be positive", ErrInvalidInput)
	}

	g, err := s.repo.GetGoal(ctx, id)
	if err != nil {
		return nil, err
	}

	if amount > g.CurrentAmount {
		return nil, ErrInsufficientFunds
	}

	return s.move(ctx, g, -amount, transaction.CreateParams{
		Description: "Resgate Meta: " + g.Title,
		Amount:      amount,
		Type:        transaction.TypeIncome,
		Category:    categoryInvestments,
	})
}

// move records the mirror transaction, then applies delta to the goal.
// The transaction is removed again when the goal cannot be saved.
func (s *Service) move(ctx context.Context, g *Goal, delta int64, mirror transaction.CreateParams) (*Goal, error) {
	mirror.Status = transaction.StatusPaid
	mirror.PaymentMethod = transaction.PaymentOther
	mirror.Date = s.now()

	tx, err := s.ledger.Record(ctx, mirror)
	if err != nil {
		return nil, fmt.Errorf("recording goal transaction: %w", err)
	}

	g.CurrentAmount += delta

	if err := s.repo.UpdateGoal(ctx, g); err != nil {
		if rbErr := s.ledger.Delete(ctx, tx.ID); rbErr != nil {
			zerolog.Ctx(ctx).Error().Err(rbErr).
				Str("goal_id", g.ID.String()).
				Str("transaction_id", tx.ID.String()).
				Msg("failed to remove goal transaction after update error")

			return nil, fmt.Errorf("updating goal: %w", errors.Join(err, rbErr))
		}

		return nil, fmt.Errorf("updating goal: %w", err)
	}

	return g, nil
}

// Delete removes the goal. With refund, whatever was saved returns to the ledger as a paid income first.
func (s *Service) Delete(ctx context.Context, id uuid.UUID, refund bool) error {
	g, err := s.repo.GetGoal(ctx, id)
	if err != nil {
		return err
	}

	if refund && g.CurrentAmount > 0 {
		_, err := s.ledger.Record(ctx, transaction.CreateParams{
			Description:   "Devolução: " + g.Title,
			Amount:        g.CurrentAmount,
			Type:          transaction.TypeIncome,
			Category:      categoryOther,
			Status:        transaction.StatusPaid,
			PaymentMethod: transaction.PaymentOther,
			Date:          s.now(),
		})
		if err != nil {
			return fmt.Errorf("recording refund: %w", err)
		}
	}

	if err := s.repo.DeleteGoal(ctx, id); err != nil {
		return fmt.Errorf("deleting goal: %w", err)
	}

	return nil
}

func (s *Service) Replace(ctx context.Context, goals []*Goal) error {
	if err := s.repo.ReplaceGoals(ctx, goals); err != nil {
		return fmt.Errorf("replacing goals: %w", err)
	}

	return nil
}
