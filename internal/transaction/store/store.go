package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/aion/internal/transaction"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// execer is satisfied by both *sql.DB and *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

const selectTransactionColumns = `
	id, group_id, description, amount, category, type, status, date, paid_at,
	is_recurring, installment_current, installment_total, card_id, payment_method, created_at
`

// scanTransaction reads a transaction row in selectTransactionColumns order.
func scanTransaction(s scanner) (*transaction.Transaction, error) {
	var tx transaction.Transaction

	var typeStr, statusStr, methodStr string

	var paidAt sql.NullTime

	if err := s.Scan(
		&tx.ID, &tx.GroupID, &tx.Description, &tx.Amount, &tx.Category, &typeStr, &statusStr, &tx.Date, &paidAt,
		&tx.IsRecurring, &tx.InstallmentCurrent, &tx.InstallmentTotal, &tx.CardID, &methodStr, &tx.CreatedAt,
	); err != nil {
		return nil, err
	}

	tx.Type = transaction.Type(typeStr)
	tx.Status = transaction.Status(statusStr)
	tx.PaymentMethod = transaction.PaymentMethod(methodStr)

	if paidAt.Valid {
		tx.PaidAt = &paidAt.Time
	}

	return &tx, nil
}

const insertTransaction = `
	INSERT INTO transactions (` + selectTransactionColumns + `)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
`

func insert(ctx context.Context, e execer, txs []*transaction.Transaction) error {
	for _, tx := range txs {
		_, err := e.ExecContext(ctx, insertTransaction,
			tx.ID,
			tx.GroupID,
			tx.Description,
			tx.Amount,
			tx.Category,
			tx.Type,
			tx.Status,
			tx.Date,
			tx.PaidAt,
			tx.IsRecurring,
			tx.InstallmentCurrent,
			tx.InstallmentTotal,
			tx.CardID,
			tx.PaymentMethod,
			tx.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("inserting transaction %s: %w", tx.ID, err)
		}
	}

	return nil
}

// CreateTransactions inserts the batch inside one database transaction.
func (s *Store) CreateTransactions(ctx context.Context, txs []*transaction.Transaction) error {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer dbTx.Rollback()

	if err := insert(ctx, dbTx, txs); err != nil {
		return err
	}

	if err := dbTx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}

	return nil
}

func (s *Store) GetTransaction(ctx context.Context, id uuid.UUID) (*transaction.Transaction, error) {
	query := `SELECT ` + selectTransactionColumns + ` FROM transactions WHERE id = $1`

	tx, err := scanTransaction(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, transaction.ErrNotFound
		}

		return nil, fmt.Errorf("getting transaction: %w", err)
	}

	return tx, nil
}

func (s *Store) ListTransactions(ctx context.Context, filter transaction.ListFilter) ([]*transaction.Transaction, error) {
	query := `SELECT ` + selectTransactionColumns + ` FROM transactions WHERE TRUE`

	var args []any

	argIdx := 1

	add := func(cond string, v any) {
		query += fmt.Sprintf(" AND "+cond, argIdx)

		args = append(args, v)
		argIdx++
	}

	if filter.Status != nil {
		add("status = $%d", *filter.Status)
	}

	if filter.Type != nil {
		add("type = $%d", *filter.Type)
	}

	if filter.StartDate != nil {
		add("date >= $%d", *filter.StartDate)
	}

	if filter.EndDate != nil {
		add("date < $%d", *filter.EndDate)
	}

	if filter.GroupID != nil {
		add("group_id = $%d", *filter.GroupID)
	}

	if filter.CardID != nil {
		add("card_id = $%d", *filter.CardID)
	}

	query += " ORDER BY date ASC, installment_current ASC, created_at ASC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing transactions: %w", err)
	}
	defer rows.Close()

	var txs []*transaction.Transaction

	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning transaction: %w", err)
		}

		txs = append(txs, tx)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating transactions: %w", err)
	}

	return txs, nil
}

func (s *Store) UpdateTransaction(ctx context.Context, tx *transaction.Transaction) error {
	query := `
		UPDATE transactions
		SET description = $1, amount = $2, status = $3, paid_at = $4
		WHERE id = $5
	`

	res, err := s.db.ExecContext(ctx, query,
		tx.Description,
		tx.Amount,
		tx.Status,
		tx.PaidAt,
		tx.ID,
	)
	if err != nil {
		return fmt.Errorf("updating transaction: %w", err)
	}

	return requireRow(res)
}

func (s *Store) DeleteTransaction(ctx context.Context, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM transactions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting transaction: %w", err)
	}

	return requireRow(res)
}

func (s *Store) DeleteGroupAfter(ctx context.Context, groupID uuid.UUID, after time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM transactions WHERE group_id = $1 AND date > $2`, groupID, after)
	if err != nil {
		return 0, fmt.Errorf("deleting group members: %w", err)
	}

	return res.RowsAffected()
}

func (s *Store) PayGroup(ctx context.Context, groupID uuid.UUID, paidAt time.Time) (int64, error) {
	query := `
		UPDATE transactions
		SET status = $1, paid_at = $2
		WHERE group_id = $3 AND status IN ($4, $5)
	`

	res, err := s.db.ExecContext(ctx, query,
		transaction.StatusPaid, paidAt, groupID, transaction.StatusPending, transaction.StatusOverdue,
	)
	if err != nil {
		return 0, fmt.Errorf("paying group: %w", err)
	}

	return res.RowsAffected()
}

func (s *Store) MarkOverdue(ctx context.Context, before time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`UPDATE transactions SET status = $1 WHERE status = $2 AND date < $3`,
		transaction.StatusOverdue, transaction.StatusPending, before,
	)
	if err != nil {
		return 0, fmt.Errorf("marking overdue: %w", err)
	}

	return res.RowsAffected()
}

func (s *Store) ReplaceTransactions(ctx context.Context, txs []*transaction.Transaction) error {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer dbTx.Rollback()

	if _, err := dbTx.ExecContext(ctx, `DELETE FROM transactions`); err != nil {
		return fmt.Errorf("clearing transactions: %w", err)
	}

	if err := insert(ctx, dbTx, txs); err != nil {
		return err
	}

	if err := dbTx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}

	return nil
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("reading affected rows: %w", err)
	}

	if n == 0 {
		return transaction.ErrNotFound
	}

	return nil
}
