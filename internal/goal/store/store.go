package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/aion/internal/goal"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

const selectGoalColumns = `id, title, target_amount, current_amount, deadline, created_at`

func scanGoal(s scanner) (*goal.Goal, error) {
	var g goal.Goal

	var deadline sql.NullTime

	if err := s.Scan(&g.ID, &g.Title, &g.TargetAmount, &g.CurrentAmount, &deadline, &g.CreatedAt); err != nil {
		return nil, err
	}

	if deadline.Valid {
		g.Deadline = &deadline.Time
	}

	return &g, nil
}

const insertGoal = `INSERT INTO goals (` + selectGoalColumns + `) VALUES ($1, $2, $3, $4, $5, $6)`

func (s *Store) CreateGoal(ctx context.Context, g *goal.Goal) error {
	if _, err := s.db.ExecContext(ctx, insertGoal,
		g.ID, g.Title, g.TargetAmount, g.CurrentAmount, g.Deadline, g.CreatedAt,
	); err != nil {
		return fmt.Errorf("creating goal: %w", err)
	}

	return nil
}

func (s *Store) GetGoal(ctx context.Context, id uuid.UUID) (*goal.Goal, error) {
	g, err := scanGoal(s.db.QueryRowContext(ctx, `SELECT `+selectGoalColumns+` FROM goals WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, goal.ErrNotFound
		}

		return nil, fmt.Errorf("getting goal: %w", err)
	}

	return g, nil
}

func (s *Store) ListGoals(ctx context.Context) ([]*goal.Goal, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+selectGoalColumns+` FROM goals ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("listing goals: %w", err)
	}
	defer rows.Close()

	var goals []*goal.Goal

	for rows.Next() {
		g, err := scanGoal(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning goal: %w", err)
		}

		goals = append(goals, g)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating goals: %w", err)
	}

	return goals, nil
}

func (s *Store) UpdateGoal(ctx context.Context, g *goal.Goal) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE goals SET title = $1, target_amount = $2, current_amount = $3, deadline = $4 WHERE id = $5`,
		g.Title, g.TargetAmount, g.CurrentAmount, g.Deadline, g.ID,
	)
	if err != nil {
		return fmt.Errorf("updating goal: %w", err)
	}

	return requireRow(res)
}

func (s *Store) DeleteGoal(ctx context.Context, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM goals WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting goal: %w", err)
	}

	return requireRow(res)
}

func (s *Store) ReplaceGoals(ctx context.Context, goals []*goal.Goal) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM goals`); err != nil {
		return fmt.Errorf("clearing goals: %w", err)
	}

	for _, g := range goals {
		if _, err := tx.ExecContext(ctx, insertGoal,
			g.ID, g.Title, g.TargetAmount, g.CurrentAmount, g.Deadline, g.CreatedAt,
		); err != nil {
			return fmt.Errorf("inserting goal %s: %w", g.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
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
		return goal.ErrNotFound
	}

	return nil
}
