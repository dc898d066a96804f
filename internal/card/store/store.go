package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/aion/internal/card"
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

const selectCardColumns = `id, name, holder_name, card_limit, closing_day, due_day, color, archived`

func scanCard(s scanner) (*card.Card, error) {
	var c card.Card

	if err := s.Scan(&c.ID, &c.Name, &c.HolderName, &c.LimitTotal, &c.ClosingDay, &c.DueDay, &c.Color, &c.IsArchived); err != nil {
		return nil, err
	}

	return &c, nil
}

const insertCard = `INSERT INTO cards (` + selectCardColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

func (s *Store) CreateCard(ctx context.Context, c *card.Card) error {
	_, err := s.db.ExecContext(ctx, insertCard,
		c.ID, c.Name, c.HolderName, c.LimitTotal, c.ClosingDay, c.DueDay, c.Color, c.IsArchived,
	)
	if err != nil {
		return fmt.Errorf("creating card: %w", err)
	}

	return nil
}

func (s *Store) GetCard(ctx context.Context, id uuid.UUID) (*card.Card, error) {
	c, err := scanCard(s.db.QueryRowContext(ctx, `SELECT `+selectCardColumns+` FROM cards WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, card.ErrNotFound
		}

		return nil, fmt.Errorf("getting card: %w", err)
	}

	return c, nil
}

func (s *Store) ListCards(ctx context.Context) ([]*card.Card, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+selectCardColumns+` FROM cards ORDER BY archived, name`)
	if err != nil {
		return nil, fmt.Errorf("listing cards: %w", err)
	}
	defer rows.Close()

	var cards []*card.Card

	for rows.Next() {
		c, err := scanCard(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning card: %w", err)
		}

		cards = append(cards, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating cards: %w", err)
	}

	return cards, nil
}

func (s *Store) UpdateCard(ctx context.Context, c *card.Card) error {
	query := `
		UPDATE cards
		SET name = $1, holder_name = $2, card_limit = $3, closing_day = $4, due_day = $5, color = $6, archived = $7
		WHERE id = $8
	`

	res, err := s.db.ExecContext(ctx, query,
		c.Name, c.HolderName, c.LimitTotal, c.ClosingDay, c.DueDay, c.Color, c.IsArchived, c.ID,
	)
	if err != nil {
		return fmt.Errorf("updating card: %w", err)
	}

	return requireRow(res)
}

func (s *Store) DeleteCard(ctx context.Context, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM cards WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting card: %w", err)
	}

	return requireRow(res)
}

func (s *Store) ReplaceCards(ctx context.Context, cards []*card.Card) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM cards`); err != nil {
		return fmt.Errorf("clearing cards: %w", err)
	}

	for _, c := range cards {
		_, err := tx.ExecContext(ctx, insertCard,
			c.ID, c.Name, c.HolderName, c.LimitTotal, c.ClosingDay, c.DueDay, c.Color, c.IsArchived,
		)
		if err != nil {
			return fmt.Errorf("inserting card %s: %w", c.ID, err)
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
		return card.ErrNotFound
	}

	return nil
}
