package card

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

var (
	ErrNotFound     = errors.New("card not found")
	ErrInvalidInput = errors.New("invalid card input")
)

// Card is a credit card that expenses may reference. Its limit is in cents.
type Card struct {
	ID         uuid.UUID
	Name       string
	HolderName string
	LimitTotal int64
	ClosingDay int
	DueDay     int
	Color      string
	IsArchived bool
}

// Params holds the user-editable fields of a card.
type Params struct {
	Name       string
	HolderName string
	LimitTotal int64
	ClosingDay int
	DueDay     int
	Color      string
}

func (p Params) validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidInput)
	}

	if p.LimitTotal < 0 {
		return fmt.Errorf("%w: limit cannot be negative", ErrInvalidInput)
	}

	if p.ClosingDay < 1 || p.ClosingDay > 31 {
		return fmt.Errorf("%w: closing day must be between 1 and 31", ErrInvalidInput)
	}

	if p.DueDay < 1 || p.DueDay > 31 {
		return fmt.Errorf("%w: due day must be between 1 and 31", ErrInvalidInput)
	}

	return nil
}

func (c *Card) apply(p Params) {
	c.Name = strings.TrimSpace(p.Name)
	c.HolderName = strings.TrimSpace(p.HolderName)
	c.LimitTotal = p.LimitTotal
	c.ClosingDay = p.ClosingDay
	c.DueDay = p.DueDay
	c.Color = p.Color
}
