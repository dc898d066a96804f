package goal

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotFound          = errors.New("goal not found")
	ErrInvalidInput      = errors.New("invalid goal input")
	ErrInsufficientFunds = errors.New("withdrawal exceeds the amount saved")
)

// Goal is a savings target. Amounts are in cents.
type Goal struct {
	ID            uuid.UUID
	Title         string
	TargetAmount  int64
	CurrentAmount int64
	Deadline      *time.Time
	CreatedAt     time.Time
}

// Progress returns how much of the target has been saved, as a percentage capped at 100.
func (g *Goal) Progress() float64 {
	if g.TargetAmount <= 0 {
		return 0
	}

	p := float64(g.CurrentAmount) / float64(g.TargetAmount) * 100
	if p > 100 {
		return 100
	}

	return p
}

// Remaining returns how much is still missing to reach the target.
func (g *Goal) Remaining() int64 {
	return max(g.TargetAmount-g.CurrentAmount, 0)
}
