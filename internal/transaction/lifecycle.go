package transaction

import (
	"fmt"
	"time"

	"github.com/MrJamesThe3rd/aion/internal/calendar"
)

// CanTransition reports whether a transaction may move from one status to another.
//
//	pending -> overdue   (automatic, time driven)
//	pending -> paid      (user)
//	overdue -> paid      (user)
//	paid    -> pending   (user)
func CanTransition(from, to Status) bool {
	switch to {
	case StatusPaid:
		return from == StatusPending || from == StatusOverdue
	case StatusPending:
		return from == StatusPaid
	case StatusOverdue:
		return from == StatusPending
	}

	return false
}

// IsPastDue reports whether a pending transaction is dated strictly before the start of the day of now.
func IsPastDue(tx *Transaction, now time.Time) bool {
	return tx.Status == StatusPending && tx.Date.Before(calendar.StartOfDay(now))
}

// MarkPaid settles the transaction at the given instant.
func (t *Transaction) MarkPaid(at time.Time) error {
	if !CanTransition(t.Status, StatusPaid) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, t.Status, StatusPaid)
	}

	t.Status = StatusPaid
	t.PaidAt = &at

	return nil
}

// MarkPending reverts a paid transaction.
func (t *Transaction) MarkPending() error {
	if !CanTransition(t.Status, StatusPending) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, t.Status, StatusPending)
	}

	t.Status = StatusPending
	t.PaidAt = nil

	return nil
}

// sweep reclassifies the transaction as overdue when it is past due. It returns true on change.
func (t *Transaction) sweep(now time.Time) bool {
	if !IsPastDue(t, now) {
		return false
	}

	t.Status = StatusOverdue

	return true
}

// Sweep applies the overdue rule to every transaction in place and returns how many changed.
// Running it twice has no further effect.
func Sweep(txs []*Transaction, now time.Time) int {
	changed := 0

	for _, tx := range txs {
		if tx.sweep(now) {
			changed++
		}
	}

	return changed
}
