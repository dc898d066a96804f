package transaction

import "errors"

var (
	ErrNotFound          = errors.New("transaction not found")
	ErrInvalidInput      = errors.New("invalid transaction input")
	ErrNotGrouped        = errors.New("transaction is not part of a recurrence or installment group")
	ErrInvalidTransition = errors.New("invalid status transition")
)
