package transaction

import (
	"time"

	"github.com/google/uuid"
)

// Type represents the type of transaction (income or expense).
type Type string

const (
	TypeIncome  Type = "income"
	TypeExpense Type = "expense"
)

func (t Type) Valid() bool {
	return t == TypeIncome || t == TypeExpense
}

// Status represents the lifecycle state of a transaction.
type Status string

const (
	StatusPending Status = "pending"
	StatusPaid    Status = "paid"
	StatusOverdue Status = "overdue"
)

func (s Status) Valid() bool {
	return s == StatusPending || s == StatusPaid || s == StatusOverdue
}

// PaymentMethod records how an expense is settled.
type PaymentMethod string

const (
	PaymentCreditCard PaymentMethod = "credit_card"
	PaymentBoleto     PaymentMethod = "boleto"
	PaymentPix        PaymentMethod = "pix"
	PaymentCash       PaymentMethod = "cash"
	PaymentOther      PaymentMethod = "other"
)

func (p PaymentMethod) Valid() bool {
	switch p {
	case PaymentCreditCard, PaymentBoleto, PaymentPix, PaymentCash, PaymentOther:
		return true
	}

	return false
}

// Transaction represents a single ledger entry.
type Transaction struct {
	ID      uuid.UUID
	GroupID *uuid.UUID // Shared by the members of one recurring or installment request

	Description string
	Amount      int64 // Amount in cents, always positive
	Category    string
	Type        Type
	Status      Status

	Date   time.Time
	PaidAt *time.Time

	IsRecurring        bool
	InstallmentCurrent int
	InstallmentTotal   int

	CardID        *uuid.UUID
	PaymentMethod PaymentMethod

	CreatedAt time.Time
}

// IsInstallment reports whether the transaction is one member of an installment purchase.
func (t *Transaction) IsInstallment() bool {
	return t.InstallmentTotal >= 2
}

// InGroup reports whether the transaction shares a group with other transactions.
func (t *Transaction) InGroup() bool {
	return t.GroupID != nil
}
