package transaction

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/aion/internal/calendar"
	"github.com/MrJamesThe3rd/aion/internal/money"
)

// DefaultRecurrenceMonths is how many months ahead a fixed recurrence is generated.
const DefaultRecurrenceMonths = 12

// maxBusinessDay is the largest weekday count any month can have.
const maxBusinessDay = 23

// Recurrence selects how a single request expands into ledger entries.
type Recurrence string

const (
	RecurrenceSingle       Recurrence = "single"
	RecurrenceFixed        Recurrence = "fixed"
	RecurrenceInstallments Recurrence = "installments"
)

// InstallmentMode tells whether the requested amount is the purchase total or the value of each installment.
type InstallmentMode string

const (
	InstallmentTotal InstallmentMode = "total"
	InstallmentEach  InstallmentMode = "per_installment"
)

// GenerateRequest is the user's input for a new transaction, possibly recurring.
type GenerateRequest struct {
	Description   string
	Amount        int64 // Amount in cents
	Date          time.Time
	Type          Type
	Category      string
	Recurrence    Recurrence
	CardID        *uuid.UUID
	PaymentMethod PaymentMethod

	// NthDay aligns every member to the n-th business day of its month. Zero disables it.
	// It takes precedence over WorkDaysOnly.
	NthDay int
	// WorkDaysOnly moves members that fall on a weekend to the following Monday.
	WorkDaysOnly bool

	InstallmentCount int
	InstallmentMode  InstallmentMode // Defaults to InstallmentTotal
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}

// Validate rejects incomplete or inconsistent requests before anything is generated.
func (r GenerateRequest) Validate() error {
	if strings.TrimSpace(r.Description) == "" {
		return invalid("description is required")
	}

	if r.Amount <= 0 {
		return invalid("amount must be positive")
	}

	if r.Date.IsZero() {
		return invalid("date is required")
	}

	if !r.Type.Valid() {
		return invalid("unknown type %q", r.Type)
	}

	if r.PaymentMethod != "" && !r.PaymentMethod.Valid() {
		return invalid("unknown payment method %q", r.PaymentMethod)
	}

	if r.PaymentMethod == PaymentCreditCard && r.CardID == nil {
		return invalid("a card must be selected for credit card purchases")
	}

	if r.NthDay < 0 || r.NthDay > maxBusinessDay {
		return invalid("business day must be between 1 and %d", maxBusinessDay)
	}

	switch r.Recurrence {
	case RecurrenceSingle, RecurrenceFixed, "":
	case RecurrenceInstallments:
		if r.InstallmentCount < 2 {
			return invalid("installment count must be at least 2")
		}

		if r.InstallmentMode != "" && r.InstallmentMode != InstallmentTotal && r.InstallmentMode != InstallmentEach {
			return invalid("unknown installment mode %q", r.InstallmentMode)
		}
	default:
		return invalid("unknown recurrence %q", r.Recurrence)
	}

	return nil
}

// Generator expands requests into dated transactions.
type Generator struct {
	recurrenceMonths int
}

func NewGenerator(recurrenceMonths int) *Generator {
	if recurrenceMonths <= 0 {
		recurrenceMonths = DefaultRecurrenceMonths
	}

	return &Generator{recurrenceMonths: recurrenceMonths}
}

// Generate returns the pending transactions described by the request, ordered by date.
// IDs and creation timestamps are left for the caller to assign.
func (g *Generator) Generate(req GenerateRequest) ([]*Transaction, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	if req.PaymentMethod == "" {
		req.PaymentMethod = PaymentOther
	}

	base := calendar.StartOfDay(req.Date)

	switch req.Recurrence {
	case RecurrenceFixed:
		return g.fixed(req, base), nil
	case RecurrenceInstallments:
		return g.installments(req, base), nil
	}

	tx := newMember(req, req.Amount, base)
	if req.WorkDaysOnly {
		tx.Date = calendar.NextBusinessDay(tx.Date)
	}

	return []*Transaction{tx}, nil
}

func (g *Generator) fixed(req GenerateRequest, base time.Time) []*Transaction {
	groupID := uuid.New()
	txs := make([]*Transaction, 0, g.recurrenceMonths)

	for i := range g.recurrenceMonths {
		tx := newMember(req, req.Amount, memberDate(req, base, i))
		tx.GroupID = &groupID
		tx.IsRecurring = true

		txs = append(txs, tx)
	}

	return txs
}

func (g *Generator) installments(req GenerateRequest, base time.Time) []*Transaction {
	groupID := uuid.New()
	count := req.InstallmentCount

	var amounts []int64
	if req.InstallmentMode == InstallmentEach {
		amounts = make([]int64, count)
		for i := range amounts {
			amounts[i] = req.Amount
		}
	} else {
		amounts = money.Split(req.Amount, count)
	}

	txs := make([]*Transaction, 0, count)

	for i := range count {
		tx := newMember(req, amounts[i], memberDate(req, base, i))
		tx.GroupID = &groupID
		tx.InstallmentCurrent = i + 1
		tx.InstallmentTotal = count

		txs = append(txs, tx)
	}

	return txs
}

// memberDate returns the date of the i-th member, i months after base.
func memberDate(req GenerateRequest, base time.Time, i int) time.Time {
	if req.NthDay > 0 {
		month := time.Date(base.Year(), base.Month()+time.Month(i), 1, 0, 0, 0, 0, base.Location())
		return calendar.NthBusinessDay(month.Year(), month.Month(), req.NthDay, base.Location())
	}

	d := calendar.AddMonthsClamped(base, i)
	if req.WorkDaysOnly {
		d = calendar.NextBusinessDay(d)
	}

	return d
}

func newMember(req GenerateRequest, amount int64, date time.Time) *Transaction {
	return &Transaction{
		Description:   strings.TrimSpace(req.Description),
		Amount:        amount,
		Category:      req.Category,
		Type:          req.Type,
		Status:        StatusPending,
		Date:          date,
		CardID:        req.CardID,
		PaymentMethod: req.PaymentMethod,
	}
}
