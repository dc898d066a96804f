// Package snapshot defines the JSON documents used for local persistence and backups.
// The layout matches the backup files of the web edition of the app: camelCase keys,
// amounts in reais, dates as "YYYY-MM-DD" and free-form string IDs.
package snapshot

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/aion/internal/calendar"
	"github.com/MrJamesThe3rd/aion/internal/card"
	"github.com/MrJamesThe3rd/aion/internal/goal"
	"github.com/MrJamesThe3rd/aion/internal/money"
	"github.com/MrJamesThe3rd/aion/internal/transaction"
)

const dayLayout = "2006-01-02"

// legacyNamespace derives stable UUIDs from IDs that are not UUIDs, so that members of a group
// imported from an old backup still share one GroupID.
var legacyNamespace = uuid.MustParse("6f1c3c2e-8d0a-4b36-9b8e-2f4a7d9c0e51")

// ParseID accepts a UUID or any other non-empty string.
func ParseID(s string) (uuid.UUID, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return uuid.Nil, fmt.Errorf("empty id")
	}

	if id, err := uuid.Parse(s); err == nil {
		return id, nil
	}

	return uuid.NewSHA1(legacyNamespace, []byte(s)), nil
}

func optionalID(s string) (*uuid.UUID, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}

	id, err := ParseID(s)
	if err != nil {
		return nil, err
	}

	return &id, nil
}

func idString(id *uuid.UUID) string {
	if id == nil {
		return ""
	}

	return id.String()
}

// parseTime accepts RFC 3339 timestamps and bare dates, the latter at midnight in loc.
// Timestamps are returned in loc.
func parseTime(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)

	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t.In(loc), nil
	}

	if len(s) >= len(dayLayout) {
		if t, err := time.ParseInLocation(dayLayout, s[:len(dayLayout)], loc); err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("invalid date %q", s)
}

func optionalTime(s string, loc *time.Location) (*time.Time, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}

	t, err := parseTime(s, loc)
	if err != nil {
		return nil, err
	}

	return &t, nil
}

func timeString(t *time.Time) string {
	if t == nil {
		return ""
	}

	return t.Format(time.RFC3339)
}

type Transaction struct {
	ID                 string      `json:"id"`
	GroupID            string      `json:"groupId,omitempty"`
	CardID             string      `json:"cardId,omitempty"`
	Description        string      `json:"description"`
	Amount             money.Reais `json:"amount"`
	Date               string      `json:"date"`
	PaidAt             string      `json:"paidAt,omitempty"`
	Type               string      `json:"type"`
	Category           string      `json:"category"`
	Status             string      `json:"status"`
	IsRecurring        bool        `json:"isRecurring,omitempty"`
	InstallmentCurrent int         `json:"installmentCurrent,omitempty"`
	InstallmentTotal   int         `json:"installmentTotal,omitempty"`
	PaymentMethod      string      `json:"paymentMethod,omitempty"`
	CreatedAt          string      `json:"createdAt,omitempty"`
}

func FromTransaction(tx *transaction.Transaction) Transaction {
	out := Transaction{
		ID:                 tx.ID.String(),
		GroupID:            idString(tx.GroupID),
		CardID:             idString(tx.CardID),
		Description:        tx.Description,
		Amount:             money.Reais(tx.Amount),
		Date:               tx.Date.Format(dayLayout),
		PaidAt:             timeString(tx.PaidAt),
		Type:               strings.ToUpper(string(tx.Type)),
		Category:           tx.Category,
		Status:             string(tx.Status),
		IsRecurring:        tx.IsRecurring,
		InstallmentCurrent: tx.InstallmentCurrent,
		InstallmentTotal:   tx.InstallmentTotal,
		PaymentMethod:      string(tx.PaymentMethod),
	}

	if !tx.CreatedAt.IsZero() {
		out.CreatedAt = tx.CreatedAt.Format(time.RFC3339)
	}

	return out
}

// ToTransaction validates the document and converts it. Dates without a zone are read in loc;
// timestamps are moved to loc and the due date is the day they fall on there.
// PaidAt is kept only for paid transactions and defaults to the due date.
func (d Transaction) ToTransaction(loc *time.Location) (*transaction.Transaction, error) {
	id, err := ParseID(d.ID)
	if err != nil {
		return nil, err
	}

	tx := &transaction.Transaction{
		ID:                 id,
		Description:        d.Description,
		Amount:             int64(d.Amount),
		Category:           d.Category,
		Type:               transaction.Type(strings.ToLower(d.Type)),
		Status:             transaction.Status(strings.ToLower(d.Status)),
		IsRecurring:        d.IsRecurring,
		InstallmentCurrent: d.InstallmentCurrent,
		InstallmentTotal:   d.InstallmentTotal,
		PaymentMethod:      transaction.PaymentMethod(d.PaymentMethod),
	}

	if tx.PaymentMethod == "" {
		tx.PaymentMethod = transaction.PaymentOther
	}

	if !tx.Type.Valid() || !tx.Status.Valid() || !tx.PaymentMethod.Valid() {
		return nil, fmt.Errorf("transaction %s: unknown type, status or payment method", d.ID)
	}

	if tx.Amount <= 0 {
		return nil, fmt.Errorf("transaction %s: amount must be positive", d.ID)
	}

	if tx.GroupID, err = optionalID(d.GroupID); err != nil {
		return nil, err
	}

	if tx.CardID, err = optionalID(d.CardID); err != nil {
		return nil, err
	}

	date, err := parseTime(d.Date, loc)
	if err != nil {
		return nil, fmt.Errorf("transaction %s: %w", d.ID, err)
	}

	tx.Date = calendar.StartOfDay(date)

	if tx.PaidAt, err = optionalTime(d.PaidAt, loc); err != nil {
		return nil, fmt.Errorf("transaction %s: %w", d.ID, err)
	}

	switch {
	case tx.Status != transaction.StatusPaid:
		tx.PaidAt = nil
	case tx.PaidAt == nil:
		tx.PaidAt = new(tx.Date)
	}

	if d.CreatedAt != "" {
		if tx.CreatedAt, err = parseTime(d.CreatedAt, loc); err != nil {
			return nil, fmt.Errorf("transaction %s: %w", d.ID, err)
		}
	}

	return tx, nil
}

type Card struct {
	ID         string      `json:"id"`
	Name       string      `json:"name"`
	HolderName string      `json:"holderName"`
	LimitTotal money.Reais `json:"limitTotal"`
	ClosingDay int         `json:"closingDay"`
	DueDay     int         `json:"dueDay"`
	Color      string      `json:"color,omitempty"`
	IsArchived bool        `json:"isArchived,omitempty"`
}

func FromCard(c *card.Card) Card {
	return Card{
		ID:         c.ID.String(),
		Name:       c.Name,
		HolderName: c.HolderName,
		LimitTotal: money.Reais(c.LimitTotal),
		ClosingDay: c.ClosingDay,
		DueDay:     c.DueDay,
		Color:      c.Color,
		IsArchived: c.IsArchived,
	}
}

func (d Card) ToCard() (*card.Card, error) {
	id, err := ParseID(d.ID)
	if err != nil {
		return nil, err
	}

	return &card.Card{
		ID:         id,
		Name:       d.Name,
		HolderName: d.HolderName,
		LimitTotal: int64(d.LimitTotal),
		ClosingDay: d.ClosingDay,
		DueDay:     d.DueDay,
		Color:      d.Color,
		IsArchived: d.IsArchived,
	}, nil
}

type Goal struct {
	ID            string      `json:"id"`
	Title         string      `json:"title"`
	TargetAmount  money.Reais `json:"targetAmount"`
	CurrentAmount money.Reais `json:"currentAmount"`
	Deadline      string      `json:"deadline,omitempty"`
	CreatedAt     string      `json:"createdAt"`
}

func FromGoal(g *goal.Goal) Goal {
	return Goal{
		ID:            g.ID.String(),
		Title:         g.Title,
		TargetAmount:  money.Reais(g.TargetAmount),
		CurrentAmount: money.Reais(g.CurrentAmount),
		Deadline:      timeString(g.Deadline),
		CreatedAt:     g.CreatedAt.Format(time.RFC3339),
	}
}

func (d Goal) ToGoal(loc *time.Location) (*goal.Goal, error) {
	id, err := ParseID(d.ID)
	if err != nil {
		return nil, err
	}

	g := &goal.Goal{
		ID:            id,
		Title:         d.Title,
		TargetAmount:  int64(d.TargetAmount),
		CurrentAmount: int64(d.CurrentAmount),
	}

	if g.Deadline, err = optionalTime(d.Deadline, loc); err != nil {
		return nil, fmt.Errorf("goal %s: %w", d.ID, err)
	}

	if d.CreatedAt != "" {
		if g.CreatedAt, err = parseTime(d.CreatedAt, loc); err != nil {
			return nil, fmt.Errorf("goal %s: %w", d.ID, err)
		}
	}

	return g, nil
}

// Transactions converts every document, failing on the first invalid one.
func Transactions(docs []Transaction, loc *time.Location) ([]*transaction.Transaction, error) {
	out := make([]*transaction.Transaction, 0, len(docs))

	for _, d := range docs {
		tx, err := d.ToTransaction(loc)
		if err != nil {
			return nil, err
		}

		out = append(out, tx)
	}

	return out, nil
}

func Cards(docs []Card) ([]*card.Card, error) {
	out := make([]*card.Card, 0, len(docs))

	for _, d := range docs {
		c, err := d.ToCard()
		if err != nil {
			return nil, err
		}

		out = append(out, c)
	}

	return out, nil
}

func Goals(docs []Goal, loc *time.Location) ([]*goal.Goal, error) {
	out := make([]*goal.Goal, 0, len(docs))

	for _, d := range docs {
		g, err := d.ToGoal(loc)
		if err != nil {
			return nil, err
		}

		out = append(out, g)
	}

	return out, nil
}
