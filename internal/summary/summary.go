package summary

import (
	"cmp"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/aion/internal/card"
	"github.com/MrJamesThe3rd/aion/internal/transaction"
)

// Month holds the dashboard totals of one calendar month. Amounts are in cents.
type Month struct {
	Year  int
	Month time.Month

	Income    int64 // income dated in the month, any status
	Paid      int64 // paid expenses
	Remaining int64 // pending and overdue expenses
	Overdue   int64 // overdue expenses only, a subset of Remaining
	Balance   int64 // Income - (Paid + Remaining)

	// AccumulatedSurplus is the paid income minus paid expenses of every earlier month, floored at zero.
	AccumulatedSurplus int64
	Total              int64 // Balance + AccumulatedSurplus

	ByCategory []CategoryTotal
}

type CategoryTotal struct {
	Category string
	Amount   int64
}

// Aggregate computes the month totals. monthTxs must hold the transactions dated in the month
// and history the paid ones dated before it.
func Aggregate(year int, month time.Month, monthTxs, history []*transaction.Transaction) Month {
	m := Month{Year: year, Month: month}

	byCategory := map[string]int64{}

	for _, tx := range monthTxs {
		if tx.Type == transaction.TypeIncome {
			m.Income += tx.Amount
			continue
		}

		switch tx.Status {
		case transaction.StatusPaid:
			m.Paid += tx.Amount
		case transaction.StatusOverdue:
			m.Overdue += tx.Amount
			m.Remaining += tx.Amount
		case transaction.StatusPending:
			m.Remaining += tx.Amount
		}

		byCategory[tx.Category] += tx.Amount
	}

	m.Balance = m.Income - (m.Paid + m.Remaining)

	var surplus int64

	for _, tx := range history {
		if tx.Status != transaction.StatusPaid {
			continue
		}

		if tx.Type == transaction.TypeIncome {
			surplus += tx.Amount
		} else {
			surplus -= tx.Amount
		}
	}

	m.AccumulatedSurplus = max(surplus, 0)
	m.Total = m.Balance + m.AccumulatedSurplus

	for category, amount := range byCategory {
		m.ByCategory = append(m.ByCategory, CategoryTotal{Category: category, Amount: amount})
	}

	slices.SortFunc(m.ByCategory, func(a, b CategoryTotal) int {
		if c := cmp.Compare(b.Amount, a.Amount); c != 0 {
			return c
		}

		return cmp.Compare(a.Category, b.Category)
	})

	return m
}

// CardUsage is how much of a card limit is committed to expenses not yet paid.
type CardUsage struct {
	Card      *card.Card
	Used      int64
	Available int64
}

// Usage sums the unpaid expenses of each card. Transactions pointing at unknown cards are ignored.
func Usage(cards []*card.Card, txs []*transaction.Transaction) []CardUsage {
	used := make(map[uuid.UUID]int64, len(cards))

	for _, tx := range txs {
		if tx.CardID == nil || tx.Type != transaction.TypeExpense || tx.Status == transaction.StatusPaid {
			continue
		}

		used[*tx.CardID] += tx.Amount
	}

	out := make([]CardUsage, 0, len(cards))

	for _, c := range cards {
		out = append(out, CardUsage{
			Card:      c,
			Used:      used[c.ID],
			Available: c.LimitTotal - used[c.ID],
		})
	}

	return out
}
