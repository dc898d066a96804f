package view

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/MrJamesThe3rd/aion/internal/money"
	"github.com/MrJamesThe3rd/aion/internal/transaction"
)

const dbTimeout = 5 * time.Second

// FormatAmount formats an amount stored as cents as Brazilian reais.
func FormatAmount(cents int64) string {
	return money.Format(cents)
}

// FormatDate formats a time.Time as DD/MM/YYYY.
func FormatDate(t time.Time) string {
	return t.Format("02/01/2006")
}

// ParseDate accepts DD/MM/YYYY or YYYY-MM-DD in loc.
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)

	for _, layout := range []string{"02/01/2006", "2006-01-02"} {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("invalid date %q, use DD/MM/YYYY", s)
}

func statusLabel(s transaction.Status) string {
	switch s {
	case transaction.StatusPaid:
		return "Pago"
	case transaction.StatusOverdue:
		return "Atrasado"
	}

	return "Pendente"
}

func installmentLabel(tx *transaction.Transaction) string {
	switch {
	case tx.IsInstallment():
		return fmt.Sprintf("%d/%d", tx.InstallmentCurrent, tx.InstallmentTotal)
	case tx.IsRecurring:
		return "fixa"
	}

	return ""
}

// DbCtx returns a context with a standard timeout for storage operations.
func DbCtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), dbTimeout)
}
