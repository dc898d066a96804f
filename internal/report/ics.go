package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/MrJamesThe3rd/aion/internal/money"
	"github.com/MrJamesThe3rd/aion/internal/transaction"
)

const icsStamp = "20060102T150405Z"

// Reminders are placed at 09:00 local time on the due date and last one hour.
const reminderHour = 9

var icsEscaper = strings.NewReplacer(`\`, `\\`, ";", `\;`, ",", `\,`, "\r\n", `\n`, "\n", `\n`)

// writeICS renders one VEVENT per pending or overdue expense in txs.
func writeICS(w io.Writer, txs []*transaction.Transaction, now time.Time) error {
	var b strings.Builder

	line := func(format string, args ...any) {
		fmt.Fprintf(&b, format, args...)
		b.WriteString("\r\n")
	}

	line("BEGIN:VCALENDAR")
	line("VERSION:2.0")
	line("PRODID:-//BE AION//Ledger//PT-BR")
	line("CALSCALE:GREGORIAN")
	line("METHOD:PUBLISH")

	var n int

	for _, tx := range txs {
		if tx.Type != transaction.TypeExpense || tx.Status == transaction.StatusPaid {
			continue
		}

		n++

		y, m, d := tx.Date.Date()
		start := time.Date(y, m, d, reminderHour, 0, 0, 0, tx.Date.Location())
		amount := money.Format(tx.Amount)

		line("BEGIN:VEVENT")
		line("UID:%s@aion", tx.ID)
		line("DTSTAMP:%s", now.UTC().Format(icsStamp))
		line("DTSTART:%s", start.UTC().Format(icsStamp))
		line("DTEND:%s", start.Add(time.Hour).UTC().Format(icsStamp))
		line("SUMMARY:%s", icsEscaper.Replace(tx.Description+" - "+amount))
		line("DESCRIPTION:%s", icsEscaper.Replace("Valor: "+amount+"\nCategoria: "+tx.Category))
		line("STATUS:CONFIRMED")
		line("END:VEVENT")
	}

	line("END:VCALENDAR")

	if n == 0 {
		return ErrNoTransactions
	}

	if _, err := io.WriteString(w, b.String()); err != nil {
		return fmt.Errorf("writing calendar: %w", err)
	}

	return nil
}
