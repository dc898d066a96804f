// Package report renders printable monthly statements and calendar exports of the ledger.
package report

import (
	"archive/zip"
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io"
	"strings"
	"time"

	"github.com/MrJamesThe3rd/aion/internal/calendar"
	"github.com/MrJamesThe3rd/aion/internal/money"
	"github.com/MrJamesThe3rd/aion/internal/settings"
	"github.com/MrJamesThe3rd/aion/internal/transaction"
)

// ErrNoTransactions is returned when there is nothing to put in a report.
var ErrNoTransactions = errors.New("no transactions for report")

//go:embed templates/*.tmpl
var templates embed.FS

var monthly = template.Must(template.New("monthly.html.tmpl").
	Funcs(template.FuncMap{"brl": money.Format}).
	ParseFS(templates, "templates/monthly.html.tmpl"))

var monthNames = [...]string{
	"janeiro", "fevereiro", "março", "abril", "maio", "junho",
	"julho", "agosto", "setembro", "outubro", "novembro", "dezembro",
}

type Ledger interface {
	Now() time.Time
	List(ctx context.Context, filter transaction.ListFilter) ([]*transaction.Transaction, error)
}

type Preferences interface {
	Get(ctx context.Context) (settings.Settings, error)
}

type Service struct {
	ledger Ledger
	prefs  Preferences
}

func NewService(ledger Ledger, prefs Preferences) *Service {
	return &Service{ledger: ledger, prefs: prefs}
}

// Period names a month the way it is printed on statements, e.g. "Junho de 2024".
func Period(year int, month time.Month) string {
	name := monthNames[month-1]
	return strings.ToUpper(name[:1]) + name[1:] + " de " + fmt.Sprint(year)
}

// Statement is the data behind a monthly report.
type Statement struct {
	UserName       string
	Period         string
	PaidIncome     int64
	PaidExpense    int64
	PendingExpense int64
	Balance        int64
	Rows           []Row
	GeneratedAt    string
}

type Row struct {
	Date        string
	Description string
	Installment string
	Category    string
	Status      transaction.Status
	StatusLabel string
	Amount      int64
	Income      bool
}

func statusLabel(s transaction.Status) string {
	switch s {
	case transaction.StatusPaid:
		return "Pago"
	case transaction.StatusPending:
		return "Pendente"
	default:
		return "Atrasado"
	}
}

// BuildStatement summarises txs, which must already be sorted by date.
func BuildStatement(txs []*transaction.Transaction, year int, month time.Month, userName string, now time.Time) Statement {
	st := Statement{
		UserName:    userName,
		Period:      Period(year, month),
		Rows:        make([]Row, 0, len(txs)),
		GeneratedAt: now.Format("02/01/2006 15:04"),
	}

	for _, tx := range txs {
		income := tx.Type == transaction.TypeIncome
		paid := tx.Status == transaction.StatusPaid

		switch {
		case income && paid:
			st.PaidIncome += tx.Amount
		case !income && paid:
			st.PaidExpense += tx.Amount
		case !income:
			st.PendingExpense += tx.Amount
		}

		row := Row{
			Date:        tx.Date.Format("02/01/2006"),
			Description: tx.Description,
			Category:    tx.Category,
			Status:      tx.Status,
			StatusLabel: statusLabel(tx.Status),
			Amount:      tx.Amount,
			Income:      income,
		}

		if tx.InstallmentTotal > 0 {
			row.Installment = fmt.Sprintf("%d/%d", tx.InstallmentCurrent, tx.InstallmentTotal)
		}

		st.Rows = append(st.Rows, row)
	}

	st.Balance = st.PaidIncome - st.PaidExpense

	return st
}

func (s *Service) monthTransactions(ctx context.Context, year int, month time.Month) ([]*transaction.Transaction, error) {
	start, end := calendar.MonthRange(year, month, s.ledger.Now().Location())

	txs, err := s.ledger.List(ctx, transaction.ListFilter{StartDate: &start, EndDate: &end})
	if err != nil {
		return nil, fmt.Errorf("listing transactions: %w", err)
	}

	if len(txs) == 0 {
		return nil, ErrNoTransactions
	}

	return txs, nil
}

// Monthly writes the statement of the given month as a standalone HTML document.
func (s *Service) Monthly(ctx context.Context, w io.Writer, year int, month time.Month) error {
	txs, err := s.monthTransactions(ctx, year, month)
	if err != nil {
		return err
	}

	prefs, err := s.prefs.Get(ctx)
	if err != nil {
		return fmt.Errorf("getting settings: %w", err)
	}

	st := BuildStatement(txs, year, month, prefs.UserName, s.ledger.Now())

	if err := monthly.Execute(w, st); err != nil {
		return fmt.Errorf("rendering report: %w", err)
	}

	return nil
}

// Calendar writes every pending or overdue expense matching filter as an iCalendar file.
func (s *Service) Calendar(ctx context.Context, w io.Writer, filter transaction.ListFilter) error {
	expense := transaction.TypeExpense
	filter.Type = &expense
	filter.Status = nil

	txs, err := s.ledger.List(ctx, filter)
	if err != nil {
		return fmt.Errorf("listing transactions: %w", err)
	}

	return writeICS(w, txs, s.ledger.Now())
}

// Archive writes a zip with the month's HTML statement and the calendar of its open expenses.
// The calendar is left out when nothing in the month is still unpaid.
func (s *Service) Archive(ctx context.Context, w io.Writer, year int, month time.Month) error {
	txs, err := s.monthTransactions(ctx, year, month)
	if err != nil {
		return err
	}

	prefs, err := s.prefs.Get(ctx)
	if err != nil {
		return fmt.Errorf("getting settings: %w", err)
	}

	now := s.ledger.Now()
	base := fmt.Sprintf("extrato_%04d_%02d", year, month)

	zw := zip.NewWriter(w)

	f, err := zw.Create(base + ".html")
	if err != nil {
		return fmt.Errorf("adding report to archive: %w", err)
	}

	if err := monthly.Execute(f, BuildStatement(txs, year, month, prefs.UserName, now)); err != nil {
		return fmt.Errorf("rendering report: %w", err)
	}

	var ics strings.Builder

	switch err := writeICS(&ics, txs, now); {
	case errors.Is(err, ErrNoTransactions):
	case err != nil:
		return err
	default:
		f, err := zw.Create(base + ".ics")
		if err != nil {
			return fmt.Errorf("adding calendar to archive: %w", err)
		}

		if _, err := io.WriteString(f, ics.String()); err != nil {
			return fmt.Errorf("writing calendar: %w", err)
		}
	}

	if err := zw.Close(); err != nil {
		return fmt.Errorf("closing archive: %w", err)
	}

	return nil
}
