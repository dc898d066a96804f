package view

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/aion/internal/money"
	"github.com/MrJamesThe3rd/aion/internal/transaction"
)

type txState int

const (
	txStateBrowse txState = iota
	txStateEdit
	txStateConfirm
)

type txAction int

const (
	actionDelete txAction = iota
	actionStopRecurrence
	actionAnticipate
)

func (a txAction) prompt(tx *transaction.Transaction) string {
	switch a {
	case actionStopRecurrence:
		return fmt.Sprintf("Stop %q after %s? Later occurrences are deleted.", tx.Description, FormatDate(tx.Date))
	case actionAnticipate:
		return fmt.Sprintf("Pay every open installment of %q now?", tx.Description)
	}

	return fmt.Sprintf("Delete %q of %s?", tx.Description, FormatDate(tx.Date))
}

type TransactionsModel struct {
	CommonModel
	txService *transaction.Service

	state  txState
	table  table.Model
	txs    []*transaction.Transaction
	form   *huh.Form
	cursor MonthCursor

	typeFilterIdx int

	loading bool
	err     error
	status  string

	bind       *txBindings
	pending    txAction
	selectedTx *transaction.Transaction
}

// txBindings lives on the heap so huh keeps writing to it after the model is copied.
type txBindings struct {
	desc      string
	amount    string
	confirmed bool
}

func NewTransactionsModel(txSvc *transaction.Service, cursor MonthCursor) TransactionsModel {
	return TransactionsModel{
		txService: txSvc,
		cursor:    cursor,
		loading:   true,
		bind:      &txBindings{},
		table: newTable([]table.Column{
			{Title: "Data", Width: 12},
			{Title: "Descrição", Width: 30},
			{Title: "Categoria", Width: 14},
			{Title: "Parcela", Width: 8},
			{Title: "Status", Width: 10},
			{Title: "Valor", Width: 16},
		}),
	}
}

func (m TransactionsModel) Title() string { return "Transactions" }

func (m TransactionsModel) ShortHelp() string {
	switch m.state {
	case txStateEdit:
		return "Navigate form | Esc: cancel"
	case txStateConfirm:
		return "←/→: choose | Enter: confirm | Esc: cancel"
	}

	return "Esc: back | ←/→: month | p: paid/pending | e: edit | d: delete | s: stop recurrence | a: anticipate | t: type filter"
}

func (m TransactionsModel) Init() tea.Cmd {
	return m.loadTxsCmd()
}

func (m TransactionsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadTxsMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}

		m.err = nil
		m.txs = msg.txs
		m.refreshTable()

		return m, nil

	case txActionMsg:
		m.state = txStateBrowse
		m.form = nil
		m.table.Focus()
		m.status = msg.status

		if msg.err != nil {
			m.status = fmt.Sprintf("Error: %v", msg.err)
		}

		return m, m.loadTxsCmd()

	case groupCheckMsg:
		switch {
		case msg.err != nil:
			m.status = fmt.Sprintf("Error: %v", msg.err)
			return m, nil
		case !msg.ok && msg.action == actionStopRecurrence:
			m.status = "No later occurrences to stop."
			return m, nil
		case !msg.ok:
			m.status = "No open installments."
			return m, nil
		}

		return m.confirm(msg.action, msg.tx)

	case tea.WindowSizeMsg:
		m.Width, m.Height = msg.Width, msg.Height
		m.table.SetHeight(max(msg.Height-10, 5))

		return m, nil
	}

	switch m.state {
	case txStateEdit:
		return m.updateEdit(msg)
	case txStateConfirm:
		return m.updateConfirm(msg)
	}

	return m.updateBrowse(msg)
}

func (m TransactionsModel) selected() *transaction.Transaction {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.txs) {
		return nil
	}

	return m.txs[idx]
}

func (m TransactionsModel) updateBrowse(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if ok {
		switch keyMsg.String() {
		case "esc":
			return m, Back
		case "left", "h":
			m.cursor = m.cursor.Prev()
			m.loading = true

			return m, m.loadTxsCmd()
		case "right", "l":
			m.cursor = m.cursor.Next()
			m.loading = true

			return m, m.loadTxsCmd()
		case "r":
			m.loading = true
			return m, m.loadTxsCmd()
		case "t":
			m.typeFilterIdx = (m.typeFilterIdx + 1) % 3
			return m, m.loadTxsCmd()
		case "p":
			if tx := m.selected(); tx != nil {
				return m, m.toggleStatusCmd(tx)
			}
		case "e":
			return m.enterEditMode()
		case "d":
			if tx := m.selected(); tx != nil {
				return m.confirm(actionDelete, tx)
			}
		case "s":
			if tx := m.selected(); tx != nil {
				return m, m.checkGroupCmd(actionStopRecurrence, tx)
			}
		case "a":
			if tx := m.selected(); tx != nil {
				return m, m.checkGroupCmd(actionAnticipate, tx)
			}
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m TransactionsModel) enterEditMode() (tea.Model, tea.Cmd) {
	tx := m.selected()
	if tx == nil {
		return m, nil
	}

	m.selectedTx = tx
	m.bind.desc = tx.Description
	m.bind.amount = money.FormatPlain(tx.Amount)

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("description").
				Title("Descrição").
				Value(&m.bind.desc).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return errors.New("description cannot be empty")
					}

					return nil
				}),

			huh.NewInput().
				Key("amount").
				Title("Valor (R$)").
				Value(&m.bind.amount).
				Validate(validateAmount),
		),
	).WithWidth(45).WithShowHelp(false)

	m.state = txStateEdit
	m.table.Blur()

	return m, m.form.Init()
}

func (m TransactionsModel) confirm(action txAction, tx *transaction.Transaction) (tea.Model, tea.Cmd) {
	m.selectedTx = tx
	m.pending = action
	m.bind.confirmed = false

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(action.prompt(tx)).
				Affirmative("Yes").
				Negative("No").
				Value(&m.bind.confirmed),
		),
	).WithWidth(50).WithShowHelp(false)

	m.state = txStateConfirm
	m.table.Blur()

	return m, m.form.Init()
}

func (m TransactionsModel) updateForm(msg tea.Msg) (TransactionsModel, tea.Cmd, bool) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		m.state = txStateBrowse
		m.form = nil
		m.table.Focus()

		return m, nil, false
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	return m, cmd, m.form.State == huh.StateCompleted
}

func (m TransactionsModel) updateEdit(msg tea.Msg) (tea.Model, tea.Cmd) {
	m, cmd, done := m.updateForm(msg)
	if !done {
		return m, cmd
	}

	return m, m.saveCmd()
}

func (m TransactionsModel) updateConfirm(msg tea.Msg) (tea.Model, tea.Cmd) {
	m, cmd, done := m.updateForm(msg)
	if !done {
		return m, cmd
	}

	if !m.bind.confirmed {
		m.state = txStateBrowse
		m.form = nil
		m.table.Focus()

		return m, nil
	}

	return m, m.actionCmd(m.pending, m.selectedTx)
}

func (m TransactionsModel) typeFilter() (*transaction.Type, string) {
	switch m.typeFilterIdx {
	case 1:
		return new(transaction.TypeExpense), "Despesas"
	case 2:
		return new(transaction.TypeIncome), "Receitas"
	}

	return nil, "Todas"
}

func (m TransactionsModel) View() string {
	_, typeLabel := m.typeFilter()

	header := fmt.Sprintf("◀ %s ▶  |  [t] Tipo: %s", activeStyle(m.cursor.String()), activeStyle(typeLabel))

	if m.loading {
		return lipgloss.NewStyle().Padding(1).Render(header + "\n\nLoading transactions...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(1).Render(header + "\n\n" + fmt.Sprintf("Error: %v", m.err))
	}

	tableView := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		Render(m.table.View())

	content := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().PaddingBottom(1).Render(header),
		tableView,
	)

	if m.state != txStateBrowse && m.form != nil {
		title := "Editar lançamento"
		if m.state == txStateConfirm {
			title = "Confirmar"
		}

		panel := panelStyle.Padding(1, 2).Width(52).Render(title + "\n\n" + m.form.View())
		content = lipgloss.JoinHorizontal(lipgloss.Top, content, panel)
	}

	if m.status != "" {
		content = faintStyle.Render(m.status) + "\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}

func (m *TransactionsModel) refreshTable() {
	rows := make([]table.Row, 0, len(m.txs))

	for _, tx := range m.txs {
		amount := FormatAmount(tx.Amount)
		if tx.Type == transaction.TypeExpense {
			amount = "-" + amount
		}

		rows = append(rows, table.Row{
			FormatDate(tx.Date),
			tx.Description,
			tx.Category,
			installmentLabel(tx),
			statusLabel(tx.Status),
			amount,
		})
	}

	m.table.SetRows(rows)

	if m.table.Cursor() >= len(rows) {
		m.table.SetCursor(max(len(rows)-1, 0))
	}
}

func validateAmount(s string) error {
	cents, err := money.Parse(s)
	if err != nil {
		return err
	}

	if cents <= 0 {
		return errors.New("amount must be positive")
	}

	return nil
}

// Messages

type loadTxsMsg struct {
	txs []*transaction.Transaction
	err error
}

func (m TransactionsModel) loadTxsCmd() tea.Cmd {
	txType, _ := m.typeFilter()
	start, end := m.cursor.Range(m.txService.Now().Location())

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		txs, err := m.txService.List(ctx, transaction.ListFilter{
			Type:      txType,
			StartDate: &start,
			EndDate:   &end,
		})

		return loadTxsMsg{txs: txs, err: err}
	}
}

type txActionMsg struct {
	status string
	err    error
}

func (m TransactionsModel) toggleStatusCmd(tx *transaction.Transaction) tea.Cmd {
	next := transaction.StatusPaid
	if tx.Status == transaction.StatusPaid {
		next = transaction.StatusPending
	}

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		updated, err := m.txService.UpdateStatus(ctx, tx.ID, next)
		if err != nil {
			return txActionMsg{err: err}
		}

		return txActionMsg{status: fmt.Sprintf("%s: %s", updated.Description, statusLabel(updated.Status))}
	}
}

func (m TransactionsModel) saveCmd() tea.Cmd {
	tx := m.selectedTx
	desc := m.bind.desc

	amount, err := money.Parse(m.bind.amount)
	if err != nil {
		return func() tea.Msg { return txActionMsg{err: err} }
	}

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		if _, err := m.txService.Update(ctx, tx.ID, transaction.EditParams{
			Description: &desc,
			Amount:      &amount,
		}); err != nil {
			return txActionMsg{err: err}
		}

		return txActionMsg{status: "Saved."}
	}
}

type groupCheckMsg struct {
	action txAction
	tx     *transaction.Transaction
	ok     bool
	err    error
}

func (m TransactionsModel) checkGroupCmd(action txAction, tx *transaction.Transaction) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		var (
			ok  bool
			err error
		)

		if action == actionStopRecurrence {
			ok, err = m.txService.HasFutureRecurrences(ctx, tx)
		} else {
			ok, err = m.txService.HasPendingInstallments(ctx, tx)
		}

		return groupCheckMsg{action: action, tx: tx, ok: ok, err: err}
	}
}

func (m TransactionsModel) actionCmd(action txAction, tx *transaction.Transaction) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		switch action {
		case actionStopRecurrence:
			n, err := m.txService.StopRecurrence(ctx, tx.ID)
			return txActionMsg{status: fmt.Sprintf("Removed %d later occurrences.", n), err: err}
		case actionAnticipate:
			n, err := m.txService.Anticipate(ctx, tx.ID)
			return txActionMsg{status: fmt.Sprintf("Paid %d installments.", n), err: err}
		}

		if err := m.txService.Delete(ctx, tx.ID); err != nil {
			return txActionMsg{err: err}
		}

		return txActionMsg{status: "Deleted."}
	}
}
