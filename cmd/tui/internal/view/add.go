package view

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/aion/internal/card"
	"github.com/MrJamesThe3rd/aion/internal/category"
	"github.com/MrJamesThe3rd/aion/internal/money"
	"github.com/MrJamesThe3rd/aion/internal/transaction"
)

type addBindings struct {
	txType      transaction.Type
	description string
	amount      string
	category    string
	date        string
	method      transaction.PaymentMethod
	cardID      string
	recurrence  transaction.Recurrence
	count       string
	mode        transaction.InstallmentMode
	nthDay      string
	workDays    bool
}

type AddModel struct {
	CommonModel
	txService       *transaction.Service
	cardService     *card.Service
	categoryService *category.Service

	form    *huh.Form
	bind    *addBindings
	loading bool
	err     error
	status  string
}

func NewAddModel(txSvc *transaction.Service, cardSvc *card.Service, catSvc *category.Service) AddModel {
	return AddModel{
		txService:       txSvc,
		cardService:     cardSvc,
		categoryService: catSvc,
		loading:         true,
	}
}

func (m AddModel) Title() string { return "New Transaction" }

func (m AddModel) ShortHelp() string {
	return "Enter/Tab: next field | Shift+Tab: previous | Esc: back"
}

func (m AddModel) Init() tea.Cmd {
	return m.loadOptionsCmd()
}

func (m AddModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case addOptionsMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}

		m.bind = m.defaults(msg.categories)
		m.form = m.buildForm(msg.categories, msg.cards)

		return m, m.form.Init()

	case addResultMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("Error: %v", msg.err)
			return m, m.loadOptionsCmd()
		}

		m.status = msg.status

		return m, m.loadOptionsCmd()

	case tea.WindowSizeMsg:
		m.Width, m.Height = msg.Width, msg.Height
	}

	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		return m, Back
	}

	if m.form == nil {
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		req, err := m.request()
		if err != nil {
			m.status = fmt.Sprintf("Error: %v", err)
			return m, m.loadOptionsCmd()
		}

		m.form = nil

		return m, m.createCmd(req)
	case huh.StateAborted:
		return m, Back
	}

	return m, cmd
}

func (m AddModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(fmt.Sprintf("Error: %v", m.err))
	}

	content := ""
	if m.form != nil {
		content = panelStyle.Padding(1, 2).Render("Novo lançamento\n\n" + m.form.View())
	}

	if m.status != "" {
		content = faintStyle.Render(m.status) + "\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}

func (m AddModel) defaults(categories []string) *addBindings {
	b := &addBindings{
		txType:     transaction.TypeExpense,
		date:       FormatDate(m.txService.Now()),
		method:     transaction.PaymentPix,
		recurrence: transaction.RecurrenceSingle,
		count:      "2",
		mode:       transaction.InstallmentTotal,
		nthDay:     "0",
	}

	if len(categories) > 0 {
		b.category = categories[0]
	}

	return b
}

func (m AddModel) buildForm(categories []string, cards []*card.Card) *huh.Form {
	b := m.bind

	categoryOpts := huh.NewOptions(categories...)

	cardOpts := make([]huh.Option[string], 0, len(cards))
	for _, c := range cards {
		cardOpts = append(cardOpts, huh.NewOption(fmt.Sprintf("%s (fecha dia %d)", c.Name, c.ClosingDay), c.ID.String()))
	}

	if len(cards) > 0 {
		b.cardID = cards[0].ID.String()
	}

	methods := []huh.Option[transaction.PaymentMethod]{
		huh.NewOption("Pix", transaction.PaymentPix),
		huh.NewOption("Boleto", transaction.PaymentBoleto),
		huh.NewOption("Dinheiro", transaction.PaymentCash),
		huh.NewOption("Outro", transaction.PaymentOther),
	}
	if len(cards) > 0 {
		methods = append(methods, huh.NewOption("Cartão de crédito", transaction.PaymentCreditCard))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[transaction.Type]().
				Title("Tipo").
				Options(
					huh.NewOption("Despesa", transaction.TypeExpense),
					huh.NewOption("Receita", transaction.TypeIncome),
				).
				Value(&b.txType),

			huh.NewInput().
				Title("Descrição").
				Value(&b.description).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return errors.New("description cannot be empty")
					}

					return nil
				}),

			huh.NewInput().
				Title("Valor (R$)").
				Placeholder("1.234,56").
				Value(&b.amount).
				Validate(validateAmount),

			huh.NewSelect[string]().
				Title("Categoria").
				Options(categoryOpts...).
				Value(&b.category),

			huh.NewInput().
				Title("Data").
				Placeholder("DD/MM/AAAA").
				Value(&b.date).
				Validate(func(s string) error {
					_, err := ParseDate(s, time.Local)
					return err
				}),
		),

		huh.NewGroup(
			huh.NewSelect[transaction.PaymentMethod]().
				Title("Forma de pagamento").
				Options(methods...).
				Value(&b.method),
		).WithHideFunc(func() bool { return b.txType != transaction.TypeExpense }),

		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Cartão").
				Options(cardOpts...).
				Value(&b.cardID),
		).WithHideFunc(func() bool {
			return b.txType != transaction.TypeExpense || b.method != transaction.PaymentCreditCard
		}),

		huh.NewGroup(
			huh.NewSelect[transaction.Recurrence]().
				Title("Repetição").
				Options(
					huh.NewOption("Única", transaction.RecurrenceSingle),
					huh.NewOption("Fixa mensal", transaction.RecurrenceFixed),
					huh.NewOption("Parcelada", transaction.RecurrenceInstallments),
				).
				Value(&b.recurrence),
		),

		huh.NewGroup(
			huh.NewInput().
				Title("Número de parcelas").
				Value(&b.count).
				Validate(func(s string) error {
					n, err := strconv.Atoi(strings.TrimSpace(s))
					if err != nil || n < 2 {
						return errors.New("at least 2 installments")
					}

					return nil
				}),

			huh.NewSelect[transaction.InstallmentMode]().
				Title("O valor informado é").
				Options(
					huh.NewOption("Total da compra", transaction.InstallmentTotal),
					huh.NewOption("De cada parcela", transaction.InstallmentEach),
				).
				Value(&b.mode),
		).WithHideFunc(func() bool { return b.recurrence != transaction.RecurrenceInstallments }),

		huh.NewGroup(
			huh.NewInput().
				Title("Dia útil do mês (0 mantém a data)").
				Value(&b.nthDay).
				Validate(func(s string) error {
					n, err := strconv.Atoi(strings.TrimSpace(s))
					if err != nil || n < 0 {
						return errors.New("use 0 or a positive business day")
					}

					return nil
				}),

			huh.NewConfirm().
				Title("Somente dias úteis?").
				Affirmative("Sim").
				Negative("Não").
				Value(&b.workDays),
		).WithHideFunc(func() bool { return b.recurrence == transaction.RecurrenceSingle }),
	).WithWidth(50).WithShowHelp(false)
}

func (m AddModel) request() (transaction.GenerateRequest, error) {
	return m.bind.request(m.txService.Now().Location())
}

// request turns the form answers into a GenerateRequest, dates read in loc.
func (b *addBindings) request(loc *time.Location) (transaction.GenerateRequest, error) {
	amount, err := money.Parse(b.amount)
	if err != nil {
		return transaction.GenerateRequest{}, err
	}

	date, err := ParseDate(b.date, loc)
	if err != nil {
		return transaction.GenerateRequest{}, err
	}

	req := transaction.GenerateRequest{
		Description: strings.TrimSpace(b.description),
		Amount:      amount,
		Date:        date,
		Type:        b.txType,
		Category:    b.category,
		Recurrence:  b.recurrence,
	}

	if b.txType == transaction.TypeExpense {
		req.PaymentMethod = b.method
	}

	if req.PaymentMethod == transaction.PaymentCreditCard {
		id, err := uuid.Parse(b.cardID)
		if err != nil {
			return transaction.GenerateRequest{}, fmt.Errorf("selecting card: %w", err)
		}

		req.CardID = &id
	}

	if b.recurrence == transaction.RecurrenceSingle {
		return req, nil
	}

	if req.NthDay, err = atoi("business day", b.nthDay); err != nil {
		return transaction.GenerateRequest{}, err
	}

	req.WorkDaysOnly = b.workDays

	if b.recurrence == transaction.RecurrenceInstallments {
		if req.InstallmentCount, err = atoi("installment count", b.count); err != nil {
			return transaction.GenerateRequest{}, err
		}

		req.InstallmentMode = b.mode
	}

	return req, nil
}

func atoi(field, s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("%s: %w", field, err)
	}

	return n, nil
}

// Messages

type addOptionsMsg struct {
	categories []string
	cards      []*card.Card
	err        error
}

func (m AddModel) loadOptionsCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		categories, err := m.categoryService.List(ctx)
		if err != nil {
			return addOptionsMsg{err: err}
		}

		cards, err := m.cardService.ListActive(ctx)
		if err != nil {
			return addOptionsMsg{err: err}
		}

		return addOptionsMsg{categories: categories, cards: cards}
	}
}

type addResultMsg struct {
	status string
	err    error
}

func (m AddModel) createCmd(req transaction.GenerateRequest) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		txs, err := m.txService.Create(ctx, req)
		if err != nil {
			return addResultMsg{err: err}
		}

		if len(txs) == 1 {
			return addResultMsg{status: fmt.Sprintf("Added %q on %s.", txs[0].Description, FormatDate(txs[0].Date))}
		}

		return addResultMsg{status: fmt.Sprintf("Added %q: %d entries from %s.", req.Description, len(txs), FormatDate(txs[0].Date))}
	}
}
