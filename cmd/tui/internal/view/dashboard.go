package view

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/aion/internal/settings"
	"github.com/MrJamesThe3rd/aion/internal/summary"
	"github.com/MrJamesThe3rd/aion/internal/transaction"
)

type DashboardModel struct {
	CommonModel
	txService       *transaction.Service
	summaryService  *summary.Service
	settingsService *settings.Service

	cursor  MonthCursor
	month   summary.Month
	cards   []summary.CardUsage
	prefs   settings.Settings
	loading bool
	err     error
}

func NewDashboardModel(txSvc *transaction.Service, sumSvc *summary.Service, setSvc *settings.Service) DashboardModel {
	return DashboardModel{
		txService:       txSvc,
		summaryService:  sumSvc,
		settingsService: setSvc,
		cursor:          CurrentMonth(txSvc.Now()),
		loading:         true,
	}
}

func (m DashboardModel) Title() string { return "Dashboard" }

func (m DashboardModel) ShortHelp() string {
	return "Esc: back | ←/→: month | .: current month | r: refresh"
}

// Cursor is the month on screen.
func (m DashboardModel) Cursor() MonthCursor { return m.cursor }

func (m DashboardModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m DashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadDashboardMsg:
		m.loading = false
		m.err = msg.err

		if msg.err == nil {
			m.month = msg.month
			m.cards = msg.cards
			m.prefs = msg.prefs
		}

		return m, nil

	case tea.WindowSizeMsg:
		m.Width, m.Height = msg.Width, msg.Height
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return m, Back
		case "left", "h":
			m.cursor = m.cursor.Prev()
		case "right", "l":
			m.cursor = m.cursor.Next()
		case ".":
			m.cursor = CurrentMonth(m.txService.Now())
		case "r":
		default:
			return m, nil
		}

		m.loading = true

		return m, m.loadCmd()
	}

	return m, nil
}

func (m DashboardModel) View() string {
	header := fmt.Sprintf("◀ %s ▶", activeStyle(m.cursor.String()))

	if m.loading {
		return lipgloss.NewStyle().Padding(1).Render(header + "\n\nLoading...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(1).Render(header + "\n\n" + fmt.Sprintf("Error: %v", m.err))
	}

	if m.prefs.UserName != "" {
		header = fmt.Sprintf("Olá, %s   %s", m.prefs.UserName, header)
	}

	totals := panelStyle.Render(m.totalsView())

	right := []string{}
	if len(m.month.ByCategory) > 0 {
		right = append(right, panelStyle.Render(m.categoriesView()))
	}

	if len(m.cards) > 0 {
		right = append(right, panelStyle.Render(m.cardsView()))
	}

	body := totals
	if len(right) > 0 {
		body = lipgloss.JoinHorizontal(lipgloss.Top, totals, " ", lipgloss.JoinVertical(lipgloss.Left, right...))
	}

	return lipgloss.NewStyle().Padding(1).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			lipgloss.NewStyle().PaddingBottom(1).Render(header),
			body,
		),
	)
}

func (m DashboardModel) totalsView() string {
	s := m.month

	income := FormatAmount(s.Income)
	if !m.prefs.ShowIncome {
		income = "••••••"
	}

	balance := incomeStyle
	if s.Balance < 0 {
		balance = expenseStyle
	}

	total := incomeStyle
	if s.Total < 0 {
		total = expenseStyle
	}

	lines := []string{
		fmt.Sprintf("%-22s %s", "Receitas", incomeStyle.Render(income)),
		fmt.Sprintf("%-22s %s", "Pago", FormatAmount(s.Paid)),
		fmt.Sprintf("%-22s %s", "A pagar", FormatAmount(s.Remaining)),
		fmt.Sprintf("%-22s %s", "  em atraso", expenseStyle.Render(FormatAmount(s.Overdue))),
		"",
		fmt.Sprintf("%-22s %s", "Saldo do mês", balance.Render(FormatAmount(s.Balance))),
		fmt.Sprintf("%-22s %s", "Sobra acumulada", FormatAmount(s.AccumulatedSurplus)),
		fmt.Sprintf("%-22s %s", "Total disponível", total.Render(FormatAmount(s.Total))),
	}

	return strings.Join(lines, "\n")
}

func (m DashboardModel) categoriesView() string {
	var b strings.Builder

	b.WriteString("Gastos por categoria\n")

	for _, c := range m.month.ByCategory {
		fmt.Fprintf(&b, "\n%-18s %s", c.Category, FormatAmount(c.Amount))
	}

	return b.String()
}

func (m DashboardModel) cardsView() string {
	var b strings.Builder

	b.WriteString("Cartões")

	for _, u := range m.cards {
		fmt.Fprintf(&b, "\n%-14s %s %s",
			u.Card.Name,
			FormatAmount(u.Used),
			faintStyle.Render("disp. "+FormatAmount(u.Available)),
		)
	}

	return b.String()
}

// Messages

type loadDashboardMsg struct {
	month summary.Month
	cards []summary.CardUsage
	prefs settings.Settings
	err   error
}

func (m DashboardModel) loadCmd() tea.Cmd {
	cursor := m.cursor

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		month, err := m.summaryService.Month(ctx, cursor.Year, cursor.Month)
		if err != nil {
			return loadDashboardMsg{err: err}
		}

		cards, err := m.summaryService.CardUsage(ctx)
		if err != nil {
			return loadDashboardMsg{err: err}
		}

		prefs, err := m.settingsService.Get(ctx)
		if err != nil {
			return loadDashboardMsg{err: err}
		}

		return loadDashboardMsg{month: month, cards: cards, prefs: prefs}
	}
}
