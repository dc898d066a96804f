package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	"github.com/MrJamesThe3rd/aion/cmd/tui/internal/view"
	"github.com/MrJamesThe3rd/aion/internal/app"
	"github.com/MrJamesThe3rd/aion/internal/config"
	"github.com/MrJamesThe3rd/aion/internal/logger"
)

type model struct {
	svcs *app.Services

	currentView View

	dashboardView view.DashboardModel
	txView        view.TransactionsModel
	addView       view.AddModel
	size          tea.WindowSizeMsg
}

type View int

const (
	ViewMenu         View = 0
	ViewDashboard    View = 1
	ViewTransactions View = 2
	ViewAdd          View = 3
)

func initialModel(svcs *app.Services) model {
	return model{
		svcs:          svcs,
		currentView:   ViewMenu,
		dashboardView: view.NewDashboardModel(svcs.Transactions, svcs.Summary, svcs.Settings),
	}
}

func (m model) Init() tea.Cmd {
	return nil
}

// resize hands the last known terminal size to a freshly opened view.
func (m model) resize() tea.Cmd {
	size := m.size
	return func() tea.Msg { return size }
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.size = msg
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

		if m.currentView == ViewMenu {
			switch msg.String() {
			case "q":
				return m, tea.Quit
			case "1":
				m.currentView = ViewDashboard
				m.dashboardView = view.NewDashboardModel(m.svcs.Transactions, m.svcs.Summary, m.svcs.Settings)

				return m, tea.Batch(m.dashboardView.Init(), m.resize())
			case "2":
				m.currentView = ViewTransactions
				m.txView = view.NewTransactionsModel(m.svcs.Transactions, m.dashboardView.Cursor())

				return m, tea.Batch(m.txView.Init(), m.resize())
			case "3":
				m.currentView = ViewAdd
				m.addView = view.NewAddModel(m.svcs.Transactions, m.svcs.Cards, m.svcs.Categories)

				return m, tea.Batch(m.addView.Init(), m.resize())
			}
		}
	case view.BackMsg:
		m.currentView = ViewMenu
		return m, nil
	}

	switch m.currentView {
	case ViewDashboard:
		var newModel tea.Model
		newModel, cmd = m.dashboardView.Update(msg)
		m.dashboardView = newModel.(view.DashboardModel)
	case ViewTransactions:
		var newModel tea.Model
		newModel, cmd = m.txView.Update(msg)
		m.txView = newModel.(view.TransactionsModel)
	case ViewAdd:
		var newModel tea.Model
		newModel, cmd = m.addView.Update(msg)
		m.addView = newModel.(view.AddModel)
	}

	return m, cmd
}

func (m model) View() string {
	var current view.View

	switch m.currentView {
	case ViewMenu:
		return lipgloss.NewStyle().Padding(2).Render(
			"Aion\n\n" +
				"1. Dashboard\n" +
				"2. Transactions\n" +
				"3. New Transaction\n\n" +
				"q. Quit",
		)
	case ViewDashboard:
		current = m.dashboardView
	case ViewTransactions:
		current = m.txView
	case ViewAdd:
		current = m.addView
	default:
		return "Unknown View"
	}

	help := lipgloss.NewStyle().Faint(true).PaddingLeft(1).Render(current.ShortHelp())

	return lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().Bold(true).PaddingLeft(1).Render(current.Title()),
		current.View(),
		help,
	)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	loc, err := cfg.Location()
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid timezone: %v\n", err)
		os.Exit(1)
	}

	time.Local = loc

	logFile, err := os.OpenFile(filepath.Join(os.TempDir(), "aion-tui.log"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to open log file: %v\n", err)
		os.Exit(1)
	}
	defer logFile.Close()

	log := logger.NewWithWriter(zerolog.ConsoleWriter{Out: logFile, NoColor: true, TimeFormat: time.RFC3339}, cfg.App.LogLevel)
	ctx := logger.WithContext(context.Background(), log)

	svcs, closeStore, err := app.Open(ctx, cfg, loc)
	if err != nil {
		log.Error().Err(err).Msg("failed to open storage")
		fmt.Fprintf(os.Stderr, "failed to open storage: %v\n", err)
		os.Exit(1)
	}
	defer closeStore()

	if n, err := svcs.Transactions.SweepOverdue(ctx); err != nil {
		log.Error().Err(err).Msg("overdue sweep failed")
	} else {
		log.Info().Int64("marked", n).Msg("overdue sweep")
	}

	p := tea.NewProgram(initialModel(svcs), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		log.Error().Err(err).Msg("failed to run TUI")
		os.Exit(1)
	}
}
