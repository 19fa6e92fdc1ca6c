package main

import (
	"context"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/spendwise/cmd/tui/internal/view"
	"github.com/MrJamesThe3rd/spendwise/internal/app"
	"github.com/MrJamesThe3rd/spendwise/internal/config"
)

type model struct {
	app  *app.App
	name string

	currentView View

	dashboardView view.DashboardModel
	addView       view.AddModel
	listView      view.ListModel
	exportView    view.ExportModel
	importView    view.ImportModel
}

type View int

const (
	ViewMenu      View = 0
	ViewDashboard View = 1
	ViewAdd       View = 2
	ViewList      View = 3
	ViewExport    View = 4
	ViewImport    View = 5
)

func initialModel(a *app.App, name string) model {
	return model{
		app:         a,
		name:        name,
		currentView: ViewMenu,
	}
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
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
				m.dashboardView = view.NewDashboardModel(m.app.Expenses, m.app.Formatter)

				return m, m.dashboardView.Init()
			case "2":
				m.currentView = ViewAdd
				m.addView = view.NewAddModel(m.app.Expenses, m.app.Attachments, m.app.Extraction, m.app.Formatter)

				return m, m.addView.Init()
			case "3":
				m.currentView = ViewList
				m.listView = view.NewListModel(m.app.Expenses, m.app.Formatter)

				return m, m.listView.Init()
			case "4":
				m.currentView = ViewExport
				m.exportView = view.NewExportModel(m.app.Export)

				return m, m.exportView.Init()
			case "5":
				m.currentView = ViewImport
				m.importView = view.NewImportModel(m.app.Export)

				return m, m.importView.Init()
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
	case ViewAdd:
		var newModel tea.Model
		newModel, cmd = m.addView.Update(msg)
		m.addView = newModel.(view.AddModel)
	case ViewList:
		var newModel tea.Model
		newModel, cmd = m.listView.Update(msg)
		m.listView = newModel.(view.ListModel)
	case ViewExport:
		var newModel tea.Model
		newModel, cmd = m.exportView.Update(msg)
		m.exportView = newModel.(view.ExportModel)
	case ViewImport:
		var newModel tea.Model
		newModel, cmd = m.importView.Update(msg)
		m.importView = newModel.(view.ImportModel)
	}

	return m, cmd
}

func (m model) View() string {
	switch m.currentView {
	case ViewMenu:
		status := "Reading bills with " + m.app.Extraction.Provider()
		if m.app.Expenses.Busy() {
			status = "Saving..."
		}

		return lipgloss.NewStyle().Padding(2).Render(
			m.name + "\n\n" +
				"1. Dashboard\n" +
				"2. Add Expense\n" +
				"3. Expense History\n" +
				"4. Export Expenses\n" +
				"5. Import Expenses\n\n" +
				"q. Quit\n\n" +
				lipgloss.NewStyle().Faint(true).Render(status),
		)
	case ViewDashboard:
		return m.dashboardView.View()
	case ViewAdd:
		return m.addView.View()
	case ViewList:
		return m.listView.View()
	case ViewExport:
		return m.exportView.View()
	case ViewImport:
		return m.importView.View()
	}

	return "Unknown View"
}

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	a, err := app.New(context.Background(), cfg)
	if err != nil {
		slog.Error("failed to start services", "error", err)
		os.Exit(1)
	}
	defer a.Close()

	// Keep log output off the terminal the program draws on.
	if f, err := tea.LogToFile("spendwise-tui.log", ""); err == nil {
		defer func() { _ = f.Close() }()
	}

	p := tea.NewProgram(initialModel(a, cfg.App.Name), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		slog.Error("failed to run TUI", "error", err)
		os.Exit(1)
	}
}
