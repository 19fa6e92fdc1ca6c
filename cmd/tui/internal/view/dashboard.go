package view

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/spendwise/internal/analytics"
	"github.com/MrJamesThe3rd/spendwise/internal/expense"
	"github.com/MrJamesThe3rd/spendwise/internal/money"
)

const barWidth = 30

type DashboardModel struct {
	CommonModel
	expenses *expense.Service

	snapshot analytics.Snapshot
	loaded   bool
	err      error
}

func NewDashboardModel(svc *expense.Service, formatter *money.Formatter) DashboardModel {
	return DashboardModel{
		CommonModel: CommonModel{Formatter: formatter},
		expenses:    svc,
	}
}

func (m DashboardModel) Title() string     { return "Dashboard" }
func (m DashboardModel) ShortHelp() string { return "Esc: back | r: refresh" }

func (m DashboardModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m DashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case snapshotMsg:
		m.loaded = true
		m.err = msg.err
		m.snapshot = msg.snapshot

		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return m, Back
		case "r":
			return m, m.loadCmd()
		}
	}

	return m, nil
}

func (m DashboardModel) View() string {
	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
	}

	if !m.loaded {
		return lipgloss.NewStyle().Padding(2).Render("Loading expenses...")
	}

	s := m.snapshot
	f := m.Formatter

	cards := lipgloss.JoinHorizontal(lipgloss.Top,
		card("Total", f.Format(s.Total)),
		card("Last 7 days", f.Format(s.Weekly)),
		card("Last 30 days", f.Format(s.Monthly)),
		card("Average", f.Format(s.Average)),
		card("Expenses", fmt.Sprint(s.Count)),
	)

	var top strings.Builder
	top.WriteString("Top categories\n\n")

	if len(s.TopCategories) == 0 {
		top.WriteString(faintStyle.Render("No expenses yet"))
	}

	for _, ct := range s.TopCategories {
		fmt.Fprintf(&top, "%s %-18s %s %s\n", ct.Icon, ct.Category, bar(ct.Amount, s.Total), f.Format(ct.Amount))
	}

	var months strings.Builder
	months.WriteString("Monthly trend\n\n")

	peak := decimal.Zero
	for _, p := range s.MonthlySeries {
		peak = decimal.Max(peak, p.Amount)
	}

	for _, p := range s.MonthlySeries {
		fmt.Fprintf(&months, "%-9s %s %s\n", p.Label, bar(p.Amount, peak), f.Format(p.Amount))
	}

	var recent strings.Builder
	recent.WriteString("Recent\n\n")

	for _, e := range s.Recent {
		fmt.Fprintf(&recent, "%s %s  %-24s %s\n", e.Icon, FormatDate(e.Date), truncate(e.Title, 24), f.Format(e.Amount))
	}

	return lipgloss.NewStyle().Padding(1).Render(lipgloss.JoinVertical(lipgloss.Left,
		cards,
		lipgloss.JoinHorizontal(lipgloss.Top, panelStyle.Render(top.String()), panelStyle.Render(months.String())),
		panelStyle.Render(recent.String()),
		faintStyle.Render(m.ShortHelp()),
	))
}

func card(label, value string) string {
	return panelStyle.Width(18).Render(faintStyle.Render(label) + "\n" + activeStyle(value))
}

// bar renders part as a share of whole.
func bar(part, whole decimal.Decimal) string {
	n := 0
	if whole.IsPositive() {
		n = int(part.Div(whole).Mul(decimal.NewFromInt(barWidth)).Round(0).IntPart())
	}

	return accentStyle.Render(strings.Repeat("█", n)) + strings.Repeat("░", barWidth-n)
}

type snapshotMsg struct {
	snapshot analytics.Snapshot
	err      error
}

func (m DashboardModel) loadCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := StoreCtx()
		defer cancel()

		list, err := m.expenses.List(ctx)
		if err != nil {
			return snapshotMsg{err: err}
		}

		return snapshotMsg{snapshot: analytics.Compute(list, time.Now())}
	}
}
