package view

import (
	"fmt"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/spendwise/internal/expense"
	"github.com/MrJamesThe3rd/spendwise/internal/listing"
	"github.com/MrJamesThe3rd/spendwise/internal/money"
)

type listState int

const (
	listStateBrowse listState = iota
	listStateSearch
	listStateConfirmDelete
	listStateEdit
)

type ListModel struct {
	CommonModel
	expenses *expense.Service

	state   listState
	table   table.Model
	search  textinput.Model
	spinner spinner.Model
	form    *huh.Form
	fields  *expenseFields

	all     []*expense.Expense
	visible []*expense.Expense
	query   listing.Query

	busy   bool
	err    error
	status string
}

func NewListModel(svc *expense.Service, formatter *money.Formatter) ListModel {
	columns := []table.Column{
		{Title: "Date", Width: 12},
		{Title: "", Width: 3},
		{Title: "Title", Width: 28},
		{Title: "Category", Width: 18},
		{Title: "Amount", Width: 14},
		{Title: "Description", Width: 36},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(15),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(false)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	ti := textinput.New()
	ti.Placeholder = "Search title or description"
	ti.Prompt = "/ "
	ti.Width = 40

	return ListModel{
		CommonModel: CommonModel{Formatter: formatter},
		expenses:    svc,
		table:       t,
		search:      ti,
		spinner:     newSpinner(),
		query:       listing.DefaultQuery(),
	}
}

func (m ListModel) Title() string { return "Expense History" }

func (m ListModel) ShortHelp() string {
	switch m.state {
	case listStateSearch:
		return "Type to filter | Enter/Esc: done"
	case listStateConfirmDelete:
		return "y: delete | any other key: cancel"
	case listStateEdit:
		return "Navigate form | Esc: cancel"
	}

	return "Esc: back | /: search | c: category | d/a/t: sort by date/amount/title | e: edit | x: delete | r: refresh"
}

func (m ListModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m ListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadListMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}

		m.err = nil
		m.all = msg.expenses
		m.refreshTable()

		return m, nil

	case mutationMsg:
		m.busy = false
		m.status = msg.done
		if msg.err != nil {
			m.status = fmt.Sprintf("Error: %v", msg.err)
		}

		return m, m.loadCmd()

	case spinner.TickMsg:
		if !m.busy {
			return m, nil
		}

		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)

		return m, cmd

	case tea.WindowSizeMsg:
		m.table.SetHeight(max(5, msg.Height-12))
		return m, nil
	}

	switch m.state {
	case listStateSearch:
		return m.updateSearch(msg)
	case listStateConfirmDelete:
		return m.updateConfirmDelete(msg)
	case listStateEdit:
		return m.updateEdit(msg)
	}

	return m.updateBrowse(msg)
}

func (m ListModel) updateBrowse(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			return m, Back
		case "r":
			return m, m.loadCmd()
		case "/":
			m.state = listStateSearch
			m.table.Blur()
			cmd := m.search.Focus()

			return m, cmd
		case "c":
			m.query.Category = nextCategory(m.query.Category)
			m.refreshTable()

			return m, nil
		case "d":
			return m.toggle(listing.SortByDate)
		case "a":
			return m.toggle(listing.SortByAmount)
		case "t":
			return m.toggle(listing.SortByTitle)
		case "x":
			if m.selected() != nil && !m.busy {
				m.state = listStateConfirmDelete
			}

			return m, nil
		case "e":
			return m.enterEditMode()
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m ListModel) toggle(key listing.SortKey) (tea.Model, tea.Cmd) {
	m.query = listing.Toggle(m.query, key)
	m.refreshTable()

	return m, nil
}

func (m ListModel) updateSearch(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.Type {
		case tea.KeyEnter, tea.KeyEsc:
			m.state = listStateBrowse
			m.search.Blur()
			m.table.Focus()

			return m, nil
		}
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	m.query.Search = m.search.Value()
	m.refreshTable()

	return m, cmd
}

func (m ListModel) updateConfirmDelete(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	m.state = listStateBrowse

	e := m.selected()
	if keyMsg.String() != "y" || e == nil {
		return m, nil
	}

	m.busy = true

	return m, tea.Batch(m.spinner.Tick, m.deleteCmd(e.ID, e.Title))
}

func (m ListModel) enterEditMode() (tea.Model, tea.Cmd) {
	e := m.selected()
	if e == nil || m.busy {
		return m, nil
	}

	m.fields = fieldsFrom(e)
	m.form = newExpenseForm(m.fields)
	m.state = listStateEdit
	m.table.Blur()

	return m, m.form.Init()
}

func (m ListModel) updateEdit(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		m.state = listStateBrowse
		m.form = nil
		m.table.Focus()

		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	e := m.selected()
	m.state = listStateBrowse
	m.form = nil
	m.table.Focus()

	if e == nil {
		return m, nil
	}

	m.busy = true

	return m, tea.Batch(m.spinner.Tick, m.updateCmd(e.ID, m.fields.Update()))
}

func (m ListModel) selected() *expense.Expense {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.visible) {
		return nil
	}

	return m.visible[idx]
}

func (m ListModel) View() string {
	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
	}

	header := fmt.Sprintf(
		"[c] Category: %s | Sort: %s %s | Showing %d of %d",
		activeStyle(m.query.Category),
		activeStyle(string(m.query.SortBy)),
		activeStyle(string(m.query.Order)),
		len(m.visible),
		len(m.all),
	)

	tableView := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		Render(m.table.View())

	parts := []string{lipgloss.NewStyle().PaddingBottom(1).Render(header)}

	if m.state == listStateSearch || m.query.Search != "" {
		parts = append(parts, m.search.View())
	}

	if len(m.all) == 0 {
		parts = append(parts, faintStyle.Render("No expenses yet. Add one from the menu."))
	} else {
		parts = append(parts, tableView)
	}

	content := lipgloss.JoinVertical(lipgloss.Left, parts...)

	if m.state == listStateEdit && m.form != nil {
		content = lipgloss.JoinHorizontal(lipgloss.Top, content,
			panelStyle.Width(54).Render("Edit Expense\n\n"+m.form.View()))
	}

	if m.state == listStateConfirmDelete {
		if e := m.selected(); e != nil {
			content += "\n" + errorStyle.Render(fmt.Sprintf("Delete %q? (y/n)", e.Title))
		}
	}

	if m.busy {
		content = m.spinner.View() + " Saving...\n" + content
	} else if m.status != "" {
		content = faintStyle.Render(m.status) + "\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content + "\n" + faintStyle.Render(m.ShortHelp()))
}

func (m *ListModel) refreshTable() {
	m.visible = listing.Apply(m.all, m.query)

	rows := make([]table.Row, 0, len(m.visible))
	for _, e := range m.visible {
		rows = append(rows, table.Row{
			FormatDate(e.Date),
			e.Icon,
			e.Title,
			string(e.Category),
			m.Formatter.Format(e.Amount),
			e.Description,
		})
	}

	m.table.SetRows(rows)

	if m.table.Cursor() >= len(rows) {
		m.table.SetCursor(max(0, len(rows)-1))
	}
}

// nextCategory cycles All, then every category in display order, then back to All.
func nextCategory(current string) string {
	if current == expense.AllCategories || current == "" {
		return string(expense.Categories[0])
	}

	for i, c := range expense.Categories {
		if string(c) == current && i+1 < len(expense.Categories) {
			return string(expense.Categories[i+1])
		}
	}

	return expense.AllCategories
}

// Messages

type loadListMsg struct {
	expenses []*expense.Expense
	err      error
}

func (m ListModel) loadCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := StoreCtx()
		defer cancel()

		list, err := m.expenses.List(ctx)

		return loadListMsg{expenses: list, err: err}
	}
}

type mutationMsg struct {
	done string
	err  error
}

func (m ListModel) deleteCmd(id uuid.UUID, title string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := StoreCtx()
		defer cancel()

		return mutationMsg{done: fmt.Sprintf("Deleted %q", title), err: m.expenses.Delete(ctx, id)}
	}
}

func (m ListModel) updateCmd(id uuid.UUID, u expense.Update) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := StoreCtx()
		defer cancel()

		return mutationMsg{done: "Saved changes", err: m.expenses.Update(ctx, id, u)}
	}
}
