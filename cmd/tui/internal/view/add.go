package view

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/spendwise/internal/attachment"
	"github.com/MrJamesThe3rd/spendwise/internal/bill"
	"github.com/MrJamesThe3rd/spendwise/internal/expense"
	"github.com/MrJamesThe3rd/spendwise/internal/extraction"
	"github.com/MrJamesThe3rd/spendwise/internal/money"
)

const extractTimeout = time.Minute

var imageTypes = []string{".png", ".jpg", ".jpeg", ".gif", ".webp", ".bmp"}

type addState int

const (
	addStatePick addState = iota
	addStateExtracting
	addStateForm
	addStateSaving
	addStateResult
)

type AddModel struct {
	CommonModel
	expenses    *expense.Service
	attachments *attachment.Store
	extraction  *extraction.Service

	state      addState
	filePicker filepicker.Model
	spinner    spinner.Model
	form       *huh.Form
	fields     *expenseFields
	imageURL   string

	notice string
	saved  *expense.Expense
	err    error
}

func NewAddModel(expenses *expense.Service, attachments *attachment.Store, ext *extraction.Service, formatter *money.Formatter) AddModel {
	fp := filepicker.New()
	fp.CurrentDirectory, _ = os.Getwd()
	fp.AllowedTypes = imageTypes
	fp.ShowHidden = false
	fp.DirAllowed = false
	fp.FileAllowed = true
	fp.SetHeight(15)

	return AddModel{
		CommonModel: CommonModel{Formatter: formatter},
		expenses:    expenses,
		attachments: attachments,
		extraction:  ext,
		filePicker:  fp,
		spinner:     newSpinner(),
	}
}

func (m AddModel) Title() string { return "Add Expense" }

func (m AddModel) ShortHelp() string {
	switch m.state {
	case addStatePick:
		return "Enter: scan bill | m: manual entry | Esc: back"
	case addStateForm:
		return "Navigate form | Esc: cancel"
	case addStateResult:
		return "Enter: add another | Esc: back"
	}

	return ""
}

func (m AddModel) Init() tea.Cmd {
	return m.filePicker.Init()
}

func (m AddModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case extractedMsg:
		m.imageURL = msg.imageURL
		m.fields = &expenseFields{
			Title:       msg.fields.Title,
			Amount:      msg.fields.Amount,
			Description: msg.fields.Description,
			Category:    msg.fields.Category,
		}

		m.notice = "Review the details read from the bill."
		if msg.err != nil {
			m.notice = fmt.Sprintf("Could not read the bill (%v). Enter the details manually.", msg.err)
		}

		return m.openForm()

	case savedMsg:
		m.state = addStateResult
		m.saved = msg.expense
		m.err = msg.err

		if msg.err != nil {
			m.discardImage()
		}

		return m, nil
	}

	switch m.state {
	case addStatePick:
		return m.updatePick(msg)
	case addStateExtracting, addStateSaving:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)

		return m, cmd
	case addStateForm:
		return m.updateForm(msg)
	case addStateResult:
		if keyMsg, ok := msg.(tea.KeyMsg); ok {
			switch keyMsg.Type {
			case tea.KeyEsc:
				return m, Back
			case tea.KeyEnter:
				m.reset()
				return m, m.filePicker.Init()
			}
		}
	}

	return m, nil
}

func (m *AddModel) reset() {
	m.state = addStatePick
	m.form = nil
	m.fields = nil
	m.imageURL = ""
	m.notice = ""
	m.saved = nil
	m.err = nil
}

// discardImage drops a scanned bill image that no saved expense refers to.
func (m *AddModel) discardImage() {
	if a, err := m.attachments.Resolve(m.imageURL); err == nil {
		m.attachments.Delete(a.ID)
	}

	m.imageURL = ""
}

func (m AddModel) updatePick(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			return m, Back
		case "m":
			m.fields = &expenseFields{}
			return m.openForm()
		}
	}

	var cmd tea.Cmd
	m.filePicker, cmd = m.filePicker.Update(msg)

	if didSelect, path := m.filePicker.DidSelectFile(msg); didSelect {
		m.state = addStateExtracting
		return m, tea.Batch(m.spinner.Tick, m.extractCmd(path))
	}

	return m, cmd
}

func (m AddModel) openForm() (tea.Model, tea.Cmd) {
	m.form = newExpenseForm(m.fields)
	m.state = addStateForm

	return m, m.form.Init()
}

func (m AddModel) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		m.discardImage()
		m.reset()

		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	m.state = addStateSaving

	return m, tea.Batch(m.spinner.Tick, m.saveCmd())
}

func (m AddModel) View() string {
	var body string

	switch m.state {
	case addStatePick:
		body = lipgloss.JoinVertical(lipgloss.Left,
			"Pick a bill image to scan, or press m to enter the expense by hand.",
			"",
			m.filePicker.View(),
		)
	case addStateExtracting:
		body = fmt.Sprintf("%s Reading the bill with %s...", m.spinner.View(), m.extraction.Provider())
	case addStateForm:
		body = m.form.View()
		if m.notice != "" {
			body = faintStyle.Render(m.notice) + "\n\n" + body
		}

		if m.imageURL != "" {
			body += "\n" + faintStyle.Render("Bill image attached")
		}
	case addStateSaving:
		body = fmt.Sprintf("%s Saving expense...", m.spinner.View())
	case addStateResult:
		body = m.viewResult()
	}

	return lipgloss.NewStyle().Padding(1).Render(body + "\n\n" + faintStyle.Render(m.ShortHelp()))
}

func (m AddModel) viewResult() string {
	if m.err != nil {
		return errorStyle.Render(fmt.Sprintf("Error: %v", m.err))
	}

	e := m.saved

	return lipgloss.JoinVertical(lipgloss.Left,
		okStyle.Render("Expense added!"),
		"",
		fmt.Sprintf("%s %s  %s", e.Icon, e.Title, m.Formatter.Format(e.Amount)),
		faintStyle.Render(string(e.Category)),
	)
}

type extractedMsg struct {
	fields   bill.Fields
	imageURL string
	err      error
}

func (m AddModel) extractCmd(path string) tea.Cmd {
	return func() tea.Msg {
		data, err := os.ReadFile(path)
		if err != nil {
			return extractedMsg{err: err}
		}

		var imageURL string
		if a, err := m.attachments.Put(data); err == nil {
			imageURL = a.URL()
		}

		ctx, cancel := context.WithTimeout(context.Background(), extractTimeout)
		defer cancel()

		fields, err := m.extraction.Extract(ctx, bill.Image{Data: data})

		return extractedMsg{fields: fields, imageURL: imageURL, err: err}
	}
}

type savedMsg struct {
	expense *expense.Expense
	err     error
}

func (m AddModel) saveCmd() tea.Cmd {
	form := m.fields.FormData(m.imageURL)

	return func() tea.Msg {
		ctx, cancel := StoreCtx()
		defer cancel()

		e, err := m.expenses.Add(ctx, form)

		return savedMsg{expense: e, err: err}
	}
}
