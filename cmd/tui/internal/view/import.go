package view

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/spendwise/internal/export"
)

const importTimeout = 2 * time.Minute

type importState int

const (
	importStateFilePick importState = iota
	importStateImporting
	importStateResult
)

type ImportModel struct {
	CommonModel
	exportService *export.Service

	state      importState
	filePicker filepicker.Model
	spinner    spinner.Model

	status string
	err    error
}

func NewImportModel(svc *export.Service) ImportModel {
	fp := filepicker.New()
	fp.CurrentDirectory, _ = os.Getwd()
	fp.AllowedTypes = []string{".csv"}
	fp.ShowHidden = false
	fp.DirAllowed = false
	fp.FileAllowed = true
	fp.SetHeight(15)

	return ImportModel{
		exportService: svc,
		filePicker:    fp,
		spinner:       newSpinner(),
	}
}

func (m ImportModel) Title() string { return "Import Expenses" }

func (m ImportModel) ShortHelp() string {
	if m.state == importStateResult {
		return "Enter: import another | Esc: back"
	}

	return "Esc: back | Enter: select"
}

func (m ImportModel) Init() tea.Cmd {
	return m.filePicker.Init()
}

func (m ImportModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.Type == tea.KeyEsc {
			return m, Back
		}

		if m.state == importStateResult && msg.Type == tea.KeyEnter {
			m.state = importStateFilePick
			m.err = nil
			m.status = ""

			return m, m.filePicker.Init()
		}

	case importResultMsg:
		m.state = importStateResult
		m.err = msg.err

		if msg.err != nil {
			m.status = fmt.Sprintf("Error: %v", msg.err)
		} else {
			m.status = fmt.Sprintf("Imported %d expenses.", msg.count)
		}

		return m, nil
	}

	switch m.state {
	case importStateImporting:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)

		return m, cmd
	case importStateResult:
		return m, nil
	}

	var cmd tea.Cmd
	m.filePicker, cmd = m.filePicker.Update(msg)

	if didSelect, path := m.filePicker.DidSelectFile(msg); didSelect {
		m.state = importStateImporting
		m.status = fmt.Sprintf("Importing from %s...", path)

		return m, tea.Batch(m.spinner.Tick, m.importCmd(path))
	}

	return m, cmd
}

func (m ImportModel) View() string {
	var body string

	switch m.state {
	case importStateFilePick:
		body = "Pick a CSV with date, title and amount columns:\n\n" + m.filePicker.View()
	case importStateImporting:
		body = m.spinner.View() + " " + m.status
	case importStateResult:
		if m.err != nil {
			body = errorStyle.Render(m.status)
		} else {
			body = okStyle.Render(m.status)
		}
	}

	return lipgloss.NewStyle().Padding(1).Render(body + "\n\n" + faintStyle.Render(m.ShortHelp()))
}

type importResultMsg struct {
	count int
	err   error
}

func (m ImportModel) importCmd(path string) tea.Cmd {
	return func() tea.Msg {
		f, err := os.Open(path)
		if err != nil {
			return importResultMsg{err: err}
		}
		defer func() { _ = f.Close() }()

		ctx, cancel := context.WithTimeout(context.Background(), importTimeout)
		defer cancel()

		es, err := m.exportService.Import(ctx, f)

		return importResultMsg{count: len(es), err: err}
	}
}
