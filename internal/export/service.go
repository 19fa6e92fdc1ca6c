package export

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/MrJamesThe3rd/spendwise/internal/attachment"
	"github.com/MrJamesThe3rd/spendwise/internal/expense"
	"github.com/MrJamesThe3rd/spendwise/internal/money"
)

// CSVName is the file Export writes the history to.
const CSVName = "expenses.csv"

// Item is one exported expense with the local path of its bill image, if it had one.
type Item struct {
	Expense  *expense.Expense
	FilePath string
}

// Service exports the history to disk and imports it back.
type Service struct {
	expenses    *expense.Service
	attachments *attachment.Store
	formatter   *money.Formatter
}

// NewService creates a new export Service. attachments may be nil when images are not kept.
func NewService(expenses *expense.Service, attachments *attachment.Store, formatter *money.Formatter) *Service {
	if formatter == nil {
		formatter = money.NewFormatter(money.DefaultSymbol)
	}

	return &Service{expenses: expenses, attachments: attachments, formatter: formatter}
}

// Export writes the history as CSV into outputDir, next to a copy of every bill image still held.
func (s *Service) Export(ctx context.Context, outputDir string) ([]Item, error) {
	expenses, err := s.expenses.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing expenses: %w", err)
	}

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	f, err := os.Create(filepath.Join(outputDir, CSVName))
	if err != nil {
		return nil, fmt.Errorf("creating csv: %w", err)
	}
	defer func() { _ = f.Close() }()

	if err := WriteCSV(f, expenses); err != nil {
		return nil, fmt.Errorf("writing csv: %w", err)
	}

	items := make([]Item, 0, len(expenses))

	for _, e := range expenses {
		path, err := s.writeAttachment(e, outputDir)
		if err != nil {
			return nil, fmt.Errorf("writing image for expense %s: %w", e.ID, err)
		}

		items = append(items, Item{Expense: e, FilePath: path})
	}

	if err := f.Close(); err != nil {
		return nil, fmt.Errorf("closing csv: %w", err)
	}

	return items, nil
}

func (s *Service) writeAttachment(e *expense.Expense, dir string) (string, error) {
	if s.attachments == nil || e.ImageURL == "" {
		return "", nil
	}

	a, err := s.attachments.Resolve(e.ImageURL)
	if err != nil {
		// External URLs and attachments lost on restart are skipped.
		return "", nil
	}

	path := filepath.Join(dir, filename(e, a.Extension()))
	if err := os.WriteFile(path, a.Data, 0o644); err != nil {
		return "", err
	}

	return path, nil
}

// filename is YYYYMMDD_Title_shortid.ext with the title reduced to filename-safe runes.
func filename(e *expense.Expense, ext string) string {
	safeTitle := strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '-' || r == '_' {
			return r
		}

		return '_'
	}, e.Title)

	id := e.ID.String()

	return fmt.Sprintf("%s_%s_%s%s", e.Date.Format("20060102"), safeTitle, id[len(id)-8:], ext)
}

// Import reads a history CSV and adds every row in one batch.
func (s *Service) Import(ctx context.Context, r io.Reader) ([]*expense.Expense, error) {
	forms, err := ReadCSV(r)
	if err != nil {
		return nil, err
	}

	return s.expenses.ImportBatch(ctx, forms)
}

// Summary renders one line per item, e.g. "* 2024-03-15 | Lunch | ₹12.50 | Food & Dining".
func (s *Service) Summary(items []Item) string {
	var sb strings.Builder

	for _, item := range items {
		e := item.Expense
		fmt.Fprintf(&sb, "* %s | %s | %s | %s\n", e.Date.Format("2006-01-02"), e.Title, s.formatter.Format(e.Amount), e.Category)
	}

	return sb.String()
}

// Summary renders expenses with the default currency symbol.
func Summary(expenses []*expense.Expense) string {
	items := make([]Item, len(expenses))
	for i, e := range expenses {
		items[i] = Item{Expense: e}
	}

	return (&Service{formatter: money.NewFormatter(money.DefaultSymbol)}).Summary(items)
}
