package view

import (
	"errors"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/spendwise/internal/expense"
	"github.com/MrJamesThe3rd/spendwise/internal/money"
)

// expenseFields are the huh bindings for the add and edit forms. They live on the heap so the
// bound pointers survive the model being copied by bubbletea.
type expenseFields struct {
	Title       string
	Amount      string
	Description string
	Category    string
}

func fieldsFrom(e *expense.Expense) *expenseFields {
	return &expenseFields{
		Title:       e.Title,
		Amount:      money.Fixed(e.Amount),
		Description: e.Description,
		Category:    string(e.Category),
	}
}

func (f *expenseFields) FormData(imageURL string) expense.FormData {
	return expense.FormData{
		Title:       f.Title,
		Amount:      f.Amount,
		Description: f.Description,
		Category:    f.Category,
		ImageURL:    imageURL,
	}
}

// Update returns the changes as a partial update. Amount must already be valid.
func (f *expenseFields) Update() expense.Update {
	title := strings.TrimSpace(f.Title)
	amount := decimal.RequireFromString(strings.TrimSpace(f.Amount))
	category := expense.ParseCategory(f.Category)

	return expense.Update{
		Title:       &title,
		Amount:      &amount,
		Description: &f.Description,
		Category:    &category,
	}
}

func categoryOptions() []huh.Option[string] {
	names := make([]string, len(expense.Categories))
	for i, c := range expense.Categories {
		names[i] = string(c)
	}

	return huh.NewOptions(names...)
}

func newExpenseForm(f *expenseFields) *huh.Form {
	if f.Category == "" {
		f.Category = string(expense.CategoryOther)
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("title").
				Title("Title").
				Value(&f.Title).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return errors.New("title cannot be empty")
					}
					return nil
				}),

			huh.NewInput().
				Key("amount").
				Title("Amount").
				Placeholder("0.00").
				Value(&f.Amount).
				Validate(func(s string) error {
					_, err := money.Parse(s)
					return err
				}),

			huh.NewText().
				Key("description").
				Title("Description").
				Lines(3).
				Value(&f.Description),

			huh.NewSelect[string]().
				Key("category").
				Title("Category").
				Options(categoryOptions()...).
				Value(&f.Category),
		),
	).WithWidth(50).WithShowHelp(false)
}
