package expense

import (
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/spendwise/internal/expense"
	"github.com/MrJamesThe3rd/spendwise/internal/money"
)

type expenseResponse struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Amount      string    `json:"amount"`
	Formatted   string    `json:"formatted_amount"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	Icon        string    `json:"icon"`
	Date        time.Time `json:"date"`
	ImageURL    string    `json:"image_url,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type listResponse struct {
	Expenses []expenseResponse `json:"expenses"`
	Count    int               `json:"count"`
	Total    int               `json:"total"`
}

func toResponse(e *expense.Expense, f *money.Formatter) expenseResponse {
	return expenseResponse{
		ID:          e.ID,
		Title:       e.Title,
		Amount:      money.Fixed(e.Amount),
		Formatted:   f.Format(e.Amount),
		Description: e.Description,
		Category:    string(e.Category),
		Icon:        e.Icon,
		Date:        e.Date,
		ImageURL:    e.ImageURL,
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
}

func toResponseList(es []*expense.Expense, f *money.Formatter) []expenseResponse {
	resp := make([]expenseResponse, len(es))
	for i, e := range es {
		resp[i] = toResponse(e, f)
	}

	return resp
}
