package expense

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrNotFound      = errors.New("expense not found")
	ErrInvalidAmount = errors.New("invalid amount")
	ErrValidation    = errors.New("invalid expense")
)

// Expense is a single recorded transaction.
type Expense struct {
	ID          uuid.UUID
	Title       string
	Amount      decimal.Decimal
	Description string
	Category    Category
	Date        time.Time
	ImageURL    string // Transient attachment reference, empty when none
	Icon        string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Clone returns a copy that shares no state with e.
func (e *Expense) Clone() *Expense {
	c := *e
	return &c
}
