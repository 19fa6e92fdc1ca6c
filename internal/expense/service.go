package expense

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/spendwise/internal/money"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=expense
type Repository interface {
	// CreateExpense puts e at the front of the collection.
	CreateExpense(ctx context.Context, e *Expense) error
	// CreateExpenses puts es, ordered newest first, at the front of the collection.
	CreateExpenses(ctx context.Context, es []*Expense) error
	GetExpense(ctx context.Context, id uuid.UUID) (*Expense, error)
	// ListExpenses returns the collection newest first by insertion.
	ListExpenses(ctx context.Context) ([]*Expense, error)
	UpdateExpense(ctx context.Context, e *Expense) error
	DeleteExpense(ctx context.Context, id uuid.UUID) error
}

// Latency is the artificial delay applied before each mutation completes.
type Latency struct {
	Add    time.Duration
	Update time.Duration
	Delete time.Duration
}

// DefaultLatency mirrors the delays the web client was designed around.
var DefaultLatency = Latency{
	Add:    time.Second,
	Update: 500 * time.Millisecond,
	Delete: 500 * time.Millisecond,
}

type Service struct {
	repo    Repository
	latency Latency
	now     func() time.Time
	pending atomic.Int32
}

type Option func(*Service)

func WithLatency(l Latency) Option {
	return func(s *Service) { s.latency = l }
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func NewService(repo Repository, opts ...Option) *Service {
	s := &Service{
		repo:    repo,
		latency: DefaultLatency,
		now:     time.Now,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Busy reports whether a mutation is in flight.
func (s *Service) Busy() bool {
	return s.pending.Load() > 0
}

func (s *Service) Add(ctx context.Context, form FormData) (*Expense, error) {
	amount, err := parseForm(form)
	if err != nil {
		return nil, err
	}

	defer s.begin()()

	if err := wait(ctx, s.latency.Add); err != nil {
		return nil, err
	}

	e := s.newExpense(form, amount)
	if err := s.repo.CreateExpense(ctx, e); err != nil {
		return nil, err
	}

	return e, nil
}

// ImportBatch adds forms in one step. forms are ordered newest first, as the history is listed.
func (s *Service) ImportBatch(ctx context.Context, forms []FormData) ([]*Expense, error) {
	if len(forms) == 0 {
		return nil, nil
	}

	amounts := make([]decimal.Decimal, len(forms))
	for i, f := range forms {
		a, err := parseForm(f)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}

		amounts[i] = a
	}

	defer s.begin()()

	if err := wait(ctx, s.latency.Add); err != nil {
		return nil, err
	}

	// Oldest first so IDs follow insertion order.
	es := make([]*Expense, 0, len(forms))
	for i := len(forms) - 1; i >= 0; i-- {
		es = append(es, s.newExpense(forms[i], amounts[i]))
	}

	slices.Reverse(es)

	if err := s.repo.CreateExpenses(ctx, es); err != nil {
		return nil, fmt.Errorf("create expenses: %w", err)
	}

	return es, nil
}

// Update merges u into the expense with the given id. A missing id is not an error.
func (s *Service) Update(ctx context.Context, id uuid.UUID, u Update) error {
	if u.Title != nil && strings.TrimSpace(*u.Title) == "" {
		return fmt.Errorf("%w: title is required", ErrValidation)
	}

	if u.Amount != nil {
		if _, err := money.Parse(u.Amount.String()); err != nil {
			return fmt.Errorf("%w %s: %v", ErrInvalidAmount, u.Amount, err)
		}
	}

	defer s.begin()()

	if err := wait(ctx, s.latency.Update); err != nil {
		return err
	}

	e, err := s.repo.GetExpense(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil
		}

		return err
	}

	if u.Title != nil {
		e.Title = strings.TrimSpace(*u.Title)
	}

	if u.Amount != nil {
		e.Amount = *u.Amount
	}

	if u.Description != nil {
		e.Description = *u.Description
	}

	if u.Category != nil {
		e.Category = ParseCategory(string(*u.Category))
		e.Icon = e.Category.Icon()
	}

	if u.Date != nil {
		e.Date = *u.Date
	}

	if u.ImageURL != nil {
		e.ImageURL = *u.ImageURL
	}

	e.UpdatedAt = s.now()

	return s.repo.UpdateExpense(ctx, e)
}

// Delete removes the expense with the given id. A missing id is not an error.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	defer s.begin()()

	if err := wait(ctx, s.latency.Delete); err != nil {
		return err
	}

	return s.repo.DeleteExpense(ctx, id)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Expense, error) {
	return s.repo.GetExpense(ctx, id)
}

// List returns a snapshot of the collection, newest first.
func (s *Service) List(ctx context.Context) ([]*Expense, error) {
	return s.repo.ListExpenses(ctx)
}

func (s *Service) begin() func() {
	s.pending.Add(1)
	return func() { s.pending.Add(-1) }
}

func (s *Service) newExpense(form FormData, amount decimal.Decimal) *Expense {
	now := s.now()

	date := form.Date
	if date.IsZero() {
		date = now
	}

	category := ParseCategory(form.Category)

	return &Expense{
		ID:          uuid.Must(uuid.NewV7()),
		Title:       strings.TrimSpace(form.Title),
		Amount:      amount,
		Description: form.Description,
		Category:    category,
		Date:        date,
		ImageURL:    form.ImageURL,
		Icon:        category.Icon(),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func parseForm(form FormData) (decimal.Decimal, error) {
	if err := form.Validate(); err != nil {
		return decimal.Zero, err
	}

	amount, err := money.Parse(form.Amount)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w %q: %v", ErrInvalidAmount, form.Amount, err)
	}

	return amount, nil
}

func wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
