// Package memory holds the expense collection in process memory. Contents are lost on exit.
package memory

import (
	"context"
	"slices"
	"sync"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/spendwise/internal/expense"
)

type Store struct {
	mu       sync.RWMutex
	expenses []*expense.Expense // newest first
}

func New() *Store {
	return &Store{}
}

func (s *Store) CreateExpense(_ context.Context, e *expense.Expense) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.expenses = slices.Insert(s.expenses, 0, e.Clone())

	return nil
}

func (s *Store) CreateExpenses(_ context.Context, es []*expense.Expense) error {
	clones := make([]*expense.Expense, len(es))
	for i, e := range es {
		clones[i] = e.Clone()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.expenses = slices.Insert(s.expenses, 0, clones...)

	return nil
}

func (s *Store) GetExpense(_ context.Context, id uuid.UUID) (*expense.Expense, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.indexOf(id)
	if i < 0 {
		return nil, expense.ErrNotFound
	}

	return s.expenses[i].Clone(), nil
}

func (s *Store) ListExpenses(_ context.Context) ([]*expense.Expense, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*expense.Expense, len(s.expenses))
	for i, e := range s.expenses {
		out[i] = e.Clone()
	}

	return out, nil
}

func (s *Store) UpdateExpense(_ context.Context, e *expense.Expense) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if i := s.indexOf(e.ID); i >= 0 {
		s.expenses[i] = e.Clone()
	}

	return nil
}

func (s *Store) DeleteExpense(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if i := s.indexOf(id); i >= 0 {
		s.expenses = slices.Delete(s.expenses, i, i+1)
	}

	return nil
}

func (s *Store) indexOf(id uuid.UUID) int {
	return slices.IndexFunc(s.expenses, func(e *expense.Expense) bool { return e.ID == id })
}
