// Package store is the Postgres-backed expense Repository. Insertion order is kept in a
// serial column so listing matches the in-memory store: newest insertion first.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/spendwise/internal/expense"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

const selectExpenseColumns = `id, title, amount, description, category, icon, image_url, date, created_at, updated_at`

func scanExpense(s scanner) (*expense.Expense, error) {
	var (
		e        expense.Expense
		category string
	)

	if err := s.Scan(
		&e.ID, &e.Title, &e.Amount, &e.Description, &category, &e.Icon, &e.ImageURL,
		&e.Date, &e.CreatedAt, &e.UpdatedAt,
	); err != nil {
		return nil, err
	}

	e.Category = expense.ParseCategory(category)

	return &e, nil
}

const insertExpense = `
	INSERT INTO expenses (id, title, amount, description, category, icon, image_url, date, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
`

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func insert(ctx context.Context, db execer, e *expense.Expense) error {
	_, err := db.ExecContext(ctx, insertExpense,
		e.ID,
		e.Title,
		e.Amount,
		e.Description,
		string(e.Category),
		e.Icon,
		e.ImageURL,
		e.Date,
		e.CreatedAt,
		e.UpdatedAt,
	)

	return err
}

func (s *Store) CreateExpense(ctx context.Context, e *expense.Expense) error {
	if err := insert(ctx, s.db, e); err != nil {
		return fmt.Errorf("creating expense: %w", err)
	}

	return nil
}

// CreateExpenses inserts the batch atomically, oldest first, so the newest row ends up on top.
func (s *Store) CreateExpenses(ctx context.Context, es []*expense.Expense) error {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = dbTx.Rollback() }()

	for i := len(es) - 1; i >= 0; i-- {
		if err := insert(ctx, dbTx, es[i]); err != nil {
			return fmt.Errorf("creating expense %s: %w", es[i].ID, err)
		}
	}

	if err := dbTx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}

	return nil
}

func (s *Store) GetExpense(ctx context.Context, id uuid.UUID) (*expense.Expense, error) {
	query := `SELECT ` + selectExpenseColumns + ` FROM expenses WHERE id = $1`

	e, err := scanExpense(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, expense.ErrNotFound
		}

		return nil, fmt.Errorf("getting expense: %w", err)
	}

	return e, nil
}

func (s *Store) ListExpenses(ctx context.Context) ([]*expense.Expense, error) {
	query := `SELECT ` + selectExpenseColumns + ` FROM expenses ORDER BY seq DESC`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing expenses: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var es []*expense.Expense

	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning expense: %w", err)
		}

		es = append(es, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating expenses: %w", err)
	}

	return es, nil
}

// UpdateExpense overwrites the mutable columns. An unknown id affects no rows and is not an error.
func (s *Store) UpdateExpense(ctx context.Context, e *expense.Expense) error {
	query := `
		UPDATE expenses
		SET title = $1, amount = $2, description = $3, category = $4, icon = $5,
		    image_url = $6, date = $7, updated_at = $8
		WHERE id = $9
	`

	_, err := s.db.ExecContext(ctx, query,
		e.Title,
		e.Amount,
		e.Description,
		string(e.Category),
		e.Icon,
		e.ImageURL,
		e.Date,
		e.UpdatedAt,
		e.ID,
	)
	if err != nil {
		return fmt.Errorf("updating expense: %w", err)
	}

	return nil
}

func (s *Store) DeleteExpense(ctx context.Context, id uuid.UUID) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM expenses WHERE id = $1`, id); err != nil {
		return fmt.Errorf("deleting expense: %w", err)
	}

	return nil
}
