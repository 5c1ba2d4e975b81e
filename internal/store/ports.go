// Package store defines the ports the analytics and HTTP layers use
// to reach the durable record store, plus helpers shared by the
// backends.
package store

import (
	"context"

	"tally/internal/core"
)

type (
	// RecordSource is the read side the report builder consumes. Each
	// report takes its own snapshot; the engine never holds a
	// reference into live store state.
	RecordSource interface {
		ListExpenses(ctx context.Context) ([]core.ExpenseRecord, error)
		ListIncome(ctx context.Context) ([]core.IncomeRecord, error)
		ListCategories(ctx context.Context) ([]core.Category, error)
		ListUsers(ctx context.Context) ([]core.User, error)
	}

	// RecordWriter is the write side used by the HTTP API.
	RecordWriter interface {
		CreateExpense(ctx context.Context, e core.ExpenseRecord) (string, error)
		CreateIncome(ctx context.Context, i core.IncomeRecord) (string, error)
	}

	// Store combines both sides.
	Store interface {
		RecordSource
		RecordWriter
	}

	// Snapshot is one consistent read of every record list.
	Snapshot struct {
		Expenses   []core.ExpenseRecord
		Income     []core.IncomeRecord
		Categories []core.Category
		Users      []core.User
	}
)

// TakeSnapshot reads all four lists from the source.
func TakeSnapshot(ctx context.Context, src RecordSource) (*Snapshot, error) {
	expenses, err := src.ListExpenses(ctx)
	if err != nil {
		return nil, err
	}
	income, err := src.ListIncome(ctx)
	if err != nil {
		return nil, err
	}
	categories, err := src.ListCategories(ctx)
	if err != nil {
		return nil, err
	}
	users, err := src.ListUsers(ctx)
	if err != nil {
		return nil, err
	}
	return &Snapshot{
		Expenses:   expenses,
		Income:     income,
		Categories: categories,
		Users:      users,
	}, nil
}
