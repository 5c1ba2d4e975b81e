// Package memory provides an in-process record store used by tests
// and the default development backend.
package memory

import (
	"context"
	"strconv"
	"sync"

	"tally/internal/core"
)

type Store struct {
	mu         sync.Mutex
	expenses   []core.ExpenseRecord
	income     []core.IncomeRecord
	categories []core.Category
	users      []core.User
}

func New(categories []core.Category, users []core.User) *Store {
	return &Store{
		categories: append([]core.Category(nil), categories...),
		users:      append([]core.User(nil), users...),
	}
}

// NewSeeded returns a store preloaded with a small reference dataset.
func NewSeeded() *Store {
	s := New(
		[]core.Category{
			{ID: "c1", Name: "Food", Type: core.KindExpense},
			{ID: "c2", Name: "Travel", Type: core.KindExpense},
			{ID: "c3", Name: "Office", Type: core.KindExpense},
			{ID: "c4", Name: "Salary", Type: core.KindIncome},
			{ID: "c5", Name: "Sales", Type: core.KindIncome},
		},
		[]core.User{
			{ID: "u1", Name: "Alice", Department: "Engineering"},
			{ID: "u2", Name: "Bob", Department: "Sales"},
		},
	)
	return s
}

// CreateExpense stores the record and returns its assigned id.
func (s *Store) CreateExpense(_ context.Context, e core.ExpenseRecord) (string, error) {
	if err := e.Validate(); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if e.ID == "" {
		e.ID = "e" + strconv.Itoa(len(s.expenses)+1)
	}
	s.expenses = append(s.expenses, e)
	return e.ID, nil
}

// CreateIncome stores the record and returns its assigned id.
func (s *Store) CreateIncome(_ context.Context, i core.IncomeRecord) (string, error) {
	if err := i.Validate(); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if i.ID == "" {
		i.ID = "i" + strconv.Itoa(len(s.income)+1)
	}
	s.income = append(s.income, i)
	return i.ID, nil
}

func (s *Store) ListExpenses(_ context.Context) ([]core.ExpenseRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.ExpenseRecord(nil), s.expenses...), nil
}

func (s *Store) ListIncome(_ context.Context) ([]core.IncomeRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.IncomeRecord(nil), s.income...), nil
}

func (s *Store) ListCategories(_ context.Context) ([]core.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.Category(nil), s.categories...), nil
}

func (s *Store) ListUsers(_ context.Context) ([]core.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.User(nil), s.users...), nil
}
