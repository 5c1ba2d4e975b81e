// Package sqlite backs the record store with an embedded SQLite
// database. Dates are stored as "YYYY-MM-DD" text so range scans sort
// chronologically, amounts as integer cents.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"tally/internal/core"

	_ "modernc.org/sqlite"
)

type Repository struct {
	db *sql.DB
}

func NewRepository(dbPath string) (*Repository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := runMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Repository{db: db}, nil
}

func (r *Repository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// CreateExpense implements store.RecordWriter.
func (r *Repository) CreateExpense(ctx context.Context, e core.ExpenseRecord) (string, error) {
	if err := e.Validate(); err != nil {
		return "", err
	}
	if e.ID == "" {
		e.ID = uuid.NewString()
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO expenses (id, amount_cents, occurred_on, category_id, user_id, description)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		e.ID, e.Amount.Cents, e.OccurredOn.Format("2006-01-02"), e.CategoryID, e.UserID, e.Description)
	if err != nil {
		return "", fmt.Errorf("create expense: %w", err)
	}

	slog.InfoContext(ctx, "Expense saved to SQLite",
		"id", e.ID,
		"amount_cents", e.Amount.Cents,
		"occurred_on", e.OccurredOn.Format("2006-01-02"))

	return e.ID, nil
}

// CreateIncome implements store.RecordWriter.
func (r *Repository) CreateIncome(ctx context.Context, i core.IncomeRecord) (string, error) {
	if err := i.Validate(); err != nil {
		return "", err
	}
	if i.ID == "" {
		i.ID = uuid.NewString()
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO income (id, amount_cents, occurred_on, category_id, user_id, source, description)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		i.ID, i.Amount.Cents, i.OccurredOn.Format("2006-01-02"), i.CategoryID, i.UserID, i.Source, i.Description)
	if err != nil {
		return "", fmt.Errorf("create income: %w", err)
	}

	slog.InfoContext(ctx, "Income saved to SQLite",
		"id", i.ID,
		"amount_cents", i.Amount.Cents,
		"occurred_on", i.OccurredOn.Format("2006-01-02"))

	return i.ID, nil
}

// ListExpenses implements store.RecordSource.
func (r *Repository) ListExpenses(ctx context.Context) ([]core.ExpenseRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, amount_cents, occurred_on, category_id, user_id, description
		 FROM expenses ORDER BY occurred_on, id`)
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	defer rows.Close()

	var expenses []core.ExpenseRecord
	for rows.Next() {
		var (
			e        core.ExpenseRecord
			occurred string
		)
		if err := rows.Scan(&e.ID, &e.Amount.Cents, &occurred, &e.CategoryID, &e.UserID, &e.Description); err != nil {
			return nil, fmt.Errorf("scan expense: %w", err)
		}
		e.OccurredOn, err = core.ParseDate(occurred)
		if err != nil {
			return nil, fmt.Errorf("parse expense date %q: %w", occurred, err)
		}
		expenses = append(expenses, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate expenses: %w", err)
	}
	return expenses, nil
}

// ListIncome implements store.RecordSource.
func (r *Repository) ListIncome(ctx context.Context) ([]core.IncomeRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, amount_cents, occurred_on, category_id, user_id, source, description
		 FROM income ORDER BY occurred_on, id`)
	if err != nil {
		return nil, fmt.Errorf("list income: %w", err)
	}
	defer rows.Close()

	var income []core.IncomeRecord
	for rows.Next() {
		var (
			i        core.IncomeRecord
			occurred string
		)
		if err := rows.Scan(&i.ID, &i.Amount.Cents, &occurred, &i.CategoryID, &i.UserID, &i.Source, &i.Description); err != nil {
			return nil, fmt.Errorf("scan income: %w", err)
		}
		i.OccurredOn, err = core.ParseDate(occurred)
		if err != nil {
			return nil, fmt.Errorf("parse income date %q: %w", occurred, err)
		}
		income = append(income, i)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate income: %w", err)
	}
	return income, nil
}

// ListCategories implements store.RecordSource.
func (r *Repository) ListCategories(ctx context.Context) ([]core.Category, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name, type FROM categories ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var categories []core.Category
	for rows.Next() {
		var (
			c   core.Category
			typ string
		)
		if err := rows.Scan(&c.ID, &c.Name, &typ); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		c.Type, err = core.ParseKind(typ)
		if err != nil {
			return nil, fmt.Errorf("category %s: %w", c.ID, err)
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate categories: %w", err)
	}
	return categories, nil
}

// ListUsers implements store.RecordSource.
func (r *Repository) ListUsers(ctx context.Context) ([]core.User, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name, department FROM users ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var users []core.User
	for rows.Next() {
		var u core.User
		if err := rows.Scan(&u.ID, &u.Name, &u.Department); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate users: %w", err)
	}
	return users, nil
}
