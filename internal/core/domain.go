package core

import (
	"errors"
	"strings"
	"time"
)

const (
	KindExpense Kind = "expense"
	KindIncome  Kind = "income"

	// UnknownName is the sentinel used when a category or user
	// reference cannot be resolved. Incomplete references must not
	// block reporting.
	UnknownName = "Unknown"
)

type (
	// Kind discriminates the direction of a transaction. Amounts are
	// always non-negative; the sign lives here.
	Kind string

	Date struct {
		time.Time
	}

	Money struct {
		Cents int64
	}

	// Transaction is the unified expense-or-income record produced by
	// normalization. Immutable once built.
	Transaction struct {
		ID          string
		Kind        Kind
		Amount      Money
		OccurredOn  Date
		Category    string
		User        string
		Department  string
		Description string
	}

	// ExpenseRecord is a stored expense row before normalization.
	ExpenseRecord struct {
		ID          string
		Amount      Money
		OccurredOn  Date
		CategoryID  string
		UserID      string
		Description string
	}

	// IncomeRecord is a stored income row before normalization. Income
	// rows carry an optional source field that expenses do not.
	IncomeRecord struct {
		ID          string
		Amount      Money
		OccurredOn  Date
		CategoryID  string
		UserID      string
		Source      string
		Description string
	}

	Category struct {
		ID   string
		Name string
		Type Kind
	}

	User struct {
		ID         string
		Name       string
		Department string
	}
)

var (
	ErrKindInvalid        = errors.New("record kind cannot be determined")
	ErrInvalidFilterRange = errors.New("filter range minimum exceeds maximum")
	ErrInvalidAmount      = errors.New("invalid amount")
	ErrInvalidDate        = errors.New("invalid date")
	ErrEmptyDescription   = errors.New("empty description")
)

// Valid reports whether the kind is one of the two known directions.
func (k Kind) Valid() bool {
	return k == KindExpense || k == KindIncome
}

// ParseKind maps a stored type string to a Kind.
func ParseKind(s string) (Kind, error) {
	switch Kind(strings.ToLower(strings.TrimSpace(s))) {
	case KindExpense:
		return KindExpense, nil
	case KindIncome:
		return KindIncome, nil
	default:
		return "", ErrKindInvalid
	}
}

// NewDate creates a Date from year, month, day. The time component is
// always midnight UTC; aggregation only looks at the calendar date.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates an instant to its calendar date.
func DateOf(t time.Time) Date {
	return NewDate(t.Year(), int(t.Month()), t.Day())
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

// Day returns the day of the month
func (d Date) Day() int {
	return d.Time.Day()
}

// Month returns the month
func (d Date) Month() int {
	return int(d.Time.Month())
}

// Year returns the year
func (d Date) Year() int {
	return d.Time.Year()
}

// MonthKey returns the chronologically sortable "YYYY-MM" label used
// for monthly bucketing.
func (d Date) MonthKey() string {
	return d.Format("2006-01")
}

// Before reports whether d falls on an earlier calendar day than o.
func (d Date) Before(o Date) bool {
	return d.Time.Before(o.Time)
}

// After reports whether d falls on a later calendar day than o.
func (d Date) After(o Date) bool {
	return d.Time.After(o.Time)
}

func (m Money) Validate() error {
	if m.Cents < 0 {
		return ErrInvalidAmount
	}
	return nil
}

// Add returns the sum of two amounts.
func (m Money) Add(o Money) Money {
	return Money{Cents: m.Cents + o.Cents}
}

// IsZero reports whether the amount is exactly zero.
func (m Money) IsZero() bool {
	return m.Cents == 0
}

func (t Transaction) Validate() error {
	if !t.Kind.Valid() {
		return ErrKindInvalid
	}
	if err := t.OccurredOn.Validate(); err != nil {
		return err
	}
	if err := t.Amount.Validate(); err != nil {
		return err
	}
	return nil
}

func (e ExpenseRecord) Validate() error {
	if err := e.OccurredOn.Validate(); err != nil {
		return err
	}
	if err := e.Amount.Validate(); err != nil {
		return err
	}
	if len(e.Description) > 200 {
		return errors.New("description too long (max 200 characters)")
	}
	return nil
}

func (i IncomeRecord) Validate() error {
	if err := i.OccurredOn.Validate(); err != nil {
		return err
	}
	if err := i.Amount.Validate(); err != nil {
		return err
	}
	if len(i.Description) > 200 {
		return errors.New("description too long (max 200 characters)")
	}
	return nil
}
