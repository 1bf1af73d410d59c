package core

import (
	"errors"
	"strings"
	"time"
)

const (
	Income  TransactionType = "income"
	Expense TransactionType = "expense"
)

type (
	// TransactionType discriminates income from expense. Amounts are always
	// stored positive; the type carries the sign.
	TransactionType string

	Date struct {
		time.Time
	}

	Money struct {
		Cents int64
	}

	// Category groups transactions. A nil UserID marks a predefined category
	// shared by every user; otherwise the category belongs to one user.
	Category struct {
		ID     int64
		UserID *int64
		Name   string
		Type   TransactionType
		Color  string
	}

	Transaction struct {
		ID           int64
		UserID       int64
		Amount       Money
		Type         TransactionType
		CategoryID   int64
		CategoryName string
		Description  string
		Date         Date
	}

	// Budget tracks cumulative spend against one category within a recurring
	// window anchored to "now" at evaluation time. Spend is always derived
	// from live transactions, never stored.
	Budget struct {
		ID           int64
		UserID       int64
		CategoryID   int64
		CategoryName string
		Limit        Money
		Frequency    Frequency
	}

	// CategorySum is one row of a per-category aggregation: the summed amount
	// of matching transactions joined with the category's display data.
	// Percentage is filled in by the aggregation engine for expense rows.
	CategorySum struct {
		CategoryID int64
		Name       string
		Type       TransactionType
		Color      string
		Amount     Money
		Percentage int
	}

	User struct {
		ID       int64
		Name     string
		Email    string
		Password string // bcrypt hash; empty for Google-only accounts
		GoogleID string
	}
)

var (
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrInvalidType      = errors.New("invalid transaction type")
	ErrEmptyDescription = errors.New("empty description")
	ErrEmptyCategory    = errors.New("empty category name")
	ErrNotFound         = errors.New("not found")
)

// Valid reports whether t is one of the two known transaction types.
func (t TransactionType) Valid() bool {
	return t == Income || t == Expense
}

// NewDate creates a calendar date. Time of day carries no meaning.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", strings.TrimSpace(s))
	if err != nil {
		return Date{}, err
	}
	return Date{Time: t}, nil
}

// ISO returns the date formatted as YYYY-MM-DD.
func (d Date) ISO() string {
	return d.Format("2006-01-02")
}

func (d Date) Validate() error {
	if d.IsZero() {
		return errors.New("date cannot be zero")
	}
	return nil
}

func (m Money) Validate() error {
	if m.Cents <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

func (t Transaction) Validate() error {
	if err := t.Date.Validate(); err != nil {
		return err
	}
	if !t.Type.Valid() {
		return ErrInvalidType
	}
	if len(strings.TrimSpace(t.Description)) == 0 {
		return ErrEmptyDescription
	}
	if len(t.Description) > 200 {
		return errors.New("description too long (max 200 characters)")
	}
	if err := t.Amount.Validate(); err != nil {
		return err
	}
	if t.CategoryID <= 0 {
		return errors.New("missing category")
	}
	return nil
}

func (b Budget) Validate() error {
	if err := b.Limit.Validate(); err != nil {
		return err
	}
	if b.CategoryID <= 0 {
		return errors.New("missing category")
	}
	return nil
}
