package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"fintrack/internal/core"
)

func TestAddWithPredefinedCategory(t *testing.T) {
	store := &fakeStore{
		categories: []core.Category{
			{ID: 1, Name: "Food", Type: core.Expense, Color: "#aa0000"},
		},
	}
	svc := NewTransactionService(store, store, nil)

	id, err := svc.Add(context.Background(), 7, TransactionInput{
		Amount:      core.Money{Cents: 1250},
		Date:        core.NewDate(2024, 3, 13),
		Description: "lunch",
		Category:    "Food",
	})
	if err != nil {
		t.Fatalf("Add() error = %v", err)
	}

	tx, err := store.GetTransaction(context.Background(), 7, id)
	if err != nil {
		t.Fatalf("stored transaction not found: %v", err)
	}
	if tx.CategoryID != 1 {
		t.Errorf("category id = %d, want 1", tx.CategoryID)
	}
	// The transaction type must always follow the category type.
	if tx.Type != core.Expense {
		t.Errorf("type = %q, want expense", tx.Type)
	}
}

func TestAddCreatesCustomCategoryOnce(t *testing.T) {
	store := &fakeStore{}
	svc := NewTransactionService(store, store, nil)

	in := TransactionInput{
		Amount:         core.Money{Cents: 4200},
		Date:           core.NewDate(2024, 3, 13),
		Description:    "cat food",
		Category:       "custom",
		CustomCategory: "Pet Supplies",
		CustomType:     core.Expense,
	}

	if _, err := svc.Add(context.Background(), 7, in); err != nil {
		t.Fatalf("first Add() error = %v", err)
	}
	if _, err := svc.Add(context.Background(), 7, in); err != nil {
		t.Fatalf("second Add() error = %v", err)
	}

	count := 0
	for _, c := range store.categories {
		if c.Name == "Pet Supplies" {
			count++
			if c.UserID == nil || *c.UserID != 7 {
				t.Errorf("custom category not scoped to user: %+v", c)
			}
			if !strings.HasPrefix(c.Color, "#") || len(c.Color) != 7 {
				t.Errorf("custom category color %q not a hex color", c.Color)
			}
		}
	}
	if count != 1 {
		t.Errorf("custom category created %d times, want 1", count)
	}
}

func TestAddWithExistingCustomCategoryByName(t *testing.T) {
	owner := int64(7)
	store := &fakeStore{
		categories: []core.Category{
			{ID: 3, UserID: &owner, Name: "Pet Supplies", Type: core.Expense, Color: "#00aa00"},
		},
	}
	svc := NewTransactionService(store, store, nil)

	// The entry form lists custom categories by name alongside predefined
	// ones; picking one must resolve within the user's own scope.
	id, err := svc.Add(context.Background(), owner, TransactionInput{
		Amount:      core.Money{Cents: 900},
		Date:        core.NewDate(2024, 3, 14),
		Description: "litter",
		Category:    "Pet Supplies",
	})
	if err != nil {
		t.Fatalf("Add() error = %v", err)
	}

	tx, err := store.GetTransaction(context.Background(), owner, id)
	if err != nil {
		t.Fatalf("stored transaction not found: %v", err)
	}
	if tx.CategoryID != 3 {
		t.Errorf("category id = %d, want 3", tx.CategoryID)
	}
	if len(store.categories) != 1 {
		t.Errorf("category count = %d, want 1 (no duplicate created)", len(store.categories))
	}
}

func TestAddRejectsBadInput(t *testing.T) {
	store := &fakeStore{
		categories: []core.Category{{ID: 1, Name: "Food", Type: core.Expense}},
	}
	svc := NewTransactionService(store, store, nil)

	tests := []struct {
		name    string
		in      TransactionInput
		wantErr error
	}{
		{
			name: "custom without name",
			in: TransactionInput{
				Amount:      core.Money{Cents: 100},
				Date:        core.NewDate(2024, 3, 13),
				Description: "x",
				Category:    "custom",
				CustomType:  core.Expense,
			},
			wantErr: core.ErrEmptyCategory,
		},
		{
			name: "custom without type",
			in: TransactionInput{
				Amount:         core.Money{Cents: 100},
				Date:           core.NewDate(2024, 3, 13),
				Description:    "x",
				Category:       "custom",
				CustomCategory: "Stuff",
			},
			wantErr: core.ErrInvalidType,
		},
		{
			name: "zero amount",
			in: TransactionInput{
				Amount:      core.Money{Cents: 0},
				Date:        core.NewDate(2024, 3, 13),
				Description: "x",
				Category:    "Food",
			},
			wantErr: core.ErrInvalidAmount,
		},
		{
			name: "empty description",
			in: TransactionInput{
				Amount:      core.Money{Cents: 100},
				Date:        core.NewDate(2024, 3, 13),
				Description: "   ",
				Category:    "Food",
			},
			wantErr: core.ErrEmptyDescription,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Add(context.Background(), 7, tt.in)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Add() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestUpdateRepointsCategory(t *testing.T) {
	store := &fakeStore{
		categories: []core.Category{
			{ID: 1, Name: "Food", Type: core.Expense},
			{ID: 2, Name: "Salary", Type: core.Income},
		},
		transactions: []core.Transaction{
			{ID: 10, UserID: 7, Amount: core.Money{Cents: 500}, Type: core.Expense, CategoryID: 1, Description: "was food", Date: core.NewDate(2024, 3, 1)},
		},
		nextID: 50,
	}
	svc := NewTransactionService(store, store, nil)

	err := svc.Update(context.Background(), 7, 10, TransactionInput{
		Amount:      core.Money{Cents: 100000},
		Date:        core.NewDate(2024, 3, 1),
		Description: "now salary",
		Category:    "Salary",
	})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	tx, _ := store.GetTransaction(context.Background(), 7, 10)
	if tx.CategoryID != 2 || tx.Type != core.Income {
		t.Errorf("updated transaction = %+v, want category 2 / income", tx)
	}
}

func TestDeleteOtherUsersTransaction(t *testing.T) {
	store := &fakeStore{
		transactions: []core.Transaction{
			{ID: 10, UserID: 8, Amount: core.Money{Cents: 500}, Type: core.Expense, CategoryID: 1, Description: "theirs", Date: core.NewDate(2024, 3, 1)},
		},
	}
	svc := NewTransactionService(store, store, nil)

	if err := svc.Delete(context.Background(), 7, 10); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("Delete() of foreign transaction error = %v, want not found", err)
	}
}
