package services

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log/slog"

	"fintrack/internal/amqp"
	"fintrack/internal/core"
)

// TransactionInput carries the parsed entry/edit form. Category is either a
// predefined category name or the literal "custom", in which case
// CustomCategory and CustomType name a user-scoped category that is created
// on first use.
type TransactionInput struct {
	Amount         core.Money
	Date           core.Date
	Description    string
	Category       string
	CustomCategory string
	CustomType     core.TransactionType
}

// TransactionService orchestrates transaction writes: category resolution,
// persistence, and async event publishing for the export worker. The AMQP
// client is optional; without one, writes stay local and events are skipped.
type TransactionService struct {
	transactions TransactionStore
	categories   CategoryStore
	events       *amqp.Client
}

func NewTransactionService(transactions TransactionStore, categories CategoryStore, events *amqp.Client) *TransactionService {
	return &TransactionService{
		transactions: transactions,
		categories:   categories,
		events:       events,
	}
}

// Add records a new transaction for the user. The transaction's type is
// derived from the resolved category, keeping transaction.type equal to
// category.type by construction.
func (s *TransactionService) Add(ctx context.Context, userID int64, in TransactionInput) (int64, error) {
	cat, err := s.resolveCategory(ctx, userID, in)
	if err != nil {
		return 0, err
	}

	t := core.Transaction{
		UserID:      userID,
		Amount:      in.Amount,
		Type:        cat.Type,
		CategoryID:  cat.ID,
		Description: in.Description,
		Date:        in.Date,
	}
	if err := t.Validate(); err != nil {
		return 0, err
	}

	id, err := s.transactions.CreateTransaction(ctx, t)
	if err != nil {
		return 0, fmt.Errorf("create transaction: %w", err)
	}

	// Publish async export event (non-blocking; the write already succeeded)
	if err := s.publishSync(ctx, id, 1); err != nil {
		slog.ErrorContext(ctx, "Failed to publish transaction sync event",
			"id", id, "error", err)
	}

	return id, nil
}

// Get fetches one transaction owned by the user, joined with its category name.
// Categories lists the predefined set and the user's custom categories for
// the entry forms.
func (s *TransactionService) Categories(ctx context.Context, userID int64) (predefined, custom []core.Category, err error) {
	return s.categories.ListCategories(ctx, userID)
}

func (s *TransactionService) Get(ctx context.Context, userID, id int64) (core.Transaction, error) {
	t, err := s.transactions.GetTransaction(ctx, userID, id)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("get transaction %d: %w", id, err)
	}
	return t, nil
}

// Update rewrites a transaction from the edit form, re-resolving its category.
func (s *TransactionService) Update(ctx context.Context, userID, id int64, in TransactionInput) error {
	cat, err := s.resolveCategory(ctx, userID, in)
	if err != nil {
		return err
	}

	t := core.Transaction{
		ID:          id,
		UserID:      userID,
		Amount:      in.Amount,
		Type:        cat.Type,
		CategoryID:  cat.ID,
		Description: in.Description,
		Date:        in.Date,
	}
	if err := t.Validate(); err != nil {
		return err
	}

	if err := s.transactions.UpdateTransaction(ctx, t); err != nil {
		return fmt.Errorf("update transaction %d: %w", id, err)
	}

	if err := s.publishSync(ctx, id, 2); err != nil {
		slog.ErrorContext(ctx, "Failed to publish transaction sync event",
			"id", id, "error", err)
	}
	return nil
}

// Delete removes a transaction owned by the user and publishes a delete event.
func (s *TransactionService) Delete(ctx context.Context, userID, id int64) error {
	if err := s.transactions.DeleteTransaction(ctx, userID, id); err != nil {
		return fmt.Errorf("delete transaction %d: %w", id, err)
	}

	if s.events != nil {
		if err := s.events.PublishTransactionDelete(ctx, id); err != nil {
			slog.ErrorContext(ctx, "Failed to publish transaction delete event",
				"id", id, "error", err)
		}
	}
	return nil
}

// resolveCategory maps the form's category selection onto a stored category.
// Predefined names resolve against the shared set, existing custom names
// against the user's own categories. The literal "custom" (or an empty
// selection) names a new user category, created with a random display color
// when it does not exist yet.
func (s *TransactionService) resolveCategory(ctx context.Context, userID int64, in TransactionInput) (core.Category, error) {
	if in.Category != "" && in.Category != "custom" {
		owner := (*int64)(nil)
		if core.IsCustomCategory(in.Category) {
			owner = &userID
		}
		cat, err := s.categories.GetCategoryByName(ctx, owner, in.Category)
		if err != nil {
			return core.Category{}, fmt.Errorf("resolve category %q: %w", in.Category, err)
		}
		return cat, nil
	}

	name := in.CustomCategory
	if name == "" {
		return core.Category{}, core.ErrEmptyCategory
	}
	if !in.CustomType.Valid() {
		return core.Category{}, core.ErrInvalidType
	}

	cat, err := s.categories.GetCategoryByName(ctx, &userID, name)
	if err == nil {
		return cat, nil
	}
	if !errors.Is(err, core.ErrNotFound) {
		return core.Category{}, fmt.Errorf("resolve custom category %q: %w", name, err)
	}

	cat = core.Category{
		UserID: &userID,
		Name:   name,
		Type:   in.CustomType,
		Color:  randomHexColor(),
	}
	id, err := s.categories.CreateCategory(ctx, cat)
	if err != nil {
		return core.Category{}, fmt.Errorf("create custom category %q: %w", name, err)
	}
	cat.ID = id
	return cat, nil
}

func (s *TransactionService) publishSync(ctx context.Context, id, version int64) error {
	if s.events == nil {
		return nil
	}
	return s.events.PublishTransactionSync(ctx, id, version)
}

// randomHexColor picks a display color for a newly created custom category.
func randomHexColor() string {
	var b [3]byte
	if _, err := rand.Read(b[:]); err != nil {
		return "#888888"
	}
	return fmt.Sprintf("#%02x%02x%02x", b[0], b[1], b[2])
}
