package services

import (
	"context"
	"sort"

	"fintrack/internal/core"
)

// fakeStore is an in-memory implementation of the store ports used by the
// service tests. Filtering and grouping mirror the SQL the repository runs.
type fakeStore struct {
	transactions []core.Transaction
	categories   []core.Category
	budgets      []core.Budget
	nextID       int64

	err error // when set, every method fails with it
}

func (f *fakeStore) id() int64 {
	f.nextID++
	return f.nextID
}

func (f *fakeStore) SumAmount(_ context.Context, userID int64, tt core.TransactionType, r core.DateRange) (core.Money, error) {
	if f.err != nil {
		return core.Money{}, f.err
	}
	var total int64
	for _, t := range f.transactions {
		if t.UserID == userID && t.Type == tt && r.Contains(t.Date.Time) {
			total += t.Amount.Cents
		}
	}
	return core.Money{Cents: total}, nil
}

func (f *fakeStore) ListTransactions(_ context.Context, userID int64, r core.DateRange, order core.SortOrder, limit int) ([]core.Transaction, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []core.Transaction
	for _, t := range f.transactions {
		if t.UserID == userID && r.Contains(t.Date.Time) {
			out = append(out, t)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		switch order {
		case core.SortDateAsc:
			return out[i].Date.Before(out[j].Date.Time)
		case core.SortAmountDesc:
			return out[i].Amount.Cents > out[j].Amount.Cents
		case core.SortAmountAsc:
			return out[i].Amount.Cents < out[j].Amount.Cents
		default:
			return out[i].Date.After(out[j].Date.Time)
		}
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeStore) CreateTransaction(_ context.Context, t core.Transaction) (int64, error) {
	if f.err != nil {
		return 0, f.err
	}
	t.ID = f.id()
	f.transactions = append(f.transactions, t)
	return t.ID, nil
}

func (f *fakeStore) GetTransaction(_ context.Context, userID, id int64) (core.Transaction, error) {
	if f.err != nil {
		return core.Transaction{}, f.err
	}
	for _, t := range f.transactions {
		if t.ID == id && t.UserID == userID {
			return t, nil
		}
	}
	return core.Transaction{}, core.ErrNotFound
}

func (f *fakeStore) UpdateTransaction(_ context.Context, t core.Transaction) error {
	if f.err != nil {
		return f.err
	}
	for i := range f.transactions {
		if f.transactions[i].ID == t.ID && f.transactions[i].UserID == t.UserID {
			f.transactions[i] = t
			return nil
		}
	}
	return core.ErrNotFound
}

func (f *fakeStore) DeleteTransaction(_ context.Context, userID, id int64) error {
	if f.err != nil {
		return f.err
	}
	for i := range f.transactions {
		if f.transactions[i].ID == id && f.transactions[i].UserID == userID {
			f.transactions = append(f.transactions[:i], f.transactions[i+1:]...)
			return nil
		}
	}
	return core.ErrNotFound
}

func (f *fakeStore) SumByCategory(_ context.Context, userID int64, r core.DateRange) ([]core.CategorySum, error) {
	if f.err != nil {
		return nil, f.err
	}
	byCat := make(map[int64]int64)
	var catOrder []int64
	for _, t := range f.transactions {
		if t.UserID != userID || !r.Contains(t.Date.Time) {
			continue
		}
		if _, seen := byCat[t.CategoryID]; !seen {
			catOrder = append(catOrder, t.CategoryID)
		}
		byCat[t.CategoryID] += t.Amount.Cents
	}
	var out []core.CategorySum
	for _, id := range catOrder {
		cat := f.category(id)
		out = append(out, core.CategorySum{
			CategoryID: id,
			Name:       cat.Name,
			Type:       cat.Type,
			Color:      cat.Color,
			Amount:     core.Money{Cents: byCat[id]},
		})
	}
	return out, nil
}

func (f *fakeStore) category(id int64) core.Category {
	for _, c := range f.categories {
		if c.ID == id {
			return c
		}
	}
	return core.Category{ID: id}
}

func (f *fakeStore) GetCategoryByName(_ context.Context, userID *int64, name string) (core.Category, error) {
	if f.err != nil {
		return core.Category{}, f.err
	}
	for _, c := range f.categories {
		if c.Name != name {
			continue
		}
		if userID == nil && c.UserID == nil {
			return c, nil
		}
		if userID != nil && c.UserID != nil && *c.UserID == *userID {
			return c, nil
		}
	}
	return core.Category{}, core.ErrNotFound
}

func (f *fakeStore) CreateCategory(_ context.Context, c core.Category) (int64, error) {
	if f.err != nil {
		return 0, f.err
	}
	c.ID = f.id()
	f.categories = append(f.categories, c)
	return c.ID, nil
}

func (f *fakeStore) ListCategories(_ context.Context, userID int64) ([]core.Category, []core.Category, error) {
	if f.err != nil {
		return nil, nil, f.err
	}
	var predefined, custom []core.Category
	for _, c := range f.categories {
		switch {
		case c.UserID == nil:
			predefined = append(predefined, c)
		case *c.UserID == userID:
			custom = append(custom, c)
		}
	}
	return predefined, custom, nil
}

func (f *fakeStore) ListBudgets(_ context.Context, userID int64) ([]core.Budget, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []core.Budget
	for _, b := range f.budgets {
		if b.UserID == userID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (f *fakeStore) GetBudget(_ context.Context, userID, id int64) (core.Budget, error) {
	if f.err != nil {
		return core.Budget{}, f.err
	}
	for _, b := range f.budgets {
		if b.ID == id && b.UserID == userID {
			return b, nil
		}
	}
	return core.Budget{}, core.ErrNotFound
}

func (f *fakeStore) CreateBudget(_ context.Context, b core.Budget) (int64, error) {
	if f.err != nil {
		return 0, f.err
	}
	b.ID = f.id()
	f.budgets = append(f.budgets, b)
	return b.ID, nil
}

func (f *fakeStore) UpdateBudget(_ context.Context, b core.Budget) error {
	if f.err != nil {
		return f.err
	}
	for i := range f.budgets {
		if f.budgets[i].ID == b.ID && f.budgets[i].UserID == b.UserID {
			f.budgets[i] = b
			return nil
		}
	}
	return core.ErrNotFound
}

func (f *fakeStore) DeleteBudget(_ context.Context, userID, id int64) error {
	if f.err != nil {
		return f.err
	}
	for i := range f.budgets {
		if f.budgets[i].ID == id && f.budgets[i].UserID == userID {
			f.budgets = append(f.budgets[:i], f.budgets[i+1:]...)
			return nil
		}
	}
	return core.ErrNotFound
}
