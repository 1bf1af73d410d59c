package worker

import (
	"context"
	"errors"
	"testing"

	"fintrack/internal/amqp"
	"fintrack/internal/core"
)

type fakeFinder struct {
	transactions map[int64]core.Transaction
	err          error
}

func (f *fakeFinder) FindTransaction(_ context.Context, id int64) (core.Transaction, error) {
	if f.err != nil {
		return core.Transaction{}, f.err
	}
	t, ok := f.transactions[id]
	if !ok {
		return core.Transaction{}, core.ErrNotFound
	}
	return t, nil
}

type fakeExporter struct {
	appended []core.Transaction
	deleted  []int64
	err      error
}

func (f *fakeExporter) AppendTransaction(_ context.Context, t core.Transaction) error {
	if f.err != nil {
		return f.err
	}
	f.appended = append(f.appended, t)
	return nil
}

func (f *fakeExporter) DeleteTransaction(_ context.Context, id int64) error {
	if f.err != nil {
		return f.err
	}
	f.deleted = append(f.deleted, id)
	return nil
}

func TestHandleSyncAppendsTransaction(t *testing.T) {
	tx := core.Transaction{
		ID:           9,
		UserID:       1,
		Amount:       core.Money{Cents: 1250},
		Type:         core.Expense,
		CategoryName: "Food",
		Description:  "groceries",
		Date:         core.NewDate(2026, 8, 29),
	}
	finder := &fakeFinder{transactions: map[int64]core.Transaction{9: tx}}
	exporter := &fakeExporter{}
	w := NewExportWorker(finder, exporter)

	if err := w.HandleSync(context.Background(), amqp.NewTransactionSyncMessage(9, 1)); err != nil {
		t.Fatalf("HandleSync() error = %v", err)
	}
	if len(exporter.appended) != 1 || exporter.appended[0].ID != 9 {
		t.Errorf("appended = %+v, want one transaction with id 9", exporter.appended)
	}
	if len(exporter.deleted) != 0 {
		t.Errorf("first sync deleted rows: %v", exporter.deleted)
	}
}

func TestHandleSyncUpdateRemovesStaleRow(t *testing.T) {
	tx := core.Transaction{ID: 9, Amount: core.Money{Cents: 100}, Type: core.Expense, Date: core.NewDate(2026, 8, 29)}
	finder := &fakeFinder{transactions: map[int64]core.Transaction{9: tx}}
	exporter := &fakeExporter{}
	w := NewExportWorker(finder, exporter)

	if err := w.HandleSync(context.Background(), amqp.NewTransactionSyncMessage(9, 2)); err != nil {
		t.Fatalf("HandleSync() error = %v", err)
	}
	if len(exporter.deleted) != 1 || exporter.deleted[0] != 9 {
		t.Errorf("deleted = %v, want [9]", exporter.deleted)
	}
	if len(exporter.appended) != 1 {
		t.Errorf("appended = %d rows, want 1", len(exporter.appended))
	}
}

func TestHandleSyncMissingTransactionIsNotAnError(t *testing.T) {
	finder := &fakeFinder{transactions: map[int64]core.Transaction{}}
	exporter := &fakeExporter{}
	w := NewExportWorker(finder, exporter)

	if err := w.HandleSync(context.Background(), amqp.NewTransactionSyncMessage(404, 1)); err != nil {
		t.Fatalf("HandleSync(missing) error = %v, want nil", err)
	}
	if len(exporter.appended) != 0 {
		t.Errorf("appended = %d rows, want 0", len(exporter.appended))
	}
}

func TestHandleSyncStorageFailurePropagates(t *testing.T) {
	storeErr := errors.New("db locked")
	finder := &fakeFinder{err: storeErr}
	w := NewExportWorker(finder, &fakeExporter{})

	err := w.HandleSync(context.Background(), amqp.NewTransactionSyncMessage(9, 1))
	if !errors.Is(err, storeErr) {
		t.Errorf("HandleSync() error = %v, want wrapped %v", err, storeErr)
	}
}

func TestHandleDelete(t *testing.T) {
	exporter := &fakeExporter{}
	w := NewExportWorker(&fakeFinder{}, exporter)

	if err := w.HandleDelete(context.Background(), amqp.NewTransactionDeleteMessage(7)); err != nil {
		t.Fatalf("HandleDelete() error = %v", err)
	}
	if len(exporter.deleted) != 1 || exporter.deleted[0] != 7 {
		t.Errorf("deleted = %v, want [7]", exporter.deleted)
	}
}
