// Package worker consumes transaction events and mirrors them into the
// configured Google Sheet.
package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"fintrack/internal/amqp"
	"fintrack/internal/core"
)

// Exporter is the destination for exported transactions.
type Exporter interface {
	AppendTransaction(ctx context.Context, t core.Transaction) error
	DeleteTransaction(ctx context.Context, id int64) error
}

// ExportWorker implements amqp.Handler.
type ExportWorker struct {
	transactions TransactionFinder
	exporter     Exporter
}

// TransactionFinder looks a transaction up across all users. Events carry
// no user id, so the worker needs an unscoped read.
type TransactionFinder interface {
	FindTransaction(ctx context.Context, id int64) (core.Transaction, error)
}

func NewExportWorker(transactions TransactionFinder, exporter Exporter) *ExportWorker {
	return &ExportWorker{
		transactions: transactions,
		exporter:     exporter,
	}
}

// HandleSync re-reads the transaction and appends it to the sheet. An update
// event first removes the stale row so the sheet never carries both versions.
func (w *ExportWorker) HandleSync(ctx context.Context, msg *amqp.TransactionSyncMessage) error {
	slog.InfoContext(ctx, "Processing sync message",
		"id", msg.ID,
		"version", msg.Version)

	t, err := w.transactions.FindTransaction(ctx, msg.ID)
	if errors.Is(err, core.ErrNotFound) {
		// Deleted between publish and consume; the delete event will follow.
		slog.WarnContext(ctx, "Transaction gone before export", "id", msg.ID)
		return nil
	}
	if err != nil {
		return fmt.Errorf("get transaction from storage: %w", err)
	}

	if msg.Version > 1 {
		if err := w.exporter.DeleteTransaction(ctx, msg.ID); err != nil {
			return fmt.Errorf("remove stale row: %w", err)
		}
	}

	if err := w.exporter.AppendTransaction(ctx, t); err != nil {
		return fmt.Errorf("export transaction: %w", err)
	}
	return nil
}

// HandleDelete removes the transaction's row from the sheet.
func (w *ExportWorker) HandleDelete(ctx context.Context, msg *amqp.TransactionDeleteMessage) error {
	slog.InfoContext(ctx, "Processing delete message", "id", msg.ID)

	if err := w.exporter.DeleteTransaction(ctx, msg.ID); err != nil {
		return fmt.Errorf("delete exported transaction: %w", err)
	}
	return nil
}
