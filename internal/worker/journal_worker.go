// Package worker turns transaction events from the broker into rows of the
// spreadsheet journal.
package worker

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"

	"financas/internal/amqp"
	"financas/internal/core"
)

// SupportedVersion is the newest message envelope the worker understands.
const SupportedVersion = 1

// EventAppender is satisfied by the Google Sheets journal.
type EventAppender interface {
	AppendEvent(ctx context.Context, ev core.TransactionEvent) (string, error)
}

// JournalWorker appends each transaction event to the journal.
type JournalWorker struct {
	journal EventAppender

	appended int64
	skipped  int64
	failed   int64
}

func NewJournalWorker(journal EventAppender) *JournalWorker {
	return &JournalWorker{journal: journal}
}

// Stats reports how many messages were appended, skipped and failed.
type Stats struct {
	Appended int64
	Skipped  int64
	Failed   int64
}

func (w *JournalWorker) Stats() Stats {
	return Stats{
		Appended: atomic.LoadInt64(&w.appended),
		Skipped:  atomic.LoadInt64(&w.skipped),
		Failed:   atomic.LoadInt64(&w.failed),
	}
}

// HandleMessage appends one event. Messages from a newer envelope version are
// skipped so they are acked instead of looping through the queue; an append
// error is returned so the consumer requeues the message.
func (w *JournalWorker) HandleMessage(ctx context.Context, msg *amqp.TransactionMessage) error {
	if msg.Version > SupportedVersion {
		atomic.AddInt64(&w.skipped, 1)
		slog.WarnContext(ctx, "Skipping message with unsupported version",
			"version", msg.Version,
			"routing_key", msg.RoutingKey())
		return nil
	}

	ev := msg.Event
	ref, err := w.journal.AppendEvent(ctx, ev)
	if err != nil {
		atomic.AddInt64(&w.failed, 1)
		return fmt.Errorf("append %s event for transaction %d: %w", ev.Op, ev.ID, err)
	}
	atomic.AddInt64(&w.appended, 1)

	slog.InfoContext(ctx, "Journaled transaction event",
		"routing_key", msg.RoutingKey(),
		"id", ev.ID,
		"client_id", ev.ClientID,
		"sheets_ref", ref,
		"amount_cents", ev.Amount.Cents)
	return nil
}
