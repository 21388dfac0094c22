package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"financas/internal/core"
	"financas/internal/ports"
)

// OverdueProcessorConfig holds configuration for the overdue processor
type OverdueProcessorConfig struct {
	// Interval is how often pending rows are checked (default: 1h)
	Interval time.Duration
}

// DefaultOverdueProcessorConfig returns sensible defaults
func DefaultOverdueProcessorConfig() OverdueProcessorConfig {
	return OverdueProcessorConfig{Interval: time.Hour}
}

// ReportInvalidator is satisfied by ReportService.
type ReportInvalidator interface {
	InvalidateAll()
}

// OverdueProcessor flips pending transactions dated before today to
// "vencido", for both kinds and every client.
type OverdueProcessor struct {
	store   ports.TransactionStore
	reports ReportInvalidator
	config  OverdueProcessorConfig
	now     func() time.Time

	mu      sync.Mutex
	running bool
	stopCh  chan struct{}
	doneCh  chan struct{}
}

// NewOverdueProcessor accepts a nil invalidator.
func NewOverdueProcessor(store ports.TransactionStore, reports ReportInvalidator, config OverdueProcessorConfig) *OverdueProcessor {
	if config.Interval <= 0 {
		config.Interval = DefaultOverdueProcessorConfig().Interval
	}
	return &OverdueProcessor{
		store:   store,
		reports: reports,
		config:  config,
		now:     time.Now,
	}
}

// Start begins the processing loop. Returns an error if already running.
func (p *OverdueProcessor) Start(ctx context.Context) error {
	p.mu.Lock()
	if p.running {
		p.mu.Unlock()
		return fmt.Errorf("overdue processor is already running")
	}
	p.running = true
	p.stopCh = make(chan struct{})
	p.doneCh = make(chan struct{})
	p.mu.Unlock()

	go p.runLoop(ctx)

	slog.InfoContext(ctx, "Overdue processor started", "interval", p.config.Interval)
	return nil
}

// Stop gracefully stops the processor and waits for completion.
func (p *OverdueProcessor) Stop(ctx context.Context) error {
	p.mu.Lock()
	if !p.running {
		p.mu.Unlock()
		return nil
	}
	stopCh, doneCh := p.stopCh, p.doneCh
	p.mu.Unlock()

	close(stopCh)

	select {
	case <-doneCh:
		slog.InfoContext(ctx, "Overdue processor stopped gracefully")
	case <-ctx.Done():
		slog.WarnContext(ctx, "Overdue processor stop timed out")
		return ctx.Err()
	}

	p.mu.Lock()
	p.running = false
	p.mu.Unlock()
	return nil
}

func (p *OverdueProcessor) IsRunning() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.running
}

func (p *OverdueProcessor) runLoop(ctx context.Context) {
	defer close(p.doneCh)

	ticker := time.NewTicker(p.config.Interval)
	defer ticker.Stop()

	p.tick(ctx)

	for {
		select {
		case <-p.stopCh:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.tick(ctx)
		}
	}
}

func (p *OverdueProcessor) tick(ctx context.Context) {
	if _, err := p.RunOnce(ctx); err != nil {
		slog.ErrorContext(ctx, "Overdue marking failed", "error", err)
	}
}

// RunOnce marks overdue rows of both kinds and returns how many changed.
func (p *OverdueProcessor) RunOnce(ctx context.Context) (int64, error) {
	today := core.DateOf(p.now())

	var total int64
	for _, kind := range []core.Kind{core.KindIncome, core.KindExpense} {
		n, err := p.store.MarkOverdue(ctx, kind, today)
		if err != nil {
			return total, fmt.Errorf("mark overdue %s: %w", kind, err)
		}
		total += n
	}

	if total > 0 {
		slog.InfoContext(ctx, "Transactions marked overdue", "count", total, "before", today.String())
		if p.reports != nil {
			p.reports.InvalidateAll()
		}
	}
	return total, nil
}
