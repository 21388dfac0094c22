package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"financas/internal/cache"
	"financas/internal/core"
	"financas/internal/ports"
)

// Report is everything the dashboard shows for one period.
type Report struct {
	Period  core.Period            `json:"periodo"`
	Summary core.Summary           `json:"resumo"`
	Income  []core.TransactionView `json:"receitas"`
	Expense []core.TransactionView `json:"despesas"`
}

// ReportService builds period reports and caches them per client and period.
//
// Every invalidation bumps a generation counter. A report is only cached when
// no invalidation touched its client while the rows were being fetched.
type ReportService struct {
	store ports.TransactionStore
	cache cache.Cache[Report]

	mu      sync.Mutex
	global  uint64
	clients map[int64]uint64
}

// NewReportService accepts a nil cache, in which case every call hits the store.
func NewReportService(store ports.TransactionStore, c cache.Cache[Report]) *ReportService {
	return &ReportService{store: store, cache: c, clients: map[int64]uint64{}}
}

// NewReportCache is the LRU sized for report entries.
func NewReportCache(ttl time.Duration) *cache.LRUCache[Report] {
	return cache.NewLRUCache[Report](500, ttl)
}

// Build returns the report of clientID for period. Income and expense rows are
// fetched concurrently.
func (s *ReportService) Build(ctx context.Context, clientID int64, period core.Period) (Report, error) {
	key := reportKey(clientID, period)
	var gen uint64
	if s.cache != nil {
		if r, ok := s.cache.Get(key); ok {
			slog.DebugContext(ctx, "Report cache hit", "client_id", clientID, "key", key)
			return r, nil
		}
		gen = s.generation(clientID)
	}

	var income, expense []core.TransactionView
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		rows, err := s.store.ListTransactions(gctx, clientID, core.KindIncome, period)
		if err != nil {
			return fmt.Errorf("list income: %w", err)
		}
		income = rows
		return nil
	})
	g.Go(func() error {
		rows, err := s.store.ListTransactions(gctx, clientID, core.KindExpense, period)
		if err != nil {
			return fmt.Errorf("list expenses: %w", err)
		}
		expense = rows
		return nil
	})
	if err := g.Wait(); err != nil {
		return Report{}, fmt.Errorf("build report: %w", err)
	}

	rows := make([]core.AggregateRow, 0, len(income)+len(expense))
	rows = appendAggregates(rows, income)
	rows = appendAggregates(rows, expense)

	r := Report{
		Period:  period,
		Summary: core.Summarize(rows),
		Income:  nonNil(income),
		Expense: nonNil(expense),
	}
	if s.cache != nil {
		s.setIfCurrent(key, clientID, gen, r)
	}
	return r, nil
}

// Invalidate drops every cached report of clientID.
func (s *ReportService) Invalidate(clientID int64) {
	if s.cache == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clients[clientID]++
	s.cache.DeletePrefix(fmt.Sprintf("%d:", clientID))
}

// InvalidateAll empties the cache. Used after cross-client updates such as
// overdue marking or payment method renames.
func (s *ReportService) InvalidateAll() {
	if s.cache == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.global++
	s.cache.DeletePrefix("")
}

// generation changes whenever the reports of clientID are invalidated.
func (s *ReportService) generation(clientID int64) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.global + s.clients[clientID]
}

// setIfCurrent caches r unless an invalidation happened since gen was read.
func (s *ReportService) setIfCurrent(key string, clientID int64, gen uint64, r Report) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.global+s.clients[clientID] != gen {
		return
	}
	s.cache.Set(key, r)
}

func reportKey(clientID int64, p core.Period) string {
	return fmt.Sprintf("%d:%s:%s", clientID, p.Start, p.End)
}

func appendAggregates(dst []core.AggregateRow, views []core.TransactionView) []core.AggregateRow {
	for _, v := range views {
		dst = append(dst, core.AggregateRow{
			Amount:        v.Amount,
			CategoryName:  v.CategoryName,
			CategoryColor: v.CategoryColor,
			Status:        v.Status,
			Kind:          v.Kind,
		})
	}
	return dst
}

func nonNil(rows []core.TransactionView) []core.TransactionView {
	if rows == nil {
		return []core.TransactionView{}
	}
	return rows
}
