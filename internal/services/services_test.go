package services

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"financas/internal/core"
	"financas/internal/storage/memory"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []core.TransactionEvent
	err    error
}

func (p *recordingPublisher) PublishTransactionEvent(_ context.Context, ev core.TransactionEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
	return p.err
}

func (p *recordingPublisher) ops() []core.EventOp {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]core.EventOp, len(p.events))
	for i, ev := range p.events {
		out[i] = ev.Op
	}
	return out
}

type countingInvalidator struct {
	mu    sync.Mutex
	calls map[int64]int
	all   int
}

func (c *countingInvalidator) InvalidateAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.all++
}

func (c *countingInvalidator) allCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.all
}

func (c *countingInvalidator) Invalidate(clientID int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.calls == nil {
		c.calls = map[int64]int{}
	}
	c.calls[clientID]++
}

func (c *countingInvalidator) count(clientID int64) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls[clientID]
}

type fixture struct {
	store    *memory.Store
	client   core.Client
	other    core.Client
	food     core.Category
	rent     core.Category
	salary   core.Category
	pix      core.PaymentMethod
	retired  core.PaymentMethod
	pub      *recordingPublisher
	reports  *countingInvalidator
	txs      *TransactionService
	cats     *CategoryService
	goals    *GoalService
	methods  *PaymentMethodService
	accesses *AccessService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	store := memory.New()

	f := &fixture{
		store:   store,
		pub:     &recordingPublisher{},
		reports: &countingInvalidator{},
	}

	var err error
	f.client, err = store.CreateClient(ctx, core.Client{AuthUserID: "user-a", Name: "Ana", Active: true})
	require.NoError(t, err)
	f.other, err = store.CreateClient(ctx, core.Client{AuthUserID: "user-b", Name: "Bruno", Active: true})
	require.NoError(t, err)

	f.food, err = store.CreateCategory(ctx, core.Category{ClientID: f.client.ID, Kind: core.KindExpense, Name: "Alimentação", Color: "#ff0000", Active: true})
	require.NoError(t, err)
	f.rent, err = store.CreateCategory(ctx, core.Category{ClientID: f.client.ID, Kind: core.KindExpense, Name: "Aluguel", Color: "#00ff00", Active: true})
	require.NoError(t, err)
	f.salary, err = store.CreateCategory(ctx, core.Category{ClientID: f.client.ID, Kind: core.KindIncome, Name: "Salário", Color: "#0000ff", Active: true})
	require.NoError(t, err)

	f.pix, err = store.CreatePaymentMethod(ctx, core.PaymentMethod{Name: "Pix", Active: true})
	require.NoError(t, err)
	f.retired, err = store.CreatePaymentMethod(ctx, core.PaymentMethod{Name: "Cheque", Active: false})
	require.NoError(t, err)

	f.txs = NewTransactionService(store, f.pub, f.reports)
	f.cats = NewCategoryService(store, f.reports)
	f.goals = NewGoalService(store)
	f.methods = NewPaymentMethodService(store, f.reports)
	f.accesses = NewAccessService(store)
	return f
}

func ptr(id int64) *int64 { return &id }

func TestIsValidation(t *testing.T) {
	require.True(t, IsValidation(invalid(errors.New("anything"))))
	require.True(t, IsValidation(core.ErrInvalidAmount))
	require.True(t, IsValidation(invalid(core.ErrEmptyName)))
	require.True(t, errors.Is(invalid(core.ErrEmptyName), core.ErrEmptyName))
	require.False(t, IsValidation(errors.New("disk full")))
	require.False(t, IsValidation(core.ErrNotFound))
	require.Nil(t, invalid(nil))
}

func TestPublisher_NilAndFailing(t *testing.T) {
	ctx := context.Background()
	ev := core.TransactionEvent{Op: core.EventCreated, ID: 1}

	publisher{}.publish(ctx, ev)

	failing := &recordingPublisher{err: errors.New("broker down")}
	publisher{pub: failing}.publish(ctx, ev)
	require.Len(t, failing.events, 1)
}
