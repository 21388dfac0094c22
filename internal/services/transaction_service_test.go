package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"financas/internal/core"
)

func TestTransactionService_Create(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.txs.Create(ctx, f.client.ID, core.KindExpense, TransactionInput{
		Description:     " Supermercado ",
		Amount:          core.Money{Cents: 12345},
		Date:            core.NewDate(2025, 3, 5),
		CategoryID:      ptr(f.food.ID),
		PaymentMethodID: ptr(f.pix.ID),
	})
	require.NoError(t, err)
	require.Len(t, created, 1)

	tx := created[0]
	assert.Equal(t, "Supermercado", tx.Description)
	assert.Equal(t, core.StatusPending, tx.Status)
	assert.True(t, tx.SettledOn.IsZero())
	assert.Zero(t, tx.Installments)
	assert.Equal(t, []core.EventOp{core.EventCreated}, f.pub.ops())
	assert.Equal(t, "Alimentação", f.pub.events[0].CategoryName)
	assert.Equal(t, 1, f.reports.count(f.client.ID))
}

func TestTransactionService_CreateSettledStampsToday(t *testing.T) {
	f := newFixture(t)
	f.txs.now = func() time.Time { return time.Date(2025, 4, 2, 15, 0, 0, 0, time.UTC) }

	created, err := f.txs.Create(context.Background(), f.client.ID, core.KindIncome, TransactionInput{
		Description: "Salário",
		Amount:      core.Money{Cents: 500000},
		Date:        core.NewDate(2025, 4, 1),
		CategoryID:  ptr(f.salary.ID),
		Status:      core.StatusReceived,
	})
	require.NoError(t, err)
	assert.Equal(t, "2025-04-02", created[0].SettledOn.String())
}

func TestTransactionService_CreateInstallments(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.txs.Create(ctx, f.client.ID, core.KindExpense, TransactionInput{
		Description:  "Notebook",
		Amount:       core.Money{Cents: 25000},
		Date:         core.NewDate(2025, 1, 31),
		CategoryID:   ptr(f.food.ID),
		Status:       core.StatusPaid,
		SettledOn:    core.NewDate(2025, 1, 31),
		Installments: 3,
	})
	require.NoError(t, err)
	require.Len(t, created, 3)

	wantDates := []string{"2025-01-31", "2025-02-28", "2025-03-31"}
	for i, tx := range created {
		assert.Equal(t, i+1, tx.Installment)
		assert.Equal(t, 3, tx.Installments)
		assert.Equal(t, wantDates[i], tx.Date.String())
		assert.Equal(t, int64(25000), tx.Amount.Cents)
	}
	assert.Equal(t, core.StatusPaid, created[0].Status)
	assert.Equal(t, "2025-01-31", created[0].SettledOn.String())
	assert.Equal(t, core.StatusPending, created[1].Status)
	assert.True(t, created[1].SettledOn.IsZero())
	assert.Len(t, f.pub.events, 3)
	assert.Equal(t, 1, f.reports.count(f.client.ID))
}

func TestTransactionService_CreateRejects(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	foreignCat, err := f.store.CreateCategory(ctx, core.Category{ClientID: f.other.ID, Kind: core.KindExpense, Name: "Outro", Active: true})
	require.NoError(t, err)
	inactiveCat, err := f.store.CreateCategory(ctx, core.Category{ClientID: f.client.ID, Kind: core.KindExpense, Name: "Velha", Active: false})
	require.NoError(t, err)

	valid := TransactionInput{
		Description: "Conta",
		Amount:      core.Money{Cents: 1000},
		Date:        core.NewDate(2025, 5, 1),
	}

	tests := []struct {
		name   string
		kind   core.Kind
		mutate func(in *TransactionInput)
		target error
	}{
		{"zero amount", core.KindExpense, func(in *TransactionInput) { in.Amount = core.Money{} }, core.ErrInvalidAmount},
		{"empty description", core.KindExpense, func(in *TransactionInput) { in.Description = "  " }, core.ErrEmptyDescription},
		{"income status on expense", core.KindExpense, func(in *TransactionInput) { in.Status = core.StatusReceived }, core.ErrInvalidStatus},
		{"category of the other kind", core.KindIncome, func(in *TransactionInput) { in.CategoryID = ptr(f.food.ID) }, ErrCategoryMismatch},
		{"category of another client", core.KindExpense, func(in *TransactionInput) { in.CategoryID = ptr(foreignCat.ID) }, ErrCategoryMismatch},
		{"inactive category", core.KindExpense, func(in *TransactionInput) { in.CategoryID = ptr(inactiveCat.ID) }, ErrInactiveReference},
		{"unknown payment method", core.KindExpense, func(in *TransactionInput) { in.PaymentMethodID = ptr(9999) }, ErrPaymentMethod},
		{"inactive payment method", core.KindExpense, func(in *TransactionInput) { in.PaymentMethodID = ptr(f.retired.ID) }, ErrInactiveReference},
		{"negative installments", core.KindExpense, func(in *TransactionInput) { in.Installments = -1 }, core.ErrInvalidInstalment},
		{"unknown kind", core.Kind("x"), func(in *TransactionInput) {}, core.ErrInvalidKind},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := valid
			tt.mutate(&in)
			_, err := f.txs.Create(ctx, f.client.ID, tt.kind, in)
			require.ErrorIs(t, err, tt.target)
			assert.True(t, IsValidation(err))
		})
	}
	assert.Empty(t, f.pub.events)
}

func TestTransactionService_UpdateKeepsInactiveReference(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.txs.Create(ctx, f.client.ID, core.KindExpense, TransactionInput{
		Description:     "Aluguel março",
		Amount:          core.Money{Cents: 150000},
		Date:            core.NewDate(2025, 3, 1),
		CategoryID:      ptr(f.rent.ID),
		PaymentMethodID: ptr(f.pix.ID),
	})
	require.NoError(t, err)
	id := created[0].ID

	require.NoError(t, f.store.SetCategoryActive(ctx, f.client.ID, core.KindExpense, f.rent.ID, false))
	require.NoError(t, f.store.SetPaymentMethodActive(ctx, f.pix.ID, false))

	updated, err := f.txs.Update(ctx, f.client.ID, core.KindExpense, id, TransactionInput{
		Description:     "Aluguel de março",
		Amount:          core.Money{Cents: 160000},
		Date:            core.NewDate(2025, 3, 2),
		CategoryID:      ptr(f.rent.ID),
		PaymentMethodID: ptr(f.pix.ID),
	})
	require.NoError(t, err)
	assert.Equal(t, "Aluguel de março", updated.Description)
	assert.Equal(t, int64(160000), updated.Amount.Cents)
	assert.Equal(t, core.StatusPending, updated.Status)

	require.NoError(t, f.store.SetCategoryActive(ctx, f.client.ID, core.KindExpense, f.food.ID, false))
	_, err = f.txs.Update(ctx, f.client.ID, core.KindExpense, id, TransactionInput{
		Description: "Aluguel de março",
		Amount:      core.Money{Cents: 160000},
		Date:        core.NewDate(2025, 3, 2),
		CategoryID:  ptr(f.food.ID),
	})
	require.ErrorIs(t, err, ErrInactiveReference)
}

func TestTransactionService_UpdateWithoutDateKeepsStoredDate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.txs.Create(ctx, f.client.ID, core.KindExpense, TransactionInput{
		Description: "Conta de luz",
		Amount:      core.Money{Cents: 23000},
		Date:        core.NewDate(2025, 3, 15),
	})
	require.NoError(t, err)

	updated, err := f.txs.Update(ctx, f.client.ID, core.KindExpense, created[0].ID, TransactionInput{
		Description: "Conta de luz março",
		Amount:      core.Money{Cents: 24000},
	})
	require.NoError(t, err)
	assert.Equal(t, "2025-03-15", updated.Date.String())
	assert.Equal(t, int64(24000), updated.Amount.Cents)
}

func TestTransactionService_UpdateNotFound(t *testing.T) {
	f := newFixture(t)

	_, err := f.txs.Update(context.Background(), f.client.ID, core.KindExpense, 12345, TransactionInput{})
	require.ErrorIs(t, err, core.ErrNotFound)
	assert.False(t, IsValidation(err))
}

func TestTransactionService_SetStatus(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.txs.now = func() time.Time { return time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC) }

	created, err := f.txs.Create(ctx, f.client.ID, core.KindExpense, TransactionInput{
		Description: "Luz",
		Amount:      core.Money{Cents: 9000},
		Date:        core.NewDate(2025, 6, 5),
		CategoryID:  ptr(f.rent.ID),
	})
	require.NoError(t, err)
	id := created[0].ID

	paid, err := f.txs.SetStatus(ctx, f.client.ID, core.KindExpense, id, core.StatusPaid, core.Date{})
	require.NoError(t, err)
	assert.Equal(t, core.StatusPaid, paid.Status)
	assert.Equal(t, "2025-06-10", paid.SettledOn.String())

	paid, err = f.txs.SetStatus(ctx, f.client.ID, core.KindExpense, id, core.StatusPaid, core.NewDate(2025, 6, 7))
	require.NoError(t, err)
	assert.Equal(t, "2025-06-07", paid.SettledOn.String())

	back, err := f.txs.SetStatus(ctx, f.client.ID, core.KindExpense, id, core.StatusPending, core.Date{})
	require.NoError(t, err)
	assert.True(t, back.SettledOn.IsZero())

	_, err = f.txs.SetStatus(ctx, f.client.ID, core.KindExpense, id, core.StatusReceived, core.Date{})
	require.ErrorIs(t, err, core.ErrInvalidStatus)

	assert.Equal(t, []core.EventOp{core.EventCreated, core.EventStatusChanged, core.EventStatusChanged, core.EventStatusChanged}, f.pub.ops())
	assert.Equal(t, "Aluguel", f.pub.events[1].CategoryName)
}

func TestTransactionService_Delete(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.txs.Create(ctx, f.client.ID, core.KindIncome, TransactionInput{
		Description: "Venda",
		Amount:      core.Money{Cents: 700},
		Date:        core.NewDate(2025, 2, 2),
	})
	require.NoError(t, err)
	id := created[0].ID

	err = f.txs.Delete(ctx, f.other.ID, core.KindIncome, id)
	require.ErrorIs(t, err, core.ErrNotFound)

	require.NoError(t, f.txs.Delete(ctx, f.client.ID, core.KindIncome, id))
	_, err = f.store.GetTransaction(ctx, f.client.ID, core.KindIncome, id)
	require.ErrorIs(t, err, core.ErrNotFound)

	last := f.pub.events[len(f.pub.events)-1]
	assert.Equal(t, core.EventDeleted, last.Op)
	assert.Equal(t, "Venda", last.Description)
}

func TestTransactionService_PublishFailureDoesNotFail(t *testing.T) {
	f := newFixture(t)
	f.pub.err = assert.AnError

	_, err := f.txs.Create(context.Background(), f.client.ID, core.KindExpense, TransactionInput{
		Description: "Café",
		Amount:      core.Money{Cents: 500},
		Date:        core.NewDate(2025, 2, 2),
	})
	require.NoError(t, err)
}

func TestTransactionService_ListScopesByClient(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for _, clientID := range []int64{f.client.ID, f.other.ID} {
		_, err := f.txs.Create(ctx, clientID, core.KindExpense, TransactionInput{
			Description: "Pão",
			Amount:      core.Money{Cents: 800},
			Date:        core.NewDate(2025, 7, 3),
		})
		require.NoError(t, err)
	}

	rows, err := f.txs.List(ctx, f.client.ID, core.KindExpense, core.MonthPeriod(2025, 7))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, f.client.ID, rows[0].ClientID)

	rows, err = f.txs.List(ctx, f.client.ID, core.KindExpense, core.MonthPeriod(2025, 8))
	require.NoError(t, err)
	assert.Empty(t, rows)
}
