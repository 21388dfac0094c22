// Package storetest holds the behaviour every ports.Store implementation must
// share. Backends call Run from their own tests.
package storetest

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"financas/internal/core"
	"financas/internal/ports"
)

// Run exercises store. The store may already contain seeded payment methods
// but no clients.
func Run(t *testing.T, store ports.Store) {
	t.Run("clients", func(t *testing.T) { testClients(t, store) })
	t.Run("categories", func(t *testing.T) { testCategories(t, store) })
	t.Run("transactions", func(t *testing.T) { testTransactions(t, store) })
	t.Run("goals", func(t *testing.T) { testGoals(t, store) })
	t.Run("payment methods", func(t *testing.T) { testPaymentMethods(t, store) })
}

func newClient(t *testing.T, store ports.Store) core.Client {
	t.Helper()
	c, err := store.CreateClient(context.Background(), core.Client{
		AuthUserID: uuid.NewString(),
		Name:       "Maria Silva",
		Email:      "maria@example.com",
	})
	require.NoError(t, err)
	require.NotZero(t, c.ID)
	return c
}

func newCategory(t *testing.T, store ports.Store, clientID int64, kind core.Kind, name string) core.Category {
	t.Helper()
	c, err := store.CreateCategory(context.Background(), core.Category{
		ClientID: clientID, Kind: kind, Name: name, Color: "#3b82f6", Active: true,
	})
	require.NoError(t, err)
	return c
}

func testClients(t *testing.T, store ports.Store) {
	ctx := context.Background()

	_, err := store.GetClientByAuthUser(ctx, uuid.NewString())
	require.ErrorIs(t, err, core.ErrNotFound)

	c := newClient(t, store)
	assert.False(t, c.Active)

	got, err := store.GetClientByAuthUser(ctx, c.AuthUserID)
	require.NoError(t, err)
	assert.Equal(t, c.ID, got.ID)
	assert.Equal(t, "Maria Silva", got.Name)

	again, err := store.CreateClient(ctx, core.Client{AuthUserID: c.AuthUserID, Name: "Outra"})
	require.NoError(t, err)
	assert.Equal(t, c.ID, again.ID, "duplicate signup returns the existing row")

	require.NoError(t, store.SetClientActive(ctx, c.ID, true))
	got, err = store.GetClient(ctx, c.ID)
	require.NoError(t, err)
	assert.True(t, got.Active)

	require.ErrorIs(t, store.SetClientActive(ctx, 999999, true), core.ErrNotFound)

	all, err := store.ListClients(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, all)
}

func testCategories(t *testing.T, store ports.Store) {
	ctx := context.Background()
	owner := newClient(t, store)
	other := newClient(t, store)

	food := newCategory(t, store, owner.ID, core.KindExpense, "Mercado")
	rent := newCategory(t, store, owner.ID, core.KindExpense, "Aluguel")
	newCategory(t, store, owner.ID, core.KindIncome, "Salário")

	list, err := store.ListCategories(ctx, owner.ID, core.KindExpense, false)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Aluguel", list[0].Name, "ordered by name")

	_, err = store.GetCategory(ctx, other.ID, core.KindExpense, food.ID)
	require.ErrorIs(t, err, core.ErrNotFound, "categories are client scoped")
	_, err = store.GetCategory(ctx, owner.ID, core.KindIncome, food.ID)
	require.ErrorIs(t, err, core.ErrNotFound, "categories are kind scoped")

	food.Name = "Supermercado"
	_, err = store.UpdateCategory(ctx, food)
	require.NoError(t, err)
	got, err := store.GetCategory(ctx, owner.ID, core.KindExpense, food.ID)
	require.NoError(t, err)
	assert.Equal(t, "Supermercado", got.Name)

	require.NoError(t, store.SetCategoryActive(ctx, owner.ID, core.KindExpense, rent.ID, false))
	list, err = store.ListCategories(ctx, owner.ID, core.KindExpense, false)
	require.NoError(t, err)
	assert.Len(t, list, 1)
	list, err = store.ListCategories(ctx, owner.ID, core.KindExpense, true)
	require.NoError(t, err)
	assert.Len(t, list, 2)

	require.ErrorIs(t, store.DeleteCategory(ctx, other.ID, core.KindExpense, rent.ID), core.ErrNotFound)
	require.NoError(t, store.DeleteCategory(ctx, owner.ID, core.KindExpense, rent.ID))
	_, err = store.GetCategory(ctx, owner.ID, core.KindExpense, rent.ID)
	require.ErrorIs(t, err, core.ErrNotFound)
}

func testTransactions(t *testing.T, store ports.Store) {
	ctx := context.Background()
	c := newClient(t, store)
	cat := newCategory(t, store, c.ID, core.KindExpense, "Lazer")
	pm, err := store.CreatePaymentMethod(ctx, core.PaymentMethod{Name: "Vale " + uuid.NewString()[:8], Active: true})
	require.NoError(t, err)

	create := func(desc string, date core.Date, status core.Status, catID *int64) core.Transaction {
		tx, err := store.CreateTransaction(ctx, core.Transaction{
			ClientID:        c.ID,
			Kind:            core.KindExpense,
			Description:     desc,
			Amount:          core.Money{Cents: 1500},
			Date:            date,
			CategoryID:      catID,
			PaymentMethodID: &pm.ID,
			Status:          status,
		})
		require.NoError(t, err)
		require.NotZero(t, tx.ID)
		return tx
	}

	cinema := create("Cinema", core.NewDate(2025, 3, 10), core.StatusPending, &cat.ID)
	create("Show", core.NewDate(2025, 3, 31), core.StatusPaid, nil)
	create("Teatro", core.NewDate(2025, 4, 1), core.StatusPending, &cat.ID)

	march, err := store.ListTransactions(ctx, c.ID, core.KindExpense, core.MonthPeriod(2025, 3))
	require.NoError(t, err)
	require.Len(t, march, 2, "end bound is exclusive")
	assert.Equal(t, "Show", march[0].Description, "newest first")
	assert.Equal(t, "", march[0].CategoryName)
	assert.Equal(t, "Lazer", march[1].CategoryName)
	assert.Equal(t, "#3b82f6", march[1].CategoryColor)
	assert.Equal(t, pm.Name, march[1].PaymentMethodName)

	income, err := store.ListTransactions(ctx, c.ID, core.KindIncome, core.MonthPeriod(2025, 3))
	require.NoError(t, err)
	assert.Empty(t, income)

	n, err := store.CountTransactionsByCategory(ctx, c.ID, core.KindExpense, cat.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	n, err = store.CountTransactionsByPaymentMethod(ctx, pm.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	cinema.Status = core.StatusPaid
	cinema.SettledOn = core.NewDate(2025, 3, 12)
	_, err = store.UpdateTransaction(ctx, cinema)
	require.NoError(t, err)
	got, err := store.GetTransaction(ctx, c.ID, core.KindExpense, cinema.ID)
	require.NoError(t, err)
	assert.Equal(t, core.StatusPaid, got.Status)
	assert.Equal(t, "2025-03-12", got.SettledOn.String())
	require.NotNil(t, got.CategoryID)
	assert.Equal(t, cat.ID, *got.CategoryID)

	marked, err := store.MarkOverdue(ctx, core.KindExpense, core.NewDate(2025, 4, 2))
	require.NoError(t, err)
	assert.GreaterOrEqual(t, marked, int64(1))
	april, err := store.ListTransactions(ctx, c.ID, core.KindExpense, core.MonthPeriod(2025, 4))
	require.NoError(t, err)
	require.Len(t, april, 1)
	assert.Equal(t, core.StatusOverdue, april[0].Status)

	require.ErrorIs(t, store.DeleteTransaction(ctx, c.ID+1000, core.KindExpense, cinema.ID), core.ErrNotFound)
	require.NoError(t, store.DeleteTransaction(ctx, c.ID, core.KindExpense, cinema.ID))
	_, err = store.GetTransaction(ctx, c.ID, core.KindExpense, cinema.ID)
	require.ErrorIs(t, err, core.ErrNotFound)
}

func testGoals(t *testing.T, store ports.Store) {
	ctx := context.Background()
	c := newClient(t, store)
	cat := newCategory(t, store, c.ID, core.KindIncome, "Freelas")

	g, err := store.CreateGoal(ctx, core.Goal{
		ClientID:         c.ID,
		Kind:             core.KindIncome,
		Name:             "Reserva",
		Target:           core.Money{Cents: 100000},
		Current:          core.Money{Cents: 75000},
		Deadline:         core.NewDate(2026, 6, 30),
		IncomeCategoryID: &cat.ID,
	})
	require.NoError(t, err)

	goals, err := store.ListGoals(ctx, c.ID)
	require.NoError(t, err)
	require.Len(t, goals, 1)
	assert.Equal(t, "Freelas", goals[0].CategoryName)
	assert.Equal(t, "2026-06-30", goals[0].Deadline.String())
	assert.Nil(t, goals[0].ExpenseCategoryID)

	n, err := store.CountGoalsByCategory(ctx, c.ID, core.KindIncome, cat.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	n, err = store.CountGoalsByCategory(ctx, c.ID, core.KindExpense, cat.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	g.Current = core.Money{Cents: 90000}
	_, err = store.UpdateGoal(ctx, g)
	require.NoError(t, err)
	got, err := store.GetGoal(ctx, c.ID, g.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(90000), got.Current.Cents)

	require.NoError(t, store.DeleteGoal(ctx, c.ID, g.ID))
	_, err = store.GetGoal(ctx, c.ID, g.ID)
	require.ErrorIs(t, err, core.ErrNotFound)
}

func testPaymentMethods(t *testing.T, store ports.Store) {
	ctx := context.Background()
	name := "Cheque " + uuid.NewString()[:8]

	p, err := store.CreatePaymentMethod(ctx, core.PaymentMethod{Name: name, Active: true})
	require.NoError(t, err)

	got, err := store.GetPaymentMethod(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, name, got.Name)

	_, err = store.CreatePaymentMethod(ctx, core.PaymentMethod{Name: name, Active: true})
	require.ErrorIs(t, err, core.ErrDuplicateName)
	other, err := store.CreatePaymentMethod(ctx, core.PaymentMethod{Name: name + " 2", Active: true})
	require.NoError(t, err)
	other.Name = name
	_, err = store.UpdatePaymentMethod(ctx, other)
	require.ErrorIs(t, err, core.ErrDuplicateName)
	require.NoError(t, store.DeletePaymentMethod(ctx, other.ID))

	require.NoError(t, store.SetPaymentMethodActive(ctx, p.ID, false))
	active, err := store.ListPaymentMethods(ctx, false)
	require.NoError(t, err)
	for _, m := range active {
		assert.NotEqual(t, p.ID, m.ID)
	}
	all, err := store.ListPaymentMethods(ctx, true)
	require.NoError(t, err)
	found := false
	for _, m := range all {
		found = found || m.ID == p.ID
	}
	assert.True(t, found)

	p.Name = name + " (antigo)"
	_, err = store.UpdatePaymentMethod(ctx, p)
	require.NoError(t, err)

	require.NoError(t, store.DeletePaymentMethod(ctx, p.ID))
	require.ErrorIs(t, store.DeletePaymentMethod(ctx, p.ID), core.ErrNotFound)
}
