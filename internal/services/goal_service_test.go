package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"financas/internal/core"
)

func TestGoalService_CreateAndList(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.goals.Create(ctx, f.client.ID, GoalInput{
		Kind:       core.KindExpense,
		Name:       "Cortar mercado",
		Target:     core.Money{Cents: 100000},
		Current:    core.Money{Cents: 75000},
		Deadline:   core.NewDate(2025, 12, 31),
		CategoryID: f.food.ID,
	})
	require.NoError(t, err)
	require.NotNil(t, created.ExpenseCategoryID)
	assert.Nil(t, created.IncomeCategoryID)
	assert.Equal(t, "Alimentação", created.CategoryName)
	assert.InDelta(t, 75.0, created.Progress.Percent, 1e-9)
	assert.Equal(t, core.GoalHigh, created.Progress.Tier)

	goals, err := f.goals.List(ctx, f.client.ID)
	require.NoError(t, err)
	require.Len(t, goals, 1)
	assert.InDelta(t, 75.0, goals[0].Progress.Percent, 1e-9)
	assert.Equal(t, f.food.Color, goals[0].CategoryColor)

	others, err := f.goals.List(ctx, f.other.ID)
	require.NoError(t, err)
	assert.Empty(t, others)
}

func TestGoalService_CategoryPairing(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.goals.Create(ctx, f.client.ID, GoalInput{
		Kind:       core.KindIncome,
		Name:       "Renda extra",
		Target:     core.Money{Cents: 1000},
		Deadline:   core.NewDate(2025, 12, 31),
		CategoryID: f.food.ID,
	})
	require.ErrorIs(t, err, ErrCategoryMismatch)

	_, err = f.goals.Create(ctx, f.other.ID, GoalInput{
		Kind:       core.KindExpense,
		Name:       "Alheia",
		Target:     core.Money{Cents: 1000},
		Deadline:   core.NewDate(2025, 12, 31),
		CategoryID: f.food.ID,
	})
	require.ErrorIs(t, err, ErrCategoryMismatch)

	_, err = f.goals.Create(ctx, f.client.ID, GoalInput{
		Kind:       core.KindExpense,
		Name:       "Sem alvo",
		Deadline:   core.NewDate(2025, 12, 31),
		CategoryID: f.food.ID,
	})
	require.ErrorIs(t, err, core.ErrInvalidAmount)
	assert.True(t, IsValidation(err))
}

func TestGoalService_UpdateSwitchesKind(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	g, err := f.goals.Create(ctx, f.client.ID, GoalInput{
		Kind:       core.KindExpense,
		Name:       "Meta",
		Target:     core.Money{Cents: 1000},
		Deadline:   core.NewDate(2025, 12, 31),
		CategoryID: f.rent.ID,
	})
	require.NoError(t, err)

	updated, err := f.goals.Update(ctx, f.client.ID, g.ID, GoalInput{
		Kind:       core.KindIncome,
		Name:       "Meta de renda",
		Target:     core.Money{Cents: 1000},
		Current:    core.Money{Cents: 0},
		Deadline:   core.NewDate(2026, 1, 31),
		CategoryID: f.salary.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, core.KindIncome, updated.Kind)
	require.NotNil(t, updated.IncomeCategoryID)
	assert.Nil(t, updated.ExpenseCategoryID)
	assert.Zero(t, updated.Progress.Percent)
	assert.Equal(t, "Salário", updated.CategoryName)
}

func TestGoalService_Delete(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	g, err := f.goals.Create(ctx, f.client.ID, GoalInput{
		Kind:       core.KindIncome,
		Name:       "Meta",
		Target:     core.Money{Cents: 1000},
		Deadline:   core.NewDate(2025, 12, 31),
		CategoryID: f.salary.ID,
	})
	require.NoError(t, err)

	require.ErrorIs(t, f.goals.Delete(ctx, f.other.ID, g.ID), core.ErrNotFound)
	require.NoError(t, f.goals.Delete(ctx, f.client.ID, g.ID))

	goals, err := f.goals.List(ctx, f.client.ID)
	require.NoError(t, err)
	assert.Empty(t, goals)
}
