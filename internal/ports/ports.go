// Package ports declares the storage interfaces the services depend on.
// Every method that touches client data takes the client id and filters on it.
package ports

import (
	"context"

	"financas/internal/core"
)

type (
	ClientStore interface {
		// GetClientByAuthUser returns core.ErrNotFound when the identity has
		// no client record yet.
		GetClientByAuthUser(ctx context.Context, authUserID string) (core.Client, error)
		GetClient(ctx context.Context, id int64) (core.Client, error)
		CreateClient(ctx context.Context, c core.Client) (core.Client, error)
		ListClients(ctx context.Context) ([]core.Client, error)
		SetClientActive(ctx context.Context, id int64, active bool) error
	}

	CategoryStore interface {
		ListCategories(ctx context.Context, clientID int64, kind core.Kind, includeInactive bool) ([]core.Category, error)
		GetCategory(ctx context.Context, clientID int64, kind core.Kind, id int64) (core.Category, error)
		CreateCategory(ctx context.Context, c core.Category) (core.Category, error)
		UpdateCategory(ctx context.Context, c core.Category) (core.Category, error)
		SetCategoryActive(ctx context.Context, clientID int64, kind core.Kind, id int64, active bool) error
		DeleteCategory(ctx context.Context, clientID int64, kind core.Kind, id int64) error
		CountTransactionsByCategory(ctx context.Context, clientID int64, kind core.Kind, categoryID int64) (int, error)
		CountGoalsByCategory(ctx context.Context, clientID int64, kind core.Kind, categoryID int64) (int, error)
	}

	TransactionStore interface {
		// ListTransactions returns the client's rows of one kind dated inside
		// the half-open period, newest first, joined with category and
		// payment method names.
		ListTransactions(ctx context.Context, clientID int64, kind core.Kind, period core.Period) ([]core.TransactionView, error)
		GetTransaction(ctx context.Context, clientID int64, kind core.Kind, id int64) (core.Transaction, error)
		CreateTransaction(ctx context.Context, t core.Transaction) (core.Transaction, error)
		UpdateTransaction(ctx context.Context, t core.Transaction) (core.Transaction, error)
		DeleteTransaction(ctx context.Context, clientID int64, kind core.Kind, id int64) error
		// MarkOverdue flips pending rows dated before the given day to
		// "vencido" for every client and reports how many changed.
		MarkOverdue(ctx context.Context, kind core.Kind, before core.Date) (int64, error)
		CountTransactionsByPaymentMethod(ctx context.Context, paymentMethodID int64) (int, error)
	}

	GoalStore interface {
		// ListGoals joins each goal with the name and color of its category.
		ListGoals(ctx context.Context, clientID int64) ([]core.GoalView, error)
		GetGoal(ctx context.Context, clientID int64, id int64) (core.Goal, error)
		CreateGoal(ctx context.Context, g core.Goal) (core.Goal, error)
		UpdateGoal(ctx context.Context, g core.Goal) (core.Goal, error)
		DeleteGoal(ctx context.Context, clientID int64, id int64) error
	}

	// PaymentMethodStore is not client scoped: payment methods are shared.
	PaymentMethodStore interface {
		ListPaymentMethods(ctx context.Context, includeInactive bool) ([]core.PaymentMethod, error)
		GetPaymentMethod(ctx context.Context, id int64) (core.PaymentMethod, error)
		CreatePaymentMethod(ctx context.Context, p core.PaymentMethod) (core.PaymentMethod, error)
		UpdatePaymentMethod(ctx context.Context, p core.PaymentMethod) (core.PaymentMethod, error)
		SetPaymentMethodActive(ctx context.Context, id int64, active bool) error
		DeletePaymentMethod(ctx context.Context, id int64) error
	}

	Store interface {
		ClientStore
		CategoryStore
		TransactionStore
		GoalStore
		PaymentMethodStore
		Close() error
	}

	// EventPublisher receives one event per transaction mutation.
	EventPublisher interface {
		PublishTransactionEvent(ctx context.Context, ev core.TransactionEvent) error
	}
)
