package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"financas/internal/core"
	"financas/internal/ports"
)

const maxInstallments = 120

// TransactionInput is what the quick-add and edit forms submit.
type TransactionInput struct {
	Description     string
	Amount          core.Money
	Date            core.Date
	CategoryID      *int64
	PaymentMethodID *int64
	Status          core.Status
	// Installments > 1 expands a create into one row per month, each for
	// Amount. Ignored on update.
	Installments int
	SettledOn    core.Date
}

type TransactionService struct {
	store     ports.Store
	publisher publisher
	reports   CacheInvalidator
	now       func() time.Time
}

// NewTransactionService accepts a nil publisher and a nil invalidator.
func NewTransactionService(store ports.Store, pub ports.EventPublisher, reports CacheInvalidator) *TransactionService {
	return &TransactionService{
		store:     store,
		publisher: publisher{pub: pub},
		reports:   reports,
		now:       time.Now,
	}
}

func (s *TransactionService) List(ctx context.Context, clientID int64, kind core.Kind, period core.Period) ([]core.TransactionView, error) {
	if err := kind.Validate(); err != nil {
		return nil, invalid(err)
	}
	rows, err := s.store.ListTransactions(ctx, clientID, kind, period)
	if err != nil {
		return nil, fmt.Errorf("list %s transactions: %w", kind, err)
	}
	return rows, nil
}

// Create stores one transaction, or one per installment. Only the first
// installment takes a settled status; later ones start pending.
func (s *TransactionService) Create(ctx context.Context, clientID int64, kind core.Kind, in TransactionInput) ([]core.Transaction, error) {
	if err := kind.Validate(); err != nil {
		return nil, invalid(err)
	}
	if in.Installments < 0 || in.Installments > maxInstallments {
		return nil, invalid(core.ErrInvalidInstalment)
	}
	if in.Status == "" {
		in.Status = core.StatusPending
	}

	categoryName, err := s.checkRefs(ctx, clientID, kind, in.CategoryID, in.PaymentMethodID, nil)
	if err != nil {
		return nil, err
	}

	count := in.Installments
	if count < 2 {
		count = 1
	}

	base := core.Transaction{
		ClientID:        clientID,
		Kind:            kind,
		Description:     strings.TrimSpace(in.Description),
		Amount:          in.Amount,
		Date:            in.Date,
		CategoryID:      in.CategoryID,
		PaymentMethodID: in.PaymentMethodID,
		Status:          in.Status,
	}

	rows := make([]core.Transaction, 0, count)
	for i := 0; i < count; i++ {
		t := base
		t.Date = in.Date.AddMonths(i)
		if count > 1 {
			t.Installment = i + 1
			t.Installments = count
			if i > 0 {
				t.Status = core.StatusPending
			}
		}
		s.stampSettlement(&t, in.SettledOn)
		if err := t.Validate(); err != nil {
			return nil, invalid(err)
		}
		rows = append(rows, t)
	}

	created := make([]core.Transaction, 0, count)
	for _, t := range rows {
		saved, err := s.store.CreateTransaction(ctx, t)
		if err != nil {
			return created, fmt.Errorf("create %s transaction: %w", kind, err)
		}
		created = append(created, saved)
		s.publisher.publish(ctx, core.NewTransactionEvent(core.EventCreated, saved, categoryName))
	}

	if count > 1 {
		slog.InfoContext(ctx, "Installment plan created",
			"client_id", clientID,
			"kind", kind,
			"installments", count,
			"amount_cents", in.Amount.Cents)
	}
	s.invalidate(clientID)
	return created, nil
}

// Update edits one row. Installment position is kept, and so is the date
// when in.Date is zero.
func (s *TransactionService) Update(ctx context.Context, clientID int64, kind core.Kind, id int64, in TransactionInput) (core.Transaction, error) {
	if err := kind.Validate(); err != nil {
		return core.Transaction{}, invalid(err)
	}
	existing, err := s.store.GetTransaction(ctx, clientID, kind, id)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("get transaction %d: %w", id, err)
	}

	categoryName, err := s.checkRefs(ctx, clientID, kind, in.CategoryID, in.PaymentMethodID, &existing)
	if err != nil {
		return core.Transaction{}, err
	}

	t := existing
	t.Description = strings.TrimSpace(in.Description)
	t.Amount = in.Amount
	if !in.Date.IsZero() {
		t.Date = in.Date
	}
	t.CategoryID = in.CategoryID
	t.PaymentMethodID = in.PaymentMethodID
	if in.Status != "" {
		t.Status = in.Status
	}
	settledOn := in.SettledOn
	if settledOn.IsZero() && existing.Status.IsSettled() && t.Status.IsSettled() {
		settledOn = existing.SettledOn
	}
	s.stampSettlement(&t, settledOn)
	if err := t.Validate(); err != nil {
		return core.Transaction{}, invalid(err)
	}

	updated, err := s.store.UpdateTransaction(ctx, t)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("update transaction %d: %w", id, err)
	}
	s.publisher.publish(ctx, core.NewTransactionEvent(core.EventUpdated, updated, categoryName))
	s.invalidate(clientID)
	return updated, nil
}

// SetStatus moves a transaction between pending, settled and overdue.
// Settling stamps settledOn, or today when it is zero.
func (s *TransactionService) SetStatus(ctx context.Context, clientID int64, kind core.Kind, id int64, status core.Status, settledOn core.Date) (core.Transaction, error) {
	if err := kind.Validate(); err != nil {
		return core.Transaction{}, invalid(err)
	}
	if !status.ValidFor(kind) {
		return core.Transaction{}, invalid(core.ErrInvalidStatus)
	}
	t, err := s.store.GetTransaction(ctx, clientID, kind, id)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("get transaction %d: %w", id, err)
	}
	t.Status = status
	s.stampSettlement(&t, settledOn)

	updated, err := s.store.UpdateTransaction(ctx, t)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("update transaction %d status: %w", id, err)
	}
	s.publisher.publish(ctx, core.NewTransactionEvent(core.EventStatusChanged, updated, s.categoryName(ctx, updated)))
	s.invalidate(clientID)
	return updated, nil
}

func (s *TransactionService) Delete(ctx context.Context, clientID int64, kind core.Kind, id int64) error {
	if err := kind.Validate(); err != nil {
		return invalid(err)
	}
	t, err := s.store.GetTransaction(ctx, clientID, kind, id)
	if err != nil {
		return fmt.Errorf("get transaction %d: %w", id, err)
	}
	name := s.categoryName(ctx, t)
	if err := s.store.DeleteTransaction(ctx, clientID, kind, id); err != nil {
		return fmt.Errorf("delete transaction %d: %w", id, err)
	}
	s.publisher.publish(ctx, core.NewTransactionEvent(core.EventDeleted, t, name))
	s.invalidate(clientID)
	return nil
}

func (s *TransactionService) stampSettlement(t *core.Transaction, settledOn core.Date) {
	if !t.Status.IsSettled() {
		t.SettledOn = core.Date{}
		return
	}
	if settledOn.IsZero() {
		settledOn = core.DateOf(s.now())
	}
	t.SettledOn = settledOn
}

// checkRefs verifies category and payment method. A reference that an
// existing row already holds may stay even if it has since been deactivated.
func (s *TransactionService) checkRefs(ctx context.Context, clientID int64, kind core.Kind, categoryID, paymentMethodID *int64, existing *core.Transaction) (string, error) {
	var categoryName string
	if categoryID != nil {
		c, err := s.store.GetCategory(ctx, clientID, kind, *categoryID)
		if errors.Is(err, core.ErrNotFound) {
			return "", invalid(ErrCategoryMismatch)
		}
		if err != nil {
			return "", fmt.Errorf("get category %d: %w", *categoryID, err)
		}
		kept := existing != nil && existing.CategoryID != nil && *existing.CategoryID == c.ID
		if !c.Active && !kept {
			return "", invalid(fmt.Errorf("category %q: %w", c.Name, ErrInactiveReference))
		}
		categoryName = c.Name
	}
	if paymentMethodID != nil {
		p, err := s.store.GetPaymentMethod(ctx, *paymentMethodID)
		if errors.Is(err, core.ErrNotFound) {
			return "", invalid(ErrPaymentMethod)
		}
		if err != nil {
			return "", fmt.Errorf("get payment method %d: %w", *paymentMethodID, err)
		}
		kept := existing != nil && existing.PaymentMethodID != nil && *existing.PaymentMethodID == p.ID
		if !p.Active && !kept {
			return "", invalid(fmt.Errorf("payment method %q: %w", p.Name, ErrInactiveReference))
		}
	}
	return categoryName, nil
}

func (s *TransactionService) categoryName(ctx context.Context, t core.Transaction) string {
	if t.CategoryID == nil {
		return ""
	}
	c, err := s.store.GetCategory(ctx, t.ClientID, t.Kind, *t.CategoryID)
	if err != nil {
		return ""
	}
	return c.Name
}

func (s *TransactionService) invalidate(clientID int64) {
	if s.reports != nil {
		s.reports.Invalidate(clientID)
	}
}
