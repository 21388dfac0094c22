package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"financas/internal/core"
	"financas/internal/ports"
)

// DefaultPaymentMethods is what `financas-admin formas-pagamento seed` creates.
var DefaultPaymentMethods = []string{
	"Dinheiro",
	"Pix",
	"Cartão de crédito",
	"Cartão de débito",
	"Boleto",
	"Transferência",
}

// PaymentMethodService manages the payment methods shared by every client.
// Reports embed method names, so renames and deletions drop all cached
// reports through reports, which may be nil.
type PaymentMethodService struct {
	store   ports.Store
	reports ReportInvalidator
}

func NewPaymentMethodService(store ports.Store, reports ReportInvalidator) *PaymentMethodService {
	return &PaymentMethodService{store: store, reports: reports}
}

func (s *PaymentMethodService) List(ctx context.Context, includeInactive bool) ([]core.PaymentMethod, error) {
	methods, err := s.store.ListPaymentMethods(ctx, includeInactive)
	if err != nil {
		return nil, fmt.Errorf("list payment methods: %w", err)
	}
	return methods, nil
}

func (s *PaymentMethodService) Create(ctx context.Context, name string) (core.PaymentMethod, error) {
	p := core.PaymentMethod{Name: strings.TrimSpace(name), Active: true}
	if err := p.Validate(); err != nil {
		return core.PaymentMethod{}, invalid(err)
	}
	created, err := s.store.CreatePaymentMethod(ctx, p)
	if err != nil {
		return core.PaymentMethod{}, fmt.Errorf("create payment method: %w", err)
	}
	return created, nil
}

func (s *PaymentMethodService) Update(ctx context.Context, id int64, name string, active *bool) (core.PaymentMethod, error) {
	p, err := s.store.GetPaymentMethod(ctx, id)
	if err != nil {
		return core.PaymentMethod{}, fmt.Errorf("get payment method %d: %w", id, err)
	}
	p.Name = strings.TrimSpace(name)
	if active != nil {
		p.Active = *active
	}
	if err := p.Validate(); err != nil {
		return core.PaymentMethod{}, invalid(err)
	}
	updated, err := s.store.UpdatePaymentMethod(ctx, p)
	if err != nil {
		return core.PaymentMethod{}, fmt.Errorf("update payment method %d: %w", id, err)
	}
	s.invalidateReports()
	return updated, nil
}

// Delete follows the category rule: methods used by any transaction are
// deactivated, unused ones removed.
func (s *PaymentMethodService) Delete(ctx context.Context, id int64) (DeleteOutcome, error) {
	if _, err := s.store.GetPaymentMethod(ctx, id); err != nil {
		return "", fmt.Errorf("get payment method %d: %w", id, err)
	}
	n, err := s.store.CountTransactionsByPaymentMethod(ctx, id)
	if err != nil {
		return "", fmt.Errorf("count linked transactions: %w", err)
	}
	if n > 0 {
		if err := s.store.SetPaymentMethodActive(ctx, id, false); err != nil {
			return "", fmt.Errorf("deactivate payment method %d: %w", id, err)
		}
		slog.InfoContext(ctx, "Payment method deactivated instead of deleted",
			"payment_method_id", id,
			"linked_transactions", n)
		s.invalidateReports()
		return DeleteDeactivated, nil
	}
	if err := s.store.DeletePaymentMethod(ctx, id); err != nil {
		return "", fmt.Errorf("delete payment method %d: %w", id, err)
	}
	return DeleteRemoved, nil
}

func (s *PaymentMethodService) invalidateReports() {
	if s.reports != nil {
		s.reports.InvalidateAll()
	}
}

// Seed creates the missing names among DefaultPaymentMethods and returns how
// many were added. Existing rows, active or not, are left alone.
func (s *PaymentMethodService) Seed(ctx context.Context) (int, error) {
	existing, err := s.store.ListPaymentMethods(ctx, true)
	if err != nil {
		return 0, fmt.Errorf("list payment methods: %w", err)
	}
	have := make(map[string]bool, len(existing))
	for _, p := range existing {
		have[strings.ToLower(p.Name)] = true
	}

	added := 0
	for _, name := range DefaultPaymentMethods {
		if have[strings.ToLower(name)] {
			continue
		}
		if _, err := s.store.CreatePaymentMethod(ctx, core.PaymentMethod{Name: name, Active: true}); err != nil {
			return added, fmt.Errorf("create payment method %q: %w", name, err)
		}
		added++
	}
	return added, nil
}
