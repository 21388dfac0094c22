// Package memory is an in-process implementation of ports.Store used for
// local development and tests. Data is lost on restart.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"financas/internal/core"
	"financas/internal/ports"
)

var _ ports.Store = (*Store)(nil)

type Store struct {
	mu sync.RWMutex

	nextID         int64
	clients        map[int64]core.Client
	categories     map[core.Kind]map[int64]core.Category
	transactions   map[core.Kind]map[int64]core.Transaction
	goals          map[int64]core.Goal
	paymentMethods map[int64]core.PaymentMethod
}

func New() *Store {
	return &Store{
		clients:        map[int64]core.Client{},
		categories:     map[core.Kind]map[int64]core.Category{core.KindIncome: {}, core.KindExpense: {}},
		transactions:   map[core.Kind]map[int64]core.Transaction{core.KindIncome: {}, core.KindExpense: {}},
		goals:          map[int64]core.Goal{},
		paymentMethods: map[int64]core.PaymentMethod{},
	}
}

func (s *Store) Close() error { return nil }

func (s *Store) id() int64 {
	s.nextID++
	return s.nextID
}

// Clients

func (s *Store) GetClientByAuthUser(_ context.Context, authUserID string) (core.Client, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, c := range s.clients {
		if c.AuthUserID == authUserID {
			return c, nil
		}
	}
	return core.Client{}, core.ErrNotFound
}

func (s *Store) GetClient(_ context.Context, id int64) (core.Client, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.clients[id]
	if !ok {
		return core.Client{}, core.ErrNotFound
	}
	return c, nil
}

func (s *Store) CreateClient(_ context.Context, c core.Client) (core.Client, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.clients {
		if existing.AuthUserID == c.AuthUserID {
			return existing, nil
		}
	}
	c.ID = s.id()
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC()
	}
	s.clients[c.ID] = c
	return c, nil
}

func (s *Store) ListClients(_ context.Context) ([]core.Client, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]core.Client, 0, len(s.clients))
	for _, c := range s.clients {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) SetClientActive(_ context.Context, id int64, active bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.clients[id]
	if !ok {
		return core.ErrNotFound
	}
	c.Active = active
	s.clients[id] = c
	return nil
}

// Categories

func (s *Store) ListCategories(_ context.Context, clientID int64, kind core.Kind, includeInactive bool) ([]core.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []core.Category
	for _, c := range s.categories[kind] {
		if c.ClientID != clientID || (!c.Active && !includeInactive) {
			continue
		}
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *Store) GetCategory(_ context.Context, clientID int64, kind core.Kind, id int64) (core.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.categories[kind][id]
	if !ok || c.ClientID != clientID {
		return core.Category{}, core.ErrNotFound
	}
	return c, nil
}

func (s *Store) CreateCategory(_ context.Context, c core.Category) (core.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.categories[c.Kind] == nil {
		return core.Category{}, core.ErrInvalidKind
	}
	c.ID = s.id()
	s.categories[c.Kind][c.ID] = c
	return c, nil
}

func (s *Store) UpdateCategory(_ context.Context, c core.Category) (core.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.categories[c.Kind][c.ID]
	if !ok || existing.ClientID != c.ClientID {
		return core.Category{}, core.ErrNotFound
	}
	s.categories[c.Kind][c.ID] = c
	return c, nil
}

func (s *Store) SetCategoryActive(_ context.Context, clientID int64, kind core.Kind, id int64, active bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.categories[kind][id]
	if !ok || c.ClientID != clientID {
		return core.ErrNotFound
	}
	c.Active = active
	s.categories[kind][id] = c
	return nil
}

func (s *Store) DeleteCategory(_ context.Context, clientID int64, kind core.Kind, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.categories[kind][id]
	if !ok || c.ClientID != clientID {
		return core.ErrNotFound
	}
	delete(s.categories[kind], id)
	return nil
}

func (s *Store) CountTransactionsByCategory(_ context.Context, clientID int64, kind core.Kind, categoryID int64) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, t := range s.transactions[kind] {
		if t.ClientID == clientID && t.CategoryID != nil && *t.CategoryID == categoryID {
			n++
		}
	}
	return n, nil
}

func (s *Store) CountGoalsByCategory(_ context.Context, clientID int64, kind core.Kind, categoryID int64) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, g := range s.goals {
		if g.ClientID != clientID {
			continue
		}
		ref := g.IncomeCategoryID
		if kind == core.KindExpense {
			ref = g.ExpenseCategoryID
		}
		if ref != nil && *ref == categoryID {
			n++
		}
	}
	return n, nil
}

// Transactions

func (s *Store) ListTransactions(_ context.Context, clientID int64, kind core.Kind, period core.Period) ([]core.TransactionView, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []core.TransactionView
	for _, t := range s.transactions[kind] {
		if t.ClientID != clientID || !period.Contains(t.Date) {
			continue
		}
		v := core.TransactionView{Transaction: t}
		if t.CategoryID != nil {
			if c, ok := s.categories[kind][*t.CategoryID]; ok {
				v.CategoryName, v.CategoryColor = c.Name, c.Color
			}
		}
		if t.PaymentMethodID != nil {
			if p, ok := s.paymentMethods[*t.PaymentMethodID]; ok {
				v.PaymentMethodName = p.Name
			}
		}
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date.Time) {
			return out[i].Date.After(out[j].Date.Time)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (s *Store) GetTransaction(_ context.Context, clientID int64, kind core.Kind, id int64) (core.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.transactions[kind][id]
	if !ok || t.ClientID != clientID {
		return core.Transaction{}, core.ErrNotFound
	}
	return t, nil
}

func (s *Store) CreateTransaction(_ context.Context, t core.Transaction) (core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.transactions[t.Kind] == nil {
		return core.Transaction{}, core.ErrInvalidKind
	}
	t.ID = s.id()
	s.transactions[t.Kind][t.ID] = t
	return t, nil
}

func (s *Store) UpdateTransaction(_ context.Context, t core.Transaction) (core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.transactions[t.Kind][t.ID]
	if !ok || existing.ClientID != t.ClientID {
		return core.Transaction{}, core.ErrNotFound
	}
	s.transactions[t.Kind][t.ID] = t
	return t, nil
}

func (s *Store) DeleteTransaction(_ context.Context, clientID int64, kind core.Kind, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.transactions[kind][id]
	if !ok || t.ClientID != clientID {
		return core.ErrNotFound
	}
	delete(s.transactions[kind], id)
	return nil
}

func (s *Store) MarkOverdue(_ context.Context, kind core.Kind, before core.Date) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for id, t := range s.transactions[kind] {
		if t.Status == core.StatusPending && t.Date.Before(before.Time) {
			t.Status = core.StatusOverdue
			s.transactions[kind][id] = t
			n++
		}
	}
	return n, nil
}

func (s *Store) CountTransactionsByPaymentMethod(_ context.Context, paymentMethodID int64) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, byID := range s.transactions {
		for _, t := range byID {
			if t.PaymentMethodID != nil && *t.PaymentMethodID == paymentMethodID {
				n++
			}
		}
	}
	return n, nil
}

// Goals

func (s *Store) ListGoals(_ context.Context, clientID int64) ([]core.GoalView, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []core.GoalView
	for _, g := range s.goals {
		if g.ClientID != clientID {
			continue
		}
		v := core.GoalView{Goal: g}
		if id, err := g.CategoryID(); err == nil {
			if c, ok := s.categories[g.Kind][id]; ok {
				v.CategoryName, v.CategoryColor = c.Name, c.Color
			}
		}
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Deadline.Equal(out[j].Deadline.Time) {
			return out[i].Deadline.Before(out[j].Deadline.Time)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (s *Store) GetGoal(_ context.Context, clientID int64, id int64) (core.Goal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	g, ok := s.goals[id]
	if !ok || g.ClientID != clientID {
		return core.Goal{}, core.ErrNotFound
	}
	return g, nil
}

func (s *Store) CreateGoal(_ context.Context, g core.Goal) (core.Goal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	g.ID = s.id()
	s.goals[g.ID] = g
	return g, nil
}

func (s *Store) UpdateGoal(_ context.Context, g core.Goal) (core.Goal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.goals[g.ID]
	if !ok || existing.ClientID != g.ClientID {
		return core.Goal{}, core.ErrNotFound
	}
	s.goals[g.ID] = g
	return g, nil
}

func (s *Store) DeleteGoal(_ context.Context, clientID int64, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	g, ok := s.goals[id]
	if !ok || g.ClientID != clientID {
		return core.ErrNotFound
	}
	delete(s.goals, id)
	return nil
}

// Payment methods

func (s *Store) ListPaymentMethods(_ context.Context, includeInactive bool) ([]core.PaymentMethod, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []core.PaymentMethod
	for _, p := range s.paymentMethods {
		if !p.Active && !includeInactive {
			continue
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *Store) GetPaymentMethod(_ context.Context, id int64) (core.PaymentMethod, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.paymentMethods[id]
	if !ok {
		return core.PaymentMethod{}, core.ErrNotFound
	}
	return p, nil
}

func (s *Store) CreatePaymentMethod(_ context.Context, p core.PaymentMethod) (core.PaymentMethod, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.paymentMethodNameTaken(p.Name, 0) {
		return core.PaymentMethod{}, core.ErrDuplicateName
	}
	p.ID = s.id()
	s.paymentMethods[p.ID] = p
	return p, nil
}

func (s *Store) UpdatePaymentMethod(_ context.Context, p core.PaymentMethod) (core.PaymentMethod, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.paymentMethods[p.ID]; !ok {
		return core.PaymentMethod{}, core.ErrNotFound
	}
	if s.paymentMethodNameTaken(p.Name, p.ID) {
		return core.PaymentMethod{}, core.ErrDuplicateName
	}
	s.paymentMethods[p.ID] = p
	return p, nil
}

// paymentMethodNameTaken mirrors the UNIQUE(nome) constraint of the SQL stores.
func (s *Store) paymentMethodNameTaken(name string, except int64) bool {
	for id, p := range s.paymentMethods {
		if id != except && p.Name == name {
			return true
		}
	}
	return false
}

func (s *Store) SetPaymentMethodActive(_ context.Context, id int64, active bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.paymentMethods[id]
	if !ok {
		return core.ErrNotFound
	}
	p.Active = active
	s.paymentMethods[id] = p
	return nil
}

func (s *Store) DeletePaymentMethod(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.paymentMethods[id]; !ok {
		return core.ErrNotFound
	}
	delete(s.paymentMethods, id)
	return nil
}
