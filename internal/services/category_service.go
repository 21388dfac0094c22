package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"financas/internal/core"
	"financas/internal/ports"
)

// DeleteOutcome tells the caller whether a delete removed the row or only
// deactivated it because other records still point at it.
type DeleteOutcome string

const (
	DeleteRemoved     DeleteOutcome = "removido"
	DeleteDeactivated DeleteOutcome = "desativado"
)

const defaultCategoryColor = "#6366f1"

type CategoryInput struct {
	Name   string
	Color  string
	Active *bool
}

type CategoryService struct {
	store   ports.CategoryStore
	reports CacheInvalidator
}

func NewCategoryService(store ports.CategoryStore, reports CacheInvalidator) *CategoryService {
	return &CategoryService{store: store, reports: reports}
}

func (s *CategoryService) List(ctx context.Context, clientID int64, kind core.Kind, includeInactive bool) ([]core.Category, error) {
	if err := kind.Validate(); err != nil {
		return nil, invalid(err)
	}
	cats, err := s.store.ListCategories(ctx, clientID, kind, includeInactive)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return cats, nil
}

func (s *CategoryService) Create(ctx context.Context, clientID int64, kind core.Kind, in CategoryInput) (core.Category, error) {
	c := core.Category{
		ClientID: clientID,
		Kind:     kind,
		Name:     strings.TrimSpace(in.Name),
		Color:    strings.TrimSpace(in.Color),
		Active:   true,
	}
	if c.Color == "" {
		c.Color = defaultCategoryColor
	}
	if err := c.Validate(); err != nil {
		return core.Category{}, invalid(err)
	}
	created, err := s.store.CreateCategory(ctx, c)
	if err != nil {
		return core.Category{}, fmt.Errorf("create category: %w", err)
	}
	return created, nil
}

func (s *CategoryService) Update(ctx context.Context, clientID int64, kind core.Kind, id int64, in CategoryInput) (core.Category, error) {
	if err := kind.Validate(); err != nil {
		return core.Category{}, invalid(err)
	}
	c, err := s.store.GetCategory(ctx, clientID, kind, id)
	if err != nil {
		return core.Category{}, fmt.Errorf("get category %d: %w", id, err)
	}
	c.Name = strings.TrimSpace(in.Name)
	if color := strings.TrimSpace(in.Color); color != "" {
		c.Color = color
	}
	if in.Active != nil {
		c.Active = *in.Active
	}
	if err := c.Validate(); err != nil {
		return core.Category{}, invalid(err)
	}
	updated, err := s.store.UpdateCategory(ctx, c)
	if err != nil {
		return core.Category{}, fmt.Errorf("update category %d: %w", id, err)
	}
	s.invalidate(clientID)
	return updated, nil
}

// Delete removes the category when nothing references it. Otherwise it is
// deactivated and kept so existing transactions and goals still resolve.
// The two counts and the mutation are not atomic.
func (s *CategoryService) Delete(ctx context.Context, clientID int64, kind core.Kind, id int64) (DeleteOutcome, error) {
	if err := kind.Validate(); err != nil {
		return "", invalid(err)
	}
	if _, err := s.store.GetCategory(ctx, clientID, kind, id); err != nil {
		return "", fmt.Errorf("get category %d: %w", id, err)
	}

	txCount, err := s.store.CountTransactionsByCategory(ctx, clientID, kind, id)
	if err != nil {
		return "", fmt.Errorf("count linked transactions: %w", err)
	}
	goalCount, err := s.store.CountGoalsByCategory(ctx, clientID, kind, id)
	if err != nil {
		return "", fmt.Errorf("count linked goals: %w", err)
	}

	if txCount > 0 || goalCount > 0 {
		if err := s.store.SetCategoryActive(ctx, clientID, kind, id, false); err != nil {
			return "", fmt.Errorf("deactivate category %d: %w", id, err)
		}
		slog.InfoContext(ctx, "Category deactivated instead of deleted",
			"client_id", clientID,
			"kind", kind,
			"category_id", id,
			"linked_transactions", txCount,
			"linked_goals", goalCount)
		s.invalidate(clientID)
		return DeleteDeactivated, nil
	}

	if err := s.store.DeleteCategory(ctx, clientID, kind, id); err != nil {
		return "", fmt.Errorf("delete category %d: %w", id, err)
	}
	s.invalidate(clientID)
	return DeleteRemoved, nil
}

func (s *CategoryService) invalidate(clientID int64) {
	if s.reports != nil {
		s.reports.Invalidate(clientID)
	}
}
