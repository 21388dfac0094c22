package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"financas/internal/core"
	"financas/internal/ports"
)

// GoalInput names a single category; its table is chosen by Kind.
type GoalInput struct {
	Kind       core.Kind
	Name       string
	Target     core.Money
	Current    core.Money
	Deadline   core.Date
	CategoryID int64
}

type GoalService struct {
	store interface {
		ports.GoalStore
		ports.CategoryStore
	}
}

func NewGoalService(store ports.Store) *GoalService {
	return &GoalService{store: store}
}

// List returns the client's goals with their progress.
func (s *GoalService) List(ctx context.Context, clientID int64) ([]core.GoalView, error) {
	goals, err := s.store.ListGoals(ctx, clientID)
	if err != nil {
		return nil, fmt.Errorf("list goals: %w", err)
	}
	for i := range goals {
		goals[i].Progress = core.ComputeProgress(goals[i].Target, goals[i].Current)
	}
	return goals, nil
}

func (s *GoalService) Create(ctx context.Context, clientID int64, in GoalInput) (core.GoalView, error) {
	g, err := s.build(ctx, clientID, in, nil)
	if err != nil {
		return core.GoalView{}, err
	}
	created, err := s.store.CreateGoal(ctx, g)
	if err != nil {
		return core.GoalView{}, fmt.Errorf("create goal: %w", err)
	}
	return s.view(ctx, created), nil
}

func (s *GoalService) Update(ctx context.Context, clientID int64, id int64, in GoalInput) (core.GoalView, error) {
	existing, err := s.store.GetGoal(ctx, clientID, id)
	if err != nil {
		return core.GoalView{}, fmt.Errorf("get goal %d: %w", id, err)
	}
	g, err := s.build(ctx, clientID, in, &existing)
	if err != nil {
		return core.GoalView{}, err
	}
	g.ID = id
	updated, err := s.store.UpdateGoal(ctx, g)
	if err != nil {
		return core.GoalView{}, fmt.Errorf("update goal %d: %w", id, err)
	}
	return s.view(ctx, updated), nil
}

func (s *GoalService) Delete(ctx context.Context, clientID int64, id int64) error {
	if err := s.store.DeleteGoal(ctx, clientID, id); err != nil {
		return fmt.Errorf("delete goal %d: %w", id, err)
	}
	return nil
}

func (s *GoalService) build(ctx context.Context, clientID int64, in GoalInput, existing *core.Goal) (core.Goal, error) {
	if err := in.Kind.Validate(); err != nil {
		return core.Goal{}, invalid(err)
	}
	c, err := s.store.GetCategory(ctx, clientID, in.Kind, in.CategoryID)
	if errors.Is(err, core.ErrNotFound) {
		return core.Goal{}, invalid(ErrCategoryMismatch)
	}
	if err != nil {
		return core.Goal{}, fmt.Errorf("get category %d: %w", in.CategoryID, err)
	}
	if !c.Active {
		kept := false
		if existing != nil && existing.Kind == in.Kind {
			if id, err := existing.CategoryID(); err == nil && id == c.ID {
				kept = true
			}
		}
		if !kept {
			return core.Goal{}, invalid(fmt.Errorf("category %q: %w", c.Name, ErrInactiveReference))
		}
	}

	g := core.Goal{
		ClientID: clientID,
		Kind:     in.Kind,
		Name:     strings.TrimSpace(in.Name),
		Target:   in.Target,
		Current:  in.Current,
		Deadline: in.Deadline,
	}
	id := c.ID
	if in.Kind == core.KindIncome {
		g.IncomeCategoryID = &id
	} else {
		g.ExpenseCategoryID = &id
	}
	if err := g.Validate(); err != nil {
		return core.Goal{}, invalid(err)
	}
	return g, nil
}

func (s *GoalService) view(ctx context.Context, g core.Goal) core.GoalView {
	v := core.GoalView{Goal: g, Progress: core.ComputeProgress(g.Target, g.Current)}
	if id, err := g.CategoryID(); err == nil {
		if c, err := s.store.GetCategory(ctx, g.ClientID, g.Kind, id); err == nil {
			v.CategoryName, v.CategoryColor = c.Name, c.Color
		}
	}
	return v
}
