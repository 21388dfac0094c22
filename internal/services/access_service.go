package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"financas/internal/core"
	"financas/internal/ports"
)

// AccessState is the gate result for an authenticated identity.
type AccessState string

const (
	AccessGranted           AccessState = "liberado"
	AccessNoRecord          AccessState = "sem_cadastro"
	AccessPendingActivation AccessState = "aguardando_ativacao"
)

type Access struct {
	State  AccessState
	Client core.Client
}

// AccessService maps auth identities to client records. Activation happens
// outside the dashboard, through the admin CLI.
type AccessService struct {
	clients ports.ClientStore
}

func NewAccessService(clients ports.ClientStore) *AccessService {
	return &AccessService{clients: clients}
}

// Resolve never treats a missing or inactive client as an error.
func (s *AccessService) Resolve(ctx context.Context, authUserID string) (Access, error) {
	c, err := s.clients.GetClientByAuthUser(ctx, authUserID)
	if errors.Is(err, core.ErrNotFound) {
		return Access{State: AccessNoRecord}, nil
	}
	if err != nil {
		return Access{}, fmt.Errorf("get client by auth user: %w", err)
	}
	if !c.Active {
		return Access{State: AccessPendingActivation, Client: c}, nil
	}
	return Access{State: AccessGranted, Client: c}, nil
}

// Register creates the inactive client row at signup. Signing up twice
// returns the existing row unchanged.
func (s *AccessService) Register(ctx context.Context, c core.Client) (core.Client, error) {
	c.Name = strings.TrimSpace(c.Name)
	c.Email = strings.TrimSpace(c.Email)
	c.Phone = strings.TrimSpace(c.Phone)
	c.Active = false
	if err := c.Validate(); err != nil {
		return core.Client{}, invalid(err)
	}

	created, err := s.clients.CreateClient(ctx, c)
	if err != nil {
		return core.Client{}, fmt.Errorf("create client: %w", err)
	}
	slog.InfoContext(ctx, "Client registered",
		"client_id", created.ID,
		"active", created.Active)
	return created, nil
}

func (s *AccessService) ListClients(ctx context.Context) ([]core.Client, error) {
	clients, err := s.clients.ListClients(ctx)
	if err != nil {
		return nil, fmt.Errorf("list clients: %w", err)
	}
	return clients, nil
}

// SetActive is the external approval step.
func (s *AccessService) SetActive(ctx context.Context, clientID int64, active bool) error {
	if err := s.clients.SetClientActive(ctx, clientID, active); err != nil {
		return fmt.Errorf("set client %d active=%t: %w", clientID, active, err)
	}
	slog.InfoContext(ctx, "Client activation changed", "client_id", clientID, "active", active)
	return nil
}
