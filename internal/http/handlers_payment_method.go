package http

import (
	"net/http"

	"financas/internal/core"
	"financas/internal/log"
	"financas/internal/services"
)

// Payment methods are shared by every client; any active client may manage
// them.

func (s *Server) handleListPaymentMethods(w http.ResponseWriter, r *http.Request, _ core.Client) {
	methods, err := s.deps.PaymentMethods.List(r.Context(), r.URL.Query().Get("inativas") == "true")
	if err != nil {
		s.writeError(w, r, err, log.ComponentStorage, log.OpList)
		return
	}
	out := make([]paymentMethodDTO, 0, len(methods))
	for _, m := range methods {
		out = append(out, toPaymentMethodDTO(m))
	}
	NewResponse().JSON(out).Write(w)
}

func (s *Server) handleCreatePaymentMethod(w http.ResponseWriter, r *http.Request, client core.Client) {
	p := parseBody(w, r)
	if p == nil {
		return
	}
	m, err := s.deps.PaymentMethods.Create(r.Context(), p.Get("nome"))
	if err != nil {
		s.writeError(w, r, err, log.ComponentStorage, log.OpCreate)
		return
	}
	s.structuredLogger.LogMutation(r.Context(), log.ComponentStorage, log.OpCreate, client.ID, "forma_pagamento", m.ID)

	NewResponse().
		Status(http.StatusCreated).
		JSON(toPaymentMethodDTO(m)).
		TriggerDataChanged("formas-pagamento").
		TriggerSuccessNotification("Forma de pagamento criada").
		Write(w)
}

func (s *Server) handleUpdatePaymentMethod(w http.ResponseWriter, r *http.Request, client core.Client) {
	id, err := PathID(r, "id")
	if err != nil {
		NotFoundError("Registro não encontrado").Write(w)
		return
	}
	p := parseBody(w, r)
	if p == nil {
		return
	}
	active, err := p.Bool("ativo")
	if err != nil {
		s.writeError(w, r, err, log.ComponentStorage, log.OpUpdate)
		return
	}

	m, err := s.deps.PaymentMethods.Update(r.Context(), id, p.Get("nome"), active)
	if err != nil {
		s.writeError(w, r, err, log.ComponentStorage, log.OpUpdate)
		return
	}
	s.structuredLogger.LogMutation(r.Context(), log.ComponentStorage, log.OpUpdate, client.ID, "forma_pagamento", m.ID)

	NewResponse().
		JSON(toPaymentMethodDTO(m)).
		TriggerDataChanged("formas-pagamento").
		TriggerSuccessNotification("Forma de pagamento atualizada").
		Write(w)
}

func (s *Server) handleDeletePaymentMethod(w http.ResponseWriter, r *http.Request, client core.Client) {
	id, err := PathID(r, "id")
	if err != nil {
		NotFoundError("Registro não encontrado").Write(w)
		return
	}
	outcome, err := s.deps.PaymentMethods.Delete(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err, log.ComponentStorage, log.OpDelete)
		return
	}
	s.structuredLogger.LogMutation(r.Context(), log.ComponentStorage, log.OpDelete, client.ID, "forma_pagamento", id)

	msg := "Forma de pagamento excluída"
	if outcome == services.DeleteDeactivated {
		msg = "Forma de pagamento em uso: foi desativada em vez de excluída"
	}
	NewResponse().
		JSON(map[string]any{"id": id, "resultado": outcome}).
		TriggerDataChanged("formas-pagamento").
		TriggerSuccessNotification(msg).
		Write(w)
}
