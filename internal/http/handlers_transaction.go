package http

import (
	"net/http"

	"financas/internal/core"
	"financas/internal/log"
	"financas/internal/services"
)

// period resolves the request's filter, logging and falling back to the
// current month when it is invalid.
func (s *Server) period(r *http.Request) core.Period {
	p, err := ResolvePeriod(r.URL.Query(), s.now())
	if err != nil {
		s.logger.WarnContext(r.Context(), "Invalid period filter, using current month",
			log.FieldQuery, r.URL.RawQuery,
			log.FieldError, err.Error())
	}
	return p
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request, client core.Client) {
	kind, err := PathKind(r)
	if err != nil {
		NotFoundError("Tipo desconhecido").Write(w)
		return
	}
	period := s.period(r)

	rows, err := s.deps.Transactions.List(r.Context(), client.ID, kind, period)
	if err != nil {
		s.writeError(w, r, err, log.ComponentTransaction, log.OpList)
		return
	}
	NewResponse().JSON(map[string]any{
		"periodo": period,
		"itens":   toTransactionDTOs(rows),
	}).Write(w)
}

// transactionInput reads the quick-add / edit form. A missing date is today
// on create; on edit it stays zero so the stored date is kept.
func (s *Server) transactionInput(p *RequestBodyParser, kind core.Kind, creating bool) (services.TransactionInput, error) {
	var in services.TransactionInput
	var err error

	in.Description = p.Get("descricao")
	if in.Amount, err = p.Money("valor"); err != nil {
		return in, err
	}
	if in.Date, err = p.Date("data"); err != nil {
		return in, err
	}
	if in.Date.IsZero() && creating {
		in.Date = core.DateOf(s.now())
	}
	if in.CategoryID, err = p.ID("categoria_id"); err != nil {
		return in, err
	}
	if in.PaymentMethodID, err = p.ID("forma_pagamento_id"); err != nil {
		return in, err
	}
	if v := p.Get("status"); v != "" {
		if in.Status, err = core.ParseStatus(kind, v); err != nil {
			return in, err
		}
	}
	if in.Installments, err = p.Int("parcelas", 1); err != nil {
		return in, err
	}
	if in.SettledOn, err = p.Date("data_liquidacao"); err != nil {
		return in, err
	}
	return in, nil
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request, client core.Client) {
	kind, err := PathKind(r)
	if err != nil {
		NotFoundError("Tipo desconhecido").Write(w)
		return
	}
	p := parseBody(w, r)
	if p == nil {
		return
	}
	in, err := s.transactionInput(p, kind, true)
	if err != nil {
		s.writeError(w, r, err, log.ComponentTransaction, log.OpValidate)
		return
	}

	created, err := s.deps.Transactions.Create(r.Context(), client.ID, kind, in)
	if err != nil {
		s.writeError(w, r, err, log.ComponentTransaction, log.OpCreate)
		return
	}

	views := make([]core.TransactionView, 0, len(created))
	for _, t := range created {
		s.structuredLogger.LogMutation(r.Context(), log.ComponentTransaction, log.OpCreate, client.ID, string(kind), t.ID)
		views = append(views, core.TransactionView{Transaction: t})
	}

	msg := "Receita registrada"
	if kind == core.KindExpense {
		msg = "Despesa registrada"
	}
	if len(created) > 1 {
		msg += " em parcelas"
	}
	NewResponse().
		Status(http.StatusCreated).
		JSON(map[string]any{"itens": toTransactionDTOs(views)}).
		TriggerDataChanged(kind.Plural()).
		TriggerSummaryRefresh().
		Trigger("form:reset", struct{}{}).
		TriggerSuccessNotification(msg).
		Write(w)
}

func (s *Server) handleUpdateTransaction(w http.ResponseWriter, r *http.Request, client core.Client) {
	kind, err := PathKind(r)
	if err != nil {
		NotFoundError("Tipo desconhecido").Write(w)
		return
	}
	id, err := PathID(r, "id")
	if err != nil {
		NotFoundError("Registro não encontrado").Write(w)
		return
	}
	p := parseBody(w, r)
	if p == nil {
		return
	}
	in, err := s.transactionInput(p, kind, false)
	if err != nil {
		s.writeError(w, r, err, log.ComponentTransaction, log.OpValidate)
		return
	}

	t, err := s.deps.Transactions.Update(r.Context(), client.ID, kind, id, in)
	if err != nil {
		s.writeError(w, r, err, log.ComponentTransaction, log.OpUpdate)
		return
	}
	s.structuredLogger.LogMutation(r.Context(), log.ComponentTransaction, log.OpUpdate, client.ID, string(kind), t.ID)

	NewResponse().
		JSON(toTransactionDTO(core.TransactionView{Transaction: t})).
		TriggerDataChanged(kind.Plural()).
		TriggerSummaryRefresh().
		TriggerSuccessNotification("Lançamento atualizado").
		Write(w)
}

// handleSetTransactionStatus is the quick "mark as paid/received" action.
func (s *Server) handleSetTransactionStatus(w http.ResponseWriter, r *http.Request, client core.Client) {
	kind, err := PathKind(r)
	if err != nil {
		NotFoundError("Tipo desconhecido").Write(w)
		return
	}
	id, err := PathID(r, "id")
	if err != nil {
		NotFoundError("Registro não encontrado").Write(w)
		return
	}
	p := parseBody(w, r)
	if p == nil {
		return
	}
	settledOn, err := p.Date("data_liquidacao")
	if err != nil {
		s.writeError(w, r, err, log.ComponentTransaction, log.OpValidate)
		return
	}
	status, err := core.ParseStatus(kind, p.Get("status"))
	if err != nil {
		s.writeError(w, r, err, log.ComponentTransaction, log.OpValidate)
		return
	}

	t, err := s.deps.Transactions.SetStatus(r.Context(), client.ID, kind, id, status, settledOn)
	if err != nil {
		s.writeError(w, r, err, log.ComponentTransaction, log.OpStatus)
		return
	}
	s.structuredLogger.LogMutation(r.Context(), log.ComponentTransaction, log.OpStatus, client.ID, string(kind), t.ID)

	NewResponse().
		JSON(toTransactionDTO(core.TransactionView{Transaction: t})).
		TriggerDataChanged(kind.Plural()).
		TriggerSummaryRefresh().
		TriggerSuccessNotification("Status alterado para " + t.Status.Label()).
		Write(w)
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request, client core.Client) {
	kind, err := PathKind(r)
	if err != nil {
		NotFoundError("Tipo desconhecido").Write(w)
		return
	}
	id, err := PathID(r, "id")
	if err != nil {
		NotFoundError("Registro não encontrado").Write(w)
		return
	}

	if err := s.deps.Transactions.Delete(r.Context(), client.ID, kind, id); err != nil {
		s.writeError(w, r, err, log.ComponentTransaction, log.OpDelete)
		return
	}
	s.structuredLogger.LogMutation(r.Context(), log.ComponentTransaction, log.OpDelete, client.ID, string(kind), id)

	NewResponse().
		JSON(map[string]any{"id": id, "resultado": services.DeleteRemoved}).
		TriggerDataChanged(kind.Plural()).
		TriggerSummaryRefresh().
		TriggerSuccessNotification("Lançamento excluído").
		Write(w)
}
