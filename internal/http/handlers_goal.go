package http

import (
	"net/http"

	"financas/internal/core"
	"financas/internal/log"
	"financas/internal/services"
)

func (s *Server) handleListGoals(w http.ResponseWriter, r *http.Request, client core.Client) {
	goals, err := s.deps.Goals.List(r.Context(), client.ID)
	if err != nil {
		s.writeError(w, r, err, log.ComponentGoal, log.OpList)
		return
	}
	out := make([]goalDTO, 0, len(goals))
	for _, g := range goals {
		out = append(out, toGoalDTO(g))
	}
	NewResponse().JSON(out).Write(w)
}

func goalInput(p *RequestBodyParser) (services.GoalInput, error) {
	var in services.GoalInput

	kind, err := core.ParseKind(p.Get("tipo"))
	if err != nil {
		return in, err
	}
	in.Kind = kind
	in.Name = p.Get("nome")
	if in.Target, err = p.Money("valor_alvo"); err != nil {
		return in, err
	}
	if in.Current, err = p.OptionalMoney("valor_atual"); err != nil {
		return in, err
	}
	if in.Deadline, err = p.Date("prazo"); err != nil {
		return in, err
	}
	catID, err := p.ID("categoria_id")
	if err != nil {
		return in, err
	}
	if catID == nil {
		return in, core.ErrGoalCategory
	}
	in.CategoryID = *catID
	return in, nil
}

func (s *Server) handleCreateGoal(w http.ResponseWriter, r *http.Request, client core.Client) {
	p := parseBody(w, r)
	if p == nil {
		return
	}
	in, err := goalInput(p)
	if err != nil {
		s.writeError(w, r, err, log.ComponentGoal, log.OpValidate)
		return
	}

	g, err := s.deps.Goals.Create(r.Context(), client.ID, in)
	if err != nil {
		s.writeError(w, r, err, log.ComponentGoal, log.OpCreate)
		return
	}
	s.structuredLogger.LogMutation(r.Context(), log.ComponentGoal, log.OpCreate, client.ID, string(g.Kind), g.ID)

	NewResponse().
		Status(http.StatusCreated).
		JSON(toGoalDTO(g)).
		TriggerDataChanged("metas").
		TriggerSuccessNotification("Meta criada").
		Write(w)
}

func (s *Server) handleUpdateGoal(w http.ResponseWriter, r *http.Request, client core.Client) {
	id, err := PathID(r, "id")
	if err != nil {
		NotFoundError("Registro não encontrado").Write(w)
		return
	}
	p := parseBody(w, r)
	if p == nil {
		return
	}
	in, err := goalInput(p)
	if err != nil {
		s.writeError(w, r, err, log.ComponentGoal, log.OpValidate)
		return
	}

	g, err := s.deps.Goals.Update(r.Context(), client.ID, id, in)
	if err != nil {
		s.writeError(w, r, err, log.ComponentGoal, log.OpUpdate)
		return
	}
	s.structuredLogger.LogMutation(r.Context(), log.ComponentGoal, log.OpUpdate, client.ID, string(g.Kind), g.ID)

	NewResponse().
		JSON(toGoalDTO(g)).
		TriggerDataChanged("metas").
		TriggerSuccessNotification("Meta atualizada").
		Write(w)
}

func (s *Server) handleDeleteGoal(w http.ResponseWriter, r *http.Request, client core.Client) {
	id, err := PathID(r, "id")
	if err != nil {
		NotFoundError("Registro não encontrado").Write(w)
		return
	}
	if err := s.deps.Goals.Delete(r.Context(), client.ID, id); err != nil {
		s.writeError(w, r, err, log.ComponentGoal, log.OpDelete)
		return
	}
	s.structuredLogger.LogMutation(r.Context(), log.ComponentGoal, log.OpDelete, client.ID, "meta", id)

	NewResponse().
		JSON(map[string]any{"id": id, "resultado": services.DeleteRemoved}).
		TriggerDataChanged("metas").
		TriggerSuccessNotification("Meta excluída").
		Write(w)
}
