package http

import (
	"net/http"

	"financas/internal/core"
	"financas/internal/log"
	"financas/internal/services"
)

func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request, client core.Client) {
	kind, err := PathKind(r)
	if err != nil {
		NotFoundError("Tipo desconhecido").Write(w)
		return
	}
	includeInactive := r.URL.Query().Get("inativas") == "true"

	cats, err := s.deps.Categories.List(r.Context(), client.ID, kind, includeInactive)
	if err != nil {
		s.writeError(w, r, err, log.ComponentCategory, log.OpList)
		return
	}
	out := make([]categoryDTO, 0, len(cats))
	for _, c := range cats {
		out = append(out, toCategoryDTO(c))
	}
	NewResponse().JSON(out).Write(w)
}

func (s *Server) handleCreateCategory(w http.ResponseWriter, r *http.Request, client core.Client) {
	kind, err := PathKind(r)
	if err != nil {
		NotFoundError("Tipo desconhecido").Write(w)
		return
	}
	p := parseBody(w, r)
	if p == nil {
		return
	}

	c, err := s.deps.Categories.Create(r.Context(), client.ID, kind, services.CategoryInput{
		Name:  p.Get("nome"),
		Color: p.Get("cor"),
	})
	if err != nil {
		s.writeError(w, r, err, log.ComponentCategory, log.OpCreate)
		return
	}
	s.structuredLogger.LogMutation(r.Context(), log.ComponentCategory, log.OpCreate, client.ID, string(kind), c.ID)

	NewResponse().
		Status(http.StatusCreated).
		JSON(toCategoryDTO(c)).
		TriggerDataChanged("categorias").
		TriggerSuccessNotification("Categoria criada").
		Write(w)
}

func (s *Server) handleUpdateCategory(w http.ResponseWriter, r *http.Request, client core.Client) {
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
	active, err := p.Bool("ativo")
	if err != nil {
		s.writeError(w, r, err, log.ComponentCategory, log.OpUpdate)
		return
	}

	c, err := s.deps.Categories.Update(r.Context(), client.ID, kind, id, services.CategoryInput{
		Name:   p.Get("nome"),
		Color:  p.Get("cor"),
		Active: active,
	})
	if err != nil {
		s.writeError(w, r, err, log.ComponentCategory, log.OpUpdate)
		return
	}
	s.structuredLogger.LogMutation(r.Context(), log.ComponentCategory, log.OpUpdate, client.ID, string(kind), c.ID)

	NewResponse().
		JSON(toCategoryDTO(c)).
		TriggerDataChanged("categorias").
		TriggerSummaryRefresh().
		TriggerSuccessNotification("Categoria atualizada").
		Write(w)
}

// handleDeleteCategory removes an unused category. One still referenced by
// transactions or goals is deactivated and the answer says so.
func (s *Server) handleDeleteCategory(w http.ResponseWriter, r *http.Request, client core.Client) {
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

	outcome, err := s.deps.Categories.Delete(r.Context(), client.ID, kind, id)
	if err != nil {
		s.writeError(w, r, err, log.ComponentCategory, log.OpDelete)
		return
	}
	s.structuredLogger.LogMutation(r.Context(), log.ComponentCategory, log.OpDelete, client.ID, string(kind), id)

	msg := "Categoria excluída"
	if outcome == services.DeleteDeactivated {
		msg = "Categoria em uso: foi desativada em vez de excluída"
	}
	NewResponse().
		JSON(map[string]any{"id": id, "resultado": outcome}).
		TriggerDataChanged("categorias").
		TriggerSuccessNotification(msg).
		Write(w)
}
