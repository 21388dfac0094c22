package http

import (
	"errors"
	"net/http"

	"financas/internal/auth"
	"financas/internal/core"
	"financas/internal/log"
	"financas/internal/middleware/trace"
	"financas/internal/services"
)

// clientHandler serves a request on behalf of an active client.
type clientHandler func(w http.ResponseWriter, r *http.Request, client core.Client)

// requireIdentity verifies the session token and stores the identity in the
// request context. Missing or invalid tokens get 401.
func (s *Server) requireIdentity(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token, err := auth.TokenFromRequest(r)
		if err != nil {
			UnauthorizedError("Sessão ausente. Faça login novamente.").Write(w)
			return
		}
		id, err := s.deps.Verifier.Verify(token)
		if err != nil {
			s.logger.WarnContext(r.Context(), "Rejected session token",
				log.FieldComponent, log.ComponentAuth,
				log.FieldErrorType, log.ErrorTypeAuth,
				log.FieldError, err.Error())
			UnauthorizedError("Sessão inválida ou expirada. Faça login novamente.").Write(w)
			return
		}
		next(w, r.WithContext(auth.WithIdentity(r.Context(), id)))
	}
}

// requireClient gates the dashboard: the identity needs an active client
// record. Otherwise the answer is 403 with the access state so the UI can
// show the signup or waiting screen.
func (s *Server) requireClient(next clientHandler) http.HandlerFunc {
	return s.requireIdentity(func(w http.ResponseWriter, r *http.Request) {
		id, _ := auth.IdentityFrom(r.Context())
		access, err := s.deps.Access.Resolve(r.Context(), id.UserID)
		if err != nil {
			s.writeError(w, r, err, log.ComponentAuth, log.OpRead)
			return
		}
		if access.State != services.AccessGranted {
			NewResponse().
				Status(http.StatusForbidden).
				JSON(accessDTO{State: access.State}).
				Write(w)
			return
		}
		next(w, r, access.Client)
	})
}

var validationMessages = []struct {
	err error
	msg string
}{
	{services.ErrCategoryMismatch, "Categoria inválida para este tipo de lançamento"},
	{services.ErrInactiveReference, "O registro selecionado está inativo"},
	{services.ErrPaymentMethod, "Forma de pagamento inválida"},
	{core.ErrInvalidAmount, "Valor inválido"},
	{core.ErrEmptyName, "Informe o nome"},
	{core.ErrDuplicateName, "Já existe um registro com este nome"},
	{core.ErrEmptyDescription, "Informe a descrição"},
	{core.ErrInvalidStatus, "Status inválido para este tipo de lançamento"},
	{core.ErrInvalidColor, "Cor inválida"},
	{core.ErrInvalidInstalment, "Número de parcelas inválido"},
	{core.ErrGoalCategory, "A meta deve ter uma categoria do mesmo tipo"},
	{core.ErrInvalidKind, "Tipo inválido"},
	{core.ErrInvalidDay, "Data inválida"},
	{core.ErrInvalidMonth, "Data inválida"},
	{core.ErrInvalidPeriod, "Período inválido"},
}

func validationMessage(err error) string {
	for _, vm := range validationMessages {
		if errors.Is(err, vm.err) {
			return vm.msg
		}
	}
	return "Dados inválidos: " + err.Error()
}

// writeError maps service errors to answers: bad input is 422, a missing row
// 404, anything else is logged and answered with a generic 500 toast.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error, component, operation string) {
	switch {
	case services.IsValidation(err), errors.Is(err, errBadField):
		s.logger.WarnContext(r.Context(), "Request rejected",
			log.FieldComponent, component,
			log.FieldOperation, operation,
			log.FieldErrorType, log.ErrorTypeValidation,
			log.FieldError, err.Error())
		UnprocessableEntityError(validationMessage(err)).Write(w)
	case errors.Is(err, core.ErrNotFound):
		NotFoundError("Registro não encontrado").Write(w)
	default:
		fields := log.NewFields().WithErrorType(log.ErrorTypeInternal).WithRequestID(trace.RequestID(r))
		s.structuredLogger.LogError(r.Context(), "Request failed", err, component, operation, fields)
		InternalServerError("Operação falhou. Tente novamente.").Write(w)
	}
}

// parseBody reads the request body; a malformed one is answered with 400 and
// nil is returned.
func parseBody(w http.ResponseWriter, r *http.Request) *RequestBodyParser {
	p := NewRequestBodyParser(r)
	if err := p.Parse(); err != nil {
		BadRequestError("Formato da requisição inválido").Write(w)
		return nil
	}
	return p
}
