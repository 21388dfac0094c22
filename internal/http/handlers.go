package http

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"financas/internal/auth"
	"financas/internal/core"
	"financas/internal/log"
	"financas/internal/services"
)

// handleHealth performs basic liveness check
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	NewResponse().JSON(map[string]any{
		"status":    "ok",
		"timestamp": s.now().Format(time.RFC3339),
		"uptime":    time.Since(s.started).String(),
	}).Write(w)
}

// handleReady performs readiness check with dependency verification
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	status := "ready"
	httpStatus := http.StatusOK
	checks := make(map[string]any)

	if s.deps.Ready == nil {
		checks["store"] = "not_configured"
	} else if err := s.deps.Ready(ctx); err != nil {
		checks["store"] = fmt.Sprintf("failed: %v", err)
		status = "not_ready"
		httpStatus = http.StatusServiceUnavailable
	} else {
		checks["store"] = "ok"
	}

	checks["rate_limiter"] = map[string]any{
		"active_clients": s.rateLimiter.ActiveClients(),
		"status":         "ok",
	}

	NewResponse().Status(httpStatus).JSON(map[string]any{
		"status":    status,
		"timestamp": s.now().Format(time.RFC3339),
		"checks":    checks,
	}).Write(w)
}

// handleMetrics provides request and security counters in plain text format
func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")

	securityMetrics := s.securityDetector.GetMetrics()
	rateLimitMetrics := s.rateLimiter.GetMetrics()
	traceMetrics := s.traceMiddleware.GetMetrics()

	w.WriteHeader(http.StatusOK)

	fmt.Fprintf(w, "# HELP http_requests_total Total number of HTTP requests\n")
	fmt.Fprintf(w, "# TYPE http_requests_total counter\n")
	fmt.Fprintf(w, "http_requests_total %d\n\n", traceMetrics.TotalRequests)

	fmt.Fprintf(w, "# HELP http_server_errors_total Responses with a 5xx status\n")
	fmt.Fprintf(w, "# TYPE http_server_errors_total counter\n")
	fmt.Fprintf(w, "http_server_errors_total %d\n\n", traceMetrics.ServerErrors)

	fmt.Fprintf(w, "# HELP rate_limit_hits_total Total rate limit hits\n")
	fmt.Fprintf(w, "# TYPE rate_limit_hits_total counter\n")
	fmt.Fprintf(w, "rate_limit_hits_total %d\n\n", rateLimitMetrics.TotalHits)

	fmt.Fprintf(w, "# HELP active_rate_limit_clients Currently tracked rate limit clients\n")
	fmt.Fprintf(w, "# TYPE active_rate_limit_clients gauge\n")
	fmt.Fprintf(w, "active_rate_limit_clients %d\n\n", rateLimitMetrics.ClientCount)

	fmt.Fprintf(w, "# HELP suspicious_requests_total Total suspicious requests detected\n")
	fmt.Fprintf(w, "# TYPE suspicious_requests_total counter\n")
	fmt.Fprintf(w, "suspicious_requests_total %d\n\n", securityMetrics.SuspiciousRequests)

	fmt.Fprintf(w, "# HELP uptime_seconds Application uptime in seconds\n")
	fmt.Fprintf(w, "# TYPE uptime_seconds gauge\n")
	fmt.Fprintf(w, "uptime_seconds %.0f\n", time.Since(s.started).Seconds())
}

// handleMe reports the access state of the session so the dashboard can pick
// between the app, the signup form and the waiting screen.
func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.IdentityFrom(r.Context())
	access, err := s.deps.Access.Resolve(r.Context(), id.UserID)
	if err != nil {
		s.writeError(w, r, err, log.ComponentAuth, log.OpRead)
		return
	}
	body := accessDTO{State: access.State}
	if access.State != services.AccessNoRecord {
		c := toClientDTO(access.Client)
		body.Client = &c
	}
	NewResponse().JSON(body).Write(w)
}

// handleSignup creates the inactive client record of the session identity.
// A second signup answers 200 with the existing record.
func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.IdentityFrom(r.Context())

	access, err := s.deps.Access.Resolve(r.Context(), id.UserID)
	if err != nil {
		s.writeError(w, r, err, log.ComponentAuth, log.OpCreate)
		return
	}
	if access.State != services.AccessNoRecord {
		NewResponse().JSON(accessDTO{State: access.State, Client: ptrTo(toClientDTO(access.Client))}).Write(w)
		return
	}

	p := parseBody(w, r)
	if p == nil {
		return
	}
	email := p.Get("email")
	if email == "" {
		email = id.Email
	}
	c, err := s.deps.Access.Register(r.Context(), core.Client{
		AuthUserID: id.UserID,
		Name:       p.Get("nome"),
		Email:      email,
		Phone:      p.Get("telefone"),
	})
	if err != nil {
		s.writeError(w, r, err, log.ComponentAuth, log.OpCreate)
		return
	}

	NewResponse().
		Status(http.StatusCreated).
		JSON(accessDTO{State: services.AccessPendingActivation, Client: ptrTo(toClientDTO(c))}).
		TriggerSuccessNotification("Cadastro enviado. Aguarde a ativação da sua conta.").
		Write(w)
}

func ptrTo[T any](v T) *T {
	return &v
}
