package http

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"financas/internal/auth"
	"financas/internal/log"
	"financas/internal/middleware/ratelimit"
	"financas/internal/middleware/security"
	"financas/internal/middleware/trace"
	"financas/internal/services"
)

// Config holds the listener and middleware settings of the server.
type Config struct {
	Addr               string
	RateLimitPerMinute int
	// BlockSuspicious answers scanner traffic with 404 instead of only
	// logging it.
	BlockSuspicious bool
	TrustedProxies  []string
}

// Deps are the services behind the routes. Ready may be nil.
type Deps struct {
	Verifier       *auth.Verifier
	Access         *services.AccessService
	Categories     *services.CategoryService
	Transactions   *services.TransactionService
	Goals          *services.GoalService
	PaymentMethods *services.PaymentMethodService
	Reports        *services.ReportService
	// Ready checks the backing store for /readyz.
	Ready func(ctx context.Context) error
}

type Server struct {
	http.Server
	deps Deps

	logger           *log.Logger
	structuredLogger *log.StructuredLogger

	rateLimiter      *ratelimit.Limiter
	securityDetector *security.Detector
	securityHeaders  *security.HeadersMiddleware
	traceMiddleware  *trace.Middleware

	started      time.Time
	now          func() time.Time
	shutdownOnce sync.Once
}

// NewServer configures routes and middleware, returning a ready-to-run server.
func NewServer(cfg Config, deps Deps) *Server {
	mux := http.NewServeMux()

	limiterCfg := ratelimit.DefaultConfig()
	if cfg.RateLimitPerMinute > 0 {
		limiterCfg.RequestsPerMinute = cfg.RateLimitPerMinute
	}

	logger := log.New(log.Config{Component: log.ComponentHTTP, Handler: slog.Default().Handler()})
	detector := security.NewDetector()
	for _, cidr := range cfg.TrustedProxies {
		if err := detector.AddTrustedProxy(cidr); err != nil {
			logger.Warn("Ignoring trusted proxy", log.FieldError, err)
		}
	}

	s := &Server{
		deps:             deps,
		logger:           logger,
		structuredLogger: log.NewStructuredLogger(logger),
		rateLimiter:      ratelimit.NewLimiter(limiterCfg),
		securityDetector: detector,
		securityHeaders:  security.NewHeadersMiddleware(security.DefaultHeadersConfig()),
		traceMiddleware:  trace.NewMiddleware(detector.ExtractClientIP),
		started:          time.Now(),
		now:              time.Now,
	}

	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)
	mux.HandleFunc("GET /metrics", s.handleMetrics)

	mux.HandleFunc("GET /api/me", s.requireIdentity(s.handleMe))
	mux.HandleFunc("POST /api/clientes", s.requireIdentity(s.handleSignup))

	mux.HandleFunc("GET /api/categorias/{tipo}", s.requireClient(s.handleListCategories))
	mux.HandleFunc("POST /api/categorias/{tipo}", s.requireClient(s.handleCreateCategory))
	mux.HandleFunc("PUT /api/categorias/{tipo}/{id}", s.requireClient(s.handleUpdateCategory))
	mux.HandleFunc("DELETE /api/categorias/{tipo}/{id}", s.requireClient(s.handleDeleteCategory))

	mux.HandleFunc("GET /api/transacoes/{tipo}", s.requireClient(s.handleListTransactions))
	mux.HandleFunc("POST /api/transacoes/{tipo}", s.requireClient(s.handleCreateTransaction))
	mux.HandleFunc("PUT /api/transacoes/{tipo}/{id}", s.requireClient(s.handleUpdateTransaction))
	mux.HandleFunc("DELETE /api/transacoes/{tipo}/{id}", s.requireClient(s.handleDeleteTransaction))
	mux.HandleFunc("POST /api/transacoes/{tipo}/{id}/status", s.requireClient(s.handleSetTransactionStatus))

	mux.HandleFunc("GET /api/metas", s.requireClient(s.handleListGoals))
	mux.HandleFunc("POST /api/metas", s.requireClient(s.handleCreateGoal))
	mux.HandleFunc("PUT /api/metas/{id}", s.requireClient(s.handleUpdateGoal))
	mux.HandleFunc("DELETE /api/metas/{id}", s.requireClient(s.handleDeleteGoal))

	mux.HandleFunc("GET /api/formas-pagamento", s.requireClient(s.handleListPaymentMethods))
	mux.HandleFunc("POST /api/formas-pagamento", s.requireClient(s.handleCreatePaymentMethod))
	mux.HandleFunc("PUT /api/formas-pagamento/{id}", s.requireClient(s.handleUpdatePaymentMethod))
	mux.HandleFunc("DELETE /api/formas-pagamento/{id}", s.requireClient(s.handleDeletePaymentMethod))

	mux.HandleFunc("GET /api/relatorios/resumo", s.requireClient(s.handleReportSummary))
	mux.HandleFunc("GET /api/relatorios/exportar.xlsx", s.requireClient(s.handleReportExport))

	// Wrapped inside out: trace ends up outermost, the rate limit innermost.
	var handler http.Handler = mux
	handler = s.rateLimiter.Middleware(detector.ExtractClientIP, s.onRateLimited)(handler)
	handler = detector.Middleware(cfg.BlockSuspicious)(handler)
	handler = s.securityHeaders.Middleware(handler)
	handler = log.RequestIDMiddleware(trace.RequestID)(handler)
	handler = log.Middleware(logger)(handler)
	handler = s.traceMiddleware.Middleware(handler)

	s.Server = http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	return s
}

func (s *Server) onRateLimited(w http.ResponseWriter, r *http.Request) {
	s.logger.WarnContext(r.Context(), "Rate limit exceeded",
		log.FieldClientIP, s.securityDetector.ExtractClientIP(r),
		log.FieldMethod, r.Method,
		log.FieldPath, r.URL.Path)
	ErrorResponse(http.StatusTooManyRequests, "Muitas requisições. Aguarde um minuto e tente novamente.").Write(w)
}

// Shutdown gracefully shuts down the server and its background routines.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.rateLimiter.Stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}
