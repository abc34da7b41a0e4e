// Package http serves the ledger API: session management, transaction and
// member mutations, the derived summary, and the exportable report.
package http

import (
	"context"
	"net/http"
	"time"

	"kassa/internal/middleware/ratelimit"
	"kassa/internal/middleware/security"
	"kassa/internal/middleware/trace"
	"kassa/internal/report"
	"kassa/internal/services"
	"kassa/internal/session"
	"kassa/internal/store"
)

// signInRequestsPerMinute bounds credential-guessing attempts per client IP.
const signInRequestsPerMinute = 10

type Server struct {
	*http.Server

	ledger    *services.LedgerService
	store     store.Store
	sessions  *session.Manager
	formatter *report.Formatter
	limiter   *ratelimit.Limiter

	now func() time.Time
}

func NewServer(addr string, ledger *services.LedgerService, st store.Store,
	sessions *session.Manager, formatter *report.Formatter) *Server {

	s := &Server{
		ledger:    ledger,
		store:     st,
		sessions:  sessions,
		formatter: formatter,
		limiter: ratelimit.NewLimiter(ratelimit.Config{
			RequestsPerMinute: signInRequestsPerMinute,
		}),
		now: time.Now,
	}

	ips := security.NewIPResolver()
	signInLimit := s.limiter.Middleware(ips.ExtractClientIP, nil)

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", handleHealth)
	mux.Handle("/api/session", signInLimit(http.HandlerFunc(s.handleSession)))
	mux.HandleFunc("/api/transactions", s.requireSession(s.handleTransactions))
	mux.HandleFunc("/api/transactions/", s.requireSession(s.handleTransactionByID))
	mux.HandleFunc("/api/members", s.requireSession(s.handleMembers))
	mux.HandleFunc("/api/members/", s.requireSession(s.handleMemberByID))
	mux.HandleFunc("/api/summary", s.requireSession(s.handleSummary))
	mux.HandleFunc("/api/report", s.requireSession(s.handleReport))

	headers := security.NewHeadersMiddleware(security.DefaultHeadersConfig())
	tracer := trace.NewMiddleware(ips.ExtractClientIP)
	handler := headers.Middleware(tracer.Middleware(mux))

	s.Server = &http.Server{
		Addr:    addr,
		Handler: handler,
	}
	return s
}

// Shutdown stops the listener and the rate limiter's bookkeeping.
func (s *Server) Shutdown(ctx context.Context) error {
	defer s.limiter.Stop()
	return s.Server.Shutdown(ctx)
}

type contextKey string

const identityKey contextKey = "identity"

// identity returns the signed-in email for the request, empty when absent.
func identity(r *http.Request) string {
	v, _ := r.Context().Value(identityKey).(string)
	return v
}

// requireSession resolves the bearer token and stores the identity on the
// request context. Missing or expired tokens get 401.
func (s *Server) requireSession(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			writeError(w, http.StatusUnauthorized, "missing bearer token")
			return
		}
		sess, ok := s.sessions.Lookup(token)
		if !ok {
			writeError(w, http.StatusUnauthorized, "invalid or expired session")
			return
		}
		ctx := context.WithValue(r.Context(), identityKey, sess.Email)
		next(w, r.WithContext(ctx))
	}
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}
