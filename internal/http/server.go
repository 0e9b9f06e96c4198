// Package http provides the JSON API and the embedded dashboard.
package http

import (
	"context"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"sync"

	"fintrack/internal/auth"
	"fintrack/internal/core"
	"fintrack/internal/middleware/security"
	"fintrack/internal/middleware/trace"
	appweb "fintrack/web"
)

// UserStore is the slice of the storage layer the auth handlers need.
type UserStore interface {
	CreateUser(ctx context.Context, name, email, passwordHash string) (*core.User, error)
	GetUserByEmail(ctx context.Context, email string) (*core.User, error)
	GetUserByID(ctx context.Context, id int64) (*core.User, error)
}

// ExpenseStore is the owner-scoped expense CRUD surface.
type ExpenseStore interface {
	Create(ctx context.Context, e core.Expense) (core.Expense, error)
	List(ctx context.Context, userID int64) ([]core.Expense, error)
	Update(ctx context.Context, e core.Expense) (core.Expense, error)
	Delete(ctx context.Context, userID, id int64) error
}

// Pinger reports backing-store health for the readiness probe.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Server wires routes, middleware and the embedded dashboard around
// the stores.
type Server struct {
	http.Server
	users     UserStore
	expenses  ExpenseStore
	tokens    *auth.TokenManager
	pinger    Pinger
	templates *template.Template

	shutdownOnce sync.Once
}

// NewServer configures routes and templates, returning a ready-to-run
// server. pinger may be nil, in which case /readyz always succeeds.
func NewServer(addr string, users UserStore, expenses ExpenseStore, tokens *auth.TokenManager, pinger Pinger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		users:    users,
		expenses: expenses,
		tokens:   tokens,
		pinger:   pinger,
	}

	t, err := template.ParseFS(appweb.TemplatesFS, "templates/*.html")
	if err != nil {
		slog.Warn("Failed parsing templates", "error", err)
	}
	s.templates = t

	if sub, err := fs.Sub(appweb.StaticFS, "static"); err == nil {
		static := http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
		mux.Handle("GET /static/", security.StaticAssetMiddleware(3600)(static))
	} else {
		slog.Warn("Failed to mount embedded static FS", "error", err)
	}

	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)

	mux.HandleFunc("POST /auth/register", s.handleRegister)
	mux.HandleFunc("POST /auth/login", s.handleLogin)

	mux.HandleFunc("GET /me", s.requireAuth(s.handleMe))
	mux.HandleFunc("GET /expenses", s.requireAuth(s.handleListExpenses))
	mux.HandleFunc("POST /expenses", s.requireAuth(s.handleCreateExpense))
	mux.HandleFunc("GET /expenses/summary", s.requireAuth(s.handleExpenseSummary))
	mux.HandleFunc("PUT /expenses/{id}", s.requireAuth(s.handleUpdateExpense))
	mux.HandleFunc("DELETE /expenses/{id}", s.requireAuth(s.handleDeleteExpense))

	handler := trace.Middleware(security.Middleware(security.DefaultHeadersConfig())(mux))
	s.Server = http.Server{Addr: addr, Handler: handler}

	return s
}

// Shutdown gracefully stops the server; safe to call more than once.
func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	s.shutdownOnce.Do(func() {
		err = s.Server.Shutdown(ctx)
	})
	return err
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.pinger != nil {
		if err := s.pinger.Ping(r.Context()); err != nil {
			slog.ErrorContext(r.Context(), "Readiness check failed", "error", err)
			http.Error(w, "database unavailable", http.StatusServiceUnavailable)
			return
		}
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if s.templates == nil {
		slog.ErrorContext(r.Context(), "Templates not loaded", "path", r.URL.Path)
		http.Error(w, "templates not loaded", http.StatusInternalServerError)
		return
	}
	if err := s.templates.ExecuteTemplate(w, "index.html", nil); err != nil {
		slog.ErrorContext(r.Context(), "Index template execution failed", "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
