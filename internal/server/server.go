package server

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"

	firebase "firebase.google.com/go/v4"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/promptdeck/promptdeck/internal/domain"
	"github.com/promptdeck/promptdeck/internal/repository"
	"github.com/promptdeck/promptdeck/internal/server/html"
	"github.com/promptdeck/promptdeck/internal/service"
)

//go:embed static
var staticFiles embed.FS

type server struct {
	logger *slog.Logger

	app        *firebase.App
	authClient *service.FirebaseAuthRestClient

	promptRepository domain.PromptRepository
	keyRepository    domain.ApiKeyRepository

	staticFilesFs fs.FS
}

func NewServer(ctx context.Context, logger *slog.Logger, app *firebase.App, authClient *service.FirebaseAuthRestClient, pool *pgxpool.Pool) (*server, error) {
	staticFilesFs, err := fs.Sub(staticFiles, "static")
	if err != nil {
		return nil, err
	}
	promptRepo := repository.NewPostgresPrompt(pool)
	keyRepo := repository.NewPostgresKey(pool)
	return &server{
		logger:           logger,
		app:              app,
		authClient:       authClient,
		promptRepository: promptRepo,
		keyRepository:    keyRepo,
		staticFilesFs:    staticFilesFs,
	}, nil
}
func (s *server) Server(port int) *http.Server {
	return &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: s.routes(),
	}
}
func errorQuery(errMsg string) string {
	if errMsg == "" {
		return ""
	}
	return fmt.Sprintf("error=%v", errMsg)
}
func (s *server) routes() *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(s.staticFilesFs))))
	r.Get("/up", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "up!")
	})
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/prompts", http.StatusSeeOther)
	})

	r.Post("/login", s.handleLogin)
	r.Post("/logout", s.handleLogout)
	r.Get("/login", func(w http.ResponseWriter, r *http.Request) {
		err := r.URL.Query().Get("error")
		html.LoginPage(w, html.LoginParams{Title: "Login", Error: err})
	})

	r.Route("/prompts", func(r chi.Router) {
		r.Use(s.firebaseJwtVerifier)
		r.Get("/", s.handleGetPrompts)
	})
	r.Route("/keys", func(r chi.Router) {
		r.Use(s.firebaseJwtVerifier)
		r.Get("/", s.handleGetKeys)
		r.Post("/{key-id}", s.handlePostKey)
	})

	// Session-cookie JSON endpoints used by the prompts page script.
	r.Route("/api/prompts", func(r chi.Router) {
		r.Use(s.apiJwtVerifier)
		r.Post("/", s.handleApiCreatePrompt)
		r.Put("/{prompt-id}", s.handleApiUpdatePrompt)
		r.Delete("/{prompt-id}", s.handleApiDeletePrompt)
	})

	// API-key endpoints for scripts and CLIs.
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(s.apiKeyVerifier)
		r.Get("/prompts", s.handleApiListPrompts)
	})
	return r
}
