package ui

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ytget/yt-music/internal/config"
	"github.com/ytget/yt-music/internal/session"
)

// Server is the HTTP server of one application
type Server struct {
	httpServer      *http.Server
	logger          *slog.Logger
	shutdownTimeout time.Duration
}

// NewServer wraps handler in an http.Server configured from settings
func NewServer(addr string, handler http.Handler, settings *config.Settings, logger *slog.Logger) *Server {
	return &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      handler,
			ReadTimeout:  settings.HTTPReadTimeout,
			WriteTimeout: settings.HTTPWriteTimeout,
			IdleTimeout:  settings.HTTPIdleTimeout,
		},
		logger:          logger,
		shutdownTimeout: settings.ShutdownTimeout,
	}
}

// Run serves until ctx is cancelled, then shuts down gracefully
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		s.logger.Info("http server started", slog.String("addr", s.httpServer.Addr))

		err := s.httpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("shutdown requested")
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}

	s.logger.Info("http server stopped")
	return nil
}

// newRouter builds the router shared by both applications: recovery,
// metrics, request logging, language and session middleware, static files,
// health, metrics and language switching.
func newRouter(logger *slog.Logger, loc *Localization, sessions *session.Store) chi.Router {
	router := chi.NewRouter()

	router.Use(chimw.Recoverer)
	router.Use(MetricsMiddleware())
	router.Use(RequestLogger(logger))
	router.Use(LanguageMiddleware(loc))

	router.Get("/health", handleHealth)
	router.Handle("/metrics", promhttp.Handler())
	router.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(staticFileSystem())))

	router.Group(func(r chi.Router) {
		r.Use(sessions.Middleware())
		r.Post("/language", handleSetLanguage(loc))
	})

	return router
}

// handleHealth reports liveness and the build version
func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"status":  "ok",
		"version": config.Version,
	})
}

// handleSetLanguage stores the chosen language in a cookie and redirects back
func handleSetLanguage(loc *Localization) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		lang := r.FormValue(FieldLanguage)
		if !loc.HasLanguage(lang) {
			lang = DefaultLanguage
		}

		http.SetCookie(w, &http.Cookie{
			Name:     LangCookieName,
			Value:    lang,
			Path:     "/",
			MaxAge:   int(LangCookieMaxAge.Seconds()),
			SameSite: http.SameSiteLaxMode,
		})
		redirectHome(w, r)
	}
}

// redirectHome finishes a form post with a redirect to the page (post/redirect/get)
func redirectHome(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
