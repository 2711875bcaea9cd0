package server

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/alexedwards/scs/v2"
	"gorm.io/gorm"

	"recipeserver/internal/handlers"
	applog "recipeserver/internal/log"
	"recipeserver/internal/metrics"
	"recipeserver/internal/recipe"
)

const (
	defaultReadHeaderTimeout = 5 * time.Second
	defaultShutdownTimeout   = 5 * time.Second
)

// Config captures the runtime configuration for the HTTP server.
type Config struct {
	Addr              string
	ReadHeaderTimeout time.Duration
	ShutdownTimeout   time.Duration
	Session           SessionConfig
	AllowedOrigins    []string
	StaticDir         string
	Database          *gorm.DB
	Metrics           *metrics.Registry
}

// SessionConfig controls session behavior for the HTTP server.
type SessionConfig struct {
	Lifetime     time.Duration
	CookieName   string
	CookieDomain string
	CookieSecure bool
}

// Server wraps an http.Server and exposes helpers for bootstrapping a
// production-ready web service.
type Server struct {
	config     Config
	httpServer *http.Server
}

// New builds a new Server using the provided configuration. The database must
// already be migrated.
func New(cfg Config) (*Server, error) {
	if cfg.Database == nil {
		return nil, errors.New("server: database handle is required")
	}

	applog.Debug(context.Background(), "initializing server",
		"addr", cfg.Addr,
		"sessionLifetime", cfg.Session.Lifetime.String(),
		"sessionCookie", cfg.Session.CookieName,
	)

	if cfg.ReadHeaderTimeout <= 0 {
		cfg.ReadHeaderTimeout = defaultReadHeaderTimeout
	}
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = defaultShutdownTimeout
	}
	if strings.TrimSpace(cfg.StaticDir) == "" {
		cfg.StaticDir = "web/static"
	}
	if cfg.Metrics == nil {
		cfg.Metrics = metrics.New()
	}

	sessionManager := newSessionManager(cfg.Session)

	store := recipe.NewGormStore(cfg.Database)
	navigator := recipe.NewNavigator(store, recipe.WithObserver(cfg.Metrics))

	if recipes, _, err := store.Count(context.Background()); err != nil {
		applog.Warn(context.Background(), "unable to count stored recipes", "error", err)
	} else {
		cfg.Metrics.SetRecipesStored(recipes)
		applog.Info(context.Background(), "recipe store ready", "recipes", recipes)
	}

	mux := newRouter(routes{
		recipes:   handlers.NewRecipes(navigator, store, sessionManager),
		health:    handlers.Health(store),
		metrics:   cfg.Metrics.Handler(),
		staticDir: cfg.StaticDir,
	})

	var handler http.Handler = sessionManager.LoadAndSave(mux)
	handler = instrument(cfg.Metrics, mux, handler)
	handler = cors(cfg.AllowedOrigins, handler)
	handler = requestLogger(handler)

	applog.Debug(context.Background(), "http handler chain prepared")

	return &Server{
		config: cfg,
		httpServer: &http.Server{
			Addr:              cfg.Addr,
			Handler:           handler,
			ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		},
	}, nil
}

func newSessionManager(cfg SessionConfig) *scs.SessionManager {
	if cfg.Lifetime <= 0 {
		applog.Debug(context.Background(), "session lifetime not provided, using default")
		cfg.Lifetime = 12 * time.Hour
	}
	if strings.TrimSpace(cfg.CookieName) == "" {
		applog.Debug(context.Background(), "session cookie name not provided, using default")
		cfg.CookieName = "recipe_session"
	}

	sessionManager := scs.New()
	sessionManager.Lifetime = cfg.Lifetime
	sessionManager.Cookie.Name = cfg.CookieName
	sessionManager.Cookie.Domain = cfg.CookieDomain
	sessionManager.Cookie.HttpOnly = true
	sessionManager.Cookie.Persist = true
	sessionManager.Cookie.SameSite = http.SameSiteLaxMode
	sessionManager.Cookie.Secure = cfg.CookieSecure

	applog.Debug(context.Background(), "session manager configured",
		"cookieName", cfg.CookieName,
		"cookieDomain", cfg.CookieDomain,
		"cookieSecure", cfg.CookieSecure,
	)
	return sessionManager
}

// Start begins serving HTTP traffic using the underlying http.Server.
func (s *Server) Start() error {
	applog.Info(context.Background(), "server listening", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Stop gracefully shuts down the HTTP server, waiting at most the configured
// shutdown timeout for in-flight requests.
func (s *Server) Stop() error {
	ctx, cancel := context.WithTimeout(context.Background(), s.config.ShutdownTimeout)
	defer cancel()
	applog.Debug(ctx, "server initiating graceful shutdown")
	return s.httpServer.Shutdown(ctx)
}

// Handler exposes the configured HTTP handler, enabling integration tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}
