package server

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"recipeserver/internal/handlers"
	"recipeserver/internal/recipe"
)

func TestNewRouterRegistersRoutes(t *testing.T) {
	store := recipe.NewGormStore(newMockDatabase(t))
	router := newRouter(routes{
		recipes:   handlers.NewRecipes(recipe.NewNavigator(store), store, nil),
		health:    handlers.Health(store),
		metrics:   http.NotFoundHandler(),
		staticDir: t.TempDir(),
	})

	tests := []struct {
		method  string
		target  string
		pattern string
	}{
		{http.MethodGet, "/healthz", "GET /healthz"},
		{http.MethodGet, "/", "GET /{$}"},
		{http.MethodPost, "/recipe", "POST /recipe"},
		{http.MethodGet, "/api/recipe/random", "GET /api/recipe/random"},
		{http.MethodGet, "/api/recipe/12", "GET /api/recipe/{id}"},
		{http.MethodGet, "/api/recipe/random/html", "GET /api/recipe/random/html"},
		{http.MethodGet, "/api/recipe/12/html", "GET /api/recipe/{id}/html"},
		{http.MethodGet, "/assets/style.css", "GET /assets/"},
	}
	for _, tt := range tests {
		_, pattern := router.Handler(httptest.NewRequest(tt.method, tt.target, nil))
		if pattern != tt.pattern {
			t.Fatalf("%s %s matched %q, want %q", tt.method, tt.target, pattern, tt.pattern)
		}
	}

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected /healthz to return 200, got %d", rr.Code)
	}
	if ct := rr.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("expected application/json content type, got %q", ct)
	}

	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/unknown", nil))
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected unknown path to return 404, got %d", rr.Code)
	}

	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodDelete, "/api/recipe/1", nil))
	if rr.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected DELETE to be rejected with 405, got %d", rr.Code)
	}
}

func TestNewRouterServesStaticAssets(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "style.css"), []byte("body{}"), 0o600); err != nil {
		t.Fatalf("write asset: %v", err)
	}
	store := recipe.NewGormStore(newMockDatabase(t))
	router := newRouter(routes{
		recipes:   handlers.NewRecipes(recipe.NewNavigator(store), store, nil),
		health:    handlers.Health(store),
		metrics:   http.NotFoundHandler(),
		staticDir: dir,
	})

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/assets/style.css", nil))
	if rr.Code != http.StatusOK || rr.Body.String() != "body{}" {
		t.Fatalf("unexpected asset response %d %q", rr.Code, rr.Body.String())
	}
}
