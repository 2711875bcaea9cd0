package server

import (
	"context"
	"net/http"

	"recipeserver/internal/handlers"
	applog "recipeserver/internal/log"
)

type routes struct {
	recipes   *handlers.Recipes
	health    http.Handler
	metrics   http.Handler
	staticDir string
}

func newRouter(rt routes) *http.ServeMux {
	mux := http.NewServeMux()
	applog.Debug(context.Background(), "registering http routes")

	handle := func(pattern string, h http.Handler) {
		mux.Handle(pattern, h)
		applog.Debug(context.Background(), "route registered", "pattern", pattern)
	}

	handle("GET /healthz", rt.health)
	handle("GET /metrics", rt.metrics)
	handle("GET /api-docs/openapi.json", http.HandlerFunc(handlers.OpenAPI))

	handle("GET /{$}", http.HandlerFunc(rt.recipes.Index))
	handle("POST /recipe", http.HandlerFunc(rt.recipes.Navigate))

	handle("GET /api/recipe/random", http.HandlerFunc(rt.recipes.RandomJSON))
	handle("GET /api/recipe/next", http.HandlerFunc(rt.recipes.NextJSON))
	handle("GET /api/recipe/prev", http.HandlerFunc(rt.recipes.PrevJSON))
	handle("GET /api/recipe/{id}", http.HandlerFunc(rt.recipes.ByIDJSON))
	handle("GET /api/recipe/random/html", http.HandlerFunc(rt.recipes.RandomHTML))
	handle("GET /api/recipe/{id}/html", http.HandlerFunc(rt.recipes.ByIDHTML))

	handle("GET /assets/", http.StripPrefix("/assets/", http.FileServer(http.Dir(rt.staticDir))))
	return mux
}
