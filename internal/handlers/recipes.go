package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/a-h/templ"
	"github.com/alexedwards/scs/v2"

	applog "recipeserver/internal/log"
	"recipeserver/internal/recipe"
	"recipeserver/internal/views/pages"
)

const sessionCurrentRecipeKey = "recipe:current:id"

// Navigator resolves a direction and optional current id to one recipe.
type Navigator interface {
	GetRecipe(ctx context.Context, direction string, currentID int64) (recipe.Recipe, error)
}

// RecipeFinder loads a recipe by id.
type RecipeFinder interface {
	FetchByID(ctx context.Context, id int64) (recipe.Recipe, error)
}

// Recipes serves the recipe pages and the JSON API. It is built once at
// startup and shared by every request.
type Recipes struct {
	navigator Navigator
	finder    RecipeFinder
	sessions  *scs.SessionManager
}

// NewRecipes wires the recipe handlers. sessions may be nil, in which case the
// last viewed recipe is not remembered between form submissions.
func NewRecipes(navigator Navigator, finder RecipeFinder, sessions *scs.SessionManager) *Recipes {
	return &Recipes{navigator: navigator, finder: finder, sessions: sessions}
}

// Index renders the landing page with a random recipe.
func (h *Recipes) Index(w http.ResponseWriter, r *http.Request) {
	found, err := h.navigator.GetRecipe(r.Context(), string(recipe.DirectionRandom), 0)
	if err != nil {
		writeHTMLError(w, r, err)
		return
	}
	h.renderHTML(w, r, found, !wantsFragment(r))
}

// Navigate handles the navigation form. It reads direction and current_id
// from the submitted form and falls back to the session's last recipe id.
func (h *Recipes) Navigate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		applog.Debug(r.Context(), "failed to parse navigation form", "error", err)
		http.Error(w, "invalid form submission", http.StatusBadRequest)
		return
	}

	direction := strings.TrimSpace(r.PostFormValue("direction"))
	currentID, err := parseOptionalID(r.PostFormValue("current_id"))
	if err != nil {
		applog.Debug(r.Context(), "invalid current_id in navigation form", "value", r.PostFormValue("current_id"))
		http.Error(w, "invalid current_id", http.StatusBadRequest)
		return
	}
	if currentID == 0 && h.sessions != nil {
		currentID = int64(h.sessions.GetInt(r.Context(), sessionCurrentRecipeKey))
	}

	applog.Debug(r.Context(), "navigation requested", "direction", direction, "current_id", currentID, "fragment", wantsFragment(r))

	found, err := h.navigator.GetRecipe(r.Context(), direction, currentID)
	if err != nil {
		writeHTMLError(w, r, err)
		return
	}
	h.renderHTML(w, r, found, !wantsFragment(r))
}

// RandomJSON serves a random recipe as JSON.
func (h *Recipes) RandomJSON(w http.ResponseWriter, r *http.Request) {
	h.navigateJSON(w, r, recipe.DirectionRandom)
}

// NextJSON serves the recipe after ?id= as JSON.
func (h *Recipes) NextJSON(w http.ResponseWriter, r *http.Request) {
	h.navigateJSON(w, r, recipe.DirectionNext)
}

// PrevJSON serves the recipe before ?id= as JSON.
func (h *Recipes) PrevJSON(w http.ResponseWriter, r *http.Request) {
	h.navigateJSON(w, r, recipe.DirectionPrev)
}

// ByIDJSON serves /api/recipe/{id} as JSON.
func (h *Recipes) ByIDJSON(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	found, err := h.finder.FetchByID(r.Context(), id)
	if err != nil {
		writeJSONFailure(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, found)
}

// RandomHTML serves a random recipe card fragment.
func (h *Recipes) RandomHTML(w http.ResponseWriter, r *http.Request) {
	found, err := h.navigator.GetRecipe(r.Context(), string(recipe.DirectionRandom), 0)
	if err != nil {
		writeHTMLError(w, r, err)
		return
	}
	h.renderHTML(w, r, found, false)
}

// ByIDHTML serves the recipe card fragment for /api/recipe/{id}/html.
func (h *Recipes) ByIDHTML(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		http.Error(w, "invalid recipe id", http.StatusBadRequest)
		return
	}
	found, err := h.finder.FetchByID(r.Context(), id)
	if err != nil {
		writeHTMLError(w, r, err)
		return
	}
	h.renderHTML(w, r, found, false)
}

func (h *Recipes) navigateJSON(w http.ResponseWriter, r *http.Request, direction recipe.Direction) {
	query := r.URL.Query()
	raw := query.Get("id")
	if raw == "" {
		raw = query.Get("current_id")
	}
	currentID, err := parseOptionalID(raw)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "id must be an integer")
		return
	}

	found, err := h.navigator.GetRecipe(r.Context(), string(direction), currentID)
	if err != nil {
		writeJSONFailure(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, found)
}

func (h *Recipes) renderHTML(w http.ResponseWriter, r *http.Request, found recipe.Recipe, fullPage bool) {
	if h.sessions != nil {
		h.sessions.Put(r.Context(), sessionCurrentRecipeKey, int(found.ID))
	}

	var component templ.Component
	if fullPage {
		component = pages.RecipePage(found)
	} else {
		component = pages.RecipeCard(found)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := component.Render(r.Context(), w); err != nil {
		applog.Error(r.Context(), "failed to render recipe", "error", err, "id", found.ID)
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// wantsFragment reports whether an htmx swap issued the request. Boosted
// navigation replaces the whole body and still gets the full page.
func wantsFragment(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true" && r.Header.Get("HX-Boosted") != "true"
}

func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		applog.Debug(r.Context(), "invalid recipe identifier", "identifier", r.PathValue("id"))
		writeJSONError(w, http.StatusBadRequest, "recipe id must be a positive integer")
		return 0, false
	}
	return id, true
}

func parseOptionalID(value string) (int64, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, nil
	}
	return strconv.ParseInt(value, 10, 64)
}

// statusFor maps core errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, recipe.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, recipe.ErrInvalidDirection):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func logFailure(r *http.Request, status int, err error) {
	if status >= http.StatusInternalServerError {
		applog.Error(r.Context(), "recipe request failed", "error", err, "path", r.URL.Path)
		return
	}
	applog.Debug(r.Context(), "recipe request rejected", "error", err, "status", status, "path", r.URL.Path)
}

func writeJSONFailure(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	logFailure(r, status, err)
	switch status {
	case http.StatusNotFound:
		writeJSONError(w, status, "recipe not found")
	case http.StatusBadRequest:
		writeJSONError(w, status, err.Error())
	default:
		writeJSONError(w, status, "unable to load recipe")
	}
}

func writeHTMLError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	logFailure(r, status, err)
	switch status {
	case http.StatusNotFound:
		http.Error(w, "recipe not found", status)
	case http.StatusBadRequest:
		http.Error(w, err.Error(), status)
	default:
		http.Error(w, "unable to load recipe", status)
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		applog.Error(context.Background(), "failed to encode json response", "error", err)
	}
}

func writeJSONError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
