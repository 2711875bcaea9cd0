package pages

import (
	"context"
	"io"
	"strconv"
	"strings"

	"github.com/a-h/templ"

	"recipeserver/internal/recipe"
	"recipeserver/internal/views/layout"
)

// RecipePage renders a full document showing r with navigation controls.
func RecipePage(r recipe.Recipe) templ.Component {
	return layout.Layout(PageTitle(r), RecipeCard(r))
}

// RecipeCard renders only the recipe card. HTMX navigation swaps this fragment in place.
func RecipeCard(r recipe.Recipe) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		id := strconv.FormatInt(r.ID, 10)

		b.WriteString(`<article id="recipe-card" class="recipe-card" data-recipe-id="` + id + `">`)
		b.WriteString(`<h1 class="recipe-title">` + templ.EscapeString(DefaultDash(r.Title)) + `</h1>`)
		b.WriteString(`<p class="recipe-meta">` + IngredientCountLabel(len(r.Ingredients)) + `</p>`)

		if len(r.Ingredients) == 0 {
			b.WriteString(`<p class="recipe-empty">No ingredients listed.</p>`)
		} else {
			b.WriteString(`<ul class="recipe-ingredients">`)
			for _, ingredient := range r.Ingredients {
				b.WriteString(`<li>` + templ.EscapeString(ingredient) + `</li>`)
			}
			b.WriteString(`</ul>`)
		}

		b.WriteString(`<form class="recipe-nav" method="post" action="/recipe" hx-post="/recipe" hx-target="#recipe-card" hx-swap="outerHTML">`)
		b.WriteString(`<input type="hidden" name="current_id" value="` + id + `">`)
		for _, d := range navButtons {
			b.WriteString(`<button type="submit" name="direction" value="` + string(d.direction) + `">` + d.label + `</button>`)
		}
		b.WriteString(`</form></article>`)

		_, err := io.WriteString(w, b.String())
		return err
	})
}

var navButtons = []struct {
	direction recipe.Direction
	label     string
}{
	{recipe.DirectionPrev, "Previous"},
	{recipe.DirectionRandom, "Random"},
	{recipe.DirectionNext, "Next"},
}
