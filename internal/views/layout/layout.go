package layout

import (
	"context"
	"io"

	"github.com/a-h/templ"
)

const htmxScript = "https://unpkg.com/htmx.org@1.9.12"

// Layout wraps content in the full HTML document shared by every page.
func Layout(title string, content templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		head := `<!DOCTYPE html><html lang="en"><head>` +
			`<meta charset="utf-8"><meta name="viewport" content="width=device-width, initial-scale=1">` +
			`<title>` + templ.EscapeString(title) + `</title>` +
			`<link rel="stylesheet" href="/assets/style.css">` +
			`<script src="` + htmxScript + `" defer></script>` +
			`</head><body class="` + bodyClass + `"><main class="` + mainClass + `">`
		if _, err := io.WriteString(w, head); err != nil {
			return err
		}
		if content != nil {
			if err := content.Render(ctx, w); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, `</main></body></html>`)
		return err
	})
}

const (
	bodyClass = "recipe-body"
	mainClass = "recipe-main"
)
