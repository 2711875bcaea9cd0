package layout

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/a-h/templ"
)

func TestLayoutRendersProvidedContent(t *testing.T) {
	content := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := w.Write([]byte("<article>content</article>"))
		return err
	})

	var buf bytes.Buffer
	if err := Layout("Recipes", content).Render(context.Background(), &buf); err != nil {
		t.Fatalf("render layout: %v", err)
	}
	out := buf.String()
	if !strings.HasPrefix(out, "<!DOCTYPE html>") {
		t.Fatalf("expected doctype prefix: %s", out)
	}
	if !strings.Contains(out, "<title>Recipes</title>") {
		t.Fatalf("expected document title to be rendered: %s", out)
	}
	if !strings.Contains(out, "<article>content</article>") {
		t.Fatalf("expected content in output: %s", out)
	}
	if !strings.HasSuffix(out, "</html>") {
		t.Fatalf("expected closing html tag: %s", out)
	}
}

func TestLayoutEscapesTitle(t *testing.T) {
	var buf bytes.Buffer
	if err := Layout("<script>x</script>", nil).Render(context.Background(), &buf); err != nil {
		t.Fatalf("render layout: %v", err)
	}
	if strings.Contains(buf.String(), "<title><script>") {
		t.Fatalf("expected title to be escaped: %s", buf.String())
	}
}
