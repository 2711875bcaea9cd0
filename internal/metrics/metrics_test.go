package metrics

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"recipeserver/internal/recipe"
)

func TestObserveNavigationLabelsOutcome(t *testing.T) {
	r := New()

	r.ObserveNavigation("next", nil)
	r.ObserveNavigation("next", nil)
	r.ObserveNavigation("random", recipe.ErrNotFound)
	r.ObserveNavigation("sideways", fmt.Errorf("%w: sideways", recipe.ErrInvalidDirection))
	r.ObserveNavigation("prev", &recipe.StoreError{Op: "fetch_prev_before", Err: errors.New("boom")})

	tests := []struct {
		direction string
		outcome   string
		want      float64
	}{
		{"next", "ok", 2},
		{"random", "not_found", 1},
		{"invalid", "invalid_direction", 1},
		{"prev", "error", 1},
	}
	for _, tt := range tests {
		got := testutil.ToFloat64(r.navigations.WithLabelValues(tt.direction, tt.outcome))
		if got != tt.want {
			t.Fatalf("navigation_total{%s,%s} = %v, want %v", tt.direction, tt.outcome, got, tt.want)
		}
	}
}

func TestHandlerExposesCollectors(t *testing.T) {
	r := New()
	r.SetRecipesStored(3)
	r.ObserveRequest("GET /api/recipe/random", http.StatusOK, 20*time.Millisecond)
	r.ObserveRequest("", http.StatusNotFound, time.Millisecond)

	rr := httptest.NewRecorder()
	r.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 from metrics handler, got %d", rr.Code)
	}

	body := rr.Body.String()
	for _, token := range []string{
		"recipeserver_recipes_stored 3",
		`recipeserver_http_requests_total{code="200",route="GET /api/recipe/random"} 1`,
		`recipeserver_http_requests_total{code="404",route="unmatched"} 1`,
		"recipeserver_http_request_duration_seconds_bucket",
	} {
		if !strings.Contains(body, token) {
			t.Fatalf("expected %q in metrics output:\n%s", token, body)
		}
	}
}
