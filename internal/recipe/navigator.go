package recipe

import (
	"context"
	"fmt"

	applog "recipeserver/internal/log"
)

// Observer is notified once per resolved navigation request.
type Observer interface {
	ObserveNavigation(direction string, err error)
}

// Navigator resolves a navigation request to exactly one stored recipe.
// It holds no mutable state and is safe for concurrent use.
type Navigator struct {
	store    Store
	observer Observer
}

// NavigatorOption customises a Navigator.
type NavigatorOption func(*Navigator)

// WithObserver reports every resolution outcome to o.
func WithObserver(o Observer) NavigatorOption {
	return func(n *Navigator) {
		n.observer = o
	}
}

// NewNavigator builds a Navigator backed by store.
func NewNavigator(store Store, opts ...NavigatorOption) *Navigator {
	n := &Navigator{store: store}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// GetRecipe parses the raw direction and resolves it against currentID.
func (n *Navigator) GetRecipe(ctx context.Context, direction string, currentID int64) (Recipe, error) {
	d, err := ParseDirection(direction)
	if err != nil {
		n.observe(direction, err)
		return Recipe{}, err
	}
	return n.Resolve(ctx, Request{Direction: d, CurrentID: currentID})
}

// Resolve returns the recipe selected by req. next and prev without a current
// position behave like random so that a first page load never fails.
func (n *Navigator) Resolve(ctx context.Context, req Request) (Recipe, error) {
	found, err := n.resolve(ctx, req)
	n.observe(string(req.Direction), err)
	if err != nil {
		applog.Debug(ctx, "navigation failed", "direction", req.Direction, "current_id", req.CurrentID, "error", err)
		return Recipe{}, err
	}
	applog.Debug(ctx, "navigation resolved", "direction", req.Direction, "current_id", req.CurrentID, "recipe_id", found.ID)
	return found, nil
}

func (n *Navigator) resolve(ctx context.Context, req Request) (Recipe, error) {
	switch req.Direction {
	case DirectionRandom:
		return n.store.FetchRandom(ctx)
	case DirectionNext:
		if !req.hasPosition() {
			return n.store.FetchRandom(ctx)
		}
		return n.store.FetchNextAfter(ctx, req.CurrentID)
	case DirectionPrev:
		if !req.hasPosition() {
			return n.store.FetchRandom(ctx)
		}
		return n.store.FetchPrevBefore(ctx, req.CurrentID)
	default:
		return Recipe{}, fmt.Errorf("%w: %q", ErrInvalidDirection, req.Direction)
	}
}

func (n *Navigator) observe(direction string, err error) {
	if n.observer != nil {
		n.observer.ObserveNavigation(direction, err)
	}
}
