// Package recipe resolves which stored recipe to show for a navigation request
// and loads the bootstrap fixture into an empty store.
package recipe

import (
	"fmt"
	"strings"
)

// Recipe is a fully hydrated recipe as served to callers.
type Recipe struct {
	ID          int64    `json:"id"`
	Title       string   `json:"title"`
	Ingredients []string `json:"ingredients"`
}

// Direction is the navigation intent of a request.
type Direction string

const (
	DirectionRandom Direction = "random"
	DirectionNext   Direction = "next"
	DirectionPrev   Direction = "prev"
)

// ParseDirection accepts exactly "random", "next" or "prev".
func ParseDirection(value string) (Direction, error) {
	switch d := Direction(value); d {
	case DirectionRandom, DirectionNext, DirectionPrev:
		return d, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidDirection, value)
	}
}

// Request asks the Navigator for one recipe. A zero CurrentID means the caller
// has no current position.
type Request struct {
	Direction Direction
	CurrentID int64
}

func (r Request) hasPosition() bool {
	return r.CurrentID != 0
}

func cleanIngredients(values []string) []string {
	out := make([]string, 0, len(values))
	for _, value := range values {
		if trimmed := strings.TrimSpace(value); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
