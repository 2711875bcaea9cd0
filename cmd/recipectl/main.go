package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"recipeserver/internal/recipe"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "recipectl: %v\n", err)
		if errors.Is(err, recipe.ErrNotFound) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}
