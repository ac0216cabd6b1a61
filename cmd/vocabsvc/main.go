// Package main is the entrypoint for the vocab platform service.
// It serves the auth endpoints and the user-state storage gateway.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/vocablearn/vocab-platform/internal/server"
)

func main() {
	ctx := context.Background()
	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	return server.Run(ctx, server.Params{
		Name:         "vocabsvc",
		BuildHandler: buildHandler,
	}, nil)
}
