package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"delivery-eta-api/cli"
	"delivery-eta-api/features"
	"delivery-eta-api/schema"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cli.NewRootCommand().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(exitCode(err))
	}
}

// exitCode separates bad input (2) from broken artifacts (3).
func exitCode(err error) int {
	var (
		cfgErr  *schema.ConfigurationError
		missing *features.MissingFieldError
		domain  *features.NumericDomainError
	)
	switch {
	case errors.As(err, &cfgErr):
		return 3
	case errors.As(err, &missing), errors.As(err, &domain):
		return 2
	default:
		return 1
	}
}
