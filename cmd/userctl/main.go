package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/aussiebroadwan/userdir/internal/userctl"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := userctl.Run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}
