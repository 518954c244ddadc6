// Command artsea scrapes London museum and gallery listings into one event catalog.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/artsea-london/artsea/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := cli.Execute(ctx)
	stop()
	os.Exit(code)
}
