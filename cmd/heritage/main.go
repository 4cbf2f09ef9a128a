// Command heritage queries cultural heritage metadata together with the
// records of its digitisation.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/custodia-labs/heritage/internal/adapters/driving/cli"
	"github.com/custodia-labs/heritage/internal/logger"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	cli.SetVersion(version)
	err := cli.Execute(ctx)
	if cerr := cli.Close(); cerr != nil {
		logger.Warn("Closing handlers: %v", cerr)
	}
	stop()

	if err != nil {
		os.Exit(1)
	}
}
