// @title        IMS Console API
// @version      1.0
// @description  Local console server driving the inventory management screens.
// @BasePath     /
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/99minutos/ims-console/internal/cli"
	"github.com/99minutos/ims-console/internal/core/domain"
)

func main() {
	// A missing .env is fine; the environment is used as is.
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cli.NewRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, domain.MessageOf(err, err.Error()))
		stop()
		os.Exit(1)
	}
}
