package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/GlebRadaev/ordermart/internal/app"
	"go.uber.org/zap"
)

//	@title			Ordermart API
//	@version		1.0
//	@description	Order management API Server

// @host		localhost:8080
// @BasePath	/

// @securityDefinitions.apikey	BearerAuth
// @in							header
// @name						Authorization
func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "ordermart: %v\n", err)
		zap.L().Error("ordermart stopped", zap.Error(err))
		_ = zap.L().Sync()
		os.Exit(1)
	}
	zap.L().Info("ordermart stopped")
	_ = zap.L().Sync()
}

// run blocks until SIGINT or SIGTERM, or until a component fails.
func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	application := app.New()
	if err := application.Start(ctx); err != nil {
		return err
	}
	return application.Wait(ctx, stop)
}
