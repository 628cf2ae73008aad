package main

import (
	"context"
	"fmt"
	"github.com/flowglad/pr-relay/internal/bootstrap"

	"os"
	"os/signal"
	"syscall"
	"time"
)

func main() {
	// create context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// load config; missing discord secrets end the process here
	app, err := bootstrap.New()
	if err != nil {
		fmt.Printf("failed to initialize application: %v\n", err)
		os.Exit(1)
	}

	setupGracefulShutdown(ctx, cancel, app)

	// start http server and log into discord
	if err = app.Init(ctx); err != nil {
		app.Logger.Error("failed to start", "error", err)
		shutdown(app)
		os.Exit(1)
	}

	app.Logger.Info("pr relay started",
		"version", "0.1.0",
		"environment", app.Config.Environment,
		"port", app.Config.ServerPort,
		"log_level", app.Config.LogLevel)

	// wait for shutdown signal
	<-ctx.Done()
	app.Logger.Info("received shutdown signal, initiating graceful shutdown")

	if err = shutdown(app); err != nil {
		os.Exit(1)
	}

	app.Logger.Info("service stopped gracefully")
}

func shutdown(app *bootstrap.Application) error {
	// graceful shutdown with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := app.Shutdown(shutdownCtx); err != nil {
		app.Logger.Error("application shutdown failed", "error", err)
		return err
	}
	return nil
}

// setupGracefulShutdown configures signal handling for clean shutdown
func setupGracefulShutdown(ctx context.Context, cancel context.CancelFunc, app *bootstrap.Application) {
	// channel for receiving os signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		select {
		case sig := <-sigChan:
			app.Logger.Info("received shutdown signal", "signal", sig.String())
			// cancel main context to initiate shutdown
			cancel()
		case <-ctx.Done():
			// context already cancelled
		}
	}()
}
