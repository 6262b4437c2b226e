package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/insetavijit/theme-env2.0/internal/config"
	"github.com/insetavijit/theme-env2.0/internal/sage"
)

const defaultConfigPath = "setup.yaml"

func main() {
	// Anything other than the sagesetup selector is an informational no-op.
	if len(os.Args) != 2 || os.Args[1] != "sagesetup" {
		fmt.Fprintln(os.Stderr, "usage: sagesetup sagesetup")
		fmt.Fprintln(os.Stderr, "\nClones the Sage starter theme into the themes root and installs its dependencies.")
		return
	}

	configPath := defaultConfigPath
	if p := os.Getenv("THEMECTL_CONFIG"); p != "" {
		configPath = p
	}

	cfg, err := config.LoadSetupConfig(configPath)
	if err != nil {
		slog.Error("loading config", "path", configPath, "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	defer func() {
		signal.Stop(sigChan)
		cancel()
	}()

	go func() {
		sig := <-sigChan
		slog.Info("interrupt received, shutting down gracefully...", "signal", sig)
		cancel()
	}()

	if err := sage.New(cfg).Run(ctx); err != nil {
		slog.Error("sage setup failed", "error", err)
		os.Exit(1)
	}

	fmt.Println("sage theme ready")
}
