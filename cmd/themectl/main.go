package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/insetavijit/theme-env2.0/internal/config"
	"github.com/insetavijit/theme-env2.0/internal/pipeline"
)

const defaultConfigPath = "setup.yaml"

func usage() {
	fmt.Fprintf(os.Stderr, "usage: themectl <task>\n\ntasks: %s\n", strings.Join(pipeline.TaskNames, ", "))
}

func main() {
	if len(os.Args) != 2 {
		usage()
		os.Exit(1)
	}

	selector := os.Args[1]
	if !pipeline.IsTask(selector) {
		usage()
		os.Exit(1)
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

	setLogLevel(cfg.LogLevel)

	if _, err := config.ApplyUpstreamManifest(os.DirFS("."), &cfg); err != nil {
		slog.Error("loading upstream manifest", "error", err)
		os.Exit(1)
	}

	p, err := pipeline.New(cfg)
	if err != nil {
		slog.Error("building pipeline", "error", err)
		os.Exit(1)
	}

	// Setup context with manual signal handling
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

	result, err := p.Run(ctx, selector)
	if err != nil {
		slog.Error("task failed", "task", selector, "error", err)
		os.Exit(1)
	}

	// Print summary
	fmt.Printf("\nTask: %s\n", result.Selector)
	for _, s := range result.Steps {
		line := fmt.Sprintf("  %-8s %s (%.2fs)", s.Task, s.State, s.DurationSec)
		if s.Warning != "" {
			line += fmt.Sprintf(" [warning: %s]", s.Warning)
		}
		fmt.Println(line)
	}
	fmt.Printf("Duration: %.2fs\n", result.TotalDurationSec)
}

func setLogLevel(level string) {
	var l slog.Level
	switch strings.ToLower(level) {
	case "debug":
		l = slog.LevelDebug
	case "warn":
		l = slog.LevelWarn
	case "error":
		l = slog.LevelError
	default:
		l = slog.LevelInfo
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: l})))
}
