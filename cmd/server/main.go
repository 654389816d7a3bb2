package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/charmbracelet/log"

	"github.com/youruser/cardforge/internal/api"
	"github.com/youruser/cardforge/internal/config"
)

func main() {
	configPath := flag.String("config", "", "settings file")
	flag.Parse()

	logger := log.NewWithOptions(os.Stderr, log.Options{ReportTimestamp: true, TimeFormat: "15:04:05.00"})

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Fatal("load config", "err", err)
	}
	// PORT wins so the binary runs unchanged on hosts that assign one.
	if p := os.Getenv("PORT"); p != "" {
		n, err := strconv.Atoi(p)
		if err != nil {
			logger.Fatal("invalid PORT", "value", p)
		}
		cfg.Server.Port = n
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := api.NewServer(cfg, logger).Run(ctx, fmt.Sprintf(":%d", cfg.Server.Port)); err != nil {
		logger.Fatal("server stopped", "err", err)
	}
}
