package main

import (
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/AlexZinkM/wallet-core/internal/api"
	"github.com/AlexZinkM/wallet-core/internal/config"
	"github.com/AlexZinkM/wallet-core/internal/network"
	"github.com/AlexZinkM/wallet-core/wallet"
)

// @title        Wallet Core API
// @version      1.0
// @description  HTTP facade over the wallet core engine
// @BasePath     /
func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	config.InitLogger(cfg.LogLevel)

	registry, err := network.Load(cfg.NetworksPath)
	if err != nil {
		slog.Error("failed to load network catalog", "path", cfg.NetworksPath, "error", err)
		os.Exit(1)
	}

	core, err := wallet.New(wallet.Options{
		DataDir:  cfg.DataDir,
		Registry: registry,
		RateFiat: cfg.RateFiat,
	})
	if err != nil {
		slog.Error("failed to create wallet core", "error", err)
		os.Exit(1)
	}

	router, err := api.SetupRouter(core)
	if err != nil {
		slog.Error("failed to set up router", "error", err)
		os.Exit(1)
	}

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
	}

	slog.Info("wallet server listening", "port", cfg.Port, "data_dir", cfg.DataDir)
	if err := server.ListenAndServe(); err != nil {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
}
