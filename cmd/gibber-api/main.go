package main

import (
	"context"
	"flag"
	"log/slog"
	"net/http"
	"os"

	"github.com/gibber-dev/gibber/internal/config"
	"github.com/gibber-dev/gibber/internal/logger"
	"github.com/gibber-dev/gibber/internal/router"
	"github.com/gibber-dev/gibber/internal/setup"
)

func main() {
	var configFolder string
	flag.StringVar(&configFolder, "config_folder", "config", "path to folder with configs")
	flag.Parse()

	cfg := config.MustLoad(configFolder)
	logger.Initialize(cfg.Public.LogLevel, cfg.Public.LogJSON)

	deps, err := setup.SetupDependencies(context.Background(), cfg)
	if err != nil {
		slog.Error("failed to set up dependencies", "err", err)
		os.Exit(1)
	}
	defer deps.Cleanup()

	r := router.New(deps)

	httpPort := os.Getenv("PORT")
	if httpPort == "" {
		httpPort = "8080"
	}

	slog.Info("server started", "port", httpPort)
	if err := http.ListenAndServe(":"+httpPort, r); err != nil {
		slog.Error("server stopped", "err", err)
		os.Exit(1)
	}
}
