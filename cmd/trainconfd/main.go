// SPDX-License-Identifier: MIT

// trainconfd serves a training configuration over a small admin API and
// keeps it hot-reloadable: edits to the YAML file or a SIGHUP re-validate
// and swap the active configuration atomically.
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/sidevit/trainconf/internal/api"
	"github.com/sidevit/trainconf/internal/config"
	"github.com/sidevit/trainconf/internal/daemon"
	tclog "github.com/sidevit/trainconf/internal/log"
)

var (
	version   = "dev"
	commit    = "none"
	buildDate = "unknown"
)

func main() {
	showVersion := flag.Bool("version", false, "print version and exit")
	configPath := flag.String("config", "", "path to config file (YAML)")
	listenAddr := flag.String("listen", "", "admin API listen address (overrides TRAINCONF_LISTEN)")
	logLevel := flag.String("log-level", "", "log level (overrides TRAINCONF_LOG_LEVEL)")
	flag.Parse()

	if *showVersion {
		fmt.Printf("%s (commit: %s, built: %s)\n", version, commit, buildDate)
		os.Exit(0)
	}

	tclog.Configure(tclog.Config{
		Level:   *logLevel,
		Service: "trainconf",
	})
	logger := tclog.WithComponent("daemon")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration with precedence: ENV > File > Defaults
	effectiveConfigPath := strings.TrimSpace(*configPath)
	loader := config.NewLoader(effectiveConfigPath, version)
	cfg, err := loader.Load()
	if err != nil {
		logger.Fatal().
			Err(err).
			Str("event", "config.load_failed").
			Str("config_path", effectiveConfigPath).
			Msg("failed to load configuration")
	}
	if *logLevel != "" {
		cfg.LogLevel = *logLevel
	}
	if *listenAddr != "" {
		cfg.ListenAddr = *listenAddr
	}

	if err := config.Validate(cfg); err != nil {
		logger.Fatal().
			Err(err).
			Str("event", "config.validation_failed").
			Str("config_path", effectiveConfigPath).
			Msg("configuration failed validation")
	}

	source := "defaults"
	if effectiveConfigPath != "" {
		source = "file"
	}
	logger.Info().
		Str("event", "config.loaded").
		Str("source", source).
		Str("path", effectiveConfigPath).
		Str("plan", string(cfg.Train.ActivePlan())).
		Int("epochs", cfg.Train.Epochs).
		Msg("loaded configuration")

	holder := config.NewConfigHolder(cfg, loader, effectiveConfigPath)
	apiServer := api.NewServer(holder, version)

	httpServer := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           apiServer.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	app := daemon.NewApp(logger, holder, httpServer)
	if err := app.Run(ctx); err != nil {
		logger.Fatal().
			Err(err).
			Str("event", "daemon.exit").
			Msg("daemon terminated with error")
	}

	logger.Info().
		Str("event", "daemon.shutdown_complete").
		Msg("shutdown complete")
}
