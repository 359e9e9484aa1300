package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/automoto/gunsync/assets"
	"github.com/automoto/gunsync/config"
	"github.com/automoto/gunsync/server/core"
	"github.com/automoto/gunsync/server/stats"
	"github.com/automoto/gunsync/shared/logging"
	"github.com/automoto/gunsync/shared/protocol"
)

func main() {
	configDir := flag.String("config", ".", "Directory searched for "+config.FileName)
	port := flag.Uint("port", 0, "Server port (overrides config)")
	tickRate := flag.Int("tickrate", 0, "Server tick rate in updates per second (overrides config)")
	name := flag.String("name", "", "Server display name (overrides config)")
	version := flag.String("version", "", "Required client version (overrides config)")
	level := flag.String("level", "", "Level name under assets/levels (overrides config)")
	statsPath := flag.String("stats", "", "SQLite stats file (overrides config)")
	statsAddr := flag.String("stats-addr", "", "Stats API listen address, e.g. :8080 (overrides config)")
	logLevel := flag.String("log", "", "Log level: trace, debug, info, warn, error (overrides config)")
	flag.Parse()

	if err := config.Load(*configDir); err != nil {
		bootLog := logging.New("server")
		bootLog.Fatal().Err(err).Msg("failed to load config")
	}

	cfg := &config.Server
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "port":
			cfg.Port = *port
		case "tickrate":
			cfg.TickRate = *tickRate
		case "name":
			cfg.Name = *name
		case "version":
			cfg.Version = *version
		case "level":
			cfg.Level = *level
		case "stats":
			cfg.StatsPath = *statsPath
		case "stats-addr":
			cfg.StatsAddr = *statsAddr
		case "log":
			cfg.LogLevel = *logLevel
		}
	})

	logging.Setup(cfg.LogLevel, nil)
	log := logging.New("server")

	if err := config.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid config")
	}
	if err := protocol.RegisterComponents(); err != nil {
		log.Fatal().Err(err).Msg("failed to register components")
	}

	lvl, err := core.LoadServerLevel(assets.Levels(), cfg.Level, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load level")
	}

	metrics, err := core.NewMetrics()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create metrics")
	}

	game, err := core.NewGame(*cfg, lvl,
		core.WithLogger(logging.New("game")),
		core.WithMetrics(metrics),
	)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create game")
	}

	store, err := stats.Open(cfg.StatsPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open stats store")
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.Warn().Err(err).Msg("failed to close stats store")
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.StatsAddr != "" {
		mux := http.NewServeMux()
		stats.Routes(mux, store, logging.New("stats"))
		srv := &http.Server{Addr: cfg.StatsAddr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
		go func() {
			log.Info().Str("addr", cfg.StatsAddr).Msg("stats API listening")
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Error().Err(err).Msg("stats API stopped")
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
	}

	server := core.NewServer(game, cfg.TickRate, cfg.StatsFlushInterval, store, logging.New("net"))

	log.Info().
		Str("name", cfg.Name).
		Uint("port", cfg.Port).
		Int("tickrate", cfg.TickRate).
		Str("version", cfg.Version).
		Str("level", cfg.Level).
		Msg("starting gunsync server")

	if err := server.Run(ctx, cfg.Port); err != nil {
		log.Error().Err(err).Msg("server error")
		return
	}
	log.Info().Msg("server stopped")
}
