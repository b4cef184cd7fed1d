package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"trademo/internal/infrastructure/config"
	"trademo/internal/infrastructure/logger"
	"trademo/internal/infrastructure/svc"
	"trademo/internal/interfaces/httpapi"
)

func main() {
	configPath := flag.String("config", "configs/config.toml", "path to config.toml")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Setup("info")
		log.Fatal().Err(err).Str("config", *configPath).Msg("load config failed")
	}
	logger.Setup(cfg.Log.Level)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sc, err := svc.New(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("service initialization failed")
	}
	defer func() {
		if err := sc.Close(); err != nil {
			log.Error().Err(err).Msg("shutdown cleanup failed")
		}
	}()

	server := httpapi.New(cfg.Addr(), httpapi.Deps{
		Portfolios:     sc.Portfolios,
		Orders:         sc.Orders,
		Quotes:         sc.Quotes,
		Verifier:       httpapi.NewStaticVerifier(cfg.Auth.Tokens),
		AllowedOrigins: cfg.Server.AllowedOrigins,
		StreamInterval: time.Duration(cfg.Server.StreamIntervalSec) * time.Second,
	})

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("http shutdown failed")
		}
	}()

	log.Info().
		Str("config", *configPath).
		Str("addr", cfg.Addr()).
		Str("storage", cfg.Storage.Driver).
		Msg("trademo started")

	if err := server.Start(); err != nil {
		log.Error().Err(err).Msg("http server exited")
	}
}
