package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	router "github.com/nezumiya/chat/internal/adapters/http"
	"github.com/nezumiya/chat/internal/app"
	"github.com/nezumiya/chat/internal/config"
	"github.com/nezumiya/chat/internal/store"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Initialize zerolog global logger early so config.Load can use it.
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	// Human-friendly output for terminal; in production you may want JSON only.
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	if dir := filepath.Dir(cfg.DBPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			log.Fatal().Err(err).Str("dir", dir).Msg("failed to create data dir")
		}
	}
	db, err := store.Open(cfg.DBPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open store")
	}

	messages := store.NewMessages(db)
	passwords := store.NewPasswords(db)
	feedStore := store.NewFeed(db)

	// One-time import of the flat file the previous deployment wrote.
	if err := store.ImportLegacy(ctx, messages, passwords, cfg.LegacyData); err != nil {
		log.Error().Err(err).Msg("legacy import failed, continuing with current store")
	}

	presence := app.NewPresence()
	gateway := app.NewGateway(presence)
	coord := &app.Coordinator{
		Presence:     presence,
		Gateway:      gateway,
		Messages:     messages,
		Passwords:    passwords,
		HistoryLimit: cfg.HistoryLimit,
	}
	feed := &app.FeedService{
		Store:     feedStore,
		Gateway:   gateway,
		PostLimit: cfg.FeedLimit,
	}

	r := router.SetupRouter(ctx, cfg, coord, feed)
	addr := fmt.Sprintf(":%d", cfg.Port)

	srv := &http.Server{
		Addr:    addr,
		Handler: r,
	}

	go func() {
		log.Info().Str("addr", addr).Msg("Nezumiya server started")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("server error")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("Shutting down")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
	log.Info().Msg("Server exited gracefully")
}
