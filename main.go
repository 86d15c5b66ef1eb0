package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/rayonlar/internal/config"
	"github.com/robalobadob/rayonlar/internal/db"
	"github.com/robalobadob/rayonlar/internal/graph"
	"github.com/robalobadob/rayonlar/internal/httpserver"
	"github.com/robalobadob/rayonlar/internal/i18n"
	"github.com/robalobadob/rayonlar/internal/logger"
	"github.com/robalobadob/rayonlar/internal/puzzle"
	"github.com/robalobadob/rayonlar/internal/regions"
	"github.com/robalobadob/rayonlar/internal/store"
)

func main() {
	cfg := config.Load()
	closeLog, err := logger.Init()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to set up logging")
	}
	defer closeLog()

	conn, err := db.OpenMigrated(cfg.DBPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.DBPath).Msg("failed to open database")
	}
	defer conn.Close()

	catalog, err := regions.Load(cfg.RegionsFile)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load regions")
	}
	g := graph.Build(catalog.All())
	log.Info().Int("regions", catalog.Len()).Int("edges", g.EdgeCount()).Msg("map loaded")

	msgs, err := i18n.Load(cfg.Lang)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load messages")
	}

	var sessions store.Store = store.NewMemoryStore()
	if cfg.RedisURL != "" {
		rs, err := store.NewRedisStore(cfg.RedisURL)
		if err != nil {
			log.Fatal().Err(err).Msg("redis connection failed")
		}
		defer rs.Close()
		sessions = rs
	}

	srv, err := httpserver.New(httpserver.Deps{
		Config:   cfg,
		Store:    sessions,
		DB:       conn,
		Puzzles:  puzzle.New(catalog, g, cfg.DailySalt),
		Messages: msgs,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build server")
	}

	hs := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv.Router(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	go func() {
		log.Info().Str("port", cfg.Port).Bool("redis", cfg.RedisURL != "").Msg("starting rayonlar server")
		if err := hs.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server exited")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := hs.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("shutdown")
	}
}
