package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lmittmann/tint"

	"github.com/thermolog-dev/thermolog/internal/api"
	"github.com/thermolog-dev/thermolog/internal/auth"
	"github.com/thermolog-dev/thermolog/internal/config"
	"github.com/thermolog-dev/thermolog/internal/observability"
	"github.com/thermolog-dev/thermolog/internal/service"
	"github.com/thermolog-dev/thermolog/internal/store"
)

func main() {
	cfg, err := config.Load(os.Getenv("THERMOLOG_CONFIG"))
	if err != nil {
		slog.Error("failed to load config", "err", err)
		os.Exit(1)
	}

	level := slog.LevelInfo
	if err := level.UnmarshalText([]byte(cfg.Log.Level)); err != nil {
		level = slog.LevelInfo
	}
	log := slog.New(tint.NewHandler(os.Stdout, &tint.Options{Level: level}))
	slog.SetDefault(log)

	st, err := store.OpenSQLite(cfg.Database.Path)
	if err != nil {
		log.Error("failed to open database", "path", cfg.Database.Path, "err", err)
		os.Exit(1)
	}
	defer st.Close()

	tokens := auth.NewTokenIssuer(cfg.Auth.JWTSecret)
	h := &api.Handler{
		Accounts: service.NewAccountService(st, tokens),
		Settings: service.NewSettingsService(st),
		Readings: service.NewReadingService(st),
	}

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(api.RequestLogger(log))
	r.Use(api.CORS())

	metrics := observability.NewMetrics()
	r.Use(metrics.Middleware())
	r.GET("/metrics", metrics.Handler())

	h.Routes(r)

	srv := &http.Server{Addr: cfg.Server.Addr, Handler: r}

	go func() {
		log.Info("thermologd listening", "addr", cfg.Server.Addr, "db", cfg.Database.Path)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server failed", "err", err)
			os.Exit(1)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	log.Info("shutdown signal received, draining requests")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("shutdown failed", "err", err)
	}
}
