package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"PawPlanner_WebClient/internal/auth"
	"PawPlanner_WebClient/internal/config"
	"PawPlanner_WebClient/internal/handler"
	"PawPlanner_WebClient/internal/logging"
	"PawPlanner_WebClient/internal/router"
	"PawPlanner_WebClient/internal/session"
	"PawPlanner_WebClient/internal/storage"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := logging.New(cfg.LogLevel, false)
	if err != nil {
		log.Fatalf("%v", err)
	}
	defer func() { _ = logger.Sync() }()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("web client stopped", zap.Error(err))
	}
}

func run(cfg *config.Config, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ------------ Local storage ---------------
	store, err := storage.Open(ctx, storage.Options{
		Backend:  cfg.StoreBackend,
		DBPath:   cfg.DBPath,
		RedisURL: cfg.RedisURL,
	})
	if err != nil {
		return err
	}
	defer store.Close()
	logger.Info("local storage ready", zap.String("backend", cfg.StoreBackend))

	// ------------ Client identity ---------------
	if cfg.UsingDevSecret {
		logger.Warn("PAWPLAN_CLIENT_SECRET is not set, using the development secret")
	}
	issuer, err := auth.NewTokenIssuer(cfg.ClientSecret, 0)
	if err != nil {
		return err
	}

	// ---------------- Server --------------------
	registry := session.NewRegistry(cfg.APIBaseURL, cfg.RequestTimeout, store, logger)

	gin.SetMode(gin.ReleaseMode)
	engine := router.Setup(router.Deps{
		Config:       cfg,
		Handler:      handler.NewHandler(registry, logger),
		Issuer:       issuer,
		Logger:       logger,
		SecureCookie: cfg.SecureCookie,
	})
	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("web client listening",
			zap.String("addr", cfg.Addr),
			zap.String("api", cfg.APIBaseURL))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		return registry.RunSweeper(gctx, cfg.ClientIdleTTL)
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
