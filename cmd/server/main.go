// Command listd-server starts the list API server.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/sgubproject/listd/internal/config"
	"github.com/sgubproject/listd/internal/limiter"
	"github.com/sgubproject/listd/internal/repository"
	"github.com/sgubproject/listd/internal/repository/file"
	"github.com/sgubproject/listd/internal/server/httpapi"
	"github.com/sgubproject/listd/internal/service"
	"github.com/sgubproject/listd/internal/store"
)

var (
	version   = "dev"
	buildDate = "unknown"
)

// main loads configuration, initializes the store, seeds required accounts,
// and serves the HTTP API until interrupted.
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger, _ := zap.NewProduction()
	if cfg.IsDev() {
		logger, _ = zap.NewDevelopment()
	}
	defer func() { _ = logger.Sync() }()
	logger.Info("starting",
		zap.String("version", version),
		zap.String("buildDate", buildDate),
		zap.String("addr", cfg.Addr),
		zap.String("env", cfg.Env),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Durable store
	st := store.New(cfg.DBFilePath, logger)
	defer st.Close()
	if err := st.Initialize(ctx); err != nil {
		logger.Fatal("store init", zap.Error(err))
	}

	// Repositories
	userRepo := file.NewUserRepo(st, logger)
	itemRepo := file.NewItemRepo(st)

	// Seeding
	if err := userRepo.SeedAdmin(ctx, cfg.AdminPassword); err != nil {
		logger.Fatal("seed admin", zap.Error(err))
	}
	if !cfg.IsDev() && cfg.SampleUsersFile == "" {
		logger.Info("sample user seeding skipped", zap.String("env", cfg.Env))
	} else {
		samples, err := cfg.SampleUsers()
		if err != nil {
			logger.Fatal("load sample users", zap.Error(err))
		}
		seeds := make([]repository.SeedUser, 0, len(samples))
		for _, s := range samples {
			seeds = append(seeds, repository.SeedUser{Username: s.Username, Password: s.Password})
		}
		if err := userRepo.SeedSampleUsers(ctx, seeds); err != nil {
			logger.Fatal("seed sample users", zap.Error(err))
		}
	}

	// Services
	authSvc := service.NewAuthService(userRepo, []byte(cfg.JWTSecret), cfg.TokenTTL)
	itemSvc := service.NewItemService(itemRepo, cfg.MaxItemTextLen)
	adminSvc := service.NewAdminService(userRepo)

	authLimit := limiter.NewMemory(cfg.AuthRateEvery, cfg.AuthRateBurst)

	api := httpapi.New(authSvc, itemSvc, adminSvc, authLimit, logger, version)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           api.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", zap.String("addr", cfg.Addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("shutdown", zap.Error(err))
		}
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", zap.Error(err))
			os.Exit(1)
		}
	}

	logger.Info("shutdown complete")
}
