// Command fakeapi serves an in-memory storefront API for local development
// and for exercising storefrontctl end to end.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/catalogo/storefront-client/internal/core/domain"
	"github.com/catalogo/storefront-client/internal/fakeapi"
	"github.com/catalogo/storefront-client/internal/pkg/config"
	"github.com/catalogo/storefront-client/pkg/logger"
)

const shutdownTimeout = 5 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := config.MustLoad(ctx)
	log := logger.Init(logger.Options{Level: cfg.LogLevel, App: "fakeapi"})

	srv := fakeapi.New(fakeapi.Options{
		JWTSecret: cfg.FakeAPI.JWTSecret,
		TokenTTL:  cfg.FakeAPI.TokenTTL,
		AdminCode: cfg.FakeAPI.AdminCode,
		MaxUpload: cfg.FakeAPI.MaxUpload,
		AccessLog: cfg.Env == "development",
		Logger:    log,
	})

	if _, err := srv.SeedAccount(cfg.FakeAPI.AdminUser, cfg.FakeAPI.AdminEmail, cfg.FakeAPI.AdminPassword, domain.RoleAdmin); err != nil {
		log.Fatal().Err(err).Msg("seeding admin account")
	}
	if cfg.FakeAPI.SeedCatalog {
		if err := srv.SeedDemoCatalog(); err != nil {
			log.Fatal().Err(err).Msg("seeding demo catalog")
		}
	}

	go func() {
		log.Info().Str("port", cfg.FakeAPI.Port).Str("admin", cfg.FakeAPI.AdminUser).Msg("fake API listening")
		if err := srv.Start(":" + cfg.FakeAPI.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("http server")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown")
	}
}
