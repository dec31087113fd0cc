package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"

	"github.com/catalogo/storefront-client/internal/core/ports"
	"github.com/catalogo/storefront-client/internal/core/service"
	"github.com/catalogo/storefront-client/internal/infrastructure/apiclient"
	"github.com/catalogo/storefront-client/internal/infrastructure/storage/memory"
	mongostore "github.com/catalogo/storefront-client/internal/infrastructure/storage/mongo"
	redisstore "github.com/catalogo/storefront-client/internal/infrastructure/storage/redis"
	"github.com/catalogo/storefront-client/internal/infrastructure/storage/sqlite"
	"github.com/catalogo/storefront-client/internal/pkg/config"
	"github.com/catalogo/storefront-client/pkg/logger"
)

// app is the composition root shared by every command.
type app struct {
	cfg     *config.Config
	log     zerolog.Logger
	out     io.Writer
	asJSON  bool
	kv      ports.KVStore
	session *service.SessionStore
	client  *apiclient.Client

	auth     *service.AuthService
	products *service.ProductService
	cats     *service.CategoryService
	users    *service.UserService
	images   *service.ImageService
	reports  *service.ReportService
	prefs    *service.PreferenceService

	unsubscribe func()
}

// flags overriding the environment.
type globalFlags struct {
	apiURL   string
	backend  string
	logLevel string
	asJSON   bool
}

func (a *app) init(ctx context.Context, f globalFlags) error {
	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}
	if f.apiURL != "" {
		cfg.API.BaseURL = f.apiURL
	}
	if f.backend != "" {
		cfg.Store.Backend = f.backend
	}
	if f.logLevel != "" {
		cfg.LogLevel = f.logLevel
	}
	a.cfg = cfg
	a.asJSON = f.asJSON

	a.log = logger.Init(logger.Options{Level: cfg.LogLevel, Pretty: cfg.LogPretty, App: "storefrontctl"})

	kv, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	a.kv = kv

	a.session = service.NewSessionStore(kv, logger.For("session"))
	st := a.session.Restore(ctx)
	a.log.Debug().Str("status", string(st.Status)).Msg("session restored")

	changes, unsubscribe := a.session.Subscribe()
	a.unsubscribe = unsubscribe
	go func() {
		for st := range changes {
			a.log.Debug().Str("status", string(st.Status)).Msg("session changed")
		}
	}()

	client, err := apiclient.New(apiclient.Options{
		BaseURL:              cfg.API.BaseURL,
		Timeout:              cfg.API.Timeout,
		UserAgent:            cfg.API.UserAgent,
		Tokens:               a.session,
		OnSessionInvalidated: a.session.Invalidate,
		Logger:               logger.Get(),
	})
	if err != nil {
		return err
	}
	a.client = client

	a.auth = service.NewAuthService(client, a.session, logger.For("auth"))
	a.products = service.NewProductService(client, logger.For("products"))
	a.cats = service.NewCategoryService(client, logger.For("categories"))
	a.users = service.NewUserService(client, logger.For("users"))
	a.images = service.NewImageService(client, logger.For("images"))
	a.reports = service.NewReportService(client, cfg.API.ReportTimeout, logger.For("reports"))
	a.prefs = service.NewPreferenceService(kv, logger.For("preferences"))
	return nil
}

func (a *app) close() {
	if a.unsubscribe != nil {
		a.unsubscribe()
	}
	if a.kv != nil {
		if err := a.kv.Close(); err != nil {
			a.log.Warn().Err(err).Msg("closing store")
		}
	}
}

// openStore builds the KVStore selected by STORE_BACKEND.
func openStore(ctx context.Context, cfg *config.Config) (ports.KVStore, error) {
	switch cfg.Store.Backend {
	case "memory":
		return memory.New(), nil
	case "sqlite":
		st, err := sqlite.Open(ctx, cfg.Store.Path)
		if err != nil {
			return nil, err
		}
		return st, nil
	case "redis":
		client, err := redisstore.Connect(ctx, redisstore.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB, Timeout: 5 * time.Second})
		if err != nil {
			return nil, err
		}
		return redisstore.NewKVStore(client, cfg.Redis.Prefix, cfg.Redis.SessionTTL, service.KeyTheme), nil
	case "mongo":
		_, db, err := mongostore.Connect(ctx, mongostore.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
		if err != nil {
			return nil, err
		}
		return mongostore.NewKVStore(db), nil
	default:
		return nil, fmt.Errorf("unsupported store backend %q", cfg.Store.Backend)
	}
}

func (a *app) printJSON(v any) error {
	enc := json.NewEncoder(a.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
