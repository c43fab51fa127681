package main

import (
	"context"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"shopfront/internal/config"
	"shopfront/internal/http/handlers"
	applog "shopfront/internal/log"
	"shopfront/internal/mongostore"
	"shopfront/internal/repos"
	"shopfront/internal/seed"
	"shopfront/internal/services"
	"shopfront/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("[config] %v", err)
	}

	// Optional file logging
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			log.Printf("[warn] could not open log file %s: %v", cfg.LogFile, err)
		} else {
			defer f.Close()
			log.SetOutput(io.MultiWriter(os.Stdout, f))
		}
	}
	cfg.Print()

	ctx := context.Background()
	st, err := openStore(ctx, cfg)
	if err != nil {
		log.Fatal(err)
	}

	tokens := services.NewTokenIssuer(cfg.JWTSecret, cfg.TokenTTL)
	authSvc := services.NewAuthService(st.Users, tokens)

	if cfg.SeedDemo {
		n, err := seed.Catalog(ctx, st.Products)
		if err != nil {
			log.Fatalf("[seed] %v", err)
		}
		if n > 0 {
			applog.Info(nil, "seed.catalog", map[string]any{"inserted": n})
		}
	}
	if cfg.AdminEmail != "" {
		created, err := authSvc.EnsureAdmin(ctx, cfg.AdminName, cfg.AdminEmail, cfg.AdminPassword)
		if err != nil {
			log.Fatalf("[seed] admin: %v", err)
		}
		if created {
			applog.Info(nil, "seed.admin", map[string]any{"email": cfg.AdminEmail})
		}
	}

	deps := handlers.NewDeps(st, authSvc)
	app := handlers.NewApp(deps, handlers.AppOptions{
		APIPrefix:    cfg.APIPrefix,
		LoginRateMax: cfg.LoginRateMax,
		RateMax:      120,
		AccessLog:    true,
	})

	go func() {
		applog.Info(nil, "http.listen", map[string]any{"port": cfg.Port, "api_prefix": cfg.APIPrefix})
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Fatalf("[http] %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	applog.Info(nil, "http.shutdown", nil)
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		log.Printf("[http] shutdown: %v", err)
	}
	closeCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := st.Close(closeCtx); err != nil {
		log.Printf("[store] close: %v", err)
	}
	applog.Info(nil, "http.stopped", nil)
}

func openStore(ctx context.Context, cfg config.Config) (*store.Store, error) {
	switch cfg.Store {
	case config.StoreMongo:
		connCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
		defer cancel()
		db, err := mongostore.Connect(connCtx, cfg.MongoURI, cfg.MongoDB)
		if err != nil {
			return nil, err
		}
		if err := mongostore.CreateIndexes(connCtx, db); err != nil {
			return nil, err
		}
		applog.Info(nil, "store.open", map[string]any{"store": config.StoreMongo, "db": cfg.MongoDB})
		return mongostore.NewStore(db), nil
	default:
		db, err := repos.OpenDB(cfg.DBDSN)
		if err != nil {
			return nil, err
		}
		applog.Info(nil, "store.open", map[string]any{"store": config.StoreSQLite, "dsn": cfg.DBDSN})
		return repos.NewStore(db), nil
	}
}
