package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/urbanthreads/storefront-api/internal/api"
	"github.com/urbanthreads/storefront-api/internal/infrastructure/config"
	mongodb "github.com/urbanthreads/storefront-api/internal/infrastructure/db/mongo"
	redisdb "github.com/urbanthreads/storefront-api/internal/infrastructure/db/redis"
	"github.com/urbanthreads/storefront-api/internal/infrastructure/identity"
	"github.com/urbanthreads/storefront-api/internal/infrastructure/queue"
	"github.com/urbanthreads/storefront-api/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

// @title        Storefront API
// @version      1.0
// @description  E-commerce storefront backend with a dual-scheme authorization gate.
//
// @securityDefinitions.apikey  LocalToken
// @in                          header
// @name                        X-Auth-Token
//
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
func main() {
	log := logger.Init("info", false)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		// A missing JWT_SECRET lands here. There is no fallback secret
		// to limp along with.
		log.Fatal().Err(err).Msg("configuration invalid")
	}
	log = logger.Init(cfg.LogLevel, cfg.Env == "development")

	mc, err := mongodb.Connect(ctx, cfg.Mongo.URI, cfg.Mongo.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("mongo unavailable")
	}
	defer func() {
		if err := mc.Close(context.Background()); err != nil {
			log.Warn().Err(err).Msg("mongo disconnect failed")
		}
	}()

	db := mc.Database()
	for _, coll := range []string{"admins", "users"} {
		if err := mongodb.NewIdentityRepository(db, coll).EnsureIndexes(ctx); err != nil {
			log.Fatal().Err(err).Str("collection", coll).Msg("index creation failed")
		}
	}

	rdb, err := redisdb.Connect(ctx, cfg.Redis.Addr, cfg.Redis.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("redis unavailable")
	}
	defer func() {
		if err := rdb.Close(); err != nil {
			log.Warn().Err(err).Msg("redis close failed")
		}
	}()

	verifier, err := identity.NewFirebaseVerifier(ctx, cfg.Firebase.ProjectID, cfg.Firebase.CredentialsFile)
	if err != nil {
		log.Fatal().Err(err).Msg("identity provider init failed")
	}

	dispatcher := queue.NewDispatcher(0, mongodb.NewAuditRepository(db), log)
	dispatcher.Start(ctx)

	e := api.NewRouter(cfg, mc, rdb, verifier, dispatcher, log)

	go func() {
		if err := e.Start(":" + cfg.Port); err != nil {
			log.Info().Err(err).Msg("http server stopped")
		}
	}()
	log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("storefront api up")

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("shutdown incomplete")
	}
}
