package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cargotrack/identity-service/internal/api"
	"github.com/cargotrack/identity-service/internal/core/service"
	"github.com/cargotrack/identity-service/internal/infrastructure/config"
	"github.com/cargotrack/identity-service/internal/infrastructure/db/mongo"
	"github.com/cargotrack/identity-service/internal/infrastructure/db/redis"
	"github.com/cargotrack/identity-service/internal/infrastructure/email"
	"github.com/cargotrack/identity-service/internal/infrastructure/queue"
	"github.com/cargotrack/identity-service/pkg/logger"
)

func main() {
	cfg := config.Load()

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --- MongoDB ---
	mongoClient, db, err := mongo.Connect(ctx, mongo.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongodb connection failed")
	}
	defer func() {
		if err := mongoClient.Disconnect(context.Background()); err != nil {
			log.Error().Err(err).Msg("mongodb disconnect")
		}
	}()

	if err := mongo.EnsureIndexes(ctx, db); err != nil {
		log.Fatal().Err(err).Msg("mongodb index creation failed")
	}

	// --- Redis ---
	rdb, err := redis.Connect(ctx, redis.Config{
		Addr: cfg.Redis.Addr,
		DB:   cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	defer rdb.Close()

	// --- Repositories ---
	userRepo := mongo.NewUserRepository(mongoClient, db)
	roleRepo := mongo.NewRoleRepository(mongoClient, db)
	permissionRepo := mongo.NewPermissionRepository(db)

	// --- Core services ---
	hasher := service.NewPBKDF2Hasher(0)

	issuer, err := service.NewTokenIssuer(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.Audience, cfg.JWT.ExpireDays)
	if err != nil {
		log.Fatal().Err(err).Msg("token issuer setup failed")
	}

	permCache := redis.NewPermissionCache(rdb, time.Duration(cfg.Redis.PermissionTTLSecs)*time.Second)
	resolver := service.NewPermissionResolver(userRepo, permCache, log)

	sender := email.NewSMTPSender(email.Config{
		Host:     cfg.SMTP.Host,
		Port:     cfg.SMTP.Port,
		Username: cfg.SMTP.Username,
		Password: cfg.SMTP.Password,
		From:     cfg.SMTP.From,
		FromName: cfg.SMTP.FromName,
	})
	dispatcher := queue.NewDispatcher(cfg.SMTP.Workers, sender, log)
	dispatcher.Start(ctx)
	notifier := email.NewNotifier(dispatcher)

	authService := service.NewAuthService(userRepo, hasher, issuer, notifier, log)
	userService := service.NewUserService(userRepo, roleRepo, hasher, notifier, resolver, log)
	roleService := service.NewRoleService(roleRepo, permissionRepo, resolver, log)
	permissionService := service.NewPermissionService(permissionRepo, resolver, log)

	e := api.NewRouter(api.Services{
		Auth:        authService,
		Users:       userService,
		Roles:       roleService,
		Permissions: permissionService,
		Resolver:    resolver,
		Issuer:      issuer,
	}, db, rdb, log)

	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("identity service listening")
		if err := e.Start(":" + cfg.Port); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server stopped unexpectedly")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
		os.Exit(1)
	}
}
