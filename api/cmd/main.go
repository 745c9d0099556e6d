package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/antbogura/isp-api/internal/audit"
	"github.com/antbogura/isp-api/internal/config"
	"github.com/antbogura/isp-api/internal/domain"
	"github.com/antbogura/isp-api/internal/infrastructure/gotrue"
	"github.com/antbogura/isp-api/internal/infrastructure/postgres"
	"github.com/antbogura/isp-api/internal/infrastructure/rabbitmq"
	redisinfra "github.com/antbogura/isp-api/internal/infrastructure/redis"
	"github.com/antbogura/isp-api/internal/pkg/logger"
	"github.com/antbogura/isp-api/internal/security"
	"github.com/antbogura/isp-api/internal/service"
	"github.com/antbogura/isp-api/internal/transport/rest"
	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	logger.Init()

	cfg, err := config.Load()
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("config load failed")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, cfg.DBDSN)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("postgres pool init failed")
	}
	defer pool.Close()

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	if err := pool.Ping(pingCtx); err != nil {
		cancel()
		logger.Logger.Fatal().Err(err).Msg("postgres ping failed")
	}
	cancel()

	repo := postgres.New(pool)
	directory := gotrue.New(cfg.AuthBaseURL, cfg.ServiceRoleKey)
	cache := redisinfra.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	defer cache.Client.Close()

	// SMS dispatch is optional. A broker that is down must not keep the API
	// from serving.
	var notifier domain.Notifier
	if cfg.SMSEnabled {
		pub, err := rabbitmq.NewPublisher(cfg.RabbitURL, cfg.RabbitExchange, logger.Logger)
		if err != nil {
			logger.Logger.Warn().Err(err).Msg("rabbitmq unavailable, sms dispatch disabled")
		} else {
			notifier = pub
			defer pub.Close()
		}
	}

	auditLog := audit.New(logger.Logger)
	accounts := service.NewAccountService(repo, directory, auditLog, cfg.AdminEmail, cfg.AdminPassword)
	intake := service.NewIntakeService(repo, cache, notifier, auditLog, cfg.StatsCacheTTL)

	router := rest.NewRouter(rest.RouterDeps{
		Accounts:       accounts,
		Intake:         intake,
		Roles:          repo,
		Verifier:       security.NewHS256Verifier(cfg.JWTSecret),
		SetupToken:     cfg.SetupToken,
		ExpectedIssuer: cfg.JWTIssuer,
		Cache:          cache,
		RLEnabled:      cfg.RLEnabled,
		RLLimit:        cfg.RLLimit,
		RLWindow:       cfg.RLWindow,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.Logger.Info().Int("port", cfg.Port).Str("env", cfg.AppEnv).Msg("http server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	<-ctx.Done()
	logger.Logger.Info().Msg("shutdown signal received")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancelShutdown()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Logger.Error().Err(err).Msg("graceful shutdown failed")
	}
	logger.Logger.Info().Msg("server stopped")
}
