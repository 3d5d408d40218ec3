package main

import (
	"context"

	"go.uber.org/zap"

	"github.com/rryowa/bizauth/internal/api"
	"github.com/rryowa/bizauth/internal/controller"
	"github.com/rryowa/bizauth/internal/migrations"
	"github.com/rryowa/bizauth/internal/service"
	"github.com/rryowa/bizauth/internal/storage/postgres"
	"github.com/rryowa/bizauth/internal/storage/redis"
	"github.com/rryowa/bizauth/internal/util"
)

func main() {
	ctx := context.Background()
	logger := util.NewZapLogger(util.GetLogLevel())
	defer func() { _ = logger.Sync() }()

	if err := run(ctx, logger); err != nil {
		logger.Fatal(zap.Error(err))
	}
}

func run(ctx context.Context, logger *zap.SugaredLogger) error {
	tokenConfig, err := util.NewTokenConfig()
	if err != nil {
		return err
	}
	dbConfig, err := util.NewDBConfig()
	if err != nil {
		return err
	}
	redisConfig, err := util.NewRedisConfig()
	if err != nil {
		return err
	}
	securityConfig := util.NewSecurityConfig()

	db, dbCleanup, err := util.NewDBConnection(ctx, logger, dbConfig)
	if err != nil {
		return err
	}
	defer dbCleanup()

	if err := migrations.RunMigrations(ctx, db, logger); err != nil {
		return err
	}

	redisClient, redisCleanup, err := util.NewRedisClient(ctx, logger, redisConfig)
	if err != nil {
		return err
	}
	defer redisCleanup()

	clock := service.SystemClock()
	storage := postgres.NewStorage(db)
	denylist := redis.NewTokenStorage(redisClient)
	tokenService := service.NewTokenService(tokenConfig, clock)
	hasher := service.NewBcryptHasher(securityConfig.BcryptCost)
	webhookService := service.NewWebhookService(logger, util.GetWebhookURL())
	authService := service.NewAuthService(storage, denylist, tokenService, hasher, webhookService, securityConfig, clock, logger)

	controller := controller.NewController(logger, authService)

	apiServer := api.NewAPI(controller, authService, logger, util.NewServerConfig(), util.NewRateLimiterConfig())
	return apiServer.Run(ctx)
}
