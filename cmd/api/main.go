package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	redis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/token-gate/internal/api/http"
	"github.com/spec-kit/token-gate/internal/api/http/handlers"
	"github.com/spec-kit/token-gate/internal/auth"
	"github.com/spec-kit/token-gate/internal/config"
	"github.com/spec-kit/token-gate/internal/observability"
	"github.com/spec-kit/token-gate/internal/persistence"
	"github.com/spec-kit/token-gate/internal/ratelimit"
	"github.com/spec-kit/token-gate/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	if cfg.Auth.JWTSecret == config.DefaultJWTSecret && cfg.App.Env != "development" {
		logger.Warn("running with the default signing secret; set AUTH_JWT_SECRET")
	}

	store, redisClient := buildRateLimitStore(cfg, logger)
	if redisClient != nil {
		defer redisClient.Close() //nolint:errcheck
	}

	governor, err := ratelimit.NewGovernor(store, cfg.RateLimit.Window(), cfg.RateLimit.MaxRequests)
	if err != nil {
		logger.Fatal("failed to build rate governor", zap.Error(err))
	}

	tokenService := service.NewTokenService(*cfg, governor)
	guard := auth.NewGuard(tokenService.Codec())
	metrics := observability.NewMetrics()

	app := fiber.New(fiber.Config{AppName: cfg.App.Name})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health: handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, redisClient),
		Token:  handlers.NewTokenHandler(tokenService, metrics),
		Secure: handlers.NewSecureHandler(),
		Guard:  guard,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func buildRateLimitStore(cfg *config.Config, logger *zap.Logger) (ratelimit.Store, *redis.Client) {
	if cfg.RateLimit.Store == "redis" {
		client := persistence.NewRedis(cfg.Redis, logger)
		return ratelimit.NewRedisStore(client), client
	}
	return ratelimit.NewMemoryStore(), nil
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
