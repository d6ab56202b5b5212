package main

import (
	"context"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/dharmasatrya/flightagent/internal/aggregator"
	"github.com/dharmasatrya/flightagent/internal/config"
	"github.com/dharmasatrya/flightagent/internal/handler"
	"github.com/dharmasatrya/flightagent/internal/memory"
	"github.com/dharmasatrya/flightagent/internal/ratelimit"
	"github.com/dharmasatrya/flightagent/internal/region"
	"github.com/dharmasatrya/flightagent/internal/search"
	"github.com/dharmasatrya/flightagent/internal/summarizer"
	"github.com/dharmasatrya/flightagent/internal/tracing"
)

func main() {
	_ = godotenv.Load(".env")

	cfg := config.MustLoad()
	log := setupLogger(cfg.LogLevel)
	defer func() {
		_ = log.Sync()
	}()

	if cfg.Jaeger != "" {
		tp, err := tracing.InitTracer("flight-orchestrator", cfg.Jaeger)
		if err != nil {
			log.Fatal("failed to init tracer", zap.Error(err))
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := tp.Shutdown(shutdownCtx); err != nil {
				log.Warn("failed to shutdown tracer provider", zap.Error(err))
			}
		}()
	}

	e := echo.New()
	e.HideBanner = true

	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	e.Use(middleware.RequestID())

	searchClient := search.NewClient(search.Config{
		Endpoint:   cfg.SearchEndpoint(),
		MaxRetries: cfg.SearchMaxRetries,
		BaseDelay:  cfg.SearchBaseDelay,
		Timeout:    cfg.SearchTimeout,
	}, log)

	limiter := ratelimit.NewRegionLimiter(ratelimit.Config{
		RequestsPerSecond: cfg.RegionRPS,
		BurstSize:         cfg.RegionBurst,
	})

	agg := aggregator.New(searchClient, aggregator.Config{
		Timeout:         cfg.RequestTimeout,
		DisplayCurrency: cfg.DisplayCurrency,
		Rates:           cfg.Rates(),
		RateLimiter:     limiter,
	}, log)

	resolver := region.NewResolver(cfg.IPGeoProvider, cfg.IPGeoTimeout, log)

	var store memory.Store
	if cfg.MemoryEnabled {
		redisStore, err := memory.NewRedisStore(memory.RedisConfig{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
			TTL:      cfg.MemoryTTL,
		})
		if err != nil {
			log.Fatal("failed to connect to redis", zap.Error(err))
		}
		store = redisStore
		log.Info("session memory enabled",
			zap.String("addr", cfg.RedisAddr),
			zap.Duration("ttl", cfg.MemoryTTL))
	} else {
		store = memory.NewNoOpStore()
		log.Info("session memory disabled")
	}
	defer func() {
		_ = store.Close()
	}()

	agentHandler := handler.NewAgentHandler(resolver, agg, store, summarizer.NewTextSummarizer(), log)

	api := e.Group("/agent")
	api.POST("/query", agentHandler.Query)
	api.POST("/search", agentHandler.StructuredSearch)
	api.GET("/history", agentHandler.History)
	api.DELETE("/history", agentHandler.ClearHistory)
	e.GET("/health", handler.HealthHandler)

	log.Info("starting flight orchestrator",
		zap.String("port", cfg.Port),
		zap.String("search_endpoint", cfg.SearchEndpoint()))

	if err := e.Start(":" + cfg.Port); err != nil {
		log.Fatal("server stopped", zap.Error(err))
	}
}

func setupLogger(level string) *zap.Logger {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(parseLogLevel(level))

	log, err := cfg.Build()
	if err != nil {
		panic(err)
	}

	return log
}

func parseLogLevel(level string) zapcore.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return zapcore.DebugLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}
