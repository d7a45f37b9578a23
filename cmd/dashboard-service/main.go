package main

import (
	"context"
	"net/http"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/agendahub/dashboard/internal/config"
	"github.com/agendahub/dashboard/internal/events"
	"github.com/agendahub/dashboard/internal/handlers"
	"github.com/agendahub/dashboard/internal/httpx"
	"github.com/agendahub/dashboard/internal/identity"
	"github.com/agendahub/dashboard/internal/notify"
	"github.com/agendahub/dashboard/internal/otelx"
	"github.com/agendahub/dashboard/internal/runtime"
	"github.com/agendahub/dashboard/internal/session"
	"github.com/agendahub/dashboard/internal/snapshot"
	"github.com/agendahub/dashboard/internal/terms"
	"github.com/agendahub/dashboard/internal/upstream"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	logger := runtime.NewLogger(cfg.ServiceName)

	ctx, stop := runtime.SignalContext()
	defer stop()

	otelShutdown, err := otelx.Setup(ctx, otelx.ConfigFromEnv(cfg.ServiceName))
	if err != nil {
		logger.Error("otel setup failed", "err", err)
	} else {
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = otelShutdown(shutdownCtx)
		}()
	}

	var rdb *redis.Client
	var readyChecks []runtime.ReadyCheck
	if cfg.RedisAddr != "" {
		rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		defer func() { _ = rdb.Close() }()
		readyChecks = append(readyChecks, runtime.ReadyCheck{
			Name:  "redis",
			Check: func(ctx context.Context) error { return rdb.Ping(ctx).Err() },
		})
	}
	mux := runtime.NewBaseMuxWithReady(readyChecks...)

	var jwks *identity.JWKSClient
	if cfg.JWKSURL != "" {
		jwks = identity.NewJWKSClient(cfg.JWKSURL, cfg.JWKSCacheTTL)
	}
	verifier := identity.NewVerifier(cfg.JWTSecret, jwks, cfg.Issuer, cfg.Audience)
	sessions := session.NewManager(verifier, cfg.SessionTTL, logger)

	api := upstream.NewClient(cfg.AgendaAPIURL, cfg.AgendaAPITimeout)

	var termsStore terms.Store
	if rdb != nil {
		termsStore = terms.NewRedisStore(rdb, "terms")
	} else {
		termsStore = terms.NewMemoryStore()
	}

	activity := events.NewPublisher(cfg.KafkaBrokers, cfg.ActivityEventTopic, logger)
	defer func() { _ = activity.Close() }()

	dash := handlers.NewDashboard(
		sessions,
		api,
		snapshot.NewStore(),
		notify.NewCenter(cfg.NotificationTTL),
		termsStore,
		activity,
		logger,
	)
	dash.Register(mux)
	go dash.Run(ctx)

	var rateLimitMW httpx.Middleware
	if rdb != nil {
		rl := httpx.NewRedisRateLimiter(rdb, cfg.RateLimitPerMinute, time.Minute, cfg.RateLimitPrefix)
		rateLimitMW = rl.Middleware(logger, cfg.RateLimitFailOpen)
		logger.Info("rate limiting enabled (redis)", "per_minute", cfg.RateLimitPerMinute, "redis_addr", cfg.RedisAddr)
	} else {
		rl := httpx.NewRateLimiter(cfg.RateLimitPerMinute, time.Minute)
		rateLimitMW = rl.Middleware()
		logger.Info("rate limiting enabled (in-memory)", "per_minute", cfg.RateLimitPerMinute)
	}

	handler := httpx.Chain(mux,
		httpx.WithCORS(httpx.CORSPolicy{
			AllowedOrigins:   cfg.CORSAllowedOrigins,
			AllowedMethods:   cfg.CORSAllowedMethods,
			AllowedHeaders:   cfg.CORSAllowedHeaders,
			AllowCredentials: cfg.CORSAllowCredentials,
			MaxAge:           cfg.CORSMaxAge,
		}),
		httpx.WithRequestID,
		httpx.WithAccessLog(logger),
		httpx.WithBodyLimit(cfg.RequestBodyLimit),
		httpx.WithTimeout(cfg.RequestTimeout),
		rateLimitMW,
	)
	handler = otelhttp.NewHandler(handler, "dashboard")

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("http server starting", "addr", srv.Addr, "agenda_api", cfg.AgendaAPIURL)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server error", "err", err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "err", err)
	}
	logger.Info("http server stopped")
}
