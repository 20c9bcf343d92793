// Package bootstrap assembles configuration, infrastructure and the
// HTTP server. Dependencies are injectable so tests can stub any stage.
package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"time"

	"github.com/spectral-labs/auth-api/internal/application/auth"
	"github.com/spectral-labs/auth-api/internal/config"
	"github.com/spectral-labs/auth-api/internal/infrastructure/db/postgres"
	"github.com/spectral-labs/auth-api/internal/infrastructure/memory"
	"github.com/spectral-labs/auth-api/internal/infrastructure/messaging/rabbitmq"
	"github.com/spectral-labs/auth-api/internal/infrastructure/redis"
	"github.com/spectral-labs/auth-api/internal/infrastructure/security"
	"github.com/spectral-labs/auth-api/internal/logger"
	"github.com/spectral-labs/auth-api/internal/transport/http/handlers"
	"github.com/spectral-labs/auth-api/internal/transport/http/middleware"
	"github.com/spectral-labs/auth-api/internal/transport/http/router"
)

const bcryptCost = 12

// Deps are the buildable stages of the server. Zero values use the
// production implementations.
type Deps struct {
	LoadConfig   func() (*config.Config, error)
	NewDB        func(dsn string, debug bool) (*sql.DB, error)
	NewRedis     func(addr string) (*redis.Client, error)
	NewPublisher func(url string) (auth.EventPublisher, error)
}

func (d Deps) withDefaults() Deps {
	if d.LoadConfig == nil {
		d.LoadConfig = config.Load
	}
	if d.NewDB == nil {
		d.NewDB = config.NewDB
	}
	if d.NewRedis == nil {
		d.NewRedis = redis.New
	}
	if d.NewPublisher == nil {
		d.NewPublisher = func(url string) (auth.EventPublisher, error) {
			return rabbitmq.NewPublisher(url)
		}
	}
	return d
}

// Server is a built HTTP server plus the teardown for everything it owns.
type Server struct {
	HTTP    *http.Server
	cleanup []func()
}

func (s *Server) Close() {
	for i := len(s.cleanup) - 1; i >= 0; i-- {
		s.cleanup[i]()
	}
}

// NewServer builds the full dependency graph: config, database with
// migrations, optional Redis and RabbitMQ, then the HTTP stack.
func NewServer(ctx context.Context, d Deps) (*Server, error) {
	d = d.withDefaults()
	srv := &Server{}

	cfg, err := d.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	db, err := d.NewDB(cfg.DBDSN, cfg.DBDebug)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	srv.cleanup = append(srv.cleanup, func() { _ = db.Close() })

	if err := postgres.RunMigrations(ctx, db); err != nil {
		srv.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	// Redis is optional; without it the API runs unthrottled.
	var limiterClient *redis.Client
	if cfg.RedisAddr != "" {
		limiterClient, err = d.NewRedis(cfg.RedisAddr)
		if err != nil {
			logger.Logger.Warn().Err(err).Str("addr", cfg.RedisAddr).
				Msg("redis unavailable, rate limiting disabled")
		} else {
			srv.cleanup = append(srv.cleanup, func() { _ = limiterClient.Close() })
		}
	}

	// RabbitMQ is optional in dev; events fall back to the noop publisher.
	var pub auth.EventPublisher = memory.NewNoopPublisher()
	if cfg.RabbitURL != "" {
		p, err := d.NewPublisher(cfg.RabbitURL)
		if err != nil {
			if cfg.Env == "prod" {
				srv.Close()
				return nil, fmt.Errorf("connect rabbitmq: %w", err)
			}
			logger.Logger.Warn().Err(err).Msg("rabbitmq unavailable, events disabled")
		} else {
			pub = p
			if closer, ok := p.(interface{ Close() error }); ok {
				srv.cleanup = append(srv.cleanup, func() { _ = closer.Close() })
			}
		}
	}

	signer := security.NewJWTSigner(cfg.JWTSecret, cfg.JWTIssuer)
	svc := auth.NewService(
		postgres.NewUserRepo(db),
		security.NewBcryptHasher(bcryptCost),
		signer,
		pub,
		auth.Config{TokenTTL: cfg.TokenTTL},
	)

	var registerLimiter, loginLimiter middleware.RateLimiter
	if limiterClient != nil {
		registerLimiter = redis.NewFixedWindowLimiter(limiterClient, 10, time.Hour)
		loginLimiter = redis.NewFixedWindowLimiter(limiterClient, 10, time.Minute)
	}

	handler := router.New(router.Deps{
		Auth:            handlers.NewAuthHandler(svc, cfg.Env != "dev"),
		Health:          handlers.NewHealthHandler(db),
		Authenticator:   middleware.NewAuthenticator(signer),
		RegisterLimiter: registerLimiter,
		LoginLimiter:    loginLimiter,
	})

	srv.HTTP = &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      handler,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}
	return srv, nil
}
