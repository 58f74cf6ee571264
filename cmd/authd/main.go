// Command authd runs the authentication service: Kakao OAuth login with
// PKCE, JWT session tokens with refresh rotation, and the supporting HTTP
// API. Configuration comes entirely from the environment (or a local .env).
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/resumake/authkit/handler"
	"github.com/resumake/authkit/migrations"
	"github.com/resumake/authkit/pkg/auth"
	"github.com/resumake/authkit/pkg/blacklist"
	"github.com/resumake/authkit/pkg/config"
	"github.com/resumake/authkit/pkg/cookie"
	"github.com/resumake/authkit/pkg/httpserver"
	"github.com/resumake/authkit/pkg/jwt"
	"github.com/resumake/authkit/pkg/logger"
	"github.com/resumake/authkit/pkg/pg"
	"github.com/resumake/authkit/pkg/redis"
	"github.com/resumake/authkit/pkg/statestore"
)

type appConfig struct {
	// StateBackend selects where pending login states live: "redis" for
	// multi-instance deployments, "memory" for a single process.
	StateBackend string `env:"OAUTH_STATE_BACKEND" envDefault:"redis"`
}

func main() {
	if err := run(); err != nil {
		slog.Error("authd exited", logger.Error(err))
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var logCfg logger.Config
	if err := config.Load(&logCfg); err != nil {
		return err
	}
	log := logger.New(logCfg)

	var (
		appCfg   appConfig
		srvCfg   httpserver.Config
		authCfg  auth.Config
		kakaoCfg auth.KakaoConfig
		pgCfg    pg.Config
	)
	if err := config.Load(&appCfg); err != nil {
		return err
	}
	if err := config.Load(&srvCfg); err != nil {
		return err
	}
	if err := config.Load(&authCfg); err != nil {
		return err
	}
	if err := config.Load(&kakaoCfg); err != nil {
		return err
	}
	if err := config.Load(&pgCfg); err != nil {
		return err
	}

	pool, err := pg.Connect(ctx, pgCfg)
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := pg.Migrate(ctx, pool, migrations.FS, ".", log); err != nil {
		return err
	}

	codec, err := jwt.New([]byte(authCfg.SigningKey))
	if err != nil {
		return err
	}

	healthchecks := []func(context.Context) error{pg.Healthcheck(pool)}

	var states statestore.Store
	switch appCfg.StateBackend {
	case "memory":
		memStates := statestore.NewMemoryStore(authCfg.StateTTL)
		defer memStates.Close()
		states = memStates
	default:
		var redisCfg redis.Config
		if err := config.Load(&redisCfg); err != nil {
			return err
		}
		client, err := redis.Connect(ctx, redisCfg)
		if err != nil {
			return err
		}
		defer func() { _ = client.Close() }()
		states = statestore.NewRedisStore(client, authCfg.StateTTL)
		healthchecks = append(healthchecks, redis.Healthcheck(client))
	}

	var transport auth.Transport = auth.NewBodyTransport()
	if authCfg.UseCookie {
		transport = auth.NewCookieTransport(cookie.New(
			cookie.WithDomain(authCfg.CookieDomain),
			cookie.WithSecure(authCfg.CookieSecure),
			cookie.WithSameSite(parseSameSite(authCfg.CookieSameSite)),
		))
	}

	users := auth.NewPostgresUserStore(pool)
	tokens := auth.NewTokenManager(codec, users, blacklist.NewPostgresStore(pool), transport,
		auth.WithTokenTTLs(authCfg.AccessTokenTTL, authCfg.RefreshTokenTTL),
		auth.WithTokenLogger(log),
	)
	provider := auth.NewKakaoProvider(kakaoCfg, auth.WithKakaoLogger(log))
	svc := auth.NewService(provider, states, users, tokens, authCfg.AllowedRedirectURIs,
		auth.WithServiceLogger(log),
	)

	go tokens.RunCleanup(ctx, authCfg.CleanupInterval)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Mount("/", handler.NewAuthHandler(svc, handler.WithLogger(log)).Routes())
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/healthz", httpserver.HealthHandler(healthchecks...))

	return httpserver.New(srvCfg, httpserver.WithLogger(log)).Run(ctx, r)
}

func parseSameSite(mode string) http.SameSite {
	switch mode {
	case "strict":
		return http.SameSiteStrictMode
	case "none":
		return http.SameSiteNoneMode
	default:
		return http.SameSiteLaxMode
	}
}
