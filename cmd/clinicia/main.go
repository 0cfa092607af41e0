package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	rdb "github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/clinicia-hq/clinicia-server/internal/auth"
	"github.com/clinicia-hq/clinicia-server/internal/cache"
	memcache "github.com/clinicia-hq/clinicia-server/internal/cache/memory"
	rediscache "github.com/clinicia-hq/clinicia-server/internal/cache/redis"
	"github.com/clinicia-hq/clinicia-server/internal/config"
	sessiondto "github.com/clinicia-hq/clinicia-server/internal/http/dto/session"
	"github.com/clinicia-hq/clinicia-server/internal/http/router"
	"github.com/clinicia-hq/clinicia-server/internal/metrics"
	"github.com/clinicia-hq/clinicia-server/internal/notify"
	"github.com/clinicia-hq/clinicia-server/internal/observability/logger"
	"github.com/clinicia-hq/clinicia-server/internal/rate"
	"github.com/clinicia-hq/clinicia-server/internal/store/pg"
)

// version se setea en build time con -ldflags.
var version = "dev"

func main() {
	configPath := flag.String("config", os.Getenv("CONFIG_PATH"), "ruta al config YAML (opcional)")
	flag.Parse()

	// .env es opcional: en prod todo viene del entorno.
	_ = godotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Init(logger.Config{Env: "dev", ServiceName: "clinicia"})
		logger.L().Fatal("config inválida", logger.Err(err))
	}

	logger.Init(logger.Config{
		Env:         cfg.App.Env,
		Level:       cfg.App.LogLevel,
		ServiceName: "clinicia",
		Version:     version,
	})
	defer func() { _ = logger.Sync() }()
	log := logger.L()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Storage
	store, err := pg.New(ctx, cfg.Storage.DSN, pg.Config{
		MaxOpenConns:    cfg.Storage.Postgres.MaxOpenConns,
		MinConns:        cfg.Storage.Postgres.MinConns,
		ConnMaxLifetime: config.Dur(cfg.Storage.Postgres.ConnMaxLifetime),
	})
	if err != nil {
		log.Fatal("postgres no disponible", logger.Err(err))
	}
	defer store.Close()

	// Cache + rate limiter
	var (
		appCache     cache.Cache
		loginLimiter rate.Limiter
		redisCheck   func(context.Context) error
	)
	switch cfg.Cache.Kind {
	case "redis":
		client := rdb.NewClient(&rdb.Options{Addr: cfg.Cache.Redis.Addr, DB: cfg.Cache.Redis.DB})
		appCache = rediscache.New(client, cfg.Cache.Redis.Prefix)
		redisCheck = func(ctx context.Context) error { return client.Ping(ctx).Err() }
		if cfg.Rate.Enabled {
			loginLimiter = rate.NewRedisLimiter(client, cfg.Cache.Redis.Prefix+"rate:",
				cfg.Rate.Login.Limit, config.Dur(cfg.Rate.Login.Window))
		}
		defer func() { _ = client.Close() }()
	default:
		appCache = memcache.New(config.Dur(cfg.Cache.Memory.DefaultTTL))
		if cfg.Rate.Enabled {
			loginLimiter = rate.NewMemoryLimiter(cfg.Rate.Login.Limit, config.Dur(cfg.Rate.Login.Window))
		}
	}

	// Identity + portal tokens
	verifier := auth.NewJWKSVerifier(auth.JWKSVerifierConfig{
		JWKSURL:  cfg.Identity.JWKSURL,
		Issuer:   cfg.Identity.Issuer,
		Audience: cfg.Identity.Audience,
		KeyTTL:   config.Dur(cfg.Identity.KeyTTL),
	})
	resolver := auth.NewSessionResolver(store)
	portalTokens := auth.NewPortalTokens([]byte(cfg.Portal.TokenSecret), config.Dur(cfg.Portal.TokenTTL))

	// Notificaciones (best-effort)
	var notifier notify.Notifier = notify.Noop{}
	if cfg.SMTP.Host != "" {
		notifier = notify.NewSMTPNotifier(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.From, cfg.SMTP.User, cfg.SMTP.Pass)
	}

	if cfg.Metrics.Enabled {
		if err := metrics.Register(nil); err != nil {
			log.Warn("registro de métricas falló", logger.Err(err))
		}
	}

	handler := router.New(router.Deps{
		Store:        store,
		Verifier:     verifier,
		Resolver:     resolver,
		PortalTokens: portalTokens,
		Cache:        appCache,
		Notifier:     notifier,
		LoginLimiter: loginLimiter,
		Cookie: sessiondto.CookieConfig{
			Name:     cfg.Auth.Session.CookieName,
			SameSite: cfg.Auth.Session.SameSite,
			Secure:   cfg.Auth.Session.Secure || cfg.App.Env == "prod",
			MaxAge:   int(config.Dur(cfg.Auth.Session.TTL).Seconds()),
		},
		LoginPath:      cfg.Auth.LoginPath,
		HomePath:       cfg.Auth.HomePath,
		Version:        version,
		MetricsEnabled: cfg.Metrics.Enabled,
		RedisCheck:     redisCheck,
		PortalTokenTTL: config.Dur(cfg.Portal.TokenTTL),
	})

	srv := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      handler,
		ReadTimeout:  config.Dur(cfg.Server.ReadTimeout),
		WriteTimeout: config.Dur(cfg.Server.WriteTimeout),
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("server escuchando",
			logger.String("addr", cfg.Server.Addr),
			logger.String("env", cfg.App.Env),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		log.Info("apagando server")
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Fatal("server terminó con error", logger.Err(err))
	}
}
