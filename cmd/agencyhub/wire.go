package main

import (
	"context"
	"fmt"
	"net/netip"
	"strings"

	rdb "github.com/redis/go-redis/v9"

	"github.com/dropDatabas3/agencyhub/internal/auth"
	"github.com/dropDatabas3/agencyhub/internal/config"
	"github.com/dropDatabas3/agencyhub/internal/email"
	mw "github.com/dropDatabas3/agencyhub/internal/http/middlewares"
	jwtx "github.com/dropDatabas3/agencyhub/internal/jwt"
	"github.com/dropDatabas3/agencyhub/internal/lockout"
	"github.com/dropDatabas3/agencyhub/internal/observability/logger"
	"github.com/dropDatabas3/agencyhub/internal/rate"
	"github.com/dropDatabas3/agencyhub/internal/security/password"
	"github.com/dropDatabas3/agencyhub/internal/store"
)

// app agrupa las dependencias construidas desde la config.
type app struct {
	cfg     *config.Config
	stores  *store.Stores
	redis   *rdb.Client // nil si no se configuró
	signer  *jwtx.Signer
	auth    *auth.Service
	limiter rate.Limiter // nil = rate limit apagado
	proxies []netip.Prefix
}

func openStores(ctx context.Context, cfg *config.Config, migrate bool) (*store.Stores, error) {
	sc := store.Config{Driver: cfg.Storage.Driver, DSN: cfg.Storage.DSN, Migrate: migrate}
	sc.Postgres.MaxOpenConns = cfg.Storage.Postgres.MaxOpenConns
	sc.Postgres.MaxIdleConns = cfg.Storage.Postgres.MaxIdleConns
	sc.Postgres.ConnMaxLifetime = cfg.Storage.Postgres.ConnMaxLifetime
	return store.Open(ctx, sc)
}

func buildApp(ctx context.Context, cfg *config.Config) (*app, error) {
	log := logger.L().With(logger.Component("wire"))
	a := &app{cfg: cfg}

	var err error
	if a.stores, err = openStores(ctx, cfg, true); err != nil {
		return nil, fmt.Errorf("store: %w", err)
	}

	if strings.TrimSpace(cfg.Redis.Addr) != "" {
		a.redis = rdb.NewClient(&rdb.Options{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
		if err := a.redis.Ping(ctx).Err(); err != nil {
			a.close()
			return nil, fmt.Errorf("redis ping: %w", err)
		}
	}

	var lstore lockout.Store
	if cfg.Lockout.Store == "redis" {
		lstore = lockout.NewRedisStore(a.redis, cfg.Redis.Prefix)
	} else {
		lstore = lockout.NewMemoryStore(cfg.LockoutDuration)
	}
	tracker := lockout.NewTracker(lstore, lockout.Options{
		MaxAttempts: cfg.Lockout.MaxAttempts,
		Duration:    cfg.LockoutDuration,
	})

	if a.signer, err = jwtx.NewSigner(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.AccessTTL); err != nil {
		a.close()
		return nil, err
	}

	var sender email.Sender = email.LogSender{}
	if cfg.SMTP.Host != "" {
		sender = email.NewSMTPSender(email.SMTPConfig{
			Host:               cfg.SMTP.Host,
			Port:               cfg.SMTP.Port,
			From:               cfg.SMTP.From,
			Username:           cfg.SMTP.Username,
			Password:           cfg.SMTP.Password,
			TLSMode:            cfg.SMTP.TLS,
			InsecureSkipVerify: cfg.SMTP.InsecureSkipVerify,
		})
	} else {
		log.Info("smtp not configured, emails go to the log")
	}
	notifier, err := email.NewNotifier(sender, cfg.Email.BaseURL)
	if err != nil {
		a.close()
		return nil, err
	}

	blacklist, err := password.LoadBlacklist(cfg.Security.PasswordBlacklistPath)
	if err != nil {
		a.close()
		return nil, fmt.Errorf("password blacklist: %w", err)
	}
	pp := cfg.Security.PasswordPolicy
	policy := password.Policy{
		MinLength:     pp.MinLength,
		RequireUpper:  pp.RequireUpper,
		RequireLower:  pp.RequireLower,
		RequireDigit:  pp.RequireDigit,
		RequireSymbol: pp.RequireSymbol,
		Blacklist:     blacklist,
	}

	a.auth, err = auth.NewService(auth.Deps{
		Users:      a.stores.Users,
		Tenants:    a.stores.Tenants,
		Tokens:     a.stores.Tokens,
		Invites:    a.stores.Invites,
		Hasher:     password.NewHasher(cfg.Security.BcryptCost),
		Policy:     policy,
		Signer:     a.signer,
		Tracker:    tracker,
		Notifier:   notifier,
		RefreshTTL: cfg.RefreshTTL,
	})
	if err != nil {
		a.close()
		return nil, err
	}

	if cfg.Rate.Enabled {
		if a.redis != nil {
			// ventana fija equivalente al bucket: burst requests cada burst/rps
			window := rate.WindowFor(cfg.Rate.RPS, cfg.Rate.Burst)
			a.limiter = rate.NewRedisLimiter(a.redis, cfg.Redis.Prefix, cfg.Rate.Burst, window)
		} else {
			a.limiter = rate.NewMemoryLimiter(cfg.Rate.RPS, cfg.Rate.Burst)
		}
	}

	if a.proxies, err = mw.ParseTrustedProxies(cfg.Server.TrustedProxies); err != nil {
		a.close()
		return nil, err
	}

	log.Info("app wired",
		logger.String("store", a.stores.Driver),
		logger.String("lockout_store", cfg.Lockout.Store),
		logger.Any("rate_limit", cfg.Rate.Enabled),
		logger.Int("password_blacklist", blacklist.Len()),
		logger.Int("trusted_proxies", len(a.proxies)),
	)
	return a, nil
}

func (a *app) close() {
	if a.redis != nil {
		_ = a.redis.Close()
	}
	if a.stores != nil {
		_ = a.stores.Close()
	}
}
