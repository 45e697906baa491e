// Package store abre el backend de persistencia configurado y expone los
// repositorios del dominio.
package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dropDatabas3/agencyhub/internal/domain/repository"
	"github.com/dropDatabas3/agencyhub/internal/observability/logger"
	"github.com/dropDatabas3/agencyhub/internal/store/memory"
	"github.com/dropDatabas3/agencyhub/internal/store/pg"
)

type Config struct {
	Driver   string // memory | postgres
	DSN      string
	Postgres struct {
		MaxOpenConns, MaxIdleConns int
		ConnMaxLifetime            string
	}
	// Migrate aplica el schema embebido al abrir (solo postgres).
	Migrate bool
}

// Stores agrupa los repositorios abiertos sobre un mismo backend.
type Stores struct {
	Driver  string
	Users   repository.UserRepository
	Tenants repository.TenantRepository
	Tokens  repository.RefreshTokenRepository
	Invites repository.InviteRepository

	Ping  func(context.Context) error
	Close func() error
}

type backend interface {
	Users() repository.UserRepository
	Tenants() repository.TenantRepository
	Tokens() repository.RefreshTokenRepository
	Invites() repository.InviteRepository
	Ping(context.Context) error
	Close() error
}

func fromBackend(driver string, b backend) *Stores {
	return &Stores{
		Driver:  driver,
		Users:   b.Users(),
		Tenants: b.Tenants(),
		Tokens:  b.Tokens(),
		Invites: b.Invites(),
		Ping:    b.Ping,
		Close:   b.Close,
	}
}

// Open abre el driver pedido.
func Open(ctx context.Context, cfg Config) (*Stores, error) {
	log := logger.From(ctx).With(logger.Layer("store"), logger.Op("Open"))

	switch d := strings.ToLower(cfg.Driver); d {
	case "", "memory", "mem":
		log.Info("using in-memory store")
		return fromBackend("memory", memory.New()), nil

	case "postgres", "pg", "postgresql":
		pc := pg.PoolConfig{
			MaxOpenConns: cfg.Postgres.MaxOpenConns,
			MaxIdleConns: cfg.Postgres.MaxIdleConns,
		}
		if cfg.Postgres.ConnMaxLifetime != "" {
			if dur, err := time.ParseDuration(cfg.Postgres.ConnMaxLifetime); err == nil {
				pc.ConnMaxLifetime = dur
			}
		}
		s, err := pg.Open(ctx, cfg.DSN, pc)
		if err != nil {
			return nil, err
		}
		if cfg.Migrate {
			applied, err := s.Migrate(ctx)
			if err != nil {
				_ = s.Close()
				return nil, fmt.Errorf("store: migrate: %w", err)
			}
			log.Info("migrations applied", logger.Any("versions", applied))
		}
		return fromBackend("postgres", s), nil

	default:
		return nil, fmt.Errorf("unsupported driver: %s", cfg.Driver)
	}
}
