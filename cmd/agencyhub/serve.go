package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/dropDatabas3/agencyhub/internal/config"
	"github.com/dropDatabas3/agencyhub/internal/http/controllers"
	mw "github.com/dropDatabas3/agencyhub/internal/http/middlewares"
	"github.com/dropDatabas3/agencyhub/internal/http/router"
	"github.com/dropDatabas3/agencyhub/internal/metrics"
	"github.com/dropDatabas3/agencyhub/internal/observability/logger"
)

const shutdownTimeout = 15 * time.Second

func newServeCmd(load configLoader) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Levanta el servidor HTTP",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return serve(ctx, cfg)
		},
	}
}

func serve(ctx context.Context, cfg *config.Config) error {
	log := logger.L().With(logger.Component("serve"))

	a, err := buildApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.close()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	if err := metrics.RegisterAuth(reg); err != nil {
		return err
	}
	metricsHandler, err := mw.RegisterMetrics(reg)
	if err != nil {
		return err
	}

	checks := map[string]controllers.Pinger{"store": a.stores.Ping}
	if a.redis != nil {
		checks["redis"] = func(ctx context.Context) error { return a.redis.Ping(ctx).Err() }
	}

	srv := &http.Server{
		Addr: a.cfg.Server.Addr,
		Handler: router.New(router.Deps{
			Auth:     a.auth,
			Tenants:  a.stores.Tenants,
			Verifier: a.signer,
			Limiter:  a.limiter,
			Metrics:  metricsHandler,
			Checks:   checks,

			TrustedProxies: a.proxies,
		}),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("http listening", logger.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		runTokenCleanup(gctx, a, a.cfg.CleanupInterval)
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down")
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(sctx)
	})

	return g.Wait()
}

// runTokenCleanup purga refresh tokens vencidos cada interval hasta que ctx termine.
func runTokenCleanup(ctx context.Context, a *app, interval time.Duration) {
	if interval <= 0 {
		return
	}
	log := logger.L().With(logger.Component("tokens.cleanup"))
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			n, err := a.auth.CleanupExpiredTokens(ctx)
			if err != nil {
				log.Warn("cleanup failed", logger.Err(err))
				continue
			}
			if n > 0 {
				log.Info("expired refresh tokens removed", logger.Int("count", n))
			}
		}
	}
}
