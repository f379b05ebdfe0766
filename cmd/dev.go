package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"

	"modulith/internal/api"
	"modulith/internal/config"
	"modulith/internal/registry"
	"modulith/internal/worker"
	"modulith/pkg/auth"
	"modulith/pkg/events"
	"modulith/pkg/logger"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	otelprom "go.opentelemetry.io/otel/exporters/prometheus"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.uber.org/zap"
)

func setupServer(ctx context.Context,
	cfg *config.Config,
	reg *registry.Registry,
	tokens *auth.TokenManager,
	mp *sdkmetric.MeterProvider) func(ctx context.Context) {
	server, err := api.NewServer(api.Deps{
		Registry:      reg,
		TokenManager:  tokens,
		MeterProvider: mp,
	}, api.NewOptions(cfg))
	if err != nil {
		logger.Fatal(ctx, "could not create webserver", zap.Error(err))
	}

	go func() {
		logger.Info(ctx, "starting webserver...")
		if err := server.ListenAndServe(); err != nil {
			if !errors.Is(err, http.ErrServerClosed) {
				logger.Error(ctx, "could not start webserver", zap.Error(err))
			}
		}
	}()

	return func(ctx context.Context) {
		logger.Info(ctx, "stopping webserver...")
		if err := server.Shutdown(ctx); err != nil {
			logger.Error(ctx, "could not stop webserver", zap.Error(err))
		}
	}
}

// devCommand constructs the 'dev' subcommand: it seeds the installed domains,
// starts the background workers and serves the API until interrupted.
func devCommand(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dev",
		Short: "Seeds installed domains, then starts the API server and background workers",
		Run: func(_ *cobra.Command, _ []string) {
			ctx, _ := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)

			strg, closeStrg := getPostgres(ctx, cfg)
			defer closeStrg()

			exp, err := otelprom.New(otelprom.WithRegisterer(prometheus.DefaultRegisterer))
			if err != nil {
				logger.Fatal(ctx, "could not create otel exporter", zap.Error(err))
			}
			mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(exp))

			reg, tokens := getRegistry(ctx, cfg, strg)

			// subscriptions happen once at startup; the bus is sealed afterwards
			bus := events.NewBus(events.Options{MeterProvider: mp})
			if err := reg.RegisterEventHandlers(bus); err != nil {
				logger.Fatal(ctx, "could not register event handlers", zap.Error(err))
			}
			bus.Freeze()

			if err := reg.Seed(ctx, strg); err != nil {
				logger.Fatal(ctx, "could not seed domains", zap.Error(err))
			}

			riverClient, err := worker.Start(ctx, strg.Pool, bus, worker.NewOptions(cfg))
			if err != nil {
				logger.Fatal(ctx, "could not start workers", zap.Error(err))
			}

			stopWebserver := setupServer(ctx, cfg, reg, tokens, mp)

			// wait for interrupt
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.GracefulShutdownTimeout)
			defer cancel()

			stopWebserver(shutdownCtx)

			logger.Info(shutdownCtx, "stopping workers...")
			if err := riverClient.Stop(shutdownCtx); err != nil {
				logger.Error(shutdownCtx, "could not stop workers", zap.Error(err))
			}
		},
	}

	return cmd
}
