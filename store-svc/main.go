package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"foodflow/config"
	"foodflow/pkg/logger"
	httpapi "foodflow/store-svc/internal/api/http"
	"foodflow/store-svc/internal/metrics"
	"foodflow/store-svc/internal/service"
	"foodflow/store-svc/internal/state"
	"foodflow/store-svc/internal/storage"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

const serviceName = "store-svc"

const shutdownTimeout = 10 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: serviceName, Level: logger.ParseLevel("")})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: serviceName,
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		Format:      cfg.App.LogFormat,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = logg.WithField(ctx, "env", cfg.App.Env)

	if err := run(ctx, cfg, logg); err != nil {
		logg.Error(ctx, "store service stopped unexpectedly", err)
		os.Exit(1)
	}
	logg.Info(ctx, "store service shut down gracefully")
}

// app is the wired service: one store for the session, the services around
// it and whatever external clients were enabled.
type app struct {
	store       *state.Store
	handler     http.Handler
	broadcaster *service.Broadcaster
	fulfillment *service.Fulfillment
	closers     []func() error
}

func (a *app) close(ctx context.Context, logg *logger.Logger) {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			logg.Error(ctx, "error closing dependency", err)
		}
	}
}

func newApp(ctx context.Context, cfg *config.Config, logg *logger.Logger, reg *prometheus.Registry) (*app, error) {
	a := &app{store: state.NewStore()}

	repo, err := newCatalogRepository(cfg, a)
	if err != nil {
		a.close(ctx, logg)
		return nil, err
	}

	sinks, err := newSinks(ctx, cfg, logg, a)
	if err != nil {
		a.close(ctx, logg)
		return nil, err
	}

	storeMetrics := metrics.NewStoreMetrics(reg)
	a.broadcaster = service.NewBroadcaster(cfg.App.BroadcastBuffer, logg, storeMetrics, sinks...)
	a.store.Subscribe(storeMetrics.Observe)
	if len(sinks) > 0 {
		a.store.Subscribe(a.broadcaster.Listen)
	}

	catalog := service.NewCatalogService(repo, cfg.Catalog.UserID)
	checkout := service.NewCheckoutService(a.store, catalog, service.CheckoutOptions{
		PlacementDelay:     cfg.Checkout.PlacementDelay,
		DeliveryETA:        cfg.Checkout.DeliveryETA,
		TaxRate:            cfg.Checkout.TaxRate,
		DefaultDeliveryFee: cfg.Checkout.DefaultDeliveryFee,
		Partner:            storage.DefaultDeliveryPartner,
	}, logg)

	tracker := service.NewTracker(a.store, cfg.Tracking.Interval, logg)
	a.fulfillment = service.NewFulfillment(ctx, tracker)
	a.closers = append(a.closers, a.fulfillment.Close)

	qr := service.DefaultQRGenerator{BaseURL: cfg.App.BaseURL}
	handler := httpapi.NewHandler(catalog, checkout, a.fulfillment, qr, logg)
	a.handler = httpapi.NewRouter(handler, httpapi.RouterOptions{
		Store:          a.store,
		Gatherer:       reg,
		AllowedOrigins: cfg.App.CORSOrigins,
		Log:            logg,
	})
	return a, nil
}

func newCatalogRepository(cfg *config.Config, a *app) (service.CatalogRepository, error) {
	if cfg.Catalog.Source != config.CatalogSourcePostgres {
		return storage.NewFixtureRepository(), nil
	}

	db, err := config.NewPostgres(cfg.DB)
	if err != nil {
		return nil, fmt.Errorf("bootstrap postgres: %w", err)
	}
	a.closers = append(a.closers, db.Close)
	return storage.NewPostgresRepository(db), nil
}

func newSinks(ctx context.Context, cfg *config.Config, logg *logger.Logger, a *app) ([]service.EventSink, error) {
	var sinks []service.EventSink

	if cfg.Redis.Enabled {
		client, err := config.NewRedis(ctx, cfg.Redis)
		if err != nil {
			return nil, fmt.Errorf("bootstrap redis: %w", err)
		}
		a.closers = append(a.closers, client.Close)
		sinks = append(sinks, storage.NewRedisNotifier(client, cfg.Redis.Channel))
		logg.Info(logg.WithField(ctx, "channel", cfg.Redis.Channel), "publishing state snapshots to redis")
	}

	if cfg.Kafka.Enabled {
		writer := config.NewKafkaWriter(cfg.Kafka)
		a.closers = append(a.closers, writer.Close)
		sinks = append(sinks, storage.NewKafkaPublisher(writer))
		logg.Info(logg.WithField(ctx, "topic", cfg.Kafka.Topic), "publishing order events to kafka")
	}

	return sinks, nil
}

func run(ctx context.Context, cfg *config.Config, logg *logger.Logger) error {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	a, err := newApp(ctx, cfg, logg, reg)
	if err != nil {
		return err
	}
	defer a.close(ctx, logg)

	runCtx, cancelRun := context.WithCancel(ctx)
	var wg sync.WaitGroup
	defer func() {
		cancelRun()
		wg.Wait()
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		a.broadcaster.Run(runCtx)
	}()

	server := httpapi.NewServer(cfg.App.Addr(), a.handler)
	serveErr := make(chan error, 1)
	go func() {
		logg.Info(logg.WithField(ctx, "addr", server.Addr), "store service listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case <-ctx.Done():
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logg.Error(ctx, "http server shutdown", err)
	}

	a.fulfillment.Stop()
	return nil
}
