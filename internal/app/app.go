// Package app связывает конфигурацию, хранилища и HTTP-серверы сервиса каталога.
package app

import (
	"context"
	"errors"
	"net"
	"net/http"
	"slices"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/catalog/internal/catalog"
	healthcheck "github.com/vladislavdragonenkov/catalog/internal/health"
	"github.com/vladislavdragonenkov/catalog/internal/metrics"
	httpsvc "github.com/vladislavdragonenkov/catalog/internal/service/http"
	"github.com/vladislavdragonenkov/catalog/internal/version"
)

// Run поднимает API и служебный сервер и блокируется до отмены ctx или сбоя API.
func Run(ctx context.Context, cfg Config) error {
	logger := log.WithField("component", "app")

	deps, err := initRuntimeDependencies(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer deps.close(logger)

	api := buildAPI(deps, metrics.NewStoreMetrics(), logger)

	healthHandler := healthcheck.NewHandler(version.GetVersion())
	for name, c := range deps.checks {
		healthHandler.Register(name, c.critical, c.ping)
	}
	metricsSrv := startMetricsServer(ctx, cfg.MetricsAddr, logger, healthHandler)

	lis, err := net.Listen("tcp", cfg.HTTPAddr)
	if err != nil {
		shutdownHTTP(metricsSrv, cfg.ShutdownTimeout, logger)
		return err
	}

	apiSrv := &http.Server{
		Handler:           api,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Infof("HTTP API слушает %s", lis.Addr())
		errCh <- apiSrv.Serve(lis)
	}()

	select {
	case <-ctx.Done():
		logger.Info("получен сигнал остановки, останавливаем HTTP API")
		shutdownHTTP(apiSrv, cfg.ShutdownTimeout, logger)
		shutdownHTTP(metricsSrv, cfg.ShutdownTimeout, logger)
		return ctx.Err()
	case err := <-errCh:
		shutdownHTTP(metricsSrv, cfg.ShutdownTimeout, logger)
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// buildAPI собирает хранилища каталога и HTTP-обработчик поверх зависимостей.
func buildAPI(deps *runtimeDependencies, storeMetrics *metrics.StoreMetrics, logger *log.Entry) http.Handler {
	options := []catalog.Option{
		catalog.WithMetrics(storeMetrics),
		catalog.WithPublisher(deps.publisher),
	}
	if deps.cache != nil {
		options = append(options, catalog.WithCache(deps.cache))
	}

	withLayer := func(layer string) []catalog.Option {
		return append(slices.Clone(options), catalog.WithLogger(logger.WithField("layer", layer)))
	}

	products := catalog.NewProductStore(deps.productRepo, withLayer("product-store")...)
	orders := catalog.NewOrderStore(deps.orderRepo, products.Resolver(), withLayer("order-store")...)

	return httpsvc.NewHandler(products, orders, logger.WithField("layer", "http")).Routes()
}

// startMetricsServer запускает служебный HTTP-сервер: /metrics и health probes.
func startMetricsServer(ctx context.Context, addr string, logger *log.Entry, healthHandler *healthcheck.Handler) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/healthz", healthHandler)
	mux.HandleFunc("/readyz", healthHandler.ReadinessHandler)
	mux.HandleFunc("/livez", healthcheck.LivenessHandler)

	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		logger.Infof("метрики доступны по адресу %s/metrics", addr)
		logger.Infof("health checks: %s/healthz, %s/readyz, %s/livez", addr, addr, addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Warn("metrics server failed")
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownHTTP(srv, 0, logger)
	}()

	return srv
}

// shutdownHTTP аккуратно останавливает HTTP-сервер.
func shutdownHTTP(srv *http.Server, timeout time.Duration, logger *log.Entry) {
	if srv == nil {
		return
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.WithError(err).Warn("http shutdown with error")
	}
}
