package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	healthcheck "github.com/vladislavdragonenkov/catalog/internal/health"
	"github.com/vladislavdragonenkov/catalog/internal/metrics"
	"github.com/vladislavdragonenkov/catalog/internal/version"
)

func findFreePort(t *testing.T) int {
	t.Helper()
	lis, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer lis.Close()
	return lis.Addr().(*net.TCPAddr).Port
}

func getEventually(t *testing.T, url string) *http.Response {
	t.Helper()
	var (
		resp *http.Response
		err  error
	)
	require.Eventually(t, func() bool {
		resp, err = http.Get(url)
		return err == nil
	}, 2*time.Second, 20*time.Millisecond)
	return resp
}

func TestStartMetricsServer_Endpoints(t *testing.T) {
	logger := log.WithField("test", "http")
	port := findFreePort(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	healthHandler := healthcheck.NewHandler(version.GetVersion())
	healthHandler.Register("cache", false, func(context.Context) error { return errors.New("down") })
	srv := startMetricsServer(ctx, fmt.Sprintf("127.0.0.1:%d", port), logger, healthHandler)
	defer shutdownHTTP(srv, time.Second, logger)

	base := fmt.Sprintf("http://127.0.0.1:%d", port)

	resp := getEventually(t, base+"/metrics")
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NotEmpty(t, body)

	for path, want := range map[string]int{
		"/healthz": http.StatusOK,
		"/readyz":  http.StatusOK,
		"/livez":   http.StatusOK,
	} {
		resp, err := http.Get(base + path)
		require.NoError(t, err, path)
		resp.Body.Close()
		require.Equal(t, want, resp.StatusCode, path)
	}
}

func TestBuildAPI_ServesCatalog(t *testing.T) {
	logger := log.WithField("test", "api")
	deps, err := initRuntimeDependencies(context.Background(), Config{StorageDriver: StorageDriverMemory}, logger)
	require.NoError(t, err)

	storeMetrics := metrics.NewStoreMetricsWithRegisterer(prometheus.NewRegistry())
	srv := httptest.NewServer(buildAPI(deps, storeMetrics, logger))
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/products", "application/json", strings.NewReader(`{"name":"Lamp","price":"3.10"}`))
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, err = http.Get(srv.URL + "/products")
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "1", resp.Header.Get("X-Total-Count"))
}

func TestRun_StopsOnContextCancel(t *testing.T) {
	cfg := DefaultConfig()
	cfg.HTTPAddr = fmt.Sprintf("127.0.0.1:%d", findFreePort(t))
	cfg.MetricsAddr = fmt.Sprintf("127.0.0.1:%d", findFreePort(t))
	cfg.ShutdownTimeout = time.Second

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- Run(ctx, cfg) }()

	resp := getEventually(t, "http://"+cfg.HTTPAddr+"/orders")
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	cancel()
	select {
	case err := <-done:
		require.ErrorIs(t, err, context.Canceled)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not stop after cancel")
	}
}

func TestRun_FailsOnBusyPort(t *testing.T) {
	lis, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer lis.Close()

	cfg := DefaultConfig()
	cfg.HTTPAddr = lis.Addr().String()
	cfg.MetricsAddr = fmt.Sprintf("127.0.0.1:%d", findFreePort(t))

	require.Error(t, Run(context.Background(), cfg))
}
