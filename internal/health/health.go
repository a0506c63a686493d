// Package health отдаёт probes /healthz, /readyz и /livez для сервиса каталога.
package health

import (
	"context"
	"encoding/json"
	"net/http"
	"sort"
	"sync"
	"time"
)

// Status — состояние компонента.
type Status string

const (
	StatusHealthy   Status = "healthy"
	StatusUnhealthy Status = "unhealthy"
	StatusDegraded  Status = "degraded"
)

const defaultCheckTimeout = 2 * time.Second

// Check — результат проверки одного компонента.
type Check struct {
	Name       string `json:"name"`
	Status     Status `json:"status"`
	Critical   bool   `json:"critical"`
	Message    string `json:"message,omitempty"`
	DurationMs int64  `json:"duration_ms"`
}

// Response — тело ответа /healthz и /readyz.
type Response struct {
	Status        Status           `json:"status"`
	Timestamp     time.Time        `json:"timestamp"`
	Checks        map[string]Check `json:"checks,omitempty"`
	Version       string           `json:"version,omitempty"`
	UptimeSeconds int64            `json:"uptime_seconds"`
}

// PingFunc проверяет зависимость: nil означает "доступна".
type PingFunc func(ctx context.Context) error

type registration struct {
	ping     PingFunc
	critical bool
}

// Handler агрегирует проверки зависимостей.
type Handler struct {
	mu        sync.RWMutex
	checks    map[string]registration
	version   string
	timeout   time.Duration
	startTime time.Time
}

// NewHandler создаёт health handler.
func NewHandler(version string) *Handler {
	return &Handler{
		checks:    make(map[string]registration),
		version:   version,
		timeout:   defaultCheckTimeout,
		startTime: time.Now(),
	}
}

// Register добавляет проверку. Сбой критичной проверки делает сервис unhealthy,
// некритичной (например, кэш) — только degraded.
func (h *Handler) Register(name string, critical bool, ping PingFunc) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.checks[name] = registration{ping: ping, critical: critical}
}

// Evaluate выполняет все проверки параллельно.
func (h *Handler) Evaluate(ctx context.Context) Response {
	h.mu.RLock()
	regs := make(map[string]registration, len(h.checks))
	for name, reg := range h.checks {
		regs[name] = reg
	}
	h.mu.RUnlock()

	var (
		wg      sync.WaitGroup
		resMu   sync.Mutex
		results = make(map[string]Check, len(regs))
	)
	for name, reg := range regs {
		wg.Add(1)
		go func(name string, reg registration) {
			defer wg.Done()
			check := h.run(ctx, name, reg)
			resMu.Lock()
			results[name] = check
			resMu.Unlock()
		}(name, reg)
	}
	wg.Wait()

	return Response{
		Status:        overall(results),
		Timestamp:     time.Now().UTC(),
		Checks:        results,
		Version:       h.version,
		UptimeSeconds: int64(time.Since(h.startTime).Seconds()),
	}
}

func (h *Handler) run(ctx context.Context, name string, reg registration) Check {
	checkCtx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()

	started := time.Now()
	err := reg.ping(checkCtx)
	check := Check{
		Name:       name,
		Status:     StatusHealthy,
		Critical:   reg.critical,
		DurationMs: time.Since(started).Milliseconds(),
	}
	if err != nil {
		check.Message = err.Error()
		check.Status = StatusDegraded
		if reg.critical {
			check.Status = StatusUnhealthy
		}
	}
	return check
}

func overall(checks map[string]Check) Status {
	status := StatusHealthy
	for _, check := range checks {
		switch check.Status {
		case StatusUnhealthy:
			return StatusUnhealthy
		case StatusDegraded:
			status = StatusDegraded
		}
	}
	return status
}

// ServeHTTP отдаёт полный отчёт; 503 только при unhealthy.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	resp := h.Evaluate(r.Context())
	writeJSON(w, statusCode(resp.Status), resp)
}

// ReadinessHandler сообщает, готов ли сервис принимать трафик.
func (h *Handler) ReadinessHandler(w http.ResponseWriter, r *http.Request) {
	resp := h.Evaluate(r.Context())
	failed := make([]string, 0)
	for name, check := range resp.Checks {
		if check.Status == StatusUnhealthy {
			failed = append(failed, name)
		}
	}
	sort.Strings(failed)

	body := map[string]any{"ready": len(failed) == 0}
	if len(failed) > 0 {
		body["failed"] = failed
	}
	writeJSON(w, statusCode(resp.Status), body)
}

// LivenessHandler отвечает 200, пока процесс жив.
func LivenessHandler(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func statusCode(status Status) int {
	if status == StatusUnhealthy {
		return http.StatusServiceUnavailable
	}
	return http.StatusOK
}

func writeJSON(w http.ResponseWriter, code int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(body)
}
