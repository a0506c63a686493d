package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/vladislavdragonenkov/catalog/internal/domain"
)

// Результаты операций для метки result.
const (
	ResultOK       = "ok"
	ResultNotFound = "not_found"
	ResultInvalid  = "invalid"
	ResultError    = "error"
)

// StoreMetrics содержит метрики операций хранилищ каталога.
type StoreMetrics struct {
	operations *prometheus.CounterVec
	duration   *prometheus.HistogramVec
	events     *prometheus.CounterVec
}

// NewStoreMetrics регистрирует метрики в реестре по умолчанию.
func NewStoreMetrics() *StoreMetrics {
	return NewStoreMetricsWithRegisterer(prometheus.DefaultRegisterer)
}

// NewStoreMetricsWithRegisterer позволяет тестам использовать изолированный реестр.
func NewStoreMetricsWithRegisterer(registerer prometheus.Registerer) *StoreMetrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	return &StoreMetrics{
		operations: registerCounterVec(registerer, prometheus.CounterOpts{
			Name: "catalog_store_operations_total",
			Help: "Total number of store operations grouped by entity, operation and result",
		}, []string{"entity", "operation", "result"}),
		duration: registerHistogramVec(registerer, prometheus.HistogramOpts{
			Name:    "catalog_store_operation_duration_seconds",
			Help:    "Duration of store operations in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0},
		}, []string{"entity", "operation"}),
		events: registerCounterVec(registerer, prometheus.CounterOpts{
			Name: "catalog_events_published_total",
			Help: "Total number of lifecycle events published grouped by result",
		}, []string{"result"}),
	}
}

// ObserveOperation фиксирует результат и длительность операции.
// Nil-получатель допустим: метрики просто не пишутся.
func (m *StoreMetrics) ObserveOperation(entity, operation string, started time.Time, err error) {
	if m == nil {
		return
	}
	m.operations.WithLabelValues(entity, operation, Classify(err)).Inc()
	m.duration.WithLabelValues(entity, operation).Observe(time.Since(started).Seconds())
}

// RecordEventPublished учитывает попытку публикации события.
func (m *StoreMetrics) RecordEventPublished(err error) {
	if m == nil {
		return
	}
	result := ResultOK
	if err != nil {
		result = ResultError
	}
	m.events.WithLabelValues(result).Inc()
}

// Classify сводит ошибку к значению метки result.
func Classify(err error) string {
	switch {
	case err == nil:
		return ResultOK
	case domain.IsNotFound(err):
		return ResultNotFound
	case domain.IsValidation(err):
		return ResultInvalid
	default:
		return ResultError
	}
}

func registerCounterVec(registerer prometheus.Registerer, opts prometheus.CounterOpts, labels []string) *prometheus.CounterVec {
	collector := prometheus.NewCounterVec(opts, labels)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(*prometheus.CounterVec)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register counter vec %q: %v", opts.Name, err))
	}
	return collector
}

func registerHistogramVec(registerer prometheus.Registerer, opts prometheus.HistogramOpts, labels []string) *prometheus.HistogramVec {
	collector := prometheus.NewHistogramVec(opts, labels)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(*prometheus.HistogramVec)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register histogram vec %q: %v", opts.Name, err))
	}
	return collector
}
