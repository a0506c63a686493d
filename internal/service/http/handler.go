// Package httpsvc — HTTP API каталога поверх ProductStore и OrderStore.
package httpsvc

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/catalog/internal/catalog"
)

// Handler связывает маршруты API с хранилищами каталога.
type Handler struct {
	products *catalog.ProductStore
	orders   *catalog.OrderStore
	logger   *log.Entry
}

// NewHandler создаёт обработчик API.
func NewHandler(products *catalog.ProductStore, orders *catalog.OrderStore, logger *log.Entry) *Handler {
	if logger == nil {
		logger = log.WithField("component", "http-api")
	}
	return &Handler{products: products, orders: orders, logger: logger}
}

// Routes возвращает chi-роутер со всеми маршрутами API.
func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(h.logRequests)

	r.Route("/products", func(pr chi.Router) {
		pr.Get("/", forward(h.logger, h.listProducts))
		pr.Post("/", forward(h.logger, h.createProduct))
		pr.Get("/{id}", forward(h.logger, h.getProduct))
		pr.Put("/{id}", forward(h.logger, h.editProduct))
		pr.Delete("/{id}", forward(h.logger, h.destroyProduct))
	})

	r.Route("/orders", func(or chi.Router) {
		or.Get("/", forward(h.logger, h.listOrders))
		or.Post("/", forward(h.logger, h.createOrder))
		or.Get("/{id}", forward(h.logger, h.getOrder))
		or.Put("/{id}", forward(h.logger, h.editOrder))
		or.Delete("/{id}", forward(h.logger, h.destroyOrder))
	})

	return r
}

func (h *Handler) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		started := time.Now()
		next.ServeHTTP(ww, r)

		h.logger.WithFields(log.Fields{
			"method":      r.Method,
			"path":        r.URL.Path,
			"status":      ww.Status(),
			"bytes":       ww.BytesWritten(),
			"duration_ms": time.Since(started).Milliseconds(),
			"request_id":  middleware.GetReqID(r.Context()),
		}).Debug("http request")
	})
}
