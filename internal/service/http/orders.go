package httpsvc

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/vladislavdragonenkov/catalog/internal/catalog"
	"github.com/vladislavdragonenkov/catalog/internal/domain"
)

func (h *Handler) listOrders(w http.ResponseWriter, r *http.Request) error {
	offset, limit, err := pageParams(r)
	if err != nil {
		return err
	}
	productID := r.URL.Query().Get("productId")
	status := domain.OrderStatus(r.URL.Query().Get("status"))

	orders, err := h.orders.List(r.Context(), catalog.OrderListOptions{
		Offset:    offset,
		Limit:     limit,
		ProductID: productID,
		Status:    status,
	})
	if err != nil {
		return err
	}
	total, err := h.orders.Count(r.Context(), productID, status)
	if err != nil {
		return err
	}

	setTotalCount(w, total)
	WriteSuccess(w, http.StatusOK, orders)
	return nil
}

func (h *Handler) getOrder(w http.ResponseWriter, r *http.Request) error {
	order, ok, err := h.orders.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrOrderNotFound
	}
	WriteSuccess(w, http.StatusOK, order)
	return nil
}

func (h *Handler) createOrder(w http.ResponseWriter, r *http.Request) error {
	var fields domain.OrderFields
	if err := decodeBody(w, r, &fields, false); err != nil {
		return err
	}
	order, err := h.orders.Create(r.Context(), fields)
	if err != nil {
		return err
	}
	WriteSuccess(w, http.StatusCreated, order)
	return nil
}

// editOrder возвращает заказ с нераскрытыми ID товаров.
func (h *Handler) editOrder(w http.ResponseWriter, r *http.Request) error {
	var change domain.OrderChange
	if err := decodeBody(w, r, &change, true); err != nil {
		return err
	}
	order, err := h.orders.Edit(r.Context(), chi.URLParam(r, "id"), change)
	if err != nil {
		return err
	}
	WriteSuccess(w, http.StatusOK, order)
	return nil
}

func (h *Handler) destroyOrder(w http.ResponseWriter, r *http.Request) error {
	if err := h.orders.Destroy(r.Context(), chi.URLParam(r, "id")); err != nil {
		return err
	}
	w.WriteHeader(http.StatusNoContent)
	return nil
}
