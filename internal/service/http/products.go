package httpsvc

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/vladislavdragonenkov/catalog/internal/catalog"
	"github.com/vladislavdragonenkov/catalog/internal/domain"
)

func (h *Handler) listProducts(w http.ResponseWriter, r *http.Request) error {
	offset, limit, err := pageParams(r)
	if err != nil {
		return err
	}
	tag := r.URL.Query().Get("tag")

	products, err := h.products.List(r.Context(), catalog.ProductListOptions{Offset: offset, Limit: limit, Tag: tag})
	if err != nil {
		return err
	}
	total, err := h.products.Count(r.Context(), tag)
	if err != nil {
		return err
	}

	setTotalCount(w, total)
	WriteSuccess(w, http.StatusOK, products)
	return nil
}

func (h *Handler) getProduct(w http.ResponseWriter, r *http.Request) error {
	product, ok, err := h.products.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrProductNotFound
	}
	WriteSuccess(w, http.StatusOK, product)
	return nil
}

func (h *Handler) createProduct(w http.ResponseWriter, r *http.Request) error {
	var fields domain.ProductFields
	if err := decodeBody(w, r, &fields, false); err != nil {
		return err
	}
	product, err := h.products.Create(r.Context(), fields)
	if err != nil {
		return err
	}
	WriteSuccess(w, http.StatusCreated, product)
	return nil
}

func (h *Handler) editProduct(w http.ResponseWriter, r *http.Request) error {
	var change domain.ProductChange
	if err := decodeBody(w, r, &change, true); err != nil {
		return err
	}
	product, err := h.products.Edit(r.Context(), chi.URLParam(r, "id"), change)
	if err != nil {
		return err
	}
	WriteSuccess(w, http.StatusOK, product)
	return nil
}

func (h *Handler) destroyProduct(w http.ResponseWriter, r *http.Request) error {
	result, err := h.products.Destroy(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		return err
	}
	WriteSuccess(w, http.StatusOK, result)
	return nil
}
