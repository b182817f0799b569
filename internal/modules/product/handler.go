package product

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/tilldesk/tilldesk-backend/internal/modules/auth"
	"github.com/tilldesk/tilldesk-backend/internal/modules/business"
	"github.com/tilldesk/tilldesk-backend/internal/platform/apperr"
)

// Handler exposes product HTTP endpoints, scoped to the caller's business.
type Handler struct {
	service    Service
	businesses business.Service
	authMw     func(http.Handler) http.Handler
}

func NewHandler(service Service, businesses business.Service, authMw func(http.Handler) http.Handler) *Handler {
	return &Handler{service: service, businesses: businesses, authMw: authMw}
}

func (h *Handler) RegisterRoutes(r *chi.Mux) {
	r.Route("/api/v1/products", func(r chi.Router) {
		r.Use(h.authMw)
		r.Get("/", h.list)
		r.Get("/low-stock", h.lowStock)
		r.Post("/", h.create)
		r.Get("/{id}", h.get)
		r.Put("/{id}", h.update)
		r.Delete("/{id}", h.delete)
	})
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	b, ok := h.resolveBusiness(w, r)
	if !ok {
		return
	}
	filter := ListFilter{ActiveOnly: r.URL.Query().Get("active") != "false"}
	if raw := r.URL.Query().Get("category_id"); raw != "" {
		cid, err := uuid.Parse(raw)
		if err != nil {
			respond(w, http.StatusBadRequest, map[string]string{"error": "invalid category_id"})
			return
		}
		filter.CategoryID = &cid
	}
	products, err := h.service.ListProducts(r.Context(), b.ID, filter)
	if err != nil {
		respondErr(w, err)
		return
	}
	respond(w, http.StatusOK, products)
}

func (h *Handler) lowStock(w http.ResponseWriter, r *http.Request) {
	b, ok := h.resolveBusiness(w, r)
	if !ok {
		return
	}
	products, err := h.service.ListLowStock(r.Context(), b.ID)
	if err != nil {
		respondErr(w, err)
		return
	}
	respond(w, http.StatusOK, products)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	b, ok := h.resolveBusiness(w, r)
	if !ok {
		return
	}
	var req CreateProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	p, err := h.service.CreateProduct(r.Context(), b.ID, req)
	if err != nil {
		respondErr(w, err)
		return
	}
	respond(w, http.StatusCreated, p)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	b, ok := h.resolveBusiness(w, r)
	if !ok {
		return
	}
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": "invalid product id"})
		return
	}
	p, err := h.service.GetProduct(r.Context(), b.ID, id)
	if err != nil {
		respondErr(w, err)
		return
	}
	respond(w, http.StatusOK, p)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	b, ok := h.resolveBusiness(w, r)
	if !ok {
		return
	}
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": "invalid product id"})
		return
	}
	var req CreateProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	p, err := h.service.UpdateProduct(r.Context(), b.ID, id, req)
	if err != nil {
		respondErr(w, err)
		return
	}
	respond(w, http.StatusOK, p)
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	b, ok := h.resolveBusiness(w, r)
	if !ok {
		return
	}
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": "invalid product id"})
		return
	}
	if err := h.service.DeleteProduct(r.Context(), b.ID, id); err != nil {
		respondErr(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) resolveBusiness(w http.ResponseWriter, r *http.Request) (*business.Business, bool) {
	userID, ok := auth.UserID(r.Context())
	if !ok {
		respond(w, http.StatusUnauthorized, map[string]string{"error": "not authenticated"})
		return nil, false
	}
	b, err := h.businesses.ResolveForUser(r.Context(), userID)
	if err != nil {
		respondErr(w, err)
		return nil, false
	}
	return b, true
}

func respond(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func respondErr(w http.ResponseWriter, err error) {
	respond(w, apperr.HTTPStatus(err), map[string]string{"error": err.Error()})
}
