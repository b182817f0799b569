package order

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/tilldesk/tilldesk-backend/internal/modules/auth"
	"github.com/tilldesk/tilldesk-backend/internal/modules/business"
	"github.com/tilldesk/tilldesk-backend/internal/platform/apperr"
)

// Handler exposes order HTTP endpoints. Order creation happens through POS
// checkout; this surface covers listing, inspection and status updates.
type Handler struct {
	service    Service
	businesses business.Service
	authMw     func(http.Handler) http.Handler
}

func NewHandler(service Service, businesses business.Service, authMw func(http.Handler) http.Handler) *Handler {
	return &Handler{service: service, businesses: businesses, authMw: authMw}
}

func (h *Handler) RegisterRoutes(r *chi.Mux) {
	r.Route("/api/v1/orders", func(r chi.Router) {
		r.Use(h.authMw)
		r.Get("/", h.list)
		r.Get("/{id}", h.get)
		r.Put("/{id}/status", h.updateStatus)
	})
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	b, ok := h.resolveBusiness(w, r)
	if !ok {
		return
	}
	orders, err := h.service.ListOrders(r.Context(), b.ID, r.URL.Query().Get("status"))
	if err != nil {
		respondErr(w, err)
		return
	}
	respond(w, http.StatusOK, orders)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	b, ok := h.resolveBusiness(w, r)
	if !ok {
		return
	}
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": "invalid order id"})
		return
	}
	o, err := h.service.GetOrder(r.Context(), b.ID, id)
	if err != nil {
		respondErr(w, err)
		return
	}
	respond(w, http.StatusOK, o)
}

func (h *Handler) updateStatus(w http.ResponseWriter, r *http.Request) {
	b, ok := h.resolveBusiness(w, r)
	if !ok {
		return
	}
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": "invalid order id"})
		return
	}
	var req UpdateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	o, err := h.service.UpdateStatus(r.Context(), b.ID, id, req)
	if err != nil {
		respondErr(w, err)
		return
	}
	respond(w, http.StatusOK, o)
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
