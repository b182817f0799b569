package pos

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/tilldesk/tilldesk-backend/internal/modules/auth"
	"github.com/tilldesk/tilldesk-backend/internal/modules/business"
	"github.com/tilldesk/tilldesk-backend/internal/platform/apperr"
)

// Handler exposes the POS register HTTP endpoints.
type Handler struct {
	service    Service
	businesses business.Service
	authMw     func(http.Handler) http.Handler
}

func NewHandler(service Service, businesses business.Service, authMw func(http.Handler) http.Handler) *Handler {
	return &Handler{service: service, businesses: businesses, authMw: authMw}
}

func (h *Handler) RegisterRoutes(r *chi.Mux) {
	r.Route("/api/v1/pos/carts", func(r chi.Router) {
		r.Use(h.authMw)
		r.Post("/", h.openCart)
		r.Get("/{cart_id}", h.getCart)
		r.Post("/{cart_id}/items", h.addItem)
		r.Put("/{cart_id}/items/{product_id}", h.setQuantity)
		r.Delete("/{cart_id}/items/{product_id}", h.removeItem)
		r.Post("/{cart_id}/clear", h.clearCart)
		r.Post("/{cart_id}/checkout", h.checkout)
	})
}

func (h *Handler) openCart(w http.ResponseWriter, r *http.Request) {
	b, ok := h.resolveBusiness(w, r)
	if !ok {
		return
	}
	cart, err := h.service.OpenCart(r.Context(), b.ID)
	if err != nil {
		respondErr(w, err)
		return
	}
	respond(w, http.StatusCreated, cart)
}

func (h *Handler) getCart(w http.ResponseWriter, r *http.Request) {
	b, cartID, ok := h.resolveCart(w, r)
	if !ok {
		return
	}
	cart, err := h.service.GetCart(r.Context(), b.ID, cartID)
	if err != nil {
		respondErr(w, err)
		return
	}
	respond(w, http.StatusOK, cart)
}

func (h *Handler) addItem(w http.ResponseWriter, r *http.Request) {
	b, cartID, ok := h.resolveCart(w, r)
	if !ok {
		return
	}
	var req struct {
		ProductID string `json:"product_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": "invalid product_id"})
		return
	}
	cart, err := h.service.AddItem(r.Context(), b.ID, cartID, productID)
	if err != nil {
		respondErr(w, err)
		return
	}
	respond(w, http.StatusOK, cart)
}

func (h *Handler) setQuantity(w http.ResponseWriter, r *http.Request) {
	b, cartID, ok := h.resolveCart(w, r)
	if !ok {
		return
	}
	productID, err := uuid.Parse(chi.URLParam(r, "product_id"))
	if err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": "invalid product id"})
		return
	}
	var req struct {
		Quantity int `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	cart, err := h.service.SetQuantity(r.Context(), b.ID, cartID, productID, req.Quantity)
	if err != nil {
		respondErr(w, err)
		return
	}
	respond(w, http.StatusOK, cart)
}

func (h *Handler) removeItem(w http.ResponseWriter, r *http.Request) {
	b, cartID, ok := h.resolveCart(w, r)
	if !ok {
		return
	}
	productID, err := uuid.Parse(chi.URLParam(r, "product_id"))
	if err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": "invalid product id"})
		return
	}
	cart, err := h.service.RemoveItem(r.Context(), b.ID, cartID, productID)
	if err != nil {
		respondErr(w, err)
		return
	}
	respond(w, http.StatusOK, cart)
}

func (h *Handler) clearCart(w http.ResponseWriter, r *http.Request) {
	b, cartID, ok := h.resolveCart(w, r)
	if !ok {
		return
	}
	cart, err := h.service.ClearCart(r.Context(), b.ID, cartID)
	if err != nil {
		respondErr(w, err)
		return
	}
	respond(w, http.StatusOK, cart)
}

func (h *Handler) checkout(w http.ResponseWriter, r *http.Request) {
	b, cartID, ok := h.resolveCart(w, r)
	if !ok {
		return
	}
	var req CheckoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	o, err := h.service.Checkout(r.Context(), b.ID, cartID, req)
	if err != nil {
		respondErr(w, err)
		return
	}
	respond(w, http.StatusCreated, o)
}

func (h *Handler) resolveCart(w http.ResponseWriter, r *http.Request) (*business.Business, uuid.UUID, bool) {
	b, ok := h.resolveBusiness(w, r)
	if !ok {
		return nil, uuid.Nil, false
	}
	cartID, err := uuid.Parse(chi.URLParam(r, "cart_id"))
	if err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": "invalid cart id"})
		return nil, uuid.Nil, false
	}
	return b, cartID, true
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
