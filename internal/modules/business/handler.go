package business

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tilldesk/tilldesk-backend/internal/modules/auth"
	"github.com/tilldesk/tilldesk-backend/internal/platform/apperr"
)

// Handler exposes business HTTP endpoints.
type Handler struct {
	service Service
	authMw  func(http.Handler) http.Handler
}

func NewHandler(service Service, authMw func(http.Handler) http.Handler) *Handler {
	return &Handler{service: service, authMw: authMw}
}

func (h *Handler) RegisterRoutes(r *chi.Mux) {
	r.Route("/api/v1/businesses", func(r chi.Router) {
		r.Use(h.authMw)
		r.Post("/", h.create)
		r.Get("/mine", h.mine)
		r.Put("/mine", h.update)
	})
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserID(r.Context())
	if !ok {
		respond(w, http.StatusUnauthorized, map[string]string{"error": "not authenticated"})
		return
	}
	var req CreateBusinessRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	b, err := h.service.CreateBusiness(r.Context(), userID, req)
	if err != nil {
		respond(w, apperr.HTTPStatus(err), map[string]string{"error": err.Error()})
		return
	}
	respond(w, http.StatusCreated, b)
}

func (h *Handler) mine(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserID(r.Context())
	if !ok {
		respond(w, http.StatusUnauthorized, map[string]string{"error": "not authenticated"})
		return
	}
	b, err := h.service.ResolveForUser(r.Context(), userID)
	if err != nil {
		respond(w, apperr.HTTPStatus(err), map[string]string{"error": err.Error()})
		return
	}
	respond(w, http.StatusOK, b)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserID(r.Context())
	if !ok {
		respond(w, http.StatusUnauthorized, map[string]string{"error": "not authenticated"})
		return
	}
	var req CreateBusinessRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	b, err := h.service.UpdateBusiness(r.Context(), userID, req)
	if err != nil {
		respond(w, apperr.HTTPStatus(err), map[string]string{"error": err.Error()})
		return
	}
	respond(w, http.StatusOK, b)
}

func respond(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
