package analytics

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tilldesk/tilldesk-backend/internal/modules/auth"
	"github.com/tilldesk/tilldesk-backend/internal/modules/business"
	"github.com/tilldesk/tilldesk-backend/internal/platform/apperr"
)

// Handler exposes the analytics summary endpoint.
type Handler struct {
	service    Service
	businesses business.Service
	authMw     func(http.Handler) http.Handler
}

func NewHandler(service Service, businesses business.Service, authMw func(http.Handler) http.Handler) *Handler {
	return &Handler{service: service, businesses: businesses, authMw: authMw}
}

func (h *Handler) RegisterRoutes(r *chi.Mux) {
	r.Route("/api/v1/analytics", func(r chi.Router) {
		r.Use(h.authMw)
		r.Get("/summary", h.summary)
	})
}

func (h *Handler) summary(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserID(r.Context())
	if !ok {
		respond(w, http.StatusUnauthorized, map[string]string{"error": "not authenticated"})
		return
	}
	b, err := h.businesses.ResolveForUser(r.Context(), userID)
	if err != nil {
		respond(w, apperr.HTTPStatus(err), map[string]string{"error": err.Error()})
		return
	}
	summary, err := h.service.Summary(r.Context(), b.ID, r.URL.Query().Get("period"))
	if err != nil {
		respond(w, apperr.HTTPStatus(err), map[string]string{"error": err.Error()})
		return
	}
	respond(w, http.StatusOK, summary)
}

func respond(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
