// Package handler exposes the pre-order API over net/http.
package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/cardhaus/preorder-api/internal/domain/order"
	"github.com/cardhaus/preorder-api/internal/domain/user"
)

// Handler holds the domain services behind the HTTP surface.
type Handler struct {
	orders   *order.Service
	users    *user.Service
	sessions *Sessions
}

// New constructs a Handler with the required domain dependencies.
func New(orders *order.Service, users *user.Service, sessions *Sessions) *Handler {
	return &Handler{
		orders:   orders,
		users:    users,
		sessions: sessions,
	}
}

// Routes registers every API route on mux. Admin routes are wrapped with
// the session guard: 401 without a valid session, 403 without the admin
// flag.
func (h *Handler) Routes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/orders/discount-tier", h.DiscountTier)
	mux.HandleFunc("POST /api/orders", h.PlaceOrder)

	mux.HandleFunc("POST /api/auth/register", h.Register)
	mux.HandleFunc("POST /api/auth/login", h.Login)
	mux.HandleFunc("POST /api/auth/logout", h.Logout)
	mux.HandleFunc("GET /api/auth/me", h.Me)

	admin := h.sessions.RequireAdmin
	mux.Handle("GET /api/admin/orders", admin(http.HandlerFunc(h.ListOrders)))
	mux.Handle("GET /api/admin/orders/{id}", admin(http.HandlerFunc(h.GetOrder)))
	mux.Handle("PATCH /api/admin/orders/{id}/status", admin(http.HandlerFunc(h.UpdateOrderStatus)))
	mux.Handle("DELETE /api/admin/orders/{id}", admin(http.HandlerFunc(h.DeleteOrder)))
	mux.Handle("GET /api/admin/stats", admin(http.HandlerFunc(h.Stats)))
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(ctx context.Context, w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zctx.From(ctx).Error("Encode response", zap.Error(err))
	}
}

func writeError(ctx context.Context, w http.ResponseWriter, status int, msg string) {
	writeJSON(ctx, w, status, errorResponse{Error: msg})
}

// internalError logs the cause and responds with an opaque 500 payload.
func internalError(ctx context.Context, w http.ResponseWriter, msg string, err error) {
	zctx.From(ctx).Error(msg, zap.Error(err))
	writeError(ctx, w, http.StatusInternalServerError, "internal server error")
}

func decodeJSON(r *http.Request, v any) error {
	return json.NewDecoder(r.Body).Decode(v)
}
