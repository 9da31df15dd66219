package handler

import (
	"net/http"
	"strconv"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/cardhaus/preorder-api/internal/domain/order"
)

// orderID parses the {id} path segment. The second return value is false
// when the segment is not a valid id, in which case a 400 has already been
// written.
func orderID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id < 1 {
		writeError(r.Context(), w, http.StatusBadRequest, "invalid order id")
		return 0, false
	}
	return id, true
}

// ListOrders returns every order, most recently created first.
func (h *Handler) ListOrders(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	all, err := h.orders.List(ctx)
	if err != nil {
		internalError(ctx, w, "List orders", err)
		return
	}

	out := make([]orderResponse, len(all))
	for i := range all {
		out[i] = newOrderResponse(&all[i])
	}
	writeJSON(ctx, w, http.StatusOK, out)
}

// GetOrder returns a single order by id.
func (h *Handler) GetOrder(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, ok := orderID(w, r)
	if !ok {
		return
	}

	o, err := h.orders.Get(ctx, id)
	if err != nil {
		if errors.Is(err, order.ErrNotFound) {
			writeError(ctx, w, http.StatusNotFound, "order not found")
			return
		}
		internalError(ctx, w, "Get order", err)
		return
	}

	writeJSON(ctx, w, http.StatusOK, newOrderResponse(o))
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

// UpdateOrderStatus moves an order to a new status. Any recognized status
// may follow any other; an unrecognized value is rejected without touching
// the record.
func (h *Handler) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, ok := orderID(w, r)
	if !ok {
		return
	}

	var req updateStatusRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(ctx, w, http.StatusBadRequest, "invalid request body")
		return
	}

	o, err := h.orders.UpdateStatus(ctx, id, order.Status(req.Status))
	if err != nil {
		switch {
		case errors.Is(err, order.ErrInvalidStatus):
			writeError(ctx, w, http.StatusBadRequest, "invalid status")
		case errors.Is(err, order.ErrNotFound):
			writeError(ctx, w, http.StatusNotFound, "order not found")
		default:
			internalError(ctx, w, "Update order status", err)
		}
		return
	}

	zctx.From(ctx).Info("Order status updated",
		zap.Int64("order_id", id),
		zap.String("status", req.Status),
	)
	writeJSON(ctx, w, http.StatusOK, newOrderResponse(o))
}

// DeleteOrder removes an order.
func (h *Handler) DeleteOrder(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, ok := orderID(w, r)
	if !ok {
		return
	}

	if err := h.orders.Delete(ctx, id); err != nil {
		if errors.Is(err, order.ErrNotFound) {
			writeError(ctx, w, http.StatusNotFound, "order not found")
			return
		}
		internalError(ctx, w, "Delete order", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type statsResponse struct {
	TotalOrders    int            `json:"totalOrders"`
	TotalRevenue   float64        `json:"totalRevenue"`
	OrdersByStatus map[string]int `json:"ordersByStatus"`
	TierCounts     map[int]int    `json:"tierCounts"`
}

// Stats aggregates order metrics for the admin dashboard.
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	stats, err := h.orders.Statistics(ctx)
	if err != nil {
		internalError(ctx, w, "Get statistics", err)
		return
	}

	byStatus := make(map[string]int, len(stats.OrdersByStatus))
	for st, n := range stats.OrdersByStatus {
		byStatus[string(st)] = n
	}

	writeJSON(ctx, w, http.StatusOK, statsResponse{
		TotalOrders:    stats.TotalOrders,
		TotalRevenue:   stats.TotalRevenue.InexactFloat64(),
		OrdersByStatus: byStatus,
		TierCounts:     stats.TierCounts,
	})
}
