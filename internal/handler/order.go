package handler

import (
	"net/http"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/cardhaus/preorder-api/internal/domain/order"
	"github.com/cardhaus/preorder-api/internal/domain/pricing"
)

type placeOrderRequest struct {
	CustomerName    string `json:"customerName"`
	CustomerEmail   string `json:"customerEmail"`
	CustomerAddress string `json:"customerAddress"`
	CustomerCity    string `json:"customerCity"`
	CustomerState   string `json:"customerState"`
	CustomerZip     string `json:"customerZip"`
	CustomerCountry string `json:"customerCountry"`
	Quantity        int    `json:"quantity"`
	Notes           string `json:"notes,omitempty"`
}

type orderResponse struct {
	ID                 int64     `json:"id"`
	CustomerName       string    `json:"customerName"`
	CustomerEmail      string    `json:"customerEmail"`
	CustomerAddress    string    `json:"customerAddress"`
	CustomerCity       string    `json:"customerCity"`
	CustomerState      string    `json:"customerState"`
	CustomerZip        string    `json:"customerZip"`
	CustomerCountry    string    `json:"customerCountry"`
	Quantity           int       `json:"quantity"`
	DiscountPercentage int       `json:"discountPercentage"`
	Subtotal           float64   `json:"subtotal"`
	Total              float64   `json:"total"`
	Status             string    `json:"status"`
	Notes              string    `json:"notes,omitempty"`
	CreatedAt          time.Time `json:"createdAt"`
	UpdatedAt          time.Time `json:"updatedAt"`
}

func newOrderResponse(o *order.Order) orderResponse {
	return orderResponse{
		ID:                 o.ID,
		CustomerName:       o.CustomerName,
		CustomerEmail:      o.CustomerEmail,
		CustomerAddress:    o.CustomerAddress,
		CustomerCity:       o.CustomerCity,
		CustomerState:      o.CustomerState,
		CustomerZip:        o.CustomerZip,
		CustomerCountry:    o.CustomerCountry,
		Quantity:           o.Quantity,
		DiscountPercentage: o.DiscountPercentage,
		Subtotal:           o.Subtotal.InexactFloat64(),
		Total:              o.Total.InexactFloat64(),
		Status:             string(o.Status),
		Notes:              o.Notes,
		CreatedAt:          o.CreatedAt,
		UpdatedAt:          o.UpdatedAt,
	}
}

// DiscountTier reports the tier an order placed right now would receive.
// Read-only and safe to poll.
func (h *Handler) DiscountTier(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	info, err := h.orders.CurrentTier(ctx)
	if err != nil {
		internalError(ctx, w, "Get discount tier", err)
		return
	}

	writeTierInfo(w, info)
}

// writeTierInfo encodes TierInfo by hand with jx: the remaining field is a
// union, a number while the tier is capped and the string "unbounded" for
// the tail tier, which struct tags cannot express.
func writeTierInfo(w http.ResponseWriter, info pricing.TierInfo) {
	var e jx.Encoder
	e.ObjStart()
	e.FieldStart("percentage")
	e.Int(info.Percentage)
	e.FieldStart("remaining")
	if info.Remaining == pricing.Unbounded {
		e.Str("unbounded")
	} else {
		e.Int(info.Remaining)
	}
	e.FieldStart("nextTier")
	if info.NextTier == nil {
		e.Null()
	} else {
		e.ObjStart()
		e.FieldStart("percentage")
		e.Int(info.NextTier.Percentage)
		e.ObjEnd()
	}
	e.ObjEnd()

	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(e.Bytes())
}

// PlaceOrder records a new pre-order at the currently active discount tier.
func (h *Handler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req placeOrderRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(ctx, w, http.StatusBadRequest, "invalid request body")
		return
	}

	o, err := h.orders.PlaceOrder(ctx, order.PlaceOrderRequest{
		CustomerName:    req.CustomerName,
		CustomerEmail:   req.CustomerEmail,
		CustomerAddress: req.CustomerAddress,
		CustomerCity:    req.CustomerCity,
		CustomerState:   req.CustomerState,
		CustomerZip:     req.CustomerZip,
		CustomerCountry: req.CustomerCountry,
		Quantity:        req.Quantity,
		Notes:           req.Notes,
	})
	if err != nil {
		var vErr *order.ValidationError
		switch {
		case errors.As(err, &vErr):
			writeError(ctx, w, http.StatusBadRequest, vErr.Error())
		case errors.Is(err, order.ErrInvalidQuantity):
			writeError(ctx, w, http.StatusBadRequest, err.Error())
		default:
			internalError(ctx, w, "Create order", err)
		}
		return
	}

	zctx.From(ctx).Info("Order placed",
		zap.Int64("order_id", o.ID),
		zap.Int("quantity", o.Quantity),
		zap.Int("discount_percentage", o.DiscountPercentage),
	)
	writeJSON(ctx, w, http.StatusCreated, newOrderResponse(o))
}
