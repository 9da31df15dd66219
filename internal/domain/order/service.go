package order

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/cardhaus/preorder-api/internal/domain/pricing"
)

// Sentinel errors for order operations.
var (
	ErrNotFound        = errors.New("order not found")
	ErrInvalidStatus   = errors.New("invalid order status")
	ErrInvalidQuantity = errors.New("quantity must be at least 1")
)

// ValidationError lists the required customer fields missing from a
// place-order request.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("missing required fields: %s", strings.Join(e.Fields, ", "))
}

// PlaceOrderRequest holds the input for placing a pre-order.
type PlaceOrderRequest struct {
	CustomerName    string
	CustomerEmail   string
	CustomerAddress string
	CustomerCity    string
	CustomerState   string
	CustomerZip     string
	CustomerCountry string
	Quantity        int
	Notes           string
}

func (r PlaceOrderRequest) validate() error {
	var missing []string
	for _, f := range []struct {
		name  string
		value string
	}{
		{"customerName", r.CustomerName},
		{"customerEmail", r.CustomerEmail},
		{"customerAddress", r.CustomerAddress},
		{"customerCity", r.CustomerCity},
		{"customerState", r.CustomerState},
		{"customerZip", r.CustomerZip},
		{"customerCountry", r.CustomerCountry},
	} {
		if strings.TrimSpace(f.value) == "" {
			missing = append(missing, f.name)
		}
	}
	if len(missing) > 0 {
		return &ValidationError{Fields: missing}
	}
	if r.Quantity < 1 {
		return ErrInvalidQuantity
	}
	return nil
}

// Service orchestrates tier resolution, pricing, and order persistence.
type Service struct {
	orders Repository
	tiers  pricing.Table
	calc   pricing.Calculator
}

// NewService creates an order Service over the given repository, discount
// tier table, and price calculator.
func NewService(orders Repository, tiers pricing.Table, calc pricing.Calculator) *Service {
	return &Service{
		orders: orders,
		tiers:  tiers,
		calc:   calc,
	}
}

// CurrentTier resolves the discount tier an order placed right now would
// receive. It is read-only and safe to poll.
func (s *Service) CurrentTier(ctx context.Context) (pricing.TierInfo, error) {
	counts, err := s.orders.CountByDiscount(ctx)
	if err != nil {
		return pricing.TierInfo{}, errors.Wrap(err, "count orders by discount")
	}

	total := 0
	for _, n := range counts {
		total += n
	}
	return s.tiers.Resolve(total), nil
}

// PlaceOrder validates the request, re-resolves the current tier so the
// freshest percentage is used, prices the order, and persists it with
// status pending. The returned order carries its assigned ID.
//
// The tier read and the insert are not atomic: two concurrent calls can
// both observe the last slot of a tier and both be admitted into it,
// overselling the tier by a small margin. The store's own isolation is the
// only concurrency control; this is accepted for this workload.
func (s *Service) PlaceOrder(ctx context.Context, req PlaceOrderRequest) (*Order, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}

	tier, err := s.CurrentTier(ctx)
	if err != nil {
		return nil, err
	}

	quote := s.calc.Quote(req.Quantity, tier.Percentage)

	o := &Order{
		CustomerName:       req.CustomerName,
		CustomerEmail:      req.CustomerEmail,
		CustomerAddress:    req.CustomerAddress,
		CustomerCity:       req.CustomerCity,
		CustomerState:      req.CustomerState,
		CustomerZip:        req.CustomerZip,
		CustomerCountry:    req.CustomerCountry,
		Quantity:           req.Quantity,
		DiscountPercentage: tier.Percentage,
		Subtotal:           quote.Subtotal,
		Total:              quote.Total,
		Status:             StatusPending,
		Notes:              req.Notes,
	}
	if err := s.orders.Create(ctx, o); err != nil {
		return nil, errors.Wrap(err, "create order")
	}

	return o, nil
}

// Get returns a single order by id.
func (s *Service) Get(ctx context.Context, id int64) (*Order, error) {
	return s.orders.GetByID(ctx, id)
}

// List returns all orders, most recently created first.
func (s *Service) List(ctx context.Context) ([]Order, error) {
	return s.orders.List(ctx)
}

// UpdateStatus sets the order's status. It rejects unrecognized statuses
// before touching the store, so a bad value never mutates the record.
func (s *Service) UpdateStatus(ctx context.Context, id int64, status Status) (*Order, error) {
	if !status.Valid() {
		return nil, ErrInvalidStatus
	}
	return s.orders.UpdateStatus(ctx, id, status)
}

// Delete removes an order by id.
func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.orders.Delete(ctx, id)
}

// Statistics aggregates order metrics for the admin dashboard.
type Statistics struct {
	TotalOrders    int
	TotalRevenue   decimal.Decimal
	OrdersByStatus map[Status]int
	TierCounts     map[int]int
}

// Statistics computes aggregate metrics over all stored orders. An empty
// store yields zero-valued results, not an error.
func (s *Service) Statistics(ctx context.Context) (*Statistics, error) {
	all, err := s.orders.List(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "list orders")
	}

	stats := &Statistics{
		TotalOrders:    len(all),
		TotalRevenue:   decimal.Zero,
		OrdersByStatus: make(map[Status]int, len(Statuses())),
	}
	for _, st := range Statuses() {
		stats.OrdersByStatus[st] = 0
	}
	for _, o := range all {
		stats.TotalRevenue = stats.TotalRevenue.Add(o.Total)
		stats.OrdersByStatus[o.Status]++
	}

	stats.TierCounts, err = s.orders.CountByDiscount(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "count orders by discount")
	}

	return stats, nil
}
