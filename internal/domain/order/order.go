package order

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Status is the fulfilment state of an order. Transitions are free-form:
// any status may move to any other via an explicit admin action.
type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusShipped    Status = "shipped"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
)

// Statuses lists every recognized status in lifecycle order.
func Statuses() []Status {
	return []Status{
		StatusPending,
		StatusProcessing,
		StatusShipped,
		StatusCompleted,
		StatusCancelled,
	}
}

// Valid reports whether s is one of the recognized statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusProcessing, StatusShipped, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// Order represents one pre-order of the game. DiscountPercentage is stamped
// with the tier active at creation time and never recomputed, even when the
// global tier shifts afterwards. CreatedAt is set once; UpdatedAt is
// refreshed on every status change.
type Order struct {
	ID                 int64
	CustomerName       string
	CustomerEmail      string
	CustomerAddress    string
	CustomerCity       string
	CustomerState      string
	CustomerZip        string
	CustomerCountry    string
	Quantity           int
	DiscountPercentage int
	Subtotal           decimal.Decimal
	Total              decimal.Decimal
	Status             Status
	Notes              string
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// Repository defines persistence operations for orders.
type Repository interface {
	// Create persists a new order and fills in its assigned ID and
	// timestamps.
	Create(ctx context.Context, o *Order) error
	// GetByID returns the order with the given id, or ErrNotFound.
	GetByID(ctx context.Context, id int64) (*Order, error)
	// List returns all orders, most recently created first.
	List(ctx context.Context) ([]Order, error)
	// UpdateStatus sets the status and refreshes UpdatedAt, returning the
	// updated order, or ErrNotFound.
	UpdateStatus(ctx context.Context, id int64, status Status) (*Order, error)
	// Delete removes the order with the given id, or returns ErrNotFound.
	Delete(ctx context.Context, id int64) error
	// CountByDiscount returns the number of stored orders per stamped
	// discount percentage.
	CountByDiscount(ctx context.Context) (map[int]int, error)
}
