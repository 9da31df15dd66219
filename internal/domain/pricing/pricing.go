// Package pricing holds the early-bird discount ladder and the order
// pricing arithmetic. Everything here is pure: the resolver and the
// calculator read their inputs and return results without side effects.
package pricing

import (
	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// Unbounded marks a tier limit with no cap. The final tier of every table
// is unbounded, which makes Resolve total.
const Unbounded = -1

// Tier is one band of the discount ladder: up to Limit orders receive
// Percentage off.
type Tier struct {
	Limit      int
	Percentage int
}

// Table is an ordered sequence of discount tiers. Tables are built once at
// startup and never mutated.
type Table []Tier

// DefaultTable is the campaign ladder: the first 15 orders get 50% off,
// the next 50 get 30%, and everything after gets 25%.
func DefaultTable() Table {
	return Table{
		{Limit: 15, Percentage: 50},
		{Limit: 50, Percentage: 30},
		{Limit: Unbounded, Percentage: 25},
	}
}

// Validate checks that the table is usable: non-empty, percentages within
// 0..100, every tier but the last has a positive limit, and the last tier
// is unbounded.
func (t Table) Validate() error {
	if len(t) == 0 {
		return errors.New("tier table is empty")
	}
	for i, tier := range t {
		if tier.Percentage < 0 || tier.Percentage > 100 {
			return errors.Errorf("tier %d: percentage %d out of range", i, tier.Percentage)
		}
		if i < len(t)-1 && tier.Limit <= 0 {
			return errors.Errorf("tier %d: limit must be positive", i)
		}
	}
	if t[len(t)-1].Limit != Unbounded {
		return errors.New("last tier must be unbounded")
	}
	return nil
}

// NextTier describes the band that activates once the current one fills up.
type NextTier struct {
	Percentage int
}

// TierInfo describes the tier an order placed right now would land in.
type TierInfo struct {
	Percentage int
	// Remaining is how many more orders fit in the current tier, or
	// Unbounded for the tail tier.
	Remaining int
	// NextTier is the following band, or nil when the current tier is last.
	NextTier *NextTier
}

// Resolve maps the number of orders placed so far to the active tier.
// It walks the table accumulating each band's capacity; a band is current
// when the cumulative capacity including it strictly exceeds totalOrders,
// so a total sitting exactly on a boundary falls into the next band. The
// unbounded tail band matches as a fallback, so Resolve never fails.
func (t Table) Resolve(totalOrders int) TierInfo {
	idx := len(t) - 1
	cumulative := 0
	for i, tier := range t {
		if tier.Limit == Unbounded || cumulative+tier.Limit > totalOrders {
			idx = i
			break
		}
		cumulative += tier.Limit
	}

	current := t[idx]
	info := TierInfo{
		Percentage: current.Percentage,
		Remaining:  Unbounded,
	}
	if current.Limit != Unbounded {
		info.Remaining = current.Limit - (totalOrders - cumulative)
	}
	if idx < len(t)-1 {
		info.NextTier = &NextTier{Percentage: t[idx+1].Percentage}
	}
	return info
}

var hundred = decimal.NewFromInt(100)

// Calculator prices orders at a fixed base unit price.
type Calculator struct {
	unitPrice decimal.Decimal
}

// NewCalculator creates a Calculator for the given base unit price.
func NewCalculator(unitPrice decimal.Decimal) Calculator {
	return Calculator{unitPrice: unitPrice}
}

// Quote is the priced breakdown of one order.
type Quote struct {
	Subtotal decimal.Decimal
	Discount decimal.Decimal
	Total    decimal.Decimal
}

// Quote computes the subtotal, discount amount, and total for quantity
// units at the given discount percentage. The discount is computed in full
// precision and rounded half away from zero at 2 decimal places; the total
// is the subtotal minus the rounded discount, so Subtotal = Discount + Total
// holds exactly.
func (c Calculator) Quote(quantity, percentage int) Quote {
	qty := decimal.NewFromInt(int64(quantity))
	subtotal := c.unitPrice.Mul(qty).Round(2)
	discount := subtotal.Mul(decimal.NewFromInt(int64(percentage))).Div(hundred).Round(2)

	return Quote{
		Subtotal: subtotal,
		Discount: discount,
		Total:    subtotal.Sub(discount),
	}
}
