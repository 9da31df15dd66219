package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(v string) decimal.Decimal {
	return decimal.RequireFromString(v)
}

func TestResolve(t *testing.T) {
	table := DefaultTable()

	t.Run("first tier has full capacity at zero orders", func(t *testing.T) {
		info := table.Resolve(0)
		assert.Equal(t, 50, info.Percentage)
		assert.Equal(t, 15, info.Remaining)
		require.NotNil(t, info.NextTier)
		assert.Equal(t, 30, info.NextTier.Percentage)
	})

	t.Run("first tier drains one slot per order", func(t *testing.T) {
		for total := 0; total < 15; total++ {
			info := table.Resolve(total)
			assert.Equal(t, 50, info.Percentage, "total=%d", total)
			assert.Equal(t, 15-total, info.Remaining, "total=%d", total)
		}
	})

	t.Run("boundary total falls into the next tier", func(t *testing.T) {
		info := table.Resolve(15)
		assert.Equal(t, 30, info.Percentage)
		assert.Equal(t, 50, info.Remaining)
		require.NotNil(t, info.NextTier)
		assert.Equal(t, 25, info.NextTier.Percentage)
	})

	t.Run("last slot of the second tier", func(t *testing.T) {
		info := table.Resolve(64)
		assert.Equal(t, 30, info.Percentage)
		assert.Equal(t, 1, info.Remaining)
	})

	t.Run("tail tier is unbounded with no next tier", func(t *testing.T) {
		for _, total := range []int{65, 66, 100, 100000} {
			info := table.Resolve(total)
			assert.Equal(t, 25, info.Percentage, "total=%d", total)
			assert.Equal(t, Unbounded, info.Remaining, "total=%d", total)
			assert.Nil(t, info.NextTier, "total=%d", total)
		}
	})
}

func TestTableValidate(t *testing.T) {
	tests := []struct {
		name    string
		table   Table
		wantErr string
	}{
		{
			name:  "default table is valid",
			table: DefaultTable(),
		},
		{
			name:    "empty table",
			table:   Table{},
			wantErr: "empty",
		},
		{
			name: "bounded last tier",
			table: Table{
				{Limit: 10, Percentage: 50},
				{Limit: 20, Percentage: 25},
			},
			wantErr: "last tier must be unbounded",
		},
		{
			name: "non-positive middle limit",
			table: Table{
				{Limit: 0, Percentage: 50},
				{Limit: Unbounded, Percentage: 25},
			},
			wantErr: "limit must be positive",
		},
		{
			name: "percentage out of range",
			table: Table{
				{Limit: 10, Percentage: 120},
				{Limit: Unbounded, Percentage: 25},
			},
			wantErr: "out of range",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.table.Validate()
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestQuote(t *testing.T) {
	calc := NewCalculator(d("39.99"))

	tests := []struct {
		name         string
		quantity     int
		percentage   int
		wantSubtotal decimal.Decimal
		wantDiscount decimal.Decimal
		wantTotal    decimal.Decimal
	}{
		{
			name:         "single copy no discount",
			quantity:     1,
			percentage:   0,
			wantSubtotal: d("39.99"),
			wantDiscount: d("0"),
			wantTotal:    d("39.99"),
		},
		{
			name:         "single copy at 50%",
			quantity:     1,
			percentage:   50,
			wantSubtotal: d("39.99"),
			wantDiscount: d("20.00"),
			wantTotal:    d("19.99"),
		},
		{
			// 119.97 * 0.5 = 59.985: the discount rounds half away from
			// zero to 59.99 and the total absorbs the missing cent.
			name:         "three copies at 50% hits the half-cent boundary",
			quantity:     3,
			percentage:   50,
			wantSubtotal: d("119.97"),
			wantDiscount: d("59.99"),
			wantTotal:    d("59.98"),
		},
		{
			name:         "three copies at 30%",
			quantity:     3,
			percentage:   30,
			wantSubtotal: d("119.97"),
			wantDiscount: d("35.99"),
			wantTotal:    d("83.98"),
		},
		{
			name:         "full discount zeroes the total",
			quantity:     2,
			percentage:   100,
			wantSubtotal: d("79.98"),
			wantDiscount: d("79.98"),
			wantTotal:    d("0"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := calc.Quote(tt.quantity, tt.percentage)

			assert.True(t, tt.wantSubtotal.Equal(got.Subtotal),
				"expected subtotal %s, got %s", tt.wantSubtotal, got.Subtotal)
			assert.True(t, tt.wantDiscount.Equal(got.Discount),
				"expected discount %s, got %s", tt.wantDiscount, got.Discount)
			assert.True(t, tt.wantTotal.Equal(got.Total),
				"expected total %s, got %s", tt.wantTotal, got.Total)

			// The rounded parts always reassemble into the subtotal, and
			// the discount never pushes the total above the subtotal.
			assert.True(t, got.Subtotal.Equal(got.Discount.Add(got.Total)))
			assert.True(t, got.Total.LessThanOrEqual(got.Subtotal))
		})
	}
}
