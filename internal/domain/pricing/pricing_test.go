package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deltabyte/ristora/internal/domain/discount"
)

func lineItem(id string, price string, qty int) LineItem {
	return LineItem{
		MenuItemID: id,
		Name:       id,
		UnitPrice:  decimal.RequireFromString(price),
		Quantity:   qty,
	}
}

func TestSubtotal(t *testing.T) {
	items := []LineItem{
		lineItem("margherita", "11.50", 2),
		lineItem("tiramisu", "5.50", 1),
	}

	got := Subtotal(items)
	assert.True(t, decimal.RequireFromString("28.50").Equal(got), "got %s", got)
}

func TestSubtotal_Empty(t *testing.T) {
	assert.True(t, decimal.Zero.Equal(Subtotal(nil)))
}

func TestCompute(t *testing.T) {
	items := []LineItem{
		lineItem("p1", "40.00", 1),
		lineItem("p2", "10.00", 2),
	}

	tests := []struct {
		name         string
		active       ActiveDiscount
		wantDiscount string
		wantTotal    string
	}{
		{
			name:         "no discount",
			active:       ActiveDiscount{Manual: NewManual()},
			wantDiscount: "0.00",
			wantTotal:    "60.00",
		},
		{
			name: "percentage voucher",
			active: ActiveDiscount{
				Manual: NewManual(),
				Voucher: &discount.Voucher{
					Code:  "SAVE10",
					Type:  discount.TypePercentage,
					Value: decimal.NewFromInt(10),
				},
			},
			wantDiscount: "6.00",
			wantTotal:    "54.00",
		},
		{
			name: "fixed voucher",
			active: ActiveDiscount{
				Manual: NewManual(),
				Voucher: &discount.Voucher{
					Code:  "TENOFF",
					Type:  discount.TypeFixed,
					Value: decimal.NewFromInt(10),
				},
			},
			wantDiscount: "10.00",
			wantTotal:    "50.00",
		},
		{
			name: "fixed discount larger than subtotal is clamped",
			active: ActiveDiscount{
				Manual: NewManual(),
				Voucher: &discount.Voucher{
					Code:  "HUGE",
					Type:  discount.TypeFixed,
					Value: decimal.NewFromInt(999),
				},
			},
			wantDiscount: "60.00",
			wantTotal:    "0.00",
		},
		{
			name: "loyal percentage",
			active: ActiveDiscount{
				Manual: NewManual(),
				Loyal: &discount.LoyalDiscount{
					Mobile: "5550100",
					Type:   discount.TypePercentage,
					Value:  decimal.NewFromInt(15),
				},
			},
			wantDiscount: "9.00",
			wantTotal:    "51.00",
		},
		{
			name: "manual fixed",
			active: ActiveDiscount{
				Manual: Manual{Type: discount.TypeFixed, Value: decimal.NewFromInt(5)},
			},
			wantDiscount: "5.00",
			wantTotal:    "55.00",
		},
		{
			name: "manual zero value means no discount",
			active: ActiveDiscount{
				Manual: Manual{Type: discount.TypeFixed, Value: decimal.Zero},
			},
			wantDiscount: "0.00",
			wantTotal:    "60.00",
		},
		{
			name: "hundred percent empties the total",
			active: ActiveDiscount{
				Manual: Manual{Type: discount.TypePercentage, Value: decimal.NewFromInt(100)},
			},
			wantDiscount: "60.00",
			wantTotal:    "0.00",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Compute(items, tt.active)

			wantDiscount := decimal.RequireFromString(tt.wantDiscount)
			wantTotal := decimal.RequireFromString(tt.wantTotal)

			assert.True(t, decimal.RequireFromString("60.00").Equal(got.Subtotal), "subtotal %s", got.Subtotal)
			assert.True(t, wantDiscount.Equal(got.Discount), "discount %s", got.Discount)
			assert.True(t, wantTotal.Equal(got.Total), "total %s", got.Total)

			// Structural invariants hold for every case.
			assert.False(t, got.Discount.IsNegative())
			assert.True(t, got.Discount.LessThanOrEqual(got.Subtotal))
			assert.True(t, got.Total.Equal(got.Subtotal.Sub(got.Discount)))
		})
	}
}

func TestCompute_PercentageRounding(t *testing.T) {
	// 15% of 10.99 is 1.6485, which must land on cents.
	items := []LineItem{lineItem("p1", "10.99", 1)}
	active := ActiveDiscount{
		Manual: Manual{Type: discount.TypePercentage, Value: decimal.NewFromInt(15)},
	}

	got := Compute(items, active)

	require.True(t, decimal.RequireFromString("1.65").Equal(got.Discount), "discount %s", got.Discount)
	assert.True(t, decimal.RequireFromString("9.34").Equal(got.Total), "total %s", got.Total)
}

func TestCompute_EmptyCart(t *testing.T) {
	active := ActiveDiscount{
		Manual: NewManual(),
		Voucher: &discount.Voucher{
			Code:  "TENOFF",
			Type:  discount.TypeFixed,
			Value: decimal.NewFromInt(10),
		},
	}

	got := Compute(nil, active)

	assert.True(t, got.Subtotal.IsZero())
	assert.True(t, got.Discount.IsZero())
	assert.True(t, got.Total.IsZero())
}

func TestActiveDiscount_Variant(t *testing.T) {
	loyal := &discount.LoyalDiscount{Mobile: "5550100", Type: discount.TypePercentage, Value: decimal.NewFromInt(10)}
	voucher := &discount.Voucher{Code: "X", Type: discount.TypeFixed, Value: decimal.NewFromInt(5)}
	manual := Manual{Type: discount.TypeFixed, Value: decimal.NewFromInt(2)}

	tests := []struct {
		name   string
		active ActiveDiscount
		want   Variant
	}{
		{"none", ActiveDiscount{Manual: NewManual()}, VariantNone},
		{"loyal", ActiveDiscount{Loyal: loyal, Manual: NewManual()}, VariantLoyal},
		{"voucher", ActiveDiscount{Voucher: voucher, Manual: NewManual()}, VariantVoucher},
		{"manual", ActiveDiscount{Manual: manual}, VariantManual},
		{"loyal wins over voucher and manual", ActiveDiscount{Loyal: loyal, Voucher: voucher, Manual: manual}, VariantLoyal},
		{"voucher wins over manual", ActiveDiscount{Voucher: voucher, Manual: manual}, VariantVoucher},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.active.Variant())
		})
	}
}
