package cart

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deltabyte/ristora/internal/domain/discount"
	"github.com/deltabyte/ristora/internal/domain/menu"
	"github.com/deltabyte/ristora/internal/domain/pricing"
)

func menuItem(id, name, price string) menu.Item {
	return menu.Item{
		ID:     id,
		Name:   name,
		Price:  decimal.RequireFromString(price),
		Active: true,
	}
}

func testLoyal() *discount.LoyalDiscount {
	return &discount.LoyalDiscount{
		ID: "l1", Mobile: "5550100", CustomerName: "Rosa",
		Type: discount.TypePercentage, Value: decimal.NewFromInt(15), Active: true,
	}
}

func testVoucher() *discount.Voucher {
	return &discount.Voucher{
		ID: "v1", Code: "SAVE10", Type: discount.TypePercentage,
		Value: decimal.NewFromInt(10), Active: true,
	}
}

func TestCart_AddItem(t *testing.T) {
	c := New()
	c.AddItem(menuItem("margherita", "Pizza Margherita", "11.50"))
	c.AddItem(menuItem("tiramisu", "Tiramisu", "5.50"))
	c.AddItem(menuItem("margherita", "Pizza Margherita", "11.50"))

	items := c.Items()
	require.Len(t, items, 2)
	assert.Equal(t, 2, items[0].Quantity)
	assert.Equal(t, 1, items[1].Quantity)
}

func TestCart_AddItemSnapshotsPrice(t *testing.T) {
	item := menuItem("margherita", "Pizza Margherita", "11.50")
	c := New()
	c.AddItem(item)

	// A later menu price change must not reach the open cart.
	item.Price = decimal.RequireFromString("99.00")

	got := c.Items()[0]
	assert.True(t, decimal.RequireFromString("11.50").Equal(got.UnitPrice))
}

func TestCart_SetQuantity(t *testing.T) {
	c := New()
	c.AddItem(menuItem("margherita", "Pizza Margherita", "11.50"))

	c.SetQuantity("margherita", 4)
	assert.Equal(t, 4, c.Items()[0].Quantity)

	c.SetQuantity("margherita", 0)
	assert.True(t, c.Empty())
}

func TestCart_RemoveItem(t *testing.T) {
	c := New()
	c.AddItem(menuItem("margherita", "Pizza Margherita", "11.50"))
	c.AddItem(menuItem("tiramisu", "Tiramisu", "5.50"))

	c.RemoveItem("margherita")

	items := c.Items()
	require.Len(t, items, 1)
	assert.Equal(t, "tiramisu", items[0].MenuItemID)

	// Removing a missing id is a no-op.
	c.RemoveItem("nothere")
	assert.Len(t, c.Items(), 1)
}

func TestCart_DiscountExclusivity(t *testing.T) {
	c := New()
	c.AddItem(menuItem("p1", "P1", "40.00"))

	require.NoError(t, c.SetManual(discount.TypeFixed, decimal.NewFromInt(5)))
	assert.Equal(t, pricing.VariantManual, c.Active().Variant())

	// Voucher replaces the manual discount.
	require.NoError(t, c.SetVoucher(testVoucher()))
	assert.Equal(t, pricing.VariantVoucher, c.Active().Variant())
	assert.False(t, c.Active().Manual.Applied())

	// Loyal replaces the voucher.
	c.SetLoyal(testLoyal())
	assert.Equal(t, pricing.VariantLoyal, c.Active().Variant())
	assert.Nil(t, c.Active().Voucher)
}

func TestCart_LoyalBlocksVoucherAndManual(t *testing.T) {
	c := New()
	c.AddItem(menuItem("p1", "P1", "40.00"))
	c.SetLoyal(testLoyal())

	err := c.SetVoucher(testVoucher())
	require.ErrorIs(t, err, ErrLoyalConflict)

	err = c.SetManual(discount.TypeFixed, decimal.NewFromInt(5))
	require.ErrorIs(t, err, ErrLoyalConflict)

	// The loyal discount survived both failed attempts.
	assert.Equal(t, pricing.VariantLoyal, c.Active().Variant())

	// Once cleared, both are accepted again.
	c.ClearLoyal()
	require.NoError(t, c.SetManual(discount.TypeFixed, decimal.NewFromInt(5)))
}

func TestCart_SetManualValidation(t *testing.T) {
	c := New()

	tests := []struct {
		name    string
		typ     discount.Type
		value   string
		wantErr error
	}{
		{"negative value", discount.TypeFixed, "-1", ErrInvalidManual},
		{"percentage above hundred", discount.TypePercentage, "101", ErrInvalidManual},
		{"unknown type", discount.Type("bogus"), "5", ErrInvalidManual},
		{"zero value accepted", discount.TypeFixed, "0", nil},
		{"hundred percent accepted", discount.TypePercentage, "100", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := c.SetManual(tt.typ, decimal.RequireFromString(tt.value))
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestCart_ManualZeroIsNoDiscount(t *testing.T) {
	c := New()
	c.AddItem(menuItem("p1", "P1", "40.00"))
	require.NoError(t, c.SetManual(discount.TypeFixed, decimal.Zero))

	assert.Equal(t, pricing.VariantNone, c.Active().Variant())
	totals := c.Totals()
	assert.True(t, totals.Discount.IsZero())
}

func TestCart_TotalsTrackMutations(t *testing.T) {
	c := New()
	c.AddItem(menuItem("p1", "P1", "40.00"))
	c.AddItem(menuItem("p2", "P2", "10.00"))
	require.NoError(t, c.SetVoucher(testVoucher()))

	totals := c.Totals()
	assert.True(t, decimal.RequireFromString("50.00").Equal(totals.Subtotal))
	assert.True(t, decimal.RequireFromString("5.00").Equal(totals.Discount))
	assert.True(t, decimal.RequireFromString("45.00").Equal(totals.Total))

	// The voucher amount follows the shrinking subtotal.
	c.RemoveItem("p1")
	totals = c.Totals()
	assert.True(t, decimal.RequireFromString("10.00").Equal(totals.Subtotal))
	assert.True(t, decimal.RequireFromString("1.00").Equal(totals.Discount))
	assert.True(t, decimal.RequireFromString("9.00").Equal(totals.Total))
}

func TestCart_Clear(t *testing.T) {
	c := New()
	c.AddItem(menuItem("p1", "P1", "40.00"))
	c.SetCustomer("Rosa", "5550100")
	c.SetLoyal(testLoyal())

	c.Clear()

	assert.True(t, c.Empty())
	assert.Equal(t, pricing.VariantNone, c.Active().Variant())
	name, mobile := c.Customer()
	assert.Empty(t, name)
	assert.Empty(t, mobile)
}

func TestCart_SnapshotIsDetached(t *testing.T) {
	c := New()
	c.AddItem(menuItem("p1", "P1", "40.00"))
	c.SetCustomer("Rosa", "5550100")

	snap := c.Snapshot()
	c.AddItem(menuItem("p2", "P2", "10.00"))
	c.Clear()

	require.Len(t, snap.Items, 1)
	assert.Equal(t, "Rosa", snap.CustomerName)
	assert.True(t, decimal.RequireFromString("40.00").Equal(snap.Totals.Subtotal))
}
