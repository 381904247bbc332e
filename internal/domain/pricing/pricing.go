// Package pricing computes cart totals from line items and the single active
// discount. It is pure: no I/O, no clock, no state.
package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/deltabyte/ristora/internal/domain/discount"
)

var hundred = decimal.NewFromInt(100)

// LineItem is a menu item snapshot plus a quantity. Name and unit price are
// copied from the catalog at add-time so later menu edits cannot change an
// open cart or a placed order.
type LineItem struct {
	MenuItemID string          `json:"id"`
	Name       string          `json:"name"`
	UnitPrice  decimal.Decimal `json:"unitPrice"`
	Quantity   int             `json:"quantity"`
}

// Manual is an operator-entered discount. The zero-discount representation is
// {fixed, 0}: a manual discount contributes only while Value is positive.
type Manual struct {
	Type  discount.Type
	Value decimal.Decimal
}

// NewManual returns the "no manual discount" default.
func NewManual() Manual {
	return Manual{Type: discount.TypeFixed, Value: decimal.Zero}
}

// Applied reports whether the manual discount contributes to pricing.
func (m Manual) Applied() bool {
	return m.Value.IsPositive()
}

// Variant names the discount source that is currently in effect.
type Variant string

const (
	VariantNone    Variant = "none"
	VariantLoyal   Variant = "loyal"
	VariantVoucher Variant = "voucher"
	VariantManual  Variant = "manual"
)

// ActiveDiscount holds at most one live discount source. The cart state
// machine enforces exclusivity; Variant resolves defensively should more than
// one field ever be populated, with loyal > voucher > manual precedence.
type ActiveDiscount struct {
	Loyal   *discount.LoyalDiscount
	Voucher *discount.Voucher
	Manual  Manual
}

// Variant returns the highest-precedence populated discount source.
func (d ActiveDiscount) Variant() Variant {
	switch {
	case d.Loyal != nil:
		return VariantLoyal
	case d.Voucher != nil:
		return VariantVoucher
	case d.Manual.Applied():
		return VariantManual
	default:
		return VariantNone
	}
}

// Totals is the computed pricing breakdown of a cart.
// Invariants: 0 <= Discount <= Subtotal, and Total == Subtotal - Discount.
type Totals struct {
	Subtotal decimal.Decimal
	Discount decimal.Decimal
	Total    decimal.Decimal
}

// Subtotal sums unit price times quantity over the given line items.
func Subtotal(items []LineItem) decimal.Decimal {
	sum := decimal.Zero
	for _, it := range items {
		line := it.UnitPrice.Mul(decimal.NewFromInt(int64(it.Quantity)))
		sum = sum.Add(line)
	}
	return sum
}

// Compute calculates subtotal, discount amount, and total for the given items
// and active discount. The discount is clamped to [0, subtotal] so a value
// larger than the order can never drive the total negative.
func Compute(items []LineItem, d ActiveDiscount) Totals {
	subtotal := Subtotal(items).Round(2)

	var typ discount.Type
	var value decimal.Decimal
	switch d.Variant() {
	case VariantLoyal:
		typ, value = d.Loyal.Type, d.Loyal.Value
	case VariantVoucher:
		typ, value = d.Voucher.Type, d.Voucher.Value
	case VariantManual:
		typ, value = d.Manual.Type, d.Manual.Value
	default:
		return Totals{Subtotal: subtotal, Discount: decimal.Zero, Total: subtotal}
	}

	raw := value
	if typ == discount.TypePercentage {
		raw = subtotal.Mul(value).Div(hundred)
	}

	amount := clamp(raw, subtotal).Round(2)

	return Totals{
		Subtotal: subtotal,
		Discount: amount,
		Total:    subtotal.Sub(amount),
	}
}

// clamp constrains the raw discount to [0, subtotal].
func clamp(raw, subtotal decimal.Decimal) decimal.Decimal {
	if raw.IsNegative() {
		return decimal.Zero
	}
	return decimal.Min(raw, subtotal)
}
