// Package order turns a finalized cart into an immutable, persisted order
// record and accounts voucher usage.
package order

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/deltabyte/ristora/internal/domain/discount"
	"github.com/deltabyte/ristora/internal/domain/pricing"
)

// ErrEmptyCart is returned when finalization is attempted on a cart with no
// line items.
var ErrEmptyCart = errors.New("cart is empty")

// AppliedLoyal records the loyal-customer discount that produced an order's
// discount amount, for audit.
type AppliedLoyal struct {
	Mobile string          `json:"mobileNumber"`
	Type   discount.Type   `json:"type"`
	Value  decimal.Decimal `json:"value"`
}

// AppliedVoucher records the voucher that produced an order's discount
// amount, for audit.
type AppliedVoucher struct {
	Code  string          `json:"code"`
	Type  discount.Type   `json:"type"`
	Value decimal.Decimal `json:"value"`
}

// AppliedManual records an operator-entered discount, for audit.
type AppliedManual struct {
	Type  discount.Type   `json:"type"`
	Value decimal.Decimal `json:"value"`
}

// Order is an immutable snapshot of a finalized cart. ID is the storage id
// and is empty when persistence failed; Token is always generated locally so
// the receipt can print regardless. At most one of Loyal, Voucher, Manual is
// non-nil.
type Order struct {
	ID             string
	Token          string
	Items          []pricing.LineItem
	Subtotal       decimal.Decimal
	DiscountAmount decimal.Decimal
	Total          decimal.Decimal
	CustomerName   string
	CustomerMobile string
	PlacedAt       time.Time

	Loyal   *AppliedLoyal
	Voucher *AppliedVoucher
	Manual  *AppliedManual
}

// Repository defines persistence operations for orders.
type Repository interface {
	Create(ctx context.Context, o *Order) error
	List(ctx context.Context) ([]Order, error)
}
