package order

import (
	"context"
	"strings"
	"time"

	"github.com/go-faster/sdk/zctx"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/deltabyte/ristora/internal/domain/cart"
	"github.com/deltabyte/ristora/internal/domain/discount"
	"github.com/deltabyte/ristora/internal/domain/pricing"
)

// Finalizer converts cart snapshots into persisted orders and accounts
// voucher usage.
type Finalizer struct {
	orders   Repository
	vouchers discount.VoucherRepository
	now      func() time.Time
	newToken func() string
}

// NewFinalizer creates a Finalizer with the required persistence
// dependencies.
func NewFinalizer(orders Repository, vouchers discount.VoucherRepository) *Finalizer {
	return &Finalizer{
		orders:   orders,
		vouchers: vouchers,
		now:      time.Now,
		newToken: NewToken,
	}
}

// Result is the outcome of a finalization. The order is always present on
// success paths, even when persistence failed: the restaurant floor must be
// able to print the receipt regardless of a transient database outage.
type Result struct {
	Order *Order
	// Persisted is false when the order could not be written; the order then
	// carries only its local token, no storage id.
	Persisted bool
	// Warning carries the non-fatal persistence or usage-accounting failure,
	// when one occurred.
	Warning string
}

// Finalize snapshots the cart into an immutable order, persists it, and, when
// a voucher produced the discount, increments that voucher's usage counter
// exactly once. Persistence failure does not abort the flow; it is surfaced
// as a warning on the result. Usage-increment failure is logged and reported
// the same way and never rolls back the order.
func (f *Finalizer) Finalize(ctx context.Context, snap cart.Snapshot) (*Result, error) {
	if len(snap.Items) == 0 {
		return nil, ErrEmptyCart
	}

	o := &Order{
		ID:             uuid.New().String(),
		Token:          f.newToken(),
		Items:          snap.Items,
		Subtotal:       snap.Totals.Subtotal,
		DiscountAmount: snap.Totals.Discount,
		Total:          snap.Totals.Total,
		CustomerName:   snap.CustomerName,
		CustomerMobile: snap.CustomerMobile,
		PlacedAt:       f.now(),
	}

	switch snap.Active.Variant() {
	case pricing.VariantLoyal:
		l := snap.Active.Loyal
		o.Loyal = &AppliedLoyal{Mobile: l.Mobile, Type: l.Type, Value: l.Value}
	case pricing.VariantVoucher:
		v := snap.Active.Voucher
		o.Voucher = &AppliedVoucher{Code: v.Code, Type: v.Type, Value: v.Value}
	case pricing.VariantManual:
		m := snap.Active.Manual
		o.Manual = &AppliedManual{Type: m.Type, Value: m.Value}
	}

	lg := zctx.From(ctx)

	if err := f.orders.Create(ctx, o); err != nil {
		lg.Warn("order not persisted, printing with local token only",
			zap.String("token", o.Token), zap.Error(err))
		o.ID = ""
		return &Result{Order: o, Warning: "order could not be saved: " + err.Error()}, nil
	}

	res := &Result{Order: o, Persisted: true}
	if o.Voucher != nil {
		if err := f.accountVoucherUsage(ctx, o.Voucher.Code); err != nil {
			lg.Warn("voucher usage not accounted",
				zap.String("code", o.Voucher.Code), zap.Error(err))
			res.Warning = "voucher usage was not recorded: " + err.Error()
		}
	}
	return res, nil
}

// accountVoucherUsage resolves the voucher's storage id from the code the
// order carried forward and bumps its usage counter by one.
func (f *Finalizer) accountVoucherUsage(ctx context.Context, code string) error {
	v, err := f.vouchers.FindByCode(ctx, strings.ToLower(strings.TrimSpace(code)))
	if err != nil {
		return err
	}
	return f.vouchers.IncrementUsage(ctx, v.ID)
}
