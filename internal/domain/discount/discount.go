// Package discount holds the two persistent discount sources — promotional
// vouchers and loyal-customer standing discounts — and the resolvers that
// validate them at checkout time.
package discount

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// Type enumerates the supported discount value semantics.
type Type string

const (
	// TypePercentage discounts a percentage of the cart subtotal.
	TypePercentage Type = "percentage"
	// TypeFixed discounts a fixed monetary amount, capped at the subtotal.
	TypeFixed Type = "fixed"
)

// Valid reports whether t is a known discount type.
func (t Type) Valid() bool {
	return t == TypePercentage || t == TypeFixed
}

var (
	// ErrVoucherNotFound is returned by repositories when a voucher code or id
	// has no matching record.
	ErrVoucherNotFound = errors.New("voucher not found")
	// ErrLoyalNotFound is returned by repositories when a mobile number has no
	// matching loyal-discount record.
	ErrLoyalNotFound = errors.New("loyal discount not found")
	// ErrInvalidValue is returned when a discount value is out of range for
	// its type: fixed values must be non-negative, percentages in (0, 100].
	ErrInvalidValue = errors.New("invalid discount value")
)

// Voucher is a promotional code with optional eligibility constraints and a
// monotonically increasing usage counter. The counter is bumped exactly once
// per finalized order that applied the voucher, never decremented.
type Voucher struct {
	ID             string
	Code           string
	Type           Type
	Value          decimal.Decimal
	MinOrderAmount *decimal.Decimal
	ValidFrom      *time.Time
	ValidUntil     *time.Time
	UsageLimit     int // 0 means unlimited
	TimesUsed      int
	Active         bool
}

// LoyalDiscount is a standing discount keyed by a customer's mobile number.
// It is looked up at checkout and never consumed.
type LoyalDiscount struct {
	ID           string
	Mobile       string
	CustomerName string
	Type         Type
	Value        decimal.Decimal
	Active       bool
}

// CheckValue validates a discount value against its type. Percentage values
// must be in (0, 100]; fixed values must be non-negative.
func CheckValue(t Type, value decimal.Decimal) error {
	if !t.Valid() {
		return errors.Errorf("unsupported discount type: %q", t)
	}
	if value.IsNegative() {
		return ErrInvalidValue
	}
	if t == TypePercentage {
		if value.IsZero() || value.GreaterThan(decimal.NewFromInt(100)) {
			return ErrInvalidValue
		}
	}
	return nil
}

// VoucherRepository provides lookup and mutation of vouchers.
type VoucherRepository interface {
	// FindByCode performs a case-insensitive lookup by voucher code.
	// Returns ErrVoucherNotFound when no record matches.
	FindByCode(ctx context.Context, code string) (*Voucher, error)
	// IncrementUsage bumps times_used by exactly one inside a single atomic
	// read-modify-write. Returns ErrVoucherNotFound when the id is unknown.
	IncrementUsage(ctx context.Context, id string) error
	List(ctx context.Context) ([]Voucher, error)
	Create(ctx context.Context, v *Voucher) error
}

// LoyalRepository provides lookup and mutation of loyal-customer discounts.
type LoyalRepository interface {
	// FindByMobile looks up the unique record with an exact mobile match.
	// Returns ErrLoyalNotFound when no record matches.
	FindByMobile(ctx context.Context, mobile string) (*LoyalDiscount, error)
	List(ctx context.Context) ([]LoyalDiscount, error)
	Create(ctx context.Context, d *LoyalDiscount) error
}
