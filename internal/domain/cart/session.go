package cart

import (
	"context"
	"strings"
	"sync"
	"unicode"

	"github.com/shopspring/decimal"

	"github.com/deltabyte/ristora/internal/domain/discount"
	"github.com/deltabyte/ristora/internal/domain/menu"
	"github.com/deltabyte/ristora/internal/domain/pricing"
)

// MinMobileLen is the minimum number of digits a mobile number must carry
// before a loyal-discount lookup is attempted.
const MinMobileLen = 7

// Session owns one Cart and the discount resolvers, and serializes access to
// the cart. The in-flight window of a resolver call is guarded with a
// revision counter: the revision is captured before the lookup, the lock is
// released for the duration of the I/O, and the response is discarded when
// the cart changed in the meantime. Last-resolver-wins races between a slow
// loyal lookup and a fast voucher application are resolved in favour of
// whatever the cart looks like now, not when the lookup started.
type Session struct {
	mu   sync.Mutex
	cart *Cart
	rev  uint64

	vouchers discount.VoucherValidator
	loyals   discount.LoyalLookup
}

// NewSession creates a Session with an empty cart and the given resolvers.
func NewSession(vouchers discount.VoucherValidator, loyals discount.LoyalLookup) *Session {
	return &Session{cart: New(), vouchers: vouchers, loyals: loyals}
}

// AddItem adds a menu item to the cart.
func (s *Session) AddItem(item menu.Item) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cart.AddItem(item)
	s.rev++
}

// RemoveItem removes a line item by menu item id.
func (s *Session) RemoveItem(menuItemID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cart.RemoveItem(menuItemID)
	s.rev++
}

// SetQuantity overwrites a line item's quantity; zero or less removes it.
func (s *Session) SetQuantity(menuItemID string, quantity int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cart.SetQuantity(menuItemID, quantity)
	s.rev++
}

// SetCustomer overwrites the customer name and mobile without triggering a
// loyal-discount lookup.
func (s *Session) SetCustomer(name, mobile string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cart.SetCustomer(name, mobile)
}

// LoyalCheckResult reports the outcome of a loyal-discount check.
type LoyalCheckResult struct {
	// Applied is set when a matching active discount was found and activated.
	Applied bool
	// Cleared is set when a previously active loyal discount was removed
	// because the number no longer matches (or is too short).
	Cleared bool
	// Stale is set when the cart changed while the lookup was in flight and
	// the response was discarded without touching the cart.
	Stale bool
	// Discount is the activated discount when Applied is set.
	Discount *discount.LoyalDiscount
}

// CheckLoyal resolves a mobile number against the loyal-discount source and
// updates the cart. Numbers shorter than MinMobileLen skip the lookup
// entirely and clear any active loyal discount. On a match, any voucher or
// manual discount is cleared and the loyal variant takes over. On no match,
// an active loyal variant reverts to none; it does not fall back to
// re-validating a previously applied voucher.
func (s *Session) CheckLoyal(ctx context.Context, mobile string) (LoyalCheckResult, error) {
	mobile = strings.TrimSpace(mobile)

	s.mu.Lock()
	if digitCount(mobile) < MinMobileLen {
		var res LoyalCheckResult
		if s.cart.Active().Loyal != nil {
			s.cart.ClearLoyal()
			s.rev++
			res.Cleared = true
		}
		s.mu.Unlock()
		return res, nil
	}
	before := s.rev
	s.mu.Unlock()

	found, err := s.loyals.FindActive(ctx, mobile)
	if err != nil {
		return LoyalCheckResult{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.rev != before {
		return LoyalCheckResult{Stale: true}, nil
	}

	if found != nil {
		s.cart.SetLoyal(found)
		s.rev++
		return LoyalCheckResult{Applied: true, Discount: found}, nil
	}
	if s.cart.Active().Loyal != nil {
		s.cart.ClearLoyal()
		s.rev++
		return LoyalCheckResult{Cleared: true}, nil
	}
	return LoyalCheckResult{}, nil
}

// VoucherResult reports the outcome of a voucher application.
type VoucherResult struct {
	// Applied is set when the voucher was validated and activated.
	Applied bool
	// Stale is set when the cart changed while validation was in flight and
	// the response was discarded without touching the cart.
	Stale bool
	// Rejection carries the business-rule refusal when the voucher was not
	// accepted, including the loyal-discount conflict notice.
	Rejection *discount.Rejection
	// Voucher is the activated voucher when Applied is set.
	Voucher *discount.Voucher
}

// ApplyVoucher validates a voucher code against the current subtotal and
// activates it. While a loyal-customer discount is active the attempt is a
// no-op conflict. On rejection the voucher variant is left clear, so a
// previously applied voucher does not silently survive a failed re-entry.
func (s *Session) ApplyVoucher(ctx context.Context, code string) (VoucherResult, error) {
	s.mu.Lock()
	if s.cart.Active().Loyal != nil {
		s.mu.Unlock()
		return VoucherResult{Rejection: &discount.Rejection{Reason: ErrLoyalConflict.Error()}}, nil
	}
	subtotal := s.cart.Totals().Subtotal
	before := s.rev
	s.mu.Unlock()

	v, rej, err := s.vouchers.Validate(ctx, code, subtotal)
	if err != nil {
		return VoucherResult{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.rev != before {
		return VoucherResult{Stale: true}, nil
	}

	if rej != nil {
		s.cart.RemoveVoucher()
		s.rev++
		return VoucherResult{Rejection: rej}, nil
	}

	if err := s.cart.SetVoucher(v); err != nil {
		// Unreachable given the revision guard, kept for the invariant.
		return VoucherResult{Rejection: &discount.Rejection{Reason: err.Error()}}, nil
	}
	s.rev++
	return VoucherResult{Applied: true, Voucher: v}, nil
}

// RemoveVoucher clears the voucher variant if it is the active one.
func (s *Session) RemoveVoucher() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cart.RemoveVoucher()
	s.rev++
}

// ApplyManual activates a manual discount. Conflicts and invalid values are
// returned as errors from the cart core with no state change.
func (s *Session) ApplyManual(t discount.Type, value decimal.Decimal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.cart.SetManual(t, value); err != nil {
		return err
	}
	s.rev++
	return nil
}

// RemoveManual resets the manual discount to its default.
func (s *Session) RemoveManual() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cart.RemoveManual()
	s.rev++
}

// Clear empties the cart, discount variants, and customer identity.
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cart.Clear()
	s.rev++
}

// Snapshot captures the cart's current state for finalization.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.Snapshot()
}

// Totals computes the current pricing breakdown.
func (s *Session) Totals() pricing.Totals {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.Totals()
}

// digitCount counts decimal digits, ignoring spacing and punctuation that
// POS operators commonly type into the mobile field.
func digitCount(s string) int {
	n := 0
	for _, r := range s {
		if unicode.IsDigit(r) {
			n++
		}
	}
	return n
}
