// Package cart holds the live cart state machine. Cart is the pure state
// core: line items, at most one active discount source, and optional customer
// identity. Session (session.go) layers resolver I/O and race guarding on top.
package cart

import (
	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/deltabyte/ristora/internal/domain/discount"
	"github.com/deltabyte/ristora/internal/domain/menu"
	"github.com/deltabyte/ristora/internal/domain/pricing"
)

var (
	// ErrLoyalConflict is returned when a voucher or manual discount is
	// applied while a loyal-customer discount is active. The loyal discount
	// takes precedence and must be cleared first.
	ErrLoyalConflict = errors.New("a loyal customer discount is already applied")
	// ErrInvalidManual is returned for an out-of-range manual discount value.
	ErrInvalidManual = errors.New("manual discount value is out of range")
)

// Cart is an owned, single-writer cart state. All mutators either fully
// commit or leave the state untouched; none of them perform I/O.
type Cart struct {
	items          []pricing.LineItem
	active         pricing.ActiveDiscount
	customerName   string
	customerMobile string
}

// New returns an empty cart with no discount and no customer identity.
func New() *Cart {
	return &Cart{active: pricing.ActiveDiscount{Manual: pricing.NewManual()}}
}

// AddItem inserts a menu item with quantity 1, or bumps the quantity by 1
// when the item is already in the cart. Name and price are snapshotted.
func (c *Cart) AddItem(item menu.Item) {
	for i := range c.items {
		if c.items[i].MenuItemID == item.ID {
			c.items[i].Quantity++
			return
		}
	}
	c.items = append(c.items, pricing.LineItem{
		MenuItemID: item.ID,
		Name:       item.Name,
		UnitPrice:  item.Price,
		Quantity:   1,
	})
}

// RemoveItem deletes the line item with the given menu item id, if present.
func (c *Cart) RemoveItem(menuItemID string) {
	for i := range c.items {
		if c.items[i].MenuItemID == menuItemID {
			c.items = append(c.items[:i], c.items[i+1:]...)
			return
		}
	}
}

// SetQuantity overwrites a line item's quantity. A quantity of zero or less
// removes the item.
func (c *Cart) SetQuantity(menuItemID string, quantity int) {
	if quantity <= 0 {
		c.RemoveItem(menuItemID)
		return
	}
	for i := range c.items {
		if c.items[i].MenuItemID == menuItemID {
			c.items[i].Quantity = quantity
			return
		}
	}
}

// SetCustomer overwrites the customer name and mobile. It does not trigger a
// loyal-discount lookup; that is the caller's decision.
func (c *Cart) SetCustomer(name, mobile string) {
	c.customerName = name
	c.customerMobile = mobile
}

// SetLoyal activates a loyal-customer discount, clearing any voucher or
// manual discount. Loyal discounts take precedence over both.
func (c *Cart) SetLoyal(d *discount.LoyalDiscount) {
	c.clearDiscount()
	c.active.Loyal = d
}

// ClearLoyal deactivates the loyal-customer discount if it is the active one.
func (c *Cart) ClearLoyal() {
	c.active.Loyal = nil
}

// SetVoucher activates a voucher, clearing any manual discount. It is
// rejected with ErrLoyalConflict while a loyal-customer discount is active.
func (c *Cart) SetVoucher(v *discount.Voucher) error {
	if c.active.Loyal != nil {
		return ErrLoyalConflict
	}
	c.clearDiscount()
	c.active.Voucher = v
	return nil
}

// RemoveVoucher deactivates the voucher if it is the active one.
func (c *Cart) RemoveVoucher() {
	c.active.Voucher = nil
}

// SetManual activates a manual discount, clearing any voucher. It is rejected
// with ErrLoyalConflict while a loyal-customer discount is active, and with
// ErrInvalidManual when the value is negative or a percentage above 100.
// A value of zero is the "no manual discount" representation and is accepted.
func (c *Cart) SetManual(t discount.Type, value decimal.Decimal) error {
	if c.active.Loyal != nil {
		return ErrLoyalConflict
	}
	if !t.Valid() {
		return ErrInvalidManual
	}
	if value.IsNegative() {
		return ErrInvalidManual
	}
	if t == discount.TypePercentage && value.GreaterThan(decimal.NewFromInt(100)) {
		return ErrInvalidManual
	}
	c.clearDiscount()
	c.active.Manual = pricing.Manual{Type: t, Value: value}
	return nil
}

// RemoveManual resets the manual discount to its {fixed, 0} default.
func (c *Cart) RemoveManual() {
	c.active.Manual = pricing.NewManual()
}

// clearDiscount resets all three variants at once. Called before any variant
// is set so exclusivity can never be violated.
func (c *Cart) clearDiscount() {
	c.active.Loyal = nil
	c.active.Voucher = nil
	c.active.Manual = pricing.NewManual()
}

// ClearDiscount resets all discount variants to inactive.
func (c *Cart) ClearDiscount() {
	c.clearDiscount()
}

// Clear empties the cart: items, discount variants, and customer identity.
// Called by the owner after a successful order print.
func (c *Cart) Clear() {
	c.items = nil
	c.clearDiscount()
	c.customerName = ""
	c.customerMobile = ""
}

// Empty reports whether the cart has no line items.
func (c *Cart) Empty() bool {
	return len(c.items) == 0
}

// Items returns a copy of the cart's line items.
func (c *Cart) Items() []pricing.LineItem {
	out := make([]pricing.LineItem, len(c.items))
	copy(out, c.items)
	return out
}

// Customer returns the customer name and mobile.
func (c *Cart) Customer() (name, mobile string) {
	return c.customerName, c.customerMobile
}

// Active returns the current active-discount value.
func (c *Cart) Active() pricing.ActiveDiscount {
	return c.active
}

// Totals computes the current pricing breakdown. Idempotent and
// side-effect-free; safe to call on every render.
func (c *Cart) Totals() pricing.Totals {
	return pricing.Compute(c.items, c.active)
}

// Snapshot is an immutable copy of the cart taken at finalization time.
type Snapshot struct {
	Items          []pricing.LineItem
	Active         pricing.ActiveDiscount
	Totals         pricing.Totals
	CustomerName   string
	CustomerMobile string
}

// Snapshot captures the cart's current state for order finalization.
func (c *Cart) Snapshot() Snapshot {
	return Snapshot{
		Items:          c.Items(),
		Active:         c.active,
		Totals:         c.Totals(),
		CustomerName:   c.customerName,
		CustomerMobile: c.customerMobile,
	}
}
