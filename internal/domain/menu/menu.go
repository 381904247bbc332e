package menu

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// ErrNotFound is returned when a requested menu item does not exist.
var ErrNotFound = errors.New("menu item not found")

// Item represents a catalog entry available for ordering. Name and price are
// snapshotted onto orders at add-time, so edits to an Item never retroactively
// change a placed order.
type Item struct {
	ID     string
	Name   string
	Price  decimal.Decimal
	Image  string
	Active bool
}

// Repository defines persistence operations for the menu catalog.
type Repository interface {
	List(ctx context.Context) ([]Item, error)
	GetByID(ctx context.Context, id string) (*Item, error)
	Create(ctx context.Context, item *Item) error
	Update(ctx context.Context, item *Item) error
	Delete(ctx context.Context, id string) error
}
