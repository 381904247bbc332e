package repository

import (
	"context"
	"fmt"

	"github.com/go-faster/jx"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/deltabyte/ristora/internal/domain/discount"
	"github.com/deltabyte/ristora/internal/domain/order"
	"github.com/deltabyte/ristora/internal/domain/pricing"
)

const (
	createOrderSQL = `INSERT INTO orders (id, token, items, subtotal,
		discount_amount, total, customer_name, customer_mobile,
		applied_discount, placed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	listOrdersSQL = `SELECT id, token, items, subtotal, discount_amount, total,
		customer_name, customer_mobile, applied_discount, placed_at
		FROM orders ORDER BY placed_at DESC`
)

var _ order.Repository = (*OrderRepository)(nil)

// OrderRepository implements order.Repository backed by PostgreSQL. Line
// items and the applied-discount audit record are stored in JSONB columns;
// the field names in those documents are fixed for compatibility with the
// reporting consumers.
type OrderRepository struct {
	pool *pgxpool.Pool
}

// NewOrderRepository returns an OrderRepository that uses the given pool.
func NewOrderRepository(pool *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{pool: pool}
}

// Create persists a new order.
func (r *OrderRepository) Create(ctx context.Context, o *order.Order) error {
	_, err := r.pool.Exec(ctx, createOrderSQL,
		o.ID, o.Token, encodeLineItems(o.Items), o.Subtotal, o.DiscountAmount,
		o.Total, o.CustomerName, o.CustomerMobile, encodeAppliedDiscount(o),
		o.PlacedAt,
	)
	if err != nil {
		return fmt.Errorf("creating order %q: %w", o.ID, err)
	}
	return nil
}

// List returns all orders, newest first.
func (r *OrderRepository) List(ctx context.Context) ([]order.Order, error) {
	rows, err := r.pool.Query(ctx, listOrdersSQL)
	if err != nil {
		return nil, fmt.Errorf("listing orders: %w", err)
	}

	orders, err := pgx.CollectRows(rows, scanOrder)
	if err != nil {
		return nil, fmt.Errorf("listing orders: %w", err)
	}
	return orders, nil
}

func scanOrder(row pgx.CollectableRow) (order.Order, error) {
	var (
		o           order.Order
		itemsJSON   []byte
		appliedJSON []byte
	)
	err := row.Scan(
		&o.ID, &o.Token, &itemsJSON, &o.Subtotal, &o.DiscountAmount, &o.Total,
		&o.CustomerName, &o.CustomerMobile, &appliedJSON, &o.PlacedAt,
	)
	if err != nil {
		return o, err
	}
	if o.Items, err = decodeLineItems(itemsJSON); err != nil {
		return o, fmt.Errorf("decoding order items: %w", err)
	}
	if err = decodeAppliedDiscount(appliedJSON, &o); err != nil {
		return o, fmt.Errorf("decoding applied discount: %w", err)
	}
	return o, nil
}

// encodeLineItems writes line items as a JSON array. Unit prices are emitted
// as raw JSON numbers so NUMERIC-derived values round-trip without float
// conversion.
func encodeLineItems(items []pricing.LineItem) []byte {
	var e jx.Encoder
	e.ArrStart()
	for _, it := range items {
		e.ObjStart()
		e.FieldStart("id")
		e.Str(it.MenuItemID)
		e.FieldStart("name")
		e.Str(it.Name)
		e.FieldStart("unitPrice")
		e.RawStr(it.UnitPrice.String())
		e.FieldStart("quantity")
		e.Int(it.Quantity)
		e.ObjEnd()
	}
	e.ArrEnd()
	return e.Bytes()
}

func decodeLineItems(data []byte) ([]pricing.LineItem, error) {
	var items []pricing.LineItem
	d := jx.DecodeBytes(data)
	err := d.Arr(func(d *jx.Decoder) error {
		var it pricing.LineItem
		if err := d.Obj(func(d *jx.Decoder, key string) error {
			var err error
			switch key {
			case "id":
				it.MenuItemID, err = d.Str()
			case "name":
				it.Name, err = d.Str()
			case "unitPrice":
				it.UnitPrice, err = decodeDecimal(d)
			case "quantity":
				it.Quantity, err = d.Int()
			default:
				err = d.Skip()
			}
			return err
		}); err != nil {
			return err
		}
		items = append(items, it)
		return nil
	})
	return items, err
}

// encodeAppliedDiscount writes the at-most-one discount audit record, or JSON
// null when the order carried no discount.
func encodeAppliedDiscount(o *order.Order) []byte {
	var e jx.Encoder
	switch {
	case o.Loyal != nil:
		e.ObjStart()
		e.FieldStart("kind")
		e.Str(string(pricing.VariantLoyal))
		e.FieldStart("mobileNumber")
		e.Str(o.Loyal.Mobile)
		e.FieldStart("type")
		e.Str(string(o.Loyal.Type))
		e.FieldStart("value")
		e.RawStr(o.Loyal.Value.String())
		e.ObjEnd()
	case o.Voucher != nil:
		e.ObjStart()
		e.FieldStart("kind")
		e.Str(string(pricing.VariantVoucher))
		e.FieldStart("code")
		e.Str(o.Voucher.Code)
		e.FieldStart("type")
		e.Str(string(o.Voucher.Type))
		e.FieldStart("value")
		e.RawStr(o.Voucher.Value.String())
		e.ObjEnd()
	case o.Manual != nil:
		e.ObjStart()
		e.FieldStart("kind")
		e.Str(string(pricing.VariantManual))
		e.FieldStart("type")
		e.Str(string(o.Manual.Type))
		e.FieldStart("value")
		e.RawStr(o.Manual.Value.String())
		e.ObjEnd()
	default:
		e.Null()
	}
	return e.Bytes()
}

func decodeAppliedDiscount(data []byte, o *order.Order) error {
	if len(data) == 0 {
		return nil
	}
	d := jx.DecodeBytes(data)
	if d.Next() == jx.Null {
		return d.Null()
	}

	var (
		kind   string
		code   string
		mobile string
		typ    string
		value  decimal.Decimal
	)
	if err := d.Obj(func(d *jx.Decoder, key string) error {
		var err error
		switch key {
		case "kind":
			kind, err = d.Str()
		case "code":
			code, err = d.Str()
		case "mobileNumber":
			mobile, err = d.Str()
		case "type":
			typ, err = d.Str()
		case "value":
			value, err = decodeDecimal(d)
		default:
			err = d.Skip()
		}
		return err
	}); err != nil {
		return err
	}

	switch pricing.Variant(kind) {
	case pricing.VariantLoyal:
		o.Loyal = &order.AppliedLoyal{Mobile: mobile, Type: discount.Type(typ), Value: value}
	case pricing.VariantVoucher:
		o.Voucher = &order.AppliedVoucher{Code: code, Type: discount.Type(typ), Value: value}
	case pricing.VariantManual:
		o.Manual = &order.AppliedManual{Type: discount.Type(typ), Value: value}
	}
	return nil
}

func decodeDecimal(d *jx.Decoder) (decimal.Decimal, error) {
	raw, err := d.Num()
	if err != nil {
		return decimal.Zero, err
	}
	return decimal.NewFromString(raw.String())
}
