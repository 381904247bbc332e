package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/deltabyte/ristora/internal/domain/discount"
)

const (
	voucherColumns = `id, code, discount_type, value, min_order_amount,
		valid_from, valid_until, usage_limit, times_used, active`

	findVoucherByCodeSQL = `SELECT ` + voucherColumns + `
		FROM vouchers WHERE LOWER(code) = LOWER($1)`

	listVouchersSQL = `SELECT ` + voucherColumns + `
		FROM vouchers ORDER BY created_at DESC`

	createVoucherSQL = `INSERT INTO vouchers (id, code, discount_type, value,
		min_order_amount, valid_from, valid_until, usage_limit, times_used, active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	upsertVoucherSQL = `INSERT INTO vouchers (id, code, discount_type, value,
		min_order_amount, valid_from, valid_until, usage_limit, times_used, active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (LOWER(code)) DO UPDATE SET
			discount_type = EXCLUDED.discount_type,
			value = EXCLUDED.value,
			min_order_amount = EXCLUDED.min_order_amount,
			valid_from = EXCLUDED.valid_from,
			valid_until = EXCLUDED.valid_until,
			usage_limit = EXCLUDED.usage_limit,
			active = EXCLUDED.active`

	// The counter moves inside a single UPDATE so concurrent finalizations of
	// different orders with the same code never lose an increment.
	incrementVoucherUsageSQL = `UPDATE vouchers
		SET times_used = times_used + 1 WHERE id = $1`
)

var _ discount.VoucherRepository = (*VoucherRepository)(nil)

// VoucherRepository implements discount.VoucherRepository backed by
// PostgreSQL.
type VoucherRepository struct {
	pool *pgxpool.Pool
}

// NewVoucherRepository returns a VoucherRepository that uses the given pool.
func NewVoucherRepository(pool *pgxpool.Pool) *VoucherRepository {
	return &VoucherRepository{pool: pool}
}

// FindByCode looks up a voucher by its code, case-insensitively.
// Returns discount.ErrVoucherNotFound when no record matches.
func (r *VoucherRepository) FindByCode(ctx context.Context, code string) (*discount.Voucher, error) {
	rows, err := r.pool.Query(ctx, findVoucherByCodeSQL, code)
	if err != nil {
		return nil, fmt.Errorf("finding voucher by code %q: %w", code, err)
	}

	v, err := pgx.CollectExactlyOneRow(rows, scanVoucher)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, discount.ErrVoucherNotFound
		}
		return nil, fmt.Errorf("finding voucher by code %q: %w", code, err)
	}
	return &v, nil
}

// IncrementUsage bumps times_used by exactly one. The UPDATE is atomic at the
// database, so no transaction wrapper is needed. Returns
// discount.ErrVoucherNotFound when the id matches no row.
func (r *VoucherRepository) IncrementUsage(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, incrementVoucherUsageSQL, id)
	if err != nil {
		return fmt.Errorf("incrementing usage for voucher %q: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return discount.ErrVoucherNotFound
	}
	return nil
}

// List returns all vouchers, newest first.
func (r *VoucherRepository) List(ctx context.Context) ([]discount.Voucher, error) {
	rows, err := r.pool.Query(ctx, listVouchersSQL)
	if err != nil {
		return nil, fmt.Errorf("listing vouchers: %w", err)
	}

	vouchers, err := pgx.CollectRows(rows, scanVoucher)
	if err != nil {
		return nil, fmt.Errorf("listing vouchers: %w", err)
	}
	return vouchers, nil
}

// Upsert inserts a voucher or, when the code already exists, refreshes its
// rule fields. times_used is preserved on conflict.
func (r *VoucherRepository) Upsert(ctx context.Context, v *discount.Voucher) error {
	_, err := r.pool.Exec(ctx, upsertVoucherSQL,
		v.ID, v.Code, string(v.Type), v.Value, v.MinOrderAmount,
		v.ValidFrom, v.ValidUntil, v.UsageLimit, v.TimesUsed, v.Active,
	)
	if err != nil {
		return fmt.Errorf("upserting voucher %q: %w", v.Code, err)
	}
	return nil
}

// Create inserts a new voucher record.
func (r *VoucherRepository) Create(ctx context.Context, v *discount.Voucher) error {
	_, err := r.pool.Exec(ctx, createVoucherSQL,
		v.ID, v.Code, string(v.Type), v.Value, v.MinOrderAmount,
		v.ValidFrom, v.ValidUntil, v.UsageLimit, v.TimesUsed, v.Active,
	)
	if err != nil {
		return fmt.Errorf("creating voucher %q: %w", v.Code, err)
	}
	return nil
}

func scanVoucher(row pgx.CollectableRow) (discount.Voucher, error) {
	var (
		v            discount.Voucher
		discountType string
		minOrder     *decimal.Decimal
		validFrom    *time.Time
		validUntil   *time.Time
		usageLimit   int32
		timesUsed    int32
	)
	err := row.Scan(
		&v.ID, &v.Code, &discountType, &v.Value, &minOrder,
		&validFrom, &validUntil, &usageLimit, &timesUsed, &v.Active,
	)
	v.Type = discount.Type(discountType)
	v.MinOrderAmount = minOrder
	v.ValidFrom = validFrom
	v.ValidUntil = validUntil
	v.UsageLimit = int(usageLimit)
	v.TimesUsed = int(timesUsed)
	return v, err
}
