package repository

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/deltabyte/ristora/internal/domain/discount"
)

const (
	findLoyalByMobileSQL = `SELECT id, mobile, customer_name, discount_type, value, active
		FROM loyal_discounts WHERE mobile = $1`

	listLoyalSQL = `SELECT id, mobile, customer_name, discount_type, value, active
		FROM loyal_discounts ORDER BY created_at DESC`

	createLoyalSQL = `INSERT INTO loyal_discounts
		(id, mobile, customer_name, discount_type, value, active)
		VALUES ($1, $2, $3, $4, $5, $6)`

	upsertLoyalSQL = `INSERT INTO loyal_discounts
		(id, mobile, customer_name, discount_type, value, active)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (mobile) DO UPDATE SET
			customer_name = EXCLUDED.customer_name,
			discount_type = EXCLUDED.discount_type,
			value = EXCLUDED.value,
			active = EXCLUDED.active`
)

var _ discount.LoyalRepository = (*LoyalRepository)(nil)

// LoyalRepository implements discount.LoyalRepository backed by PostgreSQL.
type LoyalRepository struct {
	pool *pgxpool.Pool
}

// NewLoyalRepository returns a LoyalRepository that uses the given pool.
func NewLoyalRepository(pool *pgxpool.Pool) *LoyalRepository {
	return &LoyalRepository{pool: pool}
}

// FindByMobile looks up the unique record with an exact mobile match.
// Returns discount.ErrLoyalNotFound when no record matches.
func (r *LoyalRepository) FindByMobile(ctx context.Context, mobile string) (*discount.LoyalDiscount, error) {
	rows, err := r.pool.Query(ctx, findLoyalByMobileSQL, mobile)
	if err != nil {
		return nil, fmt.Errorf("finding loyal discount for %q: %w", mobile, err)
	}

	d, err := pgx.CollectExactlyOneRow(rows, scanLoyal)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, discount.ErrLoyalNotFound
		}
		return nil, fmt.Errorf("finding loyal discount for %q: %w", mobile, err)
	}
	return &d, nil
}

// List returns all loyal-customer discounts, newest first.
func (r *LoyalRepository) List(ctx context.Context) ([]discount.LoyalDiscount, error) {
	rows, err := r.pool.Query(ctx, listLoyalSQL)
	if err != nil {
		return nil, fmt.Errorf("listing loyal discounts: %w", err)
	}

	discounts, err := pgx.CollectRows(rows, scanLoyal)
	if err != nil {
		return nil, fmt.Errorf("listing loyal discounts: %w", err)
	}
	return discounts, nil
}

// Create inserts a new loyal-discount record. The mobile column is unique, so
// a second record for the same number fails at the database.
func (r *LoyalRepository) Create(ctx context.Context, d *discount.LoyalDiscount) error {
	_, err := r.pool.Exec(ctx, createLoyalSQL,
		d.ID, d.Mobile, d.CustomerName, string(d.Type), d.Value, d.Active,
	)
	if err != nil {
		return fmt.Errorf("creating loyal discount for %q: %w", d.Mobile, err)
	}
	return nil
}

// Upsert inserts a loyal-discount record or refreshes the one already keyed
// by the same mobile number.
func (r *LoyalRepository) Upsert(ctx context.Context, d *discount.LoyalDiscount) error {
	_, err := r.pool.Exec(ctx, upsertLoyalSQL,
		d.ID, d.Mobile, d.CustomerName, string(d.Type), d.Value, d.Active,
	)
	if err != nil {
		return fmt.Errorf("upserting loyal discount for %q: %w", d.Mobile, err)
	}
	return nil
}

func scanLoyal(row pgx.CollectableRow) (discount.LoyalDiscount, error) {
	var (
		d            discount.LoyalDiscount
		discountType string
	)
	err := row.Scan(&d.ID, &d.Mobile, &d.CustomerName, &discountType, &d.Value, &d.Active)
	d.Type = discount.Type(discountType)
	return d, err
}
