package repository

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/deltabyte/ristora/internal/domain/menu"
)

const (
	listMenuSQL = `SELECT id, name, price, image, active
		FROM menu_items WHERE active = TRUE ORDER BY name`

	getMenuItemSQL = `SELECT id, name, price, image, active
		FROM menu_items WHERE id = $1`

	createMenuItemSQL = `INSERT INTO menu_items (id, name, price, image, active)
		VALUES ($1, $2, $3, $4, $5)`

	upsertMenuItemSQL = `INSERT INTO menu_items (id, name, price, image, active)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			price = EXCLUDED.price,
			image = EXCLUDED.image,
			active = EXCLUDED.active`

	updateMenuItemSQL = `UPDATE menu_items
		SET name = $2, price = $3, image = $4, active = $5 WHERE id = $1`

	deleteMenuItemSQL = `DELETE FROM menu_items WHERE id = $1`
)

var _ menu.Repository = (*MenuRepository)(nil)

// MenuRepository implements menu.Repository backed by PostgreSQL.
type MenuRepository struct {
	pool *pgxpool.Pool
}

// NewMenuRepository returns a MenuRepository that uses the given pool.
func NewMenuRepository(pool *pgxpool.Pool) *MenuRepository {
	return &MenuRepository{pool: pool}
}

// List returns all active menu items ordered by name.
func (r *MenuRepository) List(ctx context.Context) ([]menu.Item, error) {
	rows, err := r.pool.Query(ctx, listMenuSQL)
	if err != nil {
		return nil, fmt.Errorf("listing menu items: %w", err)
	}

	items, err := pgx.CollectRows(rows, scanMenuItem)
	if err != nil {
		return nil, fmt.Errorf("listing menu items: %w", err)
	}
	return items, nil
}

// GetByID returns a single menu item. Returns menu.ErrNotFound when the id
// matches no record.
func (r *MenuRepository) GetByID(ctx context.Context, id string) (*menu.Item, error) {
	rows, err := r.pool.Query(ctx, getMenuItemSQL, id)
	if err != nil {
		return nil, fmt.Errorf("getting menu item %q: %w", id, err)
	}

	item, err := pgx.CollectExactlyOneRow(rows, scanMenuItem)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, menu.ErrNotFound
		}
		return nil, fmt.Errorf("getting menu item %q: %w", id, err)
	}
	return &item, nil
}

// Create inserts a new menu item.
func (r *MenuRepository) Create(ctx context.Context, item *menu.Item) error {
	_, err := r.pool.Exec(ctx, createMenuItemSQL,
		item.ID, item.Name, item.Price, item.Image, item.Active,
	)
	if err != nil {
		return fmt.Errorf("creating menu item %q: %w", item.Name, err)
	}
	return nil
}

// Upsert inserts a menu item or overwrites the record with the same id.
func (r *MenuRepository) Upsert(ctx context.Context, item *menu.Item) error {
	_, err := r.pool.Exec(ctx, upsertMenuItemSQL,
		item.ID, item.Name, item.Price, item.Image, item.Active,
	)
	if err != nil {
		return fmt.Errorf("upserting menu item %q: %w", item.Name, err)
	}
	return nil
}

// Update overwrites an existing menu item. Returns menu.ErrNotFound when the
// id matches no record.
func (r *MenuRepository) Update(ctx context.Context, item *menu.Item) error {
	tag, err := r.pool.Exec(ctx, updateMenuItemSQL,
		item.ID, item.Name, item.Price, item.Image, item.Active,
	)
	if err != nil {
		return fmt.Errorf("updating menu item %q: %w", item.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return menu.ErrNotFound
	}
	return nil
}

// Delete removes a menu item. Returns menu.ErrNotFound when the id matches no
// record. Orders keep their own item snapshots, so deletion never breaks a
// placed order.
func (r *MenuRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, deleteMenuItemSQL, id)
	if err != nil {
		return fmt.Errorf("deleting menu item %q: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return menu.ErrNotFound
	}
	return nil
}

func scanMenuItem(row pgx.CollectableRow) (menu.Item, error) {
	var item menu.Item
	err := row.Scan(&item.ID, &item.Name, &item.Price, &item.Image, &item.Active)
	return item, err
}
