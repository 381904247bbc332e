// Command seed-db loads a starter menu, a few demo vouchers, and demo
// loyal-customer discounts. Safe to run repeatedly.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/deltabyte/ristora/internal/domain/discount"
	"github.com/deltabyte/ristora/internal/domain/menu"
	"github.com/deltabyte/ristora/internal/repository"
)

type menuItemJSON struct {
	ID    string          `json:"id"`
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
	Image string          `json:"image"`
}

func main() {
	var (
		databaseURL string
		menuFile    string
	)

	flag.StringVar(&databaseURL, "database-url", "", "PostgreSQL connection URL (or DATABASE_URL env)")
	flag.StringVar(&menuFile, "menu-file", "db/seed/menu.json", "path to menu JSON file")
	flag.Parse()

	if databaseURL == "" {
		databaseURL = os.Getenv("DATABASE_URL")
	}
	if databaseURL == "" {
		slog.Error("database URL is required: set --database-url or DATABASE_URL")
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx, databaseURL, menuFile); err != nil {
		slog.Error("seed failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("seed completed successfully")
}

func run(ctx context.Context, databaseURL, menuFile string) error {
	slog.Info("connecting to database")

	pool, err := repository.NewPool(ctx, databaseURL)
	if err != nil {
		return errors.Wrap(err, "connect to database")
	}
	defer pool.Close()

	slog.Info("running migrations")

	if err := repository.RunMigrations(ctx, pool); err != nil {
		return errors.Wrap(err, "run migrations")
	}

	if err := seedMenu(ctx, repository.NewMenuRepository(pool), menuFile); err != nil {
		return errors.Wrap(err, "seed menu")
	}

	if err := seedVouchers(ctx, repository.NewVoucherRepository(pool)); err != nil {
		return errors.Wrap(err, "seed vouchers")
	}

	if err := seedLoyalDiscounts(ctx, repository.NewLoyalRepository(pool)); err != nil {
		return errors.Wrap(err, "seed loyal discounts")
	}

	return nil
}

func seedMenu(ctx context.Context, repo *repository.MenuRepository, menuFile string) error {
	slog.Info("reading menu file", slog.String("path", menuFile))

	data, err := os.ReadFile(menuFile)
	if err != nil {
		return errors.Wrap(err, "read menu file")
	}

	var items []menuItemJSON
	if err := json.Unmarshal(data, &items); err != nil {
		return errors.Wrap(err, "parse menu JSON")
	}

	slog.Info("upserting menu items", slog.Int("count", len(items)))

	for _, it := range items {
		if err := repo.Upsert(ctx, &menu.Item{
			ID:     it.ID,
			Name:   it.Name,
			Price:  it.Price,
			Image:  it.Image,
			Active: true,
		}); err != nil {
			return errors.Wrapf(err, "upsert menu item %s", it.ID)
		}

		slog.Info("upserted menu item", slog.String("id", it.ID), slog.String("name", it.Name))
	}

	return nil
}

func seedVouchers(ctx context.Context, repo *repository.VoucherRepository) error {
	slog.Info("seeding demo vouchers")

	minOrder := decimal.NewFromInt(40)
	nextMonth := time.Now().AddDate(0, 1, 0)

	vouchers := []discount.Voucher{
		{
			ID:     uuid.NewString(),
			Code:   "WELCOME10",
			Type:   discount.TypePercentage,
			Value:  decimal.NewFromInt(10),
			Active: true,
		},
		{
			ID:             uuid.NewString(),
			Code:           "FAMIGLIA",
			Type:           discount.TypeFixed,
			Value:          decimal.NewFromInt(12),
			MinOrderAmount: &minOrder,
			Active:         true,
		},
		{
			ID:         uuid.NewString(),
			Code:       "OPENWEEK",
			Type:       discount.TypePercentage,
			Value:      decimal.NewFromInt(20),
			ValidUntil: &nextMonth,
			UsageLimit: 200,
			Active:     true,
		},
	}

	for i := range vouchers {
		if err := repo.Upsert(ctx, &vouchers[i]); err != nil {
			return errors.Wrapf(err, "upsert voucher %s", vouchers[i].Code)
		}

		slog.Info("upserted voucher", slog.String("code", vouchers[i].Code))
	}

	return nil
}

func seedLoyalDiscounts(ctx context.Context, repo *repository.LoyalRepository) error {
	slog.Info("seeding demo loyal discounts")

	loyals := []discount.LoyalDiscount{
		{
			ID:           uuid.NewString(),
			Mobile:       "5550100",
			CustomerName: "Rosa Bellucci",
			Type:         discount.TypePercentage,
			Value:        decimal.NewFromInt(15),
			Active:       true,
		},
		{
			ID:           uuid.NewString(),
			Mobile:       "5550142",
			CustomerName: "Marco Greco",
			Type:         discount.TypeFixed,
			Value:        decimal.NewFromInt(5),
			Active:       true,
		},
	}

	for i := range loyals {
		if err := repo.Upsert(ctx, &loyals[i]); err != nil {
			return errors.Wrapf(err, "upsert loyal discount %s", loyals[i].Mobile)
		}

		slog.Info("upserted loyal discount",
			slog.String("mobile", loyals[i].Mobile),
			slog.String("name", loyals[i].CustomerName),
		)
	}

	return nil
}
