package repository

import (
	"context"
	"fmt"

	"github.com/dmassey/grocery-prices/internal/catalog"
	"github.com/dmassey/grocery-prices/internal/model"
	"github.com/jmoiron/sqlx"
)

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

// schemaStatements bootstrap the store idempotently. The two tables are the
// contract with the downstream reporting collaborator, so their shape must
// stay stable.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS products (
        id BIGSERIAL PRIMARY KEY,
        category_id TEXT NOT NULL,
        category_name TEXT NOT NULL,
        product_id TEXT NOT NULL UNIQUE,
        product_name TEXT NOT NULL,
        brand_name TEXT,
        is_own_brand BOOLEAN,
        sku_id TEXT NOT NULL,
        date_added TIMESTAMPTZ NOT NULL DEFAULT now()
    )`,
	`CREATE TABLE IF NOT EXISTS price_history (
        id BIGSERIAL PRIMARY KEY,
        product_id TEXT NOT NULL REFERENCES products(product_id),
        price NUMERIC(10,2) NOT NULL CHECK (price >= 0),
        recorded_at TIMESTAMPTZ NOT NULL DEFAULT now()
    )`,
	`CREATE INDEX IF NOT EXISTS idx_products_product_id ON products(product_id)`,
	`CREATE INDEX IF NOT EXISTS idx_products_category ON products(category_id)`,
	`CREATE INDEX IF NOT EXISTS idx_price_history ON price_history(product_id, recorded_at)`,
}

func (r *PGRepository) EnsureSchema(ctx context.Context) error {
	for _, stmt := range schemaStatements {
		if _, err := r.DB.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}

const upsertProductQuery = `
    INSERT INTO products (category_id, category_name, product_id, product_name, brand_name, is_own_brand, sku_id)
    VALUES (:category_id, :category_name, :product_id, :product_name, :brand_name, :is_own_brand, :sku_id)
    ON CONFLICT (product_id) DO NOTHING
`

const appendPriceQuery = `
    INSERT INTO price_history (product_id, price)
    VALUES ($1, $2)
`

func (r *PGRepository) UpsertProduct(ctx context.Context, p *model.Product) (bool, error) {
	res, err := r.DB.NamedExecContext(ctx, upsertProductQuery, p)
	if err != nil {
		return false, err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows > 0, nil
}

func (r *PGRepository) AppendPriceObservation(ctx context.Context, productID string, price float64) error {
	if price < 0 {
		return fmt.Errorf("price observation for %s must be non-negative, got %v", productID, price)
	}
	_, err := r.DB.ExecContext(ctx, appendPriceQuery, productID, price)
	return err
}

func (r *PGRepository) SaveRecord(ctx context.Context, p *model.Product, price *float64) error {
	if price != nil && *price < 0 {
		return fmt.Errorf("price observation for %s must be non-negative, got %v", p.ProductID, *price)
	}

	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.NamedExecContext(ctx, upsertProductQuery, p); err != nil {
		return fmt.Errorf("upsert product %s: %w", p.ProductID, err)
	}

	if price != nil {
		if _, err := tx.ExecContext(ctx, appendPriceQuery, p.ProductID, *price); err != nil {
			return fmt.Errorf("append price for %s: %w", p.ProductID, err)
		}
	}

	return tx.Commit()
}

func (r *PGRepository) Stats(ctx context.Context) (*catalog.Stats, error) {
	var stats catalog.Stats

	if err := r.DB.GetContext(ctx, &stats.UniqueProducts,
		`SELECT COUNT(DISTINCT product_id) FROM products`); err != nil {
		return nil, err
	}
	if err := r.DB.GetContext(ctx, &stats.PriceObservations,
		`SELECT COUNT(*) FROM price_history`); err != nil {
		return nil, err
	}

	return &stats, nil
}
