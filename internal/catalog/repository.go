package catalog

import (
	"context"

	"github.com/dmassey/grocery-prices/internal/model"
)

// Stats are read back at the end of a run for the summary report.
type Stats struct {
	UniqueProducts    int
	PriceObservations int
}

type Repository interface {
	// EnsureSchema creates the two tables and their indexes if absent.
	EnsureSchema(ctx context.Context) error

	// UpsertProduct inserts a product if its upstream identifier is new and
	// reports whether a row was actually inserted. An existing product is a
	// no-op, not an error.
	UpsertProduct(ctx context.Context, p *model.Product) (bool, error)

	// AppendPriceObservation adds one history row. Price must be non-negative.
	AppendPriceObservation(ctx context.Context, productID string, price float64) error

	// SaveRecord persists one mapped record atomically: the product upsert and
	// the optional price observation either both commit or neither does. A nil
	// price skips the observation but still stores the product.
	SaveRecord(ctx context.Context, p *model.Product, price *float64) error

	Stats(ctx context.Context) (*Stats, error)
}
