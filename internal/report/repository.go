package report

import (
	"context"
	"time"
)

// OverallMetrics compares each product's first and last observed price.
// Products with a single observation are excluded.
type OverallMetrics struct {
	TotalProducts    int       `db:"total_products"`
	AvgPercentChange float64   `db:"avg_percent_change"`
	EarliestDate     time.Time `db:"-"`
	LatestDate       time.Time `db:"-"`
	NumIncreased     int       `db:"num_increased"`
	NumDecreased     int       `db:"num_decreased"`
	NumUnchanged     int       `db:"num_unchanged"`
}

// MonthlyMetric is one point of the price index: average product price for a
// month relative to the baseline (earliest) month.
type MonthlyMetric struct {
	YearMonth                string  `db:"year_month"`
	NumProducts              int     `db:"num_products"`
	AvgInflationFromBaseline float64 `db:"avg_inflation_from_baseline"`
	AvgProductPrice          float64 `db:"avg_product_price"`
}

type CategoryMetric struct {
	CategoryName     string  `db:"category_name"`
	NumProducts      int     `db:"num_products"`
	AvgPercentChange float64 `db:"avg_percent_change"`
	NumIncreased     int     `db:"num_increased"`
	NumDecreased     int     `db:"num_decreased"`
}

// Repository is strictly read-only over the crawl store.
type Repository interface {
	Overall(ctx context.Context) (*OverallMetrics, error)
	Monthly(ctx context.Context) ([]MonthlyMetric, error)
	ByCategory(ctx context.Context) ([]CategoryMetric, error)
}
