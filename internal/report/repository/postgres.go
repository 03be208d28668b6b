package repository

import (
	"context"
	"database/sql"

	"github.com/dmassey/grocery-prices/internal/report"
	"github.com/jmoiron/sqlx"
)

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

// firstLastPrices pairs every product's first and last observation. The id
// column breaks ties when two observations share a timestamp; row ids grow
// monotonically with insertion order.
const firstLastPricesCTE = `
    WITH first_last_prices AS (
        SELECT
            p.product_id,
            p.category_name,
            first_price.price AS first_price,
            first_price.recorded_at AS first_date,
            last_price.price AS last_price,
            last_price.recorded_at AS last_date
        FROM products p
        JOIN LATERAL (
            SELECT price, recorded_at
            FROM price_history ph
            WHERE ph.product_id = p.product_id
            ORDER BY recorded_at ASC, id ASC
            LIMIT 1
        ) first_price ON true
        JOIN LATERAL (
            SELECT price, recorded_at
            FROM price_history ph
            WHERE ph.product_id = p.product_id
            ORDER BY recorded_at DESC, id DESC
            LIMIT 1
        ) last_price ON true
        WHERE first_price.recorded_at <> last_price.recorded_at
    )
`

const overallQuery = firstLastPricesCTE + `
    SELECT
        COUNT(*) AS total_products,
        COALESCE(AVG((last_price - first_price) / first_price * 100), 0)::double precision AS avg_percent_change,
        MIN(first_date) AS earliest_date,
        MAX(last_date) AS latest_date,
        COUNT(*) FILTER (WHERE last_price > first_price) AS num_increased,
        COUNT(*) FILTER (WHERE last_price < first_price) AS num_decreased,
        COUNT(*) FILTER (WHERE last_price = first_price) AS num_unchanged
    FROM first_last_prices
`

const monthlyQuery = `
    WITH monthly_avg AS (
        SELECT
            to_char(recorded_at, 'YYYY-MM') AS year_month,
            product_id,
            AVG(price) AS avg_price
        FROM price_history
        GROUP BY 1, 2
    ),
    baseline AS (
        SELECT product_id, avg_price AS baseline_price
        FROM monthly_avg
        WHERE year_month = (SELECT MIN(year_month) FROM monthly_avg)
    )
    SELECT
        m.year_month,
        COUNT(m.product_id) AS num_products,
        (AVG(m.avg_price / b.baseline_price * 100) - 100)::double precision AS avg_inflation_from_baseline,
        AVG(m.avg_price)::double precision AS avg_product_price
    FROM monthly_avg m
    JOIN baseline b ON m.product_id = b.product_id
    GROUP BY m.year_month
    ORDER BY m.year_month
`

const categoryQuery = firstLastPricesCTE + `
    SELECT
        category_name,
        COUNT(*) AS num_products,
        AVG((last_price - first_price) / first_price * 100)::double precision AS avg_percent_change,
        COUNT(*) FILTER (WHERE last_price > first_price) AS num_increased,
        COUNT(*) FILTER (WHERE last_price < first_price) AS num_decreased
    FROM first_last_prices
    GROUP BY category_name
    ORDER BY avg_percent_change DESC
`

type overallRow struct {
	TotalProducts    int          `db:"total_products"`
	AvgPercentChange float64      `db:"avg_percent_change"`
	EarliestDate     sql.NullTime `db:"earliest_date"`
	LatestDate       sql.NullTime `db:"latest_date"`
	NumIncreased     int          `db:"num_increased"`
	NumDecreased     int          `db:"num_decreased"`
	NumUnchanged     int          `db:"num_unchanged"`
}

func (r *PGRepository) Overall(ctx context.Context) (*report.OverallMetrics, error) {
	var row overallRow
	if err := r.DB.GetContext(ctx, &row, overallQuery); err != nil {
		return nil, err
	}

	metrics := &report.OverallMetrics{
		TotalProducts:    row.TotalProducts,
		AvgPercentChange: row.AvgPercentChange,
		NumIncreased:     row.NumIncreased,
		NumDecreased:     row.NumDecreased,
		NumUnchanged:     row.NumUnchanged,
	}
	if row.EarliestDate.Valid {
		metrics.EarliestDate = row.EarliestDate.Time
	}
	if row.LatestDate.Valid {
		metrics.LatestDate = row.LatestDate.Time
	}
	return metrics, nil
}

func (r *PGRepository) Monthly(ctx context.Context) ([]report.MonthlyMetric, error) {
	var metrics []report.MonthlyMetric
	if err := r.DB.SelectContext(ctx, &metrics, monthlyQuery); err != nil {
		return nil, err
	}
	return metrics, nil
}

func (r *PGRepository) ByCategory(ctx context.Context) ([]report.CategoryMetric, error) {
	var metrics []report.CategoryMetric
	if err := r.DB.SelectContext(ctx, &metrics, categoryQuery); err != nil {
		return nil, err
	}
	return metrics, nil
}
