package model

import (
	"database/sql"
	"time"
)

// NotAvailable marks upstream fields the record did not supply.
const NotAvailable = "N/A"

// Product descriptive attributes are first-write-wins: re-observing the same
// ProductID never overwrites them.
type Product struct {
	ID           int64        `db:"id"`
	CategoryID   string       `db:"category_id"`
	CategoryName string       `db:"category_name"`
	ProductID    string       `db:"product_id"` // upstream identifier, unique in the store
	Name         string       `db:"product_name"`
	BrandName    string       `db:"brand_name"`
	IsOwnBrand   sql.NullBool `db:"is_own_brand"` // NULL when the record carried no brand
	SKUID        string       `db:"sku_id"`
	DateAdded    time.Time    `db:"date_added"`
}

// PriceObservation is one timestamped price reading. History is append-only;
// rows are never updated or deleted.
type PriceObservation struct {
	ID         int64     `db:"id"`
	ProductID  string    `db:"product_id"`
	Price      float64   `db:"price"`
	RecordedAt time.Time `db:"recorded_at"`
}
