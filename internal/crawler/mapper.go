package crawler

import (
	"database/sql"
	"strconv"
	"strings"

	"github.com/dmassey/grocery-prices/internal/crawler/dto"
	"github.com/dmassey/grocery-prices/internal/model"
)

// MappedProduct pairs a normalized product with its optional parsed price.
type MappedProduct struct {
	Product *model.Product
	Price   *float64 // nil when the upstream price was absent or unparsable
}

// MapRecord normalizes one raw upstream record. Missing brand data falls back
// to the sentinel, the representative SKU is the first listed one, and the
// price comes from that SKU's first context price.
func MapRecord(rec dto.RawRecord, cat model.Category) MappedProduct {
	p := &model.Product{
		CategoryID:   cat.ID,
		CategoryName: cat.Name,
		ProductID:    rec.ID,
		Name:         rec.DisplayName,
		BrandName:    model.NotAvailable,
		SKUID:        model.NotAvailable,
	}

	if rec.Brand != nil {
		p.BrandName = rec.Brand.Name
		p.IsOwnBrand = sql.NullBool{Bool: rec.Brand.IsOwnBrand, Valid: true}
	}

	var priceText string
	if len(rec.SKUs) > 0 {
		sku := rec.SKUs[0]
		p.SKUID = sku.ID
		if len(sku.ContextPrices) > 0 && sku.ContextPrices[0].ListPrice != nil {
			priceText = sku.ContextPrices[0].ListPrice.FormattedAmount
		}
	}

	return MappedProduct{Product: p, Price: ParsePrice(priceText)}
}

// ParsePrice converts a formatted amount like "$3.49" to its numeric value.
// Unparsable input yields nil rather than an error: the product is still
// worth storing even when its price is not.
func ParsePrice(text string) *float64 {
	s := strings.TrimSpace(strings.ReplaceAll(text, "$", ""))
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &v
}
