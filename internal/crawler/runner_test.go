package crawler

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/dmassey/grocery-prices/internal/crawler/dto"
	"github.com/dmassey/grocery-prices/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestRunner(fetcher *stubFetcher, repo *memRepo, pause time.Duration) (*Runner, *sleepRecorder) {
	crawler, _ := newTestCrawler(fetcher, repo, CrawlerConfig{})
	r := NewRunner(crawler, repo, pause, zap.NewNop())
	rec := &sleepRecorder{}
	r.sleep = rec.sleep
	return r, rec
}

func TestRunnerIsolatesFailingCategory(t *testing.T) {
	fetcher := &stubFetcher{
		fn: func(call int, categoryID, cursor string) (*dto.PageResult, error) {
			if categoryID == "10" {
				return &dto.PageResult{Status: dto.PageUpstreamError, StatusCode: http.StatusBadGateway}, nil
			}
			return okPage(false, "", pricedRecord("p1", "Bananas", "$0.59")), nil
		},
	}
	repo := newMemRepo()
	r, _ := newTestRunner(fetcher, repo, 0)

	summary := r.Run(context.Background(), []model.Category{
		{ID: "10", Name: "Dairy"},
		{ID: "20", Name: "Produce"},
	})

	assert.Equal(t, 2, summary.CategoriesProcessed)
	assert.Equal(t, 1, summary.CategoriesSucceeded)
	assert.Equal(t, 1, summary.CategoriesFailed)
	assert.Equal(t, 1, summary.ProductsProcessed)
	assert.Contains(t, repo.products, "p1")
}

func TestRunnerPausesAfterEveryCategory(t *testing.T) {
	pause := 3 * time.Second
	fetcher := &stubFetcher{
		fn: func(call int, categoryID, cursor string) (*dto.PageResult, error) {
			return okPage(false, ""), nil
		},
	}
	r, rec := newTestRunner(fetcher, newMemRepo(), pause)

	r.Run(context.Background(), []model.Category{
		{ID: "10", Name: "Dairy"},
		{ID: "20", Name: "Produce"},
		{ID: "30", Name: "Frozen"},
	})

	// The pause applies after every category, the last one included.
	assert.Equal(t, 3, rec.count(pause))
}

func TestRunnerMixedOutcomeRun(t *testing.T) {
	fetcher := &stubFetcher{
		fn: func(call int, categoryID, cursor string) (*dto.PageResult, error) {
			switch categoryID {
			case "10":
				// One record with no brand and a parsable price.
				rec := dto.RawRecord{
					ID:          "p1",
					DisplayName: "Store Milk",
					SKUs: []dto.RawSKU{
						{
							ID: "s1",
							ContextPrices: []dto.RawContextPrice{
								{ListPrice: &dto.RawListPrice{FormattedAmount: "$3.49"}},
							},
						},
					},
				}
				return okPage(false, "", rec), nil
			default:
				return &dto.PageResult{Status: dto.PageUpstreamError, StatusCode: http.StatusInternalServerError}, nil
			}
		},
	}
	repo := newMemRepo()
	r, _ := newTestRunner(fetcher, repo, 0)

	summary := r.Run(context.Background(), []model.Category{
		{ID: "10", Name: "Dairy"},
		{ID: "20", Name: "Produce"},
	})

	assert.Equal(t, 1, summary.CategoriesSucceeded)
	assert.Equal(t, 1, summary.CategoriesFailed)
	assert.Equal(t, 1, summary.ProductsProcessed)
	assert.Equal(t, 1, summary.UniqueProducts)
	assert.Equal(t, 1, summary.PriceObservations)
	assert.NotEmpty(t, summary.RunID)

	p, ok := repo.products["p1"]
	require.True(t, ok)
	assert.Equal(t, model.NotAvailable, p.BrandName)
	assert.False(t, p.IsOwnBrand.Valid)
	require.Len(t, repo.prices, 1)
	assert.InDelta(t, 3.49, repo.prices[0].Price, 0.0001)
}

func TestRunnerStopsOnCancelledContext(t *testing.T) {
	fetcher := &stubFetcher{
		fn: func(call int, categoryID, cursor string) (*dto.PageResult, error) {
			return okPage(false, "", pricedRecord("p"+categoryID, "Item", "$1.00")), nil
		},
	}
	repo := newMemRepo()
	crawler, _ := newTestCrawler(fetcher, repo, CrawlerConfig{})
	r := NewRunner(crawler, repo, time.Second, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	r.sleep = func(ctx context.Context, d time.Duration) error {
		cancel()
		return ctx.Err()
	}

	summary := r.Run(ctx, []model.Category{
		{ID: "10", Name: "Dairy"},
		{ID: "20", Name: "Produce"},
		{ID: "30", Name: "Frozen"},
	})

	assert.Equal(t, 1, summary.CategoriesProcessed)
}

func TestRunSummaryString(t *testing.T) {
	s := &RunSummary{
		RunID:               "run-1",
		CategoriesProcessed: 2,
		CategoriesSucceeded: 1,
		CategoriesFailed:    1,
		ProductsProcessed:   42,
		RecordsFailed:       3,
		UniqueProducts:      40,
		PriceObservations:   38,
		Elapsed:             90 * time.Second,
	}
	out := s.String()

	assert.Contains(t, out, "=== SUMMARY (run run-1) ===")
	assert.Contains(t, out, "Total categories processed: 2")
	assert.Contains(t, out, "Successful categories: 1")
	assert.Contains(t, out, "Failed categories: 1")
	assert.Contains(t, out, "Total products processed: 42")
	assert.Contains(t, out, "Records failed to persist: 3")
	assert.Contains(t, out, "Unique products in database: 40")
	assert.Contains(t, out, "Total price history records: 38")
	assert.Contains(t, out, "Total time taken: 1m30s")
}
