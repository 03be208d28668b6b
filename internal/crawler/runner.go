package crawler

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dmassey/grocery-prices/internal/catalog"
	"github.com/dmassey/grocery-prices/internal/model"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// RunSummary is the end-of-run report. UniqueProducts and PriceObservations
// are read back from the store so they reflect all runs, not just this one.
type RunSummary struct {
	RunID               string
	CategoriesProcessed int
	CategoriesSucceeded int
	CategoriesFailed    int
	ProductsProcessed   int
	RecordsFailed       int
	UniqueProducts      int
	PriceObservations   int
	Elapsed             time.Duration
}

func (s *RunSummary) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "=== SUMMARY (run %s) ===\n", s.RunID)
	fmt.Fprintf(&b, "Total categories processed: %d\n", s.CategoriesProcessed)
	fmt.Fprintf(&b, "Successful categories: %d\n", s.CategoriesSucceeded)
	fmt.Fprintf(&b, "Failed categories: %d\n", s.CategoriesFailed)
	fmt.Fprintf(&b, "Total products processed: %d\n", s.ProductsProcessed)
	fmt.Fprintf(&b, "Records failed to persist: %d\n", s.RecordsFailed)
	fmt.Fprintf(&b, "Unique products in database: %d\n", s.UniqueProducts)
	fmt.Fprintf(&b, "Total price history records: %d\n", s.PriceObservations)
	fmt.Fprintf(&b, "Total time taken: %s\n", s.Elapsed.Round(time.Millisecond))
	return b.String()
}

// Runner iterates the category list strictly sequentially. A failed category
// never stops the run; the summary reflects partial progress.
type Runner struct {
	crawler       *CategoryCrawler
	repo          catalog.Repository
	categoryPause time.Duration
	logger        *zap.Logger
	sleep         func(context.Context, time.Duration) error
}

func NewRunner(crawler *CategoryCrawler, repo catalog.Repository, categoryPause time.Duration, log *zap.Logger) *Runner {
	return &Runner{
		crawler:       crawler,
		repo:          repo,
		categoryPause: categoryPause,
		logger:        log,
		sleep:         sleepCtx,
	}
}

func (r *Runner) Run(ctx context.Context, categories []model.Category) *RunSummary {
	start := time.Now()
	summary := &RunSummary{RunID: uuid.New().String()}

	r.logger.Info("crawl run starting",
		zap.String("run_id", summary.RunID),
		zap.Int("categories", len(categories)),
	)

	for i, cat := range categories {
		if ctx.Err() != nil {
			r.logger.Warn("run cancelled",
				zap.String("run_id", summary.RunID),
				zap.Int("remaining_categories", len(categories)-i),
			)
			break
		}

		r.logger.Info("processing category",
			zap.String("run_id", summary.RunID),
			zap.Int("position", i+1),
			zap.Int("total", len(categories)),
			zap.String("category_id", cat.ID),
			zap.String("category_name", cat.Name),
		)

		catStart := time.Now()
		res := r.crawler.Run(ctx, cat)

		summary.CategoriesProcessed++
		summary.ProductsProcessed += res.ProductsPersisted
		summary.RecordsFailed += res.RecordsFailed

		if res.Outcome == OutcomeCompleted {
			summary.CategoriesSucceeded++
			r.logger.Info("category completed",
				zap.String("category_id", cat.ID),
				zap.Int("products", res.ProductsPersisted),
				zap.Int("pages", res.PagesProcessed),
				zap.Duration("took", time.Since(catStart)),
			)
		} else {
			summary.CategoriesFailed++
			r.logger.Warn("category aborted",
				zap.String("category_id", cat.ID),
				zap.Int("products", res.ProductsPersisted),
				zap.Int("pages", res.PagesProcessed),
			)
		}

		// Pause between categories regardless of outcome.
		if err := r.sleep(ctx, r.categoryPause); err != nil {
			break
		}
	}

	if stats, err := r.repo.Stats(ctx); err != nil {
		r.logger.Error("failed to collect store stats", zap.Error(err))
	} else {
		summary.UniqueProducts = stats.UniqueProducts
		summary.PriceObservations = stats.PriceObservations
	}

	summary.Elapsed = time.Since(start)
	r.logger.Info("crawl run finished",
		zap.String("run_id", summary.RunID),
		zap.Int("succeeded", summary.CategoriesSucceeded),
		zap.Int("failed", summary.CategoriesFailed),
		zap.Int("products", summary.ProductsProcessed),
		zap.Duration("elapsed", summary.Elapsed),
	)
	return summary
}
