package crawler

import (
	"context"
	"time"

	"github.com/dmassey/grocery-prices/internal/catalog"
	"github.com/dmassey/grocery-prices/internal/crawler/dto"
	"github.com/dmassey/grocery-prices/internal/model"
	"go.uber.org/zap"
)

type Outcome int

const (
	OutcomeCompleted Outcome = iota
	OutcomeAborted
)

func (o Outcome) String() string {
	if o == OutcomeCompleted {
		return "completed"
	}
	return "aborted"
}

type CategoryResult struct {
	Category          model.Category
	ProductsPersisted int
	RecordsFailed     int
	PagesProcessed    int
	Outcome           Outcome
}

type CrawlerConfig struct {
	// MaxPages bounds worst-case runtime and guards against cursor loops.
	MaxPages int
	// MaxRateLimitRetries caps consecutive 429 retries per category; the cap
	// resets on every successful page.
	MaxRateLimitRetries int
	PageDelay           time.Duration
	RateLimitCooldown   time.Duration
}

// CategoryCrawler walks all pages of one category: acquire a fresh session,
// fetch, map, persist, advance the cursor. It owns the transient cursor state
// and nothing else.
type CategoryCrawler struct {
	sessions SessionProvider
	fetcher  PageFetcher
	repo     catalog.Repository
	cfg      CrawlerConfig
	logger   *zap.Logger
	sleep    func(context.Context, time.Duration) error
}

func NewCategoryCrawler(sessions SessionProvider, fetcher PageFetcher, repo catalog.Repository, cfg CrawlerConfig, log *zap.Logger) *CategoryCrawler {
	if cfg.MaxPages <= 0 {
		cfg.MaxPages = 100
	}
	if cfg.MaxRateLimitRetries <= 0 {
		cfg.MaxRateLimitRetries = 10
	}
	return &CategoryCrawler{
		sessions: sessions,
		fetcher:  fetcher,
		repo:     repo,
		cfg:      cfg,
		logger:   log,
		sleep:    sleepCtx,
	}
}

// Run crawls a single category to completion. Failures are category-local:
// the result reports them but Run never returns an error, so the runner can
// always continue with the next category.
func (c *CategoryCrawler) Run(ctx context.Context, cat model.Category) CategoryResult {
	res := CategoryResult{Category: cat}

	sess, err := c.sessions.Acquire(ctx)
	if err != nil {
		c.logger.Error("failed to acquire session",
			zap.String("category_id", cat.ID),
			zap.Error(err),
		)
		res.Outcome = OutcomeAborted
		return res
	}

	var (
		cursor    string
		hasMore   = true
		page      = 1
		rlRetries = 0
		aborted   = false
	)

crawl:
	for hasMore && page <= c.cfg.MaxPages {
		pageRes, err := c.fetcher.Fetch(ctx, sess, cat.ID, cursor)
		if err != nil {
			c.logger.Error("page fetch failed",
				zap.String("category_id", cat.ID),
				zap.Int("page", page),
				zap.Error(err),
			)
			aborted = true
			break
		}

		switch pageRes.Status {
		case dto.PageRateLimited:
			if rlRetries >= c.cfg.MaxRateLimitRetries {
				c.logger.Error("rate limit retries exhausted",
					zap.String("category_id", cat.ID),
					zap.Int("page", page),
					zap.Int("retries", rlRetries),
				)
				aborted = true
				break crawl
			}
			rlRetries++
			c.logger.Warn("rate limited, cooling down",
				zap.String("category_id", cat.ID),
				zap.Int("page", page),
				zap.Duration("cooldown", c.cfg.RateLimitCooldown),
			)
			if err := c.sleep(ctx, c.cfg.RateLimitCooldown); err != nil {
				aborted = true
				break crawl
			}
			// Retry the same page; the cursor is unchanged and rate-limit
			// retries do not count against the page ceiling.
			continue

		case dto.PageUpstreamError:
			c.logger.Error("upstream error, abandoning category",
				zap.String("category_id", cat.ID),
				zap.Int("page", page),
				zap.Int("status", pageRes.StatusCode),
			)
			aborted = true
			break crawl
		}

		rlRetries = 0

		persisted := 0
		for _, rec := range pageRes.Records {
			mapped := MapRecord(rec, cat)
			if err := c.repo.SaveRecord(ctx, mapped.Product, mapped.Price); err != nil {
				res.RecordsFailed++
				c.logger.Error("failed to persist record",
					zap.String("category_id", cat.ID),
					zap.String("product_id", mapped.Product.ProductID),
					zap.Error(err),
				)
				continue
			}
			persisted++
		}

		res.ProductsPersisted += persisted
		res.PagesProcessed++
		c.logger.Info("page processed",
			zap.String("category_id", cat.ID),
			zap.Int("page", page),
			zap.Int("persisted", persisted),
			zap.Int("total_available", pageRes.Total),
		)

		hasMore = pageRes.HasMore
		cursor = pageRes.NextCursor
		page++

		if hasMore && page <= c.cfg.MaxPages {
			if err := c.sleep(ctx, c.cfg.PageDelay); err != nil {
				aborted = true
				break
			}
		}
	}

	if aborted || res.PagesProcessed == 0 {
		res.Outcome = OutcomeAborted
	} else {
		res.Outcome = OutcomeCompleted
	}
	return res
}
