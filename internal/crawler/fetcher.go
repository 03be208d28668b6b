package crawler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/dmassey/grocery-prices/internal/crawler/dto"
	"go.uber.org/zap"
)

// PageFetcher issues one paginated browse query. It classifies the response
// into the three expected outcomes and never retries; retry policy belongs to
// the category crawler.
type PageFetcher interface {
	Fetch(ctx context.Context, sess *Session, categoryID, cursor string) (*dto.PageResult, error)
}

type FetcherConfig struct {
	BaseURL         string
	GraphQLPath     string
	UserAgent       string
	StoreID         int
	ShoppingContext string
	PageSize        int
}

type graphQLFetcher struct {
	cfg    FetcherConfig
	logger *zap.Logger
}

func NewPageFetcher(cfg FetcherConfig, log *zap.Logger) PageFetcher {
	if cfg.GraphQLPath == "" {
		cfg.GraphQLPath = "/graphql"
	}
	if cfg.PageSize <= 0 {
		cfg.PageSize = 50
	}
	if cfg.ShoppingContext == "" {
		cfg.ShoppingContext = "CURBSIDE_PICKUP"
	}
	return &graphQLFetcher{cfg: cfg, logger: log}
}

const browseCategoryQuery = `
query {
    browseCategory(
        categoryId: %q
        storeId: %d
        shoppingContext: %s
        limit: %d
        %s
    ) {
        pageTitle
        records {
            id
            displayName
            brand {
                name
                isOwnBrand
            }
            SKUs {
                id
                contextPrices {
                    listPrice {
                        formattedAmount
                    }
                }
            }
        }
        total
        hasMoreRecords
        nextCursor
    }
}`

func (f *graphQLFetcher) buildQuery(categoryID, cursor string) string {
	cursorArg := ""
	if cursor != "" {
		cursorArg = fmt.Sprintf("cursor: %q", cursor)
	}
	return fmt.Sprintf(browseCategoryQuery, categoryID, f.cfg.StoreID, f.cfg.ShoppingContext, f.cfg.PageSize, cursorArg)
}

func (f *graphQLFetcher) Fetch(ctx context.Context, sess *Session, categoryID, cursor string) (*dto.PageResult, error) {
	payload, err := json.Marshal(map[string]string{"query": f.buildQuery(categoryID, cursor)})
	if err != nil {
		return nil, fmt.Errorf("marshal query: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, f.cfg.BaseURL+f.cfg.GraphQLPath, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build browse request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", f.cfg.UserAgent)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	req.Header.Set("Origin", f.cfg.BaseURL)
	req.Header.Set("Referer", f.cfg.BaseURL+"/")

	resp, err := sess.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("browse category %s: %w", categoryID, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		io.Copy(io.Discard, resp.Body)
		return &dto.PageResult{Status: dto.PageRateLimited, StatusCode: resp.StatusCode}, nil
	case resp.StatusCode != http.StatusOK:
		io.Copy(io.Discard, resp.Body)
		return &dto.PageResult{Status: dto.PageUpstreamError, StatusCode: resp.StatusCode}, nil
	}

	var body dto.BrowseResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		f.logger.Warn("browse response was not valid JSON",
			zap.String("category_id", categoryID),
			zap.Error(err),
		)
		return &dto.PageResult{Status: dto.PageUpstreamError, StatusCode: resp.StatusCode}, nil
	}
	if body.Data == nil || body.Data.BrowseCategory == nil {
		// A 200 without the expected shape is the "no data" case.
		return &dto.PageResult{Status: dto.PageUpstreamError, StatusCode: resp.StatusCode}, nil
	}

	browse := body.Data.BrowseCategory
	return &dto.PageResult{
		Status:     dto.PageOK,
		StatusCode: resp.StatusCode,
		Records:    browse.Records,
		Total:      browse.Total,
		HasMore:    browse.HasMoreRecords,
		NextCursor: browse.NextCursor,
	}, nil
}
