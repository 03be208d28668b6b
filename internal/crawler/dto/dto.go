package dto

// Raw* mirror the upstream browseCategory GraphQL payload. Optional
// sub-objects are pointers so an absent brand or price is distinguishable
// from an empty one.

type RawListPrice struct {
	FormattedAmount string `json:"formattedAmount"`
}

type RawContextPrice struct {
	ListPrice *RawListPrice `json:"listPrice"`
}

type RawSKU struct {
	ID            string            `json:"id"`
	ContextPrices []RawContextPrice `json:"contextPrices"`
}

type RawBrand struct {
	Name       string `json:"name"`
	IsOwnBrand bool   `json:"isOwnBrand"`
}

type RawRecord struct {
	ID          string    `json:"id"`
	DisplayName string    `json:"displayName"`
	Brand       *RawBrand `json:"brand"`
	SKUs        []RawSKU  `json:"SKUs"`
}

type BrowseCategory struct {
	PageTitle      string      `json:"pageTitle"`
	Records        []RawRecord `json:"records"`
	Total          int         `json:"total"`
	HasMoreRecords bool        `json:"hasMoreRecords"`
	NextCursor     string      `json:"nextCursor"`
}

type BrowseResponse struct {
	Data *struct {
		BrowseCategory *BrowseCategory `json:"browseCategory"`
	} `json:"data"`
}

// PageStatus classifies the expected outcomes of one pagination request.
// Transport failures travel on the error channel instead.
type PageStatus int

const (
	PageOK PageStatus = iota
	PageRateLimited
	PageUpstreamError
)

type PageResult struct {
	Status     PageStatus
	StatusCode int // set for upstream errors and rate limits
	Records    []RawRecord
	Total      int
	HasMore    bool
	NextCursor string
}
