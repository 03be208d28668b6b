package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmassey/grocery-prices/internal/report"
	"go.uber.org/zap"
)

type reportUseCase struct {
	repo   report.Repository
	logger *zap.Logger
}

func NewReportUseCase(repo report.Repository, log *zap.Logger) report.UseCase {
	return &reportUseCase{
		repo:   repo,
		logger: log,
	}
}

func (uc *reportUseCase) BuildReport(ctx context.Context) (string, error) {
	overall, err := uc.repo.Overall(ctx)
	if err != nil {
		return "", fmt.Errorf("overall metrics: %w", err)
	}
	monthly, err := uc.repo.Monthly(ctx)
	if err != nil {
		return "", fmt.Errorf("monthly metrics: %w", err)
	}
	byCategory, err := uc.repo.ByCategory(ctx)
	if err != nil {
		return "", fmt.Errorf("category metrics: %w", err)
	}

	uc.logger.Info("built inflation metrics",
		zap.Int("tracked_products", overall.TotalProducts),
		zap.Int("months", len(monthly)),
		zap.Int("categories", len(byCategory)),
	)

	var b strings.Builder
	fmt.Fprintf(&b, "GROCERY PRICE INFLATION REPORT: %s to %s\n",
		overall.EarliestDate.Format("January 2, 2006"),
		overall.LatestDate.Format("January 2, 2006"),
	)

	b.WriteString("\nOVERALL INFLATION METRICS:\n")
	fmt.Fprintf(&b, "- Average price change: %.2f%%\n", overall.AvgPercentChange)
	fmt.Fprintf(&b, "- Total products tracked: %d\n", overall.TotalProducts)
	fmt.Fprintf(&b, "- Products with price increases: %d\n", overall.NumIncreased)
	fmt.Fprintf(&b, "- Products with price decreases: %d\n", overall.NumDecreased)
	fmt.Fprintf(&b, "- Products with unchanged prices: %d\n", overall.NumUnchanged)

	if len(monthly) > 0 {
		b.WriteString("\nMONTHLY INFLATION TREND:\n")
		for _, m := range monthly {
			fmt.Fprintf(&b, "- %s: %.2f%% from baseline (%d products, avg price %.2f)\n",
				m.YearMonth, m.AvgInflationFromBaseline, m.NumProducts, m.AvgProductPrice)
		}
	}

	if len(byCategory) > 0 {
		b.WriteString("\nINFLATION BY CATEGORY:\n")
		for _, c := range byCategory {
			fmt.Fprintf(&b, "- %s: %.2f%% across %d products (%d up, %d down)\n",
				c.CategoryName, c.AvgPercentChange, c.NumProducts, c.NumIncreased, c.NumDecreased)
		}
	}

	return b.String(), nil
}
