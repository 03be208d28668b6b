package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dmassey/grocery-prices/internal/report"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubRepo struct {
	overall    *report.OverallMetrics
	overallErr error
	monthly    []report.MonthlyMetric
	monthlyErr error
	byCategory []report.CategoryMetric
	byCatErr   error
}

func (s *stubRepo) Overall(ctx context.Context) (*report.OverallMetrics, error) {
	return s.overall, s.overallErr
}

func (s *stubRepo) Monthly(ctx context.Context) ([]report.MonthlyMetric, error) {
	return s.monthly, s.monthlyErr
}

func (s *stubRepo) ByCategory(ctx context.Context) ([]report.CategoryMetric, error) {
	return s.byCategory, s.byCatErr
}

func TestBuildReport(t *testing.T) {
	repo := &stubRepo{
		overall: &report.OverallMetrics{
			TotalProducts:    120,
			AvgPercentChange: 4.37,
			EarliestDate:     time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC),
			LatestDate:       time.Date(2025, 8, 20, 0, 0, 0, 0, time.UTC),
			NumIncreased:     70,
			NumDecreased:     30,
			NumUnchanged:     20,
		},
		monthly: []report.MonthlyMetric{
			{YearMonth: "2025-01", NumProducts: 100, AvgInflationFromBaseline: 0, AvgProductPrice: 4.12},
			{YearMonth: "2025-02", NumProducts: 110, AvgInflationFromBaseline: 1.25, AvgProductPrice: 4.17},
		},
		byCategory: []report.CategoryMetric{
			{CategoryName: "Dairy", NumProducts: 40, AvgPercentChange: 6.10, NumIncreased: 30, NumDecreased: 8},
			{CategoryName: "Produce", NumProducts: 80, AvgPercentChange: 2.05, NumIncreased: 40, NumDecreased: 22},
		},
	}
	uc := NewReportUseCase(repo, zap.NewNop())

	out, err := uc.BuildReport(context.Background())

	require.NoError(t, err)
	assert.Contains(t, out, "GROCERY PRICE INFLATION REPORT: January 15, 2025 to August 20, 2025")
	assert.Contains(t, out, "- Average price change: 4.37%")
	assert.Contains(t, out, "- Total products tracked: 120")
	assert.Contains(t, out, "- Products with price increases: 70")
	assert.Contains(t, out, "- 2025-02: 1.25% from baseline (110 products, avg price 4.17)")
	assert.Contains(t, out, "- Dairy: 6.10% across 40 products (30 up, 8 down)")
	assert.Contains(t, out, "- Produce: 2.05% across 80 products (40 up, 22 down)")
}

func TestBuildReportOmitsEmptySections(t *testing.T) {
	repo := &stubRepo{
		overall: &report.OverallMetrics{},
	}
	uc := NewReportUseCase(repo, zap.NewNop())

	out, err := uc.BuildReport(context.Background())

	require.NoError(t, err)
	assert.Contains(t, out, "OVERALL INFLATION METRICS:")
	assert.NotContains(t, out, "MONTHLY INFLATION TREND:")
	assert.NotContains(t, out, "INFLATION BY CATEGORY:")
}

func TestBuildReportPropagatesErrors(t *testing.T) {
	uc := NewReportUseCase(&stubRepo{overallErr: errors.New("no table")}, zap.NewNop())

	_, err := uc.BuildReport(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "overall metrics")
}
