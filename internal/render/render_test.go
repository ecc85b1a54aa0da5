package render

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/emilaliyev17/analytics/internal/model"
)

func TestCurrency(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"0", "$0.00"},
		{"150", "$150.00"},
		{"1234.5", "$1,234.50"},
		{"1234567.891", "$1,234,567.89"},
		{"-9876.5", "-$9,876.50"},
		{"999.999", "$1,000.00"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Currency(decimal.RequireFromString(tt.in)))
		})
	}
}

func TestInt(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{0, "0"},
		{5, "5"},
		{999, "999"},
		{1000, "1,000"},
		{1234567, "1,234,567"},
		{-4500, "-4,500"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, Int(tt.in))
		})
	}
}

func TestSummarizeLaunchPerformance(t *testing.T) {
	rows := []model.LaunchPerformanceRow{
		{SKU: "A1", UnitsSold: 5},
		{SKU: "B2", UnitsSold: 0},
		{SKU: "C3", UnitsSold: 12},
		{SKU: "D4", UnitsSold: 0},
	}

	s := SummarizeLaunchPerformance(rows)

	assert.Equal(t, 4, s.TotalProducts)
	assert.Equal(t, 2, s.ProductsWithSales)
	assert.Equal(t, 2, s.ProductsWithoutSales)
}

func TestSummarizeLaunchPerformance_Empty(t *testing.T) {
	s := SummarizeLaunchPerformance(nil)

	assert.Equal(t, 0, s.TotalProducts)
	assert.Equal(t, 0, s.ProductsWithSales)
	assert.Equal(t, 0, s.ProductsWithoutSales)
}

func TestSummarizeLaunchPeriod(t *testing.T) {
	rows := []model.LaunchPeriodRow{
		{SKU: "A1", UnitsSold: 3, Revenue: decimal.RequireFromString("90.00")},
		{SKU: "B2", UnitsSold: 2, Revenue: decimal.RequireFromString("60.00")},
		{SKU: "C3", UnitsSold: 0, Revenue: decimal.Zero},
	}

	s := SummarizeLaunchPeriod(rows)

	assert.Equal(t, 3, s.ProductsLaunched)
	assert.Equal(t, int64(5), s.TotalUnits)
	assert.True(t, s.TotalRevenue.Equal(decimal.RequireFromString("150.00")), "total = %s", s.TotalRevenue)
	assert.True(t, s.AvgRevenuePerItem.Equal(decimal.RequireFromString("50.00")), "avg = %s", s.AvgRevenuePerItem)
}

func TestSummarizeLaunchPeriod_Empty(t *testing.T) {
	s := SummarizeLaunchPeriod(nil)

	assert.Equal(t, 0, s.ProductsLaunched)
	assert.True(t, s.AvgRevenuePerItem.IsZero())
}
