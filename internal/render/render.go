// Package render форматирует значения отчётов для отображения и
// вычисляет сводные метрики. Бизнес-логики не содержит.
package render

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/emilaliyev17/analytics/internal/model"
)

// Currency форматирует денежное значение: знак доллара, два знака после
// запятой, разделители тысяч. "$1,234.56".
func Currency(d decimal.Decimal) string {
	fixed := d.StringFixed(2)

	negative := strings.HasPrefix(fixed, "-")
	fixed = strings.TrimPrefix(fixed, "-")

	dot := strings.IndexByte(fixed, '.')
	formatted := groupThousands(fixed[:dot]) + fixed[dot:]

	if negative {
		return "-$" + formatted
	}
	return "$" + formatted
}

// Int форматирует целое число с разделителями тысяч. "1,234".
func Int(n int64) string {
	if n < 0 {
		return "-" + groupThousands(strconv.FormatInt(-n, 10))
	}
	return groupThousands(strconv.FormatInt(n, 10))
}

func groupThousands(digits string) string {
	if len(digits) <= 3 {
		return digits
	}

	var b strings.Builder
	lead := len(digits) % 3
	if lead > 0 {
		b.WriteString(digits[:lead])
	}
	for i := lead; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}

// LaunchPerformanceSummary содержит сводку отчёта Product Performance by
// Launch Date: сколько продуктов имеют продажи, сколько — нет.
type LaunchPerformanceSummary struct {
	TotalProducts        int
	ProductsWithSales    int
	ProductsWithoutSales int
}

// SummarizeLaunchPerformance считает сводку по строкам отчёта.
func SummarizeLaunchPerformance(rows []model.LaunchPerformanceRow) LaunchPerformanceSummary {
	s := LaunchPerformanceSummary{TotalProducts: len(rows)}
	for _, r := range rows {
		if r.UnitsSold != 0 {
			s.ProductsWithSales++
		} else {
			s.ProductsWithoutSales++
		}
	}
	return s
}

// LaunchPeriodSummary содержит сводку отчёта Launch Period Analysis.
type LaunchPeriodSummary struct {
	ProductsLaunched  int
	TotalUnits        int64
	TotalRevenue      decimal.Decimal
	AvgRevenuePerItem decimal.Decimal
}

// SummarizeLaunchPeriod считает сводку по строкам отчёта. Средняя выручка
// на продукт равна нулю для пустого отчёта.
func SummarizeLaunchPeriod(rows []model.LaunchPeriodRow) LaunchPeriodSummary {
	s := LaunchPeriodSummary{ProductsLaunched: len(rows)}
	for _, r := range rows {
		s.TotalUnits += r.UnitsSold
		s.TotalRevenue = s.TotalRevenue.Add(r.Revenue)
	}
	if len(rows) > 0 {
		s.AvgRevenuePerItem = s.TotalRevenue.Div(decimal.NewFromInt(int64(len(rows)))).Round(2)
	}
	return s
}
