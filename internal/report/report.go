// Package report описывает виды отчётов, фильтры и построение
// параметризованных SQL-запросов к хранилищу продаж.
package report

import (
	"errors"
	"fmt"
	"time"
)

// Kind определяет вид отчёта, выбираемый пользователем.
type Kind string

const (
	KindOverview          Kind = "overview"
	KindBestSellers       Kind = "best_sellers"
	KindWorstSellers      Kind = "worst_sellers"
	KindSalesTrend        Kind = "sales_trend"
	KindSeasonalAnalysis  Kind = "seasonal_analysis"
	KindLaunchPerformance Kind = "launch_performance"
	KindLaunchPeriod      Kind = "launch_period"
)

// ErrUnknownKind возвращается для неизвестного вида отчёта.
var ErrUnknownKind = errors.New("unknown report kind")

// ErrNotImplemented возвращается для видов отчётов, присутствующих в
// селекторе, но не имеющих определённой формы запроса.
var ErrNotImplemented = errors.New("report kind not implemented")

// ParseKind разбирает строковый идентификатор вида отчёта.
func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case KindOverview, KindBestSellers, KindWorstSellers, KindSalesTrend,
		KindSeasonalAnalysis, KindLaunchPerformance, KindLaunchPeriod:
		return Kind(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

// Границы календаря дашборда. Используются, когда пользователь выбрал
// только одну дату диапазона.
var (
	DefaultStart       = time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	DefaultEnd         = time.Date(2025, time.August, 31, 0, 0, 0, 0, time.UTC)
	DefaultLaunchStart = time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)
	DefaultLaunchEnd   = time.Date(2025, time.April, 30, 0, 0, 0, 0, time.UTC)
)

const dateLayout = "2006-01-02"

// Filter содержит значения фильтров отчёта: диапазон дат заказов и
// независимый диапазон дат запуска продуктов.
type Filter struct {
	Start       time.Time
	End         time.Time
	LaunchStart time.Time
	LaunchEnd   time.Time
}

// Normalize подставляет границы по умолчанию вместо незаполненных дат.
// Пользователь мог выбрать только одну дату диапазона; отчёт в этом
// случае строится, а не завершается ошибкой.
func (f Filter) Normalize() Filter {
	if f.Start.IsZero() {
		f.Start = DefaultStart
	}
	if f.End.IsZero() {
		f.End = DefaultEnd
	}
	if f.LaunchStart.IsZero() {
		f.LaunchStart = DefaultLaunchStart
	}
	if f.LaunchEnd.IsZero() {
		f.LaunchEnd = DefaultLaunchEnd
	}
	return f
}

// CacheKey возвращает явный ключ кеша: вид отчёта и значения фильтров.
func CacheKey(kind Kind, f Filter) string {
	f = f.Normalize()
	return fmt.Sprintf("%s|%s|%s|%s|%s",
		kind,
		f.Start.Format(dateLayout),
		f.End.Format(dateLayout),
		f.LaunchStart.Format(dateLayout),
		f.LaunchEnd.Format(dateLayout),
	)
}

// Query содержит текст SQL-запроса и связанные аргументы.
// Значения фильтров всегда передаются параметрами, не подстановкой в текст.
type Query struct {
	SQL  string
	Args []any
}

const bestSellersLimit = 20

// Build строит параметризованный запрос для указанного вида отчёта.
func Build(kind Kind, f Filter) (Query, error) {
	f = f.Normalize()

	switch kind {
	case KindOverview:
		return Query{
			SQL: `SELECT COUNT(DISTINCT master_sku),
			       COALESCE(SUM(quantity_ordered), 0),
			       COALESCE(SUM(sales_ordered), 0)
			FROM sales
			WHERE order_date BETWEEN $1 AND $2`,
			Args: []any{f.Start, f.End},
		}, nil

	case KindBestSellers:
		return Query{
			SQL: `SELECT master_sku,
			       SUM(quantity_ordered) AS units_sold,
			       SUM(sales_ordered) AS revenue,
			       AVG(avg_price) AS avg_price
			FROM sales
			WHERE order_date BETWEEN $1 AND $2
			GROUP BY master_sku
			ORDER BY revenue DESC
			LIMIT $3`,
			Args: []any{f.Start, f.End, bestSellersLimit},
		}, nil

	case KindLaunchPerformance:
		return Query{
			SQL: `SELECT lp.sku,
			       lp.created_at::date AS launch_date,
			       COALESCE(SUM(s.quantity_ordered), 0) AS total_units_sold,
			       COALESCE(SUM(s.sales_ordered), 0) AS total_revenue,
			       COALESCE(AVG(s.avg_price), 0) AS average_price
			FROM launched_products lp
			LEFT JOIN sales s ON lp.sku = s.master_sku
			    AND s.order_date BETWEEN $1 AND $2
			GROUP BY lp.sku, lp.created_at
			ORDER BY lp.created_at ASC, lp.sku ASC`,
			Args: []any{f.Start, f.End},
		}, nil

	case KindLaunchPeriod:
		return Query{
			SQL: `SELECT lp.sku,
			       lp.created_at::date AS launch_date,
			       COALESCE(SUM(s.quantity_ordered), 0) AS units_sold,
			       COALESCE(SUM(s.sales_ordered), 0) AS revenue
			FROM launched_products lp
			LEFT JOIN sales s ON lp.sku = s.master_sku
			WHERE lp.created_at::date BETWEEN $1 AND $2
			GROUP BY lp.sku, lp.created_at
			ORDER BY lp.created_at ASC`,
			Args: []any{f.LaunchStart, f.LaunchEnd},
		}, nil

	case KindWorstSellers, KindSalesTrend, KindSeasonalAnalysis:
		// Виды заявлены в селекторе, но форма запроса для них не определена.
		return Query{}, fmt.Errorf("%w: %s", ErrNotImplemented, kind)
	}

	return Query{}, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
}
