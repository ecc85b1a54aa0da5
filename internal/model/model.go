// Package model содержит доменные сущности сервиса аналитики продаж.
package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Role описывает роль пользователя в системе.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Valid сообщает, является ли значение одной из двух допустимых ролей.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

// User представляет учётную запись пользователя дашборда.
type User struct {
	ID           int64
	Username     string
	PasswordHash string
	Role         Role
	CreatedAt    time.Time
}

// Sale описывает исторический факт продажи. Записи создаются внешним
// процессом загрузки и никогда не изменяются этим сервисом.
type Sale struct {
	MasterSKU       string
	OrderDate       time.Time
	QuantityOrdered int64
	SalesOrdered    decimal.Decimal
	AvgPrice        decimal.Decimal
}

// LaunchedProduct описывает запись справочника запущенных продуктов.
// Дата запуска — created_at, усечённая до даты.
type LaunchedProduct struct {
	SKU       string
	CreatedAt time.Time
}

// OverviewMetrics содержит сводные показатели отчёта Overview.
type OverviewMetrics struct {
	TotalSKUs    int64
	TotalUnits   int64
	TotalRevenue decimal.Decimal
}

// ProductSales описывает агрегат продаж по одному SKU (отчёт Best Sellers).
type ProductSales struct {
	MasterSKU string
	UnitsSold int64
	Revenue   decimal.Decimal
	AvgPrice  decimal.Decimal
}

// LaunchPerformanceRow описывает строку отчёта Product Performance by Launch
// Date: продукт из справочника с агрегатами продаж за выбранный период,
// заполненными нулями при отсутствии продаж.
type LaunchPerformanceRow struct {
	SKU        string
	LaunchDate time.Time
	UnitsSold  int64
	Revenue    decimal.Decimal
	AvgPrice   decimal.Decimal
}

// LaunchPeriodRow описывает строку отчёта Launch Period Analysis:
// продукт, запущенный в выбранный период, со всеми его продажами.
type LaunchPeriodRow struct {
	SKU        string
	LaunchDate time.Time
	UnitsSold  int64
	Revenue    decimal.Decimal
}
