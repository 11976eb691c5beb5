package domain

import "github.com/shopspring/decimal"

// ProductWeeklySales reports units sold for a product in the current week.
type ProductWeeklySales struct {
	Product
	UnitsSold int `json:"units_sold"`
}

// ProductYearlySales reports per-product units and revenue for the current year.
type ProductYearlySales struct {
	Code      string          `json:"code"`
	Name      string          `json:"name"`
	UnitsSold int             `json:"units_sold"`
	Revenue   decimal.Decimal `json:"revenue"`
}

type YearlySalesReport struct {
	Products   []ProductYearlySales `json:"products"`
	TotalUnits int                  `json:"total_units"`
}
