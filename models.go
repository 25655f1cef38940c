package main

import (
	"time"

	"github.com/shopspring/decimal"
)

// BaseCurrency is the reference currency all revenue is normalized into
// before the other currency totals are re-derived.
const BaseCurrency = "DKK"

// Policies for orders whose currency code is none of DKK/USD/EUR/GBP.
// Passthrough keeps the historical behavior: the raw major-unit amount is
// added to base revenue unconverted. Skip excludes it from revenue.
const (
	UnknownCurrencyPassthrough = "passthrough"
	UnknownCurrencySkip        = "skip"
)

// WeekRange is one full calendar week: Start is a Monday 00:00 UTC,
// End is exactly seven days later, Label is the ISO-8601 week of Start.
type WeekRange struct {
	Start time.Time
	End   time.Time
	Label string
}

type Order struct {
	ID           string
	CreatedAt    time.Time
	CurrencyCode string
	Total        *int64 // minor units; nil when the backend returned null
}

// RateSnapshot holds units of foreign currency per 1 DKK, fetched once
// per run for the week-end date.
type RateSnapshot struct {
	USDPerDKK decimal.Decimal
	EURPerDKK decimal.Decimal
	GBPPerDKK decimal.Decimal
}

type WeeklySummary struct {
	WeekLabel string
	StartDate time.Time
	EndDate   time.Time

	TotalRevenueDKK decimal.Decimal
	TotalRevenueUSD decimal.Decimal
	TotalRevenueEUR decimal.Decimal
	TotalRevenueGBP decimal.Decimal

	OrderCount int
	DKKOrders  int
	USDOrders  int
	EUROrders  int
	GBPOrders  int

	PrevWeekRevenueDKK *decimal.Decimal // nil when no prior summary exists
}
