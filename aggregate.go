package main

import (
	"strings"

	"github.com/shopspring/decimal"
)

var minorUnitsPerMajor = decimal.NewFromInt(100)

// aggregateOrders reduces one week of orders plus one rate snapshot into the
// totals and counts of a WeeklySummary. Labels, dates and the previous-week
// link are filled in by the caller.
//
// OrderCount is the length of the fetched sequence; orders with a null total
// or missing currency are silently skipped from revenue and per-currency
// counts but still count there. The USD/EUR/GBP totals are re-derived from
// the accumulated DKK total (one FX basis for reporting) rather than
// re-summed per currency. All four totals are rounded half-up to 2 decimals.
func aggregateOrders(orders []Order, rates RateSnapshot, unknownPolicy string) WeeklySummary {
	var s WeeklySummary
	s.OrderCount = len(orders)

	total := decimal.Zero
	for _, o := range orders {
		if o.Total == nil || o.CurrencyCode == "" {
			continue
		}

		currency := strings.ToUpper(o.CurrencyCode)
		major := decimal.NewFromInt(*o.Total).Div(minorUnitsPerMajor)

		inBase := major
		switch currency {
		case BaseCurrency:
			s.DKKOrders++
		case "USD":
			inBase = major.Div(rates.USDPerDKK)
			s.USDOrders++
		case "EUR":
			inBase = major.Div(rates.EURPerDKK)
			s.EUROrders++
		case "GBP":
			inBase = major.Div(rates.GBPPerDKK)
			s.GBPOrders++
		default:
			if unknownPolicy == UnknownCurrencySkip {
				continue
			}
			// passthrough: the raw major-unit amount lands in base revenue
			// unconverted
		}
		total = total.Add(inBase)
	}

	s.TotalRevenueDKK = total.Round(2)
	s.TotalRevenueUSD = total.Mul(rates.USDPerDKK).Round(2)
	s.TotalRevenueEUR = total.Mul(rates.EURPerDKK).Round(2)
	s.TotalRevenueGBP = total.Mul(rates.GBPPerDKK).Round(2)
	return s
}

// orderRowCurrency and orderRowTotalMajor normalize an order for the raw
// per-order store rows: missing currency becomes "UNKNOWN", a null total
// becomes zero.
func orderRowCurrency(o Order) string {
	if o.CurrencyCode == "" {
		return "UNKNOWN"
	}
	return strings.ToUpper(o.CurrencyCode)
}

func orderRowTotalMajor(o Order) decimal.Decimal {
	if o.Total == nil {
		return decimal.Zero
	}
	return decimal.NewFromInt(*o.Total).Div(minorUnitsPerMajor)
}
