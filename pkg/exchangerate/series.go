package exchangerate

import (
	"slices"

	"github.com/shopspring/decimal"
)

type DatedRate struct {
	Date Date            `json:"date"`
	Rate decimal.Decimal `json:"rate"`
}

// RateSeries is a list of rates kept in ascending date order, at most one per day.
type RateSeries []DatedRate

// Get returns the rate for date.
func (s RateSeries) Get(date Date) (decimal.Decimal, bool) {
	for _, r := range s {
		if r.Date.day().Equal(date.day().Time) {
			return r.Rate, true
		}
	}
	return decimal.Zero, false
}

// with sets the rate for date, replacing an entry for the same day.
func (s RateSeries) with(date Date, rate decimal.Decimal) RateSeries {
	for i := range s {
		if s[i].Date.day().Equal(date.day().Time) {
			s[i].Date = date.day()
			s[i].Rate = rate
			return s
		}
	}
	return append(s, DatedRate{Date: date.day(), Rate: rate})
}

func (s RateSeries) sortByDate() {
	slices.SortStableFunc(s, func(a, b DatedRate) int { return a.Date.day().Compare(b.Date.day().Time) })
}

type DatedAmount struct {
	Date   Date  `json:"date"`
	Amount Money `json:"amount"`
}

// ConversionSeries is a list of converted amounts in ascending date order.
type ConversionSeries []DatedAmount

func (s ConversionSeries) Get(date Date) (Money, bool) {
	for _, a := range s {
		if a.Date.day().Equal(date.day().Time) {
			return a.Amount, true
		}
	}
	return Money{}, false
}

func (s ConversionSeries) with(date Date, amount Money) ConversionSeries {
	for i := range s {
		if s[i].Date.day().Equal(date.day().Time) {
			s[i].Date = date.day()
			s[i].Amount = amount
			return s
		}
	}
	return append(s, DatedAmount{Date: date.day(), Amount: amount})
}

func (s ConversionSeries) sortByDate() {
	slices.SortStableFunc(s, func(a, b DatedAmount) int { return a.Date.day().Compare(b.Date.day().Time) })
}
