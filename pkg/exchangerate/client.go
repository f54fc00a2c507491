package exchangerate

import (
	"context"
	"net/url"
	"slices"

	"github.com/shopspring/decimal"
)

// Requester performs one provider call. *RequestBuilder implements it.
type Requester interface {
	MakeRequest(ctx context.Context, path string, params url.Values) (*ProviderResponse, error)
}

// Client validates input, queries the provider and converts amounts. Each
// call makes at most one request and keeps nothing afterwards.
type Client struct {
	requests Requester
}

// New returns a Client using requests, or a default RequestBuilder when nil.
func New(requests Requester) *Client {
	if requests == nil {
		requests = NewRequestBuilder(nil)
	}
	return &Client{requests: requests}
}

// Currencies appends the base currency of /latest and then every listed rate
// currency, in response order, to seed. Nothing is deduplicated or sorted.
func (c *Client) Currencies(ctx context.Context, seed []CurrencyCode) ([]CurrencyCode, error) {
	resp, err := c.requests.MakeRequest(ctx, "/latest", url.Values{})
	if err != nil {
		return nil, err
	}
	rates, err := resp.LatestRates()
	if err != nil {
		return nil, err
	}

	out := slices.Clone(seed)
	out = append(out, CurrencyCode(resp.Base))
	out = append(out, rates.Codes()...)
	return out, nil
}

// ExchangeRate returns the from/to rate on date, or the latest rate when date is nil.
func (c *Client) ExchangeRate(ctx context.Context, from, to string, date *Date) (decimal.Decimal, error) {
	base, err := NewCurrencyCode(from)
	if err != nil {
		return decimal.Zero, err
	}
	target, err := NewCurrencyCode(to)
	if err != nil {
		return decimal.Zero, err
	}

	path := "/latest"
	day := ""
	if date != nil {
		if err := ValidateDate(*date); err != nil {
			return decimal.Zero, err
		}
		day = date.String()
		path = "/" + day
	}

	resp, err := c.requests.MakeRequest(ctx, path, url.Values{"base": {base.String()}})
	if err != nil {
		return decimal.Zero, err
	}
	rates, err := resp.LatestRates()
	if err != nil {
		return decimal.Zero, err
	}

	rate, ok := rates.Rate(target)
	if !ok {
		return decimal.Zero, &MissingRateError{Base: base, Target: target, Date: day}
	}
	return rate, nil
}

// ExchangeRateBetweenDateRange returns the daily from/to rates between start
// and end inclusive, merged into seed (provider values win on the same day)
// and sorted ascending by date.
func (c *Client) ExchangeRateBetweenDateRange(
	ctx context.Context,
	from, to string,
	start, end Date,
	seed RateSeries,
) (RateSeries, error) {
	base, err := NewCurrencyCode(from)
	if err != nil {
		return nil, err
	}
	target, err := NewCurrencyCode(to)
	if err != nil {
		return nil, err
	}
	if err := ValidateStartAndEndDates(start, end); err != nil {
		return nil, err
	}

	resp, err := c.requests.MakeRequest(ctx, "/history", url.Values{
		"base":     {base.String()},
		"start_at": {start.String()},
		"end_at":   {end.String()},
		"symbols":  {target.String()},
	})
	if err != nil {
		return nil, err
	}
	days, err := resp.HistoryRates()
	if err != nil {
		return nil, err
	}

	out := slices.Clone(seed)
	for _, day := range days {
		rate, ok := day.Rates.Rate(target)
		if !ok {
			return nil, &MissingRateError{Base: base, Target: target, Date: day.Date.String()}
		}
		out = out.with(day.Date, rate)
	}

	// providers do not guarantee chronological keys
	out.sortByDate()
	return out, nil
}

// Convert multiplies value by the from/to rate (latest when date is nil).
func (c *Client) Convert(ctx context.Context, value int64, from, to string, date *Date) (float64, error) {
	rate, err := c.ExchangeRate(ctx, from, to, date)
	if err != nil {
		return 0, err
	}
	return rate.Mul(decimal.NewFromInt(value)).InexactFloat64(), nil
}

// ConvertBetweenDateRange treats value as minor units of from, multiplies it
// by each daily rate in decimal arithmetic rounded to from's minor unit, and
// returns the amounts merged into seed in ascending date order.
func (c *Client) ConvertBetweenDateRange(
	ctx context.Context,
	value int64,
	from, to string,
	start, end Date,
	seed ConversionSeries,
) (ConversionSeries, error) {
	base, err := NewCurrencyCode(from)
	if err != nil {
		return nil, err
	}
	amount, err := NewMoney(value, base)
	if err != nil {
		return nil, err
	}

	rates, err := c.ExchangeRateBetweenDateRange(ctx, from, to, start, end, nil)
	if err != nil {
		return nil, err
	}

	out := slices.Clone(seed)
	for _, r := range rates {
		out = out.with(r.Date, amount.Multiply(r.Rate))
	}
	out.sortByDate()
	return out, nil
}
