package exchangerate

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"github.com/shopspring/decimal"
)

// RateTable maps target currencies to rates for one base and one day. It
// remembers the keys exactly as the provider listed them, in order and
// including repeats. Lookups are case-insensitive.
type RateTable struct {
	codes []CurrencyCode
	rates map[CurrencyCode]decimal.Decimal
}

// Codes lists the currencies in response order.
func (t RateTable) Codes() []CurrencyCode {
	return append([]CurrencyCode(nil), t.codes...)
}

func (t RateTable) Rate(code CurrencyCode) (decimal.Decimal, bool) {
	r, ok := t.rates[CurrencyCode(strings.ToUpper(code.String()))]
	return r, ok
}

func (t RateTable) Len() int { return len(t.codes) }

func (t *RateTable) UnmarshalJSON(b []byte) error {
	t.codes = nil
	t.rates = map[CurrencyCode]decimal.Decimal{}

	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(b))
	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("read rates: %w", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("rates: expected object, got %v", tok)
	}

	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("read rate key: %w", err)
		}
		key, _ := tok.(string)

		var rate decimal.Decimal
		if err := dec.Decode(&rate); err != nil {
			return fmt.Errorf("decode rate %q: %w", key, err)
		}

		t.codes = append(t.codes, CurrencyCode(key))
		t.rates[CurrencyCode(strings.ToUpper(key))] = rate
	}

	if _, err := dec.Token(); err != nil {
		return fmt.Errorf("read rates end: %w", err)
	}
	return nil
}

// ProviderResponse is the decoded body of any provider endpoint. Rates stays
// raw because its shape depends on the endpoint.
type ProviderResponse struct {
	Base    string          `json:"base"`
	Date    string          `json:"date,omitempty"`
	StartAt string          `json:"start_at,omitempty"`
	EndAt   string          `json:"end_at,omitempty"`
	Rates   json.RawMessage `json:"rates"`
}

// LatestRates decodes Rates as returned by /latest and /{date}.
func (r *ProviderResponse) LatestRates() (RateTable, error) {
	var t RateTable
	if len(r.Rates) == 0 {
		return RateTable{rates: map[CurrencyCode]decimal.Decimal{}}, nil
	}
	if err := json.Unmarshal(r.Rates, &t); err != nil {
		return RateTable{}, &ProviderResponseError{StatusCode: 200, Body: string(r.Rates), Err: err}
	}
	return t, nil
}

// HistoryDay is one day of a /history response.
type HistoryDay struct {
	Date  Date
	Rates RateTable
}

// HistoryRates decodes Rates as returned by /history. Days come back in
// ascending order whatever order the provider used.
func (r *ProviderResponse) HistoryRates() ([]HistoryDay, error) {
	var raw map[string]RateTable
	if len(r.Rates) > 0 {
		if err := json.Unmarshal(r.Rates, &raw); err != nil {
			return nil, &ProviderResponseError{StatusCode: 200, Body: string(r.Rates), Err: err}
		}
	}

	out := make([]HistoryDay, 0, len(raw))
	for day, table := range raw {
		d, err := ParseDate(day)
		if err != nil {
			return nil, &ProviderResponseError{StatusCode: 200, Body: string(r.Rates), Err: err}
		}
		out = append(out, HistoryDay{Date: d, Rates: table})
	}
	slices.SortFunc(out, func(a, b HistoryDay) int { return a.Date.Compare(b.Date.Time) })
	return out, nil
}
