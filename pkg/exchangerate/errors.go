package exchangerate

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// InvalidCurrencyError reports a currency code that is not three letters.
type InvalidCurrencyError struct {
	Code string
}

func (e *InvalidCurrencyError) Error() string {
	return fmt.Sprintf("invalid currency code %q: must be 3 letters", e.Code)
}

// InvalidDateError reports a date outside the provider's range or a reversed range.
type InvalidDateError struct {
	Date   Date
	Reason string
}

func (e *InvalidDateError) Error() string {
	return fmt.Sprintf("invalid date %s: %s", e.Date, e.Reason)
}

// ProviderUnavailableError wraps a transport failure. Context expiry is
// reachable through errors.Is(err, context.DeadlineExceeded) and
// errors.Is(err, context.Canceled).
type ProviderUnavailableError struct {
	Path string
	Err  error
}

func (e *ProviderUnavailableError) Error() string {
	return fmt.Sprintf("provider unavailable (%s): %v", e.Path, e.Err)
}

func (e *ProviderUnavailableError) Unwrap() error { return e.Err }

// Timeout reports whether the request gave up because a deadline passed.
func (e *ProviderUnavailableError) Timeout() bool {
	if errors.Is(e.Err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(e.Err, &netErr) && netErr.Timeout()
}

// ProviderResponseError is returned for a non-2xx status, or for a 2xx body
// that could not be decoded (Err is then set).
type ProviderResponseError struct {
	StatusCode int
	Body       string
	Err        error
}

func (e *ProviderResponseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("provider http %d: %v", e.StatusCode, e.Err)
	}
	return fmt.Sprintf("provider http %d: %s", e.StatusCode, e.Body)
}

func (e *ProviderResponseError) Unwrap() error { return e.Err }

// MissingRateError means a successful response had no rate for the target.
type MissingRateError struct {
	Base   CurrencyCode
	Target CurrencyCode
	Date   string
}

func (e *MissingRateError) Error() string {
	if e.Date == "" {
		return fmt.Sprintf("rate %s/%s missing from provider response", e.Base, e.Target)
	}
	return fmt.Sprintf("rate %s/%s missing from provider response @%s", e.Base, e.Target, e.Date)
}

// UnsupportedCurrencyError means the minor-unit precision of Code is unknown.
type UnsupportedCurrencyError struct {
	Code CurrencyCode
}

func (e *UnsupportedCurrencyError) Error() string {
	return fmt.Sprintf("unsupported currency %s: unknown minor unit", e.Code)
}
