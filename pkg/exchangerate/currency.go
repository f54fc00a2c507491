package exchangerate

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"
)

// CurrencyCode is a 3-letter ISO 4217 code, always stored upper case.
type CurrencyCode string

var currencyCodePattern = regexp.MustCompile(`^[A-Za-z]{3}$`)

// NewCurrencyCode checks the syntax of s and returns it normalized to upper case.
// No registry lookup is done: "ABC" is accepted.
func NewCurrencyCode(s string) (CurrencyCode, error) {
	if !currencyCodePattern.MatchString(s) {
		return "", &InvalidCurrencyError{Code: s}
	}
	return CurrencyCode(strings.ToUpper(s)), nil
}

func (c CurrencyCode) String() string { return string(c) }

func (c CurrencyCode) MarshalJSON() ([]byte, error) {
	return []byte(fmt.Sprintf("%q", c.String())), nil
}

func (c *CurrencyCode) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	s := strings.Trim(string(b), "\"")
	ccy, err := NewCurrencyCode(s)
	if err != nil {
		return err
	}
	*c = ccy
	return nil
}
