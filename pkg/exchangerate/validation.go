package exchangerate

// ValidateCurrencyCode fails with *InvalidCurrencyError unless code is
// exactly three ASCII letters.
func ValidateCurrencyCode(code string) error {
	_, err := NewCurrencyCode(code)
	return err
}

// ValidateDate fails with *InvalidDateError when date is after today or
// before MinDate.
func ValidateDate(date Date) error {
	date = date.day()
	if date.After(Today().Time) {
		return &InvalidDateError{Date: date, Reason: "date is in the future"}
	}
	if date.Before(MinDate.Time) {
		return &InvalidDateError{Date: date, Reason: "date is before " + MinDate.String()}
	}
	return nil
}

// ValidateStartAndEndDates validates both days and requires start <= end.
func ValidateStartAndEndDates(start, end Date) error {
	if err := ValidateDate(start); err != nil {
		return err
	}
	if err := ValidateDate(end); err != nil {
		return err
	}
	if start.day().After(end.day().Time) {
		return &InvalidDateError{Date: start, Reason: "start date is after end date " + end.String()}
	}
	return nil
}
