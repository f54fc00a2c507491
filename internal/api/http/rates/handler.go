package rates

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"exchange-rates/pkg/exchangerate"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

type Handler struct {
	rates  *exchangerate.Client
	logger logrus.FieldLogger
}

func New(c *exchangerate.Client, l logrus.FieldLogger) *Handler {
	return &Handler{rates: c, logger: l}
}

func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/v1/currencies", h.getCurrencies)
	mux.HandleFunc("GET /api/v1/rate", h.getRate)
	mux.HandleFunc("GET /api/v1/convert", h.getConvert)
	mux.HandleFunc("GET /api/v1/history", h.getHistory)
	mux.HandleFunc("GET /api/v1/conversions", h.getConversions)
}

type businessError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// paramError marks a query parameter that could not be parsed.
type paramError struct {
	name string
	err  error
}

func (e *paramError) Error() string { return fmt.Sprintf("query parameter %s: %v", e.name, e.err) }

type rateResponse struct {
	From string             `json:"from"`
	To   string             `json:"to"`
	Date *exchangerate.Date `json:"date,omitempty"`
	Rate decimal.Decimal    `json:"rate"`
}

type convertResponse struct {
	From   string             `json:"from"`
	To     string             `json:"to"`
	Date   *exchangerate.Date `json:"date,omitempty"`
	Value  int64              `json:"value"`
	Result float64            `json:"result"`
}

type historyResponse struct {
	From  string                  `json:"from"`
	To    string                  `json:"to"`
	Rates exchangerate.RateSeries `json:"rates"`
}

type conversionsResponse struct {
	From        string                        `json:"from"`
	To          string                        `json:"to"`
	Value       int64                         `json:"value"`
	Conversions exchangerate.ConversionSeries `json:"conversions"`
}

func (h *Handler) getCurrencies(w http.ResponseWriter, r *http.Request) {
	out, err := h.rates.Currencies(r.Context(), nil)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, r, map[string][]exchangerate.CurrencyCode{"currencies": out})
}

func (h *Handler) getRate(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	date, err := optionalDate(q.Get("date"))
	if err != nil {
		h.fail(w, r, err)
		return
	}

	rate, err := h.rates.ExchangeRate(r.Context(), q.Get("from"), q.Get("to"), date)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, r, rateResponse{From: upper(q.Get("from")), To: upper(q.Get("to")), Date: date, Rate: rate})
}

func (h *Handler) getConvert(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	value, err := intParam(q.Get("value"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	date, err := optionalDate(q.Get("date"))
	if err != nil {
		h.fail(w, r, err)
		return
	}

	result, err := h.rates.Convert(r.Context(), value, q.Get("from"), q.Get("to"), date)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, r, convertResponse{From: upper(q.Get("from")), To: upper(q.Get("to")), Date: date, Value: value, Result: result})
}

func (h *Handler) getHistory(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	start, end, err := dateRange(q.Get("start"), q.Get("end"))
	if err != nil {
		h.fail(w, r, err)
		return
	}

	series, err := h.rates.ExchangeRateBetweenDateRange(r.Context(), q.Get("from"), q.Get("to"), start, end, nil)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, r, historyResponse{From: upper(q.Get("from")), To: upper(q.Get("to")), Rates: series})
}

func (h *Handler) getConversions(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	value, err := intParam(q.Get("value"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	start, end, err := dateRange(q.Get("start"), q.Get("end"))
	if err != nil {
		h.fail(w, r, err)
		return
	}

	series, err := h.rates.ConvertBetweenDateRange(r.Context(), value, q.Get("from"), q.Get("to"), start, end, nil)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, r, conversionsResponse{From: upper(q.Get("from")), To: upper(q.Get("to")), Value: value, Conversions: series})
}

func (h *Handler) ok(w http.ResponseWriter, r *http.Request, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.logger.WithError(err).WithField("path", r.URL.Path).Error("encode response")
		return
	}
	h.logger.WithFields(logrus.Fields{"path": r.URL.Path, "status": http.StatusOK}).Info("request served")
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	status, code := classify(err)

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(businessError{Code: code, Message: err.Error()})

	entry := h.logger.WithError(err).WithFields(logrus.Fields{"path": r.URL.Path, "status": status})
	if status >= http.StatusInternalServerError {
		entry.Warn("request failed")
	} else {
		entry.Info("request rejected")
	}
}

func classify(err error) (int, string) {
	var (
		param       *paramError
		currency    *exchangerate.InvalidCurrencyError
		date        *exchangerate.InvalidDateError
		unsupported *exchangerate.UnsupportedCurrencyError
		missing     *exchangerate.MissingRateError
		response    *exchangerate.ProviderResponseError
		unavailable *exchangerate.ProviderUnavailableError
	)

	switch {
	case errors.As(err, &param):
		return http.StatusBadRequest, "bad_request"
	case errors.As(err, &currency):
		return http.StatusBadRequest, "invalid_currency"
	case errors.As(err, &date):
		return http.StatusBadRequest, "invalid_date"
	case errors.As(err, &unsupported):
		return http.StatusBadRequest, "unsupported_currency"
	case errors.As(err, &missing):
		return http.StatusNotFound, "rate_not_available"
	case errors.As(err, &response):
		return http.StatusBadGateway, "provider_error"
	case errors.As(err, &unavailable):
		if unavailable.Timeout() {
			return http.StatusGatewayTimeout, "provider_timeout"
		}
		return http.StatusServiceUnavailable, "provider_unavailable"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}

func optionalDate(s string) (*exchangerate.Date, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	d, err := exchangerate.ParseDate(s)
	if err != nil {
		return nil, &paramError{name: "date", err: err}
	}
	return &d, nil
}

func dateRange(start, end string) (exchangerate.Date, exchangerate.Date, error) {
	s, err := exchangerate.ParseDate(start)
	if err != nil {
		return exchangerate.Date{}, exchangerate.Date{}, &paramError{name: "start", err: err}
	}
	e, err := exchangerate.ParseDate(end)
	if err != nil {
		return exchangerate.Date{}, exchangerate.Date{}, &paramError{name: "end", err: err}
	}
	return s, e, nil
}

func intParam(s string) (int64, error) {
	v, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, &paramError{name: "value", err: err}
	}
	return v, nil
}

func upper(s string) string { return strings.ToUpper(strings.TrimSpace(s)) }
