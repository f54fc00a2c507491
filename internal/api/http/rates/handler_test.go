package rates_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	testifymock "github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"exchange-rates/internal/api/http/rates"
	"exchange-rates/pkg/exchangerate"
	"exchange-rates/pkg/exchangerate/mock"
)

func newMux(t *testing.T, requester *mock.MockRequester) *http.ServeMux {
	t.Helper()
	logger, _ := test.NewNullLogger()
	mux := http.NewServeMux()
	rates.New(exchangerate.New(requester), logger).Register(mux)
	return mux
}

func providerResponse(t *testing.T, body string) *exchangerate.ProviderResponse {
	t.Helper()
	var resp exchangerate.ProviderResponse
	require.NoError(t, json.Unmarshal([]byte(body), &resp))
	return &resp
}

func do(mux *http.ServeMux, method, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(method, target, nil))
	return rec
}

func TestHandler_GetRate(t *testing.T) {
	requester := mock.NewMockRequester(t)
	requester.EXPECT().
		MakeRequest(testifymock.Anything, "/2021-03-01", url.Values{"base": {"USD"}}).
		Return(providerResponse(t, `{"base":"USD","rates":{"GBP":0.72}}`), nil).
		Once()

	rec := do(newMux(t, requester), http.MethodGet, "/api/v1/rate?from=usd&to=GBP&date=2021-03-01")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"from":"USD","to":"GBP","date":"2021-03-01","rate":"0.72"}`, rec.Body.String())
}

func TestHandler_GetCurrencies(t *testing.T) {
	requester := mock.NewMockRequester(t)
	requester.EXPECT().
		MakeRequest(testifymock.Anything, "/latest", url.Values{}).
		Return(providerResponse(t, `{"base":"EUR","rates":{"USD":1.19,"GBP":0.86}}`), nil).
		Once()

	rec := do(newMux(t, requester), http.MethodGet, "/api/v1/currencies")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"currencies":["EUR","USD","GBP"]}`, rec.Body.String())
}

func TestHandler_GetConversions(t *testing.T) {
	requester := mock.NewMockRequester(t)
	requester.EXPECT().
		MakeRequest(testifymock.Anything, "/history", testifymock.Anything).
		Return(providerResponse(t, `{"base":"USD","rates":{"2021-03-02":{"GBP":0.81},"2021-03-01":{"GBP":0.80}}}`), nil).
		Once()

	rec := do(newMux(t, requester), http.MethodGet,
		"/api/v1/conversions?value=100&from=USD&to=GBP&start=2021-03-01&end=2021-03-02")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{
		"from":"USD","to":"GBP","value":100,
		"conversions":[{"date":"2021-03-01","amount":0.80},{"date":"2021-03-02","amount":0.81}]
	}`, rec.Body.String())
}

func TestHandler_Errors(t *testing.T) {
	tests := []struct {
		name       string
		target     string
		providerOK bool
		providerFn func() (*exchangerate.ProviderResponse, error)
		wantStatus int
		wantCode   string
	}{
		{
			name:       "invalid currency",
			target:     "/api/v1/rate?from=US&to=GBP",
			wantStatus: http.StatusBadRequest,
			wantCode:   "invalid_currency",
		},
		{
			name:       "unparseable date",
			target:     "/api/v1/rate?from=USD&to=GBP&date=yesterday",
			wantStatus: http.StatusBadRequest,
			wantCode:   "bad_request",
		},
		{
			name:       "reversed range",
			target:     "/api/v1/history?from=USD&to=GBP&start=2021-03-02&end=2021-03-01",
			wantStatus: http.StatusBadRequest,
			wantCode:   "invalid_date",
		},
		{
			name:       "unknown minor unit",
			target:     "/api/v1/conversions?value=1&from=ZZZ&to=GBP&start=2021-03-01&end=2021-03-02",
			wantStatus: http.StatusBadRequest,
			wantCode:   "unsupported_currency",
		},
		{
			name:       "bad value",
			target:     "/api/v1/convert?value=1.5&from=USD&to=GBP",
			wantStatus: http.StatusBadRequest,
			wantCode:   "bad_request",
		},
		{
			name:       "missing rate",
			target:     "/api/v1/convert?value=1&from=USD&to=GBP",
			providerOK: true,
			providerFn: func() (*exchangerate.ProviderResponse, error) {
				return &exchangerate.ProviderResponse{Base: "USD", Rates: json.RawMessage(`{"EUR":0.9}`)}, nil
			},
			wantStatus: http.StatusNotFound,
			wantCode:   "rate_not_available",
		},
		{
			name:       "provider status",
			target:     "/api/v1/rate?from=USD&to=GBP",
			providerOK: true,
			providerFn: func() (*exchangerate.ProviderResponse, error) {
				return nil, &exchangerate.ProviderResponseError{StatusCode: 500, Body: "boom"}
			},
			wantStatus: http.StatusBadGateway,
			wantCode:   "provider_error",
		},
		{
			name:       "provider timeout",
			target:     "/api/v1/rate?from=USD&to=GBP",
			providerOK: true,
			providerFn: func() (*exchangerate.ProviderResponse, error) {
				return nil, &exchangerate.ProviderUnavailableError{Path: "/latest", Err: context.DeadlineExceeded}
			},
			wantStatus: http.StatusGatewayTimeout,
			wantCode:   "provider_timeout",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			requester := mock.NewMockRequester(t)
			if tt.providerOK {
				resp, err := tt.providerFn()
				requester.EXPECT().
					MakeRequest(testifymock.Anything, testifymock.Anything, testifymock.Anything).
					Return(resp, err).
					Once()
			}

			rec := do(newMux(t, requester), http.MethodGet, tt.target)

			require.Equal(t, tt.wantStatus, rec.Code)
			var body struct {
				Code string `json:"code"`
			}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.wantCode, body.Code)
		})
	}
}

func TestHandler_MethodNotAllowed(t *testing.T) {
	rec := do(newMux(t, mock.NewMockRequester(t)), http.MethodPost, "/api/v1/rate?from=USD&to=GBP")

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
