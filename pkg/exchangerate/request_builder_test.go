package exchangerate_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"exchange-rates/pkg/exchangerate"
)

type loggedRequest struct {
	path     string
	query    string
	status   *int
	dateAsOf *string
}

type recordingRequestLogger struct {
	mu    sync.Mutex
	calls []loggedRequest
	err   error
}

func (l *recordingRequestLogger) LogRequest(_ context.Context, path, query string, status *int, dateAsOf *string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.calls = append(l.calls, loggedRequest{path: path, query: query, status: status, dateAsOf: dateAsOf})
	return l.err
}

func TestRequestBuilder_MakeRequest_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/latest", r.URL.Path)
		assert.Equal(t, "USD", r.URL.Query().Get("base"))
		assert.Equal(t, "secret", r.URL.Query().Get("access_key"))
		assert.Equal(t, "application/json", r.Header.Get("Accept"))

		w.Header().Set("Content-Type", "application/json")
		_, err := w.Write([]byte(`{"base":"USD","date":"2021-03-01","rates":{"GBP":0.72,"EUR":0.83,"JPY":106.7}}`))
		require.NoError(t, err)
	}))
	defer server.Close()

	builder := exchangerate.NewRequestBuilder(server.Client(),
		exchangerate.WithBaseURL(server.URL+"/"),
		exchangerate.WithAPIKey("secret"),
	)

	resp, err := builder.MakeRequest(context.Background(), "/latest", url.Values{"base": {"USD"}})

	require.NoError(t, err)
	assert.Equal(t, "USD", resp.Base)
	assert.Equal(t, "2021-03-01", resp.Date)

	rates, err := resp.LatestRates()
	require.NoError(t, err)
	assert.Equal(t, []exchangerate.CurrencyCode{"GBP", "EUR", "JPY"}, rates.Codes())
	gbp, ok := rates.Rate("GBP")
	require.True(t, ok)
	assert.Equal(t, "0.72", gbp.String())
}

func TestRequestBuilder_MakeRequest_NoAPIKey(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, present := r.URL.Query()["access_key"]
		assert.False(t, present)
		_, _ = w.Write([]byte(`{"base":"EUR","rates":{}}`))
	}))
	defer server.Close()

	builder := exchangerate.NewRequestBuilder(server.Client(), exchangerate.WithBaseURL(server.URL))

	_, err := builder.MakeRequest(context.Background(), "/latest", nil)
	require.NoError(t, err)
}

func TestRequestBuilder_MakeRequest_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"error":"symbols 'XYZ' are invalid"}`))
	}))
	defer server.Close()

	builder := exchangerate.NewRequestBuilder(server.Client(), exchangerate.WithBaseURL(server.URL))

	resp, err := builder.MakeRequest(context.Background(), "/latest", nil)

	require.Error(t, err)
	assert.Nil(t, resp)

	var respErr *exchangerate.ProviderResponseError
	require.ErrorAs(t, err, &respErr)
	assert.Equal(t, http.StatusUnprocessableEntity, respErr.StatusCode)
	assert.Contains(t, respErr.Body, "symbols 'XYZ' are invalid")
	assert.Contains(t, err.Error(), "422")
}

func TestRequestBuilder_MakeRequest_InvalidJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html>maintenance</html>`))
	}))
	defer server.Close()

	builder := exchangerate.NewRequestBuilder(server.Client(), exchangerate.WithBaseURL(server.URL))

	_, err := builder.MakeRequest(context.Background(), "/latest", nil)

	var respErr *exchangerate.ProviderResponseError
	require.ErrorAs(t, err, &respErr)
	assert.Equal(t, http.StatusOK, respErr.StatusCode)
	assert.Error(t, respErr.Err)
}

func TestRequestBuilder_MakeRequest_TransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	baseURL := server.URL
	server.Close()

	requestLog := &recordingRequestLogger{}
	builder := exchangerate.NewRequestBuilder(nil,
		exchangerate.WithBaseURL(baseURL),
		exchangerate.WithRequestLogger(requestLog),
	)

	_, err := builder.MakeRequest(context.Background(), "/latest", nil)

	var unavailable *exchangerate.ProviderUnavailableError
	require.ErrorAs(t, err, &unavailable)
	assert.Equal(t, "/latest", unavailable.Path)
	assert.False(t, unavailable.Timeout())

	require.Len(t, requestLog.calls, 1)
	assert.Nil(t, requestLog.calls[0].status)
}

func TestRequestBuilder_MakeRequest_Deadline(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer server.Close()

	builder := exchangerate.NewRequestBuilder(server.Client(), exchangerate.WithBaseURL(server.URL))

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := builder.MakeRequest(ctx, "/latest", nil)

	require.Error(t, err)
	assert.True(t, errors.Is(err, context.DeadlineExceeded))

	var unavailable *exchangerate.ProviderUnavailableError
	require.ErrorAs(t, err, &unavailable)
	assert.True(t, unavailable.Timeout())
}

func TestRequestBuilder_MakeRequest_LogsRequests(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"base":"USD","rates":{}}`))
	}))
	defer server.Close()

	requestLog := &recordingRequestLogger{err: errors.New("database is down")}
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)

	builder := exchangerate.NewRequestBuilder(server.Client(),
		exchangerate.WithBaseURL(server.URL),
		exchangerate.WithAPIKey("secret"),
		exchangerate.WithRequestLogger(requestLog),
		exchangerate.WithLogger(logger),
	)

	_, err := builder.MakeRequest(context.Background(), "/2021-03-01", url.Values{"base": {"USD"}})
	require.NoError(t, err)
	_, err = builder.MakeRequest(context.Background(), "/history", url.Values{"start_at": {"2021-02-01"}})
	require.NoError(t, err)

	require.Len(t, requestLog.calls, 2)
	assert.Equal(t, "/2021-03-01", requestLog.calls[0].path)
	assert.Equal(t, "base=USD", requestLog.calls[0].query)
	assert.NotContains(t, requestLog.calls[1].query, "secret")
	require.NotNil(t, requestLog.calls[0].status)
	assert.Equal(t, http.StatusOK, *requestLog.calls[0].status)
	require.NotNil(t, requestLog.calls[0].dateAsOf)
	assert.Equal(t, "2021-03-01", *requestLog.calls[0].dateAsOf)
	require.NotNil(t, requestLog.calls[1].dateAsOf)
	assert.Equal(t, "2021-02-01", *requestLog.calls[1].dateAsOf)

	var warnings int
	for _, entry := range hook.AllEntries() {
		if entry.Level == logrus.WarnLevel {
			warnings++
		}
	}
	assert.Equal(t, 2, warnings)
}
